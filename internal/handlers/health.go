package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/remote"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/response"
)

// Health returns a simple status payload useful for liveness checks.
func Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	}
}

// Ready reports whether the remote store behind the synced collections is
// reachable. The planner still works read-only from cache when it is not, so
// a failed check reports degraded with 503 rather than killing the process.
func Ready(db *gorm.DB, rest *remote.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := requestContext(c)

		checks := gin.H{}
		healthy := true

		if rest != nil {
			if err := rest.Ping(ctx); err != nil {
				checks["remote"] = "unreachable"
				healthy = false
			} else {
				checks["remote"] = "ok"
			}
		} else if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(ctx)
			}
			if err != nil {
				checks["database"] = "unreachable"
				healthy = false
			} else {
				checks["database"] = "ok"
			}
		}

		status := http.StatusOK
		state := "ready"
		if !healthy {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}

		c.JSON(status, response.Response{
			Success: healthy,
			Data:    gin.H{"status": state, "checks": checks},
		})
	}
}
