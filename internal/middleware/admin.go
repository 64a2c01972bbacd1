package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/models"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/syncstore"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/errors"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/response"
)

// RequireAdmin restricts a route to admin travelers. The flag is looked up
// through the travelers collection rather than baked into the token, so
// promoting or demoting a traveler takes effect without re-login.
func RequireAdmin(travelers *syncstore.Collection[models.User]) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(CtxUserIDKey)
		if userID == "" {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		for _, traveler := range travelers.Read(c.Request.Context()) {
			if traveler.ID == userID {
				if traveler.IsAdmin {
					c.Next()
					return
				}
				break
			}
		}

		response.Error(c, errors.ErrForbidden)
		c.Abort()
	}
}
