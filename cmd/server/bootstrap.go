package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/api"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/app"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/app/maintenance"
	iauth "github.com/jeffjeff017/jp-travel-webapp-sub001/internal/auth"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/database"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/remote"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/syncstore"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/logger"
)

// runtimeStack bundles long-lived services used by the HTTP server.
type runtimeStack struct {
	DB         *gorm.DB
	REST       *remote.Client
	Registry   *syncstore.Registry
	SessionSvc *iauth.SessionService
	Cleaner    *maintenance.Cleaner
	Router     *gin.Engine
}

// bootstrapRuntime initialises the database, remote store, synced collections
// and the HTTP router.
func bootstrapRuntime(cfg *app.Config, log *zap.Logger) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error
	success := false

	defer func() {
		if !success {
			stack.Shutdown(log)
		}
	}()

	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	stack.DB, err = initialiseDatabase(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Remote.UsesREST() {
		stack.REST, err = remote.NewClient(cfg.Remote.RESTClientConfig())
		if err != nil {
			return nil, fmt.Errorf("initialise remote client: %w", err)
		}
		log.Info("remote row API configured", zap.String("base_url", cfg.Remote.REST.BaseURL))
	}

	local, err := cfg.Cache.BuildCache()
	if err != nil {
		return nil, fmt.Errorf("build local cache: %w", err)
	}

	stack.Registry, err = syncstore.NewRegistry(local, syncstore.Backends{
		DB:   stack.DB,
		REST: stack.REST,
	}, cfg.Sync.RegistryOptions())
	if err != nil {
		return nil, fmt.Errorf("build collection registry: %w", err)
	}

	jwtSvc, err := iauth.NewJWTService(cfg.Auth.JWTServiceConfig())
	if err != nil {
		return nil, fmt.Errorf("initialise jwt service: %w", err)
	}

	stack.SessionSvc, err = iauth.NewSessionService(stack.DB, jwtSvc, cfg.Auth.SessionServiceConfig())
	if err != nil {
		return nil, fmt.Errorf("initialise session service: %w", err)
	}

	stack.Cleaner = maintenance.NewCleaner(stack.SessionSvc, stack.Registry,
		maintenance.WithRefreshSchedule(cfg.Sync.Schedule()))
	if err := stack.Cleaner.Start(); err != nil {
		return nil, fmt.Errorf("start maintenance jobs: %w", err)
	}

	stack.Router, err = api.NewRouter(api.Deps{
		Config:   cfg,
		DB:       stack.DB,
		REST:     stack.REST,
		JWT:      jwtSvc,
		Sessions: stack.SessionSvc,
		Registry: stack.Registry,
	})
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	success = true
	return stack, nil
}

// Shutdown stops background jobs, drains pending remote writes and releases
// resources.
func (s *runtimeStack) Shutdown(log *zap.Logger) {
	if s == nil {
		return
	}

	if s.Cleaner != nil {
		stopCtx := s.Cleaner.Stop()
		if err := s.Cleaner.RunOnce(stopCtx); err != nil {
			log.Warn("maintenance shutdown cleanup failed", zap.Error(err))
		}
	}

	// Optimistic writes still in flight must reach the remote before the
	// process exits.
	if s.Registry != nil {
		s.Registry.FlushAll()
	}

	if s.DB != nil {
		closeDatabase(s.DB, log)
	}
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database.ConnectionConfig()
	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.AutoMigrateAndSeed(db); err != nil {
		return nil, fmt.Errorf("auto-migrate database: %w", err)
	}

	log := logger.WithModule("database")
	log.Info("database connected", zap.String("driver", strings.ToLower(strings.TrimSpace(dbCfg.Driver))))

	return db, nil
}

func closeDatabase(db *gorm.DB, log *zap.Logger) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("failed to obtain underlying sql DB for closing", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Warn("failed to close database", zap.Error(err))
	}
}
