package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/anandkhari/nfcstudio/config"
	"github.com/anandkhari/nfcstudio/internal/application"
	"github.com/anandkhari/nfcstudio/internal/container"
	"github.com/anandkhari/nfcstudio/internal/infrastructure/nfcapi"
	"github.com/anandkhari/nfcstudio/internal/infrastructure/staging"
	"github.com/anandkhari/nfcstudio/internal/interface/middleware"
	"github.com/anandkhari/nfcstudio/internal/render"
	"github.com/anandkhari/nfcstudio/internal/router"
	"github.com/anandkhari/nfcstudio/pkg/helpers"
	"github.com/anandkhari/nfcstudio/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	// Redis (rate limiting)
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	// Upstream NFC API client
	api := nfcapi.NewClient(cfg.APIBaseURL, cfg.UpstreamTimeout, logger)

	// Staging area for uploads awaiting save
	store, err := staging.NewStore(cfg.StagingDir, cfg.MaxFileSizeBytes(), logger)
	if err != nil {
		log.Fatalf("failed to init staging store: %v", err)
	}

	// Draft sessions
	sessions := helpers.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL)
	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)
	drafts := application.NewDraftService(api, store, logger)

	renderer, err := render.New()
	if err != nil {
		log.Fatalf("failed to parse templates: %v", err)
	}

	// Provide infra singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetRedis(rdb)
	container.SetAPI(api)
	container.SetStaging(store)
	container.SetSessions(sessions)
	container.SetCookies(cookies)
	container.SetDrafts(drafts)
	container.SetRenderer(renderer)

	// Periodically drop staged files whose session never saved
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go func() {
		ticker := time.NewTicker(cfg.StagingMaxAge / 2)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				store.Sweep(cfg.StagingMaxAge)
			}
		}
	}()

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	// CORS
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}
