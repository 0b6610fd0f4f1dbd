package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/clippings/internal/audit"
	"github.com/mrlokans/clippings/internal/config"
	"github.com/mrlokans/clippings/internal/database"
	auditRepo "github.com/mrlokans/clippings/internal/database/audit"
	http_controllers "github.com/mrlokans/clippings/internal/http"
	"github.com/mrlokans/clippings/internal/scheduler"
	"github.com/mrlokans/clippings/internal/services"
	"github.com/mrlokans/clippings/internal/session"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at http://%s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Clippings v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	auditService := audit.NewService(auditRepo.NewRepository(db.DB))
	if deleted, err := auditService.Cleanup(cfg.Audit.RetentionDays); err != nil {
		log.Printf("WARNING: Failed to clean up export history: %v", err)
	} else if deleted > 0 {
		log.Printf("Removed %d export history entries older than %d days", deleted, cfg.Audit.RetentionDays)
	}

	sqlDB, err := db.SQLDB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}
	sessionManager, err := session.NewSessionManager(sqlDB, cfg.Session)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	var csrfSecret []byte
	if cfg.Session.Secret != "" {
		csrfSecret = session.DecodeSecret(cfg.Session.Secret)
	} else {
		secret, err := session.GenerateSecret()
		if err != nil {
			log.Fatalf("Failed to generate CSRF secret: %v", err)
		}
		csrfSecret = session.DecodeSecret(secret)
		log.Printf("Generated session secret (set SESSION_SECRET to persist)")
	}

	highlights := services.NewHighlightsService(auditService, "web")

	var syncScheduler *scheduler.ExportSyncScheduler
	if cfg.Sync.Enabled {
		syncScheduler = scheduler.NewExportSyncScheduler(scheduler.SyncConfig{
			SourcePath: cfg.Clippings.SourcePath,
			OutputDir:  cfg.Clippings.OutputDir,
			Schedule:   cfg.Sync.Schedule,
		}, services.NewHighlightsService(auditService, "sync"), auditService)
		if err := syncScheduler.Start(context.Background()); err != nil {
			log.Printf("WARNING: Export sync disabled: %v", err)
			syncScheduler = nil
		}
	} else {
		log.Printf("Export sync scheduler: disabled")
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Highlights:     highlights,
		Database:       db,
		Audit:          auditService,
		SessionManager: sessionManager,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Session.SecureCookies,
		Defaults:       cfg.Clippings,
		Version:        version,
	})

	onShutdown := func(ctx context.Context) {
		if syncScheduler != nil {
			syncScheduler.Stop()
		}
	}

	Serve(router, cfg, onShutdown)
}
