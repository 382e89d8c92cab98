package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/auth"
	"github.com/mrlokans/library/internal/config"
	http_controllers "github.com/mrlokans/library/internal/http"
	"github.com/mrlokans/library/internal/metrics"
	"github.com/mrlokans/library/internal/scheduler"
	"github.com/mrlokans/library/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	// Background work stops after the last request has been served.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

// csrfSecret decodes AUTH_SESSION_SECRET, or generates a secret that lives
// only as long as the process.
func csrfSecret(configured string) ([]byte, error) {
	if configured != "" {
		secret, err := hex.DecodeString(configured)
		if err != nil {
			// Not hex, use as raw bytes
			return []byte(configured), nil
		}
		return secret, nil
	}

	generated, err := auth.GenerateSessionSecret()
	if err != nil {
		return nil, err
	}
	log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
	return hex.DecodeString(generated)
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Library v%s", version)

	app, err := NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	if err := app.EnsureAdmin(); err != nil {
		log.Fatalf("Failed to create administrator: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.SeedCatalogOnce(ctx); err != nil {
		log.Printf("WARNING: Catalog seed failed: %v", err)
	}

	// Task queue and audit retention schedule
	var taskClient *tasks.Client
	var retention *scheduler.AuditRetentionScheduler
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.FromAppConfig(cfg.Tasks))
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(tasks.NewPurgeAuditQueue(app.Audit))
		taskClient.Start(ctx)

		retention = scheduler.NewAuditRetentionScheduler(taskClient, cfg.Audit.CleanupSchedule, cfg.Audit.RetentionDays)
		if err := retention.Start(ctx); err != nil {
			log.Printf("WARNING: Audit retention schedule disabled: %v", err)
		}
	}

	// Sessions, CSRF and the per-request identity
	sqlDB, err := app.DB.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}
	secret, err := csrfSecret(cfg.Auth.SessionSecret)
	if err != nil {
		log.Fatalf("Failed to generate CSRF secret: %v", err)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		m.RegisterOpenCheckouts(func() (int64, error) {
			return app.Checkouts.CountOpen(context.Background())
		})
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Version:        version,
		Database:       app.DB,
		Catalog:        app.Catalog,
		Ledger:         app.Ledger,
		Settings:       app.Settings,
		AuthService:    app.Auth,
		SessionManager: sessionManager,
		AuthMiddleware: auth.NewMiddleware(app.Auth, sessionManager),
		CSRFSecret:     secret,
		SecureCookies:  cfg.Auth.SecureCookies,
		Audit:          app.Audit,
		Metrics:        m,
	})

	onShutdown := func(ctx context.Context) {
		if retention != nil {
			retention.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
		}
		cancel()
	}

	Serve(router, cfg, onShutdown)
}
