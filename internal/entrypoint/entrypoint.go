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

	"github.com/studyhall/companion/internal/config"
	"github.com/studyhall/companion/internal/connectivity"
	"github.com/studyhall/companion/internal/database"
	"github.com/studyhall/companion/internal/database/pending"
	"github.com/studyhall/companion/internal/database/settings"
	"github.com/studyhall/companion/internal/database/synclog"
	http_controllers "github.com/studyhall/companion/internal/http"
	"github.com/studyhall/companion/internal/identity"
	"github.com/studyhall/companion/internal/producer"
	"github.com/studyhall/companion/internal/remote"
	"github.com/studyhall/companion/internal/scheduler"
	"github.com/studyhall/companion/internal/syncer"
	"github.com/studyhall/companion/internal/tasks"
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
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM. SIGKILL cannot be caught,
	// so it is not registered.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the sync engine and task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Companion v%s", version)

	if cfg.Remote.BaseURL == "" {
		log.Printf("WARNING: remote base URL is not set. Submissions will queue locally until REMOTE_BASE_URL is configured and the app restarts.")
	}
	if cfg.Identity.UserID == "" || cfg.Identity.Token == "" {
		log.Printf("WARNING: USER_ID or API_TOKEN is not set. Sync is disabled until credentials are configured.")
	}

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Repositories over the shared store
	pendingRepo := pending.NewRepository(db.DB)
	synclogRepo := synclog.NewRepository(db.DB)
	settingsRepo := settings.NewRepository(db.DB)

	// Identity and the learning service client
	provider := identity.NewStaticProvider(cfg.Identity.UserID, cfg.Identity.Token)
	remoteClient := remote.NewClient(cfg.Remote.BaseURL, provider, cfg.Remote.Timeout)

	// Connectivity monitor: fed by the UI signal endpoint and, when
	// configured, an active probe against the learning service.
	monitor := connectivity.NewMonitor(cfg.Connectivity.AssumeOnline)
	defer monitor.Stop()

	probeURL := cfg.Connectivity.ProbeURL
	if probeURL == "" {
		probeURL = cfg.Remote.BaseURL
	}
	if cfg.Connectivity.ProbeEnabled && probeURL != "" {
		monitor.StartProbe(context.Background(), probeURL, cfg.Connectivity.ProbeInterval)
		log.Printf("Connectivity probe enabled against %s every %v", probeURL, cfg.Connectivity.ProbeInterval)
	}

	// Sync engine
	orchestrator := syncer.NewOrchestrator(pendingRepo, synclogRepo, settingsRepo, remoteClient, monitor, provider)
	orchestrator.Start(context.Background())
	defer orchestrator.Stop()

	recorder := producer.NewRecorder(pendingRepo, remoteClient, monitor, provider)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewCleanupSyncLogQueue(synclogRepo),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Background schedules: periodic sync trigger and the retention sweep
	sched := scheduler.New(orchestrator, taskClient, scheduler.Config{
		SyncEnabled:     cfg.Sync.Enabled,
		SyncSchedule:    cfg.Sync.Schedule,
		CleanupSchedule: cfg.SyncLog.CleanupSchedule,
		RetentionDays:   cfg.SyncLog.RetentionDays,
	})
	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Database:     db,
		SyncEngine:   orchestrator,
		SyncLogs:     synclogRepo,
		Connectivity: monitor,
		Recorder:     recorder,
		Version:      version,
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		sched.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
