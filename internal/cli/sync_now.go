package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/studyhall/companion/internal/config"
	"github.com/studyhall/companion/internal/connectivity"
	"github.com/studyhall/companion/internal/database"
	"github.com/studyhall/companion/internal/database/pending"
	"github.com/studyhall/companion/internal/database/settings"
	"github.com/studyhall/companion/internal/database/synclog"
	"github.com/studyhall/companion/internal/identity"
	"github.com/studyhall/companion/internal/remote"
	"github.com/studyhall/companion/internal/syncer"
)

// SyncNowCommand drains the offline submission queue once and exits.
type SyncNowCommand struct {
	DatabasePath string
	RemoteURL    string
	Timeout      time.Duration
	Verbose      bool
}

// NewSyncNowCommand creates a new SyncNowCommand
func NewSyncNowCommand() *SyncNowCommand {
	return &SyncNowCommand{}
}

// ParseFlags parses command line flags
func (cmd *SyncNowCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("sync-now", flag.ExitOnError)

	cfg := config.NewConfig()

	fs.StringVar(&cmd.DatabasePath, "db", cfg.Database.Path, "Path to the local database file")
	fs.StringVar(&cmd.RemoteURL, "remote", cfg.Remote.BaseURL, "Learning service base URL")
	fs.DurationVar(&cmd.Timeout, "timeout", 2*time.Minute, "Overall time budget for the drain")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s sync-now [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Drain the offline submission queue against the learning service.\n\n")
		fmt.Fprintf(os.Stderr, "This command:\n")
		fmt.Fprintf(os.Stderr, "  1. Reads every pending lesson completion and quiz answer\n")
		fmt.Fprintf(os.Stderr, "  2. Attempts each submission once against the learning service\n")
		fmt.Fprintf(os.Stderr, "  3. Removes delivered records; failed ones stay queued for retry\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s sync-now\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s sync-now -db ./companion.db -remote https://api.example.com\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	return nil
}

// Run executes the sync command
func (cmd *SyncNowCommand) Run() error {
	fmt.Println("🔄 Companion Sync")
	fmt.Println("=================")

	if cmd.RemoteURL == "" {
		return fmt.Errorf("learning service base URL is not set (use -remote or REMOTE_BASE_URL)")
	}

	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	cmd.DatabasePath = absDBPath

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	fmt.Printf("📁 Database: %s\n", cmd.DatabasePath)
	fmt.Printf("🌐 Remote:   %s\n", cmd.RemoteURL)

	cfg := config.NewConfig()
	provider := identity.NewStaticProvider(cfg.Identity.UserID, cfg.Identity.Token)
	if !provider.IsAuthenticated() {
		return fmt.Errorf("not authenticated (set USER_ID and API_TOKEN)")
	}

	pendingRepo := pending.NewRepository(db.DB)
	counts, err := pendingRepo.Counts()
	if err != nil {
		return fmt.Errorf("failed to read pending counts: %w", err)
	}

	if counts.Total() == 0 {
		fmt.Println("\n✅ Nothing to sync, queue is empty")
		return nil
	}
	fmt.Printf("📬 Pending: %d lesson completions, %d quiz answers\n", counts.Progress, counts.Quiz)

	remoteClient := remote.NewClient(cmd.RemoteURL, provider, cfg.Remote.Timeout)
	monitor := connectivity.NewMonitor(true)
	orchestrator := syncer.NewOrchestrator(
		pendingRepo,
		synclog.NewRepository(db.DB),
		settings.NewRepository(db.DB),
		remoteClient,
		monitor,
		provider,
	)

	ctx, cancel := context.WithTimeout(context.Background(), cmd.Timeout)
	defer cancel()

	if !orchestrator.SyncNow(ctx) {
		return fmt.Errorf("sync did not start")
	}

	after, err := pendingRepo.Counts()
	if err != nil {
		return fmt.Errorf("failed to read pending counts: %w", err)
	}

	delivered := counts.Total() - after.Total()
	fmt.Printf("\n📤 Delivered %d of %d submissions\n", delivered, counts.Total())
	if after.Total() > 0 {
		fmt.Printf("⚠️  %d submissions still queued (will retry on the next sync)\n", after.Total())
	} else {
		fmt.Println("✅ Queue drained!")
	}

	return nil
}
