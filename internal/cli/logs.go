package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/studyhall/companion/internal/config"
	"github.com/studyhall/companion/internal/database"
	"github.com/studyhall/companion/internal/database/synclog"
	"github.com/studyhall/companion/internal/entities"
)

// LogsCommand prints recent sync activity log entries.
type LogsCommand struct {
	DatabasePath string
	Limit        int
}

// NewLogsCommand creates a new LogsCommand
func NewLogsCommand() *LogsCommand {
	return &LogsCommand{}
}

// ParseFlags parses command line flags
func (cmd *LogsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("logs", flag.ExitOnError)

	cfg := config.NewConfig()

	fs.StringVar(&cmd.DatabasePath, "db", cfg.Database.Path, "Path to the local database file")
	fs.IntVar(&cmd.Limit, "limit", 50, "Maximum number of entries to show")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s logs [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Show recent sync activity, most recent first.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s logs\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s logs -limit 10\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	return nil
}

// Run executes the logs command
func (cmd *LogsCommand) Run() error {
	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	db, err := database.NewDatabase(absDBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	entries, err := synclog.NewRepository(db.DB).Recent(cmd.Limit)
	if err != nil {
		return fmt.Errorf("failed to read sync log: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("ℹ️  No sync activity recorded")
		return nil
	}

	fmt.Printf("📋 Last %d sync log entries:\n\n", len(entries))
	for _, entry := range entries {
		icon := "✅"
		if entry.Status == entities.SyncLogStatusFailed {
			icon = "❌"
		}
		fmt.Printf("  %s %s  %-8s  %s\n",
			icon,
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
			entry.Type,
			entry.Details)
	}

	return nil
}
