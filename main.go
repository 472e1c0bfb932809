package main

import (
	"fmt"
	"os"

	"github.com/studyhall/companion/internal/cli"
	"github.com/studyhall/companion/internal/config"
	"github.com/studyhall/companion/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "sync-now":
		cmd := cli.NewSyncNowCommand()
		if err := cmd.ParseFlags(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := cmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "logs":
		cmd := cli.NewLogsCommand()
		if err := cmd.ParseFlags(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := cmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "version":
		fmt.Printf("companion %s (%s)\n", Version, Commit)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("Usage: %s [command] [options]\n\n", os.Args[0])
	fmt.Println("Commands:")
	fmt.Println("  serve       Run the local HTTP server (default)")
	fmt.Println("  sync-now    Drain the offline submission queue once and exit")
	fmt.Println("  logs        Show recent sync activity")
	fmt.Println("  version     Print version information")
	fmt.Println("  help        Show this help message")
	fmt.Println()
	fmt.Printf("Run '%s <command> -h' for command-specific options.\n", os.Args[0])
}
