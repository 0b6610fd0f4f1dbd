package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/clippings/internal/cli"
	"github.com/mrlokans/clippings/internal/config"
	"github.com/mrlokans/clippings/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

type command interface {
	ParseFlags(args []string) error
	Run() error
}

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	name := os.Args[1]
	args := os.Args[2:]

	var cmd command
	switch name {
	case "list":
		cmd = cli.NewListCommand()
	case "export":
		cmd = cli.NewExportCommand()
	case "pick":
		cmd = cli.NewPickCommand()
	case "sync":
		cmd = cli.NewSyncCommand()
	case "version":
		fmt.Printf("clippings %s (%s)\n", Version, Commit)
		return
	case "-h", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	if err := cmd.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve     Start the web UI (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  list      List the titles in a Kindle 'My Clippings.txt'\n")
	fmt.Fprintf(os.Stderr, "  export    Export titles to one text file per book\n")
	fmt.Fprintf(os.Stderr, "  pick      Choose titles in the terminal and export them\n")
	fmt.Fprintf(os.Stderr, "  sync      Export every title on a cron schedule\n")
	fmt.Fprintf(os.Stderr, "  version   Print version information\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
