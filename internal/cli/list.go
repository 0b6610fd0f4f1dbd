package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/clippings/internal/config"
	"github.com/mrlokans/clippings/internal/exporters"
	"github.com/mrlokans/clippings/internal/services"
)

// ListCommand prints the titles found in a clippings file.
type ListCommand struct {
	ClippingsPath string
	Verbose       bool

	Out io.Writer
}

func NewListCommand() *ListCommand {
	return &ListCommand{}
}

func (cmd *ListCommand) ParseFlags(args []string) error {
	cfg := config.NewConfig()
	fs := flag.NewFlagSet("list", flag.ContinueOnError)

	fs.StringVar(&cmd.ClippingsPath, "file", cfg.Clippings.SourcePath, "Path to Kindle 'My Clippings.txt' file (required unless CLIPPINGS_PATH is set)")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Show parser counters and export file names")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s list -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List the titles in a Kindle 'My Clippings.txt' file with their highlight counts.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.ClippingsPath == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	return nil
}

func (cmd *ListCommand) Run() error {
	out := output(cmd.Out)

	state := services.NewAppState()
	if err := state.Load(services.NewHighlightsService(nil, "cli"), cmd.ClippingsPath); err != nil {
		return err
	}

	if state.Library.Len() == 0 {
		fmt.Fprintln(out, "No highlights found in clippings file")
		return nil
	}

	fmt.Fprintf(out, "Found %d titles with %d highlights\n\n", state.Library.Len(), state.Library.RecordCount())
	for i, title := range state.Titles() {
		fmt.Fprintf(out, "%d. %s (%d highlights)\n", i+1, title, len(state.Library.Records(title)))
		if cmd.Verbose {
			fmt.Fprintf(out, "   -> %s\n", exporters.Filename(title))
		}
	}

	if cmd.Verbose {
		stats := state.Stats
		fmt.Fprintln(out, "\n=== Parser Summary ===")
		fmt.Fprintf(out, "Highlight entries: %d\n", stats.Highlights)
		fmt.Fprintf(out, "Kept: %d\n", stats.Records)
		fmt.Fprintf(out, "Too short: %d\n", stats.ShortDropped)
		fmt.Fprintf(out, "Notes skipped: %d\n", stats.Notes)
		fmt.Fprintf(out, "Bookmarks skipped: %d\n", stats.Bookmarks)
		fmt.Fprintf(out, "Unterminated at end of file: %d\n", stats.Unterminated)
	}
	return nil
}
