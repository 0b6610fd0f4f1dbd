package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/clippings/internal/config"
	"github.com/mrlokans/clippings/internal/services"
	"github.com/mrlokans/clippings/internal/tui"
)

// PickCommand lets the user tick titles in the terminal, then exports them.
type PickCommand struct {
	ClippingsPath string
	OutputDir     string
	DatabasePath  string

	Out io.Writer
}

func NewPickCommand() *PickCommand {
	return &PickCommand{}
}

func (cmd *PickCommand) ParseFlags(args []string) error {
	cfg := config.NewConfig()
	fs := flag.NewFlagSet("pick", flag.ContinueOnError)

	fs.StringVar(&cmd.ClippingsPath, "file", cfg.Clippings.SourcePath, "Path to Kindle 'My Clippings.txt' file (required unless CLIPPINGS_PATH is set)")
	fs.StringVar(&cmd.OutputDir, "output", cfg.Clippings.OutputDir, "Existing directory the text files are written to (required unless CLIPPINGS_OUTPUT_DIR is set)")
	fs.StringVar(&cmd.DatabasePath, "db", cfg.Database.Path, "Database for export history (empty disables history)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s pick -file <path> -output <dir>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Choose titles in an interactive checklist and export them.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.ClippingsPath == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	if cmd.OutputDir == "" {
		return fmt.Errorf("required flag -output not provided")
	}
	return nil
}

func (cmd *PickCommand) Run() error {
	out := output(cmd.Out)

	outputDir, err := absPath(cmd.OutputDir, "output")
	if err != nil {
		return err
	}

	svc, closeDB := openHighlights(cmd.DatabasePath, "cli")
	defer closeDB()

	state := services.NewAppState()
	if err := state.Load(svc, cmd.ClippingsPath); err != nil {
		return err
	}
	state.OutputDir = outputDir

	if state.Library.Len() == 0 {
		fmt.Fprintln(out, "No highlights found in clippings file")
		return nil
	}

	confirmed, err := tui.Run(state)
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Fprintln(out, "Cancelled, nothing exported")
		return nil
	}

	result, err := state.Export(svc)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Exported %d titles (%d highlights) to %s\n", result.BooksProcessed, result.HighlightsProcessed, outputDir)
	return nil
}
