package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mrlokans/clippings/internal/config"
	"github.com/mrlokans/clippings/internal/exporters"
	"github.com/mrlokans/clippings/internal/services"
)

// ExportCommand writes the chosen titles of a clippings file as text files.
type ExportCommand struct {
	ClippingsPath string
	OutputDir     string
	DatabasePath  string
	Titles        titleList
	All           bool
	DryRun        bool

	Out io.Writer
}

func NewExportCommand() *ExportCommand {
	return &ExportCommand{}
}

func (cmd *ExportCommand) ParseFlags(args []string) error {
	cfg := config.NewConfig()
	fs := flag.NewFlagSet("export", flag.ContinueOnError)

	fs.StringVar(&cmd.ClippingsPath, "file", cfg.Clippings.SourcePath, "Path to Kindle 'My Clippings.txt' file (required unless CLIPPINGS_PATH is set)")
	fs.StringVar(&cmd.OutputDir, "output", cfg.Clippings.OutputDir, "Existing directory the text files are written to (required unless CLIPPINGS_OUTPUT_DIR is set)")
	fs.StringVar(&cmd.DatabasePath, "db", cfg.Database.Path, "Database for export history (empty disables history)")
	fs.Var(&cmd.Titles, "title", "Title to export, exactly as listed (repeatable)")
	fs.BoolVar(&cmd.All, "all", false, "Export every title")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Show what would be written without writing files")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export -file <path> -output <dir> (-all | -title <title>...)\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export highlights into one '<title>.txt' file per book.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s export -file \"My Clippings.txt\" -output ~/Highlights -all\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s export -file \"My Clippings.txt\" -output ~/Highlights -title \"The Hobbit\" -dry-run\n", os.Args[0])
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
	if cmd.All && len(cmd.Titles) > 0 {
		return fmt.Errorf("-all and -title cannot be combined")
	}
	return nil
}

func (cmd *ExportCommand) Run() error {
	out := output(cmd.Out)

	outputDir, err := absPath(cmd.OutputDir, "output")
	if err != nil {
		return err
	}

	dbPath := cmd.DatabasePath
	if cmd.DryRun {
		dbPath = ""
	}
	svc, closeDB := openHighlights(dbPath, "cli")
	defer closeDB()

	state := services.NewAppState()
	if err := state.Load(svc, cmd.ClippingsPath); err != nil {
		return err
	}
	state.OutputDir = outputDir

	if cmd.All {
		state.SelectAll()
	}
	for _, title := range cmd.Titles {
		if !state.Library.Has(title) {
			fmt.Fprintf(out, "[WARN] title not found: %q\n", title)
			continue
		}
		state.Select(title)
	}

	if cmd.DryRun {
		selected := state.SelectedTitles()
		if len(selected) == 0 {
			return exporters.ErrNoSelection
		}
		fmt.Fprintln(out, "DRY RUN MODE - No files will be written")
		for _, title := range selected {
			fmt.Fprintf(out, "  %s (%d highlights) -> %s\n",
				title, len(state.Library.Records(title)), filepath.Join(outputDir, exporters.Filename(title)))
		}
		return nil
	}

	result, err := state.Export(svc)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Exported %d titles (%d highlights) to %s\n", result.BooksProcessed, result.HighlightsProcessed, outputDir)
	for _, file := range result.Files {
		fmt.Fprintf(out, "  %s\n", file)
	}
	if len(result.Collisions) > 0 {
		fmt.Fprintf(out, "\n%d titles shared a file name with an earlier title and overwrote it:\n", len(result.Collisions))
		for _, title := range result.Collisions {
			fmt.Fprintf(out, "  [WARN] %s\n", title)
		}
	}
	return nil
}
