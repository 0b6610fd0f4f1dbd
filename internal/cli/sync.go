package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrlokans/clippings/internal/config"
	"github.com/mrlokans/clippings/internal/scheduler"
)

// SyncCommand re-exports every title of a clippings file on a cron schedule.
type SyncCommand struct {
	ClippingsPath string
	OutputDir     string
	DatabasePath  string
	Schedule      string
	Once          bool

	Out io.Writer
}

func NewSyncCommand() *SyncCommand {
	return &SyncCommand{}
}

func (cmd *SyncCommand) ParseFlags(args []string) error {
	cfg := config.NewConfig()
	fs := flag.NewFlagSet("sync", flag.ContinueOnError)

	fs.StringVar(&cmd.ClippingsPath, "file", cfg.Clippings.SourcePath, "Path to Kindle 'My Clippings.txt' file (required unless CLIPPINGS_PATH is set)")
	fs.StringVar(&cmd.OutputDir, "output", cfg.Clippings.OutputDir, "Existing directory the text files are written to (required unless CLIPPINGS_OUTPUT_DIR is set)")
	fs.StringVar(&cmd.DatabasePath, "db", cfg.Database.Path, "Database for export history (empty disables history)")
	fs.StringVar(&cmd.Schedule, "schedule", cfg.Sync.Schedule, "5-field cron schedule")
	fs.BoolVar(&cmd.Once, "once", false, "Run a single sync and exit")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s sync -file <path> -output <dir> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export every title on a schedule until interrupted.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Every 30 minutes from a mounted Kindle:\n")
		fmt.Fprintf(os.Stderr, "  %s sync -file \"/Volumes/Kindle/documents/My Clippings.txt\" -output ~/Highlights -schedule \"*/30 * * * *\"\n", os.Args[0])
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
	if err := scheduler.ValidateCronSchedule(cmd.Schedule); err != nil {
		return fmt.Errorf("invalid -schedule %q: %w", cmd.Schedule, err)
	}
	return nil
}

func (cmd *SyncCommand) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return cmd.RunContext(ctx)
}

// RunContext runs until ctx is cancelled, or once when -once is set.
func (cmd *SyncCommand) RunContext(ctx context.Context) error {
	out := output(cmd.Out)

	outputDir, err := absPath(cmd.OutputDir, "output")
	if err != nil {
		return err
	}

	svc, closeDB := openHighlights(cmd.DatabasePath, "sync")
	defer closeDB()

	s := scheduler.NewExportSyncScheduler(scheduler.SyncConfig{
		SourcePath: cmd.ClippingsPath,
		OutputDir:  outputDir,
		Schedule:   cmd.Schedule,
	}, svc, svc.Audit())

	if cmd.Once {
		result, err := s.RunNow()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Synced %d titles (%d files) to %s\n", result.Titles, result.FilesWritten, outputDir)
		return nil
	}

	if err := s.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintf(out, "Syncing %s to %s (%s). Press Ctrl+C to stop.\n",
		cmd.ClippingsPath, outputDir, scheduler.CronDescription(cmd.Schedule))

	<-ctx.Done()
	s.Stop()
	return nil
}
