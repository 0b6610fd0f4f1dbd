package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/clippings/internal/entities"
	"github.com/mrlokans/clippings/internal/exporters"
	"github.com/mrlokans/clippings/internal/testutil"
)

func TestListCommand(t *testing.T) {
	t.Run("requires file", func(t *testing.T) {
		assert.ErrorContains(t, NewListCommand().ParseFlags(nil), "-file")
	})

	t.Run("prints titles in order", func(t *testing.T) {
		var out bytes.Buffer
		cmd := NewListCommand()
		require.NoError(t, cmd.ParseFlags([]string{"-file", testutil.WriteClippings(t, testutil.SampleClippings), "-verbose"}))
		cmd.Out = &out

		require.NoError(t, cmd.Run())

		text := out.String()
		assert.Contains(t, text, "Found 2 titles with 2 highlights")
		assert.Contains(t, text, "1. Book One (1 highlights)")
		assert.Contains(t, text, "2. Book Two: A Subtitle (1 highlights)")
		assert.Contains(t, text, "-> Book Two A Subtitle.txt")
		assert.Contains(t, text, "Too short: 1")
	})

	t.Run("missing file", func(t *testing.T) {
		cmd := &ListCommand{ClippingsPath: filepath.Join(t.TempDir(), "missing.txt"), Out: &bytes.Buffer{}}
		assert.ErrorIs(t, cmd.Run(), os.ErrNotExist)
	})
}

func TestExportCommand_ParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		err  string
	}{
		{name: "no file", args: []string{"-output", "/out"}, err: "-file"},
		{name: "no output", args: []string{"-file", "in.txt"}, err: "-output"},
		{name: "all with titles", args: []string{"-file", "in.txt", "-output", "/out", "-all", "-title", "A"}, err: "cannot be combined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorContains(t, NewExportCommand().ParseFlags(tt.args), tt.err)
		})
	}

	t.Run("repeated titles", func(t *testing.T) {
		cmd := NewExportCommand()
		require.NoError(t, cmd.ParseFlags([]string{"-file", "in.txt", "-output", "/out", "-title", "A", "-title", "B"}))
		assert.Equal(t, titleList{"A", "B"}, cmd.Titles)
	})
}

func TestExportCommand_Run(t *testing.T) {
	source := testutil.WriteClippings(t, testutil.SampleClippings)

	t.Run("exports chosen title and records history", func(t *testing.T) {
		dir := t.TempDir()
		dbPath := filepath.Join(t.TempDir(), "history.db")
		var out bytes.Buffer
		cmd := &ExportCommand{
			ClippingsPath: source,
			OutputDir:     dir,
			DatabasePath:  dbPath,
			Titles:        titleList{"Book One", "Nope"},
			Out:           &out,
		}

		require.NoError(t, cmd.Run())

		assert.Contains(t, out.String(), `[WARN] title not found: "Nope"`)
		assert.Contains(t, out.String(), "Exported 1 titles (1 highlights)")
		assert.FileExists(t, filepath.Join(dir, "Book One.txt"))
		assert.NoFileExists(t, filepath.Join(dir, "Book Two A Subtitle.txt"))

		db := testutil.TestDBAt(t, dbPath)
		var actions []string
		require.NoError(t, db.DB.Model(&entities.AuditEvent{}).Order("id").Pluck("action", &actions).Error)
		assert.Equal(t, []string{"cli_parse", "cli_export"}, actions)
	})

	t.Run("dry run writes nothing", func(t *testing.T) {
		dir := t.TempDir()
		var out bytes.Buffer
		cmd := &ExportCommand{ClippingsPath: source, OutputDir: dir, All: true, DryRun: true, Out: &out}

		require.NoError(t, cmd.Run())

		assert.Contains(t, out.String(), "DRY RUN MODE")
		assert.Contains(t, out.String(), filepath.Join(dir, "Book Two A Subtitle.txt"))
		entries, _ := os.ReadDir(dir)
		assert.Empty(t, entries)
	})

	t.Run("only unknown titles is an empty selection", func(t *testing.T) {
		cmd := &ExportCommand{ClippingsPath: source, OutputDir: t.TempDir(), Titles: titleList{"Nope"}, Out: &bytes.Buffer{}}
		assert.ErrorIs(t, cmd.Run(), exporters.ErrNoSelection)
	})

	t.Run("missing output directory", func(t *testing.T) {
		cmd := &ExportCommand{ClippingsPath: source, OutputDir: filepath.Join(t.TempDir(), "missing"), All: true, Out: &bytes.Buffer{}}
		assert.ErrorIs(t, cmd.Run(), os.ErrNotExist)
	})
}

func TestSyncCommand(t *testing.T) {
	t.Run("rejects invalid schedule", func(t *testing.T) {
		err := NewSyncCommand().ParseFlags([]string{"-file", "in.txt", "-output", "/out", "-schedule", "hourly"})
		assert.ErrorContains(t, err, "invalid -schedule")
	})

	t.Run("defaults to hourly", func(t *testing.T) {
		cmd := NewSyncCommand()
		require.NoError(t, cmd.ParseFlags([]string{"-file", "in.txt", "-output", "/out"}))
		assert.Equal(t, "0 * * * *", cmd.Schedule)
	})

	t.Run("once exports every title", func(t *testing.T) {
		dir := t.TempDir()
		var out bytes.Buffer
		cmd := &SyncCommand{
			ClippingsPath: testutil.WriteClippings(t, testutil.SampleClippings),
			OutputDir:     dir,
			Schedule:      "0 * * * *",
			Once:          true,
			Out:           &out,
		}

		require.NoError(t, cmd.RunContext(context.Background()))
		assert.Contains(t, out.String(), "Synced 2 titles (2 files)")
		assert.FileExists(t, filepath.Join(dir, "Book One.txt"))
	})

	t.Run("scheduled run stops with context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		cmd := &SyncCommand{
			ClippingsPath: testutil.WriteClippings(t, testutil.SampleClippings),
			OutputDir:     t.TempDir(),
			Schedule:      "0 * * * *",
			Out:           &bytes.Buffer{},
		}
		assert.NoError(t, cmd.RunContext(ctx))
	})
}

func TestPickCommand_ParseFlags(t *testing.T) {
	assert.ErrorContains(t, NewPickCommand().ParseFlags([]string{"-file", "in.txt"}), "-output")

	cmd := NewPickCommand()
	require.NoError(t, cmd.ParseFlags([]string{"-file", "in.txt", "-output", "/out", "-db", ""}))
	assert.Empty(t, cmd.DatabasePath)
}

func TestParseFlags_DefaultsFromEnvironment(t *testing.T) {
	t.Setenv("CLIPPINGS_PATH", "/kindle/My Clippings.txt")
	t.Setenv("CLIPPINGS_OUTPUT_DIR", "/highlights")
	t.Setenv("DATABASE_PATH", "/data/history.db")
	t.Setenv("SYNC_SCHEDULE", "*/30 * * * *")

	t.Run("export needs no flags", func(t *testing.T) {
		cmd := NewExportCommand()
		require.NoError(t, cmd.ParseFlags([]string{"-all"}))
		assert.Equal(t, "/kindle/My Clippings.txt", cmd.ClippingsPath)
		assert.Equal(t, "/highlights", cmd.OutputDir)
		assert.Equal(t, "/data/history.db", cmd.DatabasePath)
	})

	t.Run("flags override environment", func(t *testing.T) {
		cmd := NewExportCommand()
		require.NoError(t, cmd.ParseFlags([]string{"-file", "in.txt", "-output", "/out", "-db", "", "-all"}))
		assert.Equal(t, "in.txt", cmd.ClippingsPath)
		assert.Equal(t, "/out", cmd.OutputDir)
		assert.Empty(t, cmd.DatabasePath)
	})

	t.Run("list", func(t *testing.T) {
		cmd := NewListCommand()
		require.NoError(t, cmd.ParseFlags(nil))
		assert.Equal(t, "/kindle/My Clippings.txt", cmd.ClippingsPath)
	})

	t.Run("pick", func(t *testing.T) {
		cmd := NewPickCommand()
		require.NoError(t, cmd.ParseFlags(nil))
		assert.Equal(t, "/highlights", cmd.OutputDir)
		assert.Equal(t, "/data/history.db", cmd.DatabasePath)
	})

	t.Run("sync", func(t *testing.T) {
		cmd := NewSyncCommand()
		require.NoError(t, cmd.ParseFlags(nil))
		assert.Equal(t, "*/30 * * * *", cmd.Schedule)
		assert.Equal(t, "/kindle/My Clippings.txt", cmd.ClippingsPath)
	})
}

func TestParseFlags_RequiredWithoutEnvironment(t *testing.T) {
	t.Setenv("CLIPPINGS_PATH", "")
	t.Setenv("CLIPPINGS_OUTPUT_DIR", "")

	assert.ErrorContains(t, NewListCommand().ParseFlags(nil), "-file")
	assert.ErrorContains(t, NewSyncCommand().ParseFlags([]string{"-file", "in.txt"}), "-output")
}
