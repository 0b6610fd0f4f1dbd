package exporters

import (
	"errors"

	"github.com/mrlokans/clippings/internal/entities"
)

var (
	// ErrNoSelection is returned when an export is requested without any title.
	ErrNoSelection = errors.New("no titles selected")
	// ErrNoOutputDir is returned when no output directory was chosen.
	ErrNoOutputDir = errors.New("no output directory selected")
)

type BookExporter interface {
	Export(lib *entities.Library, selected []string) (ExportResult, error)
}

type ExportResult struct {
	BooksProcessed      int      `json:"books_processed"`
	HighlightsProcessed int      `json:"highlights_processed"`
	FilesWritten        int      `json:"files_written"`
	Files               []string `json:"files,omitempty"`
	Collisions          []string `json:"collisions,omitempty"` // titles that overwrote an earlier file of this run
	Skipped             []string `json:"skipped,omitempty"`    // selected titles not in the library
}
