package services

import (
	"errors"
	"log"
	"strings"

	"github.com/mrlokans/clippings/internal/audit"
	"github.com/mrlokans/clippings/internal/entities"
	"github.com/mrlokans/clippings/internal/exporters"
	"github.com/mrlokans/clippings/internal/kindle"
)

// ErrNoSource is returned when no clippings file was chosen.
var ErrNoSource = errors.New("no clippings file selected")

// IsUserWarning reports whether err is a missing-input condition the caller
// should show as a warning rather than a failure.
func IsUserWarning(err error) bool {
	return errors.Is(err, ErrNoSource) ||
		errors.Is(err, exporters.ErrNoOutputDir) ||
		errors.Is(err, exporters.ErrNoSelection)
}

// HighlightsService runs the two core operations, parse and export, and
// records each run in the audit trail.
type HighlightsService struct {
	parser *kindle.Parser
	audit  *audit.Service
	action string
}

// NewHighlightsService creates a service; action names the caller in the
// audit trail ("cli", "web", ...). auditService may be nil.
func NewHighlightsService(auditService *audit.Service, action string) *HighlightsService {
	return &HighlightsService{
		parser: kindle.NewParser(),
		audit:  auditService,
		action: action,
	}
}

// Audit returns the audit service runs are recorded with, possibly nil.
func (s *HighlightsService) Audit() *audit.Service {
	return s.audit
}

// LoadResult is a freshly parsed library with its parser counters.
type LoadResult struct {
	RunID   string
	Library *entities.Library
	Stats   kindle.Stats
}

// Load parses the clippings file at path into a new library.
func (s *HighlightsService) Load(path string) (*LoadResult, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrNoSource
	}

	runID := audit.NewRunID()
	lib, stats, err := s.parser.ParseFile(path)
	if err != nil {
		s.audit.LogParse(runID, s.action+"_parse", path, 0, 0, err)
		return nil, err
	}

	log.Printf("Parsed %s: %d titles, %d highlights", path, lib.Len(), lib.RecordCount())
	s.audit.LogParse(runID, s.action+"_parse", path, lib.Len(), lib.RecordCount(), nil)

	return &LoadResult{RunID: runID, Library: lib, Stats: stats}, nil
}

// Reload parses path again for a caller that already recorded its Load,
// such as the web UI rebuilding its state on each request. It is not audited.
func (s *HighlightsService) Reload(path string) (*LoadResult, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrNoSource
	}
	lib, stats, err := s.parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return &LoadResult{Library: lib, Stats: stats}, nil
}

// Export writes the selected titles of lib into outputDir.
func (s *HighlightsService) Export(runID string, lib *entities.Library, selected []string, outputDir string) (exporters.ExportResult, error) {
	if runID == "" {
		runID = audit.NewRunID()
	}

	result, err := exporters.NewTextExporter(outputDir).Export(lib, selected)
	if IsUserWarning(err) {
		return result, err
	}

	s.audit.LogExport(runID, s.action+"_export", outputDir, result.BooksProcessed, result.HighlightsProcessed, result.FilesWritten, err)
	if err != nil {
		return result, err
	}

	log.Printf("Exported %d titles to %s", result.BooksProcessed, outputDir)
	return result, nil
}
