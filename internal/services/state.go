package services

import (
	"strings"

	"github.com/mrlokans/clippings/internal/entities"
	"github.com/mrlokans/clippings/internal/exporters"
	"github.com/mrlokans/clippings/internal/kindle"
)

// AppState is what an interactive front end holds between user actions:
// the chosen file and folder, the library parsed from the file and the
// titles the user ticked.
type AppState struct {
	SourcePath string
	OutputDir  string
	Library    *entities.Library
	Stats      kindle.Stats

	runID    string
	selected map[string]bool
}

func NewAppState() *AppState {
	return &AppState{selected: make(map[string]bool)}
}

// Load parses path and replaces the library. The selection is cleared.
func (s *AppState) Load(svc *HighlightsService, path string) error {
	result, err := svc.Load(path)
	if err != nil {
		return err
	}
	s.SourcePath = path
	s.Library = result.Library
	s.Stats = result.Stats
	s.runID = result.RunID
	s.selected = make(map[string]bool)
	return nil
}

// Restore rebuilds a state saved between requests: it re-reads sourcePath
// and re-applies the selection. Titles no longer in the file are dropped.
// A blank sourcePath yields a state with no library.
func Restore(svc *HighlightsService, sourcePath, outputDir string, selected []string) (*AppState, error) {
	s := NewAppState()
	s.OutputDir = outputDir
	if strings.TrimSpace(sourcePath) == "" {
		return s, nil
	}

	result, err := svc.Reload(sourcePath)
	if err != nil {
		return s, err
	}
	s.SourcePath = sourcePath
	s.Library = result.Library
	s.Stats = result.Stats
	for _, title := range selected {
		s.Select(title)
	}
	return s, nil
}

// Titles returns the titles of the loaded library, or nil before Load.
func (s *AppState) Titles() []string {
	if s.Library == nil {
		return nil
	}
	return s.Library.Titles()
}

// Select marks title as selected. Unknown titles are ignored.
func (s *AppState) Select(title string) {
	if s.Library == nil || !s.Library.Has(title) {
		return
	}
	s.selected[title] = true
}

func (s *AppState) Deselect(title string) {
	delete(s.selected, title)
}

// Toggle flips the selection of title and reports the new state.
func (s *AppState) Toggle(title string) bool {
	if s.selected[title] {
		s.Deselect(title)
		return false
	}
	s.Select(title)
	return s.selected[title]
}

func (s *AppState) SelectAll() {
	for _, title := range s.Titles() {
		s.selected[title] = true
	}
}

func (s *AppState) ClearSelection() {
	s.selected = make(map[string]bool)
}

func (s *AppState) IsSelected(title string) bool {
	return s.selected[title]
}

// SelectedTitles returns the selected titles in library order.
func (s *AppState) SelectedTitles() []string {
	var titles []string
	for _, title := range s.Titles() {
		if s.selected[title] {
			titles = append(titles, title)
		}
	}
	return titles
}

// Export writes the selected titles. Missing file, missing folder and an
// empty selection are reported in that order before anything is written.
func (s *AppState) Export(svc *HighlightsService) (exporters.ExportResult, error) {
	if strings.TrimSpace(s.SourcePath) == "" || s.Library == nil {
		return exporters.ExportResult{}, ErrNoSource
	}
	if strings.TrimSpace(s.OutputDir) == "" {
		return exporters.ExportResult{}, exporters.ErrNoOutputDir
	}
	selected := s.SelectedTitles()
	if len(selected) == 0 {
		return exporters.ExportResult{}, exporters.ErrNoSelection
	}
	return svc.Export(s.runID, s.Library, selected, s.OutputDir)
}
