package exporters

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrlokans/clippings/internal/entities"
	"github.com/mrlokans/clippings/internal/utils"
)

const textFileExtension = ".txt"

// TextExporter writes one plain-text file per selected title into OutputDir.
type TextExporter struct {
	OutputDir string
}

func NewTextExporter(outputDir string) *TextExporter {
	return &TextExporter{OutputDir: outputDir}
}

// GenerateText renders records in the export layout. Fields are written as-is.
func GenerateText(records []entities.Record) string {
	var builder strings.Builder
	for _, record := range records {
		fmt.Fprintf(&builder, "Date: %s\n\n%s\n\n---\n\n", record.Date, record.Text)
	}
	return builder.String()
}

// Filename returns the export file name for a title.
func Filename(title string) string {
	name := utils.SanitizeFilename(title)
	if name == "" {
		name = entities.UntitledBook
	}
	return name + textFileExtension
}

func (exporter *TextExporter) ensureDir() error {
	info, err := os.Stat(exporter.OutputDir)
	if err != nil {
		return fmt.Errorf("output directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output directory %s is not a directory", exporter.OutputDir)
	}
	return nil
}

// Export writes the selected titles in library order. Existing files are
// overwritten; titles that sanitize to the same name overwrite each other.
func (exporter *TextExporter) Export(lib *entities.Library, selected []string) (ExportResult, error) {
	result := ExportResult{}

	if strings.TrimSpace(exporter.OutputDir) == "" {
		return result, ErrNoOutputDir
	}
	if len(selected) == 0 {
		return result, ErrNoSelection
	}
	if err := exporter.ensureDir(); err != nil {
		return result, err
	}

	wanted := make(map[string]bool, len(selected))
	for _, title := range selected {
		if wanted[title] {
			continue
		}
		wanted[title] = true
		if lib == nil || !lib.Has(title) {
			result.Skipped = append(result.Skipped, title)
		}
	}
	if lib == nil {
		return result, nil
	}

	written := make(map[string]string)
	for _, title := range lib.Titles() {
		if !wanted[title] {
			continue
		}

		records := lib.Records(title)
		outputPath := filepath.Join(exporter.OutputDir, Filename(title))

		if previous, exists := written[outputPath]; exists {
			log.Printf("WARNING: %q and %q both export to %s, keeping the later one", previous, title, outputPath)
			result.Collisions = append(result.Collisions, title)
		}

		if err := os.WriteFile(outputPath, []byte(GenerateText(records)), 0644); err != nil {
			result.FilesWritten = len(result.Files)
			return result, fmt.Errorf("failed to write %s: %w", outputPath, err)
		}

		if _, exists := written[outputPath]; !exists {
			result.Files = append(result.Files, outputPath)
		}
		written[outputPath] = title
		result.BooksProcessed++
		result.HighlightsProcessed += len(records)
	}
	result.FilesWritten = len(result.Files)

	return result, nil
}
