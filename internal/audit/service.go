package audit

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/clippings/internal/database/audit"
	"github.com/mrlokans/clippings/internal/entities"
)

// Service records parse, export and sync runs. A nil *Service discards events.
type Service struct {
	repo *audit.Repository
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// NewRunID returns an identifier tying together the events of one run.
func NewRunID() string {
	return uuid.New().String()
}

// Log records a generic audit event. Failures are logged, not returned,
// so history problems never fail a parse or an export.
func (s *Service) Log(event *entities.AuditEvent) {
	if s == nil {
		return
	}
	if err := s.repo.LogEvent(event); err != nil {
		log.Printf("Failed to log audit event: %v", err)
	}
}

// LogParse records a parse of sourcePath.
func (s *Service) LogParse(runID, action, sourcePath string, titles, records int, err error) {
	event := &entities.AuditEvent{
		RunID:        runID,
		EventType:    entities.AuditEventParse,
		Action:       action,
		SourcePath:   sourcePath,
		TitlesCount:  titles,
		RecordsCount: records,
		Status:       entities.AuditStatusSuccess,
	}
	markFailed(event, err)
	s.Log(event)
}

// LogExport records an export into outputDir.
func (s *Service) LogExport(runID, action, outputDir string, titles, records, files int, err error) {
	event := &entities.AuditEvent{
		RunID:        runID,
		EventType:    entities.AuditEventExport,
		Action:       action,
		OutputDir:    outputDir,
		TitlesCount:  titles,
		RecordsCount: records,
		FilesWritten: files,
		Status:       entities.AuditStatusSuccess,
	}
	markFailed(event, err)
	s.Log(event)
}

// LogSync records one scheduled sync run.
func (s *Service) LogSync(runID, sourcePath, outputDir string, files int, err error) {
	event := &entities.AuditEvent{
		RunID:        runID,
		EventType:    entities.AuditEventSync,
		Action:       "scheduled_sync",
		SourcePath:   sourcePath,
		OutputDir:    outputDir,
		FilesWritten: files,
		Status:       entities.AuditStatusSuccess,
	}
	markFailed(event, err)
	s.Log(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(limit, offset)
}

// GetEventsByType retrieves audit events filtered by type.
func (s *Service) GetEventsByType(eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEventsByType(eventType, limit, offset)
}

// Cleanup removes events older than retentionDays. Zero or negative keeps everything.
func (s *Service) Cleanup(retentionDays int) (int64, error) {
	if s == nil || retentionDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return s.repo.DeleteOldEvents(cutoff)
}

func markFailed(event *entities.AuditEvent, err error) {
	if err == nil {
		return
	}
	event.Status = entities.AuditStatusFailed
	event.ErrorMsg = truncate(err.Error(), 500)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
