package entities

import "time"

type AuditEventType string

const (
	AuditEventParse  AuditEventType = "parse"
	AuditEventExport AuditEventType = "export"
	AuditEventSync   AuditEventType = "sync"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

// AuditEvent records one parse, export or sync run. Highlight text is never stored.
type AuditEvent struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	RunID        string         `gorm:"index;size:36" json:"run_id"`
	EventType    AuditEventType `gorm:"index;size:20" json:"event_type"`
	Action       string         `gorm:"size:100" json:"action"` // e.g., "cli_export", "web_export"
	SourcePath   string         `gorm:"size:1024" json:"source_path,omitempty"`
	OutputDir    string         `gorm:"size:1024" json:"output_dir,omitempty"`
	TitlesCount  int            `json:"titles_count"`
	RecordsCount int            `json:"records_count"`
	FilesWritten int            `json:"files_written"`
	Status       AuditStatus    `gorm:"size:20" json:"status"`
	ErrorMsg     string         `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
