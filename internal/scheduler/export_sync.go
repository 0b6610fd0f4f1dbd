package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/clippings/internal/audit"
	"github.com/mrlokans/clippings/internal/exporters"
	"github.com/mrlokans/clippings/internal/services"
)

// ErrSyncInProgress is returned by RunNow while another run is still writing.
var ErrSyncInProgress = errors.New("sync already in progress")

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// SyncConfig names the clippings file to re-read and the directory every
// title is exported to on each run.
type SyncConfig struct {
	SourcePath string
	OutputDir  string
	Schedule   string // 5-field cron expression
}

// SyncResult describes one completed run.
type SyncResult struct {
	RunID    string
	Titles   int
	Duration time.Duration
	exporters.ExportResult
}

// ExportSyncScheduler periodically exports every title of a clippings file.
type ExportSyncScheduler struct {
	cfg          SyncConfig
	highlights   *services.HighlightsService
	auditService *audit.Service

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc

	syncing atomic.Bool
}

// NewExportSyncScheduler creates a new scheduler instance. auditService may be nil.
func NewExportSyncScheduler(cfg SyncConfig, highlights *services.HighlightsService, auditService *audit.Service) *ExportSyncScheduler {
	return &ExportSyncScheduler{
		cfg:          cfg,
		highlights:   highlights,
		auditService: auditService,
		cron:         cron.New(cron.WithParser(cronParser)),
	}
}

// Start schedules the sync job. It stops when ctx is cancelled or Stop is called.
func (s *ExportSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if strings.TrimSpace(s.cfg.SourcePath) == "" {
		return services.ErrNoSource
	}
	if strings.TrimSpace(s.cfg.OutputDir) == "" {
		return exporters.ErrNoOutputDir
	}
	if err := ValidateCronSchedule(s.cfg.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.cfg.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		if _, err := s.runSync(); err != nil && !errors.Is(err, ErrSyncInProgress) {
			log.Printf("Export sync: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sync job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := GetNextRunTime(s.cfg.Schedule)
	log.Printf("Export sync scheduler: started with schedule '%s' (%s). Next run: %v",
		s.cfg.Schedule,
		CronDescription(s.cfg.Schedule),
		nextRun)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running export to finish.
func (s *ExportSyncScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	cancel := s.cancelFunc
	s.isRunning = false
	s.cancelFunc = nil
	if cancel != nil {
		cancel()
	}

	log.Printf("Export sync scheduler: stopped")
}

// RunNow runs a sync immediately and waits for it.
func (s *ExportSyncScheduler) RunNow() (*SyncResult, error) {
	return s.runSync()
}

// IsRunning returns whether the scheduler is active
func (s *ExportSyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// IsSyncing returns whether a sync is currently in progress
func (s *ExportSyncScheduler) IsSyncing() bool {
	return s.syncing.Load()
}

// NextRun returns when the next sync will occur, or nil when stopped.
func (s *ExportSyncScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runSync re-reads the clippings file and exports every title. A run that
// starts while another is writing is skipped.
func (s *ExportSyncScheduler) runSync() (*SyncResult, error) {
	if !s.syncing.CompareAndSwap(false, true) {
		log.Printf("Export sync: skipped, previous run still in progress")
		return nil, ErrSyncInProgress
	}
	defer s.syncing.Store(false)

	startTime := time.Now()
	log.Printf("Export sync: exporting %s to %s", s.cfg.SourcePath, s.cfg.OutputDir)

	loaded, err := s.highlights.Load(s.cfg.SourcePath)
	if err != nil {
		s.auditService.LogSync(audit.NewRunID(), s.cfg.SourcePath, s.cfg.OutputDir, 0, err)
		return nil, fmt.Errorf("failed to read clippings: %w", err)
	}

	result := &SyncResult{RunID: loaded.RunID, Titles: loaded.Library.Len()}
	if loaded.Library.Len() == 0 {
		log.Printf("Export sync: no highlights to export")
		result.Duration = time.Since(startTime)
		s.auditService.LogSync(loaded.RunID, s.cfg.SourcePath, s.cfg.OutputDir, 0, nil)
		return result, nil
	}

	exported, err := s.highlights.Export(loaded.RunID, loaded.Library, loaded.Library.Titles(), s.cfg.OutputDir)
	result.ExportResult = exported
	result.Duration = time.Since(startTime)
	s.auditService.LogSync(loaded.RunID, s.cfg.SourcePath, s.cfg.OutputDir, exported.FilesWritten, err)
	if err != nil {
		return result, fmt.Errorf("export failed: %w", err)
	}

	log.Printf("Export sync: wrote %d files (%d highlights) in %v",
		exported.FilesWritten, exported.HighlightsProcessed, result.Duration.Round(time.Millisecond))
	return result, nil
}

// ValidateCronSchedule validates a 5-field cron schedule string
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// GetNextRunTime calculates when the next sync will run based on the schedule
func GetNextRunTime(schedule string) (*time.Time, error) {
	sched, err := cronParser.Parse(schedule)
	if err != nil {
		return nil, err
	}
	next := sched.Next(time.Now())
	return &next, nil
}

// CronDescription returns a human-readable description of a cron schedule
func CronDescription(schedule string) string {
	switch schedule {
	case "0 * * * *":
		return "Every hour at :00"
	case "*/15 * * * *":
		return "Every 15 minutes"
	case "*/30 * * * *":
		return "Every 30 minutes"
	case "0 */6 * * *":
		return "Every 6 hours"
	case "0 0 * * *":
		return "Daily at midnight"
	default:
		return "Custom schedule: " + schedule
	}
}
