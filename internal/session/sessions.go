package session

import (
	"context"
	"database/sql"
	"encoding/gob"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/clippings/internal/config"
)

// Session data keys
const (
	KeySourcePath = "source_path"
	KeyOutputDir  = "output_dir"
	KeySelected   = "selected_titles"
	KeyFlash      = "flash"
)

// Flash kinds
const (
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashError   = "error"
)

func init() {
	// Register types that will be stored in sessions
	gob.Register([]string{})
	gob.Register(Flash{})
}

// Flash is a one-shot message shown on the next page render.
type Flash struct {
	Kind    string
	Message string
}

// UIState is the part of the web UI state kept between requests. The
// parsed library is not stored; it is rebuilt from SourcePath.
type UIState struct {
	SourcePath string
	OutputDir  string
	Selected   []string
}

// SessionManager wraps scs.SessionManager with application-specific methods.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a configured session manager.
// The sqlDB parameter should be the underlying *sql.DB from GORM.
func NewSessionManager(sqlDB *sql.DB, cfg config.Session) (*SessionManager, error) {
	// Create sessions table if it doesn't exist
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)

	if cfg.Lifetime > 0 {
		sm.Lifetime = cfg.Lifetime
		sm.IdleTimeout = cfg.Lifetime / 2
	}

	sm.Cookie.Name = "clippings_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// LoadState returns the UI state stored in the request's session.
func (sm *SessionManager) LoadState(ctx context.Context) UIState {
	selected, _ := sm.Get(ctx, KeySelected).([]string)
	return UIState{
		SourcePath: sm.GetString(ctx, KeySourcePath),
		OutputDir:  sm.GetString(ctx, KeyOutputDir),
		Selected:   selected,
	}
}

// SaveState replaces the UI state stored in the request's session.
func (sm *SessionManager) SaveState(ctx context.Context, state UIState) {
	sm.Put(ctx, KeySourcePath, state.SourcePath)
	sm.Put(ctx, KeyOutputDir, state.OutputDir)
	if len(state.Selected) == 0 {
		sm.Remove(ctx, KeySelected)
		return
	}
	sm.Put(ctx, KeySelected, state.Selected)
}

// PutFlash queues a message for the next page render.
func (sm *SessionManager) PutFlash(ctx context.Context, kind, message string) {
	sm.Put(ctx, KeyFlash, Flash{Kind: kind, Message: message})
}

// PopFlash returns and clears the queued message, if any.
func (sm *SessionManager) PopFlash(ctx context.Context) *Flash {
	flash, ok := sm.Pop(ctx, KeyFlash).(Flash)
	if !ok {
		return nil
	}
	return &flash
}
