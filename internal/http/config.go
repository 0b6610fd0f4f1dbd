package http

import (
	"github.com/mrlokans/clippings/internal/audit"
	"github.com/mrlokans/clippings/internal/config"
	"github.com/mrlokans/clippings/internal/database"
	"github.com/mrlokans/clippings/internal/services"
	"github.com/mrlokans/clippings/internal/session"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Highlights *services.HighlightsService
	Database   *database.Database
	Audit      *audit.Service

	// Web UI state; UI routes are registered only when set
	SessionManager *session.SessionManager

	// CSRF protection for the HTML forms; disabled when empty
	CSRFSecret    []byte
	SecureCookies bool

	// Paths offered before the user picks their own
	Defaults config.Clippings

	// Application info
	Version string
}
