package http

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/clippings/internal/config"
	"github.com/mrlokans/clippings/internal/kindle"
	"github.com/mrlokans/clippings/internal/services"
	"github.com/mrlokans/clippings/internal/session"
)

// UIController serves the single-page web UI. The chosen file, folder and
// selection live in the session; the library is re-read on each request.
type UIController struct {
	highlights *services.HighlightsService
	sessions   *session.SessionManager
	defaults   config.Clippings
}

func NewUIController(highlights *services.HighlightsService, sessions *session.SessionManager, defaults config.Clippings) *UIController {
	return &UIController{
		highlights: highlights,
		sessions:   sessions,
		defaults:   defaults,
	}
}

type bookRow struct {
	Title    string
	Count    int
	Selected bool
}

// restore rebuilds the AppState of the current session, falling back to the
// configured paths when the user has not chosen any.
func (controller *UIController) restore(c *gin.Context) (*services.AppState, error) {
	saved := controller.sessions.LoadState(c.Request.Context())
	if saved.SourcePath == "" {
		saved.SourcePath = controller.defaults.SourcePath
	}
	if saved.OutputDir == "" {
		saved.OutputDir = controller.defaults.OutputDir
	}
	return services.Restore(controller.highlights, saved.SourcePath, saved.OutputDir, saved.Selected)
}

func (controller *UIController) save(c *gin.Context, state *services.AppState) {
	controller.sessions.SaveState(c.Request.Context(), session.UIState{
		SourcePath: state.SourcePath,
		OutputDir:  state.OutputDir,
		Selected:   state.SelectedTitles(),
	})
}

func (controller *UIController) flash(c *gin.Context, kind, format string, args ...any) {
	controller.sessions.PutFlash(c.Request.Context(), kind, fmt.Sprintf(format, args...))
}

// IndexPage handles GET /
func (controller *UIController) IndexPage(c *gin.Context) {
	ctx := c.Request.Context()
	flash := controller.sessions.PopFlash(ctx)

	state, err := controller.restore(c)
	if err != nil {
		log.Printf("Failed to re-read clippings: %v", err)
		flash = &session.Flash{Kind: session.FlashError, Message: "Could not read the clippings file: " + err.Error()}
	}

	rows := make([]bookRow, 0, len(state.Titles()))
	for _, title := range state.Titles() {
		rows = append(rows, bookRow{
			Title:    title,
			Count:    len(state.Library.Records(title)),
			Selected: state.IsSelected(title),
		})
	}

	var stats *kindle.Stats
	if state.Library != nil {
		stats = &state.Stats
	}

	c.HTML(http.StatusOK, "index", gin.H{
		"SourcePath":    state.SourcePath,
		"OutputDir":     state.OutputDir,
		"Books":         rows,
		"Stats":         stats,
		"Flash":         flash,
		"CSRFToken":     session.GetCSRFToken(c),
		"CSRFFieldName": session.CSRFFieldName,
	})
}

// SetSource handles POST /source
func (controller *UIController) SetSource(c *gin.Context) {
	path := strings.TrimSpace(c.PostForm("path"))
	saved := controller.sessions.LoadState(c.Request.Context())

	state := services.NewAppState()
	state.OutputDir = saved.OutputDir
	if err := state.Load(controller.highlights, path); err != nil {
		controller.reportError(c, err)
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	controller.save(c, state)
	controller.flash(c, session.FlashInfo, "Loaded %d titles with %d highlights from %s",
		state.Library.Len(), state.Library.RecordCount(), path)
	c.Redirect(http.StatusSeeOther, "/")
}

// SetOutput handles POST /output
func (controller *UIController) SetOutput(c *gin.Context) {
	dir := strings.TrimSpace(c.PostForm("output_dir"))
	saved := controller.sessions.LoadState(c.Request.Context())
	saved.OutputDir = dir
	controller.sessions.SaveState(c.Request.Context(), saved)

	if dir == "" {
		controller.flash(c, session.FlashWarning, "Choose an output folder first.")
	} else {
		controller.flash(c, session.FlashInfo, "Output folder set to %s", dir)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Export handles POST /export. The ticked titles replace the saved selection.
func (controller *UIController) Export(c *gin.Context) {
	state, err := controller.restore(c)
	if err != nil {
		controller.reportError(c, err)
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	state.ClearSelection()
	if c.PostForm("all") != "" {
		state.SelectAll()
	} else {
		for _, title := range c.PostFormArray("title") {
			state.Select(title)
		}
	}
	controller.save(c, state)

	result, err := state.Export(controller.highlights)
	if err != nil {
		controller.reportError(c, err)
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	message := fmt.Sprintf("Exported %d titles (%d highlights) to %s", result.BooksProcessed, result.HighlightsProcessed, state.OutputDir)
	if len(result.Collisions) > 0 {
		message += fmt.Sprintf("; %d titles shared a file name and overwrote each other", len(result.Collisions))
	}
	controller.flash(c, session.FlashInfo, "%s", message)
	c.Redirect(http.StatusSeeOther, "/")
}

func (controller *UIController) reportError(c *gin.Context, err error) {
	if services.IsUserWarning(err) {
		controller.flash(c, session.FlashWarning, "%s", warningMessage(err))
		return
	}
	log.Printf("Web UI operation failed: %v", err)
	controller.flash(c, session.FlashError, "%s", err.Error())
}
