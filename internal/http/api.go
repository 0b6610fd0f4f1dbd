package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/clippings/internal/audit"
	"github.com/mrlokans/clippings/internal/entities"
	"github.com/mrlokans/clippings/internal/exporters"
	"github.com/mrlokans/clippings/internal/kindle"
	"github.com/mrlokans/clippings/internal/services"
)

const defaultHistoryLimit = 50

// APIController exposes parse, export and history as JSON endpoints.
type APIController struct {
	highlights *services.HighlightsService
	audit      *audit.Service
}

func NewAPIController(highlights *services.HighlightsService, auditService *audit.Service) *APIController {
	return &APIController{highlights: highlights, audit: auditService}
}

type ParseRequest struct {
	Path string `json:"path"`
}

type ParseResponse struct {
	RunID   string            `json:"run_id"`
	Titles  int               `json:"titles"`
	Records int               `json:"records"`
	Stats   kindle.Stats      `json:"stats"`
	Library *entities.Library `json:"library"`
}

type ExportRequest struct {
	Path      string   `json:"path"`
	OutputDir string   `json:"output_dir"`
	Titles    []string `json:"titles"`
	All       bool     `json:"all"` // export every title, Titles is ignored
}

type ExportResponse struct {
	RunID string `json:"run_id"`
	exporters.ExportResult
}

// Parse handles POST /api/parse
func (controller *APIController) Parse(c *gin.Context) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid JSON body")
		return
	}

	result, err := controller.highlights.Load(req.Path)
	if err != nil {
		respondOperationError(c, err, "parse")
		return
	}

	c.JSON(http.StatusOK, ParseResponse{
		RunID:   result.RunID,
		Titles:  result.Library.Len(),
		Records: result.Library.RecordCount(),
		Stats:   result.Stats,
		Library: result.Library,
	})
}

// Export handles POST /api/export. The file is parsed again so the request
// is self-contained. Missing input is rejected before the file is read.
func (controller *APIController) Export(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid JSON body")
		return
	}

	switch {
	case strings.TrimSpace(req.Path) == "":
		respondOperationError(c, services.ErrNoSource, "export")
		return
	case strings.TrimSpace(req.OutputDir) == "":
		respondOperationError(c, exporters.ErrNoOutputDir, "export")
		return
	case !req.All && len(req.Titles) == 0:
		respondOperationError(c, exporters.ErrNoSelection, "export")
		return
	}

	loaded, err := controller.highlights.Load(req.Path)
	if err != nil {
		respondOperationError(c, err, "export parse")
		return
	}

	selected := req.Titles
	if req.All {
		selected = loaded.Library.Titles()
	}

	result, err := controller.highlights.Export(loaded.RunID, loaded.Library, selected, req.OutputDir)
	if err != nil {
		respondOperationError(c, err, "export")
		return
	}

	c.JSON(http.StatusOK, ExportResponse{RunID: loaded.RunID, ExportResult: result})
}

// History handles GET /api/history?limit=&offset=&type=
func (controller *APIController) History(c *gin.Context) {
	if controller.audit == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "history is not configured"})
		return
	}

	limit, ok := parseIntQuery(c, "limit", defaultHistoryLimit)
	if !ok {
		return
	}
	offset, ok := parseIntQuery(c, "offset", 0)
	if !ok {
		return
	}
	if limit == 0 {
		limit = defaultHistoryLimit
	}

	var (
		events []entities.AuditEvent
		total  int64
		err    error
	)
	if eventType := c.Query("type"); eventType != "" {
		events, total, err = controller.audit.GetEventsByType(entities.AuditEventType(eventType), limit, offset)
	} else {
		events, total, err = controller.audit.GetEvents(limit, offset)
	}
	if err != nil {
		respondInternalError(c, err, "history")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    events,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(events)) < total,
	})
}
