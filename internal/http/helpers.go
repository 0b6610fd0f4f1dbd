package http

import (
	"errors"
	"io/fs"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/clippings/internal/exporters"
	"github.com/mrlokans/clippings/internal/services"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"` // machine-readable error code
}

// PaginatedResponse wraps paginated data with metadata.
type PaginatedResponse struct {
	Data    any   `json:"data"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

// Error codes
const (
	CodeInvalidRequest = "invalid_request"
	CodeNoSource       = "no_source"
	CodeNoOutputDir    = "no_output_dir"
	CodeNoSelection    = "no_selection"
	CodeNotFound       = "not_found"
)

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: CodeInvalidRequest})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondOperationError maps a parse or export error to a response:
// missing input is a 400, a missing file or folder a 404, anything else a 500.
func respondOperationError(c *gin.Context, err error, context string) {
	switch {
	case services.IsUserWarning(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: warningMessage(err), Code: warningCode(err)})
	case errors.Is(err, fs.ErrNotExist):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: CodeNotFound})
	default:
		respondInternalError(c, err, context)
	}
}

// warningMessage is the text shown to the user for a missing-input warning.
func warningMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrNoSource):
		return "Choose a clippings file first."
	case errors.Is(err, exporters.ErrNoOutputDir):
		return "Choose an output folder first."
	case errors.Is(err, exporters.ErrNoSelection):
		return "Select at least one title to export."
	default:
		return err.Error()
	}
}

func warningCode(err error) string {
	switch {
	case errors.Is(err, services.ErrNoSource):
		return CodeNoSource
	case errors.Is(err, exporters.ErrNoOutputDir):
		return CodeNoOutputDir
	case errors.Is(err, exporters.ErrNoSelection):
		return CodeNoSelection
	default:
		return ""
	}
}

// --- Parameter Parsing ---

// parseIntQuery reads a non-negative integer query parameter, falling back
// to def when it is absent. Responds with 400 and returns false when invalid.
func parseIntQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return value, true
}
