package http

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/clippings/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(session.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(session.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.LoadAndSave())
	}

	tmpl := template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
	router.SetHTMLTemplate(tmpl)

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := NewAPIController(cfg.Highlights, cfg.Audit)
	router.POST("/api/parse", api.Parse)
	router.POST("/api/export", api.Export)
	router.GET("/api/history", api.History)

	if cfg.SessionManager != nil {
		ui := NewUIController(cfg.Highlights, cfg.SessionManager, cfg.Defaults)
		router.GET("/", ui.IndexPage)
		router.POST("/source", ui.SetSource)
		router.POST("/output", ui.SetOutput)
		router.POST("/export", ui.Export)
	}

	return router
}
