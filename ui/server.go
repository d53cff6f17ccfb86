package ui

import (
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"edadash/app"
	"edadash/domain/figure"
	"edadash/internal/api"
	"edadash/internal/config"
	"edadash/internal/events"
	"edadash/internal/session"
	"edadash/ui/middleware"
	"edadash/ui/templates/fragments"
)

// Server represents the web server for the EDA dashboard
type Server struct {
	router    *gin.Engine
	templates *template.Template
	files     fs.FS

	cfg       *config.Config
	dashboard *app.DashboardService
	sessions  *session.Store
	events    *events.Hub
}

// NewServer creates the dashboard server. files must hold the templates/ and
// static/ directories at its root.
func NewServer(files fs.FS, cfg *config.Config, dashboard *app.DashboardService, sessions *session.Store, hub *events.Hub) (*Server, error) {
	gin.SetMode(cfg.Server.GinMode)

	s := &Server{
		router:    gin.New(),
		files:     files,
		cfg:       cfg,
		dashboard: dashboard,
		sessions:  sessions,
		events:    hub,
	}
	s.router.MaxMultipartMemory = cfg.Data.MaxUploadBytes

	if err := s.parseTemplates(); err != nil {
		return nil, err
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) parseTemplates() error {
	funcMap := template.FuncMap{
		"add":   func(a, b int) int { return a + b },
		"upper": strings.ToUpper,
		"columnLabel": func(k figure.PlotKind) string {
			switch {
			case k.ColumnCount() == 2:
				return "Select Column 1:"
			case k.NeedsCategorical():
				return "Select Categorical Column:"
			case k.NeedsNumerical():
				return "Select Numerical Column:"
			default:
				return ""
			}
		},
	}

	templatesFS, err := fs.Sub(s.files, "templates")
	if err != nil {
		return fmt.Errorf("failed to create templates filesystem: %w", err)
	}

	s.templates = template.New("").Funcs(funcMap)
	for _, name := range fragments.All() {
		content, err := fs.ReadFile(templatesFS, name)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", name, err)
		}
		if _, err := s.templates.New(name).Parse(string(content)); err != nil {
			return fmt.Errorf("failed to parse template %s: %w", name, err)
		}
	}
	log.Printf("[TemplateInit] Parsed %d templates", len(fragments.All()))
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	maxAge := int(s.cfg.Session.TTL.Seconds())
	dash := s.router.Group("/", middleware.EnsureSession(s.sessions, s.cfg.Session.CookieName, maxAge))
	{
		dash.GET("/", s.handleIndex)
		dash.POST("/upload", s.handleUpload)
		dash.POST("/default", s.handleDefault)
		dash.POST("/plot", s.handlePlot)
		dash.GET("/plot/frame", s.handlePlotFrame)
		dash.GET("/events", s.handleEvents)

		apiHandler := api.NewHandler(s.dashboard, s.sessions, s.cfg.Session.CookieName, s.cfg.Server.CORSOrigins).Router()
		dash.Any("/api/*path", gin.WrapH(apiHandler))
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}
