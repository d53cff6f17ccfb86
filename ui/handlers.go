package ui

import (
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"edadash/app"
	"edadash/domain/figure"
	"edadash/internal/api"
	"edadash/internal/errors"
	"edadash/internal/render"
	"edadash/internal/session"
	"edadash/ui/middleware"
	"edadash/ui/templates/fragments"
)

// pageData is everything the dashboard page renders from
type pageData struct {
	Kinds     []figure.PlotKind
	Kind      figure.PlotKind
	Choices   []string
	Column    string
	Column2   string
	Separator string

	HasData     bool
	Origin      string
	Rows        int
	Columns     int
	PreviewHTML template.HTML
	SummaryHTML template.HTML

	Notice  string
	Error   string
	Skipped string

	HasFigure        bool
	FigureTitle      string
	FigureVersion    int64
	CardinalityLimit int
}

// newPage fills the form and dataset sections from the session
func (s *Server) newPage(sess *session.Session, kind figure.PlotKind) *pageData {
	if _, err := figure.ParseKind(string(kind)); err != nil {
		kind = figure.KindBar
	}
	ds := sess.Current()
	page := &pageData{
		Kinds:            figure.AllKinds(),
		Kind:             kind,
		Choices:          app.ColumnChoices(ds.Schema(), kind),
		Separator:        ",",
		HasData:          !ds.IsEmpty(),
		CardinalityLimit: s.dashboard.CardinalityLimit(),
	}
	if page.HasData {
		overview := s.dashboard.Overview(sess)
		page.Origin = overview.Origin.Source
		if overview.Origin.OriginalFilename != "" {
			page.Origin = overview.Origin.OriginalFilename
		}
		page.Rows = overview.Summary.Rows
		page.Columns = overview.Summary.Columns
		page.PreviewHTML = render.Markdown(overview.Preview.Markdown())
		page.SummaryHTML = render.Markdown(overview.Summary.Markdown())
	}
	if f := sess.LastFigure(); f != nil {
		page.HasFigure = true
		page.FigureTitle = f.Title
		page.FigureVersion = time.Now().UnixNano()
	}
	return page
}

func (s *Server) handleIndex(c *gin.Context) {
	sess := middleware.Session(c)
	page := s.newPage(sess, figure.PlotKind(c.Query("kind")))
	s.renderTemplate(c, http.StatusOK, fragments.Index, page)
}

func (s *Server) handleUpload(c *gin.Context) {
	sess := middleware.Session(c)
	separator := c.DefaultPostForm("separator", ",")

	header, err := c.FormFile("file")
	if err != nil {
		page := s.newPage(sess, figure.PlotKind(c.PostForm("kind")))
		page.Error = "Upload a CSV or Excel file."
		s.renderTemplate(c, http.StatusBadRequest, fragments.Index, page)
		return
	}
	file, err := header.Open()
	if err != nil {
		s.renderError(c, sess, errors.IngestionFailed(err, "Error reading the file"))
		return
	}
	defer file.Close()

	if _, err := s.dashboard.Upload(c.Request.Context(), sess, header.Filename, file, separator); err != nil {
		s.renderError(c, sess, err)
		return
	}

	page := s.newPage(sess, figure.PlotKind(c.PostForm("kind")))
	page.Separator = separator
	s.renderTemplate(c, http.StatusOK, fragments.Index, page)
}

func (s *Server) handleDefault(c *gin.Context) {
	sess := middleware.Session(c)

	loaded, err := s.dashboard.LoadDefault(c.Request.Context(), sess)
	if err != nil {
		s.renderError(c, sess, err)
		return
	}

	page := s.newPage(sess, figure.PlotKind(c.PostForm("kind")))
	if loaded {
		page.Notice = "Default dataset loaded:"
	}
	s.renderTemplate(c, http.StatusOK, fragments.Index, page)
}

func (s *Server) handlePlot(c *gin.Context) {
	sess := middleware.Session(c)
	sel := figure.Selection{
		Kind:    figure.PlotKind(c.PostForm("kind")),
		Column:  c.PostForm("column"),
		Column2: c.PostForm("column2"),
	}

	result, err := s.dashboard.Plot(c.Request.Context(), sess, sel)
	page := s.newPage(sess, sel.Kind)
	page.Column, page.Column2 = sel.Column, sel.Column2
	if err != nil {
		page.Error = displayMessage(err)
		page.HasFigure = false
		s.renderTemplate(c, api.StatusFor(err), fragments.Index, page)
		return
	}

	if result.Status == figure.StatusSkipped {
		page.Skipped = result.Reason
		page.HasFigure = false
	}
	s.renderTemplate(c, http.StatusOK, fragments.Index, page)
}

// handlePlotFrame serves the last rendered figure as a standalone chart page
func (s *Server) handlePlotFrame(c *gin.Context) {
	sess := middleware.Session(c)
	f := sess.LastFigure()
	if f == nil {
		c.String(http.StatusNotFound, "no figure rendered yet")
		return
	}

	html, err := render.FigureHTML(f)
	if err != nil {
		log.Printf("[PlotFrame] Failed to render %q: %v", f.Title, err)
		c.String(http.StatusInternalServerError, "failed to render figure")
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

func (s *Server) handleEvents(c *gin.Context) {
	s.events.Stream(c, middleware.Session(c).ID)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.sessions.Len()})
}

func (s *Server) renderError(c *gin.Context, sess *session.Session, err error) {
	page := s.newPage(sess, figure.PlotKind(c.PostForm("kind")))
	page.Error = displayMessage(err)
	s.renderTemplate(c, api.StatusFor(err), fragments.Index, page)
}

// displayMessage is the text shown in the page's error banner
func displayMessage(err error) string {
	switch errors.GetCode(err) {
	case errors.CodeIngestionFailed:
		return err.Error()
	case errors.CodeInternalError, errors.CodeUnknown:
		log.Printf("[Dashboard] Internal error: %v", err)
		return "Something went wrong. Please try again."
	default:
		return errors.UserMessage(err)
	}
}
