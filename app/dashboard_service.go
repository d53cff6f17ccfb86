package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/semaphore"

	"edadash/adapters/excel"
	"edadash/domain/dataset"
	"edadash/domain/figure"
	"edadash/internal"
	"edadash/internal/chart"
	"edadash/internal/config"
	"edadash/internal/errors"
	"edadash/internal/events"
	"edadash/internal/metrics"
	"edadash/internal/report"
	"edadash/internal/session"
)

// EmptyDatasetMessage is shown when a plot is requested before any data is loaded
const EmptyDatasetMessage = "Please upload a dataset or use the default dataset."

// Result is what one plot request produced. Matrix and CrossTab are set for
// the report kinds alongside their figure.
type Result struct {
	Status   figure.Status    `json:"status"`
	Figure   *figure.Figure   `json:"figure,omitempty"`
	Reason   string           `json:"reason,omitempty"`
	Matrix   *report.Matrix   `json:"matrix,omitempty"`
	CrossTab *report.CrossTab `json:"crosstab,omitempty"`
}

// Overview is the dataset information the dashboard shows next to the form
type Overview struct {
	Origin  dataset.Origin `json:"origin"`
	Schema  dataset.Schema `json:"schema"`
	Summary report.Summary `json:"summary"`
	Preview report.Table   `json:"preview"`
}

// EventPublisher receives dashboard activity for a session
type EventPublisher interface {
	Publish(sessionID, eventType string, data map[string]interface{})
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, string, map[string]interface{}) {}

// DashboardService runs one dashboard interaction against a session:
// ingestion, the default dataset, and plot dispatch.
type DashboardService struct {
	data       config.DataConfig
	dispatcher *chart.Dispatcher
	ingest     *semaphore.Weighted
	logger     *internal.Logger
	events     EventPublisher
}

// NewDashboardService creates a dashboard service
func NewDashboardService(cfg *config.Config) *DashboardService {
	return &DashboardService{
		data:       cfg.Data,
		dispatcher: chart.NewDispatcher(cfg.Charts.CardinalityLimit),
		ingest:     semaphore.NewWeighted(cfg.Data.MaxConcurrentUploads),
		logger:     internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel)).With("Dashboard"),
		events:     noopPublisher{},
	}
}

// WithEvents routes session activity to p
func (s *DashboardService) WithEvents(p EventPublisher) *DashboardService {
	if p == nil {
		p = noopPublisher{}
	}
	s.events = p
	return s
}

// Upload parses an uploaded file and makes it the session's dataset. The
// file type comes from the filename extension; separator applies to CSV.
// On any failure the session keeps its previous dataset.
func (s *DashboardService) Upload(ctx context.Context, sess *session.Session, filename string, src io.Reader, separator string) (*dataset.Dataset, error) {
	sep, err := excel.ParseSeparator(separator)
	if err != nil {
		return nil, errors.InvalidInput(err.Error())
	}
	if _, err := excel.FileTypeFor(filename); err != nil {
		return nil, errors.InvalidInput(err.Error())
	}

	content, err := io.ReadAll(io.LimitReader(src, s.data.MaxUploadBytes+1))
	if err != nil {
		return nil, errors.IngestionFailed(err, "Error reading the file")
	}
	if int64(len(content)) > s.data.MaxUploadBytes {
		return nil, errors.InvalidInput(fmt.Sprintf("file exceeds the %d MB upload limit", s.data.MaxUploadBytes>>20))
	}

	origin := dataset.Origin{Source: "upload", OriginalFilename: filename}
	ds, err := s.read(ctx, bytes.NewReader(content), filename, sep, origin)
	if err != nil {
		metrics.IngestionsTotal.WithLabelValues("upload", "error").Inc()
		s.logger.Warn("upload %q rejected: %v", filename, err)
		s.events.Publish(sess.ID, events.IngestionFailed, map[string]interface{}{"filename": filename, "error": err.Error()})
		return nil, err
	}

	sess.Replace(ds, "upload")
	metrics.IngestionsTotal.WithLabelValues("upload", "ok").Inc()
	s.logger.Info("session %s loaded %q (%d rows, %d columns)", sess.ID, filename, ds.Rows(), ds.Schema().Len())
	s.publishLoaded(sess, ds)
	return ds, nil
}

// LoadDefault reads the bundled dataset into the session. It does so at most
// once per session; later calls return loaded=false and change nothing.
func (s *DashboardService) LoadDefault(ctx context.Context, sess *session.Session) (bool, error) {
	if !sess.MarkDefaultLoaded() {
		return false, nil
	}

	sep, err := excel.ParseSeparator(s.data.DefaultDatasetSeparator)
	if err != nil {
		sess.ClearDefaultLoaded()
		return false, errors.Wrap(err, "invalid default dataset separator")
	}

	origin := dataset.Origin{Source: "default"}
	ds, err := s.readFile(ctx, s.data.DefaultDatasetPath, sep, origin)
	if err != nil {
		sess.ClearDefaultLoaded()
		metrics.IngestionsTotal.WithLabelValues("default", "error").Inc()
		s.events.Publish(sess.ID, events.IngestionFailed, map[string]interface{}{"source": "default", "error": err.Error()})
		return false, err
	}

	sess.Replace(ds, "default")
	metrics.IngestionsTotal.WithLabelValues("default", "ok").Inc()
	s.logger.Info("session %s loaded default dataset (%d rows)", sess.ID, ds.Rows())
	s.publishLoaded(sess, ds)
	return true, nil
}

// Plot draws the selected chart from the session's dataset. bar, pie, hist,
// dist and boxplot go to the chart dispatcher; heatmap and crosstab go to the
// reporters. A rendered figure is remembered on the session.
func (s *DashboardService) Plot(ctx context.Context, sess *session.Session, sel figure.Selection) (Result, error) {
	start := time.Now()
	result, err := s.plot(sess.Current(), sel)
	if err != nil {
		metrics.PlotErrorsTotal.WithLabelValues(string(sel.Kind), errors.GetCode(err)).Inc()
		s.logger.Debug("plot %s(%s) failed: %v", sel.Kind, sel.Column, err)
		return Result{}, err
	}

	metrics.PlotsTotal.WithLabelValues(string(sel.Kind), string(result.Status)).Inc()
	if result.Status == figure.StatusRendered {
		sess.SetFigure(result.Figure)
		s.events.Publish(sess.ID, events.PlotRendered, map[string]interface{}{"kind": sel.Kind, "column": sel.Column, "column2": sel.Column2})
	} else {
		s.events.Publish(sess.ID, events.PlotSkipped, map[string]interface{}{"kind": sel.Kind, "column": sel.Column, "reason": result.Reason})
	}
	s.logger.Debug("plot %s(%s) %s in %s", sel.Kind, sel.Column, result.Status, time.Since(start))
	return result, nil
}

func (s *DashboardService) plot(ds *dataset.Dataset, sel figure.Selection) (Result, error) {
	if ds.IsEmpty() {
		return Result{}, errors.InvalidSelection(EmptyDatasetMessage)
	}
	kind, err := figure.ParseKind(string(sel.Kind))
	if err != nil {
		return Result{}, errors.InvalidSelection("%v", err)
	}

	switch kind {
	case figure.KindHeatmap:
		m, err := report.Correlation(ds)
		if err != nil {
			return Result{}, err
		}
		return Result{Status: figure.StatusRendered, Figure: m.Figure(), Matrix: &m}, nil

	case figure.KindCrosstab:
		ct, err := report.Crosstab(ds, sel.Column, sel.Column2)
		if err != nil {
			return Result{}, err
		}
		return Result{Status: figure.StatusRendered, Figure: ct.Figure(), CrossTab: &ct}, nil

	default:
		out, err := s.dispatcher.Render(kind, sel.Column, ds)
		if err != nil {
			return Result{}, err
		}
		return Result{Status: out.Status, Figure: out.Figure, Reason: out.Reason}, nil
	}
}

// Columns returns the type partition of the session's dataset
func (s *DashboardService) Columns(sess *session.Session) dataset.Schema {
	return sess.Current().Schema()
}

// ColumnChoices lists the columns a plot kind accepts
func ColumnChoices(schema dataset.Schema, kind figure.PlotKind) []string {
	switch {
	case kind.NeedsCategorical():
		return schema.Categorical
	case kind.NeedsNumerical():
		return schema.Numerical
	default:
		return nil
	}
}

// Overview describes the session's dataset: schema, describe() and head()
func (s *DashboardService) Overview(sess *session.Session) Overview {
	ds := sess.Current()
	return Overview{
		Origin:  ds.Origin(),
		Schema:  ds.Schema(),
		Summary: report.Describe(ds),
		Preview: report.Preview(ds, s.data.PreviewRows),
	}
}

// CardinalityLimit is the bar/pie distinct value guard in effect
func (s *DashboardService) CardinalityLimit() int {
	return s.dispatcher.CardinalityLimit()
}

func (s *DashboardService) publishLoaded(sess *session.Session, ds *dataset.Dataset) {
	schema := ds.Schema()
	s.events.Publish(sess.ID, events.DatasetLoaded, map[string]interface{}{
		"source":      ds.Origin().Source,
		"rows":        ds.Rows(),
		"numerical":   len(schema.Numerical),
		"categorical": len(schema.Categorical),
	})
}

func (s *DashboardService) read(ctx context.Context, src io.Reader, filename string, sep rune, origin dataset.Origin) (*dataset.Dataset, error) {
	if err := s.ingest.Acquire(ctx, 1); err != nil {
		return nil, errors.Wrap(err, "ingestion cancelled")
	}
	defer s.ingest.Release(1)

	fileType, _ := excel.FileTypeFor(filename)
	timer := time.Now()
	defer func() {
		metrics.IngestionSeconds.WithLabelValues(fileType).Observe(time.Since(timer).Seconds())
	}()

	reader := s.newReader(sep)
	ds, err := reader.Read(src, filename, origin)
	if err != nil {
		return nil, errors.IngestionFailed(err, "Error reading the file")
	}
	return ds, nil
}

func (s *DashboardService) readFile(ctx context.Context, path string, sep rune, origin dataset.Origin) (*dataset.Dataset, error) {
	if err := s.ingest.Acquire(ctx, 1); err != nil {
		return nil, errors.Wrap(err, "ingestion cancelled")
	}
	defer s.ingest.Release(1)

	ds, err := s.newReader(sep).ReadFile(path, origin)
	if err != nil {
		return nil, errors.IngestionFailed(err, "Error reading the default dataset")
	}
	return ds, nil
}

func (s *DashboardService) newReader(sep rune) *excel.DataReader {
	cfg := excel.DefaultReaderConfig()
	cfg.Separator = sep
	return excel.NewDataReader(cfg)
}
