package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"edadash/domain/figure"
	"edadash/internal/config"
	"edadash/internal/errors"
	"edadash/internal/session"
	"edadash/internal/testkit"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "bank.csv")

	var buf bytes.Buffer
	require.NoError(t, testkit.WriteBankCSV(&buf, testkit.DefaultBankConfig(), ';'))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	return &config.Config{
		Data: config.DataConfig{
			DefaultDatasetPath:      path,
			DefaultDatasetSeparator: ";",
			MaxUploadBytes:          1 << 20,
			MaxConcurrentUploads:    2,
			PreviewRows:             5,
		},
		Session:  config.SessionConfig{CookieName: "eda_session", TTL: time.Hour},
		Charts:   config.ChartConfig{CardinalityLimit: 12},
		LogLevel: "ERROR",
	}
}

func TestUpload_CSVWithSeparator(t *testing.T) {
	svc := NewDashboardService(testConfig(t))
	sess := session.New("s1")

	csv := "name|age|city\nann|31|Oslo\nbob|NA|Rome\ncy|45|\n"
	ds, err := svc.Upload(context.Background(), sess, "people.csv", strings.NewReader(csv), "|")
	require.NoError(t, err)

	assert.Same(t, ds, sess.Current())
	assert.Equal(t, 3, ds.Rows())
	assert.Equal(t, []string{"name", "city"}, ds.Schema().Categorical)
	assert.Equal(t, []string{"age"}, ds.Schema().Numerical)
	assert.Equal(t, "upload", sess.Source)
	assert.Equal(t, "people.csv", ds.Origin().OriginalFilename)
}

func TestUpload_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"job", "balance"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"admin.", 120}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"technician", -40.5}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	svc := NewDashboardService(testConfig(t))
	sess := session.New("s1")
	ds, err := svc.Upload(context.Background(), sess, "book.XLSX", &buf, "")
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Rows())
	assert.Equal(t, []string{"balance"}, ds.Schema().Numerical)
}

func TestUpload_FailureKeepsPreviousDataset(t *testing.T) {
	svc := NewDashboardService(testConfig(t))
	sess := session.New("s1")
	previous := testkit.TwoByTwo()
	sess.Replace(previous, "upload")

	tests := []struct {
		name      string
		filename  string
		content   string
		separator string
		code      string
	}{
		{name: "unsupported extension", filename: "data.json", content: "{}", code: errors.CodeInvalidInput},
		{name: "text file with csv content", filename: "notes.txt", content: "a,b\n1,2\n", code: errors.CodeInvalidInput},
		{name: "bad separator", filename: "a.csv", content: "a,b\n1,2\n", separator: ";;", code: errors.CodeInvalidInput},
		{name: "ragged csv", filename: "a.csv", content: "a,b\n1,2,3\n", code: errors.CodeIngestionFailed},
		{name: "not a workbook", filename: "a.xlsx", content: "plain text", code: errors.CodeIngestionFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(context.Background(), sess, tt.filename, strings.NewReader(tt.content), tt.separator)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
			assert.Same(t, previous, sess.Current())
		})
	}
}

func TestUpload_SizeLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.MaxUploadBytes = 16
	svc := NewDashboardService(cfg)
	sess := session.New("s1")

	_, err := svc.Upload(context.Background(), sess, "a.csv", strings.NewReader("a,b\n1,2\n3,4\n5,6\n7,8\n"), ",")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	assert.True(t, sess.Current().IsEmpty())
}

func TestUpload_EmptyFileGivesEmptyDataset(t *testing.T) {
	svc := NewDashboardService(testConfig(t))
	sess := session.New("s1")
	sess.Replace(testkit.TwoByTwo(), "upload")

	ds, err := svc.Upload(context.Background(), sess, "empty.csv", strings.NewReader(""), ",")
	require.NoError(t, err)
	assert.True(t, ds.IsEmpty())
	assert.True(t, sess.Current().IsEmpty())

	_, err = svc.Plot(context.Background(), sess, figure.Selection{Kind: figure.KindHist, Column: "n"})
	assert.True(t, errors.IsInvalidSelection(err))
}

func TestUpload_CancelledContext(t *testing.T) {
	svc := NewDashboardService(testConfig(t))
	sess := session.New("s1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// fill the semaphore so Acquire has to wait on the cancelled context
	require.NoError(t, svc.ingest.Acquire(context.Background(), 2))
	defer svc.ingest.Release(2)

	_, err := svc.Upload(ctx, sess, "a.csv", strings.NewReader("a\n1\n"), ",")
	require.Error(t, err)
	assert.True(t, sess.Current().IsEmpty())
}

func TestLoadDefault_OncePerSession(t *testing.T) {
	svc := NewDashboardService(testConfig(t))
	sess := session.New("s1")

	loaded, err := svc.LoadDefault(context.Background(), sess)
	require.NoError(t, err)
	assert.True(t, loaded)
	first := sess.Current()
	assert.Equal(t, testkit.DefaultBankConfig().Rows, first.Rows())
	assert.Equal(t, "default", sess.Source)
	assert.Equal(t, ";", first.Origin().Separator)

	// an upload in between must not be overwritten by a second default click
	_, err = svc.Upload(context.Background(), sess, "x.csv", strings.NewReader("a\n1\n"), ",")
	require.NoError(t, err)
	uploaded := sess.Current()

	loaded, err = svc.LoadDefault(context.Background(), sess)
	require.NoError(t, err)
	assert.False(t, loaded)
	assert.Same(t, uploaded, sess.Current())

	other := session.New("s2")
	loaded, err = svc.LoadDefault(context.Background(), other)
	require.NoError(t, err)
	assert.True(t, loaded, "the limit is per session")
}

func TestLoadDefault_MissingFileCanRetry(t *testing.T) {
	cfg := testConfig(t)
	good := cfg.Data.DefaultDatasetPath
	cfg.Data.DefaultDatasetPath = filepath.Join(t.TempDir(), "missing.csv")
	svc := NewDashboardService(cfg)
	sess := session.New("s1")

	loaded, err := svc.LoadDefault(context.Background(), sess)
	require.Error(t, err)
	assert.False(t, loaded)
	assert.False(t, sess.DefaultLoaded)

	svc.data.DefaultDatasetPath = good
	loaded, err = svc.LoadDefault(context.Background(), sess)
	require.NoError(t, err)
	assert.True(t, loaded)
}

func TestPlot_Dispatch(t *testing.T) {
	svc := NewDashboardService(testConfig(t))
	sess := session.New("s1")
	_, err := svc.LoadDefault(context.Background(), sess)
	require.NoError(t, err)

	tests := []struct {
		sel    figure.Selection
		status figure.Status
		check  func(t *testing.T, r Result)
	}{
		{sel: figure.Selection{Kind: figure.KindBar, Column: "marital"}, status: figure.StatusRendered},
		{sel: figure.Selection{Kind: figure.KindPie, Column: "education"}, status: figure.StatusRendered},
		{sel: figure.Selection{Kind: figure.KindBar, Column: "job"}, status: figure.StatusRendered},
		{sel: figure.Selection{Kind: figure.KindHist, Column: "balance"}, status: figure.StatusRendered},
		{sel: figure.Selection{Kind: figure.KindDist, Column: "age"}, status: figure.StatusRendered},
		{sel: figure.Selection{Kind: figure.KindBoxplot, Column: "duration"}, status: figure.StatusRendered},
		{
			sel:    figure.Selection{Kind: figure.KindHeatmap},
			status: figure.StatusRendered,
			check: func(t *testing.T, r Result) {
				require.NotNil(t, r.Matrix)
				assert.Equal(t, []string{"age", "balance", "day", "duration", "campaign"}, r.Matrix.Labels)
			},
		},
		{
			sel:    figure.Selection{Kind: figure.KindCrosstab, Column: "marital", Column2: "y"},
			status: figure.StatusRendered,
			check: func(t *testing.T, r Result) {
				require.NotNil(t, r.CrossTab)
				assert.Equal(t, sess.Current().Rows(), r.CrossTab.Total())
			},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.sel.Kind)+"/"+tt.sel.Column, func(t *testing.T) {
			r, err := svc.Plot(context.Background(), sess, tt.sel)
			require.NoError(t, err)
			assert.Equal(t, tt.status, r.Status)
			require.NotNil(t, r.Figure)
			assert.Same(t, r.Figure, sess.LastFigure())
			if tt.check != nil {
				tt.check(t, r)
			}
		})
	}
}

func TestPlot_SkippedKeepsLastFigure(t *testing.T) {
	svc := NewDashboardService(testConfig(t))
	sess := session.New("s1")
	sess.Replace(testkit.MustDataset(
		testkit.Cat("wide", testkit.DistinctLabels(13, 26)...),
		testkit.Cat("narrow", testkit.DistinctLabels(2, 26)...),
	), "upload")

	first, err := svc.Plot(context.Background(), sess, figure.Selection{Kind: figure.KindBar, Column: "narrow"})
	require.NoError(t, err)

	r, err := svc.Plot(context.Background(), sess, figure.Selection{Kind: figure.KindBar, Column: "wide"})
	require.NoError(t, err)
	assert.Equal(t, figure.StatusSkipped, r.Status)
	assert.Nil(t, r.Figure)
	assert.NotEmpty(t, r.Reason)
	assert.Same(t, first.Figure, sess.LastFigure())
}

func TestPlot_Errors(t *testing.T) {
	svc := NewDashboardService(testConfig(t))

	t.Run("empty session", func(t *testing.T) {
		_, err := svc.Plot(context.Background(), session.New("s"), figure.Selection{Kind: figure.KindHeatmap})
		require.Error(t, err)
		assert.True(t, errors.IsInvalidSelection(err))
		assert.Equal(t, EmptyDatasetMessage, errors.UserMessage(err))
	})

	sess := session.New("s1")
	sess.Replace(testkit.TwoByTwo(), "upload")

	tests := []struct {
		name string
		sel  figure.Selection
		code string
	}{
		{name: "unknown kind", sel: figure.Selection{Kind: "violin", Column: "n"}, code: errors.CodeInvalidSelection},
		{name: "heatmap with one numeric column", sel: figure.Selection{Kind: figure.KindHeatmap}, code: errors.CodeInsufficientData},
		{name: "crosstab on numeric", sel: figure.Selection{Kind: figure.KindCrosstab, Column: "a", Column2: "n"}, code: errors.CodeInvalidSelection},
		{name: "hist on categorical", sel: figure.Selection{Kind: figure.KindHist, Column: "a"}, code: errors.CodeInvalidSelection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Plot(context.Background(), sess, tt.sel)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestColumnChoicesAndOverview(t *testing.T) {
	svc := NewDashboardService(testConfig(t))
	sess := session.New("s1")
	sess.Replace(testkit.TwoByTwo(), "upload")

	schema := svc.Columns(sess)
	assert.Equal(t, []string{"a", "b"}, ColumnChoices(schema, figure.KindBar))
	assert.Equal(t, []string{"a", "b"}, ColumnChoices(schema, figure.KindCrosstab))
	assert.Equal(t, []string{"n"}, ColumnChoices(schema, figure.KindBoxplot))
	assert.Nil(t, ColumnChoices(schema, figure.KindHeatmap))

	ov := svc.Overview(sess)
	assert.Equal(t, 10, ov.Summary.Rows)
	assert.Len(t, ov.Preview.Rows, 5)
	assert.Equal(t, []string{"a", "b", "n"}, ov.Preview.Headers)
	assert.Equal(t, 12, svc.CardinalityLimit())
}
