package excel

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"edadash/adapters/datareadiness/coercer"
	"edadash/domain/dataset"

	"github.com/xuri/excelize/v2"
)

const (
	FileTypeCSV  = "csv"
	FileTypeXLSX = "xlsx"
)

// DataReader handles reading Excel and CSV sources into typed datasets
type DataReader struct {
	config  ReaderConfig
	coercer *coercer.TypeCoercer
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(config ReaderConfig) *DataReader {
	if config.Separator == 0 {
		config.Separator = ','
	}
	return &DataReader{
		config:  config,
		coercer: coercer.NewTypeCoercer(config.CoercionConfig),
	}
}

// FileTypeFor maps a filename to a supported file type
func FileTypeFor(filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FileTypeCSV, nil
	case ".xlsx":
		return FileTypeXLSX, nil
	default:
		return "", fmt.Errorf("unsupported file type %q (expected .csv or .xlsx)", filepath.Ext(filename))
	}
}

// ReadFile reads a dataset from disk
func (r *DataReader) ReadFile(path string, origin dataset.Origin) (*dataset.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	if origin.OriginalFilename == "" {
		origin.OriginalFilename = filepath.Base(path)
	}
	return r.Read(file, path, origin)
}

// Read parses src according to filename's extension and builds a dataset.
// A source with no header row yields an empty dataset rather than an error.
func (r *DataReader) Read(src io.Reader, filename string, origin dataset.Origin) (*dataset.Dataset, error) {
	fileType, err := FileTypeFor(filename)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	var raw *RawTable
	switch fileType {
	case FileTypeCSV:
		raw, err = r.ReadCSV(src)
		origin.Separator = string(r.config.Separator)
	case FileTypeXLSX:
		raw, err = r.ReadXLSX(src)
	}
	if err != nil {
		return nil, err
	}
	log.Printf("[DataReader] %s parsed in %.2fms (%d columns, %d rows)",
		strings.ToUpper(fileType), float64(time.Since(startTime).Nanoseconds())/1e6, len(raw.Headers), len(raw.Rows))

	return r.BuildDataset(raw, origin)
}

// ReadCSV reads delimited text. Every row must have as many fields as the header.
func (r *DataReader) ReadCSV(src io.Reader) (*RawTable, error) {
	buffered := bufio.NewReader(src)
	if bom, err := buffered.Peek(3); err == nil && string(bom) == "\ufeff" {
		_, _ = buffered.Discard(3)
	}

	reader := csv.NewReader(buffered)
	reader.Comma = r.config.Separator
	reader.LazyQuotes = true
	reader.ReuseRecord = false

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return r.processRows(rows), nil
}

// ReadXLSX reads the configured sheet, or the first one, using raw cell values
func (r *DataReader) ReadXLSX(src io.Reader) (*RawTable, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return &RawTable{}, nil
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return r.processRows(rows), nil
}

// processRows splits off the header and pads or trims data rows to its width
func (r *DataReader) processRows(rows [][]string) *RawTable {
	if len(rows) == 0 {
		return &RawTable{}
	}

	headers := uniqueHeaders(rows[0])
	table := &RawTable{Headers: headers, Rows: make([][]string, 0, len(rows)-1)}
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		cells := make([]string, len(headers))
		copy(cells, row)
		table.Rows = append(table.Rows, cells)
	}
	return table
}

// BuildDataset coerces each raw column into a typed column
func (r *DataReader) BuildDataset(raw *RawTable, origin dataset.Origin) (*dataset.Dataset, error) {
	columns := make([]*dataset.Column, 0, len(raw.Headers))
	for j, header := range raw.Headers {
		columns = append(columns, r.coercer.BuildColumn(header, raw.Column(j)))
	}
	ds, err := dataset.New(columns, origin)
	if err != nil {
		return nil, fmt.Errorf("failed to build dataset: %w", err)
	}
	return ds, nil
}

// uniqueHeaders names blank headers "Unnamed: i" and suffixes duplicates with .1, .2, ...
func uniqueHeaders(row []string) []string {
	headers := make([]string, len(row))
	seen := make(map[string]int, len(row))
	for i, h := range row {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		for n := seen[h]; ; {
			if _, dup := seen[name]; !dup {
				break
			}
			n++
			seen[h] = n
			name = fmt.Sprintf("%s.%d", h, n)
		}
		if _, ok := seen[name]; !ok {
			seen[name] = 0
		}
		headers[i] = name
	}
	return headers
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
