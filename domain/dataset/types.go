package dataset

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// ColumnKind is the type partition a column belongs to
type ColumnKind string

const (
	KindCategorical ColumnKind = "categorical"
	KindNumerical   ColumnKind = "numerical"
)

// Column is a named, homogeneously typed sequence of cells. Numerical columns
// hold numeric or missing values; categorical columns hold string or missing values.
type Column struct {
	Name   string     `json:"name"`
	Kind   ColumnKind `json:"kind"`
	Values []Value    `json:"values"`
}

// Len returns the number of cells
func (c *Column) Len() int {
	return len(c.Values)
}

// Floats returns a fresh copy of the column as float64, with NaN for missing cells
func (c *Column) Floats() []float64 {
	out := make([]float64, len(c.Values))
	for i, v := range c.Values {
		out[i] = v.AsFloat64()
	}
	return out
}

// Labels returns a fresh copy of the column as text plus a presence mask
func (c *Column) Labels() ([]string, []bool) {
	labels := make([]string, len(c.Values))
	present := make([]bool, len(c.Values))
	for i, v := range c.Values {
		if v.IsMissing() {
			continue
		}
		labels[i] = v.String()
		present[i] = true
	}
	return labels, present
}

// NonMissing counts cells that hold a value
func (c *Column) NonMissing() int {
	n := 0
	for _, v := range c.Values {
		if !v.IsMissing() {
			n++
		}
	}
	return n
}

// Origin describes where a dataset came from
type Origin struct {
	Source           string    `json:"source"` // "upload", "default", "fixture"
	OriginalFilename string    `json:"original_filename,omitempty"`
	Separator        string    `json:"separator,omitempty"`
	LoadedAt         time.Time `json:"loaded_at"`
}

// Dataset is an immutable table of equally long columns with its type
// schema attached at construction.
type Dataset struct {
	columns []*Column
	index   map[string]int
	rows    int
	schema  Schema
	origin  Origin
}

// New validates the columns and derives the schema once. Column names must be
// unique and non-empty and all columns must have the same length.
func New(columns []*Column, origin Origin) (*Dataset, error) {
	ds := &Dataset{
		columns: make([]*Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
		origin:  origin,
	}
	if ds.origin.LoadedAt.IsZero() {
		ds.origin.LoadedAt = time.Now()
	}

	for i, col := range columns {
		if col == nil {
			return nil, fmt.Errorf("column %d is nil", i)
		}
		if strings.TrimSpace(col.Name) == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, dup := ds.index[col.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		if col.Kind != KindCategorical && col.Kind != KindNumerical {
			return nil, fmt.Errorf("column %q has unknown kind %q", col.Name, col.Kind)
		}
		if i == 0 {
			ds.rows = col.Len()
		} else if col.Len() != ds.rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", col.Name, col.Len(), ds.rows)
		}
		if err := checkHomogeneous(col); err != nil {
			return nil, err
		}
		ds.index[col.Name] = len(ds.columns)
		ds.columns = append(ds.columns, col)
	}

	ds.schema = newSchema(ds.columns)
	return ds, nil
}

func checkHomogeneous(col *Column) error {
	for i, v := range col.Values {
		if v.IsMissing() {
			continue
		}
		if col.Kind == KindNumerical && !v.IsNumeric() {
			return fmt.Errorf("numerical column %q has non-numeric cell at row %d", col.Name, i)
		}
		if col.Kind == KindCategorical && !v.IsString() {
			return fmt.Errorf("categorical column %q has non-text cell at row %d", col.Name, i)
		}
	}
	return nil
}

// Empty returns a dataset with no columns and no rows
func Empty() *Dataset {
	ds, _ := New(nil, Origin{Source: "empty"})
	return ds
}

// NewNumericColumn builds a numerical column; NaN marks a missing cell
func NewNumericColumn(name string, values []float64) *Column {
	col := &Column{Name: name, Kind: KindNumerical, Values: make([]Value, len(values))}
	for i, v := range values {
		col.Values[i] = NewNumericValue(v)
	}
	return col
}

// NewCategoricalColumn builds a categorical column; "" marks a missing cell
func NewCategoricalColumn(name string, values []string) *Column {
	col := &Column{Name: name, Kind: KindCategorical, Values: make([]Value, len(values))}
	for i, v := range values {
		col.Values[i] = NewStringValue(v)
	}
	return col
}

// Rows returns the number of rows
func (d *Dataset) Rows() int {
	if d == nil {
		return 0
	}
	return d.rows
}

// IsEmpty reports whether there is nothing to plot
func (d *Dataset) IsEmpty() bool {
	return d == nil || d.rows == 0 || len(d.columns) == 0
}

// Schema returns the type partition computed at construction
func (d *Dataset) Schema() Schema {
	if d == nil {
		return Schema{}
	}
	return d.schema
}

// Origin returns the ingestion metadata
func (d *Dataset) Origin() Origin {
	if d == nil {
		return Origin{}
	}
	return d.origin
}

// Column looks up a column by name
func (d *Dataset) Column(name string) (*Column, bool) {
	if d == nil {
		return nil, false
	}
	idx, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.columns[idx], true
}

// Columns returns the columns in file order
func (d *Dataset) Columns() []*Column {
	if d == nil {
		return nil
	}
	out := make([]*Column, len(d.columns))
	copy(out, d.columns)
	return out
}

// ColumnNames returns the column names in file order
func (d *Dataset) ColumnNames() []string {
	if d == nil {
		return nil
	}
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// Row returns the cells of row i in column order
func (d *Dataset) Row(i int) []Value {
	row := make([]Value, len(d.columns))
	for j, c := range d.columns {
		row[j] = c.Values[i]
	}
	return row
}

// Head returns up to n leading rows
func (d *Dataset) Head(n int) [][]Value {
	if d == nil {
		return nil
	}
	n = int(math.Min(float64(n), float64(d.rows)))
	out := make([][]Value, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, d.Row(i))
	}
	return out
}
