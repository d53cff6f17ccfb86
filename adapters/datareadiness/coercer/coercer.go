package coercer

import (
	"math"
	"strconv"
	"strings"

	"edadash/domain/dataset"
)

// TypeCoercer turns raw cell text into typed values and decides a column's
// partition. A column is numerical when every non-missing cell parses as a
// finite number, otherwise it is categorical.
type TypeCoercer struct {
	config  CoercionConfig
	missing map[string]struct{}
}

// CoercionConfig defines the coercion rules
type CoercionConfig struct {
	MissingTokens []string `json:"missing_tokens"` // cells treated as missing after trimming
	TrimSpace     bool     `json:"trim_space"`     // trim cells for the missing and numeric checks
}

// DefaultCoercionConfig mirrors the NA tokens pandas recognises by default
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		MissingTokens: []string{"", "NA", "N/A", "n/a", "NaN", "nan", "-NaN", "null", "NULL", "None", "#N/A", "<NA>"},
		TrimSpace:     true,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	missing := make(map[string]struct{}, len(config.MissingTokens))
	for _, tok := range config.MissingTokens {
		missing[tok] = struct{}{}
	}
	return &TypeCoercer{config: config, missing: missing}
}

func (c *TypeCoercer) clean(raw string) string {
	if c.config.TrimSpace {
		return strings.TrimSpace(raw)
	}
	return raw
}

// IsMissing reports whether a raw cell counts as missing
func (c *TypeCoercer) IsMissing(raw string) bool {
	_, ok := c.missing[c.clean(raw)]
	return ok
}

// ParseNumeric parses a finite number; thousands separators and currency are
// not accepted, matching the default CSV reader behaviour.
func (c *TypeCoercer) ParseNumeric(raw string) (float64, bool) {
	s := c.clean(raw)
	if s == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// CoerceValue converts a single cell without column context
func (c *TypeCoercer) CoerceValue(raw string) dataset.Value {
	if c.IsMissing(raw) {
		return dataset.NewMissingValue()
	}
	if val, ok := c.ParseNumeric(raw); ok {
		return dataset.NewNumericValue(val)
	}
	return dataset.NewStringValue(raw)
}

// AnalyzeTypeDistribution counts how the cells of one column parse
func (c *TypeCoercer) AnalyzeTypeDistribution(values []string) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(values)}
	for _, raw := range values {
		if c.IsMissing(raw) {
			analysis.MissingCount++
			continue
		}
		if _, ok := c.ParseNumeric(raw); ok {
			analysis.NumericCount++
		} else {
			analysis.TextCount++
		}
	}
	analysis.ValidCount = analysis.TotalCount - analysis.MissingCount
	if analysis.ValidCount > 0 {
		analysis.NumericRatio = float64(analysis.NumericCount) / float64(analysis.ValidCount)
	}
	analysis.RecommendedKind = dataset.KindNumerical
	if analysis.TextCount > 0 {
		analysis.RecommendedKind = dataset.KindCategorical
	}
	return analysis
}

// BuildColumn infers the column's kind and coerces every cell accordingly.
// Cells of a categorical column keep their text exactly as read, surrounding
// spaces included, even when they look numeric.
func (c *TypeCoercer) BuildColumn(name string, values []string) *dataset.Column {
	analysis := c.AnalyzeTypeDistribution(values)
	col := &dataset.Column{
		Name:   name,
		Kind:   analysis.RecommendedKind,
		Values: make([]dataset.Value, len(values)),
	}
	for i, raw := range values {
		switch {
		case c.IsMissing(raw):
			col.Values[i] = dataset.NewMissingValue()
		case col.Kind == dataset.KindNumerical:
			val, _ := c.ParseNumeric(raw)
			col.Values[i] = dataset.NewNumericValue(val)
		default:
			col.Values[i] = dataset.NewStringValue(raw)
		}
	}
	return col
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount      int                `json:"total_count"`
	ValidCount      int                `json:"valid_count"`
	MissingCount    int                `json:"missing_count"`
	NumericCount    int                `json:"numeric_count"`
	TextCount       int                `json:"text_count"`
	NumericRatio    float64            `json:"numeric_ratio"`
	RecommendedKind dataset.ColumnKind `json:"recommended_kind"`
}
