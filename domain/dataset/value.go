package dataset

import (
	"math"
	"strconv"
)

// ValueType defines the storage type for a cell
type ValueType string

const (
	ValueTypeString  ValueType = "string"
	ValueTypeNumeric ValueType = "numeric"
	ValueTypeMissing ValueType = "missing"
)

// Value is a single typed cell: a number, a piece of text, or missing
type Value struct {
	Type       ValueType `json:"type"`
	NumericVal float64   `json:"numeric_val,omitempty"`
	StringVal  string    `json:"string_val,omitempty"`
}

// NewStringValue creates a string value; the empty string is missing
func NewStringValue(s string) Value {
	if s == "" {
		return NewMissingValue()
	}
	return Value{Type: ValueTypeString, StringVal: s}
}

// NewNumericValue creates a numeric value; NaN is stored as missing
func NewNumericValue(n float64) Value {
	if math.IsNaN(n) {
		return NewMissingValue()
	}
	return Value{Type: ValueTypeNumeric, NumericVal: n}
}

// NewMissingValue creates a missing value
func NewMissingValue() Value {
	return Value{Type: ValueTypeMissing}
}

// IsMissing returns true if the cell holds no value
func (v Value) IsMissing() bool {
	return v.Type == ValueTypeMissing || v.Type == ""
}

// IsNumeric returns true if the value represents a valid number
func (v Value) IsNumeric() bool {
	return v.Type == ValueTypeNumeric
}

// IsString returns true if the value represents text
func (v Value) IsString() bool {
	return v.Type == ValueTypeString
}

// AsFloat64 returns the numeric value, or NaN for anything else
func (v Value) AsFloat64() float64 {
	if v.Type == ValueTypeNumeric {
		return v.NumericVal
	}
	return math.NaN()
}

// String renders the cell the way the preview table shows it
func (v Value) String() string {
	switch v.Type {
	case ValueTypeString:
		return v.StringVal
	case ValueTypeNumeric:
		return strconv.FormatFloat(v.NumericVal, 'g', -1, 64)
	default:
		return "NaN"
	}
}
