package excel

import (
	"fmt"
	"unicode/utf8"

	"edadash/adapters/datareadiness/coercer"
)

// ReaderConfig holds configuration for tabular ingestion
type ReaderConfig struct {
	Separator      rune                   `json:"separator"`
	CoercionConfig coercer.CoercionConfig `json:"coercion_config"`
	Sheet          string                 `json:"sheet"` // empty means the first sheet
}

// DefaultReaderConfig returns comma-separated CSV and the first XLSX sheet
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		Separator:      ',',
		CoercionConfig: coercer.DefaultCoercionConfig(),
	}
}

// ParseSeparator accepts a single character, or the escapes \t and \s
func ParseSeparator(s string) (rune, error) {
	switch s {
	case "":
		return ',', nil
	case `\t`, "tab":
		return '\t', nil
	case `\s`:
		return ' ', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("separator must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("invalid separator %q", s)
	}
	return r, nil
}
