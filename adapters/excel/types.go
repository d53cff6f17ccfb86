package excel

// RawTable is a parsed sheet before type coercion: one header row plus data
// rows padded to the header width.
type RawTable struct {
	Headers []string   // Column headers, de-duplicated
	Rows    [][]string // Data rows
}

// Column returns the raw cells of column j
func (t *RawTable) Column(j int) []string {
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if j < len(row) {
			out[i] = row[j]
		}
	}
	return out
}
