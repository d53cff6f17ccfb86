package dataset

// Schema partitions a dataset's columns into categorical and numerical names.
// It is exhaustive and disjoint over the columns and preserves file order.
type Schema struct {
	Categorical []string `json:"categorical"`
	Numerical   []string `json:"numerical"`

	kinds map[string]ColumnKind
}

func newSchema(columns []*Column) Schema {
	s := Schema{
		Categorical: []string{},
		Numerical:   []string{},
		kinds:       make(map[string]ColumnKind, len(columns)),
	}
	for _, c := range columns {
		s.kinds[c.Name] = c.Kind
		if c.Kind == KindCategorical {
			s.Categorical = append(s.Categorical, c.Name)
		} else {
			s.Numerical = append(s.Numerical, c.Name)
		}
	}
	return s
}

// KindOf returns the partition of a column
func (s Schema) KindOf(name string) (ColumnKind, bool) {
	kind, ok := s.kinds[name]
	return kind, ok
}

// IsCategorical reports whether name is a categorical column
func (s Schema) IsCategorical(name string) bool {
	return s.kinds[name] == KindCategorical
}

// IsNumerical reports whether name is a numerical column
func (s Schema) IsNumerical(name string) bool {
	return s.kinds[name] == KindNumerical
}

// Len returns the total number of columns
func (s Schema) Len() int {
	return len(s.Categorical) + len(s.Numerical)
}
