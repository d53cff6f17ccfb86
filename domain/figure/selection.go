package figure

import (
	"edadash/domain/dataset"
	"edadash/internal/errors"
)

// Selection is a plot kind plus the user's column choice(s)
type Selection struct {
	Kind    PlotKind `json:"kind"`
	Column  string   `json:"column,omitempty"`
	Column2 string   `json:"column2,omitempty"`
}

// Validate checks the selection against the dataset's type partition
func (s Selection) Validate(ds *dataset.Dataset) error {
	if ds.IsEmpty() {
		return errors.InvalidSelection("Please upload a dataset or use the default dataset.")
	}
	if _, err := ParseKind(string(s.Kind)); err != nil {
		return errors.InvalidSelection("%v", err)
	}

	schema := ds.Schema()
	switch s.Kind.ColumnCount() {
	case 1:
		return requireKind(schema, s.Kind, s.Column)
	case 2:
		if err := requireKind(schema, s.Kind, s.Column); err != nil {
			return err
		}
		return requireKind(schema, s.Kind, s.Column2)
	}
	return nil
}

func requireKind(schema dataset.Schema, kind PlotKind, column string) error {
	if column == "" {
		return errors.InvalidSelection("%s plot needs a column", kind)
	}
	got, ok := schema.KindOf(column)
	if !ok {
		return errors.InvalidSelection("column %q does not exist", column)
	}
	want := dataset.KindNumerical
	if kind.NeedsCategorical() {
		want = dataset.KindCategorical
	}
	if got != want {
		return errors.InvalidSelection("%s plot needs a %s column, %q is %s", kind, want, column, got)
	}
	return nil
}
