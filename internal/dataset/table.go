package dataset

import (
	"fmt"
	"math"
	"time"
)

// Column holds one named column of a table. Exactly one of the value
// slices is populated, selected by Kind. Nulls are represented as NaN for
// numeric columns, the empty string for string columns, and the zero time
// for date columns.
type Column struct {
	Name    string
	Kind    ColumnKind
	Floats  []float64
	Strings []string
	Times   []time.Time
}

// Len returns the number of cells in the column
func (c *Column) Len() int {
	switch c.Kind {
	case KindNumeric:
		return len(c.Floats)
	case KindDate:
		return len(c.Times)
	default:
		return len(c.Strings)
	}
}

// IsNull reports whether the cell at row i is null
func (c *Column) IsNull(i int) bool {
	switch c.Kind {
	case KindNumeric:
		return math.IsNaN(c.Floats[i])
	case KindDate:
		return c.Times[i].IsZero()
	default:
		return c.Strings[i] == ""
	}
}

// NullCount returns the number of null cells in the column
func (c *Column) NullCount() int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			n++
		}
	}
	return n
}

// NonNullFloats returns the non-null values of a numeric column
func (c *Column) NonNullFloats() []float64 {
	out := make([]float64, 0, len(c.Floats))
	for _, v := range c.Floats {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Table is an in-memory tabular dataset with ordered, typed columns
type Table struct {
	columns []*Column
	byName  map[string]*Column
}

// NewTable creates an empty table
func NewTable() *Table {
	return &Table{byName: make(map[string]*Column)}
}

// AddColumn appends a column to the table. Column lengths must agree with
// the columns already present.
func (t *Table) AddColumn(col *Column) error {
	if _, exists := t.byName[col.Name]; exists {
		return fmt.Errorf("duplicate column %q", col.Name)
	}
	if len(t.columns) > 0 && col.Len() != t.NumRows() {
		return fmt.Errorf("column %q has %d rows, table has %d", col.Name, col.Len(), t.NumRows())
	}
	t.columns = append(t.columns, col)
	t.byName[col.Name] = col
	return nil
}

// ReplaceColumn swaps a column in place, keeping its position
func (t *Table) ReplaceColumn(col *Column) error {
	old, ok := t.byName[col.Name]
	if !ok {
		return fmt.Errorf("unknown column %q", col.Name)
	}
	if col.Len() != old.Len() {
		return fmt.Errorf("column %q has %d rows, table has %d", col.Name, col.Len(), old.Len())
	}
	for i, c := range t.columns {
		if c.Name == col.Name {
			t.columns[i] = col
			break
		}
	}
	t.byName[col.Name] = col
	return nil
}

// NumRows returns the number of rows in the table
func (t *Table) NumRows() int {
	if len(t.columns) == 0 {
		return 0
	}
	return t.columns[0].Len()
}

// NumCols returns the number of columns in the table
func (t *Table) NumCols() int {
	return len(t.columns)
}

// ColumnNames returns the column names in table order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column
func (t *Table) Column(name string) (*Column, bool) {
	c, ok := t.byName[name]
	return c, ok
}

// HasColumn reports whether the named column exists
func (t *Table) HasColumn(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// NumericValues returns the raw float slice of a numeric column
func (t *Table) NumericValues(name string) ([]float64, bool) {
	c, ok := t.byName[name]
	if !ok || c.Kind != KindNumeric {
		return nil, false
	}
	return c.Floats, true
}

// StringValues returns the raw string slice of a string column
func (t *Table) StringValues(name string) ([]string, bool) {
	c, ok := t.byName[name]
	if !ok || c.Kind != KindString {
		return nil, false
	}
	return c.Strings, true
}

// TimeValues returns the raw time slice of a date column
func (t *Table) TimeValues(name string) ([]time.Time, bool) {
	c, ok := t.byName[name]
	if !ok || c.Kind != KindDate {
		return nil, false
	}
	return c.Times, true
}

// PresentNumericColumns returns the schema numeric columns present in the
// table, in schema order.
func (t *Table) PresentNumericColumns() []string {
	var present []string
	for _, name := range NumericColumns() {
		if c, ok := t.byName[name]; ok && c.Kind == KindNumeric {
			present = append(present, name)
		}
	}
	return present
}

// Filter returns a new table containing the rows for which keep returns
// true. Column order and kinds are preserved; nothing is shared with the
// receiver.
func (t *Table) Filter(keep func(row int) bool) *Table {
	out := NewTable()
	rows := t.NumRows()

	var kept []int
	for i := 0; i < rows; i++ {
		if keep(i) {
			kept = append(kept, i)
		}
	}

	for _, c := range t.columns {
		nc := &Column{Name: c.Name, Kind: c.Kind}
		switch c.Kind {
		case KindNumeric:
			nc.Floats = make([]float64, 0, len(kept))
			for _, i := range kept {
				nc.Floats = append(nc.Floats, c.Floats[i])
			}
		case KindDate:
			nc.Times = make([]time.Time, 0, len(kept))
			for _, i := range kept {
				nc.Times = append(nc.Times, c.Times[i])
			}
		default:
			nc.Strings = make([]string, 0, len(kept))
			for _, i := range kept {
				nc.Strings = append(nc.Strings, c.Strings[i])
			}
		}
		// The receiver is a valid table, so AddColumn cannot fail here
		_ = out.AddColumn(nc)
	}

	return out
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	return t.Filter(func(int) bool { return true })
}

// UniqueStrings returns the distinct non-null values of a string column,
// in first-seen order.
func (t *Table) UniqueStrings(name string) []string {
	vals, ok := t.StringValues(name)
	if !ok {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, v := range vals {
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
