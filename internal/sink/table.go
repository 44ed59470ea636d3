// Package sink collects accepted candidates of one event and turns them into
// flat column tables.
package sink

import "fmt"

// Kind is the value type of a column.
type Kind int

const (
	Float Kind = iota
	Int
	Bool
)

func (k Kind) String() string {
	switch k {
	case Float:
		return "float"
	case Int:
		return "int"
	case Bool:
		return "bool"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Column holds the values of one named column. Only the slice matching Kind
// is populated.
type Column struct {
	Name   string
	Kind   Kind
	Floats []float64
	Ints   []int64
	Bools  []bool
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	switch c.Kind {
	case Int:
		return len(c.Ints)
	case Bool:
		return len(c.Bools)
	}
	return len(c.Floats)
}

// Value returns row i as a float64, int64 or bool.
func (c *Column) Value(i int) any {
	switch c.Kind {
	case Int:
		return c.Ints[i]
	case Bool:
		return c.Bools[i]
	}
	return c.Floats[i]
}

// Table is a named set of equally long columns.
type Table struct {
	Name    string
	Columns []Column
	// Singleton tables always hold exactly one row.
	Singleton bool
}

// Rows returns the number of rows.
func (t *Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// Row returns the values of row i in column order.
func (t *Table) Row(i int) []any {
	row := make([]any, len(t.Columns))
	for j := range t.Columns {
		row[j] = t.Columns[j].Value(i)
	}
	return row
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column, or nil.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}
