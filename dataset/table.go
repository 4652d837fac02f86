package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ColumnType is the declared type of a column, inferred from its values.
type ColumnType string

const (
	TypeNull   ColumnType = "null"
	TypeInt    ColumnType = "int64"
	TypeFloat  ColumnType = "float64"
	TypeString ColumnType = "string"
	TypeMixed  ColumnType = "mixed"
)

// Numeric reports whether every non-null value of the column is a number.
func (t ColumnType) Numeric() bool { return t == TypeInt || t == TypeFloat }

// DType is the dataframe-style dtype name shown in dataset previews.
func (t ColumnType) DType() string {
	if t.Numeric() {
		return string(t)
	}
	return "object"
}

func unify(a, b ColumnType) ColumnType {
	switch {
	case a == b:
		return a
	case a == TypeNull:
		return b
	case b == TypeNull:
		return a
	case a.Numeric() && b.Numeric():
		return TypeFloat
	}
	return TypeMixed
}

func typeOf(v Value) ColumnType {
	switch v.kind {
	case KindInt:
		return TypeInt
	case KindFloat:
		return TypeFloat
	case KindString:
		return TypeString
	}
	return TypeNull
}

type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`

	hasNull bool
}

// DType is the preview dtype. An integer column with gaps widens to float64.
func (c Column) DType() string {
	if c.Type == TypeInt && c.hasNull {
		return string(TypeFloat)
	}
	return c.Type.DType()
}

// Table is an immutable, ordered set of rows sharing one schema.
type Table struct {
	cols  []Column
	index map[string]int
	rows  [][]Value
}

// Empty returns a table with no rows and no columns.
func Empty() *Table {
	return &Table{index: map[string]int{}}
}

// New builds a table from column names and rows, inferring column types.
// Every row must have exactly one cell per column.
func New(names []string, rows [][]Value) (*Table, error) {
	cols := make([]Column, len(names))
	index := make(map[string]int, len(names))
	for i, n := range names {
		if _, dup := index[n]; dup {
			return nil, fmt.Errorf("duplicate column %q", n)
		}
		index[n] = i
		cols[i] = Column{Name: n, Type: TypeNull}
	}
	for r, row := range rows {
		if len(row) != len(cols) {
			return nil, fmt.Errorf("row %d has %d cells, schema has %d columns", r, len(row), len(cols))
		}
		for c, v := range row {
			cols[c].Type = unify(cols[c].Type, typeOf(v))
			if v.IsNull() {
				cols[c].hasNull = true
			}
		}
	}
	if len(rows) > 0 {
		// a column of nothing but gaps reads as an empty float column
		for c := range cols {
			if cols[c].Type == TypeNull {
				cols[c].Type = TypeFloat
			}
		}
	}
	return &Table{cols: cols, index: index, rows: rows}, nil
}

// MustNew is New for statically known inputs; it panics on a schema mismatch.
func MustNew(names []string, rows [][]Value) *Table {
	t, err := New(names, rows)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) Len() int { return len(t.rows) }

func (t *Table) Width() int { return len(t.cols) }

func (t *Table) Columns() []Column {
	out := make([]Column, len(t.cols))
	copy(out, t.cols)
	return out
}

func (t *Table) ColumnNames() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

// Index returns the position of a column, or -1.
func (t *Table) Index(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

func (t *Table) Has(name string) bool { return t.Index(name) >= 0 }

// Column returns the named column's schema entry.
func (t *Table) Column(name string) (Column, bool) {
	i := t.Index(name)
	if i < 0 {
		return Column{}, false
	}
	return t.cols[i], true
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []Value {
	out := make([]Value, len(t.rows[i]))
	copy(out, t.rows[i])
	return out
}

// At returns the cell at row i in the named column; null when the column is absent.
func (t *Table) At(i int, name string) Value {
	c := t.Index(name)
	if c < 0 {
		return Null()
	}
	return t.rows[i][c]
}

// NumericColumns returns numeric column names in schema order.
func (t *Table) NumericColumns() []string {
	var out []string
	for _, c := range t.cols {
		if c.Type.Numeric() {
			out = append(out, c.Name)
		}
	}
	return out
}

// Filter returns the rows for which keep reports true.
func (t *Table) Filter(keep func(i int) bool) *Table {
	var rows [][]Value
	for i, row := range t.rows {
		if keep(i) {
			rows = append(rows, row)
		}
	}
	return t.withRows(rows)
}

// Head returns at most the first n rows.
func (t *Table) Head(n int) *Table {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	if n < 0 {
		n = 0
	}
	return t.withRows(t.rows[:n:n])
}

// withRows shares row slices with t; rows are never mutated after construction.
func (t *Table) withRows(rows [][]Value) *Table {
	names := t.ColumnNames()
	out, err := New(names, rows)
	if err != nil {
		// rows came from t, so widths already match
		panic(err)
	}
	return out
}

// Concat stacks tables row-wise. Columns are the union of all inputs in
// first-seen order; cells a source does not have become null.
func Concat(tables ...*Table) *Table {
	var names []string
	seen := map[string]bool{}
	total := 0
	for _, t := range tables {
		for _, c := range t.cols {
			if !seen[c.Name] {
				seen[c.Name] = true
				names = append(names, c.Name)
			}
		}
		total += len(t.rows)
	}
	if len(names) == 0 {
		return Empty()
	}
	rows := make([][]Value, 0, total)
	for _, t := range tables {
		for _, src := range t.rows {
			row := make([]Value, len(names))
			for i, n := range names {
				if c := t.Index(n); c >= 0 {
					row[i] = src[c]
				}
			}
			rows = append(rows, row)
		}
	}
	return MustNew(names, rows)
}

// Record is one row rendered as an ordered JSON object.
type Record struct {
	Names  []string
	Values []Value
}

func (r Record) Get(name string) Value {
	for i, n := range r.Names {
		if n == name {
			return r.Values[i]
		}
	}
	return Null()
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, n := range r.Names {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(n)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := r.Values[i].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Records renders every row. The result is never nil so it encodes as [].
func (t *Table) Records() []Record {
	names := t.ColumnNames()
	out := make([]Record, len(t.rows))
	for i, row := range t.rows {
		out[i] = Record{Names: names, Values: row}
	}
	return out
}

// Maps renders rows as plain maps, for callers that need map access.
func (t *Table) Maps() []map[string]any {
	out := make([]map[string]any, len(t.rows))
	for i, row := range t.rows {
		m := make(map[string]any, len(t.cols))
		for c, col := range t.cols {
			m[col.Name] = row[c].Interface()
		}
		out[i] = m
	}
	return out
}

// Equal reports whether two tables have the same column names and identical rows.
func (t *Table) Equal(o *Table) bool {
	if len(t.cols) != len(o.cols) || len(t.rows) != len(o.rows) {
		return false
	}
	for i := range t.cols {
		if t.cols[i] != o.cols[i] {
			return false
		}
	}
	for i := range t.rows {
		for c := range t.rows[i] {
			if !t.rows[i][c].Equal(o.rows[i][c]) {
				return false
			}
		}
	}
	return true
}
