/*
Package tables implements the rectangular, chronologically ordered table of
numeric observations all other packages consume. One row per time step, one
named float32 column per feature. Tables are immutable after construction;
every operation returns a new table.
*/
package tables

import (
	"errors"

	"golang.org/x/xerrors"
)

var (
	ErrColumnLenMismatch = errors.New("columns have different lengths")
	ErrDuplicateColumn   = errors.New("duplicate column name")
	ErrUnknownColumn     = errors.New("unknown column name")
	ErrBadRange          = errors.New("row range out of bounds")
)

/*
Table is an ordered set of named float32 columns of equal length. Row order
is the chronological order of the underlying observations.
*/
type Table struct {
	names   []string
	columns [][]float32
}

/*
New creates a table from parallel name/column slices. All columns must have
the same length and names must be unique.
*/
func New(names []string, columns [][]float32) (*Table, error) {
	if len(names) != len(columns) {
		return nil, xerrors.Errorf("%d names for %d columns: %w",
			len(names), len(columns), ErrColumnLenMismatch)
	}
	seen := map[string]bool{}
	for i, n := range names {
		if seen[n] {
			return nil, xerrors.Errorf("column `%v`: %w", n, ErrDuplicateColumn)
		}
		seen[n] = true
		if len(columns[i]) != len(columns[0]) {
			return nil, xerrors.Errorf("column `%v` has %d rows, column `%v` has %d: %w",
				n, len(columns[i]), names[0], len(columns[0]), ErrColumnLenMismatch)
		}
	}
	return &Table{names: names, columns: columns}, nil
}

/*
FromRows creates a table from row vectors. Every row must have one value per
column name.
*/
func FromRows(names []string, rows [][]float32) (*Table, error) {
	columns := make([][]float32, len(names))
	for i := range columns {
		columns[i] = make([]float32, len(rows))
	}
	for j, r := range rows {
		if len(r) != len(names) {
			return nil, xerrors.Errorf("row %d has %d values for %d columns: %w",
				j, len(r), len(names), ErrColumnLenMismatch)
		}
		for i, v := range r {
			columns[i][j] = v
		}
	}
	return New(names, columns)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if len(t.columns) == 0 {
		return 0
	}
	return len(t.columns[0])
}

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.names) }

// Names returns the ordered column names. The slice is a copy.
func (t *Table) Names() []string {
	r := make([]string, len(t.names))
	copy(r, t.names)
	return r
}

// ColIndex returns the position of the named column and false if it's absent.
func (t *Table) ColIndex(name string) (int, bool) {
	for i, n := range t.names {
		if n == name {
			return i, true
		}
	}
	return -1, false
}

/*
Column is a read-only view of a single table column.
*/
type Column struct {
	name   string
	values []float32
}

func (c Column) Name() string        { return c.name }
func (c Column) Len() int            { return len(c.values) }
func (c Column) Float(i int) float32 { return c.values[i] }

// Values returns a copy of the column values.
func (c Column) Values() []float32 {
	r := make([]float32, len(c.values))
	copy(r, c.values)
	return r
}

// Col returns a view of the named column. It returns ErrUnknownColumn
// wrapped with the requested name if the column does not exist.
func (t *Table) Col(name string) (Column, error) {
	i, ok := t.ColIndex(name)
	if !ok {
		return Column{}, xerrors.Errorf("column `%v`: %w", name, ErrUnknownColumn)
	}
	return Column{name: name, values: t.columns[i]}, nil
}

// LuckyCol returns a view of the named column and panics if it's absent.
func (t *Table) LuckyCol(name string) Column {
	c, err := t.Col(name)
	if err != nil {
		panic(err)
	}
	return c
}

// Row returns a copy of the i-th row across all columns.
func (t *Table) Row(i int) []float32 {
	r := make([]float32, len(t.columns))
	for j, c := range t.columns {
		r[j] = c[i]
	}
	return r
}

// At returns the value at row i of column j.
func (t *Table) At(i, j int) float32 { return t.columns[j][i] }

/*
Slice returns a new table holding rows [lo,hi). It's used to partition a
chronological table into contiguous train/validation/test subsets.
*/
func (t *Table) Slice(lo, hi int) (*Table, error) {
	if lo < 0 || hi < lo || hi > t.Len() {
		return nil, xerrors.Errorf("[%d,%d) of %d rows: %w", lo, hi, t.Len(), ErrBadRange)
	}
	columns := make([][]float32, len(t.columns))
	for i, c := range t.columns {
		columns[i] = make([]float32, hi-lo)
		copy(columns[i], c[lo:hi])
	}
	return &Table{names: t.Names(), columns: columns}, nil
}

// With returns a new table with an extra column appended.
func (t *Table) With(values []float32, name string) (*Table, error) {
	if t.Len() > 0 && len(values) != t.Len() {
		return nil, xerrors.Errorf("column `%v` has %d rows, table has %d: %w",
			name, len(values), t.Len(), ErrColumnLenMismatch)
	}
	if _, ok := t.ColIndex(name); ok {
		return nil, xerrors.Errorf("column `%v`: %w", name, ErrDuplicateColumn)
	}
	v := make([]float32, len(values))
	copy(v, values)
	return New(append(t.Names(), name), append(t.copyColumns(), v))
}

// Except returns a new table without the named columns.
func (t *Table) Except(names ...string) *Table {
	drop := map[string]bool{}
	for _, n := range names {
		drop[n] = true
	}
	var keep []string
	var columns [][]float32
	for i, n := range t.names {
		if !drop[n] {
			keep = append(keep, n)
			columns = append(columns, t.columns[i])
		}
	}
	return &Table{names: keep, columns: columns}
}

func (t *Table) copyColumns() [][]float32 {
	r := make([][]float32, len(t.columns))
	copy(r, t.columns)
	return r
}
