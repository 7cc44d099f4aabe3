package tables

import (
	"golang.org/x/xerrors"
)

/*
Join inner-joins two tables on a shared key column. The result keeps the
left table's row order and contains the key once, followed by the remaining
left columns, followed by the remaining right columns. Right-side duplicates
of left column names get a `_r` suffix. Rows whose key has no match on the
right are dropped.
*/
func (t *Table) Join(other *Table, on string) (*Table, error) {
	li, ok := t.ColIndex(on)
	if !ok {
		return nil, xerrors.Errorf("left join column `%v`: %w", on, ErrUnknownColumn)
	}
	ri, ok := other.ColIndex(on)
	if !ok {
		return nil, xerrors.Errorf("right join column `%v`: %w", on, ErrUnknownColumn)
	}

	rindex := map[float32]int{}
	for j := 0; j < other.Len(); j++ {
		k := other.columns[ri][j]
		if _, dup := rindex[k]; !dup {
			rindex[k] = j
		}
	}

	names := []string{on}
	for i, n := range t.names {
		if i != li {
			names = append(names, n)
		}
	}
	for i, n := range other.names {
		if i == ri {
			continue
		}
		if _, dup := lookup(names, n); dup {
			n = n + "_r"
		}
		names = append(names, n)
	}

	var rows [][]float32
	for j := 0; j < t.Len(); j++ {
		k := t.columns[li][j]
		rj, ok := rindex[k]
		if !ok {
			continue
		}
		row := []float32{k}
		for i := range t.columns {
			if i != li {
				row = append(row, t.columns[i][j])
			}
		}
		for i := range other.columns {
			if i != ri {
				row = append(row, other.columns[i][rj])
			}
		}
		rows = append(rows, row)
	}
	return FromRows(names, rows)
}

func lookup(names []string, name string) (int, bool) {
	for i, n := range names {
		if n == name {
			return i, true
		}
	}
	return -1, false
}
