package dataset

import (
	"math"

	"go-ml.dev/pkg/zorros"

	"github.com/davidghobson1/COVID-19-Forecasting-Model/tables"
)

/*
Clean repairs the usual defects of the source tables: rows before the first
reported value are dropped, remaining gaps are forward filled, and negative
daily counts (reporting corrections) are clamped to zero. The day key column
is left untouched.
*/
func Clean(t *tables.Table) (*tables.Table, error) {
	names := t.Names()
	first := firstValidRow(t)
	columns := make([][]float32, len(names))
	for j, name := range names {
		col := t.LuckyCol(name).Values()[first:]
		if name != DayColumn {
			fillForward(col)
			clampNegative(col)
		}
		columns[j] = col
	}
	return tables.New(names, columns)
}

/*
Merge joins the case table with the hospitalization table on the day key.
Days present in only one of the two are dropped, so the merged table covers
the overlap of the reporting periods.
*/
func Merge(cases, hospital *tables.Table) (*tables.Table, error) {
	merged, err := cases.Join(hospital, DayColumn)
	if err != nil {
		return nil, zorros.Wrapf(err, "merging hospitalization data: %v", err.Error())
	}
	if merged.Len() == 0 {
		return nil, zorros.Errorf("case and hospitalization tables have no days in common")
	}
	return merged, nil
}

/*
Split partitions the table chronologically into train, validation and test
subsets by row range. Rows are never shuffled. The fractions must be
positive and sum below 1; the test subset takes the remainder.
*/
func Split(t *tables.Table, trainFrac, validFrac float64) (train, valid, test *tables.Table, err error) {
	if trainFrac <= 0 || validFrac <= 0 || trainFrac+validFrac >= 1 {
		return nil, nil, nil, zorros.Errorf("bad split fractions %v/%v", trainFrac, validFrac)
	}
	n := t.Len()
	a := int(float64(n) * trainFrac)
	b := int(float64(n) * (trainFrac + validFrac))
	if train, err = t.Slice(0, a); err != nil {
		return
	}
	if valid, err = t.Slice(a, b); err != nil {
		return
	}
	test, err = t.Slice(b, n)
	return
}

// firstValidRow finds the first row with at least one reported value.
func firstValidRow(t *tables.Table) int {
	for i := 0; i < t.Len(); i++ {
		for j, name := range t.Names() {
			if name == DayColumn {
				continue
			}
			if !math.IsNaN(float64(t.At(i, j))) {
				return i
			}
		}
	}
	return t.Len()
}

func fillForward(col []float32) {
	last := float32(0)
	for i, v := range col {
		if math.IsNaN(float64(v)) {
			col[i] = last
		} else {
			last = v
		}
	}
}

func clampNegative(col []float32) {
	for i, v := range col {
		if v < 0 {
			col[i] = 0
		}
	}
}
