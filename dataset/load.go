/*
Package dataset turns the raw source files into a clean, normalized,
chronologically split observation table.

Two files feed an experiment: the primary case/death/recovery table and the
supplementary hospitalization/ICU table, both keyed by date and region. The
package reads them, filters one region, renames the source columns to
canonical feature names, merges the two on the day-of-year key, forward
fills the gaps, normalizes with training statistics and partitions the rows
into contiguous train/validation/test subsets.
*/
package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"go-ml.dev/pkg/zorros"

	"github.com/davidghobson1/COVID-19-Forecasting-Model/tables"
)

// DayColumn is the canonical name of the day-of-year time key every loaded
// table carries as its first column.
const DayColumn = "Day"

var dateLayouts = []string{"2006-01-02", "01/02/2006", "1/2/2006", time.RFC3339}

/*
Rename maps one source value column to its canonical feature name.
*/
type Rename struct {
	From, To string
}

/*
ColumnSpec describes how to read one source file: which column holds the
date, which holds the region, and which value columns to keep under which
canonical name. Kept columns appear in the loaded table in Keep order.
*/
type ColumnSpec struct {
	Date   string   // source date column
	Region string   // source region column, empty if the file has none
	Keep   []Rename // source value columns to keep, renamed
}

/*
ReadCSV loads one source file, keeps only the rows of the given region,
renames the kept value columns and replaces the date with a day-of-year
key. Cells that are empty or non-numeric become NaN for Clean to fill.
*/
func ReadCSV(path string, spec ColumnSpec, region string) (*tables.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, zorros.Trace(err)
	}
	defer f.Close()
	t, err := readCSV(f, spec, region)
	if err != nil {
		return nil, zorros.Wrapf(err, "reading `%v`: %v", path, err.Error())
	}
	return t, nil
}

func readCSV(r io.Reader, spec ColumnSpec, region string) (*tables.Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, zorros.Trace(err)
	}

	at := map[string]int{}
	for i, h := range header {
		at[h] = i
	}
	dateAt, ok := at[spec.Date]
	if !ok {
		return nil, zorros.Errorf("no date column `%v` in header", spec.Date)
	}
	regionAt := -1
	if spec.Region != "" {
		if regionAt, ok = at[spec.Region]; !ok {
			return nil, zorros.Errorf("no region column `%v` in header", spec.Region)
		}
	}
	names := []string{DayColumn}
	keepAt := []int{dateAt}
	for _, keep := range spec.Keep {
		i, ok := at[keep.From]
		if !ok {
			return nil, zorros.Errorf("no value column `%v` in header", keep.From)
		}
		names = append(names, keep.To)
		keepAt = append(keepAt, i)
	}

	var rows [][]float32
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, zorros.Trace(err)
		}
		if regionAt >= 0 && rec[regionAt] != region {
			continue
		}
		row := make([]float32, len(names))
		day, err := parseDay(rec[dateAt])
		if err != nil {
			return nil, zorros.Wrapf(err, "line %d: %v", line, err.Error())
		}
		row[0] = day
		for k, i := range keepAt[1:] {
			row[k+1] = parseCell(rec[i])
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, zorros.Errorf("no rows for region `%v`", region)
	}
	return tables.FromRows(names, rows)
}

func parseDay(s string) (float32, error) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return float32(d.YearDay()), nil
		}
	}
	return 0, zorros.Errorf("unparsable date `%v`", s)
}

func parseCell(s string) float32 {
	if s == "" {
		return float32(math.NaN())
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return float32(math.NaN())
	}
	return float32(v)
}
