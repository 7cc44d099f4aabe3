/*
Package window slices a chronologically ordered observation table into
fixed-width (input, label) pairs for supervised sequence learning.

A Spec fixes the window geometry once per experiment. Slice enumerates every
window of Spec.TotalSize() consecutive rows with stride 1, in chronological
order. Split cuts one window into an input matrix over all features and a
label matrix restricted to the selected label columns. Batcher groups the
enumeration into uniform batches for a training loop.

The package is a pure transformation: it never mutates the table, keeps no
state between calls beyond the cursor position, and enumeration is
restartable at any time with Reset.
*/
package window

import (
	"errors"

	"golang.org/x/xerrors"

	"github.com/davidghobson1/COVID-19-Forecasting-Model/tables"
)

var (
	ErrInvalidWindowConfig = errors.New("invalid window configuration")
	ErrUnknownLabelColumn  = errors.New("unknown label column")
)

/*
Spec is an immutable window geometry.

InputWidth rows form the predictor span, LabelWidth rows form the target
span, and Shift is the offset between the end of the input span and the end
of the label span. The total window covers InputWidth+Shift consecutive
rows; the label span is its last LabelWidth rows.
*/
type Spec struct {
	InputWidth int
	LabelWidth int
	Shift      int

	// LabelColumns restricts which features appear in labels.
	// Empty means all features are labels.
	LabelColumns []string
}

/*
NewSpec validates window geometry. Widths must be positive, Shift must be at
least 1, and the label span must lie inside the total window.
*/
func NewSpec(inputWidth, labelWidth, shift int, labelColumns ...string) (Spec, error) {
	s := Spec{
		InputWidth:   inputWidth,
		LabelWidth:   labelWidth,
		Shift:        shift,
		LabelColumns: labelColumns,
	}
	if inputWidth <= 0 {
		return Spec{}, xerrors.Errorf("input width %d: %w", inputWidth, ErrInvalidWindowConfig)
	}
	if labelWidth <= 0 {
		return Spec{}, xerrors.Errorf("label width %d: %w", labelWidth, ErrInvalidWindowConfig)
	}
	if shift < 1 {
		return Spec{}, xerrors.Errorf("shift %d: %w", shift, ErrInvalidWindowConfig)
	}
	if s.LabelStart() < 0 {
		return Spec{}, xerrors.Errorf("label span [%d,%d) outside window of %d rows: %w",
			s.LabelStart(), s.TotalSize(), s.TotalSize(), ErrInvalidWindowConfig)
	}
	return s, nil
}

// TotalSize returns the number of consecutive rows one window covers.
func (s Spec) TotalSize() int { return s.InputWidth + s.Shift }

// LabelStart returns the window-relative row where the label span begins.
func (s Spec) LabelStart() int { return s.TotalSize() - s.LabelWidth }

/*
Count returns the number of windows a table of n rows yields:
max(0, n-TotalSize()+1).
*/
func (s Spec) Count(n int) int {
	c := n - s.TotalSize() + 1
	if c < 0 {
		return 0
	}
	return c
}

// labelIndexes resolves the selected label columns against the table's
// column order. Empty selection means all columns.
func (s Spec) labelIndexes(t *tables.Table) ([]int, error) {
	if len(s.LabelColumns) == 0 {
		idx := make([]int, t.Width())
		for i := range idx {
			idx[i] = i
		}
		return idx, nil
	}
	idx := make([]int, len(s.LabelColumns))
	for i, name := range s.LabelColumns {
		j, ok := t.ColIndex(name)
		if !ok {
			return nil, xerrors.Errorf("label column `%v`: %w", name, ErrUnknownLabelColumn)
		}
		idx[i] = j
	}
	return idx, nil
}

/*
Window is one contiguous slice of TotalSize rows, identified by its starting
row in the source table. It's a read-only view; the rows are materialized by
Split.
*/
type Window struct {
	Start int

	table *tables.Table
	spec  Spec
}

// Split cuts the window into its input and label matrices.
func (w Window) Split() (inputs, labels [][]float32, err error) {
	return Split(w.table, w.spec, w.Start)
}

/*
Split materializes the window starting at row start: the input matrix has
shape (InputWidth, numFeatures) over all features, the label matrix has
shape (LabelWidth, numSelected) over the selected label columns. The table
is not mutated and a failed split leaves no residual state.
*/
func Split(t *tables.Table, spec Spec, start int) (inputs, labels [][]float32, err error) {
	idx, err := spec.labelIndexes(t)
	if err != nil {
		return nil, nil, err
	}
	inputs = make([][]float32, spec.InputWidth)
	for i := 0; i < spec.InputWidth; i++ {
		inputs[i] = t.Row(start + i)
	}
	labels = make([][]float32, spec.LabelWidth)
	for i := 0; i < spec.LabelWidth; i++ {
		row := start + spec.LabelStart() + i
		labels[i] = make([]float32, len(idx))
		for k, j := range idx {
			labels[i][k] = t.At(row, j)
		}
	}
	return inputs, labels, nil
}

/*
Windows is a lazy, finite, restartable cursor over every window of a table.
Emission order is ascending start index, i.e. chronological. The cursor
holds only the table reference and the next start index; restarting is a
matter of resetting the index.
*/
type Windows struct {
	table *tables.Table
	spec  Spec
	next  int
}

// Slice creates a window cursor over the whole table.
func Slice(t *tables.Table, spec Spec) *Windows {
	return &Windows{table: t, spec: spec}
}

// Count returns the total number of windows the cursor will emit.
func (ws *Windows) Count() int { return ws.spec.Count(ws.table.Len()) }

// Next returns the next window and false when the enumeration is done.
func (ws *Windows) Next() (Window, bool) {
	if ws.next >= ws.Count() {
		return Window{}, false
	}
	w := Window{Start: ws.next, table: ws.table, spec: ws.spec}
	ws.next++
	return w, true
}

// Reset restarts the enumeration from the first window.
func (ws *Windows) Reset() { ws.next = 0 }
