package tables

import (
	"errors"
	"testing"

	"gotest.tools/assert"
)

func Test_NewValidation(t *testing.T) {
	_, err := New([]string{"A", "B"}, [][]float32{{1, 2}, {3}})
	assert.Assert(t, errors.Is(err, ErrColumnLenMismatch))
	_, err = New([]string{"A", "A"}, [][]float32{{1}, {2}})
	assert.Assert(t, errors.Is(err, ErrDuplicateColumn))
	_, err = New([]string{"A"}, [][]float32{{1}, {2}})
	assert.Assert(t, errors.Is(err, ErrColumnLenMismatch))

	q, err := New([]string{"A", "B"}, [][]float32{{1, 2}, {3, 4}})
	assert.NilError(t, err)
	assert.Assert(t, q.Len() == 2)
	assert.Assert(t, q.Width() == 2)
}

func Test_FromRows(t *testing.T) {
	q, err := FromRows([]string{"A", "B"}, [][]float32{{1, 10}, {2, 20}, {3, 30}})
	assert.NilError(t, err)
	assert.Assert(t, q.Len() == 3)
	assert.DeepEqual(t, q.Row(1), []float32{2, 20})
	assert.Assert(t, q.At(2, 1) == 30)

	_, err = FromRows([]string{"A", "B"}, [][]float32{{1, 10}, {2}})
	assert.Assert(t, errors.Is(err, ErrColumnLenMismatch))
}

func Test_Col(t *testing.T) {
	q, err := FromRows([]string{"A", "B"}, [][]float32{{1, 10}, {2, 20}})
	assert.NilError(t, err)
	c, err := q.Col("B")
	assert.NilError(t, err)
	assert.Assert(t, c.Len() == 2)
	assert.Assert(t, c.Float(0) == 10)
	assert.DeepEqual(t, c.Values(), []float32{10, 20})

	_, err = q.Col("C")
	assert.Assert(t, errors.Is(err, ErrUnknownColumn))
}

func Test_Slice(t *testing.T) {
	q, err := FromRows([]string{"A"}, [][]float32{{1}, {2}, {3}, {4}, {5}})
	assert.NilError(t, err)
	s, err := q.Slice(1, 4)
	assert.NilError(t, err)
	assert.Assert(t, s.Len() == 3)
	assert.Assert(t, s.At(0, 0) == 2)
	assert.Assert(t, s.At(2, 0) == 4)

	_, err = q.Slice(3, 2)
	assert.Assert(t, errors.Is(err, ErrBadRange))
	_, err = q.Slice(0, 6)
	assert.Assert(t, errors.Is(err, ErrBadRange))

	// a slice is a copy, the source stays intact
	empty, err := q.Slice(2, 2)
	assert.NilError(t, err)
	assert.Assert(t, empty.Len() == 0)
	assert.Assert(t, q.Len() == 5)
}

func Test_WithExcept(t *testing.T) {
	q, err := FromRows([]string{"A", "B"}, [][]float32{{1, 10}, {2, 20}})
	assert.NilError(t, err)
	w, err := q.With([]float32{7, 8}, "C")
	assert.NilError(t, err)
	assert.DeepEqual(t, w.Names(), []string{"A", "B", "C"})
	assert.Assert(t, w.At(1, 2) == 8)

	_, err = q.With([]float32{7, 8}, "A")
	assert.Assert(t, errors.Is(err, ErrDuplicateColumn))
	_, err = q.With([]float32{7}, "C")
	assert.Assert(t, errors.Is(err, ErrColumnLenMismatch))

	e := w.Except("B")
	assert.DeepEqual(t, e.Names(), []string{"A", "C"})
	assert.Assert(t, e.At(0, 1) == 7)
}

func Test_Join(t *testing.T) {
	left, err := FromRows([]string{"Day", "Cases"}, [][]float32{
		{1, 100}, {2, 200}, {3, 300}, {4, 400},
	})
	assert.NilError(t, err)
	right, err := FromRows([]string{"Day", "ICU"}, [][]float32{
		{2, 20}, {3, 30}, {5, 50},
	})
	assert.NilError(t, err)

	j, err := left.Join(right, "Day")
	assert.NilError(t, err)
	assert.DeepEqual(t, j.Names(), []string{"Day", "Cases", "ICU"})
	assert.Assert(t, j.Len() == 2)
	assert.DeepEqual(t, j.Row(0), []float32{2, 200, 20})
	assert.DeepEqual(t, j.Row(1), []float32{3, 300, 30})

	_, err = left.Join(right, "Cases")
	assert.Assert(t, errors.Is(err, ErrUnknownColumn))
}

func Test_JoinRenamesDuplicates(t *testing.T) {
	left, err := FromRows([]string{"Day", "Cases"}, [][]float32{{1, 100}})
	assert.NilError(t, err)
	right, err := FromRows([]string{"Day", "Cases"}, [][]float32{{1, 7}})
	assert.NilError(t, err)
	j, err := left.Join(right, "Day")
	assert.NilError(t, err)
	assert.DeepEqual(t, j.Names(), []string{"Day", "Cases", "Cases_r"})
	assert.DeepEqual(t, j.Row(0), []float32{1, 100, 7})
}
