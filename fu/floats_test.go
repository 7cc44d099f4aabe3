package fu

import (
	"testing"

	"gotest.tools/assert"
)

func Test_Floats(t *testing.T) {
	assert.Assert(t, Mean([]float32{1, 2, 3}) == 2)
	assert.Assert(t, Mse([]float32{1, 2}, []float32{2, 4}) == 2.5)
	assert.Assert(t, Mae([]float32{1, 2}, []float32{2, 4}) == 1.5)
	assert.DeepEqual(t, Flatnr([][]float32{{1, 2}, {3}}), []float32{1, 2, 3})
	assert.DeepEqual(t, Floats64([]float32{1, 2}), []float64{1, 2})
	assert.DeepEqual(t, Floats32([]float64{1, 2}), []float32{1, 2})
}

func Test_Ints(t *testing.T) {
	assert.Assert(t, Fnzi(0, 0, 7, 3) == 7)
	assert.Assert(t, Fnzi(0) == 0)
	assert.Assert(t, Mini(2, 3) == 2)
	assert.Assert(t, Maxi(2, 3) == 3)
	assert.Assert(t, Indmaxd([]float64{1, 5, 3, 5}) == 1)
	assert.Assert(t, Indmind([]float64{4, 2, 8}) == 1)
}

func Test_Struct(t *testing.T) {
	s := NamedStruct([]string{"Loss", "MAE"}, []float64{2.5, 1.5})
	v, ok := s.Float("MAE")
	assert.Assert(t, ok)
	assert.Assert(t, v == 1.5)
	_, ok = s.Float("RMSE")
	assert.Assert(t, !ok)
	assert.Assert(t, s.Lucky("Loss") == 2.5)
	assert.Assert(t, s.Lucky("RMSE") == 0)
}
