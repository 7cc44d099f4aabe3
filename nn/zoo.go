package nn

import (
	"math/rand"

	"go-ml.dev/pkg/zorros"
)

/*
Geometry ties a network to the window shape it forecasts: inputs are
(InputWidth, NumFeatures) matrices and outputs are
(LabelWidth, len(LabelIndexes)) matrices. LabelIndexes holds the feature
positions of the label columns; empty means all features are labels.
*/
type Geometry struct {
	InputWidth  int
	LabelWidth  int
	NumFeatures int

	LabelIndexes []int
}

// NumLabels returns the number of forecast columns.
func (g Geometry) NumLabels() int {
	if len(g.LabelIndexes) == 0 {
		return g.NumFeatures
	}
	return len(g.LabelIndexes)
}

func (g Geometry) labelIndexes() []int {
	if len(g.LabelIndexes) > 0 {
		return g.LabelIndexes
	}
	idx := make([]int, g.NumFeatures)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func (g Geometry) validate() error {
	if g.InputWidth < 1 || g.LabelWidth < 1 || g.NumFeatures < 1 {
		return zorros.Errorf("bad geometry %+v", g)
	}
	for _, i := range g.LabelIndexes {
		if i < 0 || i >= g.NumFeatures {
			return zorros.Errorf("label index %d outside %d features", i, g.NumFeatures)
		}
	}
	return nil
}

// out returns the flat forecast size.
func (g Geometry) out() int { return g.LabelWidth * g.NumLabels() }

/*
Baseline forecasts every label step as a copy of the last input step's
label columns. It has no weights; training it is a no-op and it exists as
the floor every trained architecture must beat.
*/
func Baseline(g Geometry) (*Network, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}
	return &Network{name: "baseline", layers: []layer{
		&lastStep{labelWidth: g.LabelWidth, idx: g.labelIndexes()},
	}}, nil
}

/*
Linear is a single affine readout over the flattened input window.
*/
func Linear(g Geometry, seed int64) (*Network, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	flat := g.InputWidth * g.NumFeatures
	return &Network{name: "linear", layers: []layer{
		&flatten{},
		newDense(flat, g.out(), identity, rng),
		&reshape{rows: g.LabelWidth, cols: g.NumLabels()},
	}}, nil
}

/*
Dense is a two-hidden-layer ReLU net over the flattened input window.
*/
func Dense(g Geometry, units int, seed int64) (*Network, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}
	if units < 1 {
		return nil, zorros.Errorf("dense needs at least one unit, got %d", units)
	}
	rng := rand.New(rand.NewSource(seed))
	flat := g.InputWidth * g.NumFeatures
	return &Network{name: "dense", layers: []layer{
		&flatten{},
		newDense(flat, units, relu, rng),
		newDense(units, units, relu, rng),
		newDense(units, g.out(), identity, rng),
		&reshape{rows: g.LabelWidth, cols: g.NumLabels()},
	}}, nil
}

/*
Conv convolves the input window along the time axis, then reads the
forecast off the flattened feature maps.
*/
func Conv(g Geometry, filters, width int, seed int64) (*Network, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}
	if filters < 1 || width < 1 {
		return nil, zorros.Errorf("conv needs positive filters and width, got %d/%d", filters, width)
	}
	if width > g.InputWidth {
		return nil, zorros.Errorf("conv width %d exceeds input width %d", width, g.InputWidth)
	}
	rng := rand.New(rand.NewSource(seed))
	steps := g.InputWidth - width + 1
	return &Network{name: "conv", layers: []layer{
		newConv1D(g.NumFeatures, filters, width, relu, rng),
		&flatten{},
		newDense(steps*filters, g.out(), identity, rng),
		&reshape{rows: g.LabelWidth, cols: g.NumLabels()},
	}}, nil
}

/*
Recurrent runs an LSTM over the input window and reads the forecast off
the final hidden state.
*/
func Recurrent(g Geometry, units int, seed int64) (*Network, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}
	if units < 1 {
		return nil, zorros.Errorf("lstm needs at least one unit, got %d", units)
	}
	rng := rand.New(rand.NewSource(seed))
	return &Network{name: "lstm", layers: []layer{
		newLSTM(g.NumFeatures, units, rng),
		newDense(units, g.out(), identity, rng),
		&reshape{rows: g.LabelWidth, cols: g.NumLabels()},
	}}, nil
}

// lastStep picks the label columns of the last input row and repeats them
// for every label step.
type lastStep struct {
	labelWidth int
	idx        []int

	steps, features int
}

func (l *lastStep) forward(x [][]float64) [][]float64 {
	l.steps, l.features = len(x), len(x[0])
	last := x[len(x)-1]
	y := zeros(l.labelWidth, len(l.idx))
	for t := 0; t < l.labelWidth; t++ {
		for k, j := range l.idx {
			y[t][k] = last[j]
		}
	}
	return y
}

func (l *lastStep) backward(grad [][]float64) [][]float64 {
	dx := zeros(l.steps, l.features)
	for t := range grad {
		for k, j := range l.idx {
			dx[l.steps-1][j] += grad[t][k]
		}
	}
	return dx
}

func (l *lastStep) params() []*param { return nil }
