package nn

import (
	"math"
	"math/rand"
	"testing"

	"gotest.tools/assert"
)

func randMatrix(rng *rand.Rand, rows, cols int) [][]float64 {
	m := zeros(rows, cols)
	for t := range m {
		for j := range m[t] {
			m[t][j] = rng.NormFloat64()
		}
	}
	return m
}

// gradCheck compares every analytic weight gradient of the network against
// a central finite difference of the loss.
func gradCheck(t *testing.T, net *Network, x, target [][]float64) {
	t.Helper()
	loss := func() float64 { return mseLoss(net.Predict(x), target) }

	grad := mseGrad(net.Predict(x), target)
	for i := len(net.layers) - 1; i >= 0; i-- {
		grad = net.layers[i].backward(grad)
	}

	const h = 1e-5
	for pi, p := range net.allParams() {
		for i := range p.w {
			w0 := p.w[i]
			p.w[i] = w0 + h
			up := loss()
			p.w[i] = w0 - h
			down := loss()
			p.w[i] = w0
			numeric := (up - down) / (2 * h)
			diff := math.Abs(numeric - p.g[i])
			scale := math.Max(1, math.Abs(numeric)+math.Abs(p.g[i]))
			assert.Assert(t, diff/scale < 1e-4,
				"param %d weight %d: analytic %v vs numeric %v", pi, i, p.g[i], numeric)
		}
		for i := range p.g {
			p.g[i] = 0
		}
	}
}

// The checks use tanh instead of relu so the finite difference never
// straddles an activation kink.

func Test_DenseGradients(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	net := &Network{name: "dense", layers: []layer{
		&flatten{},
		newDense(12, 5, tanh, rng),
		newDense(5, 6, identity, rng),
		&reshape{rows: 2, cols: 3},
	}}
	gradCheck(t, net, randMatrix(rng, 4, 3), randMatrix(rng, 2, 3))
}

func Test_ConvGradients(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	net := &Network{name: "conv", layers: []layer{
		newConv1D(2, 4, 3, tanh, rng),
		&flatten{},
		newDense(16, 2, identity, rng),
		&reshape{rows: 1, cols: 2},
	}}
	gradCheck(t, net, randMatrix(rng, 6, 2), randMatrix(rng, 1, 2))
}

func Test_LSTMGradients(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	net := &Network{name: "lstm", layers: []layer{
		newLSTM(2, 3, rng),
		newDense(3, 4, identity, rng),
		&reshape{rows: 2, cols: 2},
	}}
	gradCheck(t, net, randMatrix(rng, 5, 2), randMatrix(rng, 2, 2))
}

func Test_BaselineForward(t *testing.T) {
	net, err := Baseline(Geometry{InputWidth: 3, LabelWidth: 2, NumFeatures: 3, LabelIndexes: []int{2}})
	assert.NilError(t, err)
	assert.Assert(t, !net.Trainable())
	y := net.Predict([][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	})
	// every label step repeats the last input step's label column
	assert.DeepEqual(t, y, [][]float64{{9}, {9}})
}

func Test_ZooValidation(t *testing.T) {
	g := Geometry{InputWidth: 4, LabelWidth: 1, NumFeatures: 2}
	_, err := Conv(g, 8, 5, 1)
	assert.ErrorContains(t, err, "exceeds input width")
	_, err = Dense(g, 0, 1)
	assert.ErrorContains(t, err, "at least one unit")
	_, err = Linear(Geometry{InputWidth: 0, LabelWidth: 1, NumFeatures: 1}, 1)
	assert.ErrorContains(t, err, "bad geometry")
	_, err = Baseline(Geometry{InputWidth: 1, LabelWidth: 1, NumFeatures: 2, LabelIndexes: []int{5}})
	assert.ErrorContains(t, err, "label index")
}

func Test_ForecasterBuild(t *testing.T) {
	g := Geometry{InputWidth: 6, LabelWidth: 1, NumFeatures: 2}
	for _, arch := range []string{BaselineArch, LinearArch, DenseArch, ConvArch, RecurrentArch} {
		f := &Forecaster{Arch: arch}
		net, err := f.build(g, 1)
		assert.NilError(t, err)
		assert.Assert(t, net.Name() == arch)
		y := net.Predict(randMatrix(rand.New(rand.NewSource(5)), 6, 2))
		assert.Assert(t, len(y) == 1)
		assert.Assert(t, len(y[0]) == 2)
	}
	_, err := (&Forecaster{Arch: "perceptron"}).build(g, 1)
	assert.ErrorContains(t, err, "unknown architecture")
}

func Test_TrainingReducesLoss(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	net, err := Linear(Geometry{InputWidth: 2, LabelWidth: 1, NumFeatures: 1}, 7)
	assert.NilError(t, err)

	// learnable target: next value of the series x[t+1] = 2*x[t] - x[t-1]
	var inputs, targets [][][]float64
	for s := 0; s < 64; s++ {
		a, d := rng.NormFloat64(), rng.NormFloat64()
		inputs = append(inputs, [][]float64{{a}, {a + d}})
		targets = append(targets, [][]float64{{a + 2*d}})
	}
	opt := NewAdam(0.01)
	first := net.TrainBatch(inputs, targets, opt)
	var last float64
	for i := 0; i < 200; i++ {
		last = net.TrainBatch(inputs, targets, opt)
	}
	assert.Assert(t, last < first/10, "loss %v -> %v", first, last)
}

func Test_StateRoundtrip(t *testing.T) {
	g := Geometry{InputWidth: 4, LabelWidth: 1, NumFeatures: 2}
	a, err := Recurrent(g, 3, 8)
	assert.NilError(t, err)
	b, err := Recurrent(g, 3, 9)
	assert.NilError(t, err)

	x := randMatrix(rand.New(rand.NewSource(10)), 4, 2)
	assert.NilError(t, b.SetState(a.State()))
	assert.DeepEqual(t, a.Predict(x), b.Predict(x))

	c, err := Recurrent(g, 4, 8)
	assert.NilError(t, err)
	assert.Assert(t, c.SetState(a.State()) != nil)
}
