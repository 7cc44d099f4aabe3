package nn

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// param is one flat weight vector with its accumulated gradient.
type param struct {
	w []float64
	g []float64
}

func newParam(n int) *param {
	return &param{w: make([]float64, n), g: make([]float64, n)}
}

// glorot fills the weights with Glorot-uniform values for a fan-in/fan-out
// pair.
func (p *param) glorot(fanIn, fanOut int, rng *rand.Rand) {
	limit := math.Sqrt(6 / float64(fanIn+fanOut))
	for i := range p.w {
		p.w[i] = (rng.Float64()*2 - 1) * limit
	}
}

/*
layer is one step of a sequential network. forward consumes and backward
returns a (steps, features) matrix; backward additionally accumulates the
layer's weight gradients. A layer caches whatever forward state its own
backward needs, so forward/backward pairs must not interleave across
samples.
*/
type layer interface {
	forward(x [][]float64) [][]float64
	backward(grad [][]float64) [][]float64
	params() []*param
}

// flatten folds a (steps, features) matrix into a single row.
type flatten struct {
	steps, features int
}

func (l *flatten) forward(x [][]float64) [][]float64 {
	l.steps, l.features = len(x), len(x[0])
	row := make([]float64, 0, l.steps*l.features)
	for _, r := range x {
		row = append(row, r...)
	}
	return [][]float64{row}
}

func (l *flatten) backward(grad [][]float64) [][]float64 {
	r := zeros(l.steps, l.features)
	for t := 0; t < l.steps; t++ {
		copy(r[t], grad[0][t*l.features:(t+1)*l.features])
	}
	return r
}

func (l *flatten) params() []*param { return nil }

// reshape unfolds a single row into a (rows, cols) matrix.
type reshape struct {
	rows, cols int
}

func (l *reshape) forward(x [][]float64) [][]float64 {
	row := x[0]
	r := zeros(l.rows, l.cols)
	for t := 0; t < l.rows; t++ {
		copy(r[t], row[t*l.cols:(t+1)*l.cols])
	}
	return r
}

func (l *reshape) backward(grad [][]float64) [][]float64 {
	row := make([]float64, 0, l.rows*l.cols)
	for _, r := range grad {
		row = append(row, r...)
	}
	return [][]float64{row}
}

func (l *reshape) params() []*param { return nil }

/*
dense applies the same affine map plus activation to every row of its
input, like a framework Dense layer acting on the last axis.
*/
type dense struct {
	in, out int
	act     activation
	w, b    *param
	wm      *mat.Dense

	x, z [][]float64
}

func newDense(in, out int, act activation, rng *rand.Rand) *dense {
	d := &dense{
		in: in, out: out, act: act,
		w: newParam(out * in),
		b: newParam(out),
	}
	d.w.glorot(in, out, rng)
	d.wm = mat.NewDense(out, in, d.w.w)
	return d
}

func (d *dense) forward(x [][]float64) [][]float64 {
	d.x = x
	d.z = zeros(len(x), d.out)
	y := zeros(len(x), d.out)
	var zv mat.VecDense
	for t, row := range x {
		zv.MulVec(d.wm, mat.NewVecDense(d.in, row))
		for o := 0; o < d.out; o++ {
			z := zv.AtVec(o) + d.b.w[o]
			d.z[t][o] = z
			y[t][o] = d.act.f(z)
		}
	}
	return y
}

func (d *dense) backward(grad [][]float64) [][]float64 {
	dx := zeros(len(d.x), d.in)
	for t := range d.x {
		for o := 0; o < d.out; o++ {
			dz := grad[t][o] * d.act.df(d.z[t][o])
			d.b.g[o] += dz
			for i := 0; i < d.in; i++ {
				d.w.g[o*d.in+i] += dz * d.x[t][i]
				dx[t][i] += dz * d.wm.At(o, i)
			}
		}
	}
	return dx
}

func (d *dense) params() []*param { return []*param{d.w, d.b} }

func zeros(rows, cols int) [][]float64 {
	r := make([][]float64, rows)
	for i := range r {
		r[i] = make([]float64, cols)
	}
	return r
}
