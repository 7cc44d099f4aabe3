package nn

import (
	"math/rand"
)

/*
conv1d convolves along the time axis with valid padding: an input of
(steps, in) becomes (steps-width+1, filters). Weights are laid out
filter-major as w[o][k][i] with k the tap offset inside the kernel.
*/
type conv1d struct {
	in, filters, width int
	act                activation
	w, b               *param

	x, z [][]float64
}

func newConv1D(in, filters, width int, act activation, rng *rand.Rand) *conv1d {
	c := &conv1d{
		in: in, filters: filters, width: width, act: act,
		w: newParam(filters * width * in),
		b: newParam(filters),
	}
	c.w.glorot(width*in, filters, rng)
	return c
}

func (c *conv1d) at(o, k, i int) int { return (o*c.width+k)*c.in + i }

func (c *conv1d) forward(x [][]float64) [][]float64 {
	steps := len(x) - c.width + 1
	c.x = x
	c.z = zeros(steps, c.filters)
	y := zeros(steps, c.filters)
	for t := 0; t < steps; t++ {
		for o := 0; o < c.filters; o++ {
			z := c.b.w[o]
			for k := 0; k < c.width; k++ {
				for i := 0; i < c.in; i++ {
					z += c.w.w[c.at(o, k, i)] * x[t+k][i]
				}
			}
			c.z[t][o] = z
			y[t][o] = c.act.f(z)
		}
	}
	return y
}

func (c *conv1d) backward(grad [][]float64) [][]float64 {
	dx := zeros(len(c.x), c.in)
	for t := range grad {
		for o := 0; o < c.filters; o++ {
			dz := grad[t][o] * c.act.df(c.z[t][o])
			c.b.g[o] += dz
			for k := 0; k < c.width; k++ {
				for i := 0; i < c.in; i++ {
					c.w.g[c.at(o, k, i)] += dz * c.x[t+k][i]
					dx[t+k][i] += dz * c.w.w[c.at(o, k, i)]
				}
			}
		}
	}
	return dx
}

func (c *conv1d) params() []*param { return []*param{c.w, c.b} }
