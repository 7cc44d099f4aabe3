package nn

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

/*
lstm runs a standard LSTM over the time axis and emits the final hidden
state as a single row, the way a framework LSTM with return_sequences=false
feeds a dense head. Gate weights act on the concatenation [x_t, h_{t-1}].
*/
type lstm struct {
	in, units int

	wi, wf, wo, wg *param
	bi, bf, bo, bg *param

	// per-step forward caches for backpropagation through time
	zcat           [][]float64
	ai, af, ao, ag [][]float64
	c, tc          [][]float64
}

func newLSTM(in, units int, rng *rand.Rand) *lstm {
	l := &lstm{in: in, units: units}
	width := in + units
	for _, w := range []**param{&l.wi, &l.wf, &l.wo, &l.wg} {
		*w = newParam(units * width)
		(*w).glorot(width, units, rng)
	}
	for _, b := range []**param{&l.bi, &l.bf, &l.bo, &l.bg} {
		*b = newParam(units)
	}
	// forget gate bias starts at 1 so early training doesn't wipe the cell
	for u := range l.bf.w {
		l.bf.w[u] = 1
	}
	return l
}

func (l *lstm) gate(w, b *param, zcat []float64, u int) float64 {
	width := l.in + l.units
	return b.w[u] + floats.Dot(w.w[u*width:(u+1)*width], zcat)
}

func (l *lstm) forward(x [][]float64) [][]float64 {
	steps := len(x)
	l.zcat = make([][]float64, steps)
	l.ai, l.af, l.ao, l.ag = zeros(steps, l.units), zeros(steps, l.units), zeros(steps, l.units), zeros(steps, l.units)
	l.c, l.tc = zeros(steps, l.units), zeros(steps, l.units)

	h := make([]float64, l.units)
	c := make([]float64, l.units)
	for t := 0; t < steps; t++ {
		zcat := make([]float64, l.in+l.units)
		copy(zcat, x[t])
		copy(zcat[l.in:], h)
		l.zcat[t] = zcat
		for u := 0; u < l.units; u++ {
			i := sigmoid(l.gate(l.wi, l.bi, zcat, u))
			f := sigmoid(l.gate(l.wf, l.bf, zcat, u))
			o := sigmoid(l.gate(l.wo, l.bo, zcat, u))
			g := math.Tanh(l.gate(l.wg, l.bg, zcat, u))
			c[u] = f*c[u] + i*g
			tc := math.Tanh(c[u])
			h[u] = o * tc
			l.ai[t][u], l.af[t][u], l.ao[t][u], l.ag[t][u] = i, f, o, g
			l.c[t][u], l.tc[t][u] = c[u], tc
		}
	}
	return [][]float64{h}
}

func (l *lstm) backward(grad [][]float64) [][]float64 {
	steps := len(l.zcat)
	width := l.in + l.units
	dx := zeros(steps, l.in)

	dh := make([]float64, l.units)
	copy(dh, grad[0])
	dc := make([]float64, l.units)

	for t := steps - 1; t >= 0; t-- {
		dz := make([]float64, width)
		for u := 0; u < l.units; u++ {
			i, f, o, g := l.ai[t][u], l.af[t][u], l.ao[t][u], l.ag[t][u]
			tc := l.tc[t][u]
			cprev := 0.0
			if t > 0 {
				cprev = l.c[t-1][u]
			}

			dcu := dc[u] + dh[u]*o*(1-tc*tc)
			dipre := dcu * g * i * (1 - i)
			dfpre := dcu * cprev * f * (1 - f)
			dopre := dh[u] * tc * o * (1 - o)
			dgpre := dcu * i * (1 - g*g)

			l.bi.g[u] += dipre
			l.bf.g[u] += dfpre
			l.bo.g[u] += dopre
			l.bg.g[u] += dgpre
			row := u * width
			for j := 0; j < width; j++ {
				z := l.zcat[t][j]
				l.wi.g[row+j] += dipre * z
				l.wf.g[row+j] += dfpre * z
				l.wo.g[row+j] += dopre * z
				l.wg.g[row+j] += dgpre * z
				dz[j] += dipre*l.wi.w[row+j] +
					dfpre*l.wf.w[row+j] +
					dopre*l.wo.w[row+j] +
					dgpre*l.wg.w[row+j]
			}
			dc[u] = dcu * f
		}
		copy(dx[t], dz[:l.in])
		copy(dh, dz[l.in:])
	}
	return dx
}

func (l *lstm) params() []*param {
	return []*param{l.wi, l.wf, l.wo, l.wg, l.bi, l.bf, l.bo, l.bg}
}
