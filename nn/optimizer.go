package nn

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

/*
Optimizer applies accumulated gradients to the network weights and clears
them. Gradients arrive already averaged over the batch.
*/
type Optimizer interface {
	step(params []*param)
}

/*
SGD is plain stochastic gradient descent with optional momentum.
*/
type SGD struct {
	LR       float64
	Momentum float64

	velocity map[*param][]float64
}

func (o *SGD) step(params []*param) {
	for _, p := range params {
		if o.Momentum != 0 {
			if o.velocity == nil {
				o.velocity = map[*param][]float64{}
			}
			v := o.velocity[p]
			if v == nil {
				v = make([]float64, len(p.w))
				o.velocity[p] = v
			}
			floats.Scale(o.Momentum, v)
			floats.AddScaled(v, -o.LR, p.g)
			floats.Add(p.w, v)
		} else {
			floats.AddScaled(p.w, -o.LR, p.g)
		}
		zero(p.g)
	}
}

/*
Adam is the Adam optimizer with the usual defaults.
*/
type Adam struct {
	LR      float64
	Beta1   float64
	Beta2   float64
	Epsilon float64

	t int
	m map[*param][]float64
	v map[*param][]float64
}

// NewAdam creates an Adam optimizer with standard coefficients.
func NewAdam(lr float64) *Adam {
	return &Adam{LR: lr, Beta1: 0.9, Beta2: 0.999, Epsilon: 1e-8}
}

func (o *Adam) step(params []*param) {
	if o.m == nil {
		o.m = map[*param][]float64{}
		o.v = map[*param][]float64{}
	}
	o.t++
	c1 := 1 - math.Pow(o.Beta1, float64(o.t))
	c2 := 1 - math.Pow(o.Beta2, float64(o.t))
	for _, p := range params {
		m, v := o.m[p], o.v[p]
		if m == nil {
			m = make([]float64, len(p.w))
			v = make([]float64, len(p.w))
			o.m[p], o.v[p] = m, v
		}
		for i, g := range p.g {
			m[i] = o.Beta1*m[i] + (1-o.Beta1)*g
			v[i] = o.Beta2*v[i] + (1-o.Beta2)*g*g
			p.w[i] -= o.LR * (m[i] / c1) / (math.Sqrt(v[i]/c2) + o.Epsilon)
		}
		zero(p.g)
	}
}

func zero(a []float64) {
	for i := range a {
		a[i] = 0
	}
}
