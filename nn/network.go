package nn

import (
	"go-ml.dev/pkg/zorros"
)

/*
Network is a sequential stack of layers mapping one window input matrix of
shape (steps, features) to a forecast of shape (labelWidth, numLabels).
*/
type Network struct {
	name   string
	layers []layer
}

// Name returns the architecture name ("baseline", "linear", ...).
func (n *Network) Name() string { return n.name }

// Trainable reports whether the network has any weights to fit.
func (n *Network) Trainable() bool {
	for _, l := range n.layers {
		if len(l.params()) > 0 {
			return true
		}
	}
	return false
}

// Predict runs one forward pass.
func (n *Network) Predict(x [][]float64) [][]float64 {
	for _, l := range n.layers {
		x = l.forward(x)
	}
	return x
}

/*
TrainBatch runs forward and backward passes over one batch, averages the
accumulated gradients and applies them with the optimizer. It returns the
mean sample loss of the batch before the update.
*/
func (n *Network) TrainBatch(inputs, targets [][][]float64, opt Optimizer) float64 {
	loss := 0.0
	for s := range inputs {
		y := n.Predict(inputs[s])
		loss += mseLoss(y, targets[s])
		grad := mseGrad(y, targets[s])
		for i := len(n.layers) - 1; i >= 0; i-- {
			grad = n.layers[i].backward(grad)
		}
	}
	scale := 1 / float64(len(inputs))
	params := n.allParams()
	for _, p := range params {
		for i := range p.g {
			p.g[i] *= scale
		}
	}
	opt.step(params)
	return loss * scale
}

func (n *Network) allParams() []*param {
	var r []*param
	for _, l := range n.layers {
		r = append(r, l.params()...)
	}
	return r
}

/*
State is a gob-friendly snapshot of all network weights, in layer order.
*/
type State struct {
	Params [][]float64
}

// State captures a deep copy of the current weights.
func (n *Network) State() State {
	params := n.allParams()
	s := State{Params: make([][]float64, len(params))}
	for i, p := range params {
		s.Params[i] = make([]float64, len(p.w))
		copy(s.Params[i], p.w)
	}
	return s
}

// SetState restores weights captured from the same architecture.
func (n *Network) SetState(s State) error {
	params := n.allParams()
	if len(s.Params) != len(params) {
		return zorros.Errorf("state has %d parameter vectors, network has %d",
			len(s.Params), len(params))
	}
	for i, p := range params {
		if len(s.Params[i]) != len(p.w) {
			return zorros.Errorf("parameter vector %d has %d weights, network wants %d",
				i, len(s.Params[i]), len(p.w))
		}
		copy(p.w, s.Params[i])
	}
	return nil
}

func mseLoss(y, target [][]float64) float64 {
	c, n := 0.0, 0
	for t := range y {
		for j := range y[t] {
			q := y[t][j] - target[t][j]
			c += q * q
			n++
		}
	}
	return c / float64(n)
}

func mseGrad(y, target [][]float64) [][]float64 {
	n := float64(len(y) * len(y[0]))
	grad := zeros(len(y), len(y[0]))
	for t := range y {
		for j := range y[t] {
			grad[t][j] = 2 * (y[t][j] - target[t][j]) / n
		}
	}
	return grad
}
