/*
Package nn implements the small sequential networks used to forecast the
epidemiological series: a no-training baseline, a linear readout, a dense
net, a 1d convolutional net and an LSTM. A network maps one window input
matrix of shape (steps, features) to a forecast matrix of shape
(labelWidth, numLabels) and learns with plain backpropagation.
*/
package nn

import "math"

// activation is an element-wise non-linearity together with its derivative
// taken at the pre-activation value.
type activation struct {
	f  func(float64) float64
	df func(float64) float64
}

var identity = activation{
	f:  func(z float64) float64 { return z },
	df: func(z float64) float64 { return 1 },
}

var relu = activation{
	f: func(z float64) float64 {
		if z > 0 {
			return z
		}
		return 0
	},
	df: func(z float64) float64 {
		if z > 0 {
			return 1
		}
		return 0
	},
}

var tanh = activation{
	f: math.Tanh,
	df: func(z float64) float64 {
		t := math.Tanh(z)
		return 1 - t*t
	},
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
