package fu

import "math"

func Mean(a []float32) float32 {
	var c float64
	for _, x := range a {
		c += float64(x)
	}
	return float32(c / float64(len(a)))
}

func Mse(a, b []float32) float32 {
	var c float64
	for i, x := range a {
		q := float64(x - b[i])
		c += q * q
	}
	return float32(c / float64(len(a)))
}

func Mae(a, b []float32) float32 {
	var c float64
	for i, x := range a {
		c += math.Abs(float64(x - b[i]))
	}
	return float32(c / float64(len(a)))
}

func Rmse(a, b []float32) float32 {
	return float32(math.Sqrt(float64(Mse(a, b))))
}

func Flatnr(a [][]float32) []float32 {
	n := 0
	for _, x := range a {
		n += len(x)
	}
	r := make([]float32, n)
	i := 0
	for _, x := range a {
		copy(r[i:i+len(x)], x)
		i += len(x)
	}
	return r
}

func Floats64(a []float32) []float64 {
	r := make([]float64, len(a))
	for i, x := range a {
		r[i] = float64(x)
	}
	return r
}

func Floats32(a []float64) []float32 {
	r := make([]float32, len(a))
	for i, x := range a {
		r[i] = float32(x)
	}
	return r
}
