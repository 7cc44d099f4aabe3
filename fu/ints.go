package fu

// Fnzi returns the first non-zero int of the arguments.
func Fnzi(a ...int) int {
	for _, x := range a {
		if x != 0 {
			return x
		}
	}
	return 0
}

func Mini(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func Maxi(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Indmaxd returns the index of the maximal value.
func Indmaxd(a []float64) int {
	j := 0
	for i := 1; i < len(a); i++ {
		if a[i] > a[j] {
			j = i
		}
	}
	return j
}

// Indmind returns the index of the minimal value.
func Indmind(a []float64) int {
	j := 0
	for i := 1; i < len(a); i++ {
		if a[i] < a[j] {
			j = i
		}
	}
	return j
}
