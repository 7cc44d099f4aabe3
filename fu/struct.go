package fu

/*
Struct is a flat record of named float64 values. It's used for per-iteration
metric rows and anything else that is a small named tuple of numbers.
*/
type Struct struct {
	Names  []string
	Values []float64
}

// NamedStruct creates a Struct from parallel name/value slices.
func NamedStruct(names []string, values []float64) Struct {
	return Struct{Names: names, Values: values}
}

// Float returns the value of the named field and false if it does not exist.
func (s Struct) Float(name string) (float64, bool) {
	for i, n := range s.Names {
		if n == name {
			return s.Values[i], true
		}
	}
	return 0, false
}

// Lucky returns the value of the named field and 0 if it does not exist.
func (s Struct) Lucky(name string) float64 {
	v, _ := s.Float(name)
	return v
}
