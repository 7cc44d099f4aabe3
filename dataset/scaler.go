package dataset

import (
	"gonum.org/v1/gonum/stat"

	"go-ml.dev/pkg/zorros"

	"github.com/davidghobson1/COVID-19-Forecasting-Model/fu"
	"github.com/davidghobson1/COVID-19-Forecasting-Model/tables"
)

/*
Scaler z-score normalizes feature columns with statistics computed on the
training subset only, so the validation and test subsets see no information
from their own future. The day key column is never scaled.
*/
type Scaler struct {
	Mean map[string]float64
	Std  map[string]float64
}

// Fit computes per-column mean and standard deviation on the training table.
func Fit(train *tables.Table) Scaler {
	s := Scaler{Mean: map[string]float64{}, Std: map[string]float64{}}
	for _, name := range train.Names() {
		if name == DayColumn {
			continue
		}
		mean, std := stat.MeanStdDev(fu.Floats64(train.LuckyCol(name).Values()), nil)
		if std == 0 || std != std {
			std = 1
		}
		s.Mean[name] = mean
		s.Std[name] = std
	}
	return s
}

// Apply returns a normalized copy of the table.
func (s Scaler) Apply(t *tables.Table) (*tables.Table, error) {
	names := t.Names()
	columns := make([][]float32, len(names))
	for j, name := range names {
		col := t.LuckyCol(name).Values()
		if name != DayColumn {
			mean, ok := s.Mean[name]
			if !ok {
				return nil, zorros.Errorf("scaler was not fitted for column `%v`", name)
			}
			std := s.Std[name]
			for i, v := range col {
				col[i] = float32((float64(v) - mean) / std)
			}
		}
		columns[j] = col
	}
	return tables.New(names, columns)
}

// Restore maps one normalized value of the named column back to its
// original scale.
func (s Scaler) Restore(name string, v float64) (float64, error) {
	mean, ok := s.Mean[name]
	if !ok {
		return 0, zorros.Errorf("scaler was not fitted for column `%v`", name)
	}
	return v*s.Std[name] + mean, nil
}
