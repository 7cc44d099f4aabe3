package model

import (
	"math"

	"github.com/davidghobson1/COVID-19-Forecasting-Model/fu"
	"github.com/davidghobson1/COVID-19-Forecasting-Model/tables"
)

// Subset tags of the per-iteration metric rows.
const (
	TrainSubset = 0
	TestSubset  = 1
)

/*
MetricsUpdater accumulates prediction/truth pairs of one iteration over one
subset and folds them into a metrics row.
*/
type MetricsUpdater interface {
	// Update accounts one forecast against its truth, both flattened
	Update(pred, truth []float64)
	// Complete returns the metrics row and whether the metrics consider
	// the training converged
	Complete() (fu.Struct, bool)
}

/*
Metrics creates per-iteration per-subset updaters and names the columns of
the resulting history table.
*/
type Metrics interface {
	New(iteration int, subset int) MetricsUpdater
	Names() []string
}

// Loss returns the loss value of a metrics row.
func Loss(s fu.Struct) float64 { return s.Lucky("Loss") }

// Error returns the mean absolute error of a metrics row.
func Error(s fu.Struct) float64 { return s.Lucky("MAE") }

/*
Score maps the train/test metric rows of one iteration to a single value to
maximize; it drives iteration ranking and early stopping.
*/
type Score func(train, test fu.Struct) float64

// TestLossScore ranks iterations by validation loss alone.
func TestLossScore(train, test fu.Struct) float64 { return -Loss(test) }

/*
RegressionMetrics measures mean squared error, mean absolute error and root
mean squared error. Training is considered converged when the subset loss
falls below Tolerance, if set.
*/
type RegressionMetrics struct {
	Tolerance float64
}

func (m RegressionMetrics) Names() []string {
	return []string{"Iteration", "Subset", "Loss", "MAE", "RMSE"}
}

func (m RegressionMetrics) New(iteration int, subset int) MetricsUpdater {
	return &regressionUpdater{metrics: m, iteration: iteration, subset: subset}
}

type regressionUpdater struct {
	metrics   RegressionMetrics
	iteration int
	subset    int
	se, ae    float64
	count     int
}

func (u *regressionUpdater) Update(pred, truth []float64) {
	for i, p := range pred {
		q := p - truth[i]
		u.se += q * q
		u.ae += math.Abs(q)
	}
	u.count += len(pred)
}

func (u *regressionUpdater) Complete() (fu.Struct, bool) {
	mse, mae := 0.0, 0.0
	if u.count > 0 {
		mse = u.se / float64(u.count)
		mae = u.ae / float64(u.count)
	}
	s := fu.NamedStruct(
		u.metrics.Names(),
		[]float64{float64(u.iteration), float64(u.subset), mse, mae, math.Sqrt(mse)})
	return s, u.metrics.Tolerance > 0 && mse < u.metrics.Tolerance
}

// history folds the per-iteration metric rows into a table.
func history(names []string, perflog [][2]fu.Struct) *tables.Table {
	rows := make([][]float32, 0, len(perflog)*2)
	for _, p := range perflog {
		rows = append(rows, fu.Floats32(p[0].Values), fu.Floats32(p[1].Values))
	}
	t, err := tables.FromRows(names, rows)
	if err != nil {
		panic(err)
	}
	return t
}
