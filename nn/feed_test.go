package nn

import (
	"math"
	"testing"

	"gotest.tools/assert"

	"github.com/davidghobson1/COVID-19-Forecasting-Model/model"
	"github.com/davidghobson1/COVID-19-Forecasting-Model/tables"
	"github.com/davidghobson1/COVID-19-Forecasting-Model/window"
)

// rampTable is a deterministic two-feature series where tomorrow's Deaths
// equal today's Cases, so a one-step forecast has an exact linear solution.
func rampTable(t *testing.T, n int) *tables.Table {
	rows := make([][]float32, n)
	for i := range rows {
		cases := float32(math.Sin(float64(i)/5) + 2)
		rows[i] = []float32{cases, float32(math.Sin(float64(i-1)/5) + 2)}
	}
	q, err := tables.FromRows([]string{"Cases", "Deaths"}, rows)
	assert.NilError(t, err)
	return q
}

func windowedData(t *testing.T, q *tables.Table) model.Dataset {
	spec, err := window.NewSpec(4, 1, 1, "Deaths")
	assert.NilError(t, err)
	train, err := q.Slice(0, 60)
	assert.NilError(t, err)
	valid, err := q.Slice(60, 80)
	assert.NilError(t, err)
	return model.Dataset{
		Train: train, Valid: valid,
		Spec:      spec,
		BatchSize: 8,
		Shuffle:   true,
		Seed:      1,
	}
}

func Test_FeedTrainsLinear(t *testing.T) {
	data := windowedData(t, rampTable(t, 80))
	f := &Forecaster{Arch: LinearArch, LR: 0.01}
	report, err := f.Feed(data).Train(model.Training{
		Iterations:   100,
		ScoreHistory: 10,
	})
	assert.NilError(t, err)
	assert.Assert(t, f.Network() != nil)
	assert.Assert(t, report.History.Len() > 0)
	assert.Assert(t, report.TheBest >= 0)

	// the restored best network beats the no-training baseline
	metrics := model.RegressionMetrics{}
	linear, err := Evaluate(f.Network(), data, data.Validation(), metrics, model.TestSubset)
	assert.NilError(t, err)
	b := &Forecaster{Arch: BaselineArch}
	_, err = b.Feed(data).Train(model.Training{Iterations: 1})
	assert.NilError(t, err)
	baseline, err := Evaluate(b.Network(), data, data.Validation(), metrics, model.TestSubset)
	assert.NilError(t, err)
	assert.Assert(t, model.Loss(linear) < model.Loss(baseline),
		"linear %v vs baseline %v", model.Loss(linear), model.Loss(baseline))
}

func Test_NewForecaster(t *testing.T) {
	f := NewForecaster(DenseArch, model.Params{"Units": 16, "LR": 0.005})
	assert.Assert(t, f.Units == 16)
	assert.Assert(t, f.LR == 0.005)
	// absent parameters keep the zero value, so build falls back to defaults
	assert.Assert(t, f.Filters == 0)

	defer func() { assert.Assert(t, recover() != nil) }()
	NewForecaster(DenseArch, model.Params{"Epochs": 1})
}

func Test_ForecasterOptimizer(t *testing.T) {
	f := &Forecaster{Arch: LinearArch}
	opt, err := f.optimizer()
	assert.NilError(t, err)
	_, ok := opt.(*Adam)
	assert.Assert(t, ok)

	f.Optim = SGDOptimizer
	f.Momentum = 0.9
	opt, err = f.optimizer()
	assert.NilError(t, err)
	sgd, ok := opt.(*SGD)
	assert.Assert(t, ok)
	assert.Assert(t, sgd.Momentum == 0.9)

	f.Optim = "rmsprop"
	_, err = f.optimizer()
	assert.ErrorContains(t, err, "unknown optimizer")
}

func Test_FeedTrainsWithSGD(t *testing.T) {
	data := windowedData(t, rampTable(t, 80))
	f := NewForecaster(LinearArch, model.Params{"LR": 0.01, "Momentum": 0.9})
	f.Optim = SGDOptimizer
	report := f.Feed(data).LuckyTrain(model.Training{
		Iterations:   100,
		ScoreHistory: 10,
	})
	assert.Assert(t, f.Network() != nil)

	metrics := model.RegressionMetrics{}
	linear, err := Evaluate(f.Network(), data, data.Validation(), metrics, model.TestSubset)
	assert.NilError(t, err)
	b := &Forecaster{Arch: BaselineArch}
	_, err = b.Feed(data).Train(model.Training{Iterations: 1})
	assert.NilError(t, err)
	baseline, err := Evaluate(b.Network(), data, data.Validation(), metrics, model.TestSubset)
	assert.NilError(t, err)
	assert.Assert(t, model.Loss(linear) < model.Loss(baseline),
		"sgd linear %v vs baseline %v", model.Loss(linear), model.Loss(baseline))
	assert.Assert(t, report.TheBest >= 0)
}

func Test_FeedUnknownOptimizer(t *testing.T) {
	data := windowedData(t, rampTable(t, 80))
	f := &Forecaster{Arch: LinearArch, Optim: "rmsprop"}
	_, err := f.Feed(data).Train(model.Training{Iterations: 1})
	assert.ErrorContains(t, err, "unknown optimizer")
}

func Test_FeedUnknownLabel(t *testing.T) {
	q := rampTable(t, 40)
	spec, err := window.NewSpec(4, 1, 1, "# Deaths")
	assert.NilError(t, err)
	data := model.Dataset{Train: q, Spec: spec}
	f := &Forecaster{Arch: LinearArch}
	_, err = f.Feed(data).Train(model.Training{Iterations: 1})
	assert.ErrorContains(t, err, "# Deaths")
}

func Test_EvaluateShapes(t *testing.T) {
	data := windowedData(t, rampTable(t, 80))
	f := &Forecaster{Arch: BaselineArch}
	_, err := f.Feed(data).Train(model.Training{Iterations: 1})
	assert.NilError(t, err)
	row, err := Evaluate(f.Network(), data, data.Train, model.RegressionMetrics{}, model.TestSubset)
	assert.NilError(t, err)
	_, ok := row.Float("Loss")
	assert.Assert(t, ok)
}
