/*
Package model implements the training orchestration shared by every
forecasting architecture: the windowed dataset abstraction, the epoch
workout loop with score-history early stopping, regression metrics, model
snapshots and the evaluation results store.
*/
package model

import (
	"io"
	"reflect"

	"go-ml.dev/pkg/zorros"

	"github.com/davidghobson1/COVID-19-Forecasting-Model/fu"
	"github.com/davidghobson1/COVID-19-Forecasting-Model/tables"
)

/*
HungryModel is an ML algorithm grows from a data to predict something.
Needs to be fattened by Feed method to fit.
*/
type HungryModel interface {
	Feed(Dataset) FatModel
}

/*
Report is an ML training report
*/
type Report struct {
	History     *tables.Table // all iterations history
	TheBest     int           // the best iteration
	Train, Test fu.Struct     // the best iteration metrics
	Score       float64       // the best score
}

/*
Workout is a training iteration abstraction
*/
type Workout interface {
	Iteration() int
	TrainMetrics() MetricsUpdater
	TestMetrics() MetricsUpdater
	Complete(m MemorizeMap, train, test fu.Struct, metricsDone bool) (*Report, bool, error)
	Next() Workout
	Verbose(string)
}

/*
UnifiedTraining is an interface allowing to write any logging/staging backend for ML training
*/
type UnifiedTraining interface {
	// Workout returns the first iteration workout
	Workout() Workout
}

/*
FatModel is fattened model (a training function of model instance bounded to a dataset)
*/
type FatModel func(workout Workout) (*Report, error)

/*
Train a fattened (Fat) model
*/
func (f FatModel) Train(training UnifiedTraining) (*Report, error) {
	w := training.Workout()
	if c, ok := w.(io.Closer); ok {
		defer c.Close()
	}
	return f(w)
}

/*
LuckyTrain trains fattened (Fat) model and throws any occurred errors as a panic
*/
func (f FatModel) LuckyTrain(training UnifiedTraining) *Report {
	m, err := f.Train(training)
	if err != nil {
		panic(zorros.Panic(err))
	}
	return m
}

/*
PredictionModel is a predictor interface: a trained architecture able to
map one window input matrix to its forecast matrix.
*/
type PredictionModel interface {
	// Name of the architecture, used as the results store key
	Name() string
	// Predict maps one (inputWidth, numFeatures) window to a
	// (labelWidth, numLabels) forecast
	Predict(x [][]float64) [][]float64
}

/*
Params is a set of hyper-parameters used to generate new model
*/
type Params map[string]float64

/*
Get value of the parameter by name if exists and dflt value otherwise
*/
func (p Params) Get(name string, dflt float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}
	return dflt
}

func (p Params) Apply(m map[string]reflect.Value) {
	for k, v := range p {
		ref, ok := m[k]
		if !ok {
			panic(zorros.Panic(zorros.Errorf("model does not have field `%v`", k)))
		}
		ref.Elem().Set(reflect.ValueOf(v).Convert(ref.Type().Elem()))
	}
}
