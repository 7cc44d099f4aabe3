package nn

import (
	"reflect"

	"go-ml.dev/pkg/zorros"

	"github.com/davidghobson1/COVID-19-Forecasting-Model/fu"
	"github.com/davidghobson1/COVID-19-Forecasting-Model/model"
	"github.com/davidghobson1/COVID-19-Forecasting-Model/tables"
)

// Architecture names accepted by Forecaster.
const (
	BaselineArch  = "baseline"
	LinearArch    = "linear"
	DenseArch     = "dense"
	ConvArch      = "conv"
	RecurrentArch = "lstm"
)

// Optimizer names accepted by Forecaster.
const (
	AdamOptimizer = "adam"
	SGDOptimizer  = "sgd"
)

/*
Forecaster is the hungry model binding one zoo architecture to the windowed
training loop. Zero knobs fall back to the experiment defaults: 64 dense
units, 32 filters of width 3, 32 LSTM units, Adam with lr 0.001. Momentum
only applies to the sgd optimizer.
*/
type Forecaster struct {
	Arch  string
	Optim string

	Units    int     // dense/lstm hidden units
	Filters  int     // conv feature maps
	Width    int     // conv kernel width along time
	LR       float64 // optimizer learning rate
	Momentum float64 // sgd velocity decay

	network *Network
}

/*
NewForecaster creates a forecaster of the given architecture with its
numeric knobs set from hyper-parameters. Parameter names match the
Forecaster field names; an unknown name panics.
*/
func NewForecaster(arch string, p model.Params) *Forecaster {
	f := &Forecaster{Arch: arch}
	p.Apply(map[string]reflect.Value{
		"Units":    reflect.ValueOf(&f.Units),
		"Filters":  reflect.ValueOf(&f.Filters),
		"Width":    reflect.ValueOf(&f.Width),
		"LR":       reflect.ValueOf(&f.LR),
		"Momentum": reflect.ValueOf(&f.Momentum),
	})
	return f
}

// Network returns the trained network after Feed's fat model has run.
func (f *Forecaster) Network() *Network { return f.network }

func (f *Forecaster) build(g Geometry, seed int64) (*Network, error) {
	switch f.Arch {
	case BaselineArch:
		return Baseline(g)
	case LinearArch:
		return Linear(g, seed)
	case DenseArch:
		return Dense(g, fu.Fnzi(f.Units, 64), seed)
	case ConvArch:
		return Conv(g, fu.Fnzi(f.Filters, 32), fu.Fnzi(f.Width, 3), seed)
	case RecurrentArch:
		return Recurrent(g, fu.Fnzi(f.Units, 32), seed)
	}
	return nil, zorros.Errorf("unknown architecture `%v`", f.Arch)
}

func (f *Forecaster) optimizer() (Optimizer, error) {
	lr := f.LR
	if lr == 0 {
		lr = 0.001
	}
	switch f.Optim {
	case "", AdamOptimizer:
		return NewAdam(lr), nil
	case SGDOptimizer:
		return &SGD{LR: lr, Momentum: f.Momentum}, nil
	}
	return nil, zorros.Errorf("unknown optimizer `%v`", f.Optim)
}

/*
Feed binds the forecaster to a windowed dataset. The returned fat model
trains one epoch per workout iteration, reports train/validation regression
metrics and, once the training stops, restores the best iteration's
weights into the live network.
*/
func (f *Forecaster) Feed(d model.Dataset) model.FatModel {
	return func(w model.Workout) (*model.Report, error) {
		idx, err := d.LabelIndexes()
		if err != nil {
			return nil, err
		}
		g := Geometry{
			InputWidth:   d.Spec.InputWidth,
			LabelWidth:   d.Spec.LabelWidth,
			NumFeatures:  d.NumFeatures(),
			LabelIndexes: idx,
		}
		net, err := f.build(g, d.Seed)
		if err != nil {
			return nil, err
		}
		f.network = net
		opt, err := f.optimizer()
		if err != nil {
			return nil, err
		}

		var states []State
		for {
			if net.Trainable() {
				batches, err := d.TrainBatches(w.Iteration())
				if err != nil {
					return nil, err
				}
				for _, b := range batches {
					net.TrainBatch(floats64s(b.Inputs), floats64s(b.Labels), opt)
				}
			}
			train, _, err := evaluate(net, d, d.Train, w.TrainMetrics())
			if err != nil {
				return nil, err
			}
			test, testDone, err := evaluate(net, d, d.Validation(), w.TestMetrics())
			if err != nil {
				return nil, err
			}
			states = append(states, net.State())
			report, done, err := w.Complete(
				model.MemorizeMap{"network": net.State()}, train, test, testDone)
			if err != nil {
				return nil, err
			}
			if done {
				if err = net.SetState(states[report.TheBest]); err != nil {
					return nil, err
				}
				return report, nil
			}
			if w = w.Next(); w == nil {
				return nil, zorros.Errorf("workout ended without a report")
			}
		}
	}
}

// evaluate runs the network over every window of a subset and folds the
// forecasts into the metrics updater.
func evaluate(net *Network, d model.Dataset, t *tables.Table, u model.MetricsUpdater) (fu.Struct, bool, error) {
	batches, err := d.EvalBatches(t)
	if err != nil {
		return fu.Struct{}, false, err
	}
	for _, b := range batches {
		for s := range b.Inputs {
			pred := net.Predict(floats64(b.Inputs[s]))
			u.Update(flat(pred), fu.Floats64(fu.Flatnr(b.Labels[s])))
		}
	}
	s, done := u.Complete()
	return s, done, nil
}

// Evaluate measures a prediction model over one subset without training.
func Evaluate(p model.PredictionModel, d model.Dataset, t *tables.Table, m model.Metrics, subset int) (fu.Struct, error) {
	u := m.New(0, subset)
	batches, err := d.EvalBatches(t)
	if err != nil {
		return fu.Struct{}, err
	}
	for _, b := range batches {
		for s := range b.Inputs {
			pred := p.Predict(floats64(b.Inputs[s]))
			u.Update(flat(pred), fu.Floats64(fu.Flatnr(b.Labels[s])))
		}
	}
	s, _ := u.Complete()
	return s, nil
}

var _ model.HungryModel = (*Forecaster)(nil)
var _ model.PredictionModel = (*Network)(nil)

func floats64(m [][]float32) [][]float64 {
	r := make([][]float64, len(m))
	for i, row := range m {
		r[i] = fu.Floats64(row)
	}
	return r
}

func floats64s(ms [][][]float32) [][][]float64 {
	r := make([][][]float64, len(ms))
	for i, m := range ms {
		r[i] = floats64(m)
	}
	return r
}

func flat(m [][]float64) []float64 {
	r := make([]float64, 0, len(m)*len(m[0]))
	for _, row := range m {
		r = append(r, row...)
	}
	return r
}
