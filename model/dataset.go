package model

import (
	"golang.org/x/xerrors"

	"github.com/davidghobson1/COVID-19-Forecasting-Model/fu"
	"github.com/davidghobson1/COVID-19-Forecasting-Model/tables"
	"github.com/davidghobson1/COVID-19-Forecasting-Model/window"
)

/*
Dataset is the windowed data to feed hungry models: the three chronological
subsets of one observation table plus the window geometry and batching
parameters every architecture shares in an experiment.
*/
type Dataset struct {
	Train *tables.Table // fitting subset
	Valid *tables.Table // early-stopping subset, equal to Train if nil
	Test  *tables.Table // optional final evaluation subset

	Spec      window.Spec // window geometry, shared by all subsets
	BatchSize int         // training batch size, 32 if zero
	Shuffle   bool        // shuffle window membership across training batches
	Seed      int64       // rng seed for shuffling and weight init
}

const DefaultBatchSize = 32

// Validation returns the early-stopping subset.
func (d Dataset) Validation() *tables.Table {
	if d.Valid == nil {
		return d.Train
	}
	return d.Valid
}

// NumFeatures returns the width of the observation tables.
func (d Dataset) NumFeatures() int { return d.Train.Width() }

// LabelIndexes resolves the window label columns against the training
// table's column order. Empty means all features are labels.
func (d Dataset) LabelIndexes() ([]int, error) {
	idx := make([]int, 0, len(d.Spec.LabelColumns))
	for _, name := range d.Spec.LabelColumns {
		j, ok := d.Train.ColIndex(name)
		if !ok {
			return nil, xerrors.Errorf("label column `%v`: %w", name, window.ErrUnknownLabelColumn)
		}
		idx = append(idx, j)
	}
	return idx, nil
}

// TrainBatches materializes the training batches for one epoch. The epoch
// number perturbs the shuffle so batch composition differs between epochs.
func (d Dataset) TrainBatches(epoch int) ([]window.Batch, error) {
	b := window.Batcher{
		BatchSize: fu.Fnzi(d.BatchSize, DefaultBatchSize),
		Shuffle:   d.Shuffle,
		Seed:      d.Seed + int64(epoch),
	}
	return b.Batches(window.Slice(d.Train, d.Spec))
}

// EvalBatches materializes all windows of a subset for evaluation, partial
// tail included.
func (d Dataset) EvalBatches(t *tables.Table) ([]window.Batch, error) {
	b := window.Batcher{BatchSize: fu.Fnzi(d.BatchSize, DefaultBatchSize), KeepPartial: true}
	return b.Batches(window.Slice(t, d.Spec))
}
