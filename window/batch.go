package window

import (
	"math/rand"
)

/*
Batch is a fixed-size group of window pairs. Inputs has shape
(len, InputWidth, numFeatures) and Labels has shape
(len, LabelWidth, numSelected); index i of both belongs to the same window.
*/
type Batch struct {
	Inputs [][][]float32
	Labels [][][]float32
}

// Len returns the number of windows in the batch.
func (b Batch) Len() int { return len(b.Inputs) }

/*
Batcher groups a window enumeration into batches.

Shuffling permutes which windows land in which batch; the temporal order of
rows inside a window is never touched. The final partial batch is dropped
unless KeepPartial is set, matching the source framework's windowing
default.
*/
type Batcher struct {
	BatchSize   int
	Shuffle     bool
	Seed        int64
	KeepPartial bool
}

// Batches materializes all batches for the given table and spec.
func (b Batcher) Batches(ws *Windows) ([]Batch, error) {
	size := b.BatchSize
	if size < 1 {
		size = 1
	}
	ws.Reset()
	n := ws.Count()

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if b.Shuffle {
		rand.New(rand.NewSource(b.Seed)).Shuffle(n, func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}

	var batches []Batch
	for at := 0; at < n; at += size {
		end := at + size
		if end > n {
			if !b.KeepPartial {
				break
			}
			end = n
		}
		batch := Batch{
			Inputs: make([][][]float32, 0, end-at),
			Labels: make([][][]float32, 0, end-at),
		}
		for _, start := range order[at:end] {
			inputs, labels, err := Split(ws.table, ws.spec, start)
			if err != nil {
				return nil, err
			}
			batch.Inputs = append(batch.Inputs, inputs)
			batch.Labels = append(batch.Labels, labels)
		}
		batches = append(batches, batch)
	}
	return batches, nil
}
