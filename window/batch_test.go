package window

import (
	"testing"

	"gotest.tools/assert"
)

func Test_DropLastBatch(t *testing.T) {
	q := seqTable(t, 10, "Cases") // 9 windows with the 1/1/1 spec
	s, err := NewSpec(1, 1, 1)
	assert.NilError(t, err)

	batches, err := Batcher{BatchSize: 16}.Batches(Slice(q, s))
	assert.NilError(t, err)
	assert.Assert(t, len(batches) == 0)

	batches, err = Batcher{BatchSize: 16, KeepPartial: true}.Batches(Slice(q, s))
	assert.NilError(t, err)
	assert.Assert(t, len(batches) == 1)
	assert.Assert(t, batches[0].Len() == 9)

	batches, err = Batcher{BatchSize: 4}.Batches(Slice(q, s))
	assert.NilError(t, err)
	assert.Assert(t, len(batches) == 2)
	for _, b := range batches {
		assert.Assert(t, b.Len() == 4)
	}
}

func Test_BatchShapes(t *testing.T) {
	q := seqTable(t, 30, "Cases", "Deaths", "Recoveries")
	s, err := NewSpec(5, 2, 3, "Deaths", "Recoveries")
	assert.NilError(t, err)

	batches, err := Batcher{BatchSize: 8}.Batches(Slice(q, s))
	assert.NilError(t, err)
	assert.Assert(t, len(batches) == s.Count(30)/8)
	for _, b := range batches {
		for i := 0; i < b.Len(); i++ {
			assert.Assert(t, len(b.Inputs[i]) == 5)
			assert.Assert(t, len(b.Inputs[i][0]) == 3)
			assert.Assert(t, len(b.Labels[i]) == 2)
			assert.Assert(t, len(b.Labels[i][0]) == 2)
		}
	}
}

func Test_ShuffleKeepsWindowsIntact(t *testing.T) {
	q := seqTable(t, 20, "Cases")
	s, err := NewSpec(3, 1, 1)
	assert.NilError(t, err)

	batches, err := Batcher{BatchSize: 4, Shuffle: true, Seed: 7}.Batches(Slice(q, s))
	assert.NilError(t, err)
	assert.Assert(t, len(batches) == 4)

	seen := map[float32]bool{}
	for _, b := range batches {
		for i := 0; i < b.Len(); i++ {
			// steps inside a window stay consecutive and ordered
			for k := 1; k < len(b.Inputs[i]); k++ {
				assert.Assert(t, b.Inputs[i][k][0] == b.Inputs[i][k-1][0]+100)
			}
			start := b.Inputs[i][0][0]
			assert.Assert(t, !seen[start])
			seen[start] = true
		}
	}
	// every kept window shows up exactly once
	assert.Assert(t, len(seen) == 16)
}

func Test_ShuffleIsSeeded(t *testing.T) {
	q := seqTable(t, 20, "Cases")
	s, err := NewSpec(3, 1, 1)
	assert.NilError(t, err)

	a, err := Batcher{BatchSize: 4, Shuffle: true, Seed: 7}.Batches(Slice(q, s))
	assert.NilError(t, err)
	b, err := Batcher{BatchSize: 4, Shuffle: true, Seed: 7}.Batches(Slice(q, s))
	assert.NilError(t, err)
	assert.DeepEqual(t, a, b)
}
