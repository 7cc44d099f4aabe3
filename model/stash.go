package model

import (
	"bytes"
	"encoding/gob"
	"io"
	"sort"

	"github.com/ulikunitz/xz"

	"go-ml.dev/pkg/zorros"
)

/*
MemorizeMap is a named collection of gob-encodable model parts to snapshot,
e.g. {"network": state, "scaler": scaler}. For Recall the values must be
pointers to the parts to restore.
*/
type MemorizeMap map[string]interface{}

/*
Memorize writes an xz-compressed gob snapshot of all parts to w.
*/
func Memorize(w io.Writer, m MemorizeMap) error {
	zw, err := xz.NewWriter(w)
	if err != nil {
		return zorros.Trace(err)
	}
	enc := gob.NewEncoder(zw)
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if err = enc.Encode(keys); err != nil {
		return zorros.Trace(err)
	}
	for _, k := range keys {
		if err = enc.Encode(m[k]); err != nil {
			return zorros.Wrapf(err, "encoding part `%v`: %v", k, err.Error())
		}
	}
	if err = zw.Close(); err != nil {
		return zorros.Trace(err)
	}
	return nil
}

/*
Recall restores a Memorize snapshot from r into the pointers of m. Every
part present in the snapshot must have a target pointer.
*/
func Recall(r io.Reader, m MemorizeMap) error {
	zr, err := xz.NewReader(r)
	if err != nil {
		return zorros.Trace(err)
	}
	dec := gob.NewDecoder(zr)
	var keys []string
	if err = dec.Decode(&keys); err != nil {
		return zorros.Trace(err)
	}
	for _, k := range keys {
		target, ok := m[k]
		if !ok {
			return zorros.Errorf("snapshot part `%v` has no recall target", k)
		}
		if err = dec.Decode(target); err != nil {
			return zorros.Wrapf(err, "decoding part `%v`: %v", k, err.Error())
		}
	}
	return nil
}

/*
ModelStash keeps the snapshots of the most recent training iterations, as
many as the early-stopping score history needs, so the best iteration's
model can be recovered after the training stops past it.
*/
type ModelStash struct {
	depth int
	blobs map[int][]byte
}

// NewStash creates a stash keeping depth+1 most recent snapshots.
func NewStash(depth int) *ModelStash {
	return &ModelStash{depth: depth, blobs: map[int][]byte{}}
}

// Put snapshots the model parts of one iteration and drops the snapshots
// fallen out of the kept range.
func (s *ModelStash) Put(iteration int, m MemorizeMap) error {
	var bf bytes.Buffer
	if err := Memorize(&bf, m); err != nil {
		return err
	}
	s.blobs[iteration] = bf.Bytes()
	for i := range s.blobs {
		if i < iteration-s.depth {
			delete(s.blobs, i)
		}
	}
	return nil
}

// Reader returns a reader over the snapshot of the given iteration.
func (s *ModelStash) Reader(iteration int) (io.Reader, error) {
	b, ok := s.blobs[iteration]
	if !ok {
		return nil, zorros.Errorf("no stashed model for iteration %d", iteration)
	}
	return bytes.NewReader(b), nil
}

// Close drops all kept snapshots.
func (s *ModelStash) Close() error {
	s.blobs = map[int][]byte{}
	return nil
}
