package parallel

import (
	"crypto/sha256"
	"sync"
)

// Hasher folds per-index digests into one deterministic digest. Workers may
// put digests in any order from any goroutine; Sum consumes them in index
// order, so the result depends only on the digests and not on scheduling.
type Hasher struct {
	mut  sync.Mutex
	data [][32]byte
	have []bool
}

// NewHasher creates a Hasher expecting n indexed digests.
func NewHasher(n int) *Hasher {
	return &Hasher{
		data: make([][32]byte, n),
		have: make([]bool, n),
	}
}

// MustPutHash stores the digest for index n. Putting the same index twice
// or an index out of range panics.
func (h *Hasher) MustPutHash(n int, value [32]byte) {
	h.mut.Lock()
	defer h.mut.Unlock()
	if n < 0 || n >= len(h.data) {
		panic("hasher index out of range")
	}
	if h.have[n] {
		panic("duplicate hash write")
	}
	h.data[n] = value
	h.have[n] = true
}

// Sum hashes all stored digests in index order. Indices never put contribute
// zero digests.
func (h *Hasher) Sum() (ret [32]byte) {
	h.mut.Lock()
	defer h.mut.Unlock()
	sha := sha256.New()
	for i := range h.data {
		sha.Write(h.data[i][:])
	}
	copy(ret[:], sha.Sum(nil))
	return
}
