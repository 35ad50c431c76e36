package clock

import "sync/atomic"

// Rev is a monotonic logical revision counter.
//
// Every successfully applied schedule operation is stamped with the next
// revision number. Revisions order persisted snapshots and the operation
// log deterministically; wall-clock timestamps are never used for ordering.
//
// Thread-safety: Rev is safe for concurrent use (atomic operations),
// though the engine's single-writer design means only one goroutine
// typically calls Next().
type Rev struct {
	seq atomic.Int64
}

// NewRev creates a revision counter starting at 0.
func NewRev() *Rev {
	return &Rev{}
}

// NewRevAt creates a revision counter starting at a specific value.
// Used when resuming an existing schedule from the store.
func NewRevAt(start int64) *Rev {
	r := &Rev{}
	r.seq.Store(start)
	return r
}

// Next returns the next revision number and advances the counter.
// Each call returns a unique, strictly increasing value.
func (r *Rev) Next() int64 {
	return r.seq.Add(1)
}

// Current returns the current revision without advancing.
func (r *Rev) Current() int64 {
	return r.seq.Load()
}
