// Package pqueue provides a generic priority queue backed by a binary
// min-heap, the reference PQueue abstraction that DictPQueue and the DLFU
// cache tiers are built on top of.
//
// # When to Use
//
// Use PQueue directly when you need ordered access to a set of entries by
// a numeric priority with O(log N) push/pull and O(1) top-peek. This is
// the reference backend for [github.com/dbaarda/dlfucache/dictpqueue] and
// [github.com/dbaarda/dlfucache/dlfu]. Two alternate strategies live in
// sibling packages, [github.com/dbaarda/dlfucache/pqueue/listqueue] and
// [github.com/dbaarda/dlfucache/pqueue/fifoqueue], for access profiles
// where a recency list or a strict FIFO order suffice.
//
// # Orientation
//
// The queue is min-oriented: [PQueue.Peek] and the default target of
// [PQueue.Pull] and [PQueue.Swap] is the entry with the smallest priority.
//
// # Stability
//
// Push returns an [Entry] handle that stays valid until it is removed by
// Pull or Swap. The handle is how callers address a specific mid-queue
// entry for [PQueue.Peek], [PQueue.SetPriority], and [PQueue.Move].
//
// # Tie-breaking
//
// Entries with equal priority are ordered by a monotonic touch sequence:
// the entry touched (pushed or re-prioritized) least recently sorts
// first. This gives FIFO eviction among ties, and is also what lets the
// dlfu package's T=0 (pure LRU) limit fall out of the same heap code path
// instead of a separate algorithm.
//
// # Thread Safety
//
// PQueue is not safe for concurrent use. Callers needing concurrent access
// must provide their own external synchronization.
package pqueue

import "container/heap"

// Entry is a stable handle to one slot in a PQueue. Its identity survives
// from the Push or Swap that created it until the Pull or Swap that
// removes it; using a stale Entry after removal is a programming error.
type Entry[K comparable, V any] struct {
	key      K
	value    V
	priority float64
	seq      uint64
	index    int
}

// Key returns the entry's key.
func (e *Entry[K, V]) Key() K { return e.key }

// Value returns the entry's stored payload.
func (e *Entry[K, V]) Value() V { return e.value }

// SetValue overwrites the entry's stored payload without touching its
// priority or position.
func (e *Entry[K, V]) SetValue(v V) { e.value = v }

// Priority returns the entry's current priority.
func (e *Entry[K, V]) Priority() float64 { return e.priority }

// heapSlice implements container/heap.Interface over a slice of *Entry.
type heapSlice[K comparable, V any] []*Entry[K, V]

func (h heapSlice[K, V]) Len() int { return len(h) }

func (h heapSlice[K, V]) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}

	return h[i].seq < h[j].seq
}

func (h heapSlice[K, V]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *heapSlice[K, V]) Push(x any) {
	e, _ := x.(*Entry[K, V])
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *heapSlice[K, V]) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]

	return e
}

// PQueue is a binary-heap-backed priority queue.
//
// The zero value is not usable; create instances with [New] or [Init].
type PQueue[K comparable, V any] struct {
	h       heapSlice[K, V]
	nextSeq uint64
}

// New creates an empty PQueue, preallocating room for capacity entries.
func New[K comparable, V any](capacity int) *PQueue[K, V] {
	return &PQueue[K, V]{h: make(heapSlice[K, V], 0, capacity)}
}

// Init builds a PQueue from an initial key->priority mapping in arbitrary
// order; the resulting structure satisfies the heap property. Values are
// left zero; use this for priority-only queues (the DLFU metadata tier).
func Init[K comparable, V any](items map[K]float64) *PQueue[K, V] {
	q := New[K, V](len(items))
	for k, p := range items {
		var zero V
		q.Push(k, zero, p)
	}

	return q
}

// Len returns the number of entries currently queued.
func (q *PQueue[K, V]) Len() int { return q.h.Len() }

// Peek returns the (key, value) of e without modifying order. If e is
// nil, it returns the top (minimum-priority) entry. Peek of an empty
// queue with e nil panics; callers must check Len first.
func (q *PQueue[K, V]) Peek(e *Entry[K, V]) (K, V) {
	if e == nil {
		e = q.h[0]
	}

	return e.key, e.value
}

// Push inserts (k, v) with the given priority and returns a stable
// handle for later Peek, SetPriority, Move, Pull, or Swap calls.
func (q *PQueue[K, V]) Push(k K, v V, priority float64) *Entry[K, V] {
	e := &Entry[K, V]{key: k, value: v, priority: priority, seq: q.nextSeq}
	q.nextSeq++
	heap.Push(&q.h, e)

	return e
}

// Pull removes and returns e, or the top entry if e is nil. The handle is
// invalidated; reusing it afterward is a programming error.
func (q *PQueue[K, V]) Pull(e *Entry[K, V]) (K, V, float64) {
	if e == nil {
		e = q.h[0]
	}

	heap.Remove(&q.h, e.index)

	return e.key, e.value, e.priority
}

// Swap inserts (k, v, priority) and removes e2 (the top entry if e2 is
// nil), returning the new handle and the removed item. It is equivalent
// to Pull followed by Push, so the new entry is never the one removed
// and the queue never holds more entries than it did before the call.
func (q *PQueue[K, V]) Swap(k K, v V, priority float64, e2 *Entry[K, V]) (*Entry[K, V], K, V, float64) {
	rk, rv, rp := q.Pull(e2)
	ne := q.Push(k, v, priority)

	return ne, rk, rv, rp
}

// SetPriority mutates e's priority and restores heap order in one call.
// This is the usual way to re-prioritize an entry; it also refreshes e's
// tie-break sequence so it sorts after other entries of equal priority.
func (q *PQueue[K, V]) SetPriority(e *Entry[K, V], priority float64) {
	e.priority = priority
	q.Move(e)
}

// Move restores heap order around e; SetPriority calls it after storing
// the new priority. It also refreshes e's tie-break sequence, so e sorts
// after other entries of equal priority.
func (q *PQueue[K, V]) Move(e *Entry[K, V]) {
	e.seq = q.nextSeq
	q.nextSeq++
	heap.Fix(&q.h, e.index)
}

// Scale multiplies every stored priority by m. m must be strictly
// positive; priority order is unaffected by a positive scale, so no
// re-heapify is needed. Scale is O(N) and is meant to be called rarely
// (on rescale), not on the per-access hot path.
func (q *PQueue[K, V]) Scale(m float64) {
	if m <= 0 {
		panic("pqueue: scale factor must be positive")
	}

	for _, e := range q.h {
		e.priority *= m
	}
}

// Each calls fn once per entry, in arbitrary order. fn must not push or
// pull while iterating. If fn mutates an entry's priority it must call
// [PQueue.Move] for that entry before Each returns (or rely on
// SetPriority, which does so internally).
func (q *PQueue[K, V]) Each(fn func(e *Entry[K, V])) {
	// Walk a snapshot: Move inside fn reorders q.h in place.
	for _, e := range append(heapSlice[K, V](nil), q.h...) {
		fn(e)
	}
}
