// Package listqueue provides an alternate PQueue strategy: a doubly-linked
// list with a recency cursor, adapted from a plain LRU cache's node list
// into a priority-queue shape.
//
// # When to Use
//
// A binary heap ([github.com/dbaarda/dlfucache/pqueue]) handles arbitrary
// re-prioritization in O(log N). listqueue trades that generality for O(1)
// touches when the only priority change any caller ever makes is "this
// entry is now the most recently touched one". That is exactly the
// access pattern of the DLFU cache's T→0 (pure LRU) limit, where every
// hit sets the touched entry's priority to the current global increment
// C and nothing else changes relative order. Under that restriction, a
// list walks no further than moving one node to the head, with no
// heap-fix required.
//
// # What It Does Not Support
//
// listqueue does not support arbitrary [Queue.SetPriority], only Bump
// (move to head, i.e. "touch now"). It has no use for Scale, since its
// order is defined purely by touch recency, not by a numeric value; Scale
// is a documented no-op. This makes listqueue unsuitable as a general
// PQueue backend but exactly sufficient for LRU-shaped access.
//
// # Thread Safety
//
// Queue is not safe for concurrent use.
package listqueue

// Entry is a stable handle into a Queue, analogous to pqueue.Entry.
type Entry[K comparable, V any] struct {
	key        K
	value      V
	touch      uint64
	prev, next *Entry[K, V]
}

// Key returns the entry's key.
func (e *Entry[K, V]) Key() K { return e.key }

// Value returns the entry's stored payload.
func (e *Entry[K, V]) Value() V { return e.value }

// Priority returns the entry's touch sequence number, used as a
// monotonically increasing stand-in for a numeric priority: the head of
// the list (most recently bumped) always has the largest value.
func (e *Entry[K, V]) Priority() float64 { return float64(e.touch) }

// Queue is a doubly-linked list ordered by touch recency: head is most
// recently touched (highest priority), tail is least recently touched
// (the top / eviction candidate).
//
// The zero value is not usable; create instances with [New].
type Queue[K comparable, V any] struct {
	items      map[K]*Entry[K, V]
	head, tail *Entry[K, V]
	nextTouch  uint64
}

// New creates an empty Queue.
func New[K comparable, V any]() *Queue[K, V] {
	head := &Entry[K, V]{}
	tail := &Entry[K, V]{}
	head.next = tail
	tail.prev = head

	return &Queue[K, V]{
		items: make(map[K]*Entry[K, V]),
		head:  head,
		tail:  tail,
	}
}

// Len returns the number of entries in the queue.
func (q *Queue[K, V]) Len() int { return len(q.items) }

// Peek returns the (key, value) of e, or of the top (least recently
// touched) entry if e is nil. Peek of an empty queue with e nil panics.
func (q *Queue[K, V]) Peek(e *Entry[K, V]) (K, V) {
	if e == nil {
		if len(q.items) == 0 {
			panic("listqueue: peek of an empty queue")
		}

		e = q.tail.prev
	}

	return e.key, e.value
}

// Push inserts (k, v), bumping it to the head (most recently touched),
// and returns its handle.
func (q *Queue[K, V]) Push(k K, v V) *Entry[K, V] {
	e := &Entry[K, V]{key: k, value: v}
	q.items[k] = e
	q.addToHead(e)
	q.bumpTouch(e)

	return e
}

// Pull removes and returns e, or the top entry if e is nil.
func (q *Queue[K, V]) Pull(e *Entry[K, V]) (K, V) {
	if e == nil {
		e = q.tail.prev
	}

	q.removeNode(e)
	delete(q.items, e.key)

	return e.key, e.value
}

// Bump moves e to the head of the list and refreshes its touch sequence,
// the listqueue equivalent of pqueue's SetPriority/Move for the
// always-promote-to-max access pattern.
func (q *Queue[K, V]) Bump(e *Entry[K, V]) {
	q.removeNode(e)
	q.addToHead(e)
	q.bumpTouch(e)
}

// Swap inserts (k, v) at the head and removes e2 (the top entry if e2 is
// nil), returning the new handle and the removed item.
func (q *Queue[K, V]) Swap(k K, v V, e2 *Entry[K, V]) (*Entry[K, V], K, V) {
	rk, rv := q.Pull(e2)
	ne := q.Push(k, v)

	return ne, rk, rv
}

// Scale is a no-op: listqueue's order is defined by touch recency, not by
// a numeric priority a multiplicative rescale could act on.
func (q *Queue[K, V]) Scale(float64) {}

// Each calls fn once per entry, from most to least recently touched.
func (q *Queue[K, V]) Each(fn func(e *Entry[K, V])) {
	for n := q.head.next; n != q.tail; n = n.next {
		fn(n)
	}
}

func (q *Queue[K, V]) bumpTouch(e *Entry[K, V]) {
	e.touch = q.nextTouch
	q.nextTouch++
}

func (q *Queue[K, V]) removeNode(e *Entry[K, V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
}

func (q *Queue[K, V]) addToHead(e *Entry[K, V]) {
	e.next = q.head.next
	e.prev = q.head
	q.head.next.prev = e
	q.head.next = e
}
