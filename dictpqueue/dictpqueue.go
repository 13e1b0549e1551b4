// Package dictpqueue layers a key -> entry index on top of
// [github.com/dbaarda/dlfucache/pqueue], so any key can be addressed
// directly instead of only through its handle.
//
// # When to Use
//
// Use DictPQueue wherever a PQueue's entries are also looked up by a
// caller-supplied key (the DLFU cache and metadata tiers are both built
// on one). A plain PQueue has no way to find "the entry for key k" other
// than holding onto the handle it returned; DictPQueue keeps that mapping
// so lookups, updates, and deletes can all go key-first.
//
// # Thread Safety
//
// DictPQueue is not safe for concurrent use.
package dictpqueue

import "github.com/dbaarda/dlfucache/pqueue"

// DictPQueue is a keyed view over a [pqueue.PQueue].
//
// The zero value is not usable; create instances with [New].
type DictPQueue[K comparable, V any] struct {
	q     *pqueue.PQueue[K, V]
	index map[K]*pqueue.Entry[K, V]
}

// New creates an empty DictPQueue, preallocating room for capacity
// entries.
func New[K comparable, V any](capacity int) *DictPQueue[K, V] {
	return &DictPQueue[K, V]{
		q:     pqueue.New[K, V](capacity),
		index: make(map[K]*pqueue.Entry[K, V], capacity),
	}
}

// Len returns the number of entries currently stored.
func (d *DictPQueue[K, V]) Len() int { return d.q.Len() }

// Contains reports whether key is present, without affecting order.
func (d *DictPQueue[K, V]) Contains(key K) bool {
	_, ok := d.index[key]

	return ok
}

// Get looks up key in O(1) and returns its value and priority. ok is
// false if key is absent (key-missing).
func (d *DictPQueue[K, V]) Get(key K) (value V, priority float64, ok bool) {
	e, found := d.index[key]
	if !found {
		return value, 0, false
	}

	_, v := d.q.Peek(e)

	return v, e.Priority(), true
}

// PeekTop returns the top (minimum-priority) entry without removing it.
// Peeking an empty DictPQueue panics; callers must check Len first.
func (d *DictPQueue[K, V]) PeekTop() (key K, value V, priority float64) {
	k, v := d.q.Peek(nil)
	e := d.index[k]

	return k, v, e.Priority()
}

// Set inserts key with (value, priority) if key is absent, or updates
// key's priority (and moves it to restore order) and value if key is
// already present. This is PushItem per the DictPQueue contract.
func (d *DictPQueue[K, V]) Set(key K, value V, priority float64) {
	if e, ok := d.index[key]; ok {
		e.SetValue(value)
		d.q.SetPriority(e, priority)

		return
	}

	d.index[key] = d.q.Push(key, value, priority)
}

// SetValue updates key's stored value in place without touching its
// priority or position in the queue. It reports whether key was present.
// Callers that must not treat a write as a reference (e.g. overwriting an
// already-resident cache entry) use this instead of [DictPQueue.Set].
func (d *DictPQueue[K, V]) SetValue(key K, value V) bool {
	e, ok := d.index[key]
	if !ok {
		return false
	}

	e.SetValue(value)

	return true
}

// SetPriority updates key's priority in place and restores order,
// without touching its stored value. It reports whether key was
// present. This is the operation a cachehit or metahit uses: the
// reference bumps priority only, never the payload.
func (d *DictPQueue[K, V]) SetPriority(key K, priority float64) bool {
	e, ok := d.index[key]
	if !ok {
		return false
	}

	d.q.SetPriority(e, priority)

	return true
}

// Delete removes key if present and returns its (value, priority). ok is
// false if key was absent (key-missing). This is PopItem per the
// DictPQueue contract; DeleteTop removes the top entry instead.
func (d *DictPQueue[K, V]) Delete(key K) (value V, priority float64, ok bool) {
	e, found := d.index[key]
	if !found {
		return value, 0, false
	}

	_, v, p := d.q.Pull(e)
	delete(d.index, key)

	return v, p, true
}

// DeleteTop removes and returns the top (minimum-priority) entry.
func (d *DictPQueue[K, V]) DeleteTop() (key K, value V, priority float64) {
	k, v, p := d.q.Pull(nil)
	delete(d.index, k)

	return k, v, p
}

// Swap inserts (key, value, priority) and removes evictKey, or the top
// (minimum-priority) entry if evictKey is nil, returning what was
// removed. It removes first and then inserts, so the new entry is never
// the one removed and the queue never holds more entries than it did
// before the call. ok is false if evictKey was given but is absent.
func (d *DictPQueue[K, V]) Swap(key K, value V, priority float64, evictKey *K) (rkey K, rvalue V, rpriority float64, ok bool) {
	var e2 *pqueue.Entry[K, V]

	if evictKey != nil {
		var found bool

		e2, found = d.index[*evictKey]
		if !found {
			return rkey, rvalue, 0, false
		}
	}

	ne, rk, rv, rp := d.q.Swap(key, value, priority, e2)
	delete(d.index, rk)
	d.index[key] = ne

	return rk, rv, rp, true
}

// Scale multiplies every stored priority by m (m must be > 0), delegating
// to the underlying PQueue.
func (d *DictPQueue[K, V]) Scale(m float64) { d.q.Scale(m) }

// Each calls fn once per (key, value, priority), in arbitrary order.
func (d *DictPQueue[K, V]) Each(fn func(key K, value V, priority float64)) {
	d.q.Each(func(e *pqueue.Entry[K, V]) {
		fn(e.Key(), e.Value(), e.Priority())
	})
}
