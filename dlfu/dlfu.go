// Package dlfu provides a Decaying Least-Frequently-Used (DLFU) cache: a
// fixed-capacity associative store whose eviction policy ranks entries by
// an exponentially decaying reference count, approximating the number of
// accesses over a sliding window of roughly T*size recent lookups.
//
// # When to Use DLFU
//
// Use DLFU when neither pure LRU nor pure LFU alone describes your
// workload well. The decay time constant T continuously tunes eviction
// between the two extremes:
//   - T = 0: degenerates to pure LRU (most-recently-touched wins ties).
//   - T = +Inf: degenerates to classical LFU (highest access count wins).
//   - 0 < T < +Inf: recent accesses count more than old ones, with the
//     "recent" window scaling with T*size.
//
// This is ideal for:
//   - Workloads with both hot, frequently revisited keys and cold,
//     rarely-but-repeatedly scanned keys, where LRU alone gets scanned
//     away and LFU alone never forgets a stale hot key.
//   - Caches that want scan resistance without hard-coding a segment
//     ratio.
//
// # How DLFU Works
//
// The cache is split into two tiers, each a
// [github.com/dbaarda/dlfucache/dictpqueue.DictPQueue]:
//   - the cache tier, holding at most size keys with their values and
//     decayed reference counts;
//   - the metadata tier, holding at most msize keys evicted from the
//     cache tier, with their decayed counts but no value.
//
// A key evicted from the cache tier is demoted to the metadata tier
// instead of being forgotten outright. If it is looked up again (a
// metahit) and then re-inserted, it re-enters the cache tier carrying
// its accumulated history forward (this is what lets a once-popular
// key regain residency instead of restarting from zero, the core
// difference from plain LRU/LFU).
//
// Rather than decaying every stored count on every access (O(N)), the
// cache grows a single global increment C geometrically and adds C to
// whichever entry is touched; because the logical count is v/C, growing
// C is mathematically identical to decaying every other entry. When C
// would reach 2.0, a single O(|c|+|m|) rescale halves C and every stored
// priority, amortizing the cost of decay to O(1) per access.
//
// # Thread Safety
//
// Cache is not safe for concurrent use. It is a synchronous, single-owner
// data structure: callers sharing a Cache across goroutines must provide
// their own external synchronization.
//
// # Non-goals
//
// No persistence, no TTL-based expiry, no approximate structures
// (count-min sketches, CLOCK), no adaptive auto-tuning of T. Value
// production on a miss, workload generation, benchmarking, and any CLI
// or plotting are external concerns this package does not address.
package dlfu

import (
	"errors"
	"fmt"
	"math"

	"github.com/dbaarda/dlfucache/dictpqueue"
)

// ErrKeyNotFound is returned by [Cache.Get] and [Cache.Remove] when the
// key is absent (the key-missing condition, expected during normal
// operation: a metahit or totalmiss on Get, or a Remove of an already
// absent key).
var ErrKeyNotFound = errors.New("dlfu: key not found")

// ErrInvalidParameter is returned by [New] and [NewWithMSize] when a
// constructor argument violates its contract (non-positive size,
// negative or NaN T, negative msize).
var ErrInvalidParameter = errors.New("dlfu: invalid parameter")

// Residency reports where a key currently lives: in the cache tier, in
// the metadata tier only, or nowhere at all. See [Cache.Contains].
type Residency int

const (
	// Absent means the key has never been set, or has since been
	// evicted from the metadata tier or explicitly removed.
	Absent Residency = iota
	// InCache means the key is resident in the cache tier with a value.
	InCache
	// InMeta means the key was once in the cache tier and was evicted;
	// its decayed count is retained but its value was discarded.
	InMeta
)

// String implements fmt.Stringer.
func (r Residency) String() string {
	switch r {
	case InCache:
		return "in-cache"
	case InMeta:
		return "in-meta"
	default:
		return "absent"
	}
}

// Cache is a Decaying Least-Frequently-Used cache of bounded capacity
// size, backed by a cache tier (capacity size, holds values) and a
// metadata tier (capacity msize, holds counts only).
//
// The zero value is not usable; create instances with [New] or
// [NewWithMSize].
type Cache[K comparable, V any] struct {
	size, msize int
	t           float64
	alpha       float64
	incr        float64

	hitCount, mhitCount, missCount uint64

	cache *dictpqueue.DictPQueue[K, V]
	meta  *dictpqueue.DictPQueue[K, struct{}]
}

// New creates a DLFU cache with the given capacity and decay time
// constant, using the default metadata capacity msize = size.
//
// T is a non-negative real or math.Inf(1); T = 0 degenerates to pure
// LRU, T = +Inf degenerates to pure LFU. size must be positive.
//
// Example:
//
//	cache, err := dlfu.New[string, []byte](1000, 4.0)
func New[K comparable, V any](size int, t float64) (*Cache[K, V], error) {
	return NewWithMSize[K, V](size, t, size)
}

// NewWithMSize creates a DLFU cache with a metadata tier capacity
// distinct from the cache tier's. msize = 0 disables metadata retention
// entirely: evicted keys are dropped outright and can never be promoted
// back, which combined with T = +Inf is classical LFU with no history
// kept for evicted keys.
//
// Example:
//
//	// No metadata retention: a pure two-tier-less DLFU.
//	cache, err := dlfu.NewWithMSize[string, int](500, 2.0, 0)
func NewWithMSize[K comparable, V any](size int, t float64, msize int) (*Cache[K, V], error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", ErrInvalidParameter, size)
	}

	if math.IsNaN(t) || t < 0 {
		return nil, fmt.Errorf("%w: T must be a non-negative real or +Inf, got %v", ErrInvalidParameter, t)
	}

	if msize < 0 {
		return nil, fmt.Errorf("%w: msize must be non-negative, got %d", ErrInvalidParameter, msize)
	}

	return &Cache[K, V]{
		size:  size,
		msize: msize,
		t:     t,
		alpha: alphaFor(t, size),
		incr:  1.0,
		cache: dictpqueue.New[K, V](size),
		meta:  dictpqueue.New[K, struct{}](msize),
	}, nil
}

// alphaFor computes the per-access growth factor of C. T = 0 and
// T = +Inf both collapse to alpha = 1 (C never grows); the two limits
// are told apart by how bump's priority is computed, not by alpha.
func alphaFor(t float64, size int) float64 {
	if t == 0 || math.IsInf(t, 1) {
		return 1
	}

	return math.Exp(1 / (t * float64(size)))
}

// Get looks up k, bumping its decayed count and advancing the global
// increment on a hit.
//
//   - cachehit (k in the cache tier): returns its value, nil error.
//   - metahit (k in the metadata tier only): returns [ErrKeyNotFound];
//     the caller is expected to call [Cache.Set] next, which promotes k
//     back into the cache tier carrying its retained history forward.
//   - totalmiss (k in neither tier): returns [ErrKeyNotFound]; a
//     subsequent Set inserts k as a fresh entry.
//
// Get never mutates tier membership or priorities on a totalmiss; only
// the miss counter advances.
func (c *Cache[K, V]) Get(k K) (V, error) {
	if v, p, ok := c.cache.Get(k); ok {
		c.cache.SetPriority(k, c.bump(p))
		c.hitCount++
		c.advance()

		return v, nil
	}

	var zero V

	if _, p, ok := c.meta.Get(k); ok {
		c.meta.SetPriority(k, c.bump(p))
		c.mhitCount++
		c.advance()

		return zero, ErrKeyNotFound
	}

	c.missCount++

	return zero, ErrKeyNotFound
}

// bump computes the new priority for a touched entry currently at
// priority p. For T = 0, the touched entry always becomes the current
// increment itself (ties, broken by touch recency, then give pure LRU
// order); otherwise the increment accumulates onto the prior count.
func (c *Cache[K, V]) bump(p float64) float64 {
	if c.t == 0 {
		return c.incr
	}

	return p + c.incr
}

// advance grows the global increment by alpha and rescales if it has
// reached the 2.0 threshold, restoring C to [1, 2) and every stored
// priority to half its value. This is the amortized-decay trick: it
// runs in O(1) per call except during the rare O(|c|+|m|) rescale.
func (c *Cache[K, V]) advance() {
	c.incr *= c.alpha

	for c.incr >= 2.0 {
		c.cache.Scale(0.5)
		c.meta.Scale(0.5)
		c.incr *= 0.5
	}
}

// Set inserts or overwrites k with value v.
//
//   - If k is already in the cache tier: its value is updated in place.
//     This is not a reference, so its priority is untouched (callers
//     wanting to also record a reference should call [Cache.Get] first).
//   - Else if the cache tier has room: k is inserted with priority equal
//     to the current increment (decayed count 1).
//   - Else (cache tier full): the cache tier's minimum-priority entry is
//     evicted to the metadata tier (or dropped if msize = 0, or swapped
//     against the metadata tier's minimum if the metadata tier is
//     full), and k is inserted with its metadata-promotion priority if
//     it was in the metadata tier (preserving accumulated history), or
//     the current increment otherwise.
func (c *Cache[K, V]) Set(k K, v V) {
	if c.cache.SetValue(k, v) {
		return
	}

	// A key promoted out of the metadata tier carries its accumulated
	// history forward, regardless of whether the cache tier currently
	// has room; this also keeps the two tiers' keys disjoint, since k
	// cannot be left resident in both.
	newPriority := c.incr
	if _, mp, ok := c.meta.Delete(k); ok {
		newPriority = mp + c.incr
	}

	if c.cache.Len() < c.size {
		c.cache.Set(k, v, newPriority)

		return
	}

	evictKey, _, evictPriority := c.cache.DeleteTop()

	c.cache.Set(k, v, newPriority)
	assertInvariant(c.cache.Len() <= c.size, "cache tier exceeded size after insertion")

	switch {
	case c.msize == 0:
		// No metadata retention: the evictee is dropped outright.
	case c.meta.Len() < c.msize:
		c.meta.Set(evictKey, struct{}{}, evictPriority)
	default:
		if _, _, _, ok := c.meta.Swap(evictKey, struct{}{}, evictPriority, nil); !ok {
			assertInvariant(false, "metadata tier swap failed against a non-empty tier")
		}
	}

	assertInvariant(c.meta.Len() <= c.msize, "metadata tier exceeded msize after insertion")
}

// Remove deletes k from whichever tier holds it. It returns
// [ErrKeyNotFound] if k is absent from both tiers. Deleting from the
// cache tier frees its slot without backfill: the slot is only refilled
// by a subsequent Set, never automatically from the metadata tier.
func (c *Cache[K, V]) Remove(k K) error {
	if _, _, ok := c.cache.Delete(k); ok {
		return nil
	}

	if _, _, ok := c.meta.Delete(k); ok {
		return nil
	}

	return ErrKeyNotFound
}

// Contains reports k's residency without mutating any state: it is not
// an access, and does not affect counters, priorities, or eviction
// order.
func (c *Cache[K, V]) Contains(k K) Residency {
	if c.cache.Contains(k) {
		return InCache
	}

	if c.meta.Contains(k) {
		return InMeta
	}

	return Absent
}

// Size returns the cache tier's capacity.
func (c *Cache[K, V]) Size() int { return c.size }

// MSize returns the metadata tier's capacity.
func (c *Cache[K, V]) MSize() int { return c.msize }

// T returns the decay time constant.
func (c *Cache[K, V]) T() float64 { return c.t }

// C returns the current global increment, always in [1.0, 2.0).
func (c *Cache[K, V]) C() float64 { return c.incr }

// HitCount returns the number of cachehit accesses so far.
func (c *Cache[K, V]) HitCount() uint64 { return c.hitCount }

// MHitCount returns the number of metahit accesses so far.
func (c *Cache[K, V]) MHitCount() uint64 { return c.mhitCount }

// MissCount returns the number of totalmiss accesses so far.
func (c *Cache[K, V]) MissCount() uint64 { return c.missCount }

// Len returns the number of keys currently resident in the cache tier.
func (c *Cache[K, V]) Len() int { return c.cache.Len() }

// MLen returns the number of keys currently resident in the metadata
// tier.
func (c *Cache[K, V]) MLen() int { return c.meta.Len() }

// assertInvariant fail-fasts on a capacity-overflow: a PQueue or tier
// exceeding its declared capacity is impossible given the protocol
// above, so hitting this is a programming error in this package, not a
// caller mistake.
func assertInvariant(ok bool, msg string) {
	if !ok {
		panic("dlfu: invariant violated: " + msg)
	}
}
