package dictpqueue_test

import (
	"testing"

	"github.com/dbaarda/dlfucache/dictpqueue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDictPQueue_SetAndGet(t *testing.T) {
	t.Parallel()

	d := dictpqueue.New[string, int](4)
	d.Set("a", 1, 5)

	v, p, ok := d.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, float64(5), p)
}

func TestDictPQueue_GetMissing(t *testing.T) {
	t.Parallel()

	d := dictpqueue.New[string, int](4)

	_, _, ok := d.Get("missing")
	assert.False(t, ok)
}

func TestDictPQueue_SetExistingUpdatesPriorityAndMoves(t *testing.T) {
	t.Parallel()

	d := dictpqueue.New[string, int](4)
	d.Set("a", 1, 1)
	d.Set("b", 2, 5)

	k, _, _ := d.PeekTop()
	require.Equal(t, "a", k)

	d.Set("a", 10, 9)

	v, p, ok := d.Get("a")
	require.True(t, ok)
	assert.Equal(t, 10, v)
	assert.Equal(t, float64(9), p)

	k, _, _ = d.PeekTop()
	assert.Equal(t, "b", k)
}

func TestDictPQueue_SetValueLeavesPriorityUntouched(t *testing.T) {
	t.Parallel()

	d := dictpqueue.New[string, int](4)
	d.Set("a", 1, 1)
	d.Set("b", 2, 5)

	ok := d.SetValue("a", 100)
	require.True(t, ok)

	v, p, _ := d.Get("a")
	assert.Equal(t, 100, v)
	assert.Equal(t, float64(1), p)

	k, _, _ := d.PeekTop()
	assert.Equal(t, "a", k)
}

func TestDictPQueue_SetPriorityLeavesValueUntouched(t *testing.T) {
	t.Parallel()

	d := dictpqueue.New[string, int](4)
	d.Set("a", 1, 1)

	ok := d.SetPriority("a", 9)
	require.True(t, ok)

	v, p, _ := d.Get("a")
	assert.Equal(t, 1, v)
	assert.Equal(t, float64(9), p)
}

func TestDictPQueue_Delete(t *testing.T) {
	t.Parallel()

	d := dictpqueue.New[string, int](4)
	d.Set("a", 1, 1)

	v, p, ok := d.Delete("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, float64(1), p)
	assert.False(t, d.Contains("a"))

	_, _, ok = d.Delete("a")
	assert.False(t, ok)
}

func TestDictPQueue_DeleteTop(t *testing.T) {
	t.Parallel()

	d := dictpqueue.New[string, int](4)
	d.Set("a", 1, 1)
	d.Set("b", 2, 5)

	k, v, p := d.DeleteTop()
	assert.Equal(t, "a", k)
	assert.Equal(t, 1, v)
	assert.Equal(t, float64(1), p)
	assert.Equal(t, 1, d.Len())
}

func TestDictPQueue_SwapTopDefault(t *testing.T) {
	t.Parallel()

	d := dictpqueue.New[string, int](4)
	d.Set("a", 1, 1)
	d.Set("b", 2, 5)

	rk, rv, rp, ok := d.Swap("c", 3, 2, nil)
	require.True(t, ok)
	assert.Equal(t, "a", rk)
	assert.Equal(t, 1, rv)
	assert.Equal(t, float64(1), rp)

	assert.True(t, d.Contains("c"))
	assert.False(t, d.Contains("a"))
	assert.Equal(t, 2, d.Len())
}

func TestDictPQueue_SwapByKey(t *testing.T) {
	t.Parallel()

	d := dictpqueue.New[string, int](4)
	d.Set("a", 1, 1)
	d.Set("b", 2, 5)

	evict := "b"
	rk, rv, rp, ok := d.Swap("c", 3, 9, &evict)
	require.True(t, ok)
	assert.Equal(t, "b", rk)
	assert.Equal(t, 2, rv)
	assert.Equal(t, float64(5), rp)

	assert.True(t, d.Contains("a"))
	assert.True(t, d.Contains("c"))
	assert.False(t, d.Contains("b"))
}

func TestDictPQueue_SwapMissingKeyFails(t *testing.T) {
	t.Parallel()

	d := dictpqueue.New[string, int](4)
	d.Set("a", 1, 1)

	missing := "nope"
	_, _, _, ok := d.Swap("c", 3, 9, &missing)
	assert.False(t, ok)
	assert.False(t, d.Contains("c"))
}

func TestDictPQueue_Scale(t *testing.T) {
	t.Parallel()

	d := dictpqueue.New[string, int](4)
	d.Set("a", 1, 2)
	d.Set("b", 2, 4)

	d.Scale(0.5)

	_, p, _ := d.Get("a")
	assert.Equal(t, float64(1), p)
	_, p, _ = d.Get("b")
	assert.Equal(t, float64(2), p)
}

func TestDictPQueue_Each(t *testing.T) {
	t.Parallel()

	d := dictpqueue.New[string, int](4)
	d.Set("a", 1, 1)
	d.Set("b", 2, 2)

	seen := map[string]int{}
	d.Each(func(key string, value int, _ float64) {
		seen[key] = value
	})

	assert.Equal(t, map[string]int{"a": 1, "b": 2}, seen)
}
