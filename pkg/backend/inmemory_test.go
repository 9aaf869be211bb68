package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/longbridgeapp/assert"

	"github.com/hyp3rd/sigma/pkg/parser"
	"github.com/hyp3rd/sigma/pkg/statistics"
	"github.com/hyp3rd/sigma/sentinel"
)

func mustCompute(t *testing.T, xs ...int64) *statistics.Result {
	t.Helper()

	res, err := statistics.Compute(xs)
	assert.Nil(t, err)

	return res
}

func TestInMemory_SetGet(t *testing.T) {
	ctx := context.Background()

	b, err := NewInMemory(WithCapacity[InMemory](2))
	assert.Nil(t, err)
	assert.Equal(t, 2, b.Capacity())

	_, ok := b.Get(ctx, "missing")
	assert.False(t, ok)

	res := mustCompute(t, 1, 2, 3)
	assert.Nil(t, b.Set(ctx, "a", res))

	got, ok := b.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, res, got)
	assert.Equal(t, 1, b.Count(ctx))

	err = b.Set(ctx, "", res)
	assert.True(t, errors.Is(err, sentinel.ErrParamCannotBeEmpty))
}

func TestInMemory_ResultsAreCopied(t *testing.T) {
	ctx := context.Background()

	b, err := NewInMemory()
	assert.Nil(t, err)

	res := mustCompute(t, 1, 2, 3)
	assert.Nil(t, b.Set(ctx, "a", res))

	// mutating the stored original does not reach the backend
	res.Values[0] = 100
	res.Trace[0] = "changed"

	got, ok := b.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, []int64{1, 2, 3}, got.Values)
	assert.Equal(t, "Given n = 3", got.Trace[0])

	// neither does mutating a returned copy
	got.Values[1] = 200

	again, ok := b.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, []int64{1, 2, 3}, again.Values)
}

func TestInMemory_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()

	b, err := NewInMemory(WithCapacity[InMemory](2))
	assert.Nil(t, err)

	assert.Nil(t, b.Set(ctx, "a", mustCompute(t, 1)))
	assert.Nil(t, b.Set(ctx, "b", mustCompute(t, 2)))

	// touch "a" so "b" becomes the eviction candidate
	_, ok := b.Get(ctx, "a")
	assert.True(t, ok)

	assert.Nil(t, b.Set(ctx, "c", mustCompute(t, 3)))
	assert.Equal(t, 2, b.Count(ctx))

	_, ok = b.Get(ctx, "b")
	assert.False(t, ok)

	_, ok = b.Get(ctx, "a")
	assert.True(t, ok)

	_, ok = b.Get(ctx, "c")
	assert.True(t, ok)
}

func TestInMemory_UpdateDoesNotEvict(t *testing.T) {
	ctx := context.Background()

	b, err := NewInMemory(WithCapacity[InMemory](1))
	assert.Nil(t, err)

	assert.Nil(t, b.Set(ctx, "a", mustCompute(t, 1)))
	assert.Nil(t, b.Set(ctx, "a", mustCompute(t, 5)))

	got, ok := b.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, 5.0, got.Mean)
	assert.Equal(t, 1, b.Count(ctx))
}

func TestInMemory_RemoveAndClear(t *testing.T) {
	ctx := context.Background()

	b, err := NewInMemory()
	assert.Nil(t, err)
	assert.Equal(t, 0, b.Capacity())

	for _, k := range []string{"a", "b", "c"} {
		assert.Nil(t, b.Set(ctx, k, mustCompute(t, 1)))
	}

	assert.Nil(t, b.Remove(ctx, "b", "missing"))
	assert.Equal(t, 2, b.Count(ctx))

	assert.Nil(t, b.Clear(ctx))
	assert.Equal(t, 0, b.Count(ctx))

	assert.Nil(t, b.Set(ctx, "d", mustCompute(t, 1)))
	assert.Equal(t, 1, b.Count(ctx))
}

func TestInMemory_InvalidCapacity(t *testing.T) {
	_, err := NewInMemory(WithCapacity[InMemory](-1))
	assert.True(t, errors.Is(err, sentinel.ErrInvalidCapacity))
}

func TestKey_Canonical(t *testing.T) {
	a, err := parser.Parse("1,2 3")
	assert.Nil(t, err)

	b, err := parser.Parse(" 1  2,,3 ")
	assert.Nil(t, err)

	c, err := parser.Parse("1 23")
	assert.Nil(t, err)

	d, err := parser.Parse("12 3")
	assert.Nil(t, err)

	assert.Equal(t, Key(a), Key(b))
	assert.True(t, Key(c) != Key(d))
	assert.True(t, Key(a) != Key(c))
}
