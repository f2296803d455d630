package noise

import (
	"math"
	"sync"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldIsDeterministic(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	a := NewField(WithSeed(42))
	b := NewField(WithSeed(42))
	c := NewField(WithSeed(43))

	differs := false
	for i := range 64 {
		x, y, z := float64(i)*0.37, float64(i)*-0.11, float64(i)*0.05
		assert.Equal(t, a.Sample2(x, y), b.Sample2(x, y))
		assert.Equal(t, a.Sample3(x, y, z), b.Sample3(x, y, z))
		if a.Sample3(x, y, z) != c.Sample3(x, y, z) {
			differs = true
		}
	}
	assert.True(t, differs, "different seeds should produce different fields")
	assert.Equal(t, int64(42), a.Seed())
}

func TestFieldStaysInRange(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	fields := []Field{
		NewField(),
		NewField(WithSeed(7), WithFrequency(3)),
		NewField(WithSeed(7), WithOctaves(4), WithPersistence(0.6)),
	}
	for _, f := range fields {
		for i := -500; i < 500; i++ {
			v2 := f.Sample2(float64(i)*0.173, float64(i)*0.029)
			v3 := f.Sample3(float64(i)*0.173, 12.5, float64(i)*-0.31)
			require.False(t, math.IsNaN(v2))
			assert.GreaterOrEqual(t, v2, -1.0)
			assert.LessOrEqual(t, v2, 1.0)
			assert.GreaterOrEqual(t, v3, -1.0)
			assert.LessOrEqual(t, v3, 1.0)
		}
	}
}

func TestFieldIsContinuous(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	f := NewField(WithSeed(10))
	const step = 1e-4
	for i := range 1000 {
		x := float64(i) * 0.01
		assert.InDelta(t, f.Sample2(x, 0), f.Sample2(x+step, 0), 0.01)
		assert.InDelta(t, f.Sample3(x, x, x), f.Sample3(x+step, x, x), 0.01)
	}
}

func TestFieldConcurrentReads(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	f := NewField(WithSeed(3), WithOctaves(2))
	want := f.Sample3(1.5, 2.5, 3.5)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				assert.Equal(t, want, f.Sample3(1.5, 2.5, 3.5))
			}
		}()
	}
	wg.Wait()
}
