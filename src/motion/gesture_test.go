package motion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGestureContext_HysteresisFlipRule(t *testing.T) {
	t.Run("drop within slop keeps direction", func(t *testing.T) {
		g := NewGestureContext(0, DirectionMax, 5)

		// Exactly slop behind the high-water mark is still not a flip.
		g.SetDistance(-5)
		assert.Equal(t, DirectionMax, g.Direction)
		assert.Equal(t, 0.0, g.FurthestDistance)
	})

	t.Run("drop past slop flips to min", func(t *testing.T) {
		g := NewGestureContext(0, DirectionMax, 5)

		g.SetDistance(-5.01)
		assert.Equal(t, DirectionMin, g.Direction)
		// History resets to the flip point.
		assert.Equal(t, -5.01, g.FurthestDistance)
	})

	t.Run("slop measured from furthest point not last sample", func(t *testing.T) {
		g := NewGestureContext(0, DirectionMax, 5)

		// Climb to 20, then decay in small steps. No single step exceeds
		// the slop but the cumulative drop from the high-water mark does.
		g.SetDistance(20)
		for _, d := range []float64{18, 17, 16} {
			g.SetDistance(d)
			assert.Equal(t, DirectionMax, g.Direction, "at distance %v", d)
		}
		g.SetDistance(14.5)
		assert.Equal(t, DirectionMin, g.Direction)
	})

	t.Run("symmetric rule for min direction", func(t *testing.T) {
		g := NewGestureContext(0, DirectionMin, 5)

		g.SetDistance(-10)
		assert.Equal(t, DirectionMin, g.Direction)
		assert.Equal(t, -10.0, g.FurthestDistance)

		// Rise of exactly slop: no flip.
		g.SetDistance(-5)
		assert.Equal(t, DirectionMin, g.Direction)

		g.SetDistance(-4.9)
		assert.Equal(t, DirectionMax, g.Direction)
		assert.Equal(t, -4.9, g.FurthestDistance)
	})

	t.Run("noisy decreasing sequence flips exactly once", func(t *testing.T) {
		g := NewGestureContext(0, DirectionMax, 5)

		distances := []float64{2, 1, 3, 0, 2, -1, 1, -2, 0}
		for _, d := range distances {
			g.SetDistance(d)
			assert.Equal(t, DirectionMax, g.Direction, "at distance %v", d)
		}
		// High-water mark is 3; flip requires dropping below -2.
		g.SetDistance(-2.5)
		assert.Equal(t, DirectionMin, g.Direction)
	})
}

func TestGestureContext_SetDirectionChangeSlop(t *testing.T) {
	t.Run("tightening slop re-evaluates immediately", func(t *testing.T) {
		g := NewGestureContext(0, DirectionMax, 5)

		// A drop of 3 sits inside the old slop.
		g.SetDistance(-3)
		assert.Equal(t, DirectionMax, g.Direction)

		// Tightening below the current drop flips without a new sample.
		g.SetDirectionChangeSlop(2)
		assert.Equal(t, DirectionMin, g.Direction)
		assert.Equal(t, -3.0, g.FurthestDistance)
	})

	t.Run("loosening slop never flips", func(t *testing.T) {
		g := NewGestureContext(0, DirectionMax, 5)
		g.SetDistance(-3)

		g.SetDirectionChangeSlop(50)
		assert.Equal(t, DirectionMax, g.Direction)
	})
}

func TestGestureContext_Reset(t *testing.T) {
	g := NewGestureContext(0, DirectionMax, 5)
	g.SetDistance(20)

	g.Reset(100, DirectionMin)
	assert.Equal(t, 100.0, g.Distance)
	assert.Equal(t, 100.0, g.FurthestDistance)
	assert.Equal(t, DirectionMin, g.Direction)

	// History is cleared: one step smaller than the slop in either
	// direction must not flip.
	g.SetDistance(104)
	assert.Equal(t, DirectionMin, g.Direction)

	g.Reset(100, DirectionMax)
	g.SetDistance(96)
	assert.Equal(t, DirectionMax, g.Direction)
}

func TestGestureContext_SlopPrecondition(t *testing.T) {
	assert.Panics(t, func() { NewGestureContext(0, DirectionMax, 0) })
	assert.Panics(t, func() { NewGestureContext(0, DirectionMax, -1) })

	g := NewGestureContext(0, DirectionMax, 5)
	assert.Panics(t, func() { g.SetDirectionChangeSlop(0) })
	assert.Panics(t, func() { g.SetDirectionChangeSlop(-0.5) })
	// Failed mutation leaves the slop untouched.
	assert.Equal(t, 5.0, g.DirectionChangeSlop())
}
