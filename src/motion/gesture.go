package motion

import "fmt"

// GestureContext converts a raw gesture distance signal into a travel
// direction with slop-based hysteresis. The direction only flips after the
// input has travelled DirectionChangeSlop against the current direction,
// measured from the furthest point reached in that direction rather than
// from the previous sample. This rejects sample noise near turnarounds.
//
// A GestureContext is long-lived and owned by the input layer; the Runtime
// only reads it. All mutation happens synchronously through SetDistance,
// SetDirectionChangeSlop and Reset.
type GestureContext struct {
	// Distance is the most recent raw distance sample.
	Distance float64
	// FurthestDistance is the extreme distance reached since the last
	// direction change (high-water mark for DirectionMax, low-water mark
	// for DirectionMin).
	FurthestDistance float64
	// Direction is the current hysteresis-filtered travel direction.
	Direction Direction

	directionChangeSlop float64
}

// NewGestureContext creates a gesture context starting at the given distance
// and direction. Panics if directionChangeSlop is not positive.
func NewGestureContext(distance float64, direction Direction, directionChangeSlop float64) *GestureContext {
	checkSlop(directionChangeSlop)
	return &GestureContext{
		Distance:            distance,
		FurthestDistance:    distance,
		Direction:           direction,
		directionChangeSlop: directionChangeSlop,
	}
}

func checkSlop(slop float64) {
	if slop <= 0 {
		panic(fmt.Sprintf("motion: directionChangeSlop must be positive, got %v", slop))
	}
}

// DirectionChangeSlop returns the minimum opposite-direction travel required
// before a direction flip is recognized.
func (g *GestureContext) DirectionChangeSlop() float64 {
	return g.directionChangeSlop
}

// SetDistance records a new distance sample and re-evaluates the direction.
// Travelling with the current direction advances FurthestDistance; travelling
// against it flips the direction only once the distance falls more than the
// slop behind the furthest point, at which point the furthest point resets to
// the new sample.
func (g *GestureContext) SetDistance(value float64) {
	g.Distance = value
	g.evaluateDirection()
}

// SetDirectionChangeSlop changes the slop and immediately re-evaluates the
// flip rule against the current distance, without waiting for a new sample.
// Panics if value is not positive.
func (g *GestureContext) SetDirectionChangeSlop(value float64) {
	checkSlop(value)
	g.directionChangeSlop = value
	g.evaluateDirection()
}

// Reset hard-sets distance and direction and clears the hysteresis history:
// FurthestDistance becomes the given distance.
func (g *GestureContext) Reset(distance float64, direction Direction) {
	g.Distance = distance
	g.FurthestDistance = distance
	g.Direction = direction
}

func (g *GestureContext) evaluateDirection() {
	switch g.Direction {
	case DirectionMax:
		if g.FurthestDistance-g.Distance > g.directionChangeSlop {
			g.Direction = DirectionMin
			g.FurthestDistance = g.Distance
		} else {
			g.FurthestDistance = max(g.FurthestDistance, g.Distance)
		}
	case DirectionMin:
		if g.Distance-g.FurthestDistance > g.directionChangeSlop {
			g.Direction = DirectionMax
			g.FurthestDistance = g.Distance
		} else {
			g.FurthestDistance = min(g.FurthestDistance, g.Distance)
		}
	}
}
