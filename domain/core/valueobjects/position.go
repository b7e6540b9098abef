package valueobjects

import "math"

// WheelPosition describes where a destination sits on the wheel relative to
// the origin. Angle is in degrees, measured clockwise from 12 o'clock, and is
// always derived from ring order rather than stored as independent truth.
type WheelPosition struct {
	angleDeg float64
	radius   float64
}

// NewWheelPosition creates a wheel position
func NewWheelPosition(angleDeg, radius float64) WheelPosition {
	// Normalize into [0, 360)
	angleDeg = math.Mod(angleDeg, 360)
	if angleDeg < 0 {
		angleDeg += 360
	}
	return WheelPosition{angleDeg: angleDeg, radius: radius}
}

// AngleDeg returns the angle in degrees
func (p WheelPosition) AngleDeg() float64 {
	return p.angleDeg
}

// Radius returns the distance from the origin
func (p WheelPosition) Radius() float64 {
	return p.radius
}

// Point converts the polar position into cartesian coordinates with the
// origin node at (0, 0) and 0° pointing straight up.
func (p WheelPosition) Point() Point {
	rad := (p.angleDeg - 90) * math.Pi / 180
	return Point{
		X: p.radius * math.Cos(rad),
		Y: p.radius * math.Sin(rad),
	}
}

// Equals checks if two positions are equal
func (p WheelPosition) Equals(other WheelPosition) bool {
	return p.angleDeg == other.angleDeg && p.radius == other.radius
}

// Point is a cartesian coordinate in the interaction surface, in the same
// length units the rendering layer reports pointer events in.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceTo returns the euclidean distance to another point
func (p Point) DistanceTo(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}
