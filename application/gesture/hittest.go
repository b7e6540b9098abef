package gesture

import (
	"github.com/olinekleiven/snarveg/domain/core/aggregates"
	"github.com/olinekleiven/snarveg/domain/core/valueobjects"
)

// HitTester resolves a pointer coordinate to the destination under it. The
// rendering collaborator may supply its own implementation when its node
// geometry differs from the wheel's derived layout.
type HitTester interface {
	HitTest(p valueobjects.Point) (valueobjects.DestinationID, bool)
}

// HitTesterFunc adapts a function to the HitTester interface
type HitTesterFunc func(p valueobjects.Point) (valueobjects.DestinationID, bool)

// HitTest implements HitTester
func (f HitTesterFunc) HitTest(p valueobjects.Point) (valueobjects.DestinationID, bool) {
	return f(p)
}

// wheelHitTester derives hit areas from the wheel's own geometry: the origin
// at (0, 0) and each ring destination at its polar position, each with the
// configured hit radius.
type wheelHitTester struct {
	wheel *aggregates.Wheel
}

// NewWheelHitTester returns the default geometric hit-tester for a wheel
func NewWheelHitTester(wheel *aggregates.Wheel) HitTester {
	return &wheelHitTester{wheel: wheel}
}

// HitTest returns the nearest destination within the hit radius
func (t *wheelHitTester) HitTest(p valueobjects.Point) (valueobjects.DestinationID, bool) {
	radius := t.wheel.Config().HitRadius

	var bestID valueobjects.DestinationID
	best := radius
	found := false

	for _, d := range t.wheel.Destinations() {
		center := d.Position().Point()
		if dist := center.DistanceTo(p); dist <= best {
			bestID = d.ID()
			best = dist
			found = true
		}
	}

	return bestID, found
}
