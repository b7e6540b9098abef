package config

import "time"

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Wheel constraints
	MaxDestinations     int
	InitialPlaceholders int
	WheelRadius         float64

	// Gesture tuning
	HitRadius           float64
	HoverLockDuration   time.Duration
	LockConfirmDuration time.Duration
	LongPressDuration   time.Duration
	JitterThreshold     float64

	// Route synthesis constants. Aggregate duration and distance are a pure
	// function of leg count so repeated linearization stays reproducible.
	RouteBaseDuration   time.Duration
	RoutePerLegDuration time.Duration
	RouteBaseDistanceKm float64
	RoutePerLegDistKm   float64

	// Card constraints
	MinLabelLength int
	MaxLabelLength int
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		// Wheel constraints
		MaxDestinations:     6,
		InitialPlaceholders: 2,
		WheelRadius:         120,

		// Gesture tuning
		HitRadius:           36,
		HoverLockDuration:   time.Second,
		LockConfirmDuration: time.Second,
		LongPressDuration:   700 * time.Millisecond,
		JitterThreshold:     8,

		// Route synthesis
		RouteBaseDuration:   15 * time.Minute,
		RoutePerLegDuration: 25 * time.Minute,
		RouteBaseDistanceKm: 2.5,
		RoutePerLegDistKm:   8.0,

		// Card constraints
		MinLabelLength: 1,
		MaxLabelLength: 60,
	}
}
