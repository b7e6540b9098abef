package aggregates

import (
	"time"

	"github.com/olinekleiven/snarveg/domain/config"
	"github.com/olinekleiven/snarveg/domain/core/entities"
	"github.com/olinekleiven/snarveg/domain/core/valueobjects"
)

// Route is the derived, ephemeral linearization of a connection set: the
// ordered stops starting at the origin, the per-leg transport tags, and the
// synthesized aggregates. It is never persisted as authoritative state.
type Route struct {
	Stops      []valueobjects.DestinationID
	Labels     []string
	Legs       []TransportMode
	Duration   time.Duration
	DistanceKm float64
}

// LegCount returns the number of completed legs
func (r *Route) LegCount() int {
	return len(r.Legs)
}

// Linearize walks the connection set into an ordered route, or returns nil
// when no route of at least one leg exists.
//
// The start stop is the one with in-degree 0 and out-degree > 0 — the origin,
// by construction. If no stop qualifies the walk falls back to the From of
// the first connection in insertion order. Connections referencing unknown
// destinations are skipped; if skipping strands the walk, the reachable
// prefix is returned rather than an error.
//
// Duration and distance are a pure function of leg count, so linearizing the
// same connection set twice yields identical aggregates.
func Linearize(
	conns []*Connection,
	dests map[valueobjects.DestinationID]*entities.Destination,
	cfg *config.DomainConfig,
) *Route {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if len(conns) == 0 {
		return nil
	}

	// Drop connections whose endpoints are unknown
	valid := make([]*Connection, 0, len(conns))
	for _, c := range conns {
		if _, ok := dests[c.From]; !ok {
			continue
		}
		if _, ok := dests[c.To]; !ok {
			continue
		}
		valid = append(valid, c)
	}
	if len(valid) == 0 {
		return nil
	}

	inDeg := make(map[valueobjects.DestinationID]int)
	outDeg := make(map[valueobjects.DestinationID]int)
	for _, c := range valid {
		outDeg[c.From]++
		inDeg[c.To]++
	}

	// Scan in insertion order so the choice is deterministic
	var start valueobjects.DestinationID
	for _, c := range valid {
		if inDeg[c.From] == 0 && outDeg[c.From] > 0 {
			start = c.From
			break
		}
	}
	if start.IsZero() {
		start = valid[0].From
	}

	stops := []valueobjects.DestinationID{start}
	var legs []TransportMode
	visited := map[valueobjects.DestinationID]bool{start: true}

	current := start
	for {
		var next *Connection
		for _, c := range valid {
			if c.From.Equals(current) && !visited[c.To] {
				next = c
				break
			}
		}
		if next == nil {
			break
		}
		stops = append(stops, next.To)
		legs = append(legs, next.Mode)
		visited[next.To] = true
		current = next.To
	}

	// A route requires at least one completed leg
	if len(stops) < 2 {
		return nil
	}

	labels := make([]string, len(stops))
	for i, id := range stops {
		labels[i] = dests[id].Card().Label()
	}

	legCount := len(legs)
	return &Route{
		Stops:      stops,
		Labels:     labels,
		Legs:       legs,
		Duration:   cfg.RouteBaseDuration + time.Duration(legCount)*cfg.RoutePerLegDuration,
		DistanceKm: cfg.RouteBaseDistanceKm + float64(legCount)*cfg.RoutePerLegDistKm,
	}
}
