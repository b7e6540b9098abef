package aggregates_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olinekleiven/snarveg/domain/config"
	"github.com/olinekleiven/snarveg/domain/core/aggregates"
	"github.com/olinekleiven/snarveg/domain/core/entities"
	"github.com/olinekleiven/snarveg/domain/core/valueobjects"
)

// buildChain wires origin -> labels[0] -> labels[1] -> ... on a fresh wheel
func buildChain(t *testing.T, labels ...string) (*aggregates.Wheel, map[string]valueobjects.DestinationID) {
	t.Helper()
	w, ids := newWheel(t, labels...)
	prev := ids["origin"]
	for _, label := range labels {
		_, err := w.Connect(prev, ids[label])
		require.NoError(t, err)
		prev = ids[label]
	}
	return w, ids
}

func TestLinearize_EmptyAndSingle(t *testing.T) {
	w, ids := newWheel(t, "A")

	assert.Nil(t, w.Linearize(), "no connections, no route")

	// One leg is the minimum route
	_, err := w.Connect(ids["origin"], ids["A"])
	require.NoError(t, err)
	route := w.Linearize()
	require.NotNil(t, route)
	assert.Equal(t, 1, route.LegCount())
	assert.Equal(t, []string{"Home", "A"}, route.Labels)
}

func TestLinearize_OrderedWalk(t *testing.T) {
	w, ids := buildChain(t, "Cafe", "Museum", "Harbor")

	route := w.Linearize()
	require.NotNil(t, route)

	want := []valueobjects.DestinationID{ids["origin"], ids["Cafe"], ids["Museum"], ids["Harbor"]}
	require.Len(t, route.Stops, len(want))
	for i, id := range want {
		assert.True(t, id.Equals(route.Stops[i]), "stop %d out of order", i)
	}
	assert.Equal(t, []string{"Home", "Cafe", "Museum", "Harbor"}, route.Labels)
	assert.Len(t, route.Legs, 3)
}

func TestLinearize_Deterministic(t *testing.T) {
	w, _ := buildChain(t, "Cafe", "Museum", "Harbor")

	first := w.Linearize()
	require.NotNil(t, first)
	for i := 0; i < 10; i++ {
		again := w.Linearize()
		require.NotNil(t, again)
		assert.Equal(t, first.Labels, again.Labels)
		assert.Equal(t, first.Duration, again.Duration)
		assert.Equal(t, first.DistanceKm, again.DistanceKm)
	}
}

func TestLinearize_AggregatesAreFunctionOfLegCount(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	w, _ := buildChain(t, "Cafe", "Museum")

	route := w.Linearize()
	require.NotNil(t, route)
	require.Equal(t, 2, route.LegCount())

	assert.Equal(t, cfg.RouteBaseDuration+2*cfg.RoutePerLegDuration, route.Duration)
	assert.InDelta(t, cfg.RouteBaseDistanceKm+2*cfg.RoutePerLegDistKm, route.DistanceKm, 1e-9)
}

// direct Linearize calls exercise the malformed inputs the wheel itself can
// never produce

func testDest(t *testing.T, label string) *entities.Destination {
	t.Helper()
	d, err := entities.ReconstructDestination(
		valueobjects.NewDestinationID(),
		entities.KindFilled,
		mustCard(t, label),
		valueobjects.NewWheelPosition(0, 120),
		time.Now(), time.Now(),
	)
	require.NoError(t, err)
	return d
}

func TestLinearize_SkipsUnknownEndpoints(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	a, b := testDest(t, "A"), testDest(t, "B")
	dests := map[valueobjects.DestinationID]*entities.Destination{
		a.ID(): a,
		b.ID(): b,
	}

	ghost := valueobjects.NewDestinationID()
	conns := []*aggregates.Connection{
		{From: a.ID(), To: ghost, Mode: aggregates.ModeWalk},
		{From: a.ID(), To: b.ID(), Mode: aggregates.ModeBus},
	}

	route := aggregates.Linearize(conns, dests, cfg)
	require.NotNil(t, route)
	assert.Equal(t, []string{"A", "B"}, route.Labels)

	// Only ghost edges: nothing linearizable
	assert.Nil(t, aggregates.Linearize(
		[]*aggregates.Connection{{From: ghost, To: valueobjects.NewDestinationID()}},
		dests, cfg,
	))
}

func TestLinearize_FallbackStartOnCycle(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	a, b := testDest(t, "A"), testDest(t, "B")
	dests := map[valueobjects.DestinationID]*entities.Destination{
		a.ID(): a,
		b.ID(): b,
	}

	// A cycle has no in-degree-zero stop; the walk starts at the first
	// connection's From and stops before revisiting
	conns := []*aggregates.Connection{
		{From: a.ID(), To: b.ID(), Mode: aggregates.ModeWalk},
		{From: b.ID(), To: a.ID(), Mode: aggregates.ModeBus},
	}

	route := aggregates.Linearize(conns, dests, cfg)
	require.NotNil(t, route)
	assert.Equal(t, []string{"A", "B"}, route.Labels)
	assert.Equal(t, 1, route.LegCount())
}
