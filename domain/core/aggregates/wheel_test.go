package aggregates_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olinekleiven/snarveg/domain/config"
	"github.com/olinekleiven/snarveg/domain/core/aggregates"
	"github.com/olinekleiven/snarveg/domain/core/valueobjects"
	pkgerrors "github.com/olinekleiven/snarveg/pkg/errors"
)

func mustCard(t *testing.T, label string) valueobjects.Card {
	t.Helper()
	card, err := valueobjects.NewCard(label, "pin", "#10B981")
	require.NoError(t, err)
	return card
}

// newWheel creates a wheel whose first len(labels) slots are filled
func newWheel(t *testing.T, labels ...string) (*aggregates.Wheel, map[string]valueobjects.DestinationID) {
	t.Helper()

	w, err := aggregates.NewWheel("user-1", mustCard(t, "Home"), config.DefaultDomainConfig())
	require.NoError(t, err)

	ids := map[string]valueobjects.DestinationID{"origin": w.Origin().ID()}
	for _, label := range labels {
		var slot valueobjects.DestinationID
		for _, d := range w.Ring() {
			if d.IsPlaceholder() {
				slot = d.ID()
				break
			}
		}
		if slot.IsZero() {
			p, err := w.AddPlaceholder()
			require.NoError(t, err)
			slot = p.ID()
		}
		require.NoError(t, w.FillDestination(slot, mustCard(t, label)))
		ids[label] = slot
	}
	return w, ids
}

func TestNewWheel(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	w, err := aggregates.NewWheel("user-1", mustCard(t, "Home"), cfg)
	require.NoError(t, err)

	assert.True(t, w.Origin().IsOrigin())
	assert.Len(t, w.Ring(), cfg.InitialPlaceholders)
	assert.Empty(t, w.Connections())
	assert.False(t, w.OriginEverConnected())

	events := w.GetUncommittedEvents()
	require.NotEmpty(t, events)
	assert.Equal(t, "wheel.created", events[0].GetEventType())

	_, err = aggregates.NewWheel("", mustCard(t, "Home"), cfg)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestWheel_AnglesDerivedFromRingOrder(t *testing.T) {
	w, _ := newWheel(t, "A", "B")

	ring := w.Ring()
	require.Len(t, ring, 3) // A, B and the auto-appended placeholder
	step := 360.0 / 3
	for i, d := range ring {
		assert.InDelta(t, step*float64(i), d.Position().AngleDeg(), 1e-9)
		assert.Equal(t, w.Config().WheelRadius, d.Position().Radius())
	}
	// The origin stays at the center
	assert.Equal(t, 0.0, w.Origin().Position().Radius())
}

func TestWheel_FillKeepsOnePlaceholderUntilFull(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	w, _ := newWheel(t)

	fillOne := func() {
		var slot valueobjects.DestinationID
		for _, d := range w.Ring() {
			if d.IsPlaceholder() {
				slot = d.ID()
				break
			}
		}
		require.False(t, slot.IsZero(), "a placeholder should exist below the maximum")
		require.NoError(t, w.FillDestination(slot, mustCard(t, "Stop")))
	}

	for i := 0; i < cfg.MaxDestinations-1; i++ {
		fillOne()
	}

	// Below the maximum an extra slot may still be added by hand
	extra, err := w.AddPlaceholder()
	require.NoError(t, err)

	// The last fill reaches the maximum through the auto-kept slot; the
	// hand-added one survives but can no longer be filled
	fillOne()
	err = w.FillDestination(extra.ID(), mustCard(t, "Overflow"))
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Contains(t, err.Error(), "the wheel is full")

	_, err = w.AddPlaceholder()
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Contains(t, err.Error(), "the wheel is full")

	d, err := w.Destination(extra.ID())
	require.NoError(t, err)
	assert.True(t, d.IsPlaceholder(), "a rejected fill must not consume the slot")
}

func TestWheel_FillOriginRejected(t *testing.T) {
	w, ids := newWheel(t)
	err := w.FillDestination(ids["origin"], mustCard(t, "Elsewhere"))
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestWheel_ConnectChainPolicy(t *testing.T) {
	w, ids := newWheel(t, "A", "B", "C")

	// Self-loop
	_, err := w.Connect(ids["A"], ids["A"])
	assert.True(t, pkgerrors.IsValidation(err))

	// Placeholder endpoint
	var empty valueobjects.DestinationID
	for _, d := range w.Ring() {
		if d.IsPlaceholder() {
			empty = d.ID()
		}
	}
	_, err = w.Connect(ids["A"], empty)
	assert.True(t, pkgerrors.IsValidation(err))

	// Build origin -> A -> B
	_, err = w.Connect(ids["origin"], ids["A"])
	require.NoError(t, err)
	_, err = w.Connect(ids["A"], ids["B"])
	require.NoError(t, err)

	// Duplicate in either direction
	_, err = w.Connect(ids["origin"], ids["A"])
	assert.True(t, pkgerrors.IsConflict(err))
	_, err = w.Connect(ids["A"], ids["origin"])
	assert.True(t, pkgerrors.IsConflict(err))

	// A already continues onward
	_, err = w.Connect(ids["A"], ids["C"])
	assert.True(t, pkgerrors.IsConflict(err))

	assert.Len(t, w.Connections(), 2)
	assert.NoError(t, w.Validate())
}

func TestWheel_OriginEverConnectedSurvivesRemoval(t *testing.T) {
	w, ids := newWheel(t, "A", "B")

	_, err := w.Connect(ids["origin"], ids["A"])
	require.NoError(t, err)
	assert.True(t, w.OriginEverConnected())

	// Deleting A removes the connection but not the origin's history
	require.NoError(t, w.DeleteDestination(ids["A"]))
	assert.Empty(t, w.Connections())
	assert.True(t, w.OriginEverConnected())

	_, err = w.Connect(ids["origin"], ids["B"])
	assert.True(t, pkgerrors.IsConflict(err))

	// Only clearing the route re-arms the origin
	w.ClearConnections()
	assert.False(t, w.OriginEverConnected())
	_, err = w.Connect(ids["origin"], ids["B"])
	assert.NoError(t, err)
}

func TestWheel_CanStartDrawing(t *testing.T) {
	w, ids := newWheel(t, "A", "B")

	// Empty set: only the origin may start
	assert.NoError(t, w.CanStartDrawing(ids["origin"]))
	err := w.CanStartDrawing(ids["A"])
	require.Error(t, err)
	assert.Equal(t, "start your route from where you are", pkgerrors.GetAppError(err).Message)

	_, err = w.Connect(ids["origin"], ids["A"])
	require.NoError(t, err)

	// A was reached and has no outgoing leg: it may continue the chain
	assert.NoError(t, w.CanStartDrawing(ids["A"]))
	// B was never reached
	err = w.CanStartDrawing(ids["B"])
	assert.Equal(t, "connect this stop to your route first", pkgerrors.GetAppError(err).Message)
	// The origin already seeded the chain
	err = w.CanStartDrawing(ids["origin"])
	assert.Equal(t, "your route already starts here", pkgerrors.GetAppError(err).Message)
}

func TestWheel_LockConnection(t *testing.T) {
	w, ids := newWheel(t, "A")

	conn, err := w.Connect(ids["origin"], ids["A"])
	require.NoError(t, err)
	assert.False(t, conn.Locked)

	require.NoError(t, w.LockConnection(ids["origin"], ids["A"]))
	assert.True(t, w.Connections()[0].Locked)

	// Idempotent
	require.NoError(t, w.LockConnection(ids["origin"], ids["A"]))

	err = w.LockConnection(ids["A"], ids["origin"])
	assert.True(t, pkgerrors.IsNotFound(err), "direction matters for locking")
}

func TestWheel_ClearDestinationDropsIncidentConnections(t *testing.T) {
	w, ids := newWheel(t, "A", "B")

	_, err := w.Connect(ids["origin"], ids["A"])
	require.NoError(t, err)
	_, err = w.Connect(ids["A"], ids["B"])
	require.NoError(t, err)

	require.NoError(t, w.ClearDestination(ids["A"]))

	d, err := w.Destination(ids["A"])
	require.NoError(t, err)
	assert.True(t, d.IsPlaceholder())
	assert.Empty(t, w.Connections(), "both legs touched A")
	assert.NoError(t, w.Validate())
}

func TestWheel_DeleteDestination(t *testing.T) {
	w, ids := newWheel(t, "A", "B")

	// Unknown id is a no-op
	assert.NoError(t, w.DeleteDestination(valueobjects.NewDestinationID()))

	// Origin and placeholders are protected
	assert.True(t, pkgerrors.IsValidation(w.DeleteDestination(ids["origin"])))
	var empty valueobjects.DestinationID
	for _, d := range w.Ring() {
		if d.IsPlaceholder() {
			empty = d.ID()
		}
	}
	assert.True(t, pkgerrors.IsValidation(w.DeleteDestination(empty)))

	before := len(w.Ring())
	require.NoError(t, w.DeleteDestination(ids["A"]))
	_, err := w.Destination(ids["A"])
	assert.True(t, pkgerrors.IsNotFound(err))
	// The slot is gone; the existing placeholder already keeps the wheel open,
	// so no new one is appended
	assert.Equal(t, before-1, len(w.Ring()))
	var placeholders int
	for _, d := range w.Ring() {
		if d.IsPlaceholder() {
			placeholders++
		}
	}
	assert.Equal(t, 1, placeholders)
}

func TestWheel_SwapDestinations(t *testing.T) {
	w, ids := newWheel(t, "A", "B")

	assert.True(t, pkgerrors.IsValidation(w.SwapDestinations(ids["A"], ids["A"])))
	assert.True(t, pkgerrors.IsNotFound(w.SwapDestinations(ids["A"], valueobjects.NewDestinationID())))

	var empty valueobjects.DestinationID
	for _, d := range w.Ring() {
		if d.IsPlaceholder() {
			empty = d.ID()
		}
	}
	assert.True(t, pkgerrors.IsValidation(w.SwapDestinations(ids["A"], empty)))

	require.NoError(t, w.SwapDestinations(ids["A"], ids["B"]))
	ring := w.Ring()
	assert.True(t, ring[0].ID().Equals(ids["B"]))
	assert.True(t, ring[1].ID().Equals(ids["A"]))

	// Angles follow the new order
	assert.InDelta(t, 0.0, ring[0].Position().AngleDeg(), 1e-9)
	assert.InDelta(t, 120.0, ring[1].Position().AngleDeg(), 1e-9)
}

func TestWheel_TransportModesCycle(t *testing.T) {
	w, ids := newWheel(t, "A", "B", "C", "D", "E")

	chain := []string{"origin", "A", "B", "C", "D", "E"}
	for i := 0; i < len(chain)-1; i++ {
		_, err := w.Connect(ids[chain[i]], ids[chain[i+1]])
		require.NoError(t, err)
	}

	want := []aggregates.TransportMode{
		aggregates.ModeWalk, aggregates.ModeBus, aggregates.ModeTrain,
		aggregates.ModeFerry, aggregates.ModeWalk,
	}
	conns := w.Connections()
	require.Len(t, conns, len(want))
	for i, c := range conns {
		assert.Equal(t, want[i], c.Mode)
	}
}
