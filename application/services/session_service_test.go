package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/olinekleiven/snarveg/application/gesture"
	"github.com/olinekleiven/snarveg/application/services"
	"github.com/olinekleiven/snarveg/domain/config"
	"github.com/olinekleiven/snarveg/domain/core/aggregates"
	"github.com/olinekleiven/snarveg/domain/core/valueobjects"
	"github.com/olinekleiven/snarveg/infrastructure/persistence/memory"
	pkgerrors "github.com/olinekleiven/snarveg/pkg/errors"
)

type serviceHarness struct {
	svc   *services.SessionService
	clock *gesture.ManualClock
	repo  *memory.WheelRepository
	ctx   context.Context
}

func newServiceHarness(t *testing.T) *serviceHarness {
	t.Helper()
	clock := gesture.NewManualClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	repo := memory.NewWheelRepository()
	svc := services.NewSessionService(
		repo,
		memory.NewPreferenceStore(),
		memory.NewEventPublisher(zap.NewNop()),
		nil,
		clock,
		config.DefaultDomainConfig,
		zap.NewNop(),
	)
	return &serviceHarness{svc: svc, clock: clock, repo: repo, ctx: context.Background()}
}

// fill adds labeled destinations to the user's wheel through Mutate, the same
// path the command handlers take.
func (h *serviceHarness) fill(t *testing.T, userID string, labels ...string) {
	t.Helper()
	err := h.svc.Mutate(h.ctx, userID, func(w *aggregates.Wheel) error {
		for _, label := range labels {
			var slot *valueobjects.DestinationID
			for _, d := range w.Ring() {
				if d.IsPlaceholder() {
					id := d.ID()
					slot = &id
					break
				}
			}
			if slot == nil {
				added, err := w.AddPlaceholder()
				if err != nil {
					return err
				}
				id := added.ID()
				slot = &id
			}
			card, err := valueobjects.NewCardWithConfig(label, "", "", w.Config())
			if err != nil {
				return err
			}
			if err := w.FillDestination(*slot, card); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}

// pointOf returns the screen point of the destination with the given label,
// or the wheel center for "origin".
func (h *serviceHarness) pointOf(t *testing.T, userID, label string) valueobjects.Point {
	t.Helper()
	var p valueobjects.Point
	found := label == "origin"
	require.NoError(t, h.svc.Inspect(userID, func(w *aggregates.Wheel) {
		for _, d := range w.Destinations() {
			if !d.IsPlaceholder() && !d.IsOrigin() && d.Card().Label() == label {
				p = d.Position().Point()
				found = true
			}
		}
	}))
	require.True(t, found, "no destination labeled %q", label)
	return p
}

// drag performs down at from, move to to, and lets the hover dwell elapse
func (h *serviceHarness) drag(t *testing.T, userID string, from, to valueobjects.Point) {
	t.Helper()
	require.NoError(t, h.svc.PointerDown(userID, from))
	require.NoError(t, h.svc.PointerMove(userID, to))
	h.clock.Advance(config.DefaultDomainConfig().HoverLockDuration)
}

func TestSessionService_StartAndResume(t *testing.T) {
	h := newServiceHarness(t)

	session, err := h.svc.StartSession(h.ctx, "alice", "Home", "", "")
	require.NoError(t, err)
	require.NotNil(t, session)

	// The new wheel is persisted immediately
	wheel, err := h.repo.GetByUserID(h.ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Home", wheel.Origin().Card().Label())

	// Starting again returns the same live session
	again, err := h.svc.StartSession(h.ctx, "alice", "Elsewhere", "", "")
	require.NoError(t, err)
	assert.Same(t, session, again)
	assert.Equal(t, "Home", wheel.Origin().Card().Label())
}

func TestSessionService_RequiresSession(t *testing.T) {
	h := newServiceHarness(t)

	err := h.svc.PointerDown("nobody", valueobjects.Point{})
	assert.True(t, pkgerrors.IsNotFound(err))

	_, err = h.svc.Route("nobody")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestSessionService_GestureFlowFeedsAndRoute(t *testing.T) {
	h := newServiceHarness(t)
	_, err := h.svc.StartSession(h.ctx, "alice", "Home", "", "")
	require.NoError(t, err)
	h.fill(t, "alice", "Cafe", "Museum")

	origin := h.pointOf(t, "alice", "origin")
	cafe := h.pointOf(t, "alice", "Cafe")
	museum := h.pointOf(t, "alice", "Museum")

	h.drag(t, "alice", origin, cafe)
	require.NoError(t, h.svc.PointerUp(h.ctx, "alice", cafe))
	h.drag(t, "alice", cafe, museum)
	require.NoError(t, h.svc.PointerUp(h.ctx, "alice", museum))

	session, err := h.svc.Session("alice")
	require.NoError(t, err)
	entries := session.Feed().Since(0)
	var kinds []string
	for _, e := range entries {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []string{
		services.FeedDrawStart,
		services.FeedConnectionCreate,
		services.FeedConnectionLock,
		services.FeedDrawStart,
		services.FeedConnectionCreate,
		services.FeedConnectionLock,
	}, kinds)

	route, err := h.svc.Route("alice")
	require.NoError(t, err)
	require.NotNil(t, route)
	assert.Equal(t, []string{"Home", "Cafe", "Museum"}, route.Labels)
	assert.Len(t, route.Legs, 2)

	// Sequence numbers are monotonic and Since excludes what was seen
	later := session.Feed().Since(entries[2].Seq)
	require.Len(t, later, 3)
	assert.Equal(t, services.FeedDrawStart, later[0].Kind)
}

func TestSessionService_AdvisoryOnBadStart(t *testing.T) {
	h := newServiceHarness(t)
	_, err := h.svc.StartSession(h.ctx, "alice", "Home", "", "")
	require.NoError(t, err)
	h.fill(t, "alice", "Cafe")

	// First draw must begin at the origin
	cafe := h.pointOf(t, "alice", "Cafe")
	require.NoError(t, h.svc.PointerDown("alice", cafe))
	require.NoError(t, h.svc.PointerUp(h.ctx, "alice", valueobjects.Point{X: 9999, Y: 9999}))

	session, err := h.svc.Session("alice")
	require.NoError(t, err)
	entries := session.Feed().Since(0)
	require.NotEmpty(t, entries)
	assert.Equal(t, services.FeedAdvisory, entries[0].Kind)
	assert.Equal(t, "start your route from where you are", entries[0].Message)
}

func TestSessionService_ClearRoute(t *testing.T) {
	h := newServiceHarness(t)
	_, err := h.svc.StartSession(h.ctx, "alice", "Home", "", "")
	require.NoError(t, err)
	h.fill(t, "alice", "Cafe")

	h.drag(t, "alice", h.pointOf(t, "alice", "origin"), h.pointOf(t, "alice", "Cafe"))
	require.NoError(t, h.svc.PointerUp(h.ctx, "alice", h.pointOf(t, "alice", "Cafe")))

	require.NoError(t, h.svc.ClearRoute(h.ctx, "alice"))

	route, err := h.svc.Route("alice")
	require.NoError(t, err)
	assert.Nil(t, route)

	// The cleared wheel is what the repository holds
	wheel, err := h.repo.GetByUserID(h.ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, wheel.Connections())
}

func TestSessionService_EndSessionPersistsAndResumes(t *testing.T) {
	h := newServiceHarness(t)
	_, err := h.svc.StartSession(h.ctx, "alice", "Home", "", "")
	require.NoError(t, err)
	h.fill(t, "alice", "Cafe")

	h.drag(t, "alice", h.pointOf(t, "alice", "origin"), h.pointOf(t, "alice", "Cafe"))
	require.NoError(t, h.svc.PointerUp(h.ctx, "alice", h.pointOf(t, "alice", "Cafe")))

	require.NoError(t, h.svc.EndSession(h.ctx, "alice"))
	_, err = h.svc.Session("alice")
	assert.True(t, pkgerrors.IsNotFound(err))

	// A fresh session resumes the persisted wheel, connections included
	_, err = h.svc.StartSession(h.ctx, "alice", "ignored", "", "")
	require.NoError(t, err)
	route, err := h.svc.Route("alice")
	require.NoError(t, err)
	require.NotNil(t, route)
	assert.Equal(t, []string{"Home", "Cafe"}, route.Labels)
}

func TestSessionService_MutateAbortsGesture(t *testing.T) {
	h := newServiceHarness(t)
	_, err := h.svc.StartSession(h.ctx, "alice", "Home", "", "")
	require.NoError(t, err)
	h.fill(t, "alice", "Cafe")

	require.NoError(t, h.svc.PointerDown("alice", h.pointOf(t, "alice", "origin")))
	session, err := h.svc.Session("alice")
	require.NoError(t, err)
	assert.Equal(t, gesture.StateDrawing, session.Machine().State())

	require.NoError(t, h.svc.Mutate(h.ctx, "alice", func(w *aggregates.Wheel) error {
		_, err := w.AddPlaceholder()
		return err
	}))
	assert.Equal(t, gesture.StateIdle, session.Machine().State())
}

func TestSessionService_Preferences(t *testing.T) {
	h := newServiceHarness(t)

	prefs, err := h.svc.Preferences(h.ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, prefs.PreferredMode)

	prefs.PreferredMode = "train"
	prefs.LeftHanded = true
	require.NoError(t, h.svc.SetPreferences(h.ctx, "alice", prefs))

	got, err := h.svc.Preferences(h.ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, prefs, got)
}
