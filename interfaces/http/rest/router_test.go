package rest_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	commandbus "github.com/olinekleiven/snarveg/application/commands/bus"
	commandhandlers "github.com/olinekleiven/snarveg/application/commands/handlers"
	"github.com/olinekleiven/snarveg/application/gesture"
	"github.com/olinekleiven/snarveg/application/queries"
	querybus "github.com/olinekleiven/snarveg/application/queries/bus"
	queryhandlers "github.com/olinekleiven/snarveg/application/queries/handlers"
	"github.com/olinekleiven/snarveg/application/services"
	domaincfg "github.com/olinekleiven/snarveg/domain/config"
	"github.com/olinekleiven/snarveg/infrastructure/config"
	"github.com/olinekleiven/snarveg/infrastructure/persistence/memory"
	"github.com/olinekleiven/snarveg/interfaces/http/rest"
	"github.com/olinekleiven/snarveg/pkg/auth"
)

type apiHarness struct {
	t      *testing.T
	server *httptest.Server
	token  string
	clock  *gesture.ManualClock
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()

	jwtConfig := auth.JWTConfig{SecretKey: "test-secret", Issuer: "snarveg"}
	validator, err := auth.NewJWTValidator(jwtConfig)
	require.NoError(t, err)
	generator, err := auth.NewJWTGenerator(jwtConfig, time.Hour)
	require.NoError(t, err)
	token, err := generator.GenerateToken("alice", "alice@example.com", nil)
	require.NoError(t, err)

	clock := gesture.NewManualClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	logger := zap.NewNop()
	sessions := services.NewSessionService(
		memory.NewWheelRepository(),
		memory.NewPreferenceStore(),
		memory.NewEventPublisher(logger),
		nil,
		clock,
		domaincfg.DefaultDomainConfig,
		logger,
	)

	cmdBus := commandbus.NewCommandBus()
	require.NoError(t, commandhandlers.NewWheelCommandHandler(sessions).Register(cmdBus))
	qryBus := querybus.NewQueryBus()
	require.NoError(t, queryhandlers.NewWheelQueryHandler(sessions).Register(qryBus))

	cfg := &config.Config{
		ServerAddress: ":0",
		Environment:   "test",
		JWTSecret:     "test-secret",
		JWTIssuer:     "snarveg",
		FeedLimit:     256,
	}
	router := rest.NewRouter(cfg, cmdBus, qryBus, sessions, validator, logger)

	server := httptest.NewServer(router.Setup())
	t.Cleanup(server.Close)

	return &apiHarness{t: t, server: server, token: token, clock: clock}
}

// apiEnvelope mirrors the success/data wrapper every handler responds with
type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func decodeData(t *testing.T, body []byte, v interface{}) {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	require.True(t, env.Success, string(body))
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func (h *apiHarness) do(method, path string, body interface{}) (int, []byte) {
	h.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, h.server.URL+path, reader)
	require.NoError(h.t, err)
	req.Header.Set("Authorization", "Bearer "+h.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.server.Client().Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	return resp.StatusCode, data
}

func (h *apiHarness) startSession() queries.WheelView {
	h.t.Helper()
	status, body := h.do(http.MethodPost, "/api/v1/session", map[string]string{"origin_label": "Home"})
	require.Equal(h.t, http.StatusCreated, status, string(body))
	var view queries.WheelView
	decodeData(h.t, body, &view)
	return view
}

// fill puts a card on the wheel's current placeholder and returns the new view
func (h *apiHarness) fill(label string) queries.WheelView {
	h.t.Helper()
	status, body := h.do(http.MethodGet, "/api/v1/wheel", nil)
	require.Equal(h.t, http.StatusOK, status, string(body))
	var view queries.WheelView
	decodeData(h.t, body, &view)

	var slot string
	for _, d := range view.Destinations {
		if d.Kind == "placeholder" {
			slot = d.ID
			break
		}
	}
	require.NotEmpty(h.t, slot, "wheel has no free slot")

	status, body = h.do(http.MethodPut, "/api/v1/wheel/destinations/"+slot, map[string]string{"label": label})
	require.Equal(h.t, http.StatusOK, status, string(body))
	decodeData(h.t, body, &view)
	return view
}

func (h *apiHarness) pointer(kind string, x, y float64) {
	h.t.Helper()
	status, body := h.do(http.MethodPost, "/api/v1/gesture/pointer", map[string]interface{}{
		"kind": kind, "x": x, "y": y,
	})
	require.Equal(h.t, http.StatusOK, status, string(body))
}

func findByLabel(view queries.WheelView, label string) (queries.DestinationView, bool) {
	for _, d := range view.Destinations {
		if d.Label == label {
			return d, true
		}
	}
	return queries.DestinationView{}, false
}

func TestAPI_RequiresAuthentication(t *testing.T) {
	h := newAPIHarness(t)

	resp, err := h.server.Client().Get(h.server.URL + "/api/v1/wheel")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Health stays open
	resp, err = h.server.Client().Get(h.server.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_SessionLifecycle(t *testing.T) {
	h := newAPIHarness(t)

	view := h.startSession()
	assert.Equal(t, "alice", view.UserID)
	assert.Equal(t, "idle", view.GestureState)
	require.Len(t, view.Destinations, 2)
	assert.Equal(t, "origin", view.Destinations[0].Kind)
	assert.Equal(t, "Home", view.Destinations[0].Label)
	assert.Equal(t, "placeholder", view.Destinations[1].Kind)

	status, body := h.do(http.MethodDelete, "/api/v1/session", nil)
	require.Equal(t, http.StatusOK, status, string(body))

	// The session is gone until reopened
	status, _ = h.do(http.MethodGet, "/api/v1/wheel", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPI_DestinationManagement(t *testing.T) {
	h := newAPIHarness(t)
	h.startSession()

	view := h.fill("Cafe")
	cafe, ok := findByLabel(view, "Cafe")
	require.True(t, ok)
	assert.Equal(t, "filled", cafe.Kind)

	// Filling keeps one spare slot available
	var placeholders int
	for _, d := range view.Destinations {
		if d.Kind == "placeholder" {
			placeholders++
		}
	}
	assert.Equal(t, 1, placeholders)

	status, body := h.do(http.MethodPatch, "/api/v1/wheel/destinations/"+cafe.ID, map[string]string{"label": "Bakery"})
	require.Equal(t, http.StatusOK, status, string(body))
	view = queries.WheelView{}
	decodeData(t, body, &view)
	_, ok = findByLabel(view, "Cafe")
	assert.False(t, ok)
	_, ok = findByLabel(view, "Bakery")
	assert.True(t, ok)

	status, body = h.do(http.MethodDelete, "/api/v1/wheel/destinations/"+cafe.ID, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	view = queries.WheelView{}
	decodeData(t, body, &view)
	_, ok = findByLabel(view, "Bakery")
	assert.False(t, ok)
}

func TestAPI_GestureToRoute(t *testing.T) {
	h := newAPIHarness(t)
	h.startSession()
	view := h.fill("Cafe")
	cafe, ok := findByLabel(view, "Cafe")
	require.True(t, ok)

	// Drag from the origin onto Cafe and dwell until the hover lock fires
	h.pointer("down", 0, 0)
	h.pointer("move", cafe.X, cafe.Y)
	h.clock.Advance(domaincfg.DefaultDomainConfig().HoverLockDuration)

	status, body := h.do(http.MethodGet, "/api/v1/wheel", nil)
	require.Equal(t, http.StatusOK, status, string(body))
	decodeData(t, body, &view)
	require.Len(t, view.Connections, 1)
	assert.True(t, view.Connections[0].Locked)
	assert.Equal(t, "walk", view.Connections[0].Mode)

	status, body = h.do(http.MethodGet, "/api/v1/route", nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var route queries.RouteView
	decodeData(t, body, &route)
	assert.False(t, route.Empty)
	assert.Equal(t, []string{"Home", "Cafe"}, route.Labels)
	assert.Equal(t, []string{"walk"}, route.Legs)

	status, body = h.do(http.MethodGet, "/api/v1/gesture/feed?since=0", nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var feed []services.FeedEntry
	decodeData(t, body, &feed)
	require.NotEmpty(t, feed)
	assert.Equal(t, services.FeedDrawStart, feed[0].Kind)
	assert.Equal(t, services.FeedConnectionLock, feed[len(feed)-1].Kind)

	// Clearing the route drops the connection set
	status, body = h.do(http.MethodDelete, "/api/v1/route", nil)
	require.Equal(t, http.StatusOK, status, string(body))
	status, body = h.do(http.MethodGet, "/api/v1/route", nil)
	require.Equal(t, http.StatusOK, status, string(body))
	route = queries.RouteView{}
	decodeData(t, body, &route)
	assert.True(t, route.Empty)
}

func TestAPI_EditMode(t *testing.T) {
	h := newAPIHarness(t)
	h.startSession()

	status, body := h.do(http.MethodPost, "/api/v1/gesture/edit-mode", map[string]bool{"enabled": true})
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = h.do(http.MethodGet, "/api/v1/wheel", nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var view queries.WheelView
	decodeData(t, body, &view)
	assert.True(t, view.EditMode)
}

func TestAPI_Preferences(t *testing.T) {
	h := newAPIHarness(t)

	status, body := h.do(http.MethodPut, "/api/v1/preferences", map[string]interface{}{
		"preferred_mode": "train",
		"left_handed":    true,
	})
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = h.do(http.MethodGet, "/api/v1/preferences", nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var prefs map[string]interface{}
	decodeData(t, body, &prefs)
	assert.Equal(t, "train", prefs["preferred_mode"])
	assert.Equal(t, true, prefs["left_handed"])
}

func TestAPI_PointerValidation(t *testing.T) {
	h := newAPIHarness(t)
	h.startSession()

	status, body := h.do(http.MethodPost, "/api/v1/gesture/pointer", map[string]interface{}{
		"kind": "wiggle", "x": 0, "y": 0,
	})
	assert.Equal(t, http.StatusBadRequest, status, string(body))
}
