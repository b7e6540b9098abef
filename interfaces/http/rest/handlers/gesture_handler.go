package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/olinekleiven/snarveg/application/queries"
	querybus "github.com/olinekleiven/snarveg/application/queries/bus"
	"github.com/olinekleiven/snarveg/application/services"
	"github.com/olinekleiven/snarveg/domain/core/valueobjects"
	"github.com/olinekleiven/snarveg/pkg/common"
)

// GestureHandler feeds pointer events into the caller's gesture machine and
// serves the outbound command feed
type GestureHandler struct {
	sessions *services.SessionService
	queryBus *querybus.QueryBus
	logger   *zap.Logger
}

// NewGestureHandler creates a new handler instance
func NewGestureHandler(sessions *services.SessionService, queryBus *querybus.QueryBus, logger *zap.Logger) *GestureHandler {
	return &GestureHandler{
		sessions: sessions,
		queryBus: queryBus,
		logger:   logger,
	}
}

type pointerEventRequest struct {
	Kind string  `json:"kind"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// PointerEvent applies one pointer event: down, move, up or cancel
func (h *GestureHandler) PointerEvent(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req pointerEventRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}

	p := valueobjects.Point{X: req.X, Y: req.Y}
	switch req.Kind {
	case "down":
		err = h.sessions.PointerDown(uid, p)
	case "move":
		err = h.sessions.PointerMove(uid, p)
	case "up":
		err = h.sessions.PointerUp(r.Context(), uid, p)
	case "cancel":
		err = h.sessions.PointerCancel(uid)
	default:
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "kind must be one of: down, move, up, cancel")
		return
	}
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	session, err := h.sessions.Session(uid)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"state":         string(session.Machine().State()),
		"edit_mode":     session.Machine().EditMode(),
		"lock_progress": session.Machine().LockProgress(),
	})
}

type editModeRequest struct {
	Enabled bool `json:"enabled"`
}

// SetEditMode toggles edit mode for the caller's session
func (h *GestureHandler) SetEditMode(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req editModeRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}
	if err := h.sessions.SetEditMode(uid, req.Enabled); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]bool{"edit_mode": req.Enabled})
}

// GetFeed returns outbound commands newer than the since parameter
func (h *GestureHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	since, _ := strconv.ParseInt(r.URL.Query().Get("since"), 10, 64)
	entries, err := h.queryBus.Ask(r.Context(), queries.GetFeedQuery{UserID: uid, Since: since})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, entries)
}
