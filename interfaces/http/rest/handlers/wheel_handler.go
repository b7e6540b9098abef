package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/olinekleiven/snarveg/application/commands"
	commandbus "github.com/olinekleiven/snarveg/application/commands/bus"
	"github.com/olinekleiven/snarveg/application/ports"
	"github.com/olinekleiven/snarveg/application/queries"
	querybus "github.com/olinekleiven/snarveg/application/queries/bus"
	"github.com/olinekleiven/snarveg/application/services"
	"github.com/olinekleiven/snarveg/pkg/auth"
	"github.com/olinekleiven/snarveg/pkg/common"
	pkgerrors "github.com/olinekleiven/snarveg/pkg/errors"
)

const maxBodyBytes = 64 * 1024

// WheelHandler serves the wheel session and destination endpoints
type WheelHandler struct {
	commandBus *commandbus.CommandBus
	queryBus   *querybus.QueryBus
	sessions   *services.SessionService
	logger     *zap.Logger
}

// NewWheelHandler creates a new handler instance
func NewWheelHandler(
	commandBus *commandbus.CommandBus,
	queryBus *querybus.QueryBus,
	sessions *services.SessionService,
	logger *zap.Logger,
) *WheelHandler {
	return &WheelHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		sessions:   sessions,
		logger:     logger,
	}
}

// userID pulls the authenticated user from the request context
func userID(r *http.Request) (string, error) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		return "", pkgerrors.NewUnauthorizedError("")
	}
	return user.UserID, nil
}

type startSessionRequest struct {
	OriginLabel string `json:"origin_label"`
	OriginIcon  string `json:"origin_icon"`
	OriginColor string `json:"origin_color"`
}

// StartSession opens (or resumes) the caller's wheel session
func (h *WheelHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req startSessionRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}
	if req.OriginLabel == "" {
		req.OriginLabel = "Here"
	}

	if _, err := h.sessions.StartSession(r.Context(), uid, req.OriginLabel, req.OriginIcon, req.OriginColor); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.getWheel(w, r, uid, http.StatusCreated)
}

// EndSession closes the caller's session
func (h *WheelHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	if err := h.sessions.EndSession(r.Context(), uid); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ended"})
}

// GetWheel returns the current wheel snapshot
func (h *WheelHandler) GetWheel(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.getWheel(w, r, uid, http.StatusOK)
}

func (h *WheelHandler) getWheel(w http.ResponseWriter, r *http.Request, uid string, status int) {
	view, err := h.queryBus.Ask(r.Context(), queries.GetWheelQuery{UserID: uid})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, status, view)
}

type destinationRequest struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// FillDestination fills a placeholder slot with a card
func (h *WheelHandler) FillDestination(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req destinationRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}

	cmd := commands.FillDestinationCommand{
		UserID:        uid,
		DestinationID: chi.URLParam(r, "destinationID"),
		Label:         req.Label,
		Icon:          req.Icon,
		Color:         req.Color,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.getWheel(w, r, uid, http.StatusOK)
}

// UpdateDestination replaces the card of a filled destination
func (h *WheelHandler) UpdateDestination(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req destinationRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}

	cmd := commands.UpdateDestinationCommand{
		UserID:        uid,
		DestinationID: chi.URLParam(r, "destinationID"),
		Label:         req.Label,
		Icon:          req.Icon,
		Color:         req.Color,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.getWheel(w, r, uid, http.StatusOK)
}

// ClearDestination reverts a filled destination to a placeholder
func (h *WheelHandler) ClearDestination(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	cmd := commands.ClearDestinationCommand{
		UserID:        uid,
		DestinationID: chi.URLParam(r, "destinationID"),
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.getWheel(w, r, uid, http.StatusOK)
}

// DeleteDestination removes a filled destination from the ring
func (h *WheelHandler) DeleteDestination(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	cmd := commands.DeleteDestinationCommand{
		UserID:        uid,
		DestinationID: chi.URLParam(r, "destinationID"),
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.getWheel(w, r, uid, http.StatusOK)
}

// AddPlaceholder appends a new empty slot to the ring
func (h *WheelHandler) AddPlaceholder(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	if err := h.commandBus.Send(r.Context(), commands.AddPlaceholderCommand{UserID: uid}); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.getWheel(w, r, uid, http.StatusCreated)
}

type swapRequest struct {
	FirstID  string `json:"first_id"`
	SecondID string `json:"second_id"`
}

// SwapDestinations exchanges the ring positions of two destinations
func (h *WheelHandler) SwapDestinations(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req swapRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}

	cmd := commands.SwapDestinationsCommand{
		UserID:   uid,
		FirstID:  req.FirstID,
		SecondID: req.SecondID,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.getWheel(w, r, uid, http.StatusOK)
}

// GetPreferences returns the caller's stored preferences
func (h *WheelHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	prefs, err := h.sessions.Preferences(r.Context(), uid)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, prefs)
}

// SetPreferences stores the caller's preferences
func (h *WheelHandler) SetPreferences(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var prefs ports.Preferences
	if err := common.ParseJSONBody(r, &prefs, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}
	if err := h.sessions.SetPreferences(r.Context(), uid, prefs); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, prefs)
}
