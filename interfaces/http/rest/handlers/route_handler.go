package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/olinekleiven/snarveg/application/commands"
	commandbus "github.com/olinekleiven/snarveg/application/commands/bus"
	"github.com/olinekleiven/snarveg/application/queries"
	querybus "github.com/olinekleiven/snarveg/application/queries/bus"
	"github.com/olinekleiven/snarveg/pkg/common"
)

// RouteHandler serves the linearized route endpoints
type RouteHandler struct {
	commandBus *commandbus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewRouteHandler creates a new handler instance
func NewRouteHandler(commandBus *commandbus.CommandBus, queryBus *querybus.QueryBus, logger *zap.Logger) *RouteHandler {
	return &RouteHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// GetRoute linearizes the caller's current connection set
func (h *RouteHandler) GetRoute(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	view, err := h.queryBus.Ask(r.Context(), queries.GetRouteQuery{UserID: uid})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, view)
}

// ClearRoute discards the caller's connection set
func (h *RouteHandler) ClearRoute(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	if err := h.commandBus.Send(r.Context(), commands.ClearRouteCommand{UserID: uid}); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
