package handlers

import (
	"context"
	"fmt"

	"github.com/olinekleiven/snarveg/application/queries"
	"github.com/olinekleiven/snarveg/application/queries/bus"
	"github.com/olinekleiven/snarveg/application/services"
	"github.com/olinekleiven/snarveg/domain/core/aggregates"
)

// WheelQueryHandler serves wheel snapshots, routes and the outbound feed
type WheelQueryHandler struct {
	sessions *services.SessionService
}

// NewWheelQueryHandler creates a new handler instance
func NewWheelQueryHandler(sessions *services.SessionService) *WheelQueryHandler {
	return &WheelQueryHandler{sessions: sessions}
}

// Handle implements bus.QueryHandler
func (h *WheelQueryHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	switch q := query.(type) {
	case queries.GetWheelQuery:
		return h.wheel(q)
	case queries.GetRouteQuery:
		return h.route(q)
	case queries.GetFeedQuery:
		return h.feed(q)
	default:
		return nil, fmt.Errorf("unexpected query type %T", query)
	}
}

// Register wires every wheel query onto the bus
func (h *WheelQueryHandler) Register(b *bus.QueryBus) error {
	for _, q := range []bus.Query{
		queries.GetWheelQuery{},
		queries.GetRouteQuery{},
		queries.GetFeedQuery{},
	} {
		if err := b.Register(q, h); err != nil {
			return err
		}
	}
	return nil
}

func (h *WheelQueryHandler) wheel(q queries.GetWheelQuery) (*queries.WheelView, error) {
	session, err := h.sessions.Session(q.UserID)
	if err != nil {
		return nil, err
	}

	view := &queries.WheelView{UserID: q.UserID}
	session.Machine().Inspect(func(w *aggregates.Wheel) {
		view.WheelID = w.ID().String()
		view.Version = w.Version()
		view.UpdatedAt = w.UpdatedAt()

		for _, d := range w.Destinations() {
			pos := d.Position()
			pt := pos.Point()
			view.Destinations = append(view.Destinations, queries.DestinationView{
				ID:       d.ID().String(),
				Kind:     string(d.Kind()),
				Label:    d.Card().Label(),
				Icon:     d.Card().Icon(),
				Color:    d.Card().Color(),
				AngleDeg: pos.AngleDeg(),
				Radius:   pos.Radius(),
				X:        pt.X,
				Y:        pt.Y,
			})
		}
		for _, c := range w.Connections() {
			view.Connections = append(view.Connections, queries.ConnectionView{
				ID:        c.ID,
				From:      c.From.String(),
				To:        c.To.String(),
				Locked:    c.Locked,
				Mode:      string(c.Mode),
				CreatedAt: c.CreatedAt,
			})
		}
	})
	view.GestureState = string(session.Machine().State())
	view.EditMode = session.Machine().EditMode()
	view.LockProgress = session.Machine().LockProgress()

	return view, nil
}

func (h *WheelQueryHandler) route(q queries.GetRouteQuery) (*queries.RouteView, error) {
	route, err := h.sessions.Route(q.UserID)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return &queries.RouteView{Empty: true}, nil
	}

	view := &queries.RouteView{
		Labels:          route.Labels,
		DurationMinutes: int(route.Duration.Minutes()),
		DistanceKm:      route.DistanceKm,
	}
	for _, id := range route.Stops {
		view.Stops = append(view.Stops, id.String())
	}
	for _, mode := range route.Legs {
		view.Legs = append(view.Legs, string(mode))
	}
	return view, nil
}

func (h *WheelQueryHandler) feed(q queries.GetFeedQuery) ([]services.FeedEntry, error) {
	session, err := h.sessions.Session(q.UserID)
	if err != nil {
		return nil, err
	}
	entries := session.Feed().Since(q.Since)
	if entries == nil {
		entries = []services.FeedEntry{}
	}
	return entries, nil
}
