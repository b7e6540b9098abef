package handlers

import (
	"context"
	"fmt"

	"github.com/olinekleiven/snarveg/application/commands"
	"github.com/olinekleiven/snarveg/application/commands/bus"
	"github.com/olinekleiven/snarveg/application/services"
	"github.com/olinekleiven/snarveg/domain/core/aggregates"
	"github.com/olinekleiven/snarveg/domain/core/valueobjects"
)

// WheelCommandHandler executes wheel mutation commands against the user's
// session. Mutations go through the session's machine so any gesture in
// flight is aborted before the wheel changes.
type WheelCommandHandler struct {
	sessions *services.SessionService
}

// NewWheelCommandHandler creates a new handler instance
func NewWheelCommandHandler(sessions *services.SessionService) *WheelCommandHandler {
	return &WheelCommandHandler{sessions: sessions}
}

// Handle implements bus.CommandHandler
func (h *WheelCommandHandler) Handle(ctx context.Context, cmd bus.Command) error {
	switch c := cmd.(type) {
	case commands.FillDestinationCommand:
		return h.fill(ctx, c)
	case commands.UpdateDestinationCommand:
		return h.update(ctx, c)
	case commands.ClearDestinationCommand:
		return h.clear(ctx, c)
	case commands.DeleteDestinationCommand:
		return h.delete(ctx, c)
	case commands.AddPlaceholderCommand:
		return h.addPlaceholder(ctx, c)
	case commands.SwapDestinationsCommand:
		return h.swap(ctx, c)
	case commands.ClearRouteCommand:
		return h.sessions.ClearRoute(ctx, c.UserID)
	default:
		return fmt.Errorf("unexpected command type %T", cmd)
	}
}

// Register wires every wheel command onto the bus
func (h *WheelCommandHandler) Register(b *bus.CommandBus) error {
	for _, cmd := range []bus.Command{
		commands.FillDestinationCommand{},
		commands.UpdateDestinationCommand{},
		commands.ClearDestinationCommand{},
		commands.DeleteDestinationCommand{},
		commands.AddPlaceholderCommand{},
		commands.SwapDestinationsCommand{},
		commands.ClearRouteCommand{},
	} {
		if err := b.Register(cmd, h); err != nil {
			return err
		}
	}
	return nil
}

func (h *WheelCommandHandler) fill(ctx context.Context, cmd commands.FillDestinationCommand) error {
	id, err := valueobjects.NewDestinationIDFromString(cmd.DestinationID)
	if err != nil {
		return err
	}
	return h.sessions.Mutate(ctx, cmd.UserID, func(w *aggregates.Wheel) error {
		card, err := valueobjects.NewCardWithConfig(cmd.Label, cmd.Icon, cmd.Color, w.Config())
		if err != nil {
			return err
		}
		return w.FillDestination(id, card)
	})
}

func (h *WheelCommandHandler) update(ctx context.Context, cmd commands.UpdateDestinationCommand) error {
	id, err := valueobjects.NewDestinationIDFromString(cmd.DestinationID)
	if err != nil {
		return err
	}
	return h.sessions.Mutate(ctx, cmd.UserID, func(w *aggregates.Wheel) error {
		card, err := valueobjects.NewCardWithConfig(cmd.Label, cmd.Icon, cmd.Color, w.Config())
		if err != nil {
			return err
		}
		dest, err := w.Destination(id)
		if err != nil {
			return err
		}
		return dest.UpdateCard(card)
	})
}

func (h *WheelCommandHandler) clear(ctx context.Context, cmd commands.ClearDestinationCommand) error {
	id, err := valueobjects.NewDestinationIDFromString(cmd.DestinationID)
	if err != nil {
		return err
	}
	return h.sessions.Mutate(ctx, cmd.UserID, func(w *aggregates.Wheel) error {
		return w.ClearDestination(id)
	})
}

func (h *WheelCommandHandler) delete(ctx context.Context, cmd commands.DeleteDestinationCommand) error {
	id, err := valueobjects.NewDestinationIDFromString(cmd.DestinationID)
	if err != nil {
		return err
	}
	return h.sessions.Mutate(ctx, cmd.UserID, func(w *aggregates.Wheel) error {
		return w.DeleteDestination(id)
	})
}

func (h *WheelCommandHandler) addPlaceholder(ctx context.Context, cmd commands.AddPlaceholderCommand) error {
	return h.sessions.Mutate(ctx, cmd.UserID, func(w *aggregates.Wheel) error {
		_, err := w.AddPlaceholder()
		return err
	})
}

func (h *WheelCommandHandler) swap(ctx context.Context, cmd commands.SwapDestinationsCommand) error {
	first, err := valueobjects.NewDestinationIDFromString(cmd.FirstID)
	if err != nil {
		return err
	}
	second, err := valueobjects.NewDestinationIDFromString(cmd.SecondID)
	if err != nil {
		return err
	}
	return h.sessions.Mutate(ctx, cmd.UserID, func(w *aggregates.Wheel) error {
		return w.SwapDestinations(first, second)
	})
}
