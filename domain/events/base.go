package events

import (
	"time"

	"github.com/olinekleiven/snarveg/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Wheel events

// WheelCreated is raised when a new wheel is created
type WheelCreated struct {
	BaseEvent
	WheelID string `json:"wheel_id"`
	UserID  string `json:"user_id"`
}

// NewWheelCreated creates a WheelCreated event
func NewWheelCreated(wheelID, userID string, timestamp time.Time) WheelCreated {
	return WheelCreated{
		BaseEvent: BaseEvent{
			AggregateID: wheelID,
			EventType:   "wheel.created",
			Timestamp:   timestamp,
			Version:     1,
		},
		WheelID: wheelID,
		UserID:  userID,
	}
}

// Destination events

// DestinationFilled is raised when a placeholder is filled in
type DestinationFilled struct {
	BaseEvent
	DestinationID valueobjects.DestinationID `json:"destination_id"`
	Label         string                     `json:"label"`
}

// NewDestinationFilled creates a DestinationFilled event
func NewDestinationFilled(wheelID string, destID valueobjects.DestinationID, label string, timestamp time.Time) DestinationFilled {
	return DestinationFilled{
		BaseEvent: BaseEvent{
			AggregateID: wheelID,
			EventType:   "destination.filled",
			Timestamp:   timestamp,
			Version:     1,
		},
		DestinationID: destID,
		Label:         label,
	}
}

// DestinationCleared is raised when a filled destination reverts to a placeholder
type DestinationCleared struct {
	BaseEvent
	DestinationID valueobjects.DestinationID `json:"destination_id"`
}

// NewDestinationCleared creates a DestinationCleared event
func NewDestinationCleared(wheelID string, destID valueobjects.DestinationID, timestamp time.Time) DestinationCleared {
	return DestinationCleared{
		BaseEvent: BaseEvent{
			AggregateID: wheelID,
			EventType:   "destination.cleared",
			Timestamp:   timestamp,
			Version:     1,
		},
		DestinationID: destID,
	}
}

// DestinationDeleted is raised when a destination is removed from the wheel
type DestinationDeleted struct {
	BaseEvent
	DestinationID valueobjects.DestinationID `json:"destination_id"`
}

// NewDestinationDeleted creates a DestinationDeleted event
func NewDestinationDeleted(wheelID string, destID valueobjects.DestinationID, timestamp time.Time) DestinationDeleted {
	return DestinationDeleted{
		BaseEvent: BaseEvent{
			AggregateID: wheelID,
			EventType:   "destination.deleted",
			Timestamp:   timestamp,
			Version:     1,
		},
		DestinationID: destID,
	}
}

// DestinationsSwapped is raised when two destinations exchange ring positions
type DestinationsSwapped struct {
	BaseEvent
	FirstID  valueobjects.DestinationID `json:"first_id"`
	SecondID valueobjects.DestinationID `json:"second_id"`
}

// NewDestinationsSwapped creates a DestinationsSwapped event
func NewDestinationsSwapped(wheelID string, firstID, secondID valueobjects.DestinationID, timestamp time.Time) DestinationsSwapped {
	return DestinationsSwapped{
		BaseEvent: BaseEvent{
			AggregateID: wheelID,
			EventType:   "destinations.swapped",
			Timestamp:   timestamp,
			Version:     1,
		},
		FirstID:  firstID,
		SecondID: secondID,
	}
}

// Connection events

// ConnectionCreated is raised when a directed connection is drawn between
// two destinations
type ConnectionCreated struct {
	BaseEvent
	FromID valueobjects.DestinationID `json:"from_id"`
	ToID   valueobjects.DestinationID `json:"to_id"`
	Mode   string                     `json:"mode"`
	Locked bool                       `json:"locked"`
}

// NewConnectionCreated creates a ConnectionCreated event
func NewConnectionCreated(wheelID string, fromID, toID valueobjects.DestinationID, mode string, locked bool, timestamp time.Time) ConnectionCreated {
	return ConnectionCreated{
		BaseEvent: BaseEvent{
			AggregateID: wheelID,
			EventType:   "connection.created",
			Timestamp:   timestamp,
			Version:     1,
		},
		FromID: fromID,
		ToID:   toID,
		Mode:   mode,
		Locked: locked,
	}
}

// ConnectionLocked is raised when a provisional connection is confirmed
type ConnectionLocked struct {
	BaseEvent
	FromID valueobjects.DestinationID `json:"from_id"`
	ToID   valueobjects.DestinationID `json:"to_id"`
}

// NewConnectionLocked creates a ConnectionLocked event
func NewConnectionLocked(wheelID string, fromID, toID valueobjects.DestinationID, timestamp time.Time) ConnectionLocked {
	return ConnectionLocked{
		BaseEvent: BaseEvent{
			AggregateID: wheelID,
			EventType:   "connection.locked",
			Timestamp:   timestamp,
			Version:     1,
		},
		FromID: fromID,
		ToID:   toID,
	}
}

// ConnectionsCleared is raised when the whole connection set is discarded
type ConnectionsCleared struct {
	BaseEvent
	WheelID string `json:"wheel_id"`
}

// NewConnectionsCleared creates a ConnectionsCleared event
func NewConnectionsCleared(wheelID string, timestamp time.Time) ConnectionsCleared {
	return ConnectionsCleared{
		BaseEvent: BaseEvent{
			AggregateID: wheelID,
			EventType:   "connections.cleared",
			Timestamp:   timestamp,
			Version:     1,
		},
		WheelID: wheelID,
	}
}
