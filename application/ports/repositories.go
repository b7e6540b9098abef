package ports

import (
	"context"

	"github.com/olinekleiven/snarveg/domain/core/aggregates"
	"github.com/olinekleiven/snarveg/domain/events"
)

// WheelRepository persists wheel aggregates. Each user owns at most one
// wheel; lookups are by owner.
type WheelRepository interface {
	Save(ctx context.Context, wheel *aggregates.Wheel) error
	GetByUserID(ctx context.Context, userID string) (*aggregates.Wheel, error)
	Delete(ctx context.Context, userID string) error
}

// PreferenceStore keeps per-user display and interaction preferences that
// live outside the wheel aggregate
type PreferenceStore interface {
	Get(ctx context.Context, userID string) (Preferences, error)
	Set(ctx context.Context, userID string, prefs Preferences) error
}

// Preferences are the stored per-user settings
type Preferences struct {
	PreferredMode string `json:"preferred_mode,omitempty"`
	HapticsOff    bool   `json:"haptics_off,omitempty"`
	LeftHanded    bool   `json:"left_handed,omitempty"`
}

// EventPublisher delivers committed domain events to whoever listens
type EventPublisher interface {
	Publish(ctx context.Context, events []events.DomainEvent) error
}
