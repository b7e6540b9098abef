package queries

import (
	"time"

	"github.com/olinekleiven/snarveg/pkg/utils"
)

// GetWheelQuery fetches the user's wheel snapshot
type GetWheelQuery struct {
	UserID string `json:"user_id" validate:"required"`
}

// Validate validates the query
func (q GetWheelQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// GetRouteQuery linearizes the user's current connection set
type GetRouteQuery struct {
	UserID string `json:"user_id" validate:"required"`
}

// Validate validates the query
func (q GetRouteQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// GetFeedQuery fetches outbound commands newer than Since
type GetFeedQuery struct {
	UserID string `json:"user_id" validate:"required"`
	Since  int64  `json:"since" validate:"min=0"`
}

// Validate validates the query
func (q GetFeedQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// DestinationView is one node in the wheel snapshot
type DestinationView struct {
	ID       string  `json:"id"`
	Kind     string  `json:"kind"`
	Label    string  `json:"label,omitempty"`
	Icon     string  `json:"icon,omitempty"`
	Color    string  `json:"color,omitempty"`
	AngleDeg float64 `json:"angle_deg"`
	Radius   float64 `json:"radius"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// ConnectionView is one connection in the wheel snapshot
type ConnectionView struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Locked    bool      `json:"locked"`
	Mode      string    `json:"mode"`
	CreatedAt time.Time `json:"created_at"`
}

// WheelView is the full wheel snapshot served to the rendering collaborator
type WheelView struct {
	WheelID      string            `json:"wheel_id"`
	UserID       string            `json:"user_id"`
	Destinations []DestinationView `json:"destinations"`
	Connections  []ConnectionView  `json:"connections"`
	GestureState string            `json:"gesture_state"`
	EditMode     bool              `json:"edit_mode"`
	LockProgress float64           `json:"lock_progress"`
	Version      int               `json:"version"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// RouteView is the linearized route. Empty is true when no route of at
// least one leg exists.
type RouteView struct {
	Empty           bool     `json:"empty"`
	Stops           []string `json:"stops,omitempty"`
	Labels          []string `json:"labels,omitempty"`
	Legs            []string `json:"legs,omitempty"`
	DurationMinutes int      `json:"duration_minutes,omitempty"`
	DistanceKm      float64  `json:"distance_km,omitempty"`
}
