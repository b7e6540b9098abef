package entities

import (
	"time"

	"github.com/olinekleiven/snarveg/domain/core/valueobjects"
	pkgerrors "github.com/olinekleiven/snarveg/pkg/errors"
)

// Kind is the tagged variant of a destination. Exactly one destination on a
// wheel is the origin; placeholders are empty slots that cannot participate
// in connections until filled.
type Kind string

const (
	KindOrigin      Kind = "origin"
	KindPlaceholder Kind = "placeholder"
	KindFilled      Kind = "filled"
)

// Destination is a node on the wheel
// This is a rich domain model with encapsulated business logic
type Destination struct {
	// Private fields ensure encapsulation
	id        valueobjects.DestinationID
	kind      Kind
	card      valueobjects.Card
	position  valueobjects.WheelPosition
	createdAt time.Time
	updatedAt time.Time
	version   int
}

// NewOrigin creates the origin destination for a wheel
func NewOrigin(card valueobjects.Card) (*Destination, error) {
	if card.IsEmpty() {
		return nil, pkgerrors.NewValidationError("origin needs a name")
	}

	now := time.Now()
	return &Destination{
		id:        valueobjects.NewDestinationID(),
		kind:      KindOrigin,
		card:      card,
		position:  valueobjects.NewWheelPosition(0, 0),
		createdAt: now,
		updatedAt: now,
		version:   1,
	}, nil
}

// NewPlaceholder creates an empty slot destination
func NewPlaceholder() *Destination {
	now := time.Now()
	return &Destination{
		id:        valueobjects.NewDestinationID(),
		kind:      KindPlaceholder,
		createdAt: now,
		updatedAt: now,
		version:   1,
	}
}

// ReconstructDestination reconstructs a destination from stored data
func ReconstructDestination(
	id valueobjects.DestinationID,
	kind Kind,
	card valueobjects.Card,
	position valueobjects.WheelPosition,
	createdAt, updatedAt time.Time,
) (*Destination, error) {
	if kind == KindFilled && card.IsEmpty() {
		return nil, pkgerrors.NewValidationError("filled destination needs a card")
	}

	return &Destination{
		id:        id,
		kind:      kind,
		card:      card,
		position:  position,
		createdAt: createdAt,
		updatedAt: updatedAt,
		version:   1,
	}, nil
}

// ID returns the destination's unique identifier
func (d *Destination) ID() valueobjects.DestinationID {
	return d.id
}

// Kind returns the destination's variant
func (d *Destination) Kind() Kind {
	return d.kind
}

// IsOrigin reports whether this is the wheel's origin
func (d *Destination) IsOrigin() bool {
	return d.kind == KindOrigin
}

// IsPlaceholder reports whether this is an empty slot
func (d *Destination) IsPlaceholder() bool {
	return d.kind == KindPlaceholder
}

// IsFilled reports whether the destination carries a card
func (d *Destination) IsFilled() bool {
	return d.kind == KindFilled || d.kind == KindOrigin
}

// Card returns the destination's display attributes
func (d *Destination) Card() valueobjects.Card {
	return d.card
}

// Position returns the destination's derived wheel position
func (d *Destination) Position() valueobjects.WheelPosition {
	return d.position
}

// Version returns the destination's version
func (d *Destination) Version() int {
	return d.version
}

// CreatedAt returns when the destination was created
func (d *Destination) CreatedAt() time.Time {
	return d.createdAt
}

// UpdatedAt returns when the destination was last updated
func (d *Destination) UpdatedAt() time.Time {
	return d.updatedAt
}

// Fill turns a placeholder into a filled destination
func (d *Destination) Fill(card valueobjects.Card) error {
	if d.kind == KindOrigin {
		return pkgerrors.NewValidationError("your current position is already set")
	}
	if d.kind == KindFilled {
		return pkgerrors.NewConflictError("destination is already filled")
	}
	if card.IsEmpty() {
		return pkgerrors.NewValidationError("destination needs a name")
	}

	d.kind = KindFilled
	d.card = card
	d.updatedAt = time.Now()
	d.version++

	return nil
}

// Clear reverts a filled destination back to a placeholder. The card is
// dropped; the slot keeps its identity so the ring order is undisturbed.
func (d *Destination) Clear() error {
	if d.kind == KindOrigin {
		return pkgerrors.NewValidationError("your current position cannot be cleared")
	}
	if d.kind == KindPlaceholder {
		return nil // Already empty
	}

	d.kind = KindPlaceholder
	d.card = valueobjects.Card{}
	d.updatedAt = time.Now()
	d.version++

	return nil
}

// UpdateCard replaces the card of a filled destination
func (d *Destination) UpdateCard(card valueobjects.Card) error {
	if !d.IsFilled() {
		return pkgerrors.NewValidationError("empty slots have nothing to edit")
	}
	if card.IsEmpty() {
		return pkgerrors.NewValidationError("destination needs a name")
	}
	if card.Equals(d.card) {
		return nil // No change needed
	}

	d.card = card
	d.updatedAt = time.Now()
	d.version++

	return nil
}

// MoveTo assigns the derived wheel position. Only the wheel aggregate calls
// this, after recomputing angles from ring order.
func (d *Destination) MoveTo(position valueobjects.WheelPosition) {
	if position.Equals(d.position) {
		return
	}
	d.position = position
	d.updatedAt = time.Now()
}
