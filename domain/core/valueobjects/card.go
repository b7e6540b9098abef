package valueobjects

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/olinekleiven/snarveg/domain/config"
	pkgerrors "github.com/olinekleiven/snarveg/pkg/errors"
)

// Card is a value object holding the display attributes of a filled
// destination. The gesture core treats every field as opaque; only the
// rendering collaborator interprets them.
type Card struct {
	label string
	icon  string
	color string
}

// NewCard creates a card with validation using default configuration
func NewCard(label, icon, color string) (Card, error) {
	return NewCardWithConfig(label, icon, color, config.DefaultDomainConfig())
}

// NewCardWithConfig creates a card with validation and configuration
func NewCardWithConfig(label, icon, color string, cfg *config.DomainConfig) (Card, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	label = strings.TrimSpace(label)

	if label == "" {
		return Card{}, pkgerrors.NewValidationError("destination needs a name")
	}

	length := utf8.RuneCountInString(label)
	if length < cfg.MinLabelLength {
		return Card{}, fmt.Errorf("label too short: minimum %d characters required", cfg.MinLabelLength)
	}
	if length > cfg.MaxLabelLength {
		return Card{}, fmt.Errorf("label exceeds maximum length of %d characters", cfg.MaxLabelLength)
	}

	return Card{
		label: label,
		icon:  icon,
		color: color,
	}, nil
}

// Label returns the display label
func (c Card) Label() string {
	return c.label
}

// Icon returns the icon identifier
func (c Card) Icon() string {
	return c.icon
}

// Color returns the display color
func (c Card) Color() string {
	return c.color
}

// IsEmpty checks if the card has no label
func (c Card) IsEmpty() bool {
	return c.label == ""
}

// Equals checks if two cards are equal
func (c Card) Equals(other Card) bool {
	return c.label == other.label && c.icon == other.icon && c.color == other.color
}
