package commands

import (
	"github.com/olinekleiven/snarveg/pkg/utils"
)

// FillDestinationCommand fills a placeholder slot with a destination card
type FillDestinationCommand struct {
	UserID        string `json:"user_id" validate:"required"`
	DestinationID string `json:"destination_id" validate:"required,uuid"`
	Label         string `json:"label" validate:"required,min=1,max=60"`
	Icon          string `json:"icon" validate:"max=60"`
	Color         string `json:"color" validate:"max=20"`
}

// Validate validates the command
func (cmd FillDestinationCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// UpdateDestinationCommand replaces the card of a filled destination
type UpdateDestinationCommand struct {
	UserID        string `json:"user_id" validate:"required"`
	DestinationID string `json:"destination_id" validate:"required,uuid"`
	Label         string `json:"label" validate:"required,min=1,max=60"`
	Icon          string `json:"icon" validate:"max=60"`
	Color         string `json:"color" validate:"max=20"`
}

// Validate validates the command
func (cmd UpdateDestinationCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// ClearDestinationCommand reverts a filled destination to a placeholder
type ClearDestinationCommand struct {
	UserID        string `json:"user_id" validate:"required"`
	DestinationID string `json:"destination_id" validate:"required,uuid"`
}

// Validate validates the command
func (cmd ClearDestinationCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// DeleteDestinationCommand removes a filled destination from the ring
type DeleteDestinationCommand struct {
	UserID        string `json:"user_id" validate:"required"`
	DestinationID string `json:"destination_id" validate:"required,uuid"`
}

// Validate validates the command
func (cmd DeleteDestinationCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// AddPlaceholderCommand appends a new empty slot to the ring
type AddPlaceholderCommand struct {
	UserID string `json:"user_id" validate:"required"`
}

// Validate validates the command
func (cmd AddPlaceholderCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// SwapDestinationsCommand exchanges the ring positions of two destinations
type SwapDestinationsCommand struct {
	UserID   string `json:"user_id" validate:"required"`
	FirstID  string `json:"first_id" validate:"required,uuid"`
	SecondID string `json:"second_id" validate:"required,uuid"`
}

// Validate validates the command
func (cmd SwapDestinationsCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// ClearRouteCommand discards the whole connection set
type ClearRouteCommand struct {
	UserID string `json:"user_id" validate:"required"`
}

// Validate validates the command
func (cmd ClearRouteCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}
