package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// DestinationID is a value object representing a unique destination identifier
// Value objects are immutable and have no identity beyond their value
type DestinationID struct {
	value string
}

// NewDestinationID creates a new random DestinationID
func NewDestinationID() DestinationID {
	return DestinationID{value: uuid.New().String()}
}

// NewDestinationIDFromString creates a DestinationID from an existing string
func NewDestinationIDFromString(id string) (DestinationID, error) {
	if id == "" {
		return DestinationID{}, errors.New("destination ID cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return DestinationID{}, errors.New("destination ID must be a valid UUID")
	}
	return DestinationID{value: id}, nil
}

// String returns the string representation of the DestinationID
func (id DestinationID) String() string {
	return id.value
}

// Equals checks if two DestinationIDs are equal
func (id DestinationID) Equals(other DestinationID) bool {
	return id.value == other.value
}

// IsZero checks if the DestinationID is the zero value
func (id DestinationID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id DestinationID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *DestinationID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("DestinationID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}
