package entities_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olinekleiven/snarveg/domain/core/entities"
	"github.com/olinekleiven/snarveg/domain/core/valueobjects"
	pkgerrors "github.com/olinekleiven/snarveg/pkg/errors"
)

func d0() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func mustCard(t *testing.T, label string) valueobjects.Card {
	t.Helper()
	card, err := valueobjects.NewCard(label, "pin", "#10B981")
	require.NoError(t, err)
	return card
}

func TestNewOrigin(t *testing.T) {
	origin, err := entities.NewOrigin(mustCard(t, "Home"))
	require.NoError(t, err)

	assert.True(t, origin.IsOrigin())
	assert.True(t, origin.IsFilled(), "the origin always counts as filled")
	assert.False(t, origin.IsPlaceholder())
	assert.Equal(t, "Home", origin.Card().Label())
	assert.False(t, origin.ID().IsZero())

	_, err = entities.NewOrigin(valueobjects.Card{})
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestPlaceholderLifecycle(t *testing.T) {
	d := entities.NewPlaceholder()
	assert.True(t, d.IsPlaceholder())
	assert.False(t, d.IsFilled())

	// Placeholders reject empty cards
	err := d.Fill(valueobjects.Card{})
	assert.True(t, pkgerrors.IsValidation(err))
	assert.True(t, d.IsPlaceholder())

	require.NoError(t, d.Fill(mustCard(t, "Cafe")))
	assert.True(t, d.IsFilled())
	assert.Equal(t, "Cafe", d.Card().Label())

	// Filling twice is a conflict
	err = d.Fill(mustCard(t, "Museum"))
	assert.True(t, pkgerrors.IsConflict(err))
	assert.Equal(t, "Cafe", d.Card().Label())

	// Clearing keeps the identity but drops the card
	id := d.ID()
	require.NoError(t, d.Clear())
	assert.True(t, d.IsPlaceholder())
	assert.True(t, d.Card().IsEmpty())
	assert.True(t, id.Equals(d.ID()))

	// Clearing an already empty slot is a no-op
	require.NoError(t, d.Clear())
}

func TestOriginIsImmutableKind(t *testing.T) {
	origin, err := entities.NewOrigin(mustCard(t, "Home"))
	require.NoError(t, err)

	assert.True(t, pkgerrors.IsValidation(origin.Fill(mustCard(t, "Cafe"))))
	assert.True(t, pkgerrors.IsValidation(origin.Clear()))
}

func TestUpdateCard(t *testing.T) {
	d := entities.NewPlaceholder()

	err := d.UpdateCard(mustCard(t, "Cafe"))
	assert.True(t, pkgerrors.IsValidation(err), "empty slots have nothing to edit")

	require.NoError(t, d.Fill(mustCard(t, "Cafe")))
	v := d.Version()

	require.NoError(t, d.UpdateCard(mustCard(t, "Harbor Cafe")))
	assert.Equal(t, "Harbor Cafe", d.Card().Label())
	assert.Equal(t, v+1, d.Version())

	// Identical card is a no-op
	require.NoError(t, d.UpdateCard(mustCard(t, "Harbor Cafe")))
	assert.Equal(t, v+1, d.Version())
}

func TestReconstructDestination(t *testing.T) {
	id := valueobjects.NewDestinationID()
	pos := valueobjects.NewWheelPosition(120, 120)

	d, err := entities.ReconstructDestination(id, entities.KindFilled, mustCard(t, "Cafe"), pos, d0(), d0())
	require.NoError(t, err)
	assert.True(t, d.IsFilled())
	assert.Equal(t, 120.0, d.Position().AngleDeg())

	_, err = entities.ReconstructDestination(id, entities.KindFilled, valueobjects.Card{}, pos, d0(), d0())
	assert.True(t, pkgerrors.IsValidation(err))
}
