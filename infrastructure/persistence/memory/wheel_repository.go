package memory

import (
	"context"
	"sync"

	"github.com/olinekleiven/snarveg/application/ports"
	"github.com/olinekleiven/snarveg/domain/core/aggregates"
	pkgerrors "github.com/olinekleiven/snarveg/pkg/errors"
)

// WheelRepository is the in-memory wheel store. The aggregate itself is the
// unit of storage; sessions hold the same pointer the repository does, so a
// Save is a liveness marker rather than a copy.
type WheelRepository struct {
	mu     sync.RWMutex
	wheels map[string]*aggregates.Wheel
}

// NewWheelRepository creates an empty in-memory repository
func NewWheelRepository() *WheelRepository {
	return &WheelRepository{
		wheels: make(map[string]*aggregates.Wheel),
	}
}

var _ ports.WheelRepository = (*WheelRepository)(nil)

// Save stores the wheel under its owner
func (r *WheelRepository) Save(ctx context.Context, wheel *aggregates.Wheel) error {
	if wheel == nil {
		return pkgerrors.NewValidationError("wheel cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wheels[wheel.UserID()] = wheel
	return nil
}

// GetByUserID retrieves the user's wheel
func (r *WheelRepository) GetByUserID(ctx context.Context, userID string) (*aggregates.Wheel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wheel, ok := r.wheels[userID]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("wheel")
	}
	return wheel, nil
}

// Delete removes the user's wheel
func (r *WheelRepository) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.wheels, userID)
	return nil
}
