package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/olinekleiven/snarveg/application/gesture"
	"github.com/olinekleiven/snarveg/application/ports"
	"github.com/olinekleiven/snarveg/domain/config"
	"github.com/olinekleiven/snarveg/domain/core/aggregates"
	"github.com/olinekleiven/snarveg/domain/core/valueobjects"
	pkgerrors "github.com/olinekleiven/snarveg/pkg/errors"
	"github.com/olinekleiven/snarveg/pkg/observability"
)

// WheelSession binds one user's wheel to a live gesture machine and the
// outbound command feed its hooks write to
type WheelSession struct {
	userID    string
	wheel     *aggregates.Wheel
	machine   *gesture.Machine
	feed      *Feed
	startedAt time.Time
}

// Feed returns the session's outbound command feed
func (s *WheelSession) Feed() *Feed {
	return s.feed
}

// Machine returns the session's gesture machine
func (s *WheelSession) Machine() *gesture.Machine {
	return s.machine
}

// SessionService owns the active wheel sessions. Wheels are persisted
// through the repository; machines and feeds are session-scoped and rebuilt
// when a session restarts.
type SessionService struct {
	repo      ports.WheelRepository
	prefs     ports.PreferenceStore
	publisher ports.EventPublisher
	metrics   *observability.Metrics
	logger    *zap.Logger
	clock     gesture.Clock
	cfg       func() *config.DomainConfig

	mu       sync.RWMutex
	sessions map[string]*WheelSession
}

// NewSessionService creates the session service. cfgProvider supplies the
// current domain configuration so dynamic tuning reaches new sessions.
func NewSessionService(
	repo ports.WheelRepository,
	prefs ports.PreferenceStore,
	publisher ports.EventPublisher,
	metrics *observability.Metrics,
	clock gesture.Clock,
	cfgProvider func() *config.DomainConfig,
	logger *zap.Logger,
) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = gesture.SystemClock()
	}
	if cfgProvider == nil {
		cfgProvider = config.DefaultDomainConfig
	}
	return &SessionService{
		repo:      repo,
		prefs:     prefs,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		clock:     clock,
		cfg:       cfgProvider,
		sessions:  make(map[string]*WheelSession),
	}
}

// StartSession opens (or resumes) the user's wheel session. The origin card
// is used only when no wheel exists yet.
func (s *SessionService) StartSession(ctx context.Context, userID, originLabel, originIcon, originColor string) (*WheelSession, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.sessions[userID]; ok {
		return existing, nil
	}

	cfg := s.cfg()
	wheel, err := s.repo.GetByUserID(ctx, userID)
	if pkgerrors.IsNotFound(err) {
		card, cardErr := valueobjects.NewCardWithConfig(originLabel, originIcon, originColor, cfg)
		if cardErr != nil {
			return nil, cardErr
		}
		wheel, err = aggregates.NewWheel(userID, card, cfg)
		if err != nil {
			return nil, err
		}
		if err := s.persistLocked(ctx, wheel); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	session := &WheelSession{
		userID:    userID,
		wheel:     wheel,
		feed:      NewFeed(0),
		startedAt: s.clock.Now(),
	}
	session.machine = gesture.NewMachine(wheel, s.clock, nil, s.hooksFor(session), s.logger)
	s.sessions[userID] = session

	if s.metrics != nil {
		s.metrics.SessionsActive.Inc()
	}
	s.logger.Info("session started",
		zap.String("user_id", userID),
		zap.String("wheel_id", wheel.ID().String()),
	)
	return session, nil
}

// EndSession drops the user's session, flushing the wheel first
func (s *SessionService) EndSession(ctx context.Context, userID string) error {
	s.mu.Lock()
	session, ok := s.sessions[userID]
	if ok {
		delete(s.sessions, userID)
	}
	s.mu.Unlock()

	if !ok {
		return nil
	}
	if s.metrics != nil {
		s.metrics.SessionsActive.Dec()
	}
	return s.saveWheel(ctx, session)
}

// Session returns the user's active session
func (s *SessionService) Session(userID string) (*WheelSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[userID]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("session")
	}
	return session, nil
}

// hooksFor routes machine emissions into the session feed and the metrics
func (s *SessionService) hooksFor(session *WheelSession) gesture.Hooks {
	now := func() time.Time { return s.clock.Now() }
	return gesture.Hooks{
		OnDrawStart: func(from valueobjects.DestinationID) {
			if s.metrics != nil {
				s.metrics.GesturesStarted.Inc()
			}
			session.feed.Append(FeedEntry{Kind: FeedDrawStart, From: from.String(), At: now()})
		},
		OnConnectionCreate: func(from, to valueobjects.DestinationID) {
			if s.metrics != nil {
				s.metrics.ConnectionsCreated.Inc()
			}
			session.feed.Append(FeedEntry{Kind: FeedConnectionCreate, From: from.String(), To: to.String(), At: now()})
		},
		OnConnectionLock: func(from, to valueobjects.DestinationID) {
			if s.metrics != nil {
				s.metrics.ConnectionsLocked.Inc()
			}
			session.feed.Append(FeedEntry{Kind: FeedConnectionLock, From: from.String(), To: to.String(), At: now()})
		},
		OnNodeClick: func(id valueobjects.DestinationID, kind gesture.ClickKind) {
			session.feed.Append(FeedEntry{Kind: FeedNodeClick, NodeID: id.String(), Click: string(kind), At: now()})
		},
		OnAdvisory: func(message string) {
			if s.metrics != nil {
				s.metrics.GesturesRejected.Inc()
			}
			session.feed.Append(FeedEntry{Kind: FeedAdvisory, Message: message, At: now()})
		},
	}
}

// Pointer events

func (s *SessionService) PointerDown(userID string, p valueobjects.Point) error {
	session, err := s.Session(userID)
	if err != nil {
		return err
	}
	session.machine.PointerDown(p)
	return nil
}

func (s *SessionService) PointerMove(userID string, p valueobjects.Point) error {
	session, err := s.Session(userID)
	if err != nil {
		return err
	}
	session.machine.PointerMove(p)
	return nil
}

func (s *SessionService) PointerUp(ctx context.Context, userID string, p valueobjects.Point) error {
	session, err := s.Session(userID)
	if err != nil {
		return err
	}
	session.machine.PointerUp(p)
	return s.saveWheel(ctx, session)
}

func (s *SessionService) PointerCancel(userID string) error {
	session, err := s.Session(userID)
	if err != nil {
		return err
	}
	session.machine.PointerCancel()
	return nil
}

// SetEditMode toggles edit mode for the user's session
func (s *SessionService) SetEditMode(userID string, on bool) error {
	session, err := s.Session(userID)
	if err != nil {
		return err
	}
	session.machine.SetEditMode(on)
	return nil
}

// Mutate applies a wheel mutation through the session's machine, so an
// in-flight gesture is aborted first, then persists the wheel.
func (s *SessionService) Mutate(ctx context.Context, userID string, fn func(w *aggregates.Wheel) error) error {
	session, err := s.Session(userID)
	if err != nil {
		return err
	}
	if err := session.machine.Mutate(fn); err != nil {
		return err
	}
	return s.saveWheel(ctx, session)
}

// ClearRoute discards the user's connection set
func (s *SessionService) ClearRoute(ctx context.Context, userID string) error {
	session, err := s.Session(userID)
	if err != nil {
		return err
	}
	session.machine.ClearRoute()
	if s.metrics != nil {
		s.metrics.RoutesCleared.Inc()
	}
	return s.saveWheel(ctx, session)
}

// Route linearizes the user's current connection set
func (s *SessionService) Route(userID string) (*aggregates.Route, error) {
	session, err := s.Session(userID)
	if err != nil {
		return nil, err
	}
	var route *aggregates.Route
	session.machine.Inspect(func(w *aggregates.Wheel) {
		route = w.Linearize()
	})
	if s.metrics != nil {
		s.metrics.RoutesLinearized.Inc()
	}
	return route, nil
}

// Inspect runs fn against the user's wheel under the machine's lock
func (s *SessionService) Inspect(userID string, fn func(w *aggregates.Wheel)) error {
	session, err := s.Session(userID)
	if err != nil {
		return err
	}
	session.machine.Inspect(fn)
	return nil
}

// Preferences returns the user's stored preferences
func (s *SessionService) Preferences(ctx context.Context, userID string) (ports.Preferences, error) {
	return s.prefs.Get(ctx, userID)
}

// SetPreferences stores the user's preferences
func (s *SessionService) SetPreferences(ctx context.Context, userID string, prefs ports.Preferences) error {
	return s.prefs.Set(ctx, userID, prefs)
}

// saveWheel persists the session's wheel and publishes its pending events
func (s *SessionService) saveWheel(ctx context.Context, session *WheelSession) error {
	var saveErr error
	session.machine.Inspect(func(w *aggregates.Wheel) {
		saveErr = s.persistLocked(ctx, w)
	})
	return saveErr
}

func (s *SessionService) persistLocked(ctx context.Context, wheel *aggregates.Wheel) error {
	if err := s.repo.Save(ctx, wheel); err != nil {
		return pkgerrors.Wrap(err, "failed to save wheel")
	}
	if s.publisher != nil {
		pending := wheel.GetUncommittedEvents()
		if len(pending) > 0 {
			if err := s.publisher.Publish(ctx, pending); err != nil {
				// Events are advisory; persistence already succeeded
				s.logger.Warn("event publish failed", zap.Error(err))
			}
		}
	}
	wheel.MarkEventsAsCommitted()
	return nil
}
