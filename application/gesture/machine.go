package gesture

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/olinekleiven/snarveg/domain/config"
	"github.com/olinekleiven/snarveg/domain/core/aggregates"
	"github.com/olinekleiven/snarveg/domain/core/valueobjects"
	pkgerrors "github.com/olinekleiven/snarveg/pkg/errors"
)

// State is the gesture machine's authoritative state
type State string

const (
	// StateIdle means no gesture is in progress
	StateIdle State = "idle"
	// StateDrawing means a draw gesture started and the pointer is moving
	StateDrawing State = "drawing"
	// StateHoverLocking means the pointer is dwelling over a candidate stop
	// and the hover-lock timer is running
	StateHoverLocking State = "hover_locking"
	// StateRearranging is the edit-mode position drag
	StateRearranging State = "rearranging"
)

// ClickKind distinguishes how a destination was activated
type ClickKind string

const (
	ClickTap       ClickKind = "tap"
	ClickLongPress ClickKind = "long_press"
)

// Hooks are the outbound commands consumed by the rendering collaborator.
// Nil hooks are skipped. Hooks are invoked outside the machine's lock and
// must not assume any particular goroutine.
type Hooks struct {
	OnDrawStart        func(from valueobjects.DestinationID)
	OnConnectionCreate func(from, to valueobjects.DestinationID)
	OnConnectionLock   func(from, to valueobjects.DestinationID)
	OnNodeClick        func(id valueobjects.DestinationID, kind ClickKind)
	OnAdvisory         func(message string)
}

// Machine interprets the pointer event stream against the wheel, producing
// connection-create and connection-lock side effects.
//
// Timer callbacks fire on their own goroutines, so every transition is
// serialized behind one mutex and every callback re-validates its
// precondition before mutating anything: the pointer-up handler may have
// already completed the same logical transition. A single in-flight flag
// collapses near-simultaneous completions, and a gesture sequence number
// turns stale timer callbacks into no-ops.
type Machine struct {
	mu     sync.Mutex
	wheel  *aggregates.Wheel
	cfg    *config.DomainConfig
	clock  Clock
	hits   HitTester
	hooks  Hooks
	logger *zap.Logger

	state    State
	editMode bool

	// seq increments whenever a gesture ends or aborts; hover and
	// long-press callbacks captured under an older seq are stale
	seq uint64

	// drawing
	fromID valueobjects.DestinationID

	// hover-lock timer
	hoverID    valueobjects.DestinationID
	hoverStart time.Time
	hoverTimer Timer

	// lock-confirmation timer; it belongs to an already-created connection
	// and survives the gesture that created it
	lockTimer Timer
	lockFrom  valueobjects.DestinationID
	lockTo    valueobjects.DestinationID

	// press tracking for tap vs long-press vs drag
	pressActive bool
	pressID     valueobjects.DestinationID
	pressPoint  valueobjects.Point
	pressMoved  float64
	pressTimer  Timer

	// edit-mode drag
	dragID valueobjects.DestinationID
	swapID valueobjects.DestinationID

	// in-flight guard against overlapping completions
	processing bool
}

// NewMachine creates a gesture machine bound to one wheel. One machine
// exists per active wheel view; tear it down with ClearRoute or simply drop
// it once its timers are stopped.
func NewMachine(wheel *aggregates.Wheel, clock Clock, hits HitTester, hooks Hooks, logger *zap.Logger) *Machine {
	if clock == nil {
		clock = SystemClock()
	}
	if hits == nil {
		hits = NewWheelHitTester(wheel)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Machine{
		wheel:  wheel,
		cfg:    wheel.Config(),
		clock:  clock,
		hits:   hits,
		hooks:  hooks,
		logger: logger,
		state:  StateIdle,
	}
}

// State returns the current gesture state
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// EditMode reports whether edit mode is active
func (m *Machine) EditMode() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.editMode
}

// HoverTarget returns the stop currently being dwelled over, if any
func (m *Machine) HoverTarget() (valueobjects.DestinationID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateHoverLocking {
		return valueobjects.DestinationID{}, false
	}
	return m.hoverID, true
}

// LockProgress returns the hover-lock timer's linear progress in [0, 1].
// The rendering collaborator samples this at whatever frequency it needs.
func (m *Machine) LockProgress() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateHoverLocking {
		return 0
	}
	elapsed := m.clock.Now().Sub(m.hoverStart)
	progress := float64(elapsed) / float64(m.cfg.HoverLockDuration)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

// SetEditMode toggles edit mode, aborting any gesture in progress
func (m *Machine) SetEditMode(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.editMode == on {
		return
	}
	m.abortGestureLocked()
	m.editMode = on
}

// Inspect runs fn with the wheel under the machine's lock, for reads
func (m *Machine) Inspect(fn func(w *aggregates.Wheel)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.wheel)
}

// Mutate aborts any gesture in progress, then runs fn with the wheel under
// the machine's lock. External mutations (fill, delete, swap, clear) always
// invalidate an in-flight gesture.
func (m *Machine) Mutate(fn func(w *aggregates.Wheel) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.abortGestureLocked()
	return fn(m.wheel)
}

// ClearRoute discards the connection set and synchronously resets the
// machine: every pending timer is cancelled before the wheel mutates, so a
// stale callback can never recreate state that was just cleared.
func (m *Machine) ClearRoute() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.abortGestureLocked()
	m.stopLockTimerLocked()
	m.wheel.ClearConnections()
}

// PointerDown begins a gesture at the given coordinate
func (m *Machine) PointerDown(p valueobjects.Point) {
	m.mu.Lock()
	emits := m.pointerDownLocked(p)
	m.mu.Unlock()
	runAll(emits)
}

func (m *Machine) pointerDownLocked(p valueobjects.Point) []func() {
	if m.state != StateIdle {
		return nil
	}

	id, ok := m.hits.HitTest(p)
	if !ok {
		return nil
	}
	dest, err := m.wheel.Destination(id)
	if err != nil {
		return nil
	}

	m.pressActive = true
	m.pressID = id
	m.pressPoint = p
	m.pressMoved = 0

	if m.editMode {
		if !dest.IsOrigin() && !dest.IsPlaceholder() {
			m.state = StateRearranging
			m.dragID = id
			m.swapID = valueobjects.DestinationID{}
		}
		return nil
	}

	var emits []func()

	// Long-press on a filled stop opens it for editing; it runs alongside
	// the draw and wins only if the pointer barely moves
	if !dest.IsPlaceholder() {
		seq := m.seq
		m.pressTimer = m.clock.AfterFunc(m.cfg.LongPressDuration, func() {
			m.onLongPress(seq, id)
		})
	}

	if err := m.wheel.CanStartDrawing(id); err != nil {
		m.logger.Debug("draw rejected",
			zap.String("destination", id.String()),
			zap.Error(err),
		)
		emits = append(emits, m.advisoryEmit(err))
		return emits
	}

	m.state = StateDrawing
	m.fromID = id
	if m.hooks.OnDrawStart != nil {
		from := id
		emits = append(emits, func() { m.hooks.OnDrawStart(from) })
	}
	return emits
}

// PointerMove updates an in-progress gesture
func (m *Machine) PointerMove(p valueobjects.Point) {
	m.mu.Lock()
	emits := m.pointerMoveLocked(p)
	m.mu.Unlock()
	runAll(emits)
}

func (m *Machine) pointerMoveLocked(p valueobjects.Point) []func() {
	if m.pressActive {
		if d := m.pressPoint.DistanceTo(p); d > m.pressMoved {
			m.pressMoved = d
		}
		if m.pressMoved > m.cfg.JitterThreshold {
			m.stopPressTimerLocked()
		}
	}

	switch m.state {
	case StateDrawing, StateHoverLocking:
		id, ok := m.hitCandidateLocked(p)
		if !ok {
			if m.state == StateHoverLocking {
				// Leaving proximity cancels the timer and resets progress
				m.stopHoverTimerLocked()
				m.state = StateDrawing
			}
			return nil
		}
		if m.state == StateHoverLocking && m.hoverID.Equals(id) {
			return nil
		}
		// Entering proximity of a new candidate restarts the timer; at
		// most one hover-lock timer is ever active
		m.stopHoverTimerLocked()
		m.hoverID = id
		m.hoverStart = m.clock.Now()
		seq := m.seq
		from, to := m.fromID, id
		m.hoverTimer = m.clock.AfterFunc(m.cfg.HoverLockDuration, func() {
			m.onHoverTimeout(seq, from, to)
		})
		m.state = StateHoverLocking

	case StateRearranging:
		id, ok := m.hits.HitTest(p)
		if !ok {
			m.swapID = valueobjects.DestinationID{}
			return nil
		}
		if id.Equals(m.dragID) {
			return nil
		}
		dest, err := m.wheel.Destination(id)
		if err == nil && !dest.IsOrigin() && !dest.IsPlaceholder() {
			m.swapID = id
		}
	}
	return nil
}

// hitCandidateLocked resolves the pointer to a hover candidate: any stop
// within the hit radius that is not the source and not a placeholder
func (m *Machine) hitCandidateLocked(p valueobjects.Point) (valueobjects.DestinationID, bool) {
	id, ok := m.hits.HitTest(p)
	if !ok || id.Equals(m.fromID) {
		return valueobjects.DestinationID{}, false
	}
	dest, err := m.wheel.Destination(id)
	if err != nil || dest.IsPlaceholder() {
		return valueobjects.DestinationID{}, false
	}
	return id, true
}

// PointerUp completes a gesture at the given coordinate
func (m *Machine) PointerUp(p valueobjects.Point) {
	m.mu.Lock()
	emits := m.pointerUpLocked(p)
	m.mu.Unlock()
	runAll(emits)
}

func (m *Machine) pointerUpLocked(p valueobjects.Point) []func() {
	var emits []func()

	// The release point counts toward total movement
	if m.pressActive {
		if d := m.pressPoint.DistanceTo(p); d > m.pressMoved {
			m.pressMoved = d
		}
	}

	// A release with negligible movement is a tap, whatever else was in
	// flight; the draw (if any) is discarded
	if m.pressActive && m.pressMoved <= m.cfg.JitterThreshold {
		id := m.pressID
		tapped := false
		if dest, err := m.wheel.Destination(id); err == nil && !dest.IsPlaceholder() {
			tapped = true
		}
		m.abortGestureLocked()
		if tapped && m.hooks.OnNodeClick != nil {
			emits = append(emits, func() { m.hooks.OnNodeClick(id, ClickTap) })
		}
		return emits
	}

	switch m.state {
	case StateHoverLocking:
		// Manual release before the hover timer: create unlocked, then
		// confirm after the lock delay
		from, to := m.fromID, m.hoverID
		if !m.processing {
			m.processing = true
			emits = append(emits, m.createConnectionLocked(from, to, false)...)
			m.processing = false
		}
		m.endGestureLocked()

	case StateDrawing:
		// Released over nothing: discard
		m.endGestureLocked()

	case StateRearranging:
		drag, swap := m.dragID, m.swapID
		m.endGestureLocked()
		if !swap.IsZero() {
			if err := m.wheel.SwapDestinations(drag, swap); err != nil {
				emits = append(emits, m.advisoryEmit(err))
			}
		}

	default:
		m.clearPressLocked()
	}
	return emits
}

// PointerCancel aborts the gesture with no connection created. The pending
// lock-confirmation timer of a previously completed gesture is unaffected.
func (m *Machine) PointerCancel() {
	m.mu.Lock()
	m.abortGestureLocked()
	m.mu.Unlock()
}

// createConnectionLocked inserts the connection, re-checking the whole set
// first; the conflict raised by a racing duplicate is absorbed silently.
func (m *Machine) createConnectionLocked(from, to valueobjects.DestinationID, immediateLock bool) []func() {
	var emits []func()

	conn, err := m.wheel.Connect(from, to)
	if err != nil {
		if pkgerrors.IsConflict(err) {
			m.logger.Debug("duplicate connection absorbed",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			return nil
		}
		emits = append(emits, m.advisoryEmit(err))
		return emits
	}

	m.logger.Info("connection created",
		zap.String("from", from.String()),
		zap.String("to", to.String()),
		zap.String("mode", string(conn.Mode)),
		zap.Bool("auto_lock", immediateLock),
	)

	if m.hooks.OnConnectionCreate != nil {
		emits = append(emits, func() { m.hooks.OnConnectionCreate(from, to) })
	}

	if immediateLock {
		if err := m.wheel.LockConnection(from, to); err == nil && m.hooks.OnConnectionLock != nil {
			emits = append(emits, func() { m.hooks.OnConnectionLock(from, to) })
		}
		return emits
	}

	// One lock-confirmation timer at a time; starting a new one always
	// cancels the previous one first
	m.stopLockTimerLocked()
	m.lockFrom = from
	m.lockTo = to
	m.lockTimer = m.clock.AfterFunc(m.cfg.LockConfirmDuration, func() {
		m.onLockTimeout(from, to)
	})
	return emits
}

// onHoverTimeout fires when the pointer dwelled on a candidate for the full
// hover-lock duration: create the connection, lock it immediately, and
// return to idle. Chaining is never automatic.
func (m *Machine) onHoverTimeout(seq uint64, from, to valueobjects.DestinationID) {
	m.mu.Lock()
	if seq != m.seq || m.state != StateHoverLocking || !m.hoverID.Equals(to) || m.processing {
		m.mu.Unlock()
		return
	}
	m.processing = true
	emits := m.createConnectionLocked(from, to, true)
	m.processing = false
	m.endGestureLocked()
	m.mu.Unlock()
	runAll(emits)
}

// onLockTimeout confirms a provisional connection after the lock delay. The
// connection may have vanished (endpoint deleted, route cleared) in the
// meantime; then this is a no-op.
func (m *Machine) onLockTimeout(from, to valueobjects.DestinationID) {
	m.mu.Lock()
	m.lockTimer = nil

	var locked bool
	for _, c := range m.wheel.Connections() {
		if c.From.Equals(from) && c.To.Equals(to) && !c.Locked {
			if err := m.wheel.LockConnection(from, to); err == nil {
				locked = true
			}
			break
		}
	}
	m.mu.Unlock()

	if locked {
		m.logger.Info("connection locked",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
		if m.hooks.OnConnectionLock != nil {
			m.hooks.OnConnectionLock(from, to)
		}
	}
}

// onLongPress fires when the pointer held still on a filled stop: the draw
// is abandoned and the stop opens for editing
func (m *Machine) onLongPress(seq uint64, id valueobjects.DestinationID) {
	m.mu.Lock()
	if seq != m.seq || !m.pressActive || !m.pressID.Equals(id) || m.pressMoved > m.cfg.JitterThreshold {
		m.mu.Unlock()
		return
	}
	m.abortGestureLocked()
	m.mu.Unlock()

	if m.hooks.OnNodeClick != nil {
		m.hooks.OnNodeClick(id, ClickLongPress)
	}
}

// advisoryEmit wraps a domain rejection into the transient advisory hook
func (m *Machine) advisoryEmit(err error) func() {
	msg := err.Error()
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		msg = appErr.Message
	}
	if m.hooks.OnAdvisory == nil {
		return func() {}
	}
	return func() { m.hooks.OnAdvisory(msg) }
}

// endGestureLocked finishes the current gesture and returns to idle,
// leaving any pending lock-confirmation timer running
func (m *Machine) endGestureLocked() {
	m.stopHoverTimerLocked()
	m.clearPressLocked()
	m.state = StateIdle
	m.fromID = valueobjects.DestinationID{}
	m.dragID = valueobjects.DestinationID{}
	m.swapID = valueobjects.DestinationID{}
	m.seq++
}

// abortGestureLocked is endGestureLocked for the cancellation paths
func (m *Machine) abortGestureLocked() {
	m.endGestureLocked()
}

func (m *Machine) stopHoverTimerLocked() {
	if m.hoverTimer != nil {
		m.hoverTimer.Stop()
		m.hoverTimer = nil
	}
	m.hoverID = valueobjects.DestinationID{}
	m.hoverStart = time.Time{}
}

func (m *Machine) stopLockTimerLocked() {
	if m.lockTimer != nil {
		m.lockTimer.Stop()
		m.lockTimer = nil
	}
	m.lockFrom = valueobjects.DestinationID{}
	m.lockTo = valueobjects.DestinationID{}
}

func (m *Machine) stopPressTimerLocked() {
	if m.pressTimer != nil {
		m.pressTimer.Stop()
		m.pressTimer = nil
	}
}

func (m *Machine) clearPressLocked() {
	m.stopPressTimerLocked()
	m.pressActive = false
	m.pressID = valueobjects.DestinationID{}
	m.pressMoved = 0
}

func runAll(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}
