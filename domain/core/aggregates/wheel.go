package aggregates

import (
	"time"

	"github.com/google/uuid"
	"github.com/olinekleiven/snarveg/domain/config"
	"github.com/olinekleiven/snarveg/domain/core/entities"
	"github.com/olinekleiven/snarveg/domain/core/valueobjects"
	"github.com/olinekleiven/snarveg/domain/events"
	pkgerrors "github.com/olinekleiven/snarveg/pkg/errors"
)

// WheelID represents a unique wheel identifier
type WheelID string

// NewWheelID creates a new random WheelID
func NewWheelID() WheelID {
	return WheelID(uuid.New().String())
}

// String returns the string representation
func (id WheelID) String() string {
	return string(id)
}

// TransportMode is the synthesized per-leg transport tag. It is a placeholder
// assigned round-robin at creation time; real routing is out of scope.
type TransportMode string

const (
	ModeWalk  TransportMode = "walk"
	ModeBus   TransportMode = "bus"
	ModeTrain TransportMode = "train"
	ModeFerry TransportMode = "ferry"
)

var modeCycle = []TransportMode{ModeWalk, ModeBus, ModeTrain, ModeFerry}

// Connection is a directed, possibly-locked link between two destinations,
// representing one leg of the route being built.
type Connection struct {
	ID        string
	From      valueobjects.DestinationID
	To        valueobjects.DestinationID
	Locked    bool
	Mode      TransportMode
	CreatedAt time.Time
}

// Wheel is the aggregate root for the navigation wheel: the origin, the
// ordered ring of destinations around it, and the connection set drawn
// between them. It enforces the single-linear-chain policy.
type Wheel struct {
	id     WheelID
	userID string
	origin *entities.Destination

	// ring holds the non-origin destinations in display order. Angles are
	// derived from this order and never stored as independent truth.
	ring []*entities.Destination

	// connections preserves insertion order; the linearizer's fallback
	// depends on it.
	connections []*Connection

	// originEverFrom tracks whether the origin has ever seeded the chain.
	// It outlives removal of individual connections and is reset only by
	// ClearConnections.
	originEverFrom bool

	cfg       *config.DomainConfig
	createdAt time.Time
	updatedAt time.Time
	version   int
	events    []events.DomainEvent
}

// NewWheel creates a wheel with its origin and the configured number of
// placeholder slots, evenly spaced.
func NewWheel(userID string, originCard valueobjects.Card, cfg *config.DomainConfig) (*Wheel, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	origin, err := entities.NewOrigin(originCard)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	w := &Wheel{
		id:        NewWheelID(),
		userID:    userID,
		origin:    origin,
		cfg:       cfg,
		createdAt: now,
		updatedAt: now,
		version:   1,
	}

	for i := 0; i < cfg.InitialPlaceholders; i++ {
		w.ring = append(w.ring, entities.NewPlaceholder())
	}
	w.recomputeAngles()

	w.addEvent(events.NewWheelCreated(w.id.String(), userID, now))

	return w, nil
}

// ID returns the wheel's unique identifier
func (w *Wheel) ID() WheelID {
	return w.id
}

// UserID returns the owner's ID
func (w *Wheel) UserID() string {
	return w.userID
}

// Origin returns the origin destination
func (w *Wheel) Origin() *entities.Destination {
	return w.origin
}

// Config returns the wheel's domain configuration
func (w *Wheel) Config() *config.DomainConfig {
	return w.cfg
}

// Ring returns the ordered non-origin destinations
func (w *Wheel) Ring() []*entities.Destination {
	// Return a copy to maintain encapsulation
	ring := make([]*entities.Destination, len(w.ring))
	copy(ring, w.ring)
	return ring
}

// Destinations returns the origin followed by the ring
func (w *Wheel) Destinations() []*entities.Destination {
	all := make([]*entities.Destination, 0, len(w.ring)+1)
	all = append(all, w.origin)
	all = append(all, w.ring...)
	return all
}

// Destination retrieves a destination by ID
func (w *Wheel) Destination(id valueobjects.DestinationID) (*entities.Destination, error) {
	if w.origin.ID().Equals(id) {
		return w.origin, nil
	}
	for _, d := range w.ring {
		if d.ID().Equals(id) {
			return d, nil
		}
	}
	return nil, pkgerrors.NewNotFoundError("destination")
}

// Connections returns the connection set in insertion order
func (w *Wheel) Connections() []*Connection {
	conns := make([]*Connection, len(w.connections))
	copy(conns, w.connections)
	return conns
}

// OriginEverConnected reports whether the origin has ever been the start of
// a connection in this route-building session
func (w *Wheel) OriginEverConnected() bool {
	return w.originEverFrom
}

// UpdatedAt returns when the wheel was last updated
func (w *Wheel) UpdatedAt() time.Time {
	return w.updatedAt
}

// Version returns the wheel's version
func (w *Wheel) Version() int {
	return w.version
}

// filledCount counts ring destinations that carry a card
func (w *Wheel) filledCount() int {
	n := 0
	for _, d := range w.ring {
		if d.IsFilled() {
			n++
		}
	}
	return n
}

// hasPlaceholder reports whether any empty slot remains
func (w *Wheel) hasPlaceholder() bool {
	for _, d := range w.ring {
		if d.IsPlaceholder() {
			return true
		}
	}
	return false
}

// AddPlaceholder appends a new empty slot to the ring
func (w *Wheel) AddPlaceholder() (*entities.Destination, error) {
	if w.filledCount() >= w.cfg.MaxDestinations {
		return nil, pkgerrors.NewValidationError("the wheel is full")
	}

	p := entities.NewPlaceholder()
	w.ring = append(w.ring, p)
	w.recomputeAngles()
	w.touch()

	return p, nil
}

// ensurePlaceholder keeps one empty slot available while below the maximum
func (w *Wheel) ensurePlaceholder() {
	if w.filledCount() < w.cfg.MaxDestinations && !w.hasPlaceholder() {
		w.ring = append(w.ring, entities.NewPlaceholder())
		w.recomputeAngles()
	}
}

// FillDestination turns a placeholder slot into a filled destination. When
// the filled count has reached the configured maximum the fill is rejected
// and no placeholder is appended.
func (w *Wheel) FillDestination(id valueobjects.DestinationID, card valueobjects.Card) error {
	dest, err := w.Destination(id)
	if err != nil {
		return err
	}
	if dest.IsOrigin() {
		return pkgerrors.NewValidationError("your current position is already set")
	}
	if dest.IsPlaceholder() && w.filledCount() >= w.cfg.MaxDestinations {
		return pkgerrors.NewValidationError("the wheel is full")
	}

	if err := dest.Fill(card); err != nil {
		return err
	}

	w.ensurePlaceholder()
	w.touch()
	w.addEvent(events.NewDestinationFilled(w.id.String(), id, card.Label(), w.updatedAt))

	return nil
}

// ClearDestination reverts a filled destination back to a placeholder,
// removing its connections first
func (w *Wheel) ClearDestination(id valueobjects.DestinationID) error {
	dest, err := w.Destination(id)
	if err != nil {
		return err
	}
	if dest.IsOrigin() {
		return pkgerrors.NewValidationError("your current position cannot be cleared")
	}
	if dest.IsPlaceholder() {
		return nil // Already empty
	}

	w.removeIncidentConnections(id)

	if err := dest.Clear(); err != nil {
		return err
	}

	w.touch()
	w.addEvent(events.NewDestinationCleared(w.id.String(), id, w.updatedAt))

	return nil
}

// DeleteDestination removes a filled, non-origin destination from the ring.
// Deleting an unknown id is a no-op.
func (w *Wheel) DeleteDestination(id valueobjects.DestinationID) error {
	dest, err := w.Destination(id)
	if err != nil {
		return nil // No-op for unknown ids
	}
	if dest.IsOrigin() {
		return pkgerrors.NewValidationError("your current position cannot be removed")
	}
	if dest.IsPlaceholder() {
		return pkgerrors.NewValidationError("empty slots cannot be removed")
	}

	w.removeIncidentConnections(id)

	kept := w.ring[:0]
	for _, d := range w.ring {
		if !d.ID().Equals(id) {
			kept = append(kept, d)
		}
	}
	w.ring = kept

	w.ensurePlaceholder()
	w.recomputeAngles()
	w.touch()
	w.addEvent(events.NewDestinationDeleted(w.id.String(), id, w.updatedAt))

	return nil
}

// SwapDestinations exchanges the ring positions of two filled destinations.
// Angles are re-derived from the new order.
func (w *Wheel) SwapDestinations(a, b valueobjects.DestinationID) error {
	if a.Equals(b) {
		return pkgerrors.NewValidationError("cannot swap a destination with itself")
	}

	ai, bi := -1, -1
	for i, d := range w.ring {
		if d.ID().Equals(a) {
			ai = i
		}
		if d.ID().Equals(b) {
			bi = i
		}
	}
	if ai < 0 || bi < 0 {
		return pkgerrors.NewNotFoundError("destination")
	}
	if w.ring[ai].IsPlaceholder() || w.ring[bi].IsPlaceholder() {
		return pkgerrors.NewValidationError("empty slots cannot be rearranged")
	}

	w.ring[ai], w.ring[bi] = w.ring[bi], w.ring[ai]
	w.recomputeAngles()
	w.touch()
	w.addEvent(events.NewDestinationsSwapped(w.id.String(), a, b, w.updatedAt))

	return nil
}

// recomputeAngles spreads the ring evenly: 360/n degrees apart starting at
// 0°. Even spacing is deliberate over stable placement so the wheel always
// looks balanced.
func (w *Wheel) recomputeAngles() {
	n := len(w.ring)
	if n == 0 {
		return
	}
	step := 360.0 / float64(n)
	for i, d := range w.ring {
		d.MoveTo(valueobjects.NewWheelPosition(step*float64(i), w.cfg.WheelRadius))
	}
}

// Outgoing returns the connection starting at the given destination, if any
func (w *Wheel) Outgoing(id valueobjects.DestinationID) *Connection {
	for _, c := range w.connections {
		if c.From.Equals(id) {
			return c
		}
	}
	return nil
}

// Incoming returns the connection ending at the given destination, if any
func (w *Wheel) Incoming(id valueobjects.DestinationID) *Connection {
	for _, c := range w.connections {
		if c.To.Equals(id) {
			return c
		}
	}
	return nil
}

// HasConnection reports whether a connection exists between the pair in
// either direction
func (w *Wheel) HasConnection(a, b valueobjects.DestinationID) bool {
	for _, c := range w.connections {
		if (c.From.Equals(a) && c.To.Equals(b)) || (c.From.Equals(b) && c.To.Equals(a)) {
			return true
		}
	}
	return false
}

// CanStartDrawing checks whether a draw gesture may begin at the given
// destination. The returned error message is the user-facing advisory.
func (w *Wheel) CanStartDrawing(id valueobjects.DestinationID) error {
	dest, err := w.Destination(id)
	if err != nil {
		return err
	}
	if dest.IsPlaceholder() {
		return pkgerrors.NewValidationError("add a destination here first")
	}

	// The first gesture of a session must begin at the origin
	if len(w.connections) == 0 {
		if !dest.IsOrigin() {
			return pkgerrors.NewValidationError("start your route from where you are")
		}
		return nil
	}

	if dest.IsOrigin() {
		if w.originEverFrom {
			return pkgerrors.NewValidationError("your route already starts here")
		}
		return nil
	}

	// A non-origin stop continues the chain only once it has been reached
	if w.Incoming(id) == nil {
		return pkgerrors.NewValidationError("connect this stop to your route first")
	}
	if w.Outgoing(id) != nil {
		return pkgerrors.NewValidationError("this stop already continues onward")
	}

	return nil
}

// Connect creates an unlocked connection between two destinations. The full
// set is re-checked in both directions immediately before insert; timers and
// pointer events race, and overlapping completions must collapse into one.
func (w *Wheel) Connect(from, to valueobjects.DestinationID) (*Connection, error) {
	if from.Equals(to) {
		return nil, pkgerrors.NewValidationError("a stop cannot connect to itself")
	}

	fromDest, err := w.Destination(from)
	if err != nil {
		return nil, err
	}
	toDest, err := w.Destination(to)
	if err != nil {
		return nil, err
	}
	if fromDest.IsPlaceholder() || toDest.IsPlaceholder() {
		return nil, pkgerrors.NewValidationError("empty slots cannot be connected")
	}

	if w.HasConnection(from, to) {
		return nil, pkgerrors.NewConflictError("these stops are already connected")
	}
	if w.Outgoing(from) != nil {
		return nil, pkgerrors.NewConflictError("this stop already continues onward")
	}
	if fromDest.IsOrigin() && w.originEverFrom {
		return nil, pkgerrors.NewConflictError("your route already starts here")
	}

	conn := &Connection{
		ID:        uuid.New().String(),
		From:      from,
		To:        to,
		Locked:    false,
		Mode:      modeCycle[len(w.connections)%len(modeCycle)],
		CreatedAt: time.Now(),
	}
	w.connections = append(w.connections, conn)

	if fromDest.IsOrigin() {
		w.originEverFrom = true
	}

	w.touch()
	w.addEvent(events.NewConnectionCreated(w.id.String(), from, to, string(conn.Mode), false, w.updatedAt))

	return conn, nil
}

// LockConnection confirms a provisional connection. Locking an already
// locked connection is a no-op.
func (w *Wheel) LockConnection(from, to valueobjects.DestinationID) error {
	for _, c := range w.connections {
		if c.From.Equals(from) && c.To.Equals(to) {
			if c.Locked {
				return nil
			}
			c.Locked = true
			w.touch()
			w.addEvent(events.NewConnectionLocked(w.id.String(), from, to, w.updatedAt))
			return nil
		}
	}
	return pkgerrors.NewNotFoundError("connection")
}

// ClearConnections discards the whole connection set and re-arms the origin,
// so a new route can be drawn from scratch
func (w *Wheel) ClearConnections() {
	if len(w.connections) == 0 && !w.originEverFrom {
		return
	}
	w.connections = nil
	w.originEverFrom = false
	w.touch()
	w.addEvent(events.NewConnectionsCleared(w.id.String(), w.updatedAt))
}

// removeIncidentConnections drops every connection touching the destination
func (w *Wheel) removeIncidentConnections(id valueobjects.DestinationID) {
	kept := w.connections[:0]
	for _, c := range w.connections {
		if !c.From.Equals(id) && !c.To.Equals(id) {
			kept = append(kept, c)
		}
	}
	w.connections = kept
}

// Linearize converts the wheel's current connection set into a route
func (w *Wheel) Linearize() *Route {
	dests := make(map[valueobjects.DestinationID]*entities.Destination, len(w.ring)+1)
	for _, d := range w.Destinations() {
		dests[d.ID()] = d
	}
	return Linearize(w.connections, dests, w.cfg)
}

// Validate ensures wheel invariants
func (w *Wheel) Validate() error {
	seenFrom := make(map[valueobjects.DestinationID]bool)
	seenPair := make(map[string]bool)
	for _, c := range w.connections {
		if c.From.Equals(c.To) {
			return pkgerrors.NewInternalError("connection loops back to its own stop")
		}
		if seenFrom[c.From] {
			return pkgerrors.NewInternalError("destination has more than one outgoing connection")
		}
		seenFrom[c.From] = true

		key := pairKey(c.From, c.To)
		if seenPair[key] {
			return pkgerrors.NewInternalError("duplicate connection between pair")
		}
		seenPair[key] = true
	}
	return nil
}

func pairKey(a, b valueobjects.DestinationID) string {
	if a.String() < b.String() {
		return a.String() + "|" + b.String()
	}
	return b.String() + "|" + a.String()
}

// GetUncommittedEvents returns all uncommitted domain events
func (w *Wheel) GetUncommittedEvents() []events.DomainEvent {
	all := make([]events.DomainEvent, len(w.events))
	copy(all, w.events)
	return all
}

// MarkEventsAsCommitted clears the uncommitted events
func (w *Wheel) MarkEventsAsCommitted() {
	w.events = []events.DomainEvent{}
}

func (w *Wheel) addEvent(event events.DomainEvent) {
	w.events = append(w.events, event)
}

func (w *Wheel) touch() {
	w.updatedAt = time.Now()
	w.version++
}
