package realtime

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/evlive/lounge/internal/lounge"
)

// SnapshotSink receives every accepted snapshot so that supporting
// infrastructure (the redis snapshot cache) can observe mutations
// without the hub knowing about them.  Sinks must not block; slow work
// belongs on the sink's own goroutine.
type SnapshotSink func(snap lounge.Snapshot)

// IntentSink receives every accepted intent together with the snapshot
// it produced.  Unlike SnapshotSink it sees what changed, not just the
// result, which is what the activity audit trail needs.  Same contract:
// must not block.
type IntentSink func(eventID uint64, in lounge.Intent, snap lounge.Snapshot)

// Hub fans lounge snapshots out to all websocket clients of each event.
// One hub serves the whole process; clients are grouped by event id.  All
// client-map bookkeeping happens on the Run goroutine, fed by the
// register, unregister and broadcast channels, so no locks are needed on
// the hot path.
type Hub struct {
	registry *lounge.Registry

	register   chan *Client
	unregister chan *Client
	broadcast  chan lounge.Snapshot

	mu     sync.RWMutex
	events map[uint64]map[*Client]bool

	sinks       []SnapshotSink
	intentSinks []IntentSink
	log         *logrus.Entry
}

// NewHub returns a hub bound to the seat registry.  Run must be started
// before clients connect.
func NewHub(registry *lounge.Registry, log *logrus.Entry) *Hub {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Hub{
		registry:   registry,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan lounge.Snapshot, 16),
		events:     make(map[uint64]map[*Client]bool),
		log:        log,
	}
}

// AddSink registers a snapshot observer.  Call before Run.
func (h *Hub) AddSink(sink SnapshotSink) {
	h.sinks = append(h.sinks, sink)
}

// AddIntentSink registers an accepted-intent observer.  Call before Run.
func (h *Hub) AddIntentSink(sink IntentSink) {
	h.intentSinks = append(h.intentSinks, sink)
}

// Run owns the client maps until ctx is cancelled.  On cancellation every
// client's send channel is closed, which unblocks the write pumps.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case c := <-h.register:
			h.addClient(c)
		case c := <-h.unregister:
			h.removeClient(c)
		case snap := <-h.broadcast:
			h.fanOut(snap)
		}
	}
}

// Apply runs one intent against the event's lounge and, when accepted,
// broadcasts the resulting snapshot to every client of that event and
// feeds the registered sinks.  Rejected intents leave state untouched;
// the caller decides whether the error is surfaced (REST) or silently
// dropped (realtime seat conflicts).
func (h *Hub) Apply(eventID uint64, in lounge.Intent) (lounge.Snapshot, error) {
	snap, err := h.registry.ForEvent(eventID).Apply(in)
	if err != nil {
		return lounge.Snapshot{}, err
	}
	for _, sink := range h.intentSinks {
		sink(eventID, in, snap)
	}
	h.Broadcast(snap)
	return snap, nil
}

// Broadcast queues a snapshot for fan-out to all clients of its event.
func (h *Hub) Broadcast(snap lounge.Snapshot) {
	for _, sink := range h.sinks {
		sink(snap)
	}
	select {
	case h.broadcast <- snap:
	default:
		// The broadcast queue is full; drop this snapshot.  A newer one
		// is already queued behind it and snapshots are cumulative.
		h.log.WithField("event_id", snap.EventID).Warn("broadcast queue full, snapshot dropped")
	}
}

// ClientCount reports how many clients are connected for the event.
func (h *Hub) ClientCount(eventID uint64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.events[eventID])
}

func (h *Hub) addClient(c *Client) {
	h.mu.Lock()
	if h.events[c.eventID] == nil {
		h.events[c.eventID] = make(map[*Client]bool)
	}
	h.events[c.eventID][c] = true
	h.mu.Unlock()

	// Greet the new client: server-assigned identity first, then the full
	// current state so it can render immediately.
	snap := h.registry.ForEvent(c.eventID).Snapshot()
	c.lastVersion = snap.Version
	c.enqueue(encodeWelcome(c.userID))
	c.enqueue(encodeState(snap))
	h.log.WithFields(logrus.Fields{"event_id": c.eventID, "user_id": c.userID}).Info("lounge client connected")
}

func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	clients := h.events[c.eventID]
	if clients != nil && clients[c] {
		delete(clients, c)
		close(c.send)
		if len(clients) == 0 {
			delete(h.events, c.eventID)
		}
	}
	h.mu.Unlock()
	h.log.WithFields(logrus.Fields{"event_id": c.eventID, "user_id": c.userID}).Info("lounge client disconnected")
}

func (h *Hub) fanOut(snap lounge.Snapshot) {
	payload := encodeState(snap)
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.events[snap.EventID]))
	for c := range h.events[snap.EventID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		// A snapshot queued before the client registered can surface after
		// its greeting snapshot; delivering it would roll the client back
		// to stale state until the next mutation or poll.
		if snap.Version <= c.lastVersion {
			continue
		}
		c.lastVersion = snap.Version
		if !c.enqueue(payload) {
			// Client cannot keep up; disconnect it rather than block the
			// fan-out.  It will reconnect and receive a fresh snapshot.
			h.removeClient(c)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for eventID, clients := range h.events {
		for c := range clients {
			close(c.send)
		}
		delete(h.events, eventID)
	}
}

// handleCommand translates a wire command from one client into a registry
// intent.  Seat conflicts are arbitration, not errors: the loser's intent
// is dropped silently and the next snapshot corrects its optimistic view.
// Anything else comes back as an advisory error frame.
func (h *Hub) handleCommand(c *Client, cmd ClientCommand) {
	var in lounge.Intent
	switch cmd.Action {
	case ActionJoinTable:
		in = lounge.JoinTable{TableID: cmd.TableID, SeatIndex: cmd.SeatIndex, Occupant: c.occupant}
	case ActionLeaveTable:
		in = lounge.LeaveTable{UserID: c.userID}
	default:
		c.enqueue(encodeError("unknown action"))
		return
	}
	if _, err := h.Apply(c.eventID, in); err != nil {
		if errors.Is(err, lounge.ErrSeatTaken) || errors.Is(err, lounge.ErrAlreadySeated) {
			h.log.WithFields(logrus.Fields{
				"event_id": c.eventID,
				"user_id":  c.userID,
				"table_id": cmd.TableID,
				"seat":     cmd.SeatIndex,
			}).Debug("seat claim lost arbitration")
			return
		}
		c.enqueue(encodeError(err.Error()))
	}
}
