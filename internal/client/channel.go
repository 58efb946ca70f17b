package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/evlive/lounge/internal/lounge"
	"github.com/evlive/lounge/internal/realtime"
)

// Channel is the push half of the sync layer: one websocket per (event,
// client) pair.  Opening an already open channel is a no-op, a closed
// channel never auto-retries (the owning view re-opens on next
// visibility), and every lounge_state frame funnels into the shared
// View.ApplySnapshot together with the polling fallback.
type Channel struct {
	baseURL string // ws:// or wss:// origin of the lounge service
	token   string
	eventID uint64
	view    *View
	log     *logrus.Entry

	mu    sync.Mutex
	state ChannelState
	conn  *websocket.Conn
}

// NewChannel builds a channel for one event.  baseURL is the websocket
// origin, e.g. "wss://lounge.example.com"; token authenticates the client
// and travels as a query parameter per the channel contract.
func NewChannel(baseURL, token string, eventID uint64, view *View, log *logrus.Entry) *Channel {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Channel{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		eventID: eventID,
		view:    view,
		log:     log.WithField("event_id", eventID),
		state:   StateIdle,
	}
}

// State returns the channel's lifecycle state.
func (ch *Channel) State() ChannelState {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.state
}

// Open dials the realtime endpoint and starts the read loop.  If the
// channel is already connecting or open this is a no-op: exactly one live
// channel per (event, client) pair.  A previously closed channel may be
// re-opened by the owning view.
func (ch *Channel) Open(ctx context.Context) error {
	ch.mu.Lock()
	if ch.state == StateConnecting || ch.state == StateOpen {
		ch.mu.Unlock()
		return nil
	}
	ch.state = StateConnecting
	ch.mu.Unlock()
	ch.view.SetStatus(StateConnecting)

	endpoint := fmt.Sprintf("%s/ws/lounge/%d?token=%s", ch.baseURL, ch.eventID, url.QueryEscape(ch.token))
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		ch.mu.Lock()
		ch.state = StateClosed
		ch.mu.Unlock()
		ch.view.SetStatus(StateClosed)
		return err
	}

	ch.mu.Lock()
	ch.conn = conn
	ch.state = StateOpen
	ch.mu.Unlock()
	ch.view.SetStatus(StateOpen)

	go ch.readLoop(conn)
	return nil
}

// Close tears down the socket.  Safe to call in any state and more than
// once.  The channel does not reconnect on its own afterwards.
func (ch *Channel) Close() {
	ch.mu.Lock()
	conn := ch.conn
	ch.conn = nil
	ch.state = StateClosed
	ch.mu.Unlock()
	ch.view.SetStatus(StateClosed)
	if conn != nil {
		_ = conn.Close()
	}
}

// SendJoin issues a join_table intent and optimistically marks the seat
// pending in the view.  The intent is fire-and-forget: the outcome
// arrives (or fails to arrive) with the next snapshot.
func (ch *Channel) SendJoin(tableID string, seatIndex int) error {
	ch.view.MarkPendingJoin(tableID, seatIndex)
	return ch.send(realtime.ClientCommand{Action: realtime.ActionJoinTable, TableID: tableID, SeatIndex: seatIndex})
}

// SendLeave issues a leave_table intent.  Idempotent on the server.
func (ch *Channel) SendLeave() error {
	return ch.send(realtime.ClientCommand{Action: realtime.ActionLeaveTable})
}

func (ch *Channel) send(cmd realtime.ClientCommand) error {
	ch.mu.Lock()
	conn := ch.conn
	state := ch.state
	ch.mu.Unlock()
	if state != StateOpen || conn == nil {
		return fmt.Errorf("channel not open (state %d)", state)
	}
	return conn.WriteJSON(cmd)
}

func (ch *Channel) readLoop(conn *websocket.Conn) {
	defer func() {
		ch.mu.Lock()
		if ch.conn == conn {
			ch.conn = nil
			ch.state = StateClosed
		}
		ch.mu.Unlock()
		ch.view.SetStatus(StateClosed)
		_ = conn.Close()
	}()
	for {
		var msg realtime.ServerMessage
		if err := conn.ReadJSON(&msg); err != nil {
			// Channel failure degrades to polling-only mode; the poller
			// keeps the view eventually consistent.
			ch.log.WithError(err).Warn("realtime channel closed, relying on polling fallback")
			return
		}
		switch msg.Type {
		case realtime.TypeWelcome:
			ch.view.SetIdentity(msg.YourUserID)
		case realtime.TypeLoungeState:
			ch.view.ApplySnapshot(lounge.Snapshot{EventID: ch.eventID, Tables: msg.State})
		case realtime.TypeError:
			// Advisory only, never surfaced as a user-facing failure.
			ch.log.WithField("message", msg.Message).Warn("server error frame")
		default:
			ch.log.WithField("type", msg.Type).Debug("ignoring unknown frame type")
		}
	}
}
