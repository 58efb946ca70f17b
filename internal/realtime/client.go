package realtime

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/evlive/lounge/internal/model"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4096
	sendBuffer = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin checking is delegated to the HTTP layer; the channel token
	// has already been validated by the time we upgrade.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Identity is the server-assigned identity of a connecting client,
// resolved from the channel token before the upgrade.
type Identity struct {
	UserID      string
	DisplayName string
	AvatarURL   string
}

// Client is one websocket connection watching one event's lounge.  Frames
// to the client flow through the buffered send channel so the hub's
// fan-out never blocks on a slow connection.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	eventID  uint64
	userID   string
	occupant model.Occupant

	// Highest snapshot version delivered to this client.  Touched only on
	// the hub's Run goroutine (greeting and fan-out), so no lock.
	lastVersion uint64
}

// HandleConnection upgrades the HTTP request to a websocket, registers
// the client with the hub and starts its read and write pumps.  It
// returns once the upgrade has happened (or failed); the pumps run on
// their own goroutines until the connection drops.
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request, eventID uint64, id Identity) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &Client{
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		eventID: eventID,
		userID:  id.UserID,
		occupant: model.Occupant{
			UserID:      id.UserID,
			DisplayName: id.DisplayName,
			AvatarURL:   id.AvatarURL,
		},
	}
	h.register <- c
	go c.writePump()
	go c.readPump()
	return nil
}

// enqueue offers a frame to the client without blocking.  It reports
// false when the client's buffer is full, which the hub treats as a dead
// connection.
func (c *Client) enqueue(payload []byte) bool {
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		var cmd ClientCommand
		if err := c.conn.ReadJSON(&cmd); err != nil {
			return
		}
		c.hub.handleCommand(c, cmd)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
