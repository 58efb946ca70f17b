// Package realtime implements the websocket fan-out hub for lounge state.
// The protocol is snapshot-replace: after the initial welcome, every frame
// a client receives carrying lounge state is the complete authoritative
// state of the event's lounge, never a diff.
package realtime

import (
	"encoding/json"

	"github.com/evlive/lounge/internal/lounge"
)

// Server-to-client frame types.
const (
	TypeWelcome     = "welcome"
	TypeLoungeState = "lounge_state"
	TypeError       = "error"
)

// Client-to-server actions.
const (
	ActionJoinTable  = "join_table"
	ActionLeaveTable = "leave_table"
)

// ServerMessage is the envelope for every frame the server sends.  State
// deliberately has no omitempty: a lounge_state frame for an empty lounge
// must still carry "state": [], because the frame is the complete
// replacement state and a missing key is not the same as an empty lounge.
type ServerMessage struct {
	Type       string              `json:"type"`
	YourUserID string              `json:"your_user_id,omitempty"`
	State      []lounge.TableState `json:"state"`
	Message    string              `json:"message,omitempty"`
}

// ClientCommand is the envelope for every frame a client sends.  SeatIndex
// is only meaningful for join_table.
type ClientCommand struct {
	Action    string `json:"action"`
	TableID   string `json:"table_id,omitempty"`
	SeatIndex int    `json:"seat_index"`
}

func encodeWelcome(userID string) []byte {
	b, _ := json.Marshal(ServerMessage{Type: TypeWelcome, YourUserID: userID})
	return b
}

func encodeState(snap lounge.Snapshot) []byte {
	state := snap.Tables
	if state == nil {
		state = []lounge.TableState{}
	}
	b, _ := json.Marshal(ServerMessage{Type: TypeLoungeState, State: state})
	return b
}

func encodeError(msg string) []byte {
	b, _ := json.Marshal(ServerMessage{Type: TypeError, Message: msg})
	return b
}
