// Package client implements the client-observable side of the lounge
// contract: the websocket sync channel, the polling fallback and the
// local read-replica view with optimistic seat claims.  The view is never
// the source of truth; every snapshot received from any source replaces
// it wholesale through the single ApplySnapshot entry point.
package client

import (
	"sync"

	"github.com/evlive/lounge/internal/lounge"
	"github.com/evlive/lounge/internal/model"
)

// ChannelState tracks the realtime channel lifecycle.  The view exposes
// it so the UI can show a connection indicator; polling continues in
// every state.
type ChannelState int32

const (
	StateIdle ChannelState = iota
	StateConnecting
	StateOpen
	StateClosed
)

// SeatTag distinguishes server-confirmed occupancy from an optimistic
// local claim that the next authoritative snapshot may still revert.
type SeatTag int

const (
	SeatConfirmed SeatTag = iota
	SeatPending
)

type pendingSeat struct {
	tableID   string
	seatIndex int
}

// View is the ephemeral client-local cache of one event's lounge.  All
// methods are safe for concurrent use; the websocket read loop and the
// poll ticker both reconcile through ApplySnapshot, and because every
// snapshot is a complete replacement their interleaving is harmless.
type View struct {
	mu         sync.RWMutex
	tables     []lounge.TableState
	version    uint64
	myUserID   string
	myUsername string
	status     ChannelState
	pending    *pendingSeat
	reverts    int
}

// NewView returns an empty view for the given display name.  The user id
// is assigned later by the server's welcome message.
func NewView(username string) *View {
	return &View{myUsername: username}
}

// SetIdentity records the server-assigned user id from the welcome frame.
func (v *View) SetIdentity(userID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.myUserID = userID
}

// Identity returns the server-assigned user id and the display name.
func (v *View) Identity() (userID, username string) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.myUserID, v.myUsername
}

// SetStatus records the channel state.
func (v *View) SetStatus(s ChannelState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = s
}

// Status returns the last recorded channel state.
func (v *View) Status() ChannelState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.status
}

// ApplySnapshot replaces the entire local state with the snapshot.  It is
// idempotent: applying the same snapshot twice yields no observable
// change.  A pending optimistic claim is resolved here: if the snapshot
// shows this user in the claimed seat the claim is confirmed, otherwise
// it is reverted and the seat renders whatever the server said.
func (v *View) ApplySnapshot(snap lounge.Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	cloned := snap.Clone()
	v.tables = cloned.Tables
	v.version = cloned.Version
	if v.pending == nil {
		return
	}
	if occ, ok := v.seatLocked(v.pending.tableID, v.pending.seatIndex); ok && occ.UserID == v.myUserID && v.myUserID != "" {
		v.pending = nil // confirmed
		return
	}
	// The server did not reflect the claim: someone else won, the table
	// vanished, or the join was rejected.  Drop the optimism.
	v.pending = nil
	v.reverts++
}

// MarkPendingJoin records an optimistic claim so the UI can show the user
// seated immediately.  It replaces any earlier pending claim.
func (v *View) MarkPendingJoin(tableID string, seatIndex int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pending = &pendingSeat{tableID: tableID, seatIndex: seatIndex}
}

// Reverts counts pending claims that a snapshot failed to confirm.  Tests
// assert on this instead of relying on timing.
func (v *View) Reverts() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.reverts
}

// Tables returns a deep copy of the confirmed table state.
func (v *View) Tables() []lounge.TableState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	snap := lounge.Snapshot{Tables: v.tables}
	return snap.Clone().Tables
}

// Version returns the version of the last applied snapshot.
func (v *View) Version() uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.version
}

// SeatOccupant reports who occupies the seat and whether the occupancy is
// confirmed or an optimistic pending claim by this user.
func (v *View) SeatOccupant(tableID string, seatIndex int) (model.Occupant, SeatTag, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if occ, ok := v.seatLocked(tableID, seatIndex); ok {
		return occ, SeatConfirmed, true
	}
	if v.pending != nil && v.pending.tableID == tableID && v.pending.seatIndex == seatIndex {
		return model.Occupant{UserID: v.myUserID, DisplayName: v.myUsername}, SeatPending, true
	}
	return model.Occupant{}, SeatConfirmed, false
}

func (v *View) seatLocked(tableID string, seatIndex int) (model.Occupant, bool) {
	for i := range v.tables {
		if v.tables[i].ID == tableID {
			occ, ok := v.tables[i].Seats[seatIndex]
			return occ, ok
		}
	}
	return model.Occupant{}, false
}
