package lounge

import "github.com/evlive/lounge/internal/model"

// TableState is the wire representation of one table inside a snapshot.
// Seats maps seat index to occupant; free seats are absent from the map.
type TableState struct {
	ID       string                 `json:"id"`
	Name     string                 `json:"name"`
	MaxSeats int                    `json:"max_seats"`
	Icon     string                 `json:"icon,omitempty"`
	Seats    map[int]model.Occupant `json:"seats"`
}

// Snapshot is the complete, authoritative state of one event's lounge.
// The protocol is snapshot-replace: every snapshot a client receives
// supersedes whatever it held before, and applying the same snapshot
// twice is observably a no-op.  Version increases with every accepted
// mutation and exists for logging and cache freshness, not for diffing.
type Snapshot struct {
	EventID uint64       `json:"event_id"`
	Version uint64       `json:"version"`
	Tables  []TableState `json:"state"`
}

// Clone returns a deep copy of the snapshot so that callers can hand it
// to other goroutines without sharing seat maps.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{EventID: s.EventID, Version: s.Version}
	if s.Tables == nil {
		return out
	}
	out.Tables = make([]TableState, len(s.Tables))
	for i, t := range s.Tables {
		seats := make(map[int]model.Occupant, len(t.Seats))
		for idx, occ := range t.Seats {
			seats[idx] = occ
		}
		t.Seats = seats
		out.Tables[i] = t
	}
	return out
}
