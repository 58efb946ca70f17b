package client

import (
	"reflect"
	"testing"

	"github.com/evlive/lounge/internal/lounge"
	"github.com/evlive/lounge/internal/model"
)

func sampleSnapshot() lounge.Snapshot {
	return lounge.Snapshot{
		EventID: 1,
		Version: 3,
		Tables: []lounge.TableState{
			{
				ID:       "t1",
				Name:     "Fireside",
				MaxSeats: 4,
				Seats: map[int]model.Occupant{
					0: {UserID: "u9", DisplayName: "someone"},
				},
			},
		},
	}
}

func TestApplySnapshotIdempotent(t *testing.T) {
	v := NewView("me")
	snap := sampleSnapshot()

	v.ApplySnapshot(snap)
	first := v.Tables()
	v.ApplySnapshot(snap)
	second := v.Tables()

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("re-applying identical snapshot changed the view:\n%+v\nvs\n%+v", first, second)
	}
	if v.Version() != 3 {
		t.Fatalf("version = %d, want 3", v.Version())
	}
}

func TestApplySnapshotReplacesWholesale(t *testing.T) {
	v := NewView("me")
	v.ApplySnapshot(sampleSnapshot())

	// A later snapshot without the table removes it entirely; snapshots
	// replace, they never merge.
	v.ApplySnapshot(lounge.Snapshot{EventID: 1, Version: 4})
	if got := v.Tables(); len(got) != 0 {
		t.Fatalf("tables after empty snapshot = %+v, want none", got)
	}
}

func TestPendingJoinConfirmed(t *testing.T) {
	v := NewView("me")
	v.SetIdentity("u1")
	v.ApplySnapshot(sampleSnapshot())

	v.MarkPendingJoin("t1", 2)
	occ, tag, ok := v.SeatOccupant("t1", 2)
	if !ok || tag != SeatPending || occ.UserID != "u1" {
		t.Fatalf("pending seat = (%+v, %v, %v), want pending u1", occ, tag, ok)
	}

	snap := sampleSnapshot()
	snap.Version = 4
	snap.Tables[0].Seats[2] = model.Occupant{UserID: "u1", DisplayName: "me"}
	v.ApplySnapshot(snap)

	occ, tag, ok = v.SeatOccupant("t1", 2)
	if !ok || tag != SeatConfirmed || occ.UserID != "u1" {
		t.Fatalf("confirmed seat = (%+v, %v, %v), want confirmed u1", occ, tag, ok)
	}
	if v.Reverts() != 0 {
		t.Fatalf("reverts = %d, want 0", v.Reverts())
	}
}

func TestPendingJoinReverted(t *testing.T) {
	v := NewView("me")
	v.SetIdentity("u1")
	v.ApplySnapshot(sampleSnapshot())

	v.MarkPendingJoin("t1", 0) // seat already owned by u9 server-side

	// The next authoritative snapshot still shows u9: the optimistic
	// claim lost arbitration and is reverted.
	snap := sampleSnapshot()
	snap.Version = 4
	v.ApplySnapshot(snap)

	occ, tag, ok := v.SeatOccupant("t1", 0)
	if !ok || tag != SeatConfirmed || occ.UserID != "u9" {
		t.Fatalf("seat after revert = (%+v, %v, %v), want confirmed u9", occ, tag, ok)
	}
	if v.Reverts() != 1 {
		t.Fatalf("reverts = %d, want 1", v.Reverts())
	}
	// No stale pending claim lingers elsewhere.
	if _, _, ok := v.SeatOccupant("t1", 2); ok {
		t.Fatal("empty seat reported occupied after revert")
	}
}

func TestViewIsolatedFromSnapshotMutation(t *testing.T) {
	v := NewView("me")
	snap := sampleSnapshot()
	v.ApplySnapshot(snap)

	// Mutating the caller's snapshot after the fact must not leak into
	// the view.
	snap.Tables[0].Seats[1] = model.Occupant{UserID: "intruder"}
	if _, _, ok := v.SeatOccupant("t1", 1); ok {
		t.Fatal("view shares seat map with caller's snapshot")
	}
}
