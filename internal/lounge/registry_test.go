package lounge

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/evlive/lounge/internal/model"
)

func newTestLounge(t *testing.T) (*Lounge, string) {
	t.Helper()
	l := NewLounge(42, nil)
	snap, err := l.Apply(CreateTable{Name: "Fireside", MaxSeats: 4, Admin: true})
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	return l, snap.Tables[0].ID
}

func occupant(id string) model.Occupant {
	return model.Occupant{UserID: id, DisplayName: "user " + id}
}

func TestJoinAndSnapshot(t *testing.T) {
	l, tableID := newTestLounge(t)

	snap, err := l.Apply(JoinTable{TableID: tableID, SeatIndex: 2, Occupant: occupant("u1")})
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if got := snap.Tables[0].Seats[2].UserID; got != "u1" {
		t.Fatalf("seat 2 occupant = %q, want u1", got)
	}
	if snap.Version != 2 {
		t.Fatalf("version = %d, want 2 (create + join)", snap.Version)
	}
}

func TestJoinConflictsRejected(t *testing.T) {
	l, tableID := newTestLounge(t)

	if _, err := l.Apply(JoinTable{TableID: tableID, SeatIndex: 0, Occupant: occupant("u1")}); err != nil {
		t.Fatalf("first join: %v", err)
	}
	// Same seat, different user: arbitration drops the second claim.
	if _, err := l.Apply(JoinTable{TableID: tableID, SeatIndex: 0, Occupant: occupant("u2")}); !errors.Is(err, ErrSeatTaken) {
		t.Fatalf("second claim error = %v, want ErrSeatTaken", err)
	}
	// Same user, different seat: one seat per user event-wide.
	if _, err := l.Apply(JoinTable{TableID: tableID, SeatIndex: 1, Occupant: occupant("u1")}); !errors.Is(err, ErrAlreadySeated) {
		t.Fatalf("double seat error = %v, want ErrAlreadySeated", err)
	}
	if got := l.Snapshot().Tables[0].Seats[0].UserID; got != "u1" {
		t.Fatalf("seat 0 occupant = %q, want u1 (first writer wins)", got)
	}
}

func TestCrossTableExclusivity(t *testing.T) {
	l, first := newTestLounge(t)
	snap, err := l.Apply(CreateTable{Name: "Quiet Corner", MaxSeats: 2, Admin: true})
	if err != nil {
		t.Fatalf("create second table: %v", err)
	}
	second := snap.Tables[1].ID

	if _, err := l.Apply(JoinTable{TableID: first, SeatIndex: 0, Occupant: occupant("u1")}); err != nil {
		t.Fatalf("join first table: %v", err)
	}
	if _, err := l.Apply(JoinTable{TableID: second, SeatIndex: 0, Occupant: occupant("u1")}); !errors.Is(err, ErrAlreadySeated) {
		t.Fatalf("cross-table claim error = %v, want ErrAlreadySeated", err)
	}
	// After leaving, the same user may sit anywhere again.
	if _, err := l.Apply(LeaveTable{UserID: "u1"}); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if _, err := l.Apply(JoinTable{TableID: second, SeatIndex: 0, Occupant: occupant("u1")}); err != nil {
		t.Fatalf("rejoin after leave: %v", err)
	}
}

func TestLeaveIdempotent(t *testing.T) {
	l, tableID := newTestLounge(t)
	if _, err := l.Apply(JoinTable{TableID: tableID, SeatIndex: 1, Occupant: occupant("u1")}); err != nil {
		t.Fatalf("join: %v", err)
	}

	first, err := l.Apply(LeaveTable{UserID: "u1"})
	if err != nil {
		t.Fatalf("first leave: %v", err)
	}
	second, err := l.Apply(LeaveTable{UserID: "u1"})
	if err != nil {
		t.Fatalf("second leave: %v", err)
	}
	if !reflect.DeepEqual(first.Tables, second.Tables) {
		t.Fatalf("second leave changed state: %+v vs %+v", first.Tables, second.Tables)
	}
	if len(second.Tables[0].Seats) != 0 {
		t.Fatalf("seats after leave = %v, want empty", second.Tables[0].Seats)
	}
}

func TestSameSeatMutualExclusion(t *testing.T) {
	l, tableID := newTestLounge(t)

	// Many concurrent claims for the same (table, seat): exactly one must
	// end up reflected in the snapshot.
	const claimants = 32
	var wg sync.WaitGroup
	wins := make(chan string, claimants)
	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			occ := occupant(string(rune('a' + n%26)))
			occ.UserID = occ.UserID + string(rune('0'+n/26))
			if _, err := l.Apply(JoinTable{TableID: tableID, SeatIndex: 3, Occupant: occ}); err == nil {
				wins <- occ.UserID
			}
		}(i)
	}
	wg.Wait()
	close(wins)

	var winners []string
	for w := range wins {
		winners = append(winners, w)
	}
	if len(winners) != 1 {
		t.Fatalf("winners = %v, want exactly one", winners)
	}
	if got := l.Snapshot().Tables[0].Seats[3].UserID; got != winners[0] {
		t.Fatalf("seat occupant = %q, want winner %q", got, winners[0])
	}
}

func TestAdminOnlyMutations(t *testing.T) {
	l, tableID := newTestLounge(t)
	if _, err := l.Apply(CreateTable{Name: "x", MaxSeats: 2}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-admin create error = %v, want ErrForbidden", err)
	}
	if _, err := l.Apply(DeleteTable{TableID: tableID}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-admin delete error = %v, want ErrForbidden", err)
	}
	if _, err := l.Apply(UpdateIcon{TableID: tableID, Icon: "campfire"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-admin icon error = %v, want ErrForbidden", err)
	}

	snap, err := l.Apply(UpdateIcon{TableID: tableID, Icon: "campfire", Admin: true})
	if err != nil {
		t.Fatalf("admin icon update: %v", err)
	}
	if snap.Tables[0].Icon != "campfire" {
		t.Fatalf("icon = %q, want campfire", snap.Tables[0].Icon)
	}

	if _, err := l.Apply(DeleteTable{TableID: tableID, Admin: true}); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if got := len(l.Snapshot().Tables); got != 0 {
		t.Fatalf("tables after delete = %d, want 0", got)
	}
}

func TestCreateTableValidation(t *testing.T) {
	l := NewLounge(1, nil)
	if _, err := l.Apply(CreateTable{Name: "  ", MaxSeats: 4, Admin: true}); !errors.Is(err, ErrInvalidTable) {
		t.Fatalf("blank name error = %v, want ErrInvalidTable", err)
	}
	if _, err := l.Apply(CreateTable{Name: "ok", MaxSeats: 0, Admin: true}); !errors.Is(err, ErrInvalidTable) {
		t.Fatalf("zero seats error = %v, want ErrInvalidTable", err)
	}
}

func TestJoinValidation(t *testing.T) {
	l, tableID := newTestLounge(t)
	if _, err := l.Apply(JoinTable{TableID: "missing", SeatIndex: 0, Occupant: occupant("u1")}); !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("missing table error = %v, want ErrTableNotFound", err)
	}
	if _, err := l.Apply(JoinTable{TableID: tableID, SeatIndex: 4, Occupant: occupant("u1")}); !errors.Is(err, ErrSeatOutOfRange) {
		t.Fatalf("out of range error = %v, want ErrSeatOutOfRange", err)
	}
	if _, err := l.Apply(JoinTable{TableID: tableID, SeatIndex: -1, Occupant: occupant("u1")}); !errors.Is(err, ErrSeatOutOfRange) {
		t.Fatalf("negative index error = %v, want ErrSeatOutOfRange", err)
	}
}

func TestRegistryScopesByEvent(t *testing.T) {
	r := NewRegistry(nil)
	a := r.ForEvent(1)
	b := r.ForEvent(2)
	if a == b {
		t.Fatal("different events share a lounge")
	}
	if r.ForEvent(1) != a {
		t.Fatal("same event returned a different lounge")
	}

	if _, err := a.Apply(CreateTable{Name: "A", MaxSeats: 2, Admin: true}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := len(b.Snapshot().Tables); got != 0 {
		t.Fatalf("event 2 tables = %d, want 0", got)
	}
}

func TestLookupDoesNotCreate(t *testing.T) {
	r := NewRegistry(nil)
	if _, ok := r.Lookup(42); ok {
		t.Fatal("Lookup reported a lounge that was never created")
	}
	if _, ok := r.Lookup(42); ok {
		t.Fatal("Lookup allocated a lounge as a side effect")
	}

	l := r.ForEvent(42)
	got, ok := r.Lookup(42)
	if !ok || got != l {
		t.Fatalf("Lookup after ForEvent = (%p, %v), want the same lounge", got, ok)
	}
}
