package schedule

import (
	"testing"
	"time"

	"github.com/evlive/lounge/internal/model"
)

var base = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func window(waitingRoom bool, grace time.Duration) Window {
	return Window{
		Start:              base,
		End:                base.Add(2 * time.Hour),
		GracePeriod:        grace,
		EarlyJoin:          DefaultEarlyJoinWindow,
		WaitingRoomEnabled: waitingRoom,
		Status:             model.EventStatusScheduled,
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name  string
		now   time.Time
		w     Window
		want  Phase
	}{
		{"well before early window", base.Add(-time.Hour), window(false, 0), PhasePre},
		{"one second before early window", base.Add(-DefaultEarlyJoinWindow - time.Second), window(false, 0), PhasePre},
		{"early window opens", base.Add(-DefaultEarlyJoinWindow), window(false, 0), PhaseEarly},
		{"just before start", base.Add(-time.Second), window(false, 0), PhaseEarly},
		{"at start without grace", base, window(false, 0), PhaseActive},
		{"at start with grace", base, window(true, 10*time.Minute), PhaseGrace},
		{"inside grace", base.Add(9 * time.Minute), window(true, 10*time.Minute), PhaseGrace},
		{"grace elapsed", base.Add(10 * time.Minute), window(true, 10*time.Minute), PhaseActive},
		{"grace configured but waiting room off", base.Add(5 * time.Minute), window(false, 10*time.Minute), PhaseActive},
		{"mid event", base.Add(time.Hour), window(true, 10*time.Minute), PhaseActive},
		{"at end", base.Add(2 * time.Hour), window(true, 10*time.Minute), PhasePost},
		{"after end", base.Add(3 * time.Hour), window(false, 0), PhasePost},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.now, tc.w); got != tc.want {
				t.Fatalf("Classify(%s) = %v, want %v", tc.now.Format(time.RFC3339), got, tc.want)
			}
		})
	}
}

func TestClassifyTerminalStatuses(t *testing.T) {
	w := window(false, 0)
	w.Status = model.EventStatusEnded
	// A manually ended event is post even while the clock says active.
	if got := Classify(base.Add(time.Hour), w); got != PhasePost {
		t.Fatalf("ended event classified as %v, want post", got)
	}
	w.Status = model.EventStatusCancelled
	if got := Classify(base.Add(time.Hour), w); got != PhaseCancelled {
		t.Fatalf("cancelled event classified as %v, want cancelled", got)
	}
	if PhaseCancelled.Joinable() {
		t.Fatal("cancelled phase must never be joinable")
	}
}

func TestClassifyInvalidTimestamps(t *testing.T) {
	cases := []Window{
		{Status: model.EventStatusScheduled},                                          // both zero
		{Start: base, Status: model.EventStatusScheduled},                             // missing end
		{End: base, Status: model.EventStatusScheduled},                               // missing start
		{Start: base, End: base.Add(-time.Hour), Status: model.EventStatusScheduled}, // inverted
	}
	for _, w := range cases {
		if got := Classify(base, w); got != PhasePre {
			t.Fatalf("invalid window classified as %v, want pre", got)
		}
		if got := Classify(base, w); got.Joinable() {
			t.Fatal("invalid window must not be joinable")
		}
	}
}

func TestRequiresWaitingRoom(t *testing.T) {
	w := window(true, 10*time.Minute)

	// During the early-join window and the grace period the waiting room
	// is bypassed.
	bypassed := []time.Time{
		base.Add(-DefaultEarlyJoinWindow), // early window opens
		base.Add(-time.Second),            // just before start
		base,                              // grace begins
		base.Add(5 * time.Minute),
		base.Add(10*time.Minute - time.Second), // last grace instant
	}
	for _, now := range bypassed {
		if RequiresWaitingRoom(now, w) {
			t.Fatalf("waiting room required at %s inside a bypass window", now.Format(time.RFC3339))
		}
	}
	// Grace elapsed while the event is still active: requirement follows
	// the waiting_room_enabled flag.
	if !RequiresWaitingRoom(base.Add(11*time.Minute), w) {
		t.Fatal("waiting room not required after grace elapsed")
	}
	w.WaitingRoomEnabled = false
	w.GracePeriod = 0
	if RequiresWaitingRoom(base.Add(11*time.Minute), w) {
		t.Fatal("waiting room required with waiting room disabled")
	}
}

func TestEventWindowDefaults(t *testing.T) {
	ev := model.Event{
		StartsAt:           base,
		EndsAt:             base.Add(time.Hour),
		GracePeriodMin:     10,
		WaitingRoomEnabled: true,
		Status:             model.EventStatusScheduled,
	}
	w := EventWindow(ev)
	if w.GracePeriod != 10*time.Minute {
		t.Fatalf("grace period = %v, want 10m", w.GracePeriod)
	}
	if w.EarlyJoin != DefaultEarlyJoinWindow {
		t.Fatalf("early join = %v, want %v", w.EarlyJoin, DefaultEarlyJoinWindow)
	}
}
