// Package schedule implements the live-access decision engine: pure time
// window classification, sub-session resolution and the join state machine
// that turns an event's configuration into a single join affordance.
// Everything here is side-effect free; "now" is always an explicit
// argument so that decisions are reproducible and testable.
package schedule

import (
	"time"

	"github.com/evlive/lounge/internal/model"
)

// Phase classifies an instant relative to one event or session window.
type Phase int

const (
	// PhasePre means now is before the early-join window opens.
	PhasePre Phase = iota
	// PhaseEarly means the early-join window is open but the event has
	// not started yet; direct join is allowed ahead of time.
	PhaseEarly
	// PhaseGrace means the event has started within its grace period;
	// direct join is allowed even when a waiting room is enabled.
	PhaseGrace
	// PhaseActive means the event is running outside any grace window.
	PhaseActive
	// PhasePost means the event has ended, either by the clock or by a
	// manual end from the host.
	PhasePost
	// PhaseCancelled is the terminal classification of a cancelled
	// event; it is never joinable.
	PhaseCancelled
)

// String returns a lowercase name for the phase, used in logs and JSON.
func (p Phase) String() string {
	switch p {
	case PhasePre:
		return "pre"
	case PhaseEarly:
		return "early"
	case PhaseGrace:
		return "grace"
	case PhaseActive:
		return "active"
	case PhasePost:
		return "post"
	case PhaseCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Default windows applied when the organiser has not configured their own.
const (
	DefaultGracePeriod     = 10 * time.Minute
	DefaultEarlyJoinWindow = 15 * time.Minute
)

// Window carries everything Classify needs about one interval.  Start and
// End come from the event or session row; the remaining fields come from
// the parent event's configuration.
type Window struct {
	Start              time.Time
	End                time.Time
	GracePeriod        time.Duration
	EarlyJoin          time.Duration
	WaitingRoomEnabled bool
	Status             string
}

// EventWindow builds a Window from an event row, applying the default
// early-join window.  A zero GracePeriodMin means grace is disabled for
// that event rather than falling back to the default.
func EventWindow(ev model.Event) Window {
	return Window{
		Start:              ev.StartsAt,
		End:                ev.EndsAt,
		GracePeriod:        time.Duration(ev.GracePeriodMin) * time.Minute,
		EarlyJoin:          DefaultEarlyJoinWindow,
		WaitingRoomEnabled: ev.WaitingRoomEnabled,
		Status:             ev.Status,
	}
}

// Classify places now relative to the window.  A manually ended event is
// always PhasePost regardless of timestamps, and a cancelled event is
// always PhaseCancelled.  Missing or inverted timestamps classify as
// PhasePre (never joinable) rather than returning an error; stale timing
// data means "not joinable", never a failure.
func Classify(now time.Time, w Window) Phase {
	switch w.Status {
	case model.EventStatusEnded:
		return PhasePost
	case model.EventStatusCancelled:
		return PhaseCancelled
	}
	if w.Start.IsZero() || w.End.IsZero() || !w.End.After(w.Start) {
		return PhasePre
	}
	if now.Before(w.Start.Add(-w.EarlyJoin)) {
		return PhasePre
	}
	if now.Before(w.Start) {
		return PhaseEarly
	}
	if !now.Before(w.End) {
		return PhasePost
	}
	// Started and not ended.  The grace phase is only reachable when a
	// waiting room is enabled and a positive grace period is configured.
	if w.WaitingRoomEnabled && w.GracePeriod > 0 && now.Before(w.Start.Add(w.GracePeriod)) {
		return PhaseGrace
	}
	return PhaseActive
}

// RequiresWaitingRoom reports whether a join at now must go through the
// waiting room.  Both the early-join window and the grace period bypass
// it: anyone admitted ahead of start or shortly after it goes straight
// in.  The rule is recomputed from scratch on every call; its result is
// only valid for the instant it was computed for and must never be
// cached across ticks.
func RequiresWaitingRoom(now time.Time, w Window) bool {
	switch Classify(now, w) {
	case PhaseEarly, PhaseGrace:
		return false
	}
	return w.WaitingRoomEnabled
}

// Joinable reports whether the phase permits entering the live session.
func (p Phase) Joinable() bool {
	return p == PhaseEarly || p == PhaseGrace || p == PhaseActive
}
