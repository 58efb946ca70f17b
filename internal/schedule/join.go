package schedule

import (
	"fmt"
	"time"

	"github.com/evlive/lounge/internal/model"
)

// Join button labels.  The label set is part of the client contract, so
// the exact strings are fixed here rather than left to the UI layer.
const (
	LabelNotStarted     = "Event Not Started"
	LabelJoinLive       = "Join Live"
	LabelJoinWaiting    = "Join Waiting Room"
	LabelWatchRecording = "Watch Recording"
	LabelEnded          = "Event Ended"
	LabelCancelled      = "Event Cancelled"
	LabelLoading        = "Loading..."
)

// JoinInput carries everything Decide needs for one evaluation.  Sessions
// may be nil for single-day events.  IsHost marks the owner/host role,
// which may bypass early-join gating but never a fully ended state.
type JoinInput struct {
	Event    model.Event
	Sessions []model.Session
	IsHost   bool
	Now      time.Time
}

// JoinDecision is the single join affordance produced for an event at one
// instant.  TargetSessionID is zero for single-day events and for any
// decision that does not point at a specific session.  Decisions go stale
// as the clock moves; callers re-evaluate on every tick (at least every
// ten seconds) and on any event or session data refresh.
type JoinDecision struct {
	Label           string `json:"label"`
	Enabled         bool   `json:"enabled"`
	TargetSessionID uint64 `json:"target_session_id,omitempty"`
	Phase           string `json:"phase"`
}

// Decide computes the join decision for an event at in.Now.  Single-day
// events delegate to the window classifier on the event's own interval;
// multi-day events resolve their sub-sessions first and use the fixed
// early-join window for the upcoming session.
func Decide(in JoinInput) JoinDecision {
	if in.Event.IsMultiDay {
		return decideMultiDay(in)
	}
	return decideSingleDay(in)
}

func decideSingleDay(in JoinInput) JoinDecision {
	w := EventWindow(in.Event)
	phase := Classify(in.Now, w)
	d := JoinDecision{Phase: phase.String()}

	switch phase {
	case PhaseCancelled:
		d.Label = LabelCancelled
	case PhasePre:
		// Hosts may enter ahead of the early-join window as long as the
		// event is otherwise joinable in the future; a missing or
		// inverted schedule stays locked for everyone.
		if in.IsHost && validWindow(w) {
			d.Label = LabelJoinLive
			d.Enabled = true
		} else {
			d.Label = LabelNotStarted
		}
	case PhaseEarly, PhaseGrace, PhaseActive:
		d.Enabled = true
		if RequiresWaitingRoom(in.Now, w) {
			d.Label = LabelJoinWaiting
		} else {
			d.Label = LabelJoinLive
		}
	case PhasePost:
		if in.Event.RecordingURL != "" {
			d.Label = LabelWatchRecording
			d.Enabled = true
		} else {
			d.Label = LabelEnded
		}
	}
	return d
}

func decideMultiDay(in JoinInput) JoinDecision {
	// Terminal statuses win over the session timetable: a manually ended
	// event is post even while a session interval still contains now, and
	// no role bypasses that.
	if in.Event.Status == model.EventStatusCancelled {
		return JoinDecision{Label: LabelCancelled, Phase: PhaseCancelled.String()}
	}
	if in.Event.Status == model.EventStatusEnded {
		return endedDecision(in.Event)
	}
	res := Resolve(in.Sessions, in.Now)

	if res.Current != nil {
		return JoinDecision{
			Label:           fmt.Sprintf("Join %s", res.Current.Title),
			Enabled:         true,
			TargetSessionID: res.Current.ID,
			Phase:           PhaseActive.String(),
		}
	}
	if res.Next != nil {
		until := res.Next.StartsAt.Sub(in.Now)
		if until <= DefaultEarlyJoinWindow || in.IsHost {
			// Within the early-join window, or a host bypassing it.
			return JoinDecision{
				Label:           fmt.Sprintf("Join %s", res.Next.Title),
				Enabled:         true,
				TargetSessionID: res.Next.ID,
				Phase:           PhaseEarly.String(),
			}
		}
		return JoinDecision{
			Label:           fmt.Sprintf("Waiting for %s", res.Next.Title),
			TargetSessionID: res.Next.ID,
			Phase:           PhasePre.String(),
		}
	}

	// No current and no upcoming session.  The event is over once its own
	// end time has passed or the last session has finished.
	ended := (!in.Event.EndsAt.IsZero() && !in.Now.Before(in.Event.EndsAt)) ||
		(res.Last != nil && !in.Now.Before(res.Last.EndsAt))
	if ended {
		return endedDecision(in.Event)
	}

	// Reachable when session data has not arrived yet or is internally
	// inconsistent.  Stay disabled and let the next tick or data refresh
	// resolve it; this state is never promoted to "ended" early.
	return JoinDecision{Label: LabelLoading, Phase: PhasePre.String()}
}

func endedDecision(ev model.Event) JoinDecision {
	if ev.RecordingURL != "" {
		return JoinDecision{Label: LabelWatchRecording, Enabled: true, Phase: PhasePost.String()}
	}
	return JoinDecision{Label: LabelEnded, Phase: PhasePost.String()}
}

func validWindow(w Window) bool {
	return !w.Start.IsZero() && !w.End.IsZero() && w.End.After(w.Start)
}
