package schedule

import (
	"sort"
	"time"

	"github.com/evlive/lounge/internal/model"
)

// Resolution is the outcome of scanning a multi-day event's sessions at a
// given instant.  Current is the session whose interval contains now, Next
// is the first session starting after now, and Last is the final session
// in start order regardless of time.  Any of the three may be nil when
// the session list is empty; Current and Next are nil when no session
// matches.
type Resolution struct {
	Current *model.Session
	Next    *model.Session
	Last    *model.Session
}

// Resolve finds the current, next and last sessions relative to now.  The
// input is sorted defensively by start time before scanning; callers
// guarantee non-overlapping intervals, and when that guarantee is violated
// the first match in sort order wins.  The input slice is not modified.
func Resolve(sessions []model.Session, now time.Time) Resolution {
	if len(sessions) == 0 {
		return Resolution{}
	}
	ordered := make([]model.Session, len(sessions))
	copy(ordered, sessions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartsAt.Before(ordered[j].StartsAt)
	})

	var res Resolution
	res.Last = &ordered[len(ordered)-1]
	for i := range ordered {
		s := &ordered[i]
		if res.Current == nil && !now.Before(s.StartsAt) && now.Before(s.EndsAt) {
			res.Current = s
		}
		if res.Next == nil && s.StartsAt.After(now) {
			res.Next = s
		}
		if res.Current != nil && res.Next != nil {
			break
		}
	}
	return res
}
