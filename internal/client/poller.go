package client

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/evlive/lounge/internal/schedule"
)

// Poller is the fallback half of the sync layer: a fixed ten-second
// re-fetch of the full snapshot, running regardless of the websocket's
// state.  Because both sources apply complete snapshots through the same
// entry point, their interleaving needs no coordination; the poller
// guarantees eventual consistency even if the push channel silently
// stalls.
type Poller struct {
	rest    *REST
	view    *View
	eventID uint64
	ticker  *schedule.Ticker
	log     *logrus.Entry
	once    sync.Once
}

// NewPoller builds a poller over the REST client and view.  The cadence
// is the coarse tick interval.
func NewPoller(rest *REST, view *View, eventID uint64, log *logrus.Entry) *Poller {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Poller{
		rest:    rest,
		view:    view,
		eventID: eventID,
		ticker:  schedule.NewTicker(schedule.CoarseTickInterval),
		log:     log.WithField("event_id", eventID),
	}
}

// Run polls until ctx is cancelled.  Fetch failures keep the last known
// good state and keep polling; nothing here is fatal.  Calling Run again
// on the same poller is a no-op: one subscription, one tick loop, so a
// second call can never double the fetch rate.
func (p *Poller) Run(ctx context.Context) {
	p.once.Do(func() {
		p.ticker.Subscribe(func(uint64) {
			snap, err := p.rest.FetchLoungeState(ctx, p.eventID)
			if err != nil {
				p.log.WithError(err).Warn("snapshot poll failed, keeping last known state")
				return
			}
			p.view.ApplySnapshot(snap)
		})
		p.ticker.Run(ctx)
	})
}
