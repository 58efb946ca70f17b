package lounge

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/evlive/lounge/internal/model"
)

// DefaultTableIcon is used when a table is created without an explicit
// icon reference.
const DefaultTableIcon = "table"

// Lounge is the authoritative seat map for a single event.  All mutations
// go through Apply, which arbitrates conflicts under one mutex: the only
// ordering guarantee across concurrent intents is "last accepted write
// per seat wins", and losers are simply not applied.  Clients observe the
// outcome through the snapshots broadcast after each accepted mutation.
type Lounge struct {
	eventID uint64

	mu      sync.Mutex
	order   []string                      // table ids in creation order
	tables  map[string]*model.LoungeTable // table id -> table
	version uint64

	log *logrus.Entry
}

// NewLounge returns an empty lounge for the event.
func NewLounge(eventID uint64, log *logrus.Entry) *Lounge {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Lounge{
		eventID: eventID,
		tables:  make(map[string]*model.LoungeTable),
		log:     log.WithField("event_id", eventID),
	}
}

// Apply executes one intent against the lounge and returns the resulting
// snapshot.  On success the snapshot version has been bumped and the
// returned snapshot is the one to broadcast.  On error the lounge is
// unchanged and the zero snapshot is returned; whether the error reaches
// the requesting user is the transport's decision, not the registry's.
func (l *Lounge) Apply(in Intent) (Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var err error
	switch it := in.(type) {
	case JoinTable:
		err = l.join(it)
	case LeaveTable:
		l.leave(it.UserID)
	case CreateTable:
		err = l.create(it)
	case DeleteTable:
		err = l.delete(it)
	case UpdateIcon:
		err = l.updateIcon(it)
	default:
		err = ErrInvalidTable
	}
	if err != nil {
		return Snapshot{}, err
	}
	l.version++
	return l.snapshotLocked(), nil
}

// Snapshot returns the current authoritative state without mutating it.
func (l *Lounge) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// SeatOf reports which seat the user currently holds, if any.
func (l *Lounge) SeatOf(userID string) (tableID string, seatIndex int, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seatOfLocked(userID)
}

func (l *Lounge) join(it JoinTable) error {
	t, ok := l.tables[it.TableID]
	if !ok {
		return ErrTableNotFound
	}
	if it.SeatIndex < 0 || it.SeatIndex >= t.MaxSeats {
		return ErrSeatOutOfRange
	}
	if _, taken := t.Seats[it.SeatIndex]; taken {
		return ErrSeatTaken
	}
	// One seat per user across all tables of the event.  Enforced here so
	// a second claim loses instead of double-seating the user.
	if _, _, seated := l.seatOfLocked(it.Occupant.UserID); seated {
		return ErrAlreadySeated
	}
	t.Seats[it.SeatIndex] = it.Occupant
	l.log.WithFields(logrus.Fields{
		"table_id": it.TableID,
		"seat":     it.SeatIndex,
		"user_id":  it.Occupant.UserID,
	}).Debug("seat claimed")
	return nil
}

func (l *Lounge) leave(userID string) {
	tableID, seat, ok := l.seatOfLocked(userID)
	if !ok {
		return
	}
	delete(l.tables[tableID].Seats, seat)
	l.log.WithFields(logrus.Fields{
		"table_id": tableID,
		"seat":     seat,
		"user_id":  userID,
	}).Debug("seat released")
}

func (l *Lounge) create(it CreateTable) error {
	if !it.Admin {
		return ErrForbidden
	}
	if strings.TrimSpace(it.Name) == "" || it.MaxSeats <= 0 {
		return ErrInvalidTable
	}
	icon := it.Icon
	if icon == "" {
		icon = DefaultTableIcon
	}
	t := &model.LoungeTable{
		ID:       uuid.NewString(),
		EventID:  l.eventID,
		Name:     it.Name,
		MaxSeats: it.MaxSeats,
		Icon:     icon,
		Seats:    make(map[int]model.Occupant),
	}
	l.tables[t.ID] = t
	l.order = append(l.order, t.ID)
	return nil
}

func (l *Lounge) delete(it DeleteTable) error {
	if !it.Admin {
		return ErrForbidden
	}
	if _, ok := l.tables[it.TableID]; !ok {
		return ErrTableNotFound
	}
	delete(l.tables, it.TableID)
	for i, id := range l.order {
		if id == it.TableID {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return nil
}

func (l *Lounge) updateIcon(it UpdateIcon) error {
	if !it.Admin {
		return ErrForbidden
	}
	t, ok := l.tables[it.TableID]
	if !ok {
		return ErrTableNotFound
	}
	t.Icon = it.Icon
	return nil
}

func (l *Lounge) seatOfLocked(userID string) (string, int, bool) {
	if userID == "" {
		return "", 0, false
	}
	for _, id := range l.order {
		for idx, occ := range l.tables[id].Seats {
			if occ.UserID == userID {
				return id, idx, true
			}
		}
	}
	return "", 0, false
}

func (l *Lounge) snapshotLocked() Snapshot {
	snap := Snapshot{
		EventID: l.eventID,
		Version: l.version,
		Tables:  make([]TableState, 0, len(l.order)),
	}
	for _, id := range l.order {
		t := l.tables[id]
		seats := make(map[int]model.Occupant, len(t.Seats))
		for idx, occ := range t.Seats {
			seats[idx] = occ
		}
		snap.Tables = append(snap.Tables, TableState{
			ID:       t.ID,
			Name:     t.Name,
			MaxSeats: t.MaxSeats,
			Icon:     t.Icon,
			Seats:    seats,
		})
	}
	return snap
}

// Registry hands out one Lounge per event, creating it on first use.  The
// registry itself holds no seat state; it only scopes lounges by event.
type Registry struct {
	mu      sync.Mutex
	lounges map[uint64]*Lounge
	log     *logrus.Entry
}

// NewRegistry returns an empty registry.
func NewRegistry(log *logrus.Entry) *Registry {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Registry{lounges: make(map[uint64]*Lounge), log: log}
}

// Lookup returns the lounge for the event without creating one.  Read
// paths use this so that queries for arbitrary event ids cannot grow the
// registry.
func (r *Registry) Lookup(eventID uint64) (*Lounge, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lounges[eventID]
	return l, ok
}

// ForEvent returns the lounge for the event, creating it if needed.
func (r *Registry) ForEvent(eventID uint64) *Lounge {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.lounges[eventID]; ok {
		return l
	}
	l := NewLounge(eventID, r.log)
	r.lounges[eventID] = l
	return l
}
