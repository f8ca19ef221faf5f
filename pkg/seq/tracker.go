package seq

import "github.com/paneldue/paneldue-go/pkg/wire"

// Unseen is the LastSeen value held before the first observation and after
// a reset. Seen, not this value, tells whether a number was observed.
const Unseen uint16 = 0xFFFF

// Entry is the tracking state of one subsystem.
type Entry struct {
	LastSeen uint16
	Seen     bool
	Dirty    bool
}

// Tracker holds sequence state for all subsystems.
type Tracker struct {
	entries [wire.NumSubsystems]Entry
	upTime  uint32
	resets  int
}

// NewTracker returns a tracker in its reset state.
func NewTracker() *Tracker {
	t := &Tracker{}
	t.Reset()
	return t
}

// Observe records a sequence number from a heartbeat. It returns true when
// the subsystem became dirty.
func (t *Tracker) Observe(s wire.Subsystem, v uint16) bool {
	if !s.Valid() {
		return false
	}
	e := &t.entries[s]
	if e.Seen && e.LastSeen == v {
		return false
	}
	e.LastSeen = v
	e.Seen = true
	e.Dirty = true
	return true
}

// Done clears the dirty flag after a scoped response for s completed.
func (t *Tracker) Done(s wire.Subsystem) {
	if s.Valid() {
		t.entries[s].Dirty = false
	}
}

// IsDirty reports whether s awaits a refresh.
func (t *Tracker) IsDirty(s wire.Subsystem) bool {
	return s.Valid() && t.entries[s].Dirty
}

// Entry returns the tracking state of s.
func (t *Tracker) Entry(s wire.Subsystem) Entry {
	if !s.Valid() {
		return Entry{LastSeen: Unseen}
	}
	return t.entries[s]
}

// Next returns the first dirty subsystem in poll order that is in fetch.
func (t *Tracker) Next(fetch wire.SubsystemSet) (wire.Subsystem, bool) {
	for _, s := range wire.PollOrder {
		if fetch.Has(s) && t.entries[s].Dirty {
			return s, true
		}
	}
	return wire.SubsystemNone, false
}

// Dirty returns all dirty subsystems in poll order.
func (t *Tracker) Dirty() []wire.Subsystem {
	var out []wire.Subsystem
	for _, s := range wire.PollOrder {
		if t.entries[s].Dirty {
			out = append(out, s)
		}
	}
	return out
}

// Reset forgets every sequence number and clears all dirty flags. The next
// heartbeat then marks every reported subsystem dirty.
func (t *Tracker) Reset() {
	for i := range t.entries {
		t.entries[i] = Entry{LastSeen: Unseen}
	}
}

// ObserveUptime records the controller uptime in seconds. When it is lower
// than the previous value the controller restarted: the tracker resets and
// ObserveUptime returns true.
func (t *Tracker) ObserveUptime(v uint32) bool {
	restarted := v < t.upTime
	t.upTime = v
	if restarted {
		t.Reset()
		t.resets++
	}
	return restarted
}

// UpTime returns the last observed controller uptime.
func (t *Tracker) UpTime() uint32 {
	return t.upTime
}

// Restarts returns how many controller restarts were detected.
func (t *Tracker) Restarts() int {
	return t.resets
}
