package task

// EventKind identifies a change notification.
type EventKind int

const (
	EventSlotUpdated EventKind = iota
	EventTimerTick
	EventSlotAdded
	EventSlotRemoved
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventSlotUpdated:
		return "slot_updated"
	case EventTimerTick:
		return "timer_tick"
	case EventSlotAdded:
		return "slot_added"
	case EventSlotRemoved:
		return "slot_removed"
	}
	return "unknown"
}

// Event describes a change to one slot.
type Event struct {
	Kind     EventKind
	SlotID   int
	Snapshot Snapshot
}

// Listener receives change notifications. It is called from multiple
// goroutines and never while a slot is locked.
type Listener func(Event)

// emit sends the current snapshot of s to the listener.
func (o *Orchestrator) emit(kind EventKind, s *Slot) {
	if o.opts.Listener == nil {
		return
	}

	s.mu.Lock()
	snap := s.snapshotLocked(o.opts.Now())
	s.mu.Unlock()

	o.notify(Event{Kind: kind, SlotID: s.id, Snapshot: snap})
}

func (o *Orchestrator) notify(event Event) {
	if o.opts.Listener != nil {
		o.opts.Listener(event)
	}
}
