package task

import (
	"strings"
	"sync"
	"time"

	"github.com/robalyx/dolmetscher/internal/backtranslate"
	"github.com/robalyx/dolmetscher/internal/register"
)

// FirstSlotID is the id of the slot that is always active.
const FirstSlotID = 1

// Snapshot is a consistent copy of a slot's fields.
type Snapshot struct {
	ID                      int
	Active                  bool
	Removable               bool
	State                   State
	Persona                 string
	Source                  string
	Target                  string
	BackTranslation         string
	BackTranslationSource   backtranslate.Source
	BackTranslationDegraded bool
	Register                register.Register
	Timer                   TimerState
	Elapsed                 string
	TimerProgress           float64
	UndoAvailable           bool
	Err                     error
}

// HasTarget reports whether the slot holds a non-blank target text.
func (s Snapshot) HasTarget() bool {
	return strings.TrimSpace(s.Target) != ""
}

// Slot is one independent unit of translation work.
// All fields are guarded by mu; network calls never run while it is held.
type Slot struct {
	mu sync.Mutex

	id      int
	active  bool
	state   State
	persona string

	source  string
	target  string
	back    backtranslate.Result
	reg     register.Register
	backup  *string
	lastErr error

	// generation is bumped by translate, clear and remove.
	generation uint64
	// targetVersion is bumped by every write to target.
	targetVersion uint64
	// sourceVersion is bumped by every write to source.
	sourceVersion uint64

	debounce    *time.Timer
	debounceSeq uint64

	timer Stopwatch
}

func newSlot(id int, timerCap time.Duration) *Slot {
	return &Slot{
		id:     id,
		active: id == FirstSlotID,
		timer:  NewStopwatch(timerCap),
	}
}

// snapshotLocked copies the slot fields. The caller must hold mu.
func (s *Slot) snapshotLocked(now time.Time) Snapshot {
	return Snapshot{
		ID:                      s.id,
		Active:                  s.active,
		Removable:               s.id != FirstSlotID,
		State:                   s.state,
		Persona:                 s.persona,
		Source:                  s.source,
		Target:                  s.target,
		BackTranslation:         s.back.Text,
		BackTranslationSource:   s.back.Source,
		BackTranslationDegraded: s.back.Degraded,
		Register:                s.reg,
		Timer:                   s.timer.State(),
		Elapsed:                 s.timer.Display(now),
		TimerProgress:           s.timer.Progress(now),
		UndoAvailable:           s.backup != nil,
		Err:                     s.lastErr,
	}
}

// setTargetLocked replaces the target, bumps its version and refreshes the
// register label. An empty target drops the label and stops the timer.
func (s *Slot) setTargetLocked(text string) {
	s.target = text
	s.targetVersion++

	if strings.TrimSpace(text) == "" {
		s.reg = register.Unknown
		s.back = backtranslate.Result{}
		s.timer.Stop()
		return
	}
	s.reg = register.Detect(text)
}

// setSourceLocked replaces the source and bumps its version.
func (s *Slot) setSourceLocked(text string) {
	s.source = text
	s.sourceVersion++
}

// applyBackLocked stores a verification result and settles the state.
func (s *Slot) applyBackLocked(result backtranslate.Result) {
	s.back = result
	if result.Degraded {
		s.state = StateDegradedVerified
		return
	}
	s.state = StateVerified
}

// cancelDebounceLocked stops a pending verification. It reports whether the
// callback was prevented from running.
func (s *Slot) cancelDebounceLocked() bool {
	s.debounceSeq++
	if s.debounce == nil {
		return false
	}

	stopped := s.debounce.Stop()
	s.debounce = nil
	return stopped
}

// resetLocked wipes every field and invalidates in-flight work. The caller
// must account for the returned cancellation like cancelDebounceLocked.
func (s *Slot) resetLocked() bool {
	stopped := s.cancelDebounceLocked()

	s.generation++
	s.state = StateEmpty
	s.persona = ""
	s.setSourceLocked("")
	s.setTargetLocked("")
	s.back = backtranslate.Result{}
	s.reg = register.Unknown
	s.backup = nil
	s.lastErr = nil
	s.timer.Reset()

	return stopped
}
