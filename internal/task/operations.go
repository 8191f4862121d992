package task

import (
	"context"
	"strings"
	"time"

	"github.com/robalyx/dolmetscher/internal/backtranslate"
	"github.com/robalyx/dolmetscher/internal/profile"
	"github.com/robalyx/dolmetscher/internal/register"
	"go.uber.org/zap"
)

// Translate translates source into the slot's target using the persona and
// verifies the result with a back-translation.
func (o *Orchestrator) Translate(ctx context.Context, sess Session, id int, source, personaID string) (Snapshot, error) {
	s, err := o.slot(id)
	if err != nil {
		return Snapshot{}, err
	}

	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return Snapshot{}, ErrEmptySource
	}

	creds, err := sess.Credentials(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	if _, err := o.deps.Personas.ModelFor(personaID); err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	if s.state == StateTranslating {
		s.mu.Unlock()
		return Snapshot{}, ErrBusy
	}
	o.releaseDebounce(s.cancelDebounceLocked())
	s.generation++
	gen := s.generation
	s.state = StateTranslating
	s.persona = personaID
	s.lastErr = nil
	if s.source != source {
		s.setSourceLocked(source)
	}
	s.mu.Unlock()
	o.emit(EventSlotUpdated, s)

	rctx, cancel := o.requestContext(ctx)
	text, err := o.deps.Translator.Translate(rctx, creds.Primary, personaID, trimmed, creds.Glossary)
	cancel()

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return Snapshot{}, ErrSuperseded
	}

	if err != nil {
		s.state = StateFailed
		s.lastErr = err
		snap := s.snapshotLocked(o.opts.Now())
		s.mu.Unlock()

		o.logger.Warn("Translation failed", zap.Int("slot", id), zap.Error(err))
		o.notify(Event{Kind: EventSlotUpdated, SlotID: id, Snapshot: snap})
		return snap, err
	}

	s.setTargetLocked(text)
	s.back = backtranslate.Result{}
	s.state = StateEditing
	s.timer.Start(o.opts.Now())
	version := s.targetVersion
	s.mu.Unlock()
	o.emit(EventSlotUpdated, s)

	back := o.backTranslate(ctx, creds, text)

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return Snapshot{}, ErrSuperseded
	}
	if s.targetVersion != version {
		// A newer edit owns verification now.
		snap := s.snapshotLocked(o.opts.Now())
		s.mu.Unlock()
		return snap, nil
	}
	s.applyBackLocked(back)
	snap := s.snapshotLocked(o.opts.Now())
	s.mu.Unlock()

	o.notify(Event{Kind: EventSlotUpdated, SlotID: id, Snapshot: snap})
	return snap, nil
}

// EditSource replaces the source text without further effects.
func (o *Orchestrator) EditSource(id int, text string) (Snapshot, error) {
	s, err := o.slot(id)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	s.setSourceLocked(text)
	snap := s.snapshotLocked(o.opts.Now())
	s.mu.Unlock()

	o.notify(Event{Kind: EventSlotUpdated, SlotID: id, Snapshot: snap})
	return snap, nil
}

// EditTarget replaces the target text and schedules a verification after the
// debounce delay. Every edit reschedules the pending verification. Clearing
// the target settles the slot back to StateEmpty with nothing scheduled;
// typing into it again resumes editing and restarts the stopped timer.
func (o *Orchestrator) EditTarget(sess Session, id int, text string) (Snapshot, error) {
	s, err := o.slot(id)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	switch s.state {
	case StateVerified, StateDegradedVerified, StateEditing:
	case StateFailed:
		if strings.TrimSpace(s.target) == "" {
			s.mu.Unlock()
			return Snapshot{}, ErrInvalidTransition
		}
	case StateEmpty:
		// A cleared target can be refilled while the source remains
		if strings.TrimSpace(s.source) == "" {
			s.mu.Unlock()
			return Snapshot{}, ErrInvalidTransition
		}
	case StateTranslating:
		s.mu.Unlock()
		return Snapshot{}, ErrInvalidTransition
	}

	o.releaseDebounce(s.cancelDebounceLocked())
	s.setTargetLocked(text)

	if strings.TrimSpace(text) == "" {
		s.state = StateEmpty
	} else {
		if s.timer.State() == TimerStopped {
			s.timer.Start(o.opts.Now())
		}
		s.state = StateEditing
		o.scheduleLocked(sess, s)
	}
	snap := s.snapshotLocked(o.opts.Now())
	s.mu.Unlock()

	o.notify(Event{Kind: EventSlotUpdated, SlotID: id, Snapshot: snap})
	return snap, nil
}

// Clear wipes the slot and cancels all of its pending work.
func (o *Orchestrator) Clear(id int) (Snapshot, error) {
	s, err := o.slot(id)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	o.releaseDebounce(s.resetLocked())
	snap := s.snapshotLocked(o.opts.Now())
	s.mu.Unlock()

	o.notify(Event{Kind: EventSlotUpdated, SlotID: id, Snapshot: snap})
	return snap, nil
}

// scheduleLocked arms the debounced verification. The caller must hold s.mu
// and have cancelled any previous handle.
func (o *Orchestrator) scheduleLocked(sess Session, s *Slot) {
	if o.ctx.Err() != nil {
		return
	}

	gen := s.generation
	seq := s.debounceSeq

	o.pending.Add(1)
	s.debounce = time.AfterFunc(o.opts.DebounceDelay, func() {
		defer o.pending.Done()
		o.verifyEdit(sess, s, gen, seq)
	})
}

// verifyEdit runs when the debounce fires. Results for a target that changed
// in the meantime are discarded.
func (o *Orchestrator) verifyEdit(sess Session, s *Slot, gen, seq uint64) {
	s.mu.Lock()
	if s.generation != gen || s.debounceSeq != seq {
		s.mu.Unlock()
		return
	}
	s.debounce = nil
	text := strings.TrimSpace(s.target)
	version := s.targetVersion
	s.mu.Unlock()

	if text == "" {
		return
	}

	creds, err := sess.Credentials(o.ctx)
	if err != nil {
		o.logger.Debug("Verifying edit without credentials", zap.Int("slot", s.id), zap.Error(err))
	}

	back := o.backTranslate(o.ctx, creds, text)

	s.mu.Lock()
	if s.generation != gen || s.debounceSeq != seq || s.targetVersion != version {
		s.mu.Unlock()
		return
	}
	s.reg = register.Detect(text)
	s.applyBackLocked(back)
	snap := s.snapshotLocked(o.opts.Now())
	s.mu.Unlock()

	o.notify(Event{Kind: EventSlotUpdated, SlotID: s.id, Snapshot: snap})
}

// backTranslate verifies text under the request timeout.
func (o *Orchestrator) backTranslate(ctx context.Context, creds profile.Credentials, text string) backtranslate.Result {
	rctx, cancel := o.requestContext(ctx)
	defer cancel()

	return o.deps.BackTranslator.BackTranslate(rctx, credentialsFor(creds), text)
}
