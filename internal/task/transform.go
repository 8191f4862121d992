package task

import (
	"context"
	"strings"

	"github.com/robalyx/dolmetscher/internal/ai"
	"go.uber.org/zap"
)

// Transform applies a post-edit transform to the slot. Target transforms
// replace the target and re-verify it. The comment strip works on the source
// and a second call restores the stripped text.
func (o *Orchestrator) Transform(ctx context.Context, sess Session, id int, kind ai.TransformKind) (Snapshot, error) {
	s, err := o.slot(id)
	if err != nil {
		return Snapshot{}, err
	}

	if kind.OnSource() {
		return o.stripComments(ctx, sess, s, kind)
	}

	s.mu.Lock()
	if strings.TrimSpace(s.target) == "" {
		s.mu.Unlock()
		return Snapshot{}, ErrNoTarget
	}
	if s.state == StateTranslating {
		s.mu.Unlock()
		return Snapshot{}, ErrBusy
	}
	text := s.target
	gen := s.generation
	version := s.targetVersion
	s.mu.Unlock()

	creds, err := sess.Credentials(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	rctx, cancel := o.requestContext(ctx)
	result, err := o.deps.Transformer.Transform(rctx, creds.Primary, kind, text)
	cancel()
	if err != nil {
		o.logger.Warn("Transform failed",
			zap.Int("slot", id),
			zap.String("kind", kind.String()),
			zap.Error(err))
		return Snapshot{}, err
	}

	s.mu.Lock()
	if s.generation != gen || s.targetVersion != version {
		s.mu.Unlock()
		return Snapshot{}, ErrSuperseded
	}
	o.releaseDebounce(s.cancelDebounceLocked())
	s.setTargetLocked(result)
	s.state = StateEditing
	version = s.targetVersion
	s.mu.Unlock()
	o.emit(EventSlotUpdated, s)

	back := o.backTranslate(ctx, creds, result)

	s.mu.Lock()
	if s.generation != gen || s.targetVersion != version {
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

// stripComments removes annotations from the source, or restores the backup
// taken by the previous strip. Only one level of undo is kept.
func (o *Orchestrator) stripComments(ctx context.Context, sess Session, s *Slot, kind ai.TransformKind) (Snapshot, error) {
	s.mu.Lock()
	empty := strings.TrimSpace(s.source) == ""
	s.mu.Unlock()
	if empty {
		return Snapshot{}, ErrNoSource
	}

	creds, err := sess.Credentials(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	if s.backup != nil {
		s.setSourceLocked(*s.backup)
		s.backup = nil
		snap := s.snapshotLocked(o.opts.Now())
		s.mu.Unlock()

		o.notify(Event{Kind: EventSlotUpdated, SlotID: s.id, Snapshot: snap})
		return snap, nil
	}
	original := s.source
	gen := s.generation
	version := s.sourceVersion
	s.mu.Unlock()

	rctx, cancel := o.requestContext(ctx)
	stripped, err := o.deps.Transformer.Transform(rctx, creds.Primary, kind, original)
	cancel()
	if err != nil {
		o.logger.Warn("Comment strip failed", zap.Int("slot", s.id), zap.Error(err))
		return Snapshot{}, err
	}

	s.mu.Lock()
	if s.generation != gen || s.sourceVersion != version {
		s.mu.Unlock()
		return Snapshot{}, ErrSuperseded
	}
	s.setSourceLocked(stripped)
	s.backup = &original
	snap := s.snapshotLocked(o.opts.Now())
	s.mu.Unlock()

	o.notify(Event{Kind: EventSlotUpdated, SlotID: s.id, Snapshot: snap})
	return snap, nil
}
