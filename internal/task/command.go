package task

import (
	"context"
	"fmt"

	"github.com/robalyx/dolmetscher/internal/ai"
)

// Op is an orchestrator operation.
type Op int

const (
	OpAddSlot Op = iota
	OpRemoveSlot
	OpTranslate
	OpEditSource
	OpEditTarget
	OpClear
	OpTransform
)

// String returns the operation name.
func (op Op) String() string {
	switch op {
	case OpAddSlot:
		return "add-slot"
	case OpRemoveSlot:
		return "remove-slot"
	case OpTranslate:
		return "translate"
	case OpEditSource:
		return "edit-source"
	case OpEditTarget:
		return "edit-target"
	case OpClear:
		return "clear"
	case OpTransform:
		return "transform"
	}
	return "unknown"
}

// Command is a request for one orchestrator operation on one slot.
// Fields not used by the operation are ignored.
type Command struct {
	Op        Op
	SlotID    int
	Text      string
	Persona   string
	Transform ai.TransformKind
}

// Execute runs cmd and returns the resulting snapshot of the affected slot.
// A removed slot is returned as an inactive empty snapshot.
func (o *Orchestrator) Execute(ctx context.Context, sess Session, cmd Command) (Snapshot, error) {
	switch cmd.Op {
	case OpAddSlot:
		id, ok := o.Add()
		if !ok {
			return Snapshot{}, ErrCapacityReached
		}
		return o.Snapshot(id)
	case OpRemoveSlot:
		if !o.Remove(cmd.SlotID) {
			if cmd.SlotID == FirstSlotID {
				return Snapshot{}, ErrNotRemovable
			}
			return Snapshot{}, ErrUnknownSlot
		}
		return Snapshot{ID: cmd.SlotID, Removable: true}, nil
	case OpTranslate:
		return o.Translate(ctx, sess, cmd.SlotID, cmd.Text, cmd.Persona)
	case OpEditSource:
		return o.EditSource(cmd.SlotID, cmd.Text)
	case OpEditTarget:
		return o.EditTarget(sess, cmd.SlotID, cmd.Text)
	case OpClear:
		return o.Clear(cmd.SlotID)
	case OpTransform:
		return o.Transform(ctx, sess, cmd.SlotID, cmd.Transform)
	}
	return Snapshot{}, fmt.Errorf("%w: %d", ErrUnknownOperation, cmd.Op)
}
