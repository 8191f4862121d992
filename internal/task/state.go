package task

import "errors"

var (
	// ErrBusy indicates the slot is already translating.
	ErrBusy = errors.New("slot is translating")
	// ErrEmptySource indicates there is no source text to translate.
	ErrEmptySource = errors.New("source text is empty")
	// ErrNoTarget indicates a transform needs a target text.
	ErrNoTarget = errors.New("no target text to transform")
	// ErrNoSource indicates a transform needs a source text.
	ErrNoSource = errors.New("no source text to transform")
	// ErrInvalidTransition indicates the operation is not allowed in the slot's state.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrSuperseded indicates a result arrived after the slot moved on and was discarded.
	ErrSuperseded = errors.New("result superseded")
	// ErrUnknownSlot indicates the slot id does not refer to an active slot.
	ErrUnknownSlot = errors.New("unknown slot")
	// ErrCapacityReached indicates every slot is already active.
	ErrCapacityReached = errors.New("slot capacity reached")
	// ErrNotRemovable indicates the slot cannot be removed.
	ErrNotRemovable = errors.New("slot cannot be removed")
	// ErrUnknownOperation indicates a command with an unsupported operation.
	ErrUnknownOperation = errors.New("unknown operation")
)

// State is the lifecycle state of a slot.
type State int

const (
	// StateEmpty means the slot holds no target text.
	StateEmpty State = iota
	// StateTranslating means a primary translation is in flight.
	StateTranslating
	// StateVerified means the target has a matching back-translation.
	StateVerified
	// StateEditing means the target changed and verification is pending.
	StateEditing
	// StateDegradedVerified means verification finished with a placeholder back-translation.
	StateDegradedVerified
	// StateFailed means the last primary translation failed.
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateTranslating:
		return "translating"
	case StateVerified:
		return "verified"
	case StateEditing:
		return "editing"
	case StateDegradedVerified:
		return "degraded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Label returns the state name shown to the operator.
func (s State) Label() string {
	switch s {
	case StateEmpty:
		return "空闲"
	case StateTranslating:
		return "翻译中"
	case StateVerified:
		return "已回译"
	case StateEditing:
		return "编辑中"
	case StateDegradedVerified:
		return "回译不可用"
	case StateFailed:
		return "失败"
	}
	return "未知"
}
