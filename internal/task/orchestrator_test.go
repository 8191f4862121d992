package task_test

import (
	"testing"
	"time"

	"github.com/robalyx/dolmetscher/internal/ai/persona"
	"github.com/robalyx/dolmetscher/internal/backtranslate"
	"github.com/robalyx/dolmetscher/internal/glossary"
	"github.com/robalyx/dolmetscher/internal/profile"
	"github.com/robalyx/dolmetscher/internal/register"
	"github.com/robalyx/dolmetscher/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapacity(t *testing.T) {
	t.Parallel()

	f := newFixture(t, task.Options{Capacity: 3})
	o := f.orch

	assert.Equal(t, []int{1}, o.ListActive())
	assert.False(t, o.IsMultiColumn())
	assert.True(t, o.CanAdd())

	id, ok := o.Add()
	require.True(t, ok)
	assert.Equal(t, 2, id)

	id, ok = o.Add()
	require.True(t, ok)
	assert.Equal(t, 3, id)

	_, ok = o.Add()
	assert.False(t, ok)
	assert.False(t, o.CanAdd())
	assert.True(t, o.IsMultiColumn())
	assert.Equal(t, []int{1, 2, 3}, o.ListActive())
}

func TestRemove(t *testing.T) {
	t.Parallel()

	f := newFixture(t, task.Options{Capacity: 3})
	o := f.orch

	assert.False(t, o.Remove(1), "slot 1 is permanent")
	assert.False(t, o.Remove(2), "hidden slot")
	assert.False(t, o.Remove(0))
	assert.False(t, o.Remove(4))

	_, _ = o.Add()
	_, _ = o.Add()
	require.True(t, o.Remove(2))
	assert.Equal(t, []int{1, 3}, o.ListActive())

	_, err := o.Snapshot(2)
	require.ErrorIs(t, err, task.ErrUnknownSlot)

	id, ok := o.Add()
	require.True(t, ok)
	assert.Equal(t, 2, id, "lowest hidden slot is reused")

	snap, err := o.Snapshot(2)
	require.NoError(t, err)
	assert.Equal(t, task.StateEmpty, snap.State)
	assert.Empty(t, snap.Source)
}

func TestRemoveWipesSlot(t *testing.T) {
	t.Parallel()

	f := newFixture(t, task.Options{})
	id, ok := f.orch.Add()
	require.True(t, ok)

	_, err := f.orch.Translate(t.Context(), configuredSession(), id, "你好", persona.Professor)
	require.NoError(t, err)
	require.True(t, f.orch.Remove(id))

	id, ok = f.orch.Add()
	require.True(t, ok)
	snap, err := f.orch.Snapshot(id)
	require.NoError(t, err)
	assert.Empty(t, snap.Target)
	assert.Empty(t, snap.BackTranslation)
	assert.Equal(t, task.TimerIdle, snap.Timer)
}

func TestTranslate(t *testing.T) {
	t.Parallel()

	f := newFixture(t, task.Options{})
	sess := configuredSession()

	snap, err := f.orch.Translate(t.Context(), sess, 1, "你好，我们来讨论一下投资组合。", persona.Professor)
	require.NoError(t, err)

	assert.Equal(t, task.StateVerified, snap.State)
	assert.Equal(t, "Hallo, wie geht es dir?", snap.Target)
	assert.Equal(t, "BT:Hallo, wie geht es dir?", snap.BackTranslation)
	assert.Equal(t, backtranslate.SourceModel, snap.BackTranslationSource)
	assert.Equal(t, register.Informal, snap.Register)
	assert.Equal(t, task.TimerRunning, snap.Timer)
	assert.Equal(t, "00:00", snap.Elapsed)
	assert.Equal(t, persona.Professor, snap.Persona)
	assert.Equal(t, []glossary.Entry{{Chinese: "投资组合", German: "Portfolio"}}, f.translator.entries)
	assert.Equal(t, int32(1), f.back.calls.Load())
	assert.Contains(t, f.events.kinds(), task.EventSlotUpdated)
}

func TestTranslateDegraded(t *testing.T) {
	t.Parallel()

	f := newFixture(t, task.Options{})
	f.back.degraded = true

	snap, err := f.orch.Translate(t.Context(), configuredSession(), 1, "你好", persona.Professor)
	require.NoError(t, err)
	assert.Equal(t, task.StateDegradedVerified, snap.State)
	assert.True(t, snap.BackTranslationDegraded)
	assert.Equal(t, backtranslate.UnavailableText, snap.BackTranslation)
}

func TestTranslateRejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		sess    *fakeSession
		slot    int
		source  string
		persona string
		wantErr error
	}{
		{
			name:    "empty source",
			sess:    configuredSession(),
			slot:    1,
			source:  "   ",
			persona: persona.Professor,
			wantErr: task.ErrEmptySource,
		},
		{
			name:    "not configured",
			sess:    &fakeSession{err: profile.ErrNotConfigured},
			slot:    1,
			source:  "你好",
			persona: persona.Professor,
			wantErr: profile.ErrNotConfigured,
		},
		{
			name:    "unknown persona",
			sess:    configuredSession(),
			slot:    1,
			source:  "你好",
			persona: "pirate",
			wantErr: persona.ErrUnknownPersona,
		},
		{
			name:    "hidden slot",
			sess:    configuredSession(),
			slot:    2,
			source:  "你好",
			persona: persona.Professor,
			wantErr: task.ErrUnknownSlot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, task.Options{})
			_, err := f.orch.Translate(t.Context(), tt.sess, tt.slot, tt.source, tt.persona)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, f.translator.calls)
		})
	}
}

func TestTranslateFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, task.Options{})
	f.translator.err = assert.AnError

	snap, err := f.orch.Translate(t.Context(), configuredSession(), 1, "你好", persona.Professor)
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, task.StateFailed, snap.State)
	assert.Equal(t, "你好", snap.Source)
	assert.ErrorIs(t, snap.Err, assert.AnError)
	assert.Zero(t, f.back.calls.Load())

	// A failed slot without a target cannot be edited
	_, err = f.orch.EditTarget(configuredSession(), 1, "Hallo")
	require.ErrorIs(t, err, task.ErrInvalidTransition)
}

func TestTranslateBusyAndSuperseded(t *testing.T) {
	t.Parallel()

	f := newFixture(t, task.Options{})
	f.translator.gate = make(chan struct{})
	f.translator.started = make(chan struct{})
	sess := configuredSession()

	errs := make(chan error, 1)
	go func() {
		_, err := f.orch.Translate(t.Context(), sess, 1, "你好", persona.Professor)
		errs <- err
	}()
	<-f.translator.started

	snap, err := f.orch.Snapshot(1)
	require.NoError(t, err)
	assert.Equal(t, task.StateTranslating, snap.State)

	_, err = f.orch.Translate(t.Context(), sess, 1, "你好", persona.Professor)
	require.ErrorIs(t, err, task.ErrBusy)

	_, err = f.orch.Clear(1)
	require.NoError(t, err)
	close(f.translator.gate)

	require.ErrorIs(t, <-errs, task.ErrSuperseded)

	snap, err = f.orch.Snapshot(1)
	require.NoError(t, err)
	assert.Equal(t, task.StateEmpty, snap.State)
	assert.Empty(t, snap.Target)
	assert.Zero(t, f.back.calls.Load())
}

func TestEditTargetDebounce(t *testing.T) {
	t.Parallel()

	f := newFixture(t, task.Options{DebounceDelay: 50 * time.Millisecond})
	sess := configuredSession()

	_, err := f.orch.Translate(t.Context(), sess, 1, "你好", persona.Professor)
	require.NoError(t, err)
	require.Equal(t, int32(1), f.back.calls.Load())

	for _, text := range []string{"Guten", "Guten Tag", "Guten Tag, wie geht es Ihnen?"} {
		snap, err := f.orch.EditTarget(sess, 1, text)
		require.NoError(t, err)
		assert.Equal(t, task.StateEditing, snap.State)
	}

	require.Eventually(t, func() bool {
		snap, err := f.orch.Snapshot(1)
		return err == nil && snap.State == task.StateVerified
	}, time.Second, 5*time.Millisecond)

	// Rapid edits coalesce into a single verification of the final text
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(2), f.back.calls.Load())
	assert.Equal(t, "Guten Tag, wie geht es Ihnen?", f.back.lastText())

	snap, err := f.orch.Snapshot(1)
	require.NoError(t, err)
	assert.Equal(t, register.Formal, snap.Register)
	assert.Equal(t, "BT:Guten Tag, wie geht es Ihnen?", snap.BackTranslation)
}

func TestEditTargetEmpty(t *testing.T) {
	t.Parallel()

	f := newFixture(t, task.Options{DebounceDelay: 10 * time.Millisecond})
	sess := configuredSession()

	_, err := f.orch.Translate(t.Context(), sess, 1, "你好", persona.Professor)
	require.NoError(t, err)

	snap, err := f.orch.EditTarget(sess, 1, "")
	require.NoError(t, err)
	assert.Equal(t, task.StateEmpty, snap.State)
	assert.Equal(t, register.Unknown, snap.Register)
	assert.Equal(t, task.TimerStopped, snap.Timer)
	assert.Empty(t, snap.Elapsed)
	assert.Equal(t, "你好", snap.Source)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), f.back.calls.Load(), "empty target is not verified")

	// Refilling resumes editing with a running timer
	snap, err = f.orch.EditTarget(sess, 1, "  Hallo Sie  ")
	require.NoError(t, err)
	assert.Equal(t, task.StateEditing, snap.State)
	assert.Equal(t, task.TimerRunning, snap.Timer)

	require.Eventually(t, func() bool {
		snap, err := f.orch.Snapshot(1)
		return err == nil && snap.State == task.StateVerified
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(2), f.back.calls.Load())
	assert.Equal(t, "Hallo Sie", f.back.lastText(), "verification sends the trimmed target")
}

func TestEditTargetInvalid(t *testing.T) {
	t.Parallel()

	f := newFixture(t, task.Options{})

	_, err := f.orch.EditTarget(configuredSession(), 1, "Hallo")
	require.ErrorIs(t, err, task.ErrInvalidTransition)
}

func TestEditTargetWithoutCredentialsDegrades(t *testing.T) {
	t.Parallel()

	f := newFixture(t, task.Options{DebounceDelay: 10 * time.Millisecond})

	_, err := f.orch.Translate(t.Context(), configuredSession(), 1, "你好", persona.Professor)
	require.NoError(t, err)

	_, err = f.orch.EditTarget(&fakeSession{err: profile.ErrNotConfigured}, 1, "Hallo du")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		snap, err := f.orch.Snapshot(1)
		return err == nil && snap.State == task.StateDegradedVerified
	}, time.Second, 5*time.Millisecond)
}

func TestClearCancelsDebounce(t *testing.T) {
	t.Parallel()

	f := newFixture(t, task.Options{DebounceDelay: 30 * time.Millisecond})
	sess := configuredSession()

	_, err := f.orch.Translate(t.Context(), sess, 1, "你好", persona.Professor)
	require.NoError(t, err)
	_, err = f.orch.EditTarget(sess, 1, "Hallo Sie")
	require.NoError(t, err)

	snap, err := f.orch.Clear(1)
	require.NoError(t, err)
	assert.Equal(t, task.StateEmpty, snap.State)
	assert.Empty(t, snap.Source)
	assert.Equal(t, register.Unknown, snap.Register)
	assert.Equal(t, task.TimerIdle, snap.Timer)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), f.back.calls.Load())
}

func TestRetranslateCancelsDebounce(t *testing.T) {
	t.Parallel()

	f := newFixture(t, task.Options{DebounceDelay: 40 * time.Millisecond})
	sess := configuredSession()

	_, err := f.orch.Translate(t.Context(), sess, 1, "你好", persona.Professor)
	require.NoError(t, err)
	_, err = f.orch.EditTarget(sess, 1, "Hallo Sie")
	require.NoError(t, err)

	_, err = f.orch.Translate(t.Context(), sess, 1, "你好", persona.Professor)
	require.NoError(t, err)

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, int32(2), f.back.calls.Load())
	assert.Equal(t, "Hallo, wie geht es dir?", f.back.lastText())
}

func TestTimerCaps(t *testing.T) {
	t.Parallel()

	f := newFixture(t, task.Options{
		TimerCap:  30 * time.Millisecond,
		TimerTick: 5 * time.Millisecond,
	})

	_, err := f.orch.Translate(t.Context(), configuredSession(), 1, "你好", persona.Professor)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		snap, err := f.orch.Snapshot(1)
		return err == nil && snap.Timer == task.TimerCapped
	}, time.Second, 5*time.Millisecond)

	snap, err := f.orch.Snapshot(1)
	require.NoError(t, err)
	assert.Equal(t, "00:00+", snap.Elapsed)
	assert.Contains(t, f.events.kinds(), task.EventTimerTick)
}

func TestCloseStopsPendingWork(t *testing.T) {
	t.Parallel()

	f := newFixture(t, task.Options{DebounceDelay: 30 * time.Millisecond})
	sess := configuredSession()

	_, err := f.orch.Translate(t.Context(), sess, 1, "你好", persona.Professor)
	require.NoError(t, err)
	_, err = f.orch.EditTarget(sess, 1, "Hallo Sie")
	require.NoError(t, err)

	f.orch.Close()
	f.orch.Close()

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(1), f.back.calls.Load())
}

func TestEventsForSlotLifecycle(t *testing.T) {
	t.Parallel()

	f := newFixture(t, task.Options{})

	id, ok := f.orch.Add()
	require.True(t, ok)
	require.True(t, f.orch.Remove(id))

	assert.Equal(t, []task.EventKind{task.EventSlotAdded, task.EventSlotRemoved}, f.events.kinds())
}
