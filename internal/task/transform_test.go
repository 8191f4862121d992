package task_test

import (
	"strings"
	"testing"

	"github.com/robalyx/dolmetscher/internal/ai"
	"github.com/robalyx/dolmetscher/internal/ai/persona"
	"github.com/robalyx/dolmetscher/internal/profile"
	"github.com/robalyx/dolmetscher/internal/register"
	"github.com/robalyx/dolmetscher/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flipRegister(kind ai.TransformKind, text string) string {
	switch kind {
	case ai.RegisterFlip:
		return strings.ReplaceAll(text, "dir", "Ihnen")
	case ai.DashRemoval:
		return strings.ReplaceAll(text, " - ", ", ")
	case ai.EmojiRemoval:
		return strings.ReplaceAll(text, " 🚀", "")
	case ai.CommentStrip:
		before, _, _ := strings.Cut(text, "（备注")
		return strings.TrimSpace(before)
	}
	return text
}

func TestTransformTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		kind         ai.TransformKind
		target       string
		wantTarget   string
		wantRegister register.Register
	}{
		{
			name:         "register flip",
			kind:         ai.RegisterFlip,
			target:       "Hallo, wie geht es dir?",
			wantTarget:   "Hallo, wie geht es Ihnen?",
			wantRegister: register.Formal,
		},
		{
			name:         "dash removal",
			kind:         ai.DashRemoval,
			target:       "Der Markt - er steigt",
			wantTarget:   "Der Markt, er steigt",
			wantRegister: register.None,
		},
		{
			name:         "emoji removal",
			kind:         ai.EmojiRemoval,
			target:       "Los geht es 🚀",
			wantTarget:   "Los geht es",
			wantRegister: register.None,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, task.Options{})
			f.translator.text = tt.target
			f.transformer.fn = flipRegister
			sess := configuredSession()

			_, err := f.orch.Translate(t.Context(), sess, 1, "你好", persona.Professor)
			require.NoError(t, err)

			snap, err := f.orch.Transform(t.Context(), sess, 1, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTarget, snap.Target)
			assert.Equal(t, tt.wantRegister, snap.Register)
			assert.Equal(t, "你好", snap.Source, "target transforms leave the source alone")
			assert.Equal(t, task.StateVerified, snap.State)
			assert.Equal(t, "BT:"+tt.wantTarget, snap.BackTranslation)
			assert.Equal(t, int32(2), f.back.calls.Load())
		})
	}
}

func TestTransformTargetRejected(t *testing.T) {
	t.Parallel()

	f := newFixture(t, task.Options{})

	_, err := f.orch.Transform(t.Context(), configuredSession(), 1, ai.DashRemoval)
	require.ErrorIs(t, err, task.ErrNoTarget)

	_, err = f.orch.Translate(t.Context(), configuredSession(), 1, "你好", persona.Professor)
	require.NoError(t, err)

	_, err = f.orch.Transform(t.Context(), &fakeSession{err: profile.ErrNotConfigured}, 1, ai.DashRemoval)
	require.ErrorIs(t, err, profile.ErrNotConfigured)
	assert.Zero(t, f.transformer.count(ai.DashRemoval))
}

func TestTransformFailureLeavesSlot(t *testing.T) {
	t.Parallel()

	f := newFixture(t, task.Options{})
	sess := configuredSession()

	before, err := f.orch.Translate(t.Context(), sess, 1, "你好", persona.Professor)
	require.NoError(t, err)

	f.transformer.err = assert.AnError
	_, err = f.orch.Transform(t.Context(), sess, 1, ai.RegisterFlip)
	require.ErrorIs(t, err, assert.AnError)

	after, err := f.orch.Snapshot(1)
	require.NoError(t, err)
	assert.Equal(t, before.Target, after.Target)
	assert.Equal(t, before.State, after.State)
	assert.Equal(t, int32(1), f.back.calls.Load())
}

func TestCommentStripUndo(t *testing.T) {
	t.Parallel()

	f := newFixture(t, task.Options{})
	f.transformer.fn = flipRegister
	sess := configuredSession()

	original := "  1. 大家好！（备注：语气要友好）\n"
	_, err := f.orch.EditSource(1, original)
	require.NoError(t, err)

	snap, err := f.orch.Transform(t.Context(), sess, 1, ai.CommentStrip)
	require.NoError(t, err)
	assert.Equal(t, "1. 大家好！", snap.Source)
	assert.True(t, snap.UndoAvailable)

	snap, err = f.orch.Transform(t.Context(), sess, 1, ai.CommentStrip)
	require.NoError(t, err)
	assert.Equal(t, original, snap.Source, "second call restores the exact source")
	assert.False(t, snap.UndoAvailable)
	assert.Equal(t, 1, f.transformer.count(ai.CommentStrip))
	assert.Zero(t, f.back.calls.Load())
}

func TestCommentStripRejected(t *testing.T) {
	t.Parallel()

	f := newFixture(t, task.Options{})

	_, err := f.orch.Transform(t.Context(), configuredSession(), 1, ai.CommentStrip)
	require.ErrorIs(t, err, task.ErrNoSource)

	_, err = f.orch.EditSource(1, "你好（备注）")
	require.NoError(t, err)

	_, err = f.orch.Transform(t.Context(), &fakeSession{err: profile.ErrNotConfigured}, 1, ai.CommentStrip)
	require.ErrorIs(t, err, profile.ErrNotConfigured)

	f.transformer.err = assert.AnError
	_, err = f.orch.Transform(t.Context(), configuredSession(), 1, ai.CommentStrip)
	require.ErrorIs(t, err, assert.AnError)

	snap, err := f.orch.Snapshot(1)
	require.NoError(t, err)
	assert.Equal(t, "你好（备注）", snap.Source)
	assert.False(t, snap.UndoAvailable)
}

func TestClearDropsUndo(t *testing.T) {
	t.Parallel()

	f := newFixture(t, task.Options{})
	f.transformer.fn = flipRegister
	sess := configuredSession()

	_, err := f.orch.EditSource(1, "你好（备注：测试）")
	require.NoError(t, err)
	_, err = f.orch.Transform(t.Context(), sess, 1, ai.CommentStrip)
	require.NoError(t, err)

	snap, err := f.orch.Clear(1)
	require.NoError(t, err)
	assert.False(t, snap.UndoAvailable)
}
