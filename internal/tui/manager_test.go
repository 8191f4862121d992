package tui

import (
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robalyx/dolmetscher/internal/ai/persona"
	"github.com/robalyx/dolmetscher/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestManagerTypingWithLiveOrchestrator(t *testing.T) {
	t.Parallel()

	mgr := NewManager(zap.NewNop())

	orch := task.NewOrchestrator(task.Deps{Personas: persona.Default()}, task.Options{
		Listener: mgr.Notify,
	}, zap.NewNop())
	t.Cleanup(orch.Close)

	mgr.Attach(t.Context(), orch, fakeSession{}, Options{
		Personas:       persona.Default().List(),
		DefaultPersona: persona.Professor,
	})

	errs := make(chan error, 1)
	go func() {
		errs <- mgr.Run(t.Context(),
			tea.WithInput(nil),
			tea.WithOutput(io.Discard),
			tea.WithoutSignalHandler(),
		)
	}()

	require.Eventually(t, mgr.IsRunning, time.Second, 5*time.Millisecond)

	mgr.mu.Lock()
	program := mgr.program
	mgr.mu.Unlock()
	require.NotNil(t, program)

	// Every edit makes the orchestrator emit from inside Update
	go func() {
		program.Send(tea.WindowSizeMsg{Width: 120, Height: 40})
		program.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("你")})
		program.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("好")})
		program.Quit()
	}()

	select {
	case err := <-errs:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("workspace stopped responding after typing into the source editor")
	}

	snap, err := orch.Snapshot(task.FirstSlotID)
	require.NoError(t, err)
	assert.Equal(t, "你好", snap.Source)
	assert.False(t, mgr.IsRunning())
}

func TestManagerNotifyBeforeRunIsDropped(t *testing.T) {
	t.Parallel()

	mgr := NewManager(zap.NewNop())
	mgr.Notify(task.Event{Kind: task.EventSlotUpdated, SlotID: 1})

	assert.Empty(t, mgr.events)
}

func TestManagerNotifyNeverBlocks(t *testing.T) {
	t.Parallel()

	mgr := NewManager(zap.NewNop())

	mgr.mu.Lock()
	mgr.running = true
	mgr.mu.Unlock()

	// Nothing drains the queue, so overflow must be dropped
	done := make(chan struct{})
	go func() {
		for range eventBuffer * 2 {
			mgr.Notify(task.Event{Kind: task.EventSlotUpdated, SlotID: 1})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a full queue")
	}
	assert.Len(t, mgr.events, eventBuffer)
}
