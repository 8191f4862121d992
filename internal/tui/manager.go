package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robalyx/dolmetscher/internal/task"
	"go.uber.org/zap"
)

var ErrTUIManagerAlreadyRunning = errors.New("TUI manager is already running")

// eventBuffer bounds the events queued for the program.
const eventBuffer = 64

// Manager runs the workspace program and feeds it orchestrator events.
type Manager struct {
	model   *Model
	program *tea.Program
	events  chan task.Event
	logger  *zap.Logger
	mu      sync.Mutex
	running bool
}

// NewManager creates a new TUI manager. The model is attached with Attach once
// the orchestrator exists, since the orchestrator needs Notify as its listener.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		events: make(chan task.Event, eventBuffer),
		logger: logger.Named("tui"),
	}
}

// Attach sets the model to run.
func (m *Manager) Attach(ctx context.Context, workspace Workspace, session task.Session, opts Options) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.model = NewModel(ctx, workspace, session, opts)
}

// Notify queues an orchestrator event for the running program. It never
// blocks, because the orchestrator also emits from inside Update. Events
// before the program starts are dropped, and so are events that find the
// queue full: the model reloads every slot on each event, so a queued event
// already covers them.
func (m *Manager) Notify(event task.Event) {
	m.mu.Lock()
	running := m.running
	m.mu.Unlock()

	if !running {
		return
	}

	select {
	case m.events <- event:
	default:
	}
}

// forward delivers queued events to program until done is closed.
func (m *Manager) forward(program *tea.Program, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case event := <-m.events:
			program.Send(slotEventMsg{event: event})
		}
	}
}

// Run starts the program and blocks until the operator quits or ctx ends.
// Extra options are applied after the defaults.
func (m *Manager) Run(ctx context.Context, opts ...tea.ProgramOption) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return ErrTUIManagerAlreadyRunning
	}

	m.running = true
	m.program = tea.NewProgram(m.model, append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	}, opts...)...)
	program := m.program
	m.mu.Unlock()

	done := make(chan struct{})
	go m.forward(program, done)

	defer func() {
		m.mu.Lock()
		m.running = false
		m.program = nil
		m.mu.Unlock()

		close(done)
		m.model.Close()
	}()

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		m.logger.Error("TUI program error", zap.Error(err))
		return err
	}

	return nil
}

// IsRunning returns whether the TUI is currently running.
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.running
}
