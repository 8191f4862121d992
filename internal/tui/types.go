package tui

import (
	"context"

	"github.com/robalyx/dolmetscher/internal/task"
)

// ViewType represents different TUI views.
type ViewType int

const (
	WorkspaceView ViewType = iota
	DashboardView
	LogView
	HelpView
)

// Workspace is the orchestrator surface used by the TUI.
type Workspace interface {
	Execute(ctx context.Context, sess task.Session, cmd task.Command) (task.Snapshot, error)
	Snapshots() []task.Snapshot
	Capacity() int
}

// slotEventMsg carries an orchestrator notification into the program.
type slotEventMsg struct {
	event task.Event
}

// commandDoneMsg reports the outcome of an asynchronous command.
type commandDoneMsg struct {
	cmd  task.Command
	snap task.Snapshot
	err  error
}
