package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/robalyx/dolmetscher/internal/backtranslate"
	"github.com/robalyx/dolmetscher/internal/task"
	"github.com/robalyx/dolmetscher/internal/tui/components"
	"github.com/robalyx/dolmetscher/internal/tui/styles"
)

// Field identifies one of the two editors of a slot.
type Field int

const (
	FieldSource Field = iota
	FieldTarget
)

// Slot is the editing view of a single task slot.
type Slot struct {
	source textarea.Model
	target textarea.Model
	focus  Field
	timer  *components.TimerBar
	snap   task.Snapshot
	width  int
	height int
}

// NewSlot creates a new slot view with the source editor focused.
func NewSlot() *Slot {
	s := &Slot{
		source: newEditor("输入中文原文…"),
		target: newEditor("德语译文"),
		timer:  components.NewTimerBar(),
	}
	s.source.Focus()

	return s
}

func newEditor(placeholder string) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.Prompt = ""

	return ta
}

// SetSize sets the slot view size.
func (s *Slot) SetSize(width, height int) {
	s.width = width
	s.height = height

	paneWidth := max(width/2-4, 10)
	editorHeight := max(height-10, 3)

	s.source.SetWidth(paneWidth)
	s.source.SetHeight(editorHeight)
	s.target.SetWidth(paneWidth)
	s.target.SetHeight(editorHeight)
	s.timer.SetSize(width)
}

// Load replaces both editors with the snapshot of a newly selected slot.
func (s *Slot) Load(snap task.Snapshot) {
	s.snap = snap
	s.source.SetValue(snap.Source)
	s.target.SetValue(snap.Target)
	s.timer.SetSnapshot(snap)
}

// Sync applies changes made by the orchestrator, such as a finished
// translation or transform, without touching editors that already match.
func (s *Slot) Sync(snap task.Snapshot) {
	s.snap = snap
	if s.source.Value() != snap.Source {
		s.source.SetValue(snap.Source)
	}
	if s.target.Value() != snap.Target {
		s.target.SetValue(snap.Target)
	}
	s.timer.SetSnapshot(snap)
}

// Snapshot returns the last applied snapshot.
func (s *Slot) Snapshot() task.Snapshot {
	return s.snap
}

// Source returns the source editor text.
func (s *Slot) Source() string {
	return s.source.Value()
}

// Target returns the target editor text.
func (s *Slot) Target() string {
	return s.target.Value()
}

// Focused returns the focused editor.
func (s *Slot) Focused() Field {
	return s.focus
}

// ToggleFocus moves the focus to the other editor.
func (s *Slot) ToggleFocus() tea.Cmd {
	if s.focus == FieldSource {
		s.focus = FieldTarget
		s.source.Blur()
		return s.target.Focus()
	}

	s.focus = FieldSource
	s.target.Blur()
	return s.source.Focus()
}

// Update forwards msg to the focused editor and reports whether its text changed.
func (s *Slot) Update(msg tea.Msg) (tea.Cmd, bool) {
	var cmd tea.Cmd

	if s.focus == FieldSource {
		before := s.source.Value()
		s.source, cmd = s.source.Update(msg)
		return cmd, s.source.Value() != before
	}

	before := s.target.Value()
	s.target, cmd = s.target.Update(msg)
	return cmd, s.target.Value() != before
}

// View renders both editors with the slot status and back-translation.
func (s *Slot) View(personaName string) string {
	sourcePane := s.pane("中文原文", s.source.View(), s.focus == FieldSource)
	targetPane := s.pane("德语译文 "+styles.RegisterStyle(s.snap.Register).Render(s.snap.Register.Label()),
		s.target.View(), s.focus == FieldTarget)

	editors := lipgloss.JoinHorizontal(lipgloss.Top, sourcePane, targetPane)

	status := fmt.Sprintf("任务 %d · %s · 角色: %s",
		s.snap.ID, styles.StateStyle(s.snap.State).Render(s.snap.State.Label()), personaName)
	if s.snap.UndoAvailable {
		status += " · 可撤销删除注释"
	}

	lines := []string{editors, status}
	if timer := s.timer.View(); timer != "" {
		lines = append(lines, timer)
	}
	lines = append(lines, s.backTranslation())

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (s *Slot) pane(title, body string, focused bool) string {
	style := styles.PaneStyle
	if focused {
		style = styles.FocusedPaneStyle
	}

	header := lipgloss.NewStyle().Bold(true).Render(title)
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, header, body))
}

func (s *Slot) backTranslation() string {
	label := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(styles.ColorSecondary)).Render("回译")

	switch {
	case s.snap.State == task.StateEditing && s.snap.HasTarget():
		return label + " " + styles.StateBusyStyle.Render("验证中…")
	case s.snap.BackTranslation == "":
		return label + " " + styles.StateIdleStyle.Render("—")
	case s.snap.BackTranslationDegraded:
		return label + " " + styles.ErrorStyle.Render(s.snap.BackTranslation)
	}

	text := strings.TrimSpace(s.snap.BackTranslation)
	if s.snap.BackTranslationSource != backtranslate.SourceNone {
		text += styles.StateIdleStyle.Render(" (" + s.snap.BackTranslationSource.String() + ")")
	}
	return label + " " + text
}
