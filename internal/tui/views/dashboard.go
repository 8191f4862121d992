package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/robalyx/dolmetscher/internal/task"
	"github.com/robalyx/dolmetscher/internal/tui/components"
	"github.com/robalyx/dolmetscher/internal/tui/styles"
)

// Dashboard shows every active slot side by side.
type Dashboard struct {
	slots    []task.Snapshot
	active   int
	viewport viewport.Model
}

// NewDashboard creates a new dashboard view.
func NewDashboard() *Dashboard {
	return &Dashboard{viewport: viewport.New(80, 24)}
}

// SetSlots updates the slot list and the highlighted slot id.
func (d *Dashboard) SetSlots(slots []task.Snapshot, active int) {
	d.slots = append(d.slots[:0], slots...)
	d.active = active
}

// SetSize sets the dashboard size.
func (d *Dashboard) SetSize(width, height int) {
	d.viewport.Width = width
	d.viewport.Height = height
}

// Update handles messages for the dashboard view.
func (d *Dashboard) Update(msg tea.Msg) (*Dashboard, tea.Cmd) {
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)

	return d, cmd
}

// View renders the dashboard.
func (d *Dashboard) View() string {
	if len(d.slots) == 0 {
		d.viewport.SetContent(lipgloss.NewStyle().
			Foreground(lipgloss.Color(styles.ColorMuted)).
			Render("No active slots"))
		return d.viewport.View()
	}

	boxWidth := max(d.viewport.Width/len(d.slots)-2, 24)
	boxes := make([]string, 0, len(d.slots))

	for _, snap := range d.slots {
		boxes = append(boxes, d.renderSlot(snap, boxWidth))
	}

	// Stack the boxes when the terminal cannot fit them in one row
	var content string
	if boxWidth*len(d.slots) <= d.viewport.Width {
		content = lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
	} else {
		content = lipgloss.JoinVertical(lipgloss.Left, boxes...)
	}

	d.viewport.SetContent(content)

	return d.viewport.View()
}

func (d *Dashboard) renderSlot(snap task.Snapshot, width int) string {
	inner := width - 4
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(styles.ColorSecondary))

	lines := []string{
		titleStyle.Render(fmt.Sprintf("任务 %d", snap.ID)) + " " +
			styles.StateStyle(snap.State).Render(snap.State.Label()),
	}

	if label := snap.Register.Label(); label != "" {
		lines = append(lines, "人称: "+styles.RegisterStyle(snap.Register).Render(label))
	}
	if snap.Elapsed != "" {
		lines = append(lines, "⏱ "+snap.Elapsed)
	}

	lines = append(lines,
		"原文: "+components.Truncate(oneLine(snap.Source), inner-6),
		"译文: "+components.Truncate(oneLine(snap.Target), inner-6),
	)

	back := components.Truncate(oneLine(snap.BackTranslation), inner-6)
	if snap.BackTranslationDegraded {
		back = styles.ErrorStyle.Render(back)
	}
	lines = append(lines, "回译: "+back)

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(styles.ColorBorder)).
		Padding(0, 1).
		Width(inner)
	if snap.ID == d.active {
		box = box.BorderForeground(lipgloss.Color(styles.ColorFocus))
	}

	return box.Render(strings.Join(lines, "\n"))
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
