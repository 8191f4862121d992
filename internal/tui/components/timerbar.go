package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/robalyx/dolmetscher/internal/task"
	"github.com/robalyx/dolmetscher/internal/tui/styles"
)

// TimerBar shows how much of the slot timer cap has elapsed.
type TimerBar struct {
	state    task.TimerState
	elapsed  string
	progress float64
	width    int
}

// NewTimerBar creates a new timer bar.
func NewTimerBar() *TimerBar {
	return &TimerBar{width: 30}
}

// SetSnapshot updates the bar from a slot snapshot.
func (b *TimerBar) SetSnapshot(snap task.Snapshot) {
	b.state = snap.Timer
	b.elapsed = snap.Elapsed
	b.progress = snap.TimerProgress
}

// SetSize sets the bar width.
func (b *TimerBar) SetSize(width int) {
	b.width = max(width-20, 10)
}

// View renders the bar, or nothing while the timer is hidden.
func (b *TimerBar) View() string {
	if b.state != task.TimerRunning && b.state != task.TimerCapped {
		return ""
	}

	capped := b.state == task.TimerCapped
	filled := min(int(b.progress*float64(b.width)), b.width)

	var bar strings.Builder
	for i := range b.width {
		bar.WriteString(styles.TimerBarChar(i < filled, capped))
	}

	label := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(styles.ColorSecondary))
	if capped {
		label = label.Foreground(lipgloss.Color(styles.ColorError))
	}

	return fmt.Sprintf("⏱ %s [%s]", label.Render(b.elapsed), bar.String())
}
