package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/robalyx/dolmetscher/internal/tui/styles"
)

// Tab is one entry in the tab bar.
type Tab struct {
	Title string
	// Badge is rendered after the title, e.g. the slot timer.
	Badge string
}

// Tabs represents a tab navigation component.
type Tabs struct {
	tabs     []Tab
	active   int
	width    int
	maxWidth int
}

// NewTabs creates a new tabs component.
func NewTabs() *Tabs {
	return &Tabs{maxWidth: 24}
}

// SetTabs sets the tabs and keeps the active index in range.
func (t *Tabs) SetTabs(tabs []Tab) {
	t.tabs = tabs
	if t.active >= len(tabs) {
		t.active = max(len(tabs)-1, 0)
	}
	t.resize()
}

// SetActive sets the active tab index.
func (t *Tabs) SetActive(index int) {
	if index >= 0 && index < len(t.tabs) {
		t.active = index
	}
}

// Active returns the active tab index.
func (t *Tabs) Active() int {
	return t.active
}

// Len returns the number of tabs.
func (t *Tabs) Len() int {
	return len(t.tabs)
}

// SetWidth sets the total width available for tabs.
func (t *Tabs) SetWidth(width int) {
	t.width = width
	t.resize()
}

func (t *Tabs) resize() {
	if len(t.tabs) > 0 && t.width > 0 {
		t.maxWidth = max(8, (t.width-4)/len(t.tabs))
	}
}

// Next moves to the next tab.
func (t *Tabs) Next() {
	if len(t.tabs) > 0 {
		t.active = (t.active + 1) % len(t.tabs)
	}
}

// Prev moves to the previous tab.
func (t *Tabs) Prev() {
	if len(t.tabs) > 0 {
		t.active = (t.active - 1 + len(t.tabs)) % len(t.tabs)
	}
}

// View renders the tabs.
func (t *Tabs) View() string {
	if len(t.tabs) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(t.tabs))

	for i, tab := range t.tabs {
		label := tab.Title
		if tab.Badge != "" {
			label += " " + tab.Badge
		}
		label = Truncate(label, t.maxWidth-4)

		style := lipgloss.NewStyle().
			Foreground(lipgloss.Color(styles.ColorMuted)).
			Padding(0, 2)
		if i == t.active {
			style = style.
				Bold(true).
				Foreground(lipgloss.Color(styles.ColorPrimary)).
				Background(lipgloss.Color(styles.ColorBackground))
		}

		rendered = append(rendered, style.Render(label))
	}

	borderStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(lipgloss.Color(styles.ColorBorder))

	return borderStyle.Width(max(t.width-2, 0)).Render(strings.Join(rendered, "│"))
}

// Truncate shortens text to at most width display cells, marking the cut with "...".
func Truncate(text string, width int) string {
	if lipgloss.Width(text) <= width {
		return text
	}
	if width < 4 {
		return "..."
	}

	runes := []rune(text)
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
