package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/robalyx/dolmetscher/internal/tui/styles"
)

// HelpSection is a titled group of key bindings.
type HelpSection struct {
	Title    string
	Bindings []key.Binding
}

// Help represents the help view.
type Help struct {
	sections []HelpSection
	viewport viewport.Model
}

// NewHelp creates a new help view.
func NewHelp(sections []HelpSection) *Help {
	vp := viewport.New(80, 24)
	vp.Style = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(styles.ColorBorder)).
		Padding(1, 2)

	return &Help{
		sections: sections,
		viewport: vp,
	}
}

// SetSize sets the help view size.
func (h *Help) SetSize(width, height int) {
	h.viewport.Width = max(width-4, 10)
	h.viewport.Height = max(height-4, 5)
}

// Update handles messages for the help view.
func (h *Help) Update(msg tea.Msg) (*Help, tea.Cmd) {
	var cmd tea.Cmd
	h.viewport, cmd = h.viewport.Update(msg)

	return h, cmd
}

// View renders the help view.
func (h *Help) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(styles.ColorSecondary)).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(styles.ColorPrimary)).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(styles.ColorWarning)).
		Width(15)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(styles.ColorWhite))

	content := []string{titleStyle.Render("Dolmetscher 工作台 - 帮助")}

	for _, section := range h.sections {
		content = append(content, sectionStyle.Render(section.Title))

		for _, binding := range section.Bindings {
			help := binding.Help()
			content = append(content, lipgloss.JoinHorizontal(lipgloss.Left,
				keyStyle.Render(help.Key),
				descStyle.Render(help.Desc)))
		}
	}

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(styles.ColorMuted)).
		MarginTop(2)

	content = append(content, footerStyle.Render("Esc 返回工作台"))

	h.viewport.SetContent(strings.Join(content, "\n"))

	return h.viewport.View()
}
