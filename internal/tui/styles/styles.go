package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/robalyx/dolmetscher/internal/register"
	"github.com/robalyx/dolmetscher/internal/task"
)

// Styles used throughout the TUI.
var (
	StateIdleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorMuted))

	StateBusyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorWarning)).
			Bold(true)

	StateVerifiedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorSuccess)).
				Bold(true)

	StateFailedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorError)).
				Bold(true)

	TimerFilledStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorSuccess))

	TimerCappedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorError))

	TimerEmptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorMuted))

	LogInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorWhite))

	LogWarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorWarning))

	LogErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError))

	LogDebugStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorMuted))

	PaneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorBorder)).
			Padding(0, 1)

	FocusedPaneStyle = PaneStyle.
				BorderForeground(lipgloss.Color(ColorFocus))

	NoticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondary))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError))
)

// StateStyle returns the style for a slot state.
func StateStyle(state task.State) lipgloss.Style {
	switch state {
	case task.StateTranslating, task.StateEditing:
		return StateBusyStyle
	case task.StateVerified:
		return StateVerifiedStyle
	case task.StateDegradedVerified, task.StateFailed:
		return StateFailedStyle
	case task.StateEmpty:
	}
	return StateIdleStyle
}

// RegisterStyle returns the style for a register label.
func RegisterStyle(reg register.Register) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)

	switch reg {
	case register.Formal:
		return style.Foreground(lipgloss.Color(ColorFormal))
	case register.Informal:
		return style.Foreground(lipgloss.Color(ColorInformal))
	case register.Mixed:
		return style.Foreground(lipgloss.Color(ColorWarning))
	case register.Unknown, register.None:
	}
	return style.Foreground(lipgloss.Color(ColorMuted))
}

// LogLevelStyle returns appropriate style for log level.
func LogLevelStyle(level string) lipgloss.Style {
	switch level {
	case "ERROR", "error":
		return LogErrorStyle
	case "WARN", "warn", "WARNING", "warning":
		return LogWarnStyle
	case "DEBUG", "debug":
		return LogDebugStyle
	default:
		return LogInfoStyle
	}
}

// TimerBarChar returns a styled timer bar cell.
func TimerBarChar(filled, capped bool) string {
	switch {
	case filled && capped:
		return TimerCappedStyle.Render("█")
	case filled:
		return TimerFilledStyle.Render("█")
	}
	return TimerEmptyStyle.Render("░")
}
