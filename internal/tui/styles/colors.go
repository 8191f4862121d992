package styles

// Colors used throughout the TUI.
const (
	ColorPrimary    = "#00ff87"
	ColorSecondary  = "#5fd7ff"
	ColorSuccess    = "#00ff00"
	ColorWarning    = "#ffff00"
	ColorError      = "#ff5f5f"
	ColorFormal     = "#87afff"
	ColorInformal   = "#ffaf5f"
	ColorMuted      = "#888888"
	ColorBorder     = "#444444"
	ColorFocus      = "#00d7af"
	ColorBackground = "#1a1a1a"
	ColorWhite      = "#ffffff"
)
