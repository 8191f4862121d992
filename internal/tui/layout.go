package tui

const (
	MinTerminalWidth = 80
	LargeWidth       = 120
)

// isTerminalTooSmall checks if terminal is usable.
func isTerminalTooSmall(width int) bool {
	return width < MinTerminalWidth
}

// shouldShowDetails determines if detailed info should be shown.
func shouldShowDetails(width int) bool {
	return width >= LargeWidth
}

// calculateHeaderHeight calculates header height.
func calculateHeaderHeight(hasTabs bool) int {
	height := 3
	if hasTabs {
		height += 2
	}

	return height
}

// calculateContentHeight calculates available content height.
func calculateContentHeight(totalHeight, headerHeight int) int {
	return max(totalHeight-headerHeight-2, 5)
}
