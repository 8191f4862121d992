package components

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/robalyx/dolmetscher/internal/tui/styles"
)

// FileChangedMsg indicates the watched log file has been written.
type FileChangedMsg struct {
	Path string
}

var logLevelRegex = regexp.MustCompile(`\b(ERROR|WARN|INFO|DEBUG)\b`)

// LogViewer displays the session log and follows it as it grows.
type LogViewer struct {
	logPath  string
	lines    []string
	maxLines int
	viewport viewport.Model
	watcher  *fsnotify.Watcher
	changes  chan struct{}
	done     chan struct{}
}

// NewLogViewer creates a new log viewer for path.
func NewLogViewer(path string) *LogViewer {
	return &LogViewer{
		logPath:  path,
		maxLines: 1000,
		viewport: viewport.New(80, 24),
		changes:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Init loads the file and starts watching it.
func (lv *LogViewer) Init() tea.Cmd {
	if lv.logPath == "" {
		return nil
	}

	lv.load()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil
	}

	if err := watcher.Add(lv.logPath); err != nil {
		watcher.Close()
		return nil
	}

	lv.watcher = watcher
	go lv.watch(watcher)

	return lv.waitForChange()
}

// watch coalesces write events into the changes channel.
func (lv *LogViewer) watch(watcher *fsnotify.Watcher) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				select {
				case lv.changes <- struct{}{}:
				default:
				}
			}
		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (lv *LogViewer) waitForChange() tea.Cmd {
	changes, done := lv.changes, lv.done
	path := lv.logPath

	return func() tea.Msg {
		select {
		case <-changes:
			return FileChangedMsg{Path: path}
		case <-done:
			return nil
		}
	}
}

// Close stops watching the file.
func (lv *LogViewer) Close() {
	if lv.watcher != nil {
		lv.watcher.Close()
		lv.watcher = nil
		close(lv.done)
	}
}

// SetSize sets the log viewer size.
func (lv *LogViewer) SetSize(width, height int) {
	lv.viewport.Width = width
	lv.viewport.Height = max(height-2, 1)
}

// Update handles messages.
func (lv *LogViewer) Update(msg tea.Msg) (*LogViewer, tea.Cmd) {
	if msg, ok := msg.(FileChangedMsg); ok && msg.Path == lv.logPath {
		lv.load()
		return lv, lv.waitForChange()
	}

	var cmd tea.Cmd
	lv.viewport, cmd = lv.viewport.Update(msg)

	return lv, cmd
}

// View renders the log viewer.
func (lv *LogViewer) View() string {
	if lv.logPath == "" {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(styles.ColorMuted)).
			Render("No log file")
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(styles.ColorSecondary)).
		Render(filepath.Base(lv.logPath))

	content := strings.Join(lv.lines, "\n")
	if content == "" {
		content = "Waiting for logs..."
	}

	lv.viewport.SetContent(content)
	lv.viewport.GotoBottom()

	return lipgloss.JoinVertical(lipgloss.Left, header, "", lv.viewport.View())
}

// load reads the tail of the log file.
func (lv *LogViewer) load() {
	content, err := os.ReadFile(lv.logPath)
	if err != nil {
		lv.lines = nil
		return
	}

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	if len(lines) > lv.maxLines {
		lines = lines[len(lines)-lv.maxLines:]
	}

	formatted := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		if match := logLevelRegex.FindStringSubmatch(line); match != nil {
			line = styles.LogLevelStyle(match[1]).Render(line)
		}
		formatted = append(formatted, line)
	}

	lv.lines = formatted
}
