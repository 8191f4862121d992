package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/robalyx/dolmetscher/internal/ai"
	"github.com/robalyx/dolmetscher/internal/ai/persona"
	"github.com/robalyx/dolmetscher/internal/task"
	"github.com/robalyx/dolmetscher/internal/tui/components"
	"github.com/robalyx/dolmetscher/internal/tui/styles"
	"github.com/robalyx/dolmetscher/internal/tui/views"
)

// Model represents the main TUI model.
type Model struct {
	ctx         context.Context
	workspace   Workspace
	session     task.Session
	personas    []persona.Persona
	persona     int
	currentView ViewType
	width       int
	height      int

	// Slots
	slots      []task.Snapshot
	activeSlot int

	// Views
	slot      *views.Slot
	dashboard *views.Dashboard
	logs      *components.LogViewer
	help      *views.Help

	// Components
	tabs *components.Tabs

	keys      KeyMap
	copy      func(string) error
	notice    string
	noticeErr bool
	quitting  bool
}

// Options configures a Model.
type Options struct {
	Personas       []persona.Persona
	DefaultPersona string
	LogPath        string
	// Copy writes text to the clipboard.
	Copy func(string) error
}

// NewModel creates a new TUI model.
func NewModel(ctx context.Context, workspace Workspace, session task.Session, opts Options) *Model {
	keys := DefaultKeyMap()

	m := &Model{
		ctx:         ctx,
		workspace:   workspace,
		session:     session,
		personas:    opts.Personas,
		currentView: WorkspaceView,
		activeSlot:  task.FirstSlotID,
		slot:        views.NewSlot(),
		dashboard:   views.NewDashboard(),
		logs:        components.NewLogViewer(opts.LogPath),
		help:        views.NewHelp(keys.helpSections()),
		tabs:        components.NewTabs(),
		keys:        keys,
		copy:        opts.Copy,
		width:       80,
		height:      24,
	}

	for i, p := range m.personas {
		if p.ID == opts.DefaultPersona {
			m.persona = i
		}
	}

	m.refresh()
	if snap, ok := m.snapshot(m.activeSlot); ok {
		m.slot.Load(snap)
	}

	return m
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return m.logs.Init()
}

// Close releases the log watcher.
func (m *Model) Close() {
	m.logs.Close()
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

		return m, nil

	case slotEventMsg:
		m.refresh()
		return m, nil

	case commandDoneMsg:
		m.handleDone(msg)
		return m, nil

	case components.FileChangedMsg:
		var cmd tea.Cmd
		m.logs, cmd = m.logs.Update(msg)

		return m, cmd

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	return m, m.updateView(msg)
}

// handleKey runs global bindings and reports whether msg was consumed.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit, true
	case key.Matches(msg, m.keys.Help):
		m.currentView = HelpView
	case key.Matches(msg, m.keys.Workspace), key.Matches(msg, m.keys.Back):
		m.currentView = WorkspaceView
	case key.Matches(msg, m.keys.Dashboard):
		m.currentView = DashboardView
	case key.Matches(msg, m.keys.Logs):
		m.currentView = LogView
	case key.Matches(msg, m.keys.NextSlot), key.Matches(msg, m.keys.PrevSlot):
		if len(m.slots) > 0 {
			if key.Matches(msg, m.keys.NextSlot) {
				m.tabs.Next()
			} else {
				m.tabs.Prev()
			}
			m.selectSlot(m.slots[m.tabs.Active()].ID)
		}
	case key.Matches(msg, m.keys.AddSlot):
		return m.run(task.Command{Op: task.OpAddSlot}), true
	case key.Matches(msg, m.keys.RemoveSlot):
		return m.run(task.Command{Op: task.OpRemoveSlot, SlotID: m.activeSlot}), true
	case key.Matches(msg, m.keys.NextPersona):
		if len(m.personas) > 0 {
			m.persona = (m.persona + 1) % len(m.personas)
			m.setNotice("角色: "+m.personas[m.persona].Name, false)
		}
	case key.Matches(msg, m.keys.CopyBoth):
		m.copyBoth()
	case m.currentView != WorkspaceView:
		return nil, false
	case key.Matches(msg, m.keys.SwitchEditor):
		return m.slot.ToggleFocus(), true
	case key.Matches(msg, m.keys.Translate):
		return m.run(task.Command{
			Op:      task.OpTranslate,
			SlotID:  m.activeSlot,
			Text:    m.slot.Source(),
			Persona: m.personaID(),
		}), true
	case key.Matches(msg, m.keys.Clear):
		return m.run(task.Command{Op: task.OpClear, SlotID: m.activeSlot}), true
	case key.Matches(msg, m.keys.RegisterFlip):
		return m.transform(ai.RegisterFlip), true
	case key.Matches(msg, m.keys.DashRemoval):
		return m.transform(ai.DashRemoval), true
	case key.Matches(msg, m.keys.EmojiRemoval):
		return m.transform(ai.EmojiRemoval), true
	case key.Matches(msg, m.keys.CommentStrip):
		return m.transform(ai.CommentStrip), true
	default:
		return nil, false
	}

	return nil, true
}

// updateView forwards msg to the current view. Editor changes are applied
// to the orchestrator immediately so the debounce restarts on every keystroke.
func (m *Model) updateView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	switch m.currentView {
	case WorkspaceView:
		var changed bool
		cmd, changed = m.slot.Update(msg)
		if changed {
			m.applyEdit()
		}
	case DashboardView:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case LogView:
		m.logs, cmd = m.logs.Update(msg)
	case HelpView:
		m.help, cmd = m.help.Update(msg)
	}

	return cmd
}

func (m *Model) applyEdit() {
	command := task.Command{Op: task.OpEditSource, SlotID: m.activeSlot, Text: m.slot.Source()}
	if m.slot.Focused() == views.FieldTarget {
		command = task.Command{Op: task.OpEditTarget, SlotID: m.activeSlot, Text: m.slot.Target()}
	}

	snap, err := m.workspace.Execute(m.ctx, m.session, command)
	if err != nil {
		// Rejected edits are rolled back to the slot's real content
		m.setNotice(describe(err, m.workspace.Capacity()), true)
		if current, ok := m.snapshot(m.activeSlot); ok {
			m.slot.Load(current)
		}
		return
	}

	m.slot.Sync(snap)
}

// run executes command in the background.
func (m *Model) run(command task.Command) tea.Cmd {
	ctx, workspace, session := m.ctx, m.workspace, m.session

	return func() tea.Msg {
		snap, err := workspace.Execute(ctx, session, command)
		return commandDoneMsg{cmd: command, snap: snap, err: err}
	}
}

func (m *Model) transform(kind ai.TransformKind) tea.Cmd {
	return m.run(task.Command{Op: task.OpTransform, SlotID: m.activeSlot, Transform: kind})
}

func (m *Model) handleDone(msg commandDoneMsg) {
	if msg.err != nil {
		m.setNotice(describe(msg.err, m.workspace.Capacity()), true)
		m.refresh()
		return
	}

	switch msg.cmd.Op {
	case task.OpAddSlot:
		m.refresh()
		m.selectSlot(msg.snap.ID)
		m.setNotice(fmt.Sprintf("已新建任务 %d", msg.snap.ID), false)
		return
	case task.OpRemoveSlot:
		m.setNotice(fmt.Sprintf("已关闭任务 %d", msg.cmd.SlotID), false)
	case task.OpTranslate:
		m.setNotice("翻译完成", false)
	case task.OpTransform:
		m.setNotice(msg.cmd.Transform.String()+" 完成", false)
	case task.OpClear:
		m.setNotice("已清空", false)
	case task.OpEditSource, task.OpEditTarget:
	}

	m.refresh()
}

// refresh reloads every slot from the orchestrator and syncs the open editors.
func (m *Model) refresh() {
	m.slots = m.workspace.Snapshots()

	tabs := make([]components.Tab, len(m.slots))
	active := 0
	for i, snap := range m.slots {
		tabs[i] = components.Tab{Title: fmt.Sprintf("任务 %d", snap.ID), Badge: snap.Elapsed}
		if snap.ID == m.activeSlot {
			active = i
		}
	}

	m.tabs.SetTabs(tabs)

	// The active slot was removed, fall back to its left neighbour
	if _, ok := m.snapshot(m.activeSlot); !ok && len(m.slots) > 0 {
		fallback := m.slots[0].ID
		for _, snap := range m.slots {
			if snap.ID < m.activeSlot {
				fallback = snap.ID
			}
		}
		m.selectSlot(fallback)
		return
	}

	m.tabs.SetActive(active)
	m.dashboard.SetSlots(m.slots, m.activeSlot)

	if snap, ok := m.snapshot(m.activeSlot); ok {
		m.slot.Sync(snap)
	}
}

func (m *Model) selectSlot(id int) {
	snap, ok := m.snapshot(id)
	if !ok {
		return
	}

	m.activeSlot = id
	for i, s := range m.slots {
		if s.ID == id {
			m.tabs.SetActive(i)
		}
	}

	m.dashboard.SetSlots(m.slots, id)
	m.slot.Load(snap)
}

func (m *Model) snapshot(id int) (task.Snapshot, bool) {
	for _, snap := range m.slots {
		if snap.ID == id {
			return snap, true
		}
	}
	return task.Snapshot{}, false
}

func (m *Model) copyBoth() {
	if m.copy == nil {
		return
	}

	text := strings.TrimSpace(m.slot.Source()) + "\n\n" + strings.TrimSpace(m.slot.Target())
	if err := m.copy(strings.TrimSpace(text)); err != nil {
		m.setNotice("复制失败: "+err.Error(), true)
		return
	}

	m.setNotice("已复制原文和译文", false)
}

func (m *Model) personaID() string {
	if len(m.personas) == 0 {
		return persona.Professor
	}
	return m.personas[m.persona].ID
}

func (m *Model) personaName() string {
	if len(m.personas) == 0 {
		return persona.Professor
	}
	return m.personas[m.persona].Name
}

func (m *Model) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeErr = isErr
}

func (m *Model) resize() {
	contentHeight := calculateContentHeight(m.height, calculateHeaderHeight(true))

	m.tabs.SetWidth(m.width)
	m.slot.SetSize(m.width, contentHeight)
	m.dashboard.SetSize(m.width, contentHeight)
	m.logs.SetSize(m.width, contentHeight)
	m.help.SetSize(m.width, contentHeight)
}

// View renders the current view.
func (m *Model) View() string {
	if m.quitting {
		return "再见！\n"
	}

	if isTerminalTooSmall(m.width) {
		return fmt.Sprintf("Terminal too small!\nMinimum width required: %d columns\nCurrent size: %dx%d",
			MinTerminalWidth, m.width, m.height)
	}

	var content string

	switch m.currentView {
	case WorkspaceView:
		content = m.slot.View(m.personaName())
	case DashboardView:
		content = m.dashboard.View()
	case LogView:
		content = m.logs.View()
	case HelpView:
		content = m.help.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), m.tabs.View(), content, m.renderNotice())
}

// renderHeader renders the title line with the view name and shortcuts.
func (m *Model) renderHeader() string {
	var viewName string

	switch m.currentView {
	case WorkspaceView:
		viewName = "工作台"
	case DashboardView:
		viewName = "任务总览"
	case LogView:
		viewName = "日志"
	case HelpView:
		viewName = "帮助"
	}

	titleText := "Dolmetscher - " + viewName
	shortcutsText := "ctrl+s 翻译 • f1 帮助 • ctrl+c 退出"
	if shouldShowDetails(m.width) {
		shortcutsText = "ctrl+s 翻译 • tab 切换 • ctrl+o 新建 • f3 总览 • f1 帮助 • ctrl+c 退出"
	}

	maxLineWidth := m.width - 8
	titleText = components.Truncate(titleText, maxLineWidth/2)
	shortcutsText = components.Truncate(shortcutsText, maxLineWidth/2)

	spacePadding := max(maxLineWidth-lipgloss.Width(titleText)-lipgloss.Width(shortcutsText), 1)

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Render(titleText)
	shortcuts := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(shortcutsText)

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(lipgloss.Color("238")).
		Padding(0, 2)

	return headerStyle.Width(m.width - 4).Render(
		lipgloss.JoinHorizontal(lipgloss.Left, title, strings.Repeat(" ", spacePadding), shortcuts))
}

func (m *Model) renderNotice() string {
	if m.notice == "" {
		return ""
	}
	if m.noticeErr {
		return styles.ErrorStyle.Render(m.notice)
	}
	return styles.NoticeStyle.Render(m.notice)
}

// describe maps workspace errors to operator messages.
func describe(err error, capacity int) string {
	switch {
	case errors.Is(err, task.ErrBusy):
		return "正在翻译，请稍候"
	case errors.Is(err, task.ErrEmptySource):
		return "请输入中文原文"
	case errors.Is(err, task.ErrNoTarget):
		return "没有可处理的译文"
	case errors.Is(err, task.ErrNoSource):
		return "没有可处理的原文"
	case errors.Is(err, task.ErrCapacityReached):
		return fmt.Sprintf("最多只能同时处理 %d 个任务", capacity)
	case errors.Is(err, task.ErrNotRemovable):
		return "任务 1 不能关闭"
	case errors.Is(err, task.ErrSuperseded):
		return "内容已变化，结果已丢弃"
	}
	return ai.Describe(err)
}
