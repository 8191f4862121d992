package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/robalyx/dolmetscher/internal/tui/views"
)

// KeyMap defines key bindings for the TUI.
type KeyMap struct {
	Quit      key.Binding
	Help      key.Binding
	Workspace key.Binding
	Dashboard key.Binding
	Logs      key.Binding
	Back      key.Binding

	Translate    key.Binding
	SwitchEditor key.Binding
	AddSlot      key.Binding
	RemoveSlot   key.Binding
	NextSlot     key.Binding
	PrevSlot     key.Binding
	Clear        key.Binding
	NextPersona  key.Binding
	CopyBoth     key.Binding
	RegisterFlip key.Binding
	DashRemoval  key.Binding
	EmojiRemoval key.Binding
	CommentStrip key.Binding
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "退出")),
		Help:      key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "帮助")),
		Workspace: key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", "工作台")),
		Dashboard: key.NewBinding(key.WithKeys("f3"), key.WithHelp("f3", "任务总览")),
		Logs:      key.NewBinding(key.WithKeys("f4"), key.WithHelp("f4", "日志")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "返回工作台")),

		Translate:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "翻译")),
		SwitchEditor: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "切换原文/译文")),
		AddSlot:      key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "新建任务")),
		RemoveSlot:   key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "关闭任务")),
		NextSlot:     key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdown", "下一个任务")),
		PrevSlot:     key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "上一个任务")),
		Clear:        key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "清空")),
		NextPersona:  key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "切换角色")),
		CopyBoth:     key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "复制原文和译文")),
		RegisterFlip: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "Du/Sie 转换")),
		DashRemoval:  key.NewBinding(key.WithKeys("alt+d"), key.WithHelp("alt+d", "去除破折号")),
		EmojiRemoval: key.NewBinding(key.WithKeys("alt+e"), key.WithHelp("alt+e", "去除表情")),
		CommentStrip: key.NewBinding(key.WithKeys("alt+c"), key.WithHelp("alt+c", "删除注释/撤销")),
	}
}

// helpSections groups the bindings for the help view.
func (k KeyMap) helpSections() []views.HelpSection {
	return []views.HelpSection{
		{Title: "导航", Bindings: []key.Binding{k.Workspace, k.Dashboard, k.Logs, k.Help, k.Back, k.Quit}},
		{Title: "任务", Bindings: []key.Binding{k.AddSlot, k.RemoveSlot, k.NextSlot, k.PrevSlot, k.SwitchEditor}},
		{Title: "翻译", Bindings: []key.Binding{k.Translate, k.NextPersona, k.Clear, k.CopyBoth}},
		{Title: "后期处理", Bindings: []key.Binding{k.RegisterFlip, k.DashRemoval, k.EmojiRemoval, k.CommentStrip}},
	}
}
