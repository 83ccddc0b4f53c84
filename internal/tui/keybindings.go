package tui

import (
	"charm.land/bubbles/v2/key"

	"github.com/colonyops/rollbook/internal/tui/components"
)

const keyCtrlC = "ctrl+c"

// KeyMap holds every binding of the editor screen.
type KeyMap struct {
	NextSection key.Binding
	PrevSection key.Binding
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Edit        key.Binding
	Cancel      key.Binding
	AddRow      key.Binding
	ToggleRow   key.Binding
	ToggleAll   key.Binding
	Delete      key.Binding
	Save        key.Binding
	Quit        key.Binding
	Help        key.Binding
	Notices     key.Binding
	DismissAll  key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextSection: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next section")),
		PrevSection: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous section")),
		Up:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "move up")),
		Down:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "move down")),
		Left:        key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "previous column")),
		Right:       key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "next column")),
		Edit:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit / open picker")),
		Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "stop editing")),
		AddRow:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add line")),
		ToggleRow:   key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "select line")),
		ToggleAll:   key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "select all lines")),
		Delete:      key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete selected / current line")),
		Save:        key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save order")),
		Quit:        key.NewBinding(key.WithKeys("q", keyCtrlC), key.WithHelp("q", "quit")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Notices:     key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "notifications")),
		DismissAll:  key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "dismiss toasts")),
	}
}

// HelpSections groups the bindings for the help dialog.
func (k KeyMap) HelpSections() []components.HelpDialogSection {
	return []components.HelpDialogSection{
		{Title: "General", Entries: entries(k.NextSection, k.PrevSection, k.Save, k.Quit, k.Help, k.Notices, k.DismissAll)},
		{Title: "Navigation", Entries: entries(k.Up, k.Down, k.Left, k.Right, k.Edit, k.Cancel)},
		{Title: "Line Items", Entries: entries(k.AddRow, k.ToggleRow, k.ToggleAll, k.Delete)},
	}
}

func entries(bindings ...key.Binding) []components.HelpEntry {
	out := make([]components.HelpEntry, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, components.HelpEntry{Key: h.Key, Desc: h.Desc})
	}
	return out
}
