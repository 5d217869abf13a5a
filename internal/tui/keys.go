package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/msto63/leitstand/internal/i18n"
)

// KeyMap holds the bindings of the frame.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	Toggle   key.Binding
	Back     key.Binding
	Forward  key.Binding
	Address  key.Binding
	Language key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
}

// newKeyMap builds the bindings with translated help texts.
func newKeyMap(t i18n.TranslateFunc) KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", t("keys.navigate"))),
		Toggle:   key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", t("keys.toggle"))),
		Back:     key.NewBinding(key.WithKeys("["), key.WithHelp("[", t("keys.back"))),
		Forward:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", t("keys.forward"))),
		Address:  key.NewBinding(key.WithKeys("g"), key.WithHelp("g", t("keys.address"))),
		Language: key.NewBinding(key.WithKeys("L"), key.WithHelp("L", t("keys.language"))),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", t("keys.quit"))),
	}
}

// ShortHelp lists the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Toggle, k.Back, k.Forward, k.Address, k.Language, k.Quit}
}

// FullHelp groups all bindings.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Toggle},
		{k.Back, k.Forward, k.Address},
		{k.Language, k.PageUp, k.PageDown, k.Quit},
	}
}
