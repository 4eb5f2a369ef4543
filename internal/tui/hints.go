package tui

import (
	"charm.land/bubbles/v2/key"
	"github.com/mark3labs/bitgrid/internal/tui/theme"
)

// KeyMap holds the grid view key bindings. It implements help.KeyMap.
type KeyMap struct {
	Cancel key.Binding
	Fill   key.Binding
	Clear  key.Binding
	Reset  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel drag"),
		),
		Fill: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "fill all"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset (silent)"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the one-line footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Fill, k.Clear, k.Help, k.Quit}
}

// FullHelp returns every binding, grouped in columns.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Fill, k.Clear, k.Reset},
		{k.Cancel, k.Help, k.Quit},
	}
}

// RenderHint renders a single key-description pair.
// Example: RenderHint("drag", "toggle") -> "drag toggle"
func RenderHint(key, desc string) string {
	s := theme.Current().S()
	return s.HintKey.Render(key) + " " + s.HintDesc.Render(desc)
}

// RenderHintBar renders a hint bar with multiple key-description pairs.
// Pairs are separated by " . ".
// Example: RenderHintBar("drag", "toggle", "esc", "cancel")
// Returns: "drag toggle . esc cancel"
func RenderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	s := theme.Current().S()
	var result string

	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			result += " " + s.HintSeparator.Render(".") + " "
		}
		result += s.HintKey.Render(pairs[i]) + " " + s.HintDesc.Render(pairs[i+1])
	}

	return result
}

// HintDragging returns hints shown while a drag is in progress.
// "release toggle . esc cancel"
func HintDragging() string {
	return RenderHintBar("release", "toggle", "esc", "cancel")
}

// HintIdle returns hints shown while no drag is in progress.
// "drag toggle rect . click toggle cell"
func HintIdle() string {
	return RenderHintBar("drag", "toggle rect", "click", "toggle cell")
}
