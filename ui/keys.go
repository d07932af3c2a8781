package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	PlayPause    key.Binding
	PrevSentence key.Binding
	NextSentence key.Binding
	Restart      key.Binding
	Copy         key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		PlayPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		PrevSentence: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous sentence"),
		),
		NextSentence: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next sentence"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy sentence"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.PrevSentence, k.NextSentence, k.Copy, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.Restart},
		{k.PrevSentence, k.NextSentence},
		{k.Copy, k.Help, k.Quit},
	}
}
