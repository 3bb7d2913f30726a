package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Reveal    key.Binding
	Next      key.Binding
	Prev      key.Binding
	SlideNext key.Binding
	SlidePrev key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Reveal: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter/space", "reveal"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next origin"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev origin"),
		),
		SlideNext: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next rune"),
		),
		SlidePrev: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev rune"),
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

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Reveal, k.Next, k.Prev, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Reveal, k.Next, k.Prev},
		{k.SlideNext, k.SlidePrev},
		{k.Help, k.Quit},
	}
}
