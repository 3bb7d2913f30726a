// Package tui renders the crystal orb and the rune carousel in a terminal.
// Dragging the mouse across the orb charges it; a click reveals it.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/helasrebellion/arcana-forges/internal/carousel"
	"github.com/helasrebellion/arcana-forges/internal/orb"
)

const (
	headerRows = 3
	orbWidth   = 34
	orbHeight  = 11

	// terminal cells are roughly 8x16 pixels; scale so drag distances
	// charge the orb like pointer movement does in a browser
	cellWidth  = 8
	cellHeight = 16

	mousePointer = 0
	panelWidth   = 60
)

type slideMsg struct{}

// Model is the bubbletea model for `arcana scry`.
type Model struct {
	widget   *orb.Widget
	capture  *orb.Capture
	carousel *carousel.Carousel
	interval time.Duration

	keys     keyMap
	help     help.Model
	progress progress.Model
	styles   styles
	markdown *glamour.TermRenderer

	pressed bool
	moved   bool
	width   int
	height  int
}

// NewModel builds the model over entries and slides.
func NewModel(entries []orb.Entry, slides []carousel.Image, interval time.Duration) Model {
	w := orb.New(entries)
	md, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(panelWidth-4),
	)
	if err != nil {
		md = nil
	}
	return Model{
		widget:   w,
		capture:  orb.NewCapture(w),
		carousel: carousel.New(slides),
		interval: interval,
		keys:     defaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithGradient("#6B7280", "#8B5CF6"), progress.WithWidth(orbWidth), progress.WithoutPercentage()),
		styles:   defaultStyles(),
		markdown: md,
	}
}

// Widget exposes the orb for inspection.
func (m Model) Widget() *orb.Widget { return m.widget }

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	if m.carousel.Len() <= 1 {
		return nil
	}
	interval := m.interval
	if interval <= 0 {
		interval = carousel.DefaultInterval
	}
	return tea.Tick(interval, func(time.Time) tea.Msg { return slideMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case slideMsg:
		m.carousel.Next()
		return m, m.tick()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Reveal):
		m.widget.HandleKey(orb.KeyEnter)
	case key.Matches(msg, m.keys.Next):
		m.navigate(orb.KeyArrowRight)
	case key.Matches(msg, m.keys.Prev):
		m.navigate(orb.KeyArrowLeft)
	case key.Matches(msg, m.keys.SlideNext):
		m.carousel.Next()
	case key.Matches(msg, m.keys.SlidePrev):
		m.carousel.Previous()
	}
	return m, nil
}

func (m *Model) navigate(k string) {
	m.capture.Release()
	m.pressed = false
	m.widget.HandleKey(k)
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	p := orb.Point{X: float64(msg.X * cellWidth), Y: float64(msg.Y * cellHeight)}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inOrb(msg.X, msg.Y) {
			return
		}
		m.pressed = true
		m.moved = false
		m.capture.Down(mousePointer, p)

	case tea.MouseActionMotion:
		// captured: keep charging even outside the orb
		if !m.pressed {
			return
		}
		m.moved = true
		m.capture.Move(mousePointer, p)

	case tea.MouseActionRelease:
		if !m.pressed {
			return
		}
		m.pressed = false
		if m.moved {
			m.capture.Up(mousePointer)
			return
		}
		m.capture.Apply(orb.Event{Type: orb.EventTap, Pointer: mousePointer})
	}
}

func inOrb(x, y int) bool {
	return x >= 0 && x < orbWidth && y >= headerRows && y < headerRows+orbHeight
}

func (m Model) View() string {
	v := m.widget.View()
	if v.Empty {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Origins of the Forge"))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render("Place your hand upon the crystal, stir the mist, and let a vision take form."))
	b.WriteString("\n\n")

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.renderOrb(v),
		m.progress.ViewAs(v.Progress),
		m.styles.Hint.Render(fmt.Sprintf("‹  Vision %s  ›", v.Position())),
	)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, m.renderDetails(v)))
	b.WriteString("\n")
	b.WriteString(m.renderSlide())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderOrb(v orb.View) string {
	style := m.styles.Orb
	switch {
	case v.Revealed:
		style = m.styles.OrbLit
	case v.Phase == orb.PhaseCharging:
		style = m.styles.OrbHot
	}
	body := lipgloss.JoinVertical(lipgloss.Center,
		m.styles.Teaser.Render(v.Teaser.Title),
		v.Teaser.Org,
		m.styles.Hint.Render(v.Teaser.Timeframe),
		"",
		m.styles.Hint.Render(v.Hint),
	)
	return style.Render(body)
}

func (m Model) renderDetails(v orb.View) string {
	if !v.Details.Visible {
		return m.styles.Panel.Render(m.styles.Locked.Render(v.Details.Locked))
	}

	var md strings.Builder
	fmt.Fprintf(&md, "### %s\n\n*%s*\n\n%s\n", v.Details.Org, v.Details.Status, v.Details.Description)
	if m.markdown != nil {
		if out, err := m.markdown.Render(md.String()); err == nil {
			return m.styles.Panel.Render(out + m.renderRunes(v.Details.Runes))
		}
	}
	return m.styles.Panel.Width(panelWidth).Render(md.String() + "\n" + m.renderRunes(v.Details.Runes))
}

func (m Model) renderRunes(runes []string) string {
	if len(runes) == 0 {
		return ""
	}
	chips := make([]string, len(runes))
	for i, r := range runes {
		chips[i] = m.styles.Chip.Render("ᚱ " + r)
	}
	return lipgloss.NewStyle().Width(panelWidth).Render(strings.Join(chips, " "))
}

func (m Model) renderSlide() string {
	imgs := m.carousel.Images()
	if len(imgs) == 0 {
		return ""
	}
	i := m.carousel.Current()
	dots := make([]string, len(imgs))
	for j := range imgs {
		dots[j] = "·"
		if j == i {
			dots[j] = "•"
		}
	}
	return m.styles.Slide.Render(fmt.Sprintf("Runes of the Craft: %s\n%s", imgs[i].Alt, strings.Join(dots, " ")))
}

// Run starts the terminal program and blocks until it exits or ctx ends.
func Run(ctx context.Context, entries []orb.Entry, slides []carousel.Image, interval time.Duration) error {
	p := tea.NewProgram(
		NewModel(entries, slides, interval),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
