package orb

import (
	"fmt"
	"strings"
)

// Phase is the surface's visual state.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseCharging Phase = "charging"
)

const (
	hintIdle     = "Tap, or hold + move to scry"
	hintRevealed = "Vision revealed ✧"
	lockedPrompt = "Scry the orb to reveal the details."
)

// Teaser is shown on the surface at all times.
type Teaser struct {
	Title     string `json:"title"`
	Org       string `json:"org"`
	Timeframe string `json:"timeframe"`
	LogoSrc   string `json:"logoSrc"`
	LogoAlt   string `json:"logoAlt"`
}

// Details is the paired panel. Its content is only populated once the
// orb is revealed; until then Locked carries the prompt.
type Details struct {
	Visible     bool     `json:"visible"`
	Org         string   `json:"org,omitempty"`
	Status      string   `json:"status,omitempty"`
	Description string   `json:"description,omitempty"`
	Runes       []string `json:"runes,omitempty"`
	LogoSrc     string   `json:"logoSrc,omitempty"`
	LogoAlt     string   `json:"logoAlt,omitempty"`
	Locked      string   `json:"locked,omitempty"`
}

// View is the inspectable rendering state of the widget.
type View struct {
	Empty       bool    `json:"empty"`
	Phase       Phase   `json:"phase,omitempty"`
	Revealed    bool    `json:"revealed"`
	Charge      float64 `json:"charge"`
	Progress    float64 `json:"progress"`
	RingDegrees float64 `json:"ringDegrees"`
	Index       int     `json:"index"`
	Total       int     `json:"total"`
	Hint        string  `json:"hint,omitempty"`
	Teaser      Teaser  `json:"teaser"`
	Details     Details `json:"details"`
}

// Position renders "i / N" for the progress label.
func (v View) Position() string {
	if v.Empty {
		return ""
	}
	return fmt.Sprintf("%d / %d", v.Index+1, v.Total)
}

// Classes returns the surface class list, e.g. "crystal-orb is-scrying".
func (v View) Classes() string {
	c := []string{"crystal-orb"}
	if v.Phase == PhaseCharging {
		c = append(c, "is-scrying")
	}
	if v.Revealed {
		c = append(c, "is-revealed")
	}
	return strings.Join(c, " ")
}

// View snapshots the widget for rendering.
func (w *Widget) View() View {
	cur, ok := w.Current()
	if !ok {
		return View{Empty: true}
	}
	s := w.state
	v := View{
		Phase:       PhaseIdle,
		Revealed:    s.Revealed,
		Charge:      s.Charge,
		Progress:    s.Charge / MaxCharge,
		RingDegrees: s.Charge / MaxCharge * 360,
		Index:       s.Index,
		Total:       len(w.entries),
		Hint:        hintIdle,
		Teaser: Teaser{
			Title:     cur.Title,
			Org:       cur.Org,
			Timeframe: cur.Timeframe,
			LogoSrc:   cur.LogoSrc,
			LogoAlt:   cur.LogoAlt,
		},
	}
	if s.Dragging {
		v.Phase = PhaseCharging
	}
	if !s.Revealed {
		v.Details.Locked = lockedPrompt
		return v
	}
	v.Hint = hintRevealed
	v.Details = Details{
		Visible:     true,
		Org:         cur.Org,
		Status:      cur.Status,
		Description: cur.Description,
		Runes:       append([]string(nil), cur.Runes...),
		LogoSrc:     cur.LogoSrc,
		LogoAlt:     cur.LogoAlt,
	}
	return v
}
