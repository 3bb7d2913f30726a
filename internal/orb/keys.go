package orb

// Key names follow the DOM KeyboardEvent.key values.
const (
	KeyEnter      = "Enter"
	KeySpace      = " "
	KeyArrowRight = "ArrowRight"
	KeyArrowLeft  = "ArrowLeft"
)

// KeyResult reports how a key press was handled.
type KeyResult struct {
	Handled bool
	// PreventDefault is set for Space/Enter so the page does not scroll.
	PreventDefault bool
}

// HandleKey applies the keyboard bindings of the orb.
func (w *Widget) HandleKey(key string) KeyResult {
	switch key {
	case KeyEnter, KeySpace, "Space", "Spacebar":
		w.InstantReveal()
		return KeyResult{Handled: true, PreventDefault: true}
	case KeyArrowRight:
		w.SelectNext()
		return KeyResult{Handled: true}
	case KeyArrowLeft:
		w.SelectPrevious()
		return KeyResult{Handled: true}
	}
	return KeyResult{}
}
