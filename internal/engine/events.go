package engine

import "github.com/san-kum/pointfield/internal/popup"

// Event is emitted by input methods and Tick for the presentation side.
// Drain them with Engine.Events.
type Event interface {
	event()
}

// HoverChanged reports a hover transition; From/To may be hover.None.
type HoverChanged struct {
	From, To int
}

// CursorChanged asks the host to show a pointer (true) or default cursor.
type CursorChanged struct {
	Pointer bool
}

type PopupOpened struct {
	Popup *popup.Popup
}

// PopupPhase is emitted on every lifecycle transition, including the ones
// that also produce PopupOpened or PopupClosed.
type PopupPhase struct {
	Popup *popup.Popup
	Phase popup.Phase
}

// PopupClosed fires when a popup stops being the active one.
type PopupClosed struct {
	Popup  *popup.Popup
	Reason popup.Reason
}

// CatalogEmpty is raised once when interactive points have no projects.
type CatalogEmpty struct{}

// FieldRegenerated is raised when a resize rebuilt the field.
type FieldRegenerated struct {
	Count int
}

func (HoverChanged) event()     {}
func (CursorChanged) event()    {}
func (PopupOpened) event()      {}
func (PopupPhase) event()       {}
func (PopupClosed) event()      {}
func (CatalogEmpty) event()     {}
func (FieldRegenerated) event() {}
