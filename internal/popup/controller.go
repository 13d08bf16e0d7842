package popup

import (
	"time"

	"github.com/san-kum/pointfield/internal/catalog"
	"github.com/san-kum/pointfield/internal/mathutil"
	"github.com/san-kum/pointfield/internal/sched"
)

type Phase int

const (
	Closed Phase = iota
	Opening
	Visible
	Closing
)

func (p Phase) String() string {
	switch p {
	case Closed:
		return "closed"
	case Opening:
		return "opening"
	case Visible:
		return "visible"
	case Closing:
		return "closing"
	}
	return "unknown"
}

// Reason tells why a popup was dismissed.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonAffordance
	ReasonOutside
	ReasonEscape
	ReasonTimeout
	ReasonSuperseded
)

func (r Reason) String() string {
	switch r {
	case ReasonAffordance:
		return "close"
	case ReasonOutside:
		return "outside"
	case ReasonEscape:
		return "escape"
	case ReasonTimeout:
		return "timeout"
	case ReasonSuperseded:
		return "superseded"
	}
	return "none"
}

type Config struct {
	AutoDismiss   time.Duration
	EnterDuration time.Duration
	ExitDuration  time.Duration
	Margin        float64
	Width, Height float64 // bounds used for outside-pointer detection
}

func DefaultConfig() Config {
	return Config{
		AutoDismiss:   7000 * time.Millisecond,
		EnterDuration: 16 * time.Millisecond,
		ExitDuration:  220 * time.Millisecond,
		Margin:        160,
		Width:         320,
		Height:        320,
	}
}

// Popup is one open/close cycle of the overlay.
type Popup struct {
	ID      uint64
	Project *catalog.Project
	Anchor  mathutil.Vec2
	Phase   Phase
	Reason  Reason

	enter sched.Handle
	exit  sched.Handle
}

// Observer is the presentation side; it is told about every phase change.
type Observer interface {
	OnPhase(p *Popup)
}

// Controller enforces a single active popup. The auto-dismiss handle it holds
// always belongs to the active popup.
type Controller struct {
	cfg      Config
	sched    *sched.Scheduler
	observer Observer
	viewport mathutil.Vec2

	active  *Popup
	timer   sched.Handle
	closing []*Popup
	nextID  uint64
}

func NewController(cfg Config, s *sched.Scheduler, obs Observer) *Controller {
	return &Controller{cfg: cfg, sched: s, observer: obs}
}

func (c *Controller) SetViewport(w, h float64) { c.viewport = mathutil.Vec2{X: w, Y: h} }

func (c *Controller) Active() *Popup { return c.active }

// Timer is the pending auto-dismiss handle, zero when no popup is active.
func (c *Controller) Timer() sched.Handle { return c.timer }

// Closing lists popups still playing their exit transition.
func (c *Controller) Closing() []*Popup { return c.closing }

// Open shows project anchored near anchor. Any active popup is torn down
// first without waiting for its exit transition. A nil project is a no-op.
func (c *Controller) Open(project *catalog.Project, anchor mathutil.Vec2) *Popup {
	if project == nil {
		return nil
	}
	if c.active != nil {
		c.forceClose(ReasonSuperseded)
	}

	c.nextID++
	p := &Popup{ID: c.nextID, Project: project, Anchor: c.Clamp(anchor)}
	c.active = p
	c.setPhase(p, Opening)

	p.enter = c.sched.After(c.cfg.EnterDuration, func() {
		if c.active == p && p.Phase == Opening {
			c.setPhase(p, Visible)
		}
	})

	var h sched.Handle
	h = c.sched.After(c.cfg.AutoDismiss, func() {
		if c.active != p || c.timer != h {
			return
		}
		c.Close(ReasonTimeout)
	})
	c.timer = h
	return p
}

// Close dismisses the active popup. The active reference is cleared at once;
// the instance reaches Closed after the exit transition.
func (c *Controller) Close(reason Reason) bool {
	p := c.detach(reason)
	if p == nil {
		return false
	}
	c.setPhase(p, Closing)

	c.closing = append(c.closing, p)
	p.exit = c.sched.After(c.cfg.ExitDuration, func() { c.finish(p) })
	return true
}

// PointerDown closes the active popup when pt lies outside its bounds.
func (c *Controller) PointerDown(pt mathutil.Vec2) bool {
	if c.active == nil || c.Contains(pt) {
		return false
	}
	return c.Close(ReasonOutside)
}

// Contains reports whether pt lies within the active popup's bounds.
func (c *Controller) Contains(pt mathutil.Vec2) bool {
	if c.active == nil {
		return false
	}
	a := c.active.Anchor
	return pt.X >= a.X-c.cfg.Width/2 && pt.X <= a.X+c.cfg.Width/2 &&
		pt.Y >= a.Y-c.cfg.Height/2 && pt.Y <= a.Y+c.cfg.Height/2
}

// Clamp keeps the anchor Margin pixels inside the viewport on each axis,
// centering it on axes too small to honor the margin.
func (c *Controller) Clamp(pt mathutil.Vec2) mathutil.Vec2 {
	return mathutil.Vec2{
		X: clampAxis(pt.X, c.viewport.X, c.cfg.Margin),
		Y: clampAxis(pt.Y, c.viewport.Y, c.cfg.Margin),
	}
}

func clampAxis(v, size, margin float64) float64 {
	if size <= 0 {
		return v
	}
	if size < 2*margin {
		return size / 2
	}
	return mathutil.Clamp(v, margin, size-margin)
}

func (c *Controller) forceClose(reason Reason) {
	if p := c.detach(reason); p != nil {
		c.setPhase(p, Closed)
	}
}

// detach drops the active popup, cancels its pending entry and auto-dismiss
// timers and records why it ended.
func (c *Controller) detach(reason Reason) *Popup {
	p := c.active
	if p == nil {
		return nil
	}
	c.cancelTimer()
	c.active = nil
	c.sched.Cancel(p.enter)
	p.Reason = reason
	return p
}

func (c *Controller) finish(p *Popup) {
	for i, q := range c.closing {
		if q == p {
			c.closing = append(c.closing[:i], c.closing[i+1:]...)
			break
		}
	}
	if p.Phase == Closing {
		c.setPhase(p, Closed)
	}
}

func (c *Controller) cancelTimer() {
	if c.timer != 0 {
		c.sched.Cancel(c.timer)
		c.timer = 0
	}
}

func (c *Controller) setPhase(p *Popup, phase Phase) {
	p.Phase = phase
	if c.observer != nil {
		c.observer.OnPhase(p)
	}
}
