package engine

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/pointfield/internal/animate"
	"github.com/san-kum/pointfield/internal/catalog"
	"github.com/san-kum/pointfield/internal/field"
	"github.com/san-kum/pointfield/internal/hover"
	"github.com/san-kum/pointfield/internal/magnet"
	"github.com/san-kum/pointfield/internal/mathutil"
	"github.com/san-kum/pointfield/internal/popup"
	"github.com/san-kum/pointfield/internal/scene"
	"github.com/san-kum/pointfield/internal/sched"
)

// Projector is the render collaborator: projection both ways, a hit test
// against the point primitive and viewport changes.
type Projector interface {
	Project(p mathutil.Vec3) (mathutil.Vec2, bool)
	Unproject(screen mathutil.Vec2, depth float64) mathutil.Vec3
	NDC(screen mathutil.Vec2) mathutil.Vec2
	HitTest(screen mathutil.Vec2, positions []mathutil.Vec3, tolerance float64) []scene.Hit
	Resize(width, height float64)
}

type ResizePolicy string

const (
	Reproject  ResizePolicy = "reproject"
	Regenerate ResizePolicy = "regenerate"
)

type Config struct {
	Width, Height float64

	Field       field.Config
	Interactive []int
	Tolerance   float64 // hit-test radius in pixels
	// Continuous re-runs the hit test every frame instead of only on
	// pointer movement.
	Continuous bool

	Animate      animate.Config
	Magnet       magnet.Config
	Popup        popup.Config
	ResizePolicy ResizePolicy
	Seed         int64
}

type Pointer struct {
	Screen mathutil.Vec2
	NDC    mathutil.Vec2
	Active bool
}

// Engine is the interaction context owned by a host. It is not safe for
// concurrent use: the host calls input methods and Tick from one goroutine.
type Engine struct {
	cfg      Config
	proj     Projector
	projects []catalog.Project
	log      *log.Logger
	rng      *rand.Rand

	points []field.Point
	draw   []mathutil.Vec3
	buf    *field.Buffers

	hover  *hover.Resolver
	anim   *animate.Animator
	magnet *magnet.Simulator
	sched  *sched.Scheduler
	popups *popup.Controller

	pointer Pointer
	cursor  bool
	elapsed time.Duration
	frame   uint64
	events  []Event
}

func New(cfg Config, proj Projector, projects []catalog.Project, logger *log.Logger) (*Engine, error) {
	if proj == nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: viewport %vx%v", ErrNoSurface, cfg.Width, cfg.Height)
	}
	if cfg.Field.Count <= 0 {
		return nil, ErrNoPoints
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	e := &Engine{
		cfg:      cfg,
		proj:     proj,
		projects: projects,
		log:      logger,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		anim:     animate.New(cfg.Animate, cfg.Seed),
		magnet:   magnet.New(cfg.Magnet, proj),
		sched:    sched.New(),
	}
	e.hover = hover.NewResolver(highlighter{e}, e.isInteractive)
	e.popups = popup.NewController(cfg.Popup, e.sched, popupEvents{e})

	proj.Resize(cfg.Width, cfg.Height)
	e.popups.SetViewport(cfg.Width, cfg.Height)
	e.generate()

	if len(projects) == 0 && field.InteractiveCount(e.points) > 0 {
		e.log.Warn("project catalog is empty; interactive points have nothing to open",
			"interactive", field.InteractiveCount(e.points))
		e.emit(CatalogEmpty{})
	}
	e.log.Debug("field ready", "points", len(e.points), "interactive", field.InteractiveCount(e.points))
	return e, nil
}

func (e *Engine) generate() {
	e.points = field.Generate(e.cfg.Field, e.cfg.Interactive, e.projects, e.rng)
	e.draw = make([]mathutil.Vec3, len(e.points))
	if e.buf == nil || e.buf.Len() != len(e.points) {
		e.buf = field.NewBuffers(len(e.points))
	}
	e.buf.Load(e.points)
	e.updatePositions()
}

// Tick advances the simulation by dt: due timers fire first, then magnetic
// offsets, scale easing and draw positions are stepped.
func (e *Engine) Tick(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	e.elapsed += dt
	e.frame++
	e.sched.Advance(dt)

	e.magnet.Step(e.points, magnet.Pointer{Screen: e.pointer.Screen, Active: e.pointer.Active})
	e.anim.Step(e.points, e.buf)
	e.updatePositions()

	if e.cfg.Continuous && e.pointer.Active {
		e.resolveHover()
	}
}

func (e *Engine) updatePositions() {
	t := e.elapsed.Seconds()
	for i := range e.points {
		p := &e.points[i]
		e.draw[i] = p.World().Add(e.anim.Wobble(p, t))
		e.buf.SetPosition(i, e.draw[i])
	}
}

// OnPointerMove updates the pointer and the hover under it. The active popup
// covers the field, so moving onto it counts as leaving the field.
func (e *Engine) OnPointerMove(x, y float64) {
	s := mathutil.Vec2{X: x, Y: y}
	if e.popups.Contains(s) {
		if e.pointer.Active {
			e.OnPointerLeave()
		}
		return
	}
	e.pointer = Pointer{Screen: s, NDC: e.proj.NDC(s), Active: true}
	e.resolveHover()
}

func (e *Engine) OnPointerLeave() {
	e.pointer.Active = false
	e.applyHover(e.hover.Clear())
}

// OnClick resolves the hover at (x, y) and opens the hovered point's project.
// It does nothing when no point is hovered, the point has no project, or the
// click lands on the active popup.
func (e *Engine) OnClick(x, y float64) {
	if e.popups.Contains(mathutil.Vec2{X: x, Y: y}) {
		return
	}
	e.OnPointerMove(x, y)
	idx := e.hover.Hovered()
	if idx == hover.None {
		return
	}
	p := &e.points[idx]
	if p.Project == nil {
		e.log.Debug("click on point without project", "index", idx)
		return
	}
	anchor, ok := e.proj.Project(e.draw[idx])
	if !ok {
		anchor = e.pointer.Screen
	}
	e.popups.Open(p.Project, anchor)
}

// OnPointerDown dismisses the popup when the press lands outside it.
func (e *Engine) OnPointerDown(x, y float64) {
	e.popups.PointerDown(mathutil.Vec2{X: x, Y: y})
}

func (e *Engine) OnKeyDown(key string) {
	switch key {
	case "Escape", "Esc", "esc":
		e.popups.Close(popup.ReasonEscape)
	}
}

// ClosePopup is the popup's own close affordance.
func (e *Engine) ClosePopup() {
	e.popups.Close(popup.ReasonAffordance)
}

func (e *Engine) OnResize(width, height float64) {
	if width <= 0 || height <= 0 {
		e.log.Warn("ignoring empty viewport", "width", width, "height", height)
		return
	}
	e.cfg.Width, e.cfg.Height = width, height
	e.proj.Resize(width, height)
	e.popups.SetViewport(width, height)

	if e.cfg.ResizePolicy != Regenerate {
		return
	}
	prev := e.hover.Hovered()
	e.hover.Forget()
	e.generate()
	if prev != hover.None {
		e.emit(HoverChanged{From: prev, To: hover.None})
	}
	e.setCursor(false)
	e.emit(FieldRegenerated{Count: len(e.points)})
	e.log.Debug("field regenerated", "width", width, "height", height)
}

func (e *Engine) resolveHover() {
	hits := e.proj.HitTest(e.pointer.Screen, e.draw, e.cfg.Tolerance)
	e.applyHover(e.hover.Resolve(hits))
}

func (e *Engine) applyHover(ch hover.Change) {
	if !ch.Changed {
		return
	}
	e.emit(HoverChanged{From: ch.From, To: ch.To})
	e.setCursor(ch.To != hover.None)
}

func (e *Engine) setCursor(pointer bool) {
	if e.cursor == pointer {
		return
	}
	e.cursor = pointer
	e.emit(CursorChanged{Pointer: pointer})
}

func (e *Engine) isInteractive(i int) bool {
	return i >= 0 && i < len(e.points) && e.points[i].Interactive
}

func (e *Engine) emit(ev Event) { e.events = append(e.events, ev) }

// Events drains the queued events.
func (e *Engine) Events() []Event {
	out := e.events
	e.events = nil
	return out
}

func (e *Engine) Points() []field.Point            { return e.points }
func (e *Engine) Buffers() *field.Buffers          { return e.buf }
func (e *Engine) Hovered() int                     { return e.hover.Hovered() }
func (e *Engine) Pointer() Pointer                 { return e.pointer }
func (e *Engine) Cursor() bool                     { return e.cursor }
func (e *Engine) Elapsed() time.Duration           { return e.elapsed }
func (e *Engine) Frame() uint64                    { return e.frame }
func (e *Engine) Popups() *popup.Controller        { return e.popups }
func (e *Engine) ActivePopup() *popup.Popup        { return e.popups.Active() }
func (e *Engine) Config() Config                   { return e.cfg }
func (e *Engine) Projects() []catalog.Project      { return e.projects }
func (e *Engine) DrawPosition(i int) mathutil.Vec3 { return e.draw[i] }

// HoverWorld is the world-space pointer hit on the hovered point.
func (e *Engine) HoverWorld() (mathutil.Vec3, bool) { return e.hover.LastWorld() }

// ScreenPosition projects the current draw position of point i.
func (e *Engine) ScreenPosition(i int) (mathutil.Vec2, bool) {
	return e.proj.Project(e.draw[i])
}

// Outline returns the visible points in index order, for hosts that link the
// field with a closed polyline.
func (e *Engine) Outline() []mathutil.Vec2 {
	out := make([]mathutil.Vec2, 0, len(e.draw))
	for _, p := range e.draw {
		if sp, ok := e.proj.Project(p); ok {
			out = append(out, sp)
		}
	}
	return out
}

type highlighter struct{ e *Engine }

func (h highlighter) Reset(i int)   { h.e.anim.Reset(&h.e.points[i], h.e.buf) }
func (h highlighter) Amplify(i int) { h.e.anim.Amplify(&h.e.points[i], h.e.buf) }

type popupEvents struct{ e *Engine }

func (pe popupEvents) OnPhase(p *popup.Popup) {
	e := pe.e
	e.emit(PopupPhase{Popup: p, Phase: p.Phase})
	switch {
	case p.Phase == popup.Opening:
		e.emit(PopupOpened{Popup: p})
		e.log.Debug("popup opened", "id", p.ID, "project", p.Project.Title)
	case p.Phase == popup.Closing,
		p.Phase == popup.Closed && p.Reason == popup.ReasonSuperseded:
		e.emit(PopupClosed{Popup: p, Reason: p.Reason})
		e.log.Debug("popup closed", "id", p.ID, "reason", p.Reason)
	}
}
