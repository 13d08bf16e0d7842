package export

import (
	"sort"

	"github.com/san-kum/pointfield/internal/engine"
	"github.com/san-kum/pointfield/internal/field"
	"github.com/san-kum/pointfield/internal/mathutil"
)

// Dot is one projected point of a captured frame.
type Dot struct {
	Index       int
	X, Y        float64
	Depth       float64
	Radius      float64
	Color       field.Color
	Interactive bool
	Hovered     bool
}

type Box struct {
	X, Y, W, H  float64
	Title       string
	Description string
	Media       string
}

// Frame is a renderer-independent picture of the engine at one instant.
type Frame struct {
	Width, Height float64
	Dots          []Dot // back to front
	Outline       []mathutil.Vec2
	Popup         *Box
}

// Capture projects the engine's current draw state. radius is the on-screen
// radius of a point of scale one.
func Capture(e *engine.Engine, radius float64) Frame {
	cfg := e.Config()
	f := Frame{Width: cfg.Width, Height: cfg.Height, Outline: e.Outline()}

	hovered := e.Hovered()
	for i, p := range e.Points() {
		sp, ok := e.ScreenPosition(i)
		if !ok {
			continue
		}
		f.Dots = append(f.Dots, Dot{
			Index:       i,
			X:           sp.X,
			Y:           sp.Y,
			Depth:       e.DrawPosition(i).Z,
			Radius:      p.Scale * radius,
			Color:       p.Color,
			Interactive: p.Interactive,
			Hovered:     i == hovered,
		})
	}
	sort.SliceStable(f.Dots, func(a, b int) bool { return f.Dots[a].Depth < f.Dots[b].Depth })

	if p := e.ActivePopup(); p != nil {
		w, h := cfg.Popup.Width, cfg.Popup.Height
		f.Popup = &Box{
			X:           p.Anchor.X - w/2,
			Y:           p.Anchor.Y - h/2,
			W:           w,
			H:           h,
			Title:       p.Project.Title,
			Description: p.Project.Description,
			Media:       p.Project.Media,
		}
	}
	return f
}
