package field

import (
	"github.com/san-kum/pointfield/internal/catalog"
	"github.com/san-kum/pointfield/internal/mathutil"
)

type Color struct {
	R, G, B float64
}

// RGB builds a Color from 8-bit channels.
func RGB(r, g, b uint8) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255}
}

// Point is one record of the field. Index is stable for the field's lifetime.
type Point struct {
	Index       int
	Base        mathutil.Vec3
	Offset      mathutil.Vec3 // magnetic displacement
	Interactive bool

	BaseScale   float64
	Scale       float64 // eased current scale
	TargetScale float64

	BaseColor      Color
	HighlightColor Color
	Color          Color

	Project *catalog.Project
	Phase   float64 // wobble phase, fixed at generation
}

// World returns the base position displaced by the magnetic offset.
func (p *Point) World() mathutil.Vec3 { return p.Base.Add(p.Offset) }
