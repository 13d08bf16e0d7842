package field

import "github.com/san-kum/pointfield/internal/mathutil"

type Region int

const (
	RegionPosition Region = iota
	RegionScale
	RegionColor
	regionCount
)

func (r Region) String() string {
	switch r {
	case RegionPosition:
		return "position"
	case RegionScale:
		return "scale"
	case RegionColor:
		return "color"
	}
	return "unknown"
}

// Dirty is the per-region state returned by Poll.
type Dirty struct {
	Position, Scale, Color bool
}

func (d Dirty) Any() bool { return d.Position || d.Scale || d.Color }

// Uploader is the render side of the buffers: it receives only regions that
// changed since the previous flush.
type Uploader interface {
	Upload(r Region, data []float32)
}

// Buffers holds the contiguous per-point attribute arrays shared with the
// renderer. Positions and colors are packed xyz / rgb.
type Buffers struct {
	Positions []float32
	Scales    []float32
	Colors    []float32

	dirty [regionCount]bool
}

func NewBuffers(n int) *Buffers {
	return &Buffers{
		Positions: make([]float32, n*3),
		Scales:    make([]float32, n),
		Colors:    make([]float32, n*3),
	}
}

// Load writes every point into the buffers and marks all regions dirty.
func (b *Buffers) Load(points []Point) {
	for i := range points {
		p := &points[i]
		b.writePosition(i, p.Base)
		b.Scales[i] = float32(p.Scale)
		b.writeColor(i, p.Color)
	}
	for r := range b.dirty {
		b.dirty[r] = true
	}
}

func (b *Buffers) Len() int { return len(b.Scales) }

func (b *Buffers) SetPosition(i int, v mathutil.Vec3) {
	x, y, z := float32(v.X), float32(v.Y), float32(v.Z)
	o := i * 3
	if b.Positions[o] == x && b.Positions[o+1] == y && b.Positions[o+2] == z {
		return
	}
	b.writePosition(i, v)
	b.dirty[RegionPosition] = true
}

func (b *Buffers) SetScale(i int, s float64) {
	b.Scales[i] = float32(s)
	b.dirty[RegionScale] = true
}

func (b *Buffers) SetColor(i int, c Color) {
	b.writeColor(i, c)
	b.dirty[RegionColor] = true
}

func (b *Buffers) Position(i int) mathutil.Vec3 {
	o := i * 3
	return mathutil.Vec3{X: float64(b.Positions[o]), Y: float64(b.Positions[o+1]), Z: float64(b.Positions[o+2])}
}

func (b *Buffers) Color(i int) Color {
	o := i * 3
	return Color{float64(b.Colors[o]), float64(b.Colors[o+1]), float64(b.Colors[o+2])}
}

func (b *Buffers) IsDirty(r Region) bool { return b.dirty[r] }

// Poll reports and clears the dirty flags.
func (b *Buffers) Poll() Dirty {
	d := Dirty{Position: b.dirty[RegionPosition], Scale: b.dirty[RegionScale], Color: b.dirty[RegionColor]}
	b.dirty = [regionCount]bool{}
	return d
}

// Flush uploads the dirty regions through u and clears their flags.
func (b *Buffers) Flush(u Uploader) Dirty {
	d := b.Poll()
	if d.Position {
		u.Upload(RegionPosition, b.Positions)
	}
	if d.Scale {
		u.Upload(RegionScale, b.Scales)
	}
	if d.Color {
		u.Upload(RegionColor, b.Colors)
	}
	return d
}

func (b *Buffers) writePosition(i int, v mathutil.Vec3) {
	o := i * 3
	b.Positions[o], b.Positions[o+1], b.Positions[o+2] = float32(v.X), float32(v.Y), float32(v.Z)
}

func (b *Buffers) writeColor(i int, c Color) {
	o := i * 3
	b.Colors[o], b.Colors[o+1], b.Colors[o+2] = float32(c.R), float32(c.G), float32(c.B)
}
