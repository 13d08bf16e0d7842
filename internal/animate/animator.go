package animate

import (
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/san-kum/pointfield/internal/field"
	"github.com/san-kum/pointfield/internal/mathutil"
)

type Config struct {
	Ease         float64 // fraction of the remaining scale covered per frame
	DirtyEpsilon float64
	Amplify      float64 // hovered scale multiplier

	Wobble          bool
	WobbleAmplitude float64 // world units
	WobbleFrequency float64 // radians per second
	DriftAmplitude  float64 // world units of Perlin drift
	DriftSpeed      float64
}

func DefaultConfig() Config {
	return Config{
		Ease:            0.1,
		DirtyEpsilon:    0.01,
		Amplify:         1.6,
		Wobble:          true,
		WobbleAmplitude: 0.06,
		WobbleFrequency: 1.8,
		DriftAmplitude:  0.04,
		DriftSpeed:      0.25,
	}
}

// Animator owns per-point scale easing, hover color swaps and wobble.
type Animator struct {
	cfg   Config
	noise *perlin.Perlin
}

func New(cfg Config, seed int64) *Animator {
	return &Animator{cfg: cfg, noise: perlin.NewPerlin(2, 2, 3, seed)}
}

func (a *Animator) Config() Config { return a.cfg }

// Amplify sets the hovered target scale and swaps in the highlight color.
func (a *Animator) Amplify(p *field.Point, buf *field.Buffers) {
	p.TargetScale = p.BaseScale * a.cfg.Amplify
	p.Color = p.HighlightColor
	buf.SetColor(p.Index, p.Color)
}

// Reset restores the baseline target scale and color.
func (a *Animator) Reset(p *field.Point, buf *field.Buffers) {
	p.TargetScale = p.BaseScale
	p.Color = p.BaseColor
	buf.SetColor(p.Index, p.Color)
}

// Step eases every current scale toward its target. A step is written to the
// scale region only when it moves the scale by more than DirtyEpsilon; once the
// remaining gap is within DirtyEpsilon the scale snaps to its target and is
// written one last time.
func (a *Animator) Step(points []field.Point, buf *field.Buffers) bool {
	dirty := false
	for i := range points {
		p := &points[i]
		diff := p.TargetScale - p.Scale
		switch {
		case diff == 0:
			continue
		case math.Abs(diff) <= a.cfg.DirtyEpsilon:
			p.Scale = p.TargetScale
		default:
			change := diff * a.cfg.Ease
			p.Scale += change
			if math.Abs(change) <= a.cfg.DirtyEpsilon {
				continue
			}
		}
		buf.SetScale(p.Index, p.Scale)
		dirty = true
	}
	return dirty
}

// Wobble is the periodic displacement of a point at the given elapsed time.
// It depends only on the seed, the point's phase and elapsed.
func (a *Animator) Wobble(p *field.Point, elapsed float64) mathutil.Vec3 {
	if !a.cfg.Wobble {
		return mathutil.Vec3{}
	}
	w := a.cfg.WobbleFrequency * elapsed
	v := mathutil.Vec3{
		X: math.Sin(w+p.Phase) * a.cfg.WobbleAmplitude,
		Y: math.Cos(w*0.8+p.Phase) * a.cfg.WobbleAmplitude,
	}
	if a.cfg.DriftAmplitude > 0 {
		t := elapsed * a.cfg.DriftSpeed
		v.X += a.noise.Noise2D(t, p.Phase) * a.cfg.DriftAmplitude
		v.Z += a.noise.Noise2D(p.Phase, t) * a.cfg.DriftAmplitude
	}
	return v
}
