package magnet

import (
	"github.com/san-kum/pointfield/internal/field"
	"github.com/san-kum/pointfield/internal/mathutil"
)

// Config holds the tuned attraction constants. Threshold is in screen pixels,
// MaxOffset in world units; the fractions are per-frame smoothing factors.
type Config struct {
	Enabled            bool
	Threshold          float64
	Pull               float64
	Attract            float64
	ReleaseInteractive float64
	ReleaseAmbient     float64
	SnapEpsilon        float64
	MaxOffset          float64
}

func DefaultConfig() Config {
	return Config{
		Enabled:            true,
		Threshold:          140,
		Pull:               0.35,
		Attract:            0.18,
		ReleaseInteractive: 0.12,
		ReleaseAmbient:     0.08,
		SnapEpsilon:        1e-4,
		MaxOffset:          1.5,
	}
}

type Projector interface {
	Project(p mathutil.Vec3) (mathutil.Vec2, bool)
	Unproject(screen mathutil.Vec2, depth float64) mathutil.Vec3
}

type Pointer struct {
	Screen mathutil.Vec2
	Active bool
}

type Simulator struct {
	cfg  Config
	proj Projector
}

func New(cfg Config, proj Projector) *Simulator {
	return &Simulator{cfg: cfg, proj: proj}
}

func (s *Simulator) Config() Config { return s.cfg }

// Influence maps a screen distance to [0,1]; zero at or beyond the threshold.
func (s *Simulator) Influence(dist float64) float64 {
	if s.cfg.Threshold <= 0 || dist >= s.cfg.Threshold {
		return 0
	}
	return 1 - dist/s.cfg.Threshold
}

// Step advances every offset by one frame and reports whether any moved.
func (s *Simulator) Step(points []field.Point, ptr Pointer) bool {
	moved := false
	attracting := s.cfg.Enabled && ptr.Active
	for i := range points {
		p := &points[i]
		prev := p.Offset

		switch {
		case !p.Interactive:
			p.Offset = s.release(p.Offset, s.cfg.ReleaseAmbient)
		case attracting:
			p.Offset = s.attract(p, ptr.Screen)
		default:
			p.Offset = s.release(p.Offset, s.cfg.ReleaseInteractive)
		}

		if p.Offset != prev {
			moved = true
		}
	}
	return moved
}

func (s *Simulator) attract(p *field.Point, pointer mathutil.Vec2) mathutil.Vec3 {
	sp, ok := s.proj.Project(p.World())
	if !ok {
		return s.release(p.Offset, s.cfg.ReleaseInteractive)
	}
	influence := s.Influence(sp.Dist(pointer))
	if influence <= 0 {
		return s.release(p.Offset, s.cfg.ReleaseInteractive)
	}

	target := s.proj.Unproject(pointer, p.Base.Z)
	strength := s.cfg.Pull * (0.6 + 0.8*influence)
	desired := target.Sub(p.Base).Scale(strength)
	return p.Offset.Lerp(desired, s.cfg.Attract).ClampLength(s.cfg.MaxOffset)
}

func (s *Simulator) release(offset mathutil.Vec3, fraction float64) mathutil.Vec3 {
	if offset.IsZero() {
		return offset
	}
	next := offset.Lerp(mathutil.Vec3{}, fraction)
	if next.Length() < s.cfg.SnapEpsilon {
		return mathutil.Vec3{}
	}
	return next
}
