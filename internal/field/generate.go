package field

import (
	"math"
	"math/rand"

	"github.com/san-kum/pointfield/internal/catalog"
	"github.com/san-kum/pointfield/internal/mathutil"
)

type Config struct {
	Count     int
	Center    mathutil.Vec3
	MinRadius float64
	MaxRadius float64
	Height    float64 // vertical jitter half-range

	BaseScale        float64
	InteractiveScale float64

	BaseColor        Color
	InteractiveColor Color
	HighlightColor   Color
}

// Generate places cfg.Count points around cfg.Center. Indices in interactive
// that fall outside the field are ignored. Interactive points take projects
// round-robin in index order; with an empty catalog they get none.
func Generate(cfg Config, interactive []int, projects []catalog.Project, rng *rand.Rand) []Point {
	if cfg.Count <= 0 {
		return nil
	}

	flags := make([]bool, cfg.Count)
	for _, idx := range interactive {
		if idx >= 0 && idx < cfg.Count {
			flags[idx] = true
		}
	}

	minR, maxR := cfg.MinRadius, cfg.MaxRadius
	if maxR < minR {
		minR, maxR = maxR, minR
	}

	points := make([]Point, cfg.Count)
	cursor := 0
	for i := range points {
		angle := rng.Float64() * 2 * math.Pi
		radius := minR + rng.Float64()*(maxR-minR)
		height := (rng.Float64()*2 - 1) * cfg.Height

		p := Point{
			Index: i,
			Base: cfg.Center.Add(mathutil.Vec3{
				X: math.Cos(angle) * radius,
				Y: height,
				Z: math.Sin(angle) * radius,
			}),
			Interactive:    flags[i],
			BaseScale:      cfg.BaseScale * (1 + rng.Float64()*0.6),
			BaseColor:      cfg.BaseColor,
			HighlightColor: cfg.HighlightColor,
			Phase:          rng.Float64() * 2 * math.Pi,
		}
		if p.Interactive {
			p.BaseScale = cfg.InteractiveScale
			p.BaseColor = cfg.InteractiveColor
			if len(projects) > 0 {
				p.Project = &projects[cursor%len(projects)]
			}
			cursor++
		}
		p.Scale = p.BaseScale
		p.TargetScale = p.BaseScale
		p.Color = p.BaseColor
		points[i] = p
	}
	return points
}

// InteractiveCount reports how many points carry the interactive flag.
func InteractiveCount(points []Point) int {
	n := 0
	for i := range points {
		if points[i].Interactive {
			n++
		}
	}
	return n
}
