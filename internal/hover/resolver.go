package hover

import (
	"github.com/san-kum/pointfield/internal/mathutil"
	"github.com/san-kum/pointfield/internal/scene"
)

// None is the hovered index when no interactive point is under the pointer.
const None = -1

// Highlighter applies the visual side of a hover transition.
type Highlighter interface {
	Reset(index int)
	Amplify(index int)
}

// Change describes the outcome of one resolution.
type Change struct {
	From, To int
	Changed  bool
}

// Resolver tracks the single hovered interactive point.
type Resolver struct {
	hl          Highlighter
	interactive func(int) bool

	hovered   int
	lastWorld mathutil.Vec3
	hasWorld  bool
}

func NewResolver(hl Highlighter, interactive func(int) bool) *Resolver {
	return &Resolver{hl: hl, interactive: interactive, hovered: None}
}

func (r *Resolver) Hovered() int { return r.hovered }

// LastWorld is the world-space hit location from the most recent resolution
// that landed on the hovered point.
func (r *Resolver) LastWorld() (mathutil.Vec3, bool) { return r.lastWorld, r.hasWorld }

// Resolve picks the nearest interactive hit (ties go to the lower index) and
// applies the transition. Resolving to the current index only refreshes the
// world hit location.
func (r *Resolver) Resolve(hits []scene.Hit) Change {
	best := -1
	for i, h := range hits {
		if !r.interactive(h.Index) {
			continue
		}
		if best < 0 || h.Distance < hits[best].Distance ||
			(h.Distance == hits[best].Distance && h.Index < hits[best].Index) {
			best = i
		}
	}

	next := None
	if best >= 0 {
		next = hits[best].Index
		r.lastWorld, r.hasWorld = hits[best].World, true
	}
	return r.transition(next)
}

// Clear drops the hover, resetting the previously hovered point.
func (r *Resolver) Clear() Change {
	r.hasWorld = false
	return r.transition(None)
}

// Forget drops the hover without touching visuals, for when the points the
// index referred to no longer exist.
func (r *Resolver) Forget() {
	r.hovered = None
	r.hasWorld = false
}

func (r *Resolver) transition(next int) Change {
	prev := r.hovered
	if next == prev {
		return Change{From: prev, To: next}
	}
	if prev != None {
		r.hl.Reset(prev)
	}
	r.hovered = next
	if next != None {
		r.hl.Amplify(next)
	} else {
		r.hasWorld = false
	}
	return Change{From: prev, To: next, Changed: true}
}
