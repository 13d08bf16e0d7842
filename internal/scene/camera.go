package scene

import (
	"math"
	"sort"

	"github.com/san-kum/pointfield/internal/mathutil"
)

// Camera is a perspective camera sitting on +Z and looking at the origin.
// Screen space is in pixels with the origin at the top-left corner.
type Camera struct {
	Distance float64
	FOV      float64
	Near     float64

	width, height float64
	focal         float64
}

func NewCamera(fov, distance, width, height float64) *Camera {
	c := &Camera{Distance: distance, FOV: fov, Near: 0.1}
	c.Resize(width, height)
	return c
}

// Resize recomputes the projection for a new viewport.
func (c *Camera) Resize(width, height float64) {
	c.width, c.height = width, height
	c.focal = (height / 2) / math.Tan(c.FOV/2)
}

func (c *Camera) Viewport() (float64, float64) { return c.width, c.height }

// Project converts world coordinates to screen coordinates.
// The bool is false for points behind the near plane.
func (c *Camera) Project(p mathutil.Vec3) (mathutil.Vec2, bool) {
	dz := c.Distance - p.Z
	if dz <= c.Near {
		return mathutil.Vec2{}, false
	}
	s := c.focal / dz
	return mathutil.Vec2{X: c.width/2 + p.X*s, Y: c.height/2 - p.Y*s}, true
}

// Unproject returns the world point under a screen position at the given depth,
// i.e. the intersection of the pointer ray with the plane z = depth.
func (c *Camera) Unproject(screen mathutil.Vec2, depth float64) mathutil.Vec3 {
	dz := math.Max(c.Distance-depth, c.Near)
	s := c.focal / dz
	return mathutil.Vec3{
		X: (screen.X - c.width/2) / s,
		Y: (c.height/2 - screen.Y) / s,
		Z: depth,
	}
}

// NDC maps a screen position to normalized device coordinates in [-1, 1].
func (c *Camera) NDC(screen mathutil.Vec2) mathutil.Vec2 {
	if c.width == 0 || c.height == 0 {
		return mathutil.Vec2{}
	}
	return mathutil.Vec2{X: screen.X/c.width*2 - 1, Y: 1 - screen.Y/c.height*2}
}

// Hit is one candidate returned by HitTest.
type Hit struct {
	Index    int
	Distance float64 // screen-space distance to the pointer
	Screen   mathutil.Vec2
	World    mathutil.Vec3 // pointer position on the point's depth plane
}

// HitTest returns every point whose projection lies within tolerance pixels
// of the pointer, nearest first. Equal distances are ordered by index.
func (c *Camera) HitTest(screen mathutil.Vec2, positions []mathutil.Vec3, tolerance float64) []Hit {
	var hits []Hit
	for i, p := range positions {
		sp, ok := c.Project(p)
		if !ok {
			continue
		}
		d := sp.Dist(screen)
		if d > tolerance {
			continue
		}
		hits = append(hits, Hit{Index: i, Distance: d, Screen: sp, World: c.Unproject(screen, p.Z)})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].Index < hits[j].Index
	})
	return hits
}
