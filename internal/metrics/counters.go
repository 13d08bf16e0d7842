package metrics

import "github.com/san-kum/pointfield/internal/hover"

// HoverChanges counts hover transitions between consecutive samples.
type HoverChanges struct {
	name    string
	last    int
	changes int
}

func NewHoverChanges() *HoverChanges {
	return &HoverChanges{
		name: "hover_changes",
		last: hover.None,
	}
}

func (h *HoverChanges) Name() string {
	return h.name
}

func (h *HoverChanges) Observe(s Sample) {
	if s.Hovered != h.last {
		h.changes++
		h.last = s.Hovered
	}
}

func (h *HoverChanges) Value() float64 {
	return float64(h.changes)
}

func (h *HoverChanges) Reset() {
	h.last = hover.None
	h.changes = 0
}

// DirtyUploads counts buffer regions uploaded per frame, summed.
type DirtyUploads struct {
	name    string
	uploads int
}

func NewDirtyUploads() *DirtyUploads {
	return &DirtyUploads{
		name: "dirty_uploads",
	}
}

func (d *DirtyUploads) Name() string {
	return d.name
}

func (d *DirtyUploads) Observe(s Sample) {
	for _, dirty := range []bool{s.Dirty.Position, s.Dirty.Scale, s.Dirty.Color} {
		if dirty {
			d.uploads++
		}
	}
}

func (d *DirtyUploads) Value() float64 {
	return float64(d.uploads)
}

func (d *DirtyUploads) Reset() {
	d.uploads = 0
}
