package metrics

import (
	"github.com/san-kum/pointfield/internal/engine"
	"github.com/san-kum/pointfield/internal/field"
	"github.com/san-kum/pointfield/internal/popup"
)

// Sample is the per-frame observation handed to every metric.
type Sample struct {
	Frame     uint64
	Time      float64 // seconds
	MaxOffset float64
	MeanScale float64
	Hovered   int
	Popup     popup.Phase
	Dirty     field.Dirty
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Observe summarizes the engine after a Tick. dirty is the result of the
// frame's buffer poll.
func Observe(e *engine.Engine, dirty field.Dirty) Sample {
	s := Sample{
		Frame:   e.Frame(),
		Time:    e.Elapsed().Seconds(),
		Hovered: e.Hovered(),
		Dirty:   dirty,
	}
	points := e.Points()
	for i := range points {
		if l := points[i].Offset.Length(); l > s.MaxOffset {
			s.MaxOffset = l
		}
		s.MeanScale += points[i].Scale
	}
	if len(points) > 0 {
		s.MeanScale /= float64(len(points))
	}
	if p := e.ActivePopup(); p != nil {
		s.Popup = p.Phase
	}
	return s
}

// Default returns one of each metric.
func Default() []Metric {
	return []Metric{NewMaxOffset(), NewMeanScale(), NewHoverChanges(), NewDirtyUploads()}
}
