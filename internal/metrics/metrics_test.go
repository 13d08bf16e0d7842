package metrics

import (
	"testing"

	"github.com/san-kum/pointfield/internal/field"
	"github.com/san-kum/pointfield/internal/hover"
)

func TestMaxOffset(t *testing.T) {
	m := NewMaxOffset()
	for _, v := range []float64{0.1, 0.7, 0.3} {
		m.Observe(Sample{MaxOffset: v})
	}
	if m.Value() != 0.7 {
		t.Errorf("expected peak 0.7, got %f", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestMeanScale(t *testing.T) {
	m := NewMeanScale()
	if m.Value() != 0 {
		t.Error("expected zero without samples")
	}
	m.Observe(Sample{MeanScale: 1})
	m.Observe(Sample{MeanScale: 2})
	if m.Value() != 1.5 {
		t.Errorf("expected 1.5, got %f", m.Value())
	}
}

func TestHoverChanges(t *testing.T) {
	m := NewHoverChanges()
	for _, h := range []int{hover.None, 4, 4, 7, hover.None, hover.None} {
		m.Observe(Sample{Hovered: h})
	}
	if m.Value() != 3 {
		t.Errorf("expected 3 transitions, got %f", m.Value())
	}
	m.Reset()
	m.Observe(Sample{Hovered: hover.None})
	if m.Value() != 0 {
		t.Error("reset should forget the last hover")
	}
}

func TestDirtyUploads(t *testing.T) {
	m := NewDirtyUploads()
	m.Observe(Sample{Dirty: field.Dirty{Position: true, Color: true}})
	m.Observe(Sample{Dirty: field.Dirty{Scale: true}})
	m.Observe(Sample{})
	if m.Value() != 3 {
		t.Errorf("expected 3 uploads, got %f", m.Value())
	}
}

func TestDefaultNames(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Default() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 metrics, got %d", len(seen))
	}
}
