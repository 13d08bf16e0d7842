package hover

import (
	"fmt"
	"testing"

	"github.com/san-kum/pointfield/internal/mathutil"
	"github.com/san-kum/pointfield/internal/scene"
	. "github.com/onsi/gomega"
)

type recorder struct {
	ops       []string
	amplified map[int]bool
}

func newRecorder() *recorder { return &recorder{amplified: make(map[int]bool)} }

func (r *recorder) Reset(i int) {
	r.ops = append(r.ops, fmt.Sprintf("reset %d", i))
	delete(r.amplified, i)
}

func (r *recorder) Amplify(i int) {
	r.ops = append(r.ops, fmt.Sprintf("amplify %d", i))
	r.amplified[i] = true
}

func interactiveSet(indices ...int) func(int) bool {
	set := make(map[int]bool)
	for _, i := range indices {
		set[i] = true
	}
	return func(i int) bool { return set[i] }
}

func hit(index int, dist float64) scene.Hit {
	return scene.Hit{Index: index, Distance: dist, World: mathutil.Vec3{X: float64(index)}}
}

func TestResolveNearestInteractive(t *testing.T) {
	rec := newRecorder()
	r := NewResolver(rec, interactiveSet(4, 7))

	ch := r.Resolve([]scene.Hit{hit(3, 0.5), hit(7, 2), hit(4, 1)})
	if !ch.Changed || ch.To != 4 || ch.From != None {
		t.Fatalf("unexpected change %+v", ch)
	}
	if r.Hovered() != 4 {
		t.Errorf("expected hovered 4, got %d", r.Hovered())
	}
}

func TestResolveTieBrokenByIndex(t *testing.T) {
	r := NewResolver(newRecorder(), interactiveSet(4, 9))
	r.Resolve([]scene.Hit{hit(9, 1), hit(4, 1)})
	if r.Hovered() != 4 {
		t.Errorf("tie should go to the lower index, got %d", r.Hovered())
	}
}

func TestResolveNoInteractive(t *testing.T) {
	r := NewResolver(newRecorder(), interactiveSet(4))
	ch := r.Resolve([]scene.Hit{hit(2, 0)})
	if ch.Changed || r.Hovered() != None {
		t.Errorf("non-interactive hits must not hover, got %+v", ch)
	}
}

func TestTransitionResetsBeforeAmplify(t *testing.T) {
	g := NewWithT(t)
	rec := newRecorder()
	r := NewResolver(rec, interactiveSet(1, 4, 7))

	r.Resolve([]scene.Hit{hit(1, 0)})
	r.Resolve([]scene.Hit{hit(4, 0)})
	r.Resolve([]scene.Hit{hit(7, 0)})
	r.Resolve(nil)

	g.Expect(rec.ops).To(Equal([]string{
		"amplify 1",
		"reset 1", "amplify 4",
		"reset 4", "amplify 7",
		"reset 7",
	}))
	g.Expect(rec.amplified).To(BeEmpty())
}

func TestResolveSameIndexIsIdempotent(t *testing.T) {
	rec := newRecorder()
	r := NewResolver(rec, interactiveSet(4))

	r.Resolve([]scene.Hit{hit(4, 1)})
	moved := scene.Hit{Index: 4, Distance: 0.2, World: mathutil.Vec3{X: 9, Y: 9}}
	ch := r.Resolve([]scene.Hit{moved})

	if ch.Changed {
		t.Error("same index should not report a change")
	}
	if len(rec.ops) != 1 {
		t.Errorf("expected a single amplify, got %v", rec.ops)
	}
	w, ok := r.LastWorld()
	if !ok || w != moved.World {
		t.Errorf("world hit location should be refreshed, got %+v", w)
	}
}

func TestNeverMoreThanOneAmplified(t *testing.T) {
	rec := newRecorder()
	r := NewResolver(rec, interactiveSet(0, 1, 2, 3, 4, 5))

	sequence := [][]scene.Hit{
		{hit(0, 1)}, {hit(3, 1), hit(0, 2)}, {hit(3, 0)}, {}, {hit(5, 3), hit(2, 1)}, {hit(1, 0)},
	}
	for _, hits := range sequence {
		r.Resolve(hits)
		if len(rec.amplified) > 1 {
			t.Fatalf("more than one point amplified: %v", rec.amplified)
		}
	}
}

func TestClear(t *testing.T) {
	rec := newRecorder()
	r := NewResolver(rec, interactiveSet(4))
	r.Resolve([]scene.Hit{hit(4, 0)})

	ch := r.Clear()
	if !ch.Changed || ch.From != 4 || ch.To != None {
		t.Errorf("unexpected change %+v", ch)
	}
	if _, ok := r.LastWorld(); ok {
		t.Error("world hit should be dropped on clear")
	}
	if ch := r.Clear(); ch.Changed {
		t.Error("second clear should be a no-op")
	}
}

func TestForget(t *testing.T) {
	rec := newRecorder()
	r := NewResolver(rec, interactiveSet(4))
	r.Resolve([]scene.Hit{hit(4, 0)})
	r.Forget()

	if r.Hovered() != None {
		t.Error("forget should drop the hover")
	}
	if len(rec.ops) != 1 {
		t.Errorf("forget must not reset visuals, got %v", rec.ops)
	}
}
