package field

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/pointfield/internal/catalog"
	"github.com/san-kum/pointfield/internal/mathutil"
	. "github.com/onsi/gomega"
)

var scenarioIndices = []int{1, 4, 7, 9, 12, 15, 19, 23, 27, 30, 34, 37}

func testConfig() Config {
	return Config{
		Count:            40,
		Center:           mathutil.Vec3{X: 0.5, Y: -0.2, Z: 0},
		MinRadius:        1.2,
		MaxRadius:        2.4,
		Height:           0.8,
		BaseScale:        1,
		InteractiveScale: 1.8,
		BaseColor:        RGB(255, 255, 255),
		InteractiveColor: RGB(234, 255, 1),
		HighlightColor:   RGB(255, 80, 200),
	}
}

func TestGenerateInteractiveCount(t *testing.T) {
	g := NewWithT(t)
	points := Generate(testConfig(), scenarioIndices, catalog.Default(), rand.New(rand.NewSource(1)))

	g.Expect(points).To(HaveLen(40))
	g.Expect(InteractiveCount(points)).To(Equal(len(scenarioIndices)))
	for _, idx := range scenarioIndices {
		g.Expect(points[idx].Interactive).To(BeTrue(), "index %d", idx)
	}
	for i, p := range points {
		g.Expect(p.Index).To(Equal(i))
	}
}

func TestGenerateRoundRobin(t *testing.T) {
	projects := catalog.Default()
	points := Generate(testConfig(), scenarioIndices, projects, rand.New(rand.NewSource(2)))

	cursor := 0
	for _, p := range points {
		if !p.Interactive {
			if p.Project != nil {
				t.Errorf("point %d is not interactive but has a project", p.Index)
			}
			continue
		}
		want := &projects[cursor%len(projects)]
		if p.Project != want {
			t.Errorf("point %d: expected project %q, got %v", p.Index, want.Title, p.Project)
		}
		cursor++
	}
	if cursor != 12 {
		t.Errorf("expected 12 interactive points, got %d", cursor)
	}
	// 12 slots over 6 projects wraps exactly twice.
	if points[1].Project != points[19].Project {
		t.Error("expected the catalog to wrap at the seventh interactive point")
	}
}

func TestGenerateEmptyCatalog(t *testing.T) {
	points := Generate(testConfig(), scenarioIndices, nil, rand.New(rand.NewSource(3)))
	if InteractiveCount(points) != len(scenarioIndices) {
		t.Fatalf("interactive points must exist without a catalog")
	}
	for _, p := range points {
		if p.Project != nil {
			t.Errorf("point %d should have no project", p.Index)
		}
	}
}

func TestGenerateBounds(t *testing.T) {
	g := NewWithT(t)
	cfg := testConfig()
	cfg.Count = 500
	points := Generate(cfg, nil, nil, rand.New(rand.NewSource(4)))

	for _, p := range points {
		d := p.Base.Sub(cfg.Center)
		planar := math.Hypot(d.X, d.Z)
		g.Expect(planar).To(BeNumerically("<=", cfg.MaxRadius+1e-9))
		g.Expect(planar).To(BeNumerically(">=", cfg.MinRadius-1e-9))
		g.Expect(math.Abs(d.Y)).To(BeNumerically("<=", cfg.Height))
		g.Expect(p.Offset.IsZero()).To(BeTrue())
		g.Expect(p.Scale).To(Equal(p.BaseScale))
		g.Expect(p.TargetScale).To(Equal(p.BaseScale))
	}
}

func TestGenerateIgnoresOutOfRangeIndices(t *testing.T) {
	projects := catalog.Default()
	points := Generate(testConfig(), []int{-1, 0, 0, 39, 40, 100}, projects, rand.New(rand.NewSource(5)))
	if n := InteractiveCount(points); n != 2 {
		t.Errorf("expected 2 interactive points, got %d", n)
	}
	if points[0].Project != &projects[0] {
		t.Errorf("first interactive point should get the first project")
	}
	if points[39].Project != &projects[1] {
		t.Errorf("second interactive point should get the second project, got %q", points[39].Project.Title)
	}
}

func TestGenerateReproducible(t *testing.T) {
	a := Generate(testConfig(), scenarioIndices, nil, rand.New(rand.NewSource(42)))
	b := Generate(testConfig(), scenarioIndices, nil, rand.New(rand.NewSource(42)))
	for i := range a {
		if a[i].Base != b[i].Base || a[i].Phase != b[i].Phase || a[i].BaseScale != b[i].BaseScale {
			t.Fatalf("point %d differs between runs with the same seed", i)
		}
	}
}

func TestGenerateZeroCount(t *testing.T) {
	if pts := Generate(Config{}, []int{1}, nil, rand.New(rand.NewSource(1))); pts != nil {
		t.Errorf("expected no points, got %d", len(pts))
	}
}
