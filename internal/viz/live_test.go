package viz

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/pointfield/internal/catalog"
	"github.com/san-kum/pointfield/internal/config"
	"github.com/san-kum/pointfield/internal/engine"
	"github.com/san-kum/pointfield/internal/field"
	"github.com/san-kum/pointfield/internal/hover"
	"github.com/san-kum/pointfield/internal/mathutil"
	"github.com/san-kum/pointfield/internal/popup"
)

func build(w, h float64) (*engine.Engine, error) {
	cfg := config.DefaultConfig().Scaled(w, h)
	cfg.Hover.Tolerance = 4
	ec, err := cfg.EngineConfig()
	if err != nil {
		return nil, err
	}
	return engine.New(ec, cfg.NewCamera(), catalog.Default(), nil)
}

func newModel(t *testing.T) *Model {
	t.Helper()
	m := NewModel(build, Options{Outline: true})
	if cmd := m.Init(); cmd == nil {
		t.Fatal("Init should schedule the first tick")
	}
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	if m.Engine() == nil {
		t.Fatalf("engine not built: %v", m.Err())
	}
	return m
}

func ticks(m *Model, n int) {
	start := time.Unix(0, 0)
	if !m.lastTick.IsZero() {
		start = m.lastTick
	}
	for i := 1; i <= n; i++ {
		m.Update(TickMsg(start.Add(time.Duration(i) * 16 * time.Millisecond)))
	}
}

// cellOf returns the terminal cell under point i.
func cellOf(t *testing.T, m *Model, i int) (int, int) {
	t.Helper()
	sp, ok := m.Engine().ScreenPosition(i)
	if !ok {
		t.Fatalf("point %d not visible", i)
	}
	return int(sp.X / 2), int(sp.Y/4) + headerRows
}

func move(m *Model, col, row int) {
	m.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionMotion})
}

func press(m *Model, col, row int) {
	m.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
}

func TestModelBuildsCanvas(t *testing.T) {
	m := newModel(t)
	if m.canvas.Width != 100 || m.canvas.Height != 38 {
		t.Errorf("unexpected canvas %dx%d", m.canvas.Width, m.canvas.Height)
	}
	if w := m.Engine().Config().Width; w != 200 {
		t.Errorf("engine viewport should be in sub-pixels, got %v", w)
	}
	ticks(m, 2)
	if !strings.Contains(m.View(), "pointfield") {
		t.Error("header missing from view")
	}
}

func TestModelHoverAndOpen(t *testing.T) {
	m := newModel(t)
	col, row := cellOf(t, m, 4)

	move(m, col, row)
	idx := m.Engine().Hovered()
	if idx == hover.None {
		t.Fatal("expected a hovered point under the pointer")
	}

	press(m, col, row)
	p := m.Engine().ActivePopup()
	if p == nil {
		t.Fatal("click on a hovered point should open its popup")
	}

	ticks(m, 40)
	if m.overlay.popup != p {
		t.Fatal("overlay should follow the active popup")
	}
	if title := []rune(p.Project.Title); !strings.Contains(m.View(), string(title[:5])) {
		t.Error("popup title missing from view")
	}
	if !m.cursor {
		t.Error("pointer cursor expected while hovering")
	}
}

func TestModelEscapeCloses(t *testing.T) {
	m := newModel(t)
	col, row := cellOf(t, m, 4)
	move(m, col, row)
	press(m, col, row)
	p := m.Engine().ActivePopup()
	ticks(m, 10)

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.Engine().ActivePopup() != nil {
		t.Fatal("escape should close the popup")
	}
	ticks(m, 20)
	if p.Phase != popup.Closed || m.overlay.popup != nil {
		t.Errorf("popup should be gone after the exit transition, phase %s", p.Phase)
	}
}

func TestModelCloseButton(t *testing.T) {
	m := newModel(t)
	col, row := cellOf(t, m, 4)
	move(m, col, row)
	press(m, col, row)
	p := m.Engine().ActivePopup()
	ticks(m, 20)

	b := boxFor(p, m.Engine().Config().Popup, m.cols, m.rows)
	press(m, b.col+b.w-3, b.row+1+headerRows)
	if p.Reason != popup.ReasonAffordance {
		t.Errorf("expected close via affordance, got %s", p.Reason)
	}
}

func TestModelPointerLeave(t *testing.T) {
	m := newModel(t)
	col, row := cellOf(t, m, 4)
	move(m, col, row)
	if m.Engine().Hovered() == hover.None {
		t.Fatal("expected hover")
	}

	move(m, col, 0)
	if m.Engine().Hovered() != hover.None || m.Engine().Pointer().Active {
		t.Error("moving onto the header row should count as leaving the field")
	}

	move(m, col, row)
	m.Update(tea.BlurMsg{})
	if m.Engine().Pointer().Active {
		t.Error("focus loss should count as leaving the field")
	}
}

func TestModelResize(t *testing.T) {
	m := newModel(t)
	e := m.Engine()
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})

	if m.Engine() != e {
		t.Error("resize must keep the engine")
	}
	if w, h := e.Config().Width, e.Config().Height; w != 120 || h != 72 {
		t.Errorf("unexpected viewport %vx%v", w, h)
	}
}

func TestModelKeys(t *testing.T) {
	m := newModel(t)
	ticks(m, 1)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	before := m.Engine().Elapsed()
	ticks(m, 5)
	if m.Engine().Elapsed() != before {
		t.Error("paused host must not tick the engine")
	}

	theme := m.theme.Name
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	if m.theme.Name == theme {
		t.Error("t should cycle the theme")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'o'}})
	if m.outline {
		t.Error("o should toggle the outline off")
	}

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}); cmd == nil {
		t.Error("q should quit")
	}
}

func TestModelBuildError(t *testing.T) {
	boom := errors.New("boom")
	m := NewModel(func(w, h float64) (*engine.Engine, error) { return nil, boom }, Options{})
	_, cmd := m.Update(tea.WindowSizeMsg{Width: 10, Height: 10})
	if !errors.Is(m.Err(), boom) || cmd == nil {
		t.Errorf("expected the build error and a quit command, got %v", m.Err())
	}
	if !strings.Contains(m.View(), "boom") {
		t.Error("view should show the error")
	}
}

func TestModelUploads(t *testing.T) {
	m := newModel(t)
	ticks(m, 3)
	if m.uploads[field.RegionPosition] == 0 {
		t.Error("moving points should upload the position buffer")
	}
}

func TestBackgroundMask(t *testing.T) {
	white := image.NewUniform(color.White)
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, white.C)
		}
	}
	mask := backgroundMask(img, 4, 8)
	if len(mask) != 32 {
		t.Fatalf("expected 32 sub-pixels, got %d", len(mask))
	}
	for i, on := range mask {
		if !on {
			t.Fatalf("white background should light sub-pixel %d", i)
		}
	}
	if backgroundMask(nil, 4, 8) != nil {
		t.Error("no image, no mask")
	}
}

func TestBoxFor(t *testing.T) {
	cfg := popup.Config{Width: 40, Height: 40}
	b := boxFor(&popup.Popup{Anchor: popupAnchor(0, 0)}, cfg, 50, 20)
	if b.col != 0 || b.row != 0 || b.w != 20 || b.h != 10 {
		t.Errorf("unexpected box %+v", b)
	}
	b = boxFor(&popup.Popup{Anchor: popupAnchor(1000, 1000)}, cfg, 50, 20)
	if b.col+b.w != 50 || b.row+b.h != 20 {
		t.Errorf("box should be clamped inside the canvas: %+v", b)
	}
	if !b.closeHit(b.col+b.w-3, b.row+1) || b.closeHit(b.col, b.row+1) {
		t.Error("close affordance sits at the right end of the title row")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "he…"},
		{"hello", 1, "…"},
		{"hello", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func popupAnchor(x, y float64) mathutil.Vec2 { return mathutil.Vec2{X: x, Y: y} }
