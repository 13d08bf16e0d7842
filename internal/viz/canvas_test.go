package viz

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(1, 3)
	if got := c.Grid[0][0]; got != blank|0x1|0x80 {
		t.Errorf("unexpected rune %U", got)
	}
	if c.Classes[0][0] != ClassAmbient {
		t.Errorf("expected ambient class, got %d", c.Classes[0][0])
	}

	c.Unset(0, 0)
	c.Unset(1, 3)
	if c.Grid[0][0] != blank || c.Classes[0][0] != ClassNone {
		t.Error("cell should be blank after unsetting every dot")
	}
}

func TestCanvasBounds(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(-1, 0)
	c.Set(0, -1)
	c.Set(4, 0)
	c.Set(0, 8)
	for _, row := range c.Grid {
		for _, r := range row {
			if r != blank {
				t.Fatal("out of range pixels must be ignored")
			}
		}
	}
}

func TestCanvasClassPrecedence(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Plot(0, 0, ClassHighlight)
	c.Plot(1, 1, ClassOutline)
	if c.Classes[0][0] != ClassHighlight {
		t.Errorf("higher class must win, got %d", c.Classes[0][0])
	}
}

func TestCanvasDisc(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Disc(3, 3, 0.3, ClassAmbient)
	if c.Grid[0][1] == blank {
		t.Error("tiny disc should still light its center")
	}

	c.Clear()
	c.Disc(3, 3, 1.5, ClassInteractive)
	lit := 0
	for y := 0; y < c.SubHeight(); y++ {
		for x := 0; x < c.SubWidth(); x++ {
			if c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0 {
				lit++
			}
		}
	}
	if lit != 9 {
		t.Errorf("expected 9 lit sub-pixels, got %d", lit)
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.DrawLine(0, 0, 7, 0, ClassOutline)
	for col := 0; col < 4; col++ {
		if c.Grid[0][col] != blank|0x1|0x8 {
			t.Errorf("col %d: unexpected rune %U", col, c.Grid[0][col])
		}
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2)
	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if len([]rune(lines[0])) != 3 {
		t.Errorf("expected 3 cells, got %d", len([]rune(lines[0])))
	}
}

func TestRenderRow(t *testing.T) {
	c := NewCanvas(4, 1)
	c.Plot(0, 0, ClassHighlight)
	styles := map[Class]lipgloss.Style{ClassHighlight: lipgloss.NewStyle()}

	got := c.RenderRow(0, 0, 4, styles)
	if lipgloss.Width(got) != 4 {
		t.Errorf("expected width 4, got %d", lipgloss.Width(got))
	}
	if got := c.RenderRow(0, 2, 10, styles); lipgloss.Width(got) != 2 {
		t.Errorf("range should clip to the canvas, width %d", lipgloss.Width(got))
	}
	if c.RenderRow(5, 0, 4, styles) != "" {
		t.Error("rows outside the canvas render empty")
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != "neon" {
		t.Error("unknown theme should fall back to neon")
	}
	seen := map[string]bool{}
	th := Themes[0]
	for range Themes {
		seen[th.Name] = true
		th = NextTheme(th)
	}
	if len(seen) != len(Themes) || th.Name != Themes[0].Name {
		t.Error("NextTheme should cycle through every theme")
	}
	if len(ThemeNeon.Styles()) != 5 {
		t.Error("expected a style per drawable class")
	}
}
