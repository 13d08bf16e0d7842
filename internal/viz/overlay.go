package viz

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/pointfield/internal/catalog"
	"github.com/san-kum/pointfield/internal/popup"
)

// overlay is the on-screen popup. A spring drives the reveal so the box
// unrolls on open and rolls up while the engine plays its exit transition.
type overlay struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	target float64
	popup  *popup.Popup
	opened time.Duration
}

func newOverlay(fps int) overlay {
	return overlay{spring: harmonica.NewSpring(harmonica.FPS(fps), 8.0, 0.8)}
}

func (o *overlay) show(p *popup.Popup, now time.Duration) {
	o.popup = p
	o.opened = now
	o.target = 1
}

func (o *overlay) hide(p *popup.Popup) {
	if o.popup == p {
		o.target = 0
	}
}

func (o *overlay) drop(p *popup.Popup) {
	if o.popup == p {
		o.popup = nil
		o.pos, o.vel, o.target = 0, 0, 0
	}
}

func (o *overlay) update() {
	if o.popup == nil {
		return
	}
	o.pos, o.vel = o.spring.Update(o.pos, o.vel, o.target)
	o.pos = math.Max(0, math.Min(1, o.pos))
}

// rows is how many rows of a box of height h are revealed.
func (o *overlay) rows(h int) int {
	if o.popup == nil {
		return 0
	}
	return int(math.Ceil(o.pos * float64(h)))
}

// box is the popup rectangle in canvas cells.
type box struct {
	col, row, w, h int
}

func boxFor(p *popup.Popup, cfg popup.Config, cols, rows int) box {
	w := min(max(int(cfg.Width/2), 18), cols)
	h := min(max(int(cfg.Height/4), 7), rows)
	col := int(p.Anchor.X/2) - w/2
	row := int(p.Anchor.Y/4) - h/2
	return box{
		col: max(0, min(col, cols-w)),
		row: max(0, min(row, rows-h)),
		w:   w,
		h:   h,
	}
}

// closeHit reports whether the cell (col, row) is the close affordance.
func (b box) closeHit(col, row int) bool {
	x := b.col + b.w - 3
	return row == b.row+1 && col >= x-1 && col <= x+1
}

func (b box) contains(col, row int) bool {
	return col >= b.col && col < b.col+b.w && row >= b.row && row < b.row+b.h
}

func mediaBadge(p *catalog.Project, th Theme, width int) string {
	label := "image"
	if p.Kind == catalog.Video {
		label = "▶ video · autoplay loop muted"
	}
	return Badge.Foreground(th.Background).Background(th.Accent).Render(truncate(label, width-2))
}

// renderBox lays out the popup content as exactly b.h lines of width b.w.
func renderBox(p *popup.Popup, b box, th Theme, remaining float64) []string {
	iw := max(b.w-4, 1)
	proj := p.Project

	title := PopupTitle.Foreground(th.Text).Render(truncate(proj.Title, iw-2))
	gap := max(iw-lipgloss.Width(title)-1, 1)
	head := title + strings.Repeat(" ", gap) + lipgloss.NewStyle().Foreground(th.Highlight).Render("✕")

	lines := []string{head, mediaBadge(proj, th, iw)}
	if proj.Media != "" {
		lines = append(lines, Subtle.Render(truncate(proj.Media, iw)))
	}
	desc := lipgloss.NewStyle().Width(iw).Foreground(th.Text).Render(proj.Description)
	lines = append(lines, "")
	lines = append(lines, strings.Split(desc, "\n")...)

	inner := b.h - 2
	if inner <= 0 {
		return nil
	}
	bar := ProgressBar(remaining, iw, lipgloss.NewStyle().Foreground(th.Accent))
	if len(lines) > inner-1 {
		lines = lines[:max(inner-1, 0)]
	}
	for len(lines) < inner-1 {
		lines = append(lines, "")
	}
	if inner > 1 {
		lines = append(lines, bar)
	}

	out := PopupPanel.BorderForeground(th.Accent).Width(b.w - 2).Render(strings.Join(lines, "\n"))
	return strings.Split(out, "\n")
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
