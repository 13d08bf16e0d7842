package viz

import (
	"fmt"
	"image"
	"io"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/san-kum/pointfield/internal/engine"
	"github.com/san-kum/pointfield/internal/field"
	"github.com/san-kum/pointfield/internal/hover"
	"github.com/san-kum/pointfield/internal/popup"
	"github.com/san-kum/pointfield/internal/texture"
)

const (
	fps        = 60
	headerRows = 1
	footerRows = 1
	maxFrameDt = 100 * time.Millisecond
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type TickMsg time.Time

// Builder creates the engine once the terminal size is known. width and
// height are in canvas sub-pixels.
type Builder func(width, height float64) (*engine.Engine, error)

type Options struct {
	Title      string
	Theme      string
	Outline    bool
	DotRadius  float64 // sub-pixels per unit of point scale
	Background image.Image
	Logger     *log.Logger
}

// Model hosts one engine in the terminal: it feeds mouse, keyboard and
// resize messages to the engine, ticks it at 60 fps and draws the field on
// a Braille canvas.
type Model struct {
	build  Builder
	opts   Options
	log    *log.Logger
	engine *engine.Engine
	err    error

	canvas  *Canvas
	theme   Theme
	styles  map[Class]lipgloss.Style
	overlay overlay
	bg      []bool

	cols, rows int
	lastTick   time.Time
	paused     bool
	showHelp   bool
	outline    bool
	cursor     bool
	inside     bool
	status     string
	uploads    map[field.Region]int
}

func NewModel(build Builder, opts Options) *Model {
	if opts.DotRadius <= 0 {
		opts.DotRadius = 0.8
	}
	if opts.Title == "" {
		opts.Title = "pointfield"
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	th := GetTheme(opts.Theme)
	return &Model{
		build:   build,
		opts:    opts,
		log:     logger,
		theme:   th,
		styles:  th.Styles(),
		overlay: newOverlay(fps),
		outline: opts.Outline,
		uploads: make(map[field.Region]int),
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *Model) Init() tea.Cmd { return tick() }

// Engine is nil until the first window size message arrives.
func (m *Model) Engine() *engine.Engine { return m.engine }
func (m *Model) Err() error             { return m.err }

// Update handles input events and steps the engine.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		if m.err != nil {
			return m, tea.Quit
		}
	case tea.KeyMsg:
		return m, m.key(msg)
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.BlurMsg:
		if m.engine != nil && m.inside {
			m.inside = false
			m.engine.OnPointerLeave()
		}
	case TickMsg:
		m.step(time.Time(msg))
		return m, tick()
	}
	return m, nil
}

func (m *Model) resize(width, height int) {
	m.cols = max(width, 1)
	m.rows = max(height-headerRows-footerRows, 1)
	m.canvas = NewCanvas(m.cols, m.rows)
	w, h := float64(m.canvas.SubWidth()), float64(m.canvas.SubHeight())

	if m.engine == nil {
		e, err := m.build(w, h)
		if err != nil {
			m.err = err
			return
		}
		m.engine = e
		m.log.Debug("terminal host ready", "cols", m.cols, "rows", m.rows)
	} else {
		m.engine.OnResize(w, h)
	}
	m.bg = backgroundMask(m.opts.Background, m.canvas.SubWidth(), m.canvas.SubHeight())
	m.draw()
}

func (m *Model) key(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "esc":
		if m.engine != nil {
			m.engine.OnKeyDown("Escape")
		}
	case " ", "space":
		m.paused = !m.paused
	case "t":
		m.theme = NextTheme(m.theme)
		m.styles = m.theme.Styles()
	case "o":
		m.outline = !m.outline
	case "?":
		m.showHelp = !m.showHelp
	}
	return nil
}

// subpixel maps a terminal cell to the center of its Braille block.
func subpixel(col, row int) (float64, float64) {
	return float64(col*2 + 1), float64(row*4 + 2)
}

func (m *Model) mouse(msg tea.MouseMsg) {
	if m.engine == nil {
		return
	}
	col, row := msg.X, msg.Y-headerRows
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		if m.inside {
			m.inside = false
			m.engine.OnPointerLeave()
		}
		return
	}
	m.inside = true
	x, y := subpixel(col, row)

	switch {
	case msg.Action == tea.MouseActionMotion:
		m.engine.OnPointerMove(x, y)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if p := m.overlay.popup; p != nil && p == m.engine.ActivePopup() {
			if boxFor(p, m.engine.Config().Popup, m.cols, m.rows).closeHit(col, row) {
				m.engine.ClosePopup()
				return
			}
		}
		m.engine.OnPointerDown(x, y)
		m.engine.OnClick(x, y)
	}
}

// Upload implements field.Uploader; the terminal redraws every frame, so it
// only keeps per-region counts for the status line.
func (m *Model) Upload(r field.Region, data []float32) {
	m.uploads[r]++
}

func (m *Model) step(now time.Time) {
	dt := time.Second / fps
	if !m.lastTick.IsZero() {
		dt = min(max(now.Sub(m.lastTick), 0), maxFrameDt)
	}
	m.lastTick = now
	if m.engine == nil {
		return
	}
	if !m.paused {
		m.engine.Tick(dt)
		m.engine.Buffers().Flush(m)
	}
	m.handleEvents()
	m.overlay.update()
	m.draw()
}

func (m *Model) handleEvents() {
	for _, ev := range m.engine.Events() {
		switch ev := ev.(type) {
		case engine.CursorChanged:
			m.cursor = ev.Pointer
		case engine.PopupOpened:
			m.overlay.show(ev.Popup, m.engine.Elapsed())
		case engine.PopupClosed:
			m.overlay.hide(ev.Popup)
			m.log.Debug("popup closed", "project", ev.Popup.Project.Title, "reason", ev.Reason)
		case engine.PopupPhase:
			if ev.Phase == popup.Closed {
				m.overlay.drop(ev.Popup)
			}
		case engine.CatalogEmpty:
			m.status = "project catalog is empty"
		case engine.FieldRegenerated:
			m.status = fmt.Sprintf("field regenerated, %d points", ev.Count)
		}
	}
}

func (m *Model) draw() {
	if m.canvas == nil || m.engine == nil {
		return
	}
	c := m.canvas
	c.Clear()

	sw := c.SubWidth()
	for i, on := range m.bg {
		if on {
			c.Plot(i%sw, i/sw, ClassBackground)
		}
	}

	if m.outline {
		pts := m.engine.Outline()
		for i := range pts {
			a, b := pts[i], pts[(i+1)%len(pts)]
			c.DrawLine(round(a.X), round(a.Y), round(b.X), round(b.Y), ClassOutline)
		}
	}

	for i, p := range m.engine.Points() {
		sp, ok := m.engine.ScreenPosition(i)
		if !ok {
			continue
		}
		cl := ClassAmbient
		switch {
		case p.Color == p.HighlightColor && p.Interactive:
			cl = ClassHighlight
		case p.Interactive:
			cl = ClassInteractive
		}
		c.Disc(round(sp.X), round(sp.Y), p.Scale*m.opts.DotRadius, cl)
	}
}

func round(v float64) int { return int(math.Round(v)) }

// View renders the TUI interface.
func (m *Model) View() string {
	if m.err != nil {
		return StatusWarn.Render("error: "+m.err.Error()) + "\n"
	}
	if m.canvas == nil || m.engine == nil {
		return "starting…\n"
	}

	var s strings.Builder
	s.WriteString(m.header() + "\n")

	var lines []string
	var b box
	shown := 0
	if p := m.overlay.popup; p != nil {
		b = boxFor(p, m.engine.Config().Popup, m.cols, m.rows)
		lines = renderBox(p, b, m.theme, m.remaining())
		shown = min(m.overlay.rows(b.h), len(lines))
	}

	for row := 0; row < m.rows; row++ {
		if i := row - b.row; shown > 0 && i >= 0 && i < shown {
			s.WriteString(m.canvas.RenderRow(row, 0, b.col, m.styles))
			s.WriteString(lines[i])
			s.WriteString(m.canvas.RenderRow(row, b.col+b.w, m.cols, m.styles))
		} else {
			s.WriteString(m.canvas.RenderRow(row, 0, m.cols, m.styles))
		}
		s.WriteString("\n")
	}

	s.WriteString(m.footer())
	return s.String()
}

func (m *Model) remaining() float64 {
	total := m.engine.Config().Popup.AutoDismiss
	if total <= 0 || m.overlay.popup == nil || m.overlay.popup.Phase == popup.Closing {
		return 0
	}
	left := total - (m.engine.Elapsed() - m.overlay.opened)
	return math.Max(0, float64(left)/float64(total))
}

func (m *Model) header() string {
	e := m.engine
	parts := []string{headerStyle.Foreground(m.theme.Accent).Render(m.opts.Title)}

	if idx := e.Hovered(); idx != hover.None {
		label := fmt.Sprintf("#%d", idx)
		if p := e.Points()[idx].Project; p != nil {
			label += " " + p.Title
		}
		parts = append(parts, StatusHover.Render("☛ "+label))
	}
	if p := e.ActivePopup(); p != nil {
		parts = append(parts, Metric("popup", p.Phase.String()))
	}
	if m.paused {
		parts = append(parts, StatusPaused.Render("PAUSED"))
	}
	if m.status != "" {
		parts = append(parts, StatusWarn.Render(m.status))
	}
	parts = append(parts, Metric("t", fmt.Sprintf("%.1fs", e.Elapsed().Seconds())))
	return strings.Join(parts, Subtle.Render("  ·  "))
}

func (m *Model) footer() string {
	if !m.showHelp {
		return KeyHint.Render("click point: open  esc: close  t: theme  o: outline  space: pause  ?: help  q: quit")
	}
	return footerStyle.Render(fmt.Sprintf("theme %s  uploads pos %d scale %d color %d  points %d  interactive %d",
		m.theme.Name,
		m.uploads[field.RegionPosition], m.uploads[field.RegionScale], m.uploads[field.RegionColor],
		len(m.engine.Points()), field.InteractiveCount(m.engine.Points())))
}

// backgroundMask dithers a background image down to on/off sub-pixels.
func backgroundMask(img image.Image, w, h int) []bool {
	if img == nil || w <= 0 || h <= 0 {
		return nil
	}
	bayer := [2][2]float64{{0.125, 0.625}, {0.875, 0.375}}
	lum := texture.Luminance(texture.Fit(img, w, h))
	mask := make([]bool, len(lum))
	for i, l := range lum {
		x, y := i%w, i/w
		mask[i] = l > bayer[y%2][x%2]
	}
	return mask
}

// Run starts the terminal host and blocks until the user quits.
func Run(build Builder, opts Options) error {
	p := tea.NewProgram(NewModel(build, opts),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(*Model); ok && m.err != nil {
		return m.err
	}
	return nil
}
