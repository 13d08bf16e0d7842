package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

const circleSegments = 24

// Rasterize draws f onto an NRGBA image. A non-nil background is scaled
// into place first; otherwise the surface is filled with bg.
func Rasterize(f Frame, bg color.Color, background image.Image) *image.NRGBA {
	w, h := int(math.Ceil(f.Width)), int(math.Ceil(f.Height))
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst
	}
	if background != nil {
		draw.CatmullRom.Scale(dst, dst.Bounds(), background, background.Bounds(), draw.Src, nil)
	} else {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	}

	r := vector.NewRasterizer(w, h)
	if len(f.Outline) > 1 {
		for i := range f.Outline {
			a, b := f.Outline[i], f.Outline[(i+1)%len(f.Outline)]
			segment(r, a.X, a.Y, b.X, b.Y, 0.5)
		}
		fill(r, dst, color.NRGBA{255, 255, 255, 40})
	}

	for _, d := range f.Dots {
		circle(r, d.X, d.Y, math.Max(d.Radius, 0.5))
		c := d.Color
		fill(r, dst, color.NRGBA{channel(c.R), channel(c.G), channel(c.B), 255})
	}

	if b := f.Popup; b != nil {
		rect(r, b.X, b.Y, b.W, b.H)
		fill(r, dst, color.NRGBA{17, 17, 17, 235})
		d := font.Drawer{Dst: dst, Src: image.White, Face: basicfont.Face7x13}
		d.Dot = fixed.P(int(b.X)+12, int(b.Y)+24)
		d.DrawString(b.Title)
		d.Src = image.NewUniform(color.NRGBA{187, 187, 187, 255})
		for i, line := range wrap(b.Description, int(b.W-24)/7) {
			d.Dot = fixed.P(int(b.X)+12, int(b.Y)+48+i*16)
			d.DrawString(line)
		}
	}
	return dst
}

func fill(r *vector.Rasterizer, dst *image.NRGBA, c color.NRGBA) {
	r.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
	b := dst.Bounds()
	r.Reset(b.Dx(), b.Dy())
}

func circle(r *vector.Rasterizer, cx, cy, radius float64) {
	for i := 0; i <= circleSegments; i++ {
		a := 2 * math.Pi * float64(i) / circleSegments
		x, y := float32(cx+math.Cos(a)*radius), float32(cy+math.Sin(a)*radius)
		if i == 0 {
			r.MoveTo(x, y)
		} else {
			r.LineTo(x, y)
		}
	}
	r.ClosePath()
}

func rect(r *vector.Rasterizer, x, y, w, h float64) {
	r.MoveTo(float32(x), float32(y))
	r.LineTo(float32(x+w), float32(y))
	r.LineTo(float32(x+w), float32(y+h))
	r.LineTo(float32(x), float32(y+h))
	r.ClosePath()
}

// segment adds a thin quad of half-width hw from (x0,y0) to (x1,y1).
func segment(r *vector.Rasterizer, x0, y0, x1, y1, hw float64) {
	dx, dy := x1-x0, y1-y0
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*hw, dx/l*hw
	r.MoveTo(float32(x0+nx), float32(y0+ny))
	r.LineTo(float32(x1+nx), float32(y1+ny))
	r.LineTo(float32(x1-nx), float32(y1-ny))
	r.LineTo(float32(x0-nx), float32(y0-ny))
	r.ClosePath()
}

func wrap(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(s) {
		if cur.Len() > 0 && cur.Len()+1+len(word) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

func WriteWebP(w io.Writer, img image.Image) error {
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("export: encode webp: %w", err)
	}
	return nil
}

// WriteFile picks the encoder from the extension of path: .svg, .webp or .png.
func WriteFile(path string, f Frame, background image.Image) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".svg" {
		return os.WriteFile(path, []byte(FrameToSVG(f, "")), 0644)
	}
	if ext != ".webp" && ext != ".png" {
		return fmt.Errorf("export: unsupported format %q", ext)
	}

	img := Rasterize(f, color.NRGBA{10, 10, 10, 255}, background)
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if ext == ".png" {
		err = png.Encode(out, img)
	} else {
		err = WriteWebP(out, img)
	}
	if err != nil {
		return err
	}
	return out.Close()
}
