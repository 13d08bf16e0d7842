package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/pointfield/internal/field"
)

// Hex formats a color as #rrggbb.
func Hex(c field.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// FrameToSVG renders a captured frame as a standalone SVG document.
func FrameToSVG(f Frame, background string) string {
	if background == "" {
		background = "#0a0a0a"
	}
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, f.Width, f.Height, f.Width, f.Height, background))

	if len(f.Outline) > 1 {
		sb.WriteString(`<path fill="none" stroke="#ffffff" stroke-opacity="0.15" stroke-width="1" d="M`)
		for i, p := range f.Outline {
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", p.X, p.Y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", p.X, p.Y))
			}
		}
		sb.WriteString(" Z\"/>\n")
	}

	sb.WriteString("<g>\n")
	for _, d := range f.Dots {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"`, d.X, d.Y, d.Radius, Hex(d.Color)))
		if d.Hovered {
			sb.WriteString(` stroke="#ffffff" stroke-width="1"`)
		}
		sb.WriteString("/>\n")
	}
	sb.WriteString("</g>\n")

	if b := f.Popup; b != nil {
		sb.WriteString(fmt.Sprintf(`<g class="popup">
<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="8" fill="#111111" stroke="#eaff01"/>
<text x="%.1f" y="%.1f" fill="#ffffff" font-family="sans-serif" font-size="16">%s</text>
<text x="%.1f" y="%.1f" fill="#bbbbbb" font-family="sans-serif" font-size="12">%s</text>
</g>
`, b.X, b.Y, b.W, b.H,
			b.X+16, b.Y+32, html.EscapeString(b.Title),
			b.X+16, b.Y+56, html.EscapeString(b.Description)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
