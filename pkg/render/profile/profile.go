// Package profile renders an assembled support structure as an SVG elevation
// profile: one trapezoid per section, colored by affiliation, with the
// waterline, seabed and added masses marked against an elevation scale.
package profile

import (
	"bytes"
	"fmt"
	"math"

	"github.com/AaronLge/GeometrieConverter/pkg/assembly"
	"github.com/AaronLge/GeometrieConverter/pkg/structure"
)

// Segment fill colors. Transition pieces are conventionally painted yellow.
var fills = map[structure.Affiliation]string{
	structure.AffiliationMP:    "#7f8c99",
	structure.AffiliationTP:    "#e0b64d",
	structure.AffiliationTower: "#d5d9dd",
	structure.AffiliationSkirt: "#c79a2e",
}

const (
	defaultWidth  = 480.0
	defaultHeight = 680.0
	marginTop     = 40.0
	marginBottom  = 30.0
	axisWidth     = 64.0
	markerGutter  = 120.0
)

type Option func(*renderer)

type renderer struct {
	width, height float64
	title         string
	showMasses    bool
}

func WithSize(w, h float64) Option  { return func(r *renderer) { r.width, r.height = w, h } }
func WithTitle(title string) Option { return func(r *renderer) { r.title = title } }
func WithMasses() Option            { return func(r *renderer) { r.showMasses = true } }

// Render draws the profile for one assembly result.
func Render(res *assembly.Result, opts ...Option) []byte {
	r := newRenderer(opts...)
	ext := measure(res, r.showMasses)

	sy := (r.height - marginTop - marginBottom) / ext.span()
	cx := axisWidth + (r.width-axisWidth-markerGutter)/2
	sx := (r.width - axisWidth - markerGutter) / (ext.dMax * 1.6)
	y := func(z float64) float64 { return marginTop + (ext.zTop-z)*sy }
	half := func(d float64) float64 { return d / 2 * sx }

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f" font-family="sans-serif">`+"\n",
		r.width, r.height, r.width, r.height)

	renderWater(&buf, res.Datum, ext, y, axisWidth, r.width-markerGutter+40)
	renderSegments(&buf, res.Assembled, cx, y, half)
	renderSkirt(&buf, res.Skirt, cx, y, half)
	renderAxis(&buf, ext, y)
	if r.showMasses {
		renderMasses(&buf, res.Masses, cx+half(ext.dMax)+16, y)
	}
	if r.title != "" {
		fmt.Fprintf(&buf, `  <text x="%.1f" y="22" font-size="15" text-anchor="middle">%s</text>`+"\n", r.width/2, escape(r.title))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newRenderer(opts ...Option) renderer {
	r := renderer{width: defaultWidth, height: defaultHeight}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// extent is the world-coordinate bounding box of the drawing.
type extent struct {
	zTop, zBot float64
	dMax       float64
}

func (e extent) span() float64 {
	if e.zTop == e.zBot {
		return 1
	}
	return e.zTop - e.zBot
}

func measure(res *assembly.Result, withMasses bool) extent {
	ext := extent{zTop: math.Inf(-1), zBot: math.Inf(1), dMax: 1}
	grow := func(top, bottom, d float64) {
		ext.zTop = math.Max(ext.zTop, top)
		ext.zBot = math.Min(ext.zBot, bottom)
		ext.dMax = math.Max(ext.dMax, d)
	}
	for _, row := range res.Assembled {
		grow(row.Top, row.Bottom, math.Max(row.DTop, row.DBottom))
	}
	for _, seg := range res.Skirt {
		grow(seg.Top, seg.Bottom, math.Max(seg.DTop, seg.DBottom))
	}
	if withMasses {
		for _, m := range res.Masses {
			bottom := m.Top
			if m.Bottom != nil {
				bottom = *m.Bottom
			}
			grow(m.Top, bottom, 0)
		}
	}
	if res.Datum.Seabed != nil {
		grow(*res.Datum.Seabed, *res.Datum.Seabed, 0)
	}
	if math.IsInf(ext.zTop, -1) {
		ext.zTop, ext.zBot = 1, 0
	}
	return ext
}

func renderSegments(buf *bytes.Buffer, rows []assembly.Row, cx float64, y func(float64) float64, half func(float64) float64) {
	for _, row := range rows {
		fmt.Fprintf(buf,
			`  <polygon class="segment" fill="%s" stroke="#3a3f45" stroke-width="0.8" points="%.1f,%.1f %.1f,%.1f %.1f,%.1f %.1f,%.1f">`+
				`<title>Section %d (%s) %.2f..%.2f m</title></polygon>`+"\n",
			fills[row.Affiliation],
			cx-half(row.DTop), y(row.Top),
			cx+half(row.DTop), y(row.Top),
			cx+half(row.DBottom), y(row.Bottom),
			cx-half(row.DBottom), y(row.Bottom),
			row.Section, row.Affiliation, row.Top, row.Bottom)
	}
}

// renderSkirt draws the extracted skirt over the monopile it wraps,
// semi-transparent so the overlap stays visible.
func renderSkirt(buf *bytes.Buffer, skirt structure.Structure, cx float64, y func(float64) float64, half func(float64) float64) {
	for _, seg := range skirt {
		fmt.Fprintf(buf,
			`  <polygon class="skirt" fill="%s" fill-opacity="0.55" stroke="#3a3f45" stroke-width="0.8" stroke-dasharray="4 2" points="%.1f,%.1f %.1f,%.1f %.1f,%.1f %.1f,%.1f">`+
				`<title>Skirt %.2f..%.2f m</title></polygon>`+"\n",
			fills[structure.AffiliationSkirt],
			cx-half(seg.DTop), y(seg.Top),
			cx+half(seg.DTop), y(seg.Top),
			cx+half(seg.DBottom), y(seg.Bottom),
			cx-half(seg.DBottom), y(seg.Bottom),
			seg.Top, seg.Bottom)
	}
}

func renderWater(buf *bytes.Buffer, d assembly.Datum, ext extent, y func(float64) float64, x1, x2 float64) {
	if ext.zTop > 0 && ext.zBot < 0 {
		label := "0 m"
		if d.HeightReference != "" {
			label = d.HeightReference
		}
		fmt.Fprintf(buf, `  <line class="waterline" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#4a90d9" stroke-width="1.2" stroke-dasharray="8 4"/>`+"\n",
			x1, y(0), x2, y(0))
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="10" fill="#4a90d9">%s</text>`+"\n",
			x2+4, y(0)+3, escape(label))
	}
	if d.Seabed != nil {
		fmt.Fprintf(buf, `  <line class="seabed" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#7a5c3e" stroke-width="2"/>`+"\n",
			x1, y(*d.Seabed), x2, y(*d.Seabed))
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="10" fill="#7a5c3e">Seabed</text>`+"\n",
			x2+4, y(*d.Seabed)+3)
	}
}

func renderAxis(buf *bytes.Buffer, ext extent, y func(float64) float64) {
	step := tickStep(ext.span())
	first := math.Floor(ext.zBot/step) * step
	fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#888" stroke-width="1"/>`+"\n",
		axisWidth-10, y(ext.zTop), axisWidth-10, y(ext.zBot))
	for z := first; z <= ext.zTop+step/2; z += step {
		if z < ext.zBot-step/2 {
			continue
		}
		fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#888" stroke-width="1"/>`+"\n",
			axisWidth-14, y(z), axisWidth-10, y(z))
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="9" text-anchor="end" fill="#555">%g</text>`+"\n",
			axisWidth-18, y(z)+3, z)
	}
}

// tickStep picks a round tick interval that yields at most ~12 labels.
func tickStep(span float64) float64 {
	for _, step := range []float64{1, 2, 5, 10, 20, 50, 100} {
		if span/step <= 12 {
			return step
		}
	}
	return 200
}

func renderMasses(buf *bytes.Buffer, masses []structure.AddedMass, x float64, y func(float64) float64) {
	for _, m := range masses {
		if m.IsPoint() {
			fmt.Fprintf(buf, `  <circle class="mass" cx="%.1f" cy="%.1f" r="3" fill="#b4432f"><title>%s: %.2f t</title></circle>`+"\n",
				x, y(m.Top), escape(m.Comment), m.Mass)
		} else {
			fmt.Fprintf(buf, `  <line class="mass" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#b4432f" stroke-width="3"><title>%s: %.2f t</title></line>`+"\n",
				x, y(m.Top), x, y(*m.Bottom), escape(m.Comment), m.Mass)
		}
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="9" fill="#b4432f">%s</text>`+"\n",
			x+8, y(m.Top)+3, escape(m.Comment))
	}
}

// escape covers the characters SVG text content cannot carry verbatim.
func escape(s string) string {
	var out bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			out.WriteString("&amp;")
		case '<':
			out.WriteString("&lt;")
		case '>':
			out.WriteString("&gt;")
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}
