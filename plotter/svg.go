// Package plotter provides SVG visualization for categorical grid
// properties: a cell raster with a per-category palette and legend.
package plotter

import (
	"fmt"
	"strings"

	"github.com/mpslab/go-snesim/grid"
	"github.com/mpslab/go-snesim/stats"
)

// palette cycles over categories in ascending order.
var palette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

// missingColor fills cells without a value.
const missingColor = "#ffffff"

// SVGMap renders a 2D categorical property (or one z-layer of a 3D one) as
// a cell raster.
type SVGMap struct {
	CellPixels int
	Title      string
	ShowLegend bool
}

// NewSVGMap creates a renderer with default styling.
func NewSVGMap() *SVGMap {
	return &SVGMap{CellPixels: 8, ShowLegend: true}
}

// SetTitle sets the map title.
func (m *SVGMap) SetTitle(t string) *SVGMap {
	m.Title = t
	return m
}

// SetCellPixels sets the rendered size of one grid cell.
func (m *SVGMap) SetCellPixels(px int) *SVGMap {
	if px > 0 {
		m.CellPixels = px
	}
	return m
}

// Render produces the SVG document for layer iz of the property. Rows are
// drawn with iy increasing upward, matching the grid's coordinate
// convention rather than screen order.
func (m *SVGMap) Render(p *grid.Property, iz int) (string, error) {
	s := p.Structure()
	if iz < 0 || iz >= s.NZ() {
		return "", fmt.Errorf("layer %d out of range [0, %d)", iz, s.NZ())
	}

	freq := stats.Frequencies(p)
	categories := stats.Categories(freq)
	colors := make(map[int]string, len(categories))
	for i, c := range categories {
		colors[c] = palette[i%len(palette)]
	}

	px := m.CellPixels
	width := s.NX() * px
	height := s.NY() * px
	legendHeight := 0
	if m.ShowLegend {
		legendHeight = 24
	}
	titleHeight := 0
	if m.Title != "" {
		titleHeight = 24
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		width, height+titleHeight+legendHeight, width, height+titleHeight+legendHeight)
	b.WriteString("\n")

	if m.Title != "" {
		fmt.Fprintf(&b, `<text x="%d" y="16" text-anchor="middle" font-family="sans-serif" font-size="14">%s</text>`,
			width/2, m.Title)
		b.WriteString("\n")
	}

	dim := 2
	if s.Is3D() {
		dim = 3
	}
	for iy := 0; iy < s.NY(); iy++ {
		for ix := 0; ix < s.NX(); ix++ {
			si := grid.SpatialIndex{IX: ix, IY: iy, IZ: iz, Dim: dim}
			fill := missingColor
			if v, ok := p.Get(si); ok {
				fill = colors[int(v)]
			}
			// iy drawn bottom-up.
			y := titleHeight + (s.NY()-1-iy)*px
			fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`,
				ix*px, y, px, px, fill)
			b.WriteString("\n")
		}
	}

	if m.ShowLegend {
		y := titleHeight + height + 16
		x := 4
		for _, c := range categories {
			fmt.Fprintf(&b, `<rect x="%d" y="%d" width="12" height="12" fill="%s"/>`, x, y-10, colors[c])
			fmt.Fprintf(&b, `<text x="%d" y="%d" font-family="sans-serif" font-size="12">%d</text>`, x+16, y, c)
			b.WriteString("\n")
			x += 48
		}
	}

	b.WriteString("</svg>\n")
	return b.String(), nil
}
