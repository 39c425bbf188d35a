package preview

import (
	"fmt"
	"image"
	"io"
	"math"
	"sort"

	"map-draw/internal/draw/circle"
	"map-draw/internal/draw/models"

	"github.com/fogleman/gg"
	"github.com/paulmach/orb"
)

// ============================================================
// Preview Renderer
// ============================================================

// Renderer рисует зафиксированные объекты в PNG по их готовым стилям.
type Renderer struct {
	width   int
	height  int
	padding float64
}

func NewRenderer(width, height int) *Renderer {
	return &Renderer{width: width, height: height, padding: 16}
}

// viewport переводит координаты рабочей проекции в пиксели.
type viewport struct {
	bound  orb.Bound
	scale  float64
	offX   float64
	offY   float64
	height float64
}

func (v viewport) pt(p orb.Point) (float64, float64) {
	x := v.offX + (p[0]-v.bound.Min[0])*v.scale
	y := v.height - (v.offY + (p[1]-v.bound.Min[1])*v.scale)
	return x, y
}

func (r *Renderer) render(features []*models.DrawnFeature) image.Image {
	return r.context(features).Image()
}

func (r *Renderer) EncodePNG(w io.Writer, features []*models.DrawnFeature) error {
	if err := r.context(features).EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func (r *Renderer) context(features []*models.DrawnFeature) *gg.Context {
	dc := gg.NewContext(r.width, r.height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	if len(features) == 0 {
		return dc
	}

	ordered := append([]*models.DrawnFeature(nil), features...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Appearance.ZIndex < ordered[j].Appearance.ZIndex
	})

	vp := r.fit(ordered)
	dc.SetFillRule(gg.FillRuleEvenOdd)
	for _, f := range ordered {
		r.draw(dc, vp, f)
	}
	return dc
}

func (r *Renderer) fit(features []*models.DrawnFeature) viewport {
	b := features[0].Bound()
	for _, f := range features[1:] {
		b = b.Union(f.Bound())
	}

	availW := float64(r.width) - 2*r.padding
	availH := float64(r.height) - 2*r.padding
	bw, bh := b.Max[0]-b.Min[0], b.Max[1]-b.Min[1]

	scale := 1.0
	switch {
	case bw > 0 && bh > 0:
		scale = math.Min(availW/bw, availH/bh)
	case bw > 0:
		scale = availW / bw
	case bh > 0:
		scale = availH / bh
	}

	return viewport{
		bound:  b,
		scale:  scale,
		offX:   r.padding + (availW-bw*scale)/2,
		offY:   r.padding + (availH-bh*scale)/2,
		height: float64(r.height),
	}
}

func (r *Renderer) draw(dc *gg.Context, vp viewport, f *models.DrawnFeature) {
	st := f.Appearance
	if f.Circle != nil {
		polygon(dc, vp, circle.Polygon(*f.Circle, circle.Sides), st)
		return
	}

	switch g := f.Geometry.(type) {
	case orb.Point:
		point(dc, vp, g, st)
	case orb.MultiPoint:
		for _, p := range g {
			point(dc, vp, p, st)
		}
	case orb.LineString:
		line(dc, vp, g, st)
	case orb.MultiLineString:
		for _, l := range g {
			line(dc, vp, l, st)
		}
	case orb.Polygon:
		polygon(dc, vp, g, st)
	case orb.MultiPolygon:
		for _, p := range g {
			polygon(dc, vp, p, st)
		}
	}
}

func point(dc *gg.Context, vp viewport, p orb.Point, st models.Style) {
	x, y := vp.pt(p)
	if st.Label != nil {
		dc.SetColor(st.Label.Fill.Color.NRGBA())
		dc.DrawStringAnchored(st.Label.Text, x, y, 0, 0.5)
		return
	}
	if st.Marker == nil {
		return
	}
	dc.DrawCircle(x, y, st.Marker.Radius)
	dc.SetColor(st.Marker.Fill.Color.NRGBA())
	if st.Marker.Stroke.Width > 0 {
		dc.FillPreserve()
		dc.SetColor(st.Marker.Stroke.Color.NRGBA())
		dc.SetLineWidth(st.Marker.Stroke.Width)
		dc.Stroke()
		return
	}
	dc.Fill()
}

func line(dc *gg.Context, vp viewport, l orb.LineString, st models.Style) {
	if st.Stroke == nil || len(l) == 0 {
		return
	}
	for i, p := range l {
		x, y := vp.pt(p)
		if i == 0 {
			dc.MoveTo(x, y)
			continue
		}
		dc.LineTo(x, y)
	}
	dc.SetColor(st.Stroke.Color.NRGBA())
	dc.SetLineWidth(st.Stroke.Width)
	dc.Stroke()
}

func polygon(dc *gg.Context, vp viewport, poly orb.Polygon, st models.Style) {
	for _, ring := range poly {
		for i, p := range ring {
			x, y := vp.pt(p)
			if i == 0 {
				dc.MoveTo(x, y)
				continue
			}
			dc.LineTo(x, y)
		}
		dc.ClosePath()
	}
	if st.Fill != nil {
		dc.SetColor(st.Fill.Color.NRGBA())
		dc.FillPreserve()
	}
	if st.Stroke != nil {
		dc.SetColor(st.Stroke.Color.NRGBA())
		dc.SetLineWidth(st.Stroke.Width)
		dc.StrokePreserve()
	}
	dc.ClearPath()
}
