package models

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// ============================================================
// Drawn Features
// ============================================================

// Circle хранит центр и точку на окружности в рабочей проекции.
type Circle struct {
	Center orb.Point `json:"center"`
	Edge   orb.Point `json:"edge"`
}

func (c Circle) Radius() float64 {
	return planar.Distance(c.Center, c.Edge)
}

func (c Circle) Bound() orb.Bound {
	r := c.Radius()
	return orb.Bound{
		Min: orb.Point{c.Center[0] - r, c.Center[1] - r},
		Max: orb.Point{c.Center[0] + r, c.Center[1] + r},
	}
}

// DrawnFeature - объект на рабочем слое.
// Style фиксируется в момент фиксации жеста и дальше не меняется,
// кроме явной перестилизации.
type DrawnFeature struct {
	ID            string
	StyleID       string
	Kind          GeometryKind
	Mode          DrawMode
	Geometry      orb.Geometry
	Circle        *Circle
	Text          string
	Style         StyleSettings
	Appearance    Style
	ZIndex        int
	IsOuterCircle bool
}

func (f *DrawnFeature) Clone() *DrawnFeature {
	cp := *f
	if f.Geometry != nil {
		cp.Geometry = orb.Clone(f.Geometry)
	}
	if f.Circle != nil {
		c := *f.Circle
		cp.Circle = &c
	}
	return &cp
}

func (f *DrawnFeature) Bound() orb.Bound {
	if f.Circle != nil {
		return f.Circle.Bound()
	}
	return f.Geometry.Bound()
}

// KindOf определяет тип геометрии orb. Коллекции не поддерживаются.
func KindOf(g orb.Geometry) (GeometryKind, error) {
	switch g.(type) {
	case orb.Point:
		return KindPoint, nil
	case orb.LineString:
		return KindLineString, nil
	case orb.Polygon:
		return KindPolygon, nil
	case orb.MultiPoint:
		return KindMultiPoint, nil
	case orb.MultiLineString:
		return KindMultiLineString, nil
	case orb.MultiPolygon:
		return KindMultiPolygon, nil
	}
	if g == nil {
		return 0, fmt.Errorf("empty geometry")
	}
	return 0, fmt.Errorf("unsupported geometry %s", g.GeoJSONType())
}

// Degenerate сообщает, что геометрия не образует фигуру своего типа.
func Degenerate(g orb.Geometry) bool {
	switch v := g.(type) {
	case orb.Point:
		return !finite(v)
	case orb.LineString:
		return len(v) < 2 || !allFinite(v)
	case orb.Polygon:
		return len(v) == 0 || len(v[0]) < 4 || !allFinite(v[0])
	case orb.MultiPoint:
		return len(v) == 0
	case orb.MultiLineString:
		return len(v) == 0
	case orb.MultiPolygon:
		return len(v) == 0
	}
	return true
}

func finite(p orb.Point) bool {
	return !math.IsNaN(p[0]) && !math.IsNaN(p[1]) && !math.IsInf(p[0], 0) && !math.IsInf(p[1], 0)
}

func allFinite(ps []orb.Point) bool {
	for _, p := range ps {
		if !finite(p) {
			return false
		}
	}
	return true
}

// Gesture - завершенный жест на поверхности карты.
// Для кругов заполняется Circle, для остальных Geometry.
type Gesture struct {
	Kind     GeometryKind
	Geometry orb.Geometry
	Circle   *Circle
}
