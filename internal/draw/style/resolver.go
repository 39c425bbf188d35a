package style

import (
	"fmt"

	"map-draw/internal/draw/models"
)

// ============================================================
// Style Resolver
// ============================================================

const (
	// CircleHint показывается, пока центр круга еще не поставлен.
	CircleHint   = "Set where the center of the circle should be."
	// TextZIndex поднимает надписи над всеми фигурами.
	TextZIndex   = 9999
	vertexRadius = 6
)

// Resolve возвращает стиль зафиксированного объекта.
// Приоритет: текст, затем круг, затем точка/линия/полигон.
// Каждый вызов отдает новые экземпляры.
func Resolve(kind models.GeometryKind, s models.StyleSettings, zIndex int) models.Style {
	switch {
	case s.Mode == models.DrawText:
		return textStyle(s)
	case kind == models.KindCircle:
		return circleStyle(s, zIndex, "")
	default:
		return drawStyle(kind, s, zIndex)
	}
}

// Sketch - стиль незавершенного жеста. Для круга с подсказкой.
func Sketch(kind models.GeometryKind, s models.StyleSettings, zIndex int) models.Style {
	if s.Mode != models.DrawText && kind == models.KindCircle {
		return circleStyle(s, zIndex, CircleHint)
	}
	return Resolve(kind, s, zIndex)
}

func ForFeature(f *models.DrawnFeature) models.Style {
	s := f.Style
	if f.Mode == models.DrawText {
		s.Text = f.Text
	}
	return Resolve(f.Kind, s, f.ZIndex)
}

func textStyle(s models.StyleSettings) models.Style {
	return models.Style{
		Label: &models.Label{
			Text:  s.Text,
			Font:  fmt.Sprintf("%dpx %s", s.FontSize, s.Font),
			Align: "left",
			Fill:  models.Fill{Color: s.Color},
		},
		ZIndex: TextZIndex,
	}
}

func circleStyle(s models.StyleSettings, zIndex int, hint string) models.Style {
	st := models.Style{
		Marker: &models.Marker{
			Radius: vertexRadius,
			Fill:   models.Fill{Color: s.Color},
			Stroke: models.Stroke{Color: s.ColorContour, Width: float64(s.StrokeWidth)},
		},
		Stroke: &models.Stroke{Color: s.ColorContour, Width: float64(s.StrokeWidth)},
		Fill:   &models.Fill{Color: s.Color},
		ZIndex: zIndex,
	}
	if hint != "" {
		st.Label = &models.Label{
			Text:  hint,
			Font:  "20px Arial",
			Align: "left",
			Fill:  models.Fill{Color: models.RGBA{0, 0, 0, 1}},
		}
	}
	return st
}

func drawStyle(kind models.GeometryKind, s models.StyleSettings, zIndex int) models.Style {
	marker := &models.Marker{
		Radius: vertexRadius,
		Fill:   models.Fill{Color: s.ColorContour},
	}
	if kind == models.KindPoint || kind == models.KindMultiPoint {
		marker.Radius = float64(s.PointRadius)
		marker.Fill = models.Fill{Color: s.Color}
	}
	return models.Style{
		Fill:   &models.Fill{Color: s.Color},
		Stroke: &models.Stroke{Color: s.ColorContour, Width: float64(s.StrokeWidth)},
		Marker: marker,
		ZIndex: zIndex,
	}
}
