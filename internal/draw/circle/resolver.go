package circle

import (
	"fmt"
	"math"

	"map-draw/internal/draw/models"

	"github.com/paulmach/orb"
)

// ============================================================
// Circle Geometry Resolver
// ============================================================

const (
	EarthRadius = 6378137.0
	// Sides - число сторон многоугольника при экспорте круга.
	Sides = 64
)

// Transformer пересчитывает точку между проекциями.
type Transformer interface {
	TransformPoint(p orb.Point, from, to string) (orb.Point, error)
}

// Resolver строит круг по центру и радиусу в метрах.
type Resolver struct {
	transformer Transformer
	workingCRS  string
}

func NewResolver(t Transformer, workingCRS string) *Resolver {
	return &Resolver{transformer: t, workingCRS: workingCRS}
}

// EdgePoint находит точку на окружности к северу от центра.
// Смещение по широте считается от половины радиуса: круги выходят
// вдвое меньше введенного значения, и экспорт это сохраняет.
func (r *Resolver) EdgePoint(center orb.Point, radius float64) (orb.Point, error) {
	if !models.ValidRadius(radius) {
		return orb.Point{}, fmt.Errorf("invalid radius %v", radius)
	}
	geo, err := r.transformer.TransformPoint(center, r.workingCRS, "EPSG:4326")
	if err != nil {
		return orb.Point{}, fmt.Errorf("center to wgs84: %w", err)
	}

	deltaLat := (radius / 2) / EarthRadius
	edge := orb.Point{geo[0], geo[1] + deltaLat*180/math.Pi}

	out, err := r.transformer.TransformPoint(edge, "EPSG:4326", r.workingCRS)
	if err != nil {
		return orb.Point{}, fmt.Errorf("edge from wgs84: %w", err)
	}
	return out, nil
}

func (r *Resolver) Resolve(center orb.Point, radius float64) (models.Circle, error) {
	edge, err := r.EdgePoint(center, radius)
	if err != nil {
		return models.Circle{}, err
	}
	return models.Circle{Center: center, Edge: edge}, nil
}

// Polygon аппроксимирует круг правильным многоугольником.
// Кольцо замкнуто: sides вершин и повтор первой.
func Polygon(c models.Circle, sides int) orb.Polygon {
	if sides < 3 {
		sides = 3
	}
	r := c.Radius()
	ring := make(orb.Ring, 0, sides+1)
	for i := 0; i < sides; i++ {
		angle := float64(i) * 2 * math.Pi / float64(sides)
		ring = append(ring, orb.Point{
			c.Center[0] + r*math.Cos(angle),
			c.Center[1] + r*math.Sin(angle),
		})
	}
	ring = append(ring, ring[0])
	return orb.Polygon{ring}
}
