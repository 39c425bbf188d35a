package export

import (
	"encoding/json"
	"fmt"
	"log"

	"map-draw/internal/draw/circle"
	"map-draw/internal/draw/models"

	"github.com/dustin/go-humanize"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ============================================================
// Export Serializer
// ============================================================

// TargetCRS - географическая система для экспорта с перепроецированием.
const TargetCRS = "EPSG:4326"

type GeomType string

const (
	SingleGeometry GeomType = "singleGeometry"
	MultiGeometry  GeomType = "multiGeometry"
)

// ParseGeomType: пустая строка означает одиночные геометрии.
func ParseGeomType(s string) (GeomType, error) {
	switch GeomType(s) {
	case "", SingleGeometry:
		return SingleGeometry, nil
	case MultiGeometry:
		return MultiGeometry, nil
	}
	return "", fmt.Errorf("unknown geometry export type %q", s)
}

type Options struct {
	GeomType     GeomType
	TransformWGS bool
}

// Projector перепроецирует точки и геометрии.
type Projector interface {
	TransformPoint(p orb.Point, from, to string) (orb.Point, error)
	Geometry(g orb.Geometry, from, to string) (orb.Geometry, error)
}

type Serializer struct {
	projector  Projector
	workingCRS string
}

func NewSerializer(p Projector, workingCRS string) *Serializer {
	return &Serializer{projector: p, workingCRS: workingCRS}
}

// Collection собирает FeatureCollection. Объекты сессии не изменяются.
func (s *Serializer) Collection(features []*models.DrawnFeature, opts Options) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	if opts.GeomType == MultiGeometry {
		return s.merge(fc, features, opts)
	}
	for _, f := range features {
		g, err := s.geometry(f, opts.TransformWGS)
		if err != nil {
			return nil, err
		}
		fc.Append(geojson.NewFeature(g))
	}
	return fc, nil
}

// Export сериализует коллекцию в JSON.
func (s *Serializer) Export(features []*models.DrawnFeature, opts Options) ([]byte, error) {
	fc, err := s.Collection(features, opts)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(fc)
	if err != nil {
		return nil, fmt.Errorf("marshal feature collection: %w", err)
	}
	log.Printf("[EXPORT] %s, %d features, %s", opts.GeomType, len(fc.Features), humanize.Bytes(uint64(len(data))))
	return data, nil
}

// merge складывает точки, линии и полигоны в Multi*-объекты.
// Круги идут в MultiPolygon, готовые Multi* передаются как есть, надписи теряются.
func (s *Serializer) merge(fc *geojson.FeatureCollection, features []*models.DrawnFeature, opts Options) (*geojson.FeatureCollection, error) {
	var (
		polygons orb.MultiPolygon
		points   orb.MultiPoint
		lines    orb.MultiLineString
	)
	for _, f := range features {
		if f.Mode == models.DrawText {
			continue
		}
		g, err := s.geometry(f, opts.TransformWGS)
		if err != nil {
			return nil, err
		}
		switch v := g.(type) {
		case orb.Polygon:
			polygons = append(polygons, v)
		case orb.Point:
			points = append(points, v)
		case orb.LineString:
			lines = append(lines, v)
		default:
			fc.Append(geojson.NewFeature(g))
		}
	}

	if len(polygons) > 0 {
		fc.Append(geojson.NewFeature(polygons))
	}
	if len(points) > 0 {
		fc.Append(geojson.NewFeature(points))
	}
	if len(lines) > 0 {
		fc.Append(geojson.NewFeature(lines))
	}
	return fc, nil
}

// geometry возвращает копию геометрии объекта, круг - как 64-угольник.
// При перепроецировании круг сначала переводится в целевую систему.
func (s *Serializer) geometry(f *models.DrawnFeature, transform bool) (orb.Geometry, error) {
	if f.Kind == models.KindCircle {
		if f.Circle == nil {
			return nil, fmt.Errorf("circle feature %s has no circle", f.ID)
		}
		c := *f.Circle
		if transform {
			center, err := s.projector.TransformPoint(c.Center, s.workingCRS, TargetCRS)
			if err != nil {
				return nil, fmt.Errorf("reproject circle %s: %w", f.ID, err)
			}
			edge, err := s.projector.TransformPoint(c.Edge, s.workingCRS, TargetCRS)
			if err != nil {
				return nil, fmt.Errorf("reproject circle %s: %w", f.ID, err)
			}
			c = models.Circle{Center: center, Edge: edge}
		}
		return circle.Polygon(c, circle.Sides), nil
	}

	if !transform {
		return orb.Clone(f.Geometry), nil
	}
	g, err := s.projector.Geometry(f.Geometry, s.workingCRS, TargetCRS)
	if err != nil {
		return nil, fmt.Errorf("reproject feature %s: %w", f.ID, err)
	}
	return g, nil
}
