package export

import (
	"errors"
	"fmt"

	"map-draw/internal/draw/models"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var ErrMalformedDocument = errors.New("malformed feature collection")

// Decode читает ранее выгруженную FeatureCollection.
// С reproject координаты переводятся из EPSG:4326 в рабочую проекцию.
func Decode(doc []byte, p Projector, workingCRS string, reproject bool) ([]orb.Geometry, error) {
	fc, err := geojson.UnmarshalFeatureCollection(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("%w: type %q", ErrMalformedDocument, fc.Type)
	}

	geoms := make([]orb.Geometry, 0, len(fc.Features))
	for i, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		if _, err := models.KindOf(f.Geometry); err != nil {
			return nil, fmt.Errorf("%w: feature %d: %v", ErrMalformedDocument, i, err)
		}
		g := f.Geometry
		if reproject {
			g, err = p.Geometry(g, TargetCRS, workingCRS)
			if err != nil {
				return nil, fmt.Errorf("reproject feature %d: %w", i, err)
			}
		}
		geoms = append(geoms, g)
	}
	return geoms, nil
}
