package surface

import (
	"map-draw/internal/draw/models"

	"github.com/paulmach/orb"
)

// ============================================================
// Map Surface Contracts
// ============================================================

// Layer - векторный слой карты с нарисованными объектами.
type Layer interface {
	Name() string
	Add(f *models.DrawnFeature)
	Remove(id string) bool
	Clear()
	Features() []*models.DrawnFeature
}

// Interaction - обработчик жестов, подключенный к карте.
type Interaction interface {
	Mode() models.InteractionMode
	Active() bool
}

// Surface - всё, что инструменту нужно от карты.
type Surface interface {
	WorkingCRS() string
	TransformPoint(p orb.Point, from, to string) (orb.Point, error)
	Layer(name string) (Layer, bool)
	CreateLayer(name string) Layer
	AddInteraction(i Interaction)
	RemoveInteraction(i Interaction)
	SetCursor(c models.Cursor)
	ZoomToExtent(b orb.Bound)
	RaiseAlert(a models.Alert)
	PostMessage(name string, payload any)
}
