package session

import (
	"errors"
	"fmt"

	"map-draw/internal/draw/models"
)

var (
	ErrNoLayer            = errors.New("working layer not created")
	ErrWrongMode          = errors.New("operation not allowed in current mode")
	ErrNotDrawing         = fmt.Errorf("%w: draw interaction is not active", ErrWrongMode)
	ErrNoGesture          = errors.New("no gesture in progress")
	ErrFeatureLimit       = errors.New("feature limit reached")
	ErrGeometryMismatch   = errors.New("geometry does not match draw type")
	ErrDegenerateGeometry = errors.New("degenerate geometry")
	ErrFeatureNotFound    = errors.New("feature not found")
)

// RadiusError - отклонение круга из-за незаданного радиуса.
type RadiusError struct {
	Slot   models.RadiusSlot
	Double bool
}

func (e *RadiusError) Error() string {
	if e.Double {
		return fmt.Sprintf("invalid %s radius for double circle", e.Slot)
	}
	return "invalid circle radius"
}
