package session

import (
	"fmt"
	"log"

	"map-draw/internal/draw/models"
	"map-draw/internal/draw/style"

	"github.com/paulmach/orb"
)

// ============================================================
// Feature Completion Pipeline
// ============================================================

// BeginGesture начинает жест рисования. При достигнутом лимите объектов
// жест отклоняется, поднимается сообщение и рисование выключается.
func (s *Session) BeginGesture() error {
	if s.modes.Active() != models.ModeDraw {
		return ErrNotDrawing
	}
	if s.maxFeatures > 0 && len(s.features) > s.maxFeatures-1 {
		s.surface.RaiseAlert(models.FeatureLimitAlert(s.maxFeatures))
		s.gesture = false
		s.modes.deactivate()
		log.Printf("[PIPELINE] feature limit %d reached", s.maxFeatures)
		return ErrFeatureLimit
	}
	s.gesture = true
	return nil
}

// Sketch - стиль размещаемого объекта текущего типа рисования.
// Для круга с подсказкой про центр. Есть только в режиме рисования.
func (s *Session) Sketch() (models.Style, bool) {
	if s.modes.Active() != models.ModeDraw {
		return models.Style{}, false
	}
	return style.Sketch(s.settings.Mode.Geometry(), s.settings, s.zIndex), true
}

// CompleteGesture превращает завершенный жест в объекты слоя.
// Стиль копируется на момент фиксации. Отклоненный жест ничего не оставляет
// на слое и не сдвигает счетчик z-index.
func (s *Session) CompleteGesture(g models.Gesture) ([]*models.DrawnFeature, error) {
	if !s.gesture {
		return nil, ErrNoGesture
	}
	s.gesture = false

	settings := s.settings
	if want := settings.Mode.Geometry(); g.Kind != want {
		return nil, fmt.Errorf("%w: got %s, draw type %s", ErrGeometryMismatch, g.Kind, settings.Mode)
	}
	if g.Kind == models.KindCircle {
		return s.completeCircle(g, settings)
	}

	if g.Geometry == nil || models.Degenerate(g.Geometry) {
		return nil, ErrDegenerateGeometry
	}
	if kind, err := models.KindOf(g.Geometry); err != nil || kind != g.Kind {
		return nil, fmt.Errorf("%w: payload is not a %s", ErrGeometryMismatch, g.Kind)
	}

	f := s.newFeature(g.Kind, settings)
	f.Geometry = orb.Clone(g.Geometry)
	if settings.Mode == models.DrawText {
		f.Text = settings.Text
	}
	s.layer.Add(f)
	s.commit(f, true)
	return []*models.DrawnFeature{f}, nil
}

func (s *Session) completeCircle(g models.Gesture, settings models.StyleSettings) ([]*models.DrawnFeature, error) {
	if g.Circle == nil {
		return nil, ErrDegenerateGeometry
	}
	double := settings.Mode.DoubleCircle()
	defined := double || settings.CircleMethod == models.CircleDefined

	if !defined {
		if !models.ValidRadius(g.Circle.Radius()) {
			return nil, ErrDegenerateGeometry
		}
		f := s.newFeature(models.KindCircle, settings)
		c := *g.Circle
		f.Circle = &c
		s.layer.Add(f)
		s.commit(f, true)
		return []*models.DrawnFeature{f}, nil
	}

	// оба круга попадают на слой как черновики и снимаются вместе
	pending := []*models.DrawnFeature{s.newFeature(models.KindCircle, settings)}
	if double {
		outer := s.newFeature(models.KindCircle, settings)
		outer.IsOuterCircle = true
		pending = append([]*models.DrawnFeature{outer}, pending...)
	}
	for _, f := range pending {
		s.layer.Add(f)
	}
	discard := func() {
		for _, f := range pending {
			s.layer.Remove(f.ID)
		}
	}

	if slot, ok := validateRadii(settings, double); !ok {
		discard()
		s.surface.RaiseAlert(models.RadiusAlert(slot, double))
		log.Printf("[PIPELINE] rejected %s: %s radius undefined", settings.Mode, slot)
		return nil, &RadiusError{Slot: slot, Double: double}
	}

	center := g.Circle.Center
	for _, f := range pending {
		radius := settings.CircleRadius
		if f.IsOuterCircle {
			radius = settings.CircleOuterRadius
		}
		c, err := s.circles.Resolve(center, radius)
		if err != nil {
			discard()
			return nil, fmt.Errorf("resolve circle: %w", err)
		}
		f.Circle = &c
	}

	for _, f := range pending {
		s.commit(f, true)
	}
	return pending, nil
}

// validateRadii проверяет радиусы пары целиком.
func validateRadii(s models.StyleSettings, double bool) (models.RadiusSlot, bool) {
	innerOK := models.ValidRadius(s.CircleRadius)
	if !double {
		return models.RadiusInner, innerOK
	}
	outerOK := models.ValidRadius(s.CircleOuterRadius)
	switch {
	case !innerOK && !outerOK:
		return models.RadiusBoth, false
	case !innerOK:
		return models.RadiusInner, false
	case !outerOK:
		return models.RadiusOuter, false
	}
	return models.RadiusInner, true
}

func (s *Session) commit(f *models.DrawnFeature, record bool) {
	if f.IsOuterCircle {
		f.Style.ColorContour = f.Style.OuterColorContour
	}
	f.ZIndex = s.zIndex
	s.zIndex++
	f.Appearance = style.ForFeature(f)
	s.features = append(s.features, f)
	if record {
		s.record(opAdd, f, len(s.features)-1)
	}
	log.Printf("[PIPELINE] committed %s %s z=%d", f.Kind, f.ID, f.ZIndex)
}

// Preload добавляет готовые геометрии в рабочей проекции с текущим стилем.
// Либо добавляются все геометрии, либо ни одной.
func (s *Session) Preload(geoms []orb.Geometry) ([]*models.DrawnFeature, error) {
	if s.layer == nil {
		return nil, ErrNoLayer
	}
	kinds := make([]models.GeometryKind, len(geoms))
	for i, g := range geoms {
		kind, err := models.KindOf(g)
		if err != nil {
			return nil, fmt.Errorf("preload geometry %d: %w", i, err)
		}
		kinds[i] = kind
	}

	added := make([]*models.DrawnFeature, 0, len(geoms))
	for i, g := range geoms {
		settings := s.settings
		settings.Mode = models.ModeForKind(kinds[i])
		f := s.newFeature(kinds[i], settings)
		f.Geometry = orb.Clone(g)
		s.layer.Add(f)
		s.commit(f, false)
		added = append(added, f)
	}
	return added, nil
}
