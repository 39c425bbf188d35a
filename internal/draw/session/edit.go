package session

import (
	"fmt"

	"map-draw/internal/draw/models"
	"map-draw/internal/draw/style"

	"github.com/paulmach/orb"
)

// ============================================================
// Editing
// ============================================================

// DeleteFeature удаляет выбранный объект. Работает только в режиме выбора.
func (s *Session) DeleteFeature(id string) error {
	if s.modes.Active() != models.ModeSelect {
		return fmt.Errorf("%w: delete requires select mode", ErrWrongMode)
	}
	return s.remove(id, true)
}

// ModifyFeature заменяет координаты объекта того же типа. Только в режиме правки.
func (s *Session) ModifyFeature(id string, g models.Gesture) error {
	if s.modes.Active() != models.ModeModify {
		return fmt.Errorf("%w: modify requires modify mode", ErrWrongMode)
	}
	f, ok := s.Feature(id)
	if !ok {
		return ErrFeatureNotFound
	}
	if g.Kind != f.Kind {
		return fmt.Errorf("%w: feature is %s, got %s", ErrGeometryMismatch, f.Kind, g.Kind)
	}

	if f.Kind == models.KindCircle {
		if g.Circle == nil || !models.ValidRadius(g.Circle.Radius()) {
			return ErrDegenerateGeometry
		}
		c := *g.Circle
		f.Circle = &c
		return nil
	}
	if g.Geometry == nil || models.Degenerate(g.Geometry) {
		return ErrDegenerateGeometry
	}
	if kind, err := models.KindOf(g.Geometry); err != nil || kind != f.Kind {
		return fmt.Errorf("%w: payload is not a %s", ErrGeometryMismatch, f.Kind)
	}
	f.Geometry = orb.Clone(g.Geometry)
	return nil
}

// Restyle назначает объекту текущий стиль. Внешний круг двойного круга
// берет цвет контура из внешнего цвета текущего стиля.
func (s *Session) Restyle(id string) error {
	f, ok := s.Feature(id)
	if !ok {
		return ErrFeatureNotFound
	}
	st := s.settings
	st.Mode = f.Mode
	if f.IsOuterCircle {
		st.ColorContour = st.OuterColorContour
	}
	f.Style = st
	f.Appearance = style.ForFeature(f)
	return nil
}

// DeleteAll очищает слой. Стиль и режим не меняются.
func (s *Session) DeleteAll() {
	s.features = nil
	s.ledger = nil
	if s.layer != nil {
		s.layer.Clear()
	}
}

func (s *Session) remove(id string, record bool) error {
	i := s.indexOf(id)
	if i < 0 {
		return ErrFeatureNotFound
	}
	f := s.features[i]
	s.features = append(s.features[:i], s.features[i+1:]...)
	s.layer.Remove(id)
	if record {
		s.record(opRemove, f, i)
	}
	return nil
}

// ============================================================
// Undo Ledger
// ============================================================

type ledgerOp int

const (
	opAdd ledgerOp = iota
	opRemove
)

type ledgerEntry struct {
	op      ledgerOp
	feature *models.DrawnFeature
	index   int
}

func (s *Session) record(op ledgerOp, f *models.DrawnFeature, index int) {
	s.ledger = append(s.ledger, ledgerEntry{op: op, feature: f, index: index})
}

// Undo откатывает последнее добавление или удаление.
// Возвращает false, если откатывать нечего.
func (s *Session) Undo() bool {
	for len(s.ledger) > 0 {
		e := s.ledger[len(s.ledger)-1]
		s.ledger = s.ledger[:len(s.ledger)-1]

		switch e.op {
		case opAdd:
			if err := s.remove(e.feature.ID, false); err != nil {
				continue
			}
		case opRemove:
			i := e.index
			if i > len(s.features) {
				i = len(s.features)
			}
			s.features = append(s.features[:i], append([]*models.DrawnFeature{e.feature}, s.features[i:]...)...)
			s.layer.Add(e.feature)
		}
		return true
	}
	return false
}
