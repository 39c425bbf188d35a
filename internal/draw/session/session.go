package session

import (
	"log"
	"strconv"

	"map-draw/internal/draw/circle"
	"map-draw/internal/draw/models"
	"map-draw/internal/draw/surface"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// ============================================================
// Draw Session
// ============================================================

// LayerName - имя рабочего слоя инструмента на карте.
const LayerName = "import_draw_layer"

// Session - состояние одного инструмента рисования на одной карте.
// Не потокобезопасна: вызывающий сериализует доступ.
type Session struct {
	surface     surface.Surface
	circles     *circle.Resolver
	modes       *ModeController
	defaults    models.StyleSettings
	settings    models.StyleSettings
	layer       surface.Layer
	features    []*models.DrawnFeature
	zIndex      int
	styleSeq    int
	maxFeatures int
	gesture     bool
	ledger      []ledgerEntry
}

func New(s surface.Surface, defaults models.StyleSettings) *Session {
	return &Session{
		surface:  s,
		circles:  circle.NewResolver(s, s.WorkingCRS()),
		modes:    newModeController(s),
		defaults: defaults,
		settings: defaults,
	}
}

// EnsureLayer создает рабочий слой при первом вызове и подключает
// обработчики жестов. Повторные вызовы возвращают тот же слой.
func (s *Session) EnsureLayer() surface.Layer {
	if s.layer != nil {
		return s.layer
	}
	if l, ok := s.surface.Layer(LayerName); ok {
		s.layer = l
		s.adopt(l.Features())
	} else {
		s.layer = s.surface.CreateLayer(LayerName)
	}
	s.modes.attach()
	return s.layer
}

// adopt принимает объекты, уже лежащие на переиспользуемом слое.
func (s *Session) adopt(existing []*models.DrawnFeature) {
	for _, f := range existing {
		s.features = append(s.features, f)
		if f.ZIndex >= s.zIndex {
			s.zIndex = f.ZIndex + 1
		}
	}
}

func (s *Session) HasLayer() bool { return s.layer != nil }

// Reset убирает все объекты, возвращает стиль к значениям по умолчанию
// и гасит обработчики. Сам слой остается и переиспользуется.
func (s *Session) Reset() {
	s.gesture = false
	s.modes.deactivate()
	s.settings = s.defaults
	s.DeleteAll()
}

func (s *Session) Settings() models.StyleSettings { return s.settings }

// UpdateStyle применяет сеттеры к текущему стилю.
// Уже зафиксированные объекты не затрагиваются.
func (s *Session) UpdateStyle(fn func(*models.StyleSettings)) {
	fn(&s.settings)
}

func (s *Session) SetMaxFeatures(n int) { s.maxFeatures = n }

func (s *Session) MaxFeatures() int { return s.maxFeatures }

func (s *Session) Mode() models.InteractionMode { return s.modes.Active() }

// Activate переключает режим. Незавершенный жест при этом отбрасывается,
// кроме повторной активации текущего режима.
func (s *Session) Activate(mode models.InteractionMode) error {
	if mode == s.modes.Active() {
		return s.modes.Activate(mode)
	}
	if s.gesture {
		log.Printf("[DRAW] discarding gesture in progress on switch to %s", mode)
	}
	s.gesture = false
	return s.modes.Activate(mode)
}

// Features возвращает зафиксированные объекты в порядке фиксации.
func (s *Session) Features() []*models.DrawnFeature {
	return append([]*models.DrawnFeature(nil), s.features...)
}

func (s *Session) Feature(id string) (*models.DrawnFeature, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.features[i], true
	}
	return nil, false
}

// Extent - общий охват всех объектов.
func (s *Session) Extent() (orb.Bound, bool) {
	if len(s.features) == 0 {
		return orb.Bound{}, false
	}
	b := s.features[0].Bound()
	for _, f := range s.features[1:] {
		b = b.Union(f.Bound())
	}
	return b, true
}

func (s *Session) indexOf(id string) int {
	for i, f := range s.features {
		if f.ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) newFeature(kind models.GeometryKind, settings models.StyleSettings) *models.DrawnFeature {
	s.styleSeq++
	return &models.DrawnFeature{
		ID:      uuid.NewString(),
		StyleID: strconv.Itoa(s.styleSeq),
		Kind:    kind,
		Mode:    settings.Mode,
		Style:   settings,
	}
}
