package surface

import (
	"sync"

	"map-draw/internal/draw/models"

	"github.com/paulmach/orb"
)

// ============================================================
// In-Memory Surface
// ============================================================

// Projector пересчитывает точки между проекциями.
type Projector interface {
	TransformPoint(p orb.Point, from, to string) (orb.Point, error)
}

// Message - сообщение для встраивающего приложения.
type Message struct {
	Name    string `json:"name"`
	Payload any    `json:"payload"`
}

// Memory - поверхность без отрисовки: хранит слои, курсор,
// охват и поднятые сообщения для последующей выдачи клиенту.
type Memory struct {
	mu           sync.Mutex
	crs          string
	projector    Projector
	layers       map[string]*MemoryLayer
	interactions []Interaction
	cursor       models.Cursor
	extent       *orb.Bound
	alerts       []models.Alert
	messages     []Message
}

func NewMemory(p Projector, workingCRS string) *Memory {
	return &Memory{
		crs:       workingCRS,
		projector: p,
		layers:    make(map[string]*MemoryLayer),
		cursor:    models.CursorPencil,
	}
}

func (m *Memory) WorkingCRS() string { return m.crs }

func (m *Memory) TransformPoint(p orb.Point, from, to string) (orb.Point, error) {
	return m.projector.TransformPoint(p, from, to)
}

func (m *Memory) Layer(name string) (Layer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.layers[name]
	if !ok {
		return nil, false
	}
	return l, true
}

func (m *Memory) CreateLayer(name string) Layer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.layers[name]; ok {
		return l
	}
	l := &MemoryLayer{name: name}
	m.layers[name] = l
	return l
}

func (m *Memory) AddInteraction(i Interaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interactions = append(m.interactions, i)
}

func (m *Memory) RemoveInteraction(i Interaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for idx, cur := range m.interactions {
		if cur == i {
			m.interactions = append(m.interactions[:idx], m.interactions[idx+1:]...)
			return
		}
	}
}

// Interactions возвращает подключенные обработчики.
func (m *Memory) Interactions() []Interaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Interaction(nil), m.interactions...)
}

func (m *Memory) SetCursor(c models.Cursor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursor = c
}

func (m *Memory) Cursor() models.Cursor {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor
}

func (m *Memory) ZoomToExtent(b orb.Bound) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.extent = &b
}

// Extent - последний охват, к которому приблизили карту.
func (m *Memory) Extent() (orb.Bound, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.extent == nil {
		return orb.Bound{}, false
	}
	return *m.extent, true
}

func (m *Memory) RaiseAlert(a models.Alert) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, a)
}

// DrainAlerts отдает накопленные сообщения и очищает очередь.
func (m *Memory) DrainAlerts() []models.Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.alerts
	m.alerts = nil
	return out
}

func (m *Memory) PostMessage(name string, payload any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, Message{Name: name, Payload: payload})
}

func (m *Memory) DrainMessages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.messages
	m.messages = nil
	return out
}

// ============================================================
// Memory Layer
// ============================================================

type MemoryLayer struct {
	mu       sync.Mutex
	name     string
	features []*models.DrawnFeature
}

func (l *MemoryLayer) Name() string { return l.name }

func (l *MemoryLayer) Add(f *models.DrawnFeature) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.features = append(l.features, f)
}

func (l *MemoryLayer) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, f := range l.features {
		if f.ID == id {
			l.features = append(l.features[:i], l.features[i+1:]...)
			return true
		}
	}
	return false
}

func (l *MemoryLayer) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.features = nil
}

func (l *MemoryLayer) Features() []*models.DrawnFeature {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*models.DrawnFeature(nil), l.features...)
}
