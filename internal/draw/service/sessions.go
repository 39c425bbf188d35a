package service

import (
	"sync"
	"time"

	"map-draw/internal/draw/control"
	"map-draw/internal/draw/models"
	"map-draw/internal/draw/projection"
	"map-draw/internal/draw/surface"

	"github.com/google/uuid"
)

// ============================================================
// Session Manager
// ============================================================

// Entry - одна удаленная сессия рисования со своей поверхностью.
// Команды к сессии выполняются под ее мьютексом.
type Entry struct {
	mu         sync.Mutex
	ID         string
	Controller *control.Controller
	Surface    *surface.Memory
	CreatedAt  time.Time
}

func (e *Entry) Lock()   { e.mu.Lock() }
func (e *Entry) Unlock() { e.mu.Unlock() }

type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Entry
	registry *projection.Registry
	crs      string
	defaults models.StyleSettings
}

func NewSessionManager(reg *projection.Registry, workingCRS string, defaults models.StyleSettings) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Entry),
		registry: reg,
		crs:      workingCRS,
		defaults: defaults,
	}
}

// Open создает сессию с новой поверхностью в рабочей проекции.
func (m *SessionManager) Open() *Entry {
	srf := surface.NewMemory(m.registry, m.crs)
	e := &Entry{
		ID:         uuid.NewString(),
		Controller: control.New(srf, m.registry, m.defaults),
		Surface:    srf,
		CreatedAt:  time.Now().UTC(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[e.ID] = e
	return e
}

func (m *SessionManager) Resolve(id string) (*Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	return e, ok
}

// Close отменяет инструмент и забывает сессию.
func (m *SessionManager) Close(id string) bool {
	m.mu.Lock()
	e, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return false
	}

	e.Lock()
	defer e.Unlock()
	e.Controller.CancelWithoutUI()
	return true
}

// Discard забывает сессию без отмены инструмента.
func (m *SessionManager) Discard(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
