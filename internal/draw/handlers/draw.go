package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"map-draw/internal/draw/control"
	"map-draw/internal/draw/export"
	"map-draw/internal/draw/models"
	"map-draw/internal/draw/repository"
	"map-draw/internal/draw/service"
	"map-draw/internal/draw/session"

	"github.com/gofiber/fiber/v3"
	"github.com/paulmach/orb/geojson"
)

// ============================================================
// Draw Handler
// ============================================================

// SnapshotStore хранит выгрузки сессий.
type SnapshotStore interface {
	Save(ctx context.Context, s *models.Snapshot) error
	GetByID(ctx context.Context, id string) (*models.Snapshot, error)
	ListBySession(ctx context.Context, sessionID string) ([]models.Snapshot, error)
}

// Previewer рисует объекты в PNG.
type Previewer interface {
	EncodePNG(w io.Writer, features []*models.DrawnFeature) error
}

type DrawHandler struct {
	sessions *service.SessionManager
	store    SnapshotStore
	preview  Previewer
}

func NewDrawHandler(sessions *service.SessionManager, store SnapshotStore, preview Previewer) *DrawHandler {
	return &DrawHandler{
		sessions: sessions,
		store:    store,
		preview:  preview,
	}
}

type createSessionRequest struct {
	control.InitConfig
	SnapshotID string `json:"snapshotId,omitempty"`
}

type sessionResponse struct {
	ID       string                 `json:"id"`
	Mode     models.InteractionMode `json:"mode"`
	Settings models.StyleSettings   `json:"settings"`
	Sketch   *models.Style          `json:"sketch,omitempty"`
	Features []featureView          `json:"features"`
	Alerts   []models.Alert         `json:"alerts"`
}

// CreateSession открывает сессию и запускает инструмент без интерфейса.
func (h *DrawHandler) CreateSession(c fiber.Ctx) error {
	var req createSessionRequest
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
		}
	}

	if req.SnapshotID != "" {
		snap, err := h.store.GetByID(c.Context(), req.SnapshotID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "snapshot not found"})
			}
			log.Printf("[DRAW] load snapshot %s: %v", req.SnapshotID, err)
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load snapshot"})
		}
		req.InitialDocument = snap.Document
		req.ReprojectOnLoad = snap.TransformWGS
	}

	e := h.sessions.Open()
	e.Lock()
	defer e.Unlock()

	if err := e.Controller.InitWithoutUI(req.InitConfig); err != nil {
		h.sessions.Discard(e.ID)
		return fail(c, e, err)
	}
	log.Printf("[DRAW] session %s opened (%s)", e.ID, e.Controller.Session().Settings().Mode)
	return c.Status(http.StatusCreated).JSON(h.describe(e))
}

func (h *DrawHandler) GetSession(c fiber.Ctx) error {
	e, ok := h.sessions.Resolve(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}
	e.Lock()
	defer e.Unlock()
	return c.JSON(h.describe(e))
}

func (h *DrawHandler) CloseSession(c fiber.Ctx) error {
	if !h.sessions.Close(c.Params("id")) {
		return sessionNotFound(c)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *DrawHandler) describe(e *service.Entry) sessionResponse {
	s := e.Controller.Session()
	resp := sessionResponse{
		ID:       e.ID,
		Mode:     s.Mode(),
		Settings: s.Settings(),
		Features: views(s.Features()),
		Alerts:   drain(e),
	}
	if sketch, ok := s.Sketch(); ok {
		resp.Sketch = &sketch
	}
	return resp
}

// ============================================================
// Modes
// ============================================================

type modeRequest struct {
	Mode string `json:"mode"`
}

func (h *DrawHandler) SetMode(c fiber.Ctx) error {
	e, ok := h.sessions.Resolve(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}
	var req modeRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	mode, err := models.ParseInteractionMode(req.Mode)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	e.Lock()
	defer e.Unlock()
	if err := e.Controller.Session().Activate(mode); err != nil {
		return fail(c, e, err)
	}
	return c.JSON(fiber.Map{"mode": mode, "cursor": e.Surface.Cursor()})
}

func (h *DrawHandler) Edit(c fiber.Ctx) error {
	e, ok := h.sessions.Resolve(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}
	e.Lock()
	defer e.Unlock()
	if err := e.Controller.EditWithoutUI(); err != nil {
		return fail(c, e, err)
	}
	return c.JSON(fiber.Map{"mode": e.Controller.Session().Mode()})
}

func (h *DrawHandler) Cancel(c fiber.Ctx) error {
	e, ok := h.sessions.Resolve(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}
	e.Lock()
	defer e.Unlock()
	e.Controller.CancelWithoutUI()
	return c.JSON(fiber.Map{"mode": e.Controller.Session().Mode(), "open": e.Controller.Open()})
}

// ============================================================
// Alerts & Messages
// ============================================================

func (h *DrawHandler) Alerts(c fiber.Ctx) error {
	e, ok := h.sessions.Resolve(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}
	e.Lock()
	defer e.Unlock()
	return c.JSON(fiber.Map{
		"alerts":   drain(e),
		"messages": e.Surface.DrainMessages(),
	})
}

// ============================================================
// Helpers
// ============================================================

func sessionNotFound(c fiber.Ctx) error {
	return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
}

func drain(e *service.Entry) []models.Alert {
	alerts := e.Surface.DrainAlerts()
	if alerts == nil {
		return []models.Alert{}
	}
	return alerts
}

// fail отвечает ошибкой и отдает поднятые сессией сообщения.
func fail(c fiber.Ctx, e *service.Entry, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[DRAW] session %s: %v", e.ID, err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error":  err.Error(),
		"alerts": drain(e),
	})
}

func statusFor(err error) int {
	var radiusErr *session.RadiusError
	switch {
	case errors.As(err, &radiusErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrFeatureNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrFeatureLimit),
		errors.Is(err, session.ErrWrongMode),
		errors.Is(err, session.ErrNoLayer),
		errors.Is(err, session.ErrNoGesture):
		return http.StatusConflict
	case errors.Is(err, session.ErrGeometryMismatch),
		errors.Is(err, session.ErrDegenerateGeometry),
		errors.Is(err, control.ErrUnsupportedDrawType),
		errors.Is(err, control.ErrInvalidOpacity),
		errors.Is(err, export.ErrMalformedDocument):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

type featureView struct {
	ID            string            `json:"id"`
	Kind          string            `json:"kind"`
	DrawType      models.DrawMode   `json:"drawType"`
	Geometry      *geojson.Geometry `json:"geometry,omitempty"`
	Circle        *models.Circle    `json:"circle,omitempty"`
	Text          string            `json:"text,omitempty"`
	ZIndex        int               `json:"zIndex"`
	IsOuterCircle bool              `json:"isOuterCircle,omitempty"`
	Style         models.Style      `json:"style"`
}

func views(features []*models.DrawnFeature) []featureView {
	out := make([]featureView, 0, len(features))
	for _, f := range features {
		v := featureView{
			ID:            f.ID,
			Kind:          f.Kind.String(),
			DrawType:      f.Mode,
			Circle:        f.Circle,
			Text:          f.Text,
			ZIndex:        f.ZIndex,
			IsOuterCircle: f.IsOuterCircle,
			Style:         f.Appearance,
		}
		if f.Geometry != nil {
			v.Geometry = geojson.NewGeometry(f.Geometry)
		}
		out = append(out, v)
	}
	return out
}
