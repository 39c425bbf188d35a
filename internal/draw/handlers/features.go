package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"map-draw/internal/draw/models"

	"github.com/gofiber/fiber/v3"
	"github.com/paulmach/orb/geojson"
)

// ============================================================
// Style
// ============================================================

// styleRequest - частичное обновление стиля, пустые поля не трогаются.
type styleRequest struct {
	DrawType          *string      `json:"drawType"`
	Unit              *string      `json:"unit"`
	CircleMethod      *string      `json:"circleMethod"`
	Font              *string      `json:"font"`
	FontSize          *int         `json:"fontSize"`
	Text              *string      `json:"text"`
	Color             *models.RGBA `json:"color"`
	ColorContour      *models.RGBA `json:"colorContour"`
	OuterColorContour *models.RGBA `json:"outerColorContour"`
	PointRadius       *int         `json:"radius"`
	StrokeWidth       *int         `json:"strokeWidth"`
	CircleRadius      *float64     `json:"circleRadius"`
	CircleOuterRadius *float64     `json:"circleOuterRadius"`
	Opacity           *float64     `json:"opacity"`
}

// setters разбирает запрос в сеттеры. Единица применяется раньше радиусов,
// прозрачность последней.
func (r styleRequest) setters() ([]func(*models.StyleSettings), error) {
	var out []func(*models.StyleSettings)
	if r.DrawType != nil {
		m, err := models.ParseDrawMode(*r.DrawType)
		if err != nil {
			return nil, err
		}
		out = append(out, func(s *models.StyleSettings) { s.SetMode(m) })
	}
	if r.Unit != nil {
		u, err := models.ParseUnit(*r.Unit)
		if err != nil {
			return nil, err
		}
		out = append(out, func(s *models.StyleSettings) { s.SetUnit(u) })
	}
	if r.CircleMethod != nil {
		m, err := models.ParseCircleMethod(*r.CircleMethod)
		if err != nil {
			return nil, err
		}
		out = append(out, func(s *models.StyleSettings) { s.SetCircleMethod(m) })
	}
	if r.Font != nil {
		out = append(out, func(s *models.StyleSettings) { s.SetFont(*r.Font) })
	}
	if r.FontSize != nil {
		out = append(out, func(s *models.StyleSettings) { s.SetFontSize(*r.FontSize) })
	}
	if r.Text != nil {
		out = append(out, func(s *models.StyleSettings) { s.SetText(*r.Text) })
	}
	if r.Color != nil {
		out = append(out, func(s *models.StyleSettings) { s.SetColor(*r.Color) })
	}
	if r.ColorContour != nil {
		out = append(out, func(s *models.StyleSettings) { s.SetColorContour(*r.ColorContour) })
	}
	if r.OuterColorContour != nil {
		out = append(out, func(s *models.StyleSettings) { s.SetOuterColorContour(*r.OuterColorContour) })
	}
	if r.PointRadius != nil {
		out = append(out, func(s *models.StyleSettings) { s.SetPointRadius(*r.PointRadius) })
	}
	if r.StrokeWidth != nil {
		out = append(out, func(s *models.StyleSettings) { s.SetStrokeWidth(*r.StrokeWidth) })
	}
	if r.CircleRadius != nil {
		out = append(out, func(s *models.StyleSettings) { s.SetCircleRadius(*r.CircleRadius) })
	}
	if r.CircleOuterRadius != nil {
		out = append(out, func(s *models.StyleSettings) { s.SetCircleOuterRadius(*r.CircleOuterRadius) })
	}
	if r.Opacity != nil {
		if *r.Opacity < 0 || *r.Opacity > 1 {
			return nil, fmt.Errorf("opacity %v out of range", *r.Opacity)
		}
		out = append(out, func(s *models.StyleSettings) { s.SetOpacity(*r.Opacity) })
	}
	return out, nil
}

func (h *DrawHandler) UpdateStyle(c fiber.Ctx) error {
	e, ok := h.sessions.Resolve(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}
	var req styleRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	setters, err := req.setters()
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	e.Lock()
	defer e.Unlock()
	s := e.Controller.Session()
	s.UpdateStyle(func(st *models.StyleSettings) {
		for _, set := range setters {
			set(st)
		}
	})
	return c.JSON(s.Settings())
}

// ============================================================
// Gestures
// ============================================================

type gestureRequest struct {
	Geometry json.RawMessage `json:"geometry,omitempty"`
	Circle   *models.Circle  `json:"circle,omitempty"`
}

func (r gestureRequest) gesture() (models.Gesture, error) {
	if r.Circle != nil {
		c := *r.Circle
		return models.Gesture{Kind: models.KindCircle, Circle: &c}, nil
	}
	if len(r.Geometry) == 0 {
		return models.Gesture{}, errors.New("geometry or circle required")
	}
	g, err := geojson.UnmarshalGeometry(r.Geometry)
	if err != nil {
		return models.Gesture{}, fmt.Errorf("geometry: %w", err)
	}
	kind, err := models.KindOf(g.Geometry())
	if err != nil {
		return models.Gesture{}, err
	}
	return models.Gesture{Kind: kind, Geometry: g.Geometry()}, nil
}

func parseGesture(c fiber.Ctx) (models.Gesture, error) {
	var req gestureRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return models.Gesture{}, errors.New("invalid json")
	}
	return req.gesture()
}

// CompleteGesture принимает завершенный жест рисования целиком.
func (h *DrawHandler) CompleteGesture(c fiber.Ctx) error {
	e, ok := h.sessions.Resolve(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}
	g, err := parseGesture(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	e.Lock()
	defer e.Unlock()
	s := e.Controller.Session()
	if err := s.BeginGesture(); err != nil {
		return fail(c, e, err)
	}
	committed, err := s.CompleteGesture(g)
	if err != nil {
		return fail(c, e, err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"features": views(committed),
		"alerts":   drain(e),
	})
}

// ============================================================
// Features
// ============================================================

func (h *DrawHandler) ListFeatures(c fiber.Ctx) error {
	e, ok := h.sessions.Resolve(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}
	e.Lock()
	defer e.Unlock()

	resp := fiber.Map{"features": views(e.Controller.Session().Features())}
	if b, ok := e.Controller.Extent(); ok {
		resp["bbox"] = []float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]}
	}
	return c.JSON(resp)
}

func (h *DrawHandler) ModifyFeature(c fiber.Ctx) error {
	e, ok := h.sessions.Resolve(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}
	g, err := parseGesture(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	e.Lock()
	defer e.Unlock()
	s := e.Controller.Session()
	if err := s.ModifyFeature(c.Params("fid"), g); err != nil {
		return fail(c, e, err)
	}
	f, _ := s.Feature(c.Params("fid"))
	return c.JSON(views([]*models.DrawnFeature{f})[0])
}

func (h *DrawHandler) DeleteFeature(c fiber.Ctx) error {
	e, ok := h.sessions.Resolve(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}
	e.Lock()
	defer e.Unlock()
	if err := e.Controller.Session().DeleteFeature(c.Params("fid")); err != nil {
		return fail(c, e, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *DrawHandler) RestyleFeature(c fiber.Ctx) error {
	e, ok := h.sessions.Resolve(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}
	e.Lock()
	defer e.Unlock()
	s := e.Controller.Session()
	if err := s.Restyle(c.Params("fid")); err != nil {
		return fail(c, e, err)
	}
	f, _ := s.Feature(c.Params("fid"))
	return c.JSON(views([]*models.DrawnFeature{f})[0])
}

func (h *DrawHandler) DeleteAllFeatures(c fiber.Ctx) error {
	e, ok := h.sessions.Resolve(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}
	e.Lock()
	defer e.Unlock()
	e.Controller.DeleteAllFeatures()
	return c.SendStatus(http.StatusNoContent)
}

func (h *DrawHandler) Undo(c fiber.Ctx) error {
	e, ok := h.sessions.Resolve(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}
	e.Lock()
	defer e.Unlock()
	s := e.Controller.Session()
	undone := s.Undo()
	return c.JSON(fiber.Map{"undone": undone, "features": views(s.Features())})
}
