package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"map-draw/internal/draw/export"
	"map-draw/internal/draw/models"
	"map-draw/internal/draw/repository"

	"github.com/dustin/go-humanize"
	"github.com/gofiber/fiber/v3"
	"github.com/tidwall/pretty"
)

// ============================================================
// Download
// ============================================================

const geoJSONContentType = "application/geo+json"

// Download отдает FeatureCollection сессии.
// Параметры: geomType, transformWGS, pretty.
func (h *DrawHandler) Download(c fiber.Ctx) error {
	e, ok := h.sessions.Resolve(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}
	opts, err := exportOptions(c.Query("geomType"), c.Query("transformWGS"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	indent, err := parseBool(c.Query("pretty"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid pretty flag"})
	}

	e.Lock()
	doc, err := e.Controller.DownloadWithoutUI(opts)
	e.Unlock()
	if err != nil {
		log.Printf("[EXPORT] session %s: %v", e.ID, err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "export failed"})
	}

	body := []byte(doc)
	if indent {
		body = pretty.Pretty(body)
	}
	c.Set("Content-Type", geoJSONContentType)
	return c.Send(body)
}

func exportOptions(geomType, transform string) (export.Options, error) {
	gt, err := export.ParseGeomType(geomType)
	if err != nil {
		return export.Options{}, err
	}
	wgs, err := parseBool(transform)
	if err != nil {
		return export.Options{}, errors.New("invalid transformWGS flag")
	}
	return export.Options{GeomType: gt, TransformWGS: wgs}, nil
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

// ============================================================
// Preview
// ============================================================

func (h *DrawHandler) Preview(c fiber.Ctx) error {
	e, ok := h.sessions.Resolve(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}
	e.Lock()
	features := e.Controller.Session().Features()
	for i, f := range features {
		features[i] = f.Clone()
	}
	e.Unlock()

	var buf bytes.Buffer
	if err := h.preview.EncodePNG(&buf, features); err != nil {
		log.Printf("[PREVIEW] session %s: %v", e.ID, err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "render failed"})
	}
	log.Printf("[PREVIEW] session %s: %d features, %s", e.ID, len(features), humanize.Bytes(uint64(buf.Len())))

	c.Set("Content-Type", "image/png")
	return c.Send(buf.Bytes())
}

// ============================================================
// Snapshots
// ============================================================

type snapshotRequest struct {
	GeomType     string `json:"geomType"`
	TransformWGS bool   `json:"transformWGS"`
}

// CreateSnapshot сохраняет текущую выгрузку сессии.
func (h *DrawHandler) CreateSnapshot(c fiber.Ctx) error {
	e, ok := h.sessions.Resolve(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}
	var req snapshotRequest
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
		}
	}
	gt, err := export.ParseGeomType(req.GeomType)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	opts := export.Options{GeomType: gt, TransformWGS: req.TransformWGS}

	e.Lock()
	count := len(e.Controller.Session().Features())
	doc, err := e.Controller.DownloadWithoutUI(opts)
	e.Unlock()
	if err != nil {
		log.Printf("[SNAPSHOT] export session %s: %v", e.ID, err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "export failed"})
	}

	snap := &models.Snapshot{
		SessionID:    e.ID,
		GeomType:     string(gt),
		TransformWGS: req.TransformWGS,
		FeatureCount: count,
		Document:     doc,
	}
	if err := h.store.Save(c.Context(), snap); err != nil {
		log.Printf("[SNAPSHOT] save session %s: %v", e.ID, err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save snapshot"})
	}
	log.Printf("[SNAPSHOT] %s saved for session %s (%s)", snap.ID, e.ID, humanize.Bytes(uint64(len(doc))))
	return c.Status(http.StatusCreated).JSON(snap)
}

func (h *DrawHandler) ListSnapshots(c fiber.Ctx) error {
	id := c.Params("id")
	if _, ok := h.sessions.Resolve(id); !ok {
		return sessionNotFound(c)
	}
	list, err := h.store.ListBySession(c.Context(), id)
	if err != nil {
		log.Printf("[SNAPSHOT] list session %s: %v", id, err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list snapshots"})
	}
	if list == nil {
		list = []models.Snapshot{}
	}
	return c.JSON(fiber.Map{"snapshots": list})
}

func (h *DrawHandler) GetSnapshot(c fiber.Ctx) error {
	snap, err := h.store.GetByID(c.Context(), c.Params("sid"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "snapshot not found"})
		}
		log.Printf("[SNAPSHOT] get %s: %v", c.Params("sid"), err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load snapshot"})
	}
	return c.JSON(snap)
}
