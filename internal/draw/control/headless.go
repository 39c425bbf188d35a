package control

import (
	"errors"
	"fmt"
	"log"

	"map-draw/internal/draw/export"
	"map-draw/internal/draw/models"
	"map-draw/internal/draw/session"
	"map-draw/internal/draw/surface"

	"github.com/paulmach/orb"
)

// ============================================================
// Headless Control Surface
// ============================================================

var (
	ErrUnsupportedDrawType = errors.New("unsupported draw type")
	ErrInvalidOpacity      = errors.New("opacity must be within 0..1")
)

// Сообщения для встраивающего приложения.
const (
	MessageInit     = "initDrawTool"
	MessageDownload = "downloadViaRemoteInterface"
)

// InitConfig - параметры запуска инструмента без интерфейса.
type InitConfig struct {
	DrawType        string       `json:"drawType"`
	Color           *models.RGBA `json:"color,omitempty"`
	Opacity         *float64     `json:"opacity,omitempty"`
	MaxFeatures     int          `json:"maxFeatures,omitempty"`
	InitialDocument string       `json:"initialDocument,omitempty"`
	ReprojectOnLoad bool         `json:"reprojectOnLoad"`
	ZoomToExtent    bool         `json:"zoomToLoadedExtent"`
}

// Controller управляет сессией рисования командами встраивающего приложения.
type Controller struct {
	surface    surface.Surface
	projector  export.Projector
	session    *session.Session
	serializer *export.Serializer
	open       bool
}

func New(s surface.Surface, p export.Projector, defaults models.StyleSettings) *Controller {
	return &Controller{
		surface:    s,
		projector:  p,
		session:    session.New(s, defaults),
		serializer: export.NewSerializer(p, s.WorkingCRS()),
	}
}

func (c *Controller) Session() *session.Session { return c.session }

// Open сообщает, запущен ли инструмент.
func (c *Controller) Open() bool { return c.open }

// InitWithoutUI настраивает стиль, создает слой и включает рисование.
// Битый документ для предзагрузки только поднимает сообщение.
func (c *Controller) InitWithoutUI(cfg InitConfig) error {
	mode, err := drawMode(cfg.DrawType)
	if err != nil {
		return err
	}
	if o := cfg.Opacity; o != nil && !(*o >= 0 && *o <= 1) {
		return fmt.Errorf("%w: %v", ErrInvalidOpacity, *o)
	}

	c.session.EnsureLayer()
	c.session.UpdateStyle(func(st *models.StyleSettings) {
		st.SetMode(mode)
		if cfg.Color != nil {
			st.SetColor(cfg.Color.WithAlpha(st.Opacity))
		}
		if cfg.Opacity != nil {
			st.SetOpacity(*cfg.Opacity)
		}
	})
	c.session.SetMaxFeatures(cfg.MaxFeatures)
	if err := c.session.Activate(models.ModeDraw); err != nil {
		return fmt.Errorf("activate draw: %w", err)
	}
	c.open = true

	if cfg.InitialDocument != "" {
		c.preload(cfg)
	}
	c.surface.PostMessage(MessageInit, mode.String())
	return nil
}

func (c *Controller) preload(cfg InitConfig) {
	geoms, err := export.Decode([]byte(cfg.InitialDocument), c.projector, c.surface.WorkingCRS(), cfg.ReprojectOnLoad)
	if err != nil {
		log.Printf("[DRAW] preload skipped: %v", err)
		c.surface.RaiseAlert(models.MalformedDocumentAlert())
		return
	}
	added, err := c.session.Preload(geoms)
	if err != nil {
		log.Printf("[DRAW] preload skipped: %v", err)
		c.surface.RaiseAlert(models.MalformedDocumentAlert())
		return
	}
	log.Printf("[DRAW] preloaded %d features", len(added))

	if !cfg.ZoomToExtent || len(added) == 0 {
		return
	}
	b := added[0].Bound()
	for _, f := range added[1:] {
		b = b.Union(f.Bound())
	}
	c.surface.ZoomToExtent(b)
}

// EditWithoutUI выключает рисование и включает правку.
func (c *Controller) EditWithoutUI() error {
	return c.session.Activate(models.ModeModify)
}

// CancelWithoutUI закрывает инструмент и сбрасывает сессию.
func (c *Controller) CancelWithoutUI() {
	if err := c.session.Activate(models.ModeIdle); err != nil {
		log.Printf("[DRAW] cancel: %v", err)
	}
	c.session.Reset()
	c.open = false
}

// DownloadWithoutUI возвращает выгрузку и дублирует ее сообщением.
func (c *Controller) DownloadWithoutUI(opts export.Options) (string, error) {
	data, err := c.serializer.Export(c.session.Features(), opts)
	if err != nil {
		return "", err
	}
	doc := string(data)
	c.surface.PostMessage(MessageDownload, doc)
	return doc, nil
}

func (c *Controller) DeleteAllFeatures() {
	c.session.DeleteAll()
}

// Extent - охват всех объектов сессии.
func (c *Controller) Extent() (orb.Bound, bool) {
	return c.session.Extent()
}

func drawMode(s string) (models.DrawMode, error) {
	if s == "" {
		return models.DrawPoint, nil
	}
	m, err := models.ParseDrawMode(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedDrawType, s)
	}
	switch m {
	case models.DrawPoint, models.DrawLine, models.DrawArea, models.DrawCircle:
		return m, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedDrawType, s)
}
