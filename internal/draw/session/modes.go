package session

import (
	"fmt"
	"log"

	"map-draw/internal/draw/models"
	"map-draw/internal/draw/surface"
)

// ============================================================
// Interaction Mode Controller
// ============================================================

type interaction struct {
	mode   models.InteractionMode
	active bool
}

func (i *interaction) Mode() models.InteractionMode { return i.mode }
func (i *interaction) Active() bool                 { return i.active }

// ModeController держит активным не более одного обработчика жестов.
type ModeController struct {
	surface  surface.Surface
	handlers map[models.InteractionMode]*interaction
	active   models.InteractionMode
}

func newModeController(s surface.Surface) *ModeController {
	return &ModeController{surface: s, active: models.ModeIdle}
}

func (c *ModeController) attached() bool { return c.handlers != nil }

// attach создает неактивные обработчики рисования, правки и выбора.
// К карте подключается только обработчик активного режима.
func (c *ModeController) attach() {
	if c.attached() {
		return
	}
	c.handlers = make(map[models.InteractionMode]*interaction, 3)
	for _, mode := range []models.InteractionMode{models.ModeDraw, models.ModeModify, models.ModeSelect} {
		c.handlers[mode] = &interaction{mode: mode}
	}
}

func (c *ModeController) Active() models.InteractionMode { return c.active }

// Activate сначала отключает текущий режим, затем подключает новый.
// Повторная активация того же режима только обновляет курсор.
func (c *ModeController) Activate(mode models.InteractionMode) error {
	if mode == models.ModeIdle {
		c.deactivate()
		return nil
	}
	if !c.attached() {
		log.Printf("[DRAW] activate %s requested before layer creation", mode)
		return ErrNoLayer
	}
	h, ok := c.handlers[mode]
	if !ok {
		return fmt.Errorf("unknown interaction mode %s", mode)
	}
	if mode == c.active {
		c.surface.SetCursor(models.CursorFor(mode))
		return nil
	}

	c.deactivate()
	h.active = true
	c.active = mode
	c.surface.AddInteraction(h)
	c.surface.SetCursor(models.CursorFor(mode))
	return nil
}

func (c *ModeController) deactivate() {
	if h, ok := c.handlers[c.active]; ok && h.active {
		h.active = false
		c.surface.RemoveInteraction(h)
	}
	c.active = models.ModeIdle
	c.surface.SetCursor(models.CursorPencil)
}
