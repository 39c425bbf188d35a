package style

import (
	"errors"
	"fmt"
	"io/fs"
	"log"

	"map-draw/internal/draw/models"

	"gopkg.in/ini.v1"
)

// ============================================================
// Style Defaults
// ============================================================

// LoadDefaults читает секцию [style] ini-файла поверх встроенных значений.
// Пустой путь или отсутствующий файл дают встроенные значения.
func LoadDefaults(path string) (models.StyleSettings, error) {
	def := models.DefaultStyleSettings()
	if path == "" {
		return def, nil
	}

	cfg, err := ini.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("[STYLE] %s not found, using built-in defaults", path)
			return def, nil
		}
		return def, fmt.Errorf("load style defaults: %w", err)
	}
	return fromSection(cfg.Section("style"), def)
}

func fromSection(sec *ini.Section, def models.StyleSettings) (models.StyleSettings, error) {
	s := def
	s.Font = sec.Key("font").MustString(def.Font)
	s.FontSize = sec.Key("font_size").MustInt(def.FontSize)
	s.Text = sec.Key("text").MustString(def.Text)
	s.PointRadius = sec.Key("point_radius").MustInt(def.PointRadius)
	s.StrokeWidth = sec.Key("stroke_width").MustInt(def.StrokeWidth)

	colors := []struct {
		key string
		dst *models.RGBA
	}{
		{"color", &s.Color},
		{"contour_color", &s.ColorContour},
		{"outer_contour_color", &s.OuterColorContour},
	}
	for _, c := range colors {
		if !sec.HasKey(c.key) {
			continue
		}
		v, err := models.ParseRGB(sec.Key(c.key).String())
		if err != nil {
			return def, fmt.Errorf("style.%s: %w", c.key, err)
		}
		*c.dst = v
	}

	if sec.HasKey("unit") {
		u, err := models.ParseUnit(sec.Key("unit").String())
		if err != nil {
			return def, fmt.Errorf("style.unit: %w", err)
		}
		s.Unit = u
	}
	if sec.HasKey("circle_method") {
		m, err := models.ParseCircleMethod(sec.Key("circle_method").String())
		if err != nil {
			return def, fmt.Errorf("style.circle_method: %w", err)
		}
		s.CircleMethod = m
	}
	if sec.HasKey("draw_type") {
		m, err := models.ParseDrawMode(sec.Key("draw_type").String())
		if err != nil {
			return def, fmt.Errorf("style.draw_type: %w", err)
		}
		s.Mode = m
	}
	if sec.HasKey("opacity") {
		s.SetOpacity(sec.Key("opacity").MustFloat64(def.Opacity))
	}
	return s, nil
}
