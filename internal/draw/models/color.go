package models

import (
	"encoding/json"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// RGBA - цвет в формате [r, g, b, a]: каналы 0..255, альфа 0..1.
type RGBA [4]float64

// DefaultColor - цвет заливки и контура по умолчанию.
var DefaultColor = RGBA{55, 126, 184, 1}

func (c RGBA) WithAlpha(a float64) RGBA {
	c[3] = a
	return c
}

func (c RGBA) String() string {
	return fmt.Sprintf("rgba(%s,%s,%s,%s)", fnum(c[0]), fnum(c[1]), fnum(c[2]), fnum(c[3]))
}

// NRGBA переводит цвет в image/color для растеризации.
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: channel(c[0]),
		G: channel(c[1]),
		B: channel(c[2]),
		A: channel(c[3] * 255),
	}
}

// UnmarshalJSON принимает как RGB, так и RGBA массив. Без альфы берется 1.
func (c *RGBA) UnmarshalJSON(b []byte) error {
	var values []float64
	if err := json.Unmarshal(b, &values); err != nil {
		return fmt.Errorf("color: %w", err)
	}
	parsed, err := colorFrom(values)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseRGB разбирает строку вида "55, 126, 184" или "55,126,184,0.5".
func ParseRGB(s string) (RGBA, error) {
	parts := strings.Split(s, ",")
	values := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return RGBA{}, fmt.Errorf("color %q: %w", s, err)
		}
		values = append(values, v)
	}
	return colorFrom(values)
}

func colorFrom(values []float64) (RGBA, error) {
	switch len(values) {
	case 3:
		return RGBA{values[0], values[1], values[2], 1}, nil
	case 4:
		return RGBA{values[0], values[1], values[2], values[3]}, nil
	}
	return RGBA{}, fmt.Errorf("color needs 3 or 4 channels, got %d", len(values))
}

func channel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}

func fnum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
