package models

import "math"

// ============================================================
// Style Settings
// ============================================================

// DefaultText - подсказка для текстовой надписи до ввода текста.
const DefaultText = "Click on the map to place the text"

// StyleSettings - текущее состояние стиля инструмента.
// Значение копируется целиком, поэтому копия служит снимком для объекта.
type StyleSettings struct {
	Font              string       `json:"font"`
	FontSize          int          `json:"fontSize"`
	Text              string       `json:"text"`
	Color             RGBA         `json:"color"`
	ColorContour      RGBA         `json:"colorContour"`
	OuterColorContour RGBA         `json:"outerColorContour"`
	PointRadius       int          `json:"radius"`
	StrokeWidth       int          `json:"strokeWidth"`
	Opacity           float64      `json:"opacity"`
	CircleRadius      float64      `json:"circleRadius"`
	CircleOuterRadius float64      `json:"circleOuterRadius"`
	Unit              Unit         `json:"unit"`
	CircleMethod      CircleMethod `json:"circleMethod"`
	Mode              DrawMode     `json:"drawType"`
}

func DefaultStyleSettings() StyleSettings {
	return StyleSettings{
		Font:              "Arial",
		FontSize:          10,
		Text:              DefaultText,
		Color:             DefaultColor,
		ColorContour:      DefaultColor,
		OuterColorContour: DefaultColor,
		PointRadius:       6,
		StrokeWidth:       1,
		Opacity:           1,
		Unit:              UnitMeters,
		CircleMethod:      CircleInteractive,
		Mode:              DrawPoint,
	}
}

// SetOpacity меняет прозрачность и альфа-канал заливки и контуров.
func (s *StyleSettings) SetOpacity(o float64) {
	s.Opacity = o
	s.Color[3] = o
	s.ColorContour[3] = o
	s.OuterColorContour[3] = o
}

func (s *StyleSettings) SetColor(c RGBA)             { s.Color = c }
func (s *StyleSettings) SetColorContour(c RGBA)      { s.ColorContour = c }
func (s *StyleSettings) SetOuterColorContour(c RGBA) { s.OuterColorContour = c }
func (s *StyleSettings) SetPointRadius(r int)        { s.PointRadius = r }
func (s *StyleSettings) SetStrokeWidth(w int)        { s.StrokeWidth = w }
func (s *StyleSettings) SetFont(f string)            { s.Font = f }
func (s *StyleSettings) SetFontSize(size int)        { s.FontSize = size }
func (s *StyleSettings) SetText(t string)            { s.Text = t }
func (s *StyleSettings) SetMode(m DrawMode)          { s.Mode = m }
func (s *StyleSettings) SetCircleMethod(m CircleMethod) {
	s.CircleMethod = m
}

// SetUnit меняет единицу ввода радиуса. Уже сохраненные радиусы в метрах не пересчитываются.
func (s *StyleSettings) SetUnit(u Unit) { s.Unit = u }

// SetCircleRadius принимает значение в текущей единице и хранит метры.
func (s *StyleSettings) SetCircleRadius(v float64) {
	s.CircleRadius = s.Unit.Meters(v)
}

func (s *StyleSettings) SetCircleOuterRadius(v float64) {
	s.CircleOuterRadius = s.Unit.Meters(v)
}

// ValidRadius - радиус должен быть конечным и строго положительным.
func ValidRadius(r float64) bool {
	return !math.IsNaN(r) && !math.IsInf(r, 0) && r > 0
}
