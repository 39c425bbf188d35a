package models

import "fmt"

// ============================================================
// Geometry Kinds
// ============================================================

// GeometryKind - тип геометрии нарисованного объекта.
type GeometryKind int

const (
	KindPoint GeometryKind = iota
	KindLineString
	KindPolygon
	KindCircle
	KindMultiPoint
	KindMultiLineString
	KindMultiPolygon
)

var kindNames = map[GeometryKind]string{
	KindPoint:           "Point",
	KindLineString:      "LineString",
	KindPolygon:         "Polygon",
	KindCircle:          "Circle",
	KindMultiPoint:      "MultiPoint",
	KindMultiLineString: "MultiLineString",
	KindMultiPolygon:    "MultiPolygon",
}

func (k GeometryKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("GeometryKind(%d)", int(k))
}

// IsMulti сообщает, является ли геометрия составной.
func (k GeometryKind) IsMulti() bool {
	return k == KindMultiPoint || k == KindMultiLineString || k == KindMultiPolygon
}

func ParseGeometryKind(s string) (GeometryKind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown geometry kind %q", s)
}

// ============================================================
// Draw Modes
// ============================================================

// DrawMode - выбранный в инструменте тип рисования.
type DrawMode int

const (
	DrawPoint DrawMode = iota
	DrawLine
	DrawArea
	DrawCircle
	DrawDoubleCircle
	DrawText
)

var modeNames = map[DrawMode]string{
	DrawPoint:        "Point",
	DrawLine:         "LineString",
	DrawArea:         "Polygon",
	DrawCircle:       "Circle",
	DrawDoubleCircle: "DoubleCircle",
	DrawText:         "Text",
}

func (m DrawMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("DrawMode(%d)", int(m))
}

// Geometry возвращает тип геометрии, который порождает жест в этом режиме.
// Текст ставится точкой, двойной круг рисуется как круг.
func (m DrawMode) Geometry() GeometryKind {
	switch m {
	case DrawLine:
		return KindLineString
	case DrawArea:
		return KindPolygon
	case DrawCircle, DrawDoubleCircle:
		return KindCircle
	default:
		return KindPoint
	}
}

func (m DrawMode) DoubleCircle() bool { return m == DrawDoubleCircle }

func (m DrawMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *DrawMode) UnmarshalText(b []byte) error {
	v, err := ParseDrawMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func ParseDrawMode(s string) (DrawMode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown draw mode %q", s)
}

// ModeForKind подбирает режим рисования для загруженной геометрии.
func ModeForKind(k GeometryKind) DrawMode {
	switch k {
	case KindLineString, KindMultiLineString:
		return DrawLine
	case KindPolygon, KindMultiPolygon:
		return DrawArea
	case KindCircle:
		return DrawCircle
	default:
		return DrawPoint
	}
}

// ============================================================
// Interaction Modes
// ============================================================

type InteractionMode int

const (
	ModeIdle InteractionMode = iota
	ModeDraw
	ModeModify
	ModeSelect
)

var interactionNames = map[InteractionMode]string{
	ModeIdle:   "idle",
	ModeDraw:   "draw",
	ModeModify: "modify",
	ModeSelect: "select",
}

func (m InteractionMode) String() string {
	if name, ok := interactionNames[m]; ok {
		return name
	}
	return fmt.Sprintf("InteractionMode(%d)", int(m))
}

func (m InteractionMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func ParseInteractionMode(s string) (InteractionMode, error) {
	for m, name := range interactionNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown interaction mode %q", s)
}

// Cursor - курсор, который поверхность карты показывает в текущем режиме.
type Cursor string

const (
	CursorPencil    Cursor = "pencil"
	CursorCrosshair Cursor = "crosshair"
	CursorWrench    Cursor = "wrench"
)

// CursorFor возвращает курсор режима взаимодействия.
func CursorFor(m InteractionMode) Cursor {
	switch m {
	case ModeDraw, ModeSelect:
		return CursorCrosshair
	case ModeModify:
		return CursorWrench
	default:
		return CursorPencil
	}
}

// ============================================================
// Circle Options
// ============================================================

// CircleMethod - способ задания круга: жестом или вводом радиуса.
type CircleMethod string

const (
	CircleInteractive CircleMethod = "interactive"
	CircleDefined     CircleMethod = "defined"
)

func ParseCircleMethod(s string) (CircleMethod, error) {
	switch CircleMethod(s) {
	case CircleInteractive, CircleDefined:
		return CircleMethod(s), nil
	}
	return "", fmt.Errorf("unknown circle method %q", s)
}

type Unit string

const (
	UnitMeters     Unit = "m"
	UnitKilometers Unit = "km"
)

func ParseUnit(s string) (Unit, error) {
	switch Unit(s) {
	case UnitMeters, UnitKilometers:
		return Unit(s), nil
	}
	return "", fmt.Errorf("unknown unit %q", s)
}

// Meters переводит значение в этой единице в метры.
func (u Unit) Meters(v float64) float64 {
	if u == UnitKilometers {
		return v * 1000
	}
	return v
}
