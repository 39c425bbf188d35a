package models

// ============================================================
// Resolved Styles
// ============================================================

type Fill struct {
	Color RGBA `json:"color"`
}

type Stroke struct {
	Color RGBA    `json:"color"`
	Width float64 `json:"width"`
}

// Marker - круглый маркер точки или вершины.
type Marker struct {
	Radius float64 `json:"radius"`
	Fill   Fill    `json:"fill"`
	Stroke Stroke  `json:"stroke"`
}

type Label struct {
	Text  string `json:"text"`
	Font  string `json:"font"`
	Align string `json:"align"`
	Fill  Fill   `json:"fill"`
}

// Style - готовое описание отрисовки объекта.
type Style struct {
	Fill   *Fill   `json:"fill,omitempty"`
	Stroke *Stroke `json:"stroke,omitempty"`
	Marker *Marker `json:"marker,omitempty"`
	Label  *Label  `json:"label,omitempty"`
	ZIndex int     `json:"zIndex"`
}
