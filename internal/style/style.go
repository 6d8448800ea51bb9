package style

import (
	"strconv"
	"strings"
)

// Stroke describes how outlines are drawn. An empty DashArray is a solid line.
type Stroke struct {
	Color     Color     `json:"color"`
	Width     float64   `json:"width"`
	DashArray []float64 `json:"dash_array,omitempty"`
}

// Dashed reports whether the stroke has a dash pattern.
func (s Stroke) Dashed() bool { return len(s.DashArray) > 0 }

// DashString renders the dash pattern as an SVG stroke-dasharray value.
func (s Stroke) DashString() string {
	parts := make([]string, len(s.DashArray))
	for i, d := range s.DashArray {
		parts[i] = strconv.FormatFloat(d, 'f', -1, 64)
	}
	return strings.Join(parts, " ")
}

// Shape styles rectangles, polygons and paths.
type Shape struct {
	FillColor Color  `json:"fill_color"`
	Stroke    Stroke `json:"stroke"`
}

// DefaultShape is a 1 unit black outline with no fill.
func DefaultShape() Shape {
	return Shape{
		FillColor: Transparent,
		Stroke:    Stroke{Color: Black, Width: 1},
	}
}

// Clone returns a copy that shares no slices with s.
func (s Shape) Clone() Shape {
	if s.Stroke.DashArray != nil {
		s.Stroke.DashArray = append([]float64(nil), s.Stroke.DashArray...)
	}
	return s
}

// Text styles text runs.
type Text struct {
	Color      Color   `json:"color"`
	FontFamily string  `json:"font_family"`
	FontSize   float64 `json:"font_size"`
}

// DefaultText is 16 unit black sans-serif.
func DefaultText() Text {
	return Text{Color: Black, FontFamily: "sans-serif", FontSize: 16}
}

// Preview is the dashed outline used for selection boxes and rubber bands.
func Preview() Shape {
	return Shape{
		FillColor: Transparent,
		Stroke: Stroke{
			Color:     Color{R: 0x33, G: 0x66, B: 0xcc, A: 255},
			Width:     1,
			DashArray: []float64{4, 1},
		},
	}
}
