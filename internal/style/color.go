// Package style holds the visual attributes attached to shape models.
package style

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is a non-premultiplied RGBA colour. Its text form is "#rrggbb" or
// "#rrggbbaa" when not fully opaque.
type Color struct {
	R, G, B, A uint8
}

var (
	Black       = Color{A: 255}
	White       = Color{R: 255, G: 255, B: 255, A: 255}
	Red         = Color{R: 255, A: 255}
	Green       = Color{G: 255, A: 255}
	Blue        = Color{B: 255, A: 255}
	Yellow      = Color{R: 255, G: 255, A: 255}
	Transparent = Color{}
)

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// FromColor converts any image colour.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B, A: n.A}
}

// IsTransparent reports whether the colour paints nothing.
func (c Color) IsTransparent() bool { return c.A == 0 }

// Opacity returns the alpha channel in [0, 1].
func (c Color) Opacity() float64 { return float64(c.A) / 255 }

// ToHex returns the "#rrggbb[aa]" form.
func (c Color) ToHex() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ToCSS returns the colour as used in SVG paint attributes. Transparent
// colours become "none".
func (c Color) ToCSS() string {
	if c.IsTransparent() {
		return "none"
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string { return c.ToHex() }

// ParseHex parses "#rgb", "#rrggbb" or "#rrggbbaa". The leading '#' is optional.
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 && len(h) != 8 {
		return Color{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	if len(h) == 6 {
		return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// MustParseHex is like ParseHex but panics on malformed input. Meant for
// package-level colour tables.
func MustParseHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// MarshalText implements encoding.TextMarshaler (JSON and YAML use it).
func (c Color) MarshalText() ([]byte, error) { return []byte(c.ToHex()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
