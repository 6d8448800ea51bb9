package style

import (
	"encoding/json"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#000000", Black},
		{"#ff0000", Red},
		{"00ff00", Green},
		{"#fff", White},
		{"#0000ff80", Color{B: 255, A: 0x80}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "#12", "#zzzzzz", "#1234567"} {
		_, err := ParseHex(bad)
		assert.Error(t, err, bad)
	}
}

func TestColor_ToHex(t *testing.T) {
	assert.Equal(t, "#ff0000", Red.ToHex())
	assert.Equal(t, "#00000000", Transparent.ToHex())
	assert.Equal(t, "none", Transparent.ToCSS())
	assert.Equal(t, "#ffff00", Yellow.ToCSS())
}

func TestColor_FromColor(t *testing.T) {
	assert.Equal(t, Blue, FromColor(color.NRGBA{B: 255, A: 255}))
	assert.Equal(t, Black, FromColor(color.Black))
}

func TestShape_JSON(t *testing.T) {
	s := Shape{
		FillColor: Yellow,
		Stroke:    Stroke{Color: Color{R: 1, G: 2, B: 3, A: 4}, Width: 2.5, DashArray: []float64{4, 1}},
	}
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"fill_color":"#ffff00","stroke":{"color":"#01020304","width":2.5,"dash_array":[4,1]}}`, string(data))

	var got Shape
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, s, got)
}

func TestShape_Clone(t *testing.T) {
	s := Preview()
	c := s.Clone()
	c.Stroke.DashArray[0] = 9
	assert.Equal(t, 4.0, s.Stroke.DashArray[0])
	assert.Equal(t, "4 1", s.Stroke.DashString())
}
