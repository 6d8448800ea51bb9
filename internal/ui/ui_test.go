package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalBoard/internal/style"
	"LocalBoard/internal/tool"
	"LocalBoard/internal/whiteboard"
)

func TestKeyName(t *testing.T) {
	tests := []struct {
		in   fyne.KeyName
		want string
	}{
		{fyne.KeyEscape, "Escape"},
		{fyne.KeyReturn, "Enter"},
		{fyne.KeyEnter, "Enter"},
		{fyne.KeyBackspace, "Backspace"},
		{fyne.KeyDelete, "Delete"},
		{fyne.KeyLeft, "ArrowLeft"},
		{fyne.KeyDown, "ArrowDown"},
	}
	for _, tt := range tests {
		got, ok := keyName(tt.in)
		assert.True(t, ok, tt.in)
		assert.Equal(t, tt.want, got)
		_, known := tool.ParseKey(got)
		assert.True(t, known, got)
	}

	_, ok := keyName(fyne.KeyF1)
	assert.False(t, ok)
}

func TestActivateTool(t *testing.T) {
	wb := whiteboard.New("alice")
	t.Cleanup(wb.Close)

	require.NoError(t, ActivateTool(wb, ToolRectangle))
	assert.IsType(t, &tool.MoveDrawTool{}, wb.ViewPort().ActiveTool())

	require.NoError(t, ActivateTool(wb, ToolPolygon))
	assert.IsType(t, &tool.ClickDrawTool{}, wb.ViewPort().ActiveTool())

	require.NoError(t, ActivateTool(wb, ToolFreeHand))
	assert.IsType(t, &tool.MoveDrawTool{}, wb.ViewPort().ActiveTool())

	require.NoError(t, ActivateTool(wb, ToolSelect))
	assert.IsType(t, &tool.SelectTool{}, wb.ViewPort().ActiveTool())
}

func TestStyleEditor(t *testing.T) {
	wb := whiteboard.New("alice")
	t.Cleanup(wb.Close)
	e := &styleEditor{board: wb}

	e.setColor(style.Red)
	assert.Equal(t, style.Red, wb.Style().Stroke.Color)
	assert.Equal(t, style.Transparent, wb.Style().FillColor)

	e.setFill(true)
	assert.Equal(t, style.Red, wb.Style().FillColor)
	e.setColor(style.Blue)
	assert.Equal(t, style.Blue, wb.Style().FillColor)

	e.setWidth(7)
	assert.Equal(t, 7.0, wb.Style().Stroke.Width)

	e.setDashed(true)
	assert.Equal(t, []float64{6, 4}, wb.Style().Stroke.DashArray)
	e.setDashed(false)
	assert.Empty(t, wb.Style().Stroke.DashArray)
}
