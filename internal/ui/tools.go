package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"LocalBoard/internal/element"
	"LocalBoard/internal/style"
	"LocalBoard/internal/whiteboard"
)

// Tool names shown in the tool picker.
const (
	ToolSelect    = "Select"
	ToolRectangle = "Rectangle"
	ToolPolygon   = "Polygon"
	ToolFreeHand  = "Pen"
)

// ToolNames lists the tool picker entries in display order.
var ToolNames = []string{ToolSelect, ToolRectangle, ToolPolygon, ToolFreeHand}

// Palette is the set of colour swatches on the toolbar.
var Palette = []style.Color{style.Black, style.Red, style.Green, style.Blue, style.Yellow}

// ActivateTool switches board to the named tool.
func ActivateTool(board *whiteboard.Whiteboard, name string) error {
	switch name {
	case ToolRectangle:
		return board.ActivateMoveDraw(element.KindRectangle)
	case ToolPolygon:
		return board.ActivateClickDraw(element.KindPolygon)
	case ToolFreeHand:
		return board.ActivateMoveDraw(element.KindFreeHand)
	default:
		board.ActivateSelectTool()
		return nil
	}
}

// styleEditor derives new styles from toolbar changes.
type styleEditor struct {
	board *whiteboard.Whiteboard
	fill  bool
}

func (e *styleEditor) update(fn func(s *style.Shape)) {
	s := e.board.Style()
	fn(&s)
	e.board.SetStyle(s)
}

func (e *styleEditor) setColor(c style.Color) {
	e.update(func(s *style.Shape) {
		s.Stroke.Color = c
		if e.fill {
			s.FillColor = c
		}
	})
}

func (e *styleEditor) setWidth(w float64) {
	e.update(func(s *style.Shape) { s.Stroke.Width = w })
}

func (e *styleEditor) setFill(on bool) {
	e.fill = on
	e.update(func(s *style.Shape) {
		if on {
			s.FillColor = s.Stroke.Color
		} else {
			s.FillColor = style.Transparent
		}
	})
}

func (e *styleEditor) setDashed(on bool) {
	e.update(func(s *style.Shape) {
		if on {
			s.Stroke.DashArray = []float64{6, 4}
		} else {
			s.Stroke.DashArray = nil
		}
	})
}

type colorSwatch struct {
	widget.BaseWidget
	Color    style.Color
	OnTapped func(style.Color)
}

func newColorSwatch(c style.Color, tapped func(style.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(32, 32))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// NewToolbar builds the tool picker, style controls and file actions for
// the board shown in win.
func NewToolbar(win fyne.Window, board *BoardWidget) fyne.CanvasObject {
	wb := board.Board()
	editor := &styleEditor{board: wb}

	tools := widget.NewRadioGroup(ToolNames, func(name string) {
		if err := ActivateTool(wb, name); err != nil {
			board.SetStatus(err.Error())
			return
		}
		board.SetStatus(name)
	})
	tools.Horizontal = true
	tools.Required = true

	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentSaveIcon(), func() { ShowSaveDialog(win, board) }),
		widget.NewToolbarAction(theme.FolderOpenIcon(), func() { ShowLoadDialog(win, board) }),
		widget.NewToolbarAction(theme.DocumentPrintIcon(), func() { ShowExportDialog(win, board) }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ZoomInIcon(), board.ZoomIn),
		widget.NewToolbarAction(theme.ZoomOutIcon(), board.ZoomOut),
		widget.NewToolbarAction(theme.ViewRestoreIcon(), board.ResetView),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DeleteIcon(), func() {
			wb.Clear()
			board.SetStatus("Cleared")
		}),
	)

	swatches := make([]fyne.CanvasObject, 0, len(Palette))
	for _, c := range Palette {
		swatches = append(swatches, newColorSwatch(c, editor.setColor))
	}
	colorBox := container.NewHBox(swatches...)

	strokeSlider := widget.NewSlider(1.0, 50.0)
	strokeSlider.SetValue(wb.Style().Stroke.Width)
	strokeSlider.OnChanged = editor.setWidth
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), strokeSlider)

	fill := widget.NewCheck("Fill", editor.setFill)
	dashed := widget.NewCheck("Dashed", editor.setDashed)

	// the pen is active at start
	tools.SetSelected(ToolFreeHand)

	return container.NewHBox(
		tools,
		widget.NewSeparator(),
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderContainer,
		fill,
		dashed,
		layout.NewSpacer(),
		tb,
	)
}
