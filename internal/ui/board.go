package ui

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"LocalBoard/internal/geom"
	"LocalBoard/internal/logging"
	"LocalBoard/internal/render"
	"LocalBoard/internal/render/raster"
	"LocalBoard/internal/style"
	"LocalBoard/internal/whiteboard"
)

const (
	minZoom  = 0.3
	maxZoom  = 3.0
	zoomStep = 1.2
)

// BoardWidget shows a whiteboard and forwards pointer and key input to it.
// Widget positions are mapped to board coordinates through the pan offset
// and zoom factor.
type BoardWidget struct {
	widget.BaseWidget

	board      *whiteboard.Whiteboard
	raster     *canvas.Raster
	background style.Color
	statusBar  *widget.Label
	saveDir    string

	mu      sync.Mutex
	panX    float32
	panY    float32
	zoom    float32
	pressed bool
	last    fyne.Position
	canvas  *raster.Renderer
	cw, ch  int
	lastImg image.Image
	log     *zap.Logger
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ fyne.Focusable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)
var _ desktop.Keyable = (*BoardWidget)(nil)

// NewBoardWidget wraps board. The widget repaints whenever the board changes.
func NewBoardWidget(board *whiteboard.Whiteboard, background style.Color) *BoardWidget {
	b := &BoardWidget{
		board:      board,
		background: background,
		statusBar:  widget.NewLabel("Ready"),
		zoom:       1,
		log:        logging.L().Named("ui"),
	}
	b.raster = canvas.NewRaster(b.draw)
	b.ExtendBaseWidget(b)
	board.OnChange(b.scheduleRefresh)
	return b
}

// Board returns the wrapped whiteboard.
func (b *BoardWidget) Board() *whiteboard.Whiteboard { return b.board }

// SetSaveDir sets the folder file dialogs open in.
func (b *BoardWidget) SetSaveDir(dir string) { b.saveDir = dir }

// StatusBar returns the label status messages are written to.
func (b *BoardWidget) StatusBar() *widget.Label { return b.statusBar }

// SetStatus shows text in the status bar. Safe from any goroutine.
func (b *BoardWidget) SetStatus(text string) {
	fyne.Do(func() { b.statusBar.SetText(text) })
}

func (b *BoardWidget) scheduleRefresh() {
	fyne.Do(func() { b.raster.Refresh() })
}

// draw renders the board at pixel size w x h. A frame the board skips keeps
// the previous image.
func (b *BoardWidget) draw(w, h int) image.Image {
	b.mu.Lock()
	defer b.mu.Unlock()

	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	switch {
	case b.canvas == nil:
		b.canvas = raster.New(w, h, b.background)
		b.cw, b.ch = w, h
	case b.cw != w || b.ch != h:
		if err := b.canvas.Resize(w, h); err != nil {
			b.log.Warn("resize canvas", zap.Error(err))
			if b.lastImg == nil {
				return image.NewRGBA(image.Rect(0, 0, w, h))
			}
			return b.lastImg
		}
		b.cw, b.ch = w, h
	}

	// fyne units to pixels
	var scale float64 = 1
	if size := b.Size(); size.Width > 0 {
		scale = float64(w) / float64(size.Width)
	}
	px := geom.Scaling(scale, scale)
	if b.board.Render(render.WithTransform(b.canvas, &px)) || b.lastImg == nil {
		b.lastImg = b.canvas.Image()
	}
	return b.lastImg
}

// viewTransform maps board coordinates to widget positions.
func (b *BoardWidget) viewTransform() geom.Transform {
	return geom.Translation(float64(b.panX), float64(b.panY)).Multiply(geom.Scaling(float64(b.zoom), float64(b.zoom)))
}

// toBoard maps a widget position to board coordinates.
func (b *BoardWidget) toBoard(pos fyne.Position) (float64, float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return float64((pos.X - b.panX) / b.zoom), float64((pos.Y - b.panY) / b.zoom)
}

func (b *BoardWidget) applyView() {
	b.mu.Lock()
	t := b.viewTransform()
	b.mu.Unlock()
	b.board.SetTransform(&t)
}

// Pan shifts the view by (dx, dy) widget units.
func (b *BoardWidget) Pan(dx, dy float32) {
	b.mu.Lock()
	b.panX += dx
	b.panY += dy
	b.mu.Unlock()
	b.applyView()
}

// ZoomIn enlarges the view.
func (b *BoardWidget) ZoomIn() { b.setZoom(zoomStep) }

// ZoomOut shrinks the view.
func (b *BoardWidget) ZoomOut() { b.setZoom(1 / zoomStep) }

func (b *BoardWidget) setZoom(factor float32) {
	b.mu.Lock()
	b.zoom *= factor
	if b.zoom > maxZoom {
		b.zoom = maxZoom
	}
	if b.zoom < minZoom {
		b.zoom = minZoom
	}
	b.mu.Unlock()
	b.applyView()
}

// ResetView restores the original pan and zoom.
func (b *BoardWidget) ResetView() {
	b.mu.Lock()
	b.panX, b.panY, b.zoom = 0, 0, 1
	b.mu.Unlock()
	b.board.SetTransform(nil)
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.requestFocus()
	b.pressed = true
	b.last = e.Position
	x, y := b.toBoard(e.Position)
	b.board.MouseDown(x, y)
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary || !b.pressed {
		return
	}
	b.pressed = false
	x, y := b.toBoard(e.Position)
	b.board.MouseUp(x, y)
}

func (b *BoardWidget) move(pos fyne.Position) {
	if pos == b.last {
		return
	}
	b.last = pos
	x, y := b.toBoard(pos)
	b.board.MouseMove(x, y)
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent)      {}
func (b *BoardWidget) MouseOut()                        {}
func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) { b.move(e.Position) }

func (b *BoardWidget) Dragged(e *fyne.DragEvent) { b.move(e.Position) }

// DragEnd releases the pointer if the mouse up was not delivered.
func (b *BoardWidget) DragEnd() {
	if !b.pressed {
		return
	}
	b.pressed = false
	x, y := b.toBoard(b.last)
	b.board.MouseUp(x, y)
}

// Scrolled pans the view; with Ctrl held it zooms.
func (b *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	if d, ok := fyne.CurrentApp().Driver().(desktop.Driver); ok && d.CurrentKeyModifiers()&fyne.KeyModifierControl != 0 {
		if e.Scrolled.DY > 0 {
			b.ZoomIn()
		} else {
			b.ZoomOut()
		}
		return
	}
	b.Pan(e.Scrolled.DX, e.Scrolled.DY)
}

func (b *BoardWidget) requestFocus() {
	if c := fyne.CurrentApp().Driver().CanvasForObject(b); c != nil {
		c.Focus(b)
	}
}

func (b *BoardWidget) FocusGained()            {}
func (b *BoardWidget) FocusLost()              {}
func (b *BoardWidget) TypedRune(rune)          {}
func (b *BoardWidget) TypedKey(*fyne.KeyEvent) {}

func (b *BoardWidget) KeyDown(e *fyne.KeyEvent) {
	if name, ok := keyName(e.Name); ok {
		b.board.KeyDown(name)
	}
}

func (b *BoardWidget) KeyUp(e *fyne.KeyEvent) {
	if name, ok := keyName(e.Name); ok {
		b.board.KeyUp(name)
	}
}

// keyName maps fyne key names to the names tools understand.
func keyName(k fyne.KeyName) (string, bool) {
	switch k {
	case fyne.KeyEscape:
		return "Escape", true
	case fyne.KeyReturn, fyne.KeyEnter:
		return "Enter", true
	case fyne.KeyBackspace:
		return "Backspace", true
	case fyne.KeyDelete:
		return "Delete", true
	case fyne.KeyLeft:
		return "ArrowLeft", true
	case fyne.KeyRight:
		return "ArrowRight", true
	case fyne.KeyUp:
		return "ArrowUp", true
	case fyne.KeyDown:
		return "ArrowDown", true
	}
	return "", false
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return &boardWidgetRenderer{board: b}
}

type boardWidgetRenderer struct {
	board *BoardWidget
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.board.raster}
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) { r.board.raster.Resize(size) }
func (r *boardWidgetRenderer) MinSize() fyne.Size    { return fyne.NewSize(300, 300) }
func (r *boardWidgetRenderer) Refresh()              { r.board.raster.Refresh() }
func (r *boardWidgetRenderer) Destroy()              {}
