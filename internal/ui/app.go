package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"

	"LocalBoard/internal/config"
	"LocalBoard/internal/whiteboard"
)

// RunApp opens the desktop board window and blocks until it is closed.
func RunApp(cfg *config.Config) {
	myApp := app.New()
	myWindow := myApp.NewWindow("Local Whiteboard")
	myWindow.Resize(fyne.NewSize(float32(cfg.Canvas.Width), float32(cfg.Canvas.Height)))

	wb := whiteboard.New(cfg.Owner,
		whiteboard.WithStyle(cfg.ShapeStyle()),
		whiteboard.WithDragThreshold(cfg.Select.DragThreshold),
		whiteboard.WithNudgeDistance(cfg.Select.Nudge))
	defer wb.Close()

	board := NewBoardWidget(wb, cfg.Canvas.Background)
	board.SetSaveDir(cfg.SaveDir)
	toolbar := NewToolbar(myWindow, board)

	content := container.NewBorder(toolbar, board.StatusBar(), nil, nil, board)
	myWindow.SetContent(content)
	myWindow.Canvas().Focus(board)
	myWindow.ShowAndRun()
}
