package ui

import (
	"fmt"
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"go.uber.org/zap"

	"LocalBoard/internal/export"
)

// ExportOptions sizes exported pages after the widget.
func (b *BoardWidget) ExportOptions() export.Options {
	opts := export.DefaultOptions()
	if size := b.Size(); size.Width > 0 && size.Height > 0 {
		opts.Width, opts.Height = int(size.Width), int(size.Height)
	}
	opts.Background = b.background
	return opts
}

// ExportPDF writes the board as a one page PDF.
func (b *BoardWidget) ExportPDF(w io.Writer) error {
	return export.PDF(w, b.board.Entities(), b.ExportOptions())
}

// ShowExportDialog asks for a file and exports the board to PDF.
func ShowExportDialog(win fyne.Window, b *BoardWidget) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if writer == nil {
			return
		}
		defer func() {
			if err := writer.Close(); err != nil {
				b.log.Warn("close export file", zap.Error(err))
			}
		}()
		if err := b.ExportPDF(writer); err != nil {
			b.log.Warn("export pdf", zap.Error(err))
			dialog.ShowError(err, win)
			return
		}
		b.SetStatus(fmt.Sprintf("Exported %s", writer.URI().Name()))
	}, win)
	d.SetFileName("board.pdf")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	b.startIn(d)
	d.Show()
}
