package ui

import (
	"fmt"
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"go.uber.org/zap"
)

// startIn points d at the configured save folder, if it exists.
func (b *BoardWidget) startIn(d *dialog.FileDialog) {
	if b.saveDir == "" {
		return
	}
	dir, err := storage.ListerForURI(storage.NewFileURI(b.saveDir))
	if err != nil {
		b.log.Debug("save dir unavailable", zap.String("dir", b.saveDir), zap.Error(err))
		return
	}
	d.SetLocation(dir)
}

// SaveTo writes the board scene as JSON.
func (b *BoardWidget) SaveTo(w io.Writer) (int, error) {
	data, err := b.board.Snapshot()
	if err != nil {
		return 0, err
	}
	if _, err := w.Write(data); err != nil {
		return 0, err
	}
	return len(b.board.Entities()), nil
}

// LoadFrom replaces the board scene with the JSON read from r. Entities that
// fail to decode are skipped and reported in the error.
func (b *BoardWidget) LoadFrom(r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	err = b.board.Load(data)
	return len(b.board.Entities()), err
}

func ShowSaveDialog(win fyne.Window, b *BoardWidget) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer func() {
			if err := writer.Close(); err != nil {
				b.log.Warn("close save file", zap.Error(err))
			}
		}()
		n, err := b.SaveTo(writer)
		if err != nil {
			b.log.Warn("save", zap.Error(err))
			b.SetStatus("Error saving file")
			return
		}
		b.SetStatus(fmt.Sprintf("Saved %d drawings", n))
	}, win)
	d.SetFileName("board.json")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	b.startIn(d)
	d.Show()
}

func ShowLoadDialog(win fyne.Window, b *BoardWidget) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer func() {
			if err := reader.Close(); err != nil {
				b.log.Warn("close load file", zap.Error(err))
			}
		}()
		n, err := b.LoadFrom(reader)
		if err != nil {
			b.log.Warn("load", zap.Error(err))
			if n == 0 {
				b.SetStatus("Error parsing file - invalid format")
				return
			}
			b.SetStatus(fmt.Sprintf("Loaded %d drawings, some were skipped", n))
			return
		}
		b.SetStatus(fmt.Sprintf("Loaded %d drawings", n))
	}, win)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	b.startIn(d)
	d.Show()
}
