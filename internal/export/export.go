// Package export writes a board scene to PDF, PNG and SVG files.
package export

import (
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"go.uber.org/zap"

	"LocalBoard/internal/element"
	"LocalBoard/internal/logging"
	"LocalBoard/internal/render"
	"LocalBoard/internal/render/raster"
	"LocalBoard/internal/render/svg"
	"LocalBoard/internal/style"
)

// Options sets the page or image size and the background.
type Options struct {
	Width      int
	Height     int
	Background style.Color
}

// DefaultOptions matches the default desktop canvas.
func DefaultOptions() Options {
	return Options{Width: 1024, Height: 768, Background: style.White}
}

func (o Options) valid() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("export: invalid size %dx%d", o.Width, o.Height)
	}
	return nil
}

// Paint clears r and paints entities in order.
func Paint(r render.Renderer, entities []*element.Entity) {
	r.Clear()
	for _, e := range entities {
		e.Paint(r, nil)
	}
}

// PDF writes a one page document.
func PDF(w io.Writer, entities []*element.Entity, opts Options) error {
	if err := opts.valid(); err != nil {
		return err
	}
	r := NewPDF(float64(opts.Width), float64(opts.Height), opts.Background)
	Paint(r, entities)
	if err := r.Output(w); err != nil {
		return fmt.Errorf("export pdf: %w", err)
	}
	return nil
}

// PNG rasterises the scene with the canvas backend.
func PNG(w io.Writer, entities []*element.Entity, opts Options) error {
	if err := opts.valid(); err != nil {
		return err
	}
	r := raster.New(opts.Width, opts.Height, opts.Background)
	defer r.Close()
	Paint(r, entities)
	if err := r.EncodePNG(w); err != nil {
		return fmt.Errorf("export png: %w", err)
	}
	return nil
}

// SVG writes the retained tree built from the scene. Every entity becomes a
// top-level node carrying its HTML id.
func SVG(w io.Writer, entities []*element.Entity, opts Options) error {
	if err := opts.valid(); err != nil {
		return err
	}
	r := svg.New(svg.WithSize(float64(opts.Width), float64(opts.Height)))
	for _, e := range entities {
		if err := r.Add(e); err != nil {
			return fmt.Errorf("export svg: %w", err)
		}
	}
	if _, err := r.WriteTo(w); err != nil {
		return fmt.Errorf("export svg: %w", err)
	}
	return nil
}

// RasterizeSVG draws SVG markup into a width x height image. Elements the
// rasteriser does not understand, such as text, are skipped.
func RasterizeSVG(in io.Reader, width, height int, background style.Color) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(in, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("rasterize svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1)
	return img, nil
}

// WriteFile exports entities to path. The format follows the extension:
// .pdf, .png or .svg.
func WriteFile(path string, entities []*element.Entity, opts Options) (err error) {
	var write func(io.Writer, []*element.Entity, Options) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		write = PDF
	case ".png":
		write = PNG
	case ".svg":
		write = SVG
	default:
		return fmt.Errorf("export: unsupported format %q", ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := write(f, entities, opts); err != nil {
		return err
	}
	logging.L().Named("export").Info("scene exported",
		zap.String("path", path), zap.Int("entities", len(entities)))
	return nil
}
