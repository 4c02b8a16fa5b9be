package charts

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	apperrors "oilpulse/internal/errors"
)

// Default single-chart canvas size
const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 5 * vg.Inch
)

var htmlWrapper = template.Must(template.New("figure").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body style="margin:0;text-align:center;background:#fafafa">
<h2 style="font-family:sans-serif">{{.Title}}</h2>
<img src="{{.PNG}}" alt="{{.Title}}" style="max-width:100%">
</body>
</html>
`))

// RenderPNG renders a plot to PNG bytes at the given size
func RenderPNG(p *plot.Plot, width, height vg.Length) ([]byte, error) {
	w, err := p.WriterTo(width, height, "png")
	if err != nil {
		return nil, fmt.Errorf("rendering png: %w", err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("rendering png: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveFigure writes a plot as a PNG file plus an HTML wrapper page that
// embeds it. pngPath and htmlPath are the dated figure paths.
func SaveFigure(p *plot.Plot, pngPath, htmlPath string) error {
	if err := os.MkdirAll(filepath.Dir(pngPath), 0755); err != nil {
		return apperrors.NewStorageError("failed to create figures directory", err)
	}

	data, err := RenderPNG(p, DefaultWidth, DefaultHeight)
	if err != nil {
		return err
	}
	if err := os.WriteFile(pngPath, data, 0644); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write figure %s", pngPath), err)
	}

	return writeFigurePage(p.Title.Text, pngPath, htmlPath)
}

// writeFigurePage writes the HTML wrapper page embedding a figure PNG
func writeFigurePage(title, pngPath, htmlPath string) error {
	var buf bytes.Buffer
	err := htmlWrapper.Execute(&buf, struct {
		Title string
		PNG   string
	}{
		Title: title,
		PNG:   filepath.Base(pngPath),
	})
	if err != nil {
		return fmt.Errorf("rendering figure page: %w", err)
	}
	if err := os.WriteFile(htmlPath, buf.Bytes(), 0644); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write figure page %s", htmlPath), err)
	}

	return nil
}

// SaveGrid draws the plots as a 3x2 panel figure and writes it as a PNG
// plus the HTML wrapper page, like SaveFigure. A nil plot leaves its
// cell blank.
func SaveGrid(plots [][]*plot.Plot, title, pngPath, htmlPath string) error {
	if err := os.MkdirAll(filepath.Dir(pngPath), 0755); err != nil {
		return apperrors.NewStorageError("failed to create figures directory", err)
	}

	const (
		width  = 14 * vg.Inch
		height = 15 * vg.Inch
	)

	img := vgimg.New(width, height)
	dc := draw.New(img)

	rows := len(plots)
	cols := 0
	if rows > 0 {
		cols = len(plots[0])
	}

	tiles := draw.Tiles{
		Rows: rows,
		Cols: cols,
		PadX: vg.Points(10),
		PadY: vg.Points(10),
	}

	canvases := plot.Align(plots, tiles, dc)
	for r := range plots {
		for c := range plots[r] {
			if plots[r][c] != nil {
				plots[r][c].Draw(canvases[r][c])
			}
		}
	}

	f, err := os.Create(pngPath)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create figure %s", pngPath), err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write figure %s", pngPath), err)
	}

	return writeFigurePage(title, pngPath, htmlPath)
}
