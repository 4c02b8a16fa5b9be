package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot"

	"oilpulse/internal/charts"
	apperrors "oilpulse/internal/errors"
)

func TestReshape_ContextualForms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// Single letters stay isolated
		{"isolated beh", "ب", "ﺏ"},
		// نفط: noon initial, feh medial, tah final
		{"three joined letters", "نفط", "ﻧﻔﻂ"},
		// دار: neither dal nor alef joins forward, so every letter
		// falls back to its isolated form
		{"right joiner breaks", "دار", "ﺩﺍﺭ"},
		// لا collapses to the lam-alef ligature
		{"lam alef ligature", "لا", "ﻻ"},
		// بلا: joined lam-alef takes the final ligature form
		{"joined lam alef", "بلا", "ﺑﻼ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reshape(tt.input))
		})
	}
}

func TestReshape_PassesThroughNonArabic(t *testing.T) {
	assert.Equal(t, "R2 = 0.95", Reshape("R2 = 0.95"))
}

func TestReshape_WordBoundaryBreaksJoining(t *testing.T) {
	// The space stops the first word's last letter from taking an
	// initial-joining form into the next word
	shaped := Reshape("نف ط")
	assert.Equal(t, "ﻧﻒ ﻁ", shaped)
}

func TestDisplayRTL_ReversesShapedText(t *testing.T) {
	// Visual order is the reverse of logical order
	assert.Equal(t, "ﻂﻔﻧ", DisplayRTL("نفط"))
}

func testFigurePNG(t *testing.T, dir string) string {
	t.Helper()
	p := plot.New()
	p.Title.Text = "Test Figure"

	path := filepath.Join(dir, "figure.png")
	data, err := charts.RenderPNG(p, charts.DefaultWidth, charts.DefaultHeight)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestModelingReport_Write(t *testing.T) {
	dir := t.TempDir()
	png := testFigurePNG(t, dir)

	r := &ModelingReport{
		Title:      "تقرير نمذجة إنتاج النفط",
		TitleLatin: "Oil Production Modeling Report",
		MSE:        1234.5,
		R2:         0.93,
		Figures: []Figure{
			{PNGPath: png, Caption: "مخطط", CaptionLatin: "Chart"},
		},
	}

	path := filepath.Join(dir, "modeling_report_20240101.pdf")
	require.NoError(t, r.Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestModelingReport_MissingFigure(t *testing.T) {
	dir := t.TempDir()

	r := &ModelingReport{
		TitleLatin: "Oil Production Modeling Report",
		Figures: []Figure{
			{PNGPath: filepath.Join(dir, "absent.png"), CaptionLatin: "Chart"},
		},
	}

	err := r.Write(filepath.Join(dir, "report.pdf"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestModelingReport_MissingFontFallsBack(t *testing.T) {
	dir := t.TempDir()
	png := testFigurePNG(t, dir)

	r := &ModelingReport{
		Title:      "تقرير",
		TitleLatin: "Report",
		Figures:    []Figure{{PNGPath: png, Caption: "مخطط", CaptionLatin: "Chart"}},
		FontPath:   filepath.Join(dir, "no-such-font.ttf"),
	}

	path := filepath.Join(dir, "report.pdf")
	require.NoError(t, r.Write(path))
	assert.FileExists(t, path)
}
