package report

import (
	"fmt"
	"os"
	"path/filepath"

	"codeberg.org/go-pdf/fpdf"

	apperrors "oilpulse/internal/errors"
)

// Figure is one chart embedded in the modeling report
type Figure struct {
	PNGPath string
	// Caption is the Arabic caption; CaptionLatin is written instead
	// when no Arabic-capable font is available.
	Caption      string
	CaptionLatin string
}

// ModelingReport collects everything the PDF report renders
type ModelingReport struct {
	Title      string
	TitleLatin string
	MSE        float64
	R2         float64
	Figures    []Figure

	// FontPath optionally names a Unicode TTF able to render Arabic.
	// Without it captions fall back to their Latin versions under the
	// built-in Helvetica font.
	FontPath string
}

const (
	pageWidth   = 210.0
	marginSide  = 20.0
	figureWidth = pageWidth - 2*marginSide
)

// Write renders the modeling report as an A4 PDF at path
func (r *ModelingReport) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create reports directory", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginSide, 20, marginSide)

	arabicOK := false
	if r.FontPath != "" {
		if _, err := os.Stat(r.FontPath); err == nil {
			pdf.AddUTF8Font("arabic", "", r.FontPath)
			arabicOK = pdf.Error() == nil
		}
	}

	pdf.AddPage()

	if arabicOK {
		pdf.SetFont("arabic", "", 18)
		pdf.CellFormat(0, 12, DisplayRTL(r.Title), "", 1, "R", false, 0, "")
	} else {
		pdf.SetFont("Helvetica", "B", 18)
		pdf.CellFormat(0, 12, r.TitleLatin, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("MSE: %.2f", r.MSE), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("R2: %.4f", r.R2), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for _, fig := range r.Figures {
		if _, err := os.Stat(fig.PNGPath); err != nil {
			return apperrors.NewNotFoundError(fmt.Sprintf("report figure %s", fig.PNGPath), err)
		}

		// Each chart with its caption on a page of its own keeps the
		// layout independent of image aspect ratios
		pdf.AddPage()
		pdf.ImageOptions(fig.PNGPath, marginSide, 30, figureWidth, 0, false,
			fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

		pdf.SetY(160)
		if arabicOK {
			pdf.SetFont("arabic", "", 13)
			pdf.CellFormat(0, 10, DisplayRTL(fig.Caption), "", 1, "R", false, 0, "")
		} else {
			pdf.SetFont("Helvetica", "I", 12)
			pdf.CellFormat(0, 10, fig.CaptionLatin, "", 1, "C", false, 0, "")
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write report %s", path), err)
	}

	return nil
}
