package design

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/ericoliveiras/artkey-store/internal/printspec"
)

// ExportPDF writes a print-ready PDF: pages sized to the bleed box, the trim
// and bleed boxes declared on every page, and canvas drawn full-bleed on the
// first page. Remaining pages of the print spec are left blank.
func ExportPDF(w io.Writer, spec printspec.PrintSpec, canvas image.Image, title string) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	boxes := spec.Boxes()

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: boxes.Bleed.Width, Ht: boxes.Bleed.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)
	pdf.SetCreator("artkey-store", true)
	pdf.SetSubject(fmt.Sprintf("trim %.1fx%.1fmm, bleed %.1fmm, safe %.1fmm",
		spec.TrimWidthMM, spec.TrimHeightMM, spec.BleedMM, spec.SafeMM), true)
	pdf.SetPageBox("bleed", boxes.Bleed.X, boxes.Bleed.Y, boxes.Bleed.Width, boxes.Bleed.Height)
	pdf.SetPageBox("trim", boxes.Trim.X, boxes.Trim.Y, boxes.Trim.Width, boxes.Trim.Height)

	pdf.AddPage()
	if canvas != nil {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: 95}); err != nil {
			return fmt.Errorf("encode canvas: %w", err)
		}
		opts := fpdf.ImageOptions{ImageType: "JPG"}
		pdf.RegisterImageOptionsReader("canvas", opts, &buf)
		pdf.ImageOptions("canvas", 0, 0, boxes.Bleed.Width, boxes.Bleed.Height, false, opts, 0, "")
	}
	for i := 1; i < spec.Pages; i++ {
		pdf.AddPage()
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	return pdf.Output(w)
}
