package export

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"
)

// A4 portrait, in millimetres.
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
)

// PDFAssembler writes one A4 page per raster, each scaled to fit and centered.
type PDFAssembler struct {
	Creator string
}

func (a *PDFAssembler) Assemble(ctx context.Context, title string, pages []image.Image) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages to assemble")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)
	if a.Creator != "" {
		pdf.SetCreator(a.Creator, true)
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	for i, img := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, fmt.Errorf("encode page %d: %w", i+1, err)
		}
		name := fmt.Sprintf("page-%d", i+1)
		pdf.RegisterImageOptionsReader(name, opts, &buf)

		bounds := img.Bounds()
		x, y, w, h := Fit(float64(bounds.Dx()), float64(bounds.Dy()), PageWidthMM, PageHeightMM)
		pdf.AddPage()
		pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return out.Bytes(), nil
}

// Fit scales an imgW x imgH raster uniformly into a pageW x pageH page and
// centers it. The aspect ratio is always preserved.
func Fit(imgW, imgH, pageW, pageH float64) (x, y, w, h float64) {
	if imgW <= 0 || imgH <= 0 {
		return 0, 0, 0, 0
	}
	s := min(pageW/imgW, pageH/imgH)
	w, h = imgW*s, imgH*s
	return (pageW - w) / 2, (pageH - h) / 2, w, h
}
