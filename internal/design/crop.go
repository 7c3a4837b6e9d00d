// Package design holds the print editor's server-side geometry and rendering:
// crop fit/fill placement, canvas rasterization, QR compositing and PDF export.
package design

import (
	"errors"
	"fmt"

	"github.com/ericoliveiras/artkey-store/internal/printspec"
)

var ErrEmptyImage = errors.New("image and frame must have positive dimensions")

// Mode selects how an image is scaled into its frame.
type Mode string

const (
	// ModeFill covers the whole frame and crops the overflow.
	ModeFill Mode = "fill"
	// ModeFit shows the whole image and letterboxes the rest of the frame.
	ModeFit Mode = "fit"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFill, "":
		return ModeFill, nil
	case ModeFit:
		return ModeFit, nil
	}
	return "", fmt.Errorf("unknown fit mode %q", s)
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Placement is where the scaled image lands in canvas millimetres. Crop is the
// visible part of the source image in source pixels.
type Placement struct {
	printspec.Rect
	Scale float64        `json:"scale"` // canvas mm per source pixel
	Crop  printspec.Rect `json:"crop"`
}

// Place scales img (pixels) into frame (mm) and centres it.
func Place(img Size, frame printspec.Rect, mode Mode) (Placement, error) {
	if img.Width <= 0 || img.Height <= 0 || frame.Width <= 0 || frame.Height <= 0 {
		return Placement{}, ErrEmptyImage
	}

	wider := img.Width/img.Height > frame.Width/frame.Height
	var scale float64
	switch {
	case mode == ModeFit && wider, mode != ModeFit && !wider:
		scale = frame.Width / img.Width
	default:
		scale = frame.Height / img.Height
	}

	w, h := img.Width*scale, img.Height*scale
	p := Placement{
		Rect: printspec.Rect{
			X:      frame.X + (frame.Width-w)/2,
			Y:      frame.Y + (frame.Height-h)/2,
			Width:  w,
			Height: h,
		},
		Scale: scale,
		Crop:  printspec.Rect{Width: img.Width, Height: img.Height},
	}
	if mode != ModeFit {
		cw, ch := frame.Width/scale, frame.Height/scale
		p.Crop = printspec.Rect{X: (img.Width - cw) / 2, Y: (img.Height - ch) / 2, Width: cw, Height: ch}
	}
	return p, nil
}

// EffectiveDPI is the resolution the source pixels print at once placed.
func EffectiveDPI(img Size, placed printspec.Rect) float64 {
	if placed.Width <= 0 {
		return 0
	}
	return img.Width / (placed.Width / printspec.MMPerInch)
}

// MinPrintDPI is the resolution below which an export is flagged.
const MinPrintDPI = 150
