package design

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/ericoliveiras/artkey-store/internal/printspec"
)

// RenderCanvas rasterizes the bleed box at dpi on white and draws src at
// placement. Parts of the image outside the canvas are clipped.
func RenderCanvas(spec printspec.PrintSpec, src image.Image, placement printspec.Rect, dpi int) (*image.RGBA, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if dpi <= 0 {
		dpi = spec.DPI
	}

	bleed := spec.Boxes().Bleed.Px(dpi)
	canvas := image.NewRGBA(image.Rect(0, 0, bleed.Width, bleed.Height))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	if src == nil {
		return canvas, nil
	}
	if placement.Width <= 0 || placement.Height <= 0 {
		return nil, fmt.Errorf("%w: empty placement", ErrEmptyImage)
	}

	px := placement.Px(dpi)
	dst := image.Rect(px.X, px.Y, px.X+px.Width, px.Y+px.Height)
	xdraw.CatmullRom.Scale(canvas, dst, src, src.Bounds(), draw.Over, nil)
	return canvas, nil
}
