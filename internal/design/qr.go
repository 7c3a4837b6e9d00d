package design

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	qrcode "github.com/skip2/go-qrcode"
	xdraw "golang.org/x/image/draw"

	"github.com/ericoliveiras/artkey-store/internal/printspec"
)

var ErrQROutside = errors.New("qr box must lie inside the canvas")

// QRPNG encodes url as a square PNG QR code of the given side in pixels.
func QRPNG(url string, size int) ([]byte, error) {
	return qrcode.Encode(url, qrcode.Medium, size)
}

// DefaultQRBox places the code in the bottom-right corner of the safe zone,
// its side a fifth of the safe zone's short edge. The result is in pixels at dpi.
func DefaultQRBox(spec printspec.PrintSpec, dpi int) image.Rectangle {
	safe := spec.Boxes().Safe
	side := min(safe.Width, safe.Height) / 5
	box := printspec.Rect{
		X:      safe.X + safe.Width - side,
		Y:      safe.Y + safe.Height - side,
		Width:  side,
		Height: side,
	}.Px(dpi)
	return image.Rect(box.X, box.Y, box.X+box.Width, box.Y+box.Height)
}

// CompositeQR draws a QR code for url into box on top of base.
func CompositeQR(base draw.Image, url string, box image.Rectangle) error {
	if box.Empty() || !box.In(base.Bounds()) {
		return ErrQROutside
	}
	q, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("encode qr: %w", err)
	}
	side := max(box.Dx(), box.Dy())
	code := q.Image(side)
	// Nearest neighbour keeps module edges sharp.
	xdraw.NearestNeighbor.Scale(base, box, code, code.Bounds(), draw.Src, nil)
	return nil
}

// CompositeQRImage is CompositeQR for any image; the result is a copy.
func CompositeQRImage(src image.Image, url string, box image.Rectangle) (*image.RGBA, error) {
	out := image.NewRGBA(src.Bounds())
	draw.Draw(out, out.Bounds(), src, src.Bounds().Min, draw.Src)
	if err := CompositeQR(out, url, box); err != nil {
		return nil, err
	}
	return out, nil
}
