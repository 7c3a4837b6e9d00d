// Package printspec describes the printable geometry of a product: trim size,
// bleed and safe zone, and the boxes derived from them.
package printspec

import (
	"errors"
	"fmt"
	"math"

	"github.com/ericoliveiras/artkey-store/internal/model"
)

const (
	MMPerInch = 25.4

	DefaultBleedMM = 3
	DefaultSafeMM  = 4
	DefaultDPI     = 300
)

var ErrInvalidSpec = errors.New("invalid print spec")

type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// PrintSpec is the JSON document the editor lays a design out against.
type PrintSpec struct {
	TrimWidthMM  float64     `json:"trimWidthMm"`
	TrimHeightMM float64     `json:"trimHeightMm"`
	BleedMM      float64     `json:"bleedMm"`
	SafeMM       float64     `json:"safeMm"`
	DPI          int         `json:"dpi"`
	Orientation  Orientation `json:"orientation"`
	Pages        int         `json:"pages"`
}

func (s PrintSpec) Validate() error {
	switch {
	case s.TrimWidthMM <= 0 || s.TrimHeightMM <= 0:
		return fmt.Errorf("%w: trim size must be positive", ErrInvalidSpec)
	case s.BleedMM < 0 || s.SafeMM < 0:
		return fmt.Errorf("%w: bleed and safe margins cannot be negative", ErrInvalidSpec)
	case 2*s.SafeMM >= math.Min(s.TrimWidthMM, s.TrimHeightMM):
		return fmt.Errorf("%w: safe margin leaves no printable area", ErrInvalidSpec)
	case s.DPI <= 0:
		return fmt.Errorf("%w: dpi must be positive", ErrInvalidSpec)
	}
	return nil
}

// FromGelato maps a vendor catalog row to a PrintSpec. Zero bleed and safe
// values fall back to the defaults, and width/height are swapped so the trim
// box matches the declared orientation.
func FromGelato(g model.GelatoProduct) (PrintSpec, error) {
	s := PrintSpec{
		TrimWidthMM:  g.WidthMM,
		TrimHeightMM: g.HeightMM,
		BleedMM:      g.BleedMM,
		SafeMM:       g.SafeMM,
		DPI:          DefaultDPI,
		Pages:        g.Pages,
	}
	if s.BleedMM == 0 {
		s.BleedMM = DefaultBleedMM
	}
	if s.SafeMM == 0 {
		s.SafeMM = DefaultSafeMM
	}
	if s.Pages <= 0 {
		s.Pages = 1
	}
	s.orient(Orientation(g.Orientation))

	if err := s.Validate(); err != nil {
		return PrintSpec{}, fmt.Errorf("gelato product %s: %w", g.ProductUID, err)
	}
	return s, nil
}

func (s *PrintSpec) orient(o Orientation) {
	switch o {
	case Landscape:
		if s.TrimWidthMM < s.TrimHeightMM {
			s.TrimWidthMM, s.TrimHeightMM = s.TrimHeightMM, s.TrimWidthMM
		}
	case Portrait:
		if s.TrimWidthMM > s.TrimHeightMM {
			s.TrimWidthMM, s.TrimHeightMM = s.TrimHeightMM, s.TrimWidthMM
		}
	default:
		if s.TrimWidthMM > s.TrimHeightMM {
			o = Landscape
		} else {
			o = Portrait
		}
	}
	s.Orientation = o
}

// MMToPx converts millimetres to whole pixels at dpi.
func MMToPx(mm float64, dpi int) int {
	return int(math.Round(mm / MMPerInch * float64(dpi)))
}

// PxToMM is the inverse of MMToPx without rounding.
func PxToMM(px int, dpi int) float64 {
	return float64(px) / float64(dpi) * MMPerInch
}

// Rect is an axis-aligned box in millimetres, origin at the top-left of the
// bleed box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, Width: r.Width - 2*d, Height: r.Height - 2*d}
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	const eps = 1e-9
	return o.X >= r.X-eps && o.Y >= r.Y-eps &&
		o.X+o.Width <= r.X+r.Width+eps && o.Y+o.Height <= r.Y+r.Height+eps
}

// PxRect is Rect rasterized at the print spec's DPI.
type PxRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (r Rect) Px(dpi int) PxRect {
	return PxRect{
		X:      MMToPx(r.X, dpi),
		Y:      MMToPx(r.Y, dpi),
		Width:  MMToPx(r.Width, dpi),
		Height: MMToPx(r.Height, dpi),
	}
}

type Boxes struct {
	Bleed   Rect   `json:"bleedBox"`
	Trim    Rect   `json:"trimBox"`
	Safe    Rect   `json:"safeBox"`
	BleedPx PxRect `json:"bleedBoxPx"`
	TrimPx  PxRect `json:"trimBoxPx"`
	SafePx  PxRect `json:"safeBoxPx"`
}

// Boxes returns the bleed box (the full canvas), the trim box inset by the
// bleed, and the safe box inset by bleed plus safe margin.
func (s PrintSpec) Boxes() Boxes {
	bleed := Rect{Width: s.TrimWidthMM + 2*s.BleedMM, Height: s.TrimHeightMM + 2*s.BleedMM}
	trim := bleed.Inset(s.BleedMM)
	safe := trim.Inset(s.SafeMM)
	return Boxes{
		Bleed:   bleed,
		Trim:    trim,
		Safe:    safe,
		BleedPx: bleed.Px(s.DPI),
		TrimPx:  trim.Px(s.DPI),
		SafePx:  safe.Px(s.DPI),
	}
}
