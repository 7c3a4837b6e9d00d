package printspec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericoliveiras/artkey-store/internal/database/dbtest"
	"github.com/ericoliveiras/artkey-store/internal/model"
	"github.com/ericoliveiras/artkey-store/internal/store"
)

func TestMMToPx(t *testing.T) {
	assert.Equal(t, 300, MMToPx(25.4, 300))
	assert.Equal(t, 35, MMToPx(3, 300))     // 35.43
	assert.Equal(t, 1240, MMToPx(105, 300)) // 1240.16
	assert.InDelta(t, 25.4, PxToMM(300, 300), 1e-9)
}

func TestBoxes(t *testing.T) {
	s := PrintSpec{TrimWidthMM: 100, TrimHeightMM: 150, BleedMM: 3, SafeMM: 5, DPI: 300}
	b := s.Boxes()

	assert.Equal(t, Rect{Width: 106, Height: 156}, b.Bleed)
	assert.Equal(t, Rect{X: 3, Y: 3, Width: 100, Height: 150}, b.Trim)
	assert.Equal(t, Rect{X: 8, Y: 8, Width: 90, Height: 140}, b.Safe)
	assert.True(t, b.Bleed.Contains(b.Trim))
	assert.True(t, b.Trim.Contains(b.Safe))
	assert.False(t, b.Safe.Contains(b.Trim))

	assert.Equal(t, PxRect{Width: 1252, Height: 1843}, b.BleedPx)
	assert.Equal(t, MMToPx(3, 300), b.TrimPx.X)
}

func TestValidate(t *testing.T) {
	ok := PrintSpec{TrimWidthMM: 100, TrimHeightMM: 100, BleedMM: 3, SafeMM: 4, DPI: 300}
	require.NoError(t, ok.Validate())

	cases := map[string]func(*PrintSpec){
		"zero width":     func(s *PrintSpec) { s.TrimWidthMM = 0 },
		"negative bleed": func(s *PrintSpec) { s.BleedMM = -1 },
		"safe too large": func(s *PrintSpec) { s.SafeMM = 50 },
		"no dpi":         func(s *PrintSpec) { s.DPI = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := ok
			mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidSpec)
		})
	}
}

func TestFromGelato(t *testing.T) {
	s, err := FromGelato(model.GelatoProduct{ProductUID: "a4", WidthMM: 210, HeightMM: 297, Orientation: "landscape"})
	require.NoError(t, err)
	assert.Equal(t, 297.0, s.TrimWidthMM)
	assert.Equal(t, 210.0, s.TrimHeightMM)
	assert.Equal(t, Landscape, s.Orientation)
	assert.Equal(t, float64(DefaultBleedMM), s.BleedMM)
	assert.Equal(t, float64(DefaultSafeMM), s.SafeMM)
	assert.Equal(t, DefaultDPI, s.DPI)
	assert.Equal(t, 1, s.Pages)

	s, err = FromGelato(model.GelatoProduct{ProductUID: "sq", WidthMM: 200, HeightMM: 100, BleedMM: 2, SafeMM: 6})
	require.NoError(t, err)
	assert.Equal(t, Landscape, s.Orientation, "orientation inferred from size")
	assert.Equal(t, 2.0, s.BleedMM)

	_, err = FromGelato(model.GelatoProduct{ProductUID: "bad"})
	assert.ErrorIs(t, err, ErrInvalidSpec)
}

func TestPresets(t *testing.T) {
	names := Presets()
	assert.Contains(t, names, "card-a6")
	assert.IsIncreasing(t, names)

	s, ok := Preset("card-5x7")
	require.True(t, ok)
	assert.InDelta(t, 127.0, s.TrimWidthMM, 1e-9)
	assert.InDelta(t, 177.8, s.TrimHeightMM, 1e-9)
	assert.InDelta(t, 3.175, s.BleedMM, 1e-9)
	assert.Equal(t, Portrait, s.Orientation)

	_, ok = Preset("poster-a0")
	assert.False(t, ok)

	_, err := loadPresets([]byte("x:\n  unit: cubits\n  width: 1\n  height: 1\n"))
	assert.Error(t, err)
}

func TestForProduct(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	require.NoError(t, db.Create(&model.GelatoProduct{ProductUID: "card", WidthMM: 105, HeightMM: 148}).Error)

	s, err := ForProduct(ctx, db, model.Product{Kind: model.KindCard, GelatoProductUID: "card"})
	require.NoError(t, err)
	assert.Equal(t, 105.0, s.TrimWidthMM)

	s, err = ForProduct(ctx, db, model.Product{Kind: model.KindPrint, PrintPreset: "print-a4"})
	require.NoError(t, err)
	assert.Equal(t, 210.0, s.TrimWidthMM)

	_, err = ForProduct(ctx, db, model.Product{Kind: model.KindArtKey})
	assert.ErrorIs(t, err, ErrNotPrintable)

	_, err = ForProduct(ctx, db, model.Product{Kind: model.KindCard, GelatoProductUID: "missing"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = ForProduct(ctx, db, model.Product{Kind: model.KindCard, PrintPreset: "nope"})
	assert.ErrorIs(t, err, ErrInvalidSpec)
}
