package printspec

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ericoliveiras/artkey-store/internal/model"
	"github.com/ericoliveiras/artkey-store/internal/store"
)

var ErrNotPrintable = errors.New("product has no print spec")

// ForProduct resolves the print spec of a printable product from its vendor catalog
// row, or from its named preset when it has none.
func ForProduct(ctx context.Context, db *gorm.DB, p model.Product) (PrintSpec, error) {
	if !p.Kind.Printable() {
		return PrintSpec{}, ErrNotPrintable
	}
	if p.GelatoProductUID != "" {
		g, err := store.GetGelatoProduct(ctx, db, p.GelatoProductUID)
		if err != nil {
			return PrintSpec{}, fmt.Errorf("product %d catalog row: %w", p.ID, err)
		}
		return FromGelato(*g)
	}
	if p.PrintPreset != "" {
		s, ok := Preset(p.PrintPreset)
		if !ok {
			return PrintSpec{}, fmt.Errorf("product %d: unknown preset %q: %w", p.ID, p.PrintPreset, ErrInvalidSpec)
		}
		return s, nil
	}
	return PrintSpec{}, ErrNotPrintable
}
