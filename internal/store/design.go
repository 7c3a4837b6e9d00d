package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/ericoliveiras/artkey-store/internal/model"
)

// CreateDraft stores a new design draft for an available, printable product.
func CreateDraft(ctx context.Context, db *gorm.DB, d *model.DesignDraft) error {
	p, err := GetProduct(ctx, db, d.ProductID)
	if err != nil {
		return err
	}
	if !p.Available || !p.Kind.Printable() {
		return fmt.Errorf("product %d cannot be customized: %w", p.ID, ErrNotFound)
	}
	d.CustomerEmail = model.NormalizeEmail(d.CustomerEmail)
	return db.WithContext(ctx).Create(d).Error
}

func GetDraft(ctx context.Context, db *gorm.DB, id string) (*model.DesignDraft, error) {
	var d model.DesignDraft
	if err := db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

func SaveDraft(ctx context.Context, db *gorm.DB, d *model.DesignDraft) error {
	return db.WithContext(ctx).Save(d).Error
}

// DraftsForProducts loads the drafts referenced at checkout and checks each one
// belongs to the product it is attached to.
func DraftsForProducts(ctx context.Context, db *gorm.DB, byProduct map[uint]string) (map[uint]*model.DesignDraft, error) {
	out := make(map[uint]*model.DesignDraft, len(byProduct))
	for productID, draftID := range byProduct {
		d, err := GetDraft(ctx, db, draftID)
		if err != nil {
			return nil, fmt.Errorf("design %s: %w", draftID, err)
		}
		if d.ProductID != productID {
			return nil, fmt.Errorf("design %s belongs to product %d: %w", draftID, d.ProductID, ErrNotFound)
		}
		out[productID] = d
	}
	return out, nil
}
