package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/ericoliveiras/artkey-store/internal/model"
)

// GetOrderByReference loads an order with its customer and items. The e-mail
// must match the buyer's, otherwise the order is reported as missing.
func GetOrderByReference(ctx context.Context, db *gorm.DB, ref, email string) (*model.Order, error) {
	var o model.Order
	err := db.WithContext(ctx).
		Preload("Customer").
		Preload("Items.Product").
		Where("external_reference = ?", ref).
		First(&o).Error
	if err != nil {
		return nil, notFound(err)
	}
	if o.Customer.Email != model.NormalizeEmail(email) {
		return nil, ErrNotFound
	}
	return &o, nil
}
