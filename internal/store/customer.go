package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ericoliveiras/artkey-store/internal/model"
)

// CreateCustomer inserts c, refusing an e-mail that is already registered.
func CreateCustomer(ctx context.Context, db *gorm.DB, c *model.Customer) error {
	c.Email = model.NormalizeEmail(c.Email)
	if c.Email == "" {
		return errors.New("email is required")
	}

	var count int64
	if err := db.WithContext(ctx).Model(&model.Customer{}).Where("email = ?", c.Email).Count(&count).Error; err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return ErrDuplicateEmail
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

// FindOrCreateCustomer returns the customer owning c.Email, creating it when
// missing. Contact fields of an existing customer are refreshed with the
// non-empty values of c.
func FindOrCreateCustomer(ctx context.Context, db *gorm.DB, c model.Customer) (*model.Customer, error) {
	email := model.NormalizeEmail(c.Email)

	var existing model.Customer
	err := db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := CreateCustomer(ctx, db, &c); err != nil {
			return nil, err
		}
		return &c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}

	updates := map[string]any{}
	for col, v := range map[string]string{
		"name":        c.Name,
		"phone":       c.Phone,
		"street":      c.Street,
		"city":        c.City,
		"postal_code": c.PostalCode,
		"country":     c.Country,
	} {
		if v != "" {
			updates[col] = v
		}
	}
	if len(updates) > 0 {
		if err := db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update customer: %w", err)
		}
	}
	return &existing, nil
}

// DeleteCustomer removes a customer that has never ordered.
func DeleteCustomer(ctx context.Context, db *gorm.DB, id uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c model.Customer
		if err := tx.First(&c, id).Error; err != nil {
			return notFound(err)
		}
		var orders int64
		if err := tx.Model(&model.Order{}).Where("customer_id = ?", id).Count(&orders).Error; err != nil {
			return err
		}
		if orders > 0 {
			return fmt.Errorf("customer %d has %d orders: %w", id, orders, ErrInUse)
		}
		// Hard delete frees the unique e-mail for a later checkout.
		return tx.Unscoped().Delete(&c).Error
	})
}
