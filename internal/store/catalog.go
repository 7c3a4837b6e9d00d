package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/ericoliveiras/artkey-store/internal/model"
)

func ListCategories(ctx context.Context, db *gorm.DB) ([]model.ShopCategory, error) {
	var categories []model.ShopCategory
	err := db.WithContext(ctx).Order("sort_order, name").Find(&categories).Error
	return categories, err
}

// ListProducts returns available products, optionally restricted to one
// category slug. An unknown slug yields ErrNotFound.
func ListProducts(ctx context.Context, db *gorm.DB, categorySlug string) ([]model.Product, error) {
	q := db.WithContext(ctx).Where("available = ?", true)
	if categorySlug != "" {
		var category model.ShopCategory
		if err := db.WithContext(ctx).Where("slug = ?", categorySlug).First(&category).Error; err != nil {
			return nil, notFound(err)
		}
		q = q.Where("category_id = ?", category.ID)
	}

	var products []model.Product
	if err := q.Order("name").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func GetProduct(ctx context.Context, db *gorm.DB, id uint) (*model.Product, error) {
	var p model.Product
	if err := db.WithContext(ctx).Preload("Category").Preload("Artist").First(&p, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// AvailableProducts loads the available products among ids, keyed by id.
func AvailableProducts(ctx context.Context, db *gorm.DB, ids []uint) (map[uint]model.Product, error) {
	out := make(map[uint]model.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var products []model.Product
	if err := db.WithContext(ctx).Where("id IN ? AND available = ?", ids, true).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func GetGelatoProduct(ctx context.Context, db *gorm.DB, uid string) (*model.GelatoProduct, error) {
	var g model.GelatoProduct
	if err := db.WithContext(ctx).Where("product_uid = ?", uid).First(&g).Error; err != nil {
		return nil, notFound(err)
	}
	return &g, nil
}

// DeleteCategory refuses to delete a category that still has products.
func DeleteCategory(ctx context.Context, db *gorm.DB, id uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c model.ShopCategory
		if err := tx.First(&c, id).Error; err != nil {
			return notFound(err)
		}
		var products int64
		if err := tx.Model(&model.Product{}).Where("category_id = ?", id).Count(&products).Error; err != nil {
			return err
		}
		if products > 0 {
			return fmt.Errorf("category %q has %d products: %w", c.Slug, products, ErrInUse)
		}
		return tx.Delete(&c).Error
	})
}

func GetArtist(ctx context.Context, db *gorm.DB, id uint) (*model.Artist, error) {
	var a model.Artist
	if err := db.WithContext(ctx).Preload("Assets").First(&a, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// DeleteArtist refuses to delete an artist that still owns assets.
func DeleteArtist(ctx context.Context, db *gorm.DB, id uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a model.Artist
		if err := tx.First(&a, id).Error; err != nil {
			return notFound(err)
		}
		var assets int64
		if err := tx.Model(&model.Asset{}).Where("artist_id = ?", id).Count(&assets).Error; err != nil {
			return err
		}
		if assets > 0 {
			return fmt.Errorf("artist %d has %d assets: %w", id, assets, ErrInUse)
		}
		return tx.Delete(&a).Error
	})
}
