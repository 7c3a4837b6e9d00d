package model

import (
	"time"

	"gorm.io/gorm"
)

// ProductKind decides how a product goes through checkout and the design editor.
type ProductKind string

const (
	KindStandard ProductKind = "standard"
	KindCard     ProductKind = "card"
	KindPrint    ProductKind = "print"
	KindArtKey   ProductKind = "artkey"
)

// Printable reports whether the product is customized in the design editor.
func (k ProductKind) Printable() bool {
	return k == KindCard || k == KindPrint
}

// ShopCategory groups products in the storefront.
type ShopCategory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null;size:100" json:"name"`
	Slug        string    `gorm:"uniqueIndex;not null;size:100" json:"slug"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	SortOrder   int       `gorm:"default:0" json:"sortOrder"`
	Products    []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Product is an item sold in the store.
type Product struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	CategoryID       uint           `gorm:"not null;index" json:"categoryId"`
	Category         *ShopCategory  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	ArtistID         *uint          `gorm:"index" json:"artistId,omitempty"`
	Artist           *Artist        `gorm:"foreignKey:ArtistID" json:"artist,omitempty"`
	Name             string         `gorm:"not null;size:100" json:"name"`
	Slug             string         `gorm:"uniqueIndex;not null;size:120" json:"slug"`
	Description      string         `gorm:"type:text" json:"description,omitempty"`
	Price            float64        `gorm:"not null" json:"price"`
	ImageURL         string         `json:"imageUrl,omitempty"`
	Available        bool           `gorm:"not null" json:"available"`
	Kind             ProductKind    `gorm:"type:varchar(20);not null;default:'standard'" json:"kind"`
	GelatoProductUID string         `gorm:"size:200" json:"gelatoProductUid,omitempty"` // catalog row with print attributes
	PrintPreset      string         `gorm:"size:50" json:"printPreset,omitempty"`       // fallback when there is no catalog row
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// Artist owns the artwork assets some products are printed from.
type Artist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:120" json:"name"`
	Bio       string    `gorm:"type:text" json:"bio,omitempty"`
	Website   string    `gorm:"size:255" json:"website,omitempty"`
	Assets    []Asset   `gorm:"foreignKey:ArtistID" json:"assets,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Asset struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ArtistID  uint      `gorm:"not null;index" json:"artistId"`
	Title     string    `gorm:"size:200" json:"title"`
	ImageURL  string    `gorm:"not null" json:"imageUrl"`
	WidthPx   int       `json:"widthPx"`
	HeightPx  int       `json:"heightPx"`
	CreatedAt time.Time `json:"createdAt"`
}

// GelatoProduct is a cached vendor catalog row. Only the attributes needed to
// derive a PrintSpec are kept.
type GelatoProduct struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProductUID  string    `gorm:"uniqueIndex;not null;size:200" json:"productUid"`
	Title       string    `gorm:"size:200" json:"title"`
	WidthMM     float64   `json:"widthMm"`
	HeightMM    float64   `json:"heightMm"`
	BleedMM     float64   `json:"bleedMm"`
	SafeMM      float64   `json:"safeMm"`
	Orientation string    `gorm:"size:20" json:"orientation,omitempty"` // portrait | landscape
	Pages       int       `json:"pages"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
