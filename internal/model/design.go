package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DesignDraft holds what the customer built in the editor for a printable
// product: the uploaded image and where it sits on the bleed canvas.
type DesignDraft struct {
	ID            string  `gorm:"primaryKey;size:36" json:"id"`
	ProductID     uint    `gorm:"not null;index" json:"productId"`
	Product       Product `gorm:"foreignKey:ProductID" json:"-"`
	CustomerEmail string  `gorm:"size:255" json:"customerEmail,omitempty"`
	ImageURL      string  `json:"imageUrl,omitempty"`
	ImageWidthPx  int     `json:"imageWidthPx"`
	ImageHeightPx int     `json:"imageHeightPx"`
	FitMode       string  `gorm:"size:10;default:'fill'" json:"fitMode"`
	// Placement in canvas millimetres, relative to the bleed box origin.
	PlacementX      float64   `json:"placementX"`
	PlacementY      float64   `json:"placementY"`
	PlacementWidth  float64   `json:"placementWidth"`
	PlacementHeight float64   `json:"placementHeight"`
	Text            string    `gorm:"type:text" json:"text,omitempty"`
	QRSlug          string    `gorm:"size:32" json:"qrSlug,omitempty"` // ArtKey composited on export
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// BeforeCreate assigns the draft id.
func (d *DesignDraft) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// HasPlacement reports whether the editor already positioned the image.
func (d *DesignDraft) HasPlacement() bool {
	return d.PlacementWidth > 0 && d.PlacementHeight > 0
}
