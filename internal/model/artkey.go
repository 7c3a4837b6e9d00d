package model

import "time"

// ArtKey is the personal portal unlocked by the QR code printed on an order.
type ArtKey struct {
	ID             uint             `gorm:"primaryKey" json:"id"`
	Slug           string           `gorm:"uniqueIndex;not null;size:32" json:"slug"`
	OrderID        uint             `gorm:"not null;index" json:"orderId"`
	OrderItemID    uint             `gorm:"not null" json:"orderItemId"`
	Title          string           `gorm:"size:200" json:"title"`
	Content        string           `gorm:"type:text" json:"content"`
	OwnerTokenHash string           `gorm:"not null" json:"-"`
	TokenExpiresAt time.Time        `json:"tokenExpiresAt"`
	Entries        []GuestbookEntry `gorm:"foreignKey:ArtKeyID" json:"entries,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// GuestbookEntry is a visitor message on an ArtKey. Replies point at their
// parent through ParentID.
type GuestbookEntry struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	ArtKeyID   uint             `gorm:"not null;index" json:"artKeyId"`
	ParentID   *uint            `gorm:"index" json:"parentId,omitempty"`
	Replies    []GuestbookEntry `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
	AuthorName string           `gorm:"not null;size:80" json:"authorName"`
	Message    string           `gorm:"type:text;not null" json:"message"`
	MediaURL   string           `json:"mediaUrl,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
}
