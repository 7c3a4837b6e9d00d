// Package portal manages ArtKey portals: issuing them at checkout, checking
// the owner token, and the public guestbook.
package portal

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ericoliveiras/artkey-store/internal/model"
	"github.com/ericoliveiras/artkey-store/internal/store"
)

var (
	ErrForbidden    = errors.New("invalid artkey token")
	ErrTokenExpired = errors.New("artkey token expired")
	ErrInvalidEntry = errors.New("invalid guestbook entry")
)

const (
	slugLen       = 10
	maxAuthorLen  = 80
	maxMessageLen = 2000
)

type Service struct {
	DB   *gorm.DB
	TTL  time.Duration
	Cost int              // bcrypt cost; zero means bcrypt.DefaultCost
	Now  func() time.Time // nil means time.Now
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func randomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func newSlug() (string, error) {
	s, err := randomString(8) // 11 chars before trimming
	if err != nil {
		return "", err
	}
	return s[:slugLen], nil
}

// Issue creates the ArtKey for an order line inside tx and returns it with
// the plaintext owner token. Only the token's bcrypt hash is stored.
func (s *Service) Issue(ctx context.Context, tx *gorm.DB, orderID, itemID uint, title string) (*model.ArtKey, string, error) {
	token, err := randomString(32)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	cost := s.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), cost)
	if err != nil {
		return nil, "", fmt.Errorf("hash token: %w", err)
	}
	slug, err := newSlug()
	if err != nil {
		return nil, "", fmt.Errorf("generate slug: %w", err)
	}

	key := &model.ArtKey{
		Slug:           slug,
		OrderID:        orderID,
		OrderItemID:    itemID,
		Title:          title,
		OwnerTokenHash: string(hash),
		TokenExpiresAt: s.now().Add(s.TTL),
	}
	if err := tx.WithContext(ctx).Create(key).Error; err != nil {
		return nil, "", fmt.Errorf("create artkey: %w", err)
	}
	return key, token, nil
}

// VerifyOwner checks token against key. Expiry is checked first, so an expired
// key reports ErrTokenExpired even for the right token.
func VerifyOwner(key *model.ArtKey, token string, now time.Time) error {
	if !now.Before(key.TokenExpiresAt) {
		return ErrTokenExpired
	}
	if token == "" {
		return ErrForbidden
	}
	if err := bcrypt.CompareHashAndPassword([]byte(key.OwnerTokenHash), []byte(token)); err != nil {
		return ErrForbidden
	}
	return nil
}

// Get loads a portal with its top-level guestbook entries, newest first, and
// their replies oldest first.
func (s *Service) Get(ctx context.Context, slug string) (*model.ArtKey, error) {
	var key model.ArtKey
	err := s.DB.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Where("parent_id IS NULL").Order("created_at DESC, id DESC")
		}).
		Preload("Entries.Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at, id")
		}).
		Where("slug = ?", slug).
		First(&key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	return &key, err
}

func (s *Service) lookup(ctx context.Context, slug string) (*model.ArtKey, error) {
	var key model.ArtKey
	if err := s.DB.WithContext(ctx).Where("slug = ?", slug).First(&key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &key, nil
}

type Update struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// Edit applies u to the portal after checking the owner token.
func (s *Service) Edit(ctx context.Context, slug, token string, u Update) (*model.ArtKey, error) {
	key, err := s.lookup(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := VerifyOwner(key, token, s.now()); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if u.Title != nil {
		key.Title = strings.TrimSpace(*u.Title)
		updates["title"] = key.Title
	}
	if u.Content != nil {
		key.Content = *u.Content
		updates["content"] = key.Content
	}
	if len(updates) > 0 {
		if err := s.DB.WithContext(ctx).Model(key).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update artkey: %w", err)
		}
	}
	return key, nil
}

type NewEntry struct {
	AuthorName string `json:"authorName"`
	Message    string `json:"message"`
	MediaURL   string `json:"mediaUrl"`
	ParentID   *uint  `json:"parentId"`
}

// AddEntry posts to a portal's guestbook. A reply must point at a top-level
// entry of the same portal.
func (s *Service) AddEntry(ctx context.Context, slug string, in NewEntry) (*model.GuestbookEntry, error) {
	author := strings.TrimSpace(in.AuthorName)
	message := strings.TrimSpace(in.Message)
	if n := utf8.RuneCountInString(author); n == 0 || n > maxAuthorLen {
		return nil, fmt.Errorf("%w: author must be 1-%d characters", ErrInvalidEntry, maxAuthorLen)
	}
	if n := utf8.RuneCountInString(message); n == 0 || n > maxMessageLen {
		return nil, fmt.Errorf("%w: message must be 1-%d characters", ErrInvalidEntry, maxMessageLen)
	}

	key, err := s.lookup(ctx, slug)
	if err != nil {
		return nil, err
	}

	entry := &model.GuestbookEntry{
		ArtKeyID:   key.ID,
		ParentID:   in.ParentID,
		AuthorName: author,
		Message:    message,
		MediaURL:   strings.TrimSpace(in.MediaURL),
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.ParentID != nil {
			var parent model.GuestbookEntry
			err := tx.Where("id = ? AND art_key_id = ?", *in.ParentID, key.ID).First(&parent).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: unknown parent entry", ErrInvalidEntry)
			}
			if err != nil {
				return err
			}
			if parent.ParentID != nil {
				return fmt.Errorf("%w: replies cannot be answered", ErrInvalidEntry)
			}
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// URL is the public address a portal's QR code points at.
func URL(publicBase, slug string) string {
	return strings.TrimRight(publicBase, "/") + "/a/" + slug
}
