// Package store holds the gorm queries shared by the HTTP handlers and the CLI,
// including the referential guards checked before deletes.
package store

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrInUse          = errors.New("record is still referenced")
	ErrDuplicateEmail = errors.New("email already registered")
)

// notFound translates gorm's sentinel so callers only check ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
