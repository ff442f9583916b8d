package repositories

import (
	"errors"

	gormlib "gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a row looked up by key does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when an insert hits a uniqueness constraint.
	ErrConflict = errors.New("record already exists")
)

// translate maps driver-level uniqueness errors onto ErrConflict.
func translate(err error) error {
	if errors.Is(err, gormlib.ErrDuplicatedKey) {
		return ErrConflict
	}
	return err
}
