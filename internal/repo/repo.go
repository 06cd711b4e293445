package repo

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is the storage-level miss every repo method reports instead of
// leaking gorm.ErrRecordNotFound upwards.
var ErrNotFound = errors.New("not found")

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
