package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateID       = errors.New("product id already exists")
)

type GormRepo struct {
	DB *gorm.DB
}
