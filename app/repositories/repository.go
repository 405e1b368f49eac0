// Package repositories is the gorm data access layer. Every repository wraps
// a *gorm.DB and can be rebound to a transaction with WithTx.
package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// IsNotFound reports whether err means no row matched.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// Repositories bundles one of each repository over the same connection.
type Repositories struct {
	Users      *UserRepository
	Sellers    *SellerProfileRepository
	Categories *CategoryRepository
	Products   *ProductRepository
	Messages   *MessageRepository
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:      NewUserRepository(db),
		Sellers:    NewSellerProfileRepository(db),
		Categories: NewCategoryRepository(db),
		Products:   NewProductRepository(db),
		Messages:   NewMessageRepository(db),
	}
}
