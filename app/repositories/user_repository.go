package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/eburutu/mart/app/models"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

// FindByEmail looks up a user by their (lower-cased) email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID looks up a user by primary key, with their seller profile if any.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("SellerProfile").Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByEmail reports whether the email is taken.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&n).Error
	return n > 0, err
}

// Create persists a new user record.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// UpdateRole changes the role of one user.
func (r *UserRepository) UpdateRole(ctx context.Context, id string, role models.Role) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role).Error
}

// Lookup returns the current role and active flag of a user.
func (r *UserRepository) Lookup(ctx context.Context, id string) (string, bool, error) {
	var row struct {
		Role     string
		IsActive bool
	}
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("role", "is_active").
		Where("id = ?", id).
		Take(&row).Error
	if err != nil {
		return "", false, err
	}
	return row.Role, row.IsActive, nil
}

// Count returns the number of users, optionally restricted to roles.
func (r *UserRepository) Count(ctx context.Context, roles ...models.Role) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.User{})
	if len(roles) > 0 {
		q = q.Where("role IN ?", roles)
	}
	err := q.Count(&n).Error
	return n, err
}
