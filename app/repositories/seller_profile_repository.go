package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/eburutu/mart/app/models"
	"github.com/eburutu/mart/app/verification"
)

// SellerProfileRepository handles database operations for SellerProfile.
type SellerProfileRepository struct {
	db *gorm.DB
}

func NewSellerProfileRepository(db *gorm.DB) *SellerProfileRepository {
	return &SellerProfileRepository{db: db}
}

func (r *SellerProfileRepository) WithTx(tx *gorm.DB) *SellerProfileRepository {
	return &SellerProfileRepository{db: tx}
}

func (r *SellerProfileRepository) FindByID(ctx context.Context, id string) (*models.SellerProfile, error) {
	var p models.SellerProfile
	err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SellerProfileRepository) FindByUserID(ctx context.Context, userID string) (*models.SellerProfile, error) {
	var p models.SellerProfile
	err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns profiles newest first, optionally filtered by status.
func (r *SellerProfileRepository) List(ctx context.Context, status verification.Status) ([]models.SellerProfile, error) {
	var out []models.SellerProfile
	q := r.db.WithContext(ctx).Preload("User")
	if status != "" {
		q = q.Where("verification_status = ?", status)
	}
	err := q.Order("created_at DESC").Order("id").Find(&out).Error
	return out, err
}

func (r *SellerProfileRepository) Create(ctx context.Context, p *models.SellerProfile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// Save writes every column of p. The User association is never touched.
func (r *SellerProfileRepository) Save(ctx context.Context, p *models.SellerProfile) error {
	return r.db.WithContext(ctx).Omit("User").Save(p).Error
}

func (r *SellerProfileRepository) CountByStatus(ctx context.Context, status verification.Status) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.SellerProfile{}).
		Where("verification_status = ?", status).
		Count(&n).Error
	return n, err
}
