package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/eburutu/mart/app/models"
	"github.com/eburutu/mart/app/repositories"
	"github.com/eburutu/mart/app/verification"
	"github.com/eburutu/mart/pkg/apperror"
)

type SellerProfileInput struct {
	BusinessName        *string `json:"businessName" validate:"nullable,max=255"`
	BusinessDescription *string `json:"businessDescription"`
	BusinessType        *string `json:"businessType" validate:"nullable,max=100"`
	IDDocumentURL       *string `json:"idDocumentUrl"`
	BusinessLicenseURL  *string `json:"businessLicenseUrl"`
}

// SellerStats is the seller dashboard summary.
type SellerStats struct {
	TotalProducts      int64                `json:"totalProducts"`
	ActiveProducts     int64                `json:"activeProducts"`
	TotalViews         int64                `json:"totalViews"`
	TotalMessages      int64                `json:"totalMessages"`
	VerificationStatus *verification.Status `json:"verificationStatus"`
}

// SellerService serves the seller dashboard: profile, own listings, stats.
type SellerService struct {
	db       *gorm.DB
	sellers  *repositories.SellerProfileRepository
	products *repositories.ProductRepository
	messages *repositories.MessageRepository
	media    *MediaStore
}

func NewSellerService(db *gorm.DB, repos *repositories.Repositories, media *MediaStore) *SellerService {
	return &SellerService{
		db:       db,
		sellers:  repos.Sellers,
		products: repos.Products,
		messages: repos.Messages,
		media:    media,
	}
}

// Profile returns the caller's seller profile with their contact details.
func (s *SellerService) Profile(ctx context.Context, userID string) (*VerificationView, error) {
	p, err := s.sellers.FindByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperror.NotFound("Seller profile not found")
		}
		return nil, apperror.Internal(err)
	}
	return newVerificationView(p), nil
}

// SaveProfile creates or updates the caller's seller profile. A new profile
// starts PENDING; a REJECTED one goes back to PENDING as a resubmission.
func (s *SellerService) SaveProfile(ctx context.Context, userID string, in SellerProfileInput) (*VerificationView, error) {
	up := s.media.batch()
	idDoc, err := storeDocument(ctx, up, in.IDDocumentURL)
	if err != nil {
		up.discard(ctx)
		return nil, err
	}
	license, err := storeDocument(ctx, up, in.BusinessLicenseURL)
	if err != nil {
		up.discard(ctx)
		return nil, err
	}

	var saved *models.SellerProfile
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sellers := s.sellers.WithTx(tx)
		now := time.Now().UTC()

		p, err := sellers.FindByUserID(ctx, userID)
		switch {
		case repositories.IsNotFound(err):
			p = &models.SellerProfile{
				UserID:             userID,
				VerificationStatus: verification.Pending,
				SubmittedAt:        &now,
			}
		case err != nil:
			return err
		}

		p.BusinessName = keepOr(in.BusinessName, p.BusinessName)
		p.BusinessDescription = keepOr(in.BusinessDescription, p.BusinessDescription)
		p.BusinessType = keepOr(in.BusinessType, p.BusinessType)
		p.IDDocumentURL = keepOr(idDoc, p.IDDocumentURL)
		p.BusinessLicenseURL = keepOr(license, p.BusinessLicenseURL)

		if p.ID == "" {
			if err := sellers.Create(ctx, p); err != nil {
				return err
			}
		} else {
			if next := verification.Resubmit(p.VerificationStatus); next != p.VerificationStatus {
				p.VerificationStatus = next
				p.SubmittedAt = &now
				p.AdminApproved = false
			}
			if err := sellers.Save(ctx, p); err != nil {
				return err
			}
		}

		saved, err = sellers.FindByUserID(ctx, userID)
		return err
	})
	if err != nil {
		up.discard(ctx)
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.Internal(err)
	}
	return newVerificationView(saved), nil
}

// Products lists every product of the caller, inactive ones included,
// newest first, each with at most its first image.
func (s *SellerService) Products(ctx context.Context, userID string) ([]models.Product, error) {
	products, err := s.products.ListBySeller(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	for i := range products {
		if len(products[i].Images) > 1 {
			products[i].Images = products[i].Images[:1]
		}
	}
	return products, nil
}

func (s *SellerService) Stats(ctx context.Context, userID string) (*SellerStats, error) {
	totals, err := s.products.SellerTotals(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	messages, err := s.messages.CountReceivedBy(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	stats := &SellerStats{
		TotalProducts:  totals.Total,
		ActiveProducts: totals.Active,
		TotalViews:     totals.Views,
		TotalMessages:  messages,
	}

	p, err := s.sellers.FindByUserID(ctx, userID)
	switch {
	case err == nil:
		stats.VerificationStatus = &p.VerificationStatus
	case !repositories.IsNotFound(err):
		return nil, apperror.Internal(err)
	}
	return stats, nil
}

func storeDocument(ctx context.Context, up *uploads, raw *string) (*string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	url, err := up.store(ctx, "documents", *raw)
	if err != nil {
		return nil, err
	}
	return &url, nil
}

// keepOr returns the trimmed update when provided, else the current value.
func keepOr(update, current *string) *string {
	if update == nil {
		return current
	}
	v := strings.TrimSpace(*update)
	return &v
}
