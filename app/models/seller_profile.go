package models

import (
	"time"

	"github.com/eburutu/mart/app/verification"
)

// SellerProfile is a user's seller application and business details. A user
// has at most one.
type SellerProfile struct {
	Base
	UserID              string              `gorm:"type:varchar(36);not null;uniqueIndex" json:"userId"`
	User                *User               `gorm:"foreignKey:UserID" json:"user,omitempty"`
	BusinessName        *string             `gorm:"size:255" json:"businessName"`
	BusinessDescription *string             `gorm:"type:text" json:"businessDescription"`
	BusinessType        *string             `gorm:"size:100" json:"businessType"`
	IDDocumentURL       *string             `gorm:"type:text" json:"idDocumentUrl"`
	BusinessLicenseURL  *string             `gorm:"type:text" json:"businessLicenseUrl"`
	VerificationStatus  verification.Status `gorm:"size:20;not null;index" json:"verificationStatus"`
	VerificationNotes   *string             `gorm:"type:text" json:"verificationNotes"`
	SubmittedAt         *time.Time          `json:"submittedAt"`
	ReviewedAt          *time.Time          `json:"reviewedAt"`
	VerifiedAt          *time.Time          `json:"verifiedAt"`
	RejectedAt          *time.Time          `json:"rejectedAt"`
	AdminApproved       bool                `gorm:"not null" json:"adminApproved"`
	ReviewedByID        *string             `gorm:"type:varchar(36)" json:"reviewedById"`
}

// IsVerified reports whether listings by this seller carry the verified badge.
func (p *SellerProfile) IsVerified() bool {
	return p != nil && p.VerificationStatus == verification.Verified
}
