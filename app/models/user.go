package models

import "time"

// Role is the account role used for authorization.
type Role string

const (
	RoleBuyer  Role = "BUYER"
	RoleSeller Role = "SELLER"
	RoleAdmin  Role = "ADMIN"
)

func (r Role) String() string { return string(r) }

type User struct {
	Base
	Email         string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password      string         `gorm:"size:255;not null" json:"-"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Role          Role           `gorm:"size:20;not null;index" json:"role"`
	Phone         *string        `gorm:"size:50" json:"phone"`
	Location      *string        `gorm:"size:255" json:"location"`
	Avatar        *string        `gorm:"type:text" json:"avatar"`
	IsActive      bool           `gorm:"not null" json:"isActive"`
	EmailVerified *time.Time     `json:"emailVerified"`
	SellerProfile *SellerProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"sellerProfile,omitempty"`
}

// UserSummary is the public slice of a user embedded in other payloads.
type UserSummary struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone"`
	Location *string `json:"location"`
	Avatar   *string `json:"avatar,omitempty"`
}

func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Phone:    u.Phone,
		Location: u.Location,
		Avatar:   u.Avatar,
	}
}
