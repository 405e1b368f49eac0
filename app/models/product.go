package models

import "github.com/shopspring/decimal"

// Product conditions accepted on create and update.
const (
	ConditionNew     = "New"
	ConditionLikeNew = "Like New"
	ConditionGood    = "Good"
	ConditionFair    = "Fair"
)

// DefaultCurrency applies when a listing omits one.
const DefaultCurrency = "GBP"

type Product struct {
	Base
	Title       string          `gorm:"size:255;not null;index" json:"title"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Currency    string          `gorm:"size:3;not null" json:"currency"`
	Condition   string          `gorm:"size:20;not null" json:"condition"`
	Location    string          `gorm:"size:255;not null;index" json:"location"`
	IsActive    bool            `gorm:"not null;index" json:"isActive"`
	IsPromoted  bool            `gorm:"not null;index" json:"isPromoted"`
	ViewCount   int64           `gorm:"not null;default:0" json:"viewCount"`

	Brand      *string `gorm:"size:255" json:"brand"`
	Model      *string `gorm:"size:255" json:"model"`
	Color      *string `gorm:"size:100" json:"color"`
	Size       *string `gorm:"size:100" json:"size"`
	Weight     *string `gorm:"size:100" json:"weight"`
	Dimensions *string `gorm:"size:255" json:"dimensions"`

	SellerID   string    `gorm:"type:varchar(36);not null;index" json:"sellerId"`
	Seller     *User     `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	CategoryID *string   `gorm:"type:varchar(36);index" json:"categoryId"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	Images []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`

	// filled by reads, never stored
	ConversationCount int64 `gorm:"-:all" json:"conversationCount"`
}

// ProductImage is one picture of a product; lists are ordered by SortOrder.
type ProductImage struct {
	Base
	ProductID string  `gorm:"type:varchar(36);not null;index" json:"productId"`
	ImageURL  string  `gorm:"type:text;not null" json:"imageUrl"`
	Alt       *string `gorm:"size:255" json:"alt"`
	SortOrder int     `gorm:"not null;default:0" json:"sortOrder"`
}
