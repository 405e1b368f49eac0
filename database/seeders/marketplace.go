package seeders

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/eburutu/mart/app/models"
	"github.com/eburutu/mart/app/verification"
	"github.com/eburutu/mart/pkg/auth"
)

func init() {
	Register("admin", SeedAdmin)
	Register("categories", SeedCategories)
	Register("sellers", SeedSellers)
	Register("products", SeedProducts)
}

const (
	AdminEmail     = "john@doe.com"
	adminPassword  = "johndoe123"
	sellerPassword = "password123"
)

func ptr(s string) *string { return &s }

// SeedAdmin creates the demo administrator.
func SeedAdmin(db *gorm.DB) error {
	_, err := firstOrCreateUser(db, models.User{
		Email:    AdminEmail,
		Name:     "John Doe",
		Role:     models.RoleAdmin,
		Phone:    ptr("+44 123 456 7890"),
		Location: ptr("London, UK"),
	}, adminPassword)
	return err
}

var categories = []models.Category{
	{
		Name:        "Fashion & Textiles",
		Slug:        "fashion-textiles",
		SortOrder:   1,
		Description: ptr("Authentic African clothing, fabrics, and accessories including Ankara, Kente, Dashiki, and traditional wear"),
		ImageURL:    ptr("https://i.pinimg.com/originals/48/c6/ce/48c6ce2bc13ba1140facbf5865114d1a.jpg"),
	},
	{
		Name:        "Food & Groceries",
		Slug:        "food-groceries",
		SortOrder:   2,
		Description: ptr("Traditional African spices, ingredients, and delicacies including Jollof rice ingredients, palm oil, and more"),
		ImageURL:    ptr("https://images.unsplash.com/photo-1596040033229-a9821ebd058d?w=800&h=600&fit=crop"),
	},
	{
		Name:        "Artisan Crafts",
		Slug:        "artisan-crafts",
		SortOrder:   3,
		Description: ptr("Handmade pottery, jewelry, sculptures, and traditional African artwork"),
		ImageURL:    ptr("https://images.unsplash.com/photo-1578662996442-48f60103fc96?w=800&h=600&fit=crop"),
	},
	{
		Name:        "Media & Culture",
		Slug:        "media-culture",
		SortOrder:   4,
		Description: ptr("African books, music, films, and cultural content celebrating heritage"),
		ImageURL:    ptr("https://images.unsplash.com/photo-1481627834876-b7833e8f5570?w=800&h=600&fit=crop"),
	},
	{
		Name:        "Services",
		Slug:        "services",
		SortOrder:   5,
		Description: ptr("Cultural consulting, language tutoring, event planning, and professional services"),
		ImageURL:    ptr("https://images.unsplash.com/photo-1560472354-b33ff0c44a43?w=800&h=600&fit=crop"),
	},
	{
		Name:        "Beauty & Wellness",
		Slug:        "beauty-wellness",
		SortOrder:   6,
		Description: ptr("Natural skincare, hair care, shea butter, black soap, and wellness products"),
		ImageURL:    ptr("https://images.unsplash.com/photo-1596462502278-27bfdc403348?w=800&h=600&fit=crop"),
	},
	{
		Name:        "Hardware & Machinery",
		Slug:        "hardware-machinery",
		SortOrder:   7,
		Description: ptr("Vehicles, computers, generators, electronics, industrial equipment, and machinery for home and business"),
		ImageURL:    ptr("https://images.unsplash.com/photo-1558618666-fcd25c85cd64?w=800&h=600&fit=crop"),
	},
	{
		Name:        "Business Opportunities",
		Slug:        "business-opportunities",
		SortOrder:   8,
		Description: ptr("Investment opportunities, real estate in Africa, franchise partnerships, and business ventures"),
		ImageURL:    ptr("https://images.unsplash.com/photo-1486406146926-c627a92ad1ab?w=800&h=600&fit=crop"),
	},
}

// SeedCategories creates the marketplace categories, keyed by slug.
func SeedCategories(db *gorm.DB) error {
	for _, c := range categories {
		c.IsActive = true
		if err := db.Where(models.Category{Slug: c.Slug}).FirstOrCreate(&c).Error; err != nil {
			return fmt.Errorf("category %s: %w", c.Slug, err)
		}
	}
	return nil
}

type demoSeller struct {
	user                models.User
	businessName        string
	businessDescription string
	businessType        string
}

var sellers = []demoSeller{
	{models.User{Email: "amara@textiles.com", Name: "Amara Okafor", Phone: ptr("+44 207 123 4567"), Location: ptr("London, UK")},
		"Amara Textiles", "Authentic African fabrics and traditional clothing", "Fashion & Textiles"},
	{models.User{Email: "kwame@heritage.com", Name: "Kwame Asante", Phone: ptr("+44 161 234 5678"), Location: ptr("Manchester, UK")},
		"Heritage Crafts", "Traditional African woodwork and sculptures", "Artisan Crafts"},
	{models.User{Email: "fatima@kitchen.com", Name: "Fatima Al-Hassan", Phone: ptr("+44 121 345 6789"), Location: ptr("Birmingham, UK")},
		"Mama's Kitchen", "Authentic African spices and cooking ingredients", "Food & Groceries"},
	{models.User{Email: "adaora@natural.com", Name: "Adaora Ikenna", Phone: ptr("+44 113 456 7890"), Location: ptr("Leeds, UK")},
		"Natural Roots", "Premium shea butter and natural African beauty products", "Beauty & Wellness"},
}

// SeedSellers creates four verified sellers reviewed by the demo admin.
func SeedSellers(db *gorm.DB) error {
	var admin models.User
	if err := db.Where("email = ?", AdminEmail).First(&admin).Error; err != nil {
		return fmt.Errorf("admin must be seeded first: %w", err)
	}

	now := time.Now().UTC()
	for _, s := range sellers {
		u := s.user
		u.Role = models.RoleSeller
		user, err := firstOrCreateUser(db, u, sellerPassword)
		if err != nil {
			return err
		}

		profile := models.SellerProfile{
			UserID:              user.ID,
			BusinessName:        ptr(s.businessName),
			BusinessDescription: ptr(s.businessDescription),
			BusinessType:        ptr(s.businessType),
			VerificationStatus:  verification.Verified,
			AdminApproved:       true,
			SubmittedAt:         &now,
			ReviewedAt:          &now,
			VerifiedAt:          &now,
			ReviewedByID:        &admin.ID,
		}
		if err := db.Where(models.SellerProfile{UserID: user.ID}).FirstOrCreate(&profile).Error; err != nil {
			return fmt.Errorf("seller profile %s: %w", user.Email, err)
		}
	}
	return nil
}

type demoProduct struct {
	title, description string
	price              string
	location           string
	categorySlug       string
	sellerEmail        string
	brand              string
	color, size        string
	weight, dimensions string
	promoted           bool
	imageURL, imageAlt string
}

var products = []demoProduct{
	{
		title:        "Authentic Ankara Fabric Set",
		description:  "Beautiful hand-woven Ankara fabric perfect for traditional wear. High-quality cotton with vibrant African patterns. Available in multiple colors and designs.",
		price:        "45.99",
		location:     "London, UK",
		categorySlug: "fashion-textiles",
		sellerEmail:  "amara@textiles.com",
		brand:        "Amara Textiles",
		color:        "Multi-color",
		size:         "6 yards",
		promoted:     true,
		imageURL:     "https://i.pinimg.com/originals/d9/87/65/d9876528e73af2f8b24a245cc91247d7.jpg",
		imageAlt:     "Colorful Ankara fabric with traditional patterns",
	},
	{
		title:        "Hand-Carved Wooden Sculpture",
		description:  "Intricate wooden sculpture depicting African heritage and traditions. Handcrafted by skilled artisans using traditional techniques.",
		price:        "125.00",
		location:     "Manchester, UK",
		categorySlug: "artisan-crafts",
		sellerEmail:  "kwame@heritage.com",
		brand:        "Heritage Crafts",
		dimensions:   "30cm x 15cm x 10cm",
		promoted:     true,
		imageURL:     "https://images.unsplash.com/photo-1578662996442-48f60103fc96?w=800&h=600&fit=crop",
		imageAlt:     "Traditional African wooden sculpture",
	},
	{
		title:        "Jollof Rice Spice Kit",
		description:  "Complete spice kit for authentic West African jollof rice. Includes all necessary spices and detailed recipe instructions.",
		price:        "18.99",
		location:     "Birmingham, UK",
		categorySlug: "food-groceries",
		sellerEmail:  "fatima@kitchen.com",
		brand:        "Mama's Kitchen",
		weight:       "500g",
		imageURL:     "https://images.unsplash.com/photo-1596040033229-a9821ebd058d?w=800&h=600&fit=crop",
		imageAlt:     "African spices for jollof rice",
	},
	{
		title:        "Premium Shea Butter Collection",
		description:  "Pure, unrefined shea butter imported directly from Ghana. Perfect for natural skincare and hair care routines.",
		price:        "28.50",
		location:     "Leeds, UK",
		categorySlug: "beauty-wellness",
		sellerEmail:  "adaora@natural.com",
		brand:        "Natural Roots",
		weight:       "250g",
		imageURL:     "https://images.unsplash.com/photo-1596462502278-27bfdc403348?w=800&h=600&fit=crop",
		imageAlt:     "Natural shea butter beauty products",
	},
	{
		title:        "Traditional Kente Cloth",
		description:  "Handwoven Kente cloth with traditional patterns and colors. Perfect for special occasions and cultural celebrations.",
		price:        "199.99",
		location:     "London, UK",
		categorySlug: "fashion-textiles",
		sellerEmail:  "amara@textiles.com",
		brand:        "Amara Textiles",
		color:        "Gold and Black",
		size:         "4 yards",
		promoted:     true,
		imageURL:     "https://i.pinimg.com/originals/2c/4f/a2/2c4fa2387be31a33b43f97cada597caf.png",
		imageAlt:     "Traditional Kente cloth with African patterns",
	},
	{
		title:        "African Literature Collection",
		description:  "Curated selection of contemporary African literature featuring works by renowned African authors.",
		price:        "89.99",
		location:     "Bristol, UK",
		categorySlug: "media-culture",
		sellerEmail:  "amara@textiles.com",
		brand:        "Cultural Pages",
		imageURL:     "https://images.unsplash.com/photo-1481627834876-b7833e8f5570?w=800&h=600&fit=crop",
		imageAlt:     "Collection of African books and literature",
	},
}

// SeedProducts lists the sample products. A product is skipped when its
// seller already has one with the same title.
func SeedProducts(db *gorm.DB) error {
	for _, d := range products {
		var seller models.User
		if err := db.Where("email = ?", d.sellerEmail).First(&seller).Error; err != nil {
			return fmt.Errorf("product %q: seller %s: %w", d.title, d.sellerEmail, err)
		}
		var category models.Category
		if err := db.Where("slug = ?", d.categorySlug).First(&category).Error; err != nil {
			return fmt.Errorf("product %q: category %s: %w", d.title, d.categorySlug, err)
		}

		var n int64
		if err := db.Model(&models.Product{}).
			Where("seller_id = ? AND title = ?", seller.ID, d.title).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			continue
		}

		p := models.Product{
			Title:       d.title,
			Description: d.description,
			Price:       decimal.RequireFromString(d.price),
			Currency:    models.DefaultCurrency,
			Condition:   models.ConditionNew,
			Location:    d.location,
			IsActive:    true,
			IsPromoted:  d.promoted,
			SellerID:    seller.ID,
			CategoryID:  &category.ID,
			Brand:       optional(d.brand),
			Color:       optional(d.color),
			Size:        optional(d.size),
			Weight:      optional(d.weight),
			Dimensions:  optional(d.dimensions),
			Images: []models.ProductImage{
				{ImageURL: d.imageURL, Alt: ptr(d.imageAlt)},
			},
		}
		if err := db.Create(&p).Error; err != nil {
			return fmt.Errorf("product %q: %w", d.title, err)
		}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func firstOrCreateUser(db *gorm.DB, u models.User, password string) (*models.User, error) {
	var existing models.User
	err := db.Where("email = ?", u.Email).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u.Password = hash
	u.IsActive = true
	u.EmailVerified = &now
	if err := db.Create(&u).Error; err != nil {
		return nil, fmt.Errorf("user %s: %w", u.Email, err)
	}
	return &u, nil
}
