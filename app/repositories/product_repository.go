package repositories

import (
	"context"
	"database/sql"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/eburutu/mart/app/models"
	"github.com/eburutu/mart/app/verification"
	"github.com/eburutu/mart/pkg/orm"
)

// ProductFilter narrows the public catalog. Zero fields are ignored.
type ProductFilter struct {
	CategorySlug string
	Search       string
	Location     string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	VerifiedOnly bool
}

// Scopes turns the filter into query fragments. Active-only is always applied.
func (f ProductFilter) Scopes() []orm.Scope {
	scopes := []orm.Scope{func(db *gorm.DB) *gorm.DB {
		return db.Where("products.is_active = ?", true)
	}}

	if f.CategorySlug != "" {
		slug := f.CategorySlug
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("products.category_id IN (?)",
				db.Session(&gorm.Session{NewDB: true}).Model(&models.Category{}).Select("id").Where("slug = ?", slug))
		})
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("(LOWER(products.title) LIKE ? OR LOWER(products.description) LIKE ?)", like, like)
		})
	}
	if l := strings.TrimSpace(f.Location); l != "" {
		like := "%" + strings.ToLower(l) + "%"
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("LOWER(products.location) LIKE ?", like)
		})
	}
	if f.MinPrice != nil {
		lo := *f.MinPrice
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Where("products.price >= ?", lo) })
	}
	if f.MaxPrice != nil {
		hi := *f.MaxPrice
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Where("products.price <= ?", hi) })
	}
	if f.VerifiedOnly {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("products.seller_id IN (?)",
				db.Session(&gorm.Session{NewDB: true}).Model(&models.SellerProfile{}).
					Select("user_id").
					Where("verification_status = ?", verification.Verified))
		})
	}
	return scopes
}

// catalogOrder puts promoted listings first, then the newest.
func catalogOrder(db *gorm.DB) *gorm.DB {
	return db.Order("products.is_promoted DESC").Order("products.created_at DESC").Order("products.id")
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("products.created_at DESC").Order("products.id")
}

func orderedImages(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC").Order("created_at ASC")
}

// withDetails preloads everything a product card or page shows.
func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Seller").
		Preload("Seller.SellerProfile").
		Preload("Category").
		Preload("Images", orderedImages)
}

// ProductRepository handles database operations for Product and its images.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

// Search returns one page of active products matching f.
func (r *ProductRepository) Search(ctx context.Context, f ProductFilter, page orm.Page) ([]models.Product, orm.Pagination, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Product{}).Scopes(f.Scopes()...)
	}

	products := []models.Product{}
	p, err := orm.Paginate(base, page, &products, catalogOrder, withDetails)
	if err != nil {
		return nil, orm.Pagination{}, err
	}
	return products, p, nil
}

// FindActive loads an active product with its details.
func (r *ProductRepository) FindActive(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).
		Scopes(withDetails).
		Where("products.id = ? AND products.is_active = ?", id, true).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByID loads a product whether or not it is active.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).
		Scopes(withDetails).
		Where("products.id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// IncrementViews adds one to the view counter without touching updated_at.
func (r *ProductRepository) IncrementViews(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

// Create inserts the product together with its images.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Omit("Seller", "Category").Create(p).Error
}

// Update sets the given columns on one product.
func (r *ProductRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(fields).Error
}

// DeleteImages removes the listed images of one product. Ids belonging to
// other products are ignored.
func (r *ProductRepository) DeleteImages(ctx context.Context, productID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("product_id = ? AND id IN ?", productID, ids).
		Delete(&models.ProductImage{}).Error
}

func (r *ProductRepository) DeleteAllImages(ctx context.Context, productID string) error {
	return r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error
}

// MaxImageSortOrder returns the highest sort order of a product's images,
// or -1 when it has none.
func (r *ProductRepository) MaxImageSortOrder(ctx context.Context, productID string) (int, error) {
	var top sql.NullInt64
	err := r.db.WithContext(ctx).Model(&models.ProductImage{}).
		Select("MAX(sort_order)").
		Where("product_id = ?", productID).
		Row().Scan(&top)
	if err != nil {
		return 0, err
	}
	if !top.Valid {
		return -1, nil
	}
	return int(top.Int64), nil
}

func (r *ProductRepository) CreateImages(ctx context.Context, images []models.ProductImage) error {
	if len(images) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&images).Error
}

// ListBySeller returns every product of a seller, newest first.
func (r *ProductRepository) ListBySeller(ctx context.Context, sellerID string) ([]models.Product, error) {
	products := []models.Product{}
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Images", orderedImages).
		Where("products.seller_id = ?", sellerID).
		Scopes(newestFirst).
		Find(&products).Error
	return products, err
}

// List returns one page of all products, active or not, newest first.
func (r *ProductRepository) List(ctx context.Context, page orm.Page) ([]models.Product, orm.Pagination, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Product{})
	}

	products := []models.Product{}
	p, err := orm.Paginate(base, page, &products, newestFirst, withDetails)
	if err != nil {
		return nil, orm.Pagination{}, err
	}
	return products, p, nil
}

func (r *ProductRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Where("is_active = ?", true).Count(&n).Error
	return n, err
}

// SellerTotals are the listing figures on a seller dashboard.
type SellerTotals struct {
	Total  int64
	Active int64
	Views  int64
}

func (r *ProductRepository) SellerTotals(ctx context.Context, sellerID string) (SellerTotals, error) {
	var t SellerTotals
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Product{}).Where("seller_id = ?", sellerID).Count(&t.Total).Error; err != nil {
		return t, err
	}
	if err := db.Model(&models.Product{}).
		Where("seller_id = ? AND is_active = ?", sellerID, true).
		Count(&t.Active).Error; err != nil {
		return t, err
	}

	var views sql.NullInt64
	if err := db.Model(&models.Product{}).
		Select("SUM(view_count)").
		Where("seller_id = ?", sellerID).
		Row().Scan(&views); err != nil {
		return t, err
	}
	t.Views = views.Int64
	return t, nil
}
