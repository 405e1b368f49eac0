package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/eburutu/mart/app/models"
	"github.com/eburutu/mart/app/repositories"
	"github.com/eburutu/mart/pkg/apperror"
	"github.com/eburutu/mart/pkg/logger"
	"github.com/eburutu/mart/pkg/metrics"
	"github.com/eburutu/mart/pkg/orm"
)

const (
	DefaultCatalogLimit = 12
	MaxCatalogLimit     = 100
)

// CatalogQuery is the raw query string of GET /api/products. Page and Limit
// are already parsed; non-positive values mean "use the default".
type CatalogQuery struct {
	Category string
	Search   string
	Location string
	MinPrice string
	MaxPrice string
	Verified string
	Page     int
	Limit    int
}

// Filter converts the query into a repository filter. Unparseable prices
// are dropped rather than rejected.
func (q CatalogQuery) Filter() repositories.ProductFilter {
	return repositories.ProductFilter{
		CategorySlug: strings.TrimSpace(q.Category),
		Search:       q.Search,
		Location:     q.Location,
		MinPrice:     parsePrice(q.MinPrice),
		MaxPrice:     parsePrice(q.MaxPrice),
		VerifiedOnly: q.Verified == "true",
	}
}

func parsePrice(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}

// ProductPage is one page of the catalog.
type ProductPage struct {
	Products   []models.Product `json:"products"`
	Pagination orm.Pagination   `json:"pagination"`
}

// CatalogService serves the public product listing and product pages.
type CatalogService struct {
	products *repositories.ProductRepository
	messages *repositories.MessageRepository
}

func NewCatalogService(repos *repositories.Repositories) *CatalogService {
	return &CatalogService{products: repos.Products, messages: repos.Messages}
}

// List returns the active products matching q, promoted first, newest next.
func (s *CatalogService) List(ctx context.Context, q CatalogQuery) (*ProductPage, error) {
	page := orm.NewPage(q.Page, q.Limit, DefaultCatalogLimit, MaxCatalogLimit)

	products, pagination, err := s.products.Search(ctx, q.Filter(), page)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if err := s.attachConversationCounts(ctx, products); err != nil {
		return nil, apperror.Internal(err)
	}
	return &ProductPage{Products: products, Pagination: pagination}, nil
}

// Get returns an active product and counts the view. Every call counts.
func (s *CatalogService) Get(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.products.FindActive(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperror.NotFound("Product not found")
		}
		return nil, apperror.Internal(err)
	}

	if err := s.products.IncrementViews(ctx, p.ID); err != nil {
		return nil, apperror.Internal(err)
	}
	p.ViewCount++
	metrics.ProductViews.Inc()

	list := []models.Product{*p}
	if err := s.attachConversationCounts(ctx, list); err != nil {
		logger.WithCtx(ctx).Warn("catalog: conversation count failed", "product_id", p.ID, "error", err)
	}
	p.ConversationCount = list[0].ConversationCount
	return p, nil
}

func (s *CatalogService) attachConversationCounts(ctx context.Context, products []models.Product) error {
	ids := make([]string, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}

	counts, err := s.messages.ConversationCounts(ctx, ids)
	if err != nil {
		return err
	}
	for i := range products {
		products[i].ConversationCount = counts[products[i].ID]
	}
	return nil
}
