package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eburutu/mart/app/models"
	"github.com/eburutu/mart/app/repositories"
	"github.com/eburutu/mart/app/verification"
	"github.com/eburutu/mart/pkg/apperror"
	"github.com/eburutu/mart/pkg/event"
	"github.com/eburutu/mart/pkg/orm"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// AdminProduct is one row of the moderation listing.
type AdminProduct struct {
	ID         string              `json:"id"`
	Title      string              `json:"title"`
	Price      decimal.Decimal     `json:"price"`
	Currency   string              `json:"currency"`
	Status     string              `json:"status"`
	IsPromoted bool                `json:"isPromoted"`
	ViewCount  int64               `json:"viewCount"`
	Location   string              `json:"location"`
	Image      *string             `json:"image"`
	Category   *string             `json:"category"`
	Seller     *models.UserSummary `json:"seller"`
	CreatedAt  time.Time           `json:"createdAt"`
}

func newAdminProduct(p *models.Product) AdminProduct {
	row := AdminProduct{
		ID:         p.ID,
		Title:      p.Title,
		Price:      p.Price,
		Currency:   p.Currency,
		Status:     StatusInactive,
		IsPromoted: p.IsPromoted,
		ViewCount:  p.ViewCount,
		Location:   p.Location,
		Seller:     p.Seller.Summary(),
		CreatedAt:  p.CreatedAt,
	}
	if p.IsActive {
		row.Status = StatusActive
	}
	if len(p.Images) > 0 {
		row.Image = &p.Images[0].ImageURL
	}
	if p.Category != nil {
		row.Category = &p.Category.Name
	}
	return row
}

type AdminProductPage struct {
	Products   []AdminProduct `json:"products"`
	Pagination orm.Pagination `json:"pagination"`
}

type ModerateProductInput struct {
	Status   *string `json:"status" validate:"nullable,in=ACTIVE|INACTIVE"`
	Promoted *bool   `json:"promoted"`
}

// AdminStats are the platform totals on the admin dashboard.
type AdminStats struct {
	TotalUsers            int64 `json:"totalUsers"`
	TotalSellers          int64 `json:"totalSellers"`
	TotalProducts         int64 `json:"totalProducts"`
	PendingVerifications  int64 `json:"pendingVerifications"`
	InReviewVerifications int64 `json:"inReviewVerifications"`
	TotalMessages         int64 `json:"totalMessages"`
}

// AdminService backs product moderation and the admin dashboard.
type AdminService struct {
	users    *repositories.UserRepository
	sellers  *repositories.SellerProfileRepository
	products *repositories.ProductRepository
	messages *repositories.MessageRepository
	events   *event.Bus
}

func NewAdminService(repos *repositories.Repositories, events *event.Bus) *AdminService {
	return &AdminService{
		users:    repos.Users,
		sellers:  repos.Sellers,
		products: repos.Products,
		messages: repos.Messages,
		events:   events,
	}
}

// Products lists every product, active or not, newest first.
func (s *AdminService) Products(ctx context.Context, page, limit int) (*AdminProductPage, error) {
	products, pagination, err := s.products.List(ctx, orm.NewPage(page, limit, 20, MaxCatalogLimit))
	if err != nil {
		return nil, apperror.Internal(err)
	}

	rows := make([]AdminProduct, 0, len(products))
	for i := range products {
		rows = append(rows, newAdminProduct(&products[i]))
	}
	return &AdminProductPage{Products: rows, Pagination: pagination}, nil
}

// ModerateProduct activates, deactivates, promotes or demotes a product.
func (s *AdminService) ModerateProduct(ctx context.Context, id string, in ModerateProductInput) (*AdminProduct, error) {
	if _, err := s.products.FindByID(ctx, id); err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperror.NotFound("Product not found")
		}
		return nil, apperror.Internal(err)
	}

	fields := make(map[string]interface{})
	if in.Status != nil {
		fields["is_active"] = *in.Status == StatusActive
	}
	if in.Promoted != nil {
		fields["is_promoted"] = *in.Promoted
	}
	if len(fields) == 0 {
		return nil, apperror.Invalid("Nothing to update", map[string]string{"status": "Provide status or promoted."})
	}

	if err := s.products.Update(ctx, id, fields); err != nil {
		return nil, apperror.Internal(err)
	}
	s.events.Fire(ctx, EventProductChanged, id)

	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	row := newAdminProduct(p)
	return &row, nil
}

func (s *AdminService) Stats(ctx context.Context) (*AdminStats, error) {
	var (
		stats AdminStats
		err   error
	)
	steps := []func() error{
		func() error { stats.TotalUsers, err = s.users.Count(ctx); return err },
		func() error { stats.TotalSellers, err = s.users.Count(ctx, models.RoleSeller); return err },
		func() error { stats.TotalProducts, err = s.products.CountActive(ctx); return err },
		func() error {
			stats.PendingVerifications, err = s.sellers.CountByStatus(ctx, verification.Pending)
			return err
		},
		func() error {
			stats.InReviewVerifications, err = s.sellers.CountByStatus(ctx, verification.InReview)
			return err
		},
		func() error { stats.TotalMessages, err = s.messages.Count(ctx); return err },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, apperror.Internal(err)
		}
	}
	return &stats, nil
}
