// Package services holds the marketplace's business rules. Controllers call
// services; services call repositories and never see HTTP.
package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/eburutu/mart/app/repositories"
	"github.com/eburutu/mart/pkg/event"
)

// Domain events fired after a write commits.
const (
	// payload: product id
	EventProductChanged = "product.changed"
	// payload: VerificationNotice
	EventVerificationChanged = "verification.changed"
)

// Options carries the collaborators New wires into the services. Zero values
// fall back to inline media, log-only notifications and a private bus.
type Options struct {
	Media       *MediaStore
	Notifier    Notifier
	Events      *event.Bus
	CategoryTTL time.Duration
}

// Services is the full service layer over one database.
type Services struct {
	Auth          *AuthService
	Catalog       *CatalogService
	Products      *ProductService
	Categories    *CategoryService
	Verifications *VerificationService
	Sellers       *SellerService
	Admin         *AdminService
	Events        *event.Bus
}

func New(db *gorm.DB, opts Options) *Services {
	if opts.Media == nil {
		opts.Media = NewMediaStore(nil, "inline")
	}
	if opts.Notifier == nil {
		opts.Notifier = NewNotifier(nil)
	}
	if opts.Events == nil {
		opts.Events = event.NewBus()
	}
	if opts.CategoryTTL <= 0 {
		opts.CategoryTTL = 5 * time.Minute
	}

	repos := repositories.New(db)
	s := &Services{
		Auth:          NewAuthService(db, repos, opts.Media),
		Catalog:       NewCatalogService(repos),
		Products:      NewProductService(db, repos, opts.Media, opts.Events),
		Categories:    NewCategoryService(repos, opts.CategoryTTL),
		Verifications: NewVerificationService(db, repos, opts.Events),
		Sellers:       NewSellerService(db, repos, opts.Media),
		Admin:         NewAdminService(repos, opts.Events),
		Events:        opts.Events,
	}

	// product counts per category change with every product write
	opts.Events.Listen(EventProductChanged, s.Categories.forgetOnEvent)
	opts.Events.Listen(EventVerificationChanged, notifyOnEvent(opts.Notifier))

	return s
}
