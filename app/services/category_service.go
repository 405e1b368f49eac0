package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/eburutu/mart/app/models"
	"github.com/eburutu/mart/app/repositories"
	"github.com/eburutu/mart/pkg/apperror"
	"github.com/eburutu/mart/pkg/cache"
	"github.com/eburutu/mart/pkg/logger"
)

// CategoryView is a category with its active product count and active
// sub-categories.
type CategoryView struct {
	models.Category
	ProductCount int64          `json:"productCount"`
	Children     []CategoryView `json:"children"`
}

type CreateCategoryInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Slug        string  `json:"slug" validate:"nullable,slug,max=255"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
	ParentID    *string `json:"parentId" validate:"nullable,uuid"`
	SortOrder   int     `json:"sortOrder" validate:"gte=0"`
}

// CategoryService lists and creates categories. The listing is cached in
// Redis and dropped on every category or product write.
type CategoryService struct {
	categories *repositories.CategoryRepository
	ttl        time.Duration
}

func NewCategoryService(repos *repositories.Repositories, ttl time.Duration) *CategoryService {
	return &CategoryService{categories: repos.Categories, ttl: ttl}
}

func categoriesKey() string { return cache.Key("categories", "tree") }

// List returns the active category tree ordered by sort order.
func (s *CategoryService) List(ctx context.Context) ([]CategoryView, error) {
	views, err := cache.Remember(ctx, categoriesKey(), s.ttl, func() ([]CategoryView, error) {
		return s.build(ctx)
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return views, nil
}

func (s *CategoryService) build(ctx context.Context) ([]CategoryView, error) {
	categories, err := s.categories.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.categories.ActiveProductCounts(ctx)
	if err != nil {
		return nil, err
	}

	children := make(map[string][]models.Category)
	var roots []models.Category
	for _, c := range categories {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}

	var nest func([]models.Category) []CategoryView
	nest = func(list []models.Category) []CategoryView {
		out := make([]CategoryView, 0, len(list))
		for _, c := range list {
			out = append(out, CategoryView{
				Category:     c,
				ProductCount: counts[c.ID],
				Children:     nest(children[c.ID]),
			})
		}
		return out
	}
	return nest(roots), nil
}

// Create adds a category. The slug is derived from the name when omitted.
func (s *CategoryService) Create(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return nil, apperror.Invalid("The slug field is required.", map[string]string{"slug": "The slug field is required."})
	}

	taken, err := s.categories.ExistsByNameOrSlug(ctx, name, slug)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if taken {
		return nil, apperror.Invalid("Category with this name or slug already exists", nil)
	}

	if in.ParentID != nil && *in.ParentID != "" {
		ok, err := s.categories.Exists(ctx, *in.ParentID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if !ok {
			return nil, apperror.Invalid("Parent category not found", map[string]string{"parentId": "The selected parentId is invalid."})
		}
	} else {
		in.ParentID = nil
	}

	c := &models.Category{
		Name:        name,
		Slug:        slug,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		SortOrder:   in.SortOrder,
		IsActive:    true,
		ParentID:    in.ParentID,
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, apperror.Internal(err)
	}

	s.Forget(ctx)
	return c, nil
}

// Forget drops the cached listing.
func (s *CategoryService) Forget(ctx context.Context) {
	if err := cache.Del(ctx, categoriesKey()); err != nil {
		logger.WithCtx(ctx).Warn("categories: cache invalidation failed", "error", err)
	}
}

func (s *CategoryService) forgetOnEvent(ctx context.Context, _ any) { s.Forget(ctx) }

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s and joins its words with hyphens: "Home & Garden" →
// "home-garden".
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
