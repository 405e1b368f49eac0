package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/eburutu/mart/app/models"
	"github.com/eburutu/mart/app/repositories"
	"github.com/eburutu/mart/pkg/apperror"
	"github.com/eburutu/mart/pkg/event"
	"github.com/eburutu/mart/pkg/validate"
)

// ImageInput is one submitted image: either a bare string (data URL or link)
// or an object {"url": ..., "alt": ...}.
type ImageInput struct {
	URL string  `json:"url"`
	Alt *string `json:"alt"`
}

func (in *ImageInput) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*in = ImageInput{URL: s}
		return nil
	}

	var obj struct {
		URL      string  `json:"url"`
		ImageURL string  `json:"imageUrl"`
		Alt      *string `json:"alt"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("image must be a string or an object with a url")
	}
	if obj.URL == "" {
		obj.URL = obj.ImageURL
	}
	*in = ImageInput{URL: obj.URL, Alt: obj.Alt}
	return nil
}

type CreateProductInput struct {
	Title       string           `json:"title" validate:"required,max=255"`
	Description string           `json:"description" validate:"required"`
	Price       *decimal.Decimal `json:"price" validate:"required,gte=0"`
	Currency    string           `json:"currency" validate:"nullable,alpha_dash,min=3,max=3"`
	Condition   string           `json:"condition" validate:"required,in=New|Like New|Good|Fair"`
	Location    string           `json:"location" validate:"required,max=255"`
	CategoryID  string           `json:"categoryId" validate:"required"`
	Brand       *string          `json:"brand"`
	Model       *string          `json:"model"`
	Color       *string          `json:"color"`
	Size        *string          `json:"size"`
	Weight      *string          `json:"weight"`
	Dimensions  *string          `json:"dimensions"`
	Images      []ImageInput     `json:"images"`
}

// Image change kinds accepted in imageChanges.
const (
	ImageDelete  = "delete"
	ImageAppend  = "append"
	ImageReplace = "replace"
)

// ImageChange is one explicit image operation on update.
type ImageChange struct {
	Kind   string       `json:"kind"`
	IDs    []string     `json:"ids,omitempty"`
	Images []ImageInput `json:"images,omitempty"`
}

type UpdateProductInput struct {
	Title        *string          `json:"title" validate:"nullable,max=255"`
	Description  *string          `json:"description"`
	Price        *decimal.Decimal `json:"price" validate:"nullable,gte=0"`
	Currency     *string          `json:"currency" validate:"nullable,alpha_dash,min=3,max=3"`
	Condition    *string          `json:"condition" validate:"nullable,in=New|Like New|Good|Fair"`
	Location     *string          `json:"location" validate:"nullable,max=255"`
	CategoryID   *string          `json:"categoryId"`
	Brand        *string          `json:"brand"`
	Model        *string          `json:"model"`
	Color        *string          `json:"color"`
	Size         *string          `json:"size"`
	Weight       *string          `json:"weight"`
	Dimensions   *string          `json:"dimensions"`
	ImageChanges []ImageChange    `json:"imageChanges"`
}

// imagePlan is a validated set of image changes.
type imagePlan struct {
	deleteIDs []string
	append    []ImageInput
	replace   []ImageInput
	replacing bool
}

func (p imagePlan) empty() bool {
	return !p.replacing && len(p.deleteIDs) == 0 && len(p.append) == 0
}

func planImages(changes []ImageChange) (imagePlan, error) {
	var plan imagePlan
	seen := make(map[string]bool, len(changes))

	for _, ch := range changes {
		kind := strings.ToLower(strings.TrimSpace(ch.Kind))
		if seen[kind] {
			return plan, imageErr(fmt.Sprintf("Only one %q image change is allowed", kind))
		}
		seen[kind] = true

		switch kind {
		case ImageDelete:
			plan.deleteIDs = ch.IDs
		case ImageAppend:
			plan.append = ch.Images
		case ImageReplace:
			plan.replace = ch.Images
			plan.replacing = true
		default:
			return plan, imageErr(fmt.Sprintf("Unknown image change kind %q", ch.Kind))
		}
	}

	if plan.replacing && len(changes) > 1 {
		return plan, imageErr("A replace image change cannot be combined with other image changes")
	}
	return plan, nil
}

func imageErr(msg string) error {
	return apperror.Invalid(msg, map[string]string{"imageChanges": msg})
}

// ProductService creates, edits and soft-deletes listings for their sellers.
type ProductService struct {
	db         *gorm.DB
	products   *repositories.ProductRepository
	categories *repositories.CategoryRepository
	sellers    *repositories.SellerProfileRepository
	media      *MediaStore
	events     *event.Bus
}

func NewProductService(db *gorm.DB, repos *repositories.Repositories, media *MediaStore, events *event.Bus) *ProductService {
	return &ProductService{
		db:         db,
		products:   repos.Products,
		categories: repos.Categories,
		sellers:    repos.Sellers,
		media:      media,
		events:     events,
	}
}

// CanSell checks that userID has a seller profile. Any profile qualifies,
// whatever its verification status.
func (s *ProductService) CanSell(ctx context.Context, userID string) error {
	if _, err := s.sellers.FindByUserID(ctx, userID); err != nil {
		if repositories.IsNotFound(err) {
			return apperror.Forbidden("Seller profile required to create products")
		}
		return apperror.Internal(err)
	}
	return nil
}

// Create lists a product for sellerID.
func (s *ProductService) Create(ctx context.Context, sellerID string, in CreateProductInput) (*models.Product, error) {
	if err := s.CanSell(ctx, sellerID); err != nil {
		return nil, err
	}
	if err := s.requireCategory(ctx, s.categories, in.CategoryID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	up := s.media.batch()
	images, err := s.storeImages(ctx, up, in.Images, title, 0)
	if err != nil {
		up.discard(ctx)
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = models.DefaultCurrency
	}
	categoryID := in.CategoryID

	p := &models.Product{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price.Round(2),
		Currency:    currency,
		Condition:   in.Condition,
		Location:    strings.TrimSpace(in.Location),
		IsActive:    true,
		SellerID:    sellerID,
		CategoryID:  &categoryID,
		Brand:       in.Brand,
		Model:       in.Model,
		Color:       in.Color,
		Size:        in.Size,
		Weight:      in.Weight,
		Dimensions:  in.Dimensions,
		Images:      images,
	}
	if err := s.products.Create(ctx, p); err != nil {
		up.discard(ctx)
		return nil, apperror.Internal(err)
	}

	s.events.Fire(ctx, EventProductChanged, p.ID)
	return s.reload(ctx, p.ID)
}

// Owned loads a product and checks that callerID sells it.
func (s *ProductService) Owned(ctx context.Context, callerID, id string) (*models.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperror.NotFound("Product not found")
		}
		return nil, apperror.Internal(err)
	}
	if p.SellerID != callerID {
		return nil, apperror.Forbidden("You can only modify your own products")
	}
	return p, nil
}

// Update changes the provided fields and applies the image changes in one
// transaction. Deletions run before appends; appended images continue the
// existing sort order; a replace drops every image and renumbers from zero.
func (s *ProductService) Update(ctx context.Context, callerID, id string, in UpdateProductInput) (*models.Product, error) {
	p, err := s.Owned(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	fields, err := updateFields(in)
	if err != nil {
		return nil, err
	}
	plan, err := planImages(in.ImageChanges)
	if err != nil {
		return nil, err
	}

	alt := p.Title
	if in.Title != nil {
		alt = strings.TrimSpace(*in.Title)
	}
	up := s.media.batch()
	appendImages, err := s.storeImages(ctx, up, plan.append, alt, 0)
	if err != nil {
		up.discard(ctx)
		return nil, err
	}
	replaceImages, err := s.storeImages(ctx, up, plan.replace, alt, 0)
	if err != nil {
		up.discard(ctx)
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)

		if in.CategoryID != nil {
			if err := s.requireCategory(ctx, s.categories.WithTx(tx), *in.CategoryID); err != nil {
				return err
			}
		}
		if err := products.Update(ctx, p.ID, fields); err != nil {
			return err
		}
		if plan.empty() {
			return nil
		}

		if plan.replacing {
			if err := products.DeleteAllImages(ctx, p.ID); err != nil {
				return err
			}
			return products.CreateImages(ctx, withProduct(replaceImages, p.ID, 0))
		}

		if err := products.DeleteImages(ctx, p.ID, plan.deleteIDs); err != nil {
			return err
		}
		if len(appendImages) == 0 {
			return nil
		}
		last, err := products.MaxImageSortOrder(ctx, p.ID)
		if err != nil {
			return err
		}
		return products.CreateImages(ctx, withProduct(appendImages, p.ID, last+1))
	})
	if err != nil {
		up.discard(ctx)
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.Internal(err)
	}

	s.forgetRemovedImages(ctx, p.Images, plan)
	s.events.Fire(ctx, EventProductChanged, p.ID)
	return s.reload(ctx, p.ID)
}

// Delete hides the product from the catalog. The row and its images stay.
func (s *ProductService) Delete(ctx context.Context, callerID, id string) error {
	p, err := s.Owned(ctx, callerID, id)
	if err != nil {
		return err
	}
	if err := s.products.Update(ctx, p.ID, map[string]interface{}{"is_active": false}); err != nil {
		return apperror.Internal(err)
	}
	s.events.Fire(ctx, EventProductChanged, p.ID)
	return nil
}

func (s *ProductService) reload(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return p, nil
}

func (s *ProductService) requireCategory(ctx context.Context, categories *repositories.CategoryRepository, id string) error {
	const msg = "The selected categoryId is invalid."
	if strings.TrimSpace(id) == "" {
		return apperror.Invalid("The categoryId field is required.", map[string]string{"categoryId": "The categoryId field is required."})
	}
	ok, err := categories.Exists(ctx, id)
	if err != nil {
		return apperror.Internal(err)
	}
	if !ok {
		return apperror.Invalid("Category not found", map[string]string{"categoryId": msg})
	}
	return nil
}

// storeImages normalizes submitted images: alt defaults to the title and
// sort order follows submission order from start.
func (s *ProductService) storeImages(ctx context.Context, up *uploads, in []ImageInput, title string, start int) ([]models.ProductImage, error) {
	images := make([]models.ProductImage, 0, len(in))
	for i, img := range in {
		url, err := up.store(ctx, "products", img.URL)
		if err != nil {
			return nil, err
		}

		alt := title
		if img.Alt != nil && strings.TrimSpace(*img.Alt) != "" {
			alt = strings.TrimSpace(*img.Alt)
		}
		images = append(images, models.ProductImage{
			ImageURL:  url,
			Alt:       &alt,
			SortOrder: start + i,
		})
	}
	return images, nil
}

func (s *ProductService) forgetRemovedImages(ctx context.Context, before []models.ProductImage, plan imagePlan) {
	removed := make(map[string]bool, len(plan.deleteIDs))
	for _, id := range plan.deleteIDs {
		removed[id] = true
	}
	for _, img := range before {
		if plan.replacing || removed[img.ID] {
			s.media.Forget(ctx, img.ImageURL)
		}
	}
}

func withProduct(images []models.ProductImage, productID string, start int) []models.ProductImage {
	for i := range images {
		images[i].ProductID = productID
		images[i].SortOrder = start + i
	}
	return images
}

// updateFields maps the provided scalar fields to columns. Present but
// blank required fields are rejected.
func updateFields(in UpdateProductInput) (map[string]interface{}, error) {
	fields := make(map[string]interface{})
	errs := make(map[string]string)

	text := func(name, column string, v *string, required bool) {
		if v == nil {
			return
		}
		val := strings.TrimSpace(*v)
		if required && val == "" {
			errs[name] = fmt.Sprintf("The %s field is required.", name)
			return
		}
		fields[column] = val
	}
	text("title", "title", in.Title, true)
	text("description", "description", in.Description, true)
	text("condition", "condition", in.Condition, true)
	text("location", "location", in.Location, true)
	text("brand", "brand", in.Brand, false)
	text("model", "model", in.Model, false)
	text("color", "color", in.Color, false)
	text("size", "size", in.Size, false)
	text("weight", "weight", in.Weight, false)
	text("dimensions", "dimensions", in.Dimensions, false)

	if in.Currency != nil {
		fields["currency"] = strings.ToUpper(strings.TrimSpace(*in.Currency))
	}
	if in.Price != nil {
		fields["price"] = in.Price.Round(2)
	}
	if in.CategoryID != nil {
		fields["category_id"] = *in.CategoryID
	}

	if validate.HasErrors(errs) {
		return nil, apperror.Invalid(validate.First(errs), errs)
	}
	return fields, nil
}
