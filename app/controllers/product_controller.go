package controllers

import (
	"github.com/eburutu/mart/app/services"
	"github.com/eburutu/mart/pkg/ctx"
)

type ProductController struct {
	catalog  *services.CatalogService
	products *services.ProductService
}

func NewProductController(s *services.Services) *ProductController {
	return &ProductController{catalog: s.Catalog, products: s.Products}
}

// Index handles GET /api/products.
func (pc *ProductController) Index(c *ctx.Context) {
	page, err := pc.catalog.List(c.Context(), services.CatalogQuery{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Location: c.Query("location"),
		MinPrice: c.Query("minPrice"),
		MaxPrice: c.Query("maxPrice"),
		Verified: c.Query("verified"),
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", services.DefaultCatalogLimit),
	})
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(page)
}

// Show handles GET /api/products/{id}.
func (pc *ProductController) Show(c *ctx.Context) {
	p, err := pc.catalog.Get(c.Context(), c.Param("id"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(p)
}

// Store handles POST /api/products. Callers without a seller profile get
// 403 before the body is validated.
func (pc *ProductController) Store(c *ctx.Context) {
	if err := pc.products.CanSell(c.Context(), c.UserID()); err != nil {
		c.Fail(err)
		return
	}

	var in services.CreateProductInput
	if !c.BindJSON(&in) {
		return
	}

	p, err := pc.products.Create(c.Context(), c.UserID(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(p)
}

// Update handles PUT /api/products/{id}. Ownership is checked before the
// body is read so strangers get 403 whatever they send.
func (pc *ProductController) Update(c *ctx.Context) {
	id := c.Param("id")
	if _, err := pc.products.Owned(c.Context(), c.UserID(), id); err != nil {
		c.Fail(err)
		return
	}

	var in services.UpdateProductInput
	if !c.BindJSON(&in) {
		return
	}

	p, err := pc.products.Update(c.Context(), c.UserID(), id, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(p)
}

// Destroy handles DELETE /api/products/{id}.
func (pc *ProductController) Destroy(c *ctx.Context) {
	if err := pc.products.Delete(c.Context(), c.UserID(), c.Param("id")); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Product deleted successfully")
}
