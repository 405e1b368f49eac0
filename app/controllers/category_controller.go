package controllers

import (
	"github.com/eburutu/mart/app/services"
	"github.com/eburutu/mart/pkg/ctx"
)

type CategoryController struct {
	service *services.CategoryService
}

func NewCategoryController(s *services.Services) *CategoryController {
	return &CategoryController{service: s.Categories}
}

// Index handles GET /api/categories.
func (cc *CategoryController) Index(c *ctx.Context) {
	categories, err := cc.service.List(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(categories)
}

// Store handles POST /api/categories.
func (cc *CategoryController) Store(c *ctx.Context) {
	var in services.CreateCategoryInput
	if !c.BindJSON(&in) {
		return
	}

	category, err := cc.service.Create(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(category)
}
