package controllers

import (
	"github.com/eburutu/mart/app/services"
	"github.com/eburutu/mart/pkg/ctx"
)

type SellerController struct {
	service *services.SellerService
}

func NewSellerController(s *services.Services) *SellerController {
	return &SellerController{service: s.Sellers}
}

func (sc *SellerController) Profile(c *ctx.Context) {
	profile, err := sc.service.Profile(c.Context(), c.UserID())
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(profile)
}

func (sc *SellerController) UpdateProfile(c *ctx.Context) {
	var in services.SellerProfileInput
	if !c.BindJSON(&in) {
		return
	}

	profile, err := sc.service.SaveProfile(c.Context(), c.UserID(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(profile)
}

func (sc *SellerController) Products(c *ctx.Context) {
	products, err := sc.service.Products(c.Context(), c.UserID())
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(map[string]any{"products": products})
}

func (sc *SellerController) Stats(c *ctx.Context) {
	stats, err := sc.service.Stats(c.Context(), c.UserID())
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(stats)
}
