package controllers

import (
	"github.com/eburutu/mart/app/services"
	"github.com/eburutu/mart/pkg/ctx"
	"github.com/eburutu/mart/pkg/logger"
)

// AdminController serves /api/admin. Routes are gated to ADMIN sessions.
type AdminController struct {
	verifications *services.VerificationService
	admin         *services.AdminService
}

func NewAdminController(s *services.Services) *AdminController {
	return &AdminController{verifications: s.Verifications, admin: s.Admin}
}

// Verifications handles GET /api/admin/verifications[?status=].
func (ac *AdminController) Verifications(c *ctx.Context) {
	list, err := ac.verifications.List(c.Context(), c.Query("status"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(map[string]any{"verifications": list})
}

func (ac *AdminController) Verification(c *ctx.Context) {
	v, err := ac.verifications.Get(c.Context(), c.Param("id"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(v)
}

// Transition handles PATCH /api/admin/verifications/{id}.
func (ac *AdminController) Transition(c *ctx.Context) {
	var in services.TransitionInput
	if !c.BindJSON(&in) {
		return
	}

	v, err := ac.verifications.Transition(c.Context(), c.UserID(), c.Param("id"), in)
	if err != nil {
		c.Fail(err)
		return
	}

	logger.WithCtx(c.Context()).Info("verification updated",
		"profile_id", v.ID, "status", v.VerificationStatus, "admin_id", c.UserID())
	c.OK(v)
}

func (ac *AdminController) Products(c *ctx.Context) {
	page, err := ac.admin.Products(c.Context(), c.QueryInt("page", 1), c.QueryInt("limit", 20))
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(page)
}

// ModerateProduct handles PATCH /api/admin/products/{id}.
func (ac *AdminController) ModerateProduct(c *ctx.Context) {
	var in services.ModerateProductInput
	if !c.BindJSON(&in) {
		return
	}

	p, err := ac.admin.ModerateProduct(c.Context(), c.Param("id"), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(p)
}

func (ac *AdminController) Stats(c *ctx.Context) {
	stats, err := ac.admin.Stats(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(stats)
}
