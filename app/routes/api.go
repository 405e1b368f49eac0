// Package routes declares the HTTP API.
package routes

import (
	"github.com/eburutu/mart/app/controllers"
	"github.com/eburutu/mart/app/models"
	"github.com/eburutu/mart/app/services"
	"github.com/eburutu/mart/pkg/ctx"
	"github.com/eburutu/mart/pkg/middleware"
	"github.com/eburutu/mart/pkg/rbac"
	"github.com/eburutu/mart/pkg/router"
)

// RegisterAPI mounts every /api route. middleware.Authenticate must already
// be on the router so guards can see the caller.
func RegisterAPI(r *router.Router, s *services.Services) {
	authC := controllers.NewAuthController(s)
	productC := controllers.NewProductController(s)
	categoryC := controllers.NewCategoryController(s)
	sellerC := controllers.NewSellerController(s)
	adminC := controllers.NewAdminController(s)

	api := r.Group("/api")

	authG := api.Group("/auth")
	authG.Post("/register", "auth.register", ctx.Wrap(authC.Register), rbac.Guest)
	authG.Post("/login", "auth.login", ctx.Wrap(authC.Login))
	authG.Post("/logout", "auth.logout", ctx.Wrap(authC.Logout))
	authG.Get("/session", "auth.session", ctx.Wrap(authC.Session), middleware.RequireAuth)

	api.Get("/products", "products.index", ctx.Wrap(productC.Index))
	api.Get("/products/{id}", "products.show", ctx.Wrap(productC.Show))
	api.Post("/products", "products.store", ctx.Wrap(productC.Store), middleware.RequireAuth)
	api.Put("/products/{id}", "products.update", ctx.Wrap(productC.Update), middleware.RequireAuth)
	api.Delete("/products/{id}", "products.destroy", ctx.Wrap(productC.Destroy), middleware.RequireAuth)

	api.Get("/categories", "categories.index", ctx.Wrap(categoryC.Index))
	api.Post("/categories", "categories.store", ctx.Wrap(categoryC.Store), rbac.HasRole(models.RoleAdmin.String()))

	seller := api.Group("/seller", middleware.RequireAuth)
	seller.Get("/profile", "seller.profile", ctx.Wrap(sellerC.Profile))
	seller.Put("/profile", "seller.profile.update", ctx.Wrap(sellerC.UpdateProfile))
	seller.Get("/products", "seller.products", ctx.Wrap(sellerC.Products))
	seller.Get("/stats", "seller.stats", ctx.Wrap(sellerC.Stats))

	admin := api.Group("/admin", rbac.HasRole(models.RoleAdmin.String()))
	admin.Get("/verifications", "admin.verifications.index", ctx.Wrap(adminC.Verifications))
	admin.Get("/verifications/{id}", "admin.verifications.show", ctx.Wrap(adminC.Verification))
	admin.Patch("/verifications/{id}", "admin.verifications.update", ctx.Wrap(adminC.Transition))
	admin.Get("/products", "admin.products.index", ctx.Wrap(adminC.Products))
	admin.Patch("/products/{id}", "admin.products.update", ctx.Wrap(adminC.ModerateProduct))
	admin.Get("/stats", "admin.stats", ctx.Wrap(adminC.Stats))
}
