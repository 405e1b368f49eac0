package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eburutu/mart/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestGroupsPrefixAndMiddleware(t *testing.T) {
	r := router.New()
	var order []string
	tag := func(name string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, req)
			})
		}
	}

	api := r.Group("/api", tag("api"))
	admin := api.Group("admin", tag("admin"))
	admin.Patch("/verifications/{id}", "admin.verifications.update", ok, tag("route"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/admin/verifications/42", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"api", "admin", "route"}, order)
}

func TestNamedURL(t *testing.T) {
	r := router.New()
	r.Group("/api").Get("/products/{id}", "products.show", ok)

	url, err := r.URL("products.show", map[string]string{"id": "abc"})
	require.NoError(t, err)
	assert.Equal(t, "/api/products/abc", url)

	_, err = r.URL("products.show", nil)
	assert.Error(t, err)
	_, err = r.URL("nope", nil)
	assert.Error(t, err)
}

func TestRoutesListing(t *testing.T) {
	r := router.New()
	g := r.Group("/api/products")
	g.Put("/{id}", "products.update", ok)
	g.Delete("/{id}", "products.destroy", ok)
	g.Get("/", "products.index", ok)

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, router.Route{Method: "GET", Path: "/api/products", Name: "products.index"}, routes[0])
	assert.Equal(t, "DELETE", routes[1].Method)
	assert.Equal(t, "PUT", routes[2].Method)
}

func TestCustomNotFound(t *testing.T) {
	r := router.New()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
