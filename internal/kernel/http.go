// Package kernel assembles the application's http.Handler: the global
// middleware stack, the ops endpoints and the API routes.
package kernel

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/eburutu/mart/app/routes"
	"github.com/eburutu/mart/app/services"
	"github.com/eburutu/mart/pkg/database"
	"github.com/eburutu/mart/pkg/metrics"
	"github.com/eburutu/mart/pkg/middleware"
	"github.com/eburutu/mart/pkg/reqid"
	"github.com/eburutu/mart/pkg/response"
	"github.com/eburutu/mart/pkg/router"
	"github.com/eburutu/mart/pkg/storage"
)

// Options are the dependencies of the HTTP kernel.
type Options struct {
	DB       *gorm.DB
	Services *services.Services
	// Disk is served under /storage when it is a local disk.
	Disk        storage.Disk
	CORSOrigins []string
	// RateLimit is requests per client IP per minute; zero disables it.
	RateLimit int
}

// HTTPKernel owns the router built from Options.
type HTTPKernel struct {
	router *router.Router
}

func NewHTTPKernel(opts Options) *HTTPKernel {
	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics, for total latency
	//  2. Request ID, before anything logs
	//  3. Logger, tagged with the request ID
	//  4. Recovery, which logs through the request logger
	//  5. CORS
	//  6. Rate limiter
	//  7. Authenticate, which attaches the session caller
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(opts.CORSOrigins)))
	if opts.RateLimit > 0 {
		r.Use(middleware.RateLimit(opts.RateLimit, time.Minute))
	}
	r.Use(middleware.Authenticate(opts.Services.Auth.Lookup))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { response.NotFound(w) })
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/healthz", "health", healthz(opts.DB))
	r.Mount("/metrics", "metrics", metrics.Handler())
	if local, ok := opts.Disk.(*storage.Local); ok {
		r.Mount("/storage/*", "storage", storageFiles(local.Root()))
	}

	routes.RegisterAPI(r, opts.Services)

	return &HTTPKernel{router: r}
}

func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }

// storageFiles serves uploads from the local disk. Uploaded files never run
// as active content on the API origin.
func storageFiles(root string) http.Handler {
	files := http.StripPrefix("/storage/", http.FileServer(http.Dir(root)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Content-Security-Policy", "default-src 'none'; sandbox")
		files.ServeHTTP(w, r)
	})
}

// Routes is the route table for `mart route:list`.
func (k *HTTPKernel) Routes() []router.Route { return k.router.Routes() }

func healthz(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db == nil || database.Ping(r.Context(), db) != nil {
			response.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		response.OK(w, map[string]string{"status": "ok"})
	}
}
