package kernel_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eburutu/mart/app/models"
	"github.com/eburutu/mart/app/verification"
	"github.com/eburutu/mart/internal/kernel"
	"github.com/eburutu/mart/internal/testkit"
	"github.com/eburutu/mart/pkg/storage"
)

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

type productBody struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	Price             float64 `json:"price"`
	Currency          string  `json:"currency"`
	IsActive          bool    `json:"isActive"`
	IsPromoted        bool    `json:"isPromoted"`
	ViewCount         int64   `json:"viewCount"`
	ConversationCount int64   `json:"conversationCount"`
	Seller            struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		Password      string `json:"password"`
		SellerProfile *struct {
			VerificationStatus string `json:"verificationStatus"`
		} `json:"sellerProfile"`
	} `json:"seller"`
	Category *struct {
		Slug string `json:"slug"`
	} `json:"category"`
	Images []struct {
		ID        string `json:"id"`
		ImageURL  string `json:"imageUrl"`
		Alt       string `json:"alt"`
		SortOrder int    `json:"sortOrder"`
	} `json:"images"`
}

type catalogBody struct {
	Products   []productBody `json:"products"`
	Pagination struct {
		Page  int   `json:"page"`
		Limit int   `json:"limit"`
		Total int64 `json:"total"`
		Pages int   `json:"pages"`
	} `json:"pagination"`
}

func TestHealthz(t *testing.T) {
	srv := testkit.NewServer(t, testkit.NewDB(t))

	rec := srv.Do(t, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	srv := testkit.NewServer(t, testkit.NewDB(t))

	rec := srv.Do(t, http.MethodGet, "/api/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", testkit.Decode[errorBody](t, rec).Error)
}

func TestRegisterLoginSession(t *testing.T) {
	srv := testkit.NewServer(t, testkit.NewDB(t))

	rec := srv.Do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email": "ada@example.com", "password": "secret123", "name": "Ada",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := testkit.Decode[map[string]string](t, rec)
	assert.Equal(t, "User created successfully", created["message"])
	assert.NotEmpty(t, created["userId"])

	rec = srv.Do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email": "ada@example.com", "password": "secret123", "name": "Ada",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exists", testkit.Decode[errorBody](t, rec).Error)

	rec = srv.Do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ada@example.com", "password": "nope",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := srv.Login(t, "ada@example.com", "secret123")

	rec = srv.Do(t, http.MethodGet, "/api/auth/session", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	session := testkit.Decode[struct {
		User struct {
			ID       string `json:"id"`
			Role     string `json:"role"`
			Password string `json:"password"`
		} `json:"user"`
	}](t, rec)
	assert.Equal(t, created["userId"], session.User.ID)
	assert.Equal(t, "BUYER", session.User.Role)
	assert.Empty(t, session.User.Password)

	rec = srv.Do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email": "again@example.com", "password": "secret123", "name": "Again",
	}, token)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.Do(t, http.MethodGet, "/api/auth/session", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	srv := testkit.NewServer(t, testkit.NewDB(t))

	cases := []struct {
		name string
		body any
		msg  string
	}{
		{"missing fields", map[string]string{"email": "a@example.com"}, "Email, password, and name are required"},
		{"seller without avatar", map[string]string{"email": "s@example.com", "password": "secret123", "name": "S", "role": "SELLER"}, "Profile picture is required for sellers"},
		{"malformed json", `{"email":`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := srv.Do(t, http.MethodPost, "/api/auth/register", tc.body, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			if tc.msg != "" {
				assert.Equal(t, tc.msg, testkit.Decode[errorBody](t, rec).Error)
			}
		})
	}
}

func TestCatalogEndpoint(t *testing.T) {
	db := testkit.NewDB(t)
	srv := testkit.NewServer(t, db)

	verified := testkit.CreateSeller(t, db, "verified@example.com", verification.Verified)
	pending := testkit.CreateSeller(t, db, "pending@example.com", verification.Pending)
	fashion := testkit.CreateCategory(t, db, "Fashion & Textiles", nil)

	testkit.CreateProduct(t, db, verified, "Ankara Fabric Set", "45.99", testkit.WithCategory(fashion), testkit.Promoted())
	testkit.CreateProduct(t, db, pending, "Kente Cloth", "199.99", testkit.WithCategory(fashion))
	testkit.CreateProduct(t, db, verified, "Hidden", "1", testkit.Inactive())

	rec := srv.Do(t, http.MethodGet, "/api/products?category=fashion-textiles&verified=true", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := testkit.Decode[catalogBody](t, rec)
	require.Len(t, body.Products, 1)

	p := body.Products[0]
	assert.Equal(t, "Ankara Fabric Set", p.Title)
	assert.Equal(t, 45.99, p.Price)
	assert.Equal(t, "GBP", p.Currency)
	assert.True(t, p.IsPromoted)
	assert.Equal(t, "verified@example.com", p.Seller.Email)
	assert.Empty(t, p.Seller.Password)
	require.NotNil(t, p.Seller.SellerProfile)
	assert.Equal(t, "VERIFIED", p.Seller.SellerProfile.VerificationStatus)
	require.NotNil(t, p.Category)
	assert.Equal(t, "fashion-textiles", p.Category.Slug)
	assert.Equal(t, int64(1), body.Pagination.Total)
	assert.Equal(t, 1, body.Pagination.Pages)

	rec = srv.Do(t, http.MethodGet, "/api/products?page=abc&limit=-4&minPrice=oops", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = testkit.Decode[catalogBody](t, rec)
	assert.Len(t, body.Products, 2)
	assert.Equal(t, 1, body.Pagination.Page)
	assert.Equal(t, 12, body.Pagination.Limit)

	rec = srv.Do(t, http.MethodGet, "/api/products?search=zzz", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"products":[],"pagination":{"page":1,"limit":12,"total":0,"pages":0}}`, rec.Body.String())
}

func TestProductShowCountsEveryView(t *testing.T) {
	db := testkit.NewDB(t)
	srv := testkit.NewServer(t, db)
	seller := testkit.CreateSeller(t, db, "seller@example.com", verification.Verified)
	p := testkit.CreateProduct(t, db, seller, "Kente", "10")

	for want := int64(1); want <= 3; want++ {
		rec := srv.Do(t, http.MethodGet, "/api/products/"+p.ID, nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, want, testkit.Decode[productBody](t, rec).ViewCount)
	}

	rec := srv.Do(t, http.MethodGet, "/api/products/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", testkit.Decode[errorBody](t, rec).Error)
}

func TestProductLifecycle(t *testing.T) {
	db := testkit.NewDB(t)
	srv := testkit.NewServer(t, db)
	seller := testkit.CreateSeller(t, db, "seller@example.com", verification.Pending)
	stranger := testkit.CreateSeller(t, db, "stranger@example.com", verification.Verified)
	buyer := testkit.CreateUser(t, db, "buyer@example.com", models.RoleBuyer)
	cat := testkit.CreateCategory(t, db, "Crafts", nil)

	sellerToken := srv.Login(t, seller.Email, testkit.Password)
	strangerToken := srv.Login(t, stranger.Email, testkit.Password)
	buyerToken := srv.Login(t, buyer.Email, testkit.Password)

	create := map[string]any{
		"title":       "Wooden Sculpture",
		"description": "Hand-carved",
		"price":       125,
		"condition":   "New",
		"location":    "Manchester, UK",
		"categoryId":  cat.ID,
		"images":      []any{"https://cdn.example.com/a.jpg", map[string]string{"url": "https://cdn.example.com/b.jpg", "alt": "Side"}},
	}

	rec := srv.Do(t, http.MethodPost, "/api/products", create, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.Do(t, http.MethodPost, "/api/products", create, buyerToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// no seller profile wins over an invalid body
	rec = srv.Do(t, http.MethodPost, "/api/products", map[string]any{"price": "abc"}, buyerToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Seller profile required to create products", testkit.Decode[errorBody](t, rec).Error)

	bad := map[string]any{"title": "No price", "description": "d", "condition": "New", "location": "x", "categoryId": cat.ID}
	rec = srv.Do(t, http.MethodPost, "/api/products", bad, sellerToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, testkit.Decode[errorBody](t, rec).Fields, "price")

	rec = srv.Do(t, http.MethodPost, "/api/products", create, sellerToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	p := testkit.Decode[productBody](t, rec)
	assert.Equal(t, float64(125), p.Price)
	require.Len(t, p.Images, 2)
	assert.Equal(t, "Wooden Sculpture", p.Images[0].Alt)
	assert.Equal(t, "Side", p.Images[1].Alt)

	// strangers are refused before their body is read
	rec = srv.Do(t, http.MethodPut, "/api/products/"+p.ID, `not json`, strangerToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.Do(t, http.MethodPut, "/api/products/"+p.ID, map[string]any{
		"price": 99.5,
		"imageChanges": []map[string]any{
			{"kind": "delete", "ids": []string{p.Images[0].ID}},
			{"kind": "append", "images": []string{"https://cdn.example.com/c.jpg"}},
		},
	}, sellerToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := testkit.Decode[productBody](t, rec)
	assert.Equal(t, 99.5, updated.Price)
	require.Len(t, updated.Images, 2)
	assert.Equal(t, "https://cdn.example.com/b.jpg", updated.Images[0].ImageURL)
	assert.Equal(t, "https://cdn.example.com/c.jpg", updated.Images[1].ImageURL)
	assert.Equal(t, 2, updated.Images[1].SortOrder)

	rec = srv.Do(t, http.MethodPut, "/api/products/"+p.ID, map[string]any{
		"imageChanges": []map[string]any{{"kind": "replace"}, {"kind": "append"}},
	}, sellerToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.Do(t, http.MethodDelete, "/api/products/"+p.ID, nil, strangerToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.Do(t, http.MethodDelete, "/api/products/"+p.ID, nil, sellerToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Product deleted successfully"}`, rec.Body.String())

	rec = srv.Do(t, http.MethodGet, "/api/products/"+p.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.Do(t, http.MethodGet, "/api/seller/products", nil, sellerToken)
	require.Equal(t, http.StatusOK, rec.Code)
	mine := testkit.Decode[struct {
		Products []productBody `json:"products"`
	}](t, rec)
	require.Len(t, mine.Products, 1)
	assert.False(t, mine.Products[0].IsActive)
}

func TestVerificationWorkflow(t *testing.T) {
	db := testkit.NewDB(t)
	srv := testkit.NewServer(t, db)
	admin := testkit.CreateUser(t, db, "admin@example.com", models.RoleAdmin)
	buyer := testkit.CreateUser(t, db, "buyer@example.com", models.RoleBuyer)

	adminToken := srv.Login(t, admin.Email, testkit.Password)
	buyerToken := srv.Login(t, buyer.Email, testkit.Password)

	// the buyer applies
	rec := srv.Do(t, http.MethodPut, "/api/seller/profile", map[string]string{"businessName": "Heritage Crafts"}, buyerToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	profile := testkit.Decode[struct {
		ID                 string `json:"id"`
		VerificationStatus string `json:"verificationStatus"`
	}](t, rec)
	assert.Equal(t, "PENDING", profile.VerificationStatus)

	path := "/api/admin/verifications/" + profile.ID

	rec = srv.Do(t, http.MethodPatch, path, map[string]string{"status": "VERIFIED"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = srv.Do(t, http.MethodPatch, path, map[string]string{"status": "VERIFIED"}, buyerToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.Do(t, http.MethodGet, "/api/admin/verifications?status=PENDING", nil, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	list := testkit.Decode[struct {
		Verifications []struct {
			ID   string `json:"id"`
			User struct {
				Email string `json:"email"`
			} `json:"user"`
		} `json:"verifications"`
	}](t, rec)
	require.Len(t, list.Verifications, 1)
	assert.Equal(t, buyer.Email, list.Verifications[0].User.Email)

	rec = srv.Do(t, http.MethodPatch, path, map[string]string{"status": "REJECTED"}, adminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.Do(t, http.MethodPatch, path, map[string]string{"status": "IN_REVIEW"}, adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.Do(t, http.MethodPatch, path, map[string]string{"status": "VERIFIED"}, adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.Do(t, http.MethodPatch, path, map[string]string{"status": "PENDING"}, adminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid status transition", testkit.Decode[errorBody](t, rec).Error)

	// the existing session sees the promotion without logging in again
	rec = srv.Do(t, http.MethodGet, "/api/auth/session", nil, buyerToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"SELLER"`)

	rec = srv.Do(t, http.MethodGet, "/api/seller/stats", nil, buyerToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"verificationStatus":"VERIFIED"`)

	notices := srv.Notifier.Notices()
	require.Len(t, notices, 2)
	assert.Equal(t, verification.InReview, notices[0].To)
	assert.Equal(t, verification.Verified, notices[1].To)
}

func TestCategoriesEndpoint(t *testing.T) {
	db := testkit.NewDB(t)
	srv := testkit.NewServer(t, db)
	admin := testkit.CreateUser(t, db, "admin@example.com", models.RoleAdmin)
	buyer := testkit.CreateUser(t, db, "buyer@example.com", models.RoleBuyer)

	body := map[string]any{"name": "Beauty & Wellness", "sortOrder": 6}

	rec := srv.Do(t, http.MethodPost, "/api/categories", body, srv.Login(t, buyer.Email, testkit.Password))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminToken := srv.Login(t, admin.Email, testkit.Password)
	rec = srv.Do(t, http.MethodPost, "/api/categories", body, adminToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"slug":"beauty-wellness"`)

	rec = srv.Do(t, http.MethodPost, "/api/categories", body, adminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.Do(t, http.MethodGet, "/api/categories", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := testkit.Decode[[]struct {
		Name         string `json:"name"`
		ProductCount int64  `json:"productCount"`
		Children     []any  `json:"children"`
	}](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "Beauty & Wellness", list[0].Name)
	assert.Zero(t, list[0].ProductCount)
	assert.NotNil(t, list[0].Children)
}

func TestAdminEndpoints(t *testing.T) {
	db := testkit.NewDB(t)
	srv := testkit.NewServer(t, db)
	admin := testkit.CreateUser(t, db, "admin@example.com", models.RoleAdmin)
	seller := testkit.CreateSeller(t, db, "seller@example.com", verification.Pending)
	p := testkit.CreateProduct(t, db, seller, "Kente", "10")
	adminToken := srv.Login(t, admin.Email, testkit.Password)

	rec := srv.Do(t, http.MethodGet, "/api/admin/stats", nil, srv.Login(t, seller.Email, testkit.Password))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.Do(t, http.MethodPatch, "/api/admin/products/"+p.ID, map[string]any{"status": "INACTIVE", "promoted": true}, adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"status":"INACTIVE"`)
	assert.Contains(t, rec.Body.String(), `"isPromoted":true`)

	rec = srv.Do(t, http.MethodPatch, "/api/admin/products/"+p.ID, map[string]any{"status": "ARCHIVED"}, adminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.Do(t, http.MethodGet, "/api/admin/products", nil, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)

	rec = srv.Do(t, http.MethodGet, "/api/admin/stats", nil, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"totalUsers": 2,
		"totalSellers": 1,
		"totalProducts": 0,
		"pendingVerifications": 1,
		"inReviewVerifications": 0,
		"totalMessages": 0
	}`, rec.Body.String())
}

func TestStorageServesUploadsInert(t *testing.T) {
	db := testkit.NewDB(t)
	svc, _ := testkit.NewServices(t, db)
	disk, err := storage.NewLocal(t.TempDir(), "http://localhost:8080/storage")
	require.NoError(t, err)
	require.NoError(t, disk.Put(context.Background(), "products/a.png", []byte("pixels"), "image/png"))

	k := kernel.NewHTTPKernel(kernel.Options{DB: db, Services: svc, Disk: disk, CORSOrigins: []string{"*"}})

	rec := httptest.NewRecorder()
	k.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/storage/products/a.png", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pixels", rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "sandbox")
}
