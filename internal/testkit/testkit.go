// Package testkit boots the API against a throwaway sqlite database for
// package tests.
//
//	db := testkit.NewDB(t)
//	srv := testkit.NewServer(t, db)
//	seller := testkit.CreateUser(t, db, "amara@example.com", models.RoleSeller)
//	token := srv.Login(t, seller.Email, testkit.Password)
//	rec := srv.Do(t, http.MethodGet, "/api/seller/stats", nil, token)
package testkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/eburutu/mart/app/models"
	"github.com/eburutu/mart/app/services"
	"github.com/eburutu/mart/app/verification"
	_ "github.com/eburutu/mart/database/migrations"
	"github.com/eburutu/mart/internal/kernel"
	"github.com/eburutu/mart/pkg/auth"
	"github.com/eburutu/mart/pkg/database"
	"github.com/eburutu/mart/pkg/migration"
)

// Password is the plain-text password of every user CreateUser makes.
const Password = "password123"

// NewDB opens a private in-memory database with every migration applied.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ToLower(ulid.Make().String()))
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, migration.New(db, io.Discard).Run())

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// MockNotifier records verification notices. It accepts any call.
type MockNotifier struct {
	mock.Mock
}

func NewMockNotifier() *MockNotifier {
	n := &MockNotifier{}
	n.On("VerificationChanged", mock.Anything).Return()
	return n
}

func (n *MockNotifier) VerificationChanged(_ context.Context, notice services.VerificationNotice) {
	n.Called(notice)
}

// Notices returns the recorded notices in call order.
func (n *MockNotifier) Notices() []services.VerificationNotice {
	var out []services.VerificationNotice
	for _, c := range n.Calls {
		out = append(out, c.Arguments.Get(0).(services.VerificationNotice))
	}
	return out
}

// NewServices builds the service layer over db with a recording notifier.
func NewServices(t testing.TB, db *gorm.DB) (*services.Services, *MockNotifier) {
	t.Helper()
	n := NewMockNotifier()
	return services.New(db, services.Options{Notifier: n}), n
}

// Server is the full HTTP kernel over a test database.
type Server struct {
	DB       *gorm.DB
	Services *services.Services
	Notifier *MockNotifier
	Handler  http.Handler
}

// NewServer builds the kernel without rate limiting.
func NewServer(t testing.TB, db *gorm.DB) *Server {
	t.Helper()

	svc, n := NewServices(t, db)
	k := kernel.NewHTTPKernel(kernel.Options{
		DB:          db,
		Services:    svc,
		CORSOrigins: []string{"*"},
	})
	return &Server{DB: db, Services: svc, Notifier: n, Handler: k.Handler()}
}

// Do sends body as JSON (a string or []byte is sent as is) with an optional
// bearer token.
func (s *Server) Do(t testing.TB, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

// Login signs in through the API and returns the session token.
func (s *Server) Login(t testing.TB, email, password string) string {
	t.Helper()

	rec := s.Do(t, http.MethodPost, "/api/auth/login",
		map[string]string{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := Decode[struct {
		Token string `json:"token"`
	}](t, rec)
	require.NotEmpty(t, body.Token)
	return body.Token
}

// Decode unmarshals the recorded response body into T.
func Decode[T any](t testing.TB, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// CreateUser inserts an active user whose password is Password.
func CreateUser(t testing.TB, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(Password)
	require.NoError(t, err)

	now := time.Now().UTC()
	u := &models.User{
		Email:         email,
		Password:      hash,
		Name:          strings.Split(email, "@")[0],
		Role:          role,
		IsActive:      true,
		EmailVerified: &now,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateProfile gives user a seller profile in the given status.
func CreateProfile(t testing.TB, db *gorm.DB, user *models.User, status verification.Status) *models.SellerProfile {
	t.Helper()

	now := time.Now().UTC()
	name := user.Name + " Trading"
	p := &models.SellerProfile{
		UserID:             user.ID,
		BusinessName:       &name,
		VerificationStatus: status,
		SubmittedAt:        &now,
		AdminApproved:      status == verification.Verified,
	}
	require.NoError(t, db.Omit("User").Create(p).Error)
	return p
}

// CreateSeller is a SELLER user with a profile in the given status.
func CreateSeller(t testing.TB, db *gorm.DB, email string, status verification.Status) *models.User {
	t.Helper()
	u := CreateUser(t, db, email, models.RoleSeller)
	u.SellerProfile = CreateProfile(t, db, u, status)
	return u
}

// CreateCategory inserts an active category; slug is derived from name.
func CreateCategory(t testing.TB, db *gorm.DB, name string, parent *models.Category) *models.Category {
	t.Helper()

	c := &models.Category{Name: name, Slug: services.Slugify(name), IsActive: true}
	if parent != nil {
		c.ParentID = &parent.ID
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

// ProductOption adjusts a product before CreateProduct inserts it.
type ProductOption func(*models.Product)

func WithCategory(c *models.Category) ProductOption {
	return func(p *models.Product) { p.CategoryID = &c.ID }
}

func WithLocation(loc string) ProductOption {
	return func(p *models.Product) { p.Location = loc }
}

func Promoted() ProductOption {
	return func(p *models.Product) { p.IsPromoted = true }
}

func Inactive() ProductOption {
	return func(p *models.Product) { p.IsActive = false }
}

func CreatedAt(at time.Time) ProductOption {
	return func(p *models.Product) { p.CreatedAt = at }
}

// WithImages attaches images in the given order.
func WithImages(urls ...string) ProductOption {
	return func(p *models.Product) {
		for i, u := range urls {
			p.Images = append(p.Images, models.ProductImage{ImageURL: u, SortOrder: i})
		}
	}
}

// CreateProduct inserts an active product priced at price.
func CreateProduct(t testing.TB, db *gorm.DB, seller *models.User, title, price string, opts ...ProductOption) *models.Product {
	t.Helper()

	p := &models.Product{
		Title:       title,
		Description: title + " description",
		Price:       decimal.RequireFromString(price),
		Currency:    models.DefaultCurrency,
		Condition:   models.ConditionNew,
		Location:    "London, UK",
		IsActive:    true,
		SellerID:    seller.ID,
	}
	for _, opt := range opts {
		opt(p)
	}
	require.NoError(t, db.Omit("Seller", "Category").Create(p).Error)
	return p
}
