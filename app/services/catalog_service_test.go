package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eburutu/mart/app/models"
	"github.com/eburutu/mart/app/services"
	"github.com/eburutu/mart/app/verification"
	"github.com/eburutu/mart/internal/testkit"
	"github.com/eburutu/mart/pkg/apperror"
)

func titles(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Title
	}
	return out
}

func TestCatalogOrdersPromotedThenNewest(t *testing.T) {
	db := testkit.NewDB(t)
	svc, _ := testkit.NewServices(t, db)
	seller := testkit.CreateSeller(t, db, "amara@example.com", verification.Verified)

	base := time.Now().UTC().Add(-time.Hour)
	testkit.CreateProduct(t, db, seller, "Old", "10", testkit.CreatedAt(base))
	testkit.CreateProduct(t, db, seller, "New", "10", testkit.CreatedAt(base.Add(2*time.Minute)))
	testkit.CreateProduct(t, db, seller, "Promoted", "10", testkit.CreatedAt(base.Add(time.Minute)), testkit.Promoted())
	testkit.CreateProduct(t, db, seller, "Hidden", "10", testkit.Inactive())

	page, err := svc.Catalog.List(context.Background(), services.CatalogQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Promoted", "New", "Old"}, titles(page.Products))
	assert.Equal(t, int64(3), page.Pagination.Total)
	assert.Equal(t, services.DefaultCatalogLimit, page.Pagination.Limit)
	assert.Equal(t, 1, page.Pagination.Pages)
}

func TestCatalogFilters(t *testing.T) {
	db := testkit.NewDB(t)
	svc, _ := testkit.NewServices(t, db)

	verified := testkit.CreateSeller(t, db, "verified@example.com", verification.Verified)
	pending := testkit.CreateSeller(t, db, "pending@example.com", verification.Pending)
	fashion := testkit.CreateCategory(t, db, "Fashion & Textiles", nil)
	food := testkit.CreateCategory(t, db, "Food & Groceries", nil)

	testkit.CreateProduct(t, db, verified, "Ankara Fabric Set", "45.99", testkit.WithCategory(fashion))
	testkit.CreateProduct(t, db, pending, "Kente Cloth", "199.99", testkit.WithCategory(fashion), testkit.WithLocation("Leeds, UK"))
	testkit.CreateProduct(t, db, verified, "Jollof Spice Kit", "18.99", testkit.WithCategory(food), testkit.WithLocation("Birmingham, UK"))

	cases := []struct {
		name  string
		query services.CatalogQuery
		want  []string
	}{
		{"category slug", services.CatalogQuery{Category: "fashion-textiles"}, []string{"Ankara Fabric Set", "Kente Cloth"}},
		{"unknown category", services.CatalogQuery{Category: "nope"}, nil},
		{"search is case insensitive", services.CatalogQuery{Search: "KENTE"}, []string{"Kente Cloth"}},
		{"search matches description", services.CatalogQuery{Search: "spice kit description"}, []string{"Jollof Spice Kit"}},
		{"location", services.CatalogQuery{Location: "leeds"}, []string{"Kente Cloth"}},
		{"min price", services.CatalogQuery{MinPrice: "45.99"}, []string{"Ankara Fabric Set", "Kente Cloth"}},
		{"max price", services.CatalogQuery{MaxPrice: "45.99"}, []string{"Ankara Fabric Set", "Jollof Spice Kit"}},
		{"price range", services.CatalogQuery{MinPrice: "20", MaxPrice: "100"}, []string{"Ankara Fabric Set"}},
		{"inverted range", services.CatalogQuery{MinPrice: "50", MaxPrice: "20"}, nil},
		{"malformed price is ignored", services.CatalogQuery{MinPrice: "cheap"}, []string{"Ankara Fabric Set", "Kente Cloth", "Jollof Spice Kit"}},
		{"verified sellers only", services.CatalogQuery{Verified: "true"}, []string{"Ankara Fabric Set", "Jollof Spice Kit"}},
		{"verified must be exactly true", services.CatalogQuery{Verified: "yes"}, []string{"Ankara Fabric Set", "Kente Cloth", "Jollof Spice Kit"}},
		{"combined", services.CatalogQuery{Category: "fashion-textiles", Verified: "true"}, []string{"Ankara Fabric Set"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, err := svc.Catalog.List(context.Background(), tc.query)
			require.NoError(t, err)
			assert.ElementsMatch(t, tc.want, titles(page.Products))
			assert.Equal(t, int64(len(tc.want)), page.Pagination.Total)
		})
	}
}

func TestCatalogPagination(t *testing.T) {
	db := testkit.NewDB(t)
	svc, _ := testkit.NewServices(t, db)
	seller := testkit.CreateSeller(t, db, "amara@example.com", verification.Verified)

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		testkit.CreateProduct(t, db, seller, string(rune('A'+i)), "10", testkit.CreatedAt(base.Add(time.Duration(i)*time.Minute)))
	}

	page, err := svc.Catalog.List(context.Background(), services.CatalogQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B"}, titles(page.Products))
	assert.Equal(t, 2, page.Pagination.Page)
	assert.Equal(t, 2, page.Pagination.Limit)
	assert.Equal(t, int64(5), page.Pagination.Total)
	assert.Equal(t, 3, page.Pagination.Pages)

	page, err = svc.Catalog.List(context.Background(), services.CatalogQuery{Page: 9, Limit: 1000})
	require.NoError(t, err)
	assert.Empty(t, page.Products)
	assert.NotNil(t, page.Products)
	assert.Equal(t, services.MaxCatalogLimit, page.Pagination.Limit)
}

func TestCatalogGetCountsViews(t *testing.T) {
	db := testkit.NewDB(t)
	svc, _ := testkit.NewServices(t, db)
	seller := testkit.CreateSeller(t, db, "amara@example.com", verification.Verified)
	p := testkit.CreateProduct(t, db, seller, "Ankara", "45.99", testkit.WithImages("b.jpg", "a.jpg"))

	ctx := context.Background()
	got, err := svc.Catalog.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ViewCount)
	require.NotNil(t, got.Seller)
	assert.True(t, got.Seller.SellerProfile.IsVerified())
	require.Len(t, got.Images, 2)
	assert.Equal(t, "b.jpg", got.Images[0].ImageURL)

	conv := models.Conversation{ProductID: &p.ID, IsActive: true}
	require.NoError(t, db.Create(&conv).Error)

	got, err = svc.Catalog.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ViewCount)
	assert.Equal(t, int64(1), got.ConversationCount)
}

func TestCatalogGetHidesInactive(t *testing.T) {
	db := testkit.NewDB(t)
	svc, _ := testkit.NewServices(t, db)
	seller := testkit.CreateSeller(t, db, "amara@example.com", verification.Verified)
	p := testkit.CreateProduct(t, db, seller, "Gone", "5", testkit.Inactive())

	_, err := svc.Catalog.Get(context.Background(), p.ID)
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))

	_, err = svc.Catalog.Get(context.Background(), "missing")
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
}
