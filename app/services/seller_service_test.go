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

func TestSaveProfileCreatesPending(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	svc, _ := testkit.NewServices(t, db)
	buyer := testkit.CreateUser(t, db, "buyer@example.com", models.RoleBuyer)

	view, err := svc.Sellers.SaveProfile(ctx, buyer.ID, services.SellerProfileInput{
		BusinessName:  strp(" Natural Roots "),
		IDDocumentURL: strp("https://cdn.example.com/id.pdf"),
	})
	require.NoError(t, err)
	assert.Equal(t, verification.Pending, view.VerificationStatus)
	assert.Equal(t, "Natural Roots", *view.BusinessName)
	assert.Equal(t, "https://cdn.example.com/id.pdf", *view.IDDocumentURL)
	assert.Nil(t, view.BusinessLicenseURL)
	require.NotNil(t, view.User)
	assert.Equal(t, buyer.Email, view.User.Email)

	// a profile alone does not change the role
	role, _, err := svc.Auth.Lookup(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleBuyer.String(), role)
}

func TestSaveProfileResubmitsRejected(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	svc, _ := testkit.NewServices(t, db)
	seller := testkit.CreateSeller(t, db, "seller@example.com", verification.Rejected)
	before := *seller.SellerProfile.SubmittedAt

	time.Sleep(5 * time.Millisecond)
	view, err := svc.Sellers.SaveProfile(ctx, seller.ID, services.SellerProfileInput{
		BusinessLicenseURL: strp("https://cdn.example.com/licence.pdf"),
	})
	require.NoError(t, err)
	assert.Equal(t, verification.Pending, view.VerificationStatus)
	assert.False(t, view.AdminApproved)
	assert.True(t, view.SubmittedAt.After(before))
	assert.Equal(t, *seller.SellerProfile.BusinessName, *view.BusinessName)
	assert.Equal(t, "https://cdn.example.com/licence.pdf", *view.BusinessLicenseURL)
}

func TestSaveProfileKeepsVerifiedStatus(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	svc, _ := testkit.NewServices(t, db)
	seller := testkit.CreateSeller(t, db, "seller@example.com", verification.Verified)

	view, err := svc.Sellers.SaveProfile(ctx, seller.ID, services.SellerProfileInput{BusinessType: strp("Crafts")})
	require.NoError(t, err)
	assert.Equal(t, verification.Verified, view.VerificationStatus)
	assert.True(t, view.AdminApproved)
	assert.Equal(t, "Crafts", *view.BusinessType)
}

func TestSellerProductsAndStats(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	svc, _ := testkit.NewServices(t, db)
	seller := testkit.CreateSeller(t, db, "seller@example.com", verification.InReview)
	buyer := testkit.CreateUser(t, db, "buyer@example.com", models.RoleBuyer)

	base := time.Now().UTC().Add(-time.Hour)
	testkit.CreateProduct(t, db, seller, "Old", "10", testkit.CreatedAt(base), testkit.WithImages("1.jpg", "2.jpg"))
	hidden := testkit.CreateProduct(t, db, seller, "Hidden", "10", testkit.CreatedAt(base.Add(time.Minute)), testkit.Inactive())
	require.NoError(t, db.Model(hidden).UpdateColumn("view_count", 7).Error)

	products, err := svc.Sellers.Products(ctx, seller.ID)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Hidden", products[0].Title)
	assert.Equal(t, []string{"1.jpg"}, imageURLs(&products[1]))

	conv := models.Conversation{IsActive: true}
	require.NoError(t, db.Create(&conv).Error)
	require.NoError(t, db.Create(&models.Message{ConversationID: conv.ID, SenderID: buyer.ID, ReceiverID: seller.ID, Content: "Still available?"}).Error)
	require.NoError(t, db.Create(&models.Message{ConversationID: conv.ID, SenderID: seller.ID, ReceiverID: buyer.ID, Content: "Yes"}).Error)

	stats, err := svc.Sellers.Stats(ctx, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.ActiveProducts)
	assert.Equal(t, int64(7), stats.TotalViews)
	assert.Equal(t, int64(1), stats.TotalMessages)
	require.NotNil(t, stats.VerificationStatus)
	assert.Equal(t, verification.InReview, *stats.VerificationStatus)

	stats, err = svc.Sellers.Stats(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalProducts)
	assert.Nil(t, stats.VerificationStatus)

	_, err = svc.Sellers.Profile(ctx, buyer.ID)
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
}
