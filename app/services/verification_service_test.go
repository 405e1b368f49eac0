package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eburutu/mart/app/models"
	"github.com/eburutu/mart/app/services"
	"github.com/eburutu/mart/app/verification"
	"github.com/eburutu/mart/internal/testkit"
	"github.com/eburutu/mart/pkg/apperror"
)

func TestTransitionVerifyPromotesBuyer(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	svc, notifier := testkit.NewServices(t, db)
	admin := testkit.CreateUser(t, db, "admin@example.com", models.RoleAdmin)
	buyer := testkit.CreateUser(t, db, "buyer@example.com", models.RoleBuyer)
	profile := testkit.CreateProfile(t, db, buyer, verification.Pending)

	view, err := svc.Verifications.Transition(ctx, admin.ID, profile.ID, services.TransitionInput{Status: "verified"})
	require.NoError(t, err)
	assert.Equal(t, verification.Verified, view.VerificationStatus)
	assert.True(t, view.AdminApproved)
	assert.NotNil(t, view.VerifiedAt)
	assert.NotNil(t, view.ReviewedAt)
	require.NotNil(t, view.ReviewedByID)
	assert.Equal(t, admin.ID, *view.ReviewedByID)
	assert.Equal(t, buyer.Email, view.User.Email)

	role, _, err := svc.Auth.Lookup(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSeller.String(), role)

	notices := notifier.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, verification.Pending, notices[0].From)
	assert.Equal(t, verification.Verified, notices[0].To)
	assert.Equal(t, buyer.Email, notices[0].Email)
	assert.Equal(t, admin.ID, notices[0].ReviewedBy)
}

func TestTransitionVerifyKeepsAdminRole(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	svc, _ := testkit.NewServices(t, db)
	admin := testkit.CreateUser(t, db, "admin@example.com", models.RoleAdmin)
	profile := testkit.CreateProfile(t, db, admin, verification.InReview)

	_, err := svc.Verifications.Transition(ctx, admin.ID, profile.ID, services.TransitionInput{Status: "VERIFIED"})
	require.NoError(t, err)

	role, _, err := svc.Auth.Lookup(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin.String(), role)
}

func TestTransitionReject(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	svc, notifier := testkit.NewServices(t, db)
	admin := testkit.CreateUser(t, db, "admin@example.com", models.RoleAdmin)
	seller := testkit.CreateSeller(t, db, "seller@example.com", verification.InReview)
	id := seller.SellerProfile.ID

	_, err := svc.Verifications.Transition(ctx, admin.ID, id, services.TransitionInput{Status: "REJECTED"})
	require.Error(t, err)
	assert.Equal(t, "Notes are required when rejecting a verification", apperror.From(err).Message)

	_, err = svc.Verifications.Transition(ctx, admin.ID, id, services.TransitionInput{Status: "REJECTED", Notes: strp("   ")})
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalid))
	assert.Empty(t, notifier.Notices())

	view, err := svc.Verifications.Transition(ctx, admin.ID, id, services.TransitionInput{Status: "REJECTED", Notes: strp("Blurry ID")})
	require.NoError(t, err)
	assert.Equal(t, verification.Rejected, view.VerificationStatus)
	assert.False(t, view.AdminApproved)
	assert.NotNil(t, view.RejectedAt)
	assert.Equal(t, "Blurry ID", *view.VerificationNotes)
	require.Len(t, notifier.Notices(), 1)
	assert.Equal(t, "Blurry ID", notifier.Notices()[0].Notes)

	role, _, err := svc.Auth.Lookup(ctx, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSeller.String(), role)
}

func TestTransitionRejectKeepsBuyerRole(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	svc, _ := testkit.NewServices(t, db)
	admin := testkit.CreateUser(t, db, "admin@example.com", models.RoleAdmin)
	buyer := testkit.CreateUser(t, db, "buyer@example.com", models.RoleBuyer)
	profile := testkit.CreateProfile(t, db, buyer, verification.Pending)

	view, err := svc.Verifications.Transition(ctx, admin.ID, profile.ID, services.TransitionInput{Status: "REJECTED", Notes: strp("Document unreadable")})
	require.NoError(t, err)
	assert.Equal(t, verification.Rejected, view.VerificationStatus)
	require.NotNil(t, view.VerificationNotes)
	assert.Equal(t, "Document unreadable", *view.VerificationNotes)

	role, _, err := svc.Auth.Lookup(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleBuyer.String(), role)
}

func TestTransitionVerifyTwiceIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	svc, notifier := testkit.NewServices(t, db)
	admin := testkit.CreateUser(t, db, "admin@example.com", models.RoleAdmin)
	buyer := testkit.CreateUser(t, db, "buyer@example.com", models.RoleBuyer)
	profile := testkit.CreateProfile(t, db, buyer, verification.InReview)

	_, err := svc.Verifications.Transition(ctx, admin.ID, profile.ID, services.TransitionInput{Status: "VERIFIED"})
	require.NoError(t, err)
	first, err := svc.Verifications.Get(ctx, profile.ID)
	require.NoError(t, err)
	require.NotNil(t, first.VerifiedAt)

	second, err := svc.Verifications.Transition(ctx, admin.ID, profile.ID, services.TransitionInput{Status: "VERIFIED"})
	require.NoError(t, err)
	assert.Equal(t, verification.Verified, second.VerificationStatus)
	require.NotNil(t, second.VerifiedAt)
	assert.True(t, first.VerifiedAt.Equal(*second.VerifiedAt))

	role, _, err := svc.Auth.Lookup(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSeller.String(), role)
	assert.Len(t, notifier.Notices(), 1)
}

func TestTransitionRules(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	svc, notifier := testkit.NewServices(t, db)
	admin := testkit.CreateUser(t, db, "admin@example.com", models.RoleAdmin)

	t.Run("terminal states are final", func(t *testing.T) {
		seller := testkit.CreateSeller(t, db, "verified@example.com", verification.Verified)
		_, err := svc.Verifications.Transition(ctx, admin.ID, seller.SellerProfile.ID, services.TransitionInput{Status: "PENDING"})
		require.Error(t, err)
		assert.Equal(t, "Invalid status transition", apperror.From(err).Message)
	})

	t.Run("same status only updates notes", func(t *testing.T) {
		seller := testkit.CreateSeller(t, db, "review@example.com", verification.InReview)
		before := len(notifier.Notices())

		view, err := svc.Verifications.Transition(ctx, admin.ID, seller.SellerProfile.ID,
			services.TransitionInput{Status: "IN_REVIEW", Notes: strp("Checking licence")})
		require.NoError(t, err)
		assert.Equal(t, verification.InReview, view.VerificationStatus)
		assert.Equal(t, "Checking licence", *view.VerificationNotes)
		assert.Len(t, notifier.Notices(), before)
	})

	t.Run("unknown status", func(t *testing.T) {
		seller := testkit.CreateSeller(t, db, "unknown@example.com", verification.Pending)
		_, err := svc.Verifications.Transition(ctx, admin.ID, seller.SellerProfile.ID, services.TransitionInput{Status: "APPROVED"})
		assert.True(t, apperror.IsCode(err, apperror.CodeInvalid))
	})

	t.Run("missing profile", func(t *testing.T) {
		_, err := svc.Verifications.Transition(ctx, admin.ID, "missing", services.TransitionInput{Status: "VERIFIED"})
		assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
	})
}

func TestVerificationList(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	svc, _ := testkit.NewServices(t, db)
	testkit.CreateSeller(t, db, "a@example.com", verification.Pending)
	testkit.CreateSeller(t, db, "b@example.com", verification.Verified)
	testkit.CreateSeller(t, db, "c@example.com", verification.Pending)

	all, err := svc.Verifications.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	pending, err := svc.Verifications.List(ctx, "pending")
	require.NoError(t, err)
	require.Len(t, pending, 2)
	for _, v := range pending {
		assert.Equal(t, verification.Pending, v.VerificationStatus)
		require.NotNil(t, v.User)
	}

	_, err = svc.Verifications.List(ctx, "bogus")
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalid))

	_, err = svc.Verifications.Get(ctx, "missing")
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
}
