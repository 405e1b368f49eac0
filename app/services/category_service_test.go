package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eburutu/mart/app/services"
	"github.com/eburutu/mart/app/verification"
	"github.com/eburutu/mart/internal/testkit"
	"github.com/eburutu/mart/pkg/apperror"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "fashion-textiles", services.Slugify("Fashion & Textiles"))
	assert.Equal(t, "mama-s-kitchen", services.Slugify("  Mama's Kitchen!"))
	assert.Equal(t, "", services.Slugify("&&"))
}

func TestCategoryTree(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	svc, _ := testkit.NewServices(t, db)
	seller := testkit.CreateSeller(t, db, "seller@example.com", verification.Verified)

	_, err := svc.Categories.Create(ctx, services.CreateCategoryInput{Name: "Food", SortOrder: 2})
	require.NoError(t, err)
	fashion, err := svc.Categories.Create(ctx, services.CreateCategoryInput{Name: "Fashion & Textiles", SortOrder: 1})
	require.NoError(t, err)
	assert.Equal(t, "fashion-textiles", fashion.Slug)
	assert.True(t, fashion.IsActive)

	kente, err := svc.Categories.Create(ctx, services.CreateCategoryInput{Name: "Kente", Slug: "kente", ParentID: &fashion.ID})
	require.NoError(t, err)

	testkit.CreateProduct(t, db, seller, "Ankara", "10", testkit.WithCategory(fashion))
	testkit.CreateProduct(t, db, seller, "Old Ankara", "10", testkit.WithCategory(fashion), testkit.Inactive())
	testkit.CreateProduct(t, db, seller, "Kente cloth", "10", testkit.WithCategory(kente))

	tree, err := svc.Categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, "Fashion & Textiles", tree[0].Name)
	assert.Equal(t, int64(1), tree[0].ProductCount)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "Kente", tree[0].Children[0].Name)
	assert.Equal(t, int64(1), tree[0].Children[0].ProductCount)
	assert.Equal(t, "Food", tree[1].Name)
	assert.Empty(t, tree[1].Children)
}

func TestCategoryCreateRejects(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	svc, _ := testkit.NewServices(t, db)
	testkit.CreateCategory(t, db, "Services", nil)

	_, err := svc.Categories.Create(ctx, services.CreateCategoryInput{Name: "Services"})
	require.Error(t, err)
	assert.Equal(t, "Category with this name or slug already exists", apperror.From(err).Message)

	_, err = svc.Categories.Create(ctx, services.CreateCategoryInput{Name: "Other", Slug: "services"})
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalid))

	missing := "00000000-0000-0000-0000-000000000000"
	_, err = svc.Categories.Create(ctx, services.CreateCategoryInput{Name: "Orphan", ParentID: &missing})
	require.Error(t, err)
	assert.Equal(t, "Parent category not found", apperror.From(err).Message)
}
