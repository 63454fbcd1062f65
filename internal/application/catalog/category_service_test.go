package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type categoryFixture struct {
	categories *MockCategoryRepository
	subs       *MockSubcategoryRepository
	products   *MockProductRepository
	processor  *MockImageProcessor
	storage    *MockImageStorage
	service    *CategoryService
	subService *SubcategoryService
}

func newCategoryFixture() *categoryFixture {
	f := &categoryFixture{
		categories: new(MockCategoryRepository),
		subs:       new(MockSubcategoryRepository),
		products:   new(MockProductRepository),
		processor:  new(MockImageProcessor),
		storage:    new(MockImageStorage),
	}
	logger := zap.NewNop()
	images := NewImageUploader(f.processor, f.storage, logger)
	scope := NewNoOpTransactionScope(f.categories, f.subs, f.products, new(MockStoreStockRepository))
	f.service = NewCategoryService(f.categories, f.subs, f.products, scope, images, logger)
	f.subService = NewSubcategoryService(f.subs, f.categories, f.products, images, logger)
	return f
}

func categoryWithSubs(t *testing.T, names ...string) *catalog.Category {
	t.Helper()
	c, err := catalog.NewCategory("Bazar", "")
	require.NoError(t, err)
	for _, n := range names {
		sub, err := catalog.NewSubcategory(c.ID, n, "")
		require.NoError(t, err)
		sub.ImageURL = "/uploads/subcategories/" + n + ".jpg"
		c.Subcategories = append(c.Subcategories, *sub)
	}
	return c
}

func TestCategoryService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := newCategoryFixture()
		f.categories.On("ExistsByName", ctx, "Bazar", uuid.Nil).Return(false, nil)
		f.categories.On("Save", ctx, mock.AnythingOfType("*catalog.Category")).Return(nil)

		resp, err := f.service.Create(ctx, CreateCategoryRequest{Name: "Bazar"})

		require.NoError(t, err)
		assert.Equal(t, "Bazar", resp.Name)
		assert.Empty(t, resp.Subcategories)
	})

	t.Run("duplicate name", func(t *testing.T) {
		f := newCategoryFixture()
		f.categories.On("ExistsByName", ctx, "Bazar", uuid.Nil).Return(true, nil)

		_, err := f.service.Create(ctx, CreateCategoryRequest{Name: "Bazar"})

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		f.categories.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCategoryService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("refused while products exist", func(t *testing.T) {
		f := newCategoryFixture()
		c := categoryWithSubs(t, "termos")
		f.categories.On("FindByID", ctx, c.ID).Return(c, nil)
		f.products.On("CountBySubcategories", ctx, []uuid.UUID{c.Subcategories[0].ID}).Return(int64(3), nil)

		err := f.service.Delete(ctx, c.ID)

		assert.ErrorIs(t, err, ErrCategoryInUse)
		f.subs.AssertNotCalled(t, "DeleteByCategory", mock.Anything, mock.Anything)
	})

	t.Run("cascades subcategories and removes images", func(t *testing.T) {
		f := newCategoryFixture()
		c := categoryWithSubs(t, "termos", "mates")
		c.ImageURL = "/uploads/categories/bazar.jpg"
		f.categories.On("FindByID", ctx, c.ID).Return(c, nil)
		f.products.On("CountBySubcategories", ctx, mock.Anything).Return(int64(0), nil)
		f.subs.On("DeleteByCategory", ctx, c.ID).Return(nil)
		f.categories.On("Delete", ctx, c.ID).Return(nil)
		f.storage.On("Delete", ctx, mock.Anything).Return(nil)

		require.NoError(t, f.service.Delete(ctx, c.ID))

		f.storage.AssertCalled(t, "Delete", ctx, "/uploads/categories/bazar.jpg")
		f.storage.AssertCalled(t, "Delete", ctx, "/uploads/subcategories/mates.jpg")
		f.storage.AssertNumberOfCalls(t, "Delete", 3)
	})
}

func TestCategoryService_UploadImage(t *testing.T) {
	ctx := context.Background()
	f := newCategoryFixture()
	c := categoryWithSubs(t)
	c.ImageURL = "/uploads/categories/old.jpg"
	body := strings.NewReader("png bytes")
	f.categories.On("FindByID", ctx, c.ID).Return(c, nil)
	f.processor.On("Normalize", body).Return([]byte("jpeg"), nil)
	f.storage.On("Put", ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "categories/bazar-")
	}), []byte("jpeg"), "image/jpeg").Return("/uploads/categories/new.jpg", nil)
	f.categories.On("Save", ctx, c).Return(nil)
	f.storage.On("Delete", ctx, "/uploads/categories/old.jpg").Return(nil)

	resp, err := f.service.UploadImage(ctx, c.ID, body)

	require.NoError(t, err)
	assert.Equal(t, "/uploads/categories/new.jpg", resp.ImageURL)
	f.storage.AssertExpectations(t)
}

func TestSubcategoryService(t *testing.T) {
	ctx := context.Background()

	t.Run("create under a missing category", func(t *testing.T) {
		f := newCategoryFixture()
		id := uuid.New()
		f.categories.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := f.subService.Create(ctx, CreateSubcategoryRequest{CategoryID: id, Name: "Termos"})

		assert.Equal(t, "NOT_FOUND", codeOf(err))
	})

	t.Run("duplicate name within the category", func(t *testing.T) {
		f := newCategoryFixture()
		c := categoryWithSubs(t)
		f.categories.On("FindByID", ctx, c.ID).Return(c, nil)
		f.subs.On("Save", ctx, mock.Anything).Return(shared.ErrAlreadyExists)

		_, err := f.subService.Create(ctx, CreateSubcategoryRequest{CategoryID: c.ID, Name: "Termos"})

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		assert.Contains(t, err.Error(), "Subcategory")
	})

	t.Run("delete refused while products exist", func(t *testing.T) {
		f := newCategoryFixture()
		sub, _ := catalog.NewSubcategory(uuid.New(), "Termos", "")
		f.subs.On("FindByID", ctx, sub.ID).Return(sub, nil)
		f.products.On("CountBySubcategories", ctx, []uuid.UUID{sub.ID}).Return(int64(1), nil)

		err := f.subService.Delete(ctx, sub.ID)

		assert.ErrorIs(t, err, ErrCategoryInUse)
	})

	t.Run("delete removes the image", func(t *testing.T) {
		f := newCategoryFixture()
		sub, _ := catalog.NewSubcategory(uuid.New(), "Termos", "")
		sub.ImageURL = "/uploads/subcategories/termos.jpg"
		f.subs.On("FindByID", ctx, sub.ID).Return(sub, nil)
		f.products.On("CountBySubcategories", ctx, []uuid.UUID{sub.ID}).Return(int64(0), nil)
		f.subs.On("Delete", ctx, sub.ID).Return(nil)
		f.storage.On("Delete", ctx, sub.ImageURL).Return(nil)

		require.NoError(t, f.subService.Delete(ctx, sub.ID))
		f.storage.AssertExpectations(t)
	})
}
