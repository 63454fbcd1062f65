package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/inventory"
	"github.com/retail/backoffice/internal/domain/partner"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/retail/backoffice/internal/domain/wholesale"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type productFixture struct {
	products  *MockProductRepository
	subs      *MockSubcategoryRepository
	stores    *MockStoreRepository
	suppliers *MockSupplierRepository
	stocks    *MockStoreStockRepository
	processor *MockImageProcessor
	storage   *MockImageStorage
	links     *MockLinkResolver
	service   *ProductService
}

func newProductFixture() *productFixture {
	f := &productFixture{
		products:  new(MockProductRepository),
		subs:      new(MockSubcategoryRepository),
		stores:    new(MockStoreRepository),
		suppliers: new(MockSupplierRepository),
		stocks:    new(MockStoreStockRepository),
		processor: new(MockImageProcessor),
		storage:   new(MockImageStorage),
		links:     new(MockLinkResolver),
	}
	logger := zap.NewNop()
	scope := NewNoOpTransactionScope(new(MockCategoryRepository), f.subs, f.products, f.stocks)
	f.service = NewProductService(
		f.products, f.subs, f.stores, f.suppliers, f.stocks, scope,
		NewImageUploader(f.processor, f.storage, logger), f.links, logger,
	)
	return f
}

func codeOf(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

func testSubcategory() *catalog.Subcategory {
	sub, err := catalog.NewSubcategory(uuid.New(), "Termos", "")
	if err != nil {
		panic(err)
	}
	return sub
}

func testProduct(subID uuid.UUID, price int64) *catalog.Product {
	p, err := catalog.NewProduct(catalog.ProductDetails{
		Name:          "Termo Stanley",
		Code:          "TS-" + uuid.NewString()[:6],
		Price:         decimal.NewFromInt(price),
		SubcategoryID: subID,
	}, 20)
	if err != nil {
		panic(err)
	}
	return p
}

func createRequest(subID uuid.UUID) CreateProductRequest {
	return CreateProductRequest{
		ProductAttributes: ProductAttributes{
			Name:          "Mate imperial",
			Code:          "MI-001",
			Price:         decimal.NewFromInt(15000),
			SubcategoryID: subID,
		},
		Stock: 12,
	}
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("places initial stock in the store", func(t *testing.T) {
		f := newProductFixture()
		sub := testSubcategory()
		storeID := uuid.New()
		store, _ := partner.NewStore("Centro", "Av. Siempreviva 742")
		store.ID = storeID
		req := createRequest(sub.ID)
		req.StoreID = &storeID
		req.VolumeDiscounts = []VolumeDiscountInput{{MinQuantity: 10, DiscountPercentage: decimal.NewFromInt(5)}}
		req.BoxConfigurations = []BoxConfigurationInput{{Name: "Caja x6", QuantityInBox: 6, TotalBoxPrice: decimal.NewFromInt(80000)}}

		f.subs.On("FindByID", ctx, sub.ID).Return(sub, nil)
		f.stores.On("FindByID", ctx, storeID).Return(store, nil)
		f.products.On("Create", ctx, mock.MatchedBy(func(p *catalog.Product) bool {
			return len(p.VolumeDiscounts) == 1 && len(p.BoxConfigurations) == 1 && p.BoxConfigurations[0].ProductID == p.ID
		})).Return(nil)
		f.stocks.On("Create", ctx, mock.MatchedBy(func(s *inventory.StoreStock) bool {
			return s.StoreID == storeID && s.Quantity == 12
		})).Return(nil)

		resp, err := f.service.Create(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, 12, resp.Stock)
		assert.Equal(t, "MI-001", resp.Code)
		require.Len(t, resp.BoxConfigurations, 1)
		assert.True(t, resp.BoxConfigurations[0].UnitPrice.Equal(decimal.RequireFromString("13333.33")))
		f.stocks.AssertExpectations(t)
	})

	t.Run("without a store only the global counter is set", func(t *testing.T) {
		f := newProductFixture()
		sub := testSubcategory()
		f.subs.On("FindByID", ctx, sub.ID).Return(sub, nil)
		f.products.On("Create", ctx, mock.Anything).Return(nil)

		_, err := f.service.Create(ctx, createRequest(sub.ID))

		require.NoError(t, err)
		f.stocks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown subcategory", func(t *testing.T) {
		f := newProductFixture()
		id := uuid.New()
		f.subs.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := f.service.Create(ctx, createRequest(id))

		assert.Equal(t, "NOT_FOUND", codeOf(err))
		assert.Contains(t, err.Error(), "Subcategory")
	})

	t.Run("duplicate code", func(t *testing.T) {
		f := newProductFixture()
		sub := testSubcategory()
		f.subs.On("FindByID", ctx, sub.ID).Return(sub, nil)
		f.products.On("Create", ctx, mock.Anything).Return(shared.ErrAlreadyExists)

		_, err := f.service.Create(ctx, createRequest(sub.ID))

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		assert.Contains(t, err.Error(), "code")
	})

	t.Run("discount above one hundred percent", func(t *testing.T) {
		f := newProductFixture()
		sub := testSubcategory()
		req := createRequest(sub.ID)
		req.VolumeDiscounts = []VolumeDiscountInput{{MinQuantity: 5, DiscountPercentage: decimal.NewFromInt(120)}}
		f.subs.On("FindByID", ctx, sub.ID).Return(sub, nil)

		_, err := f.service.Create(ctx, req)

		assert.Equal(t, "INVALID_DISCOUNT", codeOf(err))
		f.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps options when the request omits them", func(t *testing.T) {
		f := newProductFixture()
		sub := testSubcategory()
		product := testProduct(sub.ID, 100)
		stock := 3
		f.products.On("FindByID", ctx, product.ID).Return(product, nil)
		f.subs.On("FindByID", ctx, sub.ID).Return(sub, nil)
		f.products.On("Save", ctx, product).Return(nil)

		resp, err := f.service.Update(ctx, product.ID, UpdateProductRequest{
			ProductAttributes: ProductAttributes{Name: "Termo 1L", Code: product.Code, Price: decimal.NewFromInt(120), SubcategoryID: sub.ID},
			Stock:             &stock,
		})

		require.NoError(t, err)
		assert.Equal(t, "Termo 1L", resp.Name)
		assert.Equal(t, 3, resp.Stock)
		assert.True(t, resp.IsLowStock)
		f.products.AssertNotCalled(t, "ReplaceOptions", mock.Anything, mock.Anything)
	})

	t.Run("empty lists clear options", func(t *testing.T) {
		f := newProductFixture()
		sub := testSubcategory()
		product := testProduct(sub.ID, 100)
		f.products.On("FindByID", ctx, product.ID).Return(product, nil)
		f.subs.On("FindByID", ctx, sub.ID).Return(sub, nil)
		f.products.On("Save", ctx, product).Return(nil)
		f.products.On("ReplaceOptions", ctx, product).Return(nil)

		_, err := f.service.Update(ctx, product.ID, UpdateProductRequest{
			ProductAttributes: ProductAttributes{Name: product.Name, Code: product.Code, SubcategoryID: sub.ID},
			VolumeDiscounts:   []VolumeDiscountInput{},
		})

		require.NoError(t, err)
		f.products.AssertCalled(t, "ReplaceOptions", ctx, product)
	})
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("hides hidden products and prices with a wholesale token", func(t *testing.T) {
		f := newProductFixture()
		subID := uuid.New()
		plain := testProduct(subID, 100)
		own := testProduct(subID, 100)
		wp := decimal.NewFromInt(80)
		minQty := 5
		own.WholesalePrice = &wp
		own.MinWholesaleQty = &minQty
		link, err := wholesale.NewLink(wholesale.LinkDetails{Name: "Mayorista", Discount: decimal.NewFromInt(10)}, nil)
		require.NoError(t, err)

		visibleOnly := mock.MatchedBy(func(fl shared.Filter) bool { return fl.Filters["hidden"] == false })
		f.products.On("FindAll", ctx, visibleOnly).Return([]catalog.Product{*plain, *own}, nil)
		f.products.On("Count", ctx, visibleOnly).Return(int64(2), nil)
		f.links.On("ResolveToken", ctx, link.Token).Return(link, nil).Once()

		items, total, err := f.service.List(ctx, ProductListFilter{WholesaleToken: link.Token})

		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, items, 2)
		assert.True(t, items[0].Price.Equal(decimal.NewFromInt(90)))
		assert.True(t, items[0].OriginalPrice.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, 1, *items[0].MinWholesaleQty)
		assert.True(t, items[1].Price.Equal(wp))
		assert.Equal(t, 5, *items[1].MinWholesaleQty)
		f.links.AssertNumberOfCalls(t, "ResolveToken", 1)
	})

	t.Run("invalid token prices at retail", func(t *testing.T) {
		f := newProductFixture()
		p := testProduct(uuid.New(), 100)
		f.products.On("FindAll", ctx, mock.Anything).Return([]catalog.Product{*p}, nil)
		f.products.On("Count", ctx, mock.Anything).Return(int64(1), nil)
		f.links.On("ResolveToken", ctx, "expired").Return(nil, nil)

		items, _, err := f.service.List(ctx, ProductListFilter{WholesaleToken: "expired"})

		require.NoError(t, err)
		assert.False(t, items[0].IsWholesale)
		assert.True(t, items[0].Price.Equal(decimal.NewFromInt(100)))
	})

	t.Run("low stock preset", func(t *testing.T) {
		f := newProductFixture()
		lowStock := mock.MatchedBy(func(fl shared.Filter) bool {
			_, out := fl.Filters["out_of_stock"]
			return fl.Filters["low_stock"] == true && !out
		})
		f.products.On("FindAll", ctx, lowStock).Return([]catalog.Product{}, nil)
		f.products.On("Count", ctx, lowStock).Return(int64(0), nil)

		items, _, err := f.service.ListLowStock(ctx, ProductListFilter{OutOfStock: true})

		require.NoError(t, err)
		assert.Empty(t, items)
		f.links.AssertNotCalled(t, "ResolveToken", mock.Anything, mock.Anything)
	})
}

func TestProductService_ListByCategory(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture()
	sub := testSubcategory()
	f.subs.On("FindByID", ctx, sub.ID).Return(sub, nil)

	_, _, err := f.service.ListByCategory(ctx, uuid.New(), sub.ID, ProductListFilter{})

	assert.Equal(t, "NOT_FOUND", codeOf(err))
	f.products.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("referenced products are refused", func(t *testing.T) {
		f := newProductFixture()
		p := testProduct(uuid.New(), 100)
		f.products.On("FindByID", ctx, p.ID).Return(p, nil)
		f.products.On("IsReferenced", ctx, p.ID).Return(true, nil)

		err := f.service.Delete(ctx, p.ID, nil)

		assert.ErrorIs(t, err, ErrProductReferenced)
		f.products.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("removes the product and its images", func(t *testing.T) {
		f := newProductFixture()
		p := testProduct(uuid.New(), 100)
		p.Images = []string{"/uploads/products/a.jpg", "/uploads/products/b.jpg"}
		f.products.On("FindByID", ctx, p.ID).Return(p, nil)
		f.products.On("IsReferenced", ctx, p.ID).Return(false, nil)
		f.products.On("Delete", ctx, p.ID).Return(nil)
		f.storage.On("Delete", ctx, "/uploads/products/a.jpg").Return(errors.New("gone"))
		f.storage.On("Delete", ctx, "/uploads/products/b.jpg").Return(nil)

		require.NoError(t, f.service.Delete(ctx, p.ID, nil))
		f.storage.AssertNumberOfCalls(t, "Delete", 2)
	})

	t.Run("store scoped delete only drops the store row", func(t *testing.T) {
		f := newProductFixture()
		productID, storeID := uuid.New(), uuid.New()
		row, _ := inventory.NewStoreStock(storeID, productID, 4)
		f.stocks.On("FindByStoreAndProduct", ctx, storeID, productID).Return(row, nil)
		f.stocks.On("DeleteByStoreAndProduct", ctx, storeID, productID).Return(nil)

		require.NoError(t, f.service.Delete(ctx, productID, &storeID))
		f.products.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("store scoped delete of an unstocked product", func(t *testing.T) {
		f := newProductFixture()
		productID, storeID := uuid.New(), uuid.New()
		f.stocks.On("FindByStoreAndProduct", ctx, storeID, productID).Return(nil, shared.ErrNotFound)

		err := f.service.Delete(ctx, productID, &storeID)

		assert.Equal(t, "NOT_FOUND", codeOf(err))
	})
}

func TestProductService_UploadImage(t *testing.T) {
	ctx := context.Background()

	t.Run("appends the stored url", func(t *testing.T) {
		f := newProductFixture()
		p := testProduct(uuid.New(), 100)
		body := strings.NewReader("raw")
		f.products.On("FindByID", ctx, p.ID).Return(p, nil)
		f.processor.On("Normalize", body).Return([]byte("jpeg"), nil)
		f.storage.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "products/termo-stanley-") && strings.HasSuffix(key, ".jpg")
		}), []byte("jpeg"), "image/jpeg").Return("/uploads/products/x.jpg", nil)
		f.products.On("Save", ctx, p).Return(nil)

		resp, err := f.service.UploadImage(ctx, p.ID, body)

		require.NoError(t, err)
		assert.Equal(t, []string{"/uploads/products/x.jpg"}, resp.Images)
	})

	t.Run("a failed save removes the written file", func(t *testing.T) {
		f := newProductFixture()
		p := testProduct(uuid.New(), 100)
		body := strings.NewReader("raw")
		f.products.On("FindByID", ctx, p.ID).Return(p, nil)
		f.processor.On("Normalize", body).Return([]byte("jpeg"), nil)
		f.storage.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return("/uploads/products/x.jpg", nil)
		f.products.On("Save", ctx, p).Return(errors.New("db down"))
		f.storage.On("Delete", ctx, "/uploads/products/x.jpg").Return(nil)

		_, err := f.service.UploadImage(ctx, p.ID, body)

		require.Error(t, err)
		f.storage.AssertCalled(t, "Delete", ctx, "/uploads/products/x.jpg")
	})

	t.Run("unsupported content", func(t *testing.T) {
		f := newProductFixture()
		p := testProduct(uuid.New(), 100)
		body := strings.NewReader("not an image")
		f.products.On("FindByID", ctx, p.ID).Return(p, nil)
		f.processor.On("Normalize", body).Return(nil, shared.NewDomainError("INVALID_FILE", "Unsupported image type"))

		_, err := f.service.UploadImage(ctx, p.ID, body)

		assert.Equal(t, "INVALID_FILE", codeOf(err))
		f.storage.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
