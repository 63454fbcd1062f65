package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/inventory"
	"github.com/retail/backoffice/internal/domain/partner"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockStoreStockRepository is a mock implementation of StoreStockRepository
type MockStoreStockRepository struct {
	mock.Mock
}

func (m *MockStoreStockRepository) FindByStoreAndProduct(ctx context.Context, storeID, productID uuid.UUID) (*inventory.StoreStock, error) {
	args := m.Called(ctx, storeID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StoreStock), args.Error(1)
}

func (m *MockStoreStockRepository) FindByStore(ctx context.Context, storeID uuid.UUID) ([]inventory.StoreStock, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StoreStock), args.Error(1)
}

func (m *MockStoreStockRepository) Create(ctx context.Context, stock *inventory.StoreStock) error {
	return m.Called(ctx, stock).Error(0)
}

func (m *MockStoreStockRepository) SetQuantity(ctx context.Context, storeID, productID uuid.UUID, quantity int) error {
	return m.Called(ctx, storeID, productID, quantity).Error(0)
}

func (m *MockStoreStockRepository) Decrement(ctx context.Context, storeID, productID uuid.UUID, quantity int) (bool, error) {
	args := m.Called(ctx, storeID, productID, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *MockStoreStockRepository) Increment(ctx context.Context, storeID, productID uuid.UUID, quantity int) (*inventory.StoreStock, error) {
	args := m.Called(ctx, storeID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StoreStock), args.Error(1)
}

func (m *MockStoreStockRepository) DeleteByStoreAndProduct(ctx context.Context, storeID, productID uuid.UUID) error {
	return m.Called(ctx, storeID, productID).Error(0)
}

func (m *MockStoreStockRepository) CountByStore(ctx context.Context, storeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).(int64), args.Error(1)
}

// MockStockTransferRepository is a mock implementation of StockTransferRepository
type MockStockTransferRepository struct {
	mock.Mock
}

func (m *MockStockTransferRepository) Create(ctx context.Context, transfer *inventory.StockTransfer) error {
	return m.Called(ctx, transfer).Error(0)
}

func (m *MockStockTransferRepository) FindHistory(ctx context.Context, filter shared.Filter) ([]inventory.TransferHistoryEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.TransferHistoryEntry), args.Error(1)
}

func (m *MockStockTransferRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockStoreRepository is a mock implementation of StoreRepository
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Store), args.Error(1)
}

func (m *MockStoreRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Store, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Store), args.Error(1)
}

func (m *MockStoreRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStoreRepository) Save(ctx context.Context, store *partner.Store) error {
	return m.Called(ctx, store).Error(0)
}

func (m *MockStoreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type stockFixture struct {
	stocks    *MockStoreStockRepository
	transfers *MockStockTransferRepository
	stores    *MockStoreRepository
	service   *StockService
}

func newStockFixture() *stockFixture {
	f := &stockFixture{
		stocks:    new(MockStoreStockRepository),
		transfers: new(MockStockTransferRepository),
		stores:    new(MockStoreRepository),
	}
	scope := NewNoOpTransactionScope(f.stocks, f.transfers)
	f.service = NewStockService(f.stocks, f.transfers, f.stores, scope, zap.NewNop())
	return f
}

func storeStock(storeID, productID uuid.UUID, qty int) *inventory.StoreStock {
	s, _ := inventory.NewStoreStock(storeID, productID, qty)
	return s
}

func domainCode(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

func TestStockService_Transfer(t *testing.T) {
	ctx := context.Background()
	from, to, product := uuid.New(), uuid.New(), uuid.New()

	t.Run("moves units and appends a ledger row", func(t *testing.T) {
		f := newStockFixture()
		f.stores.On("FindByID", ctx, to).Return(&partner.Store{}, nil)
		f.stocks.On("FindByStoreAndProduct", ctx, from, product).Return(storeStock(from, product, 10), nil)
		f.stocks.On("Decrement", ctx, from, product, 4).Return(true, nil)
		f.stocks.On("Increment", ctx, to, product, 4).Return(storeStock(to, product, 4), nil)
		f.transfers.On("Create", ctx, mock.MatchedBy(func(tr *inventory.StockTransfer) bool {
			return tr.FromStoreID == from && tr.ToStoreID == to && tr.ProductID == product && tr.Quantity == 4
		})).Return(nil)

		result, err := f.service.Transfer(ctx, TransferStockRequest{
			FromStoreID: from,
			ToStoreID:   to,
			Items:       []TransferItemRequest{{ProductID: product, Quantity: 4}},
		})

		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, to, result[0].StoreID)
		assert.Equal(t, 4, result[0].Quantity)
		f.stocks.AssertExpectations(t)
		f.transfers.AssertExpectations(t)
	})

	t.Run("empty item list touches nothing", func(t *testing.T) {
		f := newStockFixture()

		result, err := f.service.Transfer(ctx, TransferStockRequest{FromStoreID: from, ToStoreID: to})

		require.NoError(t, err)
		assert.Empty(t, result)
		f.stores.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		f.stocks.AssertNotCalled(t, "FindByStoreAndProduct", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("zero quantity is a validation error", func(t *testing.T) {
		f := newStockFixture()

		_, err := f.service.Transfer(ctx, TransferStockRequest{
			FromStoreID: from,
			ToStoreID:   to,
			Items:       []TransferItemRequest{{ProductID: product, Quantity: 0}},
		})

		assert.Equal(t, "VALIDATION_ERROR", domainCode(err))
	})

	t.Run("missing destination store", func(t *testing.T) {
		f := newStockFixture()
		f.stores.On("FindByID", ctx, to).Return(nil, shared.ErrNotFound)

		_, err := f.service.Transfer(ctx, TransferStockRequest{
			FromStoreID: from,
			ToStoreID:   to,
			Items:       []TransferItemRequest{{ProductID: product, Quantity: 1}},
		})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("missing source row", func(t *testing.T) {
		f := newStockFixture()
		f.stores.On("FindByID", ctx, to).Return(&partner.Store{}, nil)
		f.stocks.On("FindByStoreAndProduct", ctx, from, product).Return(nil, shared.ErrNotFound)

		_, err := f.service.Transfer(ctx, TransferStockRequest{
			FromStoreID: from,
			ToStoreID:   to,
			Items:       []TransferItemRequest{{ProductID: product, Quantity: 1}},
		})

		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.stocks.AssertNotCalled(t, "Decrement", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("insufficient source quantity", func(t *testing.T) {
		f := newStockFixture()
		source := storeStock(from, product, 2)
		source.Product = &catalog.Product{Name: "Mate gourd"}
		f.stores.On("FindByID", ctx, to).Return(&partner.Store{}, nil)
		f.stocks.On("FindByStoreAndProduct", ctx, from, product).Return(source, nil)

		_, err := f.service.Transfer(ctx, TransferStockRequest{
			FromStoreID: from,
			ToStoreID:   to,
			Items:       []TransferItemRequest{{ProductID: product, Quantity: 5}},
		})

		require.Error(t, err)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainCode(err))
		assert.Contains(t, err.Error(), "Mate gourd")
		assert.Contains(t, err.Error(), "available 2")
		f.stocks.AssertNotCalled(t, "Decrement", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("lost race on the conditional decrement", func(t *testing.T) {
		f := newStockFixture()
		f.stores.On("FindByID", ctx, to).Return(&partner.Store{}, nil)
		f.stocks.On("FindByStoreAndProduct", ctx, from, product).Return(storeStock(from, product, 5), nil)
		f.stocks.On("Decrement", ctx, from, product, 5).Return(false, nil)

		_, err := f.service.Transfer(ctx, TransferStockRequest{
			FromStoreID: from,
			ToStoreID:   to,
			Items:       []TransferItemRequest{{ProductID: product, Quantity: 5}},
		})

		assert.Equal(t, "INSUFFICIENT_STOCK", domainCode(err))
		f.stocks.AssertNotCalled(t, "Increment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.transfers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestStockService_UpdateProductStock(t *testing.T) {
	ctx := context.Background()
	store, product := uuid.New(), uuid.New()

	t.Run("sets the absolute quantity", func(t *testing.T) {
		f := newStockFixture()
		qty := 7
		f.stocks.On("SetQuantity", ctx, store, product, 7).Return(nil)
		f.stocks.On("FindByStoreAndProduct", ctx, store, product).Return(storeStock(store, product, 7), nil)

		resp, err := f.service.UpdateProductStock(ctx, UpdateStockRequest{StoreID: store, ProductID: product, Quantity: &qty})

		require.NoError(t, err)
		assert.Equal(t, 7, resp.Quantity)
	})

	t.Run("row must exist", func(t *testing.T) {
		f := newStockFixture()
		qty := 1
		f.stocks.On("SetQuantity", ctx, store, product, 1).Return(shared.ErrNotFound)

		_, err := f.service.UpdateProductStock(ctx, UpdateStockRequest{StoreID: store, ProductID: product, Quantity: &qty})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("negative quantity", func(t *testing.T) {
		f := newStockFixture()
		qty := -1

		_, err := f.service.UpdateProductStock(ctx, UpdateStockRequest{StoreID: store, ProductID: product, Quantity: &qty})

		assert.Equal(t, "VALIDATION_ERROR", domainCode(err))
	})
}

func TestStockService_GetStoreProducts_UnknownStore(t *testing.T) {
	f := newStockFixture()
	store := uuid.New()
	f.stores.On("FindByID", mock.Anything, store).Return(nil, shared.ErrNotFound)

	_, err := f.service.GetStoreProducts(context.Background(), store)

	assert.ErrorIs(t, err, shared.ErrNotFound)
	f.stocks.AssertNotCalled(t, "FindByStore", mock.Anything, mock.Anything)
}

func TestStockService_ListTransfers(t *testing.T) {
	f := newStockFixture()
	store := uuid.New()
	entry := inventory.TransferHistoryEntry{
		StockTransfer: *inventory.NewStockTransfer(store, uuid.New(), uuid.New(), 3, nil),
		FromStoreName: "Centro",
		ToStoreName:   "Norte",
		ProductName:   "Yerba 1kg",
	}
	matchFilter := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 20 && f.Filters["store_id"] == store
	})
	f.transfers.On("FindHistory", mock.Anything, matchFilter).Return([]inventory.TransferHistoryEntry{entry}, nil)
	f.transfers.On("Count", mock.Anything, matchFilter).Return(int64(1), nil)

	items, total, err := f.service.ListTransfers(context.Background(), TransferHistoryFilter{StoreID: &store})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Centro", items[0].FromStoreName)
	assert.Equal(t, "Yerba 1kg", items[0].ProductName)
	assert.Equal(t, 3, items[0].Quantity)
}
