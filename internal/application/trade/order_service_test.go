package trade

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/inventory"
	"github.com/retail/backoffice/internal/domain/partner"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/retail/backoffice/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type orderFixture struct {
	orders   *MockOrderRepository
	saleTxs  *MockSaleTransactionRepository
	products *MockProductRepository
	stocks   *MockStoreStockRepository
	clients  *MockClientRepository
	stores   *MockStoreRepository
	sellers  *MockSellerRepository
	gateway  *MockPaymentGateway
	idem     *memoryIdempotency
	service  *OrderService
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orders:   new(MockOrderRepository),
		saleTxs:  new(MockSaleTransactionRepository),
		products: new(MockProductRepository),
		stocks:   new(MockStoreStockRepository),
		clients:  new(MockClientRepository),
		stores:   new(MockStoreRepository),
		sellers:  new(MockSellerRepository),
		gateway:  new(MockPaymentGateway),
		idem:     newMemoryIdempotency(),
	}
	scope := NewNoOpTransactionScope(f.orders, f.saleTxs, f.products, f.stocks)
	f.service = NewOrderService(f.orders, f.saleTxs, f.clients, f.stores, f.sellers, scope, f.gateway, f.idem, zap.NewNop())
	return f
}

func newTestProduct(name string, stock int) *catalog.Product {
	p, err := catalog.NewProduct(catalog.ProductDetails{
		Name:          name,
		Code:          "SKU-" + name,
		Price:         decimal.NewFromInt(100),
		SubcategoryID: uuid.New(),
	}, stock)
	if err != nil {
		panic(err)
	}
	return p
}

func codeOf(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

func TestOrderService_CreateOrder_Online(t *testing.T) {
	ctx := context.Background()

	t.Run("captures prices and decrements global stock only", func(t *testing.T) {
		f := newOrderFixture()
		product := newTestProduct("Termo", 10)
		f.products.On("FindByIDForUpdate", ctx, product.ID).Return(product, nil)
		f.orders.On("Create", ctx, mock.AnythingOfType("*trade.Order")).Return(nil)
		f.products.On("DecrementStock", ctx, product.ID, 2).Return(true, nil)

		resp, err := f.service.CreateOrder(ctx, CreateOrderRequest{
			SaleChannel: "ONLINE_WEB",
			Total:       decimal.NewFromInt(170),
			Items:       []CreateOrderItemInput{{ProductID: product.ID, Quantity: 2, Price: decimal.NewFromInt(85)}},
		})

		require.NoError(t, err)
		assert.Equal(t, "PENDING", resp.Status)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "Termo", resp.Items[0].ProductName)
		assert.True(t, resp.Items[0].Total.Equal(decimal.NewFromInt(170)))
		f.stocks.AssertNotCalled(t, "Decrement", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.products.AssertExpectations(t)
	})

	t.Run("insufficient global stock names the product", func(t *testing.T) {
		f := newOrderFixture()
		product := newTestProduct("Bombilla", 1)
		f.products.On("FindByIDForUpdate", ctx, product.ID).Return(product, nil)

		_, err := f.service.CreateOrder(ctx, CreateOrderRequest{
			SaleChannel: "ONLINE_WEB",
			Items:       []CreateOrderItemInput{{ProductID: product.ID, Quantity: 3, Price: decimal.NewFromInt(10)}},
		})

		require.Error(t, err)
		assert.Equal(t, "INSUFFICIENT_STOCK", codeOf(err))
		assert.Contains(t, err.Error(), "Bombilla")
		assert.Contains(t, err.Error(), "Available: 1")
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newOrderFixture()
		id := uuid.New()
		f.products.On("FindByIDForUpdate", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := f.service.CreateOrder(ctx, CreateOrderRequest{
			SaleChannel: "ONLINE_WEB",
			Items:       []CreateOrderItemInput{{ProductID: id, Quantity: 1}},
		})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("unknown client is checked before the transaction", func(t *testing.T) {
		f := newOrderFixture()
		clientID := uuid.New()
		f.clients.On("FindByID", ctx, clientID).Return(nil, shared.ErrNotFound)

		_, err := f.service.CreateOrder(ctx, CreateOrderRequest{
			ClientID:    &clientID,
			SaleChannel: "ONLINE_WEB",
			Items:       []CreateOrderItemInput{{ProductID: uuid.New(), Quantity: 1}},
		})

		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.products.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
	})

	t.Run("lost race on the conditional decrement", func(t *testing.T) {
		f := newOrderFixture()
		product := newTestProduct("Yerbera", 5)
		f.products.On("FindByIDForUpdate", ctx, product.ID).Return(product, nil)
		f.orders.On("Create", ctx, mock.Anything).Return(nil)
		f.products.On("DecrementStock", ctx, product.ID, 5).Return(false, nil)

		_, err := f.service.CreateOrder(ctx, CreateOrderRequest{
			SaleChannel: "ONLINE_WEB",
			Items:       []CreateOrderItemInput{{ProductID: product.ID, Quantity: 5}},
		})

		assert.Equal(t, "INSUFFICIENT_STOCK", codeOf(err))
	})

	t.Run("empty items is a validation error", func(t *testing.T) {
		f := newOrderFixture()

		_, err := f.service.CreateOrder(ctx, CreateOrderRequest{SaleChannel: "ONLINE_WEB"})

		assert.Equal(t, "VALIDATION_ERROR", codeOf(err))
	})
}

func TestOrderService_CreateOrder_InPerson(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()

	t.Run("store is required", func(t *testing.T) {
		f := newOrderFixture()

		_, err := f.service.CreateOrder(ctx, CreateOrderRequest{
			SaleChannel: "IN_PERSON_STORE",
			Items:       []CreateOrderItemInput{{ProductID: uuid.New(), Quantity: 1}},
		})

		assert.Equal(t, "INVALID_INPUT", codeOf(err))
	})

	t.Run("decrements store and global stock", func(t *testing.T) {
		f := newOrderFixture()
		product := newTestProduct("Mate", 20)
		row, _ := inventory.NewStoreStock(storeID, product.ID, 4)
		f.stores.On("FindByID", ctx, storeID).Return(&partner.Store{}, nil)
		f.products.On("FindByIDForUpdate", ctx, product.ID).Return(product, nil)
		f.stocks.On("FindByStoreAndProduct", ctx, storeID, product.ID).Return(row, nil)
		f.orders.On("Create", ctx, mock.Anything).Return(nil)
		f.stocks.On("Decrement", ctx, storeID, product.ID, 3).Return(true, nil)
		f.products.On("DecrementStock", ctx, product.ID, 3).Return(true, nil)

		resp, err := f.service.CreateOrder(ctx, CreateOrderRequest{
			StoreID:     &storeID,
			SaleChannel: "IN_PERSON_STORE",
			Total:       decimal.NewFromInt(300),
			Items:       []CreateOrderItemInput{{ProductID: product.ID, Quantity: 3, Price: decimal.NewFromInt(100)}},
		})

		require.NoError(t, err)
		assert.Equal(t, &storeID, resp.StoreID)
		f.stocks.AssertExpectations(t)
		f.products.AssertExpectations(t)
	})

	t.Run("store row short of the quantity", func(t *testing.T) {
		f := newOrderFixture()
		product := newTestProduct("Mate", 20)
		row, _ := inventory.NewStoreStock(storeID, product.ID, 1)
		f.stores.On("FindByID", ctx, storeID).Return(&partner.Store{}, nil)
		f.products.On("FindByIDForUpdate", ctx, product.ID).Return(product, nil)
		f.stocks.On("FindByStoreAndProduct", ctx, storeID, product.ID).Return(row, nil)

		_, err := f.service.CreateOrder(ctx, CreateOrderRequest{
			StoreID:     &storeID,
			SaleChannel: "IN_PERSON_STORE",
			Items:       []CreateOrderItemInput{{ProductID: product.ID, Quantity: 3}},
		})

		assert.Equal(t, "INSUFFICIENT_STOCK", codeOf(err))
		assert.Contains(t, err.Error(), "Available: 1")
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("product not stocked in the store", func(t *testing.T) {
		f := newOrderFixture()
		product := newTestProduct("Mate", 20)
		f.stores.On("FindByID", ctx, storeID).Return(&partner.Store{}, nil)
		f.products.On("FindByIDForUpdate", ctx, product.ID).Return(product, nil)
		f.stocks.On("FindByStoreAndProduct", ctx, storeID, product.ID).Return(nil, shared.ErrNotFound)

		_, err := f.service.CreateOrder(ctx, CreateOrderRequest{
			StoreID:     &storeID,
			SaleChannel: "IN_PERSON_STORE",
			Items:       []CreateOrderItemInput{{ProductID: product.ID, Quantity: 1}},
		})

		assert.Equal(t, "INSUFFICIENT_STOCK", codeOf(err))
		assert.Contains(t, err.Error(), "Available: 0")
	})
}

func TestOrderService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels a pending order", func(t *testing.T) {
		f := newOrderFixture()
		order := pendingOrder(trade.SaleChannelOnlineWeb, nil)
		f.orders.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)
		f.orders.On("Save", ctx, order).Return(nil)

		resp, err := f.service.UpdateStatus(ctx, order.ID, UpdateOrderStatusRequest{Status: "CANCELLED"})

		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", resp.Status)
	})

	t.Run("refund requires a paid order", func(t *testing.T) {
		f := newOrderFixture()
		order := pendingOrder(trade.SaleChannelOnlineWeb, nil)
		f.orders.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)

		_, err := f.service.UpdateStatus(ctx, order.ID, UpdateOrderStatusRequest{Status: "REFUNDED"})

		assert.Equal(t, "INVALID_ORDER_STATE", codeOf(err))
		f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("payment statuses cannot be set directly", func(t *testing.T) {
		f := newOrderFixture()

		_, err := f.service.UpdateStatus(ctx, uuid.New(), UpdateOrderStatusRequest{Status: "PAID"})

		assert.Equal(t, "INVALID_INPUT", codeOf(err))
	})
}

func TestOrderService_ListSellerOrders(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	sellerID := uuid.New()
	f.sellers.On("FindByID", ctx, sellerID).Return(&partner.Seller{}, nil)
	matchSeller := mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Filters["seller_id"] == sellerID
	})
	f.orders.On("FindAll", ctx, matchSeller).Return([]trade.Order{*pendingOrder(trade.SaleChannelOnlineWeb, nil)}, nil)
	f.orders.On("Count", ctx, matchSeller).Return(int64(1), nil)

	orders, total, err := f.service.ListSellerOrders(ctx, sellerID, OrderListFilter{})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, orders, 1)
}

func pendingOrder(channel trade.SaleChannel, storeID *uuid.UUID) *trade.Order {
	o, err := trade.NewOrder(trade.OrderDraft{
		StoreID: storeID,
		Channel: channel,
		Total:   decimal.NewFromInt(200),
		Lines: []trade.OrderLine{{
			ProductID:   uuid.New(),
			ProductName: "Termo",
			Quantity:    2,
			Price:       decimal.NewFromInt(100),
		}},
	})
	if err != nil {
		panic(err)
	}
	return o
}
