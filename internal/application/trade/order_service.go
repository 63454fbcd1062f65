package trade

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/inventory"
	"github.com/retail/backoffice/internal/domain/partner"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/retail/backoffice/internal/domain/trade"
	"github.com/retail/backoffice/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// webhookDedupeTTL bounds how long a processed gateway notification is remembered
const webhookDedupeTTL = 72 * time.Hour

// OrderService handles order placement, payment and the order lifecycle
type OrderService struct {
	orderRepo   trade.OrderRepository
	saleTxRepo  trade.SaleTransactionRepository
	clientRepo  partner.ClientRepository
	storeRepo   partner.StoreRepository
	sellerRepo  partner.SellerRepository
	txScope     TransactionScope
	gateway     trade.PaymentGateway
	idempotency shared.IdempotencyStore
	logger      *zap.Logger

	businessMetrics *telemetry.BusinessMetrics
}

// NewOrderService creates a new OrderService.
// gateway may be nil when no payment provider is configured.
func NewOrderService(
	orderRepo trade.OrderRepository,
	saleTxRepo trade.SaleTransactionRepository,
	clientRepo partner.ClientRepository,
	storeRepo partner.StoreRepository,
	sellerRepo partner.SellerRepository,
	txScope TransactionScope,
	gateway trade.PaymentGateway,
	idempotency shared.IdempotencyStore,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		saleTxRepo:  saleTxRepo,
		clientRepo:  clientRepo,
		storeRepo:   storeRepo,
		sellerRepo:  sellerRepo,
		txScope:     txScope,
		gateway:     gateway,
		idempotency: idempotency,
		logger:      logger,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *OrderService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// CreateOrder places an order and reserves its stock in one transaction.
// In-person sales draw from the store's stock and the product's global stock;
// online sales draw from the global stock only.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (_ *OrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "create")
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	draft := req.toDraft()
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkParties(ctx, draft); err != nil {
		return nil, err
	}
	if sum := draft.LinesTotal(); !sum.Equal(draft.Total) {
		s.logger.Warn("Order total differs from the sum of its lines",
			zap.String("total", draft.Total.StringFixed(2)),
			zap.String("lines_total", sum.StringFixed(2)))
	}

	inPerson := draft.Channel == trade.SaleChannelInPersonStore
	var order *trade.Order
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		products := repos.ProductRepo()
		stocks := repos.StoreStockRepo()

		for i, line := range draft.Lines {
			product, err := products.FindByIDForUpdate(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewDomainErrorf("NOT_FOUND", "Product %s not found", line.ProductID)
				}
				return err
			}
			draft.Lines[i].ProductName = product.Name

			if inPerson {
				if err := checkStoreStock(ctx, stocks, *draft.StoreID, product, line.Quantity); err != nil {
					return err
				}
			} else if !product.HasStock(line.Quantity) {
				return insufficientStock(product.Name, product.Stock)
			}
		}

		o, err := trade.NewOrder(draft)
		if err != nil {
			return err
		}
		if err := repos.OrderRepo().Create(ctx, o); err != nil {
			return err
		}

		for _, line := range draft.Lines {
			if inPerson {
				ok, err := stocks.Decrement(ctx, *draft.StoreID, line.ProductID, line.Quantity)
				if err != nil {
					return err
				}
				if !ok {
					return insufficientStockAfterRace(line.ProductName)
				}
			}
			ok, err := products.DecrementStock(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return insufficientStockAfterRace(line.ProductName)
			}
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("sale_channel", string(order.SaleChannel)),
		zap.Int("items", len(order.Items)))
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, order.ID,
		telemetry.SpanAttrChannel, string(order.SaleChannel),
	)
	s.businessMetrics.RecordOrderCreated(string(order.SaleChannel), order.Total)
	resp := ToOrderResponse(order)
	return &resp, nil
}

// GetOrder returns an order with its items
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// ListOrders returns a page of orders
func (s *OrderService) ListOrders(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	}.Normalize()
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.SaleChannel != "" {
		domainFilter.Filters["sale_channel"] = filter.SaleChannel
	}
	if filter.StoreID != nil {
		domainFilter.Filters["store_id"] = *filter.StoreID
	}
	if filter.SellerID != nil {
		domainFilter.Filters["seller_id"] = *filter.SellerID
	}
	if filter.ClientID != nil {
		domainFilter.Filters["client_id"] = *filter.ClientID
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out, total, nil
}

// ListSellerOrders returns a page of the orders attributed to a seller
func (s *OrderService) ListSellerOrders(ctx context.Context, sellerID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	if _, err := s.sellerRepo.FindByID(ctx, sellerID); err != nil {
		return nil, 0, err
	}
	filter.SellerID = &sellerID
	return s.ListOrders(ctx, filter)
}

// UpdateStatus applies an administrative status change. Cancelling does not restock.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	status := trade.OrderStatus(req.Status)
	switch status {
	case trade.OrderStatusDelivered, trade.OrderStatusCancelled, trade.OrderStatusRefunded:
	default:
		return nil, shared.NewDomainErrorf("INVALID_INPUT", "Status %s cannot be set directly", req.Status)
	}

	var order *trade.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := o.TransitionTo(status); err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order status changed",
		zap.String("order_id", id.String()),
		zap.String("status", string(status)))
	resp := ToOrderResponse(order)
	return &resp, nil
}

// checkParties verifies that every referenced client, store and seller exists
func (s *OrderService) checkParties(ctx context.Context, d trade.OrderDraft) error {
	if d.ClientID != nil {
		if _, err := s.clientRepo.FindByID(ctx, *d.ClientID); err != nil {
			return notFoundAs(err, "Client not found")
		}
	}
	if d.StoreID != nil {
		if _, err := s.storeRepo.FindByID(ctx, *d.StoreID); err != nil {
			return notFoundAs(err, "Store not found")
		}
	}
	if d.SellerID != nil {
		if _, err := s.sellerRepo.FindByID(ctx, *d.SellerID); err != nil {
			return notFoundAs(err, "Seller not found")
		}
	}
	return nil
}

func checkStoreStock(ctx context.Context, stocks inventory.StoreStockRepository, storeID uuid.UUID, product *catalog.Product, quantity int) error {
	row, err := stocks.FindByStoreAndProduct(ctx, storeID, product.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return insufficientStock(product.Name, 0)
		}
		return err
	}
	if !row.CanSupply(quantity) {
		return insufficientStock(product.Name, row.Quantity)
	}
	return nil
}

func insufficientStock(productName string, available int) error {
	return shared.NewDomainErrorf("INSUFFICIENT_STOCK",
		"Insufficient stock for product %s. Available: %d", productName, available)
}

func insufficientStockAfterRace(productName string) error {
	return shared.NewDomainErrorf("INSUFFICIENT_STOCK",
		"Insufficient stock for product %s. Stock changed while the order was being placed", productName)
}

func notFoundAs(err error, message string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewDomainError("NOT_FOUND", message)
	}
	return err
}
