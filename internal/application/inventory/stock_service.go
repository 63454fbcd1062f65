package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/inventory"
	"github.com/retail/backoffice/internal/domain/partner"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/retail/backoffice/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// StockService handles per-store stock reads, corrections and transfers
type StockService struct {
	stockRepo    inventory.StoreStockRepository
	transferRepo inventory.StockTransferRepository
	storeRepo    partner.StoreRepository
	txScope      TransactionScope
	logger       *zap.Logger

	businessMetrics *telemetry.BusinessMetrics
}

// NewStockService creates a new StockService
func NewStockService(
	stockRepo inventory.StoreStockRepository,
	transferRepo inventory.StockTransferRepository,
	storeRepo partner.StoreRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *StockService {
	return &StockService{
		stockRepo:    stockRepo,
		transferRepo: transferRepo,
		storeRepo:    storeRepo,
		txScope:      txScope,
		logger:       logger,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *StockService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Transfer moves units between two stores. Every item is applied or none is.
// The returned rows are the destination stock rows after the move.
func (s *StockService) Transfer(ctx context.Context, req TransferStockRequest) (_ []StoreStockResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock", "transfer")
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrFromStoreID, req.FromStoreID,
		telemetry.SpanAttrToStoreID, req.ToStoreID,
	)

	items := make([]inventory.TransferItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = inventory.TransferItem{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	if err := inventory.ValidateTransfer(req.FromStoreID, req.ToStoreID, items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []StoreStockResponse{}, nil
	}

	if _, err := s.storeRepo.FindByID(ctx, req.ToStoreID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Destination store not found")
		}
		return nil, err
	}

	updated := make([]StoreStockResponse, 0, len(items))
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		stocks := repos.StoreStockRepo()
		ledger := repos.TransferRepo()

		for _, item := range items {
			source, err := stocks.FindByStoreAndProduct(ctx, req.FromStoreID, item.ProductID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewDomainErrorf("NOT_FOUND", "Product %s has no stock in the source store", item.ProductID)
				}
				return err
			}
			if !source.CanSupply(item.Quantity) {
				return insufficientStock(source, item.Quantity)
			}

			ok, err := stocks.Decrement(ctx, req.FromStoreID, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				// Another writer drained the row between the read and the update
				return insufficientStock(source, item.Quantity)
			}

			dest, err := stocks.Increment(ctx, req.ToStoreID, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}

			entry := inventory.NewStockTransfer(req.FromStoreID, req.ToStoreID, item.ProductID, item.Quantity, req.TransferredBy)
			if err := ledger.Create(ctx, entry); err != nil {
				return err
			}
			updated = append(updated, ToStoreStockResponse(dest))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock transferred",
		zap.String("from_store_id", req.FromStoreID.String()),
		zap.String("to_store_id", req.ToStoreID.String()),
		zap.Int("items", len(items)))
	units := 0
	for _, item := range items {
		units += item.Quantity
	}
	s.businessMetrics.RecordTransfer(units)
	return updated, nil
}

// GetProductStock returns the stock row of a product in a store
func (s *StockService) GetProductStock(ctx context.Context, storeID, productID uuid.UUID) (*StoreStockResponse, error) {
	stock, err := s.stockRepo.FindByStoreAndProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	resp := ToStoreStockResponse(stock)
	return &resp, nil
}

// GetStoreProducts lists every stock row of a store with its product
func (s *StockService) GetStoreProducts(ctx context.Context, storeID uuid.UUID) ([]StoreStockResponse, error) {
	if _, err := s.storeRepo.FindByID(ctx, storeID); err != nil {
		return nil, err
	}
	stocks, err := s.stockRepo.FindByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return ToStoreStockResponses(stocks), nil
}

// UpdateProductStock overwrites the quantity of an existing stock row
func (s *StockService) UpdateProductStock(ctx context.Context, req UpdateStockRequest) (*StoreStockResponse, error) {
	if req.Quantity == nil || *req.Quantity < 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantity must be zero or greater")
	}
	if err := s.stockRepo.SetQuantity(ctx, req.StoreID, req.ProductID, *req.Quantity); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Product is not stocked in this store")
		}
		return nil, err
	}
	return s.GetProductStock(ctx, req.StoreID, req.ProductID)
}

// ListTransfers returns the transfer history, newest first
func (s *StockService) ListTransfers(ctx context.Context, filter TransferHistoryFilter) ([]TransferHistoryResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Filters:  make(map[string]interface{}),
	}.Normalize()
	if filter.StoreID != nil {
		domainFilter.Filters["store_id"] = *filter.StoreID
	}
	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}

	entries, err := s.transferRepo.FindHistory(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.transferRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]TransferHistoryResponse, len(entries))
	for i, e := range entries {
		out[i] = toTransferHistoryResponse(e)
	}
	return out, total, nil
}

func insufficientStock(source *inventory.StoreStock, requested int) error {
	name := source.ProductID.String()
	if source.Product != nil && source.Product.Name != "" {
		name = source.Product.Name
	}
	return shared.NewDomainErrorf("INSUFFICIENT_STOCK",
		"Insufficient stock for %s: available %d, requested %d", name, source.Quantity, requested)
}
