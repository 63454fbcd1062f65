package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/inventory"
	"github.com/retail/backoffice/internal/domain/partner"
	"github.com/retail/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrStoreHasStock is returned when deleting a store that still holds stock
var ErrStoreHasStock = shared.NewDomainError("CONFLICT", "Store still holds stock; transfer or clear it first")

// StoreService handles store-related business operations
type StoreService struct {
	storeRepo partner.StoreRepository
	stockRepo inventory.StoreStockRepository
	logger    *zap.Logger
}

// NewStoreService creates a new StoreService
func NewStoreService(storeRepo partner.StoreRepository, stockRepo inventory.StoreStockRepository, logger *zap.Logger) *StoreService {
	return &StoreService{
		storeRepo: storeRepo,
		stockRepo: stockRepo,
		logger:    logger,
	}
}

// Create creates a new store
func (s *StoreService) Create(ctx context.Context, req StoreRequest) (*StoreResponse, error) {
	store, err := partner.NewStore(req.Name, req.Address)
	if err != nil {
		return nil, err
	}
	if err := s.storeRepo.Save(ctx, store); err != nil {
		return nil, err
	}
	resp := ToStoreResponse(store)
	return &resp, nil
}

// GetByID retrieves a store by ID
func (s *StoreService) GetByID(ctx context.Context, id uuid.UUID) (*StoreResponse, error) {
	store, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToStoreResponse(store)
	return &resp, nil
}

// List retrieves stores ordered by name
func (s *StoreService) List(ctx context.Context, filter ListFilter) ([]StoreResponse, int64, error) {
	domainFilter := filter.toDomain("name")
	stores, err := s.storeRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.storeRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]StoreResponse, len(stores))
	for i := range stores {
		responses[i] = ToStoreResponse(&stores[i])
	}
	return responses, total, nil
}

// Update updates a store's name and address
func (s *StoreService) Update(ctx context.Context, id uuid.UUID, req StoreRequest) (*StoreResponse, error) {
	store, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := store.Update(req.Name, req.Address); err != nil {
		return nil, err
	}
	if err := s.storeRepo.Save(ctx, store); err != nil {
		return nil, err
	}
	resp := ToStoreResponse(store)
	return &resp, nil
}

// Delete removes a store that holds no stock
func (s *StoreService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.storeRepo.FindByID(ctx, id); err != nil {
		return err
	}
	held, err := s.stockRepo.CountByStore(ctx, id)
	if err != nil {
		return err
	}
	if held > 0 {
		return ErrStoreHasStock
	}
	if err := s.storeRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Store deleted", zap.String("store_id", id.String()))
	return nil
}
