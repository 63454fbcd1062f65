package partner

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/partner"
	"github.com/retail/backoffice/internal/domain/shared"
)

// ErrSellerEmailTaken is returned when another seller already uses the email
var ErrSellerEmailTaken = shared.NewDomainError("ALREADY_EXISTS", "A seller with this email already exists")

// SellerService handles seller records. Login accounts for sellers are created
// through the identity service.
type SellerService struct {
	sellerRepo partner.SellerRepository
}

// NewSellerService creates a new SellerService
func NewSellerService(sellerRepo partner.SellerRepository) *SellerService {
	return &SellerService{sellerRepo: sellerRepo}
}

// Create creates a seller without a login account
func (s *SellerService) Create(ctx context.Context, req SellerRequest) (*SellerResponse, error) {
	seller, err := partner.NewSeller(req.Name, req.Email)
	if err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, seller.Email, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.sellerRepo.Save(ctx, seller); err != nil {
		return nil, emailTaken(err)
	}
	resp := ToSellerResponse(seller)
	return &resp, nil
}

// GetByID retrieves a seller by ID
func (s *SellerService) GetByID(ctx context.Context, id uuid.UUID) (*SellerResponse, error) {
	seller, err := s.sellerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSellerResponse(seller)
	return &resp, nil
}

// List retrieves sellers ordered by name
func (s *SellerService) List(ctx context.Context, filter ListFilter) ([]SellerResponse, int64, error) {
	domainFilter := filter.toDomain("name")
	sellers, err := s.sellerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.sellerRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]SellerResponse, len(sellers))
	for i := range sellers {
		responses[i] = ToSellerResponse(&sellers[i])
	}
	return responses, total, nil
}

// Update updates a seller's name and email
func (s *SellerService) Update(ctx context.Context, id uuid.UUID, req SellerRequest) (*SellerResponse, error) {
	seller, err := s.sellerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := seller.Update(req.Name, req.Email); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, seller.Email, id); err != nil {
		return nil, err
	}
	if err := s.sellerRepo.Save(ctx, seller); err != nil {
		return nil, emailTaken(err)
	}
	resp := ToSellerResponse(seller)
	return &resp, nil
}

// Delete removes a seller record
func (s *SellerService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.sellerRepo.Delete(ctx, id)
}

func (s *SellerService) ensureEmailFree(ctx context.Context, email string, self uuid.UUID) error {
	existing, err := s.sellerRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != self {
		return ErrSellerEmailTaken
	}
	return nil
}

func emailTaken(err error) error {
	if errors.Is(err, shared.ErrAlreadyExists) {
		return ErrSellerEmailTaken
	}
	return err
}
