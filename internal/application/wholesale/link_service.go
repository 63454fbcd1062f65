package wholesale

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/retail/backoffice/internal/domain/wholesale"
	"github.com/retail/backoffice/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ErrInvalidLink is returned for unknown, inactive or expired tokens
var ErrInvalidLink = shared.NewDomainError("NOT_FOUND", "Wholesale link is invalid or has expired")

// LinkService manages wholesale links and prices products for their holders
type LinkService struct {
	linkRepo    wholesale.LinkRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
	now         func() time.Time

	businessMetrics *telemetry.BusinessMetrics
}

// NewLinkService creates a new LinkService
func NewLinkService(linkRepo wholesale.LinkRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *LinkService {
	return &LinkService{
		linkRepo:    linkRepo,
		productRepo: productRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *LinkService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// CreateLink creates a link with a fresh token
func (s *LinkService) CreateLink(ctx context.Context, req CreateLinkRequest, createdBy *uuid.UUID) (*LinkResponse, error) {
	link, err := wholesale.NewLink(wholesale.LinkDetails{
		Name:         req.Name,
		Discount:     req.Discount,
		ExpiresAt:    req.ExpiresAt,
		BusinessName: req.BusinessName,
		Notes:        req.Notes,
		CustomSlug:   req.CustomSlug,
	}, createdBy)
	if err != nil {
		return nil, err
	}
	ids, err := s.existingProducts(ctx, req.ProductIDs)
	if err != nil {
		return nil, err
	}
	link.ProductIDs = ids

	if err := s.linkRepo.Create(ctx, link); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A link with this slug already exists")
		}
		return nil, err
	}

	s.logger.Info("Wholesale link created",
		zap.String("link_id", link.ID.String()),
		zap.String("discount", link.Discount.String()))
	resp := ToLinkResponse(link)
	return &resp, nil
}

// ResolveToken meters one use of a token and returns its link.
// It returns nil without error when the token is unknown, inactive or expired.
func (s *LinkService) ResolveToken(ctx context.Context, token string) (*wholesale.Link, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}
	ok, err := s.linkRepo.RecordUse(ctx, token, s.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		s.businessMetrics.RecordWholesaleResolution("rejected")
		return nil, nil
	}
	s.businessMetrics.RecordWholesaleResolution("ok")
	return s.linkRepo.FindByToken(ctx, token)
}

// ValidateToken checks a token and records the use
func (s *LinkService) ValidateToken(ctx context.Context, token string) (*PublicLinkResponse, error) {
	link, err := s.ResolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, ErrInvalidLink
	}
	resp := toPublicLinkResponse(link)
	return &resp, nil
}

// ApplyPricing prices products for an optional token. An invalid token prices at retail.
func (s *LinkService) ApplyPricing(ctx context.Context, req ApplyPricingRequest) ([]wholesale.ResolvedPrice, error) {
	products, err := s.productRepo.FindByIDs(ctx, req.ProductIDs)
	if err != nil {
		return nil, err
	}
	link, err := s.ResolveToken(ctx, req.Token)
	if err != nil {
		return nil, err
	}
	return wholesale.Resolve(PricedProducts(products), link), nil
}

// GetWholesaleProducts lists the visible products a link holder can buy,
// which are the link's curated products plus any product with its own wholesale price
func (s *LinkService) GetWholesaleProducts(ctx context.Context, token string) ([]WholesaleProductResponse, error) {
	link, err := s.ResolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, ErrInvalidLink
	}

	filter := shared.Filter{
		OrderBy:  "name",
		OrderDir: "asc",
		Filters: map[string]interface{}{
			"wholesale_link_id": link.ID,
			"hidden":            false,
		},
	}
	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	prices := wholesale.Resolve(PricedProducts(products), link)
	out := make([]WholesaleProductResponse, len(products))
	for i, p := range products {
		out[i] = toWholesaleProductResponse(p, prices[i])
	}
	return out, nil
}

// SaveCustomerData stores the customer profile on a usable link
func (s *LinkService) SaveCustomerData(ctx context.Context, req SaveCustomerRequest) (*CustomerResponse, error) {
	link, err := s.usableLink(ctx, req.Token)
	if err != nil {
		return nil, err
	}
	if err := link.SetCustomer(wholesale.CustomerProfile{
		Name:         req.CustomerName,
		Email:        req.CustomerEmail,
		Phone:        req.CustomerPhone,
		Address:      req.CustomerAddress,
		BusinessName: req.BusinessName,
		TaxID:        req.TaxID,
	}); err != nil {
		return nil, err
	}
	if err := s.linkRepo.Save(ctx, link); err != nil {
		return nil, err
	}
	return toCustomerResponse(link), nil
}

// GetCustomerData returns the customer profile stored on a link
func (s *LinkService) GetCustomerData(ctx context.Context, token string) (*CustomerResponse, error) {
	link, err := s.usableLink(ctx, token)
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(link), nil
}

// ListLinks returns a page of links, optionally active only and searched
func (s *LinkService) ListLinks(ctx context.Context, filter LinkListFilter) ([]LinkResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
	}.Normalize()
	if filter.Active != nil && *filter.Active {
		domainFilter.Filters["active_only"] = true
	}

	links, err := s.linkRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.linkRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]LinkResponse, len(links))
	for i := range links {
		out[i] = ToLinkResponse(&links[i])
	}
	return out, total, nil
}

// GetLink returns a link by id
func (s *LinkService) GetLink(ctx context.Context, id uuid.UUID) (*LinkResponse, error) {
	link, err := s.linkRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToLinkResponse(link)
	return &resp, nil
}

// UpdateLink replaces a link's attributes and optionally toggles it
func (s *LinkService) UpdateLink(ctx context.Context, id uuid.UUID, req UpdateLinkRequest) (*LinkResponse, error) {
	link, err := s.linkRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := link.Update(wholesale.LinkDetails{
		Name:         req.Name,
		Discount:     req.Discount,
		ExpiresAt:    req.ExpiresAt,
		BusinessName: req.BusinessName,
		Notes:        req.Notes,
		CustomSlug:   req.CustomSlug,
	}); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		if *req.IsActive {
			link.Activate()
		} else {
			link.Deactivate()
		}
	}
	if err := s.linkRepo.Save(ctx, link); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A link with this slug already exists")
		}
		return nil, err
	}
	resp := ToLinkResponse(link)
	return &resp, nil
}

// DeactivateLink disables a link without deleting it
func (s *LinkService) DeactivateLink(ctx context.Context, id uuid.UUID) (*LinkResponse, error) {
	link, err := s.linkRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	link.Deactivate()
	if err := s.linkRepo.Save(ctx, link); err != nil {
		return nil, err
	}
	resp := ToLinkResponse(link)
	return &resp, nil
}

// SetLinkProducts replaces the curated product set of a link
func (s *LinkService) SetLinkProducts(ctx context.Context, id uuid.UUID, req SetLinkProductsRequest) (*LinkResponse, error) {
	if _, err := s.linkRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	ids, err := s.existingProducts(ctx, req.ProductIDs)
	if err != nil {
		return nil, err
	}
	if err := s.linkRepo.ReplaceProducts(ctx, id, ids); err != nil {
		return nil, err
	}
	return s.GetLink(ctx, id)
}

// DeleteLink removes a link
func (s *LinkService) DeleteLink(ctx context.Context, id uuid.UUID) error {
	if err := s.linkRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Wholesale link deleted", zap.String("link_id", id.String()))
	return nil
}

// usableLink loads a link by token or slug without metering a use
func (s *LinkService) usableLink(ctx context.Context, token string) (*wholesale.Link, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidLink
	}
	link, err := s.linkRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidLink
		}
		return nil, err
	}
	if !link.IsUsable(s.now()) {
		return nil, ErrInvalidLink
	}
	return link, nil
}

// existingProducts deduplicates ids and checks that every product exists
func (s *LinkService) existingProducts(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return []uuid.UUID{}, nil
	}
	seen := make(map[uuid.UUID]bool, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	products, err := s.productRepo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(products) != len(unique) {
		return nil, shared.NewDomainError("NOT_FOUND", "One or more products do not exist")
	}
	return unique, nil
}

func toCustomerResponse(l *wholesale.Link) *CustomerResponse {
	return &CustomerResponse{
		CustomerName:    l.CustomerName,
		CustomerEmail:   l.CustomerEmail,
		CustomerPhone:   l.CustomerPhone,
		CustomerAddress: l.CustomerAddress,
		BusinessName:    l.BusinessName,
		TaxID:           l.TaxID,
	}
}
