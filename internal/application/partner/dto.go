package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/partner"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ListFilter represents the paging and search options shared by partner lists
type ListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
}

// ==================== Store DTOs ====================

// StoreRequest represents a request to create or update a store
type StoreRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Address string `json:"address" binding:"max=500"`
}

// StoreResponse represents a store in API responses
type StoreResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToStoreResponse converts a domain store to a response
func ToStoreResponse(s *partner.Store) StoreResponse {
	return StoreResponse{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// ==================== Client DTOs ====================

// ClientRequest represents a request to create or update a client
type ClientRequest struct {
	FirstName      string          `json:"firstName" binding:"required,min=1,max=100"`
	LastName       string          `json:"lastName" binding:"required,min=1,max=100"`
	BirthDate      *time.Time      `json:"birthDate"`
	Gender         *string         `json:"gender" binding:"omitempty,oneof=MALE FEMALE OTHER PREFER_NOT_TO_SAY"`
	Email          string          `json:"email" binding:"omitempty,email,max=200"`
	Phone          string          `json:"phone" binding:"max=50"`
	Address        string          `json:"address" binding:"max=500"`
	Country        string          `json:"country" binding:"max=100"`
	State          string          `json:"state" binding:"max=100"`
	City           string          `json:"city" binding:"max=100"`
	PostalCode     string          `json:"postalCode" binding:"max=20"`
	DNI            string          `json:"dni" binding:"max=20"`
	CUIL           string          `json:"cuil" binding:"max=20"`
	CreditLimit    decimal.Decimal `json:"creditLimit"`
	CashLimit      decimal.Decimal `json:"cashLimit"`
	BehaviorRating *string         `json:"behaviorRating" binding:"omitempty,oneof=EXCELLENT GOOD FAIR POOR UNACCEPTABLE"`
	ServiceReceipt string          `json:"serviceReceipt" binding:"max=200"`
	Notes          string          `json:"notes" binding:"max=2000"`
	IsWholesale    bool            `json:"isWholesale"`
}

func (r ClientRequest) toDetails() partner.ClientDetails {
	var gender *partner.Gender
	if r.Gender != nil {
		g := partner.Gender(*r.Gender)
		gender = &g
	}
	var rating *partner.BehaviorRating
	if r.BehaviorRating != nil {
		br := partner.BehaviorRating(*r.BehaviorRating)
		rating = &br
	}
	return partner.ClientDetails{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		BirthDate:      r.BirthDate,
		Gender:         gender,
		Email:          r.Email,
		Phone:          r.Phone,
		Address:        r.Address,
		Country:        r.Country,
		State:          r.State,
		City:           r.City,
		PostalCode:     r.PostalCode,
		DNI:            r.DNI,
		CUIL:           r.CUIL,
		CreditLimit:    r.CreditLimit,
		CashLimit:      r.CashLimit,
		BehaviorRating: rating,
		ServiceReceipt: r.ServiceReceipt,
		Notes:          r.Notes,
		IsWholesale:    r.IsWholesale,
	}
}

// ClientListFilter represents filter options for client lists
type ClientListFilter struct {
	ListFilter
	IsWholesale    *bool  `form:"isWholesale"`
	BehaviorRating string `form:"behaviorRating" binding:"omitempty,oneof=EXCELLENT GOOD FAIR POOR UNACCEPTABLE"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID             uuid.UUID       `json:"id"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	FullName       string          `json:"fullName"`
	BirthDate      *time.Time      `json:"birthDate,omitempty"`
	Gender         *string         `json:"gender,omitempty"`
	Email          string          `json:"email,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Address        string          `json:"address,omitempty"`
	Country        string          `json:"country,omitempty"`
	State          string          `json:"state,omitempty"`
	City           string          `json:"city,omitempty"`
	PostalCode     string          `json:"postalCode,omitempty"`
	DNI            string          `json:"dni,omitempty"`
	CUIL           string          `json:"cuil,omitempty"`
	CreditLimit    decimal.Decimal `json:"creditLimit"`
	CashLimit      decimal.Decimal `json:"cashLimit"`
	Balance        decimal.Decimal `json:"balance"`
	BehaviorRating *string         `json:"behaviorRating,omitempty"`
	ServiceReceipt string          `json:"serviceReceipt,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	IsWholesale    bool            `json:"isWholesale"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// ToClientResponse converts a domain client to a response
func ToClientResponse(c *partner.Client) ClientResponse {
	var gender, rating *string
	if c.Gender != nil {
		g := string(*c.Gender)
		gender = &g
	}
	if c.BehaviorRating != nil {
		r := string(*c.BehaviorRating)
		rating = &r
	}
	return ClientResponse{
		ID:             c.ID,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		FullName:       c.FullName(),
		BirthDate:      c.BirthDate,
		Gender:         gender,
		Email:          c.Email,
		Phone:          c.Phone,
		Address:        c.Address,
		Country:        c.Country,
		State:          c.State,
		City:           c.City,
		PostalCode:     c.PostalCode,
		DNI:            c.DNI,
		CUIL:           c.CUIL,
		CreditLimit:    c.CreditLimit,
		CashLimit:      c.CashLimit,
		Balance:        c.Balance,
		BehaviorRating: rating,
		ServiceReceipt: c.ServiceReceipt,
		Notes:          c.Notes,
		IsWholesale:    c.IsWholesale,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ==================== Seller DTOs ====================

// SellerRequest represents a request to create or update a seller record
type SellerRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=200"`
	Email string `json:"email" binding:"required,email,max=200"`
}

// SellerResponse represents a seller in API responses
type SellerResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	UserID    *uuid.UUID `json:"userId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// ToSellerResponse converts a domain seller to a response
func ToSellerResponse(s *partner.Seller) SellerResponse {
	return SellerResponse{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		UserID:    s.UserID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// ==================== Supplier DTOs ====================

// SupplierRequest represents a request to create or update a supplier
type SupplierRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	ContactName string `json:"contactName" binding:"max=100"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
	Phone       string `json:"phone" binding:"max=50"`
	Address     string `json:"address" binding:"max=500"`
	TaxID       string `json:"taxId" binding:"max=50"`
	Notes       string `json:"notes" binding:"max=2000"`
}

func (r SupplierRequest) toDetails() partner.SupplierDetails {
	return partner.SupplierDetails{
		Name:        r.Name,
		ContactName: r.ContactName,
		Email:       r.Email,
		Phone:       r.Phone,
		Address:     r.Address,
		TaxID:       r.TaxID,
		Notes:       r.Notes,
	}
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ContactName string    `json:"contactName,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	TaxID       string    `json:"taxId,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToSupplierResponse converts a domain supplier to a response
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:          s.ID,
		Name:        s.Name,
		ContactName: s.ContactName,
		Email:       s.Email,
		Phone:       s.Phone,
		Address:     s.Address,
		TaxID:       s.TaxID,
		Notes:       s.Notes,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (f ListFilter) toDomain(orderBy string) shared.Filter {
	return shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		Search:   f.Search,
		OrderBy:  orderBy,
		OrderDir: "asc",
	}.Normalize()
}
