package wholesale

import (
	"time"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/wholesale"
	"github.com/shopspring/decimal"
)

// CreateLinkRequest represents a request to create a wholesale link
type CreateLinkRequest struct {
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	Discount     decimal.Decimal `json:"discount" binding:"decimalgte0"`
	ExpiresAt    *time.Time      `json:"expiresAt"`
	BusinessName string          `json:"businessName" binding:"max=200"`
	Notes        string          `json:"notes" binding:"max=2000"`
	CustomSlug   string          `json:"customSlug" binding:"max=100"`
	ProductIDs   []uuid.UUID     `json:"productIds"`
}

// UpdateLinkRequest represents a request to update a wholesale link
type UpdateLinkRequest struct {
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	Discount     decimal.Decimal `json:"discount" binding:"decimalgte0"`
	ExpiresAt    *time.Time      `json:"expiresAt"`
	BusinessName string          `json:"businessName" binding:"max=200"`
	Notes        string          `json:"notes" binding:"max=2000"`
	CustomSlug   string          `json:"customSlug" binding:"max=100"`
	IsActive     *bool           `json:"isActive"`
}

// SetLinkProductsRequest replaces the curated products of a link
type SetLinkProductsRequest struct {
	ProductIDs []uuid.UUID `json:"productIds"`
}

// ApplyPricingRequest prices a set of products for an optional token
type ApplyPricingRequest struct {
	ProductIDs []uuid.UUID `json:"productIds" binding:"required,min=1,max=500"`
	Token      string      `json:"token" binding:"max=100"`
}

// SaveCustomerRequest captures the customer profile of a link holder
type SaveCustomerRequest struct {
	Token           string `json:"token" binding:"required,max=100"`
	CustomerName    string `json:"customerName" binding:"required,max=200"`
	CustomerEmail   string `json:"customerEmail" binding:"omitempty,email,max=200"`
	CustomerPhone   string `json:"customerPhone" binding:"max=50"`
	CustomerAddress string `json:"customerAddress" binding:"max=500"`
	BusinessName    string `json:"businessName" binding:"max=200"`
	TaxID           string `json:"taxId" binding:"max=50"`
}

// LinkListFilter represents filter options for link lists
type LinkListFilter struct {
	Active   *bool  `form:"active"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
}

// LinkResponse represents a wholesale link in API responses
type LinkResponse struct {
	ID              uuid.UUID       `json:"id"`
	Token           string          `json:"token"`
	Name            string          `json:"name"`
	Discount        decimal.Decimal `json:"discount"`
	ExpiresAt       *time.Time      `json:"expiresAt,omitempty"`
	IsActive        bool            `json:"isActive"`
	Uses            int             `json:"uses"`
	LastUsedAt      *time.Time      `json:"lastUsedAt,omitempty"`
	BusinessName    string          `json:"businessName,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedBy       *uuid.UUID      `json:"createdBy,omitempty"`
	CustomSlug      *string         `json:"customSlug,omitempty"`
	CustomerName    string          `json:"customerName,omitempty"`
	CustomerEmail   string          `json:"customerEmail,omitempty"`
	CustomerPhone   string          `json:"customerPhone,omitempty"`
	CustomerAddress string          `json:"customerAddress,omitempty"`
	TaxID           string          `json:"taxId,omitempty"`
	ProductIDs      []uuid.UUID     `json:"productIds"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// PublicLinkResponse is what a token holder sees about their link
type PublicLinkResponse struct {
	Name         string          `json:"name"`
	Discount     decimal.Decimal `json:"discount"`
	ExpiresAt    *time.Time      `json:"expiresAt,omitempty"`
	BusinessName string          `json:"businessName,omitempty"`
	ProductIDs   []uuid.UUID     `json:"productIds"`
}

// CustomerResponse is the customer profile stored on a link
type CustomerResponse struct {
	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerPhone   string `json:"customerPhone"`
	CustomerAddress string `json:"customerAddress"`
	BusinessName    string `json:"businessName"`
	TaxID           string `json:"taxId"`
}

// WholesaleProductResponse is a catalog product priced for a link holder
type WholesaleProductResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Code            string          `json:"code"`
	Brand           string          `json:"brand,omitempty"`
	Images          []string        `json:"images"`
	Stock           int             `json:"stock"`
	UnitsPerBox     *int            `json:"unitsPerBox,omitempty"`
	UnitsPerBulk    *int            `json:"unitsPerBulk,omitempty"`
	SubcategoryID   uuid.UUID       `json:"subcategoryId"`
	Price           decimal.Decimal `json:"price"`
	OriginalPrice   decimal.Decimal `json:"originalPrice"`
	IsWholesale     bool            `json:"isWholesale"`
	MinWholesaleQty *int            `json:"minWholesaleQty,omitempty"`
}

// ToLinkResponse converts a domain link to a response
func ToLinkResponse(l *wholesale.Link) LinkResponse {
	ids := l.ProductIDs
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return LinkResponse{
		ID:              l.ID,
		Token:           l.Token,
		Name:            l.Name,
		Discount:        l.Discount,
		ExpiresAt:       l.ExpiresAt,
		IsActive:        l.IsActive,
		Uses:            l.Uses,
		LastUsedAt:      l.LastUsedAt,
		BusinessName:    l.BusinessName,
		Notes:           l.Notes,
		CreatedBy:       l.CreatedBy,
		CustomSlug:      l.CustomSlug,
		CustomerName:    l.CustomerName,
		CustomerEmail:   l.CustomerEmail,
		CustomerPhone:   l.CustomerPhone,
		CustomerAddress: l.CustomerAddress,
		TaxID:           l.TaxID,
		ProductIDs:      ids,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

func toPublicLinkResponse(l *wholesale.Link) PublicLinkResponse {
	ids := l.ProductIDs
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return PublicLinkResponse{
		Name:         l.Name,
		Discount:     l.Discount,
		ExpiresAt:    l.ExpiresAt,
		BusinessName: l.BusinessName,
		ProductIDs:   ids,
	}
}

// PricedProducts maps catalog products onto the resolver input
func PricedProducts(products []catalog.Product) []wholesale.PricedProduct {
	out := make([]wholesale.PricedProduct, len(products))
	for i, p := range products {
		out[i] = wholesale.PricedProduct{
			ProductID:       p.ID,
			Price:           p.Price,
			WholesalePrice:  p.WholesalePrice,
			MinWholesaleQty: p.MinWholesaleQty,
		}
	}
	return out
}

func toWholesaleProductResponse(p catalog.Product, price wholesale.ResolvedPrice) WholesaleProductResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return WholesaleProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Code:            p.Code,
		Brand:           p.Brand,
		Images:          images,
		Stock:           p.Stock,
		UnitsPerBox:     p.UnitsPerBox,
		UnitsPerBulk:    p.UnitsPerBulk,
		SubcategoryID:   p.SubcategoryID,
		Price:           price.Price,
		OriginalPrice:   price.OriginalPrice,
		IsWholesale:     price.IsWholesale,
		MinWholesaleQty: price.MinWholesaleQty,
	}
}
