package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/wholesale"
	"github.com/shopspring/decimal"
)

// ==================== Category DTOs ====================

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=2000"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=2000"`
}

// CategoryListFilter represents filter options for category lists
type CategoryListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID            uuid.UUID             `json:"id"`
	Name          string                `json:"name"`
	Description   string                `json:"description"`
	ImageURL      string                `json:"imageUrl,omitempty"`
	Subcategories []SubcategoryResponse `json:"subcategories"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// ToCategoryResponse converts a domain category to a response
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	subs := make([]SubcategoryResponse, len(c.Subcategories))
	for i := range c.Subcategories {
		subs[i] = ToSubcategoryResponse(&c.Subcategories[i])
	}
	return CategoryResponse{
		ID:            c.ID,
		Name:          c.Name,
		Description:   c.Description,
		ImageURL:      c.ImageURL,
		Subcategories: subs,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// ==================== Subcategory DTOs ====================

// CreateSubcategoryRequest represents a request to create a subcategory
type CreateSubcategoryRequest struct {
	CategoryID  uuid.UUID `json:"categoryId" binding:"required"`
	Name        string    `json:"name" binding:"required,min=1,max=100"`
	Description string    `json:"description" binding:"max=2000"`
}

// UpdateSubcategoryRequest represents a request to update a subcategory.
// A zero CategoryID keeps the current category.
type UpdateSubcategoryRequest struct {
	CategoryID  uuid.UUID `json:"categoryId"`
	Name        string    `json:"name" binding:"required,min=1,max=100"`
	Description string    `json:"description" binding:"max=2000"`
}

// SubcategoryListFilter represents filter options for subcategory lists
type SubcategoryListFilter struct {
	CategoryID *uuid.UUID `form:"-"` // categoryId, parsed by the handler
	Search     string     `form:"search"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"pageSize" binding:"omitempty,min=1,max=100"`
}

// SubcategoryResponse represents a subcategory in API responses
type SubcategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	CategoryID  uuid.UUID `json:"categoryId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToSubcategoryResponse converts a domain subcategory to a response
func ToSubcategoryResponse(s *catalog.Subcategory) SubcategoryResponse {
	return SubcategoryResponse{
		ID:          s.ID,
		CategoryID:  s.CategoryID,
		Name:        s.Name,
		Description: s.Description,
		ImageURL:    s.ImageURL,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ==================== Product DTOs ====================

// VolumeDiscountInput is one discount tier in product requests
type VolumeDiscountInput struct {
	MinQuantity        int             `json:"minQuantity" binding:"required,min=1"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
}

// BoxConfigurationInput is one box packaging option in product requests
type BoxConfigurationInput struct {
	Name          string          `json:"name" binding:"required,max=100"`
	QuantityInBox int             `json:"quantityInBox" binding:"required,min=1"`
	TotalBoxPrice decimal.Decimal `json:"totalBoxPrice" binding:"decimalgte0"`
	SKU           *string         `json:"sku" binding:"omitempty,max=50"`
}

// ProductAttributes holds the fields shared by create and update requests
type ProductAttributes struct {
	Name                string           `json:"name" binding:"required,min=1,max=200"`
	Description         string           `json:"description" binding:"max=5000"`
	Code                string           `json:"code" binding:"required,min=1,max=50"`
	Barcode             *string          `json:"barcode" binding:"omitempty,max=50"`
	Brand               string           `json:"brand" binding:"max=100"`
	ShippingInfo        string           `json:"shippingInfo" binding:"max=2000"`
	Price               decimal.Decimal  `json:"price" binding:"decimalgte0"`
	Cost                decimal.Decimal  `json:"cost" binding:"decimalgte0"`
	Margin              decimal.Decimal  `json:"margin"`
	Tax                 decimal.Decimal  `json:"tax" binding:"decimalgte0"`
	WholesalePrice      *decimal.Decimal `json:"wholesalePrice" binding:"omitempty,decimalgte0"`
	MinWholesaleQty     *int             `json:"minWholesaleQty" binding:"omitempty,min=1"`
	WeightKg            *decimal.Decimal `json:"weightKg"`
	UnitsPerBox         *int             `json:"unitsPerBox" binding:"omitempty,min=1"`
	UnitsPerBulk        *int             `json:"unitsPerBulk" binding:"omitempty,min=1"`
	OnOffer             bool             `json:"onOffer"`
	IsNew               bool             `json:"isNew"`
	Hidden              bool             `json:"hidden"`
	SubcategoryID       uuid.UUID        `json:"subcategoryId" binding:"required"`
	SupplierID          *uuid.UUID       `json:"supplierId"`
	SupplierProductCode string           `json:"supplierProductCode" binding:"max=100"`
}

func (a ProductAttributes) toDetails() catalog.ProductDetails {
	return catalog.ProductDetails{
		Name:                a.Name,
		Description:         a.Description,
		Code:                a.Code,
		Barcode:             a.Barcode,
		Brand:               a.Brand,
		ShippingInfo:        a.ShippingInfo,
		Price:               a.Price,
		Cost:                a.Cost,
		Margin:              a.Margin,
		Tax:                 a.Tax,
		WholesalePrice:      a.WholesalePrice,
		MinWholesaleQty:     a.MinWholesaleQty,
		WeightKg:            a.WeightKg,
		UnitsPerBox:         a.UnitsPerBox,
		UnitsPerBulk:        a.UnitsPerBulk,
		OnOffer:             a.OnOffer,
		IsNew:               a.IsNew,
		Hidden:              a.Hidden,
		SubcategoryID:       a.SubcategoryID,
		SupplierID:          a.SupplierID,
		SupplierProductCode: a.SupplierProductCode,
	}
}

// CreateProductRequest represents a request to create a product.
// When StoreID is set the initial stock is also placed in that store.
type CreateProductRequest struct {
	ProductAttributes
	Stock             int                     `json:"stock" binding:"min=0"`
	StoreID           *uuid.UUID              `json:"storeId"`
	VolumeDiscounts   []VolumeDiscountInput   `json:"volumeDiscounts" binding:"omitempty,dive"`
	BoxConfigurations []BoxConfigurationInput `json:"boxConfigurations" binding:"omitempty,dive"`
}

// UpdateProductRequest represents a request to update a product.
// Nil option lists keep the current discounts and boxes; empty lists clear them.
type UpdateProductRequest struct {
	ProductAttributes
	Stock             *int                    `json:"stock" binding:"omitempty,min=0"`
	VolumeDiscounts   []VolumeDiscountInput   `json:"volumeDiscounts" binding:"omitempty,dive"`
	BoxConfigurations []BoxConfigurationInput `json:"boxConfigurations" binding:"omitempty,dive"`
}

// SetHiddenRequest toggles storefront visibility
type SetHiddenRequest struct {
	Hidden bool `json:"hidden"`
}

// ProductListFilter represents filter options for product lists
type ProductListFilter struct {
	Search         string     `form:"search"`
	SubcategoryID  *uuid.UUID `form:"-"` // subcategoryId, parsed by the handler
	CategoryID     *uuid.UUID `form:"-"` // categoryId, parsed by the handler
	SupplierID     *uuid.UUID `form:"-"` // supplierId, parsed by the handler
	OnOffer        *bool      `form:"onOffer"`
	IsNew          *bool      `form:"isNew"`
	LowStock       bool       `form:"lowStock"`
	OutOfStock     bool       `form:"outOfStock"`
	IncludeHidden  bool       `form:"includeHidden"`
	WholesaleToken string     `form:"wholesaleToken"`
	Page           int        `form:"page" binding:"omitempty,min=1"`
	PageSize       int        `form:"pageSize" binding:"omitempty,min=1,max=100"`
	OrderBy        string     `form:"orderBy" binding:"omitempty,oneof=name code price stock created_at updated_at"`
	OrderDir       string     `form:"orderDir" binding:"omitempty,oneof=asc desc"`
}

// VolumeDiscountResponse represents a discount tier in API responses
type VolumeDiscountResponse struct {
	MinQuantity        int             `json:"minQuantity"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
}

// BoxConfigurationResponse represents a box option in API responses
type BoxConfigurationResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	QuantityInBox int             `json:"quantityInBox"`
	TotalBoxPrice decimal.Decimal `json:"totalBoxPrice"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	SKU           *string         `json:"sku,omitempty"`
}

// ProductResponse represents a product in API responses. Price is the effective
// price for the caller; OriginalPrice is always the retail price.
type ProductResponse struct {
	ID                  uuid.UUID                  `json:"id"`
	Name                string                     `json:"name"`
	Description         string                     `json:"description"`
	Images              []string                   `json:"images"`
	Code                string                     `json:"code"`
	Barcode             *string                    `json:"barcode,omitempty"`
	Brand               string                     `json:"brand,omitempty"`
	ShippingInfo        string                     `json:"shippingInfo,omitempty"`
	Price               decimal.Decimal            `json:"price"`
	OriginalPrice       decimal.Decimal            `json:"originalPrice"`
	IsWholesale         bool                       `json:"isWholesale"`
	Cost                decimal.Decimal            `json:"cost"`
	Margin              decimal.Decimal            `json:"margin"`
	Tax                 decimal.Decimal            `json:"tax"`
	WholesalePrice      *decimal.Decimal           `json:"wholesalePrice,omitempty"`
	MinWholesaleQty     *int                       `json:"minWholesaleQty,omitempty"`
	WeightKg            *decimal.Decimal           `json:"weightKg,omitempty"`
	UnitsPerBox         *int                       `json:"unitsPerBox,omitempty"`
	UnitsPerBulk        *int                       `json:"unitsPerBulk,omitempty"`
	OnOffer             bool                       `json:"onOffer"`
	IsNew               bool                       `json:"isNew"`
	Hidden              bool                       `json:"hidden"`
	Stock               int                        `json:"stock"`
	IsLowStock          bool                       `json:"isLowStock"`
	SubcategoryID       uuid.UUID                  `json:"subcategoryId"`
	SupplierID          *uuid.UUID                 `json:"supplierId,omitempty"`
	SupplierProductCode string                     `json:"supplierProductCode,omitempty"`
	VolumeDiscounts     []VolumeDiscountResponse   `json:"volumeDiscounts"`
	BoxConfigurations   []BoxConfigurationResponse `json:"boxConfigurations"`
	CreatedAt           time.Time                  `json:"createdAt"`
	UpdatedAt           time.Time                  `json:"updatedAt"`
}

// ToProductResponse converts a product priced at retail
func ToProductResponse(p *catalog.Product) ProductResponse {
	return toPricedProductResponse(p, wholesale.ResolvedPrice{
		ProductID:     p.ID,
		Price:         p.Price,
		OriginalPrice: p.Price,
	})
}

// toPricedProductResponse converts a product with the price resolved for the caller.
// A wholesale price replaces the minimum quantity with the effective one.
func toPricedProductResponse(p *catalog.Product, price wholesale.ResolvedPrice) ProductResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	minQty := p.MinWholesaleQty
	if price.IsWholesale {
		minQty = price.MinWholesaleQty
	}

	discounts := make([]VolumeDiscountResponse, len(p.VolumeDiscounts))
	for i, d := range p.VolumeDiscounts {
		discounts[i] = VolumeDiscountResponse{MinQuantity: d.MinQuantity, DiscountPercentage: d.DiscountPercentage}
	}
	boxes := make([]BoxConfigurationResponse, 0, len(p.BoxConfigurations))
	for _, b := range p.BoxConfigurations {
		if !b.IsActive {
			continue
		}
		boxes = append(boxes, BoxConfigurationResponse{
			ID:            b.ID,
			Name:          b.Name,
			QuantityInBox: b.QuantityInBox,
			TotalBoxPrice: b.TotalBoxPrice,
			UnitPrice:     b.UnitPrice(),
			SKU:           b.SKU,
		})
	}

	return ProductResponse{
		ID:                  p.ID,
		Name:                p.Name,
		Description:         p.Description,
		Images:              images,
		Code:                p.Code,
		Barcode:             p.Barcode,
		Brand:               p.Brand,
		ShippingInfo:        p.ShippingInfo,
		Price:               price.Price,
		OriginalPrice:       price.OriginalPrice,
		IsWholesale:         price.IsWholesale,
		Cost:                p.Cost,
		Margin:              p.Margin,
		Tax:                 p.Tax,
		WholesalePrice:      p.WholesalePrice,
		MinWholesaleQty:     minQty,
		WeightKg:            p.WeightKg,
		UnitsPerBox:         p.UnitsPerBox,
		UnitsPerBulk:        p.UnitsPerBulk,
		OnOffer:             p.OnOffer,
		IsNew:               p.IsNew,
		Hidden:              p.Hidden,
		Stock:               p.Stock,
		IsLowStock:          p.IsLowStock(),
		SubcategoryID:       p.SubcategoryID,
		SupplierID:          p.SupplierID,
		SupplierProductCode: p.SupplierProductCode,
		VolumeDiscounts:     discounts,
		BoxConfigurations:   boxes,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func toVolumeDiscounts(in []VolumeDiscountInput) ([]catalog.VolumeDiscount, error) {
	out := make([]catalog.VolumeDiscount, 0, len(in))
	for _, d := range in {
		vd, err := catalog.NewVolumeDiscount(d.MinQuantity, d.DiscountPercentage)
		if err != nil {
			return nil, err
		}
		out = append(out, vd)
	}
	return out, nil
}

func toBoxConfigurations(in []BoxConfigurationInput) ([]catalog.BoxConfiguration, error) {
	out := make([]catalog.BoxConfiguration, 0, len(in))
	for _, b := range in {
		box, err := catalog.NewBoxConfiguration(b.Name, b.QuantityInBox, b.TotalBoxPrice, b.SKU)
		if err != nil {
			return nil, err
		}
		out = append(out, box)
	}
	return out, nil
}
