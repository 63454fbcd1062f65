package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LowStockThreshold is the highest global stock still reported as low stock
const LowStockThreshold = 10

// Product is a sellable item. Stock is the global counter used by online sales;
// per-store quantities live in inventory.StoreStock.
type Product struct {
	shared.BaseAggregateRoot
	Name                string             `gorm:"type:varchar(200);not null"`
	Description         string             `gorm:"type:text"`
	Images              []string           `gorm:"type:jsonb;serializer:json"`
	Code                string             `gorm:"type:varchar(50);not null;uniqueIndex:idx_products_code"`
	Barcode             *string            `gorm:"type:varchar(50);uniqueIndex:idx_products_barcode"`
	Brand               string             `gorm:"type:varchar(100)"`
	ShippingInfo        string             `gorm:"type:text"`
	Price               decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	Cost                decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	Margin              decimal.Decimal    `gorm:"type:decimal(8,2);not null;default:0"`
	Tax                 decimal.Decimal    `gorm:"type:decimal(8,2);not null;default:0"`
	WholesalePrice      *decimal.Decimal   `gorm:"type:decimal(18,2)"`
	MinWholesaleQty     *int               `gorm:"type:integer"`
	WeightKg            *decimal.Decimal   `gorm:"type:decimal(10,3)"`
	UnitsPerBox         *int               `gorm:"type:integer"`
	UnitsPerBulk        *int               `gorm:"type:integer"`
	OnOffer             bool               `gorm:"not null;default:false;index"`
	IsNew               bool               `gorm:"not null;default:false;index"`
	Hidden              bool               `gorm:"not null;default:false;index"`
	Stock               int                `gorm:"not null;default:0"`
	InitialStock        int                `gorm:"not null;default:0"`
	SubcategoryID       uuid.UUID          `gorm:"type:uuid;not null;index"`
	SupplierID          *uuid.UUID         `gorm:"type:uuid;index"`
	SupplierProductCode string             `gorm:"type:varchar(100)"`
	VolumeDiscounts     []VolumeDiscount   `gorm:"foreignKey:ProductID"`
	BoxConfigurations   []BoxConfiguration `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// ProductDetails carries the editable attributes of a product
type ProductDetails struct {
	Name                string
	Description         string
	Code                string
	Barcode             *string
	Brand               string
	ShippingInfo        string
	Price               decimal.Decimal
	Cost                decimal.Decimal
	Margin              decimal.Decimal
	Tax                 decimal.Decimal
	WholesalePrice      *decimal.Decimal
	MinWholesaleQty     *int
	WeightKg            *decimal.Decimal
	UnitsPerBox         *int
	UnitsPerBulk        *int
	OnOffer             bool
	IsNew               bool
	Hidden              bool
	SubcategoryID       uuid.UUID
	SupplierID          *uuid.UUID
	SupplierProductCode string
}

// NewProduct creates a product with its initial global stock
func NewProduct(details ProductDetails, stock int) (*Product, error) {
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Images:            []string{},
		Stock:             stock,
		InitialStock:      stock,
	}
	if err := p.apply(details); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the product's editable attributes
func (p *Product) Update(details ProductDetails) error {
	if err := p.apply(details); err != nil {
		return err
	}
	p.Touch()
	return nil
}

func (p *Product) apply(d ProductDetails) error {
	name := strings.TrimSpace(d.Name)
	if err := validateName("Product", name, 200); err != nil {
		return err
	}
	code := strings.TrimSpace(d.Code)
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	if d.SubcategoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_SUBCATEGORY", "Subcategory is required")
	}
	if d.Price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if d.Cost.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Cost cannot be negative")
	}
	if d.WholesalePrice != nil && d.WholesalePrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Wholesale price cannot be negative")
	}
	if d.MinWholesaleQty != nil && *d.MinWholesaleQty < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Minimum wholesale quantity must be at least 1")
	}
	for _, units := range []*int{d.UnitsPerBox, d.UnitsPerBulk} {
		if units != nil && *units < 1 {
			return shared.NewDomainError("INVALID_QUANTITY", "Units per box or bulk must be at least 1")
		}
	}

	var barcode *string
	if d.Barcode != nil && strings.TrimSpace(*d.Barcode) != "" {
		trimmed := strings.TrimSpace(*d.Barcode)
		barcode = &trimmed
	}

	p.Name = name
	p.Description = d.Description
	p.Code = code
	p.Barcode = barcode
	p.Brand = d.Brand
	p.ShippingInfo = d.ShippingInfo
	p.Price = d.Price
	p.Cost = d.Cost
	p.Margin = d.Margin
	p.Tax = d.Tax
	p.WholesalePrice = d.WholesalePrice
	p.MinWholesaleQty = d.MinWholesaleQty
	p.WeightKg = d.WeightKg
	p.UnitsPerBox = d.UnitsPerBox
	p.UnitsPerBulk = d.UnitsPerBulk
	p.OnOffer = d.OnOffer
	p.IsNew = d.IsNew
	p.Hidden = d.Hidden
	p.SubcategoryID = d.SubcategoryID
	p.SupplierID = d.SupplierID
	p.SupplierProductCode = d.SupplierProductCode
	return nil
}

// SetStock overwrites the global stock counter
func (p *Product) SetStock(quantity int) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	p.Stock = quantity
	p.Touch()
	return nil
}

// HasStock reports whether the global counter covers the requested quantity
func (p *Product) HasStock(quantity int) bool {
	return p.Stock >= quantity
}

// IsLowStock reports stock between 1 and LowStockThreshold
func (p *Product) IsLowStock() bool {
	return p.Stock > 0 && p.Stock <= LowStockThreshold
}

// AddImage appends an image URL
func (p *Product) AddImage(url string) {
	p.Images = append(p.Images, url)
	p.Touch()
}

// RemoveImage drops an image URL, reporting whether it was present
func (p *Product) RemoveImage(url string) bool {
	for i, img := range p.Images {
		if img == url {
			p.Images = append(p.Images[:i], p.Images[i+1:]...)
			p.Touch()
			return true
		}
	}
	return false
}

// SetVolumeDiscounts replaces the tiered discounts after validating them
func (p *Product) SetVolumeDiscounts(discounts []VolumeDiscount) error {
	seen := make(map[int]bool, len(discounts))
	for i := range discounts {
		if err := discounts[i].validate(); err != nil {
			return err
		}
		if seen[discounts[i].MinQuantity] {
			return shared.NewDomainErrorf("INVALID_DISCOUNT", "Duplicate volume discount for minimum quantity %d", discounts[i].MinQuantity)
		}
		seen[discounts[i].MinQuantity] = true
		discounts[i].ProductID = p.ID
	}
	p.VolumeDiscounts = discounts
	return nil
}

// SetBoxConfigurations replaces the box packaging options after validating them
func (p *Product) SetBoxConfigurations(boxes []BoxConfiguration) error {
	for i := range boxes {
		if err := boxes[i].validate(); err != nil {
			return err
		}
		boxes[i].ProductID = p.ID
	}
	p.BoxConfigurations = boxes
	return nil
}

// VolumeDiscountFor returns the best percentage discount for a quantity, or zero
func (p *Product) VolumeDiscountFor(quantity int) decimal.Decimal {
	best := decimal.Zero
	for _, d := range p.VolumeDiscounts {
		if quantity >= d.MinQuantity && d.DiscountPercentage.GreaterThan(best) {
			best = d.DiscountPercentage
		}
	}
	return best
}
