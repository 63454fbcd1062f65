package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// VolumeDiscount is a percentage discount unlocked at a minimum quantity
type VolumeDiscount struct {
	shared.BaseEntity
	ProductID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	MinQuantity        int             `gorm:"not null"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null"`
}

// TableName returns the table name for GORM
func (VolumeDiscount) TableName() string {
	return "volume_discounts"
}

// NewVolumeDiscount creates a volume discount tier
func NewVolumeDiscount(minQuantity int, percentage decimal.Decimal) (VolumeDiscount, error) {
	d := VolumeDiscount{
		BaseEntity:         shared.NewBaseEntity(),
		MinQuantity:        minQuantity,
		DiscountPercentage: percentage,
	}
	if err := d.validate(); err != nil {
		return VolumeDiscount{}, err
	}
	return d, nil
}

func (d VolumeDiscount) validate() error {
	if d.MinQuantity < 1 {
		return shared.NewDomainError("INVALID_DISCOUNT", "Volume discount minimum quantity must be at least 1")
	}
	if !d.DiscountPercentage.IsPositive() || d.DiscountPercentage.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Volume discount percentage must be greater than 0 and at most 100")
	}
	return nil
}

// BoxConfiguration describes a packaged box of a product sold at a fixed price
type BoxConfiguration struct {
	shared.BaseEntity
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name          string          `gorm:"type:varchar(100);not null"`
	QuantityInBox int             `gorm:"not null"`
	TotalBoxPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	SKU           *string         `gorm:"column:sku;type:varchar(50);uniqueIndex:idx_box_configurations_sku"`
	IsActive      bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (BoxConfiguration) TableName() string {
	return "box_configurations"
}

// NewBoxConfiguration creates an active box configuration
func NewBoxConfiguration(name string, quantityInBox int, totalBoxPrice decimal.Decimal, sku *string) (BoxConfiguration, error) {
	b := BoxConfiguration{
		BaseEntity:    shared.NewBaseEntity(),
		Name:          strings.TrimSpace(name),
		QuantityInBox: quantityInBox,
		TotalBoxPrice: totalBoxPrice,
		IsActive:      true,
	}
	if sku != nil && strings.TrimSpace(*sku) != "" {
		trimmed := strings.TrimSpace(*sku)
		b.SKU = &trimmed
	}
	if err := b.validate(); err != nil {
		return BoxConfiguration{}, err
	}
	return b, nil
}

// UnitPrice is the box price spread over its units, rounded to cents
func (b BoxConfiguration) UnitPrice() decimal.Decimal {
	return b.TotalBoxPrice.Div(decimal.NewFromInt(int64(b.QuantityInBox))).Round(2)
}

func (b BoxConfiguration) validate() error {
	if b.Name == "" {
		return shared.NewDomainError("INVALID_BOX", "Box configuration name cannot be empty")
	}
	if b.QuantityInBox < 1 {
		return shared.NewDomainError("INVALID_BOX", "Box quantity must be at least 1")
	}
	if b.TotalBoxPrice.IsNegative() {
		return shared.NewDomainError("INVALID_BOX", "Box price cannot be negative")
	}
	return nil
}
