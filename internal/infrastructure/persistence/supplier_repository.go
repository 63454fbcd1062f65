package persistence

import (
	"github.com/retail/backoffice/internal/domain/partner"
	"gorm.io/gorm"
)

// GormSupplierRepository persists suppliers
type GormSupplierRepository struct {
	namedRepository[partner.Supplier]
}

func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{namedRepository[partner.Supplier]{
		db:         db,
		searchCols: []string{"name", "contact_name", "email", "tax_id"},
	}}
}

var _ partner.SupplierRepository = (*GormSupplierRepository)(nil)
