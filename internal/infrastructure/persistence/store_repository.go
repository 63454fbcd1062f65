package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/inventory"
	"github.com/retail/backoffice/internal/domain/partner"
	"github.com/retail/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

// GormStoreRepository persists stores
type GormStoreRepository struct {
	namedRepository[partner.Store]
}

func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{namedRepository[partner.Store]{db: db, searchCols: []string{"name", "address"}}}
}

// Delete removes a store together with its empty stock rows. Rows still
// holding units are left alone, so the foreign key refuses the delete.
func (r *GormStoreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("store_id = ? AND quantity = 0", id).Delete(&inventory.StoreStock{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&partner.Store{}, "id = ?", id)
		if result.Error != nil {
			return translateError(result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

var _ partner.StoreRepository = (*GormStoreRepository)(nil)
