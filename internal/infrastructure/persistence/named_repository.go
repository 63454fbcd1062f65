package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

// namedRepository is the plain CRUD shared by the partner tables, which all
// sort by name and search a fixed set of text columns.
type namedRepository[T any] struct {
	db         *gorm.DB
	searchCols []string
}

func (r namedRepository[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var row T
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &row, nil
}

func (r namedRepository[T]) FindAll(ctx context.Context, filter shared.Filter) ([]T, error) {
	var rows []T
	if err := paginate(r.search(ctx, filter), filter, namedSortFields, "name").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r namedRepository[T]) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.search(ctx, filter).Count(&count).Error
	return count, err
}

// Save inserts or updates by primary key
func (r namedRepository[T]) Save(ctx context.Context, row *T) error {
	return translateError(r.db.WithContext(ctx).Save(row).Error)
}

func (r namedRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r namedRepository[T]) search(ctx context.Context, filter shared.Filter) *gorm.DB {
	return searchAny(r.db.WithContext(ctx).Model(new(T)), filter.Search, r.searchCols...)
}
