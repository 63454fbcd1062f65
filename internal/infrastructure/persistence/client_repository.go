package persistence

import (
	"context"

	"github.com/retail/backoffice/internal/domain/partner"
	"github.com/retail/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

// GormClientRepository persists clients. Listing sorts by last name and
// understands the is_wholesale and behavior_rating filters.
type GormClientRepository struct {
	namedRepository[partner.Client]
}

func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{namedRepository[partner.Client]{
		db:         db,
		searchCols: []string{"first_name", "last_name", "email", "dni", "phone"},
	}}
}

func (r *GormClientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Client, error) {
	var clients []partner.Client
	query := paginate(r.filtered(ctx, filter), filter, clientSortFields, "last_name")
	if err := query.Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *GormClientRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}

func (r *GormClientRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.search(ctx, filter)
	for key, value := range filter.Filters {
		switch key {
		case "is_wholesale":
			if v, ok := boolFilter(value); ok {
				query = query.Where("is_wholesale = ?", v)
			}
		case "behavior_rating":
			query = query.Where("behavior_rating = ?", value)
		}
	}
	return query
}

var _ partner.ClientRepository = (*GormClientRepository)(nil)
