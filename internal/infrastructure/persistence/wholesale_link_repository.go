package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/retail/backoffice/internal/domain/wholesale"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWholesaleLinkRepository implements LinkRepository using GORM
type GormWholesaleLinkRepository struct {
	db *gorm.DB
}

// NewGormWholesaleLinkRepository creates a new GormWholesaleLinkRepository
func NewGormWholesaleLinkRepository(db *gorm.DB) *GormWholesaleLinkRepository {
	return &GormWholesaleLinkRepository{db: db}
}

// FindByID finds a link with its curated product ids
func (r *GormWholesaleLinkRepository) FindByID(ctx context.Context, id uuid.UUID) (*wholesale.Link, error) {
	var link wholesale.Link
	if err := r.db.WithContext(ctx).First(&link, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	if err := r.loadProducts(ctx, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// FindByToken finds a link by token or custom slug
func (r *GormWholesaleLinkRepository) FindByToken(ctx context.Context, token string) (*wholesale.Link, error) {
	var link wholesale.Link
	if err := r.db.WithContext(ctx).
		Where("token = ? OR custom_slug = ?", token, token).
		First(&link).Error; err != nil {
		return nil, translateError(err)
	}
	if err := r.loadProducts(ctx, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// FindAll lists links newest first
func (r *GormWholesaleLinkRepository) FindAll(ctx context.Context, filter shared.Filter) ([]wholesale.Link, error) {
	var links []wholesale.Link
	query := paginate(r.applyFilter(r.db.WithContext(ctx).Model(&wholesale.Link{}), filter), filter, namedSortFields, "created_at")
	if err := query.Find(&links).Error; err != nil {
		return nil, err
	}
	for i := range links {
		if err := r.loadProducts(ctx, &links[i]); err != nil {
			return nil, err
		}
	}
	return links, nil
}

// Count counts links matching the filter
func (r *GormWholesaleLinkRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&wholesale.Link{}), filter).Count(&count).Error
	return count, err
}

// Create inserts a link and its curated products
func (r *GormWholesaleLinkRepository) Create(ctx context.Context, link *wholesale.Link) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(link).Error; err != nil {
			return translateError(err)
		}
		return insertLinkProducts(tx, link.ID, link.ProductIDs)
	})
}

// Save updates a link row
func (r *GormWholesaleLinkRepository) Save(ctx context.Context, link *wholesale.Link) error {
	return translateError(r.db.WithContext(ctx).Save(link).Error)
}

// Delete removes a link and its product curation
func (r *GormWholesaleLinkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("link_id = ?", id).Delete(&wholesale.LinkProduct{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&wholesale.Link{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// RecordUse increments the use counter of a usable link in a single conditional update
func (r *GormWholesaleLinkRepository) RecordUse(ctx context.Context, token string, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&wholesale.Link{}).
		Where("(token = ? OR custom_slug = ?) AND is_active = ? AND (expires_at IS NULL OR expires_at > ?)", token, token, true, now).
		UpdateColumns(map[string]interface{}{
			"uses":         gorm.Expr("uses + 1"),
			"last_used_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ReplaceProducts swaps the curated product set of a link
func (r *GormWholesaleLinkRepository) ReplaceProducts(ctx context.Context, linkID uuid.UUID, productIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("link_id = ?", linkID).Delete(&wholesale.LinkProduct{}).Error; err != nil {
			return err
		}
		return insertLinkProducts(tx, linkID, productIDs)
	})
}

func (r *GormWholesaleLinkRepository) loadProducts(ctx context.Context, link *wholesale.Link) error {
	ids := []uuid.UUID{}
	if err := r.db.WithContext(ctx).Model(&wholesale.LinkProduct{}).
		Where("link_id = ?", link.ID).
		Pluck("product_id", &ids).Error; err != nil {
		return err
	}
	link.ProductIDs = ids
	return nil
}

func (r *GormWholesaleLinkRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchAny(query, filter.Search, "name", "customer_name", "customer_email", "business_name", "token")
	if v, ok := boolFilter(filter.Filters["active_only"]); ok && v {
		query = query.Where("is_active = ?", true)
	}
	return query
}

func insertLinkProducts(tx *gorm.DB, linkID uuid.UUID, productIDs []uuid.UUID) error {
	if len(productIDs) == 0 {
		return nil
	}
	rows := make([]wholesale.LinkProduct, 0, len(productIDs))
	for _, id := range productIDs {
		rows = append(rows, wholesale.LinkProduct{LinkID: linkID, ProductID: id})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// Ensure GormWholesaleLinkRepository implements LinkRepository
var _ wholesale.LinkRepository = (*GormWholesaleLinkRepository)(nil)
