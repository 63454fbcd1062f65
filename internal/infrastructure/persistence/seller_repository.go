package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/partner"
	"gorm.io/gorm"
)

// GormSellerRepository persists sellers and resolves them by email or login
type GormSellerRepository struct {
	namedRepository[partner.Seller]
}

func NewGormSellerRepository(db *gorm.DB) *GormSellerRepository {
	return &GormSellerRepository{namedRepository[partner.Seller]{db: db, searchCols: []string{"name", "email"}}}
}

// FindByEmail matches the normalized (trimmed, lower-case) address
func (r *GormSellerRepository) FindByEmail(ctx context.Context, email string) (*partner.Seller, error) {
	return r.findBy(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

// FindByUserID finds the seller linked to a login
func (r *GormSellerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*partner.Seller, error) {
	return r.findBy(ctx, "user_id = ?", userID)
}

func (r *GormSellerRepository) findBy(ctx context.Context, cond string, arg any) (*partner.Seller, error) {
	var seller partner.Seller
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&seller).Error; err != nil {
		return nil, translateError(err)
	}
	return &seller, nil
}

var _ partner.SellerRepository = (*GormSellerRepository)(nil)
