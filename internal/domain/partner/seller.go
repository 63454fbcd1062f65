package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/shared"
)

// Seller is a salesperson attributed on in-store orders
type Seller struct {
	shared.BaseAggregateRoot
	Name   string     `gorm:"type:varchar(200);not null"`
	Email  string     `gorm:"type:varchar(200);not null;uniqueIndex:idx_sellers_email"`
	UserID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Seller) TableName() string {
	return "sellers"
}

// NewSeller creates a new seller
func NewSeller(name, email string) (*Seller, error) {
	s := &Seller{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := s.apply(name, email); err != nil {
		return nil, err
	}
	return s, nil
}

// Update updates the seller's name and email
func (s *Seller) Update(name, email string) error {
	if err := s.apply(name, email); err != nil {
		return err
	}
	s.Touch()
	return nil
}

// LinkUser associates the seller with a login account
func (s *Seller) LinkUser(userID uuid.UUID) {
	s.UserID = &userID
	s.UpdatedAt = time.Now()
}

func (s *Seller) apply(name, email string) error {
	name, err := requireName("Seller", name, 200)
	if err != nil {
		return err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Seller email cannot be empty")
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	s.Name = name
	s.Email = email
	return nil
}
