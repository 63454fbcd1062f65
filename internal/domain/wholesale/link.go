package wholesale

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// tokenShape matches generated tokens; slugs may not look like one
var tokenShape = regexp.MustCompile(`^[0-9a-f]{32}$`)

// Link is a shareable token granting wholesale pricing to whoever holds it
type Link struct {
	shared.BaseAggregateRoot
	Token           string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_wholesale_links_token"`
	Name            string          `gorm:"type:varchar(200);not null"`
	Discount        decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	ExpiresAt       *time.Time      `gorm:"index"`
	IsActive        bool            `gorm:"not null;default:true;index"`
	Uses            int             `gorm:"not null;default:0"`
	LastUsedAt      *time.Time
	BusinessName    string      `gorm:"type:varchar(200)"`
	Notes           string      `gorm:"type:text"`
	CreatedBy       *uuid.UUID  `gorm:"type:uuid"`
	CustomSlug      *string     `gorm:"type:varchar(100);uniqueIndex:idx_wholesale_links_slug"`
	CustomerName    string      `gorm:"type:varchar(200)"`
	CustomerEmail   string      `gorm:"type:varchar(200)"`
	CustomerPhone   string      `gorm:"type:varchar(50)"`
	CustomerAddress string      `gorm:"type:text"`
	TaxID           string      `gorm:"type:varchar(50)"`
	ProductIDs      []uuid.UUID `gorm:"-"`
}

// TableName returns the table name for GORM
func (Link) TableName() string {
	return "wholesale_links"
}

// LinkProduct curates a product onto a link
type LinkProduct struct {
	LinkID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// TableName returns the table name for GORM
func (LinkProduct) TableName() string {
	return "wholesale_link_products"
}

// LinkDetails carries the editable attributes of a link
type LinkDetails struct {
	Name         string
	Discount     decimal.Decimal
	ExpiresAt    *time.Time
	BusinessName string
	Notes        string
	CustomSlug   string
}

// CustomerProfile is the business data a wholesale customer leaves on their link
type CustomerProfile struct {
	Name         string
	Email        string
	Phone        string
	Address      string
	BusinessName string
	TaxID        string
}

// GenerateToken returns 16 random bytes hex encoded
func GenerateToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// NewLink creates an active link with a fresh token
func NewLink(details LinkDetails, createdBy *uuid.UUID) (*Link, error) {
	token, err := GenerateToken()
	if err != nil {
		return nil, err
	}

	l := &Link{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Token:             token,
		IsActive:          true,
		CreatedBy:         createdBy,
		ProductIDs:        []uuid.UUID{},
	}
	if err := l.apply(details); err != nil {
		return nil, err
	}
	return l, nil
}

// Update replaces the editable attributes
func (l *Link) Update(details LinkDetails) error {
	if err := l.apply(details); err != nil {
		return err
	}
	l.Touch()
	return nil
}

func (l *Link) apply(d LinkDetails) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Link name cannot be empty")
	}
	if d.Discount.IsNegative() || d.Discount.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount must be between 0 and 100")
	}

	var slug *string
	if s := shared.Slugify(d.CustomSlug); s != "" {
		if tokenShape.MatchString(s) {
			return shared.NewDomainError("INVALID_SLUG", "Custom slug cannot have the shape of a link token")
		}
		slug = &s
	}

	l.Name = name
	l.Discount = d.Discount
	l.ExpiresAt = d.ExpiresAt
	l.BusinessName = d.BusinessName
	l.Notes = d.Notes
	l.CustomSlug = slug
	return nil
}

// IsUsable reports whether the link is active and unexpired at the given instant
func (l *Link) IsUsable(now time.Time) bool {
	if !l.IsActive {
		return false
	}
	return l.ExpiresAt == nil || l.ExpiresAt.After(now)
}

// Deactivate disables the link without deleting it
func (l *Link) Deactivate() {
	l.IsActive = false
	l.Touch()
}

// Activate re-enables a deactivated link
func (l *Link) Activate() {
	l.IsActive = true
	l.Touch()
}

// SetCustomer stores the customer's business profile
func (l *Link) SetCustomer(p CustomerProfile) error {
	if strings.TrimSpace(p.Name) == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Customer name is required")
	}
	l.CustomerName = strings.TrimSpace(p.Name)
	l.CustomerEmail = strings.ToLower(strings.TrimSpace(p.Email))
	l.CustomerPhone = p.Phone
	l.CustomerAddress = p.Address
	if p.BusinessName != "" {
		l.BusinessName = p.BusinessName
	}
	l.TaxID = p.TaxID
	l.UpdatedAt = time.Now()
	return nil
}
