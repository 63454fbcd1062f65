package partner

import (
	"strings"
	"time"

	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Gender of a client as captured at registration
type Gender string

const (
	GenderMale           Gender = "MALE"
	GenderFemale         Gender = "FEMALE"
	GenderOther          Gender = "OTHER"
	GenderPreferNotToSay Gender = "PREFER_NOT_TO_SAY"
)

// IsValid reports whether the gender is one of the known values
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderPreferNotToSay:
		return true
	}
	return false
}

// BehaviorRating is the staff assessment of a client's payment behaviour
type BehaviorRating string

const (
	BehaviorExcellent    BehaviorRating = "EXCELLENT"
	BehaviorGood         BehaviorRating = "GOOD"
	BehaviorFair         BehaviorRating = "FAIR"
	BehaviorPoor         BehaviorRating = "POOR"
	BehaviorUnacceptable BehaviorRating = "UNACCEPTABLE"
)

// IsValid reports whether the rating is one of the known values
func (r BehaviorRating) IsValid() bool {
	switch r {
	case BehaviorExcellent, BehaviorGood, BehaviorFair, BehaviorPoor, BehaviorUnacceptable:
		return true
	}
	return false
}

// Client is a retail or wholesale customer
type Client struct {
	shared.BaseAggregateRoot
	FirstName      string          `gorm:"type:varchar(100);not null"`
	LastName       string          `gorm:"type:varchar(100);not null"`
	BirthDate      *time.Time      `gorm:"type:date"`
	Gender         *Gender         `gorm:"type:varchar(20)"`
	Email          string          `gorm:"type:varchar(200);index"`
	Phone          string          `gorm:"type:varchar(50)"`
	Address        string          `gorm:"type:text"`
	Country        string          `gorm:"type:varchar(100)"`
	State          string          `gorm:"type:varchar(100)"`
	City           string          `gorm:"type:varchar(100)"`
	PostalCode     string          `gorm:"type:varchar(20)"`
	DNI            string          `gorm:"column:dni;type:varchar(20);index"`
	CUIL           string          `gorm:"column:cuil;type:varchar(20)"`
	CreditLimit    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CashLimit      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Balance        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	BehaviorRating *BehaviorRating `gorm:"type:varchar(20)"`
	ServiceReceipt string          `gorm:"type:varchar(200)"`
	Notes          string          `gorm:"type:text"`
	IsWholesale    bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}

// ClientDetails carries the editable attributes of a client
type ClientDetails struct {
	FirstName      string
	LastName       string
	BirthDate      *time.Time
	Gender         *Gender
	Email          string
	Phone          string
	Address        string
	Country        string
	State          string
	City           string
	PostalCode     string
	DNI            string
	CUIL           string
	CreditLimit    decimal.Decimal
	CashLimit      decimal.Decimal
	BehaviorRating *BehaviorRating
	ServiceReceipt string
	Notes          string
	IsWholesale    bool
}

// NewClient creates a new client with a zero balance
func NewClient(details ClientDetails) (*Client, error) {
	c := &Client{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Balance:           decimal.Zero,
	}
	if err := c.apply(details); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the client's attributes
func (c *Client) Update(details ClientDetails) error {
	if err := c.apply(details); err != nil {
		return err
	}
	c.Touch()
	return nil
}

// FullName returns first and last name joined
func (c *Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

func (c *Client) apply(d ClientDetails) error {
	first, err := requireName("Client first", d.FirstName, 100)
	if err != nil {
		return err
	}
	last, err := requireName("Client last", d.LastName, 100)
	if err != nil {
		return err
	}
	email := strings.ToLower(strings.TrimSpace(d.Email))
	if err := validateEmail(email); err != nil {
		return err
	}
	if err := validatePhone(d.Phone); err != nil {
		return err
	}
	if d.Gender != nil && !d.Gender.IsValid() {
		return shared.NewDomainError("INVALID_GENDER", "Invalid gender")
	}
	if d.BehaviorRating != nil && !d.BehaviorRating.IsValid() {
		return shared.NewDomainError("INVALID_RATING", "Invalid behavior rating")
	}
	if d.CreditLimit.IsNegative() || d.CashLimit.IsNegative() {
		return shared.NewDomainError("INVALID_LIMIT", "Credit and cash limits cannot be negative")
	}
	if d.BirthDate != nil && d.BirthDate.After(time.Now()) {
		return shared.NewDomainError("INVALID_BIRTH_DATE", "Birth date cannot be in the future")
	}

	c.FirstName = first
	c.LastName = last
	c.BirthDate = d.BirthDate
	c.Gender = d.Gender
	c.Email = email
	c.Phone = d.Phone
	c.Address = d.Address
	c.Country = d.Country
	c.State = d.State
	c.City = d.City
	c.PostalCode = d.PostalCode
	c.DNI = d.DNI
	c.CUIL = d.CUIL
	c.CreditLimit = d.CreditLimit
	c.CashLimit = d.CashLimit
	c.BehaviorRating = d.BehaviorRating
	c.ServiceReceipt = d.ServiceReceipt
	c.Notes = d.Notes
	c.IsWholesale = d.IsWholesale
	return nil
}
