package partner

import "github.com/retail/backoffice/internal/domain/shared"

// Supplier provides products to the business
type Supplier struct {
	shared.BaseAggregateRoot
	Name        string `gorm:"type:varchar(200);not null"`
	ContactName string `gorm:"type:varchar(100)"`
	Email       string `gorm:"type:varchar(200)"`
	Phone       string `gorm:"type:varchar(50)"`
	Address     string `gorm:"type:text"`
	TaxID       string `gorm:"type:varchar(50)"`
	Notes       string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// SupplierDetails carries the editable attributes of a supplier
type SupplierDetails struct {
	Name        string
	ContactName string
	Email       string
	Phone       string
	Address     string
	TaxID       string
	Notes       string
}

// NewSupplier creates a new supplier
func NewSupplier(details SupplierDetails) (*Supplier, error) {
	s := &Supplier{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := s.apply(details); err != nil {
		return nil, err
	}
	return s, nil
}

// Update replaces the supplier's attributes
func (s *Supplier) Update(details SupplierDetails) error {
	if err := s.apply(details); err != nil {
		return err
	}
	s.Touch()
	return nil
}

func (s *Supplier) apply(d SupplierDetails) error {
	name, err := requireName("Supplier", d.Name, 200)
	if err != nil {
		return err
	}
	if err := validateEmail(d.Email); err != nil {
		return err
	}
	if err := validatePhone(d.Phone); err != nil {
		return err
	}
	s.Name = name
	s.ContactName = d.ContactName
	s.Email = d.Email
	s.Phone = d.Phone
	s.Address = d.Address
	s.TaxID = d.TaxID
	s.Notes = d.Notes
	return nil
}
