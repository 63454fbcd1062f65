package partner

import "github.com/retail/backoffice/internal/domain/shared"

// Store is a physical point of sale holding its own stock
type Store struct {
	shared.BaseAggregateRoot
	Name    string `gorm:"type:varchar(200);not null"`
	Address string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Store) TableName() string {
	return "stores"
}

// NewStore creates a new store
func NewStore(name, address string) (*Store, error) {
	name, err := requireName("Store", name, 200)
	if err != nil {
		return nil, err
	}
	return &Store{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Address:           address,
	}, nil
}

// Update updates the store's name and address
func (s *Store) Update(name, address string) error {
	name, err := requireName("Store", name, 200)
	if err != nil {
		return err
	}
	s.Name = name
	s.Address = address
	s.Touch()
	return nil
}
