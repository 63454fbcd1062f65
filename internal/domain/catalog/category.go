package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/shared"
)

// Category groups subcategories for navigation in the storefront
type Category struct {
	shared.BaseAggregateRoot
	Name          string        `gorm:"type:varchar(100);not null;uniqueIndex:idx_categories_name"`
	Description   string        `gorm:"type:text"`
	ImageURL      string        `gorm:"type:varchar(500)"`
	Subcategories []Subcategory `gorm:"foreignKey:CategoryID"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(name, description string) (*Category, error) {
	name = strings.TrimSpace(name)
	if err := validateName("Category", name, 100); err != nil {
		return nil, err
	}

	return &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
	}, nil
}

// Update updates the category's basic information
func (c *Category) Update(name, description string) error {
	name = strings.TrimSpace(name)
	if err := validateName("Category", name, 100); err != nil {
		return err
	}

	c.Name = name
	c.Description = description
	c.Touch()
	return nil
}

// SetImage replaces the image URL and returns the previous one
func (c *Category) SetImage(url string) string {
	previous := c.ImageURL
	c.ImageURL = url
	c.Touch()
	return previous
}

// Subcategory belongs to exactly one category and owns products
type Subcategory struct {
	shared.BaseAggregateRoot
	CategoryID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subcategories_category_name,priority:1"`
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_subcategories_category_name,priority:2"`
	Description string    `gorm:"type:text"`
	ImageURL    string    `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Subcategory) TableName() string {
	return "subcategories"
}

// NewSubcategory creates a subcategory under the given category
func NewSubcategory(categoryID uuid.UUID, name, description string) (*Subcategory, error) {
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category is required")
	}
	name = strings.TrimSpace(name)
	if err := validateName("Subcategory", name, 100); err != nil {
		return nil, err
	}

	return &Subcategory{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CategoryID:        categoryID,
		Name:              name,
		Description:       description,
	}, nil
}

// Update updates the subcategory, optionally moving it to another category
func (s *Subcategory) Update(categoryID uuid.UUID, name, description string) error {
	name = strings.TrimSpace(name)
	if err := validateName("Subcategory", name, 100); err != nil {
		return err
	}
	if categoryID != uuid.Nil {
		s.CategoryID = categoryID
	}

	s.Name = name
	s.Description = description
	s.Touch()
	return nil
}

// SetImage replaces the image URL and returns the previous one
func (s *Subcategory) SetImage(url string) string {
	previous := s.ImageURL
	s.ImageURL = url
	s.Touch()
	return previous
}

func validateName(entity, name string, max int) error {
	if name == "" {
		return shared.NewDomainErrorf("INVALID_NAME", "%s name cannot be empty", entity)
	}
	if len([]rune(name)) > max {
		return shared.NewDomainErrorf("INVALID_NAME", "%s name cannot exceed %d characters", entity, max)
	}
	return nil
}
