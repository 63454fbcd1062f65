package catalog

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrCategoryInUse is returned when deleting a category or subcategory that still owns products
var ErrCategoryInUse = shared.NewDomainError("CONFLICT", "Delete or move the products of this category first")

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo    catalog.CategoryRepository
	subcategoryRepo catalog.SubcategoryRepository
	productRepo     catalog.ProductRepository
	txScope         TransactionScope
	images          *ImageUploader
	logger          *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	categoryRepo catalog.CategoryRepository,
	subcategoryRepo catalog.SubcategoryRepository,
	productRepo catalog.ProductRepository,
	txScope TransactionScope,
	images *ImageUploader,
	logger *zap.Logger,
) *CategoryService {
	return &CategoryService{
		categoryRepo:    categoryRepo,
		subcategoryRepo: subcategoryRepo,
		productRepo:     productRepo,
		txScope:         txScope,
		images:          images,
		logger:          logger,
	}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	if err := s.ensureUniqueName(ctx, req.Name, uuid.Nil); err != nil {
		return nil, err
	}
	category, err := catalog.NewCategory(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, duplicateName(err, "Category")
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// GetByID retrieves a category with its subcategories
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// List retrieves categories ordered by name
func (s *CategoryService) List(ctx context.Context, filter CategoryListFilter) ([]CategoryResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		OrderBy:  "name",
		OrderDir: "asc",
	}.Normalize()

	categories, err := s.categoryRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.categoryRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses, total, nil
}

// Update updates a category's name and description
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, req.Name, id); err != nil {
		return nil, err
	}
	if err := category.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, duplicateName(err, "Category")
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Delete removes a category together with its subcategories and their images.
// It is refused while any subcategory still owns products.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	subIDs := make([]uuid.UUID, len(category.Subcategories))
	for i, sub := range category.Subcategories {
		subIDs[i] = sub.ID
	}
	count, err := s.productRepo.CountBySubcategories(ctx, subIDs)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.SubcategoryRepo().DeleteByCategory(ctx, id); err != nil {
			return err
		}
		return repos.CategoryRepo().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.images.Discard(ctx, category.ImageURL)
	for _, sub := range category.Subcategories {
		s.images.Discard(ctx, sub.ImageURL)
	}
	s.logger.Info("Category deleted",
		zap.String("category_id", id.String()),
		zap.Int("subcategories", len(subIDs)))
	return nil
}

// UploadImage stores a new category image and removes the previous one
func (s *CategoryService) UploadImage(ctx context.Context, id uuid.UUID, image io.Reader) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := s.images.Upload(ctx, ImageFolderCategories, category.Name, image)
	if err != nil {
		return nil, err
	}
	previous := category.SetImage(url)
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		s.images.Discard(ctx, url)
		return nil, err
	}
	s.images.Discard(ctx, previous)

	resp := ToCategoryResponse(category)
	return &resp, nil
}

func (s *CategoryService) ensureUniqueName(ctx context.Context, name string, excludeID uuid.UUID) error {
	exists, err := s.categoryRepo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Category with this name already exists")
	}
	return nil
}

// SubcategoryService handles subcategory-related business operations
type SubcategoryService struct {
	subcategoryRepo catalog.SubcategoryRepository
	categoryRepo    catalog.CategoryRepository
	productRepo     catalog.ProductRepository
	images          *ImageUploader
	logger          *zap.Logger
}

// NewSubcategoryService creates a new SubcategoryService
func NewSubcategoryService(
	subcategoryRepo catalog.SubcategoryRepository,
	categoryRepo catalog.CategoryRepository,
	productRepo catalog.ProductRepository,
	images *ImageUploader,
	logger *zap.Logger,
) *SubcategoryService {
	return &SubcategoryService{
		subcategoryRepo: subcategoryRepo,
		categoryRepo:    categoryRepo,
		productRepo:     productRepo,
		images:          images,
		logger:          logger,
	}
}

// Create creates a subcategory under an existing category
func (s *SubcategoryService) Create(ctx context.Context, req CreateSubcategoryRequest) (*SubcategoryResponse, error) {
	if err := s.ensureCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	sub, err := catalog.NewSubcategory(req.CategoryID, req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.subcategoryRepo.Save(ctx, sub); err != nil {
		return nil, duplicateName(err, "Subcategory")
	}
	resp := ToSubcategoryResponse(sub)
	return &resp, nil
}

// GetByID retrieves a subcategory
func (s *SubcategoryService) GetByID(ctx context.Context, id uuid.UUID) (*SubcategoryResponse, error) {
	sub, err := s.subcategoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSubcategoryResponse(sub)
	return &resp, nil
}

// List retrieves subcategories, optionally of one category
func (s *SubcategoryService) List(ctx context.Context, filter SubcategoryListFilter) ([]SubcategoryResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		OrderBy:  "name",
		OrderDir: "asc",
	}.Normalize()
	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
	}

	subs, err := s.subcategoryRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.subcategoryRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SubcategoryResponse, len(subs))
	for i := range subs {
		responses[i] = ToSubcategoryResponse(&subs[i])
	}
	return responses, total, nil
}

// ListByCategory returns every subcategory of a category
func (s *SubcategoryService) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]SubcategoryResponse, error) {
	if err := s.ensureCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	subs, err := s.subcategoryRepo.FindByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	responses := make([]SubcategoryResponse, len(subs))
	for i := range subs {
		responses[i] = ToSubcategoryResponse(&subs[i])
	}
	return responses, nil
}

// Update updates a subcategory, optionally moving it to another category
func (s *SubcategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateSubcategoryRequest) (*SubcategoryResponse, error) {
	sub, err := s.subcategoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.CategoryID != uuid.Nil && req.CategoryID != sub.CategoryID {
		if err := s.ensureCategory(ctx, req.CategoryID); err != nil {
			return nil, err
		}
	}
	if err := sub.Update(req.CategoryID, req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.subcategoryRepo.Save(ctx, sub); err != nil {
		return nil, duplicateName(err, "Subcategory")
	}
	resp := ToSubcategoryResponse(sub)
	return &resp, nil
}

// Delete removes a subcategory that owns no products, and its image
func (s *SubcategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	sub, err := s.subcategoryRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	count, err := s.productRepo.CountBySubcategories(ctx, []uuid.UUID{id})
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	if err := s.subcategoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.images.Discard(ctx, sub.ImageURL)
	return nil
}

// UploadImage stores a new subcategory image and removes the previous one
func (s *SubcategoryService) UploadImage(ctx context.Context, id uuid.UUID, image io.Reader) (*SubcategoryResponse, error) {
	sub, err := s.subcategoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := s.images.Upload(ctx, ImageFolderSubcategories, sub.Name, image)
	if err != nil {
		return nil, err
	}
	previous := sub.SetImage(url)
	if err := s.subcategoryRepo.Save(ctx, sub); err != nil {
		s.images.Discard(ctx, url)
		return nil, err
	}
	s.images.Discard(ctx, previous)

	resp := ToSubcategoryResponse(sub)
	return &resp, nil
}

func (s *SubcategoryService) ensureCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "Category not found")
		}
		return err
	}
	return nil
}

func duplicateName(err error, entity string) error {
	if errors.Is(err, shared.ErrAlreadyExists) {
		return shared.NewDomainErrorf("ALREADY_EXISTS", "%s with this name already exists", entity)
	}
	return err
}
