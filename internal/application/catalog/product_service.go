package catalog

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/inventory"
	"github.com/retail/backoffice/internal/domain/partner"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/retail/backoffice/internal/domain/wholesale"
	"go.uber.org/zap"
)

// ErrProductReferenced is returned when deleting a product that has sales or transfer history
var ErrProductReferenced = shared.NewDomainError("CONFLICT", "Product has sales or transfer history and cannot be deleted; hide it instead")

// LinkResolver resolves a wholesale token to its link, metering one use.
// A nil link means the token is unknown, inactive or expired.
type LinkResolver interface {
	ResolveToken(ctx context.Context, token string) (*wholesale.Link, error)
}

// ProductService handles product-related business operations
type ProductService struct {
	productRepo     catalog.ProductRepository
	subcategoryRepo catalog.SubcategoryRepository
	storeRepo       partner.StoreRepository
	supplierRepo    partner.SupplierRepository
	stockRepo       inventory.StoreStockRepository
	txScope         TransactionScope
	images          *ImageUploader
	links           LinkResolver
	logger          *zap.Logger
}

// NewProductService creates a new ProductService. links may be nil, in which
// case every listing is priced at retail.
func NewProductService(
	productRepo catalog.ProductRepository,
	subcategoryRepo catalog.SubcategoryRepository,
	storeRepo partner.StoreRepository,
	supplierRepo partner.SupplierRepository,
	stockRepo inventory.StoreStockRepository,
	txScope TransactionScope,
	images *ImageUploader,
	links LinkResolver,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:     productRepo,
		subcategoryRepo: subcategoryRepo,
		storeRepo:       storeRepo,
		supplierRepo:    supplierRepo,
		stockRepo:       stockRepo,
		txScope:         txScope,
		images:          images,
		links:           links,
		logger:          logger,
	}
}

// Create creates a product with its discount tiers, box configurations and
// initial stock. With a store the same quantity is placed in that store.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if err := s.checkReferences(ctx, req.ProductAttributes); err != nil {
		return nil, err
	}
	if req.StoreID != nil {
		if _, err := s.storeRepo.FindByID(ctx, *req.StoreID); err != nil {
			return nil, notFoundAs(err, "Store not found")
		}
	}

	product, err := catalog.NewProduct(req.toDetails(), req.Stock)
	if err != nil {
		return nil, err
	}
	discounts, err := toVolumeDiscounts(req.VolumeDiscounts)
	if err != nil {
		return nil, err
	}
	if err := product.SetVolumeDiscounts(discounts); err != nil {
		return nil, err
	}
	boxes, err := toBoxConfigurations(req.BoxConfigurations)
	if err != nil {
		return nil, err
	}
	if err := product.SetBoxConfigurations(boxes); err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.ProductRepo().Create(ctx, product); err != nil {
			return duplicateCode(err)
		}
		if req.StoreID == nil || req.Stock == 0 {
			return nil
		}
		stock, err := inventory.NewStoreStock(*req.StoreID, product.ID, req.Stock)
		if err != nil {
			return err
		}
		return repos.StoreStockRepo().Create(ctx, stock)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("code", product.Code),
		zap.Int("stock", product.Stock))
	resp := ToProductResponse(product)
	return &resp, nil
}

// Update replaces a product's attributes. Discount tiers and boxes are replaced
// only when the request carries them.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, req.ProductAttributes); err != nil {
		return nil, err
	}
	if err := product.Update(req.toDetails()); err != nil {
		return nil, err
	}
	if req.Stock != nil {
		if err := product.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}

	replaceOptions := req.VolumeDiscounts != nil || req.BoxConfigurations != nil
	if req.VolumeDiscounts != nil {
		discounts, err := toVolumeDiscounts(req.VolumeDiscounts)
		if err != nil {
			return nil, err
		}
		if err := product.SetVolumeDiscounts(discounts); err != nil {
			return nil, err
		}
	}
	if req.BoxConfigurations != nil {
		boxes, err := toBoxConfigurations(req.BoxConfigurations)
		if err != nil {
			return nil, err
		}
		if err := product.SetBoxConfigurations(boxes); err != nil {
			return nil, err
		}
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.ProductRepo().Save(ctx, product); err != nil {
			return duplicateCode(err)
		}
		if !replaceOptions {
			return nil
		}
		return duplicateCode(repos.ProductRepo().ReplaceOptions(ctx, product))
	})
	if err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID retrieves a product priced for the optional wholesale token
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID, wholesaleToken string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	link, err := s.resolveLink(ctx, wholesaleToken)
	if err != nil {
		return nil, err
	}
	resp := s.price([]catalog.Product{*product}, link)[0]
	return &resp, nil
}

// List retrieves products priced for the optional wholesale token.
// Hidden products are excluded unless requested.
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	}.Normalize()
	if filter.OrderBy == "" {
		domainFilter.OrderBy = "name"
		domainFilter.OrderDir = "asc"
	}

	if filter.SubcategoryID != nil {
		domainFilter.Filters["subcategory_id"] = *filter.SubcategoryID
	}
	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
	}
	if filter.SupplierID != nil {
		domainFilter.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.OnOffer != nil {
		domainFilter.Filters["on_offer"] = *filter.OnOffer
	}
	if filter.IsNew != nil {
		domainFilter.Filters["is_new"] = *filter.IsNew
	}
	if filter.LowStock {
		domainFilter.Filters["low_stock"] = true
	}
	if filter.OutOfStock {
		domainFilter.Filters["out_of_stock"] = true
	}
	if !filter.IncludeHidden {
		domainFilter.Filters["hidden"] = false
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	link, err := s.resolveLink(ctx, filter.WholesaleToken)
	if err != nil {
		return nil, 0, err
	}
	return s.price(products, link), total, nil
}

// ListOnOffer lists visible products flagged as on offer
func (s *ProductService) ListOnOffer(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	onOffer := true
	filter.OnOffer = &onOffer
	filter.IncludeHidden = false
	return s.List(ctx, filter)
}

// ListNew lists visible products flagged as new
func (s *ProductService) ListNew(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	isNew := true
	filter.IsNew = &isNew
	filter.IncludeHidden = false
	return s.List(ctx, filter)
}

// ListLowStock lists products whose global stock is between 1 and the low stock threshold
func (s *ProductService) ListLowStock(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	filter.LowStock = true
	filter.OutOfStock = false
	return s.List(ctx, filter)
}

// ListOutOfStock lists visible products with no global stock
func (s *ProductService) ListOutOfStock(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	filter.OutOfStock = true
	filter.LowStock = false
	filter.IncludeHidden = false
	return s.List(ctx, filter)
}

// ListByCategory lists visible products of a subcategory that must belong to the category
func (s *ProductService) ListByCategory(ctx context.Context, categoryID, subcategoryID uuid.UUID, filter ProductListFilter) ([]ProductResponse, int64, error) {
	sub, err := s.subcategoryRepo.FindByID(ctx, subcategoryID)
	if err != nil {
		return nil, 0, notFoundAs(err, "Subcategory not found")
	}
	if sub.CategoryID != categoryID {
		return nil, 0, shared.NewDomainError("NOT_FOUND", "Subcategory does not belong to the category")
	}
	filter.SubcategoryID = &subcategoryID
	filter.CategoryID = nil
	filter.IncludeHidden = false
	return s.List(ctx, filter)
}

// SetHidden toggles storefront visibility of a product
func (s *ProductService) SetHidden(ctx context.Context, id uuid.UUID, hidden bool) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	details := detailsOf(product)
	details.Hidden = hidden
	if err := product.Update(details); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete removes a product. With a store only that store's stock row is removed.
// Without one the product, its owned rows and its images are removed; products
// referenced by orders or transfers are refused.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID, storeID *uuid.UUID) error {
	if storeID != nil {
		if _, err := s.stockRepo.FindByStoreAndProduct(ctx, *storeID, id); err != nil {
			return notFoundAs(err, "Product is not stocked in this store")
		}
		if err := s.stockRepo.DeleteByStoreAndProduct(ctx, *storeID, id); err != nil {
			return err
		}
		s.logger.Info("Product removed from store",
			zap.String("product_id", id.String()),
			zap.String("store_id", storeID.String()))
		return nil
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	referenced, err := s.productRepo.IsReferenced(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return ErrProductReferenced
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	for _, url := range product.Images {
		s.images.Discard(ctx, url)
	}
	s.logger.Info("Product deleted", zap.String("product_id", id.String()))
	return nil
}

// UploadImage appends an image to a product
func (s *ProductService) UploadImage(ctx context.Context, id uuid.UUID, image io.Reader) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := s.images.Upload(ctx, ImageFolderProducts, product.Name, image)
	if err != nil {
		return nil, err
	}
	product.AddImage(url)
	if err := s.productRepo.Save(ctx, product); err != nil {
		s.images.Discard(ctx, url)
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// RemoveImage drops an image from a product and deletes the stored file
func (s *ProductService) RemoveImage(ctx context.Context, id uuid.UUID, url string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.RemoveImage(url) {
		return nil, shared.NewDomainError("NOT_FOUND", "Image not found on product")
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.images.Discard(ctx, url)
	resp := ToProductResponse(product)
	return &resp, nil
}

func (s *ProductService) checkReferences(ctx context.Context, attrs ProductAttributes) error {
	if _, err := s.subcategoryRepo.FindByID(ctx, attrs.SubcategoryID); err != nil {
		return notFoundAs(err, "Subcategory not found")
	}
	if attrs.SupplierID != nil {
		if _, err := s.supplierRepo.FindByID(ctx, *attrs.SupplierID); err != nil {
			return notFoundAs(err, "Supplier not found")
		}
	}
	return nil
}

func (s *ProductService) resolveLink(ctx context.Context, token string) (*wholesale.Link, error) {
	if s.links == nil || token == "" {
		return nil, nil
	}
	return s.links.ResolveToken(ctx, token)
}

func (s *ProductService) price(products []catalog.Product, link *wholesale.Link) []ProductResponse {
	pricing := make([]wholesale.PricedProduct, len(products))
	for i, p := range products {
		pricing[i] = wholesale.PricedProduct{
			ProductID:       p.ID,
			Price:           p.Price,
			WholesalePrice:  p.WholesalePrice,
			MinWholesaleQty: p.MinWholesaleQty,
		}
	}
	prices := wholesale.Resolve(pricing, link)

	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = toPricedProductResponse(&products[i], prices[i])
	}
	return out
}

func detailsOf(p *catalog.Product) catalog.ProductDetails {
	return catalog.ProductDetails{
		Name:                p.Name,
		Description:         p.Description,
		Code:                p.Code,
		Barcode:             p.Barcode,
		Brand:               p.Brand,
		ShippingInfo:        p.ShippingInfo,
		Price:               p.Price,
		Cost:                p.Cost,
		Margin:              p.Margin,
		Tax:                 p.Tax,
		WholesalePrice:      p.WholesalePrice,
		MinWholesaleQty:     p.MinWholesaleQty,
		WeightKg:            p.WeightKg,
		UnitsPerBox:         p.UnitsPerBox,
		UnitsPerBulk:        p.UnitsPerBulk,
		OnOffer:             p.OnOffer,
		IsNew:               p.IsNew,
		Hidden:              p.Hidden,
		SubcategoryID:       p.SubcategoryID,
		SupplierID:          p.SupplierID,
		SupplierProductCode: p.SupplierProductCode,
	}
}

func duplicateCode(err error) error {
	if errors.Is(err, shared.ErrAlreadyExists) {
		return shared.NewDomainError("ALREADY_EXISTS", "The product code, barcode or box SKU is already in use")
	}
	return err
}

func notFoundAs(err error, message string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewDomainError("NOT_FOUND", message)
	}
	return err
}
