package handler

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/retail/backoffice/internal/application/catalog"
)

// ProductHandler handles product endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
	maxUploadSize  int64
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService, maxUploadSize int64) *ProductHandler {
	return &ProductHandler{productService: productService, maxUploadSize: maxUploadSize}
}

// RemoveImageRequest names the image to detach from a product
type RemoveImageRequest struct {
	URL string `json:"url" binding:"required,max=2000"`
}

type productLister func(ctx context.Context, filter catalogapp.ProductListFilter) ([]catalogapp.ProductResponse, int64, error)

// bindFilter reads the product list query. Hidden products are only listed for staff.
func (h *ProductHandler) bindFilter(c *gin.Context) (catalogapp.ProductListFilter, bool) {
	var filter catalogapp.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return filter, false
	}
	if !h.queryUUIDs(c, map[string]**uuid.UUID{
		"subcategoryId": &filter.SubcategoryID,
		"categoryId":    &filter.CategoryID,
		"supplierId":    &filter.SupplierID,
	}) {
		return filter, false
	}
	if filter.IncludeHidden && !isStaff(c) {
		filter.IncludeHidden = false
	}
	return filter, true
}

func (h *ProductHandler) list(c *gin.Context, fn productLister) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}
	items, total, err := fn(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// List lists products; ?wholesaleToken= prices them for a wholesale link
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        search query string false "Free-text search"
// @Param        categoryId query string false "Category ID"
// @Param        subcategoryId query string false "Subcategory ID"
// @Param        supplierId query string false "Supplier ID"
// @Param        onOffer query bool false "Only products on offer"
// @Param        isNew query bool false "Only new products"
// @Param        lowStock query bool false "Only products under the low-stock threshold"
// @Param        outOfStock query bool false "Only products without stock"
// @Param        includeHidden query bool false "Include hidden products (staff only)"
// @Param        wholesaleToken query string false "Price the list for a wholesale link"
// @Param        orderBy query string false "Sort column"
// @Param        orderDir query string false "asc or desc"
// @Param        page query int false "Page number"
// @Param        pageSize query int false "Page size (max 100)"
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	h.list(c, h.productService.List)
}

// ListOnOffer godoc
//
// @Summary      List products on offer
// @Tags         products
// @Produce      json
// @Param        search query string false "Free-text search"
// @Param        categoryId query string false "Category ID"
// @Param        subcategoryId query string false "Subcategory ID"
// @Param        supplierId query string false "Supplier ID"
// @Param        onOffer query bool false "Only products on offer"
// @Param        isNew query bool false "Only new products"
// @Param        lowStock query bool false "Only products under the low-stock threshold"
// @Param        outOfStock query bool false "Only products without stock"
// @Param        includeHidden query bool false "Include hidden products (staff only)"
// @Param        wholesaleToken query string false "Price the list for a wholesale link"
// @Param        orderBy query string false "Sort column"
// @Param        orderDir query string false "asc or desc"
// @Param        page query int false "Page number"
// @Param        pageSize query int false "Page size (max 100)"
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/on-offer [get]
func (h *ProductHandler) ListOnOffer(c *gin.Context) {
	h.list(c, h.productService.ListOnOffer)
}

// ListNew godoc
//
// @Summary      List new products
// @Tags         products
// @Produce      json
// @Param        search query string false "Free-text search"
// @Param        categoryId query string false "Category ID"
// @Param        subcategoryId query string false "Subcategory ID"
// @Param        supplierId query string false "Supplier ID"
// @Param        onOffer query bool false "Only products on offer"
// @Param        isNew query bool false "Only new products"
// @Param        lowStock query bool false "Only products under the low-stock threshold"
// @Param        outOfStock query bool false "Only products without stock"
// @Param        includeHidden query bool false "Include hidden products (staff only)"
// @Param        wholesaleToken query string false "Price the list for a wholesale link"
// @Param        orderBy query string false "Sort column"
// @Param        orderDir query string false "asc or desc"
// @Param        page query int false "Page number"
// @Param        pageSize query int false "Page size (max 100)"
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/new [get]
func (h *ProductHandler) ListNew(c *gin.Context) {
	h.list(c, h.productService.ListNew)
}

// ListLowStock godoc
//
// @Summary      List products with low stock
// @Tags         products
// @Produce      json
// @Param        search query string false "Free-text search"
// @Param        categoryId query string false "Category ID"
// @Param        subcategoryId query string false "Subcategory ID"
// @Param        supplierId query string false "Supplier ID"
// @Param        onOffer query bool false "Only products on offer"
// @Param        isNew query bool false "Only new products"
// @Param        lowStock query bool false "Only products under the low-stock threshold"
// @Param        outOfStock query bool false "Only products without stock"
// @Param        includeHidden query bool false "Include hidden products (staff only)"
// @Param        wholesaleToken query string false "Price the list for a wholesale link"
// @Param        orderBy query string false "Sort column"
// @Param        orderDir query string false "asc or desc"
// @Param        page query int false "Page number"
// @Param        pageSize query int false "Page size (max 100)"
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/low-stock [get]
func (h *ProductHandler) ListLowStock(c *gin.Context) {
	h.list(c, h.productService.ListLowStock)
}

// ListOutOfStock godoc
//
// @Summary      List products out of stock
// @Tags         products
// @Produce      json
// @Param        search query string false "Free-text search"
// @Param        categoryId query string false "Category ID"
// @Param        subcategoryId query string false "Subcategory ID"
// @Param        supplierId query string false "Supplier ID"
// @Param        onOffer query bool false "Only products on offer"
// @Param        isNew query bool false "Only new products"
// @Param        lowStock query bool false "Only products under the low-stock threshold"
// @Param        outOfStock query bool false "Only products without stock"
// @Param        includeHidden query bool false "Include hidden products (staff only)"
// @Param        wholesaleToken query string false "Price the list for a wholesale link"
// @Param        orderBy query string false "Sort column"
// @Param        orderDir query string false "asc or desc"
// @Param        page query int false "Page number"
// @Param        pageSize query int false "Page size (max 100)"
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/out-of-stock [get]
func (h *ProductHandler) ListOutOfStock(c *gin.Context) {
	h.list(c, h.productService.ListOutOfStock)
}

// ListByCategory godoc
//
// @Summary      List products of a subcategory
// @Tags         products
// @Produce      json
// @Param        categoryId path string true "Category ID" format(uuid)
// @Param        subcategoryId path string true "Subcategory ID" format(uuid)
// @Param        search query string false "Free-text search"
// @Param        categoryId query string false "Category ID"
// @Param        subcategoryId query string false "Subcategory ID"
// @Param        supplierId query string false "Supplier ID"
// @Param        onOffer query bool false "Only products on offer"
// @Param        isNew query bool false "Only new products"
// @Param        lowStock query bool false "Only products under the low-stock threshold"
// @Param        outOfStock query bool false "Only products without stock"
// @Param        includeHidden query bool false "Include hidden products (staff only)"
// @Param        wholesaleToken query string false "Price the list for a wholesale link"
// @Param        orderBy query string false "Sort column"
// @Param        orderDir query string false "asc or desc"
// @Param        page query int false "Page number"
// @Param        pageSize query int false "Page size (max 100)"
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/by-category/{categoryId}/{subcategoryId} [get]
func (h *ProductHandler) ListByCategory(c *gin.Context) {
	categoryID, ok := h.uuidParam(c, "categoryId")
	if !ok {
		return
	}
	subcategoryID, ok := h.uuidParam(c, "subcategoryId")
	if !ok {
		return
	}
	h.list(c, func(ctx context.Context, filter catalogapp.ProductListFilter) ([]catalogapp.ProductResponse, int64, error) {
		return h.productService.ListByCategory(ctx, categoryID, subcategoryID, filter)
	})
}

// Get returns one product
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Param        wholesaleToken query string false "Price the product for a wholesale link"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	product, err := h.productService.GetByID(c.Request.Context(), id, c.Query("wholesaleToken"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Create creates a product with its discounts, boxes and optional store stock
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Request body"
// @Success      201 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Update updates a product
//
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Param        request body catalogapp.UpdateProductRequest true "Request body"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// SetHidden toggles storefront visibility
//
// @Summary      Hide or show a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Param        request body catalogapp.SetHiddenRequest true "Request body"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id}/visibility [patch]
func (h *ProductHandler) SetHidden(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req catalogapp.SetHiddenRequest
	if !h.bindJSON(c, &req) {
		return
	}
	product, err := h.productService.SetHidden(c.Request.Context(), id, req.Hidden)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete deletes a product, or only its stock row in one store when ?storeId= is given
//
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Param        storeId query string false "Only remove the stock row of this store"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var storeID *uuid.UUID
	if !h.queryUUIDs(c, map[string]**uuid.UUID{"storeId": &storeID}) {
		return
	}
	if err := h.productService.Delete(c.Request.Context(), id, storeID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UploadImage appends an image to the product gallery
//
// @Summary      Add a product image
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Param        image formData file true "JPEG, PNG, GIF or WebP image"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      413 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id}/images [post]
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	h.withImage(c, h.maxUploadSize, func(r io.Reader) (any, error) {
		return h.productService.UploadImage(c.Request.Context(), id, r)
	})
}

// RemoveImage detaches and deletes one gallery image
//
// @Summary      Remove a product image
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Param        request body RemoveImageRequest true "Request body"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id}/images [delete]
func (h *ProductHandler) RemoveImage(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req RemoveImageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	product, err := h.productService.RemoveImage(c.Request.Context(), id, req.URL)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}
