package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/retail/backoffice/internal/application/catalog"
)

// CategoryHandler handles category and subcategory endpoints
type CategoryHandler struct {
	BaseHandler
	categoryService    *catalogapp.CategoryService
	subcategoryService *catalogapp.SubcategoryService
	maxUploadSize      int64
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(
	categoryService *catalogapp.CategoryService,
	subcategoryService *catalogapp.SubcategoryService,
	maxUploadSize int64,
) *CategoryHandler {
	return &CategoryHandler{
		categoryService:    categoryService,
		subcategoryService: subcategoryService,
		maxUploadSize:      maxUploadSize,
	}
}

// ListCategories lists categories with their subcategories
//
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Param        search query string false "Free-text search"
// @Param        page query int false "Page number"
// @Param        pageSize query int false "Page size (max 100)"
// @Success      200 {object} dto.Response{data=[]catalogapp.CategoryResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	var filter catalogapp.CategoryListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.categoryService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetCategory returns one category
//
// @Summary      Get a category
// @Tags         categories
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.CategoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	category, err := h.categoryService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// CreateCategory creates a category
//
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateCategoryRequest true "Request body"
// @Success      201 {object} dto.Response{data=catalogapp.CategoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req catalogapp.CreateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	category, err := h.categoryService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// UpdateCategory updates a category
//
// @Summary      Update a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Param        request body catalogapp.UpdateCategoryRequest true "Request body"
// @Success      200 {object} dto.Response{data=catalogapp.CategoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	category, err := h.categoryService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// DeleteCategory deletes a category and its subcategories
//
// @Summary      Delete a category
// @Tags         categories
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Success      204
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.categoryService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UploadCategoryImage replaces the category image
//
// @Summary      Upload the category image
// @Tags         categories
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Param        image formData file true "JPEG, PNG, GIF or WebP image"
// @Success      200 {object} dto.Response{data=catalogapp.CategoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      413 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /categories/{id}/image [post]
func (h *CategoryHandler) UploadCategoryImage(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	h.withImage(c, h.maxUploadSize, func(r io.Reader) (any, error) {
		return h.categoryService.UploadImage(c.Request.Context(), id, r)
	})
}

// ListCategorySubcategories lists the subcategories of one category
//
// @Summary      List the subcategories of a category
// @Tags         categories
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]catalogapp.SubcategoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /categories/{id}/subcategories [get]
func (h *CategoryHandler) ListCategorySubcategories(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	subs, err := h.subcategoryService.ListByCategory(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, subs)
}

// ListSubcategories lists subcategories, optionally of one category
//
// @Summary      List subcategories
// @Tags         subcategories
// @Produce      json
// @Param        categoryId query string false "Category ID"
// @Param        search query string false "Free-text search"
// @Param        page query int false "Page number"
// @Param        pageSize query int false "Page size (max 100)"
// @Success      200 {object} dto.Response{data=[]catalogapp.SubcategoryResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /subcategories [get]
func (h *CategoryHandler) ListSubcategories(c *gin.Context) {
	var filter catalogapp.SubcategoryListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if !h.queryUUIDs(c, map[string]**uuid.UUID{"categoryId": &filter.CategoryID}) {
		return
	}
	items, total, err := h.subcategoryService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetSubcategory returns one subcategory
//
// @Summary      Get a subcategory
// @Tags         subcategories
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.SubcategoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /subcategories/{id} [get]
func (h *CategoryHandler) GetSubcategory(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	sub, err := h.subcategoryService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sub)
}

// CreateSubcategory creates a subcategory
//
// @Summary      Create a subcategory
// @Tags         subcategories
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateSubcategoryRequest true "Request body"
// @Success      201 {object} dto.Response{data=catalogapp.SubcategoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /subcategories [post]
func (h *CategoryHandler) CreateSubcategory(c *gin.Context) {
	var req catalogapp.CreateSubcategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sub, err := h.subcategoryService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sub)
}

// UpdateSubcategory updates a subcategory
//
// @Summary      Update a subcategory
// @Tags         subcategories
// @Accept       json
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Param        request body catalogapp.UpdateSubcategoryRequest true "Request body"
// @Success      200 {object} dto.Response{data=catalogapp.SubcategoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /subcategories/{id} [put]
func (h *CategoryHandler) UpdateSubcategory(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateSubcategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sub, err := h.subcategoryService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sub)
}

// DeleteSubcategory deletes a subcategory without products
//
// @Summary      Delete a subcategory
// @Tags         subcategories
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Success      204
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /subcategories/{id} [delete]
func (h *CategoryHandler) DeleteSubcategory(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.subcategoryService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UploadSubcategoryImage replaces the subcategory image
//
// @Summary      Upload the subcategory image
// @Tags         subcategories
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Param        image formData file true "JPEG, PNG, GIF or WebP image"
// @Success      200 {object} dto.Response{data=catalogapp.SubcategoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      413 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /subcategories/{id}/image [post]
func (h *CategoryHandler) UploadSubcategoryImage(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	h.withImage(c, h.maxUploadSize, func(r io.Reader) (any, error) {
		return h.subcategoryService.UploadImage(c.Request.Context(), id, r)
	})
}
