package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	wholesaleapp "github.com/retail/backoffice/internal/application/wholesale"
)

// WholesaleHandler handles wholesale links and their public token endpoints
type WholesaleHandler struct {
	BaseHandler
	linkService *wholesaleapp.LinkService
}

// NewWholesaleHandler creates a new WholesaleHandler
func NewWholesaleHandler(linkService *wholesaleapp.LinkService) *WholesaleHandler {
	return &WholesaleHandler{linkService: linkService}
}

// CreateLink issues a new wholesale link
//
// @Summary      Create a wholesale link
// @Tags         wholesale
// @Accept       json
// @Produce      json
// @Param        request body wholesaleapp.CreateLinkRequest true "Request body"
// @Success      201 {object} dto.Response{data=wholesaleapp.LinkResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /wholesale/links [post]
func (h *WholesaleHandler) CreateLink(c *gin.Context) {
	var req wholesaleapp.CreateLinkRequest
	if !h.bindJSON(c, &req) {
		return
	}
	var createdBy *uuid.UUID
	if userID, ok := getUserID(c); ok {
		createdBy = &userID
	}
	link, err := h.linkService.CreateLink(c.Request.Context(), req, createdBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, link)
}

// Validate reports whether a token is usable and returns its public view
//
// @Summary      Validate a wholesale token
// @Tags         wholesale
// @Produce      json
// @Param        token path string true "Wholesale link token"
// @Success      200 {object} dto.Response{data=wholesaleapp.PublicLinkResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /wholesale/links/validate/{token} [get]
func (h *WholesaleHandler) Validate(c *gin.Context) {
	link, err := h.linkService.ValidateToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, link)
}

// ApplyPricing quotes wholesale prices for a set of products
//
// @Summary      Quote wholesale prices
// @Tags         wholesale
// @Accept       json
// @Produce      json
// @Param        request body wholesaleapp.ApplyPricingRequest true "Request body"
// @Success      200 {object} dto.Response{data=[]wholesale.ResolvedPrice}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /wholesale/apply-pricing [post]
func (h *WholesaleHandler) ApplyPricing(c *gin.Context) {
	var req wholesaleapp.ApplyPricingRequest
	if !h.bindJSON(c, &req) {
		return
	}
	prices, err := h.linkService.ApplyPricing(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, prices)
}

// Products lists the catalog visible through a token at wholesale prices
//
// @Summary      List the products of a wholesale link
// @Tags         wholesale
// @Produce      json
// @Param        token path string true "Wholesale link token"
// @Success      200 {object} dto.Response{data=[]wholesaleapp.WholesaleProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /wholesale/products/{token} [get]
func (h *WholesaleHandler) Products(c *gin.Context) {
	items, err := h.linkService.GetWholesaleProducts(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// SaveCustomer stores the buyer details on a link
//
// @Summary      Save buyer details on a link
// @Tags         wholesale
// @Accept       json
// @Produce      json
// @Param        request body wholesaleapp.SaveCustomerRequest true "Request body"
// @Success      200 {object} dto.Response{data=wholesaleapp.CustomerResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /wholesale/save-customer [post]
func (h *WholesaleHandler) SaveCustomer(c *gin.Context) {
	var req wholesaleapp.SaveCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	customer, err := h.linkService.SaveCustomerData(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// GetCustomer returns the buyer details stored on a link
//
// @Summary      Get buyer details of a link
// @Tags         wholesale
// @Produce      json
// @Param        token path string true "Wholesale link token"
// @Success      200 {object} dto.Response{data=wholesaleapp.CustomerResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /wholesale/customer/{token} [get]
func (h *WholesaleHandler) GetCustomer(c *gin.Context) {
	customer, err := h.linkService.GetCustomerData(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// ListLinks lists wholesale links
//
// @Summary      List wholesale links
// @Tags         wholesale
// @Produce      json
// @Param        active query bool false "Only active links"
// @Param        search query string false "Free-text search"
// @Param        page query int false "Page number"
// @Param        pageSize query int false "Page size (max 100)"
// @Success      200 {object} dto.Response{data=[]wholesaleapp.LinkResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /wholesale/links [get]
func (h *WholesaleHandler) ListLinks(c *gin.Context) {
	var filter wholesaleapp.LinkListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.linkService.ListLinks(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetLink returns one link
//
// @Summary      Get a wholesale link
// @Tags         wholesale
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Success      200 {object} dto.Response{data=wholesaleapp.LinkResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /wholesale/links/{id} [get]
func (h *WholesaleHandler) GetLink(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	link, err := h.linkService.GetLink(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, link)
}

// UpdateLink edits a link
//
// @Summary      Update a wholesale link
// @Tags         wholesale
// @Accept       json
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Param        request body wholesaleapp.UpdateLinkRequest true "Request body"
// @Success      200 {object} dto.Response{data=wholesaleapp.LinkResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /wholesale/links/{id} [put]
func (h *WholesaleHandler) UpdateLink(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req wholesaleapp.UpdateLinkRequest
	if !h.bindJSON(c, &req) {
		return
	}
	link, err := h.linkService.UpdateLink(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, link)
}

// DeactivateLink turns a link off without deleting it
//
// @Summary      Deactivate a wholesale link
// @Tags         wholesale
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Success      200 {object} dto.Response{data=wholesaleapp.LinkResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /wholesale/links/{id}/deactivate [post]
func (h *WholesaleHandler) DeactivateLink(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	link, err := h.linkService.DeactivateLink(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, link)
}

// SetLinkProducts replaces the product restriction of a link
//
// @Summary      Restrict a link to products
// @Tags         wholesale
// @Accept       json
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Param        request body wholesaleapp.SetLinkProductsRequest true "Request body"
// @Success      200 {object} dto.Response{data=wholesaleapp.LinkResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /wholesale/links/{id}/products [put]
func (h *WholesaleHandler) SetLinkProducts(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req wholesaleapp.SetLinkProductsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	link, err := h.linkService.SetLinkProducts(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, link)
}

// DeleteLink removes a link
//
// @Summary      Delete a wholesale link
// @Tags         wholesale
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /wholesale/links/{id} [delete]
func (h *WholesaleHandler) DeleteLink(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.linkService.DeleteLink(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
