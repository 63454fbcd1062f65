package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tradeapp "github.com/retail/backoffice/internal/application/trade"
	"github.com/retail/backoffice/internal/domain/trade"
	"github.com/retail/backoffice/internal/interfaces/http/dto"
)

// SignatureHeader carries the gateway's HMAC over the webhook body
const SignatureHeader = "X-Signature"

// maxWebhookBody bounds the notification payload read into memory
const maxWebhookBody = 64 << 10

// SalesHandler handles orders, payments and the gateway webhook
type SalesHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
}

// NewSalesHandler creates a new SalesHandler
func NewSalesHandler(orderService *tradeapp.OrderService) *SalesHandler {
	return &SalesHandler{orderService: orderService}
}

// CreateOrder places an order. Online orders are public; in-store sales need a staff token.
//
// @Summary      Create an order
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateOrderRequest true "Request body"
// @Success      201 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sales/order [post]
func (h *SalesHandler) CreateOrder(c *gin.Context) {
	var req tradeapp.CreateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if trade.SaleChannel(req.SaleChannel) == trade.SaleChannelInPersonStore {
		if _, ok := getUserID(c); !ok {
			h.Unauthorized(c, "In-store sales require an authenticated staff user")
			return
		}
		if !isStaff(c) {
			h.Error(c, http.StatusForbidden, dto.ErrCodeForbidden, "In-store sales require a staff role")
			return
		}
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// ProcessPayment settles an order
//
// @Summary      Pay an order
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.ProcessPaymentRequest true "Request body"
// @Success      200 {object} dto.Response{data=tradeapp.PaymentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/payment [post]
func (h *SalesHandler) ProcessPayment(c *gin.Context) {
	var req tradeapp.ProcessPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if userID, ok := getUserID(c); ok {
		req.ProcessedBy = &userID
	}

	result, err := h.orderService.ProcessPayment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// CreateGatewayPreference opens a hosted checkout for a pending online order
//
// @Summary      Open a hosted checkout
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Param        request body tradeapp.CreatePreferenceRequest false "Request body"
// @Success      200 {object} dto.Response{data=tradeapp.PreferenceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sales/order/{id}/create-gateway-preference [post]
func (h *SalesHandler) CreateGatewayPreference(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req tradeapp.CreatePreferenceRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	pref, err := h.orderService.CreateGatewayPreference(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pref)
}

// GatewayWebhook receives payment notifications. The raw body is verified before parsing.
//
// @Summary      Payment gateway notification
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        X-Signature header string true "HMAC-SHA256 of the raw body"
// @Param        request body object true "Gateway notification"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sales/gateway-webhook [post]
func (h *SalesHandler) GatewayWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.BadRequest(c, "Unreadable webhook body")
		return
	}
	signature := c.GetHeader(SignatureHeader)
	if signature == "" {
		h.Error(c, http.StatusUnauthorized, "INVALID_SIGNATURE", "Missing webhook signature")
		return
	}

	if err := h.orderService.HandleGatewayWebhook(c.Request.Context(), body, signature); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"received": true})
}

// ListOrders lists orders with filters
//
// @Summary      List orders
// @Tags         sales
// @Produce      json
// @Param        status query string false "Order status"
// @Param        saleChannel query string false "ONLINE_WEB or IN_PERSON_STORE"
// @Param        storeId query string false "Store ID"
// @Param        sellerId query string false "Seller ID"
// @Param        clientId query string false "Client ID"
// @Param        orderBy query string false "Sort column"
// @Param        orderDir query string false "asc or desc"
// @Param        page query int false "Page number"
// @Param        pageSize query int false "Page size (max 100)"
// @Success      200 {object} dto.Response{data=[]tradeapp.OrderResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/orders [get]
func (h *SalesHandler) ListOrders(c *gin.Context) {
	filter, ok := h.bindOrderFilter(c)
	if !ok {
		return
	}
	items, total, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// ListSellerOrders lists the orders attributed to a seller
//
// @Summary      List the orders of a seller
// @Tags         sellers
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Param        status query string false "Order status"
// @Param        saleChannel query string false "ONLINE_WEB or IN_PERSON_STORE"
// @Param        storeId query string false "Store ID"
// @Param        sellerId query string false "Seller ID"
// @Param        clientId query string false "Client ID"
// @Param        orderBy query string false "Sort column"
// @Param        orderDir query string false "asc or desc"
// @Param        page query int false "Page number"
// @Param        pageSize query int false "Page size (max 100)"
// @Success      200 {object} dto.Response{data=[]tradeapp.OrderResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sellers/{id}/orders [get]
func (h *SalesHandler) ListSellerOrders(c *gin.Context) {
	sellerID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	filter, ok := h.bindOrderFilter(c)
	if !ok {
		return
	}
	items, total, err := h.orderService.ListSellerOrders(c.Request.Context(), sellerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetOrder returns one order with items and payments
//
// @Summary      Get an order
// @Tags         sales
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/order/{id} [get]
func (h *SalesHandler) GetOrder(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// UpdateStatus applies an administrative transition
//
// @Summary      Change the status of an order
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Param        request body tradeapp.UpdateOrderStatusRequest true "Request body"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/order/{id}/status [patch]
func (h *SalesHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req tradeapp.UpdateOrderStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

func (h *SalesHandler) bindOrderFilter(c *gin.Context) (tradeapp.OrderListFilter, bool) {
	var filter tradeapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return filter, false
	}
	ok := h.queryUUIDs(c, map[string]**uuid.UUID{
		"storeId":  &filter.StoreID,
		"sellerId": &filter.SellerID,
		"clientId": &filter.ClientID,
	})
	return filter, ok
}
