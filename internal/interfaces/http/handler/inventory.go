package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/retail/backoffice/internal/application/inventory"
)

// StockHandler handles per-store stock and transfers
type StockHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *inventoryapp.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// GetStoreProducts lists the stock rows of a store
//
// @Summary      List the stock of a store
// @Tags         store-stock
// @Produce      json
// @Param        storeId path string true "Store ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]inventoryapp.StoreStockResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /store-stock/{storeId} [get]
func (h *StockHandler) GetStoreProducts(c *gin.Context) {
	storeID, ok := h.uuidParam(c, "storeId")
	if !ok {
		return
	}
	rows, err := h.stockService.GetStoreProducts(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// GetProductStock returns one stock row
//
// @Summary      Get the stock of a product in a store
// @Tags         store-stock
// @Produce      json
// @Param        storeId path string true "Store ID" format(uuid)
// @Param        productId path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=inventoryapp.StoreStockResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /store-stock/{storeId}/{productId} [get]
func (h *StockHandler) GetProductStock(c *gin.Context) {
	storeID, ok := h.uuidParam(c, "storeId")
	if !ok {
		return
	}
	productID, ok := h.uuidParam(c, "productId")
	if !ok {
		return
	}
	row, err := h.stockService.GetProductStock(c.Request.Context(), storeID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, row)
}

// UpdateProductStock sets the absolute quantity of a stock row
//
// @Summary      Set the quantity of a stock row
// @Tags         store-stock
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.UpdateStockRequest true "Request body"
// @Success      200 {object} dto.Response{data=inventoryapp.StoreStockResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /store-stock/update [patch]
func (h *StockHandler) UpdateProductStock(c *gin.Context) {
	var req inventoryapp.UpdateStockRequest
	if !h.bindJSON(c, &req) {
		return
	}
	row, err := h.stockService.UpdateProductStock(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, row)
}

// Transfer moves stock between stores, all items or none
//
// @Summary      Transfer stock between stores
// @Tags         store-stock
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.TransferStockRequest true "Request body"
// @Success      200 {object} dto.Response{data=[]inventoryapp.StoreStockResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /store-stock/transfer [post]
func (h *StockHandler) Transfer(c *gin.Context) {
	var req inventoryapp.TransferStockRequest
	if !h.bindJSON(c, &req) {
		return
	}
	rows, err := h.stockService.Transfer(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// ListTransfers returns the transfer ledger, newest first
//
// @Summary      List stock transfers
// @Tags         store-stock
// @Produce      json
// @Param        storeId query string false "Store ID (source or destination)"
// @Param        productId query string false "Product ID"
// @Param        page query int false "Page number"
// @Param        pageSize query int false "Page size (max 100)"
// @Success      200 {object} dto.Response{data=[]inventoryapp.TransferHistoryResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /store-stock/transfers/history [get]
func (h *StockHandler) ListTransfers(c *gin.Context) {
	var filter inventoryapp.TransferHistoryFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if !h.queryUUIDs(c, map[string]**uuid.UUID{
		"storeId":   &filter.StoreID,
		"productId": &filter.ProductID,
	}) {
		return
	}
	items, total, err := h.stockService.ListTransfers(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}
