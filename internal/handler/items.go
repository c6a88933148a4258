package handler

import (
	"net/http"

	"github.com/say-lem/Ventree-Backend-sub001/internal/apierror"
	"github.com/say-lem/Ventree-Backend-sub001/internal/dto"
	"github.com/say-lem/Ventree-Backend-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type ItemsHandler struct {
	items service.ItemService
	stock service.StockService
}

func NewItemsHandler(items service.ItemService, stock service.StockService) *ItemsHandler {
	return &ItemsHandler{items: items, stock: stock}
}

// CreateItem godoc
// @Summary      Add an item to the catalog
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateItemRequest true "Item detail"
// @Success      201 {object} dto.ItemResponse
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/items [post]
func (h *ItemsHandler) CreateItem(c *gin.Context) {
	var req dto.CreateItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	shopID, staffID, ok := shopContext(c)
	if !ok {
		return
	}
	resp, err := h.items.CreateItem(c.Request.Context(), shopID, staffID, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetItem godoc
// @Summary      Get one item
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Item UUID"
// @Success      200 {object} dto.ItemResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/items/{id} [get]
func (h *ItemsHandler) GetItem(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	shopID, _, ok := shopContext(c)
	if !ok {
		return
	}
	resp, err := h.items.GetItem(c.Request.Context(), shopID, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListItems godoc
// @Summary      List catalog items
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        search    query string false "Name search"
// @Param        category  query string false "Category filter"
// @Param        active    query string false "true | false | all (default true)"
// @Param        low_stock query bool   false "Only items at or below reorder level"
// @Param        page      query int    false "Page (default 1)"
// @Param        limit     query int    false "Rows per page (default 20)"
// @Success      200 {object} dto.ItemListResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/items [get]
func (h *ItemsHandler) ListItems(c *gin.Context) {
	var filter dto.ItemFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	shopID, _, ok := shopContext(c)
	if !ok {
		return
	}
	resp, err := h.items.ListItems(c.Request.Context(), shopID, filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateItem godoc
// @Summary      Update item details
// @Description  Name, category, unit, and reorder level only. Prices change through the price endpoint; quantities through restock, damage, and sales.
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                true "Item UUID"
// @Param        body body dto.UpdateItemRequest true "Fields to update"
// @Success      200 {object} dto.ItemResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/items/{id} [patch]
func (h *ItemsHandler) UpdateItem(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	shopID, _, ok := shopContext(c)
	if !ok {
		return
	}
	resp, err := h.items.UpdateItem(c.Request.Context(), shopID, id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdatePrices godoc
// @Summary      Change item prices
// @Description  Updates cost and selling price and appends an immutable price history entry.
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "Item UUID"
// @Param        body body dto.UpdatePriceRequest true "New prices"
// @Success      200 {object} dto.ItemResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/items/{id}/prices [put]
func (h *ItemsHandler) UpdatePrices(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePriceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	shopID, staffID, ok := shopContext(c)
	if !ok {
		return
	}
	resp, err := h.items.UpdatePrices(c.Request.Context(), shopID, staffID, id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PriceHistory godoc
// @Summary      Price change history for an item
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Item UUID"
// @Success      200 {array} dto.PriceHistoryResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/items/{id}/prices [get]
func (h *ItemsHandler) PriceHistory(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	shopID, _, ok := shopContext(c)
	if !ok {
		return
	}
	resp, err := h.items.PriceHistory(c.Request.Context(), shopID, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeactivateItem godoc
// @Summary      Deactivate an item
// @Description  Soft delete: the item stops selling but survives in past sales and reports.
// @Tags         items
// @Security     BearerAuth
// @Param        id path string true "Item UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/items/{id} [delete]
func (h *ItemsHandler) DeactivateItem(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	shopID, _, ok := shopContext(c)
	if !ok {
		return
	}
	if err := h.items.DeactivateItem(c.Request.Context(), shopID, id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RestockItem godoc
// @Summary      Receive stock
// @Description  Adds quantity to available stock and records a restock movement.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string             true "Item UUID"
// @Param        body body dto.RestockRequest true "Quantity received"
// @Success      200 {object} dto.StockLevelResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/items/{id}/restock [post]
func (h *ItemsHandler) RestockItem(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.RestockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	shopID, staffID, ok := shopContext(c)
	if !ok {
		return
	}
	resp, err := h.stock.Restock(c.Request.Context(), shopID, staffID, id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecordDamage godoc
// @Summary      Write off damaged stock
// @Description  Moves quantity from available to damaged and records the movement. Rejected when it would exceed available stock.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string            true "Item UUID"
// @Param        body body dto.DamageRequest true "Quantity and reason"
// @Success      200 {object} dto.StockLevelResponse
// @Failure      409 {object} apierror.APIError "exceeds available stock"
// @Router       /v1/items/{id}/damage [post]
func (h *ItemsHandler) RecordDamage(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.DamageRequest
	if !bindAndValidate(c, &req) {
		return
	}
	shopID, staffID, ok := shopContext(c)
	if !ok {
		return
	}
	resp, err := h.stock.RecordDamage(c.Request.Context(), shopID, staffID, id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LowStock godoc
// @Summary      Items at or below their reorder level
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.ItemResponse
// @Router       /v1/stock/low [get]
func (h *ItemsHandler) LowStock(c *gin.Context) {
	shopID, _, ok := shopContext(c)
	if !ok {
		return
	}
	resp, err := h.stock.LowStockReport(c.Request.Context(), shopID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ReconcileStock godoc
// @Summary      Reconcile stock counters
// @Description  Checks every item's counters against the movement identity and reports drift. Read-only: nothing is corrected.
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.ReconcileReport
// @Router       /v1/stock/reconcile [post]
func (h *ItemsHandler) ReconcileStock(c *gin.Context) {
	shopID, _, ok := shopContext(c)
	if !ok {
		return
	}
	resp, err := h.stock.Reconcile(c.Request.Context(), shopID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
