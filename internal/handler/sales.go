package handler

import (
	"net/http"

	"github.com/say-lem/Ventree-Backend-sub001/internal/apierror"
	"github.com/say-lem/Ventree-Backend-sub001/internal/dto"
	"github.com/say-lem/Ventree-Backend-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler { return &SalesHandler{svc: svc} }

// CreateSale godoc
// @Summary      Record a new sale
// @Description  Decrements stock item by item, writes the immutable sale record, and dispatches receipt generation. Credit sales open a ledger with due date.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateSaleRequest true "Sale detail"
// @Success      201  {object} dto.SaleResponse
// @Failure      409  {object} apierror.APIError "insufficient stock"
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/sales [post]
func (h *SalesHandler) CreateSale(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	shopID, staffID, ok := shopContext(c)
	if !ok {
		return
	}

	resp, err := h.svc.CreateSale(c.Request.Context(), shopID, staffID, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetSale godoc
// @Summary      Get one sale
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Sale UUID"
// @Success      200 {object} dto.SaleResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sales/{id} [get]
func (h *SalesHandler) GetSale(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	shopID, _, ok := shopContext(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetSale(c.Request.Context(), shopID, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListSales godoc
// @Summary      List sales
// @Description  Paginated sales list filtered by date range, payment method, credit status, refund state, or free-text customer search.
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        from          query string false "From date YYYY-MM-DD"
// @Param        to            query string false "To date YYYY-MM-DD"
// @Param        method        query string false "cash | card | transfer | credit"
// @Param        credit_status query string false "pending | partial | paid"
// @Param        refunded      query string false "true | false | all"
// @Param        search        query string false "Customer name, phone, or sale number"
// @Param        page          query int    false "Page (default 1)"
// @Param        limit         query int    false "Rows per page (default 50)"
// @Success      200 {object} dto.SaleListResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/sales [get]
func (h *SalesHandler) ListSales(c *gin.Context) {
	var filter dto.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	shopID, _, ok := shopContext(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListSales(c.Request.Context(), shopID, filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RefundSale godoc
// @Summary      Refund a sale
// @Description  Restores the sold quantities and marks the sale refunded. Rejected after the refund window or on a second attempt.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string            true "Sale UUID"
// @Param        body body dto.RefundRequest true "Refund reason"
// @Success      200 {object} dto.SaleResponse
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError "already refunded or window elapsed"
// @Router       /v1/sales/{id}/refund [post]
func (h *SalesHandler) RefundSale(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.RefundRequest
	if !bindAndValidate(c, &req) {
		return
	}
	shopID, staffID, ok := shopContext(c)
	if !ok {
		return
	}
	resp, err := h.svc.Refund(c.Request.Context(), shopID, staffID, id, req.Reason)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteSale godoc
// @Summary      Delete a sale record
// @Description  Owner only. Restores stock unless the sale was already refunded, then removes the record.
// @Tags         sales
// @Security     BearerAuth
// @Param        id path string true "Sale UUID"
// @Success      204
// @Failure      403 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sales/{id} [delete]
func (h *SalesHandler) DeleteSale(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	shopID, staffID, ok := shopContext(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteSale(c.Request.Context(), shopID, staffID, id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
