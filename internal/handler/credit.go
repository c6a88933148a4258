package handler

import (
	"net/http"
	"time"

	"github.com/say-lem/Ventree-Backend-sub001/internal/apierror"
	"github.com/say-lem/Ventree-Backend-sub001/internal/dto"
	"github.com/say-lem/Ventree-Backend-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type CreditHandler struct{ svc service.CreditService }

func NewCreditHandler(svc service.CreditService) *CreditHandler { return &CreditHandler{svc: svc} }

// RecordPayment godoc
// @Summary      Record a payment against a credit sale
// @Description  Appends an installment to the credit ledger and advances the status. Overpayment and payments against settled or refunded sales are rejected.
// @Tags         credit
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "Sale UUID"
// @Param        body body dto.RecordPaymentRequest true "Payment detail"
// @Success      200 {object} dto.SaleResponse
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError "not a credit sale, settled, or refunded"
// @Failure      422 {object} apierror.APIError "overpayment"
// @Router       /v1/sales/{id}/payments [post]
func (h *CreditHandler) RecordPayment(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.RecordPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	shopID, staffID, ok := shopContext(c)
	if !ok {
		return
	}
	resp, err := h.svc.RecordPayment(c.Request.Context(), shopID, staffID, id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CustomerCredit godoc
// @Summary      Customer credit standing
// @Description  Aggregates a customer's open credit sales, total owed, and payment history, keyed by phone number.
// @Tags         credit
// @Produce      json
// @Security     BearerAuth
// @Param        phone path string true "Customer phone"
// @Success      200 {object} dto.CustomerCreditResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/credit/customers/{phone} [get]
func (h *CreditHandler) CustomerCredit(c *gin.Context) {
	phone := c.Param("phone")
	if phone == "" {
		c.JSON(http.StatusBadRequest, apierror.New("phone is required"))
		return
	}
	shopID, _, ok := shopContext(c)
	if !ok {
		return
	}
	resp, err := h.svc.CustomerCredit(c.Request.Context(), shopID, phone)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// OverdueSales godoc
// @Summary      List overdue credit sales
// @Description  Credit sales with an outstanding balance past their due date, with days overdue.
// @Tags         credit
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.OverdueListResponse
// @Router       /v1/credit/overdue [get]
func (h *CreditHandler) OverdueSales(c *gin.Context) {
	shopID, _, ok := shopContext(c)
	if !ok {
		return
	}
	resp, err := h.svc.OverdueSales(c.Request.Context(), shopID, time.Now())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
