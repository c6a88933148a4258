package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Method string          `json:"method" validate:"required,oneof=cash card transfer"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// CustomerCreditResponse aggregates a customer's credit standing with one
// shop, keyed by phone number.
type CustomerCreditResponse struct {
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	OpenSales     int             `json:"open_sales"`
	TotalOwed     decimal.Decimal `json:"total_owed"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	Sales         []SaleResponse  `json:"sales"`
}

type OverdueSaleResponse struct {
	Sale        SaleResponse `json:"sale"`
	DaysOverdue int          `json:"days_overdue"`
}

type OverdueListResponse struct {
	Data  []OverdueSaleResponse `json:"data"`
	Total int                   `json:"total"`
}
