package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Filter / List ──────────────────────────────────────────────────────────

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	From         string `form:"from"` // YYYY-MM-DD
	To           string `form:"to"`
	Method       string `form:"method"        validate:"omitempty,oneof=cash card transfer credit"`
	CreditStatus string `form:"credit_status" validate:"omitempty,oneof=pending partial paid"`
	Refunded     string `form:"refunded,default=all"` // true | false | all
	Search       string `form:"search"`               // customer name, phone or sale number
	Page         int    `form:"page,default=1"   validate:"min=1"`
	Limit        int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleLineRequest struct {
	ItemID      string          `json:"item_id"      validate:"required,uuid"`
	Quantity    int             `json:"quantity"     validate:"required,min=1"`
	DiscountPct decimal.Decimal `json:"discount_pct" validate:"min=0,max=50"`
}

type CreateSaleRequest struct {
	Lines         []SaleLineRequest `json:"lines"          validate:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=cash card transfer credit"`
	// Customer identity is mandatory for credit sales; the engine re-checks.
	CustomerName  string     `json:"customer_name"  validate:"required_if=PaymentMethod credit"`
	CustomerPhone string     `json:"customer_phone" validate:"required_if=PaymentMethod credit"`
	DueDate       *time.Time `json:"due_date"`
	// CustomerEmail: optional — when present, the receipt worker mails the PDF.
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
}

type RefundRequest struct {
	Reason string `json:"reason" validate:"required,min=5"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleLineResponse struct {
	ItemID       string          `json:"item_id"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	DiscountPct  decimal.Decimal `json:"discount_pct"`
	LineTotal    decimal.Decimal `json:"line_total"`
	LineProfit   decimal.Decimal `json:"line_profit"`
}

type PaymentResponse struct {
	ID         string          `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	ReceivedBy string          `json:"received_by"`
	PaidAt     string          `json:"paid_at"`
}

type SaleResponse struct {
	ID            string             `json:"id"`
	SaleNumber    int                `json:"sale_number"`
	StaffID       string             `json:"staff_id"`
	Lines         []SaleLineResponse `json:"lines"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	TotalProfit   decimal.Decimal    `json:"total_profit"`
	PaymentMethod string             `json:"payment_method"`
	IsCredit      bool               `json:"is_credit"`
	CreditStatus  string             `json:"credit_status"`
	AmountPaid    decimal.Decimal    `json:"amount_paid"`
	AmountOwed    decimal.Decimal    `json:"amount_owed"`
	DueDate       *string            `json:"due_date,omitempty"`
	CustomerName  string             `json:"customer_name,omitempty"`
	CustomerPhone string             `json:"customer_phone,omitempty"`
	Payments      []PaymentResponse  `json:"payments,omitempty"`
	Refunded      bool               `json:"refunded"`
	RefundReason  *string            `json:"refund_reason,omitempty"`
	RefundedAt    *string            `json:"refunded_at,omitempty"`
	CreatedAt     string             `json:"created_at"`
}
