package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateItemRequest struct {
	Name         string          `json:"name"          validate:"required,min=2,max=120"`
	Category     string          `json:"category"      validate:"required"`
	Unit         string          `json:"unit"`
	CostPrice    decimal.Decimal `json:"cost_price"    validate:"required,min=0"`
	SellingPrice decimal.Decimal `json:"selling_price" validate:"required,min=0"`
	InitialQty   int             `json:"initial_qty"   validate:"min=0"`
	ReorderLevel int             `json:"reorder_level" validate:"min=0"`
}

type UpdateItemRequest struct {
	Name         *string `json:"name"          validate:"omitempty,min=2,max=120"`
	Category     *string `json:"category"`
	Unit         *string `json:"unit"`
	ReorderLevel *int    `json:"reorder_level" validate:"omitempty,min=0"`
}

type RestockRequest struct {
	Quantity int    `json:"quantity" validate:"required,min=1"`
	Note     string `json:"note"`
}

type DamageRequest struct {
	Quantity int    `json:"quantity" validate:"required,min=1"`
	Reason   string `json:"reason"   validate:"required,min=3"`
}

type UpdatePriceRequest struct {
	CostPrice    decimal.Decimal `json:"cost_price"    validate:"required,min=0"`
	SellingPrice decimal.Decimal `json:"selling_price" validate:"required,min=0"`
	Reason       string          `json:"reason"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ItemFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Active   string `form:"active,default=true"` // true | false | all
	LowStock bool   `form:"low_stock"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Unit         string          `json:"unit"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	AvailableQty int             `json:"available_qty"`
	SoldQty      int             `json:"sold_qty"`
	DamagedQty   int             `json:"damaged_qty"`
	ReturnedQty  int             `json:"returned_qty"`
	ReorderLevel int             `json:"reorder_level"`
	LowStock     bool            `json:"low_stock"`
	Active       bool            `json:"active"`
	CreatedAt    string          `json:"created_at"`
}

type ItemListResponse struct {
	Data  []ItemResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type StockLevelResponse struct {
	ItemID       string `json:"item_id"`
	AvailableQty int    `json:"available_qty"`
}

type PriceHistoryResponse struct {
	CostBefore decimal.Decimal `json:"cost_before"`
	CostAfter  decimal.Decimal `json:"cost_after"`
	SellBefore decimal.Decimal `json:"sell_before"`
	SellAfter  decimal.Decimal `json:"sell_after"`
	ChangedBy  string          `json:"changed_by"`
	Reason     string          `json:"reason"`
	ChangedAt  string          `json:"changed_at"`
}

// ReconcileDrift reports one item whose counters disagree with the ledger
// identity initial + restocked - sold - damaged = available.
type ReconcileDrift struct {
	ItemID       string `json:"item_id"`
	Name         string `json:"name"`
	Expected     int    `json:"expected"`
	AvailableQty int    `json:"available_qty"`
	Delta        int    `json:"delta"`
}

type ReconcileReport struct {
	CheckedItems int              `json:"checked_items"`
	Drifts       []ReconcileDrift `json:"drifts"`
	CheckedAt    string           `json:"checked_at"`
}
