package dto

// ─── Stock movement trail ────────────────────────────────────────────────────

type MovementResponse struct {
	ID        string  `json:"id"`
	ItemID    string  `json:"item_id"`
	Kind      string  `json:"kind"`
	Quantity  int     `json:"quantity"` // positive = into stock, negative = out
	BeforeQty int     `json:"before_qty"`
	AfterQty  int     `json:"after_qty"`
	Reason    string  `json:"reason,omitempty"`
	RefID     *string `json:"ref_id,omitempty"`
	ActorID   *string `json:"actor_id,omitempty"`
	CreatedAt string  `json:"created_at"`
}

type MovementListResponse struct {
	Data  []MovementResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ─── Audit trail ─────────────────────────────────────────────────────────────

type AuditEntryResponse struct {
	ID        string  `json:"id"`
	Action    string  `json:"action"`
	ActorID   *string `json:"actor_id,omitempty"`
	EntityID  *string `json:"entity_id,omitempty"`
	Detail    string  `json:"detail,omitempty"`
	CreatedAt string  `json:"created_at"`
}

type AuditListResponse struct {
	Data  []AuditEntryResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}
