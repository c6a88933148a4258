package handler

import (
	"net/http"
	"strconv"

	"github.com/say-lem/Ventree-Backend-sub001/internal/dto"
	"github.com/say-lem/Ventree-Backend-sub001/internal/model"
	"github.com/say-lem/Ventree-Backend-sub001/internal/repository"

	"github.com/gin-gonic/gin"
)

// MovementsHandler serves the per-item stock movement trail.
type MovementsHandler struct {
	movements repository.StockMovementRepository
	items     repository.ItemRepository
}

func NewMovementsHandler(movements repository.StockMovementRepository, items repository.ItemRepository) *MovementsHandler {
	return &MovementsHandler{movements: movements, items: items}
}

// ListByItem godoc
// @Summary      Stock movements for an item
// @Description  Every quantity change on the item, newest first: sales, refunds, restocks, damage, compensations.
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string true  "Item UUID"
// @Param        kind  query string false "sale | refund | restock | damage | compensation | delete_restore"
// @Param        page  query int    false "Page (default 1)"
// @Param        limit query int    false "Rows per page (default 50, max 200)"
// @Success      200 {object} dto.MovementListResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/items/{id}/movements [get]
func (h *MovementsHandler) ListByItem(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	shopID, _, ok := shopContext(c)
	if !ok {
		return
	}

	// Ownership check before touching the trail.
	item, err := h.items.FindForShop(c.Request.Context(), shopID, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit > 200 {
		limit = 200
	}

	rows, total, err := h.movements.List(c.Request.Context(), repository.StockMovementFilter{
		ItemID: &item.ID,
		Kind:   c.Query("kind"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	data := make([]dto.MovementResponse, 0, len(rows))
	for i := range rows {
		data = append(data, movementToDTO(&rows[i]))
	}
	c.JSON(http.StatusOK, dto.MovementListResponse{
		Data:  data,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

func movementToDTO(m *model.StockMovement) dto.MovementResponse {
	resp := dto.MovementResponse{
		ID:        m.ID.String(),
		ItemID:    m.ItemID.String(),
		Kind:      m.Kind,
		Quantity:  m.Quantity,
		BeforeQty: m.BeforeQty,
		AfterQty:  m.AfterQty,
		Reason:    m.Reason,
		CreatedAt: m.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if m.RefID != nil {
		s := m.RefID.String()
		resp.RefID = &s
	}
	if m.ActorID != nil {
		s := m.ActorID.String()
		resp.ActorID = &s
	}
	return resp
}
