package handler

import (
	"net/http"
	"strconv"

	"github.com/say-lem/Ventree-Backend-sub001/internal/dto"
	"github.com/say-lem/Ventree-Backend-sub001/internal/model"
	"github.com/say-lem/Ventree-Backend-sub001/internal/repository"

	"github.com/gin-gonic/gin"
)

// AuditHandler serves the business event trail. Read-only: rows are written
// by the audit worker.
type AuditHandler struct {
	repo repository.AuditRepository
}

func NewAuditHandler(repo repository.AuditRepository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// List godoc
// @Summary      List audit events
// @Description  Business events for the shop, newest first, filterable by action and date range.
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        action query string false "Event action, e.g. sale_created"
// @Param        from   query string false "From date YYYY-MM-DD"
// @Param        to     query string false "To date YYYY-MM-DD"
// @Param        page   query int    false "Page (default 1)"
// @Param        limit  query int    false "Rows per page (default 50, max 200)"
// @Success      200 {object} dto.AuditListResponse
// @Router       /v1/audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	shopID, _, ok := shopContext(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit > 200 {
		limit = 200
	}

	rows, total, err := h.repo.List(c.Request.Context(), shopID, repository.AuditFilter{
		Action: c.Query("action"),
		From:   c.Query("from"),
		To:     c.Query("to"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	data := make([]dto.AuditEntryResponse, 0, len(rows))
	for i := range rows {
		data = append(data, auditToDTO(&rows[i]))
	}
	c.JSON(http.StatusOK, dto.AuditListResponse{
		Data:  data,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

func auditToDTO(e *model.AuditLog) dto.AuditEntryResponse {
	resp := dto.AuditEntryResponse{
		ID:        e.ID.String(),
		Action:    e.Action,
		Detail:    e.Detail,
		CreatedAt: e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if e.ActorID != nil {
		s := e.ActorID.String()
		resp.ActorID = &s
	}
	if e.EntityID != nil {
		s := e.EntityID.String()
		resp.EntityID = &s
	}
	return resp
}
