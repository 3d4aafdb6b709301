package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/identity/internal/audit"
	"github.com/mrlokans/identity/internal/auth"
)

type AuditController struct {
	auditService *audit.Service
}

func NewAuditController(auditService *audit.Service) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// GetAuditEvents returns the authenticated account's activity, newest first.
// GET /api/me/audit
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	accountID := auth.GetAccountID(c)
	page, limit := parsePagination(c, 25, 100)
	offset := (page - 1) * limit

	events, total, err := ac.auditService.GetEvents(c.Request.Context(), accountID, limit, offset)
	if err != nil {
		respondInternalError(c, err, "load audit events")
		return
	}

	totalPages := (int(total) + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:       events,
		Total:      total,
		Limit:      limit,
		Offset:     offset,
		HasMore:    int64(offset+len(events)) < total,
		TotalPages: totalPages,
	})
}
