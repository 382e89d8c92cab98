package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/entities"
)

type AuditController struct {
	events AuditReader
}

func NewAuditController(events AuditReader) *AuditController {
	return &AuditController{events: events}
}

// GetAuditEvents returns paginated audit events as JSON, newest first.
// Optional filters: actor, type, entity.
// GET /api/admin/audit
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	limit, offset := parsePagination(c)
	filter := audit.Filter{
		ActorEmail: c.Query("actor"),
		EventType:  entities.AuditEventType(c.Query("type")),
		EntityKey:  c.Query("entity"),
	}

	events, total, err := ac.events.GetEvents(filter, limit, offset)
	if err != nil {
		respondInternalError(c, err, "get audit events")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    events,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(events)) < total,
	})
}
