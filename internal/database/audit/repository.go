package audit

import (
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent saves an audit event to the database.
func (r *Repository) LogEvent(event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.Create(event).Error
}

// Filter narrows an event listing. Zero values match everything.
type Filter struct {
	ActorEmail string
	EventType  entities.AuditEventType
	EntityKey  string
}

func (f Filter) apply(query *gorm.DB) *gorm.DB {
	if f.ActorEmail != "" {
		query = query.Where("actor_email = ?", f.ActorEmail)
	}
	if f.EventType != "" {
		query = query.Where("event_type = ?", f.EventType)
	}
	if f.EntityKey != "" {
		query = query.Where("entity_key = ?", f.EntityKey)
	}
	return query
}

// GetEvents retrieves paginated audit events, ordered by most recent first.
func (r *Repository) GetEvents(filter Filter, limit, offset int) ([]entities.AuditEvent, int64, error) {
	var events []entities.AuditEvent
	var total int64

	query := filter.apply(r.db.Model(&entities.AuditEvent{}))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&events).Error
	return events, total, err
}

// DeleteOldEvents removes audit events older than the specified time.
// Returns the number of deleted events.
func (r *Repository) DeleteOldEvents(olderThan time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", olderThan).Delete(&entities.AuditEvent{})
	return result.RowsAffected, result.Error
}
