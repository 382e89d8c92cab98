package entities

import "time"

type AuditEventType string

const (
	AuditEventCheckout AuditEventType = "checkout"
	AuditEventReturn   AuditEventType = "return"
	AuditEventCatalog  AuditEventType = "catalog"
	AuditEventAccount  AuditEventType = "account"
	AuditEventAuth     AuditEventType = "auth"
	AuditEventSettings AuditEventType = "settings"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

type AuditEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ActorEmail  string         `gorm:"index;size:254" json:"actor_email"`
	EventType   AuditEventType `gorm:"index;size:50" json:"event_type"`
	Action      string         `gorm:"size:100" json:"action"`      // e.g., "book_checkout", "account_remove"
	Description string         `gorm:"size:500" json:"description"` // Human-readable summary
	EntityType  string         `gorm:"size:50" json:"entity_type"`  // "book", "account", "checkout"
	EntityKey   string         `gorm:"index;size:254" json:"entity_key,omitempty"`
	Metadata    string         `gorm:"type:text" json:"metadata,omitempty"` // JSON for extra data
	IPAddress   string         `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent   string         `gorm:"size:500" json:"user_agent,omitempty"`
	Status      AuditStatus    `gorm:"size:20" json:"status"`
	ErrorMsg    string         `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
