package audit

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/library"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo    *audit.Repository
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// Wait blocks until all events queued by LogAsync are written.
func (s *Service) Wait() {
	s.pending.Wait()
}

// LogCheckout records a checkout. Repeated checkouts of a held book are
// recorded too, flagged in the metadata.
func (s *Service) LogCheckout(actor string, result *library.CheckoutResult) {
	co := result.Checkout
	description := "Checked out " + bookLabel(co)
	if result.AlreadyCheckedOut {
		description = "Already holding " + bookLabel(co)
	}

	event := &entities.AuditEvent{
		ActorEmail:  actor,
		EventType:   entities.AuditEventCheckout,
		Action:      "book_checkout",
		Description: description,
		EntityType:  "checkout",
		EntityKey:   co.ISBN,
		Metadata: encodeMetadata(map[string]any{
			"checkout_id":         co.ID,
			"due":                 co.DueTime,
			"already_checked_out": result.AlreadyCheckedOut,
		}),
		Status: entities.AuditStatusSuccess,
	}

	s.LogAsync(event)
}

// LogReturn records a settled return. The metadata is the return receipt,
// so fees charged stay visible after the checkout row is gone.
func (s *Service) LogReturn(actor string, receipt *library.ReturnReceipt) {
	co := receipt.Checkout
	event := &entities.AuditEvent{
		ActorEmail:  actor,
		EventType:   entities.AuditEventReturn,
		Action:      "book_return",
		Description: "Returned " + bookLabel(co) + ", late fee " + receipt.Fee.String(),
		EntityType:  "checkout",
		EntityKey:   co.ISBN,
		Metadata: encodeMetadata(map[string]any{
			"checkout_id":    co.ID,
			"checked_out":    co.CheckoutTime,
			"due":            co.DueTime,
			"returned_at":    receipt.ReturnedAt,
			"days_late":      receipt.DaysLate,
			"late_fee":       receipt.Fee.String(),
			"late_fee_cents": int64(receipt.Fee),
		}),
		Status: entities.AuditStatusSuccess,
	}

	s.LogAsync(event)
}

// LogCatalog records an administrative catalog change ("book_add", "book_remove", "catalog_seed").
func (s *Service) LogCatalog(actor, action, isbn, description string, err error) {
	event := &entities.AuditEvent{
		ActorEmail:  actor,
		EventType:   entities.AuditEventCatalog,
		Action:      action,
		Description: description,
		EntityType:  "book",
		EntityKey:   isbn,
		Status:      entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogAccount records an administrative account change.
func (s *Service) LogAccount(actor, action, email, description string) {
	event := &entities.AuditEvent{
		ActorEmail:  actor,
		EventType:   entities.AuditEventAccount,
		Action:      action,
		Description: description,
		EntityType:  "account",
		EntityKey:   email,
		Status:      entities.AuditStatusSuccess,
	}

	s.LogAsync(event)
}

// LogAuth records an authentication event.
func (s *Service) LogAuth(email, action, ipAddr, userAgent string, success bool) {
	event := &entities.AuditEvent{
		ActorEmail: email,
		EventType:  entities.AuditEventAuth,
		Action:     action,
		EntityType: "account",
		EntityKey:  email,
		IPAddress:  ipAddr,
		UserAgent:  truncate(userAgent, 500),
		Status:     entities.AuditStatusSuccess,
	}

	if !success {
		event.Status = entities.AuditStatusFailed
	}

	s.LogAsync(event)
}

// LogSettings records a settings change event.
func (s *Service) LogSettings(actor, action, description string) {
	event := &entities.AuditEvent{
		ActorEmail:  actor,
		EventType:   entities.AuditEventSettings,
		Action:      action,
		Description: description,
		Status:      entities.AuditStatusSuccess,
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events, newest first.
func (s *Service) GetEvents(filter audit.Filter, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(filter, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

func bookLabel(co entities.Checkout) string {
	if co.Book.Title != "" {
		return co.Book.Title + " (" + co.ISBN + ")"
	}
	return co.ISBN
}

func encodeMetadata(metadata map[string]any) string {
	data, err := json.Marshal(metadata)
	if err != nil {
		return ""
	}
	return string(data)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
