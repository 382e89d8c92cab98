package tasks

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// DefaultAuditRetentionDays applies when a task carries no retention.
const DefaultAuditRetentionDays = 90

// AuditPurger deletes audit events older than a retention period.
type AuditPurger interface {
	DeleteOldEvents(retention time.Duration) (int64, error)
}

// PurgeAuditTask removes audit events, return receipts included, that are
// older than RetentionDays. Trigger records who enqueued it ("cron", "cli").
type PurgeAuditTask struct {
	RetentionDays int    `json:"retention_days"`
	Trigger       string `json:"trigger,omitempty"`
}

func (t PurgeAuditTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "purge_audit_events",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration: 7 * 24 * time.Hour,
			Data:     &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// Retention converts RetentionDays to a duration, applying the default.
func (t PurgeAuditTask) Retention() time.Duration {
	days := t.RetentionDays
	if days <= 0 {
		days = DefaultAuditRetentionDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// PurgeAuditProcessor returns the queue processor for PurgeAuditTask.
func PurgeAuditProcessor(purger AuditPurger) backlite.QueueProcessor[PurgeAuditTask] {
	return func(ctx context.Context, task PurgeAuditTask) error {
		if purger == nil {
			return errors.New("audit purger not configured")
		}

		deleted, err := purger.DeleteOldEvents(task.Retention())
		if err != nil {
			return err
		}

		log.Printf("[TASK] Purged %d audit events older than %s (trigger: %s)", deleted, task.Retention(), task.Trigger)
		return nil
	}
}

// NewPurgeAuditQueue creates a backlite queue for PurgeAuditTask.
func NewPurgeAuditQueue(purger AuditPurger) backlite.Queue {
	return backlite.NewQueue(PurgeAuditProcessor(purger))
}
