package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/library/internal/tasks"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule checks a five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// PurgeEnqueuer hands audit purge work to the task queue.
type PurgeEnqueuer interface {
	EnqueueAuditPurge(ctx context.Context, task tasks.PurgeAuditTask) error
}

// AuditRetentionScheduler enqueues an audit purge on a cron schedule.
// The purge itself runs on the task queue so a slow delete never blocks cron.
type AuditRetentionScheduler struct {
	enqueuer      PurgeEnqueuer
	schedule      string
	retentionDays int

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

func NewAuditRetentionScheduler(enqueuer PurgeEnqueuer, schedule string, retentionDays int) *AuditRetentionScheduler {
	return &AuditRetentionScheduler{
		enqueuer:      enqueuer,
		schedule:      schedule,
		retentionDays: retentionDays,
		cron:          cron.New(cron.WithParser(cronParser)),
	}
}

// Start registers the purge job and starts cron. An empty schedule disables it.
func (s *AuditRetentionScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if s.schedule == "" {
		log.Printf("Audit scheduler: no schedule configured, skipping")
		return nil
	}
	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	var runCtx context.Context
	runCtx, s.cancelFunc = context.WithCancel(ctx)

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.enqueue(runCtx, "cron"); err != nil {
			log.Printf("Audit scheduler: failed to enqueue purge: %v", err)
		}
	})
	if err != nil {
		s.cancelFunc()
		return fmt.Errorf("failed to schedule audit purge: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	log.Printf("Audit scheduler: started with schedule '%s', retention %d days. Next run: %v",
		s.schedule, s.retentionDays, s.cron.Entry(entryID).Next)

	go func() {
		<-runCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop halts cron and waits for a running job to finish.
func (s *AuditRetentionScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}
	s.isRunning = false

	log.Printf("Audit scheduler: stopped")
}

// RunNow enqueues a purge immediately.
func (s *AuditRetentionScheduler) RunNow(ctx context.Context) error {
	return s.enqueue(ctx, "manual")
}

func (s *AuditRetentionScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the next scheduled purge, or the zero time when stopped.
func (s *AuditRetentionScheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isRunning {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

func (s *AuditRetentionScheduler) enqueue(ctx context.Context, trigger string) error {
	return s.enqueuer.EnqueueAuditPurge(ctx, tasks.PurgeAuditTask{
		RetentionDays: s.retentionDays,
		Trigger:       trigger,
	})
}
