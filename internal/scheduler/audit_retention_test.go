package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/tasks"
)

type recordingEnqueuer struct {
	mu    sync.Mutex
	tasks []tasks.PurgeAuditTask
}

func (r *recordingEnqueuer) EnqueueAuditPurge(ctx context.Context, task tasks.PurgeAuditTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = append(r.tasks, task)
	return nil
}

func TestValidateCronSchedule(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("30 3 * * *"))
	assert.NoError(t, ValidateCronSchedule("*/5 * * * *"))
	assert.Error(t, ValidateCronSchedule("not a schedule"))
	assert.Error(t, ValidateCronSchedule("0 30 3 * * *"), "seconds field is not accepted")
}

func TestAuditRetentionScheduler_StartStop(t *testing.T) {
	enqueuer := &recordingEnqueuer{}
	s := NewAuditRetentionScheduler(enqueuer, "30 3 * * *", 90)

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())

	next := s.NextRun()
	assert.False(t, next.IsZero())
	assert.Equal(t, 3, next.Hour())
	assert.Equal(t, 30, next.Minute())

	require.NoError(t, s.Start(context.Background()), "second start is a no-op")

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.True(t, s.NextRun().IsZero())
}

func TestAuditRetentionScheduler_StopsWithContext(t *testing.T) {
	s := NewAuditRetentionScheduler(&recordingEnqueuer{}, "30 3 * * *", 90)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !s.IsRunning() }, 2*time.Second, 10*time.Millisecond)
}

func TestAuditRetentionScheduler_InvalidSchedule(t *testing.T) {
	s := NewAuditRetentionScheduler(&recordingEnqueuer{}, "every night", 90)
	assert.Error(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}

func TestAuditRetentionScheduler_EmptyScheduleDisables(t *testing.T) {
	s := NewAuditRetentionScheduler(&recordingEnqueuer{}, "", 90)
	assert.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}

func TestAuditRetentionScheduler_RunNow(t *testing.T) {
	enqueuer := &recordingEnqueuer{}
	s := NewAuditRetentionScheduler(enqueuer, "30 3 * * *", 30)

	require.NoError(t, s.RunNow(context.Background()))

	require.Len(t, enqueuer.tasks, 1)
	assert.Equal(t, 30, enqueuer.tasks[0].RetentionDays)
	assert.Equal(t, "manual", enqueuer.tasks[0].Trigger)
}
