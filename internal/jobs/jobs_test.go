package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"fgperfume/internal/health"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type countingJob struct{ runs int }

func (j *countingJob) Run(ctx context.Context) error {
	j.runs++
	return nil
}

func TestValidateCron(t *testing.T) {
	from := time.Date(2025, 1, 1, 10, 3, 0, 0, time.UTC)
	next, err := ValidateCron("*/10 * * * *", from)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 1, 10, 10, 0, 0, time.UTC), next)

	_, err = ValidateCron("every minute", from)
	assert.Error(t, err)
	_, err = ValidateCron("* * * * * *", from)
	assert.Error(t, err, "seconds field is not accepted")
}

func TestJobScheduler_RegisterAndRunNow(t *testing.T) {
	s, err := NewJobScheduler()
	require.NoError(t, err)
	defer s.Stop()

	job := &countingJob{}
	require.NoError(t, s.Register("count", "0 3 * * *", job))
	assert.Error(t, s.Register("count", "0 3 * * *", job))
	assert.Error(t, s.Register("bad", "nope", job))

	require.NoError(t, s.RunNow(context.Background(), "count"))
	assert.Equal(t, 1, job.runs)
	assert.Error(t, s.RunNow(context.Background(), "missing"))

	s.Start()
	status := s.GetStatus()
	require.Contains(t, status, "count")
	assert.Equal(t, "0 3 * * *", status["count"].Cron)
	assert.False(t, status["count"].NextRunTime.IsZero())
}

func TestProviderHealthChecker(t *testing.T) {
	svc := health.NewService(1)
	svc.RegisterProvider("primary", "openrouter", "m", pingFunc(func(ctx context.Context) error { return nil }))
	svc.RegisterProvider("fallback", "gemini", "g", pingFunc(func(ctx context.Context) error { return errors.New("down") }))

	checker := NewProviderHealthChecker(svc, 0)
	require.NoError(t, checker.Run(context.Background()))

	assert.True(t, svc.IsHealthy("primary"))
	assert.False(t, svc.IsHealthy("fallback"))
}

func TestProviderHealthChecker_Cancelled(t *testing.T) {
	svc := health.NewService(1)
	svc.RegisterProvider("primary", "openrouter", "m", pingFunc(func(ctx context.Context) error { return nil }))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewProviderHealthChecker(svc, time.Millisecond).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
