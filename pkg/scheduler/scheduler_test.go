package scheduler_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgaunet/s3tui/pkg/scheduler"
)

func TestScheduler_Disabled(t *testing.T) {
	s := scheduler.NewScheduler("", func() { t.Fatal("must not run") })
	assert.False(t, s.Enabled())
	assert.NoError(t, s.Start(context.Background()))
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s := scheduler.NewScheduler("every so often", func() {})
	assert.Error(t, s.Start(context.Background()))
}

func TestScheduler_Runs(t *testing.T) {
	var calls atomic.Int32
	s := scheduler.NewScheduler("@every 1s", func() { calls.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Start(ctx))

	assert.Eventually(t, func() bool { return calls.Load() > 0 }, 5*time.Second, 50*time.Millisecond)
}

func TestNext(t *testing.T) {
	from := time.Date(2024, 6, 1, 12, 2, 0, 0, time.UTC)
	next, err := scheduler.Next("*/5 * * * *", from)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 5, 0, 0, time.UTC), next)

	_, err = scheduler.Next("nope", from)
	assert.Error(t, err)
}
