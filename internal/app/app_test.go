package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templeseva/priest_scheduler/internal/backend"
	"github.com/templeseva/priest_scheduler/internal/config"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger("production", "warn")
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	dev := NewLogger("development", "")
	assert.True(t, dev.Core().Enabled(zapcore.DebugLevel))

	assert.Panics(t, func() { NewLogger("development", "loud") })
}

func TestNewContainerHTTP(t *testing.T) {
	t.Setenv("DATA_SOURCE", config.DataSourceHTTP)
	t.Setenv("BACKEND_URL", "http://backend.invalid")
	t.Setenv("TIMEZONE", "Asia/Kolkata")

	cfg, err := config.Load()
	require.NoError(t, err)

	c, err := NewContainer(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer c.Close()

	assert.IsType(t, &backend.Client{}, c.Source)
	require.NotNil(t, c.Availability)
	require.NotNil(t, c.Appointments)
	assert.Equal(t, "Asia/Kolkata", c.Availability.Location().String())
}

func TestSchedulerRunsAndStops(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler(zaptest.NewLogger(t), Task{
		Name:     "count",
		Interval: 5 * time.Millisecond,
		Run: func(context.Context) error {
			runs.Add(1)
			return nil
		},
	}, Task{Name: "broken"})

	s.Start(context.Background())
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, time.Millisecond)

	s.Stop()
	stopped := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load())

	// a second Stop is harmless
	s.Stop()
}

func TestSchedulerStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewScheduler(zaptest.NewLogger(t), Task{
		Name:     "noop",
		Interval: time.Hour,
		Run:      func(context.Context) error { return nil },
	})

	s.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
