package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studyhub/internal/app/services"
	"github.com/yigit/studyhub/internal/pkg/metrics"
	"github.com/yigit/studyhub/internal/testfixtures"
)

type recordingSweeper struct {
	mu    sync.Mutex
	days  []time.Time
	err   error
	panic bool
	ran   chan struct{}
}

func newRecordingSweeper() *recordingSweeper {
	return &recordingSweeper{ran: make(chan struct{}, 8)}
}

func (r *recordingSweeper) Sweep(_ context.Context, today time.Time) (services.SweepResult, error) {
	r.mu.Lock()
	r.days = append(r.days, today)
	r.mu.Unlock()
	r.ran <- struct{}{}

	if r.panic {
		panic("boom")
	}
	return services.SweepResult{Deactivated: 1, Activated: 2}, r.err
}

func (r *recordingSweeper) calls() []time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Time(nil), r.days...)
}

func TestRunOnce_UsesCalendarDateInLocation(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		loc  *time.Location
		want time.Time
	}{
		{
			name: "utc",
			now:  time.Date(2024, 6, 15, 23, 30, 0, 0, time.UTC),
			loc:  time.UTC,
			want: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "east of utc rolls over",
			now:  time.Date(2024, 6, 15, 23, 30, 0, 0, time.UTC),
			loc:  time.FixedZone("UTC+9", 9*60*60),
			want: time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "west of utc stays behind",
			now:  time.Date(2024, 6, 15, 2, 0, 0, 0, time.UTC),
			loc:  time.FixedZone("UTC-5", -5*60*60),
			want: time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sweeper := newRecordingSweeper()
			clock := testfixtures.NewClock(tt.now)
			s, err := NewLifecycleScheduler(sweeper, Options{Location: tt.loc, Now: clock.NowFunc(), Logger: zerolog.Nop()})
			require.NoError(t, err)

			require.NoError(t, s.RunOnce(context.Background()))
			assert.Equal(t, []time.Time{tt.want}, sweeper.calls())
		})
	}
}

func TestRunOnce_ReturnsSweepError(t *testing.T) {
	sweeper := newRecordingSweeper()
	sweeper.err = errors.New("store down")
	s, err := NewLifecycleScheduler(sweeper, Options{
		Metrics: metrics.New(prometheus.NewRegistry()),
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)

	err = s.RunOnce(context.Background())
	assert.EqualError(t, err, "store down")
}

func TestRunOnce_RecoversPanic(t *testing.T) {
	sweeper := newRecordingSweeper()
	sweeper.panic = true
	s, err := NewLifecycleScheduler(sweeper, Options{Logger: zerolog.Nop()})
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		err = s.RunOnce(context.Background())
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
}

func TestNewLifecycleScheduler_RejectsBadSpec(t *testing.T) {
	_, err := NewLifecycleScheduler(newRecordingSweeper(), Options{Spec: "not a cron spec", Logger: zerolog.Nop()})
	require.Error(t, err)
}

func TestStart_RunOnStartSweepsImmediately(t *testing.T) {
	sweeper := newRecordingSweeper()
	s, err := NewLifecycleScheduler(sweeper, Options{
		RunOnStart: true,
		Now:        testfixtures.NewClock(time.Time{}).NowFunc(),
		Logger:     zerolog.Nop(),
	})
	require.NoError(t, err)

	s.Start()
	select {
	case <-sweeper.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep did not run on start")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.Equal(t, []time.Time{time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)}, sweeper.calls())
}

func TestStop_WithoutRunsReturnsPromptly(t *testing.T) {
	s, err := NewLifecycleScheduler(newRecordingSweeper(), Options{Logger: zerolog.Nop()})
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
