package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordlewatch/internal/config"
)

func schedulerFor(t *testing.T, at string) *Scheduler {
	t.Helper()
	cfg := &config.Config{}
	cfg.Schedule.At = at
	cfg.Schedule.Timezone = "UTC"

	s, err := NewScheduler(cfg, nil)
	require.NoError(t, err)
	return s
}

func TestNextFireTimeLaterToday(t *testing.T) {
	s := schedulerFor(t, "09:15")
	now := time.Date(2026, 8, 28, 6, 0, 0, 0, time.UTC)

	next := s.nextFireTime(now)

	assert.Equal(t, time.Date(2026, 8, 28, 9, 15, 0, 0, time.UTC), next)
}

func TestNextFireTimeRollsToTomorrow(t *testing.T) {
	s := schedulerFor(t, "09:15")
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	next := s.nextFireTime(now)

	assert.Equal(t, time.Date(2026, 8, 29, 9, 15, 0, 0, time.UTC), next)
}

func TestNextFireTimeExactMomentRolls(t *testing.T) {
	s := schedulerFor(t, "09:15")
	now := time.Date(2026, 8, 28, 9, 15, 0, 0, time.UTC)

	next := s.nextFireTime(now)

	assert.Equal(t, time.Date(2026, 8, 29, 9, 15, 0, 0, time.UTC), next)
}

func TestNewSchedulerRejectsBadTime(t *testing.T) {
	cfg := &config.Config{}
	cfg.Schedule.At = "25:99"
	cfg.Schedule.Timezone = "UTC"

	_, err := NewScheduler(cfg, nil)
	assert.Error(t, err)
}

func TestNewSchedulerRejectsBadTimezone(t *testing.T) {
	cfg := &config.Config{}
	cfg.Schedule.At = "09:15"
	cfg.Schedule.Timezone = "Mars/Olympus_Mons"

	_, err := NewScheduler(cfg, nil)
	assert.Error(t, err)
}
