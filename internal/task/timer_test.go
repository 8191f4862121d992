package task_test

import (
	"testing"
	"time"

	"github.com/robalyx/dolmetscher/internal/task"
	"github.com/stretchr/testify/assert"
)

func TestFormatElapsed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		elapsed time.Duration
		want    string
	}{
		{elapsed: 0, want: "00:00"},
		{elapsed: 999 * time.Millisecond, want: "00:00"},
		{elapsed: 65 * time.Second, want: "01:05"},
		{elapsed: 19*time.Minute + 59*time.Second, want: "19:59"},
		{elapsed: 20 * time.Minute, want: "20:00+"},
		{elapsed: 3 * time.Hour, want: "20:00+"},
		{elapsed: -time.Second, want: "00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, task.FormatElapsed(tt.elapsed, task.DefaultTimerCap))
		})
	}
}

func TestStopwatch(t *testing.T) {
	t.Parallel()

	sw := task.NewStopwatch(2 * time.Minute)
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, task.TimerIdle, sw.State())
	assert.False(t, sw.Tick(start))
	assert.Empty(t, sw.Display(start))

	sw.Start(start)
	assert.True(t, sw.Tick(start.Add(90*time.Second)))
	assert.Equal(t, task.TimerRunning, sw.State())
	assert.Equal(t, "01:30", sw.Display(start.Add(90*time.Second)))
	assert.InDelta(t, 0.75, sw.Progress(start.Add(90*time.Second)), 0.001)

	assert.True(t, sw.Tick(start.Add(2*time.Minute)))
	assert.Equal(t, task.TimerCapped, sw.State())
	assert.Equal(t, "02:00+", sw.Display(start.Add(time.Hour)))
	assert.InDelta(t, 1.0, sw.Progress(start.Add(time.Hour)), 0.001)
	assert.False(t, sw.Tick(start.Add(3*time.Minute)))

	sw.Stop()
	assert.Equal(t, task.TimerStopped, sw.State())
	assert.Empty(t, sw.Display(start))
	assert.Zero(t, sw.Progress(start))

	sw.Reset()
	assert.Equal(t, task.TimerIdle, sw.State())
}
