package util

import (
	"context"
	"testing"
	"time"
)

func TestRecency(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{name: "same_day", at: now.Add(-3 * time.Hour), want: "Today"},
		{name: "future", at: now.Add(time.Hour), want: "Today"},
		{name: "one_day", at: now.Add(-25 * time.Hour), want: "1 day ago"},
		{name: "many_days", at: now.Add(-24 * 7 * time.Hour), want: "7 days ago"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Recency(tc.at, now); got != tc.want {
				t.Errorf("expected %q got %q", tc.want, got)
			}
		})
	}
}

func TestClampInt(t *testing.T) {
	t.Parallel()

	if got := ClampInt(-5, 0, 25); got != 0 {
		t.Errorf("expected 0 got %d", got)
	}
	if got := ClampInt(30, 0, 25); got != 25 {
		t.Errorf("expected 25 got %d", got)
	}
	if got := ClampInt(7, 0, 25); got != 7 {
		t.Errorf("expected 7 got %d", got)
	}
}

func TestSleepCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	Sleep(ctx, time.Minute)
	if time.Since(start) > time.Second {
		t.Error("sleep ignored cancelled context")
	}
}
