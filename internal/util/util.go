package util

import (
	"context"
	"strconv"
	"time"
)

// Sleep waits for t or until ctx is done.
func Sleep(ctx context.Context, t time.Duration) {
	timer := time.NewTimer(t)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func Noun(number int, one, many string) string {
	if number == 1 || number == -1 {
		return one
	}
	return many
}

// Recency renders how long ago at happened relative to now in whole days.
func Recency(at, now time.Time) string {
	days := int(now.Sub(at).Hours() / 24)
	if days <= 0 {
		return "Today"
	}
	return strconv.Itoa(days) + " " + Noun(days, "day", "days") + " ago"
}

func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func MaxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
