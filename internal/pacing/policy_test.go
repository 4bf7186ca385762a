package pacing_test

import (
	"math"
	"testing"
	"time"

	"pacer/internal/pacing"
)

// 2026-08-24 is a Monday.
func dayWithIndex(index int) time.Time {
	return time.Date(2026, time.August, 24+index, 12, 0, 0, 0, time.UTC)
}

func TestWeekdayIndexStartsAtMonday(t *testing.T) {
	for i := 0; i < 7; i++ {
		if got := pacing.WeekdayIndex(dayWithIndex(i)); got != i {
			t.Fatalf("weekday index for day %d: got %d", i, got)
		}
	}
}

func TestTargetGrowsLinearlyAcrossWeekdays(t *testing.T) {
	const shift = 8.1
	for i := 0; i <= 4; i++ {
		budget := pacing.Target(dayWithIndex(i), 0, shift)
		want := shift * float64(i)
		if math.Abs(budget.ProjectedWeeklyHours-want) > 1e-9 {
			t.Fatalf("index %d: projected %v, want %v", i, budget.ProjectedWeeklyHours, want)
		}
	}
}

func TestTargetCapsMultiplierAtFiveShifts(t *testing.T) {
	const shift = 8.1
	for i := 5; i <= 6; i++ {
		budget := pacing.Target(dayWithIndex(i), 0, shift)
		if math.Abs(budget.ProjectedWeeklyHours-shift*5) > 1e-9 {
			t.Fatalf("index %d: projected %v, want %v", i, budget.ProjectedWeeklyHours, shift*5)
		}
	}
}

func TestTargetPendingSeconds(t *testing.T) {
	// Thursday with 20h already tracked against a 3-shift projection.
	budget := pacing.Target(dayWithIndex(3), 20, 8.1)
	want := (8.1*3 - 20) * 3600
	if math.Abs(budget.PendingSeconds-want) > 1e-6 {
		t.Fatalf("pending %v, want %v", budget.PendingSeconds, want)
	}

	// Ahead of pace yields a negative pending figure.
	ahead := pacing.Target(dayWithIndex(1), 30, 8.1)
	if ahead.PendingSeconds >= 0 {
		t.Fatalf("expected negative pending when ahead of pace, got %v", ahead.PendingSeconds)
	}
}
