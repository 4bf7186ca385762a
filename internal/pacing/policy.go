package pacing

import "time"

// Budget captures one pacing computation. PendingSeconds is the cumulative
// tracked time the week still owes as of Now: negative when ahead of pace,
// larger than a single shift when behind.
type Budget struct {
	Now                  time.Time
	WeekdayIndex         int
	WeeklyTrackedHours   float64
	ProjectedWeeklyHours float64
	PendingSeconds       float64
}

// WeekdayIndex maps t's weekday to the 0-based Monday index used by the
// weekly projection (Monday=0 .. Sunday=6).
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// Target projects the weekly budget linearly across working days and returns
// the pending tracked seconds relative to weeklyTrackedHours. The weekday
// multiplier clamps at 5 so weekends do not inflate the target.
func Target(now time.Time, weeklyTrackedHours, shiftLengthHours float64) Budget {
	weekday := WeekdayIndex(now)
	multiplier := weekday
	if multiplier > 5 {
		multiplier = 5
	}
	projected := shiftLengthHours * float64(multiplier)
	return Budget{
		Now:                  now,
		WeekdayIndex:         weekday,
		WeeklyTrackedHours:   weeklyTrackedHours,
		ProjectedWeeklyHours: projected,
		PendingSeconds:       (projected - weeklyTrackedHours) * 3600,
	}
}
