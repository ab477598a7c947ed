package domain

import (
	"slices"
	"time"
)

// DueTransferDays returns the transfer days the due run must execute on the given date.
// It returns nil on weekends. Mondays also cover the preceding Saturday and Sunday, and the
// last day of the month covers every day the month does not have. When that last day fell
// on the weekend, the Monday after it covers the missing days instead.
func DueTransferDays(today time.Time) []int {
	switch today.Weekday() {
	case time.Saturday, time.Sunday:
		return nil
	}

	days := []int{today.Day()}
	if today.Weekday() == time.Monday {
		for _, skipped := range []time.Time{today.AddDate(0, 0, -2), today.AddDate(0, 0, -1)} {
			days = append(days, skipped.Day())
			days = appendMissingDays(days, skipped)
		}
	}

	days = appendMissingDays(days, today)

	slices.Sort(days)

	return slices.Compact(days)
}

// appendMissingDays appends the days after t up to MaxTransferDay when t is the
// last day of its month.
func appendMissingDays(days []int, t time.Time) []int {
	last := LastDayOfMonth(t)
	if t.Day() != last {
		return days
	}
	for d := last + 1; d <= MaxTransferDay; d++ {
		days = append(days, d)
	}
	return days
}

// LastDayOfMonth returns the number of days in the month of t.
func LastDayOfMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// InRetryWindow reports whether t falls inside [startHour:00, endHour:00] local time.
func InRetryWindow(t time.Time, startHour, endHour int) bool {
	start := time.Date(t.Year(), t.Month(), t.Day(), startHour, 0, 0, 0, t.Location())
	end := time.Date(t.Year(), t.Month(), t.Day(), endHour, 0, 0, 0, t.Location())

	return !t.Before(start) && !t.After(end)
}
