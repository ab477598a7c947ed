package domain

import (
	"slices"
	"testing"
	"time"
)

func date(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestDueTransferDays(t *testing.T) {
	tests := []struct {
		name  string
		today time.Time
		want  []int
	}{
		{"plain weekday", date(2024, time.June, 12, 10), []int{12}},
		{"saturday", date(2024, time.June, 15, 10), nil},
		{"sunday", date(2024, time.June, 16, 10), nil},
		{"monday covers weekend", date(2024, time.June, 17, 10), []int{15, 16, 17}},
		{"monday after a month ending sunday", date(2024, time.July, 1, 10), []int{1, 29, 30, 31}},
		{"monday after a 30-day month ending sunday", date(2025, time.December, 1, 10), []int{1, 29, 30, 31}},
		{"monday after a month ending saturday", date(2024, time.December, 2, 10), []int{1, 2, 30, 31}},
		{"monday after february ending saturday", date(2026, time.March, 2, 10), []int{1, 2, 28, 29, 30, 31}},
		{"monday after a 31-day month", date(2025, time.September, 1, 10), []int{1, 30, 31}},
		{"last day of 30-day month", date(2024, time.April, 30, 10), []int{30, 31}},
		{"last day of february leap", date(2024, time.February, 29, 10), []int{29, 30, 31}},
		{"last day of february", date(2023, time.February, 28, 10), []int{28, 29, 30, 31}},
		{"last day of 31-day month", date(2024, time.July, 31, 10), []int{31}},
		{"monday that is the last day", date(2024, time.September, 30, 10), []int{28, 29, 30, 31}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DueTransferDays(tt.today)
			if !slices.Equal(got, tt.want) {
				t.Errorf("DueTransferDays(%s) = %v, want %v", tt.today.Format(time.DateOnly), got, tt.want)
			}
		})
	}
}

func TestInRetryWindow(t *testing.T) {
	tests := []struct {
		at   time.Time
		want bool
	}{
		{date(2024, time.June, 12, 8), false},
		{date(2024, time.June, 12, 9), true},
		{date(2024, time.June, 12, 13), true},
		{date(2024, time.June, 12, 18), true},
		{date(2024, time.June, 12, 18).Add(time.Minute), false},
		{date(2024, time.June, 12, 23), false},
	}

	for _, tt := range tests {
		if got := InRetryWindow(tt.at, 9, 18); got != tt.want {
			t.Errorf("InRetryWindow(%s) = %v, want %v", tt.at.Format(time.TimeOnly), got, tt.want)
		}
	}
}

func TestLastDayOfMonth(t *testing.T) {
	if got := LastDayOfMonth(date(2024, time.April, 10, 0)); got != 30 {
		t.Errorf("april: %d", got)
	}
	if got := LastDayOfMonth(date(2024, time.December, 10, 0)); got != 31 {
		t.Errorf("december: %d", got)
	}
}
