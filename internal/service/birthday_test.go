package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBirthdayWindow(t *testing.T) {
	tests := []struct {
		name  string
		today time.Time
		want  []int32
	}{
		{
			name:  "inside a month",
			today: time.Date(2024, time.May, 1, 15, 4, 0, 0, time.UTC),
			want:  []int32{501, 502, 503, 504, 505, 506, 507, 508},
		},
		{
			name:  "across a month boundary",
			today: time.Date(2024, time.April, 27, 0, 0, 0, 0, time.UTC),
			want:  []int32{427, 428, 429, 430, 501, 502, 503, 504},
		},
		{
			name:  "across a year boundary",
			today: time.Date(2023, time.December, 29, 0, 0, 0, 0, time.UTC),
			want:  []int32{1229, 1230, 1231, 101, 102, 103, 104, 105},
		},
		{
			name:  "leap year keeps Feb 29 as its own day",
			today: time.Date(2024, time.February, 26, 0, 0, 0, 0, time.UTC),
			want:  []int32{226, 227, 228, 229, 301, 302, 303, 304},
		},
		{
			name:  "non-leap year matches Feb 29 on Feb 28",
			today: time.Date(2023, time.February, 26, 0, 0, 0, 0, time.UTC),
			want:  []int32{226, 227, 228, 229, 301, 302, 303, 304, 305},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BirthdayWindow(tt.today, BirthdayWindowDays))
		})
	}
}

func TestBirthdayWindow_IncludesTodayPlusThreeExcludesTodayPlusTen(t *testing.T) {
	today := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	window := BirthdayWindow(today, BirthdayWindowDays)

	plus3 := today.AddDate(0, 0, 3)
	plus10 := today.AddDate(0, 0, 10)

	assert.Contains(t, window, monthDay(plus3.Month(), plus3.Day()))
	assert.NotContains(t, window, monthDay(plus10.Month(), plus10.Day()))
}
