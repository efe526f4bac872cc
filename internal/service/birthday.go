package service

import "time"

// BirthdayWindowDays is how far ahead upcoming birthdays are looked up
const BirthdayWindowDays = 7

// BirthdayWindow returns the month*100+day codes of every calendar date from today through today+days.
// Feb 29 birthdays are included on Feb 28 of non-leap years.
func BirthdayWindow(today time.Time, days int) []int32 {
	y, m, d := today.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	codes := make([]int32, 0, days+2)
	for i := 0; i <= days; i++ {
		day := start.AddDate(0, 0, i)
		codes = append(codes, monthDay(day.Month(), day.Day()))
		if day.Month() == time.February && day.Day() == 28 && !isLeapYear(day.Year()) {
			codes = append(codes, monthDay(time.February, 29))
		}
	}
	return codes
}

func monthDay(m time.Month, d int) int32 {
	return int32(m)*100 + int32(d)
}

func isLeapYear(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}
