// Package period maps objective periods to concrete date ranges and
// day counts. All functions are pure.
package period

import (
	"time"

	"github.com/pacerhq/pacer/internal/model"
)

// Range returns the inclusive [start, end] window for a period. The end
// carries 23:59:59 so inclusive-range filtering against timestamps is exact.
func Range(p model.Period) (start, end time.Time) {
	switch p.Type {
	case model.PeriodMonthly:
		start = time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, -1)
	case model.PeriodQuarterly:
		firstMonth := (p.Quarter-1)*3 + 1
		start = time.Date(p.Year, time.Month(firstMonth), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 3, -1)
	default: // yearly
		start = time.Date(p.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(p.Year, time.December, 31, 0, 0, 0, 0, time.UTC)
	}
	end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, time.UTC)
	return start, end
}

// TotalDays returns the length of the period in days. Quarters are a fixed
// 90 days rather than the calendar-exact 90-92; the curve math only needs a
// stable denominator.
func TotalDays(p model.Period) int {
	switch p.Type {
	case model.PeriodMonthly:
		return DaysInMonth(p.Year, p.Month)
	case model.PeriodQuarterly:
		return 90
	default:
		if IsLeapYear(p.Year) {
			return 366
		}
		return 365
	}
}

// CurrentDay returns the 1-indexed day within the period at now, counting a
// partial current day as elapsed. Returns 0 before the period starts and
// TotalDays after it ends.
func CurrentDay(p model.Period, now time.Time) int {
	start, end := Range(p)
	if now.Before(start) {
		return 0
	}
	total := TotalDays(p)
	if now.After(end) {
		return total
	}

	var day int
	switch p.Type {
	case model.PeriodMonthly:
		day = now.Day()
	case model.PeriodQuarterly:
		// Completed calendar months within the quarter plus the day of the
		// current month.
		firstMonth := (p.Quarter-1)*3 + 1
		for m := firstMonth; m < int(now.Month()); m++ {
			day += DaysInMonth(p.Year, m)
		}
		day += now.Day()
	default:
		day = now.YearDay()
	}

	if day > total {
		day = total
	}
	return day
}

// DaysRemaining returns how many days of the period are left at now.
func DaysRemaining(p model.Period, now time.Time) int {
	return TotalDays(p) - CurrentDay(p, now)
}

// DaysInMonth returns the calendar length of a month, leap-year aware.
func DaysInMonth(year, month int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsLeapYear implements the Gregorian leap-year rule.
func IsLeapYear(year int) bool {
	return year%4 == 0 && year%100 != 0 || year%400 == 0
}
