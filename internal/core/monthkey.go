package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MonthKeyFor formats the canonical YYYY-MM key for the given time.
func MonthKeyFor(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// CurrentMonthKey returns the key for the current system month.
func CurrentMonthKey() string {
	return MonthKeyFor(time.Now())
}

// DateISOFor formats a YYYY-MM-DD date string for the given time.
func DateISOFor(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// TodayISO returns today's date as YYYY-MM-DD.
func TodayISO() string {
	return DateISOFor(time.Now())
}

// SplitMonthKey parses a YYYY-MM key into year and month.
func SplitMonthKey(key string) (year, month int, err error) {
	parts := strings.Split(key, "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return 0, 0, ErrInvalidMonthKey
	}
	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, ErrInvalidMonthKey
	}
	month, err = strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, ErrInvalidMonthKey
	}
	return year, month, nil
}

// PreviousMonthKey returns the key of the month before the given one;
// January rolls back to December of the prior year.
func PreviousMonthKey(key string) (string, error) {
	year, month, err := SplitMonthKey(key)
	if err != nil {
		return "", err
	}
	month--
	if month == 0 {
		month = 12
		year--
	}
	return fmt.Sprintf("%04d-%02d", year, month), nil
}

// DaysInMonth returns the calendar length of the given month.
func DaysInMonth(year, month int) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDayToMonth builds a YYYY-MM-DD date inside the given month, clamping
// the day into [1, daysInMonth]. Never produces an invalid calendar date.
func ClampDayToMonth(key string, day int) (string, error) {
	year, month, err := SplitMonthKey(key)
	if err != nil {
		return "", err
	}
	max := DaysInMonth(year, month)
	if day < 1 {
		day = 1
	}
	if day > max {
		day = max
	}
	return fmt.Sprintf("%s-%02d", key, day), nil
}
