// internal/domain/schedule/generator.go
package schedule

import (
	"errors"
	"time"
)

var (
	// ErrInvalidCount is returned when the application count is below one
	ErrInvalidCount = errors.New("application count must be at least 1")

	// ErrInvalidInterval is returned when the month interval is below one
	ErrInvalidInterval = errors.New("interval in months must be at least 1")
)

// Generate computes a sequence of future application dates from a start date
// and a month interval. The first date is the start date unchanged; date i is
// the start's day-of-month placed in month start+i*interval, with month
// overflow normalized into year increments.
//
// Two deliberate quirks carried from the production behavior:
//
//   - When count is 4 and the interval is 3 months (the quarterly default),
//     the 4th date has its month forced to December of its computed year so
//     the last application lands at calendar year-end. This is a business
//     rule, not interval arithmetic.
//   - The day-of-month is not clamped for shorter target months; a day 31
//     projected into a 30-day month rolls into the next month, exactly as
//     the original calendar arithmetic did.
func Generate(start time.Time, count, intervalMonths int) ([]time.Time, error) {
	if count < 1 {
		return nil, ErrInvalidCount
	}
	if intervalMonths < 1 {
		return nil, ErrInvalidInterval
	}

	dates := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		if i == 0 {
			dates = append(dates, start)
			continue
		}

		monthIndex := int(start.Month()) - 1 + i*intervalMonths
		year := start.Year() + monthIndex/12
		month := time.Month(monthIndex%12 + 1)

		if count == 4 && intervalMonths == 3 && i == 3 {
			month = time.December
		}

		dates = append(dates, time.Date(year, month, start.Day(),
			start.Hour(), start.Minute(), start.Second(), start.Nanosecond(), start.Location()))
	}

	return dates, nil
}
