package event

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// DateLayout is the layout of listing dates, e.g. "Oct 23, 2025, 8:30 PM"
const DateLayout = "Jan 2, 2006, 3:04 PM"

// DatePattern matches the whole of a listing date string
var DatePattern = regexp.MustCompile(`^[A-Z][a-z]{2} \d{1,2}, \d{4}, \d{1,2}:\d{2} [AP]M$`)

// ErrDateFormat is returned when date text does not have the listing date shape
var ErrDateFormat = errors.New("date text does not match expected format")

// IsDateText reports whether s has the shape of a listing date
func IsDateText(s string) bool {
	return DatePattern.MatchString(s)
}

// ParseDate parses listing date text into a floating time.
// The result's location is UTC only as a placeholder; callers must not
// treat it as a UTC instant.
// Text that matches DatePattern can still fail, e.g. "Feb 30, 2026, 7:00 PM"
// or "Jan 5, 2026, 13:00 PM".
func ParseDate(dateText string) (time.Time, error) {
	if !IsDateText(dateText) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrDateFormat, dateText)
	}

	t, err := time.Parse(DateLayout, dateText)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", dateText, err)
	}
	return t, nil
}
