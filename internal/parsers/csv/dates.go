package csv

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseCreationDate parses the DD/MM/YYYY part of a "DD/MM/YYYY HH:MM" timestamp.
// The time of day is ignored; the result is midnight in loc.
func ParseCreationDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	datePart := strings.TrimSpace(value)
	if i := strings.IndexAny(datePart, " T"); i >= 0 {
		datePart = datePart[:i]
	}

	parts := strings.Split(datePart, "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("invalid date %q: expected DD/MM/YYYY", value)
	}

	day, errD := strconv.Atoi(parts[0])
	month, errM := strconv.Atoi(parts[1])
	year, errY := strconv.Atoi(parts[2])
	if errD != nil || errM != nil || errY != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: non-numeric component", value)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1000 {
		return time.Time{}, fmt.Errorf("invalid date %q: component out of range", value)
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Day() != day {
		return time.Time{}, fmt.Errorf("invalid date %q: day out of range for month", value)
	}
	return t, nil
}
