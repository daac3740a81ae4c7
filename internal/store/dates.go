package store

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the format of every date key in a store.
const DateLayout = "2006-01-02"

func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// EachDate calls fn with every date key from start to end inclusive, one
// calendar day at a time. A start after end yields nothing.
func EachDate(start, end string, fn func(date string)) error {
	from, err := ParseDate(start)
	if err != nil {
		return err
	}
	to, err := ParseDate(end)
	if err != nil {
		return err
	}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		fn(FormatDate(d))
	}
	return nil
}
