package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates such as a tenant's entry date.
const DateLayout = "2006-01-02"

// ParseDate reads a calendar date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

// PeriodLayout is the month label payment proofs are filed under.
const PeriodLayout = "January 2006"

// ParsePeriod reads a month label such as "July 2026". Month names match
// case-insensitively; the result is the first of the month, UTC.
func ParsePeriod(s string) (time.Time, error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("invalid period %q, want e.g. \"January 2006\"", s)
	}
	month := strings.ToUpper(parts[0][:1]) + strings.ToLower(parts[0][1:])
	t, err := time.ParseInLocation(PeriodLayout, month+" "+parts[1], time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid period %q, want e.g. \"January 2006\"", s)
	}
	return t, nil
}
