// Package utils provides utility functions for the application.
package utils

import (
	"time"
)

// DateLayout is the wire format for calendar dates (ISO, no time component)
const DateLayout = "2006-01-02"

// UTCNow returns the current time in UTC
func UTCNow() time.Time {
	return time.Now().UTC()
}

// UTCNowPtr returns a pointer to the current time in UTC
func UTCNowPtr() *time.Time {
	now := UTCNow()
	return &now
}

// UTCNowAdd returns the current UTC time plus the given duration
func UTCNowAdd(d time.Duration) time.Time {
	return UTCNow().Add(d)
}

// UTCToday returns the current UTC date truncated to midnight
func UTCToday() time.Time {
	return UTCNow().Truncate(24 * time.Hour)
}

// UTCNowRFC3339 returns the current UTC time in RFC3339 format
func UTCNowRFC3339() string {
	return UTCNow().Format(time.RFC3339)
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD) as UTC midnight
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// FormatDate formats a time as an ISO calendar date (YYYY-MM-DD)
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// TimeToUTC converts a time to UTC if it's not already
func TimeToUTC(t time.Time) time.Time {
	return t.UTC()
}

// TimeToUTCPtr converts a time pointer to UTC if it's not already
func TimeToUTCPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := TimeToUTC(*t)
	return &utc
}
