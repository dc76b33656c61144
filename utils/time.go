// Package utils provides utility functions for the application.
package utils

import (
	"time"
)

// ISO8601Millis is the timestamp layout used in persisted records (millisecond precision, UTC "Z").
const ISO8601Millis = "2006-01-02T15:04:05.000Z07:00"

// UTCNow returns the current time in UTC
func UTCNow() time.Time {
	return time.Now().UTC()
}

// FormatISO formats t in UTC as ISO-8601 with milliseconds
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISO8601Millis)
}
