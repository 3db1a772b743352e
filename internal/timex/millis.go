package timex

import "time"

// Millis converts t to Unix epoch milliseconds.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis is the inverse of Millis, in UTC.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// NowMillis returns the current wall clock in epoch milliseconds.
func NowMillis() int64 {
	return Millis(time.Now())
}
