package model

import "time"

// TimestampLayout is the text layout used for domain timestamps. They
// are stored as text so sqlite and postgres render them identically.
const TimestampLayout = "2006-01-02 15:04:05"

// Timestamp returns the current time formatted for storage.
func Timestamp() string {
	return time.Now().Format(TimestampLayout)
}
