package pipeline

import "time"

// SystemClock is the production Clock implementation.
func SystemClock() int64 {
	return time.Now().UnixMilli()
}
