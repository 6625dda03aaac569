package utils

import "time"

// ToIsoDateTime renders a millisecond epoch timestamp as an ISO-8601 date
// time in UTC, for example 2024-03-01T11:00:00.25Z.
func ToIsoDateTime(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339Nano)
}
