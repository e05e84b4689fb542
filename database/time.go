package database

import (
	L "fftpeg/logger"
	"fmt"
	"time"
)

// fixed width so stored values sort lexically in time order
const DateTimeFormat = "2006-01-02T15:04:05.000000Z07:00"

func ToTimeStr(t time.Time) string {
	return t.UTC().Format(DateTimeFormat)
}

func FromTimeStr(ts string) time.Time {
	t, err := time.Parse(DateTimeFormat, ts)
	if err != nil {
		L.Error(fmt.Errorf("couldnt parse time for %s: %w", ts, err))
		return time.Time{}
	}
	return t
}
