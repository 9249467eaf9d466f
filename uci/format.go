package uci

import (
	"fmt"
	"strconv"
)

// FormatCount shortens node and nps counters: "1234567" -> "1.2M".
func FormatCount(raw string) string {
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	switch {
	case n >= 1e12:
		return strconv.FormatFloat(n/1e12, 'f', 1, 64) + "T"
	case n >= 1e9:
		return strconv.FormatFloat(n/1e9, 'f', 1, 64) + "B"
	case n >= 1e6:
		return strconv.FormatFloat(n/1e6, 'f', 1, 64) + "M"
	case n >= 1e3:
		return strconv.FormatFloat(n/1e3, 'f', 1, 64) + "K"
	default:
		return strconv.FormatFloat(n, 'f', 0, 64)
	}
}

// FormatElapsed turns a millisecond "time" field into hh:mm:ss.
func FormatElapsed(rawMillis string) string {
	ms, err := strconv.ParseInt(rawMillis, 10, 64)
	if err != nil || ms < 0 {
		return rawMillis
	}
	hours := ms / 3_600_000
	minutes := ms % 3_600_000 / 60_000
	seconds := ms % 60_000 / 1000
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
