package uiutil

import (
	"strconv"
	"strings"
	"time"
)

const FriendlyDateTimeLayout = "Jan 2, 2006 3:04 PM"

// FormatFriendlyDateTime renders a backend wall-clock time. Backend times carry
// no zone, so no conversion to the server's local zone is applied.
func FormatFriendlyDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(FriendlyDateTimeLayout)
}

// FormatDuration renders a flight duration such as "2h 05m". Non-positive durations yield "".
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	total := int(d.Round(time.Minute).Minutes())
	hours, mins := total/60, total%60
	if hours == 0 {
		return strconv.Itoa(mins) + "m"
	}
	m := strconv.Itoa(mins)
	if mins < 10 {
		m = "0" + m
	}
	return strconv.Itoa(hours) + "h " + m + "m"
}

// TruncateWithEllipsis shortens text to the provided rune limit and appends an ellipsis when truncated.
func TruncateWithEllipsis(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	if limit <= 1 {
		return "…"
	}
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}
