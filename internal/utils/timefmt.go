package utils

import "fmt"

// FormatDuration renders a number of seconds as HH:MM:SS. Negative values
// are treated as zero. Hours grow without bound (no day wrapping) so long
// running totals stay readable, e.g. 90061 -> "25:01:01".
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
