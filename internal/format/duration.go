package format

import "time"

// FormatExecutionDuration formats an evaluation time for display, keeping
// about four significant digits: "850ns", "12.34µs", "3.21ms", "1.234s",
// "2m5s". Non-positive durations read "0s".
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "0s"
	case d < time.Microsecond:
		return d.String()
	case d < time.Millisecond:
		return d.Round(10 * time.Nanosecond).String()
	case d < time.Second:
		return d.Round(10 * time.Microsecond).String()
	case d < time.Minute:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(time.Second).String()
	}
}
