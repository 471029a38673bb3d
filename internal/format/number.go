package format

import (
	"fmt"
	"strings"
)

// FormatNumberString inserts thousands separators into a decimal string.
// A leading sign is kept.
func FormatNumberString(s string) string {
	if s == "" {
		return ""
	}
	sign := ""
	if s[0] == '-' || s[0] == '+' {
		sign, s = s[:1], s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	var b strings.Builder
	b.Grow(len(sign) + n + n/3)
	b.WriteString(sign)
	head := n % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(s[:head])
	for i := head; i < n; i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// TruncateDigits shortens a long decimal string to its first and last edge
// digits around an ellipsis, keeping the sign. Strings of at most limit
// digits are returned unchanged.
func TruncateDigits(s string, limit, edge int) string {
	sign := ""
	if s != "" && s[0] == '-' {
		sign, s = "-", s[1:]
	}
	if len(s) <= limit || 2*edge >= len(s) {
		return sign + s
	}
	return sign + s[:edge] + "..." + s[len(s)-edge:]
}

// FormatBytes renders a byte count with binary units: "512 B", "1.5 KiB".
func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
