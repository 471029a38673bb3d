package format

import "testing"

// TestFormatNumberString verifies thousand separator formatting.
func TestFormatNumberString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"1", "1"},
		{"12", "12"},
		{"123", "123"},
		{"1234", "1,234"},
		{"123456", "123,456"},
		{"1234567", "1,234,567"},
		{"-1234", "-1,234"},
		{"-123", "-123"},
	}

	for _, tt := range tests {
		got := FormatNumberString(tt.input)
		if got != tt.expected {
			t.Errorf("FormatNumberString(%q) = %q; want %q", tt.input, got, tt.expected)
		}
	}
}

func TestTruncateDigits(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input       string
		limit, edge int
		expected    string
	}{
		{"12345", 10, 2, "12345"},
		{"123456789012", 10, 2, "12...12"},
		{"-123456789012", 10, 3, "-123...012"},
		{"1234567890", 10, 2, "1234567890"},
		{"12345678901", 10, 6, "12345678901"},
	}
	for _, tt := range tests {
		if got := TruncateDigits(tt.input, tt.limit, tt.edge); got != tt.expected {
			t.Errorf("TruncateDigits(%q, %d, %d) = %q; want %q", tt.input, tt.limit, tt.edge, got, tt.expected)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		n        uint64
		expected string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
		{3 << 30, "3.0 GiB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.n); got != tt.expected {
			t.Errorf("FormatBytes(%d) = %q; want %q", tt.n, got, tt.expected)
		}
	}
}
