package tui

import (
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

func TestRingBuffer(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		push     []float64
		want     []float64
		last     float64
		max      float64
	}{
		{"empty", 3, nil, nil, 0, 0},
		{"partial", 5, []float64{10, 20}, []float64{10, 20}, 20, 20},
		{"full", 3, []float64{1, 2, 3}, []float64{1, 2, 3}, 3, 3},
		{"overflow", 3, []float64{1, 9, 3, 4}, []float64{9, 3, 4}, 4, 9},
		{"overflow drops max", 2, []float64{50, 1, 2}, []float64{1, 2}, 2, 2},
		{"zero capacity", 0, []float64{7, 8}, []float64{8}, 8, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb := NewRingBuffer(tt.capacity)
			for _, v := range tt.push {
				rb.Push(v)
			}
			if diff := cmp.Diff(tt.want, rb.Slice()); diff != "" {
				t.Errorf("Slice() mismatch (-want +got):\n%s", diff)
			}
			if rb.Len() != len(tt.want) {
				t.Errorf("Len() = %d, want %d", rb.Len(), len(tt.want))
			}
			if rb.Last() != tt.last {
				t.Errorf("Last() = %f, want %f", rb.Last(), tt.last)
			}
			if rb.Max() != tt.max {
				t.Errorf("Max() = %f, want %f", rb.Max(), tt.max)
			}
		})
	}
}

func TestRingBuffer_Resize(t *testing.T) {
	tests := []struct {
		name   string
		newCap int
		want   []float64
	}{
		{"grow", 6, []float64{2, 3, 4}},
		{"same", 3, []float64{2, 3, 4}},
		{"shrink keeps newest", 2, []float64{3, 4}},
		{"non-positive", -1, []float64{4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb := NewRingBuffer(3)
			for _, v := range []float64{1, 2, 3, 4} {
				rb.Push(v)
			}
			rb.Resize(tt.newCap)
			if diff := cmp.Diff(tt.want, rb.Slice()); diff != "" {
				t.Errorf("Slice() after Resize(%d) mismatch (-want +got):\n%s", tt.newCap, diff)
			}
			if want := max(tt.newCap, 1); rb.Cap() != want {
				t.Errorf("Cap() = %d, want %d", rb.Cap(), want)
			}
		})
	}
}

func TestRingBuffer_Reset(t *testing.T) {
	rb := NewRingBuffer(3)
	rb.Push(1)
	rb.Push(2)
	rb.Reset()
	if rb.Len() != 0 || rb.Slice() != nil {
		t.Error("expected an empty buffer after Reset")
	}
	rb.Push(5)
	if diff := cmp.Diff([]float64{5}, rb.Slice()); diff != "" {
		t.Errorf("Slice() after reuse mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   string
	}{
		{"empty", nil, ""},
		{"zeros", []float64{0, 0, 0}, "▁▁▁"},
		{"full", []float64{100, 100}, "██"},
		{"gradient", []float64{0, 50, 100}, "▁▄█"},
		{"clamped", []float64{-10, 150}, "▁█"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderSparkline(tt.values); got != tt.want {
				t.Errorf("RenderSparkline(%v) = %q, want %q", tt.values, got, tt.want)
			}
		})
	}
}

func TestRenderBrailleChart(t *testing.T) {
	if RenderBrailleChart(nil, 10, 2) != nil {
		t.Error("expected nil for no values")
	}
	if RenderBrailleChart([]float64{1}, 0, 2) != nil {
		t.Error("expected nil for zero width")
	}

	lines := RenderBrailleChart([]float64{0, 100}, 3, 2)
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(lines))
	}
	for _, l := range lines {
		if n := utf8.RuneCountInString(l); n != 3 {
			t.Errorf("expected 3 cells per row, got %d", n)
		}
	}
	// Two samples share the rightmost cell: the maximum in the top row and
	// the minimum in the bottom row.
	if lines[0] != "⠀⠀⠈" {
		t.Errorf("top row = %q", lines[0])
	}
	if lines[1] != "⠀⠀⡀" {
		t.Errorf("bottom row = %q", lines[1])
	}
}

func TestRenderBrailleChart_KeepsNewest(t *testing.T) {
	values := make([]float64, 50)
	values[len(values)-1] = 100
	lines := RenderBrailleChart(values, 4, 1)
	cells := []rune(lines[0])
	if got := cells[len(cells)-1]; got != brailleBlank|0x40|0x08 {
		t.Errorf("last cell = %U, want the newest peak next to a baseline dot", got)
	}
}
