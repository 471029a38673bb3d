package tui

// sparkBlocks maps levels 0..7 to the Unicode lower block elements.
var sparkBlocks = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RingBuffer keeps the most recent samples of a series, oldest overwritten
// first.
type RingBuffer struct {
	data  []float64
	head  int
	count int
}

// NewRingBuffer creates a buffer holding up to capacity samples. A
// non-positive capacity is raised to one.
func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{data: make([]float64, max(capacity, 1))}
}

// Push appends a sample.
func (r *RingBuffer) Push(v float64) {
	r.data[r.head] = v
	r.head = (r.head + 1) % len(r.data)
	r.count = min(r.count+1, len(r.data))
}

// Len returns the number of samples held.
func (r *RingBuffer) Len() int { return r.count }

// Cap returns the buffer capacity.
func (r *RingBuffer) Cap() int { return len(r.data) }

// Last returns the newest sample, or 0 when empty.
func (r *RingBuffer) Last() float64 {
	if r.count == 0 {
		return 0
	}
	return r.data[(r.head-1+len(r.data))%len(r.data)]
}

// Max returns the largest sample held, or 0 when empty.
func (r *RingBuffer) Max() float64 {
	if r.count == 0 {
		return 0
	}
	best := r.Last()
	for _, v := range r.Slice() {
		best = max(best, v)
	}
	return best
}

// Slice returns a copy of the samples, oldest first.
func (r *RingBuffer) Slice() []float64 {
	if r.count == 0 {
		return nil
	}
	out := make([]float64, r.count)
	start := (r.head - r.count + len(r.data)) % len(r.data)
	for i := range out {
		out[i] = r.data[(start+i)%len(r.data)]
	}
	return out
}

// Resize changes the capacity, keeping the newest samples that fit.
func (r *RingBuffer) Resize(newCap int) {
	newCap = max(newCap, 1)
	if newCap == len(r.data) {
		return
	}
	old := r.Slice()
	if len(old) > newCap {
		old = old[len(old)-newCap:]
	}
	r.data = make([]float64, newCap)
	r.head, r.count = 0, 0
	for _, v := range old {
		r.Push(v)
	}
}

// Reset drops all samples.
func (r *RingBuffer) Reset() {
	r.head, r.count = 0, 0
}

// clampPercent limits v to [0, 100].
func clampPercent(v float64) float64 {
	return min(max(v, 0), 100)
}

// RenderSparkline draws percentages (0..100) as one row of block elements.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	runes := make([]rune, len(values))
	for i, v := range values {
		runes[i] = sparkBlocks[min(int(clampPercent(v)/100*7), 7)]
	}
	return string(runes)
}

// brailleDots holds the bit of each dot of a braille cell, indexed by dot
// column (0..1) and dot row (0..3). A cell is U+2800 plus its dot bits.
var brailleDots = [2][4]rune{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

const brailleBlank = 0x2800

// RenderBrailleChart plots percentages (0..100) as a dot chart of rows text
// lines and width cells. Each cell holds two samples, so the newest
// 2*width values are drawn, right-aligned.
func RenderBrailleChart(values []float64, width, rows int) []string {
	if width <= 0 || rows <= 0 || len(values) == 0 {
		return nil
	}

	dotRows := rows * 4
	dotCols := width * 2
	if len(values) > dotCols {
		values = values[len(values)-dotCols:]
	}
	offset := dotCols - len(values)

	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = make([]rune, width)
		for c := range grid[r] {
			grid[r][c] = brailleBlank
		}
	}

	for i, v := range values {
		dotCol := offset + i
		// Row 0 is the top of the chart.
		dotRow := dotRows - 1 - int(clampPercent(v)/100*float64(dotRows-1))
		dotRow = min(max(dotRow, 0), dotRows-1)
		grid[dotRow/4][dotCol/2] |= brailleDots[dotCol%2][dotRow%4]
	}

	lines := make([]string, rows)
	for r := range grid {
		lines[r] = string(grid[r])
	}
	return lines
}
