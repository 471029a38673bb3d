package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/agbru/bigcalc/internal/format"
)

const (
	// sysHistoryCap is the initial number of host samples kept.
	sysHistoryCap = 60
	// minSparklineHeight is the panel height below which the host
	// sparklines are hidden.
	minSparklineHeight = 8
	// sparklineLabelWidth is the room taken by "CPU " and " 100.0%".
	sparklineLabelWidth = 11
)

// ChartModel shows batch progress, recent evaluation times and host load.
type ChartModel struct {
	progress   float64
	eta        time.Duration
	completed  int
	total      int
	batch      bool
	durations  *RingBuffer // evaluation times in seconds
	cpuHistory *RingBuffer
	memHistory *RingBuffer
	lastCPU    float64
	lastMem    float64
	width      int
	height     int
}

// NewChartModel creates an empty chart panel.
func NewChartModel() ChartModel {
	return ChartModel{
		durations:  NewRingBuffer(sysHistoryCap),
		cpuHistory: NewRingBuffer(sysHistoryCap),
		memHistory: NewRingBuffer(sysHistoryCap),
	}
}

// SetSize updates dimensions and resizes the sample buffers to the width.
func (c *ChartModel) SetSize(w, h int) {
	c.width = w
	c.height = h
	inner := max(c.innerWidth(), 1)
	c.cpuHistory.Resize(max(inner-sparklineLabelWidth, 1))
	c.memHistory.Resize(max(inner-sparklineLabelWidth, 1))
	c.durations.Resize(inner * 2)
}

func (c ChartModel) innerWidth() int {
	return c.width - 4
}

// StartBatch shows the progress bar for a batch of total expressions.
func (c *ChartModel) StartBatch(total int) {
	c.batch = true
	c.total = total
	c.completed = 0
	c.progress = 0
	c.eta = 0
}

// UpdateProgress records batch progress.
func (c *ChartModel) UpdateProgress(msg ProgressMsg) {
	c.completed = msg.Completed
	c.total = msg.Total
	c.progress = msg.Progress
	c.eta = msg.ETA
}

// EndBatch hides the progress bar.
func (c *ChartModel) EndBatch() {
	c.batch = false
}

// AddDuration records an evaluation time.
func (c *ChartModel) AddDuration(d time.Duration) {
	c.durations.Push(d.Seconds())
}

// scaledDurations maps the recorded times onto the chart's logarithmic
// axis, from 1µs (bottom) to 100s (top).
func (c ChartModel) scaledDurations() []float64 {
	secs := c.durations.Slice()
	for i, s := range secs {
		secs[i] = durationScale(time.Duration(s * float64(time.Second)))
	}
	return secs
}

func durationScale(d time.Duration) float64 {
	us := float64(d) / float64(time.Microsecond)
	if us <= 1 {
		return 0
	}
	v := math.Log10(us) / 8 * 100
	return min(v, 100)
}

// UpdateSysStats records a host CPU and memory sample.
func (c *ChartModel) UpdateSysStats(cpuPct, memPct float64) {
	c.lastCPU = cpuPct
	c.lastMem = memPct
	c.cpuHistory.Push(cpuPct)
	c.memHistory.Push(memPct)
}

// Reset clears all samples.
func (c *ChartModel) Reset() {
	c.batch = false
	c.progress = 0
	c.eta = 0
	c.durations.Reset()
	c.cpuHistory.Reset()
	c.memHistory.Reset()
}

// renderProgressBar renders the batch progress line for the given width.
func (c ChartModel) renderProgressBar(width int) string {
	label := fmt.Sprintf(" %d/%d", c.completed, c.total)
	barWidth := width - len(label) - 10
	if barWidth < 4 {
		return ""
	}
	bar := format.ProgressBar(c.progress, barWidth)
	filled := strings.Count(bar, "█")
	return chartBarStyle.Render(strings.Repeat("█", filled)) +
		chartEmptyStyle.Render(strings.Repeat("░", barWidth-filled)) +
		fmt.Sprintf(" %5.1f%%", c.progress*100) + label
}

// View renders the chart panel.
func (c ChartModel) View() string {
	inner := max(c.innerWidth(), 1)
	var lines []string

	title := titleStyle.Render(" Evaluation Time ")
	if c.durations.Len() > 0 {
		slowest := time.Duration(c.durations.Max() * float64(time.Second))
		title += dimStyle.Render(" slowest " + format.FormatExecutionDuration(slowest))
	}
	lines = append(lines, title)
	chartRows := max(c.height-2-3, 1)
	if c.batch {
		chartRows--
	}
	if c.height >= minSparklineHeight {
		chartRows -= 2
	}
	chartRows = max(chartRows, 1)

	if c.durations.Len() == 0 {
		lines = append(lines, chartEmptyStyle.Render("no evaluations yet"))
		for range chartRows - 1 {
			lines = append(lines, "")
		}
	} else {
		for _, row := range RenderBrailleChart(c.scaledDurations(), inner, chartRows) {
			lines = append(lines, chartBarStyle.Render(row))
		}
	}

	if c.batch {
		bar := c.renderProgressBar(inner)
		lines = append(lines, bar+"  "+metricLabelStyle.Render("ETA: ")+metricValueStyle.Render(format.FormatETA(c.eta)))
	}

	if c.height >= minSparklineHeight {
		lines = append(lines,
			fmt.Sprintf("%s %s %s",
				metricLabelStyle.Render("CPU"),
				cpuSparklineStyle.Render(RenderSparkline(c.cpuHistory.Slice())),
				metricValueStyle.Render(fmt.Sprintf("%5.1f%%", c.lastCPU))),
			fmt.Sprintf("%s %s %s",
				metricLabelStyle.Render("MEM"),
				memSparklineStyle.Render(RenderSparkline(c.memHistory.Slice())),
				metricValueStyle.Render(fmt.Sprintf("%5.1f%%", c.lastMem))),
		)
	}

	return panelStyle.
		Width(max(c.width-2, 0)).
		Height(max(c.height-2, 0)).
		Render(strings.Join(lines, "\n"))
}
