package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/typetest/internal/model"
)

const sparkChars = " .:-=+*#%@"

// FormatDuration renders whole seconds as m:ss.
func FormatDuration(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[min(max(idx, 0), len(sparkChars)-1)])
	}
	return b.String()
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		den := float64(i + 1)
		if i >= window {
			sum -= values[i-window]
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// SampleSeries splits samples into WPM and error series.
func SampleSeries(samples []model.PerformanceSample) (wpm, errs []float64) {
	wpm = make([]float64, len(samples))
	errs = make([]float64, len(samples))
	for i, s := range samples {
		wpm[i] = float64(s.WPM)
		errs[i] = float64(s.Errors)
	}
	return wpm, errs
}

// PerformanceDomains returns the chart ranges for WPM and errors: WPM spans
// at least 0-70 and rounds up to the next ten above the peak plus ten;
// errors span at least 0-2.
func PerformanceDomains(samples []model.PerformanceSample) (wpmMax, errMax float64) {
	peakWPM, peakErr := 60, 1
	for _, s := range samples {
		peakWPM = max(peakWPM, s.WPM)
		peakErr = max(peakErr, s.Errors)
	}
	wpmMax = math.Ceil(float64(peakWPM+10)/10) * 10
	errMax = float64(peakErr + 1)
	return wpmMax, errMax
}

// RenderResults prints the final metrics of a session.
func RenderResults(w io.Writer, m model.Metrics) error {
	if _, err := fmt.Fprintln(w, "Results"); err != nil {
		return err
	}
	tbl := newTable(column{}, column{right: true})
	tbl.add("WPM", fmt.Sprintf("%d", m.WPM))
	tbl.add("Raw WPM", fmt.Sprintf("%d", m.RawWPM))
	tbl.add("Accuracy", fmt.Sprintf("%.1f%%", m.Accuracy))
	tbl.add("Time", FormatDuration(m.ElapsedSeconds))
	tbl.add("Keystrokes", fmt.Sprintf("%d", m.Keystrokes))
	tbl.add("Errors", fmt.Sprintf("%d", m.Errors))
	if err := tbl.write(w); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderSampleTable prints one row per word boundary.
func RenderSampleTable(w io.Writer, samples []model.PerformanceSample) error {
	if len(samples) == 0 {
		_, err := fmt.Fprintln(w, "No performance data available.")
		return err
	}
	tbl := newTable(
		column{"Word", true},
		column{"WPM", true},
		column{"Raw", true},
		column{"Errors", true},
	)
	for _, s := range samples {
		tbl.add(
			fmt.Sprintf("%d", s.WordIndex),
			fmt.Sprintf("%d", s.WPM),
			fmt.Sprintf("%d", s.RawWPM),
			fmt.Sprintf("%d", s.Errors),
		)
	}
	return tbl.write(w)
}

// RenderPerformance plots WPM and errors per word.
func RenderPerformance(w io.Writer, samples []model.PerformanceSample, totalWidth, height int, useColor bool) error {
	if len(samples) == 0 {
		_, err := fmt.Fprintln(w, "No performance data available to display graph.")
		return err
	}
	wpm, errs := SampleSeries(samples)
	wpmMax, errMax := PerformanceDomains(samples)
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeries(w, "Performance", []Series{
		{Name: "WPM", Values: wpm, Min: 0, Max: wpmMax},
		{Name: "Errors per word", Values: errs, Min: 0, Max: errMax},
	}, width, height, useColor)
}
