package utils

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Verbose controls whether timing statistics are printed.
// Set to false to suppress output.
var Verbose = true

// Output is the writer where timing statistics are printed.
// Defaults to os.Stdout.
var Output io.Writer = os.Stdout

// TimingStats holds timing information for one inference run.
type TimingStats struct {
	TotalTime       time.Duration
	ModelLoadTime   time.Duration
	DataLoadingTime time.Duration
	PredictTime     time.Duration // row-by-row Predict calls
	BatchTime       time.Duration // PredictBatch calls
}

// Track adds the time elapsed since start to d.
func Track(d *time.Duration, start time.Time) {
	*d += time.Since(start)
}

func percent(part, whole time.Duration) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// PrintTimingStats prints detailed timing statistics for rows predictions.
// Respects the Verbose flag - does nothing if Verbose is false.
func PrintTimingStats(stats *TimingStats, rows int) {
	if !Verbose {
		return
	}
	fmt.Fprintln(Output, "\n=== TIMING STATISTICS ===")
	fmt.Fprintf(Output, "Total time: %v\n", stats.TotalTime)
	fmt.Fprintf(Output, "Rows predicted: %d\n", rows)
	fmt.Fprintln(Output, "\nBreakdown by operation:")
	fmt.Fprintf(Output, "  Model loading: %v (%.1f%%)\n", stats.ModelLoadTime, percent(stats.ModelLoadTime, stats.TotalTime))
	fmt.Fprintf(Output, "  Data loading: %v (%.1f%%)\n", stats.DataLoadingTime, percent(stats.DataLoadingTime, stats.TotalTime))
	fmt.Fprintf(Output, "  Predict: %v (%.1f%%)\n", stats.PredictTime, percent(stats.PredictTime, stats.TotalTime))
	fmt.Fprintf(Output, "  PredictBatch: %v (%.1f%%)\n", stats.BatchTime, percent(stats.BatchTime, stats.TotalTime))
	if rows > 0 {
		fmt.Fprintln(Output, "\nPerformance metrics:")
		fmt.Fprintf(Output, "  Average Predict time per row: %v\n", stats.PredictTime/time.Duration(rows))
		fmt.Fprintf(Output, "  Average PredictBatch time per row: %v\n", stats.BatchTime/time.Duration(rows))
	}
}

// DurationUS converts any time.Duration to micro-seconds as float64
func DurationUS(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1_000.0
}
