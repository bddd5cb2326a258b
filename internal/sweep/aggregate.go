package sweep

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"text/tabwriter"

	"gonum.org/v1/gonum/stat"
)

// Aggregate summarises every seed run at one weather setting.
type Aggregate struct {
	Humidity     float64
	WindStrength float64
	Runs         int

	MeanBurned   float64
	StdBurned    float64
	MedianBurned float64
	MinBurned    float64
	MaxBurned    float64

	MeanPeak float64
	// BurnedOut counts runs whose fire died before the step limit.
	BurnedOut int
}

type settingKey struct {
	humidity, wind float64
}

// Summarize groups results by (humidity, wind strength) and computes the
// spread of outcomes across seeds. Groups keep the order of first appearance.
func Summarize(results []Result) []Aggregate {
	var order []settingKey
	burned := map[settingKey][]float64{}
	peaks := map[settingKey][]float64{}
	out := map[settingKey]int{}
	for _, r := range results {
		k := settingKey{r.Humidity, r.WindStrength}
		if _, ok := burned[k]; !ok {
			order = append(order, k)
		}
		burned[k] = append(burned[k], r.BurnedFraction)
		peaks[k] = append(peaks[k], float64(r.Summary.PeakBurning))
		if r.BurnoutStep >= 0 {
			out[k]++
		}
	}

	aggs := make([]Aggregate, 0, len(order))
	for _, k := range order {
		xs := burned[k]
		mean, std := stat.MeanStdDev(xs, nil)
		if len(xs) < 2 {
			std = 0
		}
		sorted := append([]float64(nil), xs...)
		sort.Float64s(sorted)
		aggs = append(aggs, Aggregate{
			Humidity:     k.humidity,
			WindStrength: k.wind,
			Runs:         len(xs),
			MeanBurned:   mean,
			StdBurned:    std,
			MedianBurned: stat.Quantile(0.5, stat.Empirical, sorted, nil),
			MinBurned:    sorted[0],
			MaxBurned:    sorted[len(sorted)-1],
			MeanPeak:     stat.Mean(peaks[k], nil),
			BurnedOut:    out[k],
		})
	}
	return aggs
}

// LogValue implements slog.LogValuer for structured logging.
func (a Aggregate) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("humidity", a.Humidity),
		slog.Float64("wind_strength", a.WindStrength),
		slog.Int("runs", a.Runs),
		slog.Float64("mean_burned", a.MeanBurned),
		slog.Float64("std_burned", a.StdBurned),
		slog.Float64("median_burned", a.MedianBurned),
		slog.Float64("mean_peak", a.MeanPeak),
	)
}

// WriteTable prints aggregates as an aligned text table.
func WriteTable(w io.Writer, aggs []Aggregate) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "humidity\twind\truns\tburned(mean)\tstd\tmedian\tmin\tmax\tpeak fire\tburnt out")
	for _, a := range aggs {
		fmt.Fprintf(tw, "%.2f\t%.2f\t%d\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.1f\t%d/%d\n",
			a.Humidity, a.WindStrength, a.Runs, a.MeanBurned, a.StdBurned, a.MedianBurned,
			a.MinBurned, a.MaxBurned, a.MeanPeak, a.BurnedOut, a.Runs)
	}
	return tw.Flush()
}
