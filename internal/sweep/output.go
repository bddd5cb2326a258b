package sweep

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// ResultRow is the flat CSV form of a Result.
type ResultRow struct {
	Humidity          float64 `csv:"humidity"`
	WindStrength      float64 `csv:"wind_strength"`
	Seed              int64   `csv:"seed"`
	InitialVegetation int     `csv:"initial_vegetation"`
	Ignited           int     `csv:"ignited"`
	BurnedFraction    float64 `csv:"burned_fraction"`
	PeakBurning       int     `csv:"peak_burning"`
	PeakStep          int     `csv:"peak_step"`
	BurnoutStep       int     `csv:"burnout_step"`
	Steps             int     `csv:"steps"`
}

// Rows flattens results for CSV output.
func Rows(results []Result) []ResultRow {
	rows := make([]ResultRow, len(results))
	for i, r := range results {
		rows[i] = ResultRow{
			Humidity:          r.Humidity,
			WindStrength:      r.WindStrength,
			Seed:              r.Seed,
			InitialVegetation: r.InitialVegetation,
			Ignited:           r.Summary.TotalIgnite,
			BurnedFraction:    r.BurnedFraction,
			PeakBurning:       r.Summary.PeakBurning,
			PeakStep:          r.Summary.PeakStep,
			BurnoutStep:       r.BurnoutStep,
			Steps:             r.Summary.Steps,
		}
	}
	return rows
}

// WriteCSV writes one row per result, with a header.
func WriteCSV(w io.Writer, results []Result) error {
	if err := gocsv.Marshal(Rows(results), w); err != nil {
		return fmt.Errorf("writing sweep results: %w", err)
	}
	return nil
}
