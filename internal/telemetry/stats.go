// Package telemetry turns grid snapshots into per-step statistics and writes
// them out as CSV.
package telemetry

import (
	"log/slog"

	"wildfire-ca/internal/sims/forestfire"
)

// StepStats summarises the grid after one step.
type StepStats struct {
	Step      int `csv:"step"`
	Empty     int `csv:"empty"`
	Deciduous int `csv:"deciduous"`
	Conifer   int `csv:"conifer"`
	Burning   int `csv:"burning"`
	Barrier   int `csv:"barrier"`

	// Ignited counts cells burning now that were not burning in the previous
	// snapshot. Every burning cell is new since fires last one step, except
	// for manual ignitions between snapshots.
	Ignited int `csv:"ignited"`
	// Burnt counts trees from the previous snapshot that are gone now.
	Burnt int `csv:"burnt"`
	// Grown counts empty cells from the previous snapshot that hold a tree.
	Grown int `csv:"grown"`

	Density     float64 `csv:"density"`
	FireDensity float64 `csv:"fire_density"`
}

// Collect computes stats for cur, using prev to derive the transitions. A
// zero prev (or one of a different size) yields zero transition counts.
func Collect(cur, prev forestfire.GridView) StepStats {
	census := cur.Census()
	s := StepStats{
		Step:      cur.Step(),
		Empty:     census.Empty,
		Deciduous: census.Deciduous,
		Conifer:   census.Conifer,
		Burning:   census.Burning,
		Barrier:   census.Barrier,
	}
	if total := census.Total(); total > 0 {
		s.Density = float64(census.Vegetation()) / float64(total)
		s.FireDensity = float64(census.Burning) / float64(total)
	}

	if prev.Width() != cur.Width() || prev.Height() != cur.Height() {
		return s
	}
	for r := 0; r < cur.Height(); r++ {
		for c := 0; c < cur.Width(); c++ {
			before, after := prev.At(r, c), cur.At(r, c)
			switch {
			case after == forestfire.Burning && before != forestfire.Burning:
				s.Ignited++
			case before.IsVegetation() && !after.IsVegetation() && after != forestfire.Burning:
				s.Burnt++
			case before == forestfire.Empty && after.IsVegetation():
				s.Grown++
			}
		}
	}
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s StepStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("step", s.Step),
		slog.Int("empty", s.Empty),
		slog.Int("deciduous", s.Deciduous),
		slog.Int("conifer", s.Conifer),
		slog.Int("burning", s.Burning),
		slog.Int("barrier", s.Barrier),
		slog.Int("ignited", s.Ignited),
		slog.Int("grown", s.Grown),
		slog.Float64("density", s.Density),
	)
}

// Summary accumulates stats over a whole run.
type Summary struct {
	Steps       int
	PeakBurning int
	PeakStep    int
	TotalIgnite int
	TotalGrown  int
	// FinalDensity is the vegetation density after the last recorded step.
	FinalDensity float64
}

// Add folds one step into the summary.
func (sum *Summary) Add(s StepStats) {
	sum.Steps++
	if s.Burning > sum.PeakBurning {
		sum.PeakBurning = s.Burning
		sum.PeakStep = s.Step
	}
	sum.TotalIgnite += s.Ignited
	sum.TotalGrown += s.Grown
	sum.FinalDensity = s.Density
}

// LogValue implements slog.LogValuer for structured logging.
func (sum Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("steps", sum.Steps),
		slog.Int("peak_burning", sum.PeakBurning),
		slog.Int("peak_step", sum.PeakStep),
		slog.Int("total_ignited", sum.TotalIgnite),
		slog.Int("total_grown", sum.TotalGrown),
		slog.Float64("final_density", sum.FinalDensity),
	)
}
