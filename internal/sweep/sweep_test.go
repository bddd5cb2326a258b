package sweep

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"wildfire-ca/internal/sims/forestfire"
	"wildfire-ca/internal/telemetry"
)

func smallPlan() Plan {
	base := forestfire.DefaultConfig()
	base.Width, base.Height = 12, 12
	base.Growth = 0
	base.LightningEnabled = false
	base.InitTreeDensity = 1
	base.FlammDecid = 1
	base.FlammConif = 1
	return Plan{
		Base:          base,
		Humidities:    []float64{0, 1},
		WindStrengths: []float64{0},
		Seeds:         []int64{1, 2},
		Steps:         50,
		Workers:       2,
	}
}

func TestScenarios(t *testing.T) {
	Convey("Scenarios expand humidity, then wind, then seed", t, func() {
		p := Plan{
			Humidities:    []float64{0.1, 0.2},
			WindStrengths: []float64{0, 1},
			Seeds:         []int64{7, 8, 9},
		}
		sc := p.Scenarios()
		So(len(sc), ShouldEqual, 12)
		So(sc[0], ShouldResemble, Scenario{Humidity: 0.1, WindStrength: 0, Seed: 7})
		So(sc[3], ShouldResemble, Scenario{Humidity: 0.1, WindStrength: 1, Seed: 7})
		So(sc[11], ShouldResemble, Scenario{Humidity: 0.2, WindStrength: 1, Seed: 9})
	})

	Convey("An empty plan is rejected", t, func() {
		_, err := Run(context.Background(), Plan{})
		So(errors.Is(err, ErrNoScenarios), ShouldBeTrue)
	})
}

func TestRun(t *testing.T) {
	Convey("Given a dense forest and certain spread", t, func() {
		p := smallPlan()
		results, err := Run(context.Background(), p)
		So(err, ShouldBeNil)
		So(len(results), ShouldEqual, 4)

		Convey("Dry runs burn the whole forest", func() {
			for _, r := range results[:2] {
				So(r.Humidity, ShouldEqual, 0)
				So(r.InitialVegetation, ShouldEqual, 144)
				So(r.BurnedFraction, ShouldEqual, 1)
				So(r.BurnoutStep, ShouldBeGreaterThan, 0)
			}
		})

		Convey("Saturated runs only burn the cell lit at start", func() {
			for _, r := range results[2:] {
				So(r.Humidity, ShouldEqual, 1)
				So(r.Summary.TotalIgnite, ShouldEqual, 1)
				So(r.BurnoutStep, ShouldEqual, 1)
			}
		})

		Convey("Results flatten to CSV rows", func() {
			var buf bytes.Buffer
			So(WriteCSV(&buf, results), ShouldBeNil)
			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			So(len(lines), ShouldEqual, 5)
			So(lines[0], ShouldStartWith, "humidity,wind_strength,seed")
			So(Rows(results)[3].Seed, ShouldEqual, 2)
		})

		Convey("Runs are reproducible", func() {
			again, err := Run(context.Background(), p)
			So(err, ShouldBeNil)
			So(again, ShouldResemble, results)
		})
	})

	Convey("A cancelled context stops the sweep", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Run(ctx, smallPlan())
		So(errors.Is(err, context.Canceled), ShouldBeTrue)
	})

	Convey("An invalid base size is reported", t, func() {
		p := smallPlan()
		p.Base.Width = 0
		_, err := Run(context.Background(), p)
		So(errors.Is(err, forestfire.ErrInvalidSize), ShouldBeTrue)
	})
}

func TestSummarize(t *testing.T) {
	Convey("Given results for two settings", t, func() {
		results := []Result{
			{Scenario: Scenario{Humidity: 0, WindStrength: 1, Seed: 1}, BurnedFraction: 0.2, BurnoutStep: 5, Summary: telemetry.Summary{PeakBurning: 10}},
			{Scenario: Scenario{Humidity: 0, WindStrength: 1, Seed: 2}, BurnedFraction: 0.4, BurnoutStep: -1, Summary: telemetry.Summary{PeakBurning: 20}},
			{Scenario: Scenario{Humidity: 0, WindStrength: 1, Seed: 3}, BurnedFraction: 0.6, BurnoutStep: 9, Summary: telemetry.Summary{PeakBurning: 30}},
			{Scenario: Scenario{Humidity: 0.5, WindStrength: 0, Seed: 1}, BurnedFraction: 0.1, BurnoutStep: 2},
		}
		aggs := Summarize(results)
		So(len(aggs), ShouldEqual, 2)

		a := aggs[0]
		So(a.Runs, ShouldEqual, 3)
		So(a.MeanBurned, ShouldAlmostEqual, 0.4)
		So(a.StdBurned, ShouldAlmostEqual, 0.2)
		So(a.MedianBurned, ShouldAlmostEqual, 0.4)
		So(a.MinBurned, ShouldEqual, 0.2)
		So(a.MaxBurned, ShouldEqual, 0.6)
		So(a.MeanPeak, ShouldAlmostEqual, 20)
		So(a.BurnedOut, ShouldEqual, 2)

		Convey("A single run has zero spread", func() {
			So(aggs[1].Runs, ShouldEqual, 1)
			So(aggs[1].StdBurned, ShouldEqual, 0)
			So(aggs[1].MedianBurned, ShouldEqual, 0.1)
		})

		Convey("The table lists every setting", func() {
			var buf bytes.Buffer
			So(WriteTable(&buf, aggs), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "humidity")
			So(buf.String(), ShouldContainSubstring, "2/3")
		})
	})
}
