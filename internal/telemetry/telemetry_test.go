package telemetry

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"wildfire-ca/internal/sims/forestfire"
)

// denseForest is fully vegetated with every random source off except spread,
// which always succeeds.
func denseForest(w, h int) forestfire.Config {
	cfg := forestfire.DefaultConfig()
	cfg.Width, cfg.Height = w, h
	cfg.Growth = 0
	cfg.LightningEnabled = false
	cfg.InitTreeDensity = 1
	cfg.ConiferRatio = 0
	cfg.FlammDecid = 1
	cfg.FlammConif = 1
	cfg.Seed = forestfire.SeedValue(3)
	return cfg
}

func TestCollect(t *testing.T) {
	Convey("Given a dense 3x3 forest with a fire in the centre", t, func() {
		e, err := forestfire.New(denseForest(3, 3))
		So(err, ShouldBeNil)
		e.Ignite(1, 1)
		prev := e.Grid()

		Convey("The snapshot itself has one burning cell", func() {
			s := Collect(prev, forestfire.GridView{})
			So(s.Burning, ShouldEqual, 1)
			So(s.Deciduous, ShouldEqual, 8)
			So(s.Ignited, ShouldEqual, 0)
			So(s.Density, ShouldAlmostEqual, 8.0/9.0)
			So(s.FireDensity, ShouldAlmostEqual, 1.0/9.0)
		})

		Convey("One step ignites every neighbour and burns out the centre", func() {
			cur := e.Step()
			s := Collect(cur, prev)
			So(s.Step, ShouldEqual, 1)
			So(s.Burning, ShouldEqual, 8)
			So(s.Empty, ShouldEqual, 1)
			So(s.Ignited, ShouldEqual, 8)
			So(s.Burnt, ShouldEqual, 0)
			So(s.Grown, ShouldEqual, 0)
			So(s.Density, ShouldEqual, 0)
		})

		Convey("The following step burns everything out", func() {
			first := e.Step()
			s := Collect(e.Step(), first)
			So(s.Empty, ShouldEqual, 9)
			So(s.Burning, ShouldEqual, 0)
			So(s.Ignited, ShouldEqual, 0)
		})
	})

	Convey("A summary tracks the peak fire", t, func() {
		var sum Summary
		sum.Add(StepStats{Step: 1, Burning: 3, Ignited: 3, Density: 0.5})
		sum.Add(StepStats{Step: 2, Burning: 7, Ignited: 7, Grown: 2, Density: 0.4})
		sum.Add(StepStats{Step: 3, Burning: 1, Ignited: 1, Density: 0.3})
		So(sum.Steps, ShouldEqual, 3)
		So(sum.PeakBurning, ShouldEqual, 7)
		So(sum.PeakStep, ShouldEqual, 2)
		So(sum.TotalIgnite, ShouldEqual, 11)
		So(sum.TotalGrown, ShouldEqual, 2)
		So(sum.FinalDensity, ShouldEqual, 0.3)
	})
}

func TestRecorder(t *testing.T) {
	Convey("Given a recorder writing to a buffer", t, func() {
		var buf bytes.Buffer
		rec := NewRecorder(&buf)

		Convey("The header is written exactly once", func() {
			So(rec.Write(StepStats{Step: 1, Burning: 2}), ShouldBeNil)
			So(rec.Write(StepStats{Step: 2, Burning: 5}), ShouldBeNil)

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			So(len(lines), ShouldEqual, 3)
			So(lines[0], ShouldStartWith, "step,empty,deciduous")
			So(strings.Count(buf.String(), "step,"), ShouldEqual, 1)

			rows, err := ReadStats(strings.NewReader(buf.String()))
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 2)
			So(rows[1].Burning, ShouldEqual, 5)
		})
	})

	Convey("A nil recorder discards rows", t, func() {
		rec, err := CreateRecorder("")
		So(err, ShouldBeNil)
		So(rec, ShouldBeNil)
		So(rec.Write(StepStats{}), ShouldBeNil)
		So(rec.Close(), ShouldBeNil)
	})

	Convey("CreateRecorder makes missing directories", t, func() {
		path := filepath.Join(t.TempDir(), "runs", "a", "stats.csv")
		rec, err := CreateRecorder(path)
		So(err, ShouldBeNil)
		So(rec.Write(StepStats{Step: 1}), ShouldBeNil)
		So(rec.Close(), ShouldBeNil)
	})
}
