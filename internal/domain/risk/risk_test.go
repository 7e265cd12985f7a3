package risk_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/codecraftersknust/results-analytics-engine/internal/domain/model"
	"github.com/codecraftersknust/results-analytics-engine/internal/domain/risk"
)

func history(student string, scores ...float64) []model.NormalizedRecord {
	recs := make([]model.NormalizedRecord, len(scores))
	for i, s := range scores {
		recs[i] = model.NormalizedRecord{
			StudentID: student,
			TimeIndex: i + 1,
			Subject:   "Math",
			Score:     s,
		}
	}
	return recs
}

func TestAssess(t *testing.T) {
	ctx := context.Background()

	Convey("Given a steady high performer", t, func() {
		d := risk.New(history("S001", 85, 86, 84, 87))

		Convey("When assessed", func() {
			res := d.Assess(ctx, "S001")

			Convey("Then the risk is low with no factors", func() {
				So(res.Level, ShouldEqual, model.LevelLow)
				So(res.Probability, ShouldEqual, 0.0)
				So(res.Factors, ShouldBeEmpty)
				So(res.TimeIndex, ShouldEqual, 4)
			})
		})
	})

	Convey("Given a student failing on every signal", t, func() {
		// Low average, steep decline, high variance, and an over-10-point
		// drop in the last period.
		d := risk.New(history("S001", 70, 55, 40, 25))

		Convey("When assessed", func() {
			res := d.Assess(ctx, "S001")

			Convey("Then the probability is capped at 0.95 and the level is critical", func() {
				So(res.Probability, ShouldEqual, 0.95)
				So(res.Level, ShouldEqual, model.LevelCritical)
				So(res.Factors, ShouldContain, risk.FactorLowAverage)
				So(res.Factors, ShouldContain, risk.FactorSteepDecline)
				So(res.Factors, ShouldContain, risk.FactorHighVariance)
				So(res.Factors, ShouldContain, risk.FactorSuddenDrop)
			})
		})
	})

	Convey("Given a low average with otherwise stable scores", t, func() {
		d := risk.New(history("S001", 45, 45, 45))

		Convey("Then only the low-average factor triggers", func() {
			res := d.Assess(ctx, "S001")
			So(res.Probability, ShouldEqual, 0.4)
			So(res.Level, ShouldEqual, model.LevelLow)
			So(res.Factors, ShouldResemble, []string{risk.FactorLowAverage})
		})
	})

	Convey("Given a weak but not low average", t, func() {
		d := risk.New(history("S001", 55, 55, 55))

		Convey("Then risk accrues without a recorded factor", func() {
			res := d.Assess(ctx, "S001")
			So(res.Probability, ShouldEqual, 0.2)
			So(res.Factors, ShouldBeEmpty)
		})
	})

	Convey("Given a mild decline", t, func() {
		d := risk.New(history("S001", 78, 75, 72))

		Convey("Then the mild-decline factor triggers", func() {
			res := d.Assess(ctx, "S001")
			So(res.Factors, ShouldResemble, []string{risk.FactorDecline})
			So(res.Probability, ShouldEqual, 0.15)
		})
	})

	Convey("Given a low average combined with a sudden drop", t, func() {
		d := risk.New(history("S001", 45, 46, 45, 30))

		Convey("Then the level crosses into moderate", func() {
			res := d.Assess(ctx, "S001")
			So(res.Probability, ShouldBeGreaterThan, 0.4)
			So(res.Level, ShouldEqual, model.LevelModerate)
			So(res.Factors, ShouldContain, risk.FactorSuddenDrop)
		})
	})

	Convey("Given a student with no recorded history", t, func() {
		d := risk.New(history("S002", 80, 80))

		Convey("Then the level is unknown rather than an error", func() {
			res := d.Assess(ctx, "S001")
			So(res.Level, ShouldEqual, model.LevelUnknown)
			So(res.Probability, ShouldEqual, 0.0)
			So(res.Factors, ShouldNotBeNil)
			So(res.Factors, ShouldBeEmpty)
		})
	})
}
