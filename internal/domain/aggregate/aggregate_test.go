package aggregate_test

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/codecraftersknust/results-analytics-engine/internal/domain/aggregate"
	"github.com/codecraftersknust/results-analytics-engine/internal/domain/model"
)

func rec(student string, timeIndex int, subject string, score float64) model.NormalizedRecord {
	return model.NormalizedRecord{
		StudentID: student,
		Semester:  timeIndex,
		TimeIndex: timeIndex,
		TimeLabel: "Year 1 Sem 1",
		Subject:   subject,
		Score:     score,
	}
}

func TestStudentAverages(t *testing.T) {
	Convey("Given normalized records", t, func() {
		records := []model.NormalizedRecord{
			rec("S001", 1, "Math", 60),
			rec("S001", 1, "Physics", 80),
			rec("S001", 2, "Math", 90),
			rec("S002", 1, "Math", 50),
		}

		averages := aggregate.StudentAverages(records)

		Convey("Then each (student, period) pair should get one mean", func() {
			So(averages, ShouldHaveLength, 3)
			So(averages[0].StudentID, ShouldEqual, "S001")
			So(averages[0].TimeIndex, ShouldEqual, 1)
			So(averages[0].AverageScore, ShouldEqual, 70)
			So(averages[1].TimeIndex, ShouldEqual, 2)
			So(averages[1].AverageScore, ShouldEqual, 90)
			So(averages[2].StudentID, ShouldEqual, "S002")
			So(averages[2].AverageScore, ShouldEqual, 50)
		})
	})
}

func TestCohortTrends(t *testing.T) {
	Convey("Given records from two students", t, func() {
		records := []model.NormalizedRecord{
			rec("S001", 1, "Math", 60),
			rec("S002", 1, "Math", 80),
			rec("S001", 2, "Math", 90),
			rec("S001", 1, "Physics", 40),
		}

		trends := aggregate.CohortTrends(records)

		Convey("Then the cohort mean per (subject, period) should be returned in order", func() {
			So(trends, ShouldHaveLength, 3)
			So(trends[0].Subject, ShouldEqual, "Math")
			So(trends[0].TimeIndex, ShouldEqual, 1)
			So(trends[0].CohortAverage, ShouldEqual, 70)
			So(trends[1].Subject, ShouldEqual, "Math")
			So(trends[1].TimeIndex, ShouldEqual, 2)
			So(trends[1].CohortAverage, ShouldEqual, 90)
			So(trends[2].Subject, ShouldEqual, "Physics")
			So(trends[2].CohortAverage, ShouldEqual, 40)
		})
	})
}

func TestPerformanceDeltas(t *testing.T) {
	Convey("Given per-student period averages", t, func() {
		averages := []model.StudentAverage{
			{StudentID: "S001", TimeIndex: 1, AverageScore: 70},
			{StudentID: "S001", TimeIndex: 2, AverageScore: 80},
			{StudentID: "S002", TimeIndex: 1, AverageScore: 55},
		}

		deltas := aggregate.PerformanceDeltas(averages)

		Convey("Then a 70 to 80 move should yield delta 10 and 14.29 percent", func() {
			So(deltas, ShouldHaveLength, 3)
			second := deltas[1]
			So(second.HasDelta(), ShouldBeTrue)
			So(second.PrevScore, ShouldEqual, 70)
			So(second.Delta, ShouldEqual, 10)
			So(second.DeltaPercent, ShouldAlmostEqual, 14.2857, 0.001)
		})

		Convey("Then first periods should carry NaN deltas, not zero", func() {
			first := deltas[0]
			So(first.HasDelta(), ShouldBeFalse)
			So(math.IsNaN(first.PrevScore), ShouldBeTrue)
			So(math.IsNaN(first.Delta), ShouldBeTrue)
			So(math.IsNaN(first.DeltaPercent), ShouldBeTrue)

			otherStudent := deltas[2]
			So(otherStudent.StudentID, ShouldEqual, "S002")
			So(otherStudent.HasDelta(), ShouldBeFalse)
		})

		Convey("When the previous average is zero", func() {
			zeroPrev := aggregate.PerformanceDeltas([]model.StudentAverage{
				{StudentID: "S003", TimeIndex: 1, AverageScore: 0},
				{StudentID: "S003", TimeIndex: 2, AverageScore: 40},
			})

			Convey("Then the delta is defined but the percent is NaN", func() {
				So(zeroPrev[1].Delta, ShouldEqual, 40)
				So(math.IsNaN(zeroPrev[1].DeltaPercent), ShouldBeTrue)
			})
		})
	})
}

func TestSubjectCorrelations(t *testing.T) {
	Convey("Given a cohort with correlated subjects", t, func() {
		records := []model.NormalizedRecord{
			rec("S001", 1, "Math", 40), rec("S001", 1, "Physics", 42), rec("S001", 1, "Art", 90),
			rec("S002", 1, "Math", 60), rec("S002", 1, "Physics", 61), rec("S002", 1, "Art", 50),
			rec("S003", 1, "Math", 80), rec("S003", 1, "Physics", 83), rec("S003", 1, "Art", 70),
		}

		matrix := aggregate.SubjectCorrelations(records)

		Convey("Then the diagonal should be exactly 1.0", func() {
			for i := range matrix.Subjects {
				So(matrix.Values[i][i], ShouldEqual, 1.0)
			}
		})

		Convey("Then the matrix should be symmetric", func() {
			for i := range matrix.Subjects {
				for j := range matrix.Subjects {
					vij := matrix.Values[i][j]
					vji := matrix.Values[j][i]
					if math.IsNaN(vij) {
						So(math.IsNaN(vji), ShouldBeTrue)
						continue
					}
					So(vij, ShouldEqual, vji)
				}
			}
		})

		Convey("Then strongly aligned subjects should correlate near 1", func() {
			r, ok := matrix.At("Math", "Physics")
			So(ok, ShouldBeTrue)
			So(r, ShouldBeGreaterThan, 0.99)
		})

		Convey("When a pair has fewer than two complete observations", func() {
			sparse := aggregate.SubjectCorrelations([]model.NormalizedRecord{
				rec("S001", 1, "Math", 40),
				rec("S001", 1, "Physics", 42),
				rec("S002", 1, "Math", 60),
			})

			Convey("Then that pair should be NaN", func() {
				r, ok := sparse.At("Math", "Physics")
				So(ok, ShouldBeTrue)
				So(math.IsNaN(r), ShouldBeTrue)
			})
		})

		Convey("When a student misses one subject", func() {
			partial := aggregate.SubjectCorrelations([]model.NormalizedRecord{
				rec("S001", 1, "Math", 40), rec("S001", 1, "Physics", 42),
				rec("S002", 1, "Math", 60), rec("S002", 1, "Physics", 61),
				rec("S003", 1, "Math", 80), // no Physics for S003
			})

			Convey("Then the pair uses only complete student pairs", func() {
				r, ok := partial.At("Math", "Physics")
				So(ok, ShouldBeTrue)
				So(r, ShouldAlmostEqual, 1.0, 1e-9)
			})
		})
	})
}
