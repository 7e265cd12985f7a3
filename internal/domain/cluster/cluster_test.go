package cluster_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/codecraftersknust/results-analytics-engine/internal/domain/cluster"
	"github.com/codecraftersknust/results-analytics-engine/internal/domain/model"
)

// cohortRecords builds four well-separated behavioral groups so the fit
// has an unambiguous optimum.
func cohortRecords() []model.NormalizedRecord {
	var recs []model.NormalizedRecord
	add := func(student string, scores ...float64) {
		for t, s := range scores {
			recs = append(recs, model.NormalizedRecord{
				StudentID: student,
				TimeIndex: t + 1,
				Subject:   "Math",
				Score:     s,
			})
		}
	}
	// Consistent high performers.
	for i := 0; i < 4; i++ {
		add(fmt.Sprintf("H%03d", i), 85, 86, 84, 87)
	}
	// At risk: low and falling.
	for i := 0; i < 4; i++ {
		add(fmt.Sprintf("R%03d", i), 45, 40, 38, 35)
	}
	// Fast improvers from a mid base.
	for i := 0; i < 4; i++ {
		add(fmt.Sprintf("I%03d", i), 55, 62, 70, 78)
	}
	// Volatile around a high mean.
	for i := 0; i < 4; i++ {
		add(fmt.Sprintf("V%03d", i), 95, 60, 92, 65)
	}
	return recs
}

func TestExtractFeatures(t *testing.T) {
	Convey("Given normalized records for two students", t, func() {
		recs := []model.NormalizedRecord{
			{StudentID: "S002", TimeIndex: 1, Score: 60},
			{StudentID: "S001", TimeIndex: 1, Score: 70},
			{StudentID: "S001", TimeIndex: 2, Score: 80},
		}

		Convey("When extracting features", func() {
			features := cluster.ExtractFeatures(recs)

			Convey("Then one vector per student is returned in id order", func() {
				So(features, ShouldHaveLength, 2)
				So(features[0].StudentID, ShouldEqual, "S001")
				So(features[1].StudentID, ShouldEqual, "S002")
			})

			Convey("Then the vector carries average, deviation and slope", func() {
				So(features[0].AverageScore, ShouldEqual, 75.0)
				So(features[0].ImprovementSlope, ShouldEqual, 10.0)
				So(features[0].ConsistencyStd, ShouldBeGreaterThan, 7.0)
			})

			Convey("Then single-observation students get zero spread and slope", func() {
				So(features[1].ConsistencyStd, ShouldEqual, 0.0)
				So(features[1].ImprovementSlope, ShouldEqual, 0.0)
			})
		})
	})
}

func TestTrain(t *testing.T) {
	ctx := context.Background()
	features := cluster.ExtractFeatures(cohortRecords())

	Convey("Given features for a well-separated cohort", t, func() {
		trainer := cluster.NewTrainer()

		Convey("When training twice with the same seed", func() {
			m1, err1 := trainer.Train(ctx, features)
			m2, err2 := cluster.NewTrainer().Train(ctx, features)

			Convey("Then both fits succeed and agree exactly", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(m1.Profiles(), ShouldResemble, m2.Profiles())
			})
		})

		Convey("When training completes", func() {
			m, err := trainer.Train(ctx, features)
			So(err, ShouldBeNil)
			profiles := m.Profiles()

			Convey("Then four clusters are fitted and fully populated", func() {
				So(profiles, ShouldHaveLength, 4)
				total := 0
				for _, p := range profiles {
					So(p.Size, ShouldBeGreaterThan, 0)
					total += p.Size
				}
				So(total, ShouldEqual, len(features))
			})

			Convey("Then the expected behavioral profiles are named", func() {
				labels := make(map[string]bool)
				for _, p := range profiles {
					labels[p.Label] = true
				}
				So(labels[cluster.LabelConsistentHigh], ShouldBeTrue)
				So(labels[cluster.LabelAtRisk], ShouldBeTrue)
			})
		})

		Convey("When a different cluster count is configured", func() {
			m, err := cluster.NewTrainer(cluster.WithClusterCount(2)).Train(ctx, features)

			So(err, ShouldBeNil)
			So(m.Profiles(), ShouldHaveLength, 2)
		})
	})

	Convey("Given fewer students than clusters", t, func() {
		_, err := cluster.NewTrainer().Train(ctx, features[:3])

		Convey("Then training fails with the sentinel", func() {
			So(errors.Is(err, cluster.ErrTooFewStudents), ShouldBeTrue)
		})
	})

	Convey("Given no features at all", t, func() {
		_, err := cluster.NewTrainer().Train(ctx, nil)

		So(errors.Is(err, cluster.ErrNoFeatures), ShouldBeTrue)
	})
}

func TestAssign(t *testing.T) {
	ctx := context.Background()
	features := cluster.ExtractFeatures(cohortRecords())
	m, err := cluster.NewTrainer().Train(ctx, features)
	if err != nil {
		t.Fatalf("train: %v", err)
	}

	Convey("Given a fitted model", t, func() {
		Convey("When assigning a student from the cohort", func() {
			a, ok := m.Assign(ctx, "H000", features)

			Convey("Then the assignment is labeled with bounded confidence", func() {
				So(ok, ShouldBeTrue)
				So(a.StudentID, ShouldEqual, "H000")
				So(a.ClusterID, ShouldBeBetweenOrEqual, 0, 3)
				So(a.Label, ShouldNotBeEmpty)
				So(a.Confidence, ShouldBeBetweenOrEqual, 0, 1)
				So(a.Features.StudentID, ShouldEqual, "H000")
			})

			Convey("Then identically behaving students share a cluster", func() {
				b, ok := m.Assign(ctx, "H001", features)
				So(ok, ShouldBeTrue)
				So(b.ClusterID, ShouldEqual, a.ClusterID)
			})
		})

		Convey("When assigning an unknown student", func() {
			_, ok := m.Assign(ctx, "S999", features)

			So(ok, ShouldBeFalse)
		})
	})
}

func TestProfileLabel(t *testing.T) {
	Convey("Given centroid coordinates", t, func() {
		cases := []struct {
			avg, std, slope float64
			want            string
		}{
			{82, 4, 0.5, cluster.LabelConsistentHigh},
			{82, 14, 0.5, cluster.LabelVolatileHigh},
			{45, 8, 3, cluster.LabelRecovering},
			{45, 8, -1, cluster.LabelAtRisk},
			{65, 8, 4, cluster.LabelFastImprover},
			{65, 8, -4, cluster.LabelDeclining},
			{65, 18, 0, cluster.LabelInconsistent},
			{65, 8, 0, cluster.LabelSteadyAverage},
		}

		Convey("Then the first matching rule names the profile", func() {
			for _, c := range cases {
				So(cluster.ProfileLabel(c.avg, c.std, c.slope), ShouldEqual, c.want)
			}
		})
	})
}
