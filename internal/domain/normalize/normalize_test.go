package normalize_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/codecraftersknust/results-analytics-engine/internal/domain/model"
	"github.com/codecraftersknust/results-analytics-engine/internal/domain/normalize"
)

func wideTable(rows [][]string) model.RawTable {
	return model.RawTable{
		Columns: []string{"University_Roll_No", "College_Name", "Batch", "Semester", "Subject_1", "Subject_2"},
		Rows:    rows,
	}
}

func TestNormalize(t *testing.T) {
	Convey("Given a wide raw table", t, func() {
		ctx := context.Background()
		nz := normalize.New()

		Convey("When normalizing a complete row", func() {
			table := wideTable([][]string{
				{"S001", "KNUST", "2024", "3", "70.5", "64"},
			})

			records, err := nz.Normalize(ctx, table)

			Convey("Then it should emit one record per subject", func() {
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 2)
				So(records[0].StudentID, ShouldEqual, "S001")
				So(records[0].Subject, ShouldEqual, "Subject_1")
				So(records[0].Score, ShouldEqual, 70.5)
				So(records[1].Subject, ShouldEqual, "Subject_2")
				So(records[1].Score, ShouldEqual, 64)
			})

			Convey("Then it should derive the temporal fields", func() {
				So(err, ShouldBeNil)
				So(records[0].Semester, ShouldEqual, 3)
				So(records[0].Year, ShouldEqual, 2)
				So(records[0].Term, ShouldEqual, 1)
				So(records[0].TimeLabel, ShouldEqual, "Year 2 Sem 1")
				So(records[0].TimeIndex, ShouldEqual, 3)
			})
		})

		Convey("When deriving year and term across semesters", func() {
			cases := []struct {
				semester   string
				year, term int
			}{
				{"1", 1, 1},
				{"2", 1, 2},
				{"3", 2, 1},
				{"4", 2, 2},
				{"5", 3, 1},
				{"6", 3, 2},
			}
			for _, tc := range cases {
				table := wideTable([][]string{{"S001", "KNUST", "2024", tc.semester, "50", "60"}})
				records, err := nz.Normalize(ctx, table)
				So(err, ShouldBeNil)
				So(records[0].Year, ShouldEqual, tc.year)
				So(records[0].Term, ShouldEqual, tc.term)
			}
		})

		Convey("When the calendar has three semesters per year", func() {
			nz3 := normalize.New(normalize.WithSemestersPerYear(3))
			table := wideTable([][]string{{"S001", "KNUST", "2024", "4", "50", "60"}})

			records, err := nz3.Normalize(ctx, table)

			Convey("Then semester 4 should map to year 2 term 1", func() {
				So(err, ShouldBeNil)
				So(records[0].Year, ShouldEqual, 2)
				So(records[0].Term, ShouldEqual, 1)
			})
		})

		Convey("When a semester value carries text", func() {
			table := wideTable([][]string{{"S001", "KNUST", "2024", "Sem 3", "50", "60"}})

			records, err := nz.Normalize(ctx, table)

			Convey("Then the embedded integer should be extracted", func() {
				So(err, ShouldBeNil)
				So(records[0].Semester, ShouldEqual, 3)
			})
		})

		Convey("When any semester value is unparsable", func() {
			table := wideTable([][]string{
				{"S001", "KNUST", "2024", "1", "50", "60"},
				{"S002", "KNUST", "2024", "garbage", "50", "60"},
			})

			records, err := nz.Normalize(ctx, table)

			Convey("Then the whole dataset should be rejected", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, normalize.ErrBadSemester), ShouldBeTrue)
				So(records, ShouldBeNil)
			})
		})

		Convey("When a subject score cell is empty", func() {
			table := wideTable([][]string{{"S001", "KNUST", "2024", "1", "", "60"}})

			records, err := nz.Normalize(ctx, table)

			Convey("Then that subject should emit no record", func() {
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 1)
				So(records[0].Subject, ShouldEqual, "Subject_2")
			})
		})

		Convey("When a subject score is non-numeric", func() {
			table := wideTable([][]string{{"S001", "KNUST", "2024", "1", "abc", "60"}})

			_, err := nz.Normalize(ctx, table)

			Convey("Then it should fail with a score error", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, normalize.ErrBadScore), ShouldBeTrue)
			})
		})

		Convey("When identifier columns are missing", func() {
			table := model.RawTable{
				Columns: []string{"Subject_1", "Subject_2"},
				Rows:    [][]string{{"50", "60"}},
			}

			_, err := nz.Normalize(ctx, table)

			Convey("Then it should fail with a schema error", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, normalize.ErrSchema), ShouldBeTrue)
			})
		})

		Convey("When no subject columns are present", func() {
			table := model.RawTable{
				Columns: []string{"University_Roll_No", "Semester"},
				Rows:    [][]string{{"S001", "1"}},
			}

			_, err := nz.Normalize(ctx, table)

			Convey("Then it should report missing subject columns", func() {
				So(err, ShouldEqual, normalize.ErrNoSubjectColumns)
			})
		})

		Convey("When institution and batch are absent", func() {
			table := model.RawTable{
				Columns: []string{"University_Roll_No", "Semester", "Subject_1"},
				Rows:    [][]string{{"S001", "1", "55"}},
			}

			records, err := nz.Normalize(ctx, table)

			Convey("Then they should default to Unknown", func() {
				So(err, ShouldBeNil)
				So(records[0].Institution, ShouldEqual, "Unknown")
				So(records[0].Batch, ShouldEqual, "Unknown")
			})
		})
	})
}

func TestIsNormalized(t *testing.T) {
	Convey("Given tables in different shapes", t, func() {
		nz := normalize.New()

		Convey("A long table should be detected as normalized", func() {
			table := model.RawTable{
				Columns: []string{"student_id", "semester", "subject", "score"},
			}
			So(nz.IsNormalized(table), ShouldBeTrue)
		})

		Convey("A wide table should not", func() {
			So(nz.IsNormalized(wideTable(nil)), ShouldBeFalse)
		})
	})
}

func TestFromNormalized(t *testing.T) {
	Convey("Given a table already in the long schema", t, func() {
		ctx := context.Background()
		nz := normalize.New()

		table := model.RawTable{
			Columns: []string{"student_id", "institution", "batch", "semester", "subject", "score"},
			Rows: [][]string{
				{"S001", "KNUST", "2024", "3", "Subject_1", "70"},
				{"S001", "KNUST", "2024", "3", "Subject_2", ""},
			},
		}

		records, err := nz.FromNormalized(ctx, table)

		Convey("Then records should round-trip with temporal fields rebuilt", func() {
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 1)
			So(records[0].StudentID, ShouldEqual, "S001")
			So(records[0].Subject, ShouldEqual, "Subject_1")
			So(records[0].Year, ShouldEqual, 2)
			So(records[0].Term, ShouldEqual, 1)
			So(records[0].TimeLabel, ShouldEqual, "Year 2 Sem 1")
		})

		Convey("When the table is not in long form", func() {
			_, err := nz.FromNormalized(ctx, wideTable(nil))
			So(errors.Is(err, normalize.ErrSchema), ShouldBeTrue)
		})
	})
}

func TestValidateSchema(t *testing.T) {
	Convey("Given candidate upload tables", t, func() {
		nz := normalize.New()

		Convey("Wide tables with identifiers pass", func() {
			So(nz.ValidateSchema(wideTable(nil)), ShouldBeTrue)
		})

		Convey("Long tables pass", func() {
			table := model.RawTable{Columns: []string{"student_id", "subject", "score"}}
			So(nz.ValidateSchema(table), ShouldBeTrue)
		})

		Convey("Tables without identifiers fail", func() {
			table := model.RawTable{Columns: []string{"Subject_1"}}
			So(nz.ValidateSchema(table), ShouldBeFalse)
		})
	})
}
