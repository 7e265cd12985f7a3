package dedupe_test

import (
	"context"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/codecraftersknust/results-analytics-engine/internal/domain/dedupe"
)

func TestInMemoryRegistry(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty registry", t, func() {
		r := dedupe.NewInMemoryRegistry()

		Convey("When looking up an unknown fingerprint", func() {
			_, ok := r.Lookup(ctx, "fp1")

			So(ok, ShouldBeFalse)
		})

		Convey("When recording a fingerprint", func() {
			r.Record(ctx, "fp1", "d1")

			Convey("Then the dataset id is returned on lookup", func() {
				id, ok := r.Lookup(ctx, "fp1")
				So(ok, ShouldBeTrue)
				So(id, ShouldEqual, "d1")
				So(r.Size(), ShouldEqual, 1)
			})

			Convey("And re-recording the same fingerprint overwrites the id", func() {
				r.Record(ctx, "fp1", "d2")
				id, _ := r.Lookup(ctx, "fp1")
				So(id, ShouldEqual, "d2")
				So(r.Size(), ShouldEqual, 1)
			})
		})

		Convey("When forgetting a fingerprint", func() {
			r.Record(ctx, "fp1", "d1")
			r.Forget(ctx, "fp1")

			Convey("Then it no longer resolves", func() {
				_, ok := r.Lookup(ctx, "fp1")
				So(ok, ShouldBeFalse)
				So(r.Size(), ShouldEqual, 0)
			})

			Convey("And forgetting again is a no-op", func() {
				So(func() { r.Forget(ctx, "fp1") }, ShouldNotPanic)
			})
		})
	})

	Convey("Given a registry bounded to three fingerprints", t, func() {
		r := dedupe.NewInMemoryRegistry(dedupe.WithMaxSize(3))

		Convey("When the bound is exceeded", func() {
			for i := 1; i <= 4; i++ {
				r.Record(ctx, fmt.Sprintf("fp%d", i), fmt.Sprintf("d%d", i))
			}

			Convey("Then the oldest fingerprint is evicted first", func() {
				So(r.Size(), ShouldEqual, 3)
				_, ok := r.Lookup(ctx, "fp1")
				So(ok, ShouldBeFalse)
				id, ok := r.Lookup(ctx, "fp4")
				So(ok, ShouldBeTrue)
				So(id, ShouldEqual, "d4")
			})
		})
	})
}
