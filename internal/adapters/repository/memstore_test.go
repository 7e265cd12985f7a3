package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/codecraftersknust/results-analytics-engine/internal/adapters/repository"
	"github.com/codecraftersknust/results-analytics-engine/internal/domain/model"
)

func snap(id string) model.Snapshot {
	return model.Snapshot{
		ID: id,
		Records: []model.NormalizedRecord{
			{StudentID: "S001", Subject: "Math", Score: 70, TimeIndex: 1},
		},
		SourceRows: 1,
	}
}

func TestMemStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		store := repository.NewMemStore(ctx)

		Convey("When nothing has been stored", func() {
			Convey("Then Active returns the no-active sentinel", func() {
				_, err := store.Active(ctx)
				So(errors.Is(err, repository.ErrNoActiveDataset), ShouldBeTrue)
			})

			Convey("Then Get returns not-found", func() {
				_, err := store.Get(ctx, "missing")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})

			Convey("Then Count is zero", func() {
				So(store.Count(ctx), ShouldEqual, 0)
			})
		})

		Convey("When storing a snapshot", func() {
			So(store.Put(ctx, snap("d1")), ShouldBeNil)

			Convey("Then it is retrievable but not yet active", func() {
				got, err := store.Get(ctx, "d1")
				So(err, ShouldBeNil)
				So(got.ID, ShouldEqual, "d1")

				_, err = store.Active(ctx)
				So(errors.Is(err, repository.ErrNoActiveDataset), ShouldBeTrue)
			})

			Convey("And when activated", func() {
				So(store.SetActive(ctx, "d1"), ShouldBeNil)

				Convey("Then Active serves it", func() {
					got, err := store.Active(ctx)
					So(err, ShouldBeNil)
					So(got.ID, ShouldEqual, "d1")
				})
			})
		})

		Convey("When storing with an empty id", func() {
			err := store.Put(ctx, model.Snapshot{})

			So(errors.Is(err, repository.ErrEmptyID), ShouldBeTrue)
		})

		Convey("When activating an unknown id", func() {
			err := store.SetActive(ctx, "missing")

			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When re-storing an existing id", func() {
			So(store.Put(ctx, snap("d1")), ShouldBeNil)
			updated := snap("d1")
			updated.SourceRows = 9
			So(store.Put(ctx, updated), ShouldBeNil)

			Convey("Then the snapshot is replaced without duplicating the id", func() {
				So(store.Count(ctx), ShouldEqual, 1)
				So(store.IDs(ctx), ShouldResemble, []string{"d1"})
				got, _ := store.Get(ctx, "d1")
				So(got.SourceRows, ShouldEqual, 9)
			})
		})
	})

	Convey("Given a store bounded to three snapshots", t, func() {
		store := repository.NewMemStore(ctx, repository.WithMaxSnapshots(3))

		Convey("When the bound is exceeded", func() {
			for i := 1; i <= 4; i++ {
				So(store.Put(ctx, snap(fmt.Sprintf("d%d", i))), ShouldBeNil)
			}

			Convey("Then the oldest snapshot is evicted", func() {
				So(store.Count(ctx), ShouldEqual, 3)
				So(store.IDs(ctx), ShouldResemble, []string{"d2", "d3", "d4"})
				_, err := store.Get(ctx, "d1")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When the oldest snapshot is the active one", func() {
			for i := 1; i <= 3; i++ {
				So(store.Put(ctx, snap(fmt.Sprintf("d%d", i))), ShouldBeNil)
			}
			So(store.SetActive(ctx, "d1"), ShouldBeNil)
			So(store.Put(ctx, snap("d4")), ShouldBeNil)

			Convey("Then eviction skips it and drops the next oldest", func() {
				So(store.IDs(ctx), ShouldResemble, []string{"d1", "d3", "d4"})
				got, err := store.Active(ctx)
				So(err, ShouldBeNil)
				So(got.ID, ShouldEqual, "d1")
			})
		})
	})
}
