package repository_test

import (
	"context"
	"errors"
	"testing"

	repository "github.com/ppgmetrics/engiv/internal/adapters/repository"
	model "github.com/ppgmetrics/engiv/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func buildSnapshot(faculty int) *model.Snapshot {
	recs := model.Records{}
	for i := 0; i < faculty; i++ {
		recs.Faculty = append(recs.Faculty, model.Faculty{
			ID:       string(rune('a' + i)),
			Category: model.Permanent,
		})
	}
	snap, err := model.NewSnapshot(model.Academic, model.Period{Start: 2021, End: 2024}, recs)
	So(err, ShouldBeNil)
	return snap
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		st := repository.NewInMemoryStore()

		Convey("View and Info report no snapshot", func() {
			_, err := st.View(ctx)
			So(errors.Is(err, repository.ErrNoSnapshot), ShouldBeTrue)

			_, err = st.Info(ctx)
			So(errors.Is(err, repository.ErrNoSnapshot), ShouldBeTrue)
		})

		Convey("Replace rejects a nil snapshot", func() {
			So(errors.Is(st.Replace(ctx, nil), repository.ErrNilSnapshot), ShouldBeTrue)
		})

		Convey("When a snapshot is installed", func() {
			first := buildSnapshot(2)
			So(st.Replace(ctx, first), ShouldBeNil)

			Convey("View hands out the installed pointer", func() {
				got, err := st.View(ctx)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, first)
			})

			Convey("Info counts its records", func() {
				info, err := st.Info(ctx)
				So(err, ShouldBeNil)
				So(info.ID, ShouldEqual, first.ID)
				So(info.Faculty, ShouldEqual, 2)
				So(info.Students, ShouldEqual, 0)
			})

			Convey("A second Replace swaps the whole set", func() {
				second := buildSnapshot(3)
				So(st.Replace(ctx, second), ShouldBeNil)

				got, err := st.View(ctx)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, second)
				So(got.ID, ShouldNotEqual, first.ID)
			})
		})
	})

	Convey("Given a store seeded with a snapshot", t, func() {
		seed := buildSnapshot(1)
		st := repository.NewInMemoryStore(repository.WithSnapshot(seed))

		got, err := st.View(ctx)
		So(err, ShouldBeNil)
		So(got, ShouldEqual, seed)
	})
}
