package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/ppgmetrics/engiv/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSeenAndRecord(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()

		Convey("The first sighting of a batch records it", func() {
			So(d.SeenAndRecord(ctx, "batch-1"), ShouldBeFalse)
			So(d.Size(), ShouldEqual, 1)

			Convey("And a replay is reported as seen", func() {
				So(d.SeenAndRecord(ctx, "batch-1"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And distinct batches do not collide", func() {
				So(d.SeenAndRecord(ctx, "batch-2"), ShouldBeFalse)
				So(d.Size(), ShouldEqual, 2)
			})
		})
	})
}

func TestUnrecord(t *testing.T) {
	ctx := context.Background()

	Convey("Given a recorded batch", t, func() {
		d := dedupe.NewInMemoryDeduper()
		So(d.SeenAndRecord(ctx, "batch-1"), ShouldBeFalse)

		Convey("Unrecord opens the ID for retry", func() {
			d.Unrecord(ctx, "batch-1")
			So(d.Size(), ShouldEqual, 0)
			So(d.SeenAndRecord(ctx, "batch-1"), ShouldBeFalse)
		})

		Convey("Unrecording an unknown ID is a no-op", func() {
			d.Unrecord(ctx, "batch-9")
			So(d.Size(), ShouldEqual, 1)
		})
	})
}

func TestEviction(t *testing.T) {
	ctx := context.Background()

	Convey("Given a deduper bounded to three IDs", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		for i := 0; i < 3; i++ {
			So(d.SeenAndRecord(ctx, fmt.Sprintf("batch-%d", i)), ShouldBeFalse)
		}

		Convey("The fourth insert evicts the oldest", func() {
			So(d.SeenAndRecord(ctx, "batch-3"), ShouldBeFalse)
			So(d.Size(), ShouldEqual, 3)
			So(d.SeenAndRecord(ctx, "batch-0"), ShouldBeFalse)
		})

		Convey("Recent IDs survive the wraparound", func() {
			So(d.SeenAndRecord(ctx, "batch-3"), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, "batch-2"), ShouldBeTrue)
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
		for i := 0; i < 10_000; i++ {
			d.SeenAndRecord(ctx, fmt.Sprintf("batch-%d", i))
		}
		So(d.Size(), ShouldEqual, 10_000)
	})
}

func TestConcurrentRecording(t *testing.T) {
	ctx := context.Background()

	Convey("Given many goroutines racing on the same IDs", t, func() {
		d := dedupe.NewInMemoryDeduper()

		const goroutines = 16
		const ids = 100
		var firsts sync.Map

		var wg sync.WaitGroup
		for g := 0; g < goroutines; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < ids; i++ {
					id := fmt.Sprintf("batch-%d", i)
					if !d.SeenAndRecord(ctx, id) {
						if _, loaded := firsts.LoadOrStore(id, struct{}{}); loaded {
							t.Errorf("batch %s recorded twice", id)
						}
					}
				}
			}()
		}
		wg.Wait()

		Convey("Each ID is recorded exactly once", func() {
			So(d.Size(), ShouldEqual, ids)
		})
	})
}
