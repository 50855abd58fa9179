package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/okian/creditscore/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestKeyTracker(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new tracker", t, func() {
		d := dedupe.NewKeyTracker()

		Convey("Then it starts empty", func() {
			So(d.Len(), ShouldEqual, 0)
		})

		Convey("When a key is recorded twice", func() {
			first := d.SeenAndRecord(ctx, "req-1")
			second := d.SeenAndRecord(ctx, "req-1")

			Convey("Then only the second call reports a replay", func() {
				So(first, ShouldBeFalse)
				So(second, ShouldBeTrue)
				So(d.Len(), ShouldEqual, 1)
			})
		})

		Convey("When a key is forgotten", func() {
			d.SeenAndRecord(ctx, "req-1")
			d.Forget(ctx, "req-1")

			Convey("Then it can be recorded again", func() {
				So(d.Len(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "req-1"), ShouldBeFalse)
			})
		})

		Convey("When an unknown key is forgotten", func() {
			d.SeenAndRecord(ctx, "req-1")
			d.Forget(ctx, "nope")

			Convey("Then nothing changes", func() {
				So(d.Len(), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a tracker bounded to three keys", t, func() {
		d := dedupe.NewKeyTracker(dedupe.WithCapacity(3))
		for _, k := range []string{"a", "b", "c"} {
			So(d.SeenAndRecord(ctx, k), ShouldBeFalse)
		}

		Convey("When a fourth key arrives", func() {
			So(d.SeenAndRecord(ctx, "d"), ShouldBeFalse)

			Convey("Then the oldest key is evicted and the rest survive", func() {
				So(d.Len(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "d"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "c"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "b"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "a"), ShouldBeFalse)
			})
		})

		Convey("When a replayed key is seen again", func() {
			So(d.SeenAndRecord(ctx, "a"), ShouldBeTrue)
			So(d.SeenAndRecord(ctx, "d"), ShouldBeFalse)

			Convey("Then eviction still follows insertion order", func() {
				So(d.SeenAndRecord(ctx, "b"), ShouldBeTrue)
				So(d.Len(), ShouldEqual, 3)
			})
		})
	})

	Convey("Given an unbounded tracker", t, func() {
		d := dedupe.NewKeyTracker(dedupe.WithCapacity(0))
		for i := 0; i < 1000; i++ {
			d.SeenAndRecord(ctx, fmt.Sprintf("k-%d", i))
		}

		Convey("Then no key is evicted", func() {
			So(d.Len(), ShouldEqual, 1000)
			So(d.SeenAndRecord(ctx, "k-0"), ShouldBeTrue)
		})
	})
}

func TestKeyTrackerConcurrency(t *testing.T) {
	Convey("Given goroutines racing on the same keys", t, func() {
		ctx := context.Background()
		d := dedupe.NewKeyTracker(dedupe.WithCapacity(1000))
		var fresh atomic.Int64
		var wg sync.WaitGroup

		for g := 0; g < 10; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					if !d.SeenAndRecord(ctx, fmt.Sprintf("k-%d", i)) {
						fresh.Add(1)
					}
				}
			}()
		}
		wg.Wait()

		Convey("Then each key is new exactly once", func() {
			So(fresh.Load(), ShouldEqual, 100)
			So(d.Len(), ShouldEqual, 100)
		})
	})
}
