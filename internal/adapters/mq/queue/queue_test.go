package queue_test

import (
	"context"
	"sync"
	"testing"

	"github.com/okian/creditscore/internal/adapters/mq/queue"
	"github.com/okian/creditscore/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecordQueue(t *testing.T) {
	ctx := context.Background()

	Convey("Given a queue with room for two records", t, func() {
		q := queue.NewRecordQueue(queue.WithCapacity(2))

		Convey("When records are enqueued", func() {
			So(q.Enqueue(ctx, queue.Job{Record: model.Record{Score: 700}}), ShouldBeNil)
			So(q.Enqueue(ctx, queue.Job{Record: model.Record{Score: 710}}), ShouldBeNil)

			Convey("Then they come out in order", func() {
				So(q.Len(), ShouldEqual, 2)
				So((<-q.Jobs()).Record.Score, ShouldEqual, 700)
				So((<-q.Jobs()).Record.Score, ShouldEqual, 710)
				So(q.Len(), ShouldEqual, 0)
			})

			Convey("Then a third record is rejected as full", func() {
				So(q.Enqueue(ctx, queue.Job{Record: model.Record{Score: 720}}), ShouldEqual, queue.ErrFull)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			Convey("Then the record is not queued", func() {
				So(q.Enqueue(cctx, queue.Job{Record: model.Record{}}), ShouldEqual, context.Canceled)
				So(q.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the queue is closed with records pending", func() {
			So(q.Enqueue(ctx, queue.Job{Record: model.Record{Score: 640}}), ShouldBeNil)
			So(q.Close(), ShouldBeNil)

			Convey("Then new records are refused", func() {
				So(q.Enqueue(ctx, queue.Job{Record: model.Record{}}), ShouldEqual, queue.ErrClosed)
			})

			Convey("Then pending records drain before the channel closes", func() {
				var drained []int
				for r := range q.Jobs() {
					drained = append(drained, r.Record.Score)
				}
				So(drained, ShouldResemble, []int{640})
			})

			Convey("Then closing again is harmless", func() {
				So(q.Close(), ShouldBeNil)
			})
		})
	})

	Convey("Given concurrent producers and a consumer", t, func() {
		q := queue.NewRecordQueue(queue.WithCapacity(1000))
		var wg sync.WaitGroup
		for g := 0; g < 10; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					_ = q.Enqueue(ctx, queue.Job{Record: model.Record{Score: 600}})
				}
			}()
		}
		wg.Wait()
		_ = q.Close()

		count := 0
		for range q.Jobs() {
			count++
		}

		Convey("Then every record is delivered once", func() {
			So(count, ShouldEqual, 1000)
		})
	})
}
