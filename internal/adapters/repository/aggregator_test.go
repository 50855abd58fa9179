package repository_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/creditscore/internal/adapters/repository"
	"github.com/okian/creditscore/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type failingStore struct{ repository.Store }

func (failingStore) ReadAll(context.Context) ([]model.Record, error) {
	return nil, errors.New("disk gone")
}

func (failingStore) FilterByCountry(context.Context, string) ([]model.Record, error) {
	return nil, errors.New("disk gone")
}

func TestAggregator(t *testing.T) {
	Convey("Given a log with records for two countries", t, func() {
		ctx := context.Background()
		s := newStore(t)
		for _, score := range []int{500, 600, 700, 800} {
			So(s.Append(ctx, rec(score, "us")), ShouldBeNil)
		}
		So(s.Append(ctx, rec(720, "MX")), ShouldBeNil)
		agg := repository.NewAggregator(s)

		Convey("When asking for one country", func() {
			b, ok, err := agg.ForCountry(ctx, "us")

			Convey("Then stats are computed and the code is upper-cased", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(b, ShouldResemble, model.Benchmark{
					Country: "US",
					Stats:   model.Stats{AverageScore: 650, MedianScore: 650, P10: 530, P90: 770, SampleSize: 4},
				})
			})
		})

		Convey("When asking for a country with no records", func() {
			_, ok, err := agg.ForCountry(ctx, "br")

			Convey("Then nothing is returned", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When asking for every country", func() {
			all, err := agg.All(ctx)

			Convey("Then each observed country has a benchmark", func() {
				So(err, ShouldBeNil)
				So(all, ShouldHaveLength, 2)
				So(all["us"].SampleSize, ShouldEqual, 4)
				So(all["mx"].Country, ShouldEqual, "MX")
				So(all["mx"].MedianScore, ShouldEqual, 720)
			})
		})

		Convey("When a record is appended afterwards", func() {
			So(s.Append(ctx, rec(300, "mx")), ShouldBeNil)
			b, _, _ := agg.ForCountry(ctx, "MX")

			Convey("Then the next read reflects it", func() {
				So(b.SampleSize, ShouldEqual, 2)
				So(b.AverageScore, ShouldEqual, 510)
			})
		})
	})

	Convey("Given a store that cannot be read", t, func() {
		agg := repository.NewAggregator(failingStore{})

		Convey("Then errors are returned to the caller", func() {
			_, _, err := agg.ForCountry(context.Background(), "us")
			So(err, ShouldNotBeNil)
			_, err = agg.All(context.Background())
			So(err, ShouldNotBeNil)
		})
	})
}

func TestAggregator_NonObjectLines(t *testing.T) {
	Convey("Given a log where a null line sits next to a record without country", t, func() {
		ctx := context.Background()
		s := newStore(t)
		So(s.Append(ctx, rec(700, "")), ShouldBeNil)
		f, err := os.OpenFile(s.Path(), os.O_APPEND|os.O_WRONLY, 0o644)
		So(err, ShouldBeNil)
		_, _ = f.WriteString("null\n")
		_ = f.Close()

		Convey("Then the unknown country benchmark only counts the real record", func() {
			b, ok, err := repository.NewAggregator(s).ForCountry(ctx, "unknown")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(b.SampleSize, ShouldEqual, 1)
			So(b.AverageScore, ShouldEqual, 700)
			So(b.P10, ShouldEqual, 700)
		})
	})
}
