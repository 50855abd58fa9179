package service_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/okian/creditscore/internal/adapters/reference"
	service "github.com/okian/creditscore/internal/app"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service backed by files with asynchronous persistence", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		refPath := filepath.Join(dir, "benchmarks.json")
		So(os.WriteFile(refPath, []byte(`{"MX":{"avg_score":640}}`), 0o600), ShouldBeNil)

		svc := service.New(
			service.WithRecordsFile(filepath.Join(dir, "records.jsonl")),
			service.WithPersistWorkers(4),
			service.WithPersistQueueSize(64),
			service.WithReferenceOptions(reference.WithFile(refPath)),
		)
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When many applicants are scored concurrently and the service stops", func() {
			var wg sync.WaitGroup
			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func(g int) {
					defer wg.Done()
					for i := 0; i < 25; i++ {
						a := referenceApplicant()
						a.Age = 18 + (g*25+i)%80
						a.Country = []string{"MX", "ar", "Co"}[i%3]
						_, _ = svc.ScoreApplicant(ctx, a, fmt.Sprintf("req-%d-%d", g, i))
					}
				}(g)
			}
			wg.Wait()
			So(svc.Stop(ctx), ShouldBeNil)

			Convey("Then every record reached the log, including queue overflow", func() {
				recs, err := svc.Records(ctx)
				So(err, ShouldBeNil)
				So(recs, ShouldHaveLength, 200)
			})

			Convey("Then every benchmark respects score ordering and bounds", func() {
				all, err := svc.Benchmarks(ctx)
				So(err, ShouldBeNil)
				So(all, ShouldHaveLength, 3)
				for _, b := range all {
					So(b.SampleSize, ShouldBeGreaterThan, 0)
					So(b.P10, ShouldBeGreaterThanOrEqualTo, 300)
					So(b.P10, ShouldBeLessThanOrEqualTo, b.MedianScore)
					So(b.MedianScore, ShouldBeLessThanOrEqualTo, b.P90)
					So(b.P90, ShouldBeLessThanOrEqualTo, 850)
				}
			})

			Convey("Then a restarted service keeps appending to the same log", func() {
				So(svc.Start(ctx), ShouldBeNil)
				_, _ = svc.ScoreApplicant(ctx, referenceApplicant(), "")
				So(svc.Stop(ctx), ShouldBeNil)
				recs, _ := svc.RecordsByCountry(ctx, "MX")
				So(len(recs), ShouldEqual, 73)
			})
		})

		Convey("When reference benchmarks are requested", func() {
			defer func() { _ = svc.Stop(ctx) }()

			Convey("Then the static dataset is served separately from derived data", func() {
				entry, ok := svc.ReferenceBenchmark(ctx, "mx")
				So(ok, ShouldBeTrue)
				So(string(entry), ShouldEqual, `{"avg_score":640}`)
				So(svc.ReferenceBenchmarks(ctx), ShouldHaveLength, 1)

				derived, err := svc.Benchmarks(ctx)
				So(err, ShouldBeNil)
				So(derived, ShouldBeEmpty)
			})
		})
	})
}
