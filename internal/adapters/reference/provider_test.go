package reference_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/creditscore/internal/adapters/reference"
	logging "github.com/okian/creditscore/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func writeDataset(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
}

func TestProvider(t *testing.T) {
	_ = logging.Init()
	ctx := context.Background()

	Convey("Given a dataset file", t, func() {
		path := filepath.Join(t.TempDir(), "benchmarks.json")
		writeDataset(t, path, `{"MX":{"avg_score":640,"source":"bureau"},"ar":{"avg_score":610}}`)
		clock := &fakeClock{t: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
		p := reference.NewProvider(reference.WithFile(path), reference.WithTTL(time.Minute), reference.WithClock(clock.Now))

		Convey("When the dataset is read", func() {
			data := p.Get(ctx)

			Convey("Then keys are lower-cased and values are kept verbatim", func() {
				So(data, ShouldHaveLength, 2)
				So(string(data["mx"]), ShouldEqual, `{"avg_score":640,"source":"bureau"}`)
			})

			Convey("Then lookups ignore case", func() {
				entry, ok := p.ByCountry(ctx, "Mx")
				So(ok, ShouldBeTrue)
				So(string(entry), ShouldContainSubstring, "bureau")

				_, ok = p.ByCountry(ctx, "br")
				So(ok, ShouldBeFalse)

				_, ok = p.ByCountry(ctx, "")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the file changes within the TTL", func() {
			p.Get(ctx)
			writeDataset(t, path, `{"co":{}}`)
			clock.Advance(30 * time.Second)

			Convey("Then the cached dataset is still served", func() {
				_, ok := p.ByCountry(ctx, "mx")
				So(ok, ShouldBeTrue)
			})

			Convey("And once the TTL elapses the new file is loaded", func() {
				clock.Advance(31 * time.Second)
				data := p.Get(ctx)
				So(data, ShouldHaveLength, 1)
				_, ok := data["co"]
				So(ok, ShouldBeTrue)
			})

			Convey("And an explicit invalidation reloads immediately", func() {
				p.Invalidate()
				So(p.Get(ctx), ShouldContainKey, "co")
			})
		})
	})

	Convey("Given inline JSON and a file", t, func() {
		path := filepath.Join(t.TempDir(), "benchmarks.json")
		writeDataset(t, path, `{"mx":{"from":"file"}}`)

		Convey("When the inline JSON is valid", func() {
			p := reference.NewProvider(reference.WithFile(path), reference.WithInlineJSON(`{"PE":{"from":"inline"}}`))

			Convey("Then it takes precedence", func() {
				data := p.Get(ctx)
				So(data, ShouldContainKey, "pe")
				So(data, ShouldNotContainKey, "mx")
			})
		})

		Convey("When the inline JSON is invalid", func() {
			p := reference.NewProvider(reference.WithFile(path), reference.WithInlineJSON(`{"pe":`))

			Convey("Then the file is used instead", func() {
				So(p.Reload(ctx), ShouldBeNil)
				So(p.Get(ctx), ShouldContainKey, "mx")
			})
		})
	})

	Convey("Given no usable source", t, func() {
		dir := t.TempDir()

		Convey("When the file is missing", func() {
			p := reference.NewProvider(reference.WithFile(filepath.Join(dir, "missing.json")))

			Convey("Then the dataset is empty and Reload reports ErrLoad", func() {
				So(p.Get(ctx), ShouldBeEmpty)
				err := p.Reload(ctx)
				So(errors.Is(err, reference.ErrLoad), ShouldBeTrue)
			})
		})

		Convey("When the file holds a JSON array", func() {
			path := filepath.Join(dir, "array.json")
			writeDataset(t, path, `[1,2,3]`)
			p := reference.NewProvider(reference.WithFile(path))

			Convey("Then it is rejected", func() {
				So(errors.Is(p.Reload(ctx), reference.ErrLoad), ShouldBeTrue)
				So(p.Get(ctx), ShouldBeEmpty)
			})
		})
	})
}

func TestProviderWatch(t *testing.T) {
	_ = logging.Init()

	Convey("Given a watched dataset file with a long TTL", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		path := filepath.Join(t.TempDir(), "benchmarks.json")
		writeDataset(t, path, `{"mx":{}}`)
		p := reference.NewProvider(reference.WithFile(path), reference.WithTTL(time.Hour))
		So(p.Watch(ctx), ShouldBeNil)
		defer func() { _ = p.Close() }()

		So(p.Get(ctx), ShouldContainKey, "mx")

		Convey("When the file is rewritten", func() {
			writeDataset(t, path, `{"uy":{}}`)

			Convey("Then the next read observes the new dataset", func() {
				deadline := time.Now().Add(2 * time.Second)
				for time.Now().Before(deadline) {
					if _, ok := p.Get(ctx)["uy"]; ok {
						break
					}
					time.Sleep(10 * time.Millisecond)
				}
				So(p.Get(ctx), ShouldContainKey, "uy")
			})
		})
	})
}
