package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/creditscore/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have the documented defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.Addr, convey.ShouldEqual, ":3000")
			convey.So(cfg.RecordsFile, convey.ShouldEqual, "data/records.jsonl")
			convey.So(cfg.BenchmarksJSON, convey.ShouldBeEmpty)
			convey.So(cfg.BenchmarksFile, convey.ShouldEqual, "data/benchmarks.json")
			convey.So(cfg.BenchmarksCacheTTL, convey.ShouldEqual, 5*time.Minute)
			convey.So(cfg.BenchmarksWatch, convey.ShouldBeFalse)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
			convey.So(cfg.PersistWorkers, convey.ShouldEqual, 2)
			convey.So(cfg.PersistQueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.RecordsMaxLimit, convey.ShouldEqual, 200)
			convey.So(cfg.RecordsDefaultLimit, convey.ShouldEqual, 50)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs that break an invariant", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":             func(c *config.Config) { c.Addr = "" },
			"empty records file":     func(c *config.Config) { c.RecordsFile = "" },
			"unknown log format":     func(c *config.Config) { c.LogFormat = "xml" },
			"zero max limit":         func(c *config.Config) { c.RecordsMaxLimit = 0 },
			"default above max":      func(c *config.Config) { c.RecordsDefaultLimit = 500 },
			"zero default limit":     func(c *config.Config) { c.RecordsDefaultLimit = 0 },
			"negative workers":       func(c *config.Config) { c.PersistWorkers = -1 },
			"negative reference ttl": func(c *config.Config) { c.BenchmarksCacheTTL = -time.Second },
		}

		for name, mutate := range cases {
			cfg := config.New()
			mutate(cfg)

			convey.Convey("Then "+name+" is rejected as invalid", func() {
				err := cfg.Validate()
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
