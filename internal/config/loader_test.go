package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/creditscore/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

var configEnvVars = []string{
	"CREDIT_CONFIG", "CREDIT_ADDR", "CREDIT_RECORDS_FILE", "CREDIT_PERSIST_WORKERS",
	"CREDIT_BENCHMARKS_CACHE_TTL", "CREDIT_BENCHMARKS_WATCH", "CREDIT_LOG_FORMAT",
	"CREDIT_RECORDS_DEFAULT_LIMIT",
}

func clearConfigEnvVars() {
	for _, key := range configEnvVars {
		_ = os.Unsetenv(key)
	}
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		clearConfigEnvVars()
		convey.Reset(clearConfigEnvVars)

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load()

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("CREDIT_ADDR", ":8080")
			_ = os.Setenv("CREDIT_RECORDS_FILE", "/tmp/records.jsonl")
			_ = os.Setenv("CREDIT_PERSIST_WORKERS", "0")
			_ = os.Setenv("CREDIT_BENCHMARKS_CACHE_TTL", "30s")
			_ = os.Setenv("CREDIT_BENCHMARKS_WATCH", "true")
			_ = os.Setenv("CREDIT_LOG_FORMAT", "json")

			cfg, err := config.Load()

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.RecordsFile, convey.ShouldEqual, "/tmp/records.jsonl")
				convey.So(cfg.PersistWorkers, convey.ShouldEqual, 0)
				convey.So(cfg.BenchmarksCacheTTL, convey.ShouldEqual, 30*time.Second)
				convey.So(cfg.BenchmarksWatch, convey.ShouldBeTrue)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			_ = os.Setenv("CREDIT_CONFIG", writeConfigFile(t, `
addr: ":9090"
records_file: "var/records.jsonl"
dedupe_size: 1000
records_max_limit: 500
records_default_limit: 100
benchmarks_json: '{"mx":{"avg_score":640}}'
`))

			cfg, err := config.Load()

			convey.Convey("Then it should load from the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.RecordsFile, convey.ShouldEqual, "var/records.jsonl")
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 1000)
				convey.So(cfg.RecordsMaxLimit, convey.ShouldEqual, 500)
				convey.So(cfg.RecordsDefaultLimit, convey.ShouldEqual, 100)
				convey.So(cfg.BenchmarksJSON, convey.ShouldEqual, `{"mx":{"avg_score":640}}`)
			})
		})

		convey.Convey("When both a file and env vars are set", func() {
			_ = os.Setenv("CREDIT_CONFIG", writeConfigFile(t, "addr: \":9090\"\ndedupe_size: 1000\n"))
			_ = os.Setenv("CREDIT_ADDR", ":7070")

			cfg, err := config.Load()

			convey.Convey("Then env vars take precedence over the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 1000)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("CREDIT_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

			_, err := config.Load()

			convey.Convey("Then it should fail with ErrLoadConfig", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the config file is not valid YAML", func() {
			_ = os.Setenv("CREDIT_CONFIG", writeConfigFile(t, "addr: [unterminated\n"))

			_, err := config.Load()

			convey.Convey("Then it should fail with ErrLoadConfig", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a loaded value breaks validation", func() {
			_ = os.Setenv("CREDIT_RECORDS_DEFAULT_LIMIT", "1000")

			_, err := config.Load()

			convey.Convey("Then it should fail with ErrInvalidConfig", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When an env var cannot be decoded", func() {
			_ = os.Setenv("CREDIT_PERSIST_WORKERS", "many")

			_, err := config.Load()

			convey.Convey("Then it should fail with ErrLoadConfig", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})
	})
}
