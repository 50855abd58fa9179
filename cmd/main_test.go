package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/creditscore/internal/config"
	"github.com/okian/creditscore/pkg/logger"
	"github.com/okian/creditscore/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.New()
	cfg.RecordsFile = filepath.Join(dir, "records.jsonl")
	cfg.BenchmarksFile = filepath.Join(dir, "benchmarks.json")
	cfg.BenchmarksJSON = `{"MX":{"avg_score":640}}`
	cfg.PersistWorkers = 0
	return cfg
}

func TestMainWiring(t *testing.T) {
	_ = logger.Init()

	convey.Convey("Given a service and handler built from config", t, func() {
		ctx := context.Background()
		cfg := testConfig(t)
		log := logger.Get()
		svc := newService(cfg, log)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		ts := httptest.NewServer(newHandler(cfg, svc, log))
		defer ts.Close()

		convey.Convey("When an applicant is scored over HTTP", func() {
			resp, err := http.Post(ts.URL+"/credit-score", "application/json",
				strings.NewReader(`{"edad":30,"ingresos_mensuales":5000,"historial_pagos":"bueno","deudas_activas":1,"tiempo_empleo_actual_meses":36,"pais":"MX","tiene_garantia":true}`))
			convey.So(err, convey.ShouldBeNil)
			_ = resp.Body.Close()

			convey.Convey("Then the record shows up in the benchmarks", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				b, ok, err := svc.BenchmarkForCountry(ctx, "mx")
				convey.So(err, convey.ShouldBeNil)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(b.MedianScore, convey.ShouldEqual, 760)
				convey.So(b.SampleSize, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("Then docs, metrics and reference data are mounted", func() {
			for _, path := range []string{"/api-docs", "/openapi.yaml", "/metrics", "/health", "/reference-benchmarks/mx"} {
				resp, err := http.Get(ts.URL + path)
				convey.So(err, convey.ShouldBeNil)
				_ = resp.Body.Close()
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			}
		})

		convey.Convey("Then the records page limit follows config", func() {
			resp, err := http.Get(ts.URL + "/records?limit=100000")
			convey.So(err, convey.ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()
			body, err := io.ReadAll(resp.Body)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(body), convey.ShouldContainSubstring, `"limit":200`)
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the metrics updaters", t, func() {
		convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		convey.So(metrics.GetRegistry(), convey.ShouldNotBeNil)
	})
}
