package model

import "strings"

// UnknownCountry is stored for records scored without a country.
const UnknownCountry = "unknown"

// Record is the anonymized, persisted outcome of one scoring event.
// Records are append-only and never updated.
type Record struct {
	TS                 int64     `json:"ts"`
	Score              int       `json:"score"`
	RiskLevel          RiskLevel `json:"risk_level"`
	DefaultProbability float64   `json:"default_probability"`
	Country            string    `json:"country"`
}

// CountryKey returns the lower-cased country, or UnknownCountry when absent.
func (r Record) CountryKey() string {
	return NormalizeCountry(r.Country)
}

// NormalizeCountry lower-cases a country code, mapping empty to UnknownCountry.
func NormalizeCountry(country string) string {
	if country == "" {
		return UnknownCountry
	}
	return strings.ToLower(country)
}

// Stats are score aggregates over a set of records.
type Stats struct {
	AverageScore int `json:"average_score"`
	MedianScore  int `json:"median_score"`
	P10          int `json:"p10"`
	P90          int `json:"p90"`
	SampleSize   int `json:"sample_size"`
}

// Benchmark is the derived view of Stats for one country. It is never stored.
type Benchmark struct {
	Country string `json:"country"`
	Stats
}
