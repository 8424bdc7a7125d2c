// Package aggregate collects raw metric values per country across files.
package aggregate

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/KaramelBytes/metricmean-cli/internal/dataset"
)

// CountryKeys are the header names tried, in order, for a row's country.
// Matching is exact: the country key is not case-folded.
var CountryKeys = []string{"country", "Country"}

// UnknownCountry is the key used when a file has none of CountryKeys.
const UnknownCountry = "Unknown"

// Grouped maps a country to its raw metric values, in file order then row
// order. Keys remember the order they were first seen.
type Grouped struct {
	keys   []string
	values map[string][]string
}

// NewGrouped returns an empty Grouped.
func NewGrouped() *Grouped {
	return &Grouped{values: map[string][]string{}}
}

// Add appends value to country's sequence, creating it if absent.
func (g *Grouped) Add(country, value string) {
	g.Ensure(country)
	g.values[country] = append(g.values[country], value)
}

// Ensure inserts country with an empty sequence if it is absent.
func (g *Grouped) Ensure(country string) {
	if _, ok := g.values[country]; !ok {
		g.keys = append(g.keys, country)
		g.values[country] = nil
	}
}

// Keys returns the countries in first-seen order.
func (g *Grouped) Keys() []string { return g.keys }

// Values returns the raw values collected for country.
func (g *Grouped) Values(country string) []string { return g.values[country] }

// Len returns the number of countries.
func (g *Grouped) Len() int { return len(g.keys) }

// Skip records a file left out of the aggregation.
type Skip struct {
	Path   string
	Metric string
}

func (s Skip) String() string {
	return fmt.Sprintf("column %q not found in %s; skipping file", s.Metric, s.Path)
}

// Collect reads every file and groups the raw values of metric by country.
// Files without a column matching metric are skipped and reported; open and
// read failures abort the whole collection.
func Collect(files []string, metric string, opt dataset.Options) (*Grouped, []Skip, error) {
	g := NewGrouped()
	var skips []Skip
	for _, path := range files {
		ok, err := collectFile(g, path, metric, opt)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			skips = append(skips, Skip{Path: path, Metric: metric})
			slog.Debug("file skipped", slog.String("path", path), slog.String("metric", metric))
		}
	}
	return g, skips, nil
}

func collectFile(g *Grouped, path, metric string, opt dataset.Options) (bool, error) {
	rows, err := dataset.Open(path, opt)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	header := rows.Header()
	mi := dataset.Index(header, metric)
	if mi < 0 {
		return false, nil
	}
	ci := countryIndex(header)
	slog.Debug("metric resolved",
		slog.String("path", path),
		slog.String("column", header[mi]),
		slog.Int("country_index", ci))

	var kept, dropped int
	for {
		rec, err := rows.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return false, err
		}
		if mi >= len(rec) {
			dropped++
			continue
		}
		country := UnknownCountry
		if ci >= 0 && ci < len(rec) {
			country = rec[ci]
		}
		g.Add(country, rec[mi])
		kept++
	}
	slog.Debug("file collected", slog.String("path", path), slog.Int("rows", kept), slog.Int("short_rows", dropped))
	return true, nil
}

// countryIndex returns the position of the first CountryKeys column present
// in header, or -1.
func countryIndex(header []string) int {
	for _, k := range CountryKeys {
		for i, h := range header {
			if h == k {
				return i
			}
		}
	}
	return -1
}
