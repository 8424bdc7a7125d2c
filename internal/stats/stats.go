// Package stats turns grouped raw values into per-country means.
package stats

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/KaramelBytes/metricmean-cli/internal/aggregate"
)

// Mean is the rounded arithmetic mean of one country's values.
type Mean struct {
	Country string
	Value   float64
	Count   int
}

// ParseError reports a raw value that is not a number.
type ParseError struct {
	Country string
	Value   string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: %v", e.Value, e.Country, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Means computes the mean of every non-empty group, in first-seen order.
// Countries without values are omitted. Any unparseable value fails the
// whole computation.
func Means(g *aggregate.Grouped) ([]Mean, error) {
	out := make([]Mean, 0, g.Len())
	for _, country := range g.Keys() {
		vals := g.Values(country)
		if len(vals) == 0 {
			continue
		}
		m, err := mean(country, vals)
		if err != nil {
			return nil, err
		}
		out = append(out, Mean{Country: country, Value: Round2(m), Count: len(vals)})
	}
	slog.Debug("means computed", slog.Int("groups", g.Len()), slog.Int("results", len(out)))
	return out, nil
}

// mean sums the parsed values and divides by their count.
func mean(country string, vals []string) (float64, error) {
	var sum float64
	for _, raw := range vals {
		x, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return 0, &ParseError{Country: country, Value: raw, Err: err}
		}
		sum += x
	}
	return sum / float64(len(vals)), nil
}

// Round2 rounds v to two decimal places. It relies on strconv's correctly
// rounded decimal conversion, so a value lying exactly halfway in binary
// rounds to even (0.125 -> 0.12) and any other value goes to the nearer side
// of its exact binary expansion (2.675 -> 2.67).
func Round2(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		// NaN and ±Inf format to strings ParseFloat accepts; unreachable.
		return v
	}
	return r
}
