// Package aggregate reduces a selection of bundles to totals and builds the
// category-grouped comparison matrix.
package aggregate

import (
	"strings"

	"licensing-map/internal/catalog"
	"licensing-map/internal/money"
)

// Frequency selects which price column is summed.
type Frequency string

const (
	Monthly Frequency = "monthly"
	Annual  Frequency = "annual"
)

// ParseFrequency maps user input to a Frequency, defaulting to Monthly.
func ParseFrequency(s string) Frequency {
	if strings.EqualFold(strings.TrimSpace(s), string(Annual)) {
		return Annual
	}
	return Monthly
}

// Summary is the aggregate of a bundle selection.
type Summary struct {
	Frequency             Frequency `json:"frequency"`
	TotalUSD              float64   `json:"totalUSD"`
	TotalINR              float64   `json:"totalINR"`
	UniqueCapabilityCount int       `json:"uniqueCapabilityCount"`
}

// Summarize sums the prices for frequency f and counts the union of
// capability ids across bundles.
func Summarize(bundles []catalog.Bundle, f Frequency) Summary {
	s := Summary{Frequency: f}
	for _, b := range bundles {
		if f == Annual {
			s.TotalUSD += money.Parse(b.AnnualPriceUSD)
			s.TotalINR += money.Parse(b.AnnualPriceINR)
		} else {
			s.TotalUSD += money.Parse(b.MonthlyPriceUSD)
			s.TotalINR += money.Parse(b.MonthlyPriceINR)
		}
	}
	s.UniqueCapabilityCount = len(CapabilityUnion(bundles))
	return s
}

// CapabilityUnion returns the set of capability ids included by any bundle.
func CapabilityUnion(bundles []catalog.Bundle) map[string]struct{} {
	union := make(map[string]struct{})
	for _, b := range bundles {
		for _, id := range b.CapabilityIDs {
			union[id] = struct{}{}
		}
	}
	return union
}

// Coverage reports how much of the catalog a selection covers.
type Coverage struct {
	Covered int `json:"covered"`
	Total   int `json:"total"`
}

// CoverageOf counts catalog capabilities included by at least one bundle.
// Dangling ids in a bundle that match no capability are not counted.
func CoverageOf(bundles []catalog.Bundle, capabilities []catalog.Capability) Coverage {
	union := CapabilityUnion(bundles)
	cov := Coverage{Total: len(capabilities)}
	for _, c := range capabilities {
		if _, ok := union[c.ID]; ok {
			cov.Covered++
		}
	}
	return cov
}
