package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licensing-map/internal/catalog"
	"licensing-map/internal/entitlement"
)

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, Monthly)
	assert.Equal(t, Summary{Frequency: Monthly}, s)
}

func TestSummarizeUnionCount(t *testing.T) {
	a := catalog.Bundle{ID: "a", MonthlyPriceUSD: "$10.00", MonthlyPriceINR: "₹800", CapabilityIDs: []string{"x", "y"}}
	b := catalog.Bundle{ID: "b", MonthlyPriceUSD: "$2.50", MonthlyPriceINR: "₹1,200", CapabilityIDs: []string{"y", "z"}}

	s := Summarize([]catalog.Bundle{a, b}, Monthly)
	assert.Equal(t, 3, s.UniqueCapabilityCount)
	assert.InDelta(t, 12.50, s.TotalUSD, 1e-9)
	assert.InDelta(t, 2000, s.TotalINR, 1e-9)

	reversed := Summarize([]catalog.Bundle{b, a}, Monthly)
	assert.Equal(t, s.UniqueCapabilityCount, reversed.UniqueCapabilityCount)
	assert.InDelta(t, s.TotalUSD, reversed.TotalUSD, 1e-9)
}

func TestSummarizeAnnualAndUnparseable(t *testing.T) {
	a := catalog.Bundle{ID: "a", MonthlyPriceUSD: "$1", AnnualPriceUSD: "$12", AnnualPriceINR: "₹1,000"}
	b := catalog.Bundle{ID: "b", AnnualPriceUSD: "Contact us for pricing", AnnualPriceINR: ""}

	s := Summarize([]catalog.Bundle{a, b}, Annual)
	assert.InDelta(t, 12, s.TotalUSD, 1e-9)
	assert.InDelta(t, 1000, s.TotalINR, 1e-9)
	assert.Equal(t, Annual, s.Frequency)
}

func TestParseFrequency(t *testing.T) {
	assert.Equal(t, Annual, ParseFrequency("ANNUAL"))
	assert.Equal(t, Monthly, ParseFrequency("monthly"))
	assert.Equal(t, Monthly, ParseFrequency(""))
	assert.Equal(t, Monthly, ParseFrequency("weekly"))
}

func TestCoverageOf(t *testing.T) {
	caps := []catalog.Capability{{ID: "x"}, {ID: "y"}, {ID: "z"}}
	bundles := []catalog.Bundle{{ID: "a", CapabilityIDs: []string{"x", "ghost"}}}
	assert.Equal(t, Coverage{Covered: 1, Total: 3}, CoverageOf(bundles, caps))
}

func TestBuildMatrix(t *testing.T) {
	caps := []catalog.Capability{
		{ID: "teams", Name: "Teams", Description: "Chat", Category: catalog.CategoryVoice},
		{ID: "word", Name: "Word", Description: "Documents", Category: catalog.CategoryProductivity},
		{ID: "entra", Name: "Entra ID", Description: "Identity", Category: catalog.CategorySecurity,
			TierStructure: &catalog.TierStructure{Tiers: []catalog.Tier{
				{Name: "Plan 1", IncludedInBundleIDs: []string{"a"}},
				{Name: "Plan 2", IncludedInBundleIDs: []string{"b"}},
			}}},
		{ID: "unused", Name: "Unused", Category: catalog.CategoryCompliance},
	}
	bundles := []catalog.Bundle{
		{ID: "a", CapabilityIDs: []string{"word", "entra"}},
		{ID: "b", CapabilityIDs: []string{"entra", "teams"}},
	}

	m := BuildMatrix(bundles, caps, Filter{})
	require.Len(t, m.Sections, 3)
	assert.Equal(t, catalog.CategoryProductivity, m.Sections[0].Category)
	assert.Equal(t, catalog.CategorySecurity, m.Sections[1].Category)
	assert.Equal(t, catalog.CategoryVoice, m.Sections[2].Category)

	rows := m.Rows()
	require.Len(t, rows, 3)
	entra := rows[1]
	assert.Equal(t, "entra", entra.Capability.ID)
	assert.Equal(t, []entitlement.Result{
		{Kind: entitlement.IncludedAtTier, TierName: "Plan 1"},
		{Kind: entitlement.IncludedAtTier, TierName: "Plan 2"},
	}, entra.Cells)

	assert.Equal(t, Coverage{Covered: 3, Total: 4}, m.Coverage)
	assert.Equal(t, 1, m.CategoryCounts[catalog.CategorySecurity])
	assert.Zero(t, m.CategoryCounts[catalog.CategoryCompliance])
}

func TestBuildMatrixFilter(t *testing.T) {
	caps := []catalog.Capability{
		{ID: "teams", Name: "Teams", Description: "Chat and meetings", Category: catalog.CategoryVoice},
		{ID: "dlp", Name: "Data Loss Prevention", Description: "Protect sensitive data", Category: catalog.CategoryCompliance},
	}
	bundles := []catalog.Bundle{{ID: "a", CapabilityIDs: []string{"teams", "dlp"}}}

	m := BuildMatrix(bundles, caps, Filter{Search: "MEETINGS"})
	require.Len(t, m.Rows(), 1)
	assert.Equal(t, "teams", m.Rows()[0].Capability.ID)

	m = BuildMatrix(bundles, caps, Filter{Category: catalog.CategoryCompliance})
	require.Len(t, m.Rows(), 1)
	assert.Equal(t, "dlp", m.Rows()[0].Capability.ID)
	assert.Equal(t, 1, m.CategoryCounts[catalog.CategoryVoice])

	m = BuildMatrix(nil, caps, Filter{})
	assert.Empty(t, m.Sections)
}
