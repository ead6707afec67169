package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"licensing-map/internal/aggregate"
	"licensing-map/internal/catalog"
	"licensing-map/internal/catalogstore"
	"licensing-map/internal/entitlement"
	"licensing-map/internal/money"
)

// RunBundleList handles the 'bundle-list' command.
func RunBundleList(ctx context.Context, st *catalogstore.Store, args []string) error {
	fs := flag.NewFlagSet("bundle-list", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	bundles := st.Bundles()
	fmt.Printf("Found %d bundles:\n\n", len(bundles))
	for _, b := range bundles {
		fmt.Printf("%-14s %-40s %-10s %10s/mo %12s/mo  %d capabilities\n",
			b.ID, b.Name, b.Type, b.MonthlyPriceUSD, b.MonthlyPriceINR, len(b.CapabilityIDs))
	}
	return nil
}

// RunCapabilityList handles the 'capability-list' command.
func RunCapabilityList(ctx context.Context, st *catalogstore.Store, args []string) error {
	fs := flag.NewFlagSet("capability-list", flag.ContinueOnError)
	category := fs.String("category", "", "Only list capabilities in this category")
	search := fs.String("search", "", "Case-insensitive match on name or description")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	f := aggregate.Filter{Search: *search, Category: catalog.Category(*category)}
	if f.Category != "" && !f.Category.IsValid() {
		return fmt.Errorf("unknown category %q", *category)
	}

	count := 0
	for _, c := range st.Capabilities() {
		if !f.Matches(c) {
			continue
		}
		count++
		fmt.Printf("%-26s %-24s %s\n", c.ID, c.Category, c.Name)
		if c.TierStructure != nil {
			for _, t := range c.TierStructure.Tiers {
				fmt.Printf("  └ %s: %s\n", t.Name, strings.Join(t.IncludedInBundleIDs, ", "))
			}
		}
	}
	fmt.Printf("\n%d capabilities\n", count)
	return nil
}

// RunSummary handles the 'summary' command: totals and the comparison
// matrix for a bundle selection.
func RunSummary(ctx context.Context, st *catalogstore.Store, args []string) error {
	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	bundleList := fs.String("bundles", "", "Comma-separated bundle ids (default: the standard comparison)")
	frequency := fs.String("frequency", "monthly", "monthly or annual")
	showMatrix := fs.Bool("matrix", false, "Print the comparison matrix")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	bundles := selectBundles(st, *bundleList)
	f := aggregate.ParseFrequency(*frequency)
	sum := aggregate.Summarize(bundles, f)
	cov := aggregate.CoverageOf(bundles, st.Capabilities())

	fmt.Printf("Selected bundles: %d\n", len(bundles))
	for _, b := range bundles {
		fmt.Printf("  - %s (%s)\n", b.Name, b.ID)
	}
	fmt.Printf("Total (%s): %s / %s\n", f, money.Format(sum.TotalUSD, money.USD), money.Format(sum.TotalINR, money.INR))
	fmt.Printf("Unique capabilities: %d\n", sum.UniqueCapabilityCount)
	fmt.Printf("Coverage: %d of %d\n", cov.Covered, cov.Total)

	if !*showMatrix {
		return nil
	}

	m := aggregate.BuildMatrix(bundles, st.Capabilities(), aggregate.Filter{})
	for _, section := range m.Sections {
		fmt.Printf("\n== %s ==\n", section.Category)
		for _, row := range section.Rows {
			cells := make([]string, len(row.Cells))
			for i, r := range row.Cells {
				cells[i] = cellText(r)
			}
			fmt.Printf("%-36s %s\n", row.Capability.Name, strings.Join(cells, " | "))
		}
	}
	return nil
}

func cellText(r entitlement.Result) string {
	if badge := r.Badge(); badge != "" {
		return badge
	}
	return r.Cell()
}

// selectBundles resolves a --bundles flag value. Empty means the default
// comparison set.
func selectBundles(st *catalogstore.Store, list string) []catalog.Bundle {
	if strings.TrimSpace(list) == "" {
		return st.BundlesByID(catalog.DefaultComparisonBundleIDs())
	}
	var ids []string
	for _, id := range strings.Split(list, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return st.BundlesByID(ids)
}
