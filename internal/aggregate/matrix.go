package aggregate

import (
	"strings"

	"licensing-map/internal/catalog"
	"licensing-map/internal/entitlement"
)

// Filter narrows the matrix. Zero value means no filtering.
type Filter struct {
	Search   string
	Category catalog.Category
}

// Matches reports whether c passes the category and search filters.
func (f Filter) Matches(c catalog.Capability) bool {
	if f.Category != "" && c.Category != f.Category {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Name), term) ||
		strings.Contains(strings.ToLower(c.Description), term)
}

// Row is one capability with a result per selected bundle, in bundle order.
type Row struct {
	Category   catalog.Category     `json:"category"`
	Capability catalog.Capability   `json:"capability"`
	Cells      []entitlement.Result `json:"cells"`
}

// Section groups rows of one category.
type Section struct {
	Category catalog.Category `json:"category"`
	Rows     []Row            `json:"rows"`
}

// Matrix is the side-by-side comparison of selected bundles.
type Matrix struct {
	Bundles  []catalog.Bundle `json:"bundles"`
	Sections []Section        `json:"sections"`
	// CategoryCounts counts selected capabilities per category, ignoring the
	// filter, to label the category picker.
	CategoryCounts map[catalog.Category]int `json:"categoryCounts"`
	Coverage       Coverage                 `json:"coverage"`
}

// Rows flattens the sections in display order.
func (m Matrix) Rows() []Row {
	var rows []Row
	for _, s := range m.Sections {
		rows = append(rows, s.Rows...)
	}
	return rows
}

// BuildMatrix lays out every capability included by at least one of bundles,
// grouped by category in display order. Categories with no rows are omitted.
func BuildMatrix(bundles []catalog.Bundle, capabilities []catalog.Capability, f Filter) Matrix {
	union := CapabilityUnion(bundles)
	m := Matrix{
		Bundles:        bundles,
		CategoryCounts: make(map[catalog.Category]int),
		Coverage:       CoverageOf(bundles, capabilities),
	}

	for _, cat := range catalog.Categories() {
		section := Section{Category: cat}
		for _, c := range capabilities {
			if c.Category != cat {
				continue
			}
			if _, ok := union[c.ID]; !ok {
				continue
			}
			m.CategoryCounts[cat]++
			if !f.Matches(c) {
				continue
			}
			row := Row{Category: cat, Capability: c, Cells: make([]entitlement.Result, len(bundles))}
			for i, b := range bundles {
				row.Cells[i] = entitlement.Resolve(b, c)
			}
			section.Rows = append(section.Rows, row)
		}
		if len(section.Rows) > 0 {
			m.Sections = append(m.Sections, section)
		}
	}
	return m
}
