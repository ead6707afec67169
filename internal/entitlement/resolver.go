// Package entitlement decides whether, and at which tier, a bundle receives a
// capability.
package entitlement

import (
	"strings"

	"licensing-map/internal/catalog"
)

// Kind is the resolved relationship between one bundle and one capability.
type Kind int

const (
	NotIncluded Kind = iota
	IncludedFlat
	IncludedAtTier
	IncludedUnresolvedTier
)

func (k Kind) String() string {
	switch k {
	case IncludedFlat:
		return "included"
	case IncludedAtTier:
		return "included_at_tier"
	case IncludedUnresolvedTier:
		return "included_unresolved_tier"
	default:
		return "not_included"
	}
}

// MarshalText lets Kind appear as a string in JSON responses.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Result is the outcome of Resolve. TierName is set only for IncludedAtTier.
type Result struct {
	Kind     Kind   `json:"kind"`
	TierName string `json:"tierName,omitempty"`
}

// Resolve computes the entitlement of bundle b to capability c. When the
// bundle appears in several tiers the first one in list order wins.
func Resolve(b catalog.Bundle, c catalog.Capability) Result {
	if !b.Includes(c.ID) {
		return Result{Kind: NotIncluded}
	}
	if c.TierStructure == nil {
		return Result{Kind: IncludedFlat}
	}
	for _, tier := range c.TierStructure.Tiers {
		for _, id := range tier.IncludedInBundleIDs {
			if id == b.ID {
				return Result{Kind: IncludedAtTier, TierName: tier.Name}
			}
		}
	}
	return Result{Kind: IncludedUnresolvedTier}
}

// Included reports whether the capability is part of the bundle at all.
func (r Result) Included() bool {
	return r.Kind != NotIncluded
}

// Cell renders the result as an export cell: "No", "Yes" or the tier name.
func (r Result) Cell() string {
	switch r.Kind {
	case NotIncluded:
		return "No"
	case IncludedAtTier:
		return r.TierName
	default:
		return "Yes"
	}
}

var badgeReplacer = []struct{ from, to string }{
	{"Plan ", "P"},
	{"Standard", "Std"},
	{"Premium", "Prem"},
	{"Business / P1", "P1/Bus"},
}

// Badge returns the condensed tier label shown in comparison cells, or an
// empty string when there is no tier to show.
func (r Result) Badge() string {
	if r.Kind != IncludedAtTier {
		return ""
	}
	label := r.TierName
	for _, rep := range badgeReplacer {
		label = strings.Replace(label, rep.from, rep.to, 1)
	}
	return label
}
