package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapabilityCloneIsDeep(t *testing.T) {
	caps, _ := Defaults()
	var original Capability
	for _, c := range caps {
		if c.ID == "feat-entra-id" {
			original = c
		}
	}
	require.NotNil(t, original.TierStructure)

	draft := original.Clone()
	draft.TierStructure.Title = "changed"
	draft.TierStructure.Tiers[0].Name = "changed"
	draft.TierStructure.Tiers[0].IncludedInBundleIDs[0] = "changed"
	draft.TierStructure.Tiers[0].CapabilityStatements = append(draft.TierStructure.Tiers[0].CapabilityStatements, "extra")

	assert.Equal(t, "Standard vs Premium", original.TierStructure.Title)
	assert.Equal(t, "Plan 1", original.TierStructure.Tiers[0].Name)
	assert.Equal(t, BundleIDBusinessPremium, original.TierStructure.Tiers[0].IncludedInBundleIDs[0])
	assert.Len(t, original.TierStructure.Tiers[0].CapabilityStatements, 2)
}

func TestCloneNormalisesNilLists(t *testing.T) {
	tier := Tier{Name: "Standard"}.Clone()
	assert.NotNil(t, tier.CapabilityStatements)
	assert.NotNil(t, tier.IncludedInBundleIDs)
	assert.Equal(t, Tier{Name: "Standard", CapabilityStatements: []string{}, IncludedInBundleIDs: []string{}}, tier)

	assert.NotNil(t, Bundle{ID: "b"}.Clone().CapabilityIDs)
}

func TestBundleCloneIsDeep(t *testing.T) {
	b := Bundle{ID: "b", CapabilityIDs: []string{"x", "y"}}
	c := b.Clone()
	c.CapabilityIDs[0] = "z"
	assert.Equal(t, "x", b.CapabilityIDs[0])
}

func TestDefaultsReturnsFreshCopies(t *testing.T) {
	caps1, bundles1 := Defaults()
	caps1[0].Name = "mutated"
	bundles1[0].CapabilityIDs = nil

	caps2, bundles2 := Defaults()
	assert.NotEqual(t, "mutated", caps2[0].Name)
	assert.NotEmpty(t, bundles2[0].CapabilityIDs)
}

func TestDefaultsReferentialIntegrity(t *testing.T) {
	caps, bundles := Defaults()

	capIDs := make(map[string]bool)
	for _, c := range caps {
		assert.False(t, capIDs[c.ID], "duplicate capability id %s", c.ID)
		capIDs[c.ID] = true
		assert.NoError(t, Validate(c))
		assert.Nil(t, DuplicateTierMemberships(c), "capability %s lists a bundle in two tiers", c.ID)
	}

	byID := make(map[string]Bundle)
	for _, b := range bundles {
		assert.NoError(t, Validate(b))
		byID[b.ID] = b
		for _, id := range b.CapabilityIDs {
			assert.True(t, capIDs[id], "bundle %s references unknown capability %s", b.ID, id)
		}
	}

	for _, c := range caps {
		if !c.HasTiers() {
			continue
		}
		for _, tier := range c.TierStructure.Tiers {
			for _, bundleID := range tier.IncludedInBundleIDs {
				b, ok := byID[bundleID]
				require.True(t, ok, "tier %s of %s references unknown bundle %s", tier.Name, c.ID, bundleID)
				assert.True(t, b.Includes(c.ID), "bundle %s is tiered for %s but does not include it", bundleID, c.ID)
			}
		}
	}

	for _, id := range DefaultComparisonBundleIDs() {
		_, ok := byID[id]
		assert.True(t, ok, id)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		record  interface{}
		wantErr bool
	}{
		{"empty name allowed", Capability{Category: CategorySecurity}, false},
		{"unknown category", Capability{Name: "x", Category: "Gaming"}, true},
		{"bad link", Capability{Category: CategoryCompliance, DocumentationLink: "not a url"}, true},
		{"category with spaces", Capability{Category: CategoryVoice}, false},
		{"bundle type", Bundle{Type: BundleAddOn}, false},
		{"unknown bundle type", Bundle{Type: "Education"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.record)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDuplicateTierMemberships(t *testing.T) {
	c := Capability{
		ID: "c",
		TierStructure: &TierStructure{Tiers: []Tier{
			{Name: "A", IncludedInBundleIDs: []string{"b1", "b2"}},
			{Name: "B", IncludedInBundleIDs: []string{"b2"}},
		}},
	}
	dups := DuplicateTierMemberships(c)
	assert.Equal(t, map[string][]int{"b2": {0, 1}}, dups)
	assert.Nil(t, DuplicateTierMemberships(Capability{ID: "flat"}))
}

func TestCategoryIsValid(t *testing.T) {
	assert.True(t, CategoryWindows.IsValid())
	assert.False(t, Category("Other").IsValid())
	assert.Len(t, Categories(), 7)
}
