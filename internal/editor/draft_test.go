package editor

import (
	"testing"

	"licensing-map/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tieredDraft() *CapabilityDraft {
	return NewCapabilityDraft(catalog.Capability{
		ID:       "feat-x",
		Category: catalog.CategorySecurity,
		TierStructure: &catalog.TierStructure{
			Title: "P1 vs P2",
			Tiers: []catalog.Tier{
				{Name: "Plan 1", CapabilityStatements: []string{"Conditional Access"}, IncludedInBundleIDs: []string{"b1"}},
				{Name: "Plan 2", CapabilityStatements: []string{"Identity Protection"}, IncludedInBundleIDs: []string{"b2"}},
			},
		},
	})
}

func TestDraftIsACopy(t *testing.T) {
	orig := catalog.Capability{ID: "c", TierStructure: &catalog.TierStructure{Tiers: []catalog.Tier{{Name: "A"}}}}
	d := NewCapabilityDraft(orig)
	require.NoError(t, d.RenameTier(0, "B"))
	assert.Equal(t, "A", orig.TierStructure.Tiers[0].Name)
}

func TestAddTierCreatesStructure(t *testing.T) {
	d := NewCapabilityDraft(catalog.Capability{ID: "c"})
	d.AddTier()
	d.AddTier()

	c := d.Capability()
	require.NotNil(t, c.TierStructure)
	assert.Equal(t, DefaultTierTitle, c.TierStructure.Title)
	require.Len(t, c.TierStructure.Tiers, 2)
	assert.Equal(t, "Plan 1", c.TierStructure.Tiers[0].Name)
	assert.Equal(t, "Plan 2", c.TierStructure.Tiers[1].Name)
	assert.Equal(t, []string{PlaceholderStatement}, c.TierStructure.Tiers[1].CapabilityStatements)
	assert.Empty(t, c.TierStructure.Tiers[1].IncludedInBundleIDs)
}

func TestRemoveTier(t *testing.T) {
	d := tieredDraft()

	assert.ErrorIs(t, d.RemoveTier(0, false), ErrConfirmationRequired)
	assert.Len(t, d.Capability().TierStructure.Tiers, 2)

	require.NoError(t, d.RemoveTier(0, true))
	assert.Equal(t, "Plan 2", d.Capability().TierStructure.Tiers[0].Name)

	require.NoError(t, d.RemoveTier(0, true))
	assert.Nil(t, d.Capability().TierStructure, "removing the last tier makes the capability flat")

	assert.ErrorIs(t, d.RemoveTier(0, true), ErrNoTierStructure)
}

func TestMoveTier(t *testing.T) {
	d := tieredDraft()

	require.NoError(t, d.MoveTier(0, Down))
	tiers := d.Capability().TierStructure.Tiers
	assert.Equal(t, "Plan 2", tiers[0].Name)
	assert.Equal(t, "Plan 1", tiers[1].Name)

	require.NoError(t, d.MoveTier(0, Up), "moving the first tier up is a no-op")
	require.NoError(t, d.MoveTier(1, Down), "moving the last tier down is a no-op")
	assert.Equal(t, "Plan 2", d.Capability().TierStructure.Tiers[0].Name)

	assert.ErrorIs(t, d.MoveTier(5, Up), ErrTierIndex)
}

func TestToggleBundleInTier(t *testing.T) {
	d := tieredDraft()

	require.NoError(t, d.ToggleBundleInTier(0, "b3"))
	assert.Equal(t, []string{"b1", "b3"}, d.Capability().TierStructure.Tiers[0].IncludedInBundleIDs)

	require.NoError(t, d.ToggleBundleInTier(0, "b1"))
	assert.Equal(t, []string{"b3"}, d.Capability().TierStructure.Tiers[0].IncludedInBundleIDs)

	assert.ErrorIs(t, d.ToggleBundleInTier(-1, "b1"), ErrTierIndex)
}

func TestStatementEditing(t *testing.T) {
	d := tieredDraft()

	require.NoError(t, d.AddStatement(1))
	require.NoError(t, d.UpdateStatement(1, 1, "Access reviews"))
	assert.Equal(t, []string{"Identity Protection", "Access reviews"}, d.Capability().TierStructure.Tiers[1].CapabilityStatements)

	assert.ErrorIs(t, d.RemoveStatement(1, 0, false), ErrConfirmationRequired)
	require.NoError(t, d.RemoveStatement(1, 0, true))
	assert.Equal(t, []string{"Access reviews"}, d.Capability().TierStructure.Tiers[1].CapabilityStatements)

	assert.ErrorIs(t, d.UpdateStatement(1, 3, "x"), ErrTierIndex)
}

func TestBulkStatements(t *testing.T) {
	tests := []struct {
		name    string
		indices []int
		list    string
		mode    BulkMode
		want0   []string
		want1   []string
	}{
		{
			name:    "add skips case-insensitive duplicates",
			indices: []int{0, 1},
			list:    "conditional access, SSO , ,SSO",
			mode:    BulkAdd,
			want0:   []string{"Conditional Access", "SSO"},
			want1:   []string{"Identity Protection", "conditional access", "SSO"},
		},
		{
			name:    "remove matches case-insensitively",
			indices: []int{0, 1},
			list:    "CONDITIONAL ACCESS, identity protection",
			mode:    BulkRemove,
			want0:   []string{},
			want1:   []string{},
		},
		{
			name:    "only selected tiers change",
			indices: []int{1},
			list:    "PIM",
			mode:    BulkAdd,
			want0:   []string{"Conditional Access"},
			want1:   []string{"Identity Protection", "PIM"},
		},
		{
			name:    "empty list is a no-op",
			indices: []int{0},
			list:    " , ",
			mode:    BulkRemove,
			want0:   []string{"Conditional Access"},
			want1:   []string{"Identity Protection"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tieredDraft()
			require.NoError(t, d.BulkStatements(tt.indices, tt.list, tt.mode))
			tiers := d.Capability().TierStructure.Tiers
			assert.Equal(t, tt.want0, tiers[0].CapabilityStatements)
			assert.Equal(t, tt.want1, tiers[1].CapabilityStatements)
		})
	}
}

func TestBulkAddIsIdempotent(t *testing.T) {
	d := tieredDraft()
	require.NoError(t, d.BulkStatements([]int{0, 1}, "SSO, MFA", BulkAdd))
	once := d.Capability()
	require.NoError(t, d.BulkStatements([]int{0, 1}, "sso, mfa", BulkAdd))
	assert.Equal(t, once, d.Capability())
}

func TestBulkStatementsValidatesBeforeMutating(t *testing.T) {
	d := tieredDraft()
	err := d.BulkStatements([]int{0, 9}, "SSO", BulkAdd)
	assert.ErrorIs(t, err, ErrTierIndex)
	assert.Equal(t, []string{"Conditional Access"}, d.Capability().TierStructure.Tiers[0].CapabilityStatements)

	assert.Error(t, d.BulkStatements([]int{0}, "SSO", "MERGE"))
}

func TestBundleDraft(t *testing.T) {
	d := NewBundleDraft(catalog.Bundle{ID: "b", CapabilityIDs: []string{"c1"}})
	d.ToggleCapability("c2")
	d.ToggleCapability("c1")
	d.SetFields(BundleFields{Name: "Plan", Type: catalog.BundleFrontline, MonthlyPriceUSD: "$8.00"})

	b := d.Bundle()
	assert.Equal(t, []string{"c2"}, b.CapabilityIDs)
	assert.Equal(t, "Plan", b.Name)
	assert.Equal(t, "b", b.ID)
	assert.Equal(t, catalog.BundleFrontline, b.Type)
}
