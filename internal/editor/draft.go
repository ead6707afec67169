package editor

import (
	"errors"
	"fmt"
	"strings"

	"licensing-map/internal/catalog"
)

var (
	// ErrTierIndex is returned for a tier or statement index outside the draft.
	ErrTierIndex = errors.New("index out of range")
	// ErrNoTierStructure is returned by tier operations on a flat capability.
	ErrNoTierStructure = errors.New("capability has no tier structure")
	// ErrConfirmationRequired is returned by destructive draft operations
	// called without confirm.
	ErrConfirmationRequired = errors.New("confirmation required")
)

// DefaultTierTitle names the tier structure created by the first AddTier.
const DefaultTierTitle = "Standard vs Premium"

// PlaceholderStatement seeds every new tier.
const PlaceholderStatement = "New feature capability"

// Direction moves a tier one position.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// BulkMode selects whether BulkStatements adds or removes.
type BulkMode string

const (
	BulkAdd    BulkMode = "ADD"
	BulkRemove BulkMode = "REMOVE"
)

// CapabilityFields are the plain fields of a capability draft.
type CapabilityFields struct {
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	Category          catalog.Category `json:"category"`
	DocumentationLink string           `json:"documentationLink"`
}

// CapabilityDraft is a private working copy of one capability.
type CapabilityDraft struct {
	c catalog.Capability
}

// NewCapabilityDraft copies c into a draft.
func NewCapabilityDraft(c catalog.Capability) *CapabilityDraft {
	return &CapabilityDraft{c: c.Clone()}
}

// Capability returns a copy of the current draft.
func (d *CapabilityDraft) Capability() catalog.Capability {
	return d.c.Clone()
}

// SetFields replaces name, description, category and documentation link.
func (d *CapabilityDraft) SetFields(f CapabilityFields) {
	d.c.Name = f.Name
	d.c.Description = f.Description
	d.c.Category = f.Category
	d.c.DocumentationLink = f.DocumentationLink
}

// SetTierTitle renames the tier structure.
func (d *CapabilityDraft) SetTierTitle(title string) error {
	if d.c.TierStructure == nil {
		return ErrNoTierStructure
	}
	d.c.TierStructure.Title = title
	return nil
}

// AddTier appends "Plan N" with one placeholder statement, creating the tier
// structure when the capability is flat.
func (d *CapabilityDraft) AddTier() {
	if d.c.TierStructure == nil {
		d.c.TierStructure = &catalog.TierStructure{Title: DefaultTierTitle, Tiers: []catalog.Tier{}}
	}
	n := len(d.c.TierStructure.Tiers) + 1
	d.c.TierStructure.Tiers = append(d.c.TierStructure.Tiers, catalog.Tier{
		Name:                 fmt.Sprintf("Plan %d", n),
		CapabilityStatements: []string{PlaceholderStatement},
		IncludedInBundleIDs:  []string{},
	})
}

// RemoveTier deletes tier i. Removing the last tier makes the capability flat.
func (d *CapabilityDraft) RemoveTier(i int, confirm bool) error {
	if err := d.checkTier(i); err != nil {
		return err
	}
	if !confirm {
		return ErrConfirmationRequired
	}
	ts := d.c.TierStructure
	ts.Tiers = append(ts.Tiers[:i], ts.Tiers[i+1:]...)
	if len(ts.Tiers) == 0 {
		d.c.TierStructure = nil
	}
	return nil
}

// MoveTier swaps tier i with its neighbour. Moving past either end is a no-op.
func (d *CapabilityDraft) MoveTier(i int, dir Direction) error {
	if err := d.checkTier(i); err != nil {
		return err
	}
	j := i - 1
	if dir == Down {
		j = i + 1
	}
	tiers := d.c.TierStructure.Tiers
	if j < 0 || j >= len(tiers) {
		return nil
	}
	tiers[i], tiers[j] = tiers[j], tiers[i]
	return nil
}

// RenameTier sets the name of tier i.
func (d *CapabilityDraft) RenameTier(i int, name string) error {
	if err := d.checkTier(i); err != nil {
		return err
	}
	d.c.TierStructure.Tiers[i].Name = name
	return nil
}

// ToggleBundleInTier adds bundleID to tier i, or removes it if present.
func (d *CapabilityDraft) ToggleBundleInTier(i int, bundleID string) error {
	if err := d.checkTier(i); err != nil {
		return err
	}
	t := &d.c.TierStructure.Tiers[i]
	for k, id := range t.IncludedInBundleIDs {
		if id == bundleID {
			t.IncludedInBundleIDs = append(t.IncludedInBundleIDs[:k], t.IncludedInBundleIDs[k+1:]...)
			return nil
		}
	}
	t.IncludedInBundleIDs = append(t.IncludedInBundleIDs, bundleID)
	return nil
}

// AddStatement appends an empty statement to tier i for the caller to fill in.
func (d *CapabilityDraft) AddStatement(i int) error {
	if err := d.checkTier(i); err != nil {
		return err
	}
	t := &d.c.TierStructure.Tiers[i]
	t.CapabilityStatements = append(t.CapabilityStatements, "")
	return nil
}

// UpdateStatement sets statement k of tier i.
func (d *CapabilityDraft) UpdateStatement(i, k int, value string) error {
	if err := d.checkStatement(i, k); err != nil {
		return err
	}
	d.c.TierStructure.Tiers[i].CapabilityStatements[k] = value
	return nil
}

// RemoveStatement deletes statement k of tier i.
func (d *CapabilityDraft) RemoveStatement(i, k int, confirm bool) error {
	if err := d.checkStatement(i, k); err != nil {
		return err
	}
	if !confirm {
		return ErrConfirmationRequired
	}
	t := &d.c.TierStructure.Tiers[i]
	t.CapabilityStatements = append(t.CapabilityStatements[:k], t.CapabilityStatements[k+1:]...)
	return nil
}

// BulkStatements applies a comma-separated statement list to every selected
// tier. Add appends statements not already present; Remove deletes matches.
// Both compare case-insensitively. Indices are checked before any tier is
// touched.
func (d *CapabilityDraft) BulkStatements(tierIndices []int, list string, mode BulkMode) error {
	for _, i := range tierIndices {
		if err := d.checkTier(i); err != nil {
			return err
		}
	}
	if mode != BulkAdd && mode != BulkRemove {
		return fmt.Errorf("unknown bulk mode %q", mode)
	}

	statements := ParseStatementList(list)
	if len(statements) == 0 {
		return nil
	}

	seen := make(map[int]bool, len(tierIndices))
	for _, i := range tierIndices {
		if seen[i] {
			continue
		}
		seen[i] = true

		t := &d.c.TierStructure.Tiers[i]
		switch mode {
		case BulkAdd:
			t.CapabilityStatements = addStatements(t.CapabilityStatements, statements)
		case BulkRemove:
			t.CapabilityStatements = removeStatements(t.CapabilityStatements, statements)
		}
	}
	return nil
}

// ParseStatementList splits "a, b, c" into trimmed non-empty statements.
func ParseStatementList(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func addStatements(existing, add []string) []string {
	present := make(map[string]bool, len(existing)+len(add))
	for _, s := range existing {
		present[strings.ToLower(s)] = true
	}
	out := existing
	if out == nil {
		out = []string{}
	}
	for _, s := range add {
		key := strings.ToLower(s)
		if present[key] {
			continue
		}
		present[key] = true
		out = append(out, s)
	}
	return out
}

func removeStatements(existing, remove []string) []string {
	drop := make(map[string]bool, len(remove))
	for _, s := range remove {
		drop[strings.ToLower(s)] = true
	}
	out := make([]string, 0, len(existing))
	for _, s := range existing {
		if !drop[strings.ToLower(strings.TrimSpace(s))] {
			out = append(out, s)
		}
	}
	return out
}

func (d *CapabilityDraft) checkTier(i int) error {
	if d.c.TierStructure == nil {
		return ErrNoTierStructure
	}
	if i < 0 || i >= len(d.c.TierStructure.Tiers) {
		return fmt.Errorf("tier %d: %w", i, ErrTierIndex)
	}
	return nil
}

func (d *CapabilityDraft) checkStatement(i, k int) error {
	if err := d.checkTier(i); err != nil {
		return err
	}
	if k < 0 || k >= len(d.c.TierStructure.Tiers[i].CapabilityStatements) {
		return fmt.Errorf("statement %d of tier %d: %w", k, i, ErrTierIndex)
	}
	return nil
}

// BundleFields are the plain fields of a bundle draft.
type BundleFields struct {
	Name            string             `json:"name"`
	Description     string             `json:"description"`
	Type            catalog.BundleType `json:"type"`
	MonthlyPriceUSD string             `json:"monthlyPriceUSD"`
	MonthlyPriceINR string             `json:"monthlyPriceINR"`
	AnnualPriceUSD  string             `json:"annualPriceUSD"`
	AnnualPriceINR  string             `json:"annualPriceINR"`
	AccentColor     string             `json:"accentColor"`
}

// BundleDraft is a private working copy of one bundle.
type BundleDraft struct {
	b catalog.Bundle
}

// NewBundleDraft copies b into a draft.
func NewBundleDraft(b catalog.Bundle) *BundleDraft {
	return &BundleDraft{b: b.Clone()}
}

// Bundle returns a copy of the current draft.
func (d *BundleDraft) Bundle() catalog.Bundle {
	return d.b.Clone()
}

// SetFields replaces every field except the id and capability list.
func (d *BundleDraft) SetFields(f BundleFields) {
	d.b.Name = f.Name
	d.b.Description = f.Description
	d.b.Type = f.Type
	d.b.MonthlyPriceUSD = f.MonthlyPriceUSD
	d.b.MonthlyPriceINR = f.MonthlyPriceINR
	d.b.AnnualPriceUSD = f.AnnualPriceUSD
	d.b.AnnualPriceINR = f.AnnualPriceINR
	d.b.AccentColor = f.AccentColor
}

// ToggleCapability adds capabilityID to the base set, or removes it if present.
func (d *BundleDraft) ToggleCapability(capabilityID string) {
	for k, id := range d.b.CapabilityIDs {
		if id == capabilityID {
			d.b.CapabilityIDs = append(d.b.CapabilityIDs[:k], d.b.CapabilityIDs[k+1:]...)
			return
		}
	}
	d.b.CapabilityIDs = append(d.b.CapabilityIDs, capabilityID)
}
