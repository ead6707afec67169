// Package catalog holds the capability and bundle records that make up the
// licensing catalog, plus the built-in default dataset.
package catalog

// Category groups capabilities on the dashboard.
type Category string

const (
	CategoryProductivity Category = "Productivity"
	CategorySecurity     Category = "Security"
	CategoryCompliance   Category = "Compliance"
	CategoryManagement   Category = "Management"
	CategoryVoice        Category = "Voice & Collaboration"
	CategoryWindows      Category = "Windows & OS"
	CategoryExperience   Category = "Employee Experience"
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{
		CategoryProductivity,
		CategorySecurity,
		CategoryCompliance,
		CategoryManagement,
		CategoryVoice,
		CategoryWindows,
		CategoryExperience,
	}
}

// IsValid reports whether c is one of the fixed categories.
func (c Category) IsValid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// BundleType classifies a purchasable plan.
type BundleType string

const (
	BundleBusiness   BundleType = "Business"
	BundleEnterprise BundleType = "Enterprise"
	BundleFrontline  BundleType = "Frontline"
	BundleAddOn      BundleType = "Add-on"
)

// Capability is one technical feature of the product suite.
type Capability struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Description       string         `json:"description"`
	Category          Category       `json:"category" validate:"oneof=Productivity Security Compliance Management 'Voice & Collaboration' 'Windows & OS' 'Employee Experience'"`
	DocumentationLink string         `json:"documentationLink,omitempty" validate:"omitempty,url"`
	TierStructure     *TierStructure `json:"tierStructure,omitempty" validate:"omitempty"`
}

// TierStructure is the named ordered list of tiers of a capability.
type TierStructure struct {
	Title string `json:"title"`
	Tiers []Tier `json:"tiers" validate:"dive"`
}

// Tier is one depth level of a capability and the bundles that receive it.
type Tier struct {
	Name                 string   `json:"name"`
	CapabilityStatements []string `json:"capabilityStatements"`
	IncludedInBundleIDs  []string `json:"includedInBundleIds"`
}

// Bundle is one purchasable subscription plan.
type Bundle struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Type            BundleType `json:"type" validate:"oneof=Business Enterprise Frontline Add-on"`
	MonthlyPriceUSD string     `json:"monthlyPriceUSD"`
	MonthlyPriceINR string     `json:"monthlyPriceINR"`
	AnnualPriceUSD  string     `json:"annualPriceUSD"`
	AnnualPriceINR  string     `json:"annualPriceINR"`
	AccentColor     string     `json:"accentColor"`
	CapabilityIDs   []string   `json:"capabilityIds"`
}

// HasTiers reports whether the capability is delivered at different depths.
func (c Capability) HasTiers() bool {
	return c.TierStructure != nil
}

// Includes reports whether capabilityID is in the bundle's base set.
func (b Bundle) Includes(capabilityID string) bool {
	for _, id := range b.CapabilityIDs {
		if id == capabilityID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to mutate without touching c.
func (c Capability) Clone() Capability {
	out := c
	if c.TierStructure != nil {
		ts := TierStructure{Title: c.TierStructure.Title}
		if c.TierStructure.Tiers != nil {
			ts.Tiers = make([]Tier, len(c.TierStructure.Tiers))
			for i, t := range c.TierStructure.Tiers {
				ts.Tiers[i] = t.Clone()
			}
		}
		out.TierStructure = &ts
	}
	return out
}

// Clone returns a deep copy of the tier.
func (t Tier) Clone() Tier {
	return Tier{
		Name:                 t.Name,
		CapabilityStatements: cloneStrings(t.CapabilityStatements),
		IncludedInBundleIDs:  cloneStrings(t.IncludedInBundleIDs),
	}
}

// Clone returns a deep copy safe to mutate without touching b.
func (b Bundle) Clone() Bundle {
	out := b
	out.CapabilityIDs = cloneStrings(b.CapabilityIDs)
	return out
}

// CloneCapabilities deep-copies a capability slice.
func CloneCapabilities(in []Capability) []Capability {
	out := make([]Capability, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

// CloneBundles deep-copies a bundle slice.
func CloneBundles(in []Bundle) []Bundle {
	out := make([]Bundle, len(in))
	for i, b := range in {
		out[i] = b.Clone()
	}
	return out
}

// cloneStrings copies in. A nil list comes back empty so copies of the same
// record always compare equal.
func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
