package catalog

// Bundle identifiers of the built-in dataset.
const (
	BundleIDBusinessBasic    = "m365-bb"
	BundleIDBusinessStandard = "m365-bs"
	BundleIDBusinessPremium  = "m365-bp"
	BundleIDE3               = "m365-e3"
	BundleIDE5               = "m365-e5"
	BundleIDF3               = "m365-f3"
	BundleIDE5Security       = "m365-e5-sec"
)

// Defaults returns a fresh copy of the built-in catalog. Callers may mutate
// the result freely.
func Defaults() ([]Capability, []Bundle) {
	return CloneCapabilities(defaultCapabilities), CloneBundles(defaultBundles)
}

// DefaultComparisonBundleIDs is the initial selection of the side-by-side matrix.
func DefaultComparisonBundleIDs() []string {
	return []string{BundleIDBusinessPremium, BundleIDE3, BundleIDE5}
}

var defaultBundles = []Bundle{
	{
		ID:              BundleIDBusinessBasic,
		Name:            "Microsoft 365 Business Basic",
		Description:     "Web and mobile apps, email and cloud storage for small businesses.",
		Type:            BundleBusiness,
		MonthlyPriceUSD: "$6.00",
		MonthlyPriceINR: "₹145",
		AnnualPriceUSD:  "$72.00",
		AnnualPriceINR:  "₹1,740",
		AccentColor:     "#60a5fa",
		CapabilityIDs:   []string{"feat-office-apps", "feat-exchange", "feat-onedrive", "feat-teams", "feat-mfa"},
	},
	{
		ID:              BundleIDBusinessStandard,
		Name:            "Microsoft 365 Business Standard",
		Description:     "Desktop apps plus everything in Business Basic.",
		Type:            BundleBusiness,
		MonthlyPriceUSD: "$12.50",
		MonthlyPriceINR: "₹770",
		AnnualPriceUSD:  "$150.00",
		AnnualPriceINR:  "₹9,240",
		AccentColor:     "#3b82f6",
		CapabilityIDs:   []string{"feat-office-apps", "feat-exchange", "feat-onedrive", "feat-teams", "feat-mfa", "feat-viva-engage"},
	},
	{
		ID:              BundleIDBusinessPremium,
		Name:            "Microsoft 365 Business Premium",
		Description:     "Advanced security and device management for up to 300 users.",
		Type:            BundleBusiness,
		MonthlyPriceUSD: "$22.00",
		MonthlyPriceINR: "₹1,830",
		AnnualPriceUSD:  "$264.00",
		AnnualPriceINR:  "₹21,960",
		AccentColor:     "#1d4ed8",
		CapabilityIDs: []string{
			"feat-office-apps", "feat-exchange", "feat-onedrive", "feat-teams", "feat-mfa", "feat-viva-engage",
			"feat-entra-id", "feat-defender-endpoint", "feat-defender-office", "feat-intune", "feat-autopilot",
			"feat-purview-dlp", "feat-info-protection", "feat-windows",
		},
	},
	{
		ID:              BundleIDE3,
		Name:            "Microsoft 365 E3",
		Description:     "Core enterprise productivity, identity and device management.",
		Type:            BundleEnterprise,
		MonthlyPriceUSD: "$36.00",
		MonthlyPriceINR: "₹2,760",
		AnnualPriceUSD:  "$432.00",
		AnnualPriceINR:  "₹33,120",
		AccentColor:     "#7c3aed",
		CapabilityIDs: []string{
			"feat-office-apps", "feat-exchange", "feat-onedrive", "feat-mfa", "feat-viva-engage",
			"feat-entra-id", "feat-defender-endpoint", "feat-intune", "feat-autopilot",
			"feat-purview-dlp", "feat-info-protection", "feat-ediscovery", "feat-windows", "feat-viva-connections",
		},
	},
	{
		ID:              BundleIDE5,
		Name:            "Microsoft 365 E5",
		Description:     "Full enterprise suite with advanced security, compliance, analytics and voice.",
		Type:            BundleEnterprise,
		MonthlyPriceUSD: "$57.00",
		MonthlyPriceINR: "₹4,500",
		AnnualPriceUSD:  "$684.00",
		AnnualPriceINR:  "₹54,000",
		AccentColor:     "#5b21b6",
		CapabilityIDs: []string{
			"feat-office-apps", "feat-exchange", "feat-onedrive", "feat-mfa", "feat-viva-engage",
			"feat-entra-id", "feat-defender-endpoint", "feat-defender-office", "feat-intune", "feat-autopilot",
			"feat-purview-dlp", "feat-info-protection", "feat-ediscovery", "feat-windows", "feat-viva-connections",
			"feat-teams-phone", "feat-audio-conferencing",
		},
	},
	{
		ID:              BundleIDF3,
		Name:            "Microsoft 365 F3",
		Description:     "Frontline worker plan with web and mobile apps on shared devices.",
		Type:            BundleFrontline,
		MonthlyPriceUSD: "$8.00",
		MonthlyPriceINR: "₹660",
		AnnualPriceUSD:  "$96.00",
		AnnualPriceINR:  "₹7,920",
		AccentColor:     "#0d9488",
		CapabilityIDs:   []string{"feat-office-apps", "feat-exchange", "feat-onedrive", "feat-teams", "feat-mfa", "feat-intune", "feat-windows"},
	},
	{
		ID:              BundleIDE5Security,
		Name:            "Microsoft 365 E5 Security",
		Description:     "Add-on bringing E5 identity and threat protection to E3.",
		Type:            BundleAddOn,
		MonthlyPriceUSD: "$12.00",
		MonthlyPriceINR: "₹990",
		AnnualPriceUSD:  "$144.00",
		AnnualPriceINR:  "₹11,880",
		AccentColor:     "#dc2626",
		CapabilityIDs:   []string{"feat-entra-id", "feat-defender-endpoint", "feat-defender-office"},
	},
}

var defaultCapabilities = []Capability{
	{
		ID:                "feat-office-apps",
		Name:              "Microsoft 365 Apps",
		Description:       "Word, Excel, PowerPoint and Outlook.",
		Category:          CategoryProductivity,
		DocumentationLink: "https://learn.microsoft.com/microsoft-365-apps/",
		TierStructure: &TierStructure{
			Title: "Web vs Desktop",
			Tiers: []Tier{
				{
					Name:                 "Web & Mobile",
					CapabilityStatements: []string{"Browser editing", "Mobile apps on devices under 10.1 inches"},
					IncludedInBundleIDs:  []string{BundleIDBusinessBasic, BundleIDF3},
				},
				{
					Name:                 "Desktop Apps",
					CapabilityStatements: []string{"Browser editing", "Installable desktop apps on 5 PCs or Macs", "Mobile apps"},
					IncludedInBundleIDs:  []string{BundleIDBusinessStandard, BundleIDBusinessPremium, BundleIDE3, BundleIDE5},
				},
			},
		},
	},
	{
		ID:                "feat-exchange",
		Name:              "Exchange Online",
		Description:       "Business-class email and calendaring.",
		Category:          CategoryProductivity,
		DocumentationLink: "https://learn.microsoft.com/exchange/exchange-online",
		TierStructure: &TierStructure{
			Title: "Mailbox Plans",
			Tiers: []Tier{
				{
					Name:                 "Kiosk",
					CapabilityStatements: []string{"2 GB mailbox"},
					IncludedInBundleIDs:  []string{BundleIDF3},
				},
				{
					Name:                 "Plan 1",
					CapabilityStatements: []string{"50 GB mailbox", "Shared calendars"},
					IncludedInBundleIDs:  []string{BundleIDBusinessBasic, BundleIDBusinessStandard, BundleIDBusinessPremium},
				},
				{
					Name:                 "Plan 2",
					CapabilityStatements: []string{"100 GB mailbox", "Unlimited archiving", "Shared calendars"},
					IncludedInBundleIDs:  []string{BundleIDE3, BundleIDE5},
				},
			},
		},
	},
	{
		ID:          "feat-onedrive",
		Name:        "OneDrive",
		Description: "Cloud file storage and sharing.",
		Category:    CategoryProductivity,
	},
	{
		ID:                "feat-entra-id",
		Name:              "Microsoft Entra ID",
		Description:       "Identity and access management with conditional access.",
		Category:          CategorySecurity,
		DocumentationLink: "https://learn.microsoft.com/entra/fundamentals/whatis",
		TierStructure: &TierStructure{
			Title: "Standard vs Premium",
			Tiers: []Tier{
				{
					Name:                 "Plan 1",
					CapabilityStatements: []string{"Conditional Access", "Group-based access management"},
					IncludedInBundleIDs:  []string{BundleIDBusinessPremium, BundleIDE3},
				},
				{
					Name:                 "Plan 2",
					CapabilityStatements: []string{"Conditional Access", "Identity Protection", "Privileged Identity Management"},
					IncludedInBundleIDs:  []string{BundleIDE5, BundleIDE5Security},
				},
			},
		},
	},
	{
		ID:                "feat-defender-endpoint",
		Name:              "Microsoft Defender for Endpoint",
		Description:       "Endpoint protection, detection and response.",
		Category:          CategorySecurity,
		DocumentationLink: "https://learn.microsoft.com/defender-endpoint/",
		TierStructure: &TierStructure{
			Title: "Endpoint Protection Levels",
			Tiers: []Tier{
				{
					Name:                 "Business / P1",
					CapabilityStatements: []string{"Next-generation protection", "Attack surface reduction"},
					IncludedInBundleIDs:  []string{BundleIDBusinessPremium},
				},
				{
					Name:                 "Plan 1",
					CapabilityStatements: []string{"Next-generation protection", "Attack surface reduction", "Device control"},
					IncludedInBundleIDs:  []string{BundleIDE3},
				},
				{
					Name:                 "Plan 2",
					CapabilityStatements: []string{"Endpoint detection and response", "Automated investigation", "Threat hunting"},
					IncludedInBundleIDs:  []string{BundleIDE5, BundleIDE5Security},
				},
			},
		},
	},
	{
		ID:          "feat-defender-office",
		Name:        "Microsoft Defender for Office 365",
		Description: "Protection against phishing and malicious attachments.",
		Category:    CategorySecurity,
		TierStructure: &TierStructure{
			Title: "Standard vs Premium",
			Tiers: []Tier{
				{
					Name:                 "Plan 1",
					CapabilityStatements: []string{"Safe Links", "Safe Attachments"},
					IncludedInBundleIDs:  []string{BundleIDBusinessPremium},
				},
				{
					Name:                 "Plan 2",
					CapabilityStatements: []string{"Safe Links", "Safe Attachments", "Attack simulation training", "Threat Explorer"},
					IncludedInBundleIDs:  []string{BundleIDE5, BundleIDE5Security},
				},
			},
		},
	},
	{
		ID:          "feat-mfa",
		Name:        "Multifactor Authentication",
		Description: "Security defaults and per-user MFA.",
		Category:    CategorySecurity,
	},
	{
		ID:          "feat-purview-dlp",
		Name:        "Data Loss Prevention",
		Description: "Detect and protect sensitive information across services.",
		Category:    CategoryCompliance,
		TierStructure: &TierStructure{
			Title: "Standard vs Premium",
			Tiers: []Tier{
				{
					Name:                 "Standard",
					CapabilityStatements: []string{"Exchange, SharePoint and OneDrive DLP"},
					IncludedInBundleIDs:  []string{BundleIDBusinessPremium, BundleIDE3},
				},
				{
					Name:                 "Premium",
					CapabilityStatements: []string{"Exchange, SharePoint and OneDrive DLP", "Endpoint DLP", "Teams chat DLP"},
					IncludedInBundleIDs:  []string{BundleIDE5},
				},
			},
		},
	},
	{
		ID:          "feat-info-protection",
		Name:        "Information Protection",
		Description: "Sensitivity labels and encryption.",
		Category:    CategoryCompliance,
		TierStructure: &TierStructure{
			Title: "Manual vs Automatic Labeling",
			Tiers: []Tier{
				{
					Name:                 "Standard",
					CapabilityStatements: []string{"Manual sensitivity labels"},
					IncludedInBundleIDs:  []string{BundleIDBusinessPremium, BundleIDE3},
				},
				{
					Name:                 "Premium",
					CapabilityStatements: []string{"Manual sensitivity labels", "Automatic labeling"},
					IncludedInBundleIDs:  []string{BundleIDE5},
				},
			},
		},
	},
	{
		ID:          "feat-ediscovery",
		Name:        "eDiscovery",
		Description: "Search, hold and export content for legal cases.",
		Category:    CategoryCompliance,
		TierStructure: &TierStructure{
			Title: "Standard vs Premium",
			Tiers: []Tier{
				{
					Name:                 "Standard",
					CapabilityStatements: []string{"Case management", "Legal hold"},
					IncludedInBundleIDs:  []string{BundleIDE3},
				},
				{
					Name:                 "Premium",
					CapabilityStatements: []string{"Case management", "Legal hold", "Review sets", "Predictive coding"},
					IncludedInBundleIDs:  []string{BundleIDE5},
				},
			},
		},
	},
	{
		ID:                "feat-intune",
		Name:              "Microsoft Intune",
		Description:       "Mobile device and application management.",
		Category:          CategoryManagement,
		DocumentationLink: "https://learn.microsoft.com/mem/intune/",
	},
	{
		ID:          "feat-autopilot",
		Name:        "Windows Autopilot",
		Description: "Zero-touch device provisioning.",
		Category:    CategoryManagement,
	},
	{
		ID:          "feat-teams",
		Name:        "Microsoft Teams",
		Description: "Chat, meetings and collaboration.",
		Category:    CategoryVoice,
	},
	{
		ID:          "feat-teams-phone",
		Name:        "Teams Phone",
		Description: "Cloud calling with PSTN connectivity.",
		Category:    CategoryVoice,
	},
	{
		ID:          "feat-audio-conferencing",
		Name:        "Audio Conferencing",
		Description: "Dial-in numbers for Teams meetings.",
		Category:    CategoryVoice,
	},
	{
		ID:          "feat-windows",
		Name:        "Windows Enterprise",
		Description: "Windows upgrade rights and enterprise features.",
		Category:    CategoryWindows,
		TierStructure: &TierStructure{
			Title: "Windows Editions",
			Tiers: []Tier{
				{
					Name:                 "Business",
					CapabilityStatements: []string{"Upgrade from Windows Pro", "BitLocker"},
					IncludedInBundleIDs:  []string{BundleIDBusinessPremium},
				},
				{
					Name:                 "E3",
					CapabilityStatements: []string{"Upgrade from Windows Pro", "BitLocker", "Credential Guard"},
					IncludedInBundleIDs:  []string{BundleIDE3, BundleIDF3},
				},
				{
					Name:                 "E5",
					CapabilityStatements: []string{"Upgrade from Windows Pro", "BitLocker", "Credential Guard", "Defender for Endpoint Plan 2"},
					IncludedInBundleIDs:  []string{BundleIDE5},
				},
			},
		},
	},
	{
		ID:          "feat-viva-engage",
		Name:        "Viva Engage",
		Description: "Communities and company-wide conversations.",
		Category:    CategoryExperience,
	},
	{
		ID:          "feat-viva-connections",
		Name:        "Viva Connections",
		Description: "Employee dashboard and intranet feed.",
		Category:    CategoryExperience,
	},
}
