package store

import "database/sql"

// Row shapes read with sqlx. They mirror the tables one-to-one; Load
// assembles them into catalog records.

type capabilityRow struct {
	ID                string         `db:"id"`
	Name              string         `db:"name"`
	Description       string         `db:"description"`
	Category          string         `db:"category"`
	DocumentationLink string         `db:"documentation_link"`
	TierTitle         sql.NullString `db:"tier_title"`
}

type tierRow struct {
	CapabilityID string        `db:"capability_id"`
	Position     int           `db:"position"`
	Name         string        `db:"name"`
	Statements   StatementList `db:"capability_statements"`
}

type tierBundleRow struct {
	CapabilityID string `db:"capability_id"`
	TierPosition int    `db:"tier_position"`
	BundleID     string `db:"bundle_id"`
}

type bundleRow struct {
	ID              string `db:"id"`
	Name            string `db:"name"`
	Description     string `db:"description"`
	Type            string `db:"type"`
	MonthlyPriceUSD string `db:"monthly_price_usd"`
	MonthlyPriceINR string `db:"monthly_price_inr"`
	AnnualPriceUSD  string `db:"annual_price_usd"`
	AnnualPriceINR  string `db:"annual_price_inr"`
	AccentColor     string `db:"accent_color"`
}

type bundleCapabilityRow struct {
	BundleID     string `db:"bundle_id"`
	CapabilityID string `db:"capability_id"`
}

type metadataRow struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}
