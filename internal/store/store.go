package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"licensing-map/internal/catalog"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

//go:embed schema/00_init_schema.sql
var initSchema string

// Store persists the licensing catalog in PostgreSQL.
type Store struct {
	db *sqlx.DB
}

// NewStore creates a new Store instance and opens a database connection.
func NewStore(connString string) (*Store, error) {
	db, err := sqlx.Open("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if pingErr := db.Ping(); pingErr != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", pingErr)
	}

	return &Store{db: db}, nil
}

// NewStoreFromDB constructs a Store from an existing *sql.DB. Useful for tests.
func NewStoreFromDB(db *sql.DB) *Store {
	return &Store{db: sqlx.NewDb(db, "postgres")}
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitDB creates the schema and tables if they do not exist.
func (s *Store) InitDB(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, initSchema); err != nil {
		return fmt.Errorf("failed to execute init SQL: %w", err)
	}
	return nil
}

// SeedCatalog replaces the stored catalog with the built-in defaults.
func (s *Store) SeedCatalog(ctx context.Context) error {
	capabilities, bundles := catalog.Defaults()
	if err := s.ReplaceAll(ctx, capabilities, bundles); err != nil {
		return err
	}
	return s.SetTenantMetadata(ctx, "seeded_at", time.Now().UTC().Format(time.RFC3339))
}

// ============================================================================
// LOAD
// ============================================================================

// Load reads the whole catalog in insertion order.
func (s *Store) Load(ctx context.Context) ([]catalog.Capability, []catalog.Bundle, error) {
	var capRows []capabilityRow
	if err := s.db.SelectContext(ctx, &capRows,
		`SELECT id, name, description, category, documentation_link, tier_title
		 FROM "licensing-map".capabilities
		 ORDER BY seq`); err != nil {
		return nil, nil, fmt.Errorf("failed to load capabilities: %w", err)
	}

	var tiers []tierRow
	if err := s.db.SelectContext(ctx, &tiers,
		`SELECT capability_id, position, name, capability_statements
		 FROM "licensing-map".capability_tiers
		 ORDER BY capability_id, position`); err != nil {
		return nil, nil, fmt.Errorf("failed to load capability tiers: %w", err)
	}

	var tierBundles []tierBundleRow
	if err := s.db.SelectContext(ctx, &tierBundles,
		`SELECT capability_id, tier_position, bundle_id
		 FROM "licensing-map".tier_bundles
		 ORDER BY capability_id, tier_position, ord`); err != nil {
		return nil, nil, fmt.Errorf("failed to load tier bundles: %w", err)
	}

	var bundleRows []bundleRow
	if err := s.db.SelectContext(ctx, &bundleRows,
		`SELECT id, name, description, type, monthly_price_usd, monthly_price_inr,
		        annual_price_usd, annual_price_inr, accent_color
		 FROM "licensing-map".bundles
		 ORDER BY seq`); err != nil {
		return nil, nil, fmt.Errorf("failed to load bundles: %w", err)
	}

	var members []bundleCapabilityRow
	if err := s.db.SelectContext(ctx, &members,
		`SELECT bundle_id, capability_id
		 FROM "licensing-map".bundle_capabilities
		 ORDER BY bundle_id, ord`); err != nil {
		return nil, nil, fmt.Errorf("failed to load bundle capabilities: %w", err)
	}

	return assembleCapabilities(capRows, tiers, tierBundles), assembleBundles(bundleRows, members), nil
}

type tierKey struct {
	capabilityID string
	position     int
}

func assembleCapabilities(rows []capabilityRow, tiers []tierRow, links []tierBundleRow) []catalog.Capability {
	linked := make(map[tierKey][]string)
	for _, l := range links {
		k := tierKey{l.CapabilityID, l.TierPosition}
		linked[k] = append(linked[k], l.BundleID)
	}

	byCapability := make(map[string][]catalog.Tier)
	for _, t := range tiers {
		statements := []string(t.Statements)
		if statements == nil {
			statements = []string{}
		}
		bundleIDs := linked[tierKey{t.CapabilityID, t.Position}]
		if bundleIDs == nil {
			bundleIDs = []string{}
		}
		byCapability[t.CapabilityID] = append(byCapability[t.CapabilityID], catalog.Tier{
			Name:                 t.Name,
			CapabilityStatements: statements,
			IncludedInBundleIDs:  bundleIDs,
		})
	}

	out := make([]catalog.Capability, 0, len(rows))
	for _, r := range rows {
		c := catalog.Capability{
			ID:                r.ID,
			Name:              r.Name,
			Description:       r.Description,
			Category:          catalog.Category(r.Category),
			DocumentationLink: r.DocumentationLink,
		}
		if r.TierTitle.Valid {
			tiers := byCapability[r.ID]
			if tiers == nil {
				tiers = []catalog.Tier{}
			}
			c.TierStructure = &catalog.TierStructure{Title: r.TierTitle.String, Tiers: tiers}
		}
		out = append(out, c)
	}
	return out
}

func assembleBundles(rows []bundleRow, members []bundleCapabilityRow) []catalog.Bundle {
	byBundle := make(map[string][]string)
	for _, m := range members {
		byBundle[m.BundleID] = append(byBundle[m.BundleID], m.CapabilityID)
	}

	out := make([]catalog.Bundle, 0, len(rows))
	for _, r := range rows {
		ids := byBundle[r.ID]
		if ids == nil {
			ids = []string{}
		}
		out = append(out, catalog.Bundle{
			ID:              r.ID,
			Name:            r.Name,
			Description:     r.Description,
			Type:            catalog.BundleType(r.Type),
			MonthlyPriceUSD: r.MonthlyPriceUSD,
			MonthlyPriceINR: r.MonthlyPriceINR,
			AnnualPriceUSD:  r.AnnualPriceUSD,
			AnnualPriceINR:  r.AnnualPriceINR,
			AccentColor:     r.AccentColor,
			CapabilityIDs:   ids,
		})
	}
	return out
}

// ============================================================================
// WRITE OPERATIONS
// ============================================================================

// SaveCapability upserts a capability and replaces its tiers.
func (s *Store) SaveCapability(ctx context.Context, c catalog.Capability) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		return saveCapabilityTx(ctx, tx, c)
	})
}

// SaveBundle upserts a bundle and replaces its base capability list.
func (s *Store) SaveBundle(ctx context.Context, b catalog.Bundle) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		return saveBundleTx(ctx, tx, b)
	})
}

// DeleteCapability removes a capability and every bundle reference to it.
// Deleting an unknown id is not an error.
func (s *Store) DeleteCapability(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM "licensing-map".bundle_capabilities WHERE capability_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete bundle references to capability %s: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM "licensing-map".capabilities WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete capability %s: %w", id, err)
		}
		return nil
	})
}

// DeleteBundle removes a bundle and every tier reference to it.
// Deleting an unknown id is not an error.
func (s *Store) DeleteBundle(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM "licensing-map".tier_bundles WHERE bundle_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete tier references to bundle %s: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM "licensing-map".bundles WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete bundle %s: %w", id, err)
		}
		return nil
	})
}

// ReplaceAll clears the catalog tables and writes the given records in order.
func (s *Store) ReplaceAll(ctx context.Context, capabilities []catalog.Capability, bundles []catalog.Bundle) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, table := range []string{"tier_bundles", "capability_tiers", "bundle_capabilities", "capabilities", "bundles"} {
			if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM "licensing-map".%s`, table)); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		for _, b := range bundles {
			if err := saveBundleTx(ctx, tx, b); err != nil {
				return err
			}
		}
		for _, c := range capabilities {
			if err := saveCapabilityTx(ctx, tx, c); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func saveCapabilityTx(ctx context.Context, tx *sqlx.Tx, c catalog.Capability) error {
	var title sql.NullString
	if c.TierStructure != nil {
		title = sql.NullString{String: c.TierStructure.Title, Valid: true}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO "licensing-map".capabilities (id, name, description, category, documentation_link, tier_title)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
		     name = EXCLUDED.name,
		     description = EXCLUDED.description,
		     category = EXCLUDED.category,
		     documentation_link = EXCLUDED.documentation_link,
		     tier_title = EXCLUDED.tier_title,
		     updated_at = (now() at time zone 'utc')`,
		c.ID, c.Name, c.Description, string(c.Category), c.DocumentationLink, title); err != nil {
		return fmt.Errorf("failed to upsert capability %s: %w", c.ID, err)
	}

	// tier_bundles rows go with their tier via ON DELETE CASCADE
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM "licensing-map".capability_tiers WHERE capability_id = $1`, c.ID); err != nil {
		return fmt.Errorf("failed to clear tiers of capability %s: %w", c.ID, err)
	}

	if c.TierStructure == nil {
		return nil
	}

	for pos, t := range c.TierStructure.Tiers {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO "licensing-map".capability_tiers (capability_id, position, name, capability_statements)
			 VALUES ($1, $2, $3, $4)`,
			c.ID, pos, t.Name, StatementList(t.CapabilityStatements)); err != nil {
			return fmt.Errorf("failed to insert tier %d of capability %s: %w", pos, c.ID, err)
		}
		if len(t.IncludedInBundleIDs) == 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO "licensing-map".tier_bundles (capability_id, tier_position, bundle_id, ord)
			 SELECT $1, $2, b.id, b.ord
			 FROM unnest($3::text[]) WITH ORDINALITY AS b(id, ord)
			 ON CONFLICT DO NOTHING`,
			c.ID, pos, pq.Array(t.IncludedInBundleIDs)); err != nil {
			return fmt.Errorf("failed to link bundles to tier %d of capability %s: %w", pos, c.ID, err)
		}
	}
	return nil
}

func saveBundleTx(ctx context.Context, tx *sqlx.Tx, b catalog.Bundle) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO "licensing-map".bundles (id, name, description, type, monthly_price_usd, monthly_price_inr,
		                                      annual_price_usd, annual_price_inr, accent_color)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
		     name = EXCLUDED.name,
		     description = EXCLUDED.description,
		     type = EXCLUDED.type,
		     monthly_price_usd = EXCLUDED.monthly_price_usd,
		     monthly_price_inr = EXCLUDED.monthly_price_inr,
		     annual_price_usd = EXCLUDED.annual_price_usd,
		     annual_price_inr = EXCLUDED.annual_price_inr,
		     accent_color = EXCLUDED.accent_color,
		     updated_at = (now() at time zone 'utc')`,
		b.ID, b.Name, b.Description, string(b.Type), b.MonthlyPriceUSD, b.MonthlyPriceINR,
		b.AnnualPriceUSD, b.AnnualPriceINR, b.AccentColor); err != nil {
		return fmt.Errorf("failed to upsert bundle %s: %w", b.ID, err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM "licensing-map".bundle_capabilities WHERE bundle_id = $1`, b.ID); err != nil {
		return fmt.Errorf("failed to clear capabilities of bundle %s: %w", b.ID, err)
	}

	if len(b.CapabilityIDs) == 0 {
		return nil
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO "licensing-map".bundle_capabilities (bundle_id, capability_id, ord)
		 SELECT $1, c.id, c.ord
		 FROM unnest($2::text[]) WITH ORDINALITY AS c(id, ord)
		 ON CONFLICT DO NOTHING`,
		b.ID, pq.Array(b.CapabilityIDs)); err != nil {
		return fmt.Errorf("failed to link capabilities to bundle %s: %w", b.ID, err)
	}
	return nil
}

// ============================================================================
// TENANT METADATA
// ============================================================================

// TenantMetadata returns every stored key/value pair.
func (s *Store) TenantMetadata(ctx context.Context) (map[string]string, error) {
	var rows []metadataRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT key, value FROM "licensing-map".tenant_metadata ORDER BY key`); err != nil {
		return nil, fmt.Errorf("failed to load tenant metadata: %w", err)
	}

	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out, nil
}

// SetTenantMetadata upserts one key.
func (s *Store) SetTenantMetadata(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO "licensing-map".tenant_metadata (key, value)
		 VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = (now() at time zone 'utc')`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to set tenant metadata %s: %w", key, err)
	}
	return nil
}
