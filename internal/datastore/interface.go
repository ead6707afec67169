package datastore

import (
	"context"

	"licensing-map/internal/catalog"
	"licensing-map/internal/store"
)

// DataStore is the backing store the catalog is synchronised to.
// It is implemented by the PostgreSQL store and the JSON file store.
type DataStore interface {
	// Lifecycle
	Close() error

	// Catalog reads
	Load(ctx context.Context) ([]catalog.Capability, []catalog.Bundle, error)

	// Catalog writes
	SaveCapability(ctx context.Context, c catalog.Capability) error
	SaveBundle(ctx context.Context, b catalog.Bundle) error
	DeleteCapability(ctx context.Context, id string) error
	DeleteBundle(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, capabilities []catalog.Capability, bundles []catalog.Bundle) error

	// Tenant metadata
	TenantMetadata(ctx context.Context) (map[string]string, error)
	SetTenantMetadata(ctx context.Context, key, value string) error

	// Catalog seeding (for database initialization)
	InitDB(ctx context.Context) error
	SeedCatalog(ctx context.Context) error
}

// Type represents the type of data store to use
type Type string

const (
	// PostgreSQLStore uses real PostgreSQL database
	PostgreSQLStore Type = "postgresql"
	// FileStore keeps the catalog in a JSON document on disk
	FileStore Type = "file"
	// MockStore is accepted as an alias for FileStore
	MockStore Type = "mock"
	// NoStore keeps the catalog in memory only
	NoStore Type = "none"
)

// Config holds configuration for data store creation
type Config struct {
	Type             Type
	ConnectionString string
	DataPath         string
}

// New creates a data store based on configuration. NoStore yields a nil
// DataStore and a nil error.
func New(config Config) (DataStore, error) {
	switch config.Type {
	case PostgreSQLStore:
		s, err := store.NewStore(config.ConnectionString)
		if err != nil {
			return nil, err
		}
		return s, nil
	case FileStore, MockStore:
		s, err := NewJSONFileStore(config.DataPath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case NoStore, "":
		return nil, nil
	default:
		return nil, &UnsupportedStoreTypeError{Type: string(config.Type)}
	}
}

// UnsupportedStoreTypeError is returned when an unsupported store type is requested
type UnsupportedStoreTypeError struct {
	Type string
}

func (e *UnsupportedStoreTypeError) Error() string {
	return "unsupported store type: " + e.Type
}

var _ DataStore = (*store.Store)(nil)
