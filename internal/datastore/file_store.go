package datastore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"licensing-map/internal/catalog"
)

// fileDocument is the on-disk layout of the JSON file store.
type fileDocument struct {
	Capabilities []catalog.Capability `json:"capabilities"`
	Bundles      []catalog.Bundle     `json:"bundles"`
	Metadata     map[string]string    `json:"metadata,omitempty"`
}

// JSONFileStore keeps the catalog in a single JSON document. Every write
// rewrites the document through a temp file and rename.
type JSONFileStore struct {
	mu   sync.Mutex
	path string
}

// NewJSONFileStore returns a store backed by path. The file is created on
// first write.
func NewJSONFileStore(path string) (*JSONFileStore, error) {
	if path == "" {
		return nil, errors.New("file store requires a data path")
	}
	return &JSONFileStore{path: path}, nil
}

// Close is a no-op.
func (s *JSONFileStore) Close() error { return nil }

// InitDB creates the parent directory of the data file.
func (s *JSONFileStore) InitDB(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// SeedCatalog writes the built-in defaults.
func (s *JSONFileStore) SeedCatalog(ctx context.Context) error {
	capabilities, bundles := catalog.Defaults()
	return s.update(func(doc *fileDocument) {
		doc.Capabilities = capabilities
		doc.Bundles = bundles
		if doc.Metadata == nil {
			doc.Metadata = map[string]string{}
		}
		doc.Metadata["seeded_at"] = time.Now().UTC().Format(time.RFC3339)
	})
}

// Load returns the stored catalog; a missing file is an empty catalog.
func (s *JSONFileStore) Load(ctx context.Context) ([]catalog.Capability, []catalog.Bundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, nil, err
	}
	return doc.Capabilities, doc.Bundles, nil
}

// SaveCapability inserts or replaces the capability with the same id.
func (s *JSONFileStore) SaveCapability(ctx context.Context, c catalog.Capability) error {
	return s.update(func(doc *fileDocument) {
		for i := range doc.Capabilities {
			if doc.Capabilities[i].ID == c.ID {
				doc.Capabilities[i] = c.Clone()
				return
			}
		}
		doc.Capabilities = append(doc.Capabilities, c.Clone())
	})
}

// SaveBundle inserts or replaces the bundle with the same id.
func (s *JSONFileStore) SaveBundle(ctx context.Context, b catalog.Bundle) error {
	return s.update(func(doc *fileDocument) {
		for i := range doc.Bundles {
			if doc.Bundles[i].ID == b.ID {
				doc.Bundles[i] = b.Clone()
				return
			}
		}
		doc.Bundles = append(doc.Bundles, b.Clone())
	})
}

// DeleteCapability removes the capability if present.
func (s *JSONFileStore) DeleteCapability(ctx context.Context, id string) error {
	return s.update(func(doc *fileDocument) {
		kept := doc.Capabilities[:0]
		for _, c := range doc.Capabilities {
			if c.ID != id {
				kept = append(kept, c)
			}
		}
		doc.Capabilities = kept
	})
}

// DeleteBundle removes the bundle if present.
func (s *JSONFileStore) DeleteBundle(ctx context.Context, id string) error {
	return s.update(func(doc *fileDocument) {
		kept := doc.Bundles[:0]
		for _, b := range doc.Bundles {
			if b.ID != id {
				kept = append(kept, b)
			}
		}
		doc.Bundles = kept
	})
}

// ReplaceAll overwrites both collections.
func (s *JSONFileStore) ReplaceAll(ctx context.Context, capabilities []catalog.Capability, bundles []catalog.Bundle) error {
	return s.update(func(doc *fileDocument) {
		doc.Capabilities = catalog.CloneCapabilities(capabilities)
		doc.Bundles = catalog.CloneBundles(bundles)
	})
}

// TenantMetadata returns a copy of the stored metadata.
func (s *JSONFileStore) TenantMetadata(ctx context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(doc.Metadata))
	for k, v := range doc.Metadata {
		out[k] = v
	}
	return out, nil
}

// SetTenantMetadata upserts one key.
func (s *JSONFileStore) SetTenantMetadata(ctx context.Context, key, value string) error {
	return s.update(func(doc *fileDocument) {
		if doc.Metadata == nil {
			doc.Metadata = map[string]string{}
		}
		doc.Metadata[key] = value
	})
}

func (s *JSONFileStore) update(fn func(doc *fileDocument)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	fn(&doc)
	return s.write(doc)
}

func (s *JSONFileStore) read() (fileDocument, error) {
	var doc fileDocument
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("failed to read data file: %w", err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("failed to parse data file %s: %w", s.path, err)
	}
	return doc, nil
}

func (s *JSONFileStore) write(doc fileDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode data file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".catalog-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace data file: %w", err)
	}
	return nil
}
