// Package catalogstore owns the in-memory licensing catalog. Reads and
// writes are served from memory; every write is also queued for a
// best-effort sync to an optional backing store.
package catalogstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"licensing-map/internal/catalog"
	"licensing-map/internal/datastore"
	"licensing-map/internal/logging"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when an id does not exist in the catalog.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateID is returned when creating a record whose id is taken.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrInvalid wraps validation failures on create and update.
	ErrInvalid = errors.New("invalid record")
)

// Entity names the kind of record a Change refers to.
type Entity string

const (
	EntityCapability Entity = "capability"
	EntityBundle     Entity = "bundle"
	EntityCatalog    Entity = "catalog"
)

// Action is what happened to the record.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
	ActionReset   Action = "reset"
)

// Change is delivered to subscribers after every write.
type Change struct {
	Entity Entity `json:"entity"`
	Action Action `json:"action"`
	ID     string `json:"id,omitempty"`
}

type options struct {
	outboxSize   int
	maxAttempts  int
	backoff      time.Duration
	writeTimeout time.Duration
}

// Option configures a Store.
type Option func(*options)

// WithOutboxSize sets how many pending backing-store writes are buffered.
func WithOutboxSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.outboxSize = n
		}
	}
}

// WithRetry sets the attempts per write and the initial backoff between them.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(o *options) {
		if attempts > 0 {
			o.maxAttempts = attempts
		}
		o.backoff = backoff
	}
}

// WithWriteTimeout bounds a single backing-store call.
func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.writeTimeout = d
		}
	}
}

type syncOp struct {
	name string
	id   string
	run  func(ctx context.Context, ds datastore.DataStore) error
}

// Store is the single owner of the capability and bundle collections.
type Store struct {
	mu           sync.RWMutex
	capabilities []catalog.Capability
	bundles      []catalog.Bundle
	closed       bool

	subMu   sync.Mutex
	subs    map[int]func(Change)
	nextSub int

	persister datastore.DataStore
	outbox    chan syncOp
	done      chan struct{}
	opts      options
}

// New returns a store holding the built-in defaults. A nil persister keeps
// the catalog in memory only.
func New(persister datastore.DataStore, opts ...Option) *Store {
	o := options{
		outboxSize:   256,
		maxAttempts:  3,
		backoff:      200 * time.Millisecond,
		writeTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}

	capabilities, bundles := catalog.Defaults()
	s := &Store{
		capabilities: capabilities,
		bundles:      bundles,
		subs:         make(map[int]func(Change)),
		persister:    persister,
		opts:         o,
		done:         make(chan struct{}),
	}

	if persister != nil {
		s.outbox = make(chan syncOp, o.outboxSize)
		go s.syncLoop()
	} else {
		close(s.done)
	}
	return s
}

// Open returns a store hydrated from the persister. Load errors and an empty
// backing store both leave the built-in defaults in place; an empty backing
// store is also seeded with them.
func Open(ctx context.Context, persister datastore.DataStore, opts ...Option) *Store {
	s := New(persister, opts...)
	if persister == nil {
		return s
	}

	capabilities, bundles, err := persister.Load(ctx)
	if err != nil {
		logging.Warn("catalog hydration failed, using defaults", map[string]interface{}{"error": err.Error()})
		return s
	}
	if len(capabilities) == 0 && len(bundles) == 0 {
		logging.LogKV("info", "backing store empty, seeding defaults", nil)
		s.mu.Lock()
		s.enqueueReplaceAllLocked("seeded_at")
		s.mu.Unlock()
		return s
	}

	s.mu.Lock()
	s.capabilities = capabilities
	s.bundles = bundles
	s.mu.Unlock()

	logging.LogKV("info", "catalog hydrated", map[string]interface{}{
		"capabilities": len(capabilities),
		"bundles":      len(bundles),
	})
	return s
}

// ============================================================================
// READS
// ============================================================================

// Capabilities returns a deep copy of every capability in catalog order.
func (s *Store) Capabilities() []catalog.Capability {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return catalog.CloneCapabilities(s.capabilities)
}

// Bundles returns a deep copy of every bundle in catalog order.
func (s *Store) Bundles() []catalog.Bundle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return catalog.CloneBundles(s.bundles)
}

// Snapshot returns both collections read under one lock.
func (s *Store) Snapshot() ([]catalog.Capability, []catalog.Bundle) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return catalog.CloneCapabilities(s.capabilities), catalog.CloneBundles(s.bundles)
}

// Capability returns a copy of the capability with the given id.
func (s *Store) Capability(id string) (catalog.Capability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.capabilityIndex(id)
	if i < 0 {
		return catalog.Capability{}, fmt.Errorf("capability %s: %w", id, ErrNotFound)
	}
	return s.capabilities[i].Clone(), nil
}

// Bundle returns a copy of the bundle with the given id.
func (s *Store) Bundle(id string) (catalog.Bundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.bundleIndex(id)
	if i < 0 {
		return catalog.Bundle{}, fmt.Errorf("bundle %s: %w", id, ErrNotFound)
	}
	return s.bundles[i].Clone(), nil
}

// BundlesByID returns copies of the named bundles in catalog order. Unknown
// ids are skipped.
func (s *Store) BundlesByID(ids []string) []catalog.Bundle {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]catalog.Bundle, 0, len(ids))
	for _, b := range s.bundles {
		if want[b.ID] {
			out = append(out, b.Clone())
		}
	}
	return out
}

func (s *Store) capabilityIndex(id string) int {
	for i := range s.capabilities {
		if s.capabilities[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) bundleIndex(id string) int {
	for i := range s.bundles {
		if s.bundles[i].ID == id {
			return i
		}
	}
	return -1
}

// ============================================================================
// WRITES
// ============================================================================

// CreateCapability appends a capability, assigning an id when it has none.
func (s *Store) CreateCapability(c catalog.Capability) (catalog.Capability, error) {
	if err := catalog.Validate(c); err != nil {
		return catalog.Capability{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	c = c.Clone()
	if c.ID == "" {
		c.ID = "cap-" + uuid.NewString()
	}

	s.mu.Lock()
	if s.capabilityIndex(c.ID) >= 0 {
		s.mu.Unlock()
		return catalog.Capability{}, fmt.Errorf("capability %s: %w", c.ID, ErrDuplicateID)
	}
	s.capabilities = append(s.capabilities, c)
	s.enqueueLocked(saveCapabilityOp(c.Clone()))
	s.mu.Unlock()

	warnDuplicateTiers(c)
	s.notify(Change{Entity: EntityCapability, Action: ActionCreated, ID: c.ID})
	return c.Clone(), nil
}

// UpdateCapability replaces the capability with the same id wholesale.
func (s *Store) UpdateCapability(c catalog.Capability) error {
	if err := catalog.Validate(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	c = c.Clone()

	s.mu.Lock()
	i := s.capabilityIndex(c.ID)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("capability %s: %w", c.ID, ErrNotFound)
	}
	s.capabilities[i] = c
	s.enqueueLocked(saveCapabilityOp(c.Clone()))
	s.mu.Unlock()

	warnDuplicateTiers(c)
	s.notify(Change{Entity: EntityCapability, Action: ActionUpdated, ID: c.ID})
	return nil
}

// DeleteCapability removes a capability and strips its id from every
// bundle that listed it.
func (s *Store) DeleteCapability(id string) error {
	s.mu.Lock()
	i := s.capabilityIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("capability %s: %w", id, ErrNotFound)
	}
	s.capabilities = append(s.capabilities[:i], s.capabilities[i+1:]...)

	s.enqueueLocked(syncOp{name: "delete_capability", id: id, run: func(ctx context.Context, ds datastore.DataStore) error {
		return ds.DeleteCapability(ctx, id)
	}})
	for bi := range s.bundles {
		if removeString(&s.bundles[bi].CapabilityIDs, id) {
			s.enqueueLocked(saveBundleOp(s.bundles[bi].Clone()))
		}
	}
	s.mu.Unlock()

	s.notify(Change{Entity: EntityCapability, Action: ActionDeleted, ID: id})
	return nil
}

// CreateBundle appends a bundle, assigning an id when it has none.
func (s *Store) CreateBundle(b catalog.Bundle) (catalog.Bundle, error) {
	if err := catalog.Validate(b); err != nil {
		return catalog.Bundle{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	b = b.Clone()
	if b.ID == "" {
		b.ID = "bundle-" + uuid.NewString()
	}

	s.mu.Lock()
	if s.bundleIndex(b.ID) >= 0 {
		s.mu.Unlock()
		return catalog.Bundle{}, fmt.Errorf("bundle %s: %w", b.ID, ErrDuplicateID)
	}
	s.bundles = append(s.bundles, b)
	s.enqueueLocked(saveBundleOp(b.Clone()))
	s.mu.Unlock()

	s.notify(Change{Entity: EntityBundle, Action: ActionCreated, ID: b.ID})
	return b.Clone(), nil
}

// UpdateBundle replaces the bundle with the same id, including its
// capability list.
func (s *Store) UpdateBundle(b catalog.Bundle) error {
	if err := catalog.Validate(b); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	b = b.Clone()

	s.mu.Lock()
	i := s.bundleIndex(b.ID)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("bundle %s: %w", b.ID, ErrNotFound)
	}
	s.bundles[i] = b
	s.enqueueLocked(saveBundleOp(b.Clone()))
	s.mu.Unlock()

	s.notify(Change{Entity: EntityBundle, Action: ActionUpdated, ID: b.ID})
	return nil
}

// DeleteBundle removes a bundle and strips its id from every tier that
// listed it.
func (s *Store) DeleteBundle(id string) error {
	s.mu.Lock()
	i := s.bundleIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("bundle %s: %w", id, ErrNotFound)
	}
	s.bundles = append(s.bundles[:i], s.bundles[i+1:]...)

	s.enqueueLocked(syncOp{name: "delete_bundle", id: id, run: func(ctx context.Context, ds datastore.DataStore) error {
		return ds.DeleteBundle(ctx, id)
	}})
	for ci := range s.capabilities {
		ts := s.capabilities[ci].TierStructure
		if ts == nil {
			continue
		}
		touched := false
		for ti := range ts.Tiers {
			if removeString(&ts.Tiers[ti].IncludedInBundleIDs, id) {
				touched = true
			}
		}
		if touched {
			s.enqueueLocked(saveCapabilityOp(s.capabilities[ci].Clone()))
		}
	}
	s.mu.Unlock()

	s.notify(Change{Entity: EntityBundle, Action: ActionDeleted, ID: id})
	return nil
}

// Reset replaces the whole catalog with the built-in defaults.
func (s *Store) Reset() {
	capabilities, bundles := catalog.Defaults()

	s.mu.Lock()
	s.capabilities = capabilities
	s.bundles = bundles
	s.enqueueReplaceAllLocked("last_reset")
	s.mu.Unlock()

	s.notify(Change{Entity: EntityCatalog, Action: ActionReset})
}

// Subscribe registers fn to be called after every write. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(ch Change) {
	s.subMu.Lock()
	fns := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(ch)
	}
}

// enqueueReplaceAllLocked queues a full write of the current catalog followed
// by a timestamp under metaKey. Callers hold s.mu.
func (s *Store) enqueueReplaceAllLocked(metaKey string) {
	caps, bs := catalog.CloneCapabilities(s.capabilities), catalog.CloneBundles(s.bundles)
	s.enqueueLocked(syncOp{name: "replace_all", run: func(ctx context.Context, ds datastore.DataStore) error {
		return ds.ReplaceAll(ctx, caps, bs)
	}})
	at := time.Now().UTC().Format(time.RFC3339)
	s.enqueueLocked(syncOp{name: "set_tenant_metadata", id: metaKey, run: func(ctx context.Context, ds datastore.DataStore) error {
		return ds.SetTenantMetadata(ctx, metaKey, at)
	}})
}

func saveCapabilityOp(c catalog.Capability) syncOp {
	return syncOp{name: "save_capability", id: c.ID, run: func(ctx context.Context, ds datastore.DataStore) error {
		return ds.SaveCapability(ctx, c)
	}}
}

func saveBundleOp(b catalog.Bundle) syncOp {
	return syncOp{name: "save_bundle", id: b.ID, run: func(ctx context.Context, ds datastore.DataStore) error {
		return ds.SaveBundle(ctx, b)
	}}
}

func removeString(list *[]string, v string) bool {
	for i, s := range *list {
		if s == v {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return true
		}
	}
	return false
}

func warnDuplicateTiers(c catalog.Capability) {
	if dups := catalog.DuplicateTierMemberships(c); len(dups) > 0 {
		logging.Warn("bundle listed in more than one tier, first tier wins", map[string]interface{}{
			"capability_id": c.ID,
			"bundles":       dups,
		})
	}
}
