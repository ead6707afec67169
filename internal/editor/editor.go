// Package editor runs admin edit sessions over the catalog store. At most one
// capability or bundle draft is open at a time; drafts are private copies and
// reach the store only on Save.
package editor

import (
	"errors"
	"reflect"
	"sync"

	"licensing-map/internal/catalog"
	"licensing-map/internal/catalogstore"
)

var (
	// ErrSessionOpen is returned when opening a draft while one is open.
	ErrSessionOpen = errors.New("an edit session is already open")
	// ErrNoSession is returned by draft operations while idle.
	ErrNoSession = errors.New("no edit session is open")
	// ErrUnsavedChanges is returned when closing a dirty draft without confirm.
	ErrUnsavedChanges = errors.New("draft has unsaved changes")
	// ErrWrongDraftKind is returned when a capability operation targets a
	// bundle draft or the other way round.
	ErrWrongDraftKind = errors.New("operation does not apply to the open draft")
)

// State of the editor.
type State string

const (
	Idle    State = "idle"
	Editing State = "editing"
)

// Tab is the admin portal section the editor is on.
type Tab string

const (
	TabCapabilities Tab = "capabilities"
	TabBundles      Tab = "bundles"
	TabUsers        Tab = "users"
)

// Kind of record being edited.
type Kind string

const (
	KindCapability Kind = "capability"
	KindBundle     Kind = "bundle"
)

type session struct {
	kind       Kind
	isNew      bool
	capability *CapabilityDraft
	bundle     *BundleDraft
	// baseline is the draft content at open time, for dirty tracking.
	baseline interface{}
}

func (s *session) current() interface{} {
	if s.kind == KindCapability {
		return s.capability.Capability()
	}
	return s.bundle.Bundle()
}

func (s *session) dirty() bool {
	return !reflect.DeepEqual(s.baseline, s.current())
}

// View is a read-only picture of the editor.
type View struct {
	State      State               `json:"state"`
	Tab        Tab                 `json:"tab"`
	Kind       Kind                `json:"kind,omitempty"`
	IsNew      bool                `json:"isNew,omitempty"`
	Dirty      bool                `json:"dirty"`
	Capability *catalog.Capability `json:"capability,omitempty"`
	Bundle     *catalog.Bundle     `json:"bundle,omitempty"`
}

// Editor owns the single edit session.
type Editor struct {
	mu    sync.Mutex
	store *catalogstore.Store
	tab   Tab
	sess  *session
}

// New returns an idle editor on the capabilities tab.
func New(store *catalogstore.Store) *Editor {
	return &Editor{store: store, tab: TabCapabilities}
}

// View reports the current state and a copy of the open draft.
func (e *Editor) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()

	v := View{State: Idle, Tab: e.tab}
	if e.sess == nil {
		return v
	}
	v.State = Editing
	v.Kind = e.sess.kind
	v.IsNew = e.sess.isNew
	v.Dirty = e.sess.dirty()
	switch e.sess.kind {
	case KindCapability:
		c := e.sess.capability.Capability()
		v.Capability = &c
	case KindBundle:
		b := e.sess.bundle.Bundle()
		v.Bundle = &b
	}
	return v
}

// State returns Idle or Editing.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess == nil {
		return Idle
	}
	return Editing
}

// OpenCapability starts editing a copy of an existing capability.
func (e *Editor) OpenCapability(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess != nil {
		return ErrSessionOpen
	}
	c, err := e.store.Capability(id)
	if err != nil {
		return err
	}
	e.openCapability(c, false)
	return nil
}

// NewCapability starts editing a blank capability.
func (e *Editor) NewCapability() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess != nil {
		return ErrSessionOpen
	}
	e.openCapability(catalog.Capability{Category: catalog.CategoryProductivity}, true)
	return nil
}

func (e *Editor) openCapability(c catalog.Capability, isNew bool) {
	e.sess = &session{
		kind:       KindCapability,
		isNew:      isNew,
		capability: NewCapabilityDraft(c),
		baseline:   c.Clone(),
	}
	e.tab = TabCapabilities
}

// OpenBundle starts editing a copy of an existing bundle.
func (e *Editor) OpenBundle(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess != nil {
		return ErrSessionOpen
	}
	b, err := e.store.Bundle(id)
	if err != nil {
		return err
	}
	e.openBundle(b, false)
	return nil
}

// NewBundle starts editing a blank bundle.
func (e *Editor) NewBundle() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess != nil {
		return ErrSessionOpen
	}
	e.openBundle(catalog.Bundle{
		Type:            catalog.BundleEnterprise,
		MonthlyPriceUSD: "$0.00",
		MonthlyPriceINR: "₹0",
		AccentColor:     "#000000",
		CapabilityIDs:   []string{},
	}, true)
	return nil
}

func (e *Editor) openBundle(b catalog.Bundle, isNew bool) {
	e.sess = &session{
		kind:     KindBundle,
		isNew:    isNew,
		bundle:   NewBundleDraft(b),
		baseline: b.Clone(),
	}
	e.tab = TabBundles
}

// EditCapability runs fn against the open capability draft.
func (e *Editor) EditCapability(fn func(d *CapabilityDraft) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess == nil {
		return ErrNoSession
	}
	if e.sess.kind != KindCapability {
		return ErrWrongDraftKind
	}
	return fn(e.sess.capability)
}

// EditBundle runs fn against the open bundle draft.
func (e *Editor) EditBundle(fn func(d *BundleDraft) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess == nil {
		return ErrNoSession
	}
	if e.sess.kind != KindBundle {
		return ErrWrongDraftKind
	}
	return fn(e.sess.bundle)
}

// Save commits the draft to the store and returns to Idle. It returns the id
// of the saved record. On error the session stays open.
func (e *Editor) Save() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess == nil {
		return "", ErrNoSession
	}

	var id string
	switch e.sess.kind {
	case KindCapability:
		c := e.sess.capability.Capability()
		if e.sess.isNew {
			created, err := e.store.CreateCapability(c)
			if err != nil {
				return "", err
			}
			id = created.ID
		} else {
			if err := e.store.UpdateCapability(c); err != nil {
				return "", err
			}
			id = c.ID
		}
	case KindBundle:
		b := e.sess.bundle.Bundle()
		if e.sess.isNew {
			created, err := e.store.CreateBundle(b)
			if err != nil {
				return "", err
			}
			id = created.ID
		} else {
			if err := e.store.UpdateBundle(b); err != nil {
				return "", err
			}
			id = b.ID
		}
	}

	e.sess = nil
	return id, nil
}

// Discard drops the draft. A dirty draft needs confirm.
func (e *Editor) Discard(confirm bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess == nil {
		return nil
	}
	if e.sess.dirty() && !confirm {
		return ErrUnsavedChanges
	}
	e.sess = nil
	return nil
}

// SwitchTab moves to another tab, closing any open draft. A dirty draft
// needs confirm.
func (e *Editor) SwitchTab(tab Tab, confirm bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess != nil {
		if e.sess.dirty() && !confirm {
			return ErrUnsavedChanges
		}
		e.sess = nil
	}
	e.tab = tab
	return nil
}

// Reset restores the built-in catalog and drops any open draft.
func (e *Editor) Reset() {
	e.mu.Lock()
	e.sess = nil
	e.mu.Unlock()
	e.store.Reset()
}

// Direct store operations for callers that do not need a draft.

func (e *Editor) CreateCapability(c catalog.Capability) (catalog.Capability, error) {
	return e.store.CreateCapability(c)
}

func (e *Editor) UpdateCapability(c catalog.Capability) error {
	return e.store.UpdateCapability(c)
}

func (e *Editor) DeleteCapability(id string) error {
	return e.store.DeleteCapability(id)
}

func (e *Editor) CreateBundle(b catalog.Bundle) (catalog.Bundle, error) {
	return e.store.CreateBundle(b)
}

func (e *Editor) UpdateBundle(b catalog.Bundle) error {
	return e.store.UpdateBundle(b)
}

func (e *Editor) DeleteBundle(id string) error {
	return e.store.DeleteBundle(id)
}
