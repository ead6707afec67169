// Package users keeps dashboard accounts and the admin approval workflow.
package users

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"licensing-map/internal/aggregate"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidPasscode is returned when the passcode matches no role.
	ErrInvalidPasscode = errors.New("invalid passcode")
	// ErrPendingApproval is returned for an account awaiting super admin approval.
	ErrPendingApproval = errors.New("account is pending approval from the Super Admin")
	// ErrRegistrationPending is returned when a login registered a new
	// account that still needs approval.
	ErrRegistrationPending = errors.New("registration successful, access will be granted once the Super Admin approves your account")
	// ErrNotFound is returned for an unknown account id.
	ErrNotFound = errors.New("account not found")
	// ErrProtected is returned when deleting the last super admin.
	ErrProtected = errors.New("the last super admin cannot be deleted")
)

// Role of an account.
type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// CanEdit reports whether the role may use the catalog editor.
func (r Role) CanEdit() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Account is one dashboard user.
type Account struct {
	ID               string              `json:"id"`
	Username         string              `json:"username"`
	Role             Role                `json:"role"`
	Approved         bool                `json:"isApproved"`
	BillingFrequency aggregate.Frequency `json:"billingFrequency"`
}

// SeedSuperAdminID is the id of the account every directory starts with.
const SeedSuperAdminID = "sa-1"

// Directory holds accounts in memory.
type Directory struct {
	mu        sync.RWMutex
	accounts  []Account
	passcodes map[Role][]byte
}

// NewDirectory hashes the role passcodes and seeds the approved SuperAdmin.
func NewDirectory(adminPasscode, superPasscode string) (*Directory, error) {
	d := &Directory{
		accounts: []Account{{
			ID:               SeedSuperAdminID,
			Username:         "SuperAdmin",
			Role:             RoleSuperAdmin,
			Approved:         true,
			BillingFrequency: aggregate.Monthly,
		}},
		passcodes: make(map[Role][]byte, 2),
	}
	for role, code := range map[Role]string{RoleAdmin: adminPasscode, RoleSuperAdmin: superPasscode} {
		if code == "" {
			return nil, fmt.Errorf("passcode for %s is empty", role)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash %s passcode: %w", role, err)
		}
		d.passcodes[role] = hash
	}
	return d, nil
}

// roleFor returns the role whose passcode matches, super admin first.
func (d *Directory) roleFor(passcode string) (Role, bool) {
	for _, role := range []Role{RoleSuperAdmin, RoleAdmin} {
		if bcrypt.CompareHashAndPassword(d.passcodes[role], []byte(passcode)) == nil {
			return role, true
		}
	}
	return "", false
}

// Login signs in by username and role passcode. An unknown username
// registers a new account with the passcode's role; only super admins are
// approved on registration. An existing account needs its own role's
// passcode.
func (d *Directory) Login(username, passcode string) (Account, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return Account{}, errors.New("username is required")
	}
	role, ok := d.roleFor(passcode)
	if !ok {
		return Account{}, ErrInvalidPasscode
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, a := range d.accounts {
		if !strings.EqualFold(a.Username, username) {
			continue
		}
		if a.Role != role {
			return Account{}, ErrInvalidPasscode
		}
		if !a.Approved && a.Role != RoleSuperAdmin {
			return a, ErrPendingApproval
		}
		return a, nil
	}

	a := Account{
		ID:               uuid.NewString(),
		Username:         username,
		Role:             role,
		Approved:         role == RoleSuperAdmin,
		BillingFrequency: aggregate.Monthly,
	}
	d.accounts = append(d.accounts, a)
	if !a.Approved {
		return a, ErrRegistrationPending
	}
	return a, nil
}

// Get returns the account with id.
func (d *Directory) Get(id string) (Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, a := range d.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return Account{}, ErrNotFound
}

// List returns every account, pending ones first, then by username.
func (d *Directory) List() []Account {
	d.mu.RLock()
	out := append([]Account(nil), d.accounts...)
	d.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Approved != out[j].Approved {
			return !out[i].Approved
		}
		return strings.ToLower(out[i].Username) < strings.ToLower(out[j].Username)
	})
	return out
}

// Approve grants access to a pending account.
func (d *Directory) Approve(id string) error {
	return d.update(id, func(a *Account) { a.Approved = true })
}

// SetBillingFrequency stores the account's preferred billing frequency.
func (d *Directory) SetBillingFrequency(id string, f aggregate.Frequency) error {
	return d.update(id, func(a *Account) { a.BillingFrequency = f })
}

// Delete removes an account.
func (d *Directory) Delete(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx := -1
	supers := 0
	for i, a := range d.accounts {
		if a.ID == id {
			idx = i
		}
		if a.Role == RoleSuperAdmin {
			supers++
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	if d.accounts[idx].Role == RoleSuperAdmin && supers == 1 {
		return ErrProtected
	}
	d.accounts = append(d.accounts[:idx], d.accounts[idx+1:]...)
	return nil
}

func (d *Directory) update(id string, fn func(a *Account)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.accounts {
		if d.accounts[i].ID == id {
			fn(&d.accounts[i])
			return nil
		}
	}
	return ErrNotFound
}
