package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/openmc/treasury/internal/apperrors"
	"github.com/openmc/treasury/internal/core/domain"
	portsrepo "github.com/openmc/treasury/internal/core/ports/repositories"
)

// accessTable is one account's ownership and membership state. All reads and
// writes go through mu, so the exactly-one-OWNER invariant can never be
// observed broken mid-transfer.
type accessTable struct {
	mu      sync.Mutex
	owner   uuid.UUID
	entries map[uuid.UUID]domain.PermissionSet
}

// AccessRepository is the in-memory access-control table, keyed by account.
type AccessRepository struct {
	mu     sync.RWMutex
	tables map[uuid.UUID]*accessTable
}

// NewAccessRepository creates an empty access-control store.
func NewAccessRepository() *AccessRepository {
	return &AccessRepository{tables: make(map[uuid.UUID]*accessTable)}
}

func (r *AccessRepository) InitOwner(_ context.Context, accountID, subjectID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tables[accountID]; exists {
		return apperrors.ErrDuplicate
	}
	r.tables[accountID] = &accessTable{
		owner: subjectID,
		entries: map[uuid.UUID]domain.PermissionSet{
			subjectID: domain.NewPermissionSet(domain.PermissionOwner),
		},
	}
	return nil
}

// SetOwner swaps ownership in one step: the prior holder loses OWNER (keeping
// any other permissions it held) and the new holder gains it.
func (r *AccessRepository) SetOwner(_ context.Context, accountID, subjectID uuid.UUID) error {
	tbl, err := r.table(accountID)
	if err != nil {
		return err
	}

	tbl.mu.Lock()
	defer tbl.mu.Unlock()

	if tbl.owner == subjectID {
		return nil
	}
	if prior, ok := tbl.entries[tbl.owner]; ok {
		delete(prior, domain.PermissionOwner)
		if len(prior) == 0 {
			delete(tbl.entries, tbl.owner)
		}
	}
	entry, ok := tbl.entries[subjectID]
	if !ok {
		entry = domain.NewPermissionSet()
		tbl.entries[subjectID] = entry
	}
	entry.Merge(domain.PermissionOwner)
	tbl.owner = subjectID
	return nil
}

func (r *AccessRepository) Owner(_ context.Context, accountID uuid.UUID) (uuid.UUID, error) {
	tbl, err := r.table(accountID)
	if err != nil {
		return uuid.Nil, err
	}

	tbl.mu.Lock()
	defer tbl.mu.Unlock()
	return tbl.owner, nil
}

func (r *AccessRepository) AddMember(_ context.Context, accountID, subjectID uuid.UUID, permissions ...domain.AccountPermission) error {
	tbl, err := r.table(accountID)
	if err != nil {
		return err
	}

	tbl.mu.Lock()
	defer tbl.mu.Unlock()

	// OWNER dominates; adding membership to the owner is a no-op.
	if tbl.owner == subjectID {
		return nil
	}
	entry, ok := tbl.entries[subjectID]
	if !ok {
		entry = domain.NewPermissionSet()
		tbl.entries[subjectID] = entry
	}
	entry.Merge(permissions...)
	return nil
}

func (r *AccessRepository) RemoveMember(_ context.Context, accountID, subjectID uuid.UUID) (bool, error) {
	tbl, err := r.table(accountID)
	if err != nil {
		return false, err
	}

	tbl.mu.Lock()
	defer tbl.mu.Unlock()

	// Ownership moves via SetOwner only; removing the owner would leave the
	// account ownerless.
	if tbl.owner == subjectID {
		return false, nil
	}
	if _, ok := tbl.entries[subjectID]; !ok {
		return false, nil
	}
	delete(tbl.entries, subjectID)
	return true, nil
}

func (r *AccessRepository) UpdatePermission(_ context.Context, accountID, subjectID uuid.UUID, permission domain.AccountPermission, value bool) error {
	if permission == domain.PermissionOwner {
		return apperrors.ErrValidation
	}
	tbl, err := r.table(accountID)
	if err != nil {
		return err
	}

	tbl.mu.Lock()
	defer tbl.mu.Unlock()

	entry, ok := tbl.entries[subjectID]
	if !ok {
		if !value {
			return nil
		}
		entry = domain.NewPermissionSet()
		tbl.entries[subjectID] = entry
	}
	if value {
		entry.Merge(permission)
	} else {
		delete(entry, permission)
	}
	return nil
}

func (r *AccessRepository) HasPermission(_ context.Context, accountID, subjectID uuid.UUID, permission domain.AccountPermission) (bool, error) {
	tbl, err := r.table(accountID)
	if err != nil {
		return false, err
	}

	tbl.mu.Lock()
	defer tbl.mu.Unlock()

	entry, ok := tbl.entries[subjectID]
	if !ok {
		return false, nil
	}
	return entry.Contains(permission), nil
}

func (r *AccessRepository) Entries(_ context.Context, accountID uuid.UUID) ([]domain.AccessEntry, error) {
	tbl, err := r.table(accountID)
	if err != nil {
		return nil, err
	}

	tbl.mu.Lock()
	defer tbl.mu.Unlock()

	out := make([]domain.AccessEntry, 0, len(tbl.entries))
	for subjectID, perms := range tbl.entries {
		copied := domain.NewPermissionSet(perms.List()...)
		out = append(out, domain.AccessEntry{AccountID: accountID, SubjectID: subjectID, Permissions: copied})
	}
	return out, nil
}

func (r *AccessRepository) AccountsWithAccessTo(_ context.Context, subjectID uuid.UUID, permissions ...domain.AccountPermission) ([]uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []uuid.UUID
	for accountID, tbl := range r.tables {
		tbl.mu.Lock()
		entry, ok := tbl.entries[subjectID]
		match := ok && entry.ContainsAll(permissions...)
		tbl.mu.Unlock()
		if match {
			out = append(out, accountID)
		}
	}
	return out, nil
}

func (r *AccessRepository) IsShared(_ context.Context, accountID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.tables[accountID]
	return ok, nil
}

func (r *AccessRepository) DeleteEntries(_ context.Context, accountID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tables, accountID)
	return nil
}

func (r *AccessRepository) table(accountID uuid.UUID) (*accessTable, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tbl, ok := r.tables[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return tbl, nil
}

var _ portsrepo.AccessRepository = (*AccessRepository)(nil)
