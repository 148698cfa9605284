package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/openmc/treasury/internal/core/domain"
)

// AccessRepository owns per-account ownership and membership permissions.
// All operations on one account are isolated from each other; the
// exactly-one-OWNER invariant holds before and after every call.
type AccessRepository interface {
	// SetOwner transactionally revokes OWNER from the prior holder (demoting
	// it to a plain member) and grants it to subjectID. Returns
	// apperrors.ErrNotFound if the account has no access table.
	SetOwner(ctx context.Context, accountID, subjectID uuid.UUID) error

	// Owner returns the current OWNER of the account. Returns
	// apperrors.ErrNotFound if the account is not shared.
	Owner(ctx context.Context, accountID uuid.UUID) (uuid.UUID, error)

	// AddMember merges the permissions into the subject's existing set
	// (idempotent union). A subject holding OWNER is left untouched. Returns
	// apperrors.ErrNotFound if the account has no access table yet.
	AddMember(ctx context.Context, accountID, subjectID uuid.UUID, permissions ...domain.AccountPermission) error

	// RemoveMember deletes the subject's entry. Returns false without error
	// when subjectID is the OWNER; ownership moves via SetOwner only.
	RemoveMember(ctx context.Context, accountID, subjectID uuid.UUID) (bool, error)

	// UpdatePermission grants (value=true) or revokes (value=false) a single
	// permission. OWNER cannot be granted or revoked this way.
	UpdatePermission(ctx context.Context, accountID, subjectID uuid.UUID, permission domain.AccountPermission, value bool) error

	// HasPermission reports whether the subject holds the permission. OWNER
	// implies every permission.
	HasPermission(ctx context.Context, accountID, subjectID uuid.UUID, permission domain.AccountPermission) (bool, error)

	// Entries lists all access entries of the account.
	Entries(ctx context.Context, accountID uuid.UUID) ([]domain.AccessEntry, error)

	// AccountsWithAccessTo returns the accounts where subjectID holds every
	// listed permission (conjunction).
	AccountsWithAccessTo(ctx context.Context, subjectID uuid.UUID, permissions ...domain.AccountPermission) ([]uuid.UUID, error)

	// InitOwner creates the access table for a freshly shared account with
	// subjectID as OWNER. Returns apperrors.ErrDuplicate if one exists.
	InitOwner(ctx context.Context, accountID, subjectID uuid.UUID) error

	// IsShared reports whether the account has an access table.
	IsShared(ctx context.Context, accountID uuid.UUID) (bool, error)

	// DeleteEntries drops the whole access table of a deleted account.
	DeleteEntries(ctx context.Context, accountID uuid.UUID) error
}
