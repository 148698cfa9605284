package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/openmc/treasury/internal/core/domain"
)

// SharedAccountSvcFacade defines membership and ownership management for
// shared accounts. Boolean results use false for "not supported or not
// permitted" without distinguishing the two; callers must assume no.
type SharedAccountSvcFacade interface {
	// SetOwner transfers ownership, preserving the exactly-one-OWNER invariant.
	SetOwner(ctx context.Context, accountID, subjectID uuid.UUID) (bool, error)

	// IsAccountOwner reports whether subjectID holds OWNER.
	IsAccountOwner(ctx context.Context, accountID, subjectID uuid.UUID) (bool, error)

	// AddAccountMember adds subjectID with the given initial permissions
	// (idempotent union with any existing set).
	AddAccountMember(ctx context.Context, accountID, subjectID uuid.UUID, permissions ...domain.AccountPermission) (bool, error)

	// RemoveAccountMember removes subjectID; returns false for the OWNER.
	RemoveAccountMember(ctx context.Context, accountID, subjectID uuid.UUID) (bool, error)

	// IsAccountMember reports whether subjectID has any entry on the account.
	IsAccountMember(ctx context.Context, accountID, subjectID uuid.UUID) (bool, error)

	// HasAccountPermission reports whether subjectID holds the permission.
	HasAccountPermission(ctx context.Context, accountID, subjectID uuid.UUID, permission domain.AccountPermission) (bool, error)

	// UpdateAccountPermission grants or revokes one permission (never OWNER).
	UpdateAccountPermission(ctx context.Context, accountID, subjectID uuid.UUID, permission domain.AccountPermission, value bool) (bool, error)

	// AccountsWithAccessTo returns accounts where subjectID holds every
	// listed permission (conjunction).
	AccountsWithAccessTo(ctx context.Context, subjectID uuid.UUID, permissions ...domain.AccountPermission) ([]uuid.UUID, error)

	// AccountsWithOwnerOf returns accounts owned by subjectID.
	AccountsWithOwnerOf(ctx context.Context, subjectID uuid.UUID) ([]uuid.UUID, error)

	// AccountsWithMembershipTo returns accounts where subjectID holds
	// BALANCE, DEPOSIT, and WITHDRAW.
	AccountsWithMembershipTo(ctx context.Context, subjectID uuid.UUID) ([]uuid.UUID, error)

	// AccessEntries lists the access table of an account.
	AccessEntries(ctx context.Context, accountID uuid.UUID) ([]domain.AccessEntry, error)
}
