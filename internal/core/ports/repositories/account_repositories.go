package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/openmc/treasury/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountRepository owns account records and their balances. Mutate and
// SetBalance are the only balance mutation points; both are linearizable per
// BalanceKey, and operations on disjoint keys never block each other.
type AccountRepository interface {
	// CreateAccount inserts a new account with no materialized balances.
	// Returns apperrors.ErrDuplicate if the accountID already exists.
	CreateAccount(ctx context.Context, account domain.Account) error

	// FindAccountByID retrieves an account. Returns apperrors.ErrNotFound if
	// it does not exist.
	FindAccountByID(ctx context.Context, accountID uuid.UUID) (*domain.Account, error)

	// RenameAccount updates the last-known display name.
	RenameAccount(ctx context.Context, accountID uuid.UUID, name string) error

	// DeleteAccount removes the account and all its balances, atomically with
	// respect to concurrent balance mutation on the same account.
	DeleteAccount(ctx context.Context, accountID uuid.UUID) error

	// ListAccountNames returns the UUID to last-known-name directory.
	ListAccountNames(ctx context.Context) (map[uuid.UUID]string, error)

	// Balance reads the balance for the fully resolved key. An untouched
	// (world, currency) pair reads as zero.
	Balance(ctx context.Context, key domain.BalanceKey) (decimal.Decimal, error)

	// Mutate applies delta to the balance under the key's cell lock and
	// returns the resulting balance. Fails with apperrors.ErrInsufficientFunds
	// if the result would go negative (when negatives are disallowed),
	// apperrors.ErrOverflow past the representable cap, and
	// apperrors.ErrLockTimeout if the cell lock cannot be acquired in time.
	Mutate(ctx context.Context, key domain.BalanceKey, delta decimal.Decimal) (decimal.Decimal, error)

	// SetBalance moves the balance to target as one atomic step, returning
	// the delta that was applied and the resulting balance. The comparison
	// and the write happen under the same cell lock Mutate uses.
	SetBalance(ctx context.Context, key domain.BalanceKey, target decimal.Decimal) (decimal.Decimal, decimal.Decimal, error)
}
