package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/openmc/treasury/internal/core/domain"
	"github.com/openmc/treasury/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountReaderSvc defines read operations for accounts and balances.
type AccountReaderSvc interface {
	// GetAccount retrieves an account by ID.
	GetAccount(ctx context.Context, accountID uuid.UUID) (*domain.Account, error)

	// HasAccount reports whether the account exists.
	HasAccount(ctx context.Context, accountID uuid.UUID) (bool, error)

	// UUIDNameMap returns the UUID to last-known-name directory.
	UUIDNameMap(ctx context.Context) (map[uuid.UUID]string, error)

	// AccountSupportsCurrency reports whether the account can hold balances
	// in the given currency within the given world.
	AccountSupportsCurrency(ctx context.Context, accountID uuid.UUID, currency, world string) (bool, error)

	// Balance reads the account balance in the resolved scope.
	Balance(ctx context.Context, accountID uuid.UUID, scope dto.BalanceScope) (decimal.Decimal, error)

	// HasFunds reports whether the balance in the resolved scope covers amount.
	HasFunds(ctx context.Context, accountID uuid.UUID, scope dto.BalanceScope, amount decimal.Decimal) (bool, error)
}

// AccountWriterSvc defines lifecycle operations for accounts.
type AccountWriterSvc interface {
	// CreateAccount creates a new player or non-player account.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)

	// CreateSharedAccount creates a non-player account owned by req.Owner.
	CreateSharedAccount(ctx context.Context, req dto.CreateSharedAccountRequest) (*domain.Account, error)

	// RenameAccount updates the last-known display name.
	RenameAccount(ctx context.Context, accountID uuid.UUID, name string) error

	// DeleteAccount removes the account, its balances, and its access table.
	// Fails with apperrors.ErrAccountShared while another subject holds OWNER.
	DeleteAccount(ctx context.Context, accountID uuid.UUID) error
}

// LedgerTransactorSvc defines the balance-mutating operation set. Every call
// returns exactly one EconomyResponse; failures travel in the response, not
// as errors. initiator is the acting subject for shared-account permission
// checks; nil means a server-level call.
type LedgerTransactorSvc interface {
	Deposit(ctx context.Context, initiator *uuid.UUID, accountID uuid.UUID, scope dto.BalanceScope, amount decimal.Decimal) domain.EconomyResponse
	Withdraw(ctx context.Context, initiator *uuid.UUID, accountID uuid.UUID, scope dto.BalanceScope, amount decimal.Decimal) domain.EconomyResponse
	Set(ctx context.Context, initiator *uuid.UUID, accountID uuid.UUID, scope dto.BalanceScope, target decimal.Decimal) domain.EconomyResponse
	CanAccept(ctx context.Context, accountID uuid.UUID, scope dto.BalanceScope, amount decimal.Decimal) domain.EconomyResponse

	// Async variants compute on a goroutine from the synchronous snapshot at
	// call time and never block the caller.
	DepositAsync(ctx context.Context, initiator *uuid.UUID, accountID uuid.UUID, scope dto.BalanceScope, amount decimal.Decimal) <-chan domain.EconomyResponse
	WithdrawAsync(ctx context.Context, initiator *uuid.UUID, accountID uuid.UUID, scope dto.BalanceScope, amount decimal.Decimal) <-chan domain.EconomyResponse
	SetAsync(ctx context.Context, initiator *uuid.UUID, accountID uuid.UUID, scope dto.BalanceScope, target decimal.Decimal) <-chan domain.EconomyResponse
}

// LedgerSvcFacade combines all ledger-related service interfaces.
type LedgerSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	LedgerTransactorSvc
}
