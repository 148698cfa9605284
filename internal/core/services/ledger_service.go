package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/openmc/treasury/internal/apperrors"
	"github.com/openmc/treasury/internal/core/domain"
	portsrepo "github.com/openmc/treasury/internal/core/ports/repositories"
	portssvc "github.com/openmc/treasury/internal/core/ports/services"
	"github.com/openmc/treasury/internal/dto"
	"github.com/openmc/treasury/internal/middleware"
	"github.com/shopspring/decimal"
)

// LedgerService composes the account store and the access-control table into
// the transaction engine. Every mutating call walks the same states: check
// access, check funds, apply, respond; a failure at any state short-circuits
// to the response with nothing applied.
type LedgerService struct {
	AccountRepository portsrepo.AccountRepository
	AccessRepository  portsrepo.AccessRepository
	Currency          portssvc.CurrencyReaderSvc

	multiWorld    bool
	defaultWorld  string
	sharedSupport bool
}

// NewLedgerService creates the transaction engine.
func NewLedgerService(accountRepo portsrepo.AccountRepository, accessRepo portsrepo.AccessRepository, currency portssvc.CurrencyReaderSvc, multiWorld bool, defaultWorld string, sharedSupport bool) *LedgerService {
	return &LedgerService{
		AccountRepository: accountRepo,
		AccessRepository:  accessRepo,
		Currency:          currency,
		multiWorld:        multiWorld,
		defaultWorld:      defaultWorld,
		sharedSupport:     sharedSupport,
	}
}

// --- Account lifecycle ---

func (s *LedgerService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account := domain.Account{
		AccountID: req.AccountID,
		Name:      req.Name,
		Player:    req.Player,
		CreatedAt: time.Now(),
	}
	if err := s.AccountRepository.CreateAccount(ctx, account); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("Failed to create account in repository", slog.String("error", err.Error()), slog.String("account_id", account.AccountID.String()))
		}
		return nil, err
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID.String()), slog.Bool("player", account.Player))
	return &account, nil
}

func (s *LedgerService) CreateSharedAccount(ctx context.Context, req dto.CreateSharedAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !s.sharedSupport {
		return nil, apperrors.ErrNotSupported
	}

	account := domain.Account{
		AccountID: req.AccountID,
		Name:      req.Name,
		Player:    false,
		CreatedAt: time.Now(),
	}
	if err := s.AccountRepository.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	if err := s.AccessRepository.InitOwner(ctx, req.AccountID, req.Owner); err != nil {
		logger.Error("Failed to initialize owner for shared account", slog.String("error", err.Error()), slog.String("account_id", req.AccountID.String()))
		return nil, err
	}

	logger.Info("Shared account created successfully", slog.String("account_id", account.AccountID.String()), slog.String("owner", req.Owner.String()))
	return &account, nil
}

func (s *LedgerService) GetAccount(ctx context.Context, accountID uuid.UUID) (*domain.Account, error) {
	return s.AccountRepository.FindAccountByID(ctx, accountID)
}

func (s *LedgerService) HasAccount(ctx context.Context, accountID uuid.UUID) (bool, error) {
	_, err := s.AccountRepository.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *LedgerService) UUIDNameMap(ctx context.Context) (map[uuid.UUID]string, error) {
	return s.AccountRepository.ListAccountNames(ctx)
}

func (s *LedgerService) RenameAccount(ctx context.Context, accountID uuid.UUID, name string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AccountRepository.RenameAccount(ctx, accountID, name); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to rename account in repository", slog.String("error", err.Error()), slog.String("account_id", accountID.String()))
		}
		return err
	}
	logger.Info("Account renamed successfully", slog.String("account_id", accountID.String()))
	return nil
}

// DeleteAccount removes the account, its balances, and its access table. A
// shared account with members besides the owner is refused; the caller (the
// collaborating plugin) decides whether to disband the membership first.
func (s *LedgerService) DeleteAccount(ctx context.Context, accountID uuid.UUID) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	shared, err := s.AccessRepository.IsShared(ctx, accountID)
	if err != nil {
		return err
	}
	if shared {
		entries, err := s.AccessRepository.Entries(ctx, accountID)
		if err != nil {
			return err
		}
		if len(entries) > 1 {
			return apperrors.ErrAccountShared
		}
	}

	if err := s.AccountRepository.DeleteAccount(ctx, accountID); err != nil {
		return err
	}
	if err := s.AccessRepository.DeleteEntries(ctx, accountID); err != nil {
		logger.Error("Failed to delete access entries for account", slog.String("error", err.Error()), slog.String("account_id", accountID.String()))
		return err
	}

	logger.Info("Account deleted successfully", slog.String("account_id", accountID.String()))
	return nil
}

func (s *LedgerService) AccountSupportsCurrency(ctx context.Context, accountID uuid.UUID, currency, world string) (bool, error) {
	if _, err := s.AccountRepository.FindAccountByID(ctx, accountID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	// Accounts hold balances in any registered currency; worlds are opaque
	// scoping keys with no per-account restrictions.
	if _, err := s.Currency.Resolve(ctx, currency); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// --- Balance reads ---

func (s *LedgerService) Balance(ctx context.Context, accountID uuid.UUID, scope dto.BalanceScope) (decimal.Decimal, error) {
	key, _, err := s.resolveKey(ctx, accountID, scope)
	if err != nil {
		return decimal.Zero, err
	}
	return s.AccountRepository.Balance(ctx, key)
}

func (s *LedgerService) HasFunds(ctx context.Context, accountID uuid.UUID, scope dto.BalanceScope, amount decimal.Decimal) (bool, error) {
	balance, err := s.Balance(ctx, accountID, scope)
	if err != nil {
		return false, err
	}
	return balance.GreaterThanOrEqual(amount), nil
}

// --- Transactions ---

func (s *LedgerService) Deposit(ctx context.Context, initiator *uuid.UUID, accountID uuid.UUID, scope dto.BalanceScope, amount decimal.Decimal) domain.EconomyResponse {
	logger := middleware.GetLoggerFromCtx(ctx)

	// A negative amount is a precondition violation, never an implicit
	// withdrawal.
	if amount.IsNegative() {
		return domain.FailureResponse(decimal.Zero, "deposit amount must not be negative")
	}

	key, currency, err := s.resolveKey(ctx, accountID, scope)
	if err != nil {
		return s.failureFromErr(err)
	}
	if resp, ok := s.checkAccess(ctx, initiator, accountID, domain.PermissionDeposit); !ok {
		return resp
	}

	applied := roundAmount(currency, amount)
	balance, err := s.AccountRepository.Mutate(ctx, key, applied)
	if err != nil {
		return s.failureWithBalance(err, balance)
	}

	logger.Info("Deposit applied", slog.String("account_id", accountID.String()), slog.String("currency", key.Currency), slog.String("amount", applied.String()))
	return domain.SuccessResponse(applied, balance)
}

func (s *LedgerService) Withdraw(ctx context.Context, initiator *uuid.UUID, accountID uuid.UUID, scope dto.BalanceScope, amount decimal.Decimal) domain.EconomyResponse {
	logger := middleware.GetLoggerFromCtx(ctx)

	if amount.IsNegative() {
		return domain.FailureResponse(decimal.Zero, "withdrawal amount must not be negative")
	}

	key, currency, err := s.resolveKey(ctx, accountID, scope)
	if err != nil {
		return s.failureFromErr(err)
	}
	if resp, ok := s.checkAccess(ctx, initiator, accountID, domain.PermissionWithdraw); !ok {
		return resp
	}

	applied := roundAmount(currency, amount)
	balance, err := s.AccountRepository.Mutate(ctx, key, applied.Neg())
	if err != nil {
		return s.failureWithBalance(err, balance)
	}

	logger.Info("Withdrawal applied", slog.String("account_id", accountID.String()), slog.String("currency", key.Currency), slog.String("amount", applied.String()))
	return domain.SuccessResponse(applied, balance)
}

// Set moves the balance to target as one atomic step relative to the current
// balance. Concurrent mutators on the same key serialize against it; no
// reader ever observes an intermediate balance. Calling it twice with the
// same target applies a zero delta the second time.
func (s *LedgerService) Set(ctx context.Context, initiator *uuid.UUID, accountID uuid.UUID, scope dto.BalanceScope, target decimal.Decimal) domain.EconomyResponse {
	logger := middleware.GetLoggerFromCtx(ctx)

	key, currency, err := s.resolveKey(ctx, accountID, scope)
	if err != nil {
		return s.failureFromErr(err)
	}
	// Setting is a deposit or a withdrawal depending on direction, so it
	// needs both capabilities.
	if resp, ok := s.checkAccess(ctx, initiator, accountID, domain.PermissionDeposit); !ok {
		return resp
	}
	if resp, ok := s.checkAccess(ctx, initiator, accountID, domain.PermissionWithdraw); !ok {
		return resp
	}

	delta, balance, err := s.AccountRepository.SetBalance(ctx, key, roundAmount(currency, target))
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientFunds) {
			return domain.FailureResponse(balance, "target balance must not be negative")
		}
		return s.failureWithBalance(err, balance)
	}

	logger.Info("Balance set", slog.String("account_id", accountID.String()), slog.String("currency", key.Currency), slog.String("delta", delta.String()))
	return domain.SuccessResponse(delta, balance)
}

// CanAccept is an optional extension point for providers with balance caps;
// this provider does not implement it.
func (s *LedgerService) CanAccept(_ context.Context, _ uuid.UUID, _ dto.BalanceScope, _ decimal.Decimal) domain.EconomyResponse {
	return domain.NotImplementedResponse("canAccept is not implemented by this economy provider")
}

// --- Async variants ---

func (s *LedgerService) DepositAsync(ctx context.Context, initiator *uuid.UUID, accountID uuid.UUID, scope dto.BalanceScope, amount decimal.Decimal) <-chan domain.EconomyResponse {
	ch := make(chan domain.EconomyResponse, 1)
	go func() {
		defer close(ch)
		ch <- s.Deposit(ctx, initiator, accountID, scope, amount)
	}()
	return ch
}

func (s *LedgerService) WithdrawAsync(ctx context.Context, initiator *uuid.UUID, accountID uuid.UUID, scope dto.BalanceScope, amount decimal.Decimal) <-chan domain.EconomyResponse {
	ch := make(chan domain.EconomyResponse, 1)
	go func() {
		defer close(ch)
		ch <- s.Withdraw(ctx, initiator, accountID, scope, amount)
	}()
	return ch
}

func (s *LedgerService) SetAsync(ctx context.Context, initiator *uuid.UUID, accountID uuid.UUID, scope dto.BalanceScope, target decimal.Decimal) <-chan domain.EconomyResponse {
	ch := make(chan domain.EconomyResponse, 1)
	go func() {
		defer close(ch)
		ch <- s.Set(ctx, initiator, accountID, scope, target)
	}()
	return ch
}

// --- Internal helpers ---

// resolveKey applies the central scope fallback: the default world when the
// provider is single-world or none was given, and the currency registry's
// Resolve rule for the currency.
func (s *LedgerService) resolveKey(ctx context.Context, accountID uuid.UUID, scope dto.BalanceScope) (domain.BalanceKey, *domain.Currency, error) {
	world := scope.World
	if world == "" || !s.multiWorld {
		world = s.defaultWorld
	}
	currency, err := s.Currency.Resolve(ctx, scope.Currency)
	if err != nil {
		return domain.BalanceKey{}, nil, err
	}
	return domain.BalanceKey{AccountID: accountID, World: world, Currency: currency.Identifier}, currency, nil
}

// checkAccess gates a mutation on a shared account. A nil initiator is a
// server-level call and passes. On a non-shared account only the account
// holder itself may act; on a shared account the access table decides.
func (s *LedgerService) checkAccess(ctx context.Context, initiator *uuid.UUID, accountID uuid.UUID, permission domain.AccountPermission) (domain.EconomyResponse, bool) {
	if initiator == nil {
		return domain.EconomyResponse{}, true
	}

	shared, err := s.AccessRepository.IsShared(ctx, accountID)
	if err != nil {
		return s.failureFromErr(err), false
	}
	if !shared {
		if *initiator == accountID {
			return domain.EconomyResponse{}, true
		}
		return domain.FailureResponse(decimal.Zero, "initiator has no access to this account"), false
	}

	allowed, err := s.AccessRepository.HasPermission(ctx, accountID, *initiator, permission)
	if err != nil {
		return s.failureFromErr(err), false
	}
	if !allowed {
		return domain.FailureResponse(decimal.Zero, "initiator lacks the "+string(permission)+" permission"), false
	}
	return domain.EconomyResponse{}, true
}

func (s *LedgerService) failureFromErr(err error) domain.EconomyResponse {
	return s.failureWithBalance(err, decimal.Zero)
}

// failureWithBalance maps a store error to the response taxonomy. balance is
// the unchanged balance when the store reported one.
func (s *LedgerService) failureWithBalance(err error, balance decimal.Decimal) domain.EconomyResponse {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return domain.FailureResponse(balance, "account does not exist")
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		return domain.FailureResponse(balance, "insufficient funds")
	case errors.Is(err, apperrors.ErrOverflow):
		return domain.FailureResponse(balance, "operation exceeds the representable balance")
	case errors.Is(err, apperrors.ErrLockTimeout):
		return domain.FailureResponse(balance, "balance is busy, retry the operation")
	case errors.Is(err, apperrors.ErrNotSupported):
		return domain.NotSupportedResponse("operation not supported by this provider")
	default:
		return domain.FailureResponse(balance, err.Error())
	}
}

// roundAmount applies the currency's fractional-digit policy; -1 leaves the
// amount untouched.
func roundAmount(currency *domain.Currency, amount decimal.Decimal) decimal.Decimal {
	if currency.FractionalDigits < 0 {
		return amount
	}
	return amount.Round(int32(currency.FractionalDigits))
}
