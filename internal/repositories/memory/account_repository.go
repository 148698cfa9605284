package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/openmc/treasury/internal/apperrors"
	"github.com/openmc/treasury/internal/core/domain"
	portsrepo "github.com/openmc/treasury/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// balanceCell is one (world, currency) balance of an account. The one-slot
// channel doubles as a mutex that supports timed acquisition; amount is only
// read or written while the slot is held.
type balanceCell struct {
	lock   chan struct{}
	amount decimal.Decimal
}

func newBalanceCell() *balanceCell {
	return &balanceCell{lock: make(chan struct{}, 1)}
}

// accountRecord bundles an account with its lazily materialized balance
// cells. mu is held shared for the duration of any balance operation and
// exclusively by delete/rename, so a completed delete can never leave a
// mutation half-applied on a dangling balance.
type accountRecord struct {
	mu      sync.RWMutex
	cellsMu sync.Mutex
	account domain.Account
	cells   map[string]*balanceCell
}

func (rec *accountRecord) cell(key domain.BalanceKey) *balanceCell {
	ck := key.World + "\x00" + key.Currency
	rec.cellsMu.Lock()
	defer rec.cellsMu.Unlock()

	c, ok := rec.cells[ck]
	if !ok {
		c = newBalanceCell()
		rec.cells[ck] = c
	}
	return c
}

// AccountRepository is the in-memory account store. Balance mutations are
// linearizable per (accountID, world, currency); disjoint keys proceed in
// parallel.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*accountRecord

	allowNegative bool
	maxBalance    decimal.Decimal
	lockTimeout   time.Duration
}

// NewAccountRepository creates the store. Balances are capped at
// 10^maxBalanceDigits in absolute value; mutations past the cap fail with
// apperrors.ErrOverflow.
func NewAccountRepository(allowNegative bool, maxBalanceDigits int, lockTimeout time.Duration) *AccountRepository {
	return &AccountRepository{
		accounts:      make(map[uuid.UUID]*accountRecord),
		allowNegative: allowNegative,
		maxBalance:    decimal.New(1, int32(maxBalanceDigits)),
		lockTimeout:   lockTimeout,
	}
}

func (r *AccountRepository) CreateAccount(_ context.Context, account domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[account.AccountID]; exists {
		return apperrors.ErrDuplicate
	}
	r.accounts[account.AccountID] = &accountRecord{
		account: account,
		cells:   make(map[string]*balanceCell),
	}
	return nil
}

func (r *AccountRepository) FindAccountByID(_ context.Context, accountID uuid.UUID) (*domain.Account, error) {
	rec, err := r.record(accountID)
	if err != nil {
		return nil, err
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()
	acc := rec.account
	return &acc, nil
}

func (r *AccountRepository) RenameAccount(_ context.Context, accountID uuid.UUID, name string) error {
	rec, err := r.record(accountID)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.account.Name = name
	return nil
}

// DeleteAccount removes the account and every balance cell in one step. It
// waits for in-flight mutations on the account to drain, so no mutation can
// observe or produce a balance after the delete returns.
func (r *AccountRepository) DeleteAccount(_ context.Context, accountID uuid.UUID) error {
	r.mu.Lock()
	rec, ok := r.accounts[accountID]
	if !ok {
		r.mu.Unlock()
		return apperrors.ErrNotFound
	}
	delete(r.accounts, accountID)
	r.mu.Unlock()

	rec.mu.Lock()
	rec.cells = nil
	rec.mu.Unlock()
	return nil
}

func (r *AccountRepository) ListAccountNames(_ context.Context) (map[uuid.UUID]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[uuid.UUID]string, len(r.accounts))
	for id, rec := range r.accounts {
		rec.mu.RLock()
		out[id] = rec.account.Name
		rec.mu.RUnlock()
	}
	return out, nil
}

func (r *AccountRepository) Balance(_ context.Context, key domain.BalanceKey) (decimal.Decimal, error) {
	rec, err := r.record(key.AccountID)
	if err != nil {
		return decimal.Zero, err
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()
	if rec.cells == nil {
		return decimal.Zero, apperrors.ErrNotFound
	}

	cell := rec.cell(key)
	if err := r.acquire(cell); err != nil {
		return decimal.Zero, err
	}
	defer cell.release()
	return cell.amount, nil
}

// Mutate applies delta under the cell lock. This is the only place a balance
// changes apart from SetBalance, which shares the same locking discipline.
func (r *AccountRepository) Mutate(_ context.Context, key domain.BalanceKey, delta decimal.Decimal) (decimal.Decimal, error) {
	rec, err := r.record(key.AccountID)
	if err != nil {
		return decimal.Zero, err
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()
	if rec.cells == nil {
		return decimal.Zero, apperrors.ErrNotFound
	}

	cell := rec.cell(key)
	if err := r.acquire(cell); err != nil {
		return decimal.Zero, err
	}
	defer cell.release()

	next := cell.amount.Add(delta)
	if err := r.check(next); err != nil {
		return cell.amount, err
	}
	cell.amount = next
	return next, nil
}

// SetBalance moves the balance to target as a single atomic step: the
// comparison against the current amount and the write happen under the same
// cell lock Mutate uses, so no concurrent reader can observe an intermediate
// state.
func (r *AccountRepository) SetBalance(_ context.Context, key domain.BalanceKey, target decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	rec, err := r.record(key.AccountID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()
	if rec.cells == nil {
		return decimal.Zero, decimal.Zero, apperrors.ErrNotFound
	}

	cell := rec.cell(key)
	if err := r.acquire(cell); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	defer cell.release()

	if err := r.check(target); err != nil {
		return decimal.Zero, cell.amount, err
	}
	delta := target.Sub(cell.amount)
	cell.amount = target
	return delta, target, nil
}

func (r *AccountRepository) record(accountID uuid.UUID) (*accountRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return rec, nil
}

// acquire takes the cell's one-slot lock, giving up after the configured
// timeout so a stuck caller surfaces as a retryable failure instead of a hang.
func (r *AccountRepository) acquire(cell *balanceCell) error {
	select {
	case cell.lock <- struct{}{}:
		return nil
	case <-time.After(r.lockTimeout):
		return apperrors.ErrLockTimeout
	}
}

func (c *balanceCell) release() {
	<-c.lock
}

func (r *AccountRepository) check(balance decimal.Decimal) error {
	if !r.allowNegative && balance.IsNegative() {
		return apperrors.ErrInsufficientFunds
	}
	if balance.Abs().GreaterThan(r.maxBalance) {
		return apperrors.ErrOverflow
	}
	return nil
}

var _ portsrepo.AccountRepository = (*AccountRepository)(nil)
