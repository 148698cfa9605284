package memory

import (
	"context"
	"sync"

	"github.com/openmc/treasury/internal/apperrors"
	"github.com/openmc/treasury/internal/core/domain"
	portsrepo "github.com/openmc/treasury/internal/core/ports/repositories"
)

// CurrencyRepository is the in-memory currency registry. The default
// currency is seeded at construction and can never be unregistered, so
// DefaultCurrency always resolves.
type CurrencyRepository struct {
	mu         sync.RWMutex
	currencies map[string]domain.Currency
	order      []string
	defaultID  string
}

// NewCurrencyRepository creates the registry seeded with the provider's
// default currency.
func NewCurrencyRepository(defaultCurrency domain.Currency) *CurrencyRepository {
	defaultCurrency.IsDefault = true
	return &CurrencyRepository{
		currencies: map[string]domain.Currency{defaultCurrency.Identifier: defaultCurrency},
		order:      []string{defaultCurrency.Identifier},
		defaultID:  defaultCurrency.Identifier,
	}
}

func (r *CurrencyRepository) SaveCurrency(_ context.Context, currency domain.Currency) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.currencies[currency.Identifier]; exists {
		return apperrors.ErrDuplicate
	}
	currency.IsDefault = false
	r.currencies[currency.Identifier] = currency
	r.order = append(r.order, currency.Identifier)
	return nil
}

func (r *CurrencyRepository) FindCurrencyByIdentifier(_ context.Context, identifier string) (*domain.Currency, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if curr, ok := r.currencies[identifier]; ok {
		return &curr, nil
	}
	return nil, apperrors.ErrNotFound
}

func (r *CurrencyRepository) ListCurrencies(_ context.Context) ([]domain.Currency, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Currency, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.currencies[id])
	}
	return out, nil
}

func (r *CurrencyRepository) DefaultCurrency(_ context.Context) (*domain.Currency, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	curr := r.currencies[r.defaultID]
	return &curr, nil
}

var _ portsrepo.CurrencyRepository = (*CurrencyRepository)(nil)
