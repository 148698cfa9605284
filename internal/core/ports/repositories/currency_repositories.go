package repositories

import (
	"context"

	"github.com/openmc/treasury/internal/core/domain"
)

// CurrencyRepository owns the set of registered currencies.
type CurrencyRepository interface {
	// SaveCurrency registers a new currency. Returns apperrors.ErrDuplicate
	// if the identifier is already registered.
	SaveCurrency(ctx context.Context, currency domain.Currency) error

	// FindCurrencyByIdentifier retrieves a currency by its identifier.
	// Returns apperrors.ErrNotFound if it is not registered.
	FindCurrencyByIdentifier(ctx context.Context, identifier string) (*domain.Currency, error)

	// ListCurrencies retrieves all registered currencies in registration order.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)

	// DefaultCurrency retrieves the currency marked as the provider default.
	DefaultCurrency(ctx context.Context) (*domain.Currency, error)
}
