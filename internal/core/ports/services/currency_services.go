package services

import (
	"context"

	"github.com/openmc/treasury/internal/core/domain"
	"github.com/openmc/treasury/internal/dto"
)

// CurrencyReaderSvc defines read operations for currency data.
type CurrencyReaderSvc interface {
	// GetCurrencyByIdentifier retrieves a specific currency.
	GetCurrencyByIdentifier(ctx context.Context, identifier string) (*domain.Currency, error)

	// ListCurrencies retrieves all registered currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)

	// DefaultCurrency retrieves the provider's default currency.
	DefaultCurrency(ctx context.Context) (*domain.Currency, error)

	// HasCurrency reports whether the identifier is registered.
	HasCurrency(ctx context.Context, identifier string) (bool, error)

	// Resolve maps an optional currency identifier to its effective currency:
	// the named one, or the default when the identifier is empty or the
	// provider has no multi-currency support. Every ledger operation that
	// accepts an optional currency goes through this single rule.
	Resolve(ctx context.Context, identifier string) (*domain.Currency, error)

	// FractionalDigits returns the rounding policy for the resolved currency;
	// -1 means the provider does not round.
	FractionalDigits(ctx context.Context, identifier string) (int, error)
}

// CurrencyWriterSvc defines write operations for currency data.
type CurrencyWriterSvc interface {
	// RegisterCurrency registers a new currency.
	RegisterCurrency(ctx context.Context, req dto.RegisterCurrencyRequest) (*domain.Currency, error)
}

// CurrencySvcFacade combines all currency-related service interfaces.
type CurrencySvcFacade interface {
	CurrencyReaderSvc
	CurrencyWriterSvc
}
