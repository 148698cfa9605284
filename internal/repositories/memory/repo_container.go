package memory

import (
	"time"

	"github.com/openmc/treasury/internal/core/domain"
	portsrepo "github.com/openmc/treasury/internal/core/ports/repositories"
	"github.com/openmc/treasury/internal/platform/config"
)

// NewRepositoryProvider assembles the in-memory repositories from the
// provider configuration, seeding the currency registry with the configured
// default currency.
func NewRepositoryProvider(cfg *config.Config) *portsrepo.RepositoryProvider {
	now := time.Now()
	defaultCurrency := domain.Currency{
		Identifier:       cfg.DefaultCurrency,
		NameSingular:     cfg.DefaultCurrencySingular,
		NamePlural:       cfg.DefaultCurrencyPlural,
		Symbol:           cfg.DefaultCurrencySymbol,
		FractionalDigits: cfg.CurrencyFractionalDigits,
		AuditFields:      domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}

	return &portsrepo.RepositoryProvider{
		CurrencyRepo:   NewCurrencyRepository(defaultCurrency),
		AccountRepo:    NewAccountRepository(cfg.AllowNegativeBalances, cfg.MaxBalanceDigits, cfg.LockTimeout),
		AccessRepo:     NewAccessRepository(),
		PermissionRepo: NewPermissionRepository(),
	}
}
