package services

import (
	portsrepo "github.com/openmc/treasury/internal/core/ports/repositories"
	portssvc "github.com/openmc/treasury/internal/core/ports/services"
	"github.com/openmc/treasury/internal/platform/config"
)

// NewContainer creates the service container with properly initialized
// dependencies. The currency service is built first since the ledger's scope
// resolution depends on it.
func NewContainer(cfg *config.Config, repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	currency := NewCurrencyService(repos.CurrencyRepo, cfg.MultiCurrencySupport, cfg.CurrencyFractionalDigits)

	return &portssvc.ServiceContainer{
		Currency:      currency,
		Ledger:        NewLedgerService(repos.AccountRepo, repos.AccessRepo, currency, cfg.MultiWorldSupport, cfg.DefaultWorld, cfg.SharedAccountSupport),
		SharedAccount: NewSharedAccountService(repos.AccessRepo, cfg.SharedAccountSupport),
		Permission:    NewPermissionService(repos.PermissionRepo),
	}
}

// Compile-time interface checks.
var (
	_ portssvc.CurrencySvcFacade      = (*CurrencyService)(nil)
	_ portssvc.LedgerSvcFacade        = (*LedgerService)(nil)
	_ portssvc.SharedAccountSvcFacade = (*SharedAccountService)(nil)
	_ portssvc.PermissionSvcFacade    = (*PermissionService)(nil)
)
