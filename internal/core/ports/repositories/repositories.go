package repositories

// RepositoryProvider bundles all repository implementations handed to the
// service container.
type RepositoryProvider struct {
	CurrencyRepo   CurrencyRepository
	AccountRepo    AccountRepository
	AccessRepo     AccessRepository
	PermissionRepo PermissionRepository
}
