package repositories

// Store is the transactional persistence boundary of the ledger core.
type Store interface {
	TransactionManager
	LedgerReader
	IntegrityReader
	IntegrityStatusWriter
	AuditReader
}

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	Store Store
	Chart ChartReader
}
