package ports

// Ledger groups the repositories of the record store. Implementations share one connection;
// none of the repositories joins a transaction with another.
type Ledger interface {
	Orders() OrderRepository
	Products() ProductRepository
	History() HistoryRepository
	Callbacks() CallbackRepository
}
