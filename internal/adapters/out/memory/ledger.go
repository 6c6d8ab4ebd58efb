// Package memory implements the ledger and the authorizer in process memory. Every method
// locks the whole store and touches a single record, matching the conditional-write contract of
// the durable store.
package memory

import (
	"sync"

	"orderflow/internal/core/domain/model/callback"
	"orderflow/internal/core/domain/model/history"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/product"
	"orderflow/internal/core/ports"
)

type recordKey struct {
	restaurant string
	id         string
}

// Ledger is an in-memory ports.Ledger.
type Ledger struct {
	mu        sync.Mutex
	orders    map[recordKey]*order.Order
	products  map[recordKey]*product.Product
	history   map[recordKey][]history.Entry
	callbacks map[string]*callback.Callback
}

var _ ports.Ledger = (*Ledger)(nil)

func NewLedger() *Ledger {
	return &Ledger{
		orders:    make(map[recordKey]*order.Order),
		products:  make(map[recordKey]*product.Product),
		history:   make(map[recordKey][]history.Entry),
		callbacks: make(map[string]*callback.Callback),
	}
}

func (l *Ledger) Orders() ports.OrderRepository       { return &orderRepository{l: l} }
func (l *Ledger) Products() ports.ProductRepository   { return &productRepository{l: l} }
func (l *Ledger) History() ports.HistoryRepository    { return &historyRepository{l: l} }
func (l *Ledger) Callbacks() ports.CallbackRepository { return &callbackRepository{l: l} }
