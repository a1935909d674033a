// Package live is a process-local change feed over the persistent store.
// Stores publish a table name after every committed write; read-side
// collaborators (the product list, the sales browser) subscribe per table and
// refresh on signal. The hub never blocks a writer: a subscriber that has not
// drained its channel simply coalesces notifications.
package live

import "sync"

const (
	TableProducts  = "products"
	TableSales     = "sales"
	TableSaleLines = "sale_lines"
)

type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]chan struct{})}
}

// Subscribe returns a signal channel for the table and a cancel func. The
// channel has a one-slot buffer; multiple publishes between reads collapse
// into a single signal.
func (h *Hub) Subscribe(table string) (<-chan struct{}, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[table] == nil {
		h.subs[table] = make(map[int]chan struct{})
	}

	id := h.nextID
	h.nextID++

	ch := make(chan struct{}, 1)
	h.subs[table][id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[table], id)
	}

	return ch, cancel
}

// Publish signals every subscriber of the table. A nil hub is a valid no-op
// publisher, so stores can run without a read side wired in.
func (h *Hub) Publish(table string) {
	if h == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs[table] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
