package memory

import (
	"fmt"
	"sync"

	"github.com/vsinha/bommrp/pkg/domain/entities"
	"github.com/vsinha/bommrp/pkg/domain/repositories"
)

// OrderRepository keeps production orders in input order
type OrderRepository struct {
	mu     sync.RWMutex
	orders []entities.ProductionOrder
	ids    map[string]bool
}

// NewOrderRepository creates a new in-memory order repository
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{ids: make(map[string]bool)}
}

var _ repositories.OrderRepository = (*OrderRepository)(nil)

// LoadOrders appends orders, rejecting duplicate ids
func (r *OrderRepository) LoadOrders(orders []*entities.ProductionOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool, len(orders))
	for _, order := range orders {
		if r.ids[order.ID] || seen[order.ID] {
			return fmt.Errorf("duplicate order id: %s", order.ID)
		}
		seen[order.ID] = true
	}

	for _, order := range orders {
		r.ids[order.ID] = true
		r.orders = append(r.orders, *order)
	}
	return nil
}

// GetOrders returns copies of all orders
func (r *OrderRepository) GetOrders() ([]*entities.ProductionOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]*entities.ProductionOrder, 0, len(r.orders))
	for i := range r.orders {
		order := r.orders[i]
		orders = append(orders, &order)
	}
	return orders, nil
}

// NewCatalog wires a fresh set of in-memory repositories
func NewCatalog() repositories.Catalog {
	return repositories.Catalog{
		Items:  NewItemRepository(0),
		Nodes:  NewTechnicalListRepository(0),
		BOM:    NewBOMRepository(0),
		Orders: NewOrderRepository(),
	}
}
