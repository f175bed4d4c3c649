package memory

import (
	"fmt"
	"sync"

	"github.com/vsinha/bommrp/pkg/domain/entities"
	"github.com/vsinha/bommrp/pkg/domain/repositories"
)

// ItemRepository provides in-memory item storage
type ItemRepository struct {
	mu       sync.RWMutex
	items    []entities.Item
	itemsMap map[string]int
	codesMap map[string]int
}

// NewItemRepository creates a new in-memory item repository
func NewItemRepository(expectedItems int) *ItemRepository {
	return &ItemRepository{
		items:    make([]entities.Item, 0, expectedItems),
		itemsMap: make(map[string]int, expectedItems),
		codesMap: make(map[string]int, expectedItems),
	}
}

// Verify interface compliance
var _ repositories.ItemRepository = (*ItemRepository)(nil)

// LoadItems loads items into the repository. Duplicate ids or codes,
// within the batch or against stored items, reject the whole batch.
func (r *ItemRepository) LoadItems(items []*entities.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seenIDs := make(map[string]bool, len(items))
	seenCodes := make(map[string]bool, len(items))
	var duplicates []string
	for _, item := range items {
		_, idExists := r.itemsMap[item.ID]
		_, codeExists := r.codesMap[item.Code]
		if idExists || codeExists || seenIDs[item.ID] || seenCodes[item.Code] {
			duplicates = append(duplicates, item.Code)
		}
		seenIDs[item.ID] = true
		seenCodes[item.Code] = true
	}
	if len(duplicates) > 0 {
		return fmt.Errorf("duplicate items found: %v", duplicates)
	}

	for _, item := range items {
		r.addItem(*item)
	}
	return nil
}

// SaveItem adds a single item, rejecting duplicate ids and codes
func (r *ItemRepository) SaveItem(item *entities.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.itemsMap[item.ID]; exists {
		return fmt.Errorf("duplicate item id: %s", item.ID)
	}
	if _, exists := r.codesMap[item.Code]; exists {
		return fmt.Errorf("duplicate item code: %s", item.Code)
	}
	r.addItem(*item)
	return nil
}

func (r *ItemRepository) addItem(item entities.Item) {
	r.itemsMap[item.ID] = len(r.items)
	r.codesMap[item.Code] = len(r.items)
	r.items = append(r.items, item)
}

// GetItem returns a copy of the item with the given id
func (r *ItemRepository) GetItem(id string) (*entities.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.itemsMap[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", entities.ErrItemNotFound, id)
	}
	item := r.items[index]
	return &item, nil
}

// GetItemByCode returns a copy of the item with the given code
func (r *ItemRepository) GetItemByCode(code string) (*entities.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.codesMap[code]
	if !exists {
		return nil, fmt.Errorf("%w: code %s", entities.ErrItemNotFound, code)
	}
	item := r.items[index]
	return &item, nil
}

// GetAllItems returns copies of all items in load order
func (r *ItemRepository) GetAllItems() ([]*entities.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*entities.Item, 0, len(r.items))
	for i := range r.items {
		item := r.items[i]
		items = append(items, &item)
	}
	return items, nil
}

// UpdateStock replaces the on-hand quantity of an item
func (r *ItemRepository) UpdateStock(id string, stock entities.Quantity) error {
	if stock.IsNegative() {
		return fmt.Errorf("stock cannot be negative, got %s", stock)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	index, exists := r.itemsMap[id]
	if !exists {
		return fmt.Errorf("%w: %s", entities.ErrItemNotFound, id)
	}
	r.items[index].Stock = stock
	return nil
}
