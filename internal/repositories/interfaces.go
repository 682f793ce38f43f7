package repositories

import (
	"context"
	"strings"
)

// Item is a flat record keyed by an opaque string ID
type Item struct {
	ID         string
	Attributes map[string]string
}

// Page is one page of a listing. LastKey is empty when no items remain.
type Page struct {
	Items   []*Item
	LastKey string
}

// ItemStore persists items in a single collection.
// Key uniqueness is enforced by the underlying store.
type ItemStore interface {
	// Create stores a new item, failing with ErrDuplicateEntry if the ID exists
	Create(ctx context.Context, item *Item) error

	// Get retrieves an item, failing with ErrNotFound if it does not exist
	Get(ctx context.Context, id string) (*Item, error)

	// Update merges attrs into an existing item and returns the result
	Update(ctx context.Context, id string, attrs map[string]string) (*Item, error)

	// Delete removes an existing item
	Delete(ctx context.Context, id string) error

	// List returns up to limit items that sort after startKey
	List(ctx context.Context, limit int, startKey string) (*Page, error)
}

// Factory creates item stores for named collections
type Factory interface {
	// CreateItemStore returns the store for collection. keyAttr names the
	// attribute holding the item ID in stores that keep it inline.
	CreateItemStore(collection, keyAttr string) ItemStore

	// Close releases connections held by the factory
	Close() error
}

// ValidateID rejects empty IDs
func ValidateID(op, entity, id string) error {
	if strings.TrimSpace(id) == "" {
		return NewRepositoryError(op, entity, id, ErrInvalidID)
	}
	return nil
}
