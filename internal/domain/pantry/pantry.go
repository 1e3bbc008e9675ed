// Package pantry contains the read-side model of the user's inventory.
// Items are owned by the external inventory collaborator; the engine only
// reads a consistent snapshot taken at request start.
package pantry

import (
	"time"

	"github.com/google/uuid"
	"github.com/savorly/v1/internal/domain/recipe"
)

// Item is a single pantry inventory entry.
type Item struct {
	ID         uuid.UUID
	Name       string
	Quantity   float64
	Expiration *time.Time
}

// DaysUntilExpiry returns whole days from now until the item expires.
// The second return is false when the item has no expiration date.
func (i Item) DaysUntilExpiry(now time.Time) (int, bool) {
	if i.Expiration == nil {
		return 0, false
	}
	days := int(i.Expiration.Sub(now).Hours() / 24)
	return days, true
}

// Snapshot is an immutable view of the pantry for one request.
type Snapshot struct {
	items []Item
	names []string // normalized, parallel to items
}

// NewSnapshot copies the given items into an immutable snapshot.
func NewSnapshot(items []Item) Snapshot {
	copied := make([]Item, len(items))
	copy(copied, items)
	names := make([]string, len(copied))
	for i, it := range copied {
		names[i] = recipe.NormalizeName(it.Name)
	}
	return Snapshot{items: copied, names: names}
}

// Items returns the snapshot's items.
func (s Snapshot) Items() []Item {
	return s.items
}

// Len returns the number of items in the snapshot.
func (s Snapshot) Len() int {
	return len(s.items)
}

// Contains reports whether a normalized ingredient name matches any
// pantry item name.
func (s Snapshot) Contains(normalized string) bool {
	for _, n := range s.names {
		if recipe.NamesMatch(normalized, n) {
			return true
		}
	}
	return false
}

// Match returns the first pantry item matching a normalized ingredient
// name, if any.
func (s Snapshot) Match(normalized string) (Item, bool) {
	for i, n := range s.names {
		if recipe.NamesMatch(normalized, n) {
			return s.items[i], true
		}
	}
	return Item{}, false
}
