package calculator

import "modiv-eventcraft/models"

// Snapshot is the read-only set of catalog items a session works against.
// It is fetched once when the session is created and never refreshed; a
// Store resolves item ids against it but never mutates it.
type Snapshot struct {
	items []models.CatalogItem
	byID  map[string]models.CatalogItem
}

// NewSnapshot builds a snapshot from the given items. The slice is copied so
// later changes by the caller cannot reach into an existing session.
func NewSnapshot(items []models.CatalogItem) *Snapshot {
	s := &Snapshot{
		items: make([]models.CatalogItem, len(items)),
		byID:  make(map[string]models.CatalogItem, len(items)),
	}
	copy(s.items, items)
	for _, item := range s.items {
		s.byID[item.ID] = item
	}
	return s
}

// All returns the snapshot's items in catalog order
func (s *Snapshot) All() []models.CatalogItem {
	return s.items
}

// ByID looks up an item by id
func (s *Snapshot) ByID(id string) (models.CatalogItem, bool) {
	item, ok := s.byID[id]
	return item, ok
}

// Len returns the number of items in the snapshot
func (s *Snapshot) Len() int {
	return len(s.items)
}
