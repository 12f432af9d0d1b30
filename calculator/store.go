package calculator

import "modiv-eventcraft/models"

// SelectionRecord is the per-item selection state layered on a catalog
// item's attributes. The item fields are copied at selection time, so a
// catalog refresh mid-session never rewrites an in-progress selection.
type SelectionRecord struct {
	Item       models.CatalogItem
	Quantity   int
	IsSelected bool
}

// Store owns the selection state of one calculator session: which items the
// visitor is planning to rent, at what quantities, and what that costs.
//
// Mutations are total: an unknown item id or a quantity below 1 degrades to
// a no-op instead of an error. The UI never presents controls for ids
// outside the snapshot or decrements below 1.
//
// Store is not safe for concurrent use; the owning session serializes
// access.
type Store struct {
	snapshot   *Snapshot
	records    map[string]*SelectionRecord
	order      []string
	templateID string
	onChange   []func()
}

// NewStore creates an empty store over the given catalog snapshot
func NewStore(snapshot *Snapshot) *Store {
	return &Store{
		snapshot: snapshot,
		records:  make(map[string]*SelectionRecord),
	}
}

// OnChange registers a callback fired after every mutation that changed
// state. No-op mutations do not fire.
func (s *Store) OnChange(fn func()) {
	s.onChange = append(s.onChange, fn)
}

func (s *Store) notify() {
	for _, fn := range s.onChange {
		fn()
	}
}

// ToggleItem flips the selected flag for itemID. First toggle of an item
// creates its record at quantity 1, selected; later toggles only flip the
// flag and leave the quantity alone. Unknown ids are ignored.
func (s *Store) ToggleItem(itemID string) {
	if rec, ok := s.records[itemID]; ok {
		rec.IsSelected = !rec.IsSelected
		s.notify()
		return
	}

	item, ok := s.snapshot.ByID(itemID)
	if !ok {
		return
	}
	s.records[itemID] = &SelectionRecord{Item: item, Quantity: 1, IsSelected: true}
	s.order = append(s.order, itemID)
	s.notify()
}

// SetQuantity sets the quantity for itemID. Quantities below 1 are rejected
// silently. Setting a quantity on an item without a record creates one and
// selects it; on an existing record only the quantity changes.
func (s *Store) SetQuantity(itemID string, quantity int) {
	if quantity < 1 {
		return
	}

	if rec, ok := s.records[itemID]; ok {
		rec.Quantity = quantity
		s.notify()
		return
	}

	item, ok := s.snapshot.ByID(itemID)
	if !ok {
		return
	}
	s.records[itemID] = &SelectionRecord{Item: item, Quantity: quantity, IsSelected: true}
	s.order = append(s.order, itemID)
	s.notify()
}

// LoadTemplate replaces the whole selection with a template's presets.
// Every snapshot item gets a record (unselected, quantity 1) so the UI
// never faces an undefined selection state, then each preset row overwrites
// its record to selected at the preset's default quantity. Preset rows
// whose item id is not in the snapshot are skipped.
func (s *Store) LoadTemplate(templateID string, presets []models.TemplateItem) {
	s.records = make(map[string]*SelectionRecord, s.snapshot.Len())
	s.order = s.order[:0]

	for _, item := range s.snapshot.All() {
		s.records[item.ID] = &SelectionRecord{Item: item, Quantity: 1, IsSelected: false}
		s.order = append(s.order, item.ID)
	}

	for _, preset := range presets {
		item, ok := s.snapshot.ByID(preset.ItemID)
		if !ok {
			continue
		}
		s.records[preset.ItemID] = &SelectionRecord{
			Item:       item,
			Quantity:   preset.DefaultQuantity,
			IsSelected: true,
		}
	}

	s.templateID = templateID
	s.notify()
}

// Reset clears the whole selection and the active template tag
func (s *Store) Reset() {
	s.records = make(map[string]*SelectionRecord)
	s.order = s.order[:0]
	s.templateID = ""
	s.notify()
}

// Total returns the sum of price*quantity over the selected records.
// Prices are whole rupiah, so plain integer arithmetic is exact.
func (s *Store) Total() int64 {
	var total int64
	for _, rec := range s.records {
		if rec.IsSelected {
			total += rec.Item.Price * int64(rec.Quantity)
		}
	}
	return total
}

// SelectedItems returns the selected records in insertion order
func (s *Store) SelectedItems() []SelectionRecord {
	var selected []SelectionRecord
	for _, id := range s.order {
		if rec := s.records[id]; rec.IsSelected {
			selected = append(selected, *rec)
		}
	}
	return selected
}

// Records returns every record (selected or not) in insertion order
func (s *Store) Records() []SelectionRecord {
	out := make([]SelectionRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.records[id])
	}
	return out
}

// Record returns the record for itemID, if one exists
func (s *Store) Record(itemID string) (SelectionRecord, bool) {
	rec, ok := s.records[itemID]
	if !ok {
		return SelectionRecord{}, false
	}
	return *rec, true
}

// TemplateID returns the id of the active template baseline, or "" when the
// session was built by hand or has been reset
func (s *Store) TemplateID() string {
	return s.templateID
}
