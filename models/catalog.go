package models

// Category represents an item category (sound, lighting, stage, ...)
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IconSlug  string `json:"iconSlug"`
	SortOrder int    `json:"sortOrder"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// CatalogItem represents a rentable item in the catalog.
// Price is in whole rupiah (no cents in IDR pricing).
type CatalogItem struct {
	ID          string `json:"id"`
	CategoryID  string `json:"categoryId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	Unit        string `json:"unit"`
	ImageURL    string `json:"imageUrl,omitempty"`
	IsActive    bool   `json:"isActive"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// CatalogResponse is the public catalog payload: categories in display
// order plus the active items
type CatalogResponse struct {
	Categories []Category    `json:"categories"`
	Items      []CatalogItem `json:"items"`
}

// CreateCategoryRequest represents the request body for creating a category
// Example: {"name": "Sound System", "iconSlug": "volume-2", "sortOrder": 1}
type CreateCategoryRequest struct {
	Name      string `json:"name"`
	IconSlug  string `json:"iconSlug"`
	SortOrder int    `json:"sortOrder"`
}

// CreateItemRequest represents the request body for creating an item
// Example: {"categoryId": "...", "name": "Sound System 5000 Watt", "price": 5000000, "unit": "per day"}
type CreateItemRequest struct {
	CategoryID  string `json:"categoryId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	Unit        string `json:"unit"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// UpdateItemRequest represents the request body for updating an item.
// A price different from the stored one also writes a price_history row.
type UpdateItemRequest struct {
	CategoryID  string `json:"categoryId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	Unit        string `json:"unit"`
	ImageURL    string `json:"imageUrl,omitempty"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// PriceHistoryEntry represents one recorded price change for an item
type PriceHistoryEntry struct {
	ID        string `json:"id"`
	ItemID    string `json:"itemId"`
	OldPrice  int64  `json:"oldPrice"`
	NewPrice  int64  `json:"newPrice"`
	ChangedBy string `json:"changedBy,omitempty"`
	CreatedAt string `json:"createdAt"`
}
