package models

// EventTemplate represents a named event-scale preset ("Intimate Gathering",
// "Grand Concert", ...) used to bulk-initialize a calculator session
type EventTemplate struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	ImageURL      string `json:"imageUrl,omitempty"`
	CapacityLabel string `json:"capacityLabel"`
	SortOrder     int    `json:"sortOrder"`
	CreatedAt     string `json:"createdAt,omitempty"`
}

// TemplateItem represents one preset row of a template: which item is
// pre-selected and at what default quantity
type TemplateItem struct {
	ID              string `json:"id"`
	TemplateID      string `json:"templateId"`
	ItemID          string `json:"itemId"`
	DefaultQuantity int    `json:"defaultQuantity"`
}

// CreateTemplateRequest represents the request body for creating a template
// Example: {"name": "Intimate Gathering", "description": "...", "capacityLabel": "< 100 Pax", "sortOrder": 1}
type CreateTemplateRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	ImageURL      string `json:"imageUrl,omitempty"`
	CapacityLabel string `json:"capacityLabel"`
	SortOrder     int    `json:"sortOrder"`
}

// SetTemplateItemsRequest replaces the whole preset row set of a template
// Example: {"items": [{"itemId": "...", "defaultQuantity": 2}]}
type SetTemplateItemsRequest struct {
	Items []TemplateItemInput `json:"items"`
}

// TemplateItemInput is one preset row in a SetTemplateItemsRequest
type TemplateItemInput struct {
	ItemID          string `json:"itemId"`
	DefaultQuantity int    `json:"defaultQuantity"`
}

// TemplateResponse is a template together with its preset rows
type TemplateResponse struct {
	EventTemplate
	Items []TemplateItem `json:"items"`
}
