package models

// CreateSessionResponse is returned when a calculator session is opened
type CreateSessionResponse struct {
	SessionID string `json:"sessionId"`
	ItemCount int    `json:"itemCount"`
}

// ToggleItemRequest represents the request body for toggling an item
// Example: {"itemId": "..."}
type ToggleItemRequest struct {
	ItemID string `json:"itemId"`
}

// SetQuantityRequest represents the request body for setting a quantity
// Example: {"itemId": "...", "quantity": 3}
type SetQuantityRequest struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// LoadTemplateRequest represents the request body for applying a template
// Example: {"templateId": "..."}
type LoadTemplateRequest struct {
	TemplateID string `json:"templateId"`
}

// SelectionLine is one selection record as shown to the UI
type SelectionLine struct {
	ItemID     string `json:"itemId"`
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	Unit       string `json:"unit"`
	ImageURL   string `json:"imageUrl,omitempty"`
	Quantity   int    `json:"quantity"`
	IsSelected bool   `json:"isSelected"`
	LineTotal  int64  `json:"lineTotal"`
}

// SessionSummary is the full calculator state for one session
type SessionSummary struct {
	SessionID          string          `json:"sessionId"`
	SelectedTemplateID string          `json:"selectedTemplateId,omitempty"`
	Records            []SelectionLine `json:"records"`
	Selected           []SelectionLine `json:"selected"`
	Total              int64           `json:"total"`
	TotalFormatted     string          `json:"totalFormatted"`
}

// RateLimitedResponse is the 429 payload when a submission is denied
type RateLimitedResponse struct {
	Error             string `json:"error"`
	RetryAfterSeconds int    `json:"retryAfterSeconds"`
	RemainingQuota    int    `json:"remainingQuota"`
}
