package models

// Inquiry statuses an admin can move a quote request through
const (
	InquiryStatusPending   = "pending"
	InquiryStatusContacted = "contacted"
	InquiryStatusQuoted    = "quoted"
	InquiryStatusConfirmed = "confirmed"
	InquiryStatusCompleted = "completed"
	InquiryStatusCancelled = "cancelled"
)

// ValidInquiryStatus reports whether s is one of the known statuses
func ValidInquiryStatus(s string) bool {
	switch s {
	case InquiryStatusPending, InquiryStatusContacted, InquiryStatusQuoted,
		InquiryStatusConfirmed, InquiryStatusCompleted, InquiryStatusCancelled:
		return true
	}
	return false
}

// Inquiry represents a submitted quote request
type Inquiry struct {
	ID            string `json:"id"`
	CustomerName  string `json:"customerName"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	EventDate     string `json:"eventDate,omitempty"`
	EventLocation string `json:"eventLocation,omitempty"`
	Notes         string `json:"notes,omitempty"`
	Total         int64  `json:"total"`
	Status        string `json:"status"`
	CreatedAt     string `json:"createdAt"`
}

// InquiryItem represents a line of an inquiry. Name and price are copied at
// submission time so later catalog edits never rewrite past quotes.
type InquiryItem struct {
	ID          string `json:"id"`
	InquiryID   string `json:"inquiryId"`
	ItemID      string `json:"itemId"`
	ItemName    string `json:"itemName"`
	Quantity    int    `json:"quantity"`
	PriceAtTime int64  `json:"priceAtTime"`
}

// InquiryStatusChange represents one row of an inquiry's status history
type InquiryStatusChange struct {
	ID        string `json:"id"`
	InquiryID string `json:"inquiryId"`
	OldStatus string `json:"oldStatus,omitempty"`
	NewStatus string `json:"newStatus"`
	ChangedBy string `json:"changedBy,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// SubmitInquiryRequest represents the request body for submitting a quote
// request from a calculator session. Total is the client-computed figure,
// advisory only; the server recomputes the authoritative total.
// Example: {"customerName": "Budi", "email": "budi@example.com", "phone": "+62812...", "eventDate": "2026-10-01", "eventLocation": "Jakarta", "total": 8500000}
type SubmitInquiryRequest struct {
	CustomerName  string `json:"customerName"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	EventDate     string `json:"eventDate,omitempty"`
	EventLocation string `json:"eventLocation,omitempty"`
	Notes         string `json:"notes,omitempty"`
	Total         int64  `json:"total"`
}

// InquiryResult is returned after a successful submission and handed to the
// downstream formatters (email, PDF, success page)
type InquiryResult struct {
	ID            string        `json:"id"`
	CustomerName  string        `json:"customerName"`
	Email         string        `json:"email,omitempty"`
	Phone         string        `json:"phone,omitempty"`
	EventDate     string        `json:"eventDate,omitempty"`
	EventLocation string        `json:"eventLocation,omitempty"`
	Total         int64         `json:"total"`
	CreatedAt     string        `json:"createdAt"`
	Items         []InquiryItem `json:"items"`
	EmailsSent    bool          `json:"emailsSent"`
}

// InquiryDetail is an inquiry with its lines and status history
type InquiryDetail struct {
	Inquiry
	Items   []InquiryItem         `json:"items"`
	History []InquiryStatusChange `json:"history"`
}

// UpdateInquiryStatusRequest represents the request body for a status change
// Example: {"status": "contacted"}
type UpdateInquiryStatusRequest struct {
	Status string `json:"status"`
}

// DashboardStats summarizes inquiries for the admin dashboard
type DashboardStats struct {
	TotalInquiries int64            `json:"totalInquiries"`
	CountByStatus  map[string]int64 `json:"countByStatus"`
	TotalValue     int64            `json:"totalValue"`
	PendingValue   int64            `json:"pendingValue"`
}
