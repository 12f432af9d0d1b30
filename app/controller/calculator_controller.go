package controller

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"modiv-eventcraft/calculator"
	"modiv-eventcraft/models"
	"modiv-eventcraft/repository"
	"modiv-eventcraft/service"
	"modiv-eventcraft/utils"
)

// CalculatorController handles the customer-facing calculator session API
type CalculatorController struct {
	registry       *calculator.Registry
	itemRepo       repository.ItemRepositoryInterface
	categoryRepo   repository.CategoryRepositoryInterface
	templateRepo   repository.TemplateRepositoryInterface
	inquiryService *service.InquiryService
}

// NewCalculatorController creates a new CalculatorController
func NewCalculatorController(
	registry *calculator.Registry,
	itemRepo repository.ItemRepositoryInterface,
	categoryRepo repository.CategoryRepositoryInterface,
	templateRepo repository.TemplateRepositoryInterface,
	inquiryService *service.InquiryService,
) *CalculatorController {
	return &CalculatorController{
		registry:       registry,
		itemRepo:       itemRepo,
		categoryRepo:   categoryRepo,
		templateRepo:   templateRepo,
		inquiryService: inquiryService,
	}
}

// GetCatalog handles GET /catalog
// Returns categories in display order plus the active items
func (c *CalculatorController) GetCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	categories, err := c.categoryRepo.List(r.Context())
	if err != nil {
		log.Printf("❌ GetCatalog: %v", err)
		http.Error(w, "Failed to load catalog", http.StatusInternalServerError)
		return
	}

	items, err := c.itemRepo.ListActive(r.Context())
	if err != nil {
		log.Printf("❌ GetCatalog: %v", err)
		http.Error(w, "Failed to load catalog", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, models.CatalogResponse{Categories: categories, Items: items})
}

// ListTemplates handles GET /templates
func (c *CalculatorController) ListTemplates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	templates, err := c.templateRepo.List(r.Context())
	if err != nil {
		log.Printf("❌ ListTemplates: %v", err)
		http.Error(w, "Failed to load templates", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"templates": templates})
}

// CreateSession handles POST /calculator/sessions
// Opens a session over a catalog snapshot fetched once, right here; the
// snapshot is never refreshed for the session's lifetime.
func (c *CalculatorController) CreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	items, err := c.itemRepo.ListActive(r.Context())
	if err != nil {
		log.Printf("❌ CreateSession: failed to fetch catalog: %v", err)
		http.Error(w, "Failed to load catalog", http.StatusInternalServerError)
		return
	}

	session := c.registry.Create(calculator.NewSnapshot(items))
	log.Printf("✓ Calculator session created: id=%s, items=%d", session.ID, len(items))

	writeJSON(w, http.StatusCreated, models.CreateSessionResponse{
		SessionID: session.ID,
		ItemCount: len(items),
	})
}

// session resolves the session id segment of the request path, answering
// 404 when the session is unknown or expired
func (c *CalculatorController) session(w http.ResponseWriter, path string) (*calculator.Session, bool) {
	id := strings.TrimPrefix(path, "/calculator/sessions/")
	if idx := strings.IndexByte(id, '/'); idx >= 0 {
		id = id[:idx]
	}
	if id == "" {
		http.Error(w, "Session id required", http.StatusBadRequest)
		return nil, false
	}

	session, ok := c.registry.Get(id)
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return session, true
}

func summarize(sessionID string, store *calculator.Store) models.SessionSummary {
	summary := models.SessionSummary{
		SessionID:          sessionID,
		SelectedTemplateID: store.TemplateID(),
		Total:              store.Total(),
	}
	summary.TotalFormatted = utils.FormatIDR(summary.Total)

	for _, rec := range store.Records() {
		summary.Records = append(summary.Records, toLine(rec))
	}
	for _, rec := range store.SelectedItems() {
		summary.Selected = append(summary.Selected, toLine(rec))
	}
	return summary
}

func toLine(rec calculator.SelectionRecord) models.SelectionLine {
	return models.SelectionLine{
		ItemID:     rec.Item.ID,
		CategoryID: rec.Item.CategoryID,
		Name:       rec.Item.Name,
		Price:      rec.Item.Price,
		Unit:       rec.Item.Unit,
		ImageURL:   rec.Item.ImageURL,
		Quantity:   rec.Quantity,
		IsSelected: rec.IsSelected,
		LineTotal:  rec.Item.Price * int64(rec.Quantity),
	}
}

// GetSummary handles GET /calculator/sessions/{id}
func (c *CalculatorController) GetSummary(w http.ResponseWriter, r *http.Request) {
	session, ok := c.session(w, r.URL.Path)
	if !ok {
		return
	}

	var summary models.SessionSummary
	session.Do(func(store *calculator.Store) {
		summary = summarize(session.ID, store)
	})
	writeJSON(w, http.StatusOK, summary)
}

// ToggleItem handles POST /calculator/sessions/{id}/toggle
// An unknown item id leaves the session untouched and still answers 200
// with the unchanged summary; the calculator never errors on mutations.
func (c *CalculatorController) ToggleItem(w http.ResponseWriter, r *http.Request) {
	session, ok := c.session(w, r.URL.Path)
	if !ok {
		return
	}

	var req models.ToggleItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.ItemID == "" {
		http.Error(w, "itemId is required", http.StatusBadRequest)
		return
	}

	var summary models.SessionSummary
	session.Do(func(store *calculator.Store) {
		store.ToggleItem(req.ItemID)
		summary = summarize(session.ID, store)
	})
	writeJSON(w, http.StatusOK, summary)
}

// SetQuantity handles POST /calculator/sessions/{id}/quantity
// Quantities below 1 are silently ignored, mirroring the disabled decrement
// control in the UI.
func (c *CalculatorController) SetQuantity(w http.ResponseWriter, r *http.Request) {
	session, ok := c.session(w, r.URL.Path)
	if !ok {
		return
	}

	var req models.SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.ItemID == "" {
		http.Error(w, "itemId is required", http.StatusBadRequest)
		return
	}

	var summary models.SessionSummary
	session.Do(func(store *calculator.Store) {
		store.SetQuantity(req.ItemID, req.Quantity)
		summary = summarize(session.ID, store)
	})
	writeJSON(w, http.StatusOK, summary)
}

// LoadTemplate handles POST /calculator/sessions/{id}/template
// Applies a template as a full replace of the current selection
func (c *CalculatorController) LoadTemplate(w http.ResponseWriter, r *http.Request) {
	session, ok := c.session(w, r.URL.Path)
	if !ok {
		return
	}

	var req models.LoadTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.TemplateID == "" {
		http.Error(w, "templateId is required", http.StatusBadRequest)
		return
	}

	if _, err := c.templateRepo.GetByID(r.Context(), req.TemplateID); err != nil {
		http.Error(w, "Template not found", http.StatusNotFound)
		return
	}

	presets, err := c.templateRepo.ListItems(r.Context(), req.TemplateID)
	if err != nil {
		log.Printf("❌ LoadTemplate: %v", err)
		http.Error(w, "Failed to load template", http.StatusInternalServerError)
		return
	}

	var summary models.SessionSummary
	session.Do(func(store *calculator.Store) {
		store.LoadTemplate(req.TemplateID, presets)
		summary = summarize(session.ID, store)
	})

	log.Printf("✓ Session %s loaded template %s (%d presets)", session.ID, req.TemplateID, len(presets))
	writeJSON(w, http.StatusOK, summary)
}

// ResetSession handles POST /calculator/sessions/{id}/reset
func (c *CalculatorController) ResetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := c.session(w, r.URL.Path)
	if !ok {
		return
	}

	var summary models.SessionSummary
	session.Do(func(store *calculator.Store) {
		store.Reset()
		summary = summarize(session.ID, store)
	})
	writeJSON(w, http.StatusOK, summary)
}

// SubmitInquiry handles POST /calculator/sessions/{id}/submit
// The submission is gated by the advisory rate limiter; a denial answers
// 429 with the computed wait. The limiter gates attempts, so quota is spent
// even when the insert afterwards fails.
func (c *CalculatorController) SubmitInquiry(w http.ResponseWriter, r *http.Request) {
	session, ok := c.session(w, r.URL.Path)
	if !ok {
		return
	}

	var req models.SubmitInquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		http.Error(w, "customerName is required", http.StatusBadRequest)
		return
	}

	var selected []calculator.SelectionRecord
	session.Do(func(store *calculator.Store) {
		selected = store.SelectedItems()
	})
	if len(selected) == 0 {
		http.Error(w, "No items selected", http.StatusBadRequest)
		return
	}

	rateLimitKey := fmt.Sprintf("inquiry_%s", session.ID)
	result, denial, err := c.inquiryService.Submit(r.Context(), rateLimitKey, selected, &req)
	if err != nil {
		log.Printf("❌ SubmitInquiry: %v", err)
		http.Error(w, "Failed to submit inquiry", http.StatusInternalServerError)
		return
	}
	if denial != nil {
		retrySeconds := int(denial.RetryAfter.Seconds() + 0.999)
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retrySeconds))
		writeJSON(w, http.StatusTooManyRequests, models.RateLimitedResponse{
			Error:             "Too many submissions, please wait before trying again",
			RetryAfterSeconds: retrySeconds,
			RemainingQuota:    denial.Remaining,
		})
		return
	}

	log.Printf("✅ Inquiry submitted: id=%s, session=%s", result.ID, session.ID)
	writeJSON(w, http.StatusCreated, result)
}

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}
