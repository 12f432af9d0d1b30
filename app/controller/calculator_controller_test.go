package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modiv-eventcraft/calculator"
	"modiv-eventcraft/models"
	"modiv-eventcraft/ratelimit"
	"modiv-eventcraft/service"
)

type stubItemRepo struct {
	items []models.CatalogItem
}

func (s *stubItemRepo) ListActive(ctx context.Context) ([]models.CatalogItem, error) {
	return s.items, nil
}
func (s *stubItemRepo) ListAll(ctx context.Context) ([]models.CatalogItem, error) {
	return s.items, nil
}
func (s *stubItemRepo) GetByID(ctx context.Context, id string) (*models.CatalogItem, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i], nil
		}
	}
	return nil, fmt.Errorf("item not found")
}
func (s *stubItemRepo) Create(ctx context.Context, req *models.CreateItemRequest) (*models.CatalogItem, error) {
	return nil, nil
}
func (s *stubItemRepo) Update(ctx context.Context, id string, req *models.UpdateItemRequest, changedBy string) (*models.CatalogItem, error) {
	return nil, nil
}
func (s *stubItemRepo) Deactivate(ctx context.Context, id string) error              { return nil }
func (s *stubItemRepo) UpdateImageURL(ctx context.Context, id, imageURL string) error { return nil }
func (s *stubItemRepo) FindBySlug(ctx context.Context, slug string) (*models.CatalogItem, error) {
	return nil, nil
}
func (s *stubItemRepo) PriceHistory(ctx context.Context, itemID string) ([]models.PriceHistoryEntry, error) {
	return nil, nil
}

type stubCategoryRepo struct{}

func (s *stubCategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	return []models.Category{{ID: "sound", Name: "Sound System", SortOrder: 1}}, nil
}
func (s *stubCategoryRepo) Create(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	return nil, nil
}
func (s *stubCategoryRepo) Update(ctx context.Context, id string, req *models.CreateCategoryRequest) (*models.Category, error) {
	return nil, nil
}
func (s *stubCategoryRepo) Delete(ctx context.Context, id string) error { return nil }

type stubTemplateRepo struct {
	template models.EventTemplate
	presets  []models.TemplateItem
}

func (s *stubTemplateRepo) List(ctx context.Context) ([]models.EventTemplate, error) {
	return []models.EventTemplate{s.template}, nil
}
func (s *stubTemplateRepo) GetByID(ctx context.Context, id string) (*models.EventTemplate, error) {
	if id != s.template.ID {
		return nil, fmt.Errorf("template not found")
	}
	return &s.template, nil
}
func (s *stubTemplateRepo) Create(ctx context.Context, req *models.CreateTemplateRequest) (*models.EventTemplate, error) {
	return nil, nil
}
func (s *stubTemplateRepo) Update(ctx context.Context, id string, req *models.CreateTemplateRequest) (*models.EventTemplate, error) {
	return nil, nil
}
func (s *stubTemplateRepo) Delete(ctx context.Context, id string) error { return nil }
func (s *stubTemplateRepo) ListItems(ctx context.Context, templateID string) ([]models.TemplateItem, error) {
	return s.presets, nil
}
func (s *stubTemplateRepo) ReplaceItems(ctx context.Context, templateID string, items []models.TemplateItemInput) ([]models.TemplateItem, error) {
	return nil, nil
}
func (s *stubTemplateRepo) AddItem(ctx context.Context, templateID string, item models.TemplateItemInput) (*models.TemplateItem, error) {
	return nil, nil
}
func (s *stubTemplateRepo) RemoveItem(ctx context.Context, templateID string, itemID string) error {
	return nil
}

type stubInquiryRepo struct {
	inserted int
}

func (s *stubInquiryRepo) Insert(ctx context.Context, inquiry *models.Inquiry, items []models.InquiryItem) (*models.Inquiry, []models.InquiryItem, error) {
	s.inserted++
	saved := *inquiry
	saved.ID = fmt.Sprintf("inq-%d", s.inserted)
	saved.Status = models.InquiryStatusPending
	return &saved, items, nil
}
func (s *stubInquiryRepo) List(ctx context.Context, status string) ([]models.Inquiry, error) {
	return nil, nil
}
func (s *stubInquiryRepo) GetDetail(ctx context.Context, id string) (*models.InquiryDetail, error) {
	return nil, fmt.Errorf("not found")
}
func (s *stubInquiryRepo) UpdateStatus(ctx context.Context, id, newStatus, changedBy string) (*models.Inquiry, error) {
	return nil, nil
}
func (s *stubInquiryRepo) Stats(ctx context.Context) (*models.DashboardStats, error) {
	return nil, nil
}

func newTestController(t *testing.T) (*CalculatorController, *stubInquiryRepo) {
	t.Helper()

	items := []models.CatalogItem{
		{ID: "sound-5000", CategoryID: "sound", Name: "Sound System 5000 Watt", Price: 1500000, Unit: "per day", IsActive: true},
		{ID: "led-screen", CategoryID: "visual", Name: "LED Screen 4x3m", Price: 8000000, Unit: "per day", IsActive: true},
	}
	templateRepo := &stubTemplateRepo{
		template: models.EventTemplate{ID: "tpl-wedding", Name: "Wedding Package"},
		presets: []models.TemplateItem{
			{TemplateID: "tpl-wedding", ItemID: "sound-5000", DefaultQuantity: 2},
		},
	}
	inquiryRepo := &stubInquiryRepo{}
	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore(), 3, 60*time.Second)
	inquiryService := service.NewInquiryService(inquiryRepo, limiter, nil)

	registry := calculator.NewRegistry(time.Hour)
	return NewCalculatorController(registry, &stubItemRepo{items: items}, &stubCategoryRepo{}, templateRepo, inquiryService), inquiryRepo
}

func createSession(t *testing.T, controller *CalculatorController) string {
	t.Helper()
	rec := httptest.NewRecorder()
	controller.CreateSession(rec, httptest.NewRequest(http.MethodPost, "/calculator/sessions", nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.CreateSessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.SessionID)
	return resp.SessionID
}

func postJSON(t *testing.T, controller *CalculatorController, handler func(http.ResponseWriter, *http.Request), path string, body interface{}) (*httptest.ResponseRecorder, models.SessionSummary) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload)))

	var summary models.SessionSummary
	if rec.Code == http.StatusOK {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&summary))
	}
	return rec, summary
}

func TestSessionFlowToggleQuantityTotal(t *testing.T) {
	controller, _ := newTestController(t)
	sessionID := createSession(t, controller)
	base := "/calculator/sessions/" + sessionID

	rec, summary := postJSON(t, controller, controller.ToggleItem, base+"/toggle", models.ToggleItemRequest{ItemID: "sound-5000"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1500000), summary.Total)
	assert.Equal(t, "Rp 1.500.000", summary.TotalFormatted)

	rec, summary = postJSON(t, controller, controller.SetQuantity, base+"/quantity", models.SetQuantityRequest{ItemID: "sound-5000", Quantity: 3})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(4500000), summary.Total)
	require.Len(t, summary.Selected, 1)
	assert.Equal(t, int64(4500000), summary.Selected[0].LineTotal)
}

func TestSessionUnknownItemToggleAnswersUnchangedSummary(t *testing.T) {
	controller, _ := newTestController(t)
	sessionID := createSession(t, controller)

	rec, summary := postJSON(t, controller, controller.ToggleItem, "/calculator/sessions/"+sessionID+"/toggle", models.ToggleItemRequest{ItemID: "ghost"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(0), summary.Total)
	assert.Empty(t, summary.Selected)
}

func TestSessionTemplateLoadAndReset(t *testing.T) {
	controller, _ := newTestController(t)
	sessionID := createSession(t, controller)
	base := "/calculator/sessions/" + sessionID

	rec, summary := postJSON(t, controller, controller.LoadTemplate, base+"/template", models.LoadTemplateRequest{TemplateID: "tpl-wedding"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tpl-wedding", summary.SelectedTemplateID)
	assert.Equal(t, int64(3000000), summary.Total)
	// Every catalog item has a record after a template load
	assert.Len(t, summary.Records, 2)

	rec, summary = postJSON(t, controller, controller.ResetSession, base+"/reset", struct{}{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", summary.SelectedTemplateID)
	assert.Equal(t, int64(0), summary.Total)
}

func TestSessionLoadUnknownTemplate(t *testing.T) {
	controller, _ := newTestController(t)
	sessionID := createSession(t, controller)

	rec, _ := postJSON(t, controller, controller.LoadTemplate, "/calculator/sessions/"+sessionID+"/template", models.LoadTemplateRequest{TemplateID: "tpl-ghost"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionNotFound(t *testing.T) {
	controller, _ := newTestController(t)

	rec := httptest.NewRecorder()
	controller.GetSummary(rec, httptest.NewRequest(http.MethodGet, "/calculator/sessions/no-such-session", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitFlowAndRateLimit(t *testing.T) {
	controller, inquiryRepo := newTestController(t)
	sessionID := createSession(t, controller)
	base := "/calculator/sessions/" + sessionID

	rec, _ := postJSON(t, controller, controller.ToggleItem, base+"/toggle", models.ToggleItemRequest{ItemID: "led-screen"})
	require.Equal(t, http.StatusOK, rec.Code)

	submit := func() *httptest.ResponseRecorder {
		payload, err := json.Marshal(models.SubmitInquiryRequest{CustomerName: "Budi Santoso", Total: 8000000})
		require.NoError(t, err)
		rec := httptest.NewRecorder()
		controller.SubmitInquiry(rec, httptest.NewRequest(http.MethodPost, base+"/submit", bytes.NewReader(payload)))
		return rec
	}

	for i := 0; i < 3; i++ {
		rec := submit()
		require.Equal(t, http.StatusCreated, rec.Code, "submission %d should pass", i+1)

		var result models.InquiryResult
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
		assert.Equal(t, int64(8000000), result.Total)
	}
	assert.Equal(t, 3, inquiryRepo.inserted)

	// Fourth submission inside the window is throttled
	rec = submit()
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	var denied models.RateLimitedResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&denied))
	assert.Equal(t, 0, denied.RemainingQuota)
	assert.Greater(t, denied.RetryAfterSeconds, 0)
	assert.Equal(t, 3, inquiryRepo.inserted, "a throttled submission never reaches the repository")
}

func TestSubmitWithEmptySelection(t *testing.T) {
	controller, _ := newTestController(t)
	sessionID := createSession(t, controller)

	payload, err := json.Marshal(models.SubmitInquiryRequest{CustomerName: "Budi"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	controller.SubmitInquiry(rec, httptest.NewRequest(http.MethodPost, "/calculator/sessions/"+sessionID+"/submit", bytes.NewReader(payload)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCatalog(t *testing.T) {
	controller, _ := newTestController(t)

	rec := httptest.NewRecorder()
	controller.GetCatalog(rec, httptest.NewRequest(http.MethodGet, "/catalog", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.CatalogResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Categories, 1)
	assert.Len(t, resp.Items, 2)
}
