package repository

import (
	"context"

	"modiv-eventcraft/models"
)

// CategoryRepositoryInterface defines the contract for category operations
type CategoryRepositoryInterface interface {
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error)
	Update(ctx context.Context, id string, req *models.CreateCategoryRequest) (*models.Category, error)
	Delete(ctx context.Context, id string) error
}

// ItemRepositoryInterface defines the contract for catalog item operations
type ItemRepositoryInterface interface {
	ListActive(ctx context.Context) ([]models.CatalogItem, error)
	ListAll(ctx context.Context) ([]models.CatalogItem, error)
	GetByID(ctx context.Context, id string) (*models.CatalogItem, error)
	Create(ctx context.Context, req *models.CreateItemRequest) (*models.CatalogItem, error)
	Update(ctx context.Context, id string, req *models.UpdateItemRequest, changedBy string) (*models.CatalogItem, error)
	Deactivate(ctx context.Context, id string) error
	UpdateImageURL(ctx context.Context, id string, imageURL string) error
	FindBySlug(ctx context.Context, slug string) (*models.CatalogItem, error)
	PriceHistory(ctx context.Context, itemID string) ([]models.PriceHistoryEntry, error)
}

// TemplateRepositoryInterface defines the contract for event template operations
type TemplateRepositoryInterface interface {
	List(ctx context.Context) ([]models.EventTemplate, error)
	GetByID(ctx context.Context, id string) (*models.EventTemplate, error)
	Create(ctx context.Context, req *models.CreateTemplateRequest) (*models.EventTemplate, error)
	Update(ctx context.Context, id string, req *models.CreateTemplateRequest) (*models.EventTemplate, error)
	Delete(ctx context.Context, id string) error
	ListItems(ctx context.Context, templateID string) ([]models.TemplateItem, error)
	ReplaceItems(ctx context.Context, templateID string, items []models.TemplateItemInput) ([]models.TemplateItem, error)
	AddItem(ctx context.Context, templateID string, item models.TemplateItemInput) (*models.TemplateItem, error)
	RemoveItem(ctx context.Context, templateID string, itemID string) error
}

// InquiryRepositoryInterface defines the contract for inquiry operations
type InquiryRepositoryInterface interface {
	Insert(ctx context.Context, inquiry *models.Inquiry, items []models.InquiryItem) (*models.Inquiry, []models.InquiryItem, error)
	List(ctx context.Context, status string) ([]models.Inquiry, error)
	GetDetail(ctx context.Context, id string) (*models.InquiryDetail, error)
	UpdateStatus(ctx context.Context, id string, newStatus string, changedBy string) (*models.Inquiry, error)
	Stats(ctx context.Context) (*models.DashboardStats, error)
}
