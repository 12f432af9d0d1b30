package controller

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"modiv-eventcraft/models"
	"modiv-eventcraft/repository"
	"modiv-eventcraft/service"
)

// ItemController handles admin catalog item management plus the public
// optimized image endpoint
type ItemController struct {
	itemRepo    repository.ItemRepositoryInterface
	syncService *service.SyncService
}

// NewItemController creates a new ItemController
func NewItemController(itemRepo repository.ItemRepositoryInterface, syncService *service.SyncService) *ItemController {
	return &ItemController{itemRepo: itemRepo, syncService: syncService}
}

// ListItems handles GET /admin/items
// Returns every item including deactivated ones
func (c *ItemController) ListItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	items, err := c.itemRepo.ListAll(r.Context())
	if err != nil {
		log.Printf("❌ ListItems: %v", err)
		http.Error(w, "Failed to list items", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// CreateItem handles POST /admin/items
func (c *ItemController) CreateItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" || req.CategoryID == "" {
		http.Error(w, "name and categoryId are required", http.StatusBadRequest)
		return
	}
	if req.Price < 0 {
		http.Error(w, "price cannot be negative", http.StatusBadRequest)
		return
	}

	item, err := c.itemRepo.Create(r.Context(), &req)
	if err != nil {
		log.Printf("❌ CreateItem: %v", err)
		http.Error(w, "Failed to create item", http.StatusInternalServerError)
		return
	}

	log.Printf("✓ Item created: %s (%s)", item.Name, item.ID)
	writeJSON(w, http.StatusCreated, item)
}

// GetItem handles GET /admin/items/{id}
func (c *ItemController) GetItem(w http.ResponseWriter, r *http.Request, id string) {
	item, err := c.itemRepo.GetByID(r.Context(), id)
	if err != nil {
		log.Printf("❌ GetItem %s: %v", id, err)
		http.Error(w, "Item not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// UpdateItem handles PUT /admin/items/{id}
// A price change also writes a price history row attributed to the caller
func (c *ItemController) UpdateItem(w http.ResponseWriter, r *http.Request, id string, changedBy string) {
	var req models.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Price < 0 {
		http.Error(w, "price cannot be negative", http.StatusBadRequest)
		return
	}

	item, err := c.itemRepo.Update(r.Context(), id, &req, changedBy)
	if err != nil {
		log.Printf("❌ UpdateItem %s: %v", id, err)
		http.Error(w, "Failed to update item", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// DeactivateItem handles DELETE /admin/items/{id}
// Items are soft deleted so past inquiries keep resolving their lines
func (c *ItemController) DeactivateItem(w http.ResponseWriter, r *http.Request, id string) {
	if err := c.itemRepo.Deactivate(r.Context(), id); err != nil {
		log.Printf("❌ DeactivateItem %s: %v", id, err)
		http.Error(w, "Failed to deactivate item", http.StatusInternalServerError)
		return
	}
	log.Printf("✓ Item deactivated: %s", id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Item deactivated"})
}

// GetPriceHistory handles GET /admin/items/{id}/price-history
func (c *ItemController) GetPriceHistory(w http.ResponseWriter, r *http.Request, id string) {
	history, err := c.itemRepo.PriceHistory(r.Context(), id)
	if err != nil {
		log.Printf("❌ GetPriceHistory %s: %v", id, err)
		http.Error(w, "Failed to load price history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"history": history})
}

// SyncPhotos handles POST /admin/items/sync?folderId=...
// Links Google Drive photos to items by filename slug
func (c *ItemController) SyncPhotos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if c.syncService == nil {
		http.Error(w, "Photo sync is not configured", http.StatusServiceUnavailable)
		return
	}

	folderID := r.URL.Query().Get("folderId")
	if folderID == "" {
		http.Error(w, "folderId query parameter is required", http.StatusBadRequest)
		return
	}

	linked, skipped, total, errs, err := c.syncService.SyncItemPhotos(r.Context(), folderID)
	if err != nil {
		log.Printf("❌ SyncPhotos: %v", err)
		http.Error(w, "Photo sync failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"linked":  linked,
		"skipped": skipped,
		"total":   total,
		"errors":  errs,
	})
}

// GetItemImage handles GET /items/{id}/image?size=thumb|medium
// Serves the optimized JPEG from the disk cache, falling back to Drive
func (c *ItemController) GetItemImage(w http.ResponseWriter, r *http.Request, id string) {
	if c.syncService == nil {
		http.Error(w, "Images are not configured", http.StatusServiceUnavailable)
		return
	}

	size := r.URL.Query().Get("size")
	if size == "" {
		size = "medium"
	}
	if size != "thumb" && size != "medium" {
		http.Error(w, "size must be thumb or medium", http.StatusBadRequest)
		return
	}

	data, err := c.syncService.ItemImage(r.Context(), id, size)
	if err != nil {
		log.Printf("⚠️ GetItemImage %s (%s): %v", id, size, err)
		http.Error(w, "Image not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := w.Write(data); err != nil {
		log.Printf("❌ Error writing image response: %v", err)
	}
}
