package controller

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"modiv-eventcraft/models"
	"modiv-eventcraft/repository"
)

// TemplateController handles admin event template management
type TemplateController struct {
	templateRepo repository.TemplateRepositoryInterface
}

// NewTemplateController creates a new TemplateController
func NewTemplateController(templateRepo repository.TemplateRepositoryInterface) *TemplateController {
	return &TemplateController{templateRepo: templateRepo}
}

// CreateTemplate handles POST /admin/templates
func (c *TemplateController) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	template, err := c.templateRepo.Create(r.Context(), &req)
	if err != nil {
		log.Printf("❌ CreateTemplate: %v", err)
		http.Error(w, "Failed to create template", http.StatusInternalServerError)
		return
	}

	log.Printf("✓ Template created: %s (%s)", template.Name, template.ID)
	writeJSON(w, http.StatusCreated, template)
}

// GetTemplate handles GET /admin/templates/{id}
// Returns the template together with its preset lines
func (c *TemplateController) GetTemplate(w http.ResponseWriter, r *http.Request, id string) {
	template, err := c.templateRepo.GetByID(r.Context(), id)
	if err != nil {
		log.Printf("❌ GetTemplate %s: %v", id, err)
		http.Error(w, "Template not found", http.StatusNotFound)
		return
	}

	items, err := c.templateRepo.ListItems(r.Context(), id)
	if err != nil {
		log.Printf("❌ GetTemplate %s items: %v", id, err)
		http.Error(w, "Failed to load template items", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, models.TemplateResponse{EventTemplate: *template, Items: items})
}

// UpdateTemplate handles PUT /admin/templates/{id}
func (c *TemplateController) UpdateTemplate(w http.ResponseWriter, r *http.Request, id string) {
	var req models.CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	template, err := c.templateRepo.Update(r.Context(), id, &req)
	if err != nil {
		log.Printf("❌ UpdateTemplate %s: %v", id, err)
		http.Error(w, "Failed to update template", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, template)
}

// DeleteTemplate handles DELETE /admin/templates/{id}
func (c *TemplateController) DeleteTemplate(w http.ResponseWriter, r *http.Request, id string) {
	if err := c.templateRepo.Delete(r.Context(), id); err != nil {
		log.Printf("❌ DeleteTemplate %s: %v", id, err)
		http.Error(w, "Failed to delete template", http.StatusInternalServerError)
		return
	}
	log.Printf("✓ Template deleted: %s", id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Template deleted"})
}

// SetTemplateItems handles PUT /admin/templates/{id}/items
// Replaces the template's preset lines wholesale
func (c *TemplateController) SetTemplateItems(w http.ResponseWriter, r *http.Request, id string) {
	var req models.SetTemplateItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	items, err := c.templateRepo.ReplaceItems(r.Context(), id, req.Items)
	if err != nil {
		log.Printf("❌ SetTemplateItems %s: %v", id, err)
		http.Error(w, "Failed to set template items", http.StatusInternalServerError)
		return
	}

	log.Printf("✓ Template %s items replaced (%d lines)", id, len(items))
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// AddTemplateItem handles POST /admin/templates/{id}/items
func (c *TemplateController) AddTemplateItem(w http.ResponseWriter, r *http.Request, id string) {
	var req models.TemplateItemInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.ItemID == "" {
		http.Error(w, "itemId is required", http.StatusBadRequest)
		return
	}

	item, err := c.templateRepo.AddItem(r.Context(), id, req)
	if err != nil {
		log.Printf("❌ AddTemplateItem %s: %v", id, err)
		http.Error(w, "Failed to add template item", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// RemoveTemplateItem handles DELETE /admin/templates/{id}/items/{itemId}
func (c *TemplateController) RemoveTemplateItem(w http.ResponseWriter, r *http.Request, id string, itemID string) {
	if err := c.templateRepo.RemoveItem(r.Context(), id, itemID); err != nil {
		log.Printf("❌ RemoveTemplateItem %s/%s: %v", id, itemID, err)
		http.Error(w, "Failed to remove template item", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Template item removed"})
}
