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

// CategoryController handles admin category management
type CategoryController struct {
	categoryRepo repository.CategoryRepositoryInterface
}

// NewCategoryController creates a new CategoryController
func NewCategoryController(categoryRepo repository.CategoryRepositoryInterface) *CategoryController {
	return &CategoryController{categoryRepo: categoryRepo}
}

// ListCategories handles GET /admin/categories
func (c *CategoryController) ListCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	categories, err := c.categoryRepo.List(r.Context())
	if err != nil {
		log.Printf("❌ ListCategories: %v", err)
		http.Error(w, "Failed to list categories", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

// CreateCategory handles POST /admin/categories
func (c *CategoryController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	category, err := c.categoryRepo.Create(r.Context(), &req)
	if err != nil {
		log.Printf("❌ CreateCategory: %v", err)
		http.Error(w, "Failed to create category", http.StatusInternalServerError)
		return
	}

	log.Printf("✓ Category created: %s (%s)", category.Name, category.ID)
	writeJSON(w, http.StatusCreated, category)
}

// UpdateCategory handles PUT /admin/categories/{id}
func (c *CategoryController) UpdateCategory(w http.ResponseWriter, r *http.Request, id string) {
	var req models.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	category, err := c.categoryRepo.Update(r.Context(), id, &req)
	if err != nil {
		log.Printf("❌ UpdateCategory %s: %v", id, err)
		http.Error(w, "Failed to update category", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// DeleteCategory handles DELETE /admin/categories/{id}
func (c *CategoryController) DeleteCategory(w http.ResponseWriter, r *http.Request, id string) {
	if err := c.categoryRepo.Delete(r.Context(), id); err != nil {
		log.Printf("❌ DeleteCategory %s: %v", id, err)
		http.Error(w, "Failed to delete category", http.StatusInternalServerError)
		return
	}
	log.Printf("✓ Category deleted: %s", id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}
