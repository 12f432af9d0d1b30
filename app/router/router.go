package router

import (
	"net/http"
	"strings"

	"modiv-eventcraft/app/controller"
	"modiv-eventcraft/auth"
)

type Controllers struct {
	Calculator *controller.CalculatorController
	Category   *controller.CategoryController
	Item       *controller.ItemController
	Template   *controller.TemplateController
	Inquiry    *controller.InquiryController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// pathID splits "abc123/price-history" into ("abc123", "price-history")
func pathID(path string) (id string, rest string) {
	if idx := strings.IndexByte(path, '/'); idx >= 0 {
		return path[:idx], path[idx+1:]
	}
	return path, ""
}

func SetupRoutes(controllers *Controllers, verifier *auth.Verifier) {
	// Ping endpoint
	http.HandleFunc("/ping", pingHandler)

	// Public catalog and templates
	http.HandleFunc("/catalog", controllers.Calculator.GetCatalog)
	http.HandleFunc("/templates", controllers.Calculator.ListTemplates)

	// Optimized item images (public, the calculator UI loads these)
	http.HandleFunc("/items/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/items/")
		id, rest := pathID(path)
		if rest == "image" && r.Method == http.MethodGet {
			controllers.Item.GetItemImage(w, r, id)
			return
		}
		http.Error(w, "Not found", http.StatusNotFound)
	})

	// Calculator sessions
	http.HandleFunc("/calculator/sessions", controllers.Calculator.CreateSession)
	http.HandleFunc("/calculator/sessions/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/calculator/sessions/")
		_, rest := pathID(path)

		if r.Method == http.MethodGet && rest == "" {
			controllers.Calculator.GetSummary(w, r)
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		switch rest {
		case "toggle":
			controllers.Calculator.ToggleItem(w, r)
		case "quantity":
			controllers.Calculator.SetQuantity(w, r)
		case "template":
			controllers.Calculator.LoadTemplate(w, r)
		case "reset":
			controllers.Calculator.ResetSession(w, r)
		case "submit":
			controllers.Calculator.SubmitInquiry(w, r)
		default:
			http.Error(w, "Not found", http.StatusNotFound)
		}
	})

	// Admin: dashboard
	http.HandleFunc("/admin/dashboard/stats", verifier.RequireAdmin(controllers.Inquiry.GetStats))

	// Admin: categories
	http.HandleFunc("/admin/categories", verifier.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			controllers.Category.ListCategories(w, r)
		} else if r.Method == http.MethodPost {
			controllers.Category.CreateCategory(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	http.HandleFunc("/admin/categories/", verifier.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		id, _ := pathID(strings.TrimPrefix(r.URL.Path, "/admin/categories/"))
		if id == "" {
			http.Error(w, "Category id required", http.StatusBadRequest)
			return
		}
		switch r.Method {
		case http.MethodPut:
			controllers.Category.UpdateCategory(w, r, id)
		case http.MethodDelete:
			controllers.Category.DeleteCategory(w, r, id)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	// Admin: items (sync must be matched before the generic /:id route)
	http.HandleFunc("/admin/items/sync", verifier.RequireAdmin(controllers.Item.SyncPhotos))
	http.HandleFunc("/admin/items", verifier.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			controllers.Item.ListItems(w, r)
		} else if r.Method == http.MethodPost {
			controllers.Item.CreateItem(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	http.HandleFunc("/admin/items/", verifier.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		id, rest := pathID(strings.TrimPrefix(r.URL.Path, "/admin/items/"))
		if id == "" {
			http.Error(w, "Item id required", http.StatusBadRequest)
			return
		}
		if rest == "price-history" && r.Method == http.MethodGet {
			controllers.Item.GetPriceHistory(w, r, id)
			return
		}
		switch r.Method {
		case http.MethodGet:
			controllers.Item.GetItem(w, r, id)
		case http.MethodPut:
			changedBy := "admin"
			if user, ok := auth.UserFrom(r.Context()); ok && user.Email != "" {
				changedBy = user.Email
			}
			controllers.Item.UpdateItem(w, r, id, changedBy)
		case http.MethodDelete:
			controllers.Item.DeactivateItem(w, r, id)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	// Admin: templates
	http.HandleFunc("/admin/templates", verifier.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			controllers.Calculator.ListTemplates(w, r)
		} else if r.Method == http.MethodPost {
			controllers.Template.CreateTemplate(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	http.HandleFunc("/admin/templates/", verifier.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		id, rest := pathID(strings.TrimPrefix(r.URL.Path, "/admin/templates/"))
		if id == "" {
			http.Error(w, "Template id required", http.StatusBadRequest)
			return
		}
		if rest == "items" && r.Method == http.MethodPut {
			controllers.Template.SetTemplateItems(w, r, id)
			return
		}
		if rest == "items" && r.Method == http.MethodPost {
			controllers.Template.AddTemplateItem(w, r, id)
			return
		}
		if strings.HasPrefix(rest, "items/") && r.Method == http.MethodDelete {
			controllers.Template.RemoveTemplateItem(w, r, id, strings.TrimPrefix(rest, "items/"))
			return
		}
		switch r.Method {
		case http.MethodGet:
			controllers.Template.GetTemplate(w, r, id)
		case http.MethodPut:
			controllers.Template.UpdateTemplate(w, r, id)
		case http.MethodDelete:
			controllers.Template.DeleteTemplate(w, r, id)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	// Admin: inquiries
	http.HandleFunc("/admin/inquiries", verifier.RequireAdmin(controllers.Inquiry.ListInquiries))
	http.HandleFunc("/admin/inquiries/export", verifier.RequireAdmin(controllers.Inquiry.ExportCSV))
	http.HandleFunc("/admin/inquiries/", func(w http.ResponseWriter, r *http.Request) {
		id, rest := pathID(strings.TrimPrefix(r.URL.Path, "/admin/inquiries/"))
		if id == "" {
			http.Error(w, "Inquiry id required", http.StatusBadRequest)
			return
		}

		// The render page stays open so the headless browser can fetch it
		if rest == "render" && r.Method == http.MethodGet {
			controllers.Inquiry.RenderQuotation(w, r, id)
			return
		}

		verifier.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
			if rest == "status" && r.Method == http.MethodPut {
				controllers.Inquiry.UpdateStatus(w, r, id)
				return
			}
			if rest == "quotation.pdf" && r.Method == http.MethodGet {
				controllers.Inquiry.DownloadQuotationPDF(w, r, id)
				return
			}
			if rest == "" && r.Method == http.MethodGet {
				controllers.Inquiry.GetInquiry(w, r, id)
				return
			}
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		})(w, r)
	})
}
