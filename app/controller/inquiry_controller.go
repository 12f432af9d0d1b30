package controller

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"modiv-eventcraft/auth"
	"modiv-eventcraft/models"
	"modiv-eventcraft/repository"
	"modiv-eventcraft/service"
)

// InquiryController handles the admin inquiry back office: listing, status
// changes, CSV export and the printable quotation
type InquiryController struct {
	inquiryRepo      repository.InquiryRepositoryInterface
	quotationService *service.QuotationService
}

// NewInquiryController creates a new InquiryController
func NewInquiryController(inquiryRepo repository.InquiryRepositoryInterface, quotationService *service.QuotationService) *InquiryController {
	return &InquiryController{inquiryRepo: inquiryRepo, quotationService: quotationService}
}

// ListInquiries handles GET /admin/inquiries?status=...
func (c *InquiryController) ListInquiries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := r.URL.Query().Get("status")
	if status != "" && !models.ValidInquiryStatus(status) {
		http.Error(w, fmt.Sprintf("Invalid status: %s", status), http.StatusBadRequest)
		return
	}

	inquiries, err := c.inquiryRepo.List(r.Context(), status)
	if err != nil {
		log.Printf("❌ ListInquiries: %v", err)
		http.Error(w, "Failed to list inquiries", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"inquiries": inquiries})
}

// GetInquiry handles GET /admin/inquiries/{id}
func (c *InquiryController) GetInquiry(w http.ResponseWriter, r *http.Request, id string) {
	detail, err := c.inquiryRepo.GetDetail(r.Context(), id)
	if err != nil {
		log.Printf("❌ GetInquiry %s: %v", id, err)
		http.Error(w, "Inquiry not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// UpdateStatus handles PUT /admin/inquiries/{id}/status
// The change is attributed to the authenticated admin and recorded in the
// inquiry's status history.
func (c *InquiryController) UpdateStatus(w http.ResponseWriter, r *http.Request, id string) {
	var req models.UpdateInquiryStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if !models.ValidInquiryStatus(req.Status) {
		http.Error(w, fmt.Sprintf("Invalid status: %s", req.Status), http.StatusBadRequest)
		return
	}

	changedBy := "admin"
	if user, ok := auth.UserFrom(r.Context()); ok && user.Email != "" {
		changedBy = user.Email
	}

	inquiry, err := c.inquiryRepo.UpdateStatus(r.Context(), id, req.Status, changedBy)
	if err != nil {
		log.Printf("❌ UpdateStatus %s: %v", id, err)
		http.Error(w, "Failed to update status", http.StatusInternalServerError)
		return
	}

	log.Printf("✓ Inquiry %s status -> %s (by %s)", id, req.Status, changedBy)
	writeJSON(w, http.StatusOK, inquiry)
}

// GetStats handles GET /admin/dashboard
func (c *InquiryController) GetStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats, err := c.inquiryRepo.Stats(r.Context())
	if err != nil {
		log.Printf("❌ GetStats: %v", err)
		http.Error(w, "Failed to load stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ExportCSV handles GET /admin/inquiries/export
// Streams every inquiry as a CSV download named modiv_inquiries_<yyyymmdd>.csv
func (c *InquiryController) ExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	inquiries, err := c.inquiryRepo.List(r.Context(), "")
	if err != nil {
		log.Printf("❌ ExportCSV: %v", err)
		http.Error(w, "Failed to export inquiries", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("modiv_inquiries_%s.csv", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	writer := csv.NewWriter(w)
	header := []string{"ID", "Customer Name", "Email", "Phone", "Event Date", "Event Location", "Total (IDR)", "Status", "Notes", "Created At"}
	if err := writer.Write(header); err != nil {
		log.Printf("❌ ExportCSV header: %v", err)
		return
	}

	for _, inquiry := range inquiries {
		row := []string{
			shortRef(inquiry.ID),
			inquiry.CustomerName,
			inquiry.Email,
			inquiry.Phone,
			inquiry.EventDate,
			inquiry.EventLocation,
			strconv.FormatInt(inquiry.Total, 10),
			inquiry.Status,
			inquiry.Notes,
			inquiry.CreatedAt,
		}
		if err := writer.Write(row); err != nil {
			log.Printf("❌ ExportCSV row %s: %v", inquiry.ID, err)
			return
		}
	}
	writer.Flush()

	log.Printf("✓ Exported %d inquiries to %s", len(inquiries), filename)
}

// RenderQuotation handles GET /admin/inquiries/{id}/render
// Serves the printable HTML page that the PDF renderer screenshots
func (c *InquiryController) RenderQuotation(w http.ResponseWriter, r *http.Request, id string) {
	html, err := c.quotationService.RenderQuotationHTML(r.Context(), id)
	if err != nil {
		log.Printf("❌ RenderQuotation %s: %v", id, err)
		http.Error(w, "Inquiry not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(html)); err != nil {
		log.Printf("❌ Error writing quotation HTML: %v", err)
	}
}

// DownloadQuotationPDF handles GET /admin/inquiries/{id}/quotation.pdf
func (c *InquiryController) DownloadQuotationPDF(w http.ResponseWriter, r *http.Request, id string) {
	detail, err := c.inquiryRepo.GetDetail(r.Context(), id)
	if err != nil {
		log.Printf("❌ DownloadQuotationPDF %s: %v", id, err)
		http.Error(w, "Inquiry not found", http.StatusNotFound)
		return
	}

	pdf, err := c.quotationService.GeneratePDF(r.Context(), id)
	if err != nil {
		log.Printf("❌ DownloadQuotationPDF %s: %v", id, err)
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, service.QuotationFilename(&detail.Inquiry)))
	if _, err := w.Write(pdf); err != nil {
		log.Printf("❌ Error writing PDF response: %v", err)
	}
}

// shortRef is the human-facing reference for an inquiry id, matching the
// one printed on quotations and emails
func shortRef(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}
