package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"modiv-eventcraft/models"
	"modiv-eventcraft/repository"
	"modiv-eventcraft/utils"
)

// QuotationService renders a persisted inquiry as a printable quotation and
// prints it to PDF with headless Chrome
type QuotationService struct {
	repository repository.InquiryRepositoryInterface
	baseURL    string // Base URL of this server, used for the render round trip
}

// NewQuotationService creates a new QuotationService
func NewQuotationService(repo repository.InquiryRepositoryInterface, baseURL string) *QuotationService {
	return &QuotationService{
		repository: repo,
		baseURL:    baseURL,
	}
}

// detectChromePath detects the path to Chrome/Chromium executable
// Checks CHROME_PATH env var first, then common installation paths
func detectChromePath() string {
	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			return chromePath
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

type quotationLine struct {
	Name      string
	Quantity  int
	UnitPrice string
	LineTotal string
}

type quotationData struct {
	ShortID       string
	GeneratedAt   string
	CustomerName  string
	Email         string
	Phone         string
	EventDate     string
	EventLocation string
	Notes         string
	Lines         []quotationLine
	Total         string
}

// RenderQuotationHTML renders the quotation page for one inquiry
func (s *QuotationService) RenderQuotationHTML(ctx context.Context, inquiryID string) (string, error) {
	detail, err := s.repository.GetDetail(ctx, inquiryID)
	if err != nil {
		return "", err
	}

	data := quotationData{
		ShortID:       shortID(detail.ID),
		GeneratedAt:   time.Now().Format("02 Jan 2006, 15:04"),
		CustomerName:  detail.CustomerName,
		Email:         detail.Email,
		Phone:         detail.Phone,
		EventDate:     detail.EventDate,
		EventLocation: detail.EventLocation,
		Notes:         detail.Notes,
		Total:         utils.FormatIDR(detail.Total),
	}
	for _, item := range detail.Items {
		data.Lines = append(data.Lines, quotationLine{
			Name:      item.ItemName,
			Quantity:  item.Quantity,
			UnitPrice: utils.FormatIDR(item.PriceAtTime),
			LineTotal: utils.FormatIDR(item.PriceAtTime * int64(item.Quantity)),
		})
	}

	templatePath := filepath.Join("templates", "quotation.html")
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// GeneratePDF prints the rendered quotation page to an A4 PDF using chromedp
func (s *QuotationService) GeneratePDF(ctx context.Context, inquiryID string) ([]byte, error) {
	// Make sure the inquiry exists before spinning up a browser
	if _, err := s.repository.GetDetail(ctx, inquiryID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if chromePath := detectChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	renderURL := fmt.Sprintf("%s/admin/inquiries/%s/render", s.baseURL, inquiryID)

	var pdfBuf []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(794, 1123), // A4 at 96 DPI
		chromedp.Navigate(renderURL),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).   // 210mm in inches
				WithPaperHeight(11.69). // 297mm in inches
				WithMarginTop(0.4).
				WithMarginBottom(0.4).
				WithMarginLeft(0.4).
				WithMarginRight(0.4).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdfBuf, nil
}

// QuotationFilename builds the download filename for an inquiry's PDF
func QuotationFilename(inquiry *models.Inquiry) string {
	return fmt.Sprintf("quotation_%s.pdf", shortID(inquiry.ID))
}
