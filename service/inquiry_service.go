package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"modiv-eventcraft/calculator"
	"modiv-eventcraft/models"
	"modiv-eventcraft/ratelimit"
	"modiv-eventcraft/repository"
)

// totalTolerance is the allowed drift between the client-computed total and
// the server recompute before a mismatch is logged
const totalTolerance = 1

// RateLimitDenial carries the "try again in N seconds" signal when a
// submission is throttled
type RateLimitDenial struct {
	RetryAfter time.Duration
	Remaining  int
}

// InquiryService owns the submission flow: rate-limit gate, authoritative
// total recompute, persistence, and the async email side effects
type InquiryService struct {
	repository repository.InquiryRepositoryInterface
	limiter    *ratelimit.Limiter
	email      *EmailService
}

// NewInquiryService creates a new InquiryService
func NewInquiryService(repo repository.InquiryRepositoryInterface, limiter *ratelimit.Limiter, email *EmailService) *InquiryService {
	return &InquiryService{
		repository: repo,
		limiter:    limiter,
		email:      email,
	}
}

// AuthoritativeTotal recomputes the inquiry total from the submitted lines.
// This is the server-side figure that gets persisted; the client total is
// advisory and only cross-checked against it.
func AuthoritativeTotal(items []models.InquiryItem) int64 {
	var total int64
	for _, item := range items {
		total += item.PriceAtTime * int64(item.Quantity)
	}
	return total
}

// Submit runs one quote-request submission for a calculator session.
//
// The rate limiter gates attempts, not successes: the timestamp is recorded
// before the insert, so a submission that later fails has still consumed
// quota. A denial returns a RateLimitDenial and no error.
func (s *InquiryService) Submit(ctx context.Context, rateLimitKey string, selected []calculator.SelectionRecord, req *models.SubmitInquiryRequest) (*models.InquiryResult, *RateLimitDenial, error) {
	if len(selected) == 0 {
		return nil, nil, fmt.Errorf("no items selected")
	}

	allowed, retryAfter := s.limiter.CheckAndRecord(rateLimitKey)
	if !allowed {
		log.Printf("🚦 Submission throttled for key %s, retry in %s", rateLimitKey, retryAfter.Round(time.Second))
		return nil, &RateLimitDenial{
			RetryAfter: retryAfter,
			Remaining:  s.limiter.RemainingQuota(rateLimitKey),
		}, nil
	}

	items := make([]models.InquiryItem, 0, len(selected))
	for _, rec := range selected {
		items = append(items, models.InquiryItem{
			ItemID:      rec.Item.ID,
			ItemName:    rec.Item.Name,
			Quantity:    rec.Quantity,
			PriceAtTime: rec.Item.Price,
		})
	}

	serverTotal := AuthoritativeTotal(items)
	diff := serverTotal - req.Total
	if diff < 0 {
		diff = -diff
	}
	if diff > totalTolerance {
		// The server figure wins; the mismatch is logged and the
		// submission proceeds
		log.Printf("⚠️  Client total differs from server recompute: client=%d, server=%d", req.Total, serverTotal)
	}

	inquiry := &models.Inquiry{
		CustomerName:  req.CustomerName,
		Email:         req.Email,
		Phone:         req.Phone,
		EventDate:     req.EventDate,
		EventLocation: req.EventLocation,
		Notes:         req.Notes,
		Total:         serverTotal,
	}

	saved, savedItems, err := s.repository.Insert(ctx, inquiry, items)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to persist inquiry: %w", err)
	}

	result := &models.InquiryResult{
		ID:            saved.ID,
		CustomerName:  saved.CustomerName,
		Email:         saved.Email,
		Phone:         saved.Phone,
		EventDate:     saved.EventDate,
		EventLocation: saved.EventLocation,
		Total:         saved.Total,
		CreatedAt:     saved.CreatedAt,
		Items:         savedItems,
	}

	// Emails are fire-and-forget; the visitor never waits on SMTP
	if s.email != nil {
		go func(r models.InquiryResult) {
			if s.email.SendInquiryEmails(&r) {
				log.Printf("✓ Inquiry %s notification emails sent", r.ID)
			}
		}(*result)
		result.EmailsSent = s.email.config.MockMode || s.email.config.Configured()
	}

	return result, nil, nil
}

// RemainingQuota reports how many submissions a key has left in the window
func (s *InquiryService) RemainingQuota(rateLimitKey string) int {
	return s.limiter.RemainingQuota(rateLimitKey)
}
