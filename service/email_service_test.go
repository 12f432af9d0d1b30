package service

import (
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modiv-eventcraft/models"
)

func inquiryResultFixture() *models.InquiryResult {
	return &models.InquiryResult{
		ID:           "a1b2c3d4-1111-2222-3333-444455556666",
		CustomerName: "Budi Santoso",
		Email:        "budi@example.com",
		EventDate:    "2026-10-01",
		Total:        5500000,
		Items: []models.InquiryItem{
			{ItemName: "Sound System 5000 Watt", Quantity: 2, PriceAtTime: 1500000},
			{ItemName: "Genset 60 KVA", Quantity: 1, PriceAtTime: 2500000},
		},
	}
}

type capturedEmail struct {
	to  []string
	msg string
}

func newCapturingService(config EmailConfig) (*EmailService, *[]capturedEmail) {
	service := NewEmailService(config)
	var sent []capturedEmail
	service.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		sent = append(sent, capturedEmail{to: to, msg: string(msg)})
		return nil
	}
	return service, &sent
}

func TestSendInquiryEmailsBothRecipients(t *testing.T) {
	service, sent := newCapturingService(EmailConfig{
		Host:       "smtp.example.com",
		Port:       "587",
		User:       "noreply@modiv.id",
		Password:   "secret",
		FromName:   "Modiv EventCraft",
		VendorAddr: "sales@modiv.id",
	})

	ok := service.SendInquiryEmails(inquiryResultFixture())
	require.True(t, ok)
	require.Len(t, *sent, 2)

	customer := (*sent)[0]
	assert.Equal(t, []string{"budi@example.com"}, customer.to)
	assert.Contains(t, customer.msg, "Subject: Your quote request #A1B2C3D4")
	assert.Contains(t, customer.msg, "Budi Santoso")
	assert.Contains(t, customer.msg, "Rp 5.500.000")
	assert.Contains(t, customer.msg, "Content-Type: text/html")

	vendor := (*sent)[1]
	assert.Equal(t, []string{"sales@modiv.id"}, vendor.to)
	assert.Contains(t, vendor.msg, "Subject: New inquiry #A1B2C3D4 from Budi Santoso")
	assert.Contains(t, vendor.msg, "Sound System 5000 Watt")
}

func TestSendInquiryEmailsSkipsMissingRecipients(t *testing.T) {
	service, sent := newCapturingService(EmailConfig{
		User:     "noreply@modiv.id",
		Password: "secret",
	})

	result := inquiryResultFixture()
	result.Email = ""

	ok := service.SendInquiryEmails(result)
	assert.False(t, ok, "no customer address and no vendor address means nothing went out")
	assert.Empty(t, *sent)
}

func TestSendInquiryEmailsMockMode(t *testing.T) {
	service, sent := newCapturingService(EmailConfig{
		MockMode:   true,
		VendorAddr: "sales@modiv.id",
	})

	ok := service.SendInquiryEmails(inquiryResultFixture())
	assert.True(t, ok)
	assert.Empty(t, *sent, "mock mode must never hit SMTP")
}

func TestSendInquiryEmailsUnconfiguredCredentials(t *testing.T) {
	service, sent := newCapturingService(EmailConfig{
		VendorAddr: "sales@modiv.id",
	})

	ok := service.SendInquiryEmails(inquiryResultFixture())
	assert.False(t, ok)
	assert.Empty(t, *sent)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "A1B2C3D4", shortID("a1b2c3d4-1111-2222-3333-444455556666"))
	assert.Equal(t, "abc", shortID("abc"))
}

func TestBuildEmailDataFormatsPrices(t *testing.T) {
	data := buildEmailData(inquiryResultFixture())

	assert.Equal(t, "A1B2C3D4", data.ShortID)
	assert.Equal(t, "Rp 5.500.000", data.Total)
	require.Len(t, data.Items, 2)
	assert.Equal(t, "Rp 1.500.000", data.Items[0].Price)
	assert.False(t, strings.Contains(data.Items[0].Price, ","), "IDR uses dots, not commas")
}
