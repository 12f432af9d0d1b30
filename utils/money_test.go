package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatIDR(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "Rp 0"},
		{500, "Rp 500"},
		{1500, "Rp 1.500"},
		{85000, "Rp 85.000"},
		{1500000, "Rp 1.500.000"},
		{8000000, "Rp 8.000.000"},
		{123456789, "Rp 123.456.789"},
		{1000000000, "Rp 1.000.000.000"},
		{-2500000, "-Rp 2.500.000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatIDR(tt.amount), "amount=%d", tt.amount)
	}
}
