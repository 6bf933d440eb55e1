package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatLongDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "iso date",
			input:    "2025-03-24",
			expected: "24 de marzo de 2025",
		},
		{
			name:     "rfc3339 timestamp",
			input:    "2025-12-01T10:30:00Z",
			expected: "1 de diciembre de 2025",
		},
		{
			name:     "slash date",
			input:    "05/02/2024",
			expected: "5 de febrero de 2024",
		},
		{
			name:     "free-form text passes through verbatim",
			input:    "principios de marzo",
			expected: "principios de marzo",
		},
		{
			name:     "garbage passes through verbatim",
			input:    "2025-13-45",
			expected: "2025-13-45",
		},
		{
			name:     "empty renders placeholder",
			input:    "",
			expected: "-",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatLongDate(tt.input))
		})
	}
}

func TestFormatLongDateTime(t *testing.T) {
	d := time.Date(2025, time.March, 24, 14, 5, 0, 0, time.UTC)
	assert.Equal(t, "24 de marzo de 2025", FormatLongDateTime(d))
	assert.Equal(t, "24 de marzo de 2025, 14:05", FormatTimestamp(d))
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected string
	}{
		{name: "zero", amount: 0, expected: "$0.00"},
		{name: "whole amount", amount: 150, expected: "$150.00"},
		{name: "thousands grouping", amount: 12345.5, expected: "$12,345.50"},
		{name: "cents preserved", amount: 99.99, expected: "$99.99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCurrency(tt.amount))
		})
	}
}

func TestFormatOdometer(t *testing.T) {
	assert.Equal(t, "500 km", FormatOdometer(500))
	assert.Equal(t, "12,345 km", FormatOdometer(12345))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "FINALIZADO", StatusLabel(true))
	assert.Equal(t, "BORRADOR", StatusLabel(false))
	assert.Equal(t, BrandColors.Accent, StatusColor(true))
	assert.Equal(t, BrandColors.TextMuted, StatusColor(false))
}

func TestHexToRGB(t *testing.T) {
	tests := []struct {
		name    string
		hex     string
		r, g, b int
	}{
		{name: "with hash", hex: "#1D4ED8", r: 29, g: 78, b: 216},
		{name: "without hash", hex: "FF6B35", r: 255, g: 107, b: 53},
		{name: "white", hex: "#FFFFFF", r: 255, g: 255, b: 255},
		{name: "black", hex: "#000000", r: 0, g: 0, b: 0},
		{name: "invalid length", hex: "#FFF", r: 0, g: 0, b: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := HexToRGB(tt.hex)
			assert.Equal(t, tt.r, r)
			assert.Equal(t, tt.g, g)
			assert.Equal(t, tt.b, b)
		})
	}
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 10))
	assert.Equal(t, "long te...", TruncateText("long text that exceeds", 10))
	assert.Equal(t, "ab", TruncateText("abcdef", 2))
}

func TestValueOr(t *testing.T) {
	assert.Equal(t, "-", valueOr(""))
	assert.Equal(t, "value", valueOr("value"))
}
