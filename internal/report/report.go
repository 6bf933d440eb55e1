// Package report provides PDF generation for vehicle service and repair
// reports.
//
// This package defines a Generator interface implemented by PDFGenerator,
// along with common helpers for formatting dates, currency amounts, and
// styling reports in the MyCAD brand style. All report copy is Spanish.
package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mycad/backoffice/internal/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// =============================================================================
// Generator Interface
// =============================================================================

// Generator defines the interface for report generators.
type Generator interface {
	// Generate creates a report and writes it to the provided writer.
	// Returns the number of bytes written and any error.
	Generate(ctx context.Context, vm *domain.ReportViewModel, w io.Writer) (int64, error)
}

// =============================================================================
// Brand Colors
// =============================================================================

// BrandColors defines the color palette for reports.
// These match the MyCAD web client's Tailwind theme.
var BrandColors = struct {
	Blue       string // Primary brand color
	Accent     string // Accent for highlights and totals
	TextDark   string // Primary text
	TextMuted  string // Secondary text
	Border     string // Borders and dividers
	Background string // Light background for table stripes
	White      string // White
}{
	Blue:       "#1D4ED8",
	Accent:     "#16A34A",
	TextDark:   "#1F2937",
	TextMuted:  "#6B7280",
	Border:     "#E5E7EB",
	Background: "#F9FAFB",
	White:      "#FFFFFF",
}

// =============================================================================
// Status Badge
// =============================================================================

// StatusLabel returns the display label for a report's lifecycle state.
func StatusLabel(finalized bool) string {
	if finalized {
		return "FINALIZADO"
	}
	return "BORRADOR"
}

// StatusColor returns the badge color for a report's lifecycle state.
func StatusColor(finalized bool) string {
	if finalized {
		return BrandColors.Accent
	}
	return BrandColors.TextMuted
}

// =============================================================================
// Color Conversion Helpers
// =============================================================================

// HexToRGB converts a hex color string to RGB values.
// Input format: "#RRGGBB" or "RRGGBB"
func HexToRGB(hex string) (r, g, b int) {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 {
		return 0, 0, 0
	}

	r = hexToDec(hex[0:2])
	g = hexToDec(hex[2:4])
	b = hexToDec(hex[4:6])
	return
}

// hexToDec converts a 2-character hex string to decimal.
func hexToDec(hex string) int {
	val := 0
	for _, c := range hex {
		val *= 16
		switch {
		case c >= '0' && c <= '9':
			val += int(c - '0')
		case c >= 'a' && c <= 'f':
			val += int(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			val += int(c - 'A' + 10)
		}
	}
	return val
}

// =============================================================================
// Date Formatting
// =============================================================================

// spanishMonths maps time.Month to its Spanish name for long-form dates.
var spanishMonths = [...]string{
	time.January:   "enero",
	time.February:  "febrero",
	time.March:     "marzo",
	time.April:     "abril",
	time.May:       "mayo",
	time.June:      "junio",
	time.July:      "julio",
	time.August:    "agosto",
	time.September: "septiembre",
	time.October:   "octubre",
	time.November:  "noviembre",
	time.December:  "diciembre",
}

// dateLayouts lists the formats accepted for stored date strings, in the
// order they are tried.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
}

// FormatLongDate renders a stored date string as a Spanish long date,
// e.g. "24 de marzo de 2025". Empty input renders as the missing-value
// placeholder. Strings that don't parse as a date are returned verbatim
// so that free-form entries survive rendering.
func FormatLongDate(raw string) string {
	if raw == "" {
		return Placeholder
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return FormatLongDateTime(t)
		}
	}
	return raw
}

// FormatLongDateTime renders a time.Time as a Spanish long date.
func FormatLongDateTime(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()], t.Year())
}

// FormatTimestamp renders a time.Time as a Spanish long date with time,
// used for the generation stamp.
func FormatTimestamp(t time.Time) string {
	return fmt.Sprintf("%s, %02d:%02d", FormatLongDateTime(t), t.Hour(), t.Minute())
}

// =============================================================================
// Number Formatting
// =============================================================================

// printer formats numbers with es-MX digit grouping.
var printer = message.NewPrinter(language.MustParse("es-MX"))

// FormatCurrency renders a monetary amount, e.g. "$12,345.50".
func FormatCurrency(amount float64) string {
	return printer.Sprintf("$%v", number.Decimal(amount, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// FormatOdometer renders a kilometer reading, e.g. "12,345 km".
func FormatOdometer(km int64) string {
	return printer.Sprintf("%v km", number.Decimal(km))
}

// =============================================================================
// Text Helpers
// =============================================================================

// Placeholder is rendered where an optional field has no value.
const Placeholder = "-"

// valueOr returns the value, or the placeholder when the value is empty.
func valueOr(value string) string {
	if value == "" {
		return Placeholder
	}
	return value
}

// TruncateText truncates text to a maximum length, adding ellipsis if needed.
func TruncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return text[:maxLen]
	}
	return text[:maxLen-3] + "..."
}
