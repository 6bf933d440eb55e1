package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-pdf/fpdf"
	"github.com/mycad/backoffice/internal/domain"
)

// =============================================================================
// PDF Generator
// =============================================================================

// PDFGenerator renders service and repair reports as PDF documents.
type PDFGenerator struct {
	// Page dimensions (A4 in mm)
	pageWidth  float64
	pageHeight float64
	margin     float64

	// Content area
	contentWidth float64

	logger *slog.Logger
}

// NewPDFGenerator creates a new PDF generator with default settings.
func NewPDFGenerator(logger *slog.Logger) *PDFGenerator {
	margin := 15.0
	pageWidth := 210.0 // A4 width in mm
	return &PDFGenerator{
		pageWidth:    pageWidth,
		pageHeight:   297.0, // A4 height in mm
		margin:       margin,
		contentWidth: pageWidth - (2 * margin),
		logger:       logger,
	}
}

// Generate creates a PDF report and writes it to the provided writer.
func (g *PDFGenerator) Generate(ctx context.Context, vm *domain.ReportViewModel, w io.Writer) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Document metadata
	pdf.SetTitle(vm.Type.DocumentTitle()+" - "+vm.Title, true)
	pdf.SetAuthor(vm.GroupName, true)
	pdf.SetCreator("MyCAD", true)

	// Automatic page breaks with footer space
	pdf.SetAutoPageBreak(true, 20)

	pdf.SetFooterFunc(func() {
		g.addFooter(pdf, tr, vm)
	})

	pdf.AddPage()

	g.addHeaderBand(pdf, tr, vm)
	g.addDocumentTitle(pdf, tr, vm)
	g.addVehicleInfo(pdf, tr, vm)
	g.addDetailBlock(pdf, tr, vm)
	g.addPartsTable(pdf, tr, vm)
	g.addCostSummary(pdf, tr, vm)
	g.addAuditTrail(pdf, tr, vm)

	if err := pdf.Error(); err != nil {
		return 0, fmt.Errorf("pdf generation error: %w", err)
	}

	// Write to buffer to count bytes
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return 0, fmt.Errorf("pdf output error: %w", err)
	}

	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// =============================================================================
// Header Band
// =============================================================================

func (g *PDFGenerator) addHeaderBand(pdf *fpdf.Fpdf, tr func(string) string, vm *domain.ReportViewModel) {
	// Blue header bar
	r, gr, b := HexToRGB(BrandColors.Blue)
	pdf.SetFillColor(r, gr, b)
	pdf.Rect(0, 0, g.pageWidth, 34, "F")

	// Group logo, when available and decodable. A bad logo never fails
	// the whole report.
	textX := g.margin
	if vm.HasLogo() {
		if png, err := PrepareLogo(vm.GroupLogo); err == nil {
			opts := fpdf.ImageOptions{ImageType: "PNG"}
			pdf.RegisterImageOptionsReader("group-logo", opts, bytes.NewReader(png))
			pdf.ImageOptions("group-logo", g.margin, 6, 0, 22, false, opts, 0, "")
			textX = g.margin + 30
		} else {
			g.logger.Warn("skipping group logo", "error", err)
		}
	}

	// Group name
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(textX, 10)
	pdf.Cell(0, 8, tr(vm.GroupName))

	// Generation stamp, right aligned
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(g.margin, 20)
	pdf.CellFormat(g.contentWidth, 6, tr("Generado el "+FormatTimestamp(vm.GeneratedAt)), "", 0, "R", false, 0, "")

	pdf.SetY(42)
}

// =============================================================================
// Title and Status Badge
// =============================================================================

func (g *PDFGenerator) addDocumentTitle(pdf *fpdf.Fpdf, tr func(string) string, vm *domain.ReportViewModel) {
	r, gr, b := HexToRGB(BrandColors.TextDark)
	pdf.SetTextColor(r, gr, b)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetX(g.margin)
	pdf.Cell(0, 10, tr(vm.Type.DocumentTitle()))
	pdf.Ln(11)

	pdf.SetFont("Helvetica", "", 13)
	pdf.Cell(0, 8, tr(vm.Title))
	pdf.Ln(11)

	// Status badge
	label := StatusLabel(vm.IsFinalized())
	r, gr, b = HexToRGB(StatusColor(vm.IsFinalized()))
	pdf.SetFillColor(r, gr, b)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(34, 7, label, "", 1, "C", true, 0, "")
	pdf.Ln(6)

	r, gr, b = HexToRGB(BrandColors.TextDark)
	pdf.SetTextColor(r, gr, b)
}

// =============================================================================
// Vehicle Information
// =============================================================================

func (g *PDFGenerator) addVehicleInfo(pdf *fpdf.Fpdf, tr func(string) string, vm *domain.ReportViewModel) {
	g.addSectionHeader(pdf, tr, "Vehículo")

	year := Placeholder
	if vm.ModelYear > 0 {
		year = fmt.Sprintf("%d", vm.ModelYear)
	}

	left := [][2]string{
		{"Tipo", valueOr(vm.VehicleTypeName)},
		{"Marca", valueOr(vm.BrandName)},
		{"Modelo", valueOr(vm.ModelName)},
		{"Año", year},
	}
	right := [][2]string{
		{"Placa", valueOr(vm.Plate)},
		{"Número económico", valueOr(vm.EconomicNumber)},
		{"Número de serie", valueOr(vm.SerialNumber)},
		{"Color", valueOr(vm.Color)},
	}

	// Light box behind the two columns
	rowH := 7.0
	boxH := rowH*float64(len(left)) + 6
	r, gr, b := HexToRGB(BrandColors.Background)
	pdf.SetFillColor(r, gr, b)
	pdf.Rect(g.margin, pdf.GetY(), g.contentWidth, boxH, "F")
	pdf.SetY(pdf.GetY() + 3)

	colW := g.contentWidth / 2
	startY := pdf.GetY()

	for _, pair := range left {
		pdf.SetX(g.margin + 3)
		g.addLabelValue(pdf, tr, pair[0], pair[1], 42, colW-45)
	}

	pdf.SetY(startY)
	for _, pair := range right {
		pdf.SetX(g.margin + colW)
		g.addLabelValue(pdf, tr, pair[0], pair[1], 42, colW-45)
	}

	pdf.Ln(6)
}

// =============================================================================
// Detail Block
// =============================================================================

func (g *PDFGenerator) addDetailBlock(pdf *fpdf.Fpdf, tr func(string) string, vm *domain.ReportViewModel) {
	if vm.Type == domain.ReportTypeRepair {
		g.addRepairDetail(pdf, tr, vm)
		return
	}
	g.addServiceDetail(pdf, tr, vm)
}

func (g *PDFGenerator) addServiceDetail(pdf *fpdf.Fpdf, tr func(string) string, vm *domain.ReportViewModel) {
	g.addSectionHeader(pdf, tr, "Detalles del servicio")

	g.addLabelValue(pdf, tr, "Fecha de servicio", FormatLongDate(vm.ServiceDate), 45, 0)
	g.addLabelValue(pdf, tr, "Tipo de servicio", valueOr(vm.ServiceType), 45, 0)

	odometer := Placeholder
	if vm.Odometer > 0 {
		odometer = FormatOdometer(vm.Odometer)
	}
	g.addLabelValue(pdf, tr, "Odómetro", odometer, 45, 0)

	g.addLabelValue(pdf, tr, "Taller", valueOr(vm.WorkshopName), 45, 0)
	g.addLabelValue(pdf, tr, "Dirección del taller", valueOr(vm.WorkshopAddress), 45, 0)
	g.addLabelValue(pdf, tr, "Teléfono del taller", valueOr(vm.WorkshopPhone), 45, 0)

	if vm.Description != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.Cell(0, 6, tr("Descripción:"))
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(g.contentWidth, 5, tr(vm.Description), "", "L", false)
	}

	pdf.Ln(4)
}

func (g *PDFGenerator) addRepairDetail(pdf *fpdf.Fpdf, tr func(string) string, vm *domain.ReportViewModel) {
	g.addSectionHeader(pdf, tr, "Detalles de la reparación")

	g.addLabelValue(pdf, tr, "Fecha de reporte", FormatLongDate(vm.ReportDate), 45, 0)
	g.addLabelValue(pdf, tr, "Tipo de daño", valueOr(vm.DamageType), 45, 0)
	g.addLabelValue(pdf, tr, "Taller", valueOr(vm.WorkshopName), 45, 0)

	if vm.DamageDescription != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.Cell(0, 6, tr("Descripción del daño:"))
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(g.contentWidth, 5, tr(vm.DamageDescription), "", "L", false)
	}

	pdf.Ln(4)
}

// =============================================================================
// Parts Table
// =============================================================================

func (g *PDFGenerator) addPartsTable(pdf *fpdf.Fpdf, tr func(string) string, vm *domain.ReportViewModel) {
	if len(vm.Parts) == 0 {
		return
	}

	g.addSectionHeader(pdf, tr, "Refacciones")

	nameW := g.contentWidth - 25 - 35 - 35

	// Header row
	r, gr, b := HexToRGB(BrandColors.Blue)
	pdf.SetFillColor(r, gr, b)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(nameW, 8, tr("Refacción"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, tr("Cantidad"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 8, tr("Costo unitario"), "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Subtotal", "1", 1, "R", true, 0, "")

	// Rows with alternating tint
	r, gr, b = HexToRGB(BrandColors.TextDark)
	pdf.SetTextColor(r, gr, b)
	pdf.SetFont("Helvetica", "", 10)
	br, bg, bb := HexToRGB(BrandColors.Background)

	for i, part := range vm.Parts {
		if pdf.GetY() > 260 {
			pdf.AddPage()
		}

		fill := i%2 == 1
		if fill {
			pdf.SetFillColor(br, bg, bb)
		}
		pdf.CellFormat(nameW, 7, tr(part.Name), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", part.Quantity), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(35, 7, FormatCurrency(part.UnitCost), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(35, 7, FormatCurrency(part.Subtotal()), "1", 1, "R", fill, 0, "")
	}

	pdf.Ln(4)
}

// =============================================================================
// Cost Summary
// =============================================================================

func (g *PDFGenerator) addCostSummary(pdf *fpdf.Fpdf, tr func(string) string, vm *domain.ReportViewModel) {
	g.addSectionHeader(pdf, tr, "Costos")

	labelW := g.contentWidth - 40
	r, gr, b := HexToRGB(BrandColors.TextDark)
	pdf.SetTextColor(r, gr, b)
	pdf.SetFont("Helvetica", "", 10)

	pdf.CellFormat(labelW, 7, tr("Mano de obra"), "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, FormatCurrency(vm.LaborCost), "", 1, "R", false, 0, "")

	if vm.Type == domain.ReportTypeRepair {
		pdf.CellFormat(labelW, 7, tr("Refacciones"), "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, FormatCurrency(vm.PartsCost), "", 1, "R", false, 0, "")
	} else if len(vm.Parts) > 0 {
		pdf.CellFormat(labelW, 7, tr("Refacciones"), "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, FormatCurrency(vm.PartsSubtotal()), "", 1, "R", false, 0, "")
	}

	// Highlighted total row
	r, gr, b = HexToRGB(BrandColors.Accent)
	pdf.SetFillColor(r, gr, b)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(labelW, 9, "TOTAL", "", 0, "R", true, 0, "")
	pdf.CellFormat(40, 9, FormatCurrency(vm.TotalCost()), "", 1, "R", true, 0, "")

	r, gr, b = HexToRGB(BrandColors.TextDark)
	pdf.SetTextColor(r, gr, b)
	pdf.Ln(6)
}

// =============================================================================
// Audit Trail
// =============================================================================

func (g *PDFGenerator) addAuditTrail(pdf *fpdf.Fpdf, tr func(string) string, vm *domain.ReportViewModel) {
	r, gr, b := HexToRGB(BrandColors.TextMuted)
	pdf.SetTextColor(r, gr, b)
	pdf.SetFont("Helvetica", "", 9)

	creator := vm.CreatedByName
	if creator == "" {
		creator = "Sistema"
	}
	pdf.Cell(0, 6, tr(fmt.Sprintf("Creado por %s el %s", creator, FormatLongDate(vm.CreatedAt))))
	pdf.Ln(5)

	if vm.IsFinalized() {
		finalizer := vm.FinalizedByName
		if finalizer == "" {
			finalizer = "Sistema"
		}
		pdf.Cell(0, 6, tr(fmt.Sprintf("Finalizado por %s el %s", finalizer, FormatLongDate(vm.FinalizedAt))))
		pdf.Ln(5)
	}

	r, gr, b = HexToRGB(BrandColors.TextDark)
	pdf.SetTextColor(r, gr, b)
}

// =============================================================================
// Helper Methods
// =============================================================================

func (g *PDFGenerator) addSectionHeader(pdf *fpdf.Fpdf, tr func(string) string, title string) {
	r, gr, b := HexToRGB(BrandColors.Blue)
	pdf.SetDrawColor(r, gr, b)
	pdf.SetLineWidth(0.5)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(r, gr, b)
	pdf.SetX(g.margin)
	pdf.Cell(0, 8, tr(title))
	pdf.Ln(9)

	pdf.Line(g.margin, pdf.GetY(), g.pageWidth-g.margin, pdf.GetY())
	pdf.Ln(4)

	r, gr, b = HexToRGB(BrandColors.TextDark)
	pdf.SetTextColor(r, gr, b)
}

// addLabelValue renders one "Label: value" row. A valueW of 0 uses the
// rest of the content width.
func (g *PDFGenerator) addLabelValue(pdf *fpdf.Fpdf, tr func(string) string, label, value string, labelW, valueW float64) {
	if valueW <= 0 {
		valueW = g.contentWidth - labelW
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(labelW, 7, tr(label+":"))
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(valueW, 7, tr(value), "", 1, "L", false, 0, "")
}

func (g *PDFGenerator) addFooter(pdf *fpdf.Fpdf, tr func(string) string, vm *domain.ReportViewModel) {
	pdf.SetY(-15)

	r, gr, b := HexToRGB(BrandColors.Border)
	pdf.SetDrawColor(r, gr, b)
	pdf.Line(g.margin, pdf.GetY()-3, g.pageWidth-g.margin, pdf.GetY()-3)

	r, gr, b = HexToRGB(BrandColors.TextMuted)
	pdf.SetTextColor(r, gr, b)
	pdf.SetFont("Helvetica", "", 8)

	// Left: product caption
	pdf.Cell(0, 10, tr("Generado por MyCAD"))

	// Right: page number
	pdf.SetX(-g.margin - 30)
	pdf.CellFormat(30, 10, tr(fmt.Sprintf("Página %d", pdf.PageNo())), "", 0, "R", false, 0, "")
}
