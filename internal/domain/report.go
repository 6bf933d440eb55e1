// Package domain contains core business types and interfaces.
//
// This file defines the Report domain types and the denormalized view
// model used to generate fleet service and repair report PDFs.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Report Type
// =============================================================================

// ReportType discriminates between the two report variants.
type ReportType string

const (
	// ReportTypeService is a preventive/maintenance service report.
	ReportTypeService ReportType = "service"

	// ReportTypeRepair is a damage/repair report.
	ReportTypeRepair ReportType = "repair"
)

// String returns the string representation of the type.
func (t ReportType) String() string {
	return string(t)
}

// IsValid returns true if the type is a recognized value.
func (t ReportType) IsValid() bool {
	switch t {
	case ReportTypeService, ReportTypeRepair:
		return true
	}
	return false
}

// DocumentTitle returns the Spanish document title prefix for the type.
func (t ReportType) DocumentTitle() string {
	switch t {
	case ReportTypeRepair:
		return "Reporte de Reparación"
	default:
		return "Reporte de Servicio"
	}
}

// =============================================================================
// Report Domain Type
// =============================================================================

// Report is a stored service or repair record for a vehicle, owned by a
// group. Type-specific fields are zero-valued on the other variant.
//
// Date fields are kept as the raw strings stored on the document; the
// renderer formats them and passes malformed values through verbatim.
type Report struct {
	ID        uuid.UUID
	Type      ReportType
	GroupID   uuid.UUID
	VehicleID uuid.UUID
	Title     string

	// Service report fields
	ServiceDate     string // ISO date of the service
	ServiceType     string // e.g. "Mantenimiento preventivo"
	Odometer        int64  // Kilometers at time of service
	WorkshopAddress string
	WorkshopPhone   string
	Description     string // Free-text service description

	// Repair report fields
	ReportDate        string // ISO date the damage was reported
	DamageType        string // e.g. "Colisión"
	DamageDescription string

	// Shared fields
	WorkshopName string

	// Costs
	LaborCost float64
	PartsCost float64 // Repair reports only; service reports derive it from parts
	FinalCost float64 // Repair reports; zero means "derive from labor + parts"

	// Audit references (uuid.Nil when absent)
	CreatedByID   uuid.UUID
	FinalizedByID uuid.UUID
	CreatedAt     string
	FinalizedAt   string // Empty while the report is a draft

	// Generated artifact reference (empty until first generation)
	FileID   string
	FileName string
}

// IsFinalized reports whether the record carries a finalization timestamp.
func (r *Report) IsFinalized() bool {
	return r.FinalizedAt != ""
}

// HasArtifact reports whether a generated PDF reference is recorded.
func (r *Report) HasArtifact() bool {
	return r.FileID != ""
}

// =============================================================================
// Part Line Items
// =============================================================================

// PartLineItem is a single part row on a report.
type PartLineItem struct {
	Name     string
	Quantity int
	UnitCost float64
}

// Subtotal returns quantity × unit cost. It is always computed, never stored.
func (p PartLineItem) Subtotal() float64 {
	return float64(p.Quantity) * p.UnitCost
}

// =============================================================================
// Report View Model (for generation)
// =============================================================================

// ReportViewModel is the denormalized, read-only aggregate of a report
// and its related entities, built solely for rendering. It is
// reconstructed on every generation request and never persisted.
type ReportViewModel struct {
	// Report record
	ReportID    uuid.UUID
	Type        ReportType
	Title       string
	FinalizedAt string

	// Service detail
	ServiceDate     string
	ServiceType     string
	Odometer        int64
	WorkshopAddress string
	WorkshopPhone   string
	Description     string

	// Repair detail
	ReportDate        string
	DamageType        string
	DamageDescription string

	// Shared detail
	WorkshopName string

	// Costs
	LaborCost float64
	PartsCost float64
	FinalCost float64

	// Vehicle (each field empty when the reference is unset)
	VehicleTypeName string
	BrandName       string
	ModelName       string
	ModelYear       int
	Plate           string
	EconomicNumber  string
	SerialNumber    string
	Color           string

	// Owning group
	GroupName string
	GroupLogo []byte // nil when the group has no logo or the fetch failed

	// Audit profiles
	CreatedByName   string
	CreatedAt       string
	FinalizedByName string

	// Line items
	Parts []PartLineItem

	// Metadata
	GeneratedAt time.Time
}

// IsFinalized reports whether the report was finalized.
func (vm *ReportViewModel) IsFinalized() bool {
	return vm.FinalizedAt != ""
}

// HasLogo reports whether group logo bytes are available for embedding.
func (vm *ReportViewModel) HasLogo() bool {
	return len(vm.GroupLogo) > 0
}

// PartsSubtotal returns the sum of all part line subtotals.
func (vm *ReportViewModel) PartsSubtotal() float64 {
	var sum float64
	for _, p := range vm.Parts {
		sum += p.Subtotal()
	}
	return sum
}

// TotalCost returns the report's final total.
//
// Service reports sum labor cost and part subtotals. Repair reports use
// the recorded final cost, falling back to labor + parts when no final
// cost was recorded.
func (vm *ReportViewModel) TotalCost() float64 {
	if vm.Type == ReportTypeRepair {
		if vm.FinalCost > 0 {
			return vm.FinalCost
		}
		return vm.LaborCost + vm.PartsCost
	}
	return vm.LaborCost + vm.PartsSubtotal()
}
