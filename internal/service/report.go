// Package service contains the business logic layer.
//
// Services orchestrate interactions between the document store, blob
// storage, the PDF renderer, and the email engine. They are responsible
// for:
// - Input validation
// - Business rule enforcement
// - Error translation (database errors -> domain errors)
package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mycad/backoffice/internal/domain"
	"github.com/mycad/backoffice/internal/report"
	"github.com/mycad/backoffice/internal/repository"
	"github.com/mycad/backoffice/internal/storage"
)

// =============================================================================
// Store Interface
// =============================================================================

// ReportStore is the subset of document store queries the report
// service needs. *repository.Queries satisfies it.
type ReportStore interface {
	GetReportByID(ctx context.Context, id uuid.UUID) (domain.Report, error)
	GetVehicleByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)
	GetGroupByID(ctx context.Context, id uuid.UUID) (domain.Group, error)
	GetProfileByID(ctx context.Context, id uuid.UUID) (domain.Profile, error)
	GetVehicleBrandByID(ctx context.Context, id uuid.UUID) (domain.VehicleBrand, error)
	GetVehicleModelByID(ctx context.Context, id uuid.UUID) (domain.VehicleModel, error)
	GetVehicleTypeByID(ctx context.Context, id uuid.UUID) (domain.VehicleType, error)
	ListEnabledPartsByReportID(ctx context.Context, reportID uuid.UUID) ([]domain.PartLineItem, error)
	UpdateReportFile(ctx context.Context, params repository.UpdateReportFileParams) error
}

// =============================================================================
// Interface Definition
// =============================================================================

// GenerationResult is the published artifact reference.
type GenerationResult struct {
	FileID   string
	FileName string
}

// ReportService defines operations for generating report documents.
type ReportService interface {
	// PrepareReportData aggregates all data needed for report generation.
	// Returns domain.ENOTFOUND if the report, vehicle, or group is missing.
	PrepareReportData(ctx context.Context, reportType domain.ReportType, reportID uuid.UUID) (*domain.ReportViewModel, error)

	// GenerateAndPublish renders the report PDF, uploads it, and records
	// the artifact reference on the report. With regenerate false and an
	// existing artifact, the stored reference is returned without a new
	// upload.
	GenerateAndPublish(ctx context.Context, reportType domain.ReportType, reportID uuid.UUID, regenerate bool) (*GenerationResult, error)
}

// =============================================================================
// Implementation
// =============================================================================

type reportService struct {
	store     ReportStore
	storage   storage.Storage
	generator report.Generator
	logger    *slog.Logger
	now       func() time.Time
}

// NewReportService creates a new ReportService.
func NewReportService(
	store ReportStore,
	blobs storage.Storage,
	generator report.Generator,
	logger *slog.Logger,
) ReportService {
	return &reportService{
		store:     store,
		storage:   blobs,
		generator: generator,
		logger:    logger,
		now:       time.Now,
	}
}

// =============================================================================
// PrepareReportData
// =============================================================================

// PrepareReportData aggregates all data needed for report generation.
func (s *reportService) PrepareReportData(ctx context.Context, reportType domain.ReportType, reportID uuid.UUID) (*domain.ReportViewModel, error) {
	const op = "report.prepare"

	rec, err := s.getReport(ctx, op, reportType, reportID)
	if err != nil {
		return nil, err
	}
	return s.buildViewModel(ctx, op, rec)
}

func (s *reportService) getReport(ctx context.Context, op string, reportType domain.ReportType, reportID uuid.UUID) (domain.Report, error) {
	rec, err := s.store.GetReportByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Report{}, domain.NotFound(op, "report", reportID.String())
		}
		return domain.Report{}, domain.Internal(err, op, "failed to fetch report")
	}

	// A report requested under the wrong type behaves as if it did not
	// exist in that collection.
	if rec.Type != reportType {
		return domain.Report{}, domain.NotFound(op, string(reportType)+" report", reportID.String())
	}

	return rec, nil
}

func (s *reportService) buildViewModel(ctx context.Context, op string, rec domain.Report) (*domain.ReportViewModel, error) {
	vm := &domain.ReportViewModel{
		ReportID:          rec.ID,
		Type:              rec.Type,
		Title:             rec.Title,
		FinalizedAt:       rec.FinalizedAt,
		ServiceDate:       rec.ServiceDate,
		ServiceType:       rec.ServiceType,
		Odometer:          rec.Odometer,
		WorkshopAddress:   rec.WorkshopAddress,
		WorkshopPhone:     rec.WorkshopPhone,
		Description:       rec.Description,
		ReportDate:        rec.ReportDate,
		DamageType:        rec.DamageType,
		DamageDescription: rec.DamageDescription,
		WorkshopName:      rec.WorkshopName,
		LaborCost:         rec.LaborCost,
		PartsCost:         rec.PartsCost,
		FinalCost:         rec.FinalCost,
		CreatedAt:         rec.CreatedAt,
		GeneratedAt:       s.now(),
	}

	// Audit profiles are optional references; a dangling id degrades to
	// an empty name.
	if creator, ok := fetchOptional(ctx, rec.CreatedByID, s.store.GetProfileByID, s.logger, "creator profile"); ok {
		vm.CreatedByName = creator.Name
	}
	if finalizer, ok := fetchOptional(ctx, rec.FinalizedByID, s.store.GetProfileByID, s.logger, "finalizer profile"); ok {
		vm.FinalizedByName = finalizer.Name
	}

	// Vehicle is mandatory.
	vehicle, err := s.store.GetVehicleByID(ctx, rec.VehicleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "vehicle", rec.VehicleID.String())
		}
		return nil, domain.Internal(err, op, "failed to fetch vehicle")
	}
	vm.Plate = vehicle.Plate
	vm.EconomicNumber = vehicle.EconomicNumber
	vm.SerialNumber = vehicle.SerialNumber
	vm.Color = vehicle.Color
	vm.ModelYear = vehicle.ModelYear

	// Catalog references are optional.
	if vt, ok := fetchOptional(ctx, vehicle.TypeID, s.store.GetVehicleTypeByID, s.logger, "vehicle type"); ok {
		vm.VehicleTypeName = vt.Name
	}
	if brand, ok := fetchOptional(ctx, vehicle.BrandID, s.store.GetVehicleBrandByID, s.logger, "vehicle brand"); ok {
		vm.BrandName = brand.Name
	}
	if model, ok := fetchOptional(ctx, vehicle.ModelID, s.store.GetVehicleModelByID, s.logger, "vehicle model"); ok {
		vm.ModelName = model.Name
	}

	// Group is mandatory.
	group, err := s.store.GetGroupByID(ctx, rec.GroupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "group", rec.GroupID.String())
		}
		return nil, domain.Internal(err, op, "failed to fetch group")
	}
	vm.GroupName = group.Name

	// Logo fetch is best-effort. A missing or unreadable logo renders
	// as the wordmark instead.
	if group.HasLogo() {
		if logo, err := s.fetchLogo(ctx, group.LogoKey); err != nil {
			s.logger.Warn("failed to fetch group logo",
				"group_id", group.ID,
				"logo_key", group.LogoKey,
				"error", err,
			)
		} else {
			vm.GroupLogo = logo
		}
	}

	parts, err := s.store.ListEnabledPartsByReportID(ctx, rec.ID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to fetch report parts")
	}
	vm.Parts = parts

	return vm, nil
}

// fetchOptional resolves an optional document reference. A nil id is
// skipped silently; a fetch failure is logged and treated as absent.
func fetchOptional[T any](
	ctx context.Context,
	id uuid.UUID,
	fetch func(context.Context, uuid.UUID) (T, error),
	logger *slog.Logger,
	what string,
) (T, bool) {
	var zero T
	if id == uuid.Nil {
		return zero, false
	}

	v, err := fetch(ctx, id)
	if err != nil {
		logger.Warn("failed to resolve optional reference",
			"reference", what,
			"id", id,
			"error", err,
		)
		return zero, false
	}
	return v, true
}

func (s *reportService) fetchLogo(ctx context.Context, key string) ([]byte, error) {
	rc, _, err := s.storage.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// =============================================================================
// GenerateAndPublish
// =============================================================================

// GenerateAndPublish renders, uploads, and records a report artifact.
func (s *reportService) GenerateAndPublish(ctx context.Context, reportType domain.ReportType, reportID uuid.UUID, regenerate bool) (*GenerationResult, error) {
	const op = "report.generate"

	rec, err := s.getReport(ctx, op, reportType, reportID)
	if err != nil {
		return nil, err
	}

	// Idempotent short-circuit: an existing artifact is returned as-is
	// unless regeneration was requested.
	if rec.HasArtifact() && !regenerate {
		s.logger.Info("returning existing report artifact",
			"report_id", reportID,
			"file_id", rec.FileID,
		)
		return &GenerationResult{FileID: rec.FileID, FileName: rec.FileName}, nil
	}

	vm, err := s.buildViewModel(ctx, op, rec)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := s.generator.Generate(ctx, vm, &buf); err != nil {
		return nil, domain.Internal(err, op, "failed to render report")
	}

	// Regeneration deletes the prior blob best-effort. A failed delete
	// leaves an orphan but never blocks the new upload.
	if regenerate && rec.HasArtifact() && rec.FileName != "" {
		oldKey := storage.ReportArtifactKey(rec.FileName)
		if err := s.storage.Delete(ctx, oldKey); err != nil {
			s.logger.Warn("failed to delete previous report artifact",
				"report_id", reportID,
				"key", oldKey,
				"error", err,
			)
		}
	}

	fileID := uuid.New().String()
	fileName := storage.ReportArtifactName(rec.Type, rec.ID.String(), vm.GeneratedAt)
	key := storage.ReportArtifactKey(fileName)
	size := buf.Len()

	err = s.storage.Put(ctx, key, &buf, storage.PutOptions{ContentType: "application/pdf"})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to upload report artifact")
	}

	// The reference write-back is the commit point. A failure here
	// surfaces to the caller; the uploaded blob is allowed to orphan.
	err = s.store.UpdateReportFile(ctx, repository.UpdateReportFileParams{
		ID:       rec.ID,
		FileID:   fileID,
		FileName: fileName,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "report", reportID.String())
		}
		return nil, domain.Internal(err, op, "failed to record report artifact reference")
	}

	s.logger.Info("published report artifact",
		"report_id", reportID,
		"report_type", rec.Type,
		"file_id", fileID,
		"file_name", fileName,
		"size", size,
	)

	return &GenerationResult{FileID: fileID, FileName: fileName}, nil
}
