package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mycad/backoffice/internal/domain"
	"github.com/mycad/backoffice/internal/metrics"
	"github.com/mycad/backoffice/internal/service"
)

// =============================================================================
// Report Function Handler
// =============================================================================

// ReportHandler serves the report generation function.
type ReportHandler struct {
	service service.ReportService
	logger  *slog.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(svc service.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		service: svc,
		logger:  logger,
	}
}

// generateRequest is the function invocation payload.
type generateRequest struct {
	ReportType string `json:"reportType"`
	ReportID   string `json:"reportId"`
	Regenerate bool   `json:"regenerate"`
}

// generateResponse is the success envelope.
type generateResponse struct {
	Success  bool   `json:"success"`
	FileID   string `json:"fileId"`
	FileName string `json:"fileName"`
}

// generateErrorResponse is the failure envelope.
type generateErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Generate handles POST /functions/v1/reports.
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	const op = "handler.report.generate"

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, r, domain.Invalid(op, "invalid JSON payload"))
		return
	}

	// Validation happens before any external call.
	reportType := domain.ReportType(req.ReportType)
	if !reportType.IsValid() {
		h.fail(w, r, domain.Invalid(op, "reportType must be \"service\" or \"repair\""))
		return
	}
	if req.ReportID == "" {
		h.fail(w, r, domain.Invalid(op, "reportId is required"))
		return
	}
	reportID, err := uuid.Parse(req.ReportID)
	if err != nil {
		h.fail(w, r, domain.Invalid(op, "reportId is not a valid id"))
		return
	}

	start := time.Now()
	res, err := h.service.GenerateAndPublish(r.Context(), reportType, reportID, req.Regenerate)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	metrics.ReportsGenerated.WithLabelValues(string(reportType)).Inc()
	metrics.ReportGenerationDuration.WithLabelValues(string(reportType)).Observe(time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, generateResponse{
		Success:  true,
		FileID:   res.FileID,
		FileName: res.FileName,
	})
}

func (h *ReportHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := ErrorCodeToHTTPStatus(domain.ErrorCode(err))
	logError(h.logger, r, err, status)
	writeJSON(w, status, generateErrorResponse{
		Success: false,
		Error:   domain.ErrorMessage(err),
	})
}
