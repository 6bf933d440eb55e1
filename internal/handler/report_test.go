package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/mycad/backoffice/internal/domain"
	"github.com/mycad/backoffice/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Fakes
// =============================================================================

type fakeReportService struct {
	calls  int
	result *service.GenerationResult
	err    error
}

func (f *fakeReportService) PrepareReportData(context.Context, domain.ReportType, uuid.UUID) (*domain.ReportViewModel, error) {
	return nil, nil
}

func (f *fakeReportService) GenerateAndPublish(_ context.Context, _ domain.ReportType, _ uuid.UUID, _ bool) (*service.GenerationResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/functions/v1/reports", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

// =============================================================================
// Tests
// =============================================================================

func TestReportHandler_Generate(t *testing.T) {
	reportID := uuid.New()

	t.Run("success envelope", func(t *testing.T) {
		svc := &fakeReportService{result: &service.GenerationResult{
			FileID:   "f-1",
			FileName: "service_r1_123.pdf",
		}}
		h := NewReportHandler(svc, testLogger())

		rec := postJSON(t, h.Generate, `{"reportType":"service","reportId":"`+reportID.String()+`","regenerate":false}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Success  bool   `json:"success"`
			FileID   string `json:"fileId"`
			FileName string `json:"fileName"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "f-1", resp.FileID)
		assert.Equal(t, "service_r1_123.pdf", resp.FileName)
		assert.Equal(t, 1, svc.calls)
	})

	t.Run("validation rejected before the service is called", func(t *testing.T) {
		tests := []struct {
			name string
			body string
		}{
			{name: "bad json", body: `{`},
			{name: "unknown type", body: `{"reportType":"invoice","reportId":"` + reportID.String() + `"}`},
			{name: "missing id", body: `{"reportType":"service"}`},
			{name: "malformed id", body: `{"reportType":"service","reportId":"nope"}`},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc := &fakeReportService{}
				h := NewReportHandler(svc, testLogger())

				rec := postJSON(t, h.Generate, tt.body)

				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Equal(t, 0, svc.calls)

				var resp struct {
					Success bool   `json:"success"`
					Error   string `json:"error"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.False(t, resp.Success)
				assert.NotEmpty(t, resp.Error)
			})
		}
	})

	t.Run("not found maps to 404", func(t *testing.T) {
		svc := &fakeReportService{err: domain.NotFound("report.generate", "report", reportID.String())}
		h := NewReportHandler(svc, testLogger())

		rec := postJSON(t, h.Generate, `{"reportType":"service","reportId":"`+reportID.String()+`"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("internal failure maps to 500", func(t *testing.T) {
		svc := &fakeReportService{err: domain.Internal(io.ErrUnexpectedEOF, "report.generate", "failed to upload report artifact")}
		h := NewReportHandler(svc, testLogger())

		rec := postJSON(t, h.Generate, `{"reportType":"repair","reportId":"`+reportID.String()+`"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		var resp struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, "failed to upload report artifact", resp.Error)
	})
}

func TestErrorCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{code: domain.EINVALID, status: http.StatusBadRequest},
		{code: domain.ENOTFOUND, status: http.StatusNotFound},
		{code: domain.ECONFLICT, status: http.StatusConflict},
		{code: domain.EINTERNAL, status: http.StatusInternalServerError},
		{code: "mystery", status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, ErrorCodeToHTTPStatus(tt.code))
		})
	}
}
