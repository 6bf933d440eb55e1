package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/mycad/backoffice/internal/domain"
	"github.com/mycad/backoffice/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserService struct {
	calls  int
	params service.ProvisionParams
	result *service.ProvisionResult
	err    error
}

func (f *fakeUserService) Provision(_ context.Context, params service.ProvisionParams) (*service.ProvisionResult, error) {
	f.calls++
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func postProvision(t *testing.T, h *ProvisionHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/functions/v1/provision", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Provision(rec, req)
	return rec
}

func TestProvisionHandler(t *testing.T) {
	groupID := uuid.New()

	t.Run("success envelope", func(t *testing.T) {
		svc := &fakeUserService{result: &service.ProvisionResult{
			UserID:    uuid.New(),
			ProfileID: uuid.New(),
			Email:     "ana@example.com",
			MessageID: "mid-1@mycad",
		}}
		h := NewProvisionHandler(svc, testLogger())

		rec := postProvision(t, h, `{"email":"ana@example.com","name":"Ana","groupId":"`+groupID.String()+`","lang":"es"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			OK        bool   `json:"ok"`
			Email     string `json:"email"`
			MessageID string `json:"messageId"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.OK)
		assert.Equal(t, "ana@example.com", resp.Email)
		assert.Equal(t, "mid-1@mycad", resp.MessageID)
		assert.Equal(t, groupID, svc.params.GroupID)
	})

	t.Run("malformed groupId rejected before the service is called", func(t *testing.T) {
		svc := &fakeUserService{}
		h := NewProvisionHandler(svc, testLogger())

		rec := postProvision(t, h, `{"email":"a@b.com","name":"Ana","groupId":"nope"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, 0, svc.calls)
	})

	t.Run("duplicate email maps to 409", func(t *testing.T) {
		svc := &fakeUserService{err: domain.Conflict("user.provision", "a user with this email already exists")}
		h := NewProvisionHandler(svc, testLogger())

		rec := postProvision(t, h, `{"email":"a@b.com","name":"Ana","groupId":"`+groupID.String()+`"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
		var resp struct {
			OK    bool   `json:"ok"`
			Error string `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.OK)
		assert.NotEmpty(t, resp.Error)
	})
}
