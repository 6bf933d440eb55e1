package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mycad/backoffice/internal/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Fakes
// =============================================================================

type fakeSender struct {
	sent []email.Rendered
	to   []string
	err  error
}

func (f *fakeSender) Send(_ context.Context, to string, msg email.Rendered) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, msg)
	f.to = append(f.to, to)
	return "mid-42@mycad", nil
}

func newEmailHandler(t *testing.T, sender *fakeSender) *EmailHandler {
	t.Helper()
	renderer, err := email.NewRenderer("https://app.mycad.mx")
	require.NoError(t, err)
	return NewEmailHandler(renderer, sender, testLogger())
}

func postEmail(t *testing.T, h *EmailHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/functions/v1/email", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Send(rec, req)
	return rec
}

type emailEnvelope struct {
	OK        bool   `json:"ok"`
	MessageID string `json:"messageId"`
	Action    string `json:"action"`
	Error     string `json:"error"`
}

// =============================================================================
// Tests
// =============================================================================

func TestEmailHandler_Send(t *testing.T) {
	t.Run("health action short-circuits", func(t *testing.T) {
		sender := &fakeSender{}
		h := newEmailHandler(t, sender)

		rec := postEmail(t, h, `{"action":"health"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp emailEnvelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.OK)
		assert.Equal(t, "health", resp.Action)
		assert.Empty(t, sender.sent)
	})

	t.Run("send-verification renders and delivers", func(t *testing.T) {
		sender := &fakeSender{}
		h := newEmailHandler(t, sender)

		rec := postEmail(t, h, `{"action":"send-verification","email":"a@b.com","name":"Ana","token":"T","lang":"en"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp emailEnvelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.OK)
		assert.Equal(t, "mid-42@mycad", resp.MessageID)
		assert.Equal(t, "send-verification", resp.Action)

		require.Len(t, sender.sent, 1)
		assert.Equal(t, "a@b.com", sender.to[0])
		assert.Equal(t, "Verify your MyCAD account", sender.sent[0].Subject)
		assert.Contains(t, sender.sent[0].HTMLBody, "token=T")
	})

	t.Run("unsupported action is 400", func(t *testing.T) {
		sender := &fakeSender{}
		h := newEmailHandler(t, sender)

		rec := postEmail(t, h, `{"action":"send-fax","email":"a@b.com"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp emailEnvelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.OK)
		assert.Contains(t, resp.Error, "send-fax")
		assert.Empty(t, sender.sent)
	})

	t.Run("validation failure rejected before delivery", func(t *testing.T) {
		sender := &fakeSender{}
		h := newEmailHandler(t, sender)

		// No link, token, or userId+secret pair.
		rec := postEmail(t, h, `{"action":"send-verification","email":"a@b.com"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, sender.sent)
	})

	t.Run("smtp failure is 500", func(t *testing.T) {
		sender := &fakeSender{err: context.DeadlineExceeded}
		h := newEmailHandler(t, sender)

		rec := postEmail(t, h, `{"action":"send-simple","email":"a@b.com","subject":"Hola","body":"Cuerpo"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		var resp emailEnvelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.OK)
	})

	t.Run("send-report carries the artifact link", func(t *testing.T) {
		sender := &fakeSender{}
		h := newEmailHandler(t, sender)

		rec := postEmail(t, h, `{"action":"send-report","email":"a@b.com","reportName":"service_r1_9.pdf","reportUrl":"https://app.mycad.mx/files/f-9"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, sender.sent, 1)
		assert.Contains(t, sender.sent[0].HTMLBody, "https://app.mycad.mx/files/f-9")
	})
}
