package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mycad/backoffice/internal/domain"
	"github.com/mycad/backoffice/internal/email"
	"github.com/mycad/backoffice/internal/metrics"
)

// =============================================================================
// Email Function Handler
// =============================================================================

// Actions accepted by the email function.
const (
	ActionSendVerification  = "send-verification"
	ActionSendPasswordReset = "send-password-reset"
	ActionSendReport        = "send-report"
	ActionSendNotification  = "send-notification"
	ActionSendSimple        = "send-simple"
	ActionHealth            = "health"
)

// actionKinds maps a request action to the email kind it renders.
var actionKinds = map[string]email.Kind{
	ActionSendVerification:  email.KindVerification,
	ActionSendPasswordReset: email.KindPasswordReset,
	ActionSendReport:        email.KindReport,
	ActionSendNotification:  email.KindNotification,
	ActionSendSimple:        email.KindSimple,
}

// EmailHandler serves the transactional email function.
type EmailHandler struct {
	renderer *email.Renderer
	sender   email.Sender
	logger   *slog.Logger
}

// NewEmailHandler creates a new EmailHandler.
func NewEmailHandler(renderer *email.Renderer, sender email.Sender, logger *slog.Logger) *EmailHandler {
	return &EmailHandler{
		renderer: renderer,
		sender:   sender,
		logger:   logger,
	}
}

// sendRequest is the function invocation payload. Only the fields
// relevant to the requested action are consulted.
type sendRequest struct {
	Action string `json:"action"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Lang   string `json:"lang"`

	Link   string `json:"link"`
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Secret string `json:"secret"`

	ReportName string `json:"reportName"`
	ReportURL  string `json:"reportUrl"`

	Title   string `json:"title"`
	Message string `json:"message"`

	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// sendResponse is the success envelope.
type sendResponse struct {
	OK        bool   `json:"ok"`
	MessageID string `json:"messageId,omitempty"`
	Action    string `json:"action"`
}

// sendErrorResponse is the failure envelope.
type sendErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// Send handles POST /functions/v1/email, dispatching on the action field.
func (h *EmailHandler) Send(w http.ResponseWriter, r *http.Request) {
	const op = "handler.email.send"

	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, r, req.Action, domain.Invalid(op, "invalid JSON payload"))
		return
	}

	if req.Action == ActionHealth {
		writeJSON(w, http.StatusOK, sendResponse{OK: true, Action: ActionHealth})
		return
	}

	kind, ok := actionKinds[req.Action]
	if !ok {
		h.fail(w, r, req.Action, domain.Invalid(op, fmt.Sprintf("unsupported action %q", req.Action)))
		return
	}

	rendered, err := h.renderer.Render(kind, email.Params{
		To:         req.Email,
		Name:       req.Name,
		Lang:       req.Lang,
		Link:       req.Link,
		Token:      req.Token,
		UserID:     req.UserID,
		Secret:     req.Secret,
		ReportName: req.ReportName,
		ReportURL:  req.ReportURL,
		Title:      req.Title,
		Message:    req.Message,
		Subject:    req.Subject,
		Body:       req.Body,
	})
	if err != nil {
		h.fail(w, r, req.Action, err)
		return
	}

	messageID, err := h.sender.Send(r.Context(), req.Email, rendered)
	if err != nil {
		h.fail(w, r, req.Action, domain.Internal(err, op, "failed to send email"))
		return
	}

	metrics.EmailsSent.WithLabelValues(req.Action, "sent").Inc()

	writeJSON(w, http.StatusOK, sendResponse{
		OK:        true,
		MessageID: messageID,
		Action:    req.Action,
	})
}

func (h *EmailHandler) fail(w http.ResponseWriter, r *http.Request, action string, err error) {
	if action == "" {
		action = "unknown"
	}
	metrics.EmailsSent.WithLabelValues(action, "failed").Inc()

	status := ErrorCodeToHTTPStatus(domain.ErrorCode(err))
	logError(h.logger, r, err, status)
	writeJSON(w, status, sendErrorResponse{
		OK:    false,
		Error: domain.ErrorMessage(err),
	})
}
