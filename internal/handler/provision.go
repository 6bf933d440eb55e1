package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/mycad/backoffice/internal/domain"
	"github.com/mycad/backoffice/internal/metrics"
	"github.com/mycad/backoffice/internal/service"
)

// =============================================================================
// Provision Function Handler
// =============================================================================

// ProvisionHandler serves the user provisioning function.
type ProvisionHandler struct {
	service service.UserService
	logger  *slog.Logger
}

// NewProvisionHandler creates a new ProvisionHandler.
func NewProvisionHandler(svc service.UserService, logger *slog.Logger) *ProvisionHandler {
	return &ProvisionHandler{
		service: svc,
		logger:  logger,
	}
}

// provisionRequest is the function invocation payload.
type provisionRequest struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	GroupID string `json:"groupId"`
	Lang    string `json:"lang"`
}

// provisionResponse is the success envelope.
type provisionResponse struct {
	OK        bool   `json:"ok"`
	UserID    string `json:"userId"`
	ProfileID string `json:"profileId"`
	Email     string `json:"email"`
	MessageID string `json:"messageId"`
}

// provisionErrorResponse is the failure envelope.
type provisionErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// Provision handles POST /functions/v1/provision.
func (h *ProvisionHandler) Provision(w http.ResponseWriter, r *http.Request) {
	const op = "handler.provision"

	var req provisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, r, domain.Invalid(op, "invalid JSON payload"))
		return
	}

	if req.GroupID == "" {
		h.fail(w, r, domain.Invalid(op, "groupId is required"))
		return
	}
	groupID, err := uuid.Parse(req.GroupID)
	if err != nil {
		h.fail(w, r, domain.Invalid(op, "groupId is not a valid id"))
		return
	}

	res, err := h.service.Provision(r.Context(), service.ProvisionParams{
		Email:   req.Email,
		Name:    req.Name,
		GroupID: groupID,
		Lang:    req.Lang,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	metrics.UsersProvisioned.Inc()

	writeJSON(w, http.StatusOK, provisionResponse{
		OK:        true,
		UserID:    res.UserID.String(),
		ProfileID: res.ProfileID.String(),
		Email:     res.Email,
		MessageID: res.MessageID,
	})
}

func (h *ProvisionHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := ErrorCodeToHTTPStatus(domain.ErrorCode(err))
	logError(h.logger, r, err, status)
	writeJSON(w, status, provisionErrorResponse{
		OK:    false,
		Error: domain.ErrorMessage(err),
	})
}
