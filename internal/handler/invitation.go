package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iamadmin/iamadmin/internal/auth"
	"github.com/iamadmin/iamadmin/internal/handler/dto"
	"github.com/iamadmin/iamadmin/internal/service"
)

// InvitationHandler handles HTTP requests for invitations.
type InvitationHandler struct {
	svc    *service.InvitationService
	logger *slog.Logger
}

// NewInvitationHandler creates a new InvitationHandler.
func NewInvitationHandler(svc *service.InvitationService, logger *slog.Logger) *InvitationHandler {
	return &InvitationHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /invite.
func (h *InvitationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateInvitationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	pending, err := h.svc.CreateInvitation(r.Context(), auth.CallerFromContext(r.Context()), service.InviteInput{
		Email:      req.Email,
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		IsRoot:     req.IsRoot,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.InvitationResponse{
		Message:   "invitation sent",
		ExpiresAt: pending.ExpiresAt,
	})
}

// Get handles GET /invite/{token}.
func (h *InvitationHandler) Get(w http.ResponseWriter, r *http.Request) {
	pending, err := h.svc.LookupInvitation(r.Context(), auth.CallerFromContext(r.Context()), chi.URLParam(r, "token"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToPendingInvitationResponse(pending))
}
