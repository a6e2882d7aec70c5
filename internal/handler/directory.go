package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iamadmin/iamadmin/internal/auth"
	"github.com/iamadmin/iamadmin/internal/handler/dto"
	"github.com/iamadmin/iamadmin/internal/model"
	"github.com/iamadmin/iamadmin/internal/service"
)

// DirectoryHandler handles HTTP requests for users, applications and groups.
type DirectoryHandler struct {
	svc    *service.DirectoryService
	logger *slog.Logger
}

// NewDirectoryHandler creates a new DirectoryHandler.
func NewDirectoryHandler(svc *service.DirectoryService, logger *slog.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		svc:    svc,
		logger: logger,
	}
}

// parsePageRequest reads page, page_size and search from the query string.
// Absent parameters take their defaults; present ones must be integers.
// Range checks are left to the service.
func parsePageRequest(r *http.Request) (model.PageRequest, bool) {
	query := r.URL.Query()
	req := model.NewPageRequest()
	req.Search = query.Get("search")

	if p := query.Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return req, false
		}
		req.Page = n
	}
	if s := query.Get("page_size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return req, false
		}
		req.PageSize = n
	}
	return req, true
}

// ListUsers handles GET /users.
func (h *DirectoryHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	req, ok := parsePageRequest(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "page and page_size must be integers")
		return
	}

	page, err := h.svc.ListUsers(r.Context(), auth.CallerFromContext(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserPage(page))
}

// ListApplications handles GET /apps.
func (h *DirectoryHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	req, ok := parsePageRequest(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "page and page_size must be integers")
		return
	}

	page, err := h.svc.ListApplications(r.Context(), auth.CallerFromContext(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToAppPage(page))
}

// GetUser handles GET /user?email=.
func (h *DirectoryHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.GetUser(r.Context(), auth.CallerFromContext(r.Context()), r.URL.Query().Get("email"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, user.ToView())
}

// UpdateUser handles PUT /user/{email}.
func (h *DirectoryHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	if !req.Complete() {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "is_active and is_root are required")
		return
	}

	email, err := url.PathUnescape(chi.URLParam(r, "email"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed email in path")
		return
	}

	user, err := h.svc.UpdateUser(r.Context(), auth.CallerFromContext(r.Context()), email, req.ToModel())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, user.ToView())
}

// UserExists handles GET /user/exists?email=.
func (h *DirectoryHandler) UserExists(w http.ResponseWriter, r *http.Request) {
	exists, err := h.svc.UserExists(r.Context(), auth.CallerFromContext(r.Context()), r.URL.Query().Get("email"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ExistsResponse{Exists: exists})
}

// GroupExists handles GET /groups/{id}/exists.
func (h *DirectoryHandler) GroupExists(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "group id must be an integer")
		return
	}

	exists, err := h.svc.GroupExists(r.Context(), auth.CallerFromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ExistsResponse{Exists: exists})
}
