package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	authsvc "github.com/jorgemochonbernalpersonal/comparathor/internal/services/auth"
	userssvc "github.com/jorgemochonbernalpersonal/comparathor/internal/services/users"
	"github.com/jorgemochonbernalpersonal/comparathor/internal/transport/http/dto"
	httperrors "github.com/jorgemochonbernalpersonal/comparathor/internal/transport/http/errors"
)

type UserHandler struct {
	service *userssvc.Service
}

func NewUserHandler(service *userssvc.Service) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	h.writeUser(w, r, identity.UserID)
}

// GetByID serves a user record to its owner or to an admin. Everyone else
// gets 403 naming the missing role; the role name is not a secret.
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeBadRequest(w, "INVALID_REQUEST", "invalid user id")
		return
	}

	if !identity.IsSelf(id) && !identity.HasRole(authsvc.RoleAdmin) {
		writeForbidden(w, "FORBIDDEN", "requires "+authsvc.RoleAdmin+" or ownership")
		return
	}

	h.writeUser(w, r, id)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "USER_SERVICE_UNAVAILABLE", "user service is unavailable")
		return
	}

	summaries, err := h.service.List(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
		return
	}

	resp := dto.UsersListResponse{Users: make([]dto.UserResponse, 0, len(summaries))}
	for _, s := range summaries {
		resp.Users = append(resp.Users, dto.UserResponse{
			ID:    s.ID,
			Name:  s.Name,
			Email: s.Email,
			Role:  s.Role,
		})
	}
	httperrors.Write(w, http.StatusOK, resp)
}

func (h *UserHandler) writeUser(w http.ResponseWriter, r *http.Request, id int64) {
	if h.service == nil {
		writeInternal(w, "USER_SERVICE_UNAVAILABLE", "user service is unavailable")
		return
	}

	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, userssvc.ErrNotFound) {
			httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Code: "NOT_FOUND", Message: "user not found"})
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	})
}
