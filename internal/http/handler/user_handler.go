package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"matrimony-backend/internal/domain"
	"matrimony-backend/internal/http/middleware"
	"matrimony-backend/internal/http/response"
	"matrimony-backend/internal/observability"
	"matrimony-backend/internal/service"

	"gorm.io/gorm"
)

type UserHandler struct {
	userSvc *service.UserService
}

func NewUserHandler(userSvc *service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// Me returns the caller's own identity record.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	u, err := h.userSvc.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "user not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load user", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, u)
}

// UpdateMe applies a partial update to the caller's record. Credentials and
// uniqueness keys are not updatable through this endpoint.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	var patch domain.UserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	u, err := h.userSvc.UpdateProfile(userID, &patch)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordProfileOperation(r.Context(), "update_self", "failure")
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "user not found", nil)
			return
		}
		observability.RecordProfileOperation(r.Context(), "update_self", "failure")
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to update profile", nil)
		return
	}
	observability.Audit(r, "user.profile.updated", "user_id", userID)
	observability.RecordProfileOperation(r.Context(), "update_self", "success")
	response.JSON(w, r, http.StatusOK, u)
}

// Browse lists other active members for the caller.
func (h *UserHandler) Browse(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	users, err := h.userSvc.Browse(userID)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to list users", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, users)
}
