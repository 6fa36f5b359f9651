package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"matrimony-backend/internal/http/response"
	"matrimony-backend/internal/observability"
	"matrimony-backend/internal/service"

	"github.com/go-chi/chi/v5"
)

type ProfileHandler struct {
	profileSvc *service.ProfileService
}

func NewProfileHandler(profileSvc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc}
}

type profileRequest struct {
	FullName  string `json:"fullName"`
	Age       int    `json:"age"`
	DOB       string `json:"dob"`
	Location  string `json:"location"`
	Language  string `json:"language"`
	Religion  string `json:"religion"`
	Community string `json:"community"`
}

func (b profileRequest) toInput() (service.ProfileInput, error) {
	in := service.ProfileInput{
		FullName:  b.FullName,
		Age:       b.Age,
		Location:  b.Location,
		Language:  b.Language,
		Religion:  b.Religion,
		Community: b.Community,
	}
	if b.DOB != "" {
		dob, err := parseDate(b.DOB)
		if err != nil {
			return service.ProfileInput{}, err
		}
		in.DOB = dob
	}
	return in, nil
}

func pathUserID(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "userID")
	id64, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id64), nil
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid user id", nil)
		return
	}
	p, err := h.profileSvc.Get(userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "profile not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load profile", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, p)
}

func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "profile_create", status, time.Since(start))
	}()

	userID, err := pathUserID(r)
	if err != nil {
		status = "failure"
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid user id", nil)
		return
	}
	var body profileRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		status = "failure"
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	in, err := body.toInput()
	if err != nil {
		status = "failure"
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid dob", nil)
		return
	}
	p, err := h.profileSvc.Create(userID, in)
	if err != nil {
		status = "failure"
		if errors.Is(err, service.ErrProfileExists) {
			observability.RecordProfileOperation(r.Context(), "create", "failure")
			response.Error(w, r, http.StatusConflict, "CONFLICT", "profile already exists for this user", nil)
			return
		}
		observability.RecordProfileOperation(r.Context(), "create", "failure")
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to create profile", nil)
		return
	}
	observability.Audit(r, "profile.created", "user_id", userID, "profile_id", p.ExternalID)
	observability.RecordProfileOperation(r.Context(), "create", "success")
	response.JSON(w, r, http.StatusCreated, p)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid user id", nil)
		return
	}
	var body profileRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	in, err := body.toInput()
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid dob", nil)
		return
	}
	p, err := h.profileSvc.Update(userID, in)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			observability.RecordProfileOperation(r.Context(), "update", "failure")
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "profile not found", nil)
			return
		}
		observability.RecordProfileOperation(r.Context(), "update", "failure")
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to update profile", nil)
		return
	}
	observability.Audit(r, "profile.updated", "user_id", userID)
	observability.RecordProfileOperation(r.Context(), "update", "success")
	response.JSON(w, r, http.StatusOK, p)
}

func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid user id", nil)
		return
	}
	if err := h.profileSvc.Delete(userID); err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			observability.RecordProfileOperation(r.Context(), "delete", "failure")
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "profile not found", nil)
			return
		}
		observability.RecordProfileOperation(r.Context(), "delete", "failure")
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to delete profile", nil)
		return
	}
	observability.Audit(r, "profile.deleted", "user_id", userID)
	observability.RecordProfileOperation(r.Context(), "delete", "success")
	response.JSON(w, r, http.StatusOK, map[string]string{"message": "profile deleted"})
}
