package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"matrimony-backend/internal/http/response"
	"matrimony-backend/internal/observability"
	"matrimony-backend/internal/otp"
	"matrimony-backend/internal/repository"
	"matrimony-backend/internal/security"
	"matrimony-backend/internal/service"
)

type AuthHandler struct {
	authSvc  *service.AuthService
	oauthSvc *service.OAuthService
	stateKey string
}

func NewAuthHandler(authSvc *service.AuthService, oauthSvc *service.OAuthService, stateKey string) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, oauthSvc: oauthSvc, stateKey: stateKey}
}

func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "send_otp", status, time.Since(start))
	}()

	var body struct {
		MobileNumber string `json:"mobileNumber"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		status = "failure"
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.authSvc.SendOTP(r.Context(), body.MobileNumber); err != nil {
		status = "failure"
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			observability.RecordOTPGenerated(r.Context(), "failure")
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		case errors.Is(err, otp.ErrDeliveryFailure):
			observability.Audit(r, "auth.otp.send.failed", "reason", "delivery")
			observability.RecordOTPGenerated(r.Context(), "failure")
			response.Error(w, r, http.StatusInternalServerError, "DELIVERY_FAILED", "failed to send otp", nil)
		default:
			observability.RecordOTPGenerated(r.Context(), "failure")
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to send otp", nil)
		}
		return
	}
	observability.Audit(r, "auth.otp.sent")
	observability.RecordOTPGenerated(r.Context(), "success")
	response.JSON(w, r, http.StatusOK, map[string]any{"success": true, "message": "OTP sent successfully"})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "verify_otp", status, time.Since(start))
	}()

	var body struct {
		MobileNumber string `json:"mobileNumber"`
		OTP          string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		status = "failure"
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if strings.TrimSpace(body.OTP) == "" {
		status = "failure"
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "otp is required", nil)
		return
	}
	result, err := h.authSvc.LoginWithOTP(r.Context(), body.MobileNumber, body.OTP)
	if err != nil {
		status = "failure"
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		case errors.Is(err, service.ErrInvalidOrExpiredOTP):
			observability.Audit(r, "auth.otp.verify.failed", "reason", "invalid_or_expired")
			observability.RecordOTPVerification(r.Context(), "failure")
			observability.RecordAuthLogin(r.Context(), "otp", "failure")
			response.Error(w, r, http.StatusBadRequest, "INVALID_OTP", "invalid or expired OTP", nil)
		default:
			observability.RecordAuthLogin(r.Context(), "otp", "failure")
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "otp verification failed", nil)
		}
		return
	}
	observability.Audit(r, "auth.login.success", "user_id", result.User.ID, "strategy", "otp")
	observability.RecordOTPVerification(r.Context(), "success")
	observability.RecordAuthLogin(r.Context(), "otp", "success")
	response.JSON(w, r, http.StatusOK, result)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "login", status, time.Since(start))
	}()

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		status = "failure"
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if strings.TrimSpace(body.Email) == "" || body.Password == "" {
		status = "failure"
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "email and password are required", nil)
		return
	}
	result, err := h.authSvc.LoginWithPassword(body.Email, body.Password)
	if err != nil {
		status = "failure"
		if errors.Is(err, service.ErrInvalidCredentials) {
			observability.Audit(r, "auth.login.failed", "strategy", "password")
			observability.RecordAuthLogin(r.Context(), "password", "failure")
			response.Error(w, r, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password", nil)
			return
		}
		observability.RecordAuthLogin(r.Context(), "password", "failure")
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "login failed", nil)
		return
	}
	observability.Audit(r, "auth.login.success", "user_id", result.User.ID, "strategy", "password")
	observability.RecordAuthLogin(r.Context(), "password", "success")
	response.JSON(w, r, http.StatusOK, result)
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "signup", status, time.Since(start))
	}()

	var body struct {
		FirstName   string `json:"firstName"`
		LastName    string `json:"lastName"`
		FullName    string `json:"fullName"`
		Email       string `json:"email"`
		Password    string `json:"password"`
		DateOfBirth string `json:"dateOfBirth"`
		Gender      string `json:"gender"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		status = "failure"
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}

	first, last := body.FirstName, body.LastName
	if first == "" && body.FullName != "" {
		first, last = splitName(body.FullName)
	}
	var dob time.Time
	if body.DateOfBirth != "" {
		parsed, err := parseDate(body.DateOfBirth)
		if err != nil {
			status = "failure"
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid dateOfBirth", nil)
			return
		}
		dob = parsed
	}

	result, err := h.authSvc.SignUp(service.SignUpInput{
		FirstName:   first,
		LastName:    last,
		Email:       body.Email,
		Password:    body.Password,
		DateOfBirth: dob,
		Gender:      body.Gender,
	})
	if err != nil {
		status = "failure"
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		case errors.Is(err, repository.ErrDuplicateIdentity):
			observability.Audit(r, "auth.signup.failed", "reason", "duplicate_email")
			response.Error(w, r, http.StatusBadRequest, "DUPLICATE_IDENTITY", "an account with this email already exists", nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "signup failed", nil)
		}
		return
	}
	observability.Audit(r, "auth.signup.success", "user_id", result.User.ID)
	observability.RecordAuthLogin(r.Context(), "password", "success")
	response.JSON(w, r, http.StatusCreated, result)
}

// GoogleAssert accepts a client-obtained provider assertion directly, for
// native apps that run the OAuth flow themselves.
func (h *AuthHandler) GoogleAssert(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "google_assert", status, time.Since(start))
	}()

	var body struct {
		GoogleID string `json:"googleId"`
		Email    string `json:"email"`
		FullName string `json:"fullName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		status = "failure"
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	result, err := h.authSvc.LoginWithGoogle(body.GoogleID, body.Email, body.FullName)
	if err != nil {
		status = "failure"
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			observability.RecordAuthLogin(r.Context(), "google", "failure")
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		case errors.Is(err, repository.ErrDuplicateIdentity):
			observability.Audit(r, "auth.google.failed", "reason", "duplicate_identity")
			observability.RecordAuthLogin(r.Context(), "google", "failure")
			response.Error(w, r, http.StatusBadRequest, "DUPLICATE_IDENTITY", "email already belongs to another account", nil)
		default:
			observability.RecordAuthLogin(r.Context(), "google", "failure")
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "google login failed", nil)
		}
		return
	}
	observability.Audit(r, "auth.login.success", "user_id", result.User.ID, "strategy", "google")
	observability.RecordAuthLogin(r.Context(), "google", "success")
	response.JSON(w, r, http.StatusOK, result)
}

func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "google_login", status, time.Since(start))
	}()

	state, err := security.NewRandomString(24)
	if err != nil {
		status = "failure"
		observability.Audit(r, "auth.google.login.failed", "reason", "state_generation")
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to generate oauth state", nil)
		return
	}
	url, err := h.oauthSvc.LoginURL(state)
	if err != nil {
		status = "failure"
		if errors.Is(err, service.ErrGoogleAuthDisabled) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "google login is not enabled", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to build login url", nil)
		return
	}
	signed := security.SignState(state, h.stateKey)
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    signed,
		Path:     "/auth/google",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   300,
	})
	observability.Audit(r, "auth.google.login.redirect")
	http.Redirect(w, r, url, http.StatusFound)
}

func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "google_callback", status, time.Since(start))
	}()

	queryState := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if queryState == "" || code == "" {
		status = "failure"
		observability.Audit(r, "auth.google.callback.failed", "reason", "missing_code_or_state")
		observability.RecordAuthLogin(r.Context(), "google", "failure")
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "missing state or code", nil)
		return
	}
	stateCookie := security.GetCookie(r, "oauth_state")
	state, ok := security.VerifySignedState(stateCookie, h.stateKey)
	if !ok || state != queryState {
		status = "failure"
		observability.Audit(r, "auth.google.callback.failed", "reason", "invalid_state")
		observability.RecordAuthLogin(r.Context(), "google", "failure")
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid oauth state", nil)
		return
	}
	// Invalidate one-time state immediately after successful verification.
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", Value: "", Path: "/auth/google", MaxAge: -1, HttpOnly: true, SameSite: http.SameSiteLaxMode})

	result, err := h.oauthSvc.HandleCallback(r.Context(), code)
	if err != nil {
		status = "failure"
		if errors.Is(err, repository.ErrDuplicateIdentity) {
			observability.Audit(r, "auth.google.callback.failed", "reason", "duplicate_identity")
			observability.RecordAuthLogin(r.Context(), "google", "failure")
			response.Error(w, r, http.StatusBadRequest, "DUPLICATE_IDENTITY", "email already belongs to another account", nil)
			return
		}
		observability.Audit(r, "auth.google.callback.failed", "reason", "oauth_exchange", "error", err.Error())
		observability.RecordAuthLogin(r.Context(), "google", "failure")
		response.Error(w, r, http.StatusUnauthorized, "OAUTH_FAILED", "google login failed", nil)
		return
	}
	observability.Audit(r, "auth.login.success", "user_id", result.User.ID, "strategy", "google")
	observability.RecordAuthLogin(r.Context(), "google", "success")
	response.JSON(w, r, http.StatusOK, result)
}

func splitName(fullName string) (first, last string) {
	fields := strings.Fields(fullName)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
