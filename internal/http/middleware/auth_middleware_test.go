package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"matrimony-backend/internal/security"
)

func newAuthTestJWT() *security.JWTManager {
	return security.NewJWTManager("matrimony-backend", "matrimony-clients", "test-secret-at-least-32-bytes-long!!")
}

func protectedEcho(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			t.Fatal("expected claims on context")
		}
		w.Header().Set("X-User-ID", strconv.FormatUint(uint64(uid), 10))
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddlewareAcceptsValidBearer(t *testing.T) {
	jwtMgr := newAuthTestJWT()
	token, err := jwtMgr.Sign(7, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	h := AuthMiddleware(jwtMgr)(protectedEcho(t))
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-User-ID") != "7" {
		t.Fatalf("expected user id 7, got %q", rec.Header().Get("X-User-ID"))
	}
}

func TestAuthMiddlewareRejections(t *testing.T) {
	jwtMgr := newAuthTestJWT()
	other := security.NewJWTManager("matrimony-backend", "matrimony-clients", "another-secret-also-32-bytes-long!!!")
	forged, err := other.Sign(7, time.Hour)
	if err != nil {
		t.Fatalf("sign forged: %v", err)
	}
	expired, err := jwtMgr.Sign(7, -time.Minute)
	if err != nil {
		t.Fatalf("sign expired: %v", err)
	}

	h := AuthMiddleware(jwtMgr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without valid token")
	}))

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong signature", "Bearer " + forged},
		{"expired", "Bearer " + expired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/profile", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}
