package security

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
)

// GetCookie returns the named cookie's value or "" when absent.
func GetCookie(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// NewRandomString returns n bytes of randomness, base64url-encoded.
func NewRandomString(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// SignState binds an OAuth state nonce to the server with an HMAC so the
// callback can reject states it did not mint.
func SignState(state, key string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(state))
	return state + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func VerifySignedState(signed, key string) (string, bool) {
	idx := strings.LastIndex(signed, ".")
	if idx <= 0 {
		return "", false
	}
	state, sig := signed[:idx], signed[idx+1:]
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(state))
	expected := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", false
	}
	return state, true
}
