package security

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Stronger#Pass123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("unexpected hash format: %q", hash)
	}
	if strings.Contains(hash, "Stronger#Pass123") {
		t.Fatal("hash must not embed the plaintext")
	}
	ok, err := VerifyPassword(hash, "Stronger#Pass123")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !ok {
		t.Fatal("expected password verification success")
	}
	ok, err = VerifyPassword(hash, "wrong-pass")
	if err != nil {
		t.Fatalf("verify wrong password errored: %v", err)
	}
	if ok {
		t.Fatal("expected password verification failure")
	}
}

func TestHashPasswordSaltsEveryCall(t *testing.T) {
	h1, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("hash first: %v", err)
	}
	h2, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("hash second: %v", err)
	}
	if h1 == h2 {
		t.Fatal("expected distinct salts to produce distinct hashes")
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	for _, encoded := range []string{"", "not-a-hash", "$argon2id$v=19$broken"} {
		if _, err := VerifyPassword(encoded, "whatever"); err == nil {
			t.Fatalf("expected error for malformed hash %q", encoded)
		}
	}
}
