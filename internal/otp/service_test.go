package otp

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type recordingSender struct {
	lastMobile string
	lastCode   string
	err        error
}

func (s *recordingSender) SendCode(_ context.Context, mobile, code string) error {
	if s.err != nil {
		return s.err
	}
	s.lastMobile = mobile
	s.lastCode = code
	return nil
}

func newServiceForTest(t *testing.T) (*Service, *recordingSender, *miniredis.Miniredis) {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	sender := &recordingSender{}
	store := NewRedisStore(client, "otp", 6, 5*time.Minute)
	return NewService(store, sender, 6), sender, m
}

func TestServiceGenerateThenVerify(t *testing.T) {
	svc, sender, _ := newServiceForTest(t)
	ctx := context.Background()

	if err := svc.Generate(ctx, "+919876543210"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(sender.lastCode) != 6 {
		t.Fatalf("expected a 6-digit code to be dispatched, got %q", sender.lastCode)
	}
	if sender.lastMobile != "+919876543210" {
		t.Fatalf("dispatched to wrong number: %q", sender.lastMobile)
	}

	ok, err := svc.Verify(ctx, "+919876543210", sender.lastCode)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("expected dispatched code to verify")
	}

	ok, err = svc.Verify(ctx, "+919876543210", sender.lastCode)
	if err != nil {
		t.Fatalf("second verify: %v", err)
	}
	if ok {
		t.Fatal("expected code to verify at most once")
	}
}

func TestServiceRegenerateInvalidatesPriorCode(t *testing.T) {
	svc, sender, _ := newServiceForTest(t)
	ctx := context.Background()

	if err := svc.Generate(ctx, "+919876543210"); err != nil {
		t.Fatalf("generate first: %v", err)
	}
	first := sender.lastCode
	if err := svc.Generate(ctx, "+919876543210"); err != nil {
		t.Fatalf("generate second: %v", err)
	}
	second := sender.lastCode

	if first != second {
		ok, err := svc.Verify(ctx, "+919876543210", first)
		if err != nil {
			t.Fatalf("verify stale: %v", err)
		}
		if ok {
			t.Fatal("expected regenerated code to invalidate the prior one")
		}
	}
	ok, err := svc.Verify(ctx, "+919876543210", second)
	if err != nil {
		t.Fatalf("verify current: %v", err)
	}
	if !ok {
		t.Fatal("expected latest code to verify")
	}
}

func TestServiceGenerateWrapsDeliveryFailure(t *testing.T) {
	svc, sender, _ := newServiceForTest(t)
	sender.err = errors.New("sms gateway down")

	err := svc.Generate(context.Background(), "+919876543210")
	if !errors.Is(err, ErrDeliveryFailure) {
		t.Fatalf("expected ErrDeliveryFailure, got %v", err)
	}
}

func TestServiceVerifyAfterExpiry(t *testing.T) {
	svc, sender, m := newServiceForTest(t)
	ctx := context.Background()

	if err := svc.Generate(ctx, "+919876543210"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	m.FastForward(6 * time.Minute)

	ok, err := svc.Verify(ctx, "+919876543210", sender.lastCode)
	if err != nil {
		t.Fatalf("verify expired: %v", err)
	}
	if ok {
		t.Fatal("expected expired code to be rejected")
	}
}
