package otp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrDeliveryFailure wraps a failure of the external SMS channel. The code is
// not resent automatically; the client retries by requesting a new one.
var ErrDeliveryFailure = errors.New("otp delivery failed")

// Sender dispatches a generated code over an external channel.
type Sender interface {
	SendCode(ctx context.Context, mobile, code string) error
}

// Service generates, stores and verifies one-time passcodes keyed by mobile
// number.
type Service struct {
	store  *RedisStore
	sender Sender
	length int
}

func NewService(store *RedisStore, sender Sender, length int) *Service {
	return &Service{store: store, sender: sender, length: length}
}

// Generate creates a fresh code for mobile, stores it with the configured
// expiry (overwriting any pending code) and dispatches it. The code is stored
// before dispatch so a duplicate send of the same code is the worst case of a
// retry racing delivery.
func (s *Service) Generate(ctx context.Context, mobile string) error {
	code, err := NewCode(s.length)
	if err != nil {
		return err
	}
	if err := s.store.Put(ctx, mobile, code); err != nil {
		return err
	}
	if err := s.sender.SendCode(ctx, mobile, code); err != nil {
		return fmt.Errorf("%w: %w", ErrDeliveryFailure, err)
	}
	return nil
}

// Verify reports whether candidate is the live code for mobile, consuming it
// on success.
func (s *Service) Verify(ctx context.Context, mobile, candidate string) (bool, error) {
	return s.store.Consume(ctx, mobile, candidate)
}

// LogSender writes codes to the log instead of an SMS gateway. Development
// stand-in for the real delivery channel.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendCode(ctx context.Context, mobile, code string) error {
	s.logger.InfoContext(ctx, "otp code issued (dev sender)", "mobile", mobile, "code", code)
	return nil
}
