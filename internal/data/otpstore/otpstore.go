package otpstore

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// CodeTTL is how long an issued code stays verifiable.
	CodeTTL = 5 * time.Minute
	// ResendCooldown is the minimum gap between two codes for one phone.
	ResendCooldown = 60 * time.Second
	// MaxAttempts caps verification attempts per issued code.
	MaxAttempts = 5

	codeDigits = 6
)

var (
	ErrResendTooSoon    = errors.New("resend not available yet")
	ErrCodeNotFound     = errors.New("code not found")
	ErrCodeExpired      = errors.New("code expired")
	ErrCodeMismatch     = errors.New("code mismatch")
	ErrAttemptsExceeded = errors.New("attempts exceeded")
)

type entry struct {
	code              string
	expiresAt         time.Time
	attempts          int
	resendAvailableAt time.Time
}

// Ledger issues and verifies one-time codes per phone number.
type Ledger interface {
	// RequestCode issues a fresh code for the phone, replacing any previous
	// one. The returned code goes to the SMS provider only and must never
	// be logged or exposed to the caller of the API.
	RequestCode(phone string) (code string, ttl, resendIn time.Duration, err error)
	// VerifyCode checks a submitted code. Success consumes the entry, so a
	// code can verify at most once per issuance.
	VerifyCode(phone, code string) error
	// Invalidate drops any pending code for the phone.
	Invalidate(phone string)
}

type ledger struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
	log     *zap.Logger
}

func NewLedger(log *zap.Logger) Ledger {
	return &ledger{
		entries: make(map[string]*entry),
		now:     time.Now,
		log:     log.With(zap.String("component", "otp_ledger")),
	}
}

func (l *ledger) RequestCode(phone string) (string, time.Duration, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	if existing, ok := l.entries[phone]; ok && now.Before(existing.resendAvailableAt) {
		l.log.Warn("OTP resend refused by cooldown", zap.String("phone", phone))
		return "", 0, 0, ErrResendTooSoon
	}

	code, err := generateCode()
	if err != nil {
		return "", 0, 0, fmt.Errorf("generate code: %w", err)
	}

	l.entries[phone] = &entry{
		code:              code,
		expiresAt:         now.Add(CodeTTL),
		attempts:          0,
		resendAvailableAt: now.Add(ResendCooldown),
	}

	l.log.Info("OTP issued", zap.String("phone", phone))

	return code, CodeTTL, ResendCooldown, nil
}

func (l *ledger) VerifyCode(phone, code string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[phone]
	if !ok {
		return ErrCodeNotFound
	}

	now := l.now()

	if now.After(e.expiresAt) {
		delete(l.entries, phone)
		return ErrCodeExpired
	}

	// Checked before consuming another attempt: once the budget is spent
	// even the correct code is refused until the entry expires or is
	// replaced.
	if e.attempts >= MaxAttempts {
		l.log.Warn("OTP attempt budget exhausted", zap.String("phone", phone))
		return ErrAttemptsExceeded
	}

	e.attempts++

	if e.code != code {
		return ErrCodeMismatch
	}

	delete(l.entries, phone)
	return nil
}

func (l *ledger) Invalidate(phone string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.entries, phone)
}

// generateCode returns a uniformly random 6-digit code, leading zeros
// included.
func generateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < codeDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%0*d", codeDigits, n), nil
}
