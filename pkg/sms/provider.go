package sms

import "context"

// Provider delivers one-time codes out-of-band. Implementations report
// delivery failure as an error; the caller decides how to surface it.
type Provider interface {
	SendCode(ctx context.Context, phone, code string, ttlSeconds int) error
}
