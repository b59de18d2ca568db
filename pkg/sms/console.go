package sms

import (
	"context"

	"go.uber.org/zap"
)

// ConsoleProvider is the development fallback used when no sms.ru API
// key is configured. The code is written at debug level only, so
// production log levels never capture it.
type ConsoleProvider struct {
	log *zap.Logger
}

func NewConsoleProvider(log *zap.Logger) *ConsoleProvider {
	return &ConsoleProvider{
		log: log.With(zap.String("component", "sms_console")),
	}
}

func (p *ConsoleProvider) SendCode(ctx context.Context, phone, code string, ttlSeconds int) error {
	p.log.Debug("OTP delivery (console)",
		zap.String("phone", phone),
		zap.String("code", code),
		zap.Int("ttl_seconds", ttlSeconds),
	)
	return nil
}
