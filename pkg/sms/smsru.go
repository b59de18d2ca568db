package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const (
	smsRuEndpoint = "https://sms.ru/sms/send"

	// delivery status in the per-message block meaning "queued ok"
	smsRuAccepted = 100
)

type smsRuResponse struct {
	Status     string `json:"status"`
	StatusCode int    `json:"status_code"`
	StatusText string `json:"status_text"`
	SMS        map[string]struct {
		Status     int    `json:"status"`
		StatusText string `json:"status_text"`
		SMSID      string `json:"sms_id"`
	} `json:"sms"`
}

// SmsRuProvider sends codes through the sms.ru HTTP API.
type SmsRuProvider struct {
	apiKey string
	client *http.Client
	log    *zap.Logger
}

func NewSmsRuProvider(apiKey string, log *zap.Logger) *SmsRuProvider {
	return &SmsRuProvider{
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log.With(zap.String("component", "smsru")),
	}
}

func (p *SmsRuProvider) SendCode(ctx context.Context, phone, code string, ttlSeconds int) error {
	params := url.Values{}
	params.Set("api_id", p.apiKey)
	params.Set("to", phone)
	params.Set("msg", fmt.Sprintf("Код авторизации: %s. Срок действия %d мин.", code, ttlSeconds/60))
	params.Set("json", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, smsRuEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build sms.ru request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Error("sms.ru request failed", zap.Error(err), zap.String("phone", phone))
		return fmt.Errorf("send SMS: %w", err)
	}
	defer resp.Body.Close()

	var body smsRuResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode sms.ru response: %w", err)
	}

	if body.Status != "OK" {
		p.log.Warn("sms.ru rejected message",
			zap.String("phone", phone),
			zap.String("status_text", body.StatusText),
		)
		return fmt.Errorf("sms.ru: %s", body.StatusText)
	}

	for _, msg := range body.SMS {
		if msg.Status != smsRuAccepted {
			p.log.Warn("sms.ru delivery not accepted",
				zap.String("phone", phone),
				zap.String("status_text", msg.StatusText),
			)
			return fmt.Errorf("sms.ru: %s", msg.StatusText)
		}

		p.log.Info("SMS queued",
			zap.String("phone", phone),
			zap.String("sms_id", msg.SMSID),
		)
		return nil
	}

	return fmt.Errorf("sms.ru: empty response")
}
