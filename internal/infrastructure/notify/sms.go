package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
)

// SMSConfig points the SMS channel at an HTTP gateway.
type SMSConfig struct {
	GatewayURL string
	APIKey     string
	Sender     string
	Timeout    time.Duration
}

// SMSChannel posts text messages to an SMS gateway:
//
//	POST {GatewayURL}/messages {"from","to","body","reference"}
type SMSChannel struct {
	client *resty.Client
	sender string
}

type smsRequest struct {
	From      string `json:"from,omitempty"`
	To        string `json:"to"`
	Body      string `json:"body"`
	Reference string `json:"reference"`
}

type gatewayResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error"`
}

func NewSMSChannel(cfg SMSConfig) *SMSChannel {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.GatewayURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return &SMSChannel{client: client, sender: cfg.Sender}
}

func (c *SMSChannel) Name() string { return ChannelSMS }

func (c *SMSChannel) Supports(contact domain.EmergencyContact) bool {
	return strings.TrimSpace(contact.Phone) != ""
}

func (c *SMSChannel) Send(ctx context.Context, msg Message) error {
	var out gatewayResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(smsRequest{
			From:      c.sender,
			To:        msg.Contact.Phone,
			Body:      msg.Text(),
			Reference: msg.AlertID,
		}).
		SetResult(&out).
		SetError(&out).
		Post("/messages")
	if err != nil {
		return fmt.Errorf("sms gateway: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("sms gateway: status %d: %s", resp.StatusCode(), out.Error)
	}
	if strings.EqualFold(out.Status, "rejected") {
		return fmt.Errorf("sms gateway rejected message: %s", out.Error)
	}
	return nil
}
