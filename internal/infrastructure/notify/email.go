package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
)

// EmailConfig points the email channel at a transactional mail API.
type EmailConfig struct {
	APIURL  string
	APIKey  string
	From    string
	Timeout time.Duration
}

// EmailChannel sends alerts through a JSON mail API:
//
//	POST {APIURL}/send {"from","to","subject","text"}
type EmailChannel struct {
	client *resty.Client
	from   string
}

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

func NewEmailChannel(cfg EmailConfig) *EmailChannel {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.APIURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetHeader("X-API-Key", cfg.APIKey)
	}

	return &EmailChannel{client: client, from: cfg.From}
}

func (c *EmailChannel) Name() string { return ChannelEmail }

func (c *EmailChannel) Supports(contact domain.EmergencyContact) bool {
	return strings.TrimSpace(contact.Email) != ""
}

func (c *EmailChannel) Send(ctx context.Context, msg Message) error {
	var out gatewayResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(emailRequest{
			From:    c.from,
			To:      []string{msg.Contact.Email},
			Subject: msg.Subject(),
			Text:    msg.Text(),
		}).
		SetError(&out).
		Post("/send")
	if err != nil {
		return fmt.Errorf("email api: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("email api: status %d: %s", resp.StatusCode(), out.Error)
	}
	return nil
}
