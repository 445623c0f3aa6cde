package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/resend/resend-go/v2"
)

// ResendSender delivers email through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
	now    func() time.Time
}

type resendConfig struct {
	httpClient *http.Client
	baseURL    *url.URL
}

// ResendOption configures a ResendSender.
type ResendOption func(*resendConfig)

// WithResendEndpoint points the sender at another API origin, such as a test server.
func WithResendEndpoint(hc *http.Client, base *url.URL) ResendOption {
	return func(c *resendConfig) {
		c.httpClient = hc
		c.baseURL = base
	}
}

// NewResendSender builds a sender that uses from when a request leaves From empty.
// PRE: apiKey is a Resend API key
// POST: Returns a ready-to-use sender
func NewResendSender(apiKey, from string, opts ...ResendOption) *ResendSender {
	var cfg resendConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	client := resend.NewClient(apiKey)
	if cfg.httpClient != nil {
		client = resend.NewCustomClient(cfg.httpClient, apiKey)
	}
	if cfg.baseURL != nil {
		client.BaseURL = cfg.baseURL
	}
	return &ResendSender{client: client, from: from, now: time.Now}
}

// Send hands one email to Resend.
// PRE: req has at least one recipient
// POST: Returns the Resend message ID once the API accepts the email
func (s *ResendSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	if len(req.To) == 0 {
		return SendResult{}, errors.New("resend send: no recipients")
	}
	from := req.From
	if from == "" {
		from = s.from
	}

	params := &resend.SendEmailRequest{
		From:    from,
		To:      req.To,
		Subject: req.Subject,
		Html:    req.HTML,
		ReplyTo: req.ReplyTo,
		Tags:    resendTags(req.Tags),
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		slog.Error("email_event", "event", "resend_send_failed", "error", err, "to_count", len(req.To))
		return SendResult{}, fmt.Errorf("resend send: %w", err)
	}

	slog.Info("email_event", "event", "resend_sent", "message_id", sent.Id, "to_count", len(req.To))
	return SendResult{MessageID: sent.Id, SentAt: s.now()}, nil
}

// resendTags converts tags into Resend's list form, ordered by name.
func resendTags(tags map[string]string) []resend.Tag {
	if len(tags) == 0 {
		return nil
	}
	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]resend.Tag, 0, len(names))
	for _, name := range names {
		out = append(out, resend.Tag{Name: name, Value: tags[name]})
	}
	return out
}
