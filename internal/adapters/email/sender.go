package email

import (
	"context"
	"time"
)

// SendRequest is one outbound email.
type SendRequest struct {
	To      []string // Student addresses
	From    string   // e.g. "Mergington Activities <activities@mergington.edu>"; empty uses the sender default
	Subject string
	HTML    string
	ReplyTo string
	// Tags label the message at the provider. Values may only hold ASCII letters, digits, '_' and '-'.
	Tags map[string]string
}

// SendResult is what the provider reported back.
type SendResult struct {
	MessageID string    // Provider's message ID for tracking
	SentAt    time.Time // When the send was accepted
}

// Sender delivers emails through an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
