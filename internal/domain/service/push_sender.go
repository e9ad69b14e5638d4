package service

import (
	"context"
)

// PushMessage is a rendered, transport-agnostic push notification. The
// title and body travel inside the data payload so the receiving app
// controls rendering; platform-level notification fields are not used.
type PushMessage struct {
	Title string
	Body  string
	Data  map[string]string
}

// SendResult is the per-token outcome of one fan-out delivery.
type SendResult struct {
	Token     string
	MessageID string
	Err       error
	// Invalid marks tokens the transport reported as unregistered or
	// malformed. Transient failures (network, throttling) are not invalid.
	Invalid bool
}

// PushSender defines the interface for push-delivery transports.
type PushSender interface {
	// SendToTokens delivers msg to every token independently: a failure on
	// one token never aborts delivery to the others. The returned slice has
	// one entry per input token, in order. The error return covers only
	// transport-level failures before any send was attempted.
	SendToTokens(ctx context.Context, tokens []string, msg *PushMessage) ([]SendResult, error)
}
