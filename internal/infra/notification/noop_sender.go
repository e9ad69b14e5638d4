package notification

import (
	"context"
	"log/slog"

	"geowatch/internal/domain/service"
)

// noopSender is a no-op implementation used when Firebase is not
// configured. Dispatch bookkeeping still runs; nothing leaves the process.
type noopSender struct {
	logger *slog.Logger
}

// NewNoopSender creates a push sender that drops every message.
func NewNoopSender(logger *slog.Logger) service.PushSender {
	return &noopSender{logger: logger}
}

func (s *noopSender) SendToTokens(ctx context.Context, tokens []string, msg *service.PushMessage) ([]service.SendResult, error) {
	s.logger.Debug("[NoopPush] Push delivery disabled, dropping message",
		slog.Int("tokens", len(tokens)),
		slog.String("title", msg.Title),
	)

	results := make([]service.SendResult, 0, len(tokens))
	for _, token := range tokens {
		results = append(results, service.SendResult{Token: token})
	}

	return results, nil
}
