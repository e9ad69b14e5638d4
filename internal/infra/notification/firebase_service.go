package notification

import (
	"context"
	"fmt"

	"geowatch/internal/domain/service"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

const maxTokensPerSend = 500

type firebaseService struct {
	client *messaging.Client
}

// NewFirebaseService creates a new Firebase push sender instance
func NewFirebaseService(ctx context.Context, credentialsPath string) (service.PushSender, error) {
	opt := option.WithCredentialsFile(credentialsPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	return &firebaseService{
		client: client,
	}, nil
}

// SendToTokens delivers a data-only message to each token independently.
// Title and body ride in the data payload so the app renders the
// notification itself; the platform blocks carry only wake-up hints.
func (s *firebaseService) SendToTokens(ctx context.Context, tokens []string, msg *service.PushMessage) ([]service.SendResult, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	// Firebase limits to 500 tokens per request
	if len(tokens) > maxTokensPerSend {
		return nil, fmt.Errorf("token count exceeds limit: %d (max %d)", len(tokens), maxTokensPerSend)
	}

	messages := make([]*messaging.Message, 0, len(tokens))
	for _, token := range tokens {
		messages = append(messages, &messaging.Message{
			Token: token,
			Data:  buildDataPayload(msg),
			Android: &messaging.AndroidConfig{
				Priority: "high",
			},
			APNS: &messaging.APNSConfig{
				Payload: &messaging.APNSPayload{
					Aps: &messaging.Aps{
						ContentAvailable: true,
					},
				},
			},
		})
	}

	response, err := s.client.SendEach(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("failed to send push messages: %w", err)
	}

	results := make([]service.SendResult, 0, len(tokens))
	for idx, sendResponse := range response.Responses {
		result := service.SendResult{
			Token:     tokens[idx],
			MessageID: sendResponse.MessageID,
			Err:       sendResponse.Error,
		}
		if sendResponse.Error != nil {
			// Unregistered and malformed tokens are pruned by the caller;
			// transient failures are not.
			result.Invalid = messaging.IsUnregistered(sendResponse.Error) ||
				messaging.IsInvalidArgument(sendResponse.Error)
		}
		results = append(results, result)
	}

	return results, nil
}

func buildDataPayload(msg *service.PushMessage) map[string]string {
	data := make(map[string]string, len(msg.Data)+2)
	for key, value := range msg.Data {
		data[key] = value
	}
	data["title"] = msg.Title
	data["body"] = msg.Body

	return data
}
