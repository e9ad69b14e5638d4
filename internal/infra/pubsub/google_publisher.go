package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"geowatch/internal/domain/constants"
	"geowatch/internal/domain/service"

	"cloud.google.com/go/pubsub/v2"
	pubsubpb "cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"github.com/pkg/errors"
)

// googlePubSubPublisher implements EventPublisher using Google Cloud Pub/Sub.
// Location and relay events go to separate topics so the worker's two push
// subscriptions stay independent.
type googlePubSubPublisher struct {
	client            *pubsub.Client
	locationPublisher *pubsub.Publisher
	relayPublisher    *pubsub.Publisher
	logger            *slog.Logger
}

// NewGooglePubSubPublisher creates a new Google Pub/Sub publisher
func NewGooglePubSubPublisher(ctx context.Context, projectID, locationTopic, relayTopic string, logger *slog.Logger) (service.EventPublisher, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Check that both topics exist using TopicAdminClient
	for _, topicID := range []string{locationTopic, relayTopic} {
		topicPath := fmt.Sprintf("projects/%s/topics/%s", projectID, topicID)
		if _, err := client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{
			Topic: topicPath,
		}); err != nil {
			client.Close()

			return nil, errors.Wrapf(err, "failed to get topic %s", topicID)
		}
	}

	logger.Info("Google Pub/Sub publisher initialized",
		slog.String("project_id", projectID),
		slog.String("location_topic", locationTopic),
		slog.String("relay_topic", relayTopic),
	)

	return &googlePubSubPublisher{
		client:            client,
		locationPublisher: client.Publisher(locationTopic),
		relayPublisher:    client.Publisher(relayTopic),
		logger:            logger,
	}, nil
}

// PublishLocationEvent publishes a location event to the location topic
func (p *googlePubSubPublisher) PublishLocationEvent(ctx context.Context, event *service.LocationEvent) error {
	return p.publish(ctx, p.locationPublisher, constants.EventTypeLocation, event.RequestID, event.DeviceKey, event)
}

// PublishRelayEvent publishes a relay-state event to the relay topic
func (p *googlePubSubPublisher) PublishRelayEvent(ctx context.Context, event *service.RelayEvent) error {
	return p.publish(ctx, p.relayPublisher, constants.EventTypeRelay, event.RequestID, event.DeviceKey, event)
}

func (p *googlePubSubPublisher) publish(ctx context.Context, publisher *pubsub.Publisher, eventType, requestID, deviceKey string, event any) error {
	// Serialize the event to JSON
	data, err := json.Marshal(event)
	if err != nil {
		return errors.WithStack(err)
	}

	// Create Pub/Sub message with attributes for routing and tracing
	attributes := map[string]string{
		constants.AttrEventType: eventType,
		"device_key":            deviceKey,
	}
	if requestID != "" {
		attributes["request_id"] = requestID
	}

	msg := &pubsub.Message{
		Data:       data,
		Attributes: attributes,
	}

	p.logger.Info("[GooglePubSub] Publishing event",
		slog.String("event_type", eventType),
		slog.String("device_key", deviceKey),
	)

	// Publish message
	result := publisher.Publish(ctx, msg)

	// Wait for publish result
	serverID, err := result.Get(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	p.logger.Info("[GooglePubSub] Event published successfully",
		slog.String("event_type", eventType),
		slog.String("device_key", deviceKey),
		slog.String("server_id", serverID),
	)

	return nil
}

// Close releases Pub/Sub client resources
func (p *googlePubSubPublisher) Close() error {
	if p.locationPublisher != nil {
		p.locationPublisher.Stop()
	}
	if p.relayPublisher != nil {
		p.relayPublisher.Stop()
	}
	if p.client != nil {
		return errors.WithStack(p.client.Close())
	}

	return nil
}
