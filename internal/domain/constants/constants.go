// Package constants holds cross-layer configuration constants.
package constants

// Deployment environments.
const (
	EnvDevelop    = "develop"
	EnvProduction = "production"
)

// Pub/Sub provider types.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Pub/Sub message attribute carrying the event type, used by the worker
// to route push messages.
const (
	AttrEventType     = "event_type"
	EventTypeLocation = "location"
	EventTypeRelay    = "relay"
)
