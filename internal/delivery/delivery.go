// Package delivery defines the entry points that serve the application.
package delivery

import "context"

// Delivery is implemented by every server the application can run.
type Delivery interface {
	// Serve starts the server and blocks until it stops.
	Serve(ctx context.Context) error
}
