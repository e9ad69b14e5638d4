// Package lifecycle holds shared start/stop tuning for fx-managed
// components.
package lifecycle

import "time"

// DefaultTimeout bounds graceful startup checks and shutdowns.
const DefaultTimeout = 10 * time.Second
