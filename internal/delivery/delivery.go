// Package delivery defines the contract every transport (HTTP, etc.) implements.
package delivery

import "context"

// Delivery is a transport-level server that can be started by the application lifecycle.
type Delivery interface {
	// Serve blocks, serving requests until the server is shut down.
	Serve(ctx context.Context) error
}
