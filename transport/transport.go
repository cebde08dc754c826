// Package transport defines the core interfaces and types for sigwire
// signaling transports. Each transport implementation (channel, nats, http)
// lives in its own sub-package and registers itself with the transport
// registry.
package transport

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Transport combines the publisher carrying outbound requests and the
// subscriber delivering inbound signaling messages.
type Transport struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
}

// Close shuts both sides of the transport down.
func (t Transport) Close() error {
	var firstErr error
	if t.Publisher != nil {
		if err := t.Publisher.Close(); err != nil {
			firstErr = err
		}
	}
	if t.Subscriber != nil {
		if err := t.Subscriber.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Builder is the function signature for creating a transport from config.
// Each transport package should provide a Builder function that can be
// registered.
type Builder func(ctx context.Context, cfg Config, logger watermill.LoggerAdapter) (Transport, error)

// Config provides the configuration values needed by transports. The
// interface lets transports access only the keys they need without depending
// on the full config package.
type Config interface {
	// GetTransport returns the transport type name.
	GetTransport() string

	// NATS
	GetNATSURL() string

	// HTTP
	GetHTTPServerAddress() string
	GetHTTPPublisherURL() string
}

// CapabilitiesProvider is implemented by transports that can report their
// capabilities.
type CapabilitiesProvider interface {
	Capabilities() Capabilities
}
