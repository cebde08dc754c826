// Package channel provides an in-memory Go channel transport for sigwire.
// This transport is useful for testing and for embedding a signaling peer in
// the same process.
package channel

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/sigwire/sigwire/transport"
)

// TransportName is the name used to register this transport.
const TransportName = "channel"

// Factory allows overriding the channel creation for testing.
var Factory = func(cfg gochannel.Config, logger watermill.LoggerAdapter) (message.Publisher, message.Subscriber) {
	pubSub := gochannel.NewGoChannel(cfg, logger)
	return pubSub, pubSub
}

func init() {
	transport.RegisterWithCapabilities(TransportName, Build, transport.ChannelCapabilities)
}

// Build creates a new Go channel transport.
func Build(ctx context.Context, cfg transport.Config, logger watermill.LoggerAdapter) (transport.Transport, error) {
	pub, sub := Factory(gochannel.Config{}, logger)
	return transport.Transport{
		Publisher:  pub,
		Subscriber: sub,
	}, nil
}

// Capabilities returns the capabilities of this transport.
func Capabilities() transport.Capabilities {
	return transport.ChannelCapabilities
}

// NewLoopback builds a transport pair sharing one in-memory pub/sub: the
// first is handed to the session, the second to an in-process signaling peer
// (typically a test gateway). Messages published by either side are delivered
// to the other's subscriptions.
func NewLoopback(logger watermill.LoggerAdapter) (transport.Transport, transport.Transport) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, logger)
	t := transport.Transport{Publisher: pubSub, Subscriber: pubSub}
	return t, t
}
