package transport

// Capabilities describes the delivery guarantees of a signaling transport.
// The session core assumes in-order delivery; use this to check a backend
// before wiring it in.
type Capabilities struct {
	// Name is the human-readable name of the transport.
	Name string

	// SupportsOrdering indicates the transport preserves message order.
	// Transaction settlement relies on requests observing responses that
	// arrived after them, so unordered transports need external sequencing.
	SupportsOrdering bool

	// Persistent indicates the transport holds a long-lived connection to
	// the signaling server rather than dialing per message.
	Persistent bool

	// Bidirectional indicates requests and events share one connection.
	Bidirectional bool

	// SupportsReconnect indicates the transport re-establishes a dropped
	// connection by itself.
	SupportsReconnect bool
}

// Predefined capability sets for the built-in transports.
var (
	// ChannelCapabilities for the in-memory Go channel transport.
	ChannelCapabilities = Capabilities{
		Name:             "channel",
		SupportsOrdering: true,
		Persistent:       true,
		Bidirectional:    true,
	}

	// NATSCapabilities for the NATS transport.
	NATSCapabilities = Capabilities{
		Name:              "nats",
		SupportsOrdering:  true,
		Persistent:        true,
		Bidirectional:     true,
		SupportsReconnect: true,
	}

	// HTTPCapabilities for the HTTP transport.
	HTTPCapabilities = Capabilities{
		Name:             "http",
		SupportsOrdering: true,
	}
)
