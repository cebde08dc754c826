// Package plugin defines the classification contract a signaling plugin must
// implement and the registry through which plugins self-register. Each plugin
// implementation (sip, ...) should live in its own sub-package and register
// itself with the plugin registry.
package plugin

import (
	"github.com/sigwire/sigwire/internal/runtime/events"
	"github.com/sigwire/sigwire/internal/runtime/wire"
)

// Classifier is the per-plugin policy that interprets an inbound message.
//
// Classify returns nil when the message does not belong to the plugin's
// namespace; a nil result must propagate upward without side effects. The
// returned event carries TagError iff the server reported a failure, in which
// case the dispatcher settles the owning transaction as a rejection.
type Classifier interface {
	// Namespace returns the plugin namespace this classifier handles,
	// e.g. "sigwire.plugin.sip".
	Namespace() string

	// Classify inspects an inbound message and produces a normalized event,
	// or nil if the message is not recognized. It must not mutate msg.
	Classify(msg *wire.InboundMessage) *events.Normalized
}
