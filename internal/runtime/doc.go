// Package runtime contains the session engine behind the public sigwire
// facade: transport wiring, the inbound dispatch router, plugin handles,
// and the transaction registry that correlates requests with responses.
//
// The flow is deliberately narrow. A Session subscribes to the event topic
// and funnels every inbound message through dispatch, which routes it to the
// addressed Handle (or broadcasts it when the message carries no handle id).
// The Handle asks its plugin classifier to interpret the message, then the
// correlation id decides the path: settle the owning transaction, or emit
// the normalized event to subscribers. A transaction settles exactly once;
// duplicate server messages are no-ops.
//
// Subpackages hold the leaf concerns: config, errors, events, ids,
// jsoncodec, logging, transaction, and wire. Consumers should import the
// root sigwire package instead of this one.
package runtime
