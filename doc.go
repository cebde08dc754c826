// Package sigwire is a client library for plugin-based signaling gateways.
// It reconciles a request/response RPC pattern with an asynchronously
// delivered, multiplexed event stream arriving on one logical connection:
// every outgoing request gets a correlation id, and every inbound message is
// classified and then either settles the pending request that owns its id or
// is broadcast to subscribers as an unsolicited event. Each pending request
// resolves or rejects exactly once.
//
// A Session owns the connection. It reads the target transport (NATS, HTTP,
// or in-memory Go channels) from Config, builds a Watermill router for
// inbound dispatch, and hands out handles bound to plugin namespaces.
// Handles expose Subscribe for normalized event tags and Request for the
// raw request/await cycle; plugin packages wrap Request in a typed surface.
//
// # Plugins
//
// Plugin packages implement a Classifier that maps the plugin's native wire
// vocabulary onto normalized event tags and self-register on import:
//
//	_ "github.com/sigwire/sigwire/plugin/sip"
//
// The sip package additionally provides sip.Client, the typed SIP request
// surface (register, call, accept, decline, hangup, DTMF).
//
// # Transports
//
// Transports live under transport/ and self-register on import, mirroring
// the plugin pattern:
//   - channel: in-memory Go channels for testing and embedded peers
//   - nats: persistent bidirectional messaging with reconnect
//   - http: outbound POST plus a local webhook server
//
// Import the ones you need, or blank-import transport/transports for all of
// them. A minimal setup fills Config, creates a Session, attaches a handle,
// and calls Start; see README.md for a quick start snippet.
package sigwire
