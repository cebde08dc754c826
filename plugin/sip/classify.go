package sip

import (
	"github.com/sigwire/sigwire/internal/runtime/events"
	errspkg "github.com/sigwire/sigwire/internal/runtime/errors"
	"github.com/sigwire/sigwire/internal/runtime/wire"
)

// Classifier interprets inbound SIP plugin messages. Rules are evaluated in
// order, first match wins:
//
//  1. result with a mapped event token: that tag, data is the result fields
//     merged with any negotiation payload;
//  2. result with an unmapped event token: generic, a catch-all for responses
//     the taxonomy does not yet enumerate;
//  3. an error/error_code pair: error tag carrying a ProtocolError;
//  4. anything else: unhandled (nil).
//
// Named events outrank the generic fallback so plugin semantics are never
// masked by the catch-all; the error rule comes after the result rules so a
// message with an error body but no result still fails the waiting caller.
type Classifier struct{}

// NewClassifier returns the SIP message classifier.
func NewClassifier() *Classifier { return &Classifier{} }

// Namespace implements plugin.Classifier.
func (*Classifier) Namespace() string { return Namespace }

// Classify implements plugin.Classifier.
func (*Classifier) Classify(msg *wire.InboundMessage) *events.Normalized {
	if msg == nil {
		return nil
	}
	// Messages tagged with a foreign namespace were routed to the wrong
	// handle; that is the caller's concern, not this classifier's.
	if msg.Plugin != "" && msg.Plugin != Namespace {
		return nil
	}

	if msg.Body.HasResult() {
		result := msg.Body.Result
		if token, ok := result["event"].(string); ok {
			if tag, known := MapNativeEvent(token); known {
				return &events.Normalized{Tag: tag, Data: mergeResult(result, msg.Negotiation)}
			}
		}
		return &events.Normalized{Tag: events.TagGeneric, Data: events.Payload{"result": result}}
	}

	if msg.Body.HasError() {
		return &events.Normalized{
			Tag: events.TagError,
			Err: &errspkg.ProtocolError{Code: msg.Body.ErrorCode, Reason: msg.Body.Error},
		}
	}

	return nil
}

// mergeResult copies the result fields and attaches the negotiation payload,
// leaving the inbound message untouched.
func mergeResult(result map[string]any, negotiation *wire.Negotiation) events.Payload {
	data := make(events.Payload, len(result)+1)
	for k, v := range result {
		data[k] = v
	}
	if negotiation != nil {
		data["negotiation"] = negotiation
	}
	return data
}
