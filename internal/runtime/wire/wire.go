// Package wire defines the message shapes exchanged with the signaling
// server and the codec helpers used to move them across a transport.
package wire

import (
	"fmt"

	"github.com/sigwire/sigwire/internal/runtime/jsoncodec"
)

// Negotiation is a session-description payload (offer or answer) riding
// alongside a signaling message. It is passed through opaquely.
type Negotiation struct {
	Type string `json:"type"`
	SDP  string `json:"sdp"`
}

// Negotiation type discriminators.
const (
	NegotiationOffer  = "offer"
	NegotiationAnswer = "answer"
)

// Body is the plugin-specific request payload of an outbound message.
type Body map[string]any

// InboundMessage is a server-pushed payload delivered by the transport.
// It is immutable once received: dispatchers and classifiers read it, they
// never modify it.
type InboundMessage struct {
	// CorrelationID links the message to a pending request. Absent on
	// unsolicited notifications.
	CorrelationID string `json:"correlation_id,omitempty"`

	// HandleID addresses the plugin handle this message belongs to.
	HandleID string `json:"handle_id,omitempty"`

	// Plugin is the namespace of the plugin that produced the payload.
	Plugin string `json:"plugin,omitempty"`

	Body *InboundBody `json:"body,omitempty"`

	Negotiation *Negotiation `json:"negotiation,omitempty"`
}

// InboundBody carries the plugin payload of an inbound message. Result and
// the error pair are mutually exclusive in practice, but the classifier does
// not assume so: its rule order decides.
type InboundBody struct {
	Result    map[string]any `json:"result,omitempty"`
	Error     string         `json:"error,omitempty"`
	ErrorCode int            `json:"error_code,omitempty"`
}

// HasResult reports whether the body carries a result object.
func (b *InboundBody) HasResult() bool {
	return b != nil && b.Result != nil
}

// HasError reports whether the body carries a server-reported error.
func (b *InboundBody) HasError() bool {
	return b != nil && (b.Error != "" || b.ErrorCode != 0)
}

// OutboundMessage is a request sent to the signaling server.
type OutboundMessage struct {
	CorrelationID string       `json:"correlation_id"`
	HandleID      string       `json:"handle_id,omitempty"`
	Plugin        string       `json:"plugin,omitempty"`
	Body          Body         `json:"body,omitempty"`
	Negotiation   *Negotiation `json:"negotiation,omitempty"`
}

// EncodeOutbound serializes an outbound message for the transport.
func EncodeOutbound(msg *OutboundMessage) ([]byte, error) {
	data, err := jsoncodec.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("sigwire: encode outbound message: %w", err)
	}
	return data, nil
}

// DecodeInbound parses a raw transport payload into an InboundMessage.
func DecodeInbound(data []byte) (*InboundMessage, error) {
	var msg InboundMessage
	if err := jsoncodec.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("sigwire: decode inbound message: %w", err)
	}
	return &msg, nil
}
