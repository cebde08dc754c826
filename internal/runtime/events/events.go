// Package events defines the normalized event vocabulary produced by plugin
// classifiers and the per-handle observer registry that broadcasts them.
package events

// Tag identifies a normalized event in the adapter's vocabulary.
type Tag string

// Full internal taxonomy. The root package re-exports the stable subset
// (error, incoming_call, registered, unregistered, hangup,
// registration_failed); the rest primarily settle request transactions.
const (
	TagError   Tag = "error"
	TagGeneric Tag = "generic"

	TagIncomingCall       Tag = "incoming_call"
	TagAccepted           Tag = "accepted"
	TagHangingUp          Tag = "hanging_up"
	TagHangup             Tag = "hangup"
	TagDeclining          Tag = "declining"
	TagDTMFSent           Tag = "dtmf_sent"
	TagRegistering        Tag = "registering"
	TagRegistered         Tag = "registered"
	TagUnregistering      Tag = "unregistering"
	TagUnregistered       Tag = "unregistered"
	TagRegistrationFailed Tag = "registration_failed"
)

// Payload is the attribute mapping carried by a non-error normalized event.
type Payload map[string]any

// Normalized is the classifier-produced representation of an inbound message,
// prior to the ownership decision. Err is non-nil only for TagError events;
// Data is nil in that case.
type Normalized struct {
	Tag  Tag
	Data Payload
	Err  error
}

// IsError reports whether the event carries a server-reported failure.
func (n *Normalized) IsError() bool {
	return n != nil && n.Tag == TagError
}
