// Package sip implements the SIP plugin binding for sigwire: the native
// event taxonomy, the message classifier, and the request surface
// (register, call, accept, decline, hangup, DTMF).
package sip

import (
	"github.com/sigwire/sigwire/internal/runtime/events"
	"github.com/sigwire/sigwire/plugin"
)

// Namespace is the plugin namespace handled by this package.
const Namespace = "sigwire.plugin.sip"

// nativeEvents maps the SIP plugin's wire event tokens to the normalized
// taxonomy. The mapping is total over the documented vocabulary; anything
// else falls through to the classifier's generic/error policy.
var nativeEvents = map[string]events.Tag{
	"incomingcall":        events.TagIncomingCall,
	"accepted":            events.TagAccepted,
	"hangingup":           events.TagHangingUp,
	"hangup":              events.TagHangup,
	"declining":           events.TagDeclining,
	"dtmfsent":            events.TagDTMFSent,
	"registering":         events.TagRegistering,
	"registered":          events.TagRegistered,
	"unregistering":       events.TagUnregistering,
	"unregistered":        events.TagUnregistered,
	"registration_failed": events.TagRegistrationFailed,
}

// MapNativeEvent translates a native wire event token into its normalized
// tag. It is pure: no state, no side effects. Unknown tokens return ok=false,
// leaving classification policy to the caller.
func MapNativeEvent(token string) (events.Tag, bool) {
	tag, ok := nativeEvents[token]
	return tag, ok
}

func init() {
	plugin.Register(NewClassifier())
}
