package sigwire

import (
	runtimepkg "github.com/sigwire/sigwire/internal/runtime"
	configpkg "github.com/sigwire/sigwire/internal/runtime/config"
	errspkg "github.com/sigwire/sigwire/internal/runtime/errors"
	"github.com/sigwire/sigwire/internal/runtime/events"
	idspkg "github.com/sigwire/sigwire/internal/runtime/ids"
	jsoncodec "github.com/sigwire/sigwire/internal/runtime/jsoncodec"
	loggingpkg "github.com/sigwire/sigwire/internal/runtime/logging"
	"github.com/sigwire/sigwire/internal/runtime/wire"
	pluginpkg "github.com/sigwire/sigwire/plugin"
	transportpkg "github.com/sigwire/sigwire/transport"
)

type (
	Config              = configpkg.Config
	Session             = runtimepkg.Session
	SessionDependencies = runtimepkg.SessionDependencies
	Handle              = runtimepkg.Handle
	SignalMetrics       = runtimepkg.SignalMetrics

	LogFields     = loggingpkg.LogFields
	ServiceLogger = loggingpkg.ServiceLogger

	// Event surface
	EventTag     = events.Tag
	EventPayload = events.Payload
	Event        = events.Normalized
	EventHandler = events.Handler
	Subscription = events.Subscription

	// Plugin surface
	Classifier     = pluginpkg.Classifier
	PluginRegistry = pluginpkg.Registry

	// Wire shapes
	InboundMessage  = wire.InboundMessage
	InboundBody     = wire.InboundBody
	OutboundMessage = wire.OutboundMessage
	RequestBody     = wire.Body
	Negotiation     = wire.Negotiation

	// Typed errors
	ValidationError           = errspkg.ValidationError
	ProtocolError             = errspkg.ProtocolError
	UnexpectedResponseError   = errspkg.UnexpectedResponseError
	DuplicateTransactionError = errspkg.DuplicateTransactionError
	HandleDetachedError       = errspkg.HandleDetachedError

	// Modular transport types
	Transport             = transportpkg.Transport
	TransportBuilder      = transportpkg.Builder
	TransportConfig       = transportpkg.Config
	TransportRegistry     = transportpkg.Registry
	TransportCapabilities = transportpkg.Capabilities
)

// Public event vocabulary: the stable subset of the internal taxonomy
// surfaced to consumers. Plugin packages export their full native tag sets.
const (
	EventError              = events.TagError
	EventIncomingCall       = events.TagIncomingCall
	EventRegistered         = events.TagRegistered
	EventUnregistered       = events.TagUnregistered
	EventHangup             = events.TagHangup
	EventRegistrationFailed = events.TagRegistrationFailed
)

var (
	NewSession     = runtimepkg.NewSession
	TryNewSession  = runtimepkg.TryNewSession
	ValidateConfig = configpkg.ValidateConfig

	NewSignalMetrics = runtimepkg.NewSignalMetrics

	NewSlogServiceLogger      = loggingpkg.NewSlogServiceLogger
	NewWatermillServiceLogger = loggingpkg.NewWatermillServiceLogger
	NewWatermillAdapter       = loggingpkg.NewWatermillAdapter
	NopLogger                 = loggingpkg.NopLogger

	NewCorrelationID = idspkg.NewCorrelationID

	// Plugin registry
	// Import individual plugins via: _ "github.com/sigwire/sigwire/plugin/sip"
	DefaultPluginRegistry = pluginpkg.DefaultRegistry
	RegisterPlugin        = pluginpkg.Register
	LookupPlugin          = pluginpkg.Lookup

	// Modular transport registry
	// Import individual transports via: _ "github.com/sigwire/sigwire/transport/nats"
	DefaultTransportRegistry = transportpkg.DefaultRegistry
	RegisterTransport        = transportpkg.Register
	BuildTransport           = transportpkg.Build
	GetCapabilities          = transportpkg.GetCapabilities

	Marshal       = jsoncodec.Marshal
	MarshalIndent = jsoncodec.MarshalIndent
	Unmarshal     = jsoncodec.Unmarshal
	Encode        = jsoncodec.Encode
	Decode        = jsoncodec.Decode

	ErrSessionRequired       = errspkg.ErrSessionRequired
	ErrHandleRequired        = errspkg.ErrHandleRequired
	ErrClassifierRequired    = errspkg.ErrClassifierRequired
	ErrPublisherRequired     = errspkg.ErrPublisherRequired
	ErrTopicRequired         = errspkg.ErrTopicRequired
	ErrConfigRequired        = errspkg.ErrConfigRequired
	ErrLoggerRequired        = errspkg.ErrLoggerRequired
	ErrCorrelationIDRequired = errspkg.ErrCorrelationIDRequired
)
