package runtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"

	configpkg "github.com/sigwire/sigwire/internal/runtime/config"
	errspkg "github.com/sigwire/sigwire/internal/runtime/errors"
	loggingpkg "github.com/sigwire/sigwire/internal/runtime/logging"
	"github.com/sigwire/sigwire/internal/runtime/wire"
	pluginpkg "github.com/sigwire/sigwire/plugin"
	transportpkg "github.com/sigwire/sigwire/transport"
)

var routerRun = func(router *message.Router, ctx context.Context) error {
	return router.Run(ctx)
}

// SessionDependencies holds the optional collaborators a Session can use.
// Leave fields nil to get the defaults.
type SessionDependencies struct {
	// Transport supplies a pre-built transport pair, bypassing the registry.
	// Tests use this to share an in-memory pub/sub with a fake gateway.
	Transport *transportpkg.Transport

	// TransportRegistry overrides the registry used to build the transport
	// from config. Defaults to transport.DefaultRegistry.
	TransportRegistry *transportpkg.Registry

	// Plugins overrides the classifier registry consulted by Attach.
	// Defaults to plugin.DefaultRegistry.
	Plugins *pluginpkg.Registry

	// MetricsRegisterer receives the session's Prometheus collectors.
	// Defaults to prometheus.DefaultRegisterer.
	MetricsRegisterer prometheus.Registerer
}

// Session owns one signaling connection: the transport pair, the dispatch
// router, and the table of attached plugin handles. All inbound messages
// arrive through one router handler, so handles observe them in transport
// delivery order.
type Session struct {
	Conf   *configpkg.Config
	Logger loggingpkg.ServiceLogger

	publisher  message.Publisher
	subscriber message.Subscriber
	router     *message.Router
	metrics    *SignalMetrics
	plugins    *pluginpkg.Registry

	handles   map[string]*Handle
	handlesMu sync.RWMutex

	ownsTransport bool
}

// NewSession constructs a Session for the supplied configuration. Attach
// handles on the returned Session before calling Start. It panics when the
// session cannot be built; use TryNewSession to handle the error instead.
func NewSession(conf *configpkg.Config, log loggingpkg.ServiceLogger, ctx context.Context, deps SessionDependencies) *Session {
	s, err := TryNewSession(conf, log, ctx, deps)
	if err != nil {
		panic(err)
	}
	return s
}

// TryNewSession constructs a Session for the supplied configuration.
func TryNewSession(conf *configpkg.Config, log loggingpkg.ServiceLogger, ctx context.Context, deps SessionDependencies) (*Session, error) {
	if conf == nil {
		return nil, errspkg.ErrConfigRequired
	}
	if log == nil {
		return nil, errspkg.ErrLoggerRequired
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	wmLogger := loggingpkg.NewWatermillAdapter(log)
	log.Info("Creating signaling session", loggingpkg.LogFields{
		"transport": conf.GetTransport(),
		"config":    conf,
	})

	s := &Session{
		Conf:    conf,
		Logger:  log,
		plugins: deps.Plugins,
		handles: make(map[string]*Handle),
	}
	if s.plugins == nil {
		s.plugins = pluginpkg.DefaultRegistry
	}

	if deps.Transport != nil {
		s.publisher = deps.Transport.Publisher
		s.subscriber = deps.Transport.Subscriber
	} else {
		registry := deps.TransportRegistry
		if registry == nil {
			registry = transportpkg.DefaultRegistry
		}
		tr, err := registry.Build(ctx, conf, wmLogger)
		if err != nil {
			return nil, fmt.Errorf("sigwire: build transport: %w", err)
		}
		s.publisher = tr.Publisher
		s.subscriber = tr.Subscriber
		s.ownsTransport = true
	}

	s.metrics = NewSignalMetrics(deps.MetricsRegisterer)
	if err := s.metrics.Register(); err != nil {
		return nil, fmt.Errorf("sigwire: register metrics: %w", err)
	}

	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("sigwire: build router: %w", err)
	}
	router.AddMiddleware(middleware.Recoverer, logMessagesMiddleware(log))
	router.AddNoPublisherHandler(
		"signal_dispatch",
		conf.GetEventTopic(),
		s.subscriber,
		s.dispatch,
	)
	s.router = router

	return s, nil
}

// Attach binds a new handle to the plugin registered under namespace.
func (s *Session) Attach(namespace string) (*Handle, error) {
	classifier, err := s.plugins.Lookup(namespace)
	if err != nil {
		return nil, fmt.Errorf("sigwire: attach: %w", err)
	}

	h := newHandle(
		classifier,
		s.Logger,
		s.metrics,
		s.publishRequest,
		s.Conf.GetRequestTimeout(),
		s.removeHandle,
	)

	s.handlesMu.Lock()
	s.handles[h.ID()] = h
	s.handlesMu.Unlock()

	s.Logger.Info("handle attached", loggingpkg.LogFields{"handle_id": h.ID(), "plugin": namespace})
	return h, nil
}

// HandleCount reports the number of attached handles.
func (s *Session) HandleCount() int {
	s.handlesMu.RLock()
	defer s.handlesMu.RUnlock()
	return len(s.handles)
}

// Start runs the dispatch router until the provided context is cancelled.
func (s *Session) Start(ctx context.Context) error {
	return routerRun(s.router, ctx)
}

// Running is closed once the dispatch router is running and subscribed.
func (s *Session) Running() <-chan struct{} {
	return s.router.Running()
}

// Close detaches every handle, rejecting their pending transactions, and
// shuts the router and transport down.
func (s *Session) Close() error {
	s.handlesMu.RLock()
	handles := make([]*Handle, 0, len(s.handles))
	for _, h := range s.handles {
		handles = append(handles, h)
	}
	s.handlesMu.RUnlock()

	for _, h := range handles {
		h.Detach()
	}

	err := s.router.Close()
	if s.ownsTransport {
		tr := transportpkg.Transport{Publisher: s.publisher, Subscriber: s.subscriber}
		if cerr := tr.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// publishRequest encodes and publishes an outbound message on the request
// topic.
func (s *Session) publishRequest(ctx context.Context, out *wire.OutboundMessage) error {
	data, err := wire.EncodeOutbound(out)
	if err != nil {
		return err
	}

	msg := message.NewMessage(out.CorrelationID, data)
	msg.SetContext(ctx)
	return s.publisher.Publish(s.Conf.GetRequestTopic(), msg)
}

// dispatch routes one raw transport message to the handle it addresses.
// Messages without a handle id are offered to every attached handle; each
// classifier decides whether the message belongs to it. Undecodable or
// unrecognized messages are logged and dropped, never redelivered.
func (s *Session) dispatch(msg *message.Message) error {
	in, err := wire.DecodeInbound(msg.Payload)
	if err != nil {
		s.Logger.Error("dropping undecodable inbound message", err, loggingpkg.LogFields{"message_uuid": msg.UUID})
		return nil
	}

	if in.HandleID != "" {
		s.handlesMu.RLock()
		h, ok := s.handles[in.HandleID]
		s.handlesMu.RUnlock()
		if !ok {
			s.Logger.Debug("inbound message for unknown handle", loggingpkg.LogFields{"handle_id": in.HandleID})
			return nil
		}
		if ev := h.HandleMessage(in); ev == nil {
			s.Logger.Debug("handle did not recognize message", loggingpkg.LogFields{"handle_id": in.HandleID})
		}
		return nil
	}

	s.handlesMu.RLock()
	handles := make([]*Handle, 0, len(s.handles))
	for _, h := range s.handles {
		handles = append(handles, h)
	}
	s.handlesMu.RUnlock()

	recognized := false
	for _, h := range handles {
		if ev := h.HandleMessage(in); ev != nil {
			recognized = true
		}
	}
	if !recognized {
		s.Logger.Debug("no handle recognized inbound message", loggingpkg.LogFields{"correlation_id": in.CorrelationID})
	}
	return nil
}

func (s *Session) removeHandle(handleID string) {
	s.handlesMu.Lock()
	delete(s.handles, handleID)
	s.handlesMu.Unlock()
}
