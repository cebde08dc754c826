package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/sigwire/sigwire/internal/runtime/events"
	errspkg "github.com/sigwire/sigwire/internal/runtime/errors"
	idspkg "github.com/sigwire/sigwire/internal/runtime/ids"
	loggingpkg "github.com/sigwire/sigwire/internal/runtime/logging"
	"github.com/sigwire/sigwire/internal/runtime/transaction"
	"github.com/sigwire/sigwire/internal/runtime/wire"
	pluginpkg "github.com/sigwire/sigwire/plugin"
)

var tracer = otel.Tracer("github.com/sigwire/sigwire")

// sendFunc publishes an encoded outbound message; the Session provides it.
type sendFunc func(ctx context.Context, out *wire.OutboundMessage) error

// Handle is a bound attachment point to one plugin instance on the remote
// signaling server. It receives every inbound message addressed to it,
// settles transactions it owns, and broadcasts everything else to its
// subscribers.
type Handle struct {
	id         string
	classifier pluginpkg.Classifier
	registry   *transaction.Registry
	emitter    *events.Emitter
	logger     loggingpkg.ServiceLogger
	metrics    *SignalMetrics
	send       sendFunc
	timeout    time.Duration
	onDetach   func(handleID string)
	detached   atomic.Bool
}

func newHandle(classifier pluginpkg.Classifier, logger loggingpkg.ServiceLogger, metrics *SignalMetrics, send sendFunc, timeout time.Duration, onDetach func(string)) *Handle {
	id := idspkg.NewHandleID()
	return &Handle{
		id:         id,
		classifier: classifier,
		registry:   transaction.NewRegistry(),
		emitter:    events.NewEmitter(),
		logger:     logger.With(loggingpkg.LogFields{"handle_id": id, "plugin": classifier.Namespace()}),
		metrics:    metrics,
		send:       send,
		timeout:    timeout,
		onDetach:   onDetach,
	}
}

// ID returns the handle's unique id.
func (h *Handle) ID() string { return h.id }

// Plugin returns the namespace of the plugin this handle is attached to.
func (h *Handle) Plugin() string { return h.classifier.Namespace() }

// Subscribe registers a handler for a normalized event tag. Only messages no
// pending transaction owns are broadcast; responses to requests reach their
// caller through the request's return value instead.
func (h *Handle) Subscribe(tag events.Tag, fn events.Handler) *events.Subscription {
	return h.emitter.Subscribe(tag, fn)
}

// PendingTransactions reports the number of in-flight requests.
func (h *Handle) PendingTransactions() int {
	return h.registry.PendingCount()
}

// Detached reports whether the handle has been detached.
func (h *Handle) Detached() bool { return h.detached.Load() }

// HandleMessage routes one inbound message. The classifier interprets it;
// then the correlation id decides the path: a message owned by a pending
// transaction settles that transaction and is not broadcast, everything else
// is emitted to subscribers. The normalized event is returned either way so
// a more generic caller can still inspect it; nil means the classifier did
// not recognize the message.
func (h *Handle) HandleMessage(msg *wire.InboundMessage) *events.Normalized {
	ev := h.classifier.Classify(msg)
	if ev == nil {
		return nil
	}

	// Ownership is decided on the id the message arrived with. No id means
	// unsolicited, never owned.
	correlationID := ""
	if msg != nil {
		correlationID = msg.CorrelationID
	}
	owned := h.registry.Owns(correlationID)

	// Settling is idempotent: on an unowned id both calls are no-ops. The
	// error branch settles regardless of the ownership snapshot so a failing
	// response can never resolve its transaction as a success.
	if ev.IsError() {
		if h.registry.SettleError(correlationID, ev.Err) {
			h.metrics.TransactionSettled(h.Plugin(), OutcomeError)
		}
	} else {
		if h.registry.SettleSuccess(correlationID, ev) {
			h.metrics.TransactionSettled(h.Plugin(), OutcomeSuccess)
		}
	}

	if !owned {
		h.emitter.Emit(ev)
		h.metrics.EventEmitted(h.Plugin(), string(ev.Tag))
		h.logger.Debug("event broadcast", loggingpkg.LogFields{"event": ev.Tag, "correlation_id": correlationID})
	}

	return ev
}

// Request sends a plugin request and awaits its settlement. The correlation
// id is a fresh ULID, so ids can never collide across handles sharing the
// connection. When ctx carries no deadline the handle's request timeout
// applies; a timed-out transaction stays pending and is swallowed silently
// if its response arrives later.
func (h *Handle) Request(ctx context.Context, body wire.Body, negotiation *wire.Negotiation) (*events.Normalized, error) {
	if h.detached.Load() {
		return nil, &errspkg.HandleDetachedError{HandleID: h.id}
	}

	verb, _ := body["request"].(string)
	if verb == "" {
		verb = "request"
	}
	correlationID := idspkg.NewCorrelationID()

	ctx, span := tracer.Start(ctx, "signal.request")
	defer span.End()
	span.SetAttributes(
		attribute.String("sigwire.plugin", h.Plugin()),
		attribute.String("sigwire.request", verb),
		attribute.String("sigwire.correlation_id", correlationID),
	)

	tx, err := h.registry.Begin(correlationID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	h.metrics.RequestStarted(h.Plugin())

	out := &wire.OutboundMessage{
		CorrelationID: correlationID,
		HandleID:      h.id,
		Plugin:        h.Plugin(),
		Body:          body,
		Negotiation:   negotiation,
	}

	start := time.Now()
	if err := h.send(ctx, out); err != nil {
		h.registry.SettleError(correlationID, err)
		h.metrics.TransactionSettled(h.Plugin(), OutcomeError)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("sigwire: send %s request: %w", verb, err)
	}
	h.logger.Debug("request sent", loggingpkg.LogFields{"request": verb, "correlation_id": correlationID})

	if _, hasDeadline := ctx.Deadline(); !hasDeadline && h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	ev, err := tx.Await(ctx)
	h.metrics.ObserveRequestDuration(h.Plugin(), time.Since(start))
	if err != nil {
		var detachErr *errspkg.HandleDetachedError
		if errors.As(err, &detachErr) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// Settlement accounting happened elsewhere (detach) or the
			// transaction is still pending (timeout).
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("sigwire.event", string(ev.Tag)))
	return ev, nil
}

// Detach cancels the handle: every transaction still pending is rejected
// with HandleDetachedError and the handle stops accepting requests. Detach
// is idempotent.
func (h *Handle) Detach() {
	if !h.detached.CompareAndSwap(false, true) {
		return
	}

	rejected := h.registry.DetachAll(&errspkg.HandleDetachedError{HandleID: h.id})
	h.metrics.TransactionsDetached(h.Plugin(), rejected)
	h.logger.Info("handle detached", loggingpkg.LogFields{"rejected_transactions": rejected})

	if h.onDetach != nil {
		h.onDetach(h.id)
	}
}
