package runtime

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"

	configpkg "github.com/sigwire/sigwire/internal/runtime/config"
	errspkg "github.com/sigwire/sigwire/internal/runtime/errors"
	"github.com/sigwire/sigwire/internal/runtime/events"
	loggingpkg "github.com/sigwire/sigwire/internal/runtime/logging"
	"github.com/sigwire/sigwire/internal/runtime/wire"
	pluginpkg "github.com/sigwire/sigwire/plugin"
	transportpkg "github.com/sigwire/sigwire/transport"
)

func newTestSlogLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newTestLogger() loggingpkg.ServiceLogger {
	return loggingpkg.NewSlogServiceLogger(newTestSlogLogger())
}

type publishedMessage struct {
	topic   string
	payload []byte
}

type testPublisher struct {
	mu        sync.Mutex
	published []publishedMessage
	err       error
}

func (p *testPublisher) Publish(topic string, messages ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	for _, msg := range messages {
		p.published = append(p.published, publishedMessage{topic: topic, payload: msg.Payload})
	}
	return nil
}

func (p *testPublisher) Close() error { return nil }

func (p *testPublisher) Messages() []publishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	clone := make([]publishedMessage, len(p.published))
	copy(clone, p.published)
	return clone
}

type testSubscriber struct {
	err error
}

func (s *testSubscriber) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	ch := make(chan *message.Message)
	close(ch)
	return ch, nil
}

func (s *testSubscriber) Close() error { return nil }

const testNamespace = "test.plugin"

type stubClassifier struct {
	namespace string
	fn        func(msg *wire.InboundMessage) *events.Normalized
}

func (c *stubClassifier) Namespace() string { return c.namespace }

func (c *stubClassifier) Classify(msg *wire.InboundMessage) *events.Normalized {
	if c.fn == nil {
		return nil
	}
	return c.fn(msg)
}

// echoClassify interprets {"result":{"event":X}} as tag X, server errors as
// error events, and anything else as unrecognized.
func echoClassify(msg *wire.InboundMessage) *events.Normalized {
	if msg == nil || msg.Body == nil {
		return nil
	}
	if msg.Body.HasResult() {
		token, _ := msg.Body.Result["event"].(string)
		if token == "" {
			return nil
		}
		return &events.Normalized{Tag: events.Tag(token), Data: events.Payload(msg.Body.Result)}
	}
	if msg.Body.HasError() {
		return &events.Normalized{
			Tag: events.TagError,
			Err: &errspkg.ProtocolError{Code: msg.Body.ErrorCode, Reason: msg.Body.Error},
		}
	}
	return nil
}

func newTestPlugins() *pluginpkg.Registry {
	plugins := pluginpkg.NewRegistry()
	plugins.Register(&stubClassifier{namespace: testNamespace, fn: echoClassify})
	return plugins
}

func newTestSession(t *testing.T) (*Session, *testPublisher) {
	t.Helper()
	pub := &testPublisher{}
	s, err := TryNewSession(&configpkg.Config{}, newTestLogger(), context.Background(), SessionDependencies{
		Transport:         &transportpkg.Transport{Publisher: pub, Subscriber: &testSubscriber{}},
		Plugins:           newTestPlugins(),
		MetricsRegisterer: prometheus.NewRegistry(),
	})
	if err != nil {
		t.Fatalf("session init failed: %v", err)
	}
	return s, pub
}

func newTestHandle(send sendFunc, timeout time.Duration) *Handle {
	classifier := &stubClassifier{namespace: testNamespace, fn: echoClassify}
	return newHandle(classifier, newTestLogger(), nil, send, timeout, nil)
}
