package http

import (
	"context"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	watermillhttp "github.com/ThreeDotsLabs/watermill-http/v2/pkg/http"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigwire/sigwire/transport"
)

type mockConfig struct {
	serverAddr   string
	publisherURL string
}

func (m *mockConfig) GetTransport() string         { return "http" }
func (m *mockConfig) GetNATSURL() string           { return "" }
func (m *mockConfig) GetHTTPServerAddress() string { return m.serverAddr }
func (m *mockConfig) GetHTTPPublisherURL() string  { return m.publisherURL }

type mockPublisher struct{}

func (m *mockPublisher) Publish(topic string, messages ...*message.Message) error { return nil }
func (m *mockPublisher) Close() error                                             { return nil }

type mockSubscriber struct{}

func (m *mockSubscriber) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	ch := make(chan *message.Message)
	close(ch)
	return ch, nil
}
func (m *mockSubscriber) Close() error { return nil }

func TestRegisteredOnInit(t *testing.T) {
	assert.True(t, transport.DefaultRegistry.Has(TransportName))
	assert.Equal(t, "http", transport.GetCapabilities(TransportName).Name)
}

func TestCapabilities(t *testing.T) {
	caps := Capabilities()
	assert.Equal(t, transport.HTTPCapabilities, caps)
}

func TestBuild(t *testing.T) {
	origPub := PublisherFactory
	origSub := SubscriberFactory
	t.Cleanup(func() {
		PublisherFactory = origPub
		SubscriberFactory = origSub
	})

	pub := &mockPublisher{}
	sub := &mockSubscriber{}
	PublisherFactory = func(config watermillhttp.PublisherConfig, _ watermill.LoggerAdapter) (message.Publisher, error) {
		require.NotNil(t, config.MarshalMessageFunc)
		// The marshal func prefixes the topic with the gateway URL.
		req, err := config.MarshalMessageFunc("sigwire.requests", message.NewMessage("m1", []byte("{}")))
		require.NoError(t, err)
		assert.Equal(t, "http://gateway:8088/sigwire.requests", req.URL.String())
		return pub, nil
	}
	SubscriberFactory = func(addr string, config watermillhttp.SubscriberConfig, _ watermill.LoggerAdapter) (message.Subscriber, error) {
		assert.Equal(t, ":8089", addr)
		return sub, nil
	}

	cfg := &mockConfig{serverAddr: ":8089", publisherURL: "http://gateway:8088/"}
	tr, err := Build(context.Background(), cfg, watermill.NopLogger{})

	require.NoError(t, err)
	assert.Equal(t, pub, tr.Publisher)
	assert.Equal(t, sub, tr.Subscriber)
}

func TestBuild_PublisherError(t *testing.T) {
	origPub := PublisherFactory
	t.Cleanup(func() { PublisherFactory = origPub })

	expectedErr := errors.New("bad publisher config")
	PublisherFactory = func(config watermillhttp.PublisherConfig, _ watermill.LoggerAdapter) (message.Publisher, error) {
		return nil, expectedErr
	}

	_, err := Build(context.Background(), &mockConfig{}, watermill.NopLogger{})
	assert.Equal(t, expectedErr, err)
}

func TestBuild_SubscriberError(t *testing.T) {
	origPub := PublisherFactory
	origSub := SubscriberFactory
	t.Cleanup(func() {
		PublisherFactory = origPub
		SubscriberFactory = origSub
	})

	PublisherFactory = func(config watermillhttp.PublisherConfig, _ watermill.LoggerAdapter) (message.Publisher, error) {
		return &mockPublisher{}, nil
	}
	expectedErr := errors.New("bad subscriber config")
	SubscriberFactory = func(addr string, config watermillhttp.SubscriberConfig, _ watermill.LoggerAdapter) (message.Subscriber, error) {
		return nil, expectedErr
	}

	_, err := Build(context.Background(), &mockConfig{}, watermill.NopLogger{})
	assert.Equal(t, expectedErr, err)
}
