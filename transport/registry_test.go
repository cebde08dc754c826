package transport

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock config for testing
type mockConfig struct {
	transport string
}

func (m *mockConfig) GetTransport() string         { return m.transport }
func (m *mockConfig) GetNATSURL() string           { return "" }
func (m *mockConfig) GetHTTPServerAddress() string { return "" }
func (m *mockConfig) GetHTTPPublisherURL() string  { return "" }

// Mock publisher and subscriber
type mockPublisher struct{}

func (m *mockPublisher) Publish(topic string, messages ...*message.Message) error {
	return nil
}

func (m *mockPublisher) Close() error {
	return nil
}

type mockSubscriber struct{}

func (m *mockSubscriber) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	ch := make(chan *message.Message)
	close(ch)
	return ch, nil
}

func (m *mockSubscriber) Close() error {
	return nil
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()
	assert.NotNil(t, reg)
	assert.NotNil(t, reg.builders)
	assert.NotNil(t, reg.capabilities)
	assert.Empty(t, reg.Names())
}

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()

	builder := func(ctx context.Context, cfg Config, logger watermill.LoggerAdapter) (Transport, error) {
		return Transport{
			Publisher:  &mockPublisher{},
			Subscriber: &mockSubscriber{},
		}, nil
	}

	reg.Register("test-transport", builder)
	assert.True(t, reg.Has("test-transport"))
	assert.Contains(t, reg.Names(), "test-transport")
}

func TestRegistry_RegisterWithCapabilities(t *testing.T) {
	reg := NewRegistry()

	builder := func(ctx context.Context, cfg Config, logger watermill.LoggerAdapter) (Transport, error) {
		return Transport{
			Publisher:  &mockPublisher{},
			Subscriber: &mockSubscriber{},
		}, nil
	}

	caps := Capabilities{
		Name:             "test-transport",
		SupportsOrdering: true,
		Bidirectional:    true,
	}

	reg.RegisterWithCapabilities("test-transport", builder, caps)

	assert.True(t, reg.Has("test-transport"))
	retrievedCaps := reg.GetCapabilities("test-transport")
	assert.Equal(t, "test-transport", retrievedCaps.Name)
	assert.True(t, retrievedCaps.SupportsOrdering)
	assert.True(t, retrievedCaps.Bidirectional)
}

func TestRegistry_GetCapabilities_Unknown(t *testing.T) {
	reg := NewRegistry()
	caps := reg.GetCapabilities("unknown")
	assert.Equal(t, "unknown", caps.Name)
	assert.False(t, caps.SupportsOrdering)
	assert.False(t, caps.Bidirectional)
}

func TestRegistry_Build(t *testing.T) {
	reg := NewRegistry()

	builder := func(ctx context.Context, cfg Config, logger watermill.LoggerAdapter) (Transport, error) {
		return Transport{
			Publisher:  &mockPublisher{},
			Subscriber: &mockSubscriber{},
		}, nil
	}

	reg.Register("test-transport", builder)

	cfg := &mockConfig{transport: "test-transport"}
	ctx := context.Background()

	tr, err := reg.Build(ctx, cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, tr.Publisher)
	assert.NotNil(t, tr.Subscriber)
}

func TestRegistry_Build_NilConfig(t *testing.T) {
	reg := NewRegistry()
	ctx := context.Background()

	_, err := reg.Build(ctx, nil, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config is required")
}

func TestRegistry_Build_UnknownTransport(t *testing.T) {
	reg := NewRegistry()
	cfg := &mockConfig{transport: "unknown-transport"}
	ctx := context.Background()

	_, err := reg.Build(ctx, cfg, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown transport")
}

func TestRegistry_Build_BuilderError(t *testing.T) {
	reg := NewRegistry()

	expectedErr := errors.New("builder error")
	builder := func(ctx context.Context, cfg Config, logger watermill.LoggerAdapter) (Transport, error) {
		return Transport{}, expectedErr
	}

	reg.Register("failing-transport", builder)
	cfg := &mockConfig{transport: "failing-transport"}
	ctx := context.Background()

	_, err := reg.Build(ctx, cfg, nil)
	assert.Error(t, err)
	assert.Equal(t, expectedErr, err)
}

func TestRegistry_Has(t *testing.T) {
	reg := NewRegistry()

	builder := func(ctx context.Context, cfg Config, logger watermill.LoggerAdapter) (Transport, error) {
		return Transport{}, nil
	}

	assert.False(t, reg.Has("test-transport"))

	reg.Register("test-transport", builder)
	assert.True(t, reg.Has("test-transport"))
	assert.False(t, reg.Has("other-transport"))
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistry()

	builder := func(ctx context.Context, cfg Config, logger watermill.LoggerAdapter) (Transport, error) {
		return Transport{}, nil
	}

	assert.Empty(t, reg.Names())

	reg.Register("transport1", builder)
	reg.Register("transport2", builder)
	reg.Register("transport3", builder)

	names := reg.Names()
	assert.Len(t, names, 3)
	assert.Contains(t, names, "transport1")
	assert.Contains(t, names, "transport2")
	assert.Contains(t, names, "transport3")
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg := NewRegistry()

	builder := func(ctx context.Context, cfg Config, logger watermill.LoggerAdapter) (Transport, error) {
		return Transport{
			Publisher:  &mockPublisher{},
			Subscriber: &mockSubscriber{},
		}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				reg.Register("transport", builder)
				reg.Has("transport")
				reg.Names()
				reg.GetCapabilities("transport")
			}
		}()
	}
	wg.Wait()

	assert.True(t, reg.Has("transport"))
}

func TestDefaultRegistryHelpers(t *testing.T) {
	original := DefaultRegistry
	defer func() { DefaultRegistry = original }()
	DefaultRegistry = NewRegistry()

	builder := func(ctx context.Context, cfg Config, logger watermill.LoggerAdapter) (Transport, error) {
		return Transport{Publisher: &mockPublisher{}, Subscriber: &mockSubscriber{}}, nil
	}

	Register("helper-transport", builder)
	assert.True(t, DefaultRegistry.Has("helper-transport"))

	RegisterWithCapabilities("helper-caps", builder, Capabilities{Name: "helper-caps", Persistent: true})
	assert.True(t, GetCapabilities("helper-caps").Persistent)

	tr, err := Build(context.Background(), &mockConfig{transport: "helper-transport"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, tr.Publisher)
}
