package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Default topics and timings applied when the corresponding Config fields are
// zero.
const (
	DefaultRequestTopic   = "sigwire.requests"
	DefaultEventTopic     = "sigwire.events"
	DefaultRequestTimeout = 10 * time.Second
)

// Config groups the settings required to open a signaling session. Each
// transport only uses the keys that are relevant to it.
type Config struct {
	// Transport selects the signaling transport. Supported values:
	// "channel" (in-memory, the default), "nats", or "http".
	Transport string

	// NATS configuration.
	NATSURL string

	// HTTP configuration.
	HTTPServerAddress string
	// HTTPPublisherURL is the base URL requests are posted to.
	HTTPPublisherURL string

	// RequestTopic carries outbound requests to the signaling server.
	RequestTopic string
	// EventTopic delivers inbound messages from the signaling server.
	EventTopic string

	// RequestTimeout bounds how long a request operation awaits settlement.
	// Zero falls back to DefaultRequestTimeout.
	RequestTimeout time.Duration
}

// GetTransport returns the configured transport name, defaulting to channel.
func (c *Config) GetTransport() string {
	switch c.Transport {
	case "", "channel", "gochannel":
		return "channel"
	default:
		return c.Transport
	}
}

func (c *Config) GetNATSURL() string           { return c.NATSURL }
func (c *Config) GetHTTPServerAddress() string { return c.HTTPServerAddress }
func (c *Config) GetHTTPPublisherURL() string  { return c.HTTPPublisherURL }

// GetRequestTopic returns the outbound topic, defaulted.
func (c *Config) GetRequestTopic() string {
	if c.RequestTopic == "" {
		return DefaultRequestTopic
	}
	return c.RequestTopic
}

// GetEventTopic returns the inbound topic, defaulted.
func (c *Config) GetEventTopic() string {
	if c.EventTopic == "" {
		return DefaultEventTopic
	}
	return c.EventTopic
}

// GetRequestTimeout returns the per-request settlement timeout, defaulted.
func (c *Config) GetRequestTimeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return DefaultRequestTimeout
	}
	return c.RequestTimeout
}

// Validate checks that the configuration is complete for the selected
// transport.
func (c *Config) Validate() error {
	if c.GetRequestTopic() == c.GetEventTopic() {
		return fmt.Errorf("config: request and event topics must differ, both are %q", c.GetRequestTopic())
	}

	switch c.GetTransport() {
	case "channel":
		return nil
	case "nats":
		if c.NATSURL == "" {
			return fmt.Errorf("config: nats: URL is required")
		}
		return nil
	case "http":
		if c.HTTPServerAddress == "" {
			return fmt.Errorf("config: http: server address is required")
		}
		if c.HTTPPublisherURL == "" {
			return fmt.Errorf("config: http: publisher URL is required")
		}
		return nil
	default:
		return fmt.Errorf("config: unknown transport %q", c.Transport)
	}
}

// ValidateConfig validates the supplied configuration.
func ValidateConfig(c *Config) error {
	if c == nil {
		return fmt.Errorf("config: configuration is required")
	}
	return c.Validate()
}

const redacted = "***REDACTED***"

// String renders the configuration with credentials redacted so it can be
// logged safely.
func (c *Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Transport: %s", c.GetTransport())
	if c.NATSURL != "" {
		fmt.Fprintf(&b, ", NATSURL: %s", redactURL(c.NATSURL))
	}
	if c.HTTPServerAddress != "" {
		fmt.Fprintf(&b, ", HTTPServerAddress: %s", c.HTTPServerAddress)
	}
	if c.HTTPPublisherURL != "" {
		fmt.Fprintf(&b, ", HTTPPublisherURL: %s", redactURL(c.HTTPPublisherURL))
	}
	fmt.Fprintf(&b, ", RequestTopic: %s, EventTopic: %s, RequestTimeout: %s",
		c.GetRequestTopic(), c.GetEventTopic(), c.GetRequestTimeout())
	return b.String()
}

// redactURL hides the password component of a broker URL, preserving the
// username and host so the rendered value stays useful for debugging.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, has := u.User.Password(); has {
		u.User = url.UserPassword(u.User.Username(), redacted)
		return u.String()
	}
	return raw
}
