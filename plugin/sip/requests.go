package sip

import (
	"context"
	"strings"

	errspkg "github.com/sigwire/sigwire/internal/runtime/errors"
	"github.com/sigwire/sigwire/internal/runtime/events"
	"github.com/sigwire/sigwire/internal/runtime/wire"
)

// Requester is the slice of a session handle the SIP client drives: send a
// request body, await its settlement.
type Requester interface {
	Request(ctx context.Context, body wire.Body, negotiation *wire.Negotiation) (*events.Normalized, error)
}

// Client is the SIP request surface over one attached handle. Every
// operation follows the same thin pattern: validate input, send the native
// request body, await settlement, and check the settled event tag against
// the operation's accepted set. A settlement outside that set is surfaced
// as an UnexpectedResponseError, never retried.
//
// Most operations accept a generic acknowledgement as success because the
// plugin's synchronous reply is often generic; Accept is the one strict
// operation, see its doc.
type Client struct {
	handle Requester
}

// NewClient wraps an attached SIP handle.
func NewClient(handle Requester) (*Client, error) {
	if handle == nil {
		return nil, errspkg.ErrHandleRequired
	}
	return &Client{handle: handle}, nil
}

// RegisterParams carries the identity used to register with the remote SIP
// registrar. Username and Proxy are SIP URIs.
type RegisterParams struct {
	Username    string
	Proxy       string
	Secret      string
	AuthUser    string
	DisplayName string
}

// Register registers the handle's identity with the SIP registrar.
func (c *Client) Register(ctx context.Context, params RegisterParams) (events.Payload, error) {
	if strings.TrimSpace(params.Username) == "" {
		return nil, errspkg.NewValidationError("register", "username is required")
	}

	body := wire.Body{
		"request":  "register",
		"username": params.Username,
	}
	if params.Proxy != "" {
		body["proxy"] = params.Proxy
	}
	if params.Secret != "" {
		body["secret"] = params.Secret
	}
	if params.AuthUser != "" {
		body["authuser"] = params.AuthUser
	}
	if params.DisplayName != "" {
		body["display_name"] = params.DisplayName
	}

	return c.do(ctx, "register", body, nil, events.TagGeneric, events.TagRegistering)
}

// Unregister drops the current registration.
func (c *Client) Unregister(ctx context.Context) (events.Payload, error) {
	return c.do(ctx, "unregister", wire.Body{"request": "unregister"}, nil,
		events.TagGeneric, events.TagUnregistering)
}

// Call places an outgoing call to uri, carrying the local session offer.
func (c *Client) Call(ctx context.Context, uri string, offer *wire.Negotiation) (events.Payload, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, errspkg.NewValidationError("call", "uri is required")
	}
	if err := validateNegotiation("call", offer, wire.NegotiationOffer); err != nil {
		return nil, err
	}

	return c.do(ctx, "call", wire.Body{"request": "call", "uri": uri}, offer, events.TagGeneric)
}

// Accept answers an incoming call with the local session answer. Unlike the
// other operations it is strict: only a settlement tagged accepted resolves,
// so a declined or errored answer can never be reported as accepted.
func (c *Client) Accept(ctx context.Context, answer *wire.Negotiation) (events.Payload, error) {
	if err := validateNegotiation("accept", answer, wire.NegotiationAnswer); err != nil {
		return nil, err
	}

	return c.do(ctx, "accept", wire.Body{"request": "accept"}, answer, events.TagAccepted)
}

// Decline rejects an incoming call.
func (c *Client) Decline(ctx context.Context) (events.Payload, error) {
	return c.do(ctx, "decline", wire.Body{"request": "decline"}, nil,
		events.TagGeneric, events.TagDeclining, events.TagHangingUp)
}

// Hangup tears the current call down.
func (c *Client) Hangup(ctx context.Context) (events.Payload, error) {
	return c.do(ctx, "hangup", wire.Body{"request": "hangup"}, nil,
		events.TagGeneric, events.TagHangingUp, events.TagHangup)
}

// SendDTMF sends a DTMF digit within the current call.
func (c *Client) SendDTMF(ctx context.Context, digit string) (events.Payload, error) {
	if digit == "" {
		return nil, errspkg.NewValidationError("dtmf", "digit is required")
	}

	return c.do(ctx, "dtmf", wire.Body{"request": "dtmf_info", "digit": digit}, nil,
		events.TagGeneric, events.TagDTMFSent)
}

func (c *Client) do(ctx context.Context, op string, body wire.Body, negotiation *wire.Negotiation, accepted ...events.Tag) (events.Payload, error) {
	ev, err := c.handle.Request(ctx, body, negotiation)
	if err != nil {
		return nil, err
	}
	for _, tag := range accepted {
		if ev.Tag == tag {
			return ev.Data, nil
		}
	}
	return nil, &errspkg.UnexpectedResponseError{Op: op, Tag: string(ev.Tag)}
}

func validateNegotiation(op string, n *wire.Negotiation, wantType string) error {
	if n == nil {
		return errspkg.NewValidationError(op, "negotiation payload is required")
	}
	if n.Type != wantType {
		return errspkg.NewValidationError(op, "negotiation type must be "+wantType)
	}
	if strings.TrimSpace(n.SDP) == "" {
		return errspkg.NewValidationError(op, "negotiation sdp is empty")
	}
	return nil
}
