package errors

import (
	sterrors "errors"
	"fmt"
)

var (
	ErrSessionRequired    = sterrors.New("sigwire: session is required")
	ErrHandleRequired     = sterrors.New("sigwire: handle is required")
	ErrClassifierRequired = sterrors.New("sigwire: plugin classifier is required")
	ErrPublisherRequired  = sterrors.New("sigwire: publisher is required")
	ErrTopicRequired      = sterrors.New("sigwire: topic is required")
	ErrConfigRequired     = sterrors.New("sigwire: configuration is required")
	ErrLoggerRequired     = sterrors.New("sigwire: logger is required")

	ErrCorrelationIDRequired = sterrors.New("sigwire: correlation id is required")
)

// ValidationError reports malformed caller input. It fails the operation
// before anything is sent on the wire.
type ValidationError struct {
	Op     string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("sigwire: invalid %s request: %s", e.Op, e.Reason)
}

// NewValidationError builds a ValidationError for the named operation.
func NewValidationError(op, reason string) *ValidationError {
	return &ValidationError{Op: op, Reason: reason}
}

// ProtocolError carries an error code and reason reported by the signaling
// server. It settles the owning transaction as a rejection, or is emitted as
// an error event when no transaction owns the message.
type ProtocolError struct {
	Code   int
	Reason string
}

func (e *ProtocolError) Error() string {
	if e.Code == 0 {
		return "sigwire: server error: " + e.Reason
	}
	return fmt.Sprintf("sigwire: server error %d: %s", e.Code, e.Reason)
}

// UnexpectedResponseError reports a settlement whose classified event tag is
// outside the accepted set of the operation that issued the request.
type UnexpectedResponseError struct {
	Op  string
	Tag string
}

func (e *UnexpectedResponseError) Error() string {
	return fmt.Sprintf("sigwire: %s completed with unexpected event %q", e.Op, e.Tag)
}

// DuplicateTransactionError reports a correlation id that is already pending
// in the registry. The collision fails the new request only; the pending
// transaction is untouched.
type DuplicateTransactionError struct {
	ID string
}

func (e *DuplicateTransactionError) Error() string {
	return fmt.Sprintf("sigwire: transaction %q is already pending", e.ID)
}

// HandleDetachedError rejects transactions still pending when their owning
// handle detaches, so no caller is left awaiting indefinitely.
type HandleDetachedError struct {
	HandleID string
}

func (e *HandleDetachedError) Error() string {
	return fmt.Sprintf("sigwire: handle %s detached while the request was pending", e.HandleID)
}
