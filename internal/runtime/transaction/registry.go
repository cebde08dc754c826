// Package transaction tracks in-flight request correlation ids and settles
// each pending request exactly once.
package transaction

import (
	"context"
	"sync"

	"github.com/sigwire/sigwire/internal/runtime/events"
	errspkg "github.com/sigwire/sigwire/internal/runtime/errors"
)

// Outcome is the settlement value delivered to the awaiting caller. Exactly
// one of Event and Err is set.
type Outcome struct {
	Event *events.Normalized
	Err   error
}

// Tx is a single pending transaction. The caller that created it awaits its
// settlement; the registry delivers the outcome at most once.
type Tx struct {
	id   string
	done chan Outcome
}

// ID returns the transaction's correlation id.
func (tx *Tx) ID() string { return tx.id }

// Await blocks until the transaction settles or the context is cancelled.
// A cancelled context does not unregister the transaction; the owning handle
// remains responsible for it until settlement or detach.
func (tx *Tx) Await(ctx context.Context) (*events.Normalized, error) {
	select {
	case out := <-tx.done:
		if out.Err != nil {
			return nil, out.Err
		}
		return out.Event, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Registry owns the lifecycle of every pending transaction of one handle.
// An id is owned from Begin until first settlement; settling an unknown id is
// a no-op, never an error, so duplicate server responses stay harmless.
type Registry struct {
	mu      sync.Mutex
	pending map[string]*Tx
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{pending: make(map[string]*Tx)}
}

// Begin registers a new pending transaction under id. It fails with
// DuplicateTransactionError when the id is already pending.
func (r *Registry) Begin(id string) (*Tx, error) {
	if id == "" {
		return nil, errspkg.ErrCorrelationIDRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pending[id]; exists {
		return nil, &errspkg.DuplicateTransactionError{ID: id}
	}

	tx := &Tx{id: id, done: make(chan Outcome, 1)}
	r.pending[id] = tx
	return tx, nil
}

// Owns reports whether id is currently pending in this registry. The empty
// id is never owned: messages without a correlation id are always unsolicited.
func (r *Registry) Owns(id string) bool {
	if id == "" {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.pending[id]
	return ok
}

// SettleSuccess resolves the pending transaction with the classified event
// and removes it. It reports whether a transaction was actually settled.
func (r *Registry) SettleSuccess(id string, ev *events.Normalized) bool {
	return r.settle(id, Outcome{Event: ev})
}

// SettleError rejects the pending transaction and removes it. It reports
// whether a transaction was actually settled.
func (r *Registry) SettleError(id string, err error) bool {
	return r.settle(id, Outcome{Err: err})
}

func (r *Registry) settle(id string, out Outcome) bool {
	if id == "" {
		return false
	}

	r.mu.Lock()
	tx, ok := r.pending[id]
	if ok {
		delete(r.pending, id)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}

	// done is buffered, the awaiting caller may have given up already.
	tx.done <- out
	return true
}

// DetachAll rejects every pending transaction with err and empties the
// registry. It returns the number of transactions rejected.
func (r *Registry) DetachAll(err error) int {
	r.mu.Lock()
	detached := r.pending
	r.pending = make(map[string]*Tx)
	r.mu.Unlock()

	for _, tx := range detached {
		tx.done <- Outcome{Err: err}
	}
	return len(detached)
}

// PendingCount reports the number of in-flight transactions.
func (r *Registry) PendingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
