package ids

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewCorrelationID returns a globally unique, time-sortable correlation id for
// an outgoing request, encoded as a 26-character ULID. Global uniqueness means
// correlation ids can never cross-wire transactions between handles, even when
// several handles share one signaling connection.
func NewCorrelationID() string {
	return newULID()
}

// NewHandleID returns a unique id for a plugin handle.
func NewHandleID() string {
	return newULID()
}

func newULID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	return id.String()
}
