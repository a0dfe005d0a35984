// Package idx mints the ULID identifiers used for every portal record and for
// request IDs. ULIDs sort by creation time, which the payment listings rely on
// as a tie-breaker when two claims share a timestamp.
package idx

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type ID string

func (id ID) String() string { return string(id) }

// entropy is monotonic, so IDs minted within the same millisecond still sort
// in the order they were created.
var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New returns a fresh ID stamped with the current UTC time.
func New() ID {
	return NewAt(time.Now().UTC())
}

// NewAt returns an ID stamped with t. Services pass their clock through it.
func NewAt(t time.Time) ID {
	mu.Lock()
	defer mu.Unlock()
	return ID(ulid.MustNew(ulid.Timestamp(t), entropy).String())
}

// Valid reports whether s is a canonical ULID. Handlers use it to answer
// malformed path IDs without a store round trip.
func Valid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
