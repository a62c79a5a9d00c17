// Package idgen produces prefixed, time-ordered identifiers.
package idgen

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const DocumentPrefix = "doc"

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

// New returns "<prefix>_<lowercase ulid>". Monotonic entropy is not goroutine safe,
// so generation is serialized.
func New(prefix string) string {
	mu.Lock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	mu.Unlock()
	return prefix + "_" + strings.ToLower(id.String())
}

// NewDocumentID returns a doc_* identifier.
func NewDocumentID() string {
	return New(DocumentPrefix)
}

// IsValid reports whether value is a ULID carrying the given prefix.
func IsValid(prefix, value string) bool {
	rest, ok := strings.CutPrefix(strings.TrimSpace(value), prefix+"_")
	if !ok {
		return false
	}
	_, err := ulid.ParseStrict(strings.ToUpper(rest))
	return err == nil
}
