package mocks

import (
	"strings"
	"sync"

	"github.com/mcoot/nexus/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing.
// Queued strings are returned in order; once the queue is empty it
// returns a deterministic string of the requested length.
type MockRandom struct {
	mu      sync.Mutex
	results []string
	index   int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// String returns the next queued result
func (r *MockRandom) String(length int, alphabet string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.index >= len(r.results) {
		r.index++
		if alphabet == "" {
			return ""
		}
		return strings.Repeat(string(alphabet[r.index%len(alphabet)]), length)
	}
	result := r.results[r.index]
	r.index++
	return result
}

// QueueString adds values to the result queue
func (r *MockRandom) QueueString(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = nil
	r.index = 0
}
