package mocks

import (
	"fmt"

	"github.com/mcoot/skyduel-server/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing. Queued
// string results are served in order; once they run out, String falls
// back to deterministic sequential values so id-allocation loops still
// terminate.
type MockRandom struct {
	// StringResults is a queue of results to return from String
	StringResults []string
	stringIndex   int

	// IntnResults is a queue of results to return from Intn
	IntnResults []int
	intnIndex   int

	fallback int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remaining
func (r *MockRandom) Intn(n int) int {
	if r.intnIndex >= len(r.IntnResults) {
		return 0
	}
	result := r.IntnResults[r.intnIndex]
	r.intnIndex++
	return result
}

// String returns the next queued result, or a deterministic fallback
func (r *MockRandom) String(length int, alphabet string) string {
	if r.stringIndex < len(r.StringResults) {
		result := r.StringResults[r.stringIndex]
		r.stringIndex++
		return result
	}
	r.fallback++
	return fmt.Sprintf("id%06d", r.fallback)
}

// QueueString adds values to the String result queue
func (r *MockRandom) QueueString(values ...string) {
	r.StringResults = append(r.StringResults, values...)
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.IntnResults = append(r.IntnResults, values...)
}
