package random

import (
	"math/rand/v2"
)

// Random provides random number generation that can be mocked for testing
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int
}

// Pick returns a random element of items, or the zero value when items is empty
func Pick[T any](r Random, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	i := r.Intn(len(items))
	if i < 0 || i >= len(items) {
		return zero
	}
	return items[i]
}

// Source implements Random with the process-wide math/rand generator
type Source struct{}

// New creates a new Source
func New() *Source {
	return &Source{}
}

// Intn returns a random int in [0, n); n <= 0 yields 0
func (r *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return rand.IntN(n)
}
