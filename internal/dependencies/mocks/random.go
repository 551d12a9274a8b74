package mocks

import (
	"sync"

	"github.com/mcoot/freestreet/internal/dependencies/random"
)

// MockRandom replays scripted draws. Once the script runs out every draw
// is 0, which makes spawn selection deterministic.
type MockRandom struct {
	mu     sync.Mutex
	script []int
	bounds []int
}

var _ random.Random = (*MockRandom)(nil)

func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next scripted value as is, without clamping it to n
func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bounds = append(r.bounds, n)
	if len(r.script) == 0 {
		return 0
	}
	v := r.script[0]
	r.script = r.script[1:]
	return v
}

// Queue appends draws to the script
func (r *MockRandom) Queue(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.script = append(r.script, values...)
}

// Bounds returns the n passed to each Intn call so far
func (r *MockRandom) Bounds() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.bounds...)
}
