package random_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/freestreet/internal/dependencies/mocks"
	"github.com/mcoot/freestreet/internal/dependencies/random"
)

func TestSourceIntnStaysInRange(t *testing.T) {
	r := random.New()
	for range 100 {
		n := r.Intn(3)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 3)
	}
	assert.Equal(t, 0, r.Intn(0))
	assert.Equal(t, 0, r.Intn(-5))
}

func TestPick(t *testing.T) {
	m := mocks.NewMockRandom()
	m.Queue(2, 0, 7)

	items := []string{"a", "b", "c"}
	assert.Equal(t, "c", random.Pick(m, items))
	assert.Equal(t, "a", random.Pick(m, items))
	assert.Equal(t, "", random.Pick(m, items), "out of range index yields the zero value")
	assert.Equal(t, 0, random.Pick(m, []int{}))
}

func TestPickDrawsOverItemCount(t *testing.T) {
	m := mocks.NewMockRandom()

	random.Pick(m, []int{4, 5, 6, 7})
	random.Pick(m, []int{})

	assert.Equal(t, []int{4}, m.Bounds(), "an empty slice is not drawn from")
}
