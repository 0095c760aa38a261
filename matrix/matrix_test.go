package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/byte4ever/rules_conda/matrix"
)

func TestNew_is_zeroed(t *testing.T) {
	t.Parallel()

	m := matrix.New[float32](3, 3)

	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 3, m.Cols())

	for r := range 3 {
		for c := range 3 {
			assert.Zero(t, m.At(r, c))
		}
	}
}

func TestSetZero_clears_values(t *testing.T) {
	t.Parallel()

	m := matrix.New[float32](3, 3)
	m.Set(0, 0, 1.5)
	m.Set(2, 1, -7)

	m.SetZero()

	assert.Equal(t, "0 0 0\n0 0 0\n0 0 0", m.String())
}

func TestString_aligns_columns(t *testing.T) {
	t.Parallel()

	m := matrix.New[float64](2, 3)
	m.Set(0, 0, 1)
	m.Set(0, 1, -2.5)
	m.Set(1, 2, 100)

	assert.Equal(t, "   1 -2.5    0\n   0    0  100", m.String())
}

func TestString_float32_shortest_form(t *testing.T) {
	t.Parallel()

	m := matrix.New[float32](1, 2)
	m.Set(0, 0, 0.1)
	m.Set(0, 1, 2)

	assert.Equal(t, "0.1   2", m.String())
}

func TestString_integers(t *testing.T) {
	t.Parallel()

	m := matrix.New[int](2, 2)
	m.Set(0, 0, 10)
	m.Set(1, 1, -3)

	assert.Equal(t, "10  0\n 0 -3", m.String())
}

func TestNew_rejects_bad_shape(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { matrix.New[float32](0, 3) })
	assert.Panics(t, func() { matrix.New[float32](3, -1) })
}

func TestAt_out_of_range_panics(t *testing.T) {
	t.Parallel()

	m := matrix.New[float32](3, 3)

	assert.Panics(t, func() { m.At(3, 0) })
	assert.Panics(t, func() { m.Set(0, -1, 1) })
}
