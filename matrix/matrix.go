package matrix

import (
	"fmt"
	"strconv"
	"strings"
)

// Number is the set of coefficient types a Dense may hold.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Dense is a rows x cols matrix stored row-major. Its shape is
// fixed at construction.
type Dense[T Number] struct {
	rows, cols int
	data       []T
}

// New returns a zeroed rows x cols matrix. It panics if either
// dimension is not positive.
func New[T Number](rows, cols int) *Dense[T] {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("matrix: invalid shape %dx%d", rows, cols))
	}

	return &Dense[T]{
		rows: rows,
		cols: cols,
		data: make([]T, rows*cols),
	}
}

// Rows returns the number of rows.
func (m *Dense[T]) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Dense[T]) Cols() int { return m.cols }

// At returns the coefficient at row r, column c.
func (m *Dense[T]) At(r, c int) T {
	return m.data[m.index(r, c)]
}

// Set stores v at row r, column c.
func (m *Dense[T]) Set(r, c int, v T) {
	m.data[m.index(r, c)] = v
}

// SetZero sets every coefficient to zero.
func (m *Dense[T]) SetZero() {
	clear(m.data)
}

func (m *Dense[T]) index(r, c int) int {
	if r < 0 || r >= m.rows || c < 0 || c >= m.cols {
		panic(fmt.Sprintf(
			"matrix: index (%d,%d) out of range for %dx%d",
			r, c, m.rows, m.cols,
		))
	}

	return r*m.cols + c
}

// String prints one row per line with coefficients separated by
// a space and right-aligned to the widest coefficient. There is
// no trailing newline.
func (m *Dense[T]) String() string {
	cells := make([]string, len(m.data))
	width := 0

	for idx, v := range m.data {
		cells[idx] = format(v)
		width = max(width, len(cells[idx]))
	}

	var sb strings.Builder

	for r := range m.rows {
		if r > 0 {
			sb.WriteByte('\n')
		}

		for c := range m.cols {
			if c > 0 {
				sb.WriteByte(' ')
			}

			cell := cells[r*m.cols+c]
			sb.WriteString(strings.Repeat(" ", width-len(cell)))
			sb.WriteString(cell)
		}
	}

	return sb.String()
}

func format[T Number](v T) string {
	switch x := any(v).(type) {
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
