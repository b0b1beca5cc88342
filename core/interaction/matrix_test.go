package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Run("Rows sum to one", func(t *testing.T) {
		m := Matrix{
			{0, 1, 3},
			{1, 0, 0},
			{3, 0, 0},
		}

		m.Normalize()

		assert.InDeltaSlice(t, []float64{0, 0.25, 0.75}, m[0], 1e-9)
		for i := range m {
			assert.InDelta(t, 1, m.RowSum(i), 1e-9)
		}
	})

	t.Run("Zero rows stay zero", func(t *testing.T) {
		m := Matrix{
			{0, 2, 0},
			{2, 0, 0},
			{0, 0, 0},
		}

		m.Normalize()

		assert.Equal(t, []float64{0, 0, 0}, m[2])
		assert.Equal(t, []float64{1, 0, 0}, m[1])
	})

	t.Run("Empty matrix", func(t *testing.T) {
		assert.Empty(t, NewMatrix(0).Normalize())
	})
}

func TestSortByWeight(t *testing.T) {
	t.Run("Descending weight", func(t *testing.T) {
		m := Matrix{
			{0, 1, 0},
			{1, 0, 2},
			{0, 2, 0},
		}

		sorted, names := SortByWeight(m, []string{"A", "B", "C"})

		assert.Equal(t, []string{"B", "C", "A"}, names)
		assert.Equal(t, Matrix{
			{0, 2, 1},
			{2, 0, 0},
			{1, 0, 0},
		}, sorted)
	})

	t.Run("Ties keep their order", func(t *testing.T) {
		m := Matrix{
			{0, 1, 0, 0},
			{1, 0, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
		}

		_, names := SortByWeight(m, []string{"A", "B", "C", "D"})

		assert.Equal(t, []string{"A", "B", "C", "D"}, names)
	})

	t.Run("Normalized matrix is ordered by received weight", func(t *testing.T) {
		// Zed talks to everyone, everyone else only to Zed
		m := Matrix{
			{0, 0, 0, 1},
			{0, 0, 0, 1},
			{0, 0, 0, 1},
			{1, 1, 1, 0},
		}.Normalize()

		sorted, names := SortByWeight(m, []string{"Bob", "Carl", "Dan", "Zed"})

		assert.Equal(t, []string{"Zed", "Bob", "Carl", "Dan"}, names)
		assert.InDeltaSlice(t, []float64{0, 1.0 / 3, 1.0 / 3, 1.0 / 3}, sorted[0], 1e-9)
		assert.Equal(t, []float64{1, 0, 0, 0}, sorted[1])
	})

	t.Run("Asymmetric matrix uses column sums", func(t *testing.T) {
		m := Matrix{
			{0, 0.5, 0.5},
			{1, 0, 0},
			{0.2, 0.8, 0},
		}

		_, names := SortByWeight(m, []string{"A", "B", "C"})

		assert.Equal(t, []string{"B", "A", "C"}, names)
	})

	t.Run("Source matrix is untouched", func(t *testing.T) {
		m := Matrix{{0, 1}, {1, 0}}
		clone := m.Clone()

		SortByWeight(m, []string{"A", "B"})

		assert.Equal(t, clone, m)
	})
}

func TestRemoveCharacters(t *testing.T) {
	t.Run("Row and column are removed", func(t *testing.T) {
		m := Matrix{
			{0, 1, 2},
			{1, 0, 3},
			{2, 3, 0},
		}

		result, names := RemoveCharacters(m, []string{"A", "B", "C"}, []string{"B"})

		require.Equal(t, []string{"A", "C"}, names)
		assert.Equal(t, Matrix{{0, 2}, {2, 0}}, result)
	})

	t.Run("Unknown names are ignored", func(t *testing.T) {
		m := Matrix{{0, 1}, {1, 0}}

		result, names := RemoveCharacters(m, []string{"A", "B"}, []string{"Z"})

		assert.Equal(t, []string{"A", "B"}, names)
		assert.Equal(t, m, result)
	})
}
