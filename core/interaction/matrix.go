package interaction

import (
	"slices"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Matrix is a square interaction matrix indexed by a section's character list.
type Matrix [][]float64

// NewMatrix returns a zero matrix of size n.
func NewMatrix(n int) Matrix {
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m
}

// Clone returns a deep copy of the matrix.
func (m Matrix) Clone() Matrix {
	c := make(Matrix, len(m))
	for i := range m {
		c[i] = slices.Clone(m[i])
	}
	return c
}

// RowSum returns the total interaction weight of character i.
func (m Matrix) RowSum(i int) float64 {
	return floats.Sum(m[i])
}

// ColumnSum returns the weight character j receives from all other characters.
func (m Matrix) ColumnSum(j int) float64 {
	var sum float64
	for i := range m {
		sum += m[i][j]
	}
	return sum
}

// Normalize divides every cell by its row sum in place.
// Rows summing to zero stay zero.
func (m Matrix) Normalize() Matrix {
	for i := range m {
		sum := m.RowSum(i)
		if sum == 0 {
			continue
		}
		floats.Scale(1/sum, m[i])
	}
	return m
}

// SortByWeight orders characters by descending column sum and permutes both
// matrix axes accordingly. Ties keep their previous order.
// On a normalized matrix every row sums to one, the column sum is the share of
// attention a character gets from everyone else.
func SortByWeight(m Matrix, names []string) (Matrix, []string) {
	order := make([]int, len(names))
	for i := range order {
		order[i] = i
	}
	sums := make([]float64, len(names))
	for i := range sums {
		sums[i] = m.ColumnSum(i)
	}
	sort.SliceStable(order, func(a, b int) bool {
		return sums[order[a]] > sums[order[b]]
	})

	return permute(m, names, order)
}

// RemoveCharacters drops the rows, columns and names of the given characters.
func RemoveCharacters(m Matrix, names []string, remove []string) (Matrix, []string) {
	var keep []int
	for i, name := range names {
		if !slices.Contains(remove, name) {
			keep = append(keep, i)
		}
	}
	if len(keep) == len(names) {
		return m, names
	}

	return permute(m, names, keep)
}

// permute builds the sub matrix of the given row/column order.
func permute(m Matrix, names []string, order []int) (Matrix, []string) {
	result := NewMatrix(len(order))
	resultNames := make([]string, len(order))
	for i, oi := range order {
		resultNames[i] = names[oi]
		for j, oj := range order {
			result[i][j] = m[oi][oj]
		}
	}
	return result, resultNames
}
