package interaction

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrNoPositiveWeights is returned if no character of the last section interacted with anyone.
var ErrNoPositiveWeights = errors.New("no positive interaction weights")

// Snapshot is the character list and matrix of one section.
type Snapshot struct {
	Names  []string
	Matrix Matrix
}

// Percentile returns the p-th percentile (0-100) of values using linear
// interpolation between the closest ranks.
func Percentile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("no values")
	}
	if p < 0 || p > 100 {
		return 0, fmt.Errorf("percentile must be between 0 and 100, got %v", p)
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	return sorted[lower] + (sorted[upper]-sorted[lower])*(rank-float64(lower)), nil
}

// UnimportantCharacters returns the characters of the last snapshot whose total
// interaction weight is below the percentile of all positive weights, together
// with the threshold.
func UnimportantCharacters(last Snapshot, percentile float64) ([]string, float64, error) {
	weights := make([]float64, len(last.Names))
	var positive []float64
	for i := range last.Names {
		weights[i] = last.Matrix.RowSum(i)
		if weights[i] > 0 {
			positive = append(positive, weights[i])
		}
	}
	if len(positive) == 0 {
		return nil, 0, ErrNoPositiveWeights
	}

	threshold, err := Percentile(positive, percentile)
	if err != nil {
		return nil, 0, err
	}

	var unimportant []string
	for i, name := range last.Names {
		if weights[i] < threshold {
			unimportant = append(unimportant, name)
		}
	}
	return unimportant, threshold, nil
}

// Prune removes the unimportant characters from every snapshot and from the metadata.
// It returns the removed characters. Without any positive weight nothing is
// removed and ErrNoPositiveWeights is returned.
func Prune(snapshots []Snapshot, metadata *Metadata, percentile float64) ([]string, error) {
	if len(snapshots) == 0 {
		return nil, ErrNoPositiveWeights
	}

	unimportant, _, err := UnimportantCharacters(snapshots[len(snapshots)-1], percentile)
	if err != nil || len(unimportant) == 0 {
		return nil, err
	}

	for i := range snapshots {
		snapshots[i].Matrix, snapshots[i].Names = RemoveCharacters(snapshots[i].Matrix, snapshots[i].Names, unimportant)
	}
	if metadata != nil {
		metadata.Remove(unimportant...)
	}
	return unimportant, nil
}
