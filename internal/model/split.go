package model

import (
	"math"
	"math/rand"
)

// TrainTestSplit shuffles row indices with the given seed and splits them
// into train and test sets. The test set holds ceil(n * testFraction)
// rows, so any non-empty dataset with a positive fraction gets at least
// one held-out row.
func TrainTestSplit(n int, testFraction float64, seed int64) (train, test []int) {
	if n == 0 {
		return nil, nil
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)

	testSize := int(math.Ceil(float64(n) * testFraction))
	if testSize > n {
		testSize = n
	}

	return perm[testSize:], perm[:testSize]
}
