package model

import (
	"fmt"
	"math/rand"
)

// Forest is a bagged ensemble of regression trees. Each tree trains on a
// bootstrap sample of the training rows; predictions average the trees.
type Forest struct {
	trees      []*regressionTree
	names      []string
	importance []float64
}

// TrainForest fits an ensemble of nTrees regression trees on the rows of
// fs indexed by trainIdx. The seed makes the bootstrap sampling, and
// therefore the fitted model, reproducible.
func TrainForest(fs *FeatureSet, trainIdx []int, nTrees int, seed int64) (*Forest, error) {
	if len(trainIdx) == 0 {
		return nil, fmt.Errorf("cannot train on an empty training set")
	}
	if nTrees < 1 {
		return nil, fmt.Errorf("tree count must be positive, got %d", nTrees)
	}

	rng := rand.New(rand.NewSource(seed))
	nFeatures := len(fs.Names)

	f := &Forest{
		trees:      make([]*regressionTree, 0, nTrees),
		names:      fs.Names,
		importance: make([]float64, nFeatures),
	}

	sample := make([]int, len(trainIdx))
	for t := 0; t < nTrees; t++ {
		for i := range sample {
			sample[i] = trainIdx[rng.Intn(len(trainIdx))]
		}
		tree := growTree(fs.X, fs.Y, sample, nFeatures)
		f.trees = append(f.trees, tree)

		for i, imp := range tree.importance {
			f.importance[i] += imp
		}
	}

	return f, nil
}

// Predict returns the ensemble prediction for one feature row
func (f *Forest) Predict(row []float64) float64 {
	sum := 0.0
	for _, tree := range f.trees {
		sum += tree.predict(row)
	}
	return sum / float64(len(f.trees))
}

// PredictAll returns predictions for the rows of fs indexed by idx
func (f *Forest) PredictAll(fs *FeatureSet, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, row := range idx {
		out[i] = f.Predict(fs.X[row])
	}
	return out
}

// FeatureImportance is a named importance score
type FeatureImportance struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Importances returns the accumulated impurity decrease per feature,
// normalized to sum to one, in feature order. A forest that never split
// returns all zeros.
func (f *Forest) Importances() []FeatureImportance {
	total := 0.0
	for _, imp := range f.importance {
		total += imp
	}

	out := make([]FeatureImportance, len(f.names))
	for i, name := range f.names {
		score := 0.0
		if total > 0 {
			score = f.importance[i] / total
		}
		out[i] = FeatureImportance{Name: name, Score: score}
	}
	return out
}
