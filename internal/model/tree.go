package model

import (
	"math"
	"sort"
)

// Recursion guard; in practice trees on production data are far shallower
const maxTreeDepth = 32

const minSamplesSplit = 2

// treeNode is one node of a regression tree. Leaves carry the mean target
// of their samples; internal nodes route on feature <= threshold.
type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64
	leaf      bool
}

// regressionTree is a CART regression tree grown by variance reduction
type regressionTree struct {
	root *treeNode

	// importance accumulates the total weighted impurity decrease per
	// feature over the whole tree
	importance []float64
}

// growTree fits a regression tree on the rows of x indexed by idx
func growTree(x [][]float64, y []float64, idx []int, nFeatures int) *regressionTree {
	t := &regressionTree{importance: make([]float64, nFeatures)}
	t.root = t.grow(x, y, idx, 0, len(idx))
	return t
}

func (t *regressionTree) grow(x [][]float64, y []float64, idx []int, depth, total int) *treeNode {
	node := &treeNode{value: meanAt(y, idx), leaf: true}
	if len(idx) < minSamplesSplit || depth >= maxTreeDepth {
		return node
	}

	parentImpurity := varianceAt(y, idx)
	if parentImpurity == 0 {
		return node
	}

	feature, threshold, gain := t.bestSplit(x, y, idx, parentImpurity)
	if gain <= 0 {
		return node
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return node
	}

	// Weight the impurity decrease by the fraction of samples reaching
	// this node
	t.importance[feature] += gain * float64(len(idx)) / float64(total)

	node.leaf = false
	node.feature = feature
	node.threshold = threshold
	node.left = t.grow(x, y, left, depth+1, total)
	node.right = t.grow(x, y, right, depth+1, total)
	return node
}

// bestSplit scans every feature for the threshold with the largest
// variance reduction. Candidate thresholds are midpoints between
// consecutive distinct sorted values.
func (t *regressionTree) bestSplit(x [][]float64, y []float64, idx []int, parentImpurity float64) (int, float64, float64) {
	bestFeature := -1
	bestThreshold := 0.0
	bestGain := 0.0

	n := float64(len(idx))
	sorted := make([]int, len(idx))

	for feature := range x[idx[0]] {
		copy(sorted, idx)
		sort.Slice(sorted, func(a, b int) bool {
			return x[sorted[a]][feature] < x[sorted[b]][feature]
		})

		// Running sums give O(1) variance on both sides of each cut
		var leftSum, leftSq float64
		rightSum, rightSq := sumsAt(y, sorted)

		for cut := 1; cut < len(sorted); cut++ {
			v := y[sorted[cut-1]]
			leftSum += v
			leftSq += v * v
			rightSum -= v
			rightSq -= v * v

			prev := x[sorted[cut-1]][feature]
			curr := x[sorted[cut]][feature]
			if prev == curr {
				continue
			}

			nl := float64(cut)
			nr := n - nl
			leftVar := leftSq/nl - (leftSum/nl)*(leftSum/nl)
			rightVar := rightSq/nr - (rightSum/nr)*(rightSum/nr)

			gain := parentImpurity - (nl/n)*leftVar - (nr/n)*rightVar
			if gain > bestGain {
				bestGain = gain
				bestFeature = feature
				bestThreshold = (prev + curr) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestGain
}

// predict walks the tree for one feature row
func (t *regressionTree) predict(row []float64) float64 {
	node := t.root
	for !node.leaf {
		if row[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}

func meanAt(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

func varianceAt(y []float64, idx []int) float64 {
	mean := meanAt(y, idx)
	sum := 0.0
	for _, i := range idx {
		d := y[i] - mean
		sum += d * d
	}
	return sum / float64(len(idx))
}

func sumsAt(y []float64, idx []int) (sum, sq float64) {
	for _, i := range idx {
		sum += y[i]
		sq += y[i] * y[i]
	}
	return sum, sq
}
