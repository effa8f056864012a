// Package tree implements a CART-style decision tree classifier.
package tree

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/skuroda/mlnotes/core/model"
	"github.com/skuroda/mlnotes/pkg/errors"
)

// DecisionTreeClassifier is a binary-split decision tree grown greedily:
// at every node the split minimizing weighted child impurity is chosen
// by exhaustive search over the midpoints of sorted feature values.
type DecisionTreeClassifier struct {
	model.BaseEstimator

	// Hyperparameters
	criterion       string // "gini" or "entropy"
	maxDepth        int    // 0 means unlimited
	minSamplesSplit int
	minSamplesLeaf  int

	// Learned parameters
	root       *node
	classes_   []int
	nClasses_  int
	nFeatures_ int

	// Accumulated impurity decrease per feature, normalized after fit.
	featureImportances_ []float64
}

// node is one tree node; leaves carry class counts, internal nodes a
// feature/threshold split.
type node struct {
	feature   int
	threshold float64
	left      *node
	right     *node

	// class distribution of the training rows that reached this node
	counts []int
	total  int
}

func (n *node) isLeaf() bool {
	return n.left == nil
}

// TreeOption configures DecisionTreeClassifier.
type TreeOption func(*DecisionTreeClassifier)

// WithCriterion sets the impurity criterion: "gini" or "entropy".
func WithCriterion(criterion string) TreeOption {
	return func(dt *DecisionTreeClassifier) {
		dt.criterion = criterion
	}
}

// WithMaxDepth caps the tree depth. Zero means unlimited.
func WithMaxDepth(depth int) TreeOption {
	return func(dt *DecisionTreeClassifier) {
		dt.maxDepth = depth
	}
}

// WithMinSamplesSplit sets the minimum rows a node needs to be split.
func WithMinSamplesSplit(n int) TreeOption {
	return func(dt *DecisionTreeClassifier) {
		dt.minSamplesSplit = n
	}
}

// WithMinSamplesLeaf sets the minimum rows a leaf must keep.
func WithMinSamplesLeaf(n int) TreeOption {
	return func(dt *DecisionTreeClassifier) {
		dt.minSamplesLeaf = n
	}
}

// NewDecisionTreeClassifier creates a classifier with gini criterion and
// no depth limit.
func NewDecisionTreeClassifier(options ...TreeOption) *DecisionTreeClassifier {
	dt := &DecisionTreeClassifier{
		criterion:       "gini",
		maxDepth:        0,
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
	}
	for _, opt := range options {
		opt(dt)
	}
	return dt
}

// Fit grows the tree on X and the integer labels in column vector y.
func (dt *DecisionTreeClassifier) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("DecisionTreeClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("DecisionTreeClassifier.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("DecisionTreeClassifier.Fit", "y must be a column vector")
	}
	if dt.criterion != "gini" && dt.criterion != "entropy" {
		return errors.NewValueError("DecisionTreeClassifier.Fit", "criterion must be \"gini\" or \"entropy\"")
	}
	if dt.minSamplesSplit < 2 || dt.minSamplesLeaf < 1 {
		return errors.NewValueError("DecisionTreeClassifier.Fit", "invalid minimum sample constraints")
	}

	// map labels to contiguous class indices
	seen := map[int]bool{}
	for i := 0; i < r; i++ {
		seen[int(y.At(i, 0))] = true
	}
	dt.classes_ = make([]int, 0, len(seen))
	for label := range seen {
		dt.classes_ = append(dt.classes_, label)
	}
	sort.Ints(dt.classes_)
	dt.nClasses_ = len(dt.classes_)
	dt.nFeatures_ = c

	classIndex := map[int]int{}
	for i, label := range dt.classes_ {
		classIndex[label] = i
	}
	yIdx := make([]int, r)
	for i := 0; i < r; i++ {
		yIdx[i] = classIndex[int(y.At(i, 0))]
	}

	indices := make([]int, r)
	for i := range indices {
		indices[i] = i
	}

	dt.featureImportances_ = make([]float64, c)
	dt.root = dt.grow(X, yIdx, indices, 1)

	// normalize importances to sum to 1
	total := 0.0
	for _, v := range dt.featureImportances_ {
		total += v
	}
	if total > 0 {
		for j := range dt.featureImportances_ {
			dt.featureImportances_[j] /= total
		}
	}

	dt.SetDimensions(r, c)
	dt.SetFitted()
	return nil
}

// grow recursively builds the subtree for the given row indices.
func (dt *DecisionTreeClassifier) grow(X mat.Matrix, yIdx, indices []int, depth int) *node {
	n := &node{counts: make([]int, dt.nClasses_), total: len(indices)}
	for _, i := range indices {
		n.counts[yIdx[i]]++
	}

	if dt.pure(n.counts) ||
		len(indices) < dt.minSamplesSplit ||
		(dt.maxDepth > 0 && depth > dt.maxDepth) {
		return n
	}

	feature, threshold, gain := dt.bestSplit(X, yIdx, indices, n.counts)
	if gain <= 0 {
		return n
	}

	var left, right []int
	for _, i := range indices {
		if X.At(i, feature) <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < dt.minSamplesLeaf || len(right) < dt.minSamplesLeaf {
		return n
	}

	n.feature = feature
	n.threshold = threshold
	dt.featureImportances_[feature] += gain * float64(len(indices))
	n.left = dt.grow(X, yIdx, left, depth+1)
	n.right = dt.grow(X, yIdx, right, depth+1)
	return n
}

// pure reports whether all rows at a node share one class.
func (dt *DecisionTreeClassifier) pure(counts []int) bool {
	nonzero := 0
	for _, c := range counts {
		if c > 0 {
			nonzero++
		}
	}
	return nonzero <= 1
}

// bestSplit searches every feature and every midpoint between adjacent
// sorted values for the split with the largest impurity decrease.
func (dt *DecisionTreeClassifier) bestSplit(X mat.Matrix, yIdx, indices, parentCounts []int) (feature int, threshold, gain float64) {
	parentImpurity := dt.impurity(parentCounts, len(indices))
	n := float64(len(indices))

	bestGain := 0.0
	bestFeature := -1
	bestThreshold := 0.0

	type valueLabel struct {
		value float64
		label int
	}
	sorted := make([]valueLabel, len(indices))

	leftCounts := make([]int, dt.nClasses_)
	rightCounts := make([]int, dt.nClasses_)

	for j := 0; j < dt.nFeatures_; j++ {
		for k, i := range indices {
			sorted[k] = valueLabel{value: X.At(i, j), label: yIdx[i]}
		}
		sort.Slice(sorted, func(a, b int) bool { return sorted[a].value < sorted[b].value })

		for c := range leftCounts {
			leftCounts[c] = 0
			rightCounts[c] = parentCounts[c]
		}

		for k := 0; k < len(sorted)-1; k++ {
			leftCounts[sorted[k].label]++
			rightCounts[sorted[k].label]--

			if sorted[k].value == sorted[k+1].value {
				continue
			}

			nLeft := k + 1
			nRight := len(sorted) - nLeft
			childImpurity := (float64(nLeft)*dt.impurity(leftCounts, nLeft) +
				float64(nRight)*dt.impurity(rightCounts, nRight)) / n

			if g := parentImpurity - childImpurity; g > bestGain {
				bestGain = g
				bestFeature = j
				bestThreshold = (sorted[k].value + sorted[k+1].value) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestGain
}

// impurity computes gini or entropy for a class count vector.
func (dt *DecisionTreeClassifier) impurity(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}

	if dt.criterion == "entropy" {
		ent := 0.0
		for _, c := range counts {
			if c == 0 {
				continue
			}
			p := float64(c) / float64(total)
			ent -= p * math.Log2(p)
		}
		return ent
	}

	gini := 1.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		gini -= p * p
	}
	return gini
}

// descend walks a sample down to its leaf.
func (dt *DecisionTreeClassifier) descend(sample []float64) *node {
	n := dt.root
	for !n.isLeaf() {
		if sample[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n
}

// Predict returns the majority class of each row's leaf.
func (dt *DecisionTreeClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !dt.IsFitted() {
		return nil, errors.NewNotFittedError("DecisionTreeClassifier", "Predict")
	}

	r, c := X.Dims()
	if c != dt.nFeatures_ {
		return nil, errors.NewDimensionError("DecisionTreeClassifier.Predict", dt.nFeatures_, c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)
	sample := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(sample, i, X)
		leaf := dt.descend(sample)

		best, bestCount := 0, -1
		for cls, count := range leaf.counts {
			if count > bestCount {
				best, bestCount = cls, count
			}
		}
		predictions.Set(i, 0, float64(dt.classes_[best]))
	}
	return predictions, nil
}

// PredictProba returns each row's leaf class distribution, columns
// ordered like Classes().
func (dt *DecisionTreeClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !dt.IsFitted() {
		return nil, errors.NewNotFittedError("DecisionTreeClassifier", "PredictProba")
	}

	r, c := X.Dims()
	if c != dt.nFeatures_ {
		return nil, errors.NewDimensionError("DecisionTreeClassifier.PredictProba", dt.nFeatures_, c, 1)
	}

	proba := mat.NewDense(r, dt.nClasses_, nil)
	sample := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(sample, i, X)
		leaf := dt.descend(sample)
		for cls, count := range leaf.counts {
			proba.Set(i, cls, float64(count)/float64(leaf.total))
		}
	}
	return proba, nil
}

// Score returns the accuracy on X against the true labels y.
func (dt *DecisionTreeClassifier) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := dt.Predict(X)
	if err != nil {
		return 0, err
	}

	r, _ := y.Dims()
	correct := 0
	for i := 0; i < r; i++ {
		if int(predictions.At(i, 0)) == int(y.At(i, 0)) {
			correct++
		}
	}
	return float64(correct) / float64(r), nil
}

// Classes returns the unique class labels seen during fitting.
func (dt *DecisionTreeClassifier) Classes() []int {
	classes := make([]int, len(dt.classes_))
	copy(classes, dt.classes_)
	return classes
}

// FeatureImportances returns the normalized impurity decrease per
// feature.
func (dt *DecisionTreeClassifier) FeatureImportances() []float64 {
	imp := make([]float64, len(dt.featureImportances_))
	copy(imp, dt.featureImportances_)
	return imp
}

// GetParams returns the classifier's hyperparameters.
func (dt *DecisionTreeClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"criterion":         dt.criterion,
		"max_depth":         dt.maxDepth,
		"min_samples_split": dt.minSamplesSplit,
		"min_samples_leaf":  dt.minSamplesLeaf,
	}
}
