// Package anomaly implements the outlier detection models used by the
// anomaly detection walkthrough.
package anomaly

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/skuroda/mlnotes/core/model"
	"github.com/skuroda/mlnotes/pkg/errors"
	"github.com/skuroda/mlnotes/pkg/log"
)

// IsolationForest isolates anomalies with an ensemble of random binary
// trees: outliers sit in sparse regions and need fewer random splits to
// end up alone, so their average path length is short. The anomaly
// score is
//
//	s(x) = 2^(-E[h(x)] / c(ψ))
//
// where h is the path length, ψ the subsample size, and c(ψ) the
// average path length of an unsuccessful BST search, as in Liu,
// Ting, Zhou (2008).
type IsolationForest struct {
	model.BaseEstimator

	// Hyperparameters
	nEstimators   int     // number of trees
	maxSamples    int     // subsample size per tree
	contamination float64 // expected outlier fraction, sets the threshold
	randomState   int64

	// Learned parameters
	trees      []*isoNode
	threshold_ float64 // scores above this are outliers
	nFeatures  int
	subsample  int // effective ψ after clamping to n
}

// isoNode is a node of one isolation tree.
type isoNode struct {
	feature   int
	threshold float64
	left      *isoNode
	right     *isoNode
	size      int // rows that reached this external node
}

func (n *isoNode) external() bool {
	return n.left == nil
}

// ForestOption configures IsolationForest.
type ForestOption func(*IsolationForest)

// WithNEstimators sets the number of trees.
func WithNEstimators(n int) ForestOption {
	return func(f *IsolationForest) {
		f.nEstimators = n
	}
}

// WithMaxSamples sets the subsample size per tree.
func WithMaxSamples(n int) ForestOption {
	return func(f *IsolationForest) {
		f.maxSamples = n
	}
}

// WithContamination sets the expected fraction of outliers.
func WithContamination(c float64) ForestOption {
	return func(f *IsolationForest) {
		f.contamination = c
	}
}

// WithRandomState sets the random seed.
func WithRandomState(seed int64) ForestOption {
	return func(f *IsolationForest) {
		f.randomState = seed
	}
}

// NewIsolationForest creates a detector with the paper's defaults:
// 100 trees on subsamples of 256 rows, 10% contamination.
func NewIsolationForest(options ...ForestOption) *IsolationForest {
	f := &IsolationForest{
		nEstimators:   100,
		maxSamples:    256,
		contamination: 0.1,
		randomState:   42,
	}
	for _, opt := range options {
		opt(f)
	}
	return f
}

// Fit builds the tree ensemble and derives the score threshold from the
// contamination quantile of the training scores.
func (f *IsolationForest) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("IsolationForest.Fit", "empty data", errors.ErrEmptyData)
	}
	if f.nEstimators < 1 {
		return errors.NewValueError("IsolationForest.Fit", "nEstimators must be at least 1")
	}
	if f.contamination <= 0 || f.contamination >= 0.5 {
		return errors.NewValueError("IsolationForest.Fit", "contamination must be in (0, 0.5)")
	}

	f.nFeatures = c
	f.subsample = f.maxSamples
	if f.subsample > r {
		f.subsample = r
	}

	rng := rand.New(rand.NewSource(f.randomState))
	heightLimit := int(math.Ceil(math.Log2(float64(f.subsample))))

	f.trees = make([]*isoNode, f.nEstimators)
	for t := range f.trees {
		indices := rng.Perm(r)[:f.subsample]
		f.trees[t] = f.buildTree(X, indices, 0, heightLimit, rng)
	}

	// threshold = (1 - contamination) quantile of training scores
	f.SetFitted() // scoreAll needs the fitted ensemble
	scores, err := f.ScoreSamples(X)
	if err != nil {
		f.Reset()
		return err
	}
	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)
	idx := int(float64(r) * (1 - f.contamination))
	if idx >= r {
		idx = r - 1
	}
	f.threshold_ = sorted[idx]

	log.GetLogger().Debug("isolation forest fit complete",
		log.ModelKey, "IsolationForest",
		log.SamplesKey, r,
		"n_trees", f.nEstimators,
		"threshold", f.threshold_,
	)

	f.SetDimensions(r, c)
	return nil
}

// buildTree grows one isolation tree by recursive random splits.
func (f *IsolationForest) buildTree(X mat.Matrix, indices []int, depth, limit int, rng *rand.Rand) *isoNode {
	if depth >= limit || len(indices) <= 1 {
		return &isoNode{size: len(indices)}
	}

	// random feature, then a random cut between its min and max
	feature := rng.Intn(f.nFeatures)
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, i := range indices {
		v := X.At(i, feature)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		return &isoNode{size: len(indices)}
	}
	threshold := lo + rng.Float64()*(hi-lo)

	var left, right []int
	for _, i := range indices {
		if X.At(i, feature) < threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &isoNode{
		feature:   feature,
		threshold: threshold,
		left:      f.buildTree(X, left, depth+1, limit, rng),
		right:     f.buildTree(X, right, depth+1, limit, rng),
	}
}

// pathLength follows a sample down one tree; external nodes holding
// more than one row are credited their expected remaining depth c(size).
func pathLength(n *isoNode, sample []float64, depth float64) float64 {
	if n.external() {
		return depth + avgPathLength(n.size)
	}
	if sample[n.feature] < n.threshold {
		return pathLength(n.left, sample, depth+1)
	}
	return pathLength(n.right, sample, depth+1)
}

// avgPathLength is c(n), the average path length of an unsuccessful
// search in a BST of n nodes.
func avgPathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	h := math.Log(float64(n-1)) + 0.5772156649 // harmonic number via Euler-Mascheroni
	return 2*h - 2*float64(n-1)/float64(n)
}

// ScoreSamples returns the anomaly score in (0, 1) for each row, higher
// meaning more anomalous.
func (f *IsolationForest) ScoreSamples(X mat.Matrix) ([]float64, error) {
	if !f.IsFitted() {
		return nil, errors.NewNotFittedError("IsolationForest", "ScoreSamples")
	}

	r, c := X.Dims()
	if c != f.nFeatures {
		return nil, errors.NewDimensionError("IsolationForest.ScoreSamples", f.nFeatures, c, 1)
	}

	cn := avgPathLength(f.subsample)
	scores := make([]float64, r)
	sample := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(sample, i, X)
		var sum float64
		for _, tree := range f.trees {
			sum += pathLength(tree, sample, 0)
		}
		mean := sum / float64(len(f.trees))
		scores[i] = math.Pow(2, -mean/cn)
	}
	return scores, nil
}

// Predict returns +1 for inliers and -1 for outliers.
func (f *IsolationForest) Predict(X mat.Matrix) ([]int, error) {
	scores, err := f.ScoreSamples(X)
	if err != nil {
		return nil, err
	}

	labels := make([]int, len(scores))
	for i, s := range scores {
		if s >= f.threshold_ {
			labels[i] = -1
		} else {
			labels[i] = 1
		}
	}
	return labels, nil
}

// Threshold returns the score threshold derived during Fit.
func (f *IsolationForest) Threshold() float64 {
	return f.threshold_
}

// GetParams returns the detector's hyperparameters.
func (f *IsolationForest) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_estimators":  f.nEstimators,
		"max_samples":   f.maxSamples,
		"contamination": f.contamination,
		"random_state":  f.randomState,
	}
}
