// Package neighbors implements the k-nearest-neighbor classifier used by
// the classification walkthrough.
package neighbors

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/skuroda/mlnotes/core/model"
	"github.com/skuroda/mlnotes/pkg/errors"
)

// DistanceFunc measures the distance between two n-dimensional vectors.
type DistanceFunc func(a, b []float64) float64

var (
	// EuclideanDistance is the default metric.
	EuclideanDistance DistanceFunc = func(a, b []float64) float64 {
		var s float64
		for i := range a {
			d := a[i] - b[i]
			s += d * d
		}
		return math.Sqrt(s)
	}

	// ManhattanDistance sums absolute coordinate differences.
	ManhattanDistance DistanceFunc = func(a, b []float64) float64 {
		var s float64
		for i := range a {
			s += math.Abs(a[i] - b[i])
		}
		return s
	}
)

// KNNClassifier is a brute-force k-nearest-neighbor classifier.
// Fit only memorizes the training set; all work happens in Predict.
type KNNClassifier struct {
	model.BaseEstimator

	// Hyperparameters
	nNeighbors int
	distance   DistanceFunc

	// Memorized training data
	X_        *mat.Dense
	y_        []int
	classes_  []int
	nFeatures int
}

// KNNOption configures KNNClassifier.
type KNNOption func(*KNNClassifier)

// WithNNeighbors sets k.
func WithNNeighbors(k int) KNNOption {
	return func(knn *KNNClassifier) {
		knn.nNeighbors = k
	}
}

// WithDistance sets the distance metric.
func WithDistance(d DistanceFunc) KNNOption {
	return func(knn *KNNClassifier) {
		knn.distance = d
	}
}

// NewKNNClassifier creates a classifier with k=5 and euclidean distance.
func NewKNNClassifier(options ...KNNOption) *KNNClassifier {
	knn := &KNNClassifier{
		nNeighbors: 5,
		distance:   EuclideanDistance,
	}
	for _, opt := range options {
		opt(knn)
	}
	return knn
}

// Fit memorizes the training data. y must be a column vector of integer
// class labels.
func (knn *KNNClassifier) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("KNNClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("KNNClassifier.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("KNNClassifier.Fit", "y must be a column vector")
	}
	if knn.nNeighbors < 1 {
		return errors.NewValueError("KNNClassifier.Fit", "nNeighbors must be at least 1")
	}
	if knn.nNeighbors > r {
		return errors.Newf("mlnotes: KNNClassifier.Fit: nNeighbors=%d exceeds %d training samples", knn.nNeighbors, r)
	}

	knn.X_ = mat.DenseCopyOf(X)
	knn.y_ = make([]int, r)
	seen := map[int]bool{}
	for i := 0; i < r; i++ {
		label := int(y.At(i, 0))
		knn.y_[i] = label
		seen[label] = true
	}

	knn.classes_ = make([]int, 0, len(seen))
	for label := range seen {
		knn.classes_ = append(knn.classes_, label)
	}
	sort.Ints(knn.classes_)

	knn.nFeatures = c
	knn.SetDimensions(r, c)
	knn.SetFitted()
	return nil
}

// neighbor pairs a training index with its distance to the query point.
type neighbor struct {
	idx  int
	dist float64
}

// kNearest returns the k nearest training rows to the query point.
func (knn *KNNClassifier) kNearest(query []float64) []neighbor {
	r, _ := knn.X_.Dims()
	dists := make([]neighbor, r)
	row := make([]float64, knn.nFeatures)
	for i := 0; i < r; i++ {
		mat.Row(row, i, knn.X_)
		dists[i] = neighbor{idx: i, dist: knn.distance(query, row)}
	}
	sort.Slice(dists, func(a, b int) bool {
		if dists[a].dist != dists[b].dist {
			return dists[a].dist < dists[b].dist
		}
		return dists[a].idx < dists[b].idx
	})
	return dists[:knn.nNeighbors]
}

// vote returns the majority class among the neighbors; ties go to the
// smallest label so predictions are deterministic.
func (knn *KNNClassifier) vote(nearest []neighbor) int {
	counts := map[int]int{}
	for _, nb := range nearest {
		counts[knn.y_[nb.idx]]++
	}

	best := knn.classes_[0]
	bestCount := -1
	for _, label := range knn.classes_ {
		if counts[label] > bestCount {
			best = label
			bestCount = counts[label]
		}
	}
	return best
}

// Predict returns the majority-vote class for each row of X.
func (knn *KNNClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !knn.IsFitted() {
		return nil, errors.NewNotFittedError("KNNClassifier", "Predict")
	}

	r, c := X.Dims()
	if c != knn.nFeatures {
		return nil, errors.NewDimensionError("KNNClassifier.Predict", knn.nFeatures, c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)
	query := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(query, i, X)
		predictions.Set(i, 0, float64(knn.vote(knn.kNearest(query))))
	}
	return predictions, nil
}

// PredictProba returns the fraction of neighbors voting for each class,
// columns ordered like Classes().
func (knn *KNNClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !knn.IsFitted() {
		return nil, errors.NewNotFittedError("KNNClassifier", "PredictProba")
	}

	r, c := X.Dims()
	if c != knn.nFeatures {
		return nil, errors.NewDimensionError("KNNClassifier.PredictProba", knn.nFeatures, c, 1)
	}

	classIndex := map[int]int{}
	for i, label := range knn.classes_ {
		classIndex[label] = i
	}

	proba := mat.NewDense(r, len(knn.classes_), nil)
	query := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(query, i, X)
		for _, nb := range knn.kNearest(query) {
			j := classIndex[knn.y_[nb.idx]]
			proba.Set(i, j, proba.At(i, j)+1/float64(knn.nNeighbors))
		}
	}
	return proba, nil
}

// Score returns the accuracy on X against the true labels y.
func (knn *KNNClassifier) Score(X, y mat.Matrix) (float64, error) {
	if !knn.IsFitted() {
		return 0, errors.NewNotFittedError("KNNClassifier", "Score")
	}

	predictions, err := knn.Predict(X)
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
func (knn *KNNClassifier) Classes() []int {
	classes := make([]int, len(knn.classes_))
	copy(classes, knn.classes_)
	return classes
}

// GetParams returns the classifier's hyperparameters.
func (knn *KNNClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_neighbors": knn.nNeighbors,
	}
}
