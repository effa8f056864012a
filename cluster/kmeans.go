// Package cluster implements the unsupervised models used by the
// clustering walkthrough.
package cluster

import (
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/skuroda/mlnotes/core/model"
	"github.com/skuroda/mlnotes/pkg/errors"
	"github.com/skuroda/mlnotes/pkg/log"
)

// KMeans implements Lloyd's algorithm with k-means++ initialization.
// Compatible with the shape of scikit-learn's KMeans.
type KMeans struct {
	model.BaseEstimator

	// Hyperparameters
	nClusters   int     // number of clusters
	init        string  // "k-means++" or "random"
	maxIter     int     // iteration cap per run
	nInit       int     // independent restarts, best inertia wins
	tol         float64 // center-shift convergence threshold
	randomState int64   // seed, negative means time-based

	// Learned parameters
	centers_ [][]float64 // nClusters x nFeatures
	labels_  []int       // label per training row
	inertia_ float64     // within-cluster sum of squared distances
	nIter_   int         // iterations of the best run

	// Internal state
	mu         sync.RWMutex
	rng        *rand.Rand
	nFeatures_ int
}

// KMeansOption configures KMeans.
type KMeansOption func(*KMeans)

// WithNClusters sets the number of clusters.
func WithNClusters(n int) KMeansOption {
	return func(km *KMeans) {
		km.nClusters = n
	}
}

// WithInit sets the initialization method: "k-means++" or "random".
func WithInit(init string) KMeansOption {
	return func(km *KMeans) {
		km.init = init
	}
}

// WithMaxIter sets the iteration cap per run.
func WithMaxIter(n int) KMeansOption {
	return func(km *KMeans) {
		km.maxIter = n
	}
}

// WithNInit sets how many independent restarts to run.
func WithNInit(n int) KMeansOption {
	return func(km *KMeans) {
		km.nInit = n
	}
}

// WithTol sets the center-shift convergence threshold.
func WithTol(tol float64) KMeansOption {
	return func(km *KMeans) {
		km.tol = tol
	}
}

// WithRandomState sets the random seed.
func WithRandomState(seed int64) KMeansOption {
	return func(km *KMeans) {
		km.randomState = seed
		km.rng = rand.New(rand.NewSource(seed))
	}
}

// NewKMeans creates a KMeans clusterer with sklearn-like defaults.
func NewKMeans(options ...KMeansOption) *KMeans {
	km := &KMeans{
		nClusters:   8,
		init:        "k-means++",
		maxIter:     300,
		nInit:       10,
		tol:         1e-4,
		randomState: -1,
	}
	for _, opt := range options {
		opt(km)
	}
	if km.rng == nil {
		km.rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return km
}

// Fit runs nInit restarts of Lloyd's algorithm and keeps the best run.
func (km *KMeans) Fit(X mat.Matrix) error {
	km.mu.Lock()
	defer km.mu.Unlock()

	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError("KMeans.Fit", "empty data", errors.ErrEmptyData)
	}
	if rows < km.nClusters {
		return errors.Newf("mlnotes: KMeans.Fit: %d samples for %d clusters", rows, km.nClusters)
	}

	km.nFeatures_ = cols

	bestInertia := math.Inf(1)
	var bestCenters [][]float64
	var bestLabels []int
	var bestNIter int

	for run := 0; run < km.nInit; run++ {
		centers, labels, inertia, nIter := km.lloyd(X)
		if inertia < bestInertia {
			bestInertia = inertia
			bestCenters = centers
			bestLabels = labels
			bestNIter = nIter
		}
	}

	km.centers_ = bestCenters
	km.labels_ = bestLabels
	km.inertia_ = bestInertia
	km.nIter_ = bestNIter

	log.GetLogger().Debug("kmeans fit complete",
		log.ModelKey, "KMeans",
		log.SamplesKey, rows,
		"n_clusters", km.nClusters,
		"inertia", bestInertia,
		log.IterationKey, bestNIter,
	)

	km.SetDimensions(rows, cols)
	km.SetFitted()
	return nil
}

// lloyd runs a single restart: init centers, then alternate assignment
// and mean updates until centers stop moving or maxIter is reached.
func (km *KMeans) lloyd(X mat.Matrix) ([][]float64, []int, float64, int) {
	rows, cols := X.Dims()

	centers := km.initCenters(X)
	labels := make([]int, rows)
	counts := make([]int, km.nClusters)
	sums := make([][]float64, km.nClusters)
	for c := range sums {
		sums[c] = make([]float64, cols)
	}

	sample := make([]float64, cols)
	var iter int
	for iter = 0; iter < km.maxIter; iter++ {
		for c := 0; c < km.nClusters; c++ {
			counts[c] = 0
			for j := 0; j < cols; j++ {
				sums[c][j] = 0
			}
		}

		// assignment step
		for i := 0; i < rows; i++ {
			mat.Row(sample, i, X)
			labels[i] = nearestCenter(sample, centers)
			counts[labels[i]]++
			for j := 0; j < cols; j++ {
				sums[labels[i]][j] += sample[j]
			}
		}

		// update step; an empty cluster is reseeded from the point
		// farthest from its center
		shift := 0.0
		for c := 0; c < km.nClusters; c++ {
			if counts[c] == 0 {
				km.reseedEmpty(X, centers, labels, c)
				continue
			}
			for j := 0; j < cols; j++ {
				next := sums[c][j] / float64(counts[c])
				d := next - centers[c][j]
				shift += d * d
				centers[c][j] = next
			}
		}

		if shift < km.tol {
			iter++
			break
		}
	}

	// final assignment against the settled centers
	inertia := 0.0
	for i := 0; i < rows; i++ {
		mat.Row(sample, i, X)
		labels[i] = nearestCenter(sample, centers)
		d := euclideanDistance(sample, centers[labels[i]])
		inertia += d * d
	}

	return centers, labels, inertia, iter
}

// reseedEmpty moves an empty cluster's center onto the sample farthest
// from its current assignment.
func (km *KMeans) reseedEmpty(X mat.Matrix, centers [][]float64, labels []int, c int) {
	rows, cols := X.Dims()
	sample := make([]float64, cols)

	worstDist := -1.0
	worstIdx := 0
	for i := 0; i < rows; i++ {
		mat.Row(sample, i, X)
		d := euclideanDistance(sample, centers[labels[i]])
		if d > worstDist {
			worstDist = d
			worstIdx = i
		}
	}

	mat.Row(centers[c], worstIdx, X)
	labels[worstIdx] = c
}

// initCenters picks the initial centers by the configured strategy.
func (km *KMeans) initCenters(X mat.Matrix) [][]float64 {
	rows, cols := X.Dims()

	if km.init == "random" {
		centers := make([][]float64, km.nClusters)
		for c := range centers {
			centers[c] = make([]float64, cols)
			mat.Row(centers[c], km.rng.Intn(rows), X)
		}
		return centers
	}

	// default: k-means++
	return km.initPlusPlus(X)
}

// initPlusPlus seeds centers with the k-means++ scheme: each new center
// is drawn with probability proportional to the squared distance from
// the nearest already-chosen center.
func (km *KMeans) initPlusPlus(X mat.Matrix) [][]float64 {
	rows, cols := X.Dims()
	centers := make([][]float64, km.nClusters)

	centers[0] = make([]float64, cols)
	mat.Row(centers[0], km.rng.Intn(rows), X)

	sample := make([]float64, cols)
	distances := make([]float64, rows)

	for c := 1; c < km.nClusters; c++ {
		total := 0.0
		for i := 0; i < rows; i++ {
			mat.Row(sample, i, X)
			minDist := math.Inf(1)
			for j := 0; j < c; j++ {
				if d := euclideanDistance(sample, centers[j]); d < minDist {
					minDist = d
				}
			}
			distances[i] = minDist * minDist
			total += distances[i]
		}

		target := km.rng.Float64() * total
		cumSum := 0.0
		selected := rows - 1
		for i := 0; i < rows; i++ {
			cumSum += distances[i]
			if cumSum >= target {
				selected = i
				break
			}
		}

		centers[c] = make([]float64, cols)
		mat.Row(centers[c], selected, X)
	}

	return centers
}

// Predict assigns each row of X to its nearest learned center.
func (km *KMeans) Predict(X mat.Matrix) ([]int, error) {
	km.mu.RLock()
	defer km.mu.RUnlock()

	if !km.IsFitted() {
		return nil, errors.NewNotFittedError("KMeans", "Predict")
	}

	rows, cols := X.Dims()
	if cols != km.nFeatures_ {
		return nil, errors.NewDimensionError("KMeans.Predict", km.nFeatures_, cols, 1)
	}

	labels := make([]int, rows)
	sample := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(sample, i, X)
		labels[i] = nearestCenter(sample, km.centers_)
	}
	return labels, nil
}

// FitPredict fits the model and returns the training labels.
func (km *KMeans) FitPredict(X mat.Matrix) ([]int, error) {
	if err := km.Fit(X); err != nil {
		return nil, err
	}
	return km.Labels(), nil
}

// Centers returns a copy of the learned cluster centers.
func (km *KMeans) Centers() [][]float64 {
	km.mu.RLock()
	defer km.mu.RUnlock()

	centers := make([][]float64, len(km.centers_))
	for i := range km.centers_ {
		centers[i] = make([]float64, len(km.centers_[i]))
		copy(centers[i], km.centers_[i])
	}
	return centers
}

// Labels returns a copy of the training labels.
func (km *KMeans) Labels() []int {
	km.mu.RLock()
	defer km.mu.RUnlock()

	labels := make([]int, len(km.labels_))
	copy(labels, km.labels_)
	return labels
}

// Inertia returns the within-cluster sum of squared distances of the
// best run.
func (km *KMeans) Inertia() float64 {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return km.inertia_
}

// NIterations returns the iteration count of the best run.
func (km *KMeans) NIterations() int {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return km.nIter_
}

// GetParams returns the clusterer's hyperparameters.
func (km *KMeans) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_clusters":   km.nClusters,
		"init":         km.init,
		"max_iter":     km.maxIter,
		"n_init":       km.nInit,
		"tol":          km.tol,
		"random_state": km.randomState,
	}
}

// nearestCenter returns the index of the closest center to sample.
func nearestCenter(sample []float64, centers [][]float64) int {
	minDist := math.Inf(1)
	nearest := 0
	for c, center := range centers {
		if d := euclideanDistance(sample, center); d < minDist {
			minDist = d
			nearest = c
		}
	}
	return nearest
}

// euclideanDistance computes the L2 distance between two vectors.
func euclideanDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
