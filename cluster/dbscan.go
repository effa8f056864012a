package cluster

import (
	"gonum.org/v1/gonum/mat"

	"github.com/skuroda/mlnotes/core/model"
	"github.com/skuroda/mlnotes/pkg/errors"
)

// NoiseLabel marks points DBSCAN could not assign to any cluster.
const NoiseLabel = -1

// DBSCAN implements density-based clustering. A point with at least
// minSamples neighbors (itself included) within eps is a core point;
// clusters grow by expanding from core points over the neighbor graph.
// Points reachable from no core point are labeled NoiseLabel.
//
// Neighbor search is brute force. The walkthrough datasets are a few
// hundred rows, where an index structure would cost more than it saves.
type DBSCAN struct {
	model.BaseEstimator

	// Hyperparameters
	eps        float64 // neighborhood radius
	minSamples int     // density threshold, the query point included

	// Learned parameters
	labels_      []int
	coreIndices_ []int
	nClusters_   int
}

// DBSCANOption configures DBSCAN.
type DBSCANOption func(*DBSCAN)

// WithEps sets the neighborhood radius.
func WithEps(eps float64) DBSCANOption {
	return func(db *DBSCAN) {
		db.eps = eps
	}
}

// WithMinSamples sets the density threshold.
func WithMinSamples(n int) DBSCANOption {
	return func(db *DBSCAN) {
		db.minSamples = n
	}
}

// NewDBSCAN creates a DBSCAN clusterer with sklearn-like defaults.
func NewDBSCAN(options ...DBSCANOption) *DBSCAN {
	db := &DBSCAN{
		eps:        0.5,
		minSamples: 5,
	}
	for _, opt := range options {
		opt(db)
	}
	return db
}

// Fit clusters X and stores labels, core point indices, and the cluster
// count.
func (db *DBSCAN) Fit(X mat.Matrix) error {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError("DBSCAN.Fit", "empty data", errors.ErrEmptyData)
	}
	if db.eps <= 0 {
		return errors.NewValueError("DBSCAN.Fit", "eps must be positive")
	}
	if db.minSamples < 1 {
		return errors.NewValueError("DBSCAN.Fit", "minSamples must be at least 1")
	}

	neighbors := db.neighborLists(X)

	const unvisited = -2
	labels := make([]int, rows)
	for i := range labels {
		labels[i] = unvisited
	}

	var coreIndices []int
	cluster := 0

	for i := 0; i < rows; i++ {
		if labels[i] != unvisited {
			continue
		}
		if len(neighbors[i]) < db.minSamples {
			labels[i] = NoiseLabel
			continue
		}

		// new cluster: BFS expansion from this core point
		labels[i] = cluster
		coreIndices = append(coreIndices, i)
		queue := append([]int(nil), neighbors[i]...)

		for len(queue) > 0 {
			p := queue[0]
			queue = queue[1:]

			if labels[p] == NoiseLabel {
				// border point previously written off as noise
				labels[p] = cluster
			}
			if labels[p] != unvisited {
				continue
			}
			labels[p] = cluster

			if len(neighbors[p]) >= db.minSamples {
				coreIndices = append(coreIndices, p)
				queue = append(queue, neighbors[p]...)
			}
		}

		cluster++
	}

	db.labels_ = labels
	db.coreIndices_ = coreIndices
	db.nClusters_ = cluster

	db.SetDimensions(rows, cols)
	db.SetFitted()
	return nil
}

// neighborLists builds the eps-neighborhood of every row, the row itself
// included.
func (db *DBSCAN) neighborLists(X mat.Matrix) [][]int {
	rows, cols := X.Dims()
	neighbors := make([][]int, rows)

	a := make([]float64, cols)
	b := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(a, i, X)
		for j := 0; j < rows; j++ {
			mat.Row(b, j, X)
			if euclideanDistance(a, b) <= db.eps {
				neighbors[i] = append(neighbors[i], j)
			}
		}
	}
	return neighbors
}

// FitPredict clusters X and returns one label per row, NoiseLabel for
// noise.
func (db *DBSCAN) FitPredict(X mat.Matrix) ([]int, error) {
	if err := db.Fit(X); err != nil {
		return nil, err
	}
	return db.Labels(), nil
}

// Labels returns a copy of the cluster labels.
func (db *DBSCAN) Labels() []int {
	labels := make([]int, len(db.labels_))
	copy(labels, db.labels_)
	return labels
}

// CoreSampleIndices returns the indices of the core points.
func (db *DBSCAN) CoreSampleIndices() []int {
	core := make([]int, len(db.coreIndices_))
	copy(core, db.coreIndices_)
	return core
}

// NClusters returns the number of clusters found, noise excluded.
func (db *DBSCAN) NClusters() int {
	return db.nClusters_
}

// GetParams returns the clusterer's hyperparameters.
func (db *DBSCAN) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"eps":         db.eps,
		"min_samples": db.minSamples,
	}
}
