package neighbors

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/skuroda/mlnotes/pkg/errors"
)

func clusterData() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(8, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		1, 1,
		5, 5,
		5, 6,
		6, 5,
		6, 6,
	})
	y := mat.NewDense(8, 1, []float64{0, 0, 0, 0, 1, 1, 1, 1})
	return X, y
}

func TestKNNClassifierFitPredict(t *testing.T) {
	X, y := clusterData()

	knn := NewKNNClassifier(WithNNeighbors(3))
	require.NoError(t, knn.Fit(X, y))

	XTest := mat.NewDense(2, 2, []float64{
		0.5, 0.5,
		5.5, 5.5,
	})
	pred, err := knn.Predict(XTest)
	require.NoError(t, err)
	assert.Equal(t, 0.0, pred.At(0, 0))
	assert.Equal(t, 1.0, pred.At(1, 0))
}

func TestKNNClassifierPredictProba(t *testing.T) {
	X, y := clusterData()

	knn := NewKNNClassifier(WithNNeighbors(4))
	require.NoError(t, knn.Fit(X, y))
	assert.Equal(t, []int{0, 1}, knn.Classes())

	// deep inside class 0, all four neighbors agree
	proba, err := knn.PredictProba(mat.NewDense(1, 2, []float64{0.5, 0.5}))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, proba.At(0, 0), 1e-10)
	assert.InDelta(t, 0.0, proba.At(0, 1), 1e-10)

	// rows sum to 1
	mid, err := knn.PredictProba(mat.NewDense(1, 2, []float64{3, 3}))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, mid.At(0, 0)+mid.At(0, 1), 1e-10)
}

func TestKNNClassifierScore(t *testing.T) {
	X, y := clusterData()

	knn := NewKNNClassifier(WithNNeighbors(3))
	require.NoError(t, knn.Fit(X, y))

	score, err := knn.Score(X, y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestKNNClassifierManhattan(t *testing.T) {
	X, y := clusterData()

	knn := NewKNNClassifier(WithNNeighbors(1), WithDistance(ManhattanDistance))
	require.NoError(t, knn.Fit(X, y))

	pred, err := knn.Predict(mat.NewDense(1, 2, []float64{6, 6}))
	require.NoError(t, err)
	assert.Equal(t, 1.0, pred.At(0, 0))
}

func TestKNNClassifierVoteTieBreak(t *testing.T) {
	// k=2 with one neighbor from each class: the tie goes to the smaller
	// label
	X := mat.NewDense(2, 1, []float64{0, 2})
	y := mat.NewDense(2, 1, []float64{3, 7})

	knn := NewKNNClassifier(WithNNeighbors(2))
	require.NoError(t, knn.Fit(X, y))

	pred, err := knn.Predict(mat.NewDense(1, 1, []float64{1}))
	require.NoError(t, err)
	assert.Equal(t, 3.0, pred.At(0, 0))
}

func TestKNNClassifierValidation(t *testing.T) {
	X, y := clusterData()

	// k larger than the training set
	knn := NewKNNClassifier(WithNNeighbors(100))
	require.Error(t, knn.Fit(X, y))

	// predict before fit
	fresh := NewKNNClassifier()
	_, err := fresh.Predict(X)
	require.Error(t, err)
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))

	// wrong feature count
	fitted := NewKNNClassifier(WithNNeighbors(3))
	require.NoError(t, fitted.Fit(X, y))
	_, err = fitted.Predict(mat.NewDense(1, 3, []float64{1, 2, 3}))
	require.Error(t, err)
	var de *errors.DimensionError
	assert.True(t, errors.As(err, &de))
}

func TestDistanceFuncs(t *testing.T) {
	a := []float64{0, 0}
	b := []float64{3, 4}

	assert.InDelta(t, 5.0, EuclideanDistance(a, b), 1e-10)
	assert.InDelta(t, 7.0, ManhattanDistance(a, b), 1e-10)
	assert.True(t, math.Abs(EuclideanDistance(a, a)) < 1e-15)
}
