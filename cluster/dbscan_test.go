package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestDBSCANTwoClustersAndNoise(t *testing.T) {
	// two dense groups plus one isolated point
	X := mat.NewDense(9, 2, []float64{
		0.0, 0.0,
		0.1, 0.0,
		0.0, 0.1,
		0.1, 0.1,
		5.0, 5.0,
		5.1, 5.0,
		5.0, 5.1,
		5.1, 5.1,
		50.0, 50.0,
	})

	db := NewDBSCAN(WithEps(0.3), WithMinSamples(3))
	labels, err := db.FitPredict(X)
	require.NoError(t, err)
	require.Len(t, labels, 9)

	assert.Equal(t, 2, db.NClusters())

	for i := 1; i < 4; i++ {
		assert.Equal(t, labels[0], labels[i])
	}
	for i := 5; i < 8; i++ {
		assert.Equal(t, labels[4], labels[i])
	}
	assert.NotEqual(t, labels[0], labels[4])
	assert.Equal(t, NoiseLabel, labels[8])
}

func TestDBSCANAllNoise(t *testing.T) {
	// every point farther than eps from its nearest neighbor
	X := mat.NewDense(4, 2, []float64{
		0, 0,
		10, 0,
		0, 10,
		10, 10,
	})

	db := NewDBSCAN(WithEps(1), WithMinSamples(2))
	labels, err := db.FitPredict(X)
	require.NoError(t, err)

	assert.Equal(t, 0, db.NClusters())
	for i, l := range labels {
		assert.Equal(t, NoiseLabel, l, "point %d", i)
	}
	assert.Empty(t, db.CoreSampleIndices())
}

func TestDBSCANSingleCluster(t *testing.T) {
	X := mat.NewDense(5, 1, []float64{0, 0.1, 0.2, 0.3, 0.4})

	db := NewDBSCAN(WithEps(0.15), WithMinSamples(2))
	labels, err := db.FitPredict(X)
	require.NoError(t, err)

	assert.Equal(t, 1, db.NClusters())
	for _, l := range labels {
		assert.Equal(t, 0, l)
	}
	assert.Len(t, db.CoreSampleIndices(), 5)
}

func TestDBSCANBorderPoint(t *testing.T) {
	// the middle point is within eps of the dense group but has too few
	// neighbors to be core itself
	X := mat.NewDense(5, 1, []float64{0, 0.1, 0.2, 0.65, 5})

	db := NewDBSCAN(WithEps(0.5), WithMinSamples(3))
	labels, err := db.FitPredict(X)
	require.NoError(t, err)

	assert.Equal(t, 1, db.NClusters())
	assert.Equal(t, labels[0], labels[3], "border point joins the cluster")
	assert.Equal(t, NoiseLabel, labels[4])
}

func TestDBSCANValidation(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{0, 1})

	err := NewDBSCAN(WithEps(0)).Fit(X)
	require.Error(t, err)

	err = NewDBSCAN(WithMinSamples(0)).Fit(X)
	require.Error(t, err)
}
