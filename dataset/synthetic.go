// Package dataset provides the small datasets the walkthroughs train on:
// synthetic generators modeled after scikit-learn's toy dataset helpers,
// and a CSV loader for on-disk data.
package dataset

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/skuroda/mlnotes/pkg/errors"
)

// MakeRegression samples nSamples points of a noisy linear signal
// y = X*coef + intercept + N(0, noise). It returns the feature matrix,
// the target vector, and the true coefficients used to generate it.
func MakeRegression(nSamples, nFeatures int, noise float64, seed int64) (*mat.Dense, *mat.VecDense, []float64, error) {
	if nSamples <= 0 || nFeatures <= 0 {
		return nil, nil, nil, errors.NewValueError("MakeRegression", "nSamples and nFeatures must be positive")
	}
	if noise < 0 {
		return nil, nil, nil, errors.NewValueError("MakeRegression", "noise must be non-negative")
	}

	rng := rand.New(rand.NewSource(seed))

	coef := make([]float64, nFeatures)
	for j := range coef {
		// coefficients in [-10, 10), away from zero often enough to
		// make the fitted line visible on the article's plot
		coef[j] = rng.Float64()*20 - 10
	}
	intercept := rng.Float64()*10 - 5

	X := mat.NewDense(nSamples, nFeatures, nil)
	y := mat.NewVecDense(nSamples, nil)
	for i := 0; i < nSamples; i++ {
		target := intercept
		for j := 0; j < nFeatures; j++ {
			v := rng.Float64()*4 - 2
			X.Set(i, j, v)
			target += coef[j] * v
		}
		y.SetVec(i, target+rng.NormFloat64()*noise)
	}

	return X, y, coef, nil
}

// MakeMoons returns nSamples points sampled from two interleaved half
// circles plus gaussian noise, with binary labels. Modeled after
// scikit-learn's make_moons.
func MakeMoons(nSamples int, noise float64, seed int64) (*mat.Dense, []int, error) {
	if nSamples < 2 {
		return nil, nil, errors.NewValueError("MakeMoons", "nSamples must be at least 2")
	}

	rng := rand.New(rand.NewSource(seed))

	nOuter := nSamples / 2
	nInner := nSamples - nOuter

	X := mat.NewDense(nSamples, 2, nil)
	labels := make([]int, nSamples)

	for i := 0; i < nOuter; i++ {
		angle := math.Pi * float64(i) / math.Max(1, float64(nOuter-1))
		X.Set(i, 0, math.Cos(angle)+rng.NormFloat64()*noise)
		X.Set(i, 1, math.Sin(angle)+rng.NormFloat64()*noise)
		labels[i] = 0
	}
	for i := 0; i < nInner; i++ {
		angle := math.Pi * float64(i) / math.Max(1, float64(nInner-1))
		X.Set(nOuter+i, 0, 1-math.Cos(angle)+rng.NormFloat64()*noise)
		X.Set(nOuter+i, 1, 0.5-math.Sin(angle)+rng.NormFloat64()*noise)
		labels[nOuter+i] = 1
	}

	shuffle(X, labels, nil, rng)
	return X, labels, nil
}

// MakeBlobs samples isotropic gaussian clusters. centers rows are the
// cluster means; every cluster gets an equal share of the samples (the
// first clusters pick up the remainder).
func MakeBlobs(nSamples int, centers [][]float64, clusterStd float64, seed int64) (*mat.Dense, []int, error) {
	if nSamples <= 0 {
		return nil, nil, errors.NewValueError("MakeBlobs", "nSamples must be positive")
	}
	if len(centers) == 0 {
		return nil, nil, errors.NewValueError("MakeBlobs", "centers must not be empty")
	}
	nFeatures := len(centers[0])
	for _, c := range centers {
		if len(c) != nFeatures {
			return nil, nil, errors.NewValueError("MakeBlobs", "all centers must have the same dimension")
		}
	}

	rng := rand.New(rand.NewSource(seed))

	X := mat.NewDense(nSamples, nFeatures, nil)
	labels := make([]int, nSamples)

	k := len(centers)
	base := nSamples / k
	rem := nSamples % k

	row := 0
	for c := 0; c < k; c++ {
		count := base
		if c < rem {
			count++
		}
		for i := 0; i < count; i++ {
			for j := 0; j < nFeatures; j++ {
				X.Set(row, j, centers[c][j]+rng.NormFloat64()*clusterStd)
			}
			labels[row] = c
			row++
		}
	}

	shuffle(X, labels, nil, rng)
	return X, labels, nil
}

// MakeAnomalies samples a gaussian inlier cloud around the origin plus
// uniformly scattered outliers. Labels are +1 for inliers and -1 for
// outliers, matching the convention of anomaly detectors.
func MakeAnomalies(nInliers, nOutliers, nFeatures int, seed int64) (*mat.Dense, []int, error) {
	if nInliers <= 0 || nOutliers < 0 || nFeatures <= 0 {
		return nil, nil, errors.NewValueError("MakeAnomalies", "invalid sample or feature count")
	}

	rng := rand.New(rand.NewSource(seed))

	n := nInliers + nOutliers
	X := mat.NewDense(n, nFeatures, nil)
	labels := make([]int, n)

	for i := 0; i < nInliers; i++ {
		for j := 0; j < nFeatures; j++ {
			X.Set(i, j, rng.NormFloat64())
		}
		labels[i] = 1
	}
	// outliers land well outside the ±3σ ball of the inlier cloud
	for i := nInliers; i < n; i++ {
		for j := 0; j < nFeatures; j++ {
			v := rng.Float64()*4 + 4
			if rng.Float64() < 0.5 {
				v = -v
			}
			X.Set(i, j, v)
		}
		labels[i] = -1
	}

	shuffle(X, labels, nil, rng)
	return X, labels, nil
}

// shuffle permutes the rows of X together with the int labels and the
// optional target vector, in place.
func shuffle(X *mat.Dense, labels []int, y *mat.VecDense, rng *rand.Rand) {
	r, c := X.Dims()
	tmp := make([]float64, c)
	rng.Shuffle(r, func(i, j int) {
		mat.Row(tmp, i, X)
		for k := 0; k < c; k++ {
			X.Set(i, k, X.At(j, k))
			X.Set(j, k, tmp[k])
		}
		if labels != nil {
			labels[i], labels[j] = labels[j], labels[i]
		}
		if y != nil {
			vi, vj := y.AtVec(i), y.AtVec(j)
			y.SetVec(i, vj)
			y.SetVec(j, vi)
		}
	})
}
