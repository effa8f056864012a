package dataset

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/skuroda/mlnotes/pkg/errors"
)

// TrainTestSplit shuffles the rows of X and y together and splits them
// into a training and a test portion. testFrac is the fraction of rows
// that go to the test set; both sides always get at least one row.
func TrainTestSplit(X mat.Matrix, y *mat.VecDense, testFrac float64, seed int64) (XTrain, XTest *mat.Dense, yTrain, yTest *mat.VecDense, err error) {
	r, c := X.Dims()
	if r < 2 {
		return nil, nil, nil, nil, errors.NewValueError("TrainTestSplit", "need at least 2 rows to split")
	}
	if y != nil && y.Len() != r {
		return nil, nil, nil, nil, errors.NewDimensionError("TrainTestSplit", r, y.Len(), 0)
	}
	if testFrac <= 0 || testFrac >= 1 {
		return nil, nil, nil, nil, errors.NewValueError("TrainTestSplit", "testFrac must be in (0, 1)")
	}

	nTest := int(float64(r) * testFrac)
	if nTest == 0 {
		nTest = 1
	}
	if nTest == r {
		nTest = r - 1
	}
	nTrain := r - nTest

	perm := rand.New(rand.NewSource(seed)).Perm(r)

	XTrain = mat.NewDense(nTrain, c, nil)
	XTest = mat.NewDense(nTest, c, nil)
	if y != nil {
		yTrain = mat.NewVecDense(nTrain, nil)
		yTest = mat.NewVecDense(nTest, nil)
	}

	for i, src := range perm {
		if i < nTrain {
			for j := 0; j < c; j++ {
				XTrain.Set(i, j, X.At(src, j))
			}
			if y != nil {
				yTrain.SetVec(i, y.AtVec(src))
			}
		} else {
			for j := 0; j < c; j++ {
				XTest.Set(i-nTrain, j, X.At(src, j))
			}
			if y != nil {
				yTest.SetVec(i-nTrain, y.AtVec(src))
			}
		}
	}

	return XTrain, XTest, yTrain, yTest, nil
}
