// Package svm implements a linear support vector classifier trained with
// stochastic subgradient descent.
package svm

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/skuroda/mlnotes/core/model"
	"github.com/skuroda/mlnotes/pkg/errors"
	"github.com/skuroda/mlnotes/pkg/log"
)

// LinearSVC is a binary linear SVM minimizing the L2-regularized hinge
// loss with Pegasos-style stochastic subgradient descent:
//
//	min_w  λ/2·‖w‖² + 1/n Σ max(0, 1 - y_i(w·x_i + b))
//
// The two class labels found in y are mapped to -1 and +1 in sorted
// order. Multiclass is out of scope here; the walkthrough's dataset is
// two interleaved moons.
type LinearSVC struct {
	model.BaseEstimator

	// Hyperparameters
	lambda      float64 // regularization strength
	maxEpochs   int     // passes over the shuffled training set
	randomState int64   // shuffle seed

	// Learned parameters
	Weights   []float64
	Intercept float64

	classes_  []int
	nFeatures int
}

// SVCOption configures LinearSVC.
type SVCOption func(*LinearSVC)

// WithLambda sets the regularization strength.
func WithLambda(lambda float64) SVCOption {
	return func(svc *LinearSVC) {
		svc.lambda = lambda
	}
}

// WithMaxEpochs sets the number of passes over the training set.
func WithMaxEpochs(n int) SVCOption {
	return func(svc *LinearSVC) {
		svc.maxEpochs = n
	}
}

// WithRandomState sets the shuffle seed.
func WithRandomState(seed int64) SVCOption {
	return func(svc *LinearSVC) {
		svc.randomState = seed
	}
}

// NewLinearSVC creates a LinearSVC with default hyperparameters.
func NewLinearSVC(options ...SVCOption) *LinearSVC {
	svc := &LinearSVC{
		lambda:      1e-3,
		maxEpochs:   100,
		randomState: 42,
	}
	for _, opt := range options {
		opt(svc)
	}
	return svc
}

// Fit trains the classifier. y must be a column vector containing
// exactly two distinct integer labels.
func (svc *LinearSVC) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("LinearSVC.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("LinearSVC.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("LinearSVC.Fit", "y must be a column vector")
	}
	if svc.lambda <= 0 {
		return errors.NewValueError("LinearSVC.Fit", "lambda must be positive")
	}

	// map the two observed labels to -1/+1 in sorted order
	seen := map[int]bool{}
	for i := 0; i < r; i++ {
		seen[int(y.At(i, 0))] = true
	}
	if len(seen) != 2 {
		return errors.Newf("mlnotes: LinearSVC.Fit: need exactly 2 classes, got %d", len(seen))
	}
	classes := make([]int, 0, 2)
	for label := range seen {
		classes = append(classes, label)
	}
	sort.Ints(classes)
	svc.classes_ = classes

	signs := make([]float64, r)
	for i := 0; i < r; i++ {
		if int(y.At(i, 0)) == classes[0] {
			signs[i] = -1
		} else {
			signs[i] = 1
		}
	}

	rng := rand.New(rand.NewSource(svc.randomState))
	weights := make([]float64, c)
	intercept := 0.0

	order := rng.Perm(r)
	row := make([]float64, c)
	t := 0
	for epoch := 0; epoch < svc.maxEpochs; epoch++ {
		rng.Shuffle(r, func(i, j int) { order[i], order[j] = order[j], order[i] })

		for _, idx := range order {
			t++
			eta := 1.0 / (svc.lambda * float64(t))

			mat.Row(row, idx, X)
			margin := intercept
			for j := 0; j < c; j++ {
				margin += weights[j] * row[j]
			}
			margin *= signs[idx]

			// subgradient step: shrink always, push only when the
			// margin constraint is violated
			for j := 0; j < c; j++ {
				weights[j] *= 1 - eta*svc.lambda
			}
			if margin < 1 {
				for j := 0; j < c; j++ {
					weights[j] += eta * signs[idx] * row[j]
				}
				intercept += eta * signs[idx]
			}
		}
	}

	for j := 0; j < c; j++ {
		if math.IsNaN(weights[j]) || math.IsInf(weights[j], 0) {
			return errors.NewNumericalInstabilityError("pegasos_update", weights, svc.maxEpochs)
		}
	}

	svc.Weights = weights
	svc.Intercept = intercept
	svc.nFeatures = c

	log.GetLogger().Debug("linear svc fit complete",
		log.ModelKey, "LinearSVC",
		log.SamplesKey, r,
		log.FeaturesKey, c,
		"epochs", svc.maxEpochs,
	)

	svc.SetDimensions(r, c)
	svc.SetFitted()
	return nil
}

// DecisionFunction returns the signed distance w·x + b for each row.
func (svc *LinearSVC) DecisionFunction(X mat.Matrix) ([]float64, error) {
	if !svc.IsFitted() {
		return nil, errors.NewNotFittedError("LinearSVC", "DecisionFunction")
	}

	r, c := X.Dims()
	if c != svc.nFeatures {
		return nil, errors.NewDimensionError("LinearSVC.DecisionFunction", svc.nFeatures, c, 1)
	}

	scores := make([]float64, r)
	for i := 0; i < r; i++ {
		s := svc.Intercept
		for j := 0; j < c; j++ {
			s += svc.Weights[j] * X.At(i, j)
		}
		scores[i] = s
	}
	return scores, nil
}

// Predict returns the class label for each row of X.
func (svc *LinearSVC) Predict(X mat.Matrix) (mat.Matrix, error) {
	scores, err := svc.DecisionFunction(X)
	if err != nil {
		return nil, err
	}

	predictions := mat.NewDense(len(scores), 1, nil)
	for i, s := range scores {
		if s >= 0 {
			predictions.Set(i, 0, float64(svc.classes_[1]))
		} else {
			predictions.Set(i, 0, float64(svc.classes_[0]))
		}
	}
	return predictions, nil
}

// Score returns the accuracy on X against the true labels y.
func (svc *LinearSVC) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := svc.Predict(X)
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

// Classes returns the two class labels in sorted order.
func (svc *LinearSVC) Classes() []int {
	classes := make([]int, len(svc.classes_))
	copy(classes, svc.classes_)
	return classes
}

// GetParams returns the classifier's hyperparameters.
func (svc *LinearSVC) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"lambda":       svc.lambda,
		"max_epochs":   svc.maxEpochs,
		"random_state": svc.randomState,
	}
}
